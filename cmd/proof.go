package cmd

import (
	"log"
	"os"

	"github.com/findy-network/findy-agent-vcx/cmds/proof"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

var proofEnvs = map[string]string{
	"data-dir":   "DATA_DIR",
	"data-key":   "DATA_KEY",
	"agency-url": "AGENCY_URL",
}

// proofCmd represents the proof command
var proofCmd = &cobra.Command{
	Use:   "proof",
	Short: "Parent command for presenting proofs",
	Long: `
Parent command for presenting proofs.

This command requires a subcommand so command itself does nothing.
A proof exchange answers a verifier's proof request waiting on the
connection's relay queue and is addressed by the connection id.
`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(proofEnvs, cmd.Name())
	},
	Run: func(cmd *cobra.Command, args []string) {
		SubCmdNeeded(cmd)
	},
}

var prepareEnvs = map[string]string{
	"connection-id": "CONNECTION_ID",
	"credentials":   "CREDENTIALS",
}

// prepareCmd represents the proof prepare subcommand
var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Command for preparing a presentation to a proof request",
	Long: `
Command for preparing a presentation.

Picks the proof request from the connection's relay queue and builds
the presentation from the given credentials. A failing build is stored
too; send delivers the problem report then.

Example
	findy-agent-vcx proof prepare \
		--data-dir /data/bob \
		--data-key 15308490f1e4...c730d0daf6ff87bb92d4336c \
		--connection-id my_connection_id \
		--credentials '{"attr1_referent":"cred-id-1"}'
`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(prepareEnvs, "PROOF")
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		prCmd.Cmd = BaseCmd()
		try.To(prCmd.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(prCmd.Exec(os.Stdout))
		}
		return nil
	},
}

var proofSendEnvs = map[string]string{
	"connection-id": "CONNECTION_ID",
}

// proofSendCmd represents the proof send subcommand
var proofSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Command for sending the prepared presentation",
	Long: `
Command for delivering the prepared outcome of the proof exchange: the
presentation, or the problem report when preparation failed.

Example
	findy-agent-vcx proof send \
		--data-dir /data/bob \
		--data-key 15308490f1e4...c730d0daf6ff87bb92d4336c \
		--connection-id my_connection_id
`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(proofSendEnvs, "PROOF")
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		psCmd.Cmd = BaseCmd()
		try.To(psCmd.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(psCmd.Exec(os.Stdout))
		}
		return nil
	},
}

var rejectEnvs = map[string]string{
	"connection-id": "CONNECTION_ID",
	"reason":        "REASON",
}

// rejectCmd represents the proof reject subcommand
var rejectCmd = &cobra.Command{
	Use:   "reject",
	Short: "Command for rejecting a proof request",
	Long: `
Command for declining the proof request of the exchange with a problem
report. The exchange closes as failed. Valid until the presentation is
sent.

Example
	findy-agent-vcx proof reject \
		--data-dir /data/bob \
		--data-key 15308490f1e4...c730d0daf6ff87bb92d4336c \
		--connection-id my_connection_id \
		--reason "not sharing"
`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(rejectEnvs, "PROOF")
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		rejCmd.Cmd = BaseCmd()
		try.To(rejCmd.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(rejCmd.Exec(os.Stdout))
		}
		return nil
	},
}

var (
	prCmd  = proof.PrepareCmd{}
	psCmd  = proof.SendCmd{}
	rejCmd = proof.RejectCmd{}
)

func init() {
	defer err2.Catch(err2.Err(func(err error) {
		log.Println(err)
	}))

	flags := proofCmd.PersistentFlags()
	flags.StringVar(&cFlags.DataDir, "data-dir", "", flagInfo("agent data dir", proofCmd.Name(), proofEnvs["data-dir"]))
	flags.StringVar(&cFlags.DataKey, "data-key", "", flagInfo("agent data key", proofCmd.Name(), proofEnvs["data-key"]))
	flags.StringVar(&cFlags.URL, "agency-url", "http://localhost:8080", flagInfo("relay base address", proofCmd.Name(), proofEnvs["agency-url"]))

	p := prepareCmd.Flags()
	p.StringVar(&prCmd.ID, "connection-id", "", flagInfo("connection id", proofCmd.Name(), prepareEnvs["connection-id"]))
	p.StringVar(&prCmd.Credentials, "credentials", "", flagInfo("requested referents to credential values as json object", proofCmd.Name(), prepareEnvs["credentials"]))

	s := proofSendCmd.Flags()
	s.StringVar(&psCmd.ID, "connection-id", "", flagInfo("connection id", proofCmd.Name(), proofSendEnvs["connection-id"]))

	r := rejectCmd.Flags()
	r.StringVar(&rejCmd.ID, "connection-id", "", flagInfo("connection id", proofCmd.Name(), rejectEnvs["connection-id"]))
	r.StringVar(&rejCmd.Reason, "reason", "", flagInfo("reason sent to the verifier", proofCmd.Name(), rejectEnvs["reason"]))

	for _, c := range []*cobra.Command{prepareCmd, proofSendCmd, rejectCmd} {
		try.To(c.RegisterFlagCompletionFunc("connection-id", connIDCompletion))
	}

	rootCmd.AddCommand(proofCmd)
	proofCmd.AddCommand(prepareCmd)
	proofCmd.AddCommand(proofSendCmd)
	proofCmd.AddCommand(rejectCmd)
}
