package cmd

import (
	"log"
	"os"

	"github.com/findy-network/findy-agent-vcx/cmds/issue"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

var issueEnvs = map[string]string{
	"data-dir":   "DATA_DIR",
	"data-key":   "DATA_KEY",
	"agency-url": "AGENCY_URL",
}

// issueCmd represents the issue command
var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Parent command for issuing credentials",
	Long: `
Parent command for issuing credentials.

This command requires a subcommand so command itself does nothing.
A credential exchange runs over a Completed connection and is addressed
by the connection id.
`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(issueEnvs, cmd.Name())
	},
	Run: func(cmd *cobra.Command, args []string) {
		SubCmdNeeded(cmd)
	},
}

var offerEnvs = map[string]string{
	"connection-id": "CONNECTION_ID",
	"cred-def-id":   "CRED_DEF_ID",
	"attributes":    "ATTRIBUTES",
	"rev-reg-id":    "REV_REG_ID",
	"tails-file":    "TAILS_FILE",
}

// offerCmd represents the issue offer subcommand
var offerCmd = &cobra.Command{
	Use:   "offer",
	Short: "Command for offering a new credential",
	Long: `
Command for starting a credential exchange.

Builds the credential offer and sends it to the holder over the
connection. Update rounds fold the holder's request in; the credential
itself is issued with the send subcommand.

Example
	findy-agent-vcx issue offer \
		--data-dir /data/alice \
		--data-key 15308490f1e4...c730d0daf6ff87bb92d4336c \
		--connection-id my_connection_id \
		--cred-def-id my_cred_def_id \
		--attributes '{"email":"bob@example.com"}'
`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(offerEnvs, "ISSUE")
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		ofCmd.Cmd = BaseCmd()
		try.To(ofCmd.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(ofCmd.Exec(os.Stdout))
		}
		return nil
	},
}

var issueSendEnvs = map[string]string{
	"connection-id": "CONNECTION_ID",
}

// issueSendCmd represents the issue send subcommand
var issueSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Command for issuing the credential of a requested exchange",
	Long: `
Command for issuing the credential of an exchange whose request has
arrived. Issuing is an explicit step, update rounds never do it on
their own. With --wait-ack the exchange stays open until the holder's
acknowledge arrives on an update round.

Example
	findy-agent-vcx issue send \
		--data-dir /data/alice \
		--data-key 15308490f1e4...c730d0daf6ff87bb92d4336c \
		--connection-id my_connection_id
`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(issueSendEnvs, "ISSUE")
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		isCmd.Cmd = BaseCmd()
		try.To(isCmd.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(isCmd.Exec(os.Stdout))
		}
		return nil
	},
}

var revokeEnvs = map[string]string{
	"connection-id": "CONNECTION_ID",
}

// revokeCmd represents the issue revoke subcommand
var revokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Command for revoking an issued credential",
	Long: `
Command for revoking the credential issued on the exchange.

Fails when the credential was not issued from a revocation registry or
is not issued yet.

Example
	findy-agent-vcx issue revoke \
		--data-dir /data/alice \
		--data-key 15308490f1e4...c730d0daf6ff87bb92d4336c \
		--connection-id my_connection_id
`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(revokeEnvs, "ISSUE")
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		revCmd.Cmd = BaseCmd()
		try.To(revCmd.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(revCmd.Exec(os.Stdout))
		}
		return nil
	},
}

var (
	ofCmd  = issue.OfferCmd{}
	isCmd  = issue.SendCmd{}
	revCmd = issue.RevokeCmd{}
)

func init() {
	defer err2.Catch(err2.Err(func(err error) {
		log.Println(err)
	}))

	flags := issueCmd.PersistentFlags()
	flags.StringVar(&cFlags.DataDir, "data-dir", "", flagInfo("agent data dir", issueCmd.Name(), issueEnvs["data-dir"]))
	flags.StringVar(&cFlags.DataKey, "data-key", "", flagInfo("agent data key", issueCmd.Name(), issueEnvs["data-key"]))
	flags.StringVar(&cFlags.URL, "agency-url", "http://localhost:8080", flagInfo("relay base address", issueCmd.Name(), issueEnvs["agency-url"]))

	o := offerCmd.Flags()
	o.StringVar(&ofCmd.ID, "connection-id", "", flagInfo("connection id", issueCmd.Name(), offerEnvs["connection-id"]))
	o.StringVar(&ofCmd.CredDefID, "cred-def-id", "", flagInfo("credential definition id", issueCmd.Name(), offerEnvs["cred-def-id"]))
	o.StringVar(&ofCmd.Attributes, "attributes", "", flagInfo("attributes as json object", issueCmd.Name(), offerEnvs["attributes"]))
	o.StringVar(&ofCmd.RevRegID, "rev-reg-id", "", flagInfo("revocation registry id, empty for non revocable", issueCmd.Name(), offerEnvs["rev-reg-id"]))
	o.StringVar(&ofCmd.TailsFile, "tails-file", "", flagInfo("revocation tails file path", issueCmd.Name(), offerEnvs["tails-file"]))

	s := issueSendCmd.Flags()
	s.StringVar(&isCmd.ID, "connection-id", "", flagInfo("connection id", issueCmd.Name(), issueSendEnvs["connection-id"]))
	s.BoolVar(&isCmd.WaitAck, "wait-ack", false, "ask the holder to acknowledge the credential")

	r := revokeCmd.Flags()
	r.StringVar(&revCmd.ID, "connection-id", "", flagInfo("connection id", issueCmd.Name(), revokeEnvs["connection-id"]))

	for _, c := range []*cobra.Command{offerCmd, issueSendCmd, revokeCmd} {
		try.To(c.RegisterFlagCompletionFunc("connection-id", connIDCompletion))
	}

	rootCmd.AddCommand(issueCmd)
	issueCmd.AddCommand(offerCmd)
	issueCmd.AddCommand(issueSendCmd)
	issueCmd.AddCommand(revokeCmd)
}
