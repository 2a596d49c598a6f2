package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/findy-network/findy-agent-vcx/agent/utils"
	"github.com/findy-network/findy-agent-vcx/cmds/connection"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

var connectionEnvs = map[string]string{
	"data-dir":   "DATA_DIR",
	"data-key":   "DATA_KEY",
	"agency-url": "AGENCY_URL",
}

// connectionCmd represents the connection command
var connectionCmd = &cobra.Command{
	Use:   "connection",
	Short: "Parent command for operating pairwise connections",
	Long: `
Parent command for operating pairwise connections.

This command requires a subcommand so command itself does nothing.
Every subcommand requires --data-dir & --data-key flags to be specified.
--agency-url flag is the relay base address & it has default value of "http://localhost:8080".
`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(connectionEnvs, cmd.Name())
	},
	Run: func(cmd *cobra.Command, args []string) {
		SubCmdNeeded(cmd)
	},
}

var inviteEnvs = map[string]string{
	"connection-id": "CONNECTION_ID",
	"label":         "LABEL",
}

// inviteCmd represents the connection invite subcommand
var inviteCmd = &cobra.Command{
	Use:   "invite",
	Short: "Command for creating an invitation to a new connection",
	Long: `
Command for creating an invitation to a new pairwise connection.

Prints the invitation json for out-of-band delivery to the peer. The
connection waits in Invited state, update rounds fold the peer's
connection request in when it arrives.

Example
	findy-agent-vcx connection invite \
		--data-dir /data/alice \
		--data-key 15308490f1e4...c730d0daf6ff87bb92d4336c \
		--label Alice
`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(inviteEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		if invCmd.ID == "" {
			invCmd.ID = utils.UUID()
		}
		invCmd.Cmd = BaseCmd()
		try.To(invCmd.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(invCmd.Exec(os.Stdout))
			fmt.Println("connection id:", invCmd.ID)
		}
		return nil
	},
}

var joinEnvs = map[string]string{
	"connection-id": "CONNECTION_ID",
	"label":         "LABEL",
}

// joinCmd represents the connection join subcommand
var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "Command for joining an invitation from another agent",
	Long: `
Command for joining a connection invitation.

To use invitation file, pass file as command argument.
E.g. findy-agent-vcx connection join path/to/invitationFile

You can also read invitation json from standard input.
E.g. findy-agent-vcx connection join -

Example
	findy-agent-vcx connection join invitation.json \
		--data-dir /data/bob \
		--data-key 15308490f1e4...c730d0daf6ff87bb92d4336c \
		--label Bob
`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(joinEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		if len(args) > 0 {
			if args[0] == "-" {
				try.To(readInvitation(os.Stdin))
			} else {
				f := try.To1(os.Open(args[0]))
				defer f.Close()
				try.To(readInvitation(f))
			}
		}
		if jCmd.ID == "" {
			jCmd.ID = utils.UUID()
		}
		jCmd.Cmd = BaseCmd()
		try.To(jCmd.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(jCmd.Exec(os.Stdout))
			fmt.Println("connection id:", jCmd.ID)
		}
		return nil
	},
}

// readInvitation reads invitation json and parses it to joinCmd's invitation.
func readInvitation(r io.Reader) (err error) {
	defer err2.Handle(&err)
	d := try.To1(io.ReadAll(r))
	fmt.Println(string(d))
	try.To(json.Unmarshal(d, &jCmd.Invitation))
	return nil
}

var (
	invCmd = connection.InviteCmd{}
	jCmd   = connection.JoinCmd{}
)

func init() {
	defer err2.Catch(err2.Err(func(err error) {
		log.Println(err)
	}))

	flags := connectionCmd.PersistentFlags()
	flags.StringVar(&cFlags.DataDir, "data-dir", "", flagInfo("agent data dir", connectionCmd.Name(), connectionEnvs["data-dir"]))
	flags.StringVar(&cFlags.DataKey, "data-key", "", flagInfo("agent data key", connectionCmd.Name(), connectionEnvs["data-key"]))
	flags.StringVar(&cFlags.URL, "agency-url", "http://localhost:8080", flagInfo("relay base address", connectionCmd.Name(), connectionEnvs["agency-url"]))

	i := inviteCmd.Flags()
	i.StringVar(&invCmd.ID, "connection-id", "", flagInfo("connection id, generated when empty", inviteCmd.Name(), inviteEnvs["connection-id"]))
	i.StringVar(&invCmd.Label, "label", "", flagInfo("invitation label", inviteCmd.Name(), inviteEnvs["label"]))

	j := joinCmd.Flags()
	j.StringVar(&jCmd.ID, "connection-id", "", flagInfo("connection id, generated when empty", joinCmd.Name(), joinEnvs["connection-id"]))
	j.StringVar(&jCmd.Label, "label", "", flagInfo("label shown to the peer", joinCmd.Name(), joinEnvs["label"]))

	rootCmd.AddCommand(connectionCmd)
	connectionCmd.AddCommand(inviteCmd)
	connectionCmd.AddCommand(joinCmd)
}
