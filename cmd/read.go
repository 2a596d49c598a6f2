package cmd

import (
	"log"
	"os"

	"github.com/findy-network/findy-agent-vcx/cmds/connection"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

var readEnvs = map[string]string{
	"connection-id": "CONNECTION_ID",
}

// readCmd represents the connection read subcommand
var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Command for reading the connection's queued messages",
	Long: `
Command for reading the connection's queued messages from the relay.

Prints fresh messages by default. --all includes the acknowledged ones,
--ack marks the printed fresh messages processed so the next read and
the update rounds skip them.

Example
	findy-agent-vcx connection read \
		--data-dir /data/alice \
		--data-key 15308490f1e4...c730d0daf6ff87bb92d4336c \
		--connection-id my_connection_id \
		--ack
`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(readEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		rdCmd.Cmd = BaseCmd()
		try.To(rdCmd.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(rdCmd.Exec(os.Stdout))
		}
		return nil
	},
}

var rdCmd = connection.ReadCmd{}

func init() {
	defer err2.Catch(err2.Err(func(err error) {
		log.Println(err)
	}))

	f := readCmd.Flags()
	f.StringVar(&rdCmd.ID, "connection-id", "", flagInfo("connection id", readCmd.Name(), readEnvs["connection-id"]))
	f.BoolVar(&rdCmd.All, "all", false, "read acknowledged messages too")
	f.BoolVar(&rdCmd.Ack, "ack", false, "mark read messages processed on the relay")
	try.To(readCmd.RegisterFlagCompletionFunc("connection-id", connIDCompletion))

	connectionCmd.AddCommand(readCmd)
}
