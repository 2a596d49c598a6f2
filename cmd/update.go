package cmd

import (
	"log"
	"os"

	"github.com/findy-network/findy-agent-vcx/cmds/connection"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

var updateEnvs = map[string]string{
	"connection-id": "CONNECTION_ID",
}

// updateCmd represents the connection update subcommand
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Command for updating connection state from the relay",
	Long: `
Command for updating connection state.

Downloads the connection's queued messages from the relay and folds at
most one into a state transition. Run repeatedly until the connection
reports Completed.

Example
	findy-agent-vcx connection update \
		--data-dir /data/alice \
		--data-key 15308490f1e4...c730d0daf6ff87bb92d4336c \
		--connection-id my_connection_id
`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(updateEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		upCmd.Cmd = BaseCmd()
		try.To(upCmd.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(upCmd.Exec(os.Stdout))
		}
		return nil
	},
}

var upCmd = connection.UpdateCmd{}

func init() {
	defer err2.Catch(err2.Err(func(err error) {
		log.Println(err)
	}))

	f := updateCmd.Flags()
	f.StringVar(&upCmd.ID, "connection-id", "", flagInfo("connection id", updateCmd.Name(), updateEnvs["connection-id"]))
	try.To(updateCmd.RegisterFlagCompletionFunc("connection-id", connIDCompletion))

	connectionCmd.AddCommand(updateCmd)
}
