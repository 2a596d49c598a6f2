package cmd

import (
	"log"
	"os"

	"github.com/findy-network/findy-agent-vcx/cmds/connection"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

var trustpingEnvs = map[string]string{
	"connection-id": "CONNECTION_ID",
}

// trustpingCmd represents the connection trustping subcommand
var trustpingCmd = &cobra.Command{
	Use:   "trustping",
	Short: "Command for making trustping to another agent",
	Long: `
Command for making trustping to another agent.

The connection must be Completed. The peer's response arrives on a
later update round.

Example
	findy-agent-vcx connection trustping \
		--data-dir /data/alice \
		--data-key 15308490f1e4...c730d0daf6ff87bb92d4336c \
		--connection-id my_connection_id
`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(trustpingEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		tPingCmd.Cmd = BaseCmd()
		try.To(tPingCmd.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(tPingCmd.Exec(os.Stdout))
		}
		return nil
	},
}

var tPingCmd = connection.TrustPingCmd{}

func init() {
	defer err2.Catch(err2.Err(func(err error) {
		log.Println(err)
	}))

	f := trustpingCmd.Flags()
	f.StringVar(&tPingCmd.ID, "connection-id", "", flagInfo("connection id", trustpingCmd.Name(), trustpingEnvs["connection-id"]))
	f.StringVar(&tPingCmd.Comment, "comment", "ping", "comment to send with the ping")
	try.To(trustpingCmd.RegisterFlagCompletionFunc("connection-id", connIDCompletion))

	connectionCmd.AddCommand(trustpingCmd)
}
