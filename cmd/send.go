package cmd

import (
	"log"
	"os"

	"github.com/findy-network/findy-agent-vcx/cmds/connection"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

var sendEnvs = map[string]string{
	"connection-id": "CONNECTION_ID",
	"msg":           "MSG",
}

// sendCmd represents the connection send subcommand
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Command for sending basic message to another agent",
	Long: `
Command for sending basic message to another agent.

The connection must be Completed. The peer reads the message from its
relay queue with the read command.

Example
	findy-agent-vcx connection send \
		--data-dir /data/alice \
		--data-key 15308490f1e4...c730d0daf6ff87bb92d4336c \
		--connection-id my_connection_id \
		--msg "hello bob"
`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(sendEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		bmCmd.Cmd = BaseCmd()
		try.To(bmCmd.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(bmCmd.Exec(os.Stdout))
		}
		return nil
	},
}

var bmCmd = connection.BasicMsgCmd{}

func init() {
	defer err2.Catch(err2.Err(func(err error) {
		log.Println(err)
	}))

	f := sendCmd.Flags()
	f.StringVar(&bmCmd.ID, "connection-id", "", flagInfo("connection id", sendCmd.Name(), sendEnvs["connection-id"]))
	f.StringVar(&bmCmd.Message, "msg", "", flagInfo("message to be send", sendCmd.Name(), sendEnvs["msg"]))
	try.To(sendCmd.RegisterFlagCompletionFunc("connection-id", connIDCompletion))

	connectionCmd.AddCommand(sendCmd)
}
