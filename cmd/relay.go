package cmd

import (
	"log"

	"github.com/findy-network/findy-agent-vcx/agent/utils"
	"github.com/findy-network/findy-agent-vcx/server"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

var relayEnvs = map[string]string{
	"port": "PORT",
}

// relayCmd represents the relay command
var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Command for running a development relay",
	Long: `
Command for running a development relay.

The relay queues agent to agent messages in process memory. It serves
local development and tests, nothing is persisted over a restart.

Example
	findy-agent-vcx relay --port 8080
`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(relayEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			utils.Settings.SetVersionInfo("findy-agent-vcx relay v. " + utils.Version)
			try.To(server.StartHTTPServer(relayPort))
		}
		return nil
	},
}

var relayPort uint

func init() {
	defer err2.Catch(err2.Err(func(err error) {
		log.Println(err)
	}))

	relayCmd.Flags().UintVar(&relayPort, "port", 8080, flagInfo("relay server port", relayCmd.Name(), relayEnvs["port"]))

	rootCmd.AddCommand(relayCmd)
}
