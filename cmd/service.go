package cmd

import (
	"log"
	"os"
	"time"

	"github.com/findy-network/findy-agent-vcx/cmds/service"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

var serviceEnvs = map[string]string{
	"data-dir":   "DATA_DIR",
	"data-key":   "DATA_KEY",
	"agency-url": "AGENCY_URL",
	"interval":   "INTERVAL",
	"max-rounds": "MAX_ROUNDS",
}

// serviceCmd represents the service command
var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Command for running the update service",
	Long: `
Command for running the update service.

Runs scheduled update rounds that advance every stored exchange from
its relay queue: connections, credential issuances, and proofs. Serves
until interrupted, or runs --max-rounds rounds and returns when set.

Example
	findy-agent-vcx service \
		--data-dir /data/alice \
		--data-key 15308490f1e4...c730d0daf6ff87bb92d4336c \
		--interval 3s
`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(serviceEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		svcCmd.Cmd = BaseCmd()
		try.To(svcCmd.Validate())
		if !rootFlags.dryRun {
			cmd.SilenceUsage = true
			try.To1(svcCmd.Exec(os.Stdout))
		}
		return nil
	},
}

var svcCmd = service.ServiceCmd{}

func init() {
	defer err2.Catch(err2.Err(func(err error) {
		log.Println(err)
	}))

	f := serviceCmd.Flags()
	f.StringVar(&cFlags.DataDir, "data-dir", "", flagInfo("agent data dir", serviceCmd.Name(), serviceEnvs["data-dir"]))
	f.StringVar(&cFlags.DataKey, "data-key", "", flagInfo("agent data key", serviceCmd.Name(), serviceEnvs["data-key"]))
	f.StringVar(&cFlags.URL, "agency-url", "http://localhost:8080", flagInfo("relay base address", serviceCmd.Name(), serviceEnvs["agency-url"]))
	f.DurationVar(&svcCmd.Interval, "interval", 3*time.Second, flagInfo("duration between update rounds", serviceCmd.Name(), serviceEnvs["interval"]))
	f.IntVar(&svcCmd.MaxRounds, "max-rounds", 0, flagInfo("run this many rounds and return, 0 serves forever", serviceCmd.Name(), serviceEnvs["max-rounds"]))

	rootCmd.AddCommand(serviceCmd)
}
