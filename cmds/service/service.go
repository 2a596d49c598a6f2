// Package service implements the update service command: scheduled
// rounds that advance every stored exchange from its relay queue.
package service

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/findy-network/findy-agent-vcx/agent/updater"
	"github.com/findy-network/findy-agent-vcx/agent/vc"
	"github.com/findy-network/findy-agent-vcx/cmds"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

type ServiceCmd struct {
	cmds.Cmd
	Interval time.Duration

	// MaxRounds runs this many rounds synchronously and returns instead
	// of scheduling. Zero serves until interrupted.
	MaxRounds int
}

func (c ServiceCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.Interval <= 0 {
		return errors.New("interval must be positive")
	}
	return nil
}

type ServiceResult struct {
	Rounds   int `json:"rounds"`
	Advanced int `json:"advanced"`
}

func (r ServiceResult) JSON() ([]byte, error) {
	return json.Marshal(&r)
}

// Exec serves update rounds for every exchange in the store. With
// MaxRounds set the rounds run inline, otherwise they are scheduled on
// the interval until SIGINT or SIGTERM.
func (c ServiceCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "update service")

	try.To(c.Setup())
	defer c.Cmd.Close()

	u := updater.New(updater.Config{
		ConnConf: c.ConnConfig("", true),
		Issuer:   &vc.DevIssuer{},
		Prover:   &vc.DevProver{},
	})

	if c.MaxRounds > 0 {
		result := &ServiceResult{}
		for i := 0; i < c.MaxRounds; i++ {
			if i > 0 {
				time.Sleep(c.Interval)
			}
			stats := try.To1(u.Round())
			result.Rounds++
			result.Advanced += stats.Changed()
		}
		cmds.Fprintln(w, "rounds done, machines advanced:", result.Advanced)
		return result, nil
	}

	try.To(u.Start(c.Interval))
	defer u.Stop()
	cmds.Fprintln(w, "update service started, interval", c.Interval)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cmds.Fprintln(w, "update service stopped")
	return &ServiceResult{}, nil
}
