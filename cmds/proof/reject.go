package proof

import (
	"errors"
	"io"

	"github.com/findy-network/findy-agent-vcx/agent/vc"
	"github.com/findy-network/findy-agent-vcx/cmds"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

type RejectCmd struct {
	cmds.Cmd
	ID     string
	Reason string
}

func (c RejectCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.ID == "" {
		return errors.New("connection id cannot be empty")
	}
	return nil
}

// Exec declines the proof request of the exchange with a problem
// report. The exchange closes as failed.
func (c RejectCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "reject proof request")

	try.To(c.Setup())
	defer c.Cmd.Close()

	conf := c.ConnConfig("", true)
	conn := try.To1(cmds.FindConnection(conf, c.ID))
	prover := try.To1(findProver(&vc.DevProver{}, c.ID))

	try.To(prover.Reject(conn, conf.Relay.Sender(conn.Pairwise()), c.Reason))
	try.To(prover.Save())

	cmds.Fprintln(w, "proof request rejected")
	return &Result{
		ID:       prover.SourceID(),
		State:    prover.State().String(),
		ThreadID: prover.ThreadID(),
	}, nil
}
