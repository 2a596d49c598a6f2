package proof

import (
	"errors"
	"io"

	"github.com/findy-network/findy-agent-vcx/agent/vc"
	"github.com/findy-network/findy-agent-vcx/cmds"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

type SendCmd struct {
	cmds.Cmd
	ID string
}

func (c SendCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.ID == "" {
		return errors.New("connection id cannot be empty")
	}
	return nil
}

// Exec delivers the prepared outcome of the proof exchange: the
// presentation, or the problem report when preparation failed.
func (c SendCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "send presentation")

	try.To(c.Setup())
	defer c.Cmd.Close()

	conf := c.ConnConfig("", true)
	conn := try.To1(cmds.FindConnection(conf, c.ID))
	prover := try.To1(findProver(&vc.DevProver{}, c.ID))

	try.To(prover.SendPresentation(conn, conf.Relay.Sender(conn.Pairwise())))
	try.To(prover.Save())

	cmds.Fprintln(w, "presentation sent:", prover.State())
	return &Result{
		ID:       prover.SourceID(),
		State:    prover.State().String(),
		ThreadID: prover.ThreadID(),
	}, nil
}
