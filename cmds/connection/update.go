package connection

import (
	"errors"
	"io"

	"github.com/findy-network/findy-agent-vcx/cmds"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

type UpdateCmd struct {
	cmds.Cmd
	ID string
}

func (c UpdateCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.ID == "" {
		return errors.New("connection id cannot be empty")
	}
	return nil
}

// Exec runs one update round on the connection: downloads its queued
// messages from the relay and folds at most one into a transition.
func (c UpdateCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "update connection")

	try.To(c.Setup())
	defer c.Cmd.Close()

	conf := c.ConnConfig("", true)
	conn := try.To1(cmds.FindConnection(conf, c.ID))

	before := conn.State()
	try.To(conn.UpdateState(conf.Relay.Sender(conn.Pairwise())))
	try.To(conn.Save())

	cmds.Fprintln(w, before, "->", conn.State())
	return &Result{
		ID:       conn.SourceID(),
		State:    conn.State().String(),
		ThreadID: conn.ThreadID(),
	}, nil
}
