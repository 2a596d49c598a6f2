package connection

import (
	"errors"
	"io"

	"github.com/findy-network/findy-agent-vcx/cmds"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

type BasicMsgCmd struct {
	cmds.Cmd
	ID      string
	Message string
}

func (c BasicMsgCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.ID == "" {
		return errors.New("connection id cannot be empty")
	}
	if c.Message == "" {
		return errors.New("message cannot be empty")
	}
	return nil
}

// Exec sends a basic message over the completed connection.
func (c BasicMsgCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "basic message")

	try.To(c.Setup())
	defer c.Cmd.Close()

	conf := c.ConnConfig("", false)
	conn := try.To1(cmds.FindConnection(conf, c.ID))
	try.To(conn.SendGenericMessage(conf.Relay.Sender(conn.Pairwise()), c.Message))

	cmds.Fprintln(w, "message sent")
	return &Result{
		ID:       conn.SourceID(),
		State:    conn.State().String(),
		ThreadID: conn.ThreadID(),
	}, nil
}
