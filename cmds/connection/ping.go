package connection

import (
	"errors"
	"io"

	"github.com/findy-network/findy-agent-vcx/cmds"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

type TrustPingCmd struct {
	cmds.Cmd
	ID      string
	Comment string
}

func (c TrustPingCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.ID == "" {
		return errors.New("connection id cannot be empty")
	}
	return nil
}

// Exec sends a trust ping over the completed connection. The peer's
// response arrives on a later update round.
func (c TrustPingCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "trust ping")

	try.To(c.Setup())
	defer c.Cmd.Close()

	conf := c.ConnConfig("", false)
	conn := try.To1(cmds.FindConnection(conf, c.ID))
	try.To(conn.SendPing(conf.Relay.Sender(conn.Pairwise()), c.Comment))

	cmds.Fprintln(w, "ping sent")
	return &Result{
		ID:       conn.SourceID(),
		State:    conn.State().String(),
		ThreadID: conn.ThreadID(),
	}, nil
}
