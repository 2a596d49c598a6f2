package connection

import (
	"errors"
	"io"

	"github.com/findy-network/findy-agent-vcx/cmds"
	"github.com/findy-network/findy-agent-vcx/protocol/connection"
	"github.com/findy-network/findy-agent-vcx/std/didexchange/invitation"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

type JoinCmd struct {
	cmds.Cmd
	ID         string
	Label      string
	Invitation invitation.Invitation
}

func (c JoinCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.ID == "" {
		return errors.New("connection id cannot be empty")
	}
	inv := c.Invitation
	if inv.ID == "" || len(inv.RecipientKeys) == 0 || inv.ServiceEndpoint == "" {
		return cmds.ErrInvalid
	}
	return nil
}

// Exec joins the invitation: a new invitee connection sends its
// connection request to the inviter's endpoint. update rounds drive the
// handshake to completion from here.
func (c JoinCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "join")

	try.To(c.Setup())
	defer c.Cmd.Close()

	conf := c.ConnConfig(c.Label, true)
	conn := try.To1(connection.NewInvitee(c.ID, conf, &c.Invitation))
	try.To(conn.Connect(conf.Relay.Sender(conn.Pairwise())))
	try.To(conn.Save())

	cmds.Fprintln(w, "connection request sent:", conn.State())
	return &Result{
		ID:       conn.SourceID(),
		State:    conn.State().String(),
		ThreadID: conn.ThreadID(),
	}, nil
}
