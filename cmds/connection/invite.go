package connection

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/findy-network/findy-agent-vcx/cmds"
	"github.com/findy-network/findy-agent-vcx/protocol/connection"
	"github.com/findy-network/findy-agent-vcx/std/didexchange/invitation"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

type InviteCmd struct {
	cmds.Cmd
	ID    string
	Label string
}

func (c InviteCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.ID == "" {
		return errors.New("connection id cannot be empty")
	}
	return nil
}

type InviteResult struct {
	invitation.Invitation
}

func (r InviteResult) JSON() ([]byte, error) {
	return json.Marshal(&r.Invitation)
}

// Exec creates the inviter side of a new relationship and prints the
// invitation for out-of-band delivery to the peer.
func (c InviteCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "invite")

	try.To(c.Setup())
	defer c.Cmd.Close()

	conf := c.ConnConfig(c.Label, true)
	conn := try.To1(connection.NewInviter(c.ID, conf))
	try.To(conn.Connect(nil))
	try.To(conn.Save())

	details := try.To1(conn.InviteDetails())
	cmds.Fprintln(w, details)

	var inv invitation.Invitation
	try.To(json.Unmarshal([]byte(details), &inv))
	return &InviteResult{Invitation: inv}, nil
}
