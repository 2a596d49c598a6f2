package issue

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

	// WaitAck asks the holder to acknowledge the credential; the
	// exchange stays open until the ack arrives on an update round.
	WaitAck bool
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

// Exec issues the credential of an exchange whose request has arrived.
// Issuing is an explicit step, update rounds never do it on their own.
func (c SendCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "send credential")

	try.To(c.Setup())
	defer c.Cmd.Close()

	conf := c.ConnConfig("", true)
	conn := try.To1(cmds.FindConnection(conf, c.ID))
	issuer := try.To1(findIssuer(&vc.DevIssuer{}, c.ID))

	issuer.AskForAck(c.WaitAck)
	try.To(issuer.SendCredential(conn, conf.Relay.Sender(conn.Pairwise())))
	try.To(issuer.Save())

	cmds.Fprintln(w, "credential sent:", issuer.State())
	return &Result{
		ID:       issuer.SourceID(),
		State:    issuer.State().String(),
		ThreadID: issuer.ThreadID(),
	}, nil
}
