package issue

import (
	"errors"
	"io"

	"github.com/findy-network/findy-agent-vcx/agent/vc"
	"github.com/findy-network/findy-agent-vcx/cmds"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

type RevokeCmd struct {
	cmds.Cmd
	ID string
}

func (c RevokeCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.ID == "" {
		return errors.New("connection id cannot be empty")
	}
	return nil
}

// Exec revokes the credential issued on the exchange. Fails when the
// credential was not revocable or is not issued yet.
func (c RevokeCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "revoke credential")

	try.To(c.Setup())
	defer c.Cmd.Close()

	issuer := try.To1(findIssuer(&vc.DevIssuer{}, c.ID))
	try.To(issuer.Revoke())

	cmds.Fprintln(w, "credential revoked")
	return &Result{
		ID:       issuer.SourceID(),
		State:    issuer.State().String(),
		ThreadID: issuer.ThreadID(),
	}, nil
}
