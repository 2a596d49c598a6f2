package proof

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/findy-network/findy-agent-vcx/agent/pltype"
	"github.com/findy-network/findy-agent-vcx/agent/vc"
	"github.com/findy-network/findy-agent-vcx/cmds"
	proof "github.com/findy-network/findy-agent-vcx/protocol/presentproof"
	"github.com/findy-network/findy-agent-vcx/std/presentproof"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

type PrepareCmd struct {
	cmds.Cmd
	ID string

	// Credentials is a JSON object mapping requested referents to
	// credential values.
	Credentials string
}

func (c PrepareCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.ID == "" {
		return errors.New("connection id cannot be empty")
	}
	if _, err := parseCredentials(c.Credentials); err != nil {
		return err
	}
	return nil
}

func parseCredentials(s string) (credentials map[string]string, err error) {
	if err := json.Unmarshal([]byte(s), &credentials); err != nil {
		return nil, err
	}
	return credentials, nil
}

// Exec starts a proof exchange from a proof request waiting on the
// connection's relay queue: builds the presentation with the anoncreds
// collaborator and stores the exchange. A failing build is stored too,
// send delivers the problem report then.
func (c PrepareCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "prepare presentation")

	try.To(c.Setup())
	defer c.Cmd.Close()

	credentials := try.To1(parseCredentials(c.Credentials))

	conf := c.ConnConfig("", true)
	conn := try.To1(cmds.FindConnection(conf, c.ID))

	msgs := try.To1(conn.Messages())
	var (
		req *presentproof.Request
		uid string
	)
	for id, m := range msgs {
		if m.Type() != pltype.PresentProofRequest &&
			m.Type() != pltype.DIDOrgPresentProofRequest {
			continue
		}
		if typed, ok := m.FieldObj().(*presentproof.Request); ok {
			req = typed
			uid = id
			break
		}
	}
	if req == nil {
		return nil, fmt.Errorf("no proof request on connection %s", c.ID)
	}

	prover := proof.NewProver(c.ID, req, &vc.DevProver{})
	try.To(prover.PreparePresentation(credentials))
	try.To(conn.AckMessage(uid))
	try.To(prover.Save())

	cmds.Fprintln(w, "presentation prepared:", prover.State())
	return &Result{
		ID:       prover.SourceID(),
		State:    prover.State().String(),
		ThreadID: prover.ThreadID(),
	}, nil
}
