package issue

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/findy-network/findy-agent-vcx/agent/vc"
	"github.com/findy-network/findy-agent-vcx/cmds"
	"github.com/findy-network/findy-agent-vcx/protocol/issuecredential"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

type OfferCmd struct {
	cmds.Cmd
	ID        string // connection the exchange runs over
	CredDefID string

	// Attributes is a JSON object of attribute name value pairs.
	Attributes string

	// revocation registry coordinates, empty for a non revocable credential
	RevRegID  string
	TailsFile string
}

func (c OfferCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.ID == "" {
		return errors.New("connection id cannot be empty")
	}
	if c.CredDefID == "" {
		return errors.New("cred def id cannot be empty")
	}
	if _, err := parseAttrs(c.Attributes); err != nil {
		return err
	}
	return nil
}

func parseAttrs(a string) (values map[string]string, err error) {
	if err := json.Unmarshal([]byte(a), &values); err != nil {
		return nil, err
	}
	return values, nil
}

// Exec starts a credential exchange: builds the offer with the
// anoncreds collaborator and sends it to the holder. The exchange is
// stored under the connection's id, update rounds fold the holder's
// request in.
func (c OfferCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err, "offer credential")

	try.To(c.Setup())
	defer c.Cmd.Close()

	values := try.To1(parseAttrs(c.Attributes))

	conf := c.ConnConfig("", true)
	conn := try.To1(cmds.FindConnection(conf, c.ID))

	issuer := issuecredential.NewIssuer(c.ID, vc.OfferInfo{
		CredDefID: c.CredDefID,
		Values:    values,
		RevRegID:  c.RevRegID,
		TailsFile: c.TailsFile,
	}, &vc.DevIssuer{})
	try.To(issuer.SendOffer(conn, conf.Relay.Sender(conn.Pairwise())))
	try.To(issuer.Save())

	cmds.Fprintln(w, "credential offer sent:", issuer.ThreadID())
	return &Result{
		ID:       issuer.SourceID(),
		State:    issuer.State().String(),
		ThreadID: issuer.ThreadID(),
	}, nil
}
