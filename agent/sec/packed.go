package sec

import (
	"encoding/json"

	"github.com/findy-network/findy-common-go/dto"
	"github.com/lainio/err2"
)

// devEnvelope is the dev crypto wire form. It does no real sealing: the
// payload travels as is, tagged with sender and recipient verkeys so
// unpack can authenticate the sender the way a real packer does and the
// relay can route on the recipient.
type devEnvelope struct {
	SenderVK    string `json:"sender_verkey,omitempty"`
	RecipientVK string `json:"recipient_verkey,omitempty"`
	Payload     []byte `json:"payload"`
}

// Pack wraps src to the wire envelope: sender is the pipe's In party,
// recipient its Out party.
func (p Pipe) Pack(src []byte) (dst []byte, err error) {
	defer err2.Handle(&err, "pipe pack")

	env := devEnvelope{Payload: src}
	if p.In != nil {
		env.SenderVK = p.In.VerKey()
	}
	if p.Out != nil {
		env.RecipientVK = p.Out.VerKey()
	}
	return dto.ToJSONBytes(env), nil
}

// Unpack opens a wire envelope and returns the plaintext and the sender
// verkey. Data that is not an envelope passes through as plaintext with
// no sender: test relays answer with bare messages.
func (p Pipe) Unpack(src []byte) (dst []byte, senderVK string, err error) {
	var env devEnvelope
	if json.Unmarshal(src, &env) == nil && env.Payload != nil {
		return env.Payload, env.SenderVK, nil
	}
	return src, "", nil
}
