package presentproof

import (
	"strings"
	"testing"

	"github.com/findy-network/findy-agent-vcx/agent/aries"
	"github.com/findy-network/findy-agent-vcx/agent/pltype"
	"github.com/findy-network/findy-agent-vcx/std/decorator"
	"github.com/lainio/err2/assert"
)

var requestJSON = `{
    "@type": "did:sov:BzCbsNYhMrjHiqZDTUASHg;spec/present-proof/1.0/request-presentation",
    "@id": "4f4ef433-a32a-43e1-9e2d-28a2964cbe5f",
    "comment": "degree check",
    "request_presentations~attach": [
      {
        "@id": "libindy-request-presentation-0",
        "mime-type": "application/json",
        "data": {
          "base64": "eyJuYW1lIjoiZGVncmVlIiwidmVyc2lvbiI6IjEuMCIsInJlcXVlc3RlZF9hdHRyaWJ1dGVzIjp7ImF0dHIxX3JlZmVyZW50Ijp7Im5hbWUiOiJuYW1lIn19LCJyZXF1ZXN0ZWRfcHJlZGljYXRlcyI6e319"
        }
      }
    ]
  }`

func TestNewRequestPresentation(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	msg, err := aries.PayloadFromData([]byte(requestJSON))
	assert.NoError(err)

	assert.Equal("4f4ef433-a32a-43e1-9e2d-28a2964cbe5f", msg.ID())
	assert.Equal(msg.ID(), msg.Thread().ID)

	req, ok := msg.FieldObj().(*Request)
	assert.That(ok)

	attach, err := ProofRequestAttach(req)
	assert.NoError(err)
	assert.That(strings.Contains(string(attach), "attr1_referent"))
}

func TestPresentationRoundTrip(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	proof := []byte(`{"proof":{},"requested_proof":{}}`)
	m := &Presentation{
		Type:                 pltype.PresentProofPresentation,
		ID:                   "f0561b3f-f40e-4972-9836-14e4c02b0b3b",
		PresentationAttaches: NewPresentationAttach(proof),
		Thread:               &decorator.Thread{ID: "request-thread-1"},
	}

	msg, err := aries.PayloadFromData(NewPresentation(m).JSON())
	assert.NoError(err)
	assert.Equal("request-thread-1", msg.Thread().ID)

	parsed, ok := msg.FieldObj().(*Presentation)
	assert.That(ok)

	attach, err := PresentationAttach(parsed)
	assert.NoError(err)
	assert.Equal(string(proof), string(attach))
}

func TestProposeThreadDefaults(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	m := &Propose{
		Type:    pltype.DIDOrgPresentProofPropose,
		ID:      "6a1cc5a8-03d7-4a4a-9e35-5b0e0277e0cb",
		Comment: "can offer the name only",
		PresentationProposal: &Preview{
			Type:       pltype.PresentProofPreview,
			Attributes: []Attribute{{Name: "name", Value: "Alice"}},
		},
	}

	msg, err := aries.PayloadFromData(NewPropose(m).JSON())
	assert.NoError(err)
	assert.Equal(m.ID, msg.Thread().ID)

	parsed, ok := msg.FieldObj().(*Propose)
	assert.That(ok)
	assert.Equal(1, len(parsed.PresentationProposal.Attributes))
	assert.Equal("Alice", parsed.PresentationProposal.Attributes[0].Value)
}
