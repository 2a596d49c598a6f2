package connection

import (
	"github.com/findy-network/findy-agent-vcx/std/didexchange"
	"github.com/findy-network/findy-agent-vcx/std/didexchange/invitation"
	"github.com/findy-network/findy-agent-vcx/std/discovery"
	sov "github.com/findy-network/findy-agent-vcx/std/sov/did"
)

// Role is the side of the connection protocol a machine runs. It is fixed
// for the lifetime of the connection.
type Role string

const (
	RoleInviter Role = "Inviter"
	RoleInvitee Role = "Invitee"
)

// State is the public protocol state shared by both roles.
type State int

const (
	StateNull State = iota
	StateInvited
	StateRequested
	StateResponded
	StateCompleted
)

var stateNames = map[State]string{
	StateNull:      "Null",
	StateInvited:   "Invited",
	StateRequested: "Requested",
	StateResponded: "Responded",
	StateCompleted: "Completed",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "Unknown"
}

// Each full-state variant below carries exactly the artifacts accumulated
// up to that point of the protocol. Transitions never reach back to an
// earlier variant except through a problem report, which drops to null.

type inviterState interface {
	state() State
}

type inviterNull struct{}

type inviterInvited struct {
	Invitation *invitation.Invitation `json:"invitation"`
}

// inviterRequested holds the response we signed but have not sent yet.
type inviterRequested struct {
	SignedResponse *didexchange.Response `json:"signed_response"`
	DIDDoc         *sov.Doc              `json:"did_doc"`
	ThreadID       string                `json:"thread_id,omitempty"`
}

type inviterResponded struct {
	SignedResponse *didexchange.Response `json:"signed_response"`
	DIDDoc         *sov.Doc              `json:"did_doc"`
}

type inviterCompleted struct {
	DIDDoc    *sov.Doc                       `json:"did_doc"`
	Protocols []discovery.ProtocolDescriptor `json:"protocols,omitempty"`
	ThreadID  string                         `json:"thread_id,omitempty"`
}

func (inviterNull) state() State      { return StateNull }
func (inviterInvited) state() State   { return StateInvited }
func (inviterRequested) state() State { return StateRequested }
func (inviterResponded) state() State { return StateResponded }
func (inviterCompleted) state() State { return StateCompleted }

type inviteeState interface {
	state() State
}

type inviteeNull struct{}

type inviteeInvited struct {
	Invitation *invitation.Invitation `json:"invitation"`
}

// inviteeRequested keeps the sent request and the bootstrap doc built
// from the invitation: the response signature verifies against its key.
type inviteeRequested struct {
	Request *didexchange.Request `json:"request"`
	DIDDoc  *sov.Doc             `json:"did_doc"`
}

type inviteeResponded struct {
	Response *didexchange.Response `json:"response"`
	Request  *didexchange.Request  `json:"request"`
	DIDDoc   *sov.Doc              `json:"did_doc"`
}

type inviteeCompleted struct {
	DIDDoc          *sov.Doc                       `json:"did_doc"`
	BootstrapDIDDoc *sov.Doc                       `json:"bootstrap_did_doc,omitempty"`
	Protocols       []discovery.ProtocolDescriptor `json:"protocols,omitempty"`
	ThreadID        string                         `json:"thread_id,omitempty"`
}

func (inviteeNull) state() State      { return StateNull }
func (inviteeInvited) state() State   { return StateInvited }
func (inviteeRequested) state() State { return StateRequested }
func (inviteeResponded) state() State { return StateResponded }
func (inviteeCompleted) state() State { return StateCompleted }
