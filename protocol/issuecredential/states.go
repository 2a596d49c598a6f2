package issuecredential

import (
	"github.com/findy-network/findy-agent-vcx/agent/vc"
	"github.com/findy-network/findy-agent-vcx/std/common"
	"github.com/findy-network/findy-agent-vcx/std/issuecredential"
)

// State is the public view of the issuer machine. Finished splits into
// Finished and Failed depending on how the exchange closed.
type State int

const (
	StateInitial State = iota
	StateOfferSent
	StateRequestReceived
	StateCredentialSent
	StateFinished
	StateFailed
)

var stateNames = map[State]string{
	StateInitial:         "Initial",
	StateOfferSent:       "OfferSent",
	StateRequestReceived: "RequestReceived",
	StateCredentialSent:  "CredentialSent",
	StateFinished:        "Finished",
	StateFailed:          "Failed",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "Unknown"
}

// RevocationInfo pins the registry coordinates of an issued credential
// for later revocation.
type RevocationInfo struct {
	CredRevID string `json:"cred_rev_id,omitempty"`
	RevRegID  string `json:"rev_reg_id,omitempty"`
	TailsFile string `json:"tails_file,omitempty"`
}

// issuerState is the closed union of the issuer's full states. The
// payloads carry everything a restart needs to continue the exchange.
type issuerState interface {
	state() State
}

type issuerInitial struct {
	OfferInfo vc.OfferInfo `json:"offer_info"`
}

type issuerOfferSent struct {
	Offer     string            `json:"offer"`
	CredDefID string            `json:"cred_def_id"`
	Values    map[string]string `json:"cred_data"`
	RevRegID  string            `json:"rev_reg_id,omitempty"`
	TailsFile string            `json:"tails_file,omitempty"`
}

type issuerRequestReceived struct {
	Offer     string                   `json:"offer"`
	CredDefID string                   `json:"cred_def_id"`
	Values    map[string]string        `json:"cred_data"`
	RevRegID  string                   `json:"rev_reg_id,omitempty"`
	TailsFile string                   `json:"tails_file,omitempty"`
	Request   *issuecredential.Request `json:"request"`
}

type issuerCredentialSent struct {
	RevocationInfo *RevocationInfo `json:"revocation_info,omitempty"`
}

type issuerFinished struct {
	Failed         bool                  `json:"failed,omitempty"`
	ProblemReport  *common.ProblemReport `json:"problem_report,omitempty"`
	RevocationInfo *RevocationInfo       `json:"revocation_info,omitempty"`
}

func (issuerInitial) state() State         { return StateInitial }
func (issuerOfferSent) state() State       { return StateOfferSent }
func (issuerRequestReceived) state() State { return StateRequestReceived }
func (issuerCredentialSent) state() State  { return StateCredentialSent }

func (s issuerFinished) state() State {
	if s.Failed {
		return StateFailed
	}
	return StateFinished
}
