package presentproof

import (
	"github.com/findy-network/findy-agent-vcx/std/common"
	"github.com/findy-network/findy-agent-vcx/std/presentproof"
)

// State is the public view of the prover machine. Finished splits into
// Finished and Failed depending on how the exchange closed.
type State int

const (
	StateInitial State = iota
	StatePresentationPrepared
	StatePresentationPreparationFailed
	StatePresentationSent
	StateFinished
	StateFailed
)

var stateNames = map[State]string{
	StateInitial:                       "Initial",
	StatePresentationPrepared:          "PresentationPrepared",
	StatePresentationPreparationFailed: "PresentationPreparationFailed",
	StatePresentationSent:              "PresentationSent",
	StateFinished:                      "Finished",
	StateFailed:                        "Failed",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "Unknown"
}

// proverState is the closed union of the prover's full states.
type proverState interface {
	state() State
}

type proverInitial struct {
	Request *presentproof.Request `json:"presentation_request"`
}

type proverPrepared struct {
	Request      *presentproof.Request      `json:"presentation_request"`
	Presentation *presentproof.Presentation `json:"presentation"`
}

type proverPreparationFailed struct {
	Request       *presentproof.Request `json:"presentation_request"`
	ProblemReport *common.ProblemReport `json:"problem_report"`
}

type proverSent struct {
	Request      *presentproof.Request      `json:"presentation_request"`
	Presentation *presentproof.Presentation `json:"presentation"`
}

type proverFinished struct {
	Failed        bool                       `json:"failed,omitempty"`
	Request       *presentproof.Request      `json:"presentation_request,omitempty"`
	Presentation  *presentproof.Presentation `json:"presentation,omitempty"`
	ProblemReport *common.ProblemReport      `json:"problem_report,omitempty"`
}

func (proverInitial) state() State           { return StateInitial }
func (proverPrepared) state() State          { return StatePresentationPrepared }
func (proverPreparationFailed) state() State { return StatePresentationPreparationFailed }
func (proverSent) state() State              { return StatePresentationSent }

func (s proverFinished) state() State {
	if s.Failed {
		return StateFailed
	}
	return StateFinished
}
