/*
copied from aries-framework-go
*/

package common

import "github.com/findy-network/findy-agent-vcx/std/decorator"

// ProblemReport problem report definition. The description/explain-ltxt
// pair is the ACApy layout, problem-code/explain the libvcx one. Both are
// kept readable so reports from either stack parse.
type ProblemReport struct {
	Type           string            `json:"@type"`
	ID             string            `json:"@id"`
	Description    Code              `json:"description"`
	ExplainLongTxt string            `json:"explain-ltxt,omitempty"`
	ProblemCode    string            `json:"problem-code,omitempty"`
	Explain        string            `json:"explain,omitempty"`
	Thread         *decorator.Thread `json:"~thread,omitempty"`
}

// Code represents a problem report code
type Code struct {
	Code string `json:"code,omitempty"`
}
