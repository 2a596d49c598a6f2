// Package trustping implements the Aries trust ping protocol messages.
// https://github.com/hyperledger/aries-rfcs/tree/master/features/0048-trust-ping
package trustping

import "github.com/findy-network/findy-agent-vcx/std/decorator"

// Ping requests a liveness signal over a connection. When
// ResponseRequested is set the counterparty answers with a PingResponse
// on the same thread.
type Ping struct {
	Type              string            `json:"@type,omitempty"`
	ID                string            `json:"@id,omitempty"`
	ResponseRequested bool              `json:"response_requested"`
	Comment           string            `json:"comment,omitempty"`
	Thread            *decorator.Thread `json:"~thread,omitempty"`
}

// PingResponse answers a Ping on the ping's thread.
type PingResponse struct {
	Type    string            `json:"@type,omitempty"`
	ID      string            `json:"@id,omitempty"`
	Comment string            `json:"comment,omitempty"`
	Thread  *decorator.Thread `json:"~thread,omitempty"`
}
