// Package discovery implements the Aries discover features protocol.
// https://github.com/hyperledger/aries-rfcs/tree/master/features/0031-discover-features
package discovery

import "github.com/findy-network/findy-agent-vcx/std/decorator"

// Query asks the counterparty which protocols it supports. An empty
// query means all of them, a query ending with '*' matches by prefix.
type Query struct {
	Type    string `json:"@type,omitempty"`
	ID      string `json:"@id,omitempty"`
	Query   string `json:"query,omitempty"`
	Comment string `json:"comment,omitempty"`
}

// Disclose answers a Query on the query's thread.
type Disclose struct {
	Type      string               `json:"@type,omitempty"`
	ID        string               `json:"@id,omitempty"`
	Protocols []ProtocolDescriptor `json:"protocols"`
	Thread    *decorator.Thread    `json:"~thread,omitempty"`
}

// ProtocolDescriptor names one supported protocol version.
type ProtocolDescriptor struct {
	PID   string   `json:"pid"`
	Roles []string `json:"roles,omitempty"`
}
