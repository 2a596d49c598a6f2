// Package didcomm declares the interfaces for agent-to-agent protocol
// messages. The std packages implement them per Aries message family.
package didcomm

import (
	"github.com/findy-network/findy-agent-vcx/agent/service"
	"github.com/findy-network/findy-agent-vcx/std/decorator"
)

// MessageHdr is the base interface for all a2a protocol messages. Every
// message carries a type URI, an id, and a thread decorator for correlation.
type MessageHdr interface {
	ID() string
	SetID(id string)
	Type() string
	SetType(t string)
	Thread() *decorator.Thread

	// Nonce is the thread id of the message. When the thread decorator is
	// missing the message starts its own thread and the id is used.
	Nonce() string

	JSON() []byte

	// FieldObj returns the underlying data struct of the message.
	FieldObj() interface{}
}

// MsgInit is an argument struct for Factors to construct new messages.
type MsgInit struct {
	AID      string
	Type     string
	Nonce    string
	Thread   *decorator.Thread
	Label    string
	Info     string
	DID      string
	VerKey   string
	Endpoint service.Addr
	To       string
}

// Factor creates instances of one message type: empty ones from MsgInit and
// parsed ones from wire data.
type Factor interface {
	NewMsg(init MsgInit) MessageHdr
	NewMessage(data []byte) MessageHdr
}
