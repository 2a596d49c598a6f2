// Package comm has the agent-to-agent send capability and the HTTP
// plumbing for it. Protocol state machines never talk to the network
// themselves: they receive a SendFn and the caller decides what wire it
// writes to.
package comm

import (
	"github.com/findy-network/findy-agent-vcx/agent/didcomm"
	sov "github.com/findy-network/findy-agent-vcx/std/sov/did"
)

// SendFn delivers one a2a message to the agent the DID document routes
// to. Implementations pack and POST; tests swap in a recorder. A failed
// send must not leave partial protocol state behind: callers keep their
// state and may resend.
type SendFn func(msg didcomm.MessageHdr, doc *sov.Doc) error
