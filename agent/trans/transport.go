// Package trans moves packed agent-to-agent payloads between this agent
// and its relay. The production transport is plain HTTP POST; tests
// supply a Mock through the same interface, there is no process wide
// test mode.
package trans

import (
	"bytes"

	"github.com/findy-network/findy-agent-vcx/agent/comm"
	"github.com/findy-network/findy-agent-vcx/agent/utils"
)

// Transport posts one wire payload to a relay address and returns the
// response payload. Errors carry the relay's response content when
// there is one.
type Transport interface {
	Call(addr string, msg []byte) ([]byte, error)
}

// HTTP is the production transport.
type HTTP struct{}

func (HTTP) Call(addr string, msg []byte) ([]byte, error) {
	return comm.SendAndWaitReq(addr, bytes.NewReader(msg), utils.Settings.Timeout())
}
