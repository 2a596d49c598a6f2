// Package connection implements the CLI commands that drive pairwise
// connections: creating and joining invitations, running update rounds,
// and messaging over an established relationship.
package connection

import "encoding/json"

// Result is the common result of the connection commands: which
// relationship was touched and the protocol state it ended in.
type Result struct {
	ID       string `json:"id"`
	State    string `json:"state"`
	ThreadID string `json:"thread_id,omitempty"`
}

func (r Result) JSON() ([]byte, error) {
	return json.Marshal(&r)
}
