// Package proof implements the CLI commands of the prover: preparing a
// presentation for a received proof request, sending it, and rejecting
// a request.
package proof

import (
	"encoding/json"
	"fmt"

	"github.com/findy-network/findy-agent-vcx/agent/vc"
	proof "github.com/findy-network/findy-agent-vcx/protocol/presentproof"
)

// Result is the common result of the proof commands.
type Result struct {
	ID       string `json:"id"`
	State    string `json:"state"`
	ThreadID string `json:"thread_id,omitempty"`
}

func (r Result) JSON() ([]byte, error) {
	return json.Marshal(&r)
}

func findProver(anoncreds vc.Prover, id string) (*proof.Prover, error) {
	provers, err := proof.LoadAllProvers(anoncreds)
	if err != nil {
		return nil, err
	}
	for _, p := range provers {
		if p.SourceID() == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("no proof exchange with id %s", id)
}
