// Package issue implements the CLI commands of the credential issuer:
// offering a credential over a connection, issuing it once the holder
// has requested, and revoking an issued one.
package issue

import (
	"encoding/json"
	"fmt"

	"github.com/findy-network/findy-agent-vcx/agent/vc"
	"github.com/findy-network/findy-agent-vcx/protocol/issuecredential"
)

// Result is the common result of the issue commands.
type Result struct {
	ID       string `json:"id"`
	State    string `json:"state"`
	ThreadID string `json:"thread_id,omitempty"`
}

func (r Result) JSON() ([]byte, error) {
	return json.Marshal(&r)
}

func findIssuer(
	anoncreds vc.Issuer,
	id string,
) (
	*issuecredential.Issuer,
	error,
) {
	issuers, err := issuecredential.LoadAllIssuers(anoncreds)
	if err != nil {
		return nil, err
	}
	for _, i := range issuers {
		if i.SourceID() == id {
			return i, nil
		}
	}
	return nil, fmt.Errorf("no credential exchange with id %s", id)
}
