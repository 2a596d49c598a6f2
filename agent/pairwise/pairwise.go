// Package pairwise has the local identity record of one agent-to-agent
// relationship. Every relationship gets its own fresh DID and verkey,
// minted once and never reused for another counterparty.
package pairwise

import (
	"github.com/findy-network/findy-agent-vcx/agent/ssi"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// Info is the pairwise identity: our DID and verkey for exactly one
// relationship. Immutable after minting.
type Info struct {
	DID    string `json:"pw_did"`
	VerKey string `json:"pw_vk"`
}

// Create mints a new pairwise identity from the wallet.
func Create(w ssi.Wallet) (info Info, err error) {
	defer err2.Handle(&err, "create pairwise")

	d := try.To1(w.CreateDID())
	glog.V(4).Infoln("new pairwise:", d.Did())
	return Info{DID: d.Did(), VerKey: d.VerKey()}, nil
}
