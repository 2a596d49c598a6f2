package ssi

import (
	"crypto/ed25519"
	"crypto/rand"

	"github.com/findy-network/findy-agent-vcx/enclave"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/mr-tron/base58"
)

// Wallet mints pairwise DIDs. Every connection and every cloud agent
// allocation starts by asking the wallet for a fresh DID.
type Wallet interface {
	CreateDID() (d *DID, err error)
}

// DevWallet is a Wallet which generates ed25519 key pairs on the fly
// and seals their seeds into the enclave. It stands in for an external
// KMS in tests and in single node deployments.
type DevWallet struct{}

func NewDevWallet() *DevWallet {
	return &DevWallet{}
}

// CreateDID generates a new key pair and derives the DID from the first
// 16 bytes of the public key, which is how Sovrin style DIDs are
// abbreviated from their verkeys.
func (w *DevWallet) CreateDID() (d *DID, err error) {
	defer err2.Handle(&err, "create DID")

	pub, priv := try.To2(ed25519.GenerateKey(rand.Reader))

	verkey := base58.Encode(pub)
	did := base58.Encode(pub[:16])
	try.To(enclave.AddKey(verkey, priv.Seed()))

	if glog.V(5) {
		glog.Infoln("minted pairwise DID", did)
	}
	return NewDid(did, verkey), nil
}
