package ssi

// DidComm is implemented by types which can tell their pairwise DID.
type DidComm interface {
	Did() string
}

// Out is the side of a pairwise we know only public data of.
type Out interface {
	DidComm
	VerKey() string
}

// DID binds a pairwise DID string to its ed25519 verification key. The
// value is immutable after creation. Keys minted by a Wallet have their
// signing seed sealed into the enclave, which is where the sec package
// finds them when it builds signatures.
type DID struct {
	did    string
	verKey string
}

func NewDid(did, verkey string) (d *DID) {
	return &DID{did: did, verKey: verkey}
}

// NewOutDid creates a DID for the other end of a pairwise when only its
// public key is known, e.g. from a received invitation.
func NewOutDid(verkey string) (d *DID) {
	return &DID{verKey: verkey}
}

func (d *DID) Did() string {
	return d.did
}

func (d *DID) String() string {
	return d.did
}

// URI returns the fully qualified DID.
func (d *DID) URI() string {
	return "did:sov:" + d.did
}

func (d *DID) VerKey() string {
	return d.verKey
}

// KID returns the key ID for KMS lookups. Verkeys are globally unique
// which makes them natural KIDs in this agent.
func (d *DID) KID() string {
	return d.verKey
}
