package sec

import (
	"crypto/ed25519"
	"fmt"

	"github.com/findy-network/findy-agent-vcx/enclave"
	"github.com/hyperledger/aries-framework-go/pkg/crypto"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/mr-tron/base58"
)

var (
	ErrWrongSignature = fmt.Errorf("signature validation failed")
)

// Handle is the key handle our KMS hands out. The verkey alone names
// the key because signing seeds are sealed into the enclave by verkey.
type Handle struct {
	VerKey string
}

// Crypto implements aries-framework-go crypto.Crypto for the signature
// suite this agent needs. Envelope encryption is the relay's business,
// which is why only Sign and Verify have real implementations.
type Crypto struct{}

// Encrypt will encrypt msg and aad using a matching AEAD primitive in kh key handle of a public key
// returns:
//
//	cipherText in []byte
//	nonce in []byte
//	error in case of errors during encryption
func (c *Crypto) Encrypt(_ []byte, _ []byte, _ interface{}) ([]byte, []byte, error) {
	panic("not implemented") // TODO: Implement
}

// Decrypt will decrypt cipher with aad and given nonce using a matching AEAD primitive in kh key handle of a
// private key
// returns:
//
//	plainText in []byte
//	error in case of errors
func (c *Crypto) Decrypt(_ []byte, _ []byte, _ []byte, _ interface{}) ([]byte, error) {
	panic("not implemented") // TODO: Implement
}

// Sign will sign msg using a matching signature primitive in kh key handle of a private key
// returns:
//
//	signature in []byte
//	error in case of errors
func (c *Crypto) Sign(msg []byte, kh interface{}) (s []byte, err error) {
	defer err2.Handle(&err, "sec sign")

	handle := kh.(*Handle)
	seed := try.To1(enclave.KeyByVerKey(handle.VerKey))
	priv := ed25519.NewKeyFromSeed(seed)
	return ed25519.Sign(priv, msg), nil
}

// Verify will verify a signature for the given msg using a matching signature primitive in kh key handle of
// a public key
// returns:
//
//	error in case of errors or nil if signature verification was successful
func (c *Crypto) Verify(signature []byte, msg []byte, kh interface{}) (err error) {
	defer err2.Handle(&err, "sec verify")

	handle := kh.(*Handle)
	pubKey := try.To1(base58.Decode(handle.VerKey))
	if len(pubKey) != ed25519.PublicKeySize ||
		!ed25519.Verify(pubKey, msg, signature) {
		return ErrWrongSignature
	}
	return nil
}

// ComputeMAC computes message authentication code (MAC) for code data
// using a matching MAC primitive in kh key handle
func (c *Crypto) ComputeMAC(_ []byte, _ interface{}) ([]byte, error) {
	panic("not implemented") // TODO: Implement
}

// VerifyMAC determines if mac is a correct authentication code (MAC) for data
// using a matching MAC primitive in kh key handle and returns nil if so, otherwise it returns an error.
func (c *Crypto) VerifyMAC(_ []byte, _ []byte, _ interface{}) error {
	panic("not implemented") // TODO: Implement
}

// WrapKey will execute key wrapping of cek using apu, apv and recipient public key 'recPubKey'.
// returns:
//
//	RecipientWrappedKey containing the wrapped cek value
//	error in case of errors
func (c *Crypto) WrapKey(_ []byte, _ []byte, _ []byte, _ *crypto.PublicKey, _ ...crypto.WrapKeyOpts) (*crypto.RecipientWrappedKey, error) {
	panic("not implemented") // TODO: Implement
}

// UnwrapKey unwraps a key in recWK using recipient private key kh.
// returns:
//
//	unwrapped key in raw bytes
//	error in case of errors
func (c *Crypto) UnwrapKey(_ *crypto.RecipientWrappedKey, _ interface{}, _ ...crypto.WrapKeyOpts) ([]byte, error) {
	panic("not implemented") // TODO: Implement
}

// SignMulti will create a signature of messages using a matching signing primitive found in kh key handle of a
// private key.
// returns:
//
//	signature in []byte
//	error in case of errors
func (c *Crypto) SignMulti(_ [][]byte, _ interface{}) ([]byte, error) {
	panic("not implemented") // TODO: Implement
}

// VerifyMulti will verify a signature of messages using a matching signing primitive found in kh key handle of a
// public key.
// returns:
//
//	error in case of errors or nil if signature verification was successful
func (c *Crypto) VerifyMulti(_ [][]byte, _ []byte, _ interface{}) error {
	panic("not implemented") // TODO: Implement
}

// VerifyProof will verify a signature proof (generated e.g. by Verifier's DeriveProof() call) for revealedMessages
// using a matching signing primitive found in kh key handle of a public key.
// returns:
//
//	error in case of errors or nil if signature proof verification was successful
func (c *Crypto) VerifyProof(_ [][]byte, _ []byte, _ []byte, _ interface{}) error {
	panic("not implemented") // TODO: Implement
}

// DeriveProof will create a signature proof for a list of revealed messages using BBS signature (can be built using
// a Signer's SignMulti() call) and a matching signing primitive found in kh key handle of a public key.
// returns:
//
//	signature proof in []byte
//	error in case of errors
func (c *Crypto) DeriveProof(_ [][]byte, _ []byte, _ []byte, _ []int, _ interface{}) ([]byte, error) {
	panic("not implemented") // TODO: Implement
}
