package sec

import (
	"sync"

	"github.com/hyperledger/aries-framework-go/pkg/kms"
)

// KMS implements aries-framework-go kms.KeyManager far enough for the
// agent's signing needs. It maps KIDs to verkeys and hands out Handles;
// the private key material never leaves the enclave.
type KMS struct {
	kms struct {
		sync.Mutex
		verkeys map[string]string
	}
}

func NewKMS() *KMS {
	return &KMS{
		kms: struct {
			sync.Mutex
			verkeys map[string]string
		}{
			verkeys: make(map[string]string),
		}}
}

func (k *KMS) Add(KID, verKey string) {
	k.kms.Lock()
	defer k.kms.Unlock()

	k.kms.verkeys[KID] = verKey
}

func (k *KMS) Create(kt kms.KeyType) (string, interface{}, error) {
	//TODO implement me
	panic("implement me")
}

func (k *KMS) Get(KID string) (interface{}, error) {
	k.kms.Lock()
	defer k.kms.Unlock()

	verKey, ok := k.kms.verkeys[KID]
	if !ok {
		// verkeys are their own KIDs in this agent
		verKey = KID
	}
	return &Handle{VerKey: verKey}, nil
}

func (k *KMS) Rotate(kt kms.KeyType, KID string) (string, interface{}, error) {
	//TODO implement me
	panic("implement me")
}

func (k *KMS) ExportPubKeyBytes(KID string) ([]byte, kms.KeyType, error) {
	//TODO implement me
	panic("implement me")
}

func (k *KMS) CreateAndExportPubKeyBytes(kt kms.KeyType) (string, []byte, error) {
	//TODO implement me
	panic("implement me")
}

func (k *KMS) PubKeyBytesToHandle(pubKey []byte, kt kms.KeyType) (interface{}, error) {
	//TODO implement me
	panic("implement me")
}

func (k *KMS) ImportPrivateKey(privKey interface{}, kt kms.KeyType, opts ...kms.PrivateKeyOpts) (string, interface{}, error) {
	//TODO implement me
	panic("implement me")
}
