// Package enclave is a sealed box for the dev wallet's key material. Seeds
// are encrypted with a tink AEAD primitive before they are stored to the
// managed bolt DB. The sealing keyset lives beside the box file; production
// deployments replace this package with an external wallet service.
package enclave

import (
	"bytes"
	"crypto/md5"
	"errors"
	"os"

	"github.com/findy-network/findy-common-go/crypto/db"
	"github.com/golang/glog"
	"github.com/google/tink/go/aead"
	"github.com/google/tink/go/insecurecleartextkeyset"
	"github.com/google/tink/go/keyset"
	"github.com/google/tink/go/tink"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

var keyBucket = []byte{01}

// ErrNotExists is an error for key not exist in the enclave.
var ErrNotExists = errors.New("key not exists")

var (
	sealedBox db.Handle
	sealer    tink.AEAD

	boxFilename string
)

// InitSealedBox initializes the enclave's sealed box. This must be called
// once during the app life cycle.
func InitSealedBox(filename string) (err error) {
	defer err2.Handle(&err, "init enclave")

	glog.V(1).Infoln("init enclave", filename)

	kh := try.To1(loadOrCreateKeyset(filename + ".keyset"))
	sealer = try.To1(aead.New(kh))

	boxFilename = filename
	sealedBox = db.New(db.Cfg{
		Filename:   filename,
		Buckets:    [][]byte{keyBucket},
		BackupName: filename + "_backup",
	})
	return nil
}

// Close closes the sealed box of the enclave. It can be open again with
// InitSealedBox.
func Close() {
	defer err2.Catch(err2.Err(func(err error) {
		glog.Error(err)
	}))

	if sealedBox == nil {
		return
	}
	try.To(sealedBox.Close())
	sealedBox = nil
}

// WipeSealedBox closes and destroys the enclave permanently. All the key
// material is lost.
func WipeSealedBox() {
	Close()

	if boxFilename == "" {
		return
	}
	if err := os.Remove(boxFilename); err != nil {
		glog.Error(err.Error())
	}
	if err := os.Remove(boxFilename + ".keyset"); err != nil && !os.IsNotExist(err) {
		glog.Error(err.Error())
	}
	boxFilename = ""
}

// AddKey seals and stores a signing key seed for the verification key.
func AddKey(verKey string, seed []byte) (err error) {
	defer err2.Handle(&err, "enclave add key")

	sealed := try.To1(sealer.Encrypt(seed, []byte(verKey)))
	try.To(sealedBox.AddKeyValueToBucket(keyBucket,
		&db.Data{Data: sealed},
		&db.Data{Data: hash(verKey)},
	))
	return nil
}

// KeyByVerKey returns the stored signing key seed of the verification key.
func KeyByVerKey(verKey string) (seed []byte, err error) {
	defer err2.Handle(&err, "enclave get key")

	var sealed []byte
	value := &db.Data{
		Use: func(d []byte) interface{} {
			sealed = append(sealed[:0:0], d...)
			return nil
		},
	}
	found := try.To1(sealedBox.GetKeyValueFromBucket(keyBucket,
		&db.Data{Data: hash(verKey)},
		value,
	))
	if !found {
		return nil, ErrNotExists
	}

	seed = try.To1(sealer.Decrypt(sealed, []byte(verKey)))
	return seed, nil
}

// KeyExists tells if the enclave holds a seed for the verification key.
func KeyExists(verKey string) bool {
	_, err := KeyByVerKey(verKey)
	return err == nil
}

// hash keeps the lookup index free of plain text verkeys.
func hash(verKey string) []byte {
	h := md5.Sum([]byte(verKey))
	return h[:]
}

func loadOrCreateKeyset(filename string) (kh *keyset.Handle, err error) {
	defer err2.Handle(&err, "enclave keyset")

	if data, readErr := os.ReadFile(filename); readErr == nil {
		return insecurecleartextkeyset.Read(
			keyset.NewBinaryReader(bytes.NewReader(data)))
	}

	kh = try.To1(keyset.NewHandle(aead.AES256GCMKeyTemplate()))

	buf := new(bytes.Buffer)
	try.To(insecurecleartextkeyset.Write(kh, keyset.NewBinaryWriter(buf)))
	try.To(os.WriteFile(filename, buf.Bytes(), 0600))

	return kh, nil
}
