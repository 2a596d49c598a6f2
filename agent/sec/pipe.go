package sec

import (
	"encoding/binary"
	"time"

	"github.com/findy-network/findy-agent-vcx/agent/ssi"
	"github.com/golang/glog"
	cryptoapi "github.com/hyperledger/aries-framework-go/pkg/crypto"
	"github.com/hyperledger/aries-framework-go/pkg/kms"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

var (
	defaultCrypto Crypto
	defaultKMS    = NewKMS()
)

// Pipe is a secure way to transport data between DID connection. All agent to
// agent communication uses it. For its internal structure we must define the
// direction of the pipe.
type Pipe struct {
	In  *ssi.DID
	Out *ssi.DID
}

// NewPipeByVerkey creates a new secure pipe by our DID and other end's public
// key.
func NewPipeByVerkey(did *ssi.DID, verkey string) Pipe {
	return Pipe{
		In:  did,
		Out: ssi.NewOutDid(verkey),
	}
}

// Verify verifies signature of the message and returns the verification key.
// Note! It throws err2 type of error and needs an error handler in the call
// stack.
func (p Pipe) Verify(msg, signature []byte) (yes bool, vk string, err error) {
	defer err2.Handle(&err, "pipe verify")

	c := p.crypto()
	try.To(c.Verify(signature, msg, &Handle{VerKey: p.Out.VerKey()}))

	return true, p.Out.VerKey(), nil
}

// Sign sings the message and returns the verification key. Note! It throws
// err2 type of error and needs an error handler in the call stack.
func (p Pipe) Sign(src []byte) (dst []byte, vk string, err error) {
	defer err2.Handle(&err, "pipe sign")

	c := p.crypto()
	kms := p.kms()

	kh := try.To1(kms.Get(p.In.KID()))
	dst = try.To1(c.Sign(src, kh))
	vk = p.In.VerKey()

	return
}

// SignAndStamp sings and stamps a message and returns the verification key.
// The signed data is the message prefixed with the current epoch time as 8
// bytes in big endian order.
func (p Pipe) SignAndStamp(src []byte) (data, dst []byte, vk string, err error) {
	defer err2.Handle(&err, "sign and stamp")

	now := getEpochTime()

	data = make([]byte, 8+len(src))
	binary.BigEndian.PutUint64(data[0:], uint64(now))

	l := copy(data[8:], src)
	if l != len(src) {
		glog.Warning("WARNING, NOT all bytes copied")
	}

	sign, verKey := try.To2(p.Sign(data))
	return data, sign, verKey, nil
}

// IsNull returns true if pipe is null.
func (p Pipe) IsNull() bool {
	return p.In == nil
}

func (p Pipe) crypto() cryptoapi.Crypto {
	return &defaultCrypto
}

func (p Pipe) kms() kms.KeyManager {
	return defaultKMS
}

func getEpochTime() int64 {
	return time.Now().Unix()
}
