package sec_test

import (
	"encoding/binary"
	"os"
	"testing"
	"time"

	"github.com/findy-network/findy-agent-vcx/agent/sec"
	"github.com/findy-network/findy-agent-vcx/agent/ssi"
	"github.com/findy-network/findy-agent-vcx/enclave"
	"github.com/lainio/err2/assert"
	"github.com/stretchr/testify/require"
)

const sealedBoxFile = "pipe-test.bolt"

func TestMain(m *testing.M) {
	setUp()
	code := m.Run()
	tearDown()
	os.Exit(code)
}

func setUp() {
	_ = os.RemoveAll(sealedBoxFile)
	_ = os.RemoveAll(sealedBoxFile + ".keyset")
	_ = enclave.InitSealedBox(sealedBoxFile)
}

func tearDown() {
	enclave.WipeSealedBox()
}

func TestPipeSignVerify(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	w := ssi.NewDevWallet()
	in, err := w.CreateDID()
	require.NoError(t, err)

	// pipe to ourselves, Out key is our own
	p := sec.NewPipeByVerkey(in, in.VerKey())

	msg := []byte("sign me")
	sig, vk, err := p.Sign(msg)
	require.NoError(t, err)
	require.Equal(t, in.VerKey(), vk)

	ok, vk, err := p.Verify(msg, sig)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, in.VerKey(), vk)
}

func TestPipeVerifyWrongKey(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	w := ssi.NewDevWallet()
	in, err := w.CreateDID()
	require.NoError(t, err)
	other, err := w.CreateDID()
	require.NoError(t, err)

	// signed with in's key but Out expects other's
	p := sec.NewPipeByVerkey(in, other.VerKey())

	msg := []byte("sign me")
	sig, _, err := p.Sign(msg)
	require.NoError(t, err)

	_, _, err = p.Verify(msg, sig)
	require.Error(t, err)
}

func TestSignAndStamp(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	w := ssi.NewDevWallet()
	in, err := w.CreateDID()
	require.NoError(t, err)

	p := sec.NewPipeByVerkey(in, in.VerKey())

	src := []byte("stamped data")
	data, sig, vk, err := p.SignAndStamp(src)
	require.NoError(t, err)
	require.Equal(t, in.VerKey(), vk)
	require.Equal(t, src, data[8:])

	ts := int64(binary.BigEndian.Uint64(data))
	require.InDelta(t, time.Now().Unix(), ts, 5)

	ok, _, err := p.Verify(data, sig)
	require.NoError(t, err)
	require.True(t, ok)
}
