package psm

import (
	"flag"
	"os"
	"testing"

	"github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/lainio/err2/assert"
	"github.com/lainio/err2/try"
	"github.com/stretchr/testify/require"
)

const (
	testStoreKey  = "15308490f1e4026284594dd08d31291bc8ef2aeac730d0daf6ff87bb92d4336c"
	testStoreName = "psm_test"
)

func TestMain(m *testing.M) {
	setUp()
	code := m.Run()
	tearDown()
	os.Exit(code)
}

func setUp() {
	try.To(flag.Set("logtostderr", "true"))
	flag.Parse()
	try.To(OpenStore(testStoreKey, testStoreName, "."))
}

func tearDown() {
	try.To(CloseStore())
	os.RemoveAll("./" + testStoreName + ".bolt")
}

func TestConnectionRepRoundTrip(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	key := NewStateKey("PwDID1", "thread-1")
	sealed := []byte(`{"version":"1.0","source_id":"alice"}`)

	require.NoError(t, AddConnectionRep(key, sealed))

	got, err := GetConnectionRep(key)
	require.NoError(t, err)
	require.Equal(t, sealed, got)

	all, err := AllConnectionReps()
	require.NoError(t, err)
	require.Contains(t, all, sealed)

	require.NoError(t, RmConnectionRep(key))
	_, err = GetConnectionRep(key)
	require.ErrorIs(t, err, storage.ErrDataNotFound)
}

func TestRepBucketsAreSeparate(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	key := NewStateKey("PwDID2", "thread-2")
	require.NoError(t, AddIssuerRep(key, []byte("issuer")))
	require.NoError(t, AddProverRep(key, []byte("prover")))

	issuer, err := GetIssuerRep(key)
	require.NoError(t, err)
	require.Equal(t, []byte("issuer"), issuer)

	prover, err := GetProverRep(key)
	require.NoError(t, err)
	require.Equal(t, []byte("prover"), prover)

	_, err = GetConnectionRep(key)
	require.ErrorIs(t, err, storage.ErrDataNotFound)
}

func TestRepsNeedOpenStore(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	saved := store
	store = nil
	defer func() { store = saved }()

	_, err := GetConnectionRep(NewStateKey("d", "t"))
	require.ErrorIs(t, err, ErrNotOpen)
}
