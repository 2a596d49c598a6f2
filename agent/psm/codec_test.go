package psm

import (
	"encoding/json"
	"testing"

	"github.com/lainio/err2/assert"
	"github.com/stretchr/testify/require"
)

type testWire struct {
	SourceID string          `json:"source_id"`
	State    json.RawMessage `json:"state"`
}

func TestSealTagsFlat(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	sealed, err := Seal(testWire{
		SourceID: "alice",
		State:    json.RawMessage(`{"Inviter":"Null"}`),
	})
	require.NoError(t, err)
	require.JSONEq(t,
		`{"version":"1.0","source_id":"alice","state":{"Inviter":"Null"}}`,
		string(sealed))
}

func TestOpenRoundTrip(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	in := testWire{
		SourceID: "alice",
		State:    json.RawMessage(`{"Invitee":{"Invited":{}}}`),
	}
	sealed, err := Seal(in)
	require.NoError(t, err)

	var out testWire
	require.NoError(t, Open(sealed, &out))
	require.Equal(t, in.SourceID, out.SourceID)
	require.JSONEq(t, string(in.State), string(out.State))
}

func TestOpenLegacyUntagged(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	// payloads from before the version tag load as they are
	var out testWire
	err := Open([]byte(`{"source_id":"legacy","state":{"Inviter":"Null"}}`), &out)
	require.NoError(t, err)
	require.Equal(t, "legacy", out.SourceID)
}

func TestOpenUnknownVersion(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	var out testWire
	err := Open([]byte(`{"version":"2.0","source_id":"x"}`), &out)
	require.ErrorIs(t, err, ErrUnknownVersion)
}
