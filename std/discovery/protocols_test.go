package discovery

import (
	"testing"

	"github.com/findy-network/findy-agent-vcx/agent/pltype"
	"github.com/lainio/err2/assert"
	"github.com/stretchr/testify/require"
)

func TestProtocolsForQuery(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	tests := []struct {
		name  string
		query string
		count int
	}{
		{"empty matches all", "", len(SupportedProtocols())},
		{"star matches all", "*", len(SupportedProtocols())},
		{"family prefix", pltype.AriesConnection + "/*", 1},
		{"exact pid", pltype.TrustPing + "/1.0", 1},
		{"no match", "did:sov:BzCbsNYhMrjHiqZDTUASHg;spec/no-such/*", 0},
		{"exact miss", pltype.TrustPing + "/2.0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.PushTester(t)
			defer assert.PopTester()

			pds := ProtocolsForQuery(tt.query)
			require.Len(t, pds, tt.count)
		})
	}
}

func TestProtocolsForQueryResult(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	pds := ProtocolsForQuery(pltype.PresentProof + "/*")
	require.Len(t, pds, 1)
	require.Equal(t, pltype.PresentProof+"/1.0", pds[0].PID)
}
