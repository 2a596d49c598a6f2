package discovery

import (
	"strings"

	"github.com/findy-network/findy-agent-vcx/agent/pltype"
)

// SupportedProtocols lists the protocol versions this agent implements,
// in the form the disclose message carries them.
func SupportedProtocols() []ProtocolDescriptor {
	families := []string{
		pltype.AriesConnection,
		pltype.Notification,
		pltype.ReportProblem,
		pltype.TrustPing,
		pltype.Discovery,
		pltype.IssueCredential,
		pltype.PresentProof,
		pltype.BasicMessage,
	}
	pds := make([]ProtocolDescriptor, 0, len(families))
	for _, f := range families {
		pds = append(pds, ProtocolDescriptor{PID: f + "/1.0"})
	}
	return pds
}

// ProtocolsForQuery filters the supported protocols with the query
// string: empty matches all, a trailing '*' matches by prefix, anything
// else must match a pid exactly.
func ProtocolsForQuery(query string) []ProtocolDescriptor {
	all := SupportedProtocols()
	switch {
	case query == "":
		return all
	case strings.HasSuffix(query, "*"):
		prefix := strings.TrimSuffix(query, "*")
		pds := make([]ProtocolDescriptor, 0, len(all))
		for _, pd := range all {
			if strings.HasPrefix(pd.PID, prefix) {
				pds = append(pds, pd)
			}
		}
		return pds
	default:
		for _, pd := range all {
			if pd.PID == query {
				return []ProtocolDescriptor{pd}
			}
		}
		return nil
	}
}
