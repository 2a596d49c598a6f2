package common

import (
	"testing"

	"github.com/findy-network/findy-agent-vcx/agent/aries"
	"github.com/stretchr/testify/assert"
)

var problemReportJSON = `
  {
    "@type": "did:sov:BzCbsNYhMrjHiqZDTUASHg;spec/connections/1.0/problem_report",
    "@id": "4c4b7b6e-9353-4220-8a01-050d0ab86083",
    "~thread": { "thid": "a32cc1e8-0b0e-4c2b-97fb-ff18f7aa4cc6" },
    "problem-code": "request_processing_error",
    "explain": "could not process request"
  }`

func TestProblemReport_ReadJSON(t *testing.T) {
	m, err := aries.PayloadFromData([]byte(problemReportJSON))
	assert.NoError(t, err)

	assert.Equal(t, "4c4b7b6e-9353-4220-8a01-050d0ab86083", m.ID())
	assert.Equal(t, "a32cc1e8-0b0e-4c2b-97fb-ff18f7aa4cc6", m.Nonce())

	msg, ok := m.FieldObj().(*ProblemReport)
	assert.True(t, ok)
	assert.Equal(t, "request_processing_error", msg.ProblemCode)
	assert.NotEmpty(t, msg.Explain)
}
