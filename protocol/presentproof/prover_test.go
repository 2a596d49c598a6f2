package presentproof

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/findy-network/findy-agent-vcx/agent/cloud"
	"github.com/findy-network/findy-agent-vcx/agent/didcomm"
	"github.com/findy-network/findy-agent-vcx/agent/pltype"
	"github.com/findy-network/findy-agent-vcx/agent/psm"
	"github.com/findy-network/findy-agent-vcx/agent/trans"
	"github.com/findy-network/findy-agent-vcx/agent/utils"
	"github.com/findy-network/findy-agent-vcx/agent/vc"
	"github.com/findy-network/findy-agent-vcx/protocol"
	"github.com/findy-network/findy-agent-vcx/protocol/connection"
	"github.com/findy-network/findy-agent-vcx/std/common"
	"github.com/findy-network/findy-agent-vcx/std/decorator"
	"github.com/findy-network/findy-agent-vcx/std/presentproof"
	sov "github.com/findy-network/findy-agent-vcx/std/sov/did"
	"github.com/lainio/err2/assert"
	"github.com/stretchr/testify/require"
)

const testProofRequestJSON = `{
  "name":"proof-of-email",
  "nonce":"123450985204850",
  "requested_attributes":{"attr1_referent":{"name":"email"}}
}`

// testConnection restores a completed connection for the exchange to run
// over: our pairwise on one side, the verifier's doc on the other.
func testConnection(t *testing.T) (*connection.Connection, *trans.Mock) {
	t.Helper()

	m := trans.NewMock()
	doc := sov.NewDocFromEndpoint("VerifierDID",
		[]string{"VerifierVK"}, nil, "http://verifier.example.com/msg")
	docJSON, err := json.Marshal(doc)
	require.NoError(t, err)

	stored := fmt.Sprintf(`{
	  "version":"1.0",
	  "data":{"pw_did":"ProverPwDID","pw_vk":"ProverPwVK","agent_did":"ProverAgent","agent_vk":"ProverAgentVK"},
	  "state":{"Invitee":{"Completed":{"did_doc":%s,"thread_id":"conn-1"}}},
	  "source_id":"acme",
	  "thread_id":"conn-1"
	}`, docJSON)

	conn, err := connection.Deserialize([]byte(stored), connection.Config{
		Relay: &cloud.Agent{Addr: "http://relay.test", Trans: m},
	})
	require.NoError(t, err)
	require.Equal(t, connection.StateCompleted, conn.State())
	return conn, m
}

// recorder collects outbound messages instead of delivering them.
type recorder struct {
	sent []didcomm.MessageHdr
	err  error
}

func (r *recorder) send(m didcomm.MessageHdr, _ *sov.Doc) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, m)
	return nil
}

func proofRequest(id string, attach []byte) *presentproof.Request {
	return &presentproof.Request{
		Type:                 pltype.PresentProofRequest,
		ID:                   id,
		RequestPresentations: presentproof.NewRequestAttach(attach),
	}
}

func verifierAck(thid string) didcomm.MessageHdr {
	return common.NewAck(&common.Ack{
		Type:   pltype.PresentProofACK,
		ID:     utils.UUID(),
		Status: "OK",
		Thread: &decorator.Thread{ID: thid},
	})
}

func TestPrepareAndPresent(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	conn, mock := testConnection(t)
	prover := NewProver("acme", proofRequest("req-1", []byte(testProofRequestJSON)),
		&vc.DevProver{})
	require.Equal(t, StateInitial, prover.State())
	require.Equal(t, "req-1", prover.ThreadID())
	require.True(t, prover.HasTransitions())

	require.NoError(t, prover.PreparePresentation(
		map[string]string{"email": "bob@example.com"}))
	require.Equal(t, StatePresentationPrepared, prover.State())

	require.ErrorIs(t, prover.PreparePresentation(nil), protocol.ErrInvalidAction)

	// a failing transport leaves the step retriable
	rec := &recorder{err: errors.New("relay down")}
	require.Error(t, prover.SendPresentation(conn, rec.send))
	require.Equal(t, StatePresentationPrepared, prover.State())

	rec.err = nil
	require.NoError(t, prover.SendPresentation(conn, rec.send))
	require.Equal(t, StatePresentationSent, prover.State())
	require.Len(t, rec.sent, 1)

	msg := rec.sent[0]
	require.Equal(t, pltype.PresentProofPresentation, msg.Type())
	require.Equal(t, prover.ThreadID(), msg.Nonce())
	require.Contains(t, string(msg.JSON()), "~please_ack")

	// the requested email is revealed from the given credential
	fields, ok := msg.FieldObj().(*presentproof.Presentation)
	require.True(t, ok)
	attach, err := presentproof.PresentationAttach(fields)
	require.NoError(t, err)
	require.Contains(t, string(attach), `"revealed_attrs"`)
	require.Contains(t, string(attach), "bob@example.com")

	// the verifier's ack closes the exchange
	mock.AddDecrypted(verifierAck(prover.ThreadID()).JSON())
	st, err := prover.UpdateState(conn)
	require.NoError(t, err)
	require.Equal(t, StateFinished, st)
	require.True(t, prover.IsTerminal())
	require.False(t, prover.HasTransitions())
}

func TestThreadComesFromRequestDecorator(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	req := proofRequest("req-1", []byte(testProofRequestJSON))
	req.Thread = &decorator.Thread{ID: "outer-thread"}
	prover := NewProver("acme", req, &vc.DevProver{})
	require.Equal(t, "outer-thread", prover.ThreadID())
}

func TestSelfAttestedWhenNoCredential(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	prover := NewProver("acme", proofRequest("req-1", []byte(testProofRequestJSON)),
		&vc.DevProver{})
	require.NoError(t, prover.PreparePresentation(nil))
	require.Equal(t, StatePresentationPrepared, prover.State())

	st, ok := prover.st.(proverPrepared)
	require.True(t, ok)
	attach, err := presentproof.PresentationAttach(st.Presentation)
	require.NoError(t, err)
	require.Contains(t, string(attach), `"self_attested_attrs"`)
	require.Contains(t, string(attach), "attr1_referent")
}

func TestPrepareFailureTurnsIntoReport(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	conn, _ := testConnection(t)
	prover := NewProver("acme", proofRequest("req-1", []byte("not-json")),
		&vc.DevProver{})

	// an unreadable request is protocol traffic, not an engine error
	require.NoError(t, prover.PreparePresentation(nil))
	require.Equal(t, StatePresentationPreparationFailed, prover.State())
	require.True(t, prover.HasTransitions())

	rec := &recorder{}
	require.NoError(t, prover.SendPresentation(conn, rec.send))
	require.Equal(t, StateFailed, prover.State())
	require.True(t, prover.IsTerminal())

	report := rec.sent[0]
	require.Equal(t, pltype.PresentProofProblemReport, report.Type())
	require.Equal(t, prover.ThreadID(), report.Nonce())
}

func TestReject(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	conn, _ := testConnection(t)
	prover := NewProver("acme", proofRequest("req-1", []byte(testProofRequestJSON)),
		&vc.DevProver{})

	rec := &recorder{}
	require.NoError(t, prover.Reject(conn, rec.send, "not sharing my email"))
	require.Equal(t, StateFailed, prover.State())

	report, ok := rec.sent[0].FieldObj().(*common.ProblemReport)
	require.True(t, ok)
	require.Equal(t, "presentation-abandoned", report.Description.Code)
	require.Equal(t, "not sharing my email", report.Explain)
	require.Equal(t, "req-1", report.Thread.ID)

	require.ErrorIs(t, prover.Reject(conn, rec.send, "again"), protocol.ErrInvalidAction)
}

func TestVerifierProblemReportFails(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	conn, mock := testConnection(t)
	prover := NewProver("acme", proofRequest("req-1", []byte(testProofRequestJSON)),
		&vc.DevProver{})
	require.NoError(t, prover.PreparePresentation(
		map[string]string{"email": "bob@example.com"}))

	rec := &recorder{}
	require.NoError(t, prover.SendPresentation(conn, rec.send))

	mock.AddDecrypted(common.NewProblemReport(&common.ProblemReport{
		Type:        pltype.PresentProofProblemReport,
		ID:          utils.UUID(),
		Description: common.Code{Code: "verification-failed"},
		Explain:     "proof does not verify",
		Thread:      &decorator.Thread{ID: prover.ThreadID()},
	}).JSON())
	st, err := prover.UpdateState(conn)
	require.NoError(t, err)
	require.Equal(t, StateFailed, st)

	// terminal machines stay off the network: a queued transport error
	// would surface if the update round touched the relay
	mock.AddError(errors.New("no traffic expected"))
	st, err = prover.UpdateState(conn)
	require.NoError(t, err)
	require.Equal(t, StateFailed, st)
}

func TestOtherThreadAckIsNotPicked(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	conn, mock := testConnection(t)
	prover := NewProver("acme", proofRequest("req-1", []byte(testProofRequestJSON)),
		&vc.DevProver{})
	require.NoError(t, prover.PreparePresentation(
		map[string]string{"email": "bob@example.com"}))

	rec := &recorder{}
	require.NoError(t, prover.SendPresentation(conn, rec.send))

	before, err := prover.Serialize()
	require.NoError(t, err)

	mock.AddDecrypted(verifierAck("other-exchange").JSON())
	st, err := prover.UpdateState(conn)
	require.NoError(t, err)
	require.Equal(t, StatePresentationSent, st)

	after, err := prover.Serialize()
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestFindMessageToHandle(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	prover := NewProver("acme", proofRequest("req-1", []byte(testProofRequestJSON)),
		&vc.DevProver{})
	require.NoError(t, prover.PreparePresentation(
		map[string]string{"email": "bob@example.com"}))

	// nothing is picked before the presentation went out
	uid, m := prover.FindMessageToHandle(map[string]didcomm.MessageHdr{
		"uid-1": verifierAck("req-1"),
	})
	require.Empty(t, uid)
	require.Nil(t, m)

	conn, _ := testConnection(t)
	rec := &recorder{}
	require.NoError(t, prover.SendPresentation(conn, rec.send))

	// scan runs in uid order, foreign threads are skipped
	uid, m = prover.FindMessageToHandle(map[string]didcomm.MessageHdr{
		"uid-1": verifierAck("other-exchange"),
		"uid-2": verifierAck("req-1"),
	})
	require.Equal(t, "uid-2", uid)
	require.NotNil(t, m)
}

func TestSendNeedsPreparedOutcome(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	conn, _ := testConnection(t)
	prover := NewProver("acme", proofRequest("req-1", []byte(testProofRequestJSON)),
		&vc.DevProver{})

	rec := &recorder{}
	require.ErrorIs(t, prover.SendPresentation(conn, rec.send), protocol.ErrInvalidAction)
	require.Empty(t, rec.sent)
}

func TestPrepareNeedsRequest(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	prover := NewProver("acme", nil, &vc.DevProver{})
	require.ErrorIs(t, prover.PreparePresentation(nil), protocol.ErrInvalidState)
	require.Equal(t, StateInitial, prover.State())
}

func TestProverSerializeRoundTrip(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	conn, mock := testConnection(t)
	prover := NewProver("acme", proofRequest("req-1", []byte(testProofRequestJSON)),
		&vc.DevProver{})
	require.NoError(t, prover.PreparePresentation(
		map[string]string{"email": "bob@example.com"}))

	data, err := prover.Serialize()
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	require.JSONEq(t, `"1.0"`, string(fields["version"]))
	require.Contains(t, string(fields["state"]), `"PresentationPrepared"`)

	restored, err := DeserializeProver(data, &vc.DevProver{})
	require.NoError(t, err)
	require.Equal(t, StatePresentationPrepared, restored.State())
	require.Equal(t, prover.ThreadID(), restored.ThreadID())
	require.Equal(t, prover.SourceID(), restored.SourceID())

	// the restored machine continues the exchange
	rec := &recorder{}
	require.NoError(t, restored.SendPresentation(conn, rec.send))
	require.Equal(t, StatePresentationSent, restored.State())

	mock.AddDecrypted(verifierAck(restored.ThreadID()).JSON())
	st, err := restored.UpdateState(conn)
	require.NoError(t, err)
	require.Equal(t, StateFinished, st)
}

func TestProverFailedStoresUnderFinishedTag(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	prover := &Prover{
		sourceID: "acme",
		threadID: "t-1",
		st:       proverFinished{Failed: true},
	}
	data, err := prover.Serialize()
	require.NoError(t, err)
	require.Contains(t, string(data), `"Finished"`)
	require.NotContains(t, string(data), `"Failed"`)

	restored, err := DeserializeProver(data, nil)
	require.NoError(t, err)
	require.Equal(t, StateFailed, restored.State())
}

func TestProverLegacyPayloadLoads(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	legacy := `{
	  "state":{"Initial":{"presentation_request":{"@id":"req-legacy"}}},
	  "source_id":"acme",
	  "thread_id":"req-legacy"
	}`
	prover, err := DeserializeProver([]byte(legacy), nil)
	require.NoError(t, err)
	require.Equal(t, StateInitial, prover.State())
	require.Equal(t, "req-legacy", prover.ThreadID())
}

func TestProverUnknownVersionRefused(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	bad := `{"version":"2.0","state":{"Initial":{}},"source_id":"x"}`
	_, err := DeserializeProver([]byte(bad), nil)
	require.ErrorIs(t, err, psm.ErrUnknownVersion)
}
