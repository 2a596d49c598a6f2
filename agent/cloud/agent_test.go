package cloud

import (
	"encoding/json"
	"testing"

	"github.com/findy-network/findy-agent-vcx/agent/pairwise"
	"github.com/findy-network/findy-agent-vcx/agent/pltype"
	"github.com/findy-network/findy-agent-vcx/agent/sec"
	"github.com/findy-network/findy-agent-vcx/agent/ssi"
	"github.com/findy-network/findy-agent-vcx/agent/trans"
	"github.com/findy-network/findy-common-go/dto"
	"github.com/lainio/err2/assert"
	"github.com/stretchr/testify/require"
)

var (
	testPw    = pairwise.Info{DID: "PwDID1", VerKey: "PwVerKey1"}
	testAgent = AgentInfo{AgentDID: "AgentDID1", AgentVerKey: "AgentVerKey1"}
)

const testPingJSON = `{
  "@type": "did:sov:BzCbsNYhMrjHiqZDTUASHg;spec/trust_ping/1.0/ping",
  "@id": "ping-1",
  "response_requested": true
}`

func TestCreateAgent(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	m := trans.NewMock()
	m.AddResponse(dto.ToJSONBytes(keyCreated{
		Type:                  pltype.AgencyKeyCreated,
		WithPairwiseDID:       testAgent.AgentDID,
		WithPairwiseDIDVerKey: testAgent.AgentVerKey,
	}))
	a := &Agent{Addr: "http://relay", Trans: m}

	info, err := a.CreateAgent(testPw)
	require.NoError(t, err)
	require.Equal(t, testAgent, info)
}

func TestCreateAgentEmptyResponse(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	a := &Agent{Addr: "http://relay", Trans: trans.NewMock()}

	_, err := a.CreateAgent(testPw)
	require.Error(t, err)
}

func TestGetMessagesFromDecryptedQueue(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	m := trans.NewMock()
	m.AddDecrypted([]byte(testPingJSON))
	a := &Agent{Addr: "http://relay", Trans: m}

	msgs, err := a.GetMessages(testAgent, testPw)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	msg, ok := msgs["uid-1"]
	require.True(t, ok)
	require.Equal(t, pltype.TrustPingPing, msg.Type())
	require.Equal(t, "ping-1", msg.ID())
}

func TestDownloadMessagesAuth(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	senderPipe := sec.Pipe{In: ssi.NewDid("TheirDID", "TheirVerKey")}
	packed, err := senderPipe.Pack([]byte(testPingJSON))
	require.NoError(t, err)

	wire := dto.ToJSONBytes(messageList{
		Type: pltype.AgencyMsgs,
		Msgs: []downloadedMessage{{
			StatusCode: MsgStatusReceived,
			UID:        "abcd123",
			Payload:    json.RawMessage(packed),
		}},
	})

	m := trans.NewMock()
	m.AddResponse(wire)
	a := &Agent{Addr: "http://relay", Trans: m}

	msgs, err := a.DownloadMessagesAuth(testAgent, testPw, "TheirVerKey", nil, nil)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "abcd123", msgs[0].UID)
	require.JSONEq(t, testPingJSON, msgs[0].Msg)
}

func TestDownloadMessagesAuthWrongSender(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	senderPipe := sec.Pipe{In: ssi.NewDid("MalloryDID", "MalloryVerKey")}
	packed, err := senderPipe.Pack([]byte(testPingJSON))
	require.NoError(t, err)

	wire := dto.ToJSONBytes(messageList{
		Type: pltype.AgencyMsgs,
		Msgs: []downloadedMessage{{
			StatusCode: MsgStatusReceived,
			UID:        "abcd123",
			Payload:    json.RawMessage(packed),
		}},
	})

	m := trans.NewMock()
	m.AddResponse(wire)
	a := &Agent{Addr: "http://relay", Trans: m}

	_, err = a.DownloadMessagesAuth(testAgent, testPw, "TheirVerKey", nil, nil)
	require.ErrorIs(t, err, ErrDecrypt)
}

func TestUpdateMessageStatus(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	m := trans.NewMock()
	a := &Agent{Addr: "http://relay", Trans: m}

	// empty relay response is a successful ack
	require.NoError(t, a.UpdateMessageStatus(testPw, []string{"uid-1"}))

	// the real relay echoes the status type
	m.AddResponse([]byte(`{"@type":"` + pltype.AgencyMsgStatusUpdatedByConns + `"}`))
	require.NoError(t, a.UpdateMessageStatus(testPw, []string{"uid-2"}))

	// anything else is an error
	m.AddResponse([]byte(`{"@type":"bad"}`))
	require.Error(t, a.UpdateMessageStatus(testPw, []string{"uid-3"}))
}

func TestRoutingKeys(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	a := &Agent{Addr: "http://relay", VerKey: "RelayVerKey"}
	require.Equal(t,
		[]string{"AgentVerKey1", "RelayVerKey"},
		a.RoutingKeys(testAgent))
	require.Equal(t, "http://relay/agency/msg", a.ServiceEndpoint())
}
