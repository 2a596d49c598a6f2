package cmds_test

import (
	"flag"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/findy-network/findy-agent-vcx/agent/cloud"
	"github.com/findy-network/findy-agent-vcx/agent/didcomm"
	"github.com/findy-network/findy-agent-vcx/agent/pltype"
	"github.com/findy-network/findy-agent-vcx/agent/utils"
	"github.com/findy-network/findy-agent-vcx/cmds"
	connectionCmd "github.com/findy-network/findy-agent-vcx/cmds/connection"
	issueCmd "github.com/findy-network/findy-agent-vcx/cmds/issue"
	proofCmd "github.com/findy-network/findy-agent-vcx/cmds/proof"
	serviceCmd "github.com/findy-network/findy-agent-vcx/cmds/service"
	"github.com/findy-network/findy-agent-vcx/protocol/connection"
	"github.com/findy-network/findy-agent-vcx/server"
	"github.com/findy-network/findy-agent-vcx/std/common"
	"github.com/findy-network/findy-agent-vcx/std/decorator"
	"github.com/findy-network/findy-agent-vcx/std/issuecredential"
	"github.com/findy-network/findy-agent-vcx/std/presentproof"
	"github.com/lainio/err2/assert"
	"github.com/lainio/err2/try"
	"github.com/stretchr/testify/require"
)

const testDataKey = "15308490f1e4026284594dd08d31291bc8ef2aeac730d0daf6ff87bb92d4336c"

const testProofRequestJSON = `{
  "name":"proof-of-email",
  "nonce":"123450985204850",
  "requested_attributes":{"attr1_referent":{"name":"email"}}
}`

var testServer *httptest.Server

func TestMain(m *testing.M) {
	try.To(flag.Set("logtostderr", "true"))
	flag.Parse()

	testServer, _ = server.StartTestHTTPServer()

	code := m.Run()
	testServer.Close()
	os.Exit(code)
}

func newBase(dir string) cmds.Cmd {
	return cmds.Cmd{
		DataDir:   dir,
		DataKey:   testDataKey,
		AgencyURL: testServer.URL,
	}
}

// handshake connects two parties through the relay with commands only:
// alice invites, bob joins, update rounds complete both sides.
func handshake(t *testing.T) (alice, bob cmds.Cmd) {
	t.Helper()

	alice = newBase(t.TempDir())
	bob = newBase(t.TempDir())

	inviteRes, err := connectionCmd.InviteCmd{
		Cmd: alice, ID: "bob", Label: "alice",
	}.Exec(nil)
	require.NoError(t, err)
	inv := inviteRes.(*connectionCmd.InviteResult).Invitation
	require.Equal(t, testServer.URL+"/agency/msg", inv.ServiceEndpoint)

	_, err = connectionCmd.JoinCmd{
		Cmd: bob, ID: "alice", Label: "bob", Invitation: inv,
	}.Exec(nil)
	require.NoError(t, err)

	require.Equal(t, "Responded", update(t, alice, "bob"))
	require.Equal(t, "Completed", update(t, bob, "alice"))
	require.Equal(t, "Completed", update(t, alice, "bob"))
	return alice, bob
}

func update(t *testing.T, base cmds.Cmd, id string) string {
	t.Helper()

	res, err := connectionCmd.UpdateCmd{Cmd: base, ID: id}.Exec(nil)
	require.NoError(t, err)
	return res.(*connectionCmd.Result).State
}

// asParty opens one party's stores and hands out the protocol
// configuration the commands themselves run with.
func asParty(t *testing.T, base cmds.Cmd, f func(conf connection.Config)) {
	t.Helper()

	require.NoError(t, base.Setup())
	defer base.Close()
	f(base.ConnConfig("", false))
}

// sendOver delivers a hand built message over a party's connection, the
// way a peer running some other agent implementation would.
func sendOver(t *testing.T, base cmds.Cmd, id string, m didcomm.MessageHdr) {
	t.Helper()

	asParty(t, base, func(conf connection.Config) {
		conn, err := cmds.FindConnection(conf, id)
		require.NoError(t, err)
		require.NoError(t, conn.SendMessage(conf.Relay.Sender(conn.Pairwise()), m))
	})
}

func holderRequest(thid string) didcomm.MessageHdr {
	return issuecredential.NewRequest(&issuecredential.Request{
		Type:           pltype.IssueCredentialRequest,
		ID:             utils.UUID(),
		RequestsAttach: issuecredential.NewRequestAttach([]byte(`{"nonce":"42"}`)),
		Thread:         &decorator.Thread{ID: thid},
	})
}

func holderAck(thid string) didcomm.MessageHdr {
	return common.NewAck(&common.Ack{
		Type:   pltype.IssueCredentialACK,
		ID:     utils.UUID(),
		Status: "OK",
		Thread: &decorator.Thread{ID: thid},
	})
}

func verifierRequest() didcomm.MessageHdr {
	return presentproof.NewRequest(&presentproof.Request{
		Type:                 pltype.PresentProofRequest,
		ID:                   utils.UUID(),
		RequestPresentations: presentproof.NewRequestAttach([]byte(testProofRequestJSON)),
	})
}

func verifierAck(thid string) didcomm.MessageHdr {
	return common.NewAck(&common.Ack{
		Type:   pltype.PresentProofACK,
		ID:     utils.UUID(),
		Status: "OK",
		Thread: &decorator.Thread{ID: thid},
	})
}

func serviceRound(t *testing.T, base cmds.Cmd) int {
	t.Helper()

	res, err := serviceCmd.ServiceCmd{
		Cmd: base, Interval: 10 * time.Millisecond, MaxRounds: 1,
	}.Exec(nil)
	require.NoError(t, err)
	return res.(*serviceCmd.ServiceResult).Advanced
}

func TestConnectionCommands(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	alice, bob := handshake(t)

	require.Error(t, connectionCmd.InviteCmd{ID: "x"}.Validate())
	require.Error(t, connectionCmd.InviteCmd{Cmd: alice}.Validate())
	require.NoError(t, connectionCmd.InviteCmd{Cmd: alice, ID: "x"}.Validate())
	require.ErrorIs(t,
		connectionCmd.JoinCmd{Cmd: bob, ID: "x"}.Validate(), cmds.ErrInvalid)

	_, err := connectionCmd.BasicMsgCmd{
		Cmd: bob, ID: "alice", Message: "hello from bob",
	}.Exec(nil)
	require.NoError(t, err)

	readRes, err := connectionCmd.ReadCmd{Cmd: alice, ID: "bob", Ack: true}.Exec(nil)
	require.NoError(t, err)
	msgs := readRes.(*connectionCmd.ReadResult).Messages
	require.Len(t, msgs, 1)
	require.Contains(t, msgs[0].Msg, "hello from bob")

	// acked messages are not offered again
	readRes, err = connectionCmd.ReadCmd{Cmd: alice, ID: "bob"}.Exec(nil)
	require.NoError(t, err)
	require.Empty(t, readRes.(*connectionCmd.ReadResult).Messages)

	// a ping round trip keeps both sides in Completed
	_, err = connectionCmd.TrustPingCmd{
		Cmd: alice, ID: "bob", Comment: "you there",
	}.Exec(nil)
	require.NoError(t, err)
	require.Equal(t, "Completed", update(t, bob, "alice"))

	_, err = connectionCmd.UpdateCmd{Cmd: alice, ID: "nobody"}.Exec(nil)
	require.Error(t, err)
}

func TestIssueCommands(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	alice, bob := handshake(t)

	offerRes, err := issueCmd.OfferCmd{
		Cmd:        alice,
		ID:         "bob",
		CredDefID:  "V4SG:3:CL:13:tag",
		Attributes: `{"email":"bob@example.com"}`,
		RevRegID:   "rev-reg-1",
		TailsFile:  "/tails/f1",
	}.Exec(nil)
	require.NoError(t, err)
	offer := offerRes.(*issueCmd.Result)
	require.Equal(t, "OfferSent", offer.State)

	// the holder requests the credential on the offer's thread
	sendOver(t, bob, "alice", holderRequest(offer.ThreadID))
	require.Equal(t, 1, serviceRound(t, alice))

	sendRes, err := issueCmd.SendCmd{Cmd: alice, ID: "bob", WaitAck: true}.Exec(nil)
	require.NoError(t, err)
	require.Equal(t, "CredentialSent", sendRes.(*issueCmd.Result).State)

	// the credential reached the holder, on the offer's thread
	asParty(t, bob, func(conf connection.Config) {
		conn, err := cmds.FindConnection(conf, "alice")
		require.NoError(t, err)
		msgs, err := conn.Messages()
		require.NoError(t, err)

		var cred *issuecredential.Issue
		for uid, m := range msgs {
			if c, ok := m.FieldObj().(*issuecredential.Issue); ok {
				cred = c
				require.NoError(t, conn.AckMessage(uid))
			}
		}
		require.NotNil(t, cred)
		require.Equal(t, offer.ThreadID, cred.Thread.ID)

		attach, err := issuecredential.CredentialAttach(cred)
		require.NoError(t, err)
		require.Contains(t, string(attach), "bob@example.com")
	})

	// the holder's ack closes the exchange on the next round
	sendOver(t, bob, "alice", holderAck(offer.ThreadID))
	require.Equal(t, 1, serviceRound(t, alice))

	revokeRes, err := issueCmd.RevokeCmd{Cmd: alice, ID: "bob"}.Exec(nil)
	require.NoError(t, err)
	require.Equal(t, "Finished", revokeRes.(*issueCmd.Result).State)

	require.Error(t, issueCmd.OfferCmd{
		Cmd: alice, ID: "bob", CredDefID: "cd", Attributes: "not json",
	}.Validate())
}

func TestProofCommands(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	alice, bob := handshake(t)

	// alice plays the verifier and requests a proof from bob
	sendOver(t, alice, "bob", verifierRequest())

	prepRes, err := proofCmd.PrepareCmd{
		Cmd: bob, ID: "alice", Credentials: `{"attr1_referent":"bob@example.com"}`,
	}.Exec(nil)
	require.NoError(t, err)
	prep := prepRes.(*proofCmd.Result)
	require.Equal(t, "PresentationPrepared", prep.State)

	sendRes, err := proofCmd.SendCmd{Cmd: bob, ID: "alice"}.Exec(nil)
	require.NoError(t, err)
	require.Equal(t, "PresentationSent", sendRes.(*proofCmd.Result).State)

	// the presentation reached the verifier's queue
	asParty(t, alice, func(conf connection.Config) {
		conn, err := cmds.FindConnection(conf, "bob")
		require.NoError(t, err)
		msgs, err := conn.DownloadMessages([]string{cloud.MsgStatusReceived}, nil)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		require.Contains(t, msgs[0].Msg, "attr1_referent")
		require.NoError(t, conn.AckMessage(msgs[0].UID))
	})

	sendOver(t, alice, "bob", verifierAck(prep.ThreadID))
	require.Equal(t, 1, serviceRound(t, bob))
	require.Equal(t, 0, serviceRound(t, bob))
}

func TestProofReject(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	alice, bob := handshake(t)

	sendOver(t, alice, "bob", verifierRequest())

	_, err := proofCmd.PrepareCmd{
		Cmd: bob, ID: "alice", Credentials: `{}`,
	}.Exec(nil)
	require.NoError(t, err)

	rejectRes, err := proofCmd.RejectCmd{
		Cmd: bob, ID: "alice", Reason: "not sharing",
	}.Exec(nil)
	require.NoError(t, err)
	require.Equal(t, "Failed", rejectRes.(*proofCmd.Result).State)

	// the verifier got the problem report
	asParty(t, alice, func(conf connection.Config) {
		conn, err := cmds.FindConnection(conf, "bob")
		require.NoError(t, err)
		msgs, err := conn.DownloadMessages([]string{cloud.MsgStatusReceived}, nil)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		require.Contains(t, msgs[0].Msg, "not sharing")
	})
}

func TestServiceValidate(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	base := newBase(t.TempDir())
	require.Error(t, serviceCmd.ServiceCmd{Cmd: base}.Validate())
	require.NoError(t,
		serviceCmd.ServiceCmd{Cmd: base, Interval: time.Second}.Validate())
}
