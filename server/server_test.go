package server_test

import (
	"encoding/json"
	"flag"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/findy-network/findy-agent-vcx/agent/cloud"
	"github.com/findy-network/findy-agent-vcx/agent/pairwise"
	"github.com/findy-network/findy-agent-vcx/agent/sec"
	"github.com/findy-network/findy-agent-vcx/agent/ssi"
	"github.com/findy-network/findy-agent-vcx/agent/trans"
	"github.com/findy-network/findy-agent-vcx/agent/utils"
	"github.com/findy-network/findy-agent-vcx/enclave"
	"github.com/findy-network/findy-agent-vcx/protocol/connection"
	"github.com/findy-network/findy-agent-vcx/server"
	"github.com/findy-network/findy-agent-vcx/std/didexchange/invitation"
	"github.com/lainio/err2/assert"
	"github.com/lainio/err2/try"
	"github.com/stretchr/testify/require"
)

const sealedBoxFile = "server-test.bolt"

func TestMain(m *testing.M) {
	setUp()
	code := m.Run()
	tearDown()
	os.Exit(code)
}

func setUp() {
	try.To(flag.Set("logtostderr", "true"))
	flag.Parse()
	_ = os.RemoveAll(sealedBoxFile)
	_ = os.RemoveAll(sealedBoxFile + ".keyset")
	try.To(enclave.InitSealedBox(sealedBoxFile))
}

func tearDown() {
	enclave.WipeSealedBox()
}

func parseInvitation(t *testing.T, c *connection.Connection) *invitation.Invitation {
	t.Helper()

	data, err := c.InviteDetails()
	require.NoError(t, err)
	var inv invitation.Invitation
	require.NoError(t, json.Unmarshal([]byte(data), &inv))
	return &inv
}

// TestHandshakeOverWire runs the full connection protocol between two
// in-process agents with nothing mocked: packed payloads travel over
// HTTP through the relay, which queues, serves downloads, and records
// acknowledgments.
func TestHandshakeOverWire(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	srv, _ := server.StartTestHTTPServer()
	defer srv.Close()

	wallet := ssi.NewDevWallet()
	aliceRelay := cloud.New()
	bobRelay := cloud.New()

	alice, err := connection.NewInviter("alice", connection.Config{
		Label: "Alice", Autohop: true, Wallet: wallet, Relay: aliceRelay,
	})
	require.NoError(t, err)
	require.NoError(t, alice.Connect(aliceRelay.Sender(alice.Pairwise())))

	inv := parseInvitation(t, alice)
	require.Equal(t, srv.URL+"/agency/msg", inv.ServiceEndpoint)

	bob, err := connection.NewInvitee("bob", connection.Config{
		Label: "Bob", Wallet: wallet, Relay: bobRelay,
	}, inv)
	require.NoError(t, err)
	bobSend := bobRelay.Sender(bob.Pairwise())
	require.NoError(t, bob.Connect(bobSend))
	require.Equal(t, connection.StateRequested, bob.State())

	// alice downloads the request and autohops the response out; the
	// send capability is rebuilt per round because folding the request
	// rotates her pairwise
	require.NoError(t, alice.UpdateState(aliceRelay.Sender(alice.Pairwise())))
	require.Equal(t, connection.StateResponded, alice.State())

	// bob folds the response, then sends the pending ack on the next
	// round; without autohop these are separate rounds
	require.NoError(t, bob.UpdateState(bobSend))
	require.Equal(t, connection.StateResponded, bob.State())
	require.NoError(t, bob.UpdateState(bobSend))
	require.Equal(t, connection.StateCompleted, bob.State())

	require.NoError(t, alice.UpdateState(aliceRelay.Sender(alice.Pairwise())))
	require.Equal(t, connection.StateCompleted, alice.State())

	// both ends hold each other's rotated pairwise keys
	require.Equal(t,
		[]string{alice.Pairwise().VerKey},
		bob.RemoteDIDDoc().RecipientKeys())
	require.Equal(t,
		[]string{bob.Pairwise().VerKey},
		alice.RemoteDIDDoc().RecipientKeys())
	require.Equal(t, alice.ThreadID(), bob.ThreadID())

	// a2a traffic over the completed connection: the handshake's ack is
	// already reviewed, so only the fresh message comes down, and it
	// opens to bob's key
	require.NoError(t, bob.SendGenericMessage(bobSend, "hello over the wire"))
	msgs, err := alice.DownloadMessages([]string{cloud.MsgStatusReceived}, nil)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, cloud.MsgStatusReceived, msgs[0].StatusCode)
	require.Contains(t, msgs[0].Msg, "hello over the wire")

	// teardown: alice leaves and the relay stops routing to her
	require.NoError(t, alice.Delete())
	require.Error(t, bob.SendGenericMessage(bobSend, "anyone there"))
}

func TestQueueFilterAndAck(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	srv, _ := server.StartTestHTTPServer()
	defer srv.Close()

	wallet := ssi.NewDevWallet()
	relay := cloud.New()

	pw := try.To1(pairwise.Create(wallet))
	info := try.To1(relay.CreateAgent(pw))
	require.NotEmpty(t, info.AgentDID)
	require.NotEmpty(t, info.AgentVerKey)

	// a counterparty posts one packed message to our pairwise key
	peer := try.To1(wallet.CreateDID())
	pipe := sec.Pipe{In: peer, Out: ssi.NewOutDid(pw.VerKey)}
	packed := try.To1(pipe.Pack(
		[]byte(`{"@type":"https://didcomm.org/basicmessage/1.0/message",` +
			`"@id":"m-1","content":"ping"}`)))
	_, err := trans.HTTP{}.Call(relay.ServiceEndpoint(), packed)
	require.NoError(t, err)

	// fresh messages open to the sender's key
	msgs, err := relay.DownloadMessagesAuth(info, pw, peer.VerKey(),
		[]string{cloud.MsgStatusReceived}, nil)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "uid-1", msgs[0].UID)
	require.Contains(t, msgs[0].Msg, `"content":"ping"`)

	// the wrong expected sender fails the download
	_, err = relay.DownloadMessagesAuth(info, pw, "SomebodyElse", nil, nil)
	require.ErrorIs(t, err, cloud.ErrDecrypt)

	// acknowledging moves the message out of the fresh set but keeps it
	// downloadable under its new status
	require.NoError(t, relay.UpdateMessageStatus(pw, []string{"uid-1"}))
	fresh, err := relay.GetMessages(info, pw)
	require.NoError(t, err)
	require.Empty(t, fresh)

	reviewed, err := relay.DownloadMessagesAuth(info, pw, peer.VerKey(),
		[]string{cloud.MsgStatusReviewed}, nil)
	require.NoError(t, err)
	require.Len(t, reviewed, 1)
}

func TestDestroyStopsRouting(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	srv, _ := server.StartTestHTTPServer()
	defer srv.Close()

	wallet := ssi.NewDevWallet()
	relay := cloud.New()

	pw := try.To1(pairwise.Create(wallet))
	info := try.To1(relay.CreateAgent(pw))

	peer := try.To1(wallet.CreateDID())
	pipe := sec.Pipe{In: peer, Out: ssi.NewOutDid(pw.VerKey)}
	packed := try.To1(pipe.Pack([]byte(`{"@type":"probe","@id":"m-1"}`)))

	_, err := trans.HTTP{}.Call(relay.ServiceEndpoint(), packed)
	require.NoError(t, err)

	require.NoError(t, relay.Destroy(info, pw))
	_, err = trans.HTTP{}.Call(relay.ServiceEndpoint(), packed)
	require.Error(t, err)
}

func TestRelayRejectsGarbage(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	srv, _ := server.StartTestHTTPServer()
	defer srv.Close()

	for _, body := range []string{"not a wire payload", "{}"} {
		resp, err := http.Post(srv.URL+"/agency/msg",
			"application/ssi-agent-wire", strings.NewReader(body))
		require.NoError(t, err)
		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		require.NoError(t, resp.Body.Close())
	}
}

func TestVersionProbe(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	srv, _ := server.StartTestHTTPServer()
	defer srv.Close()

	utils.Settings.SetVersionInfo("dev relay test build")
	resp, err := http.Get(srv.URL + "/version")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body := try.To1(io.ReadAll(resp.Body))
	require.Contains(t, string(body), "dev relay test build")
}
