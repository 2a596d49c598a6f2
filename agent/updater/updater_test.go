package updater_test

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/findy-network/findy-agent-vcx/agent/cloud"
	"github.com/findy-network/findy-agent-vcx/agent/comm"
	"github.com/findy-network/findy-agent-vcx/agent/didcomm"
	"github.com/findy-network/findy-agent-vcx/agent/pltype"
	"github.com/findy-network/findy-agent-vcx/agent/psm"
	"github.com/findy-network/findy-agent-vcx/agent/ssi"
	"github.com/findy-network/findy-agent-vcx/agent/trans"
	"github.com/findy-network/findy-agent-vcx/agent/updater"
	"github.com/findy-network/findy-agent-vcx/agent/utils"
	"github.com/findy-network/findy-agent-vcx/agent/vc"
	"github.com/findy-network/findy-agent-vcx/enclave"
	"github.com/findy-network/findy-agent-vcx/protocol/connection"
	issue "github.com/findy-network/findy-agent-vcx/protocol/issuecredential"
	proof "github.com/findy-network/findy-agent-vcx/protocol/presentproof"
	"github.com/findy-network/findy-agent-vcx/std/common"
	"github.com/findy-network/findy-agent-vcx/std/decorator"
	"github.com/findy-network/findy-agent-vcx/std/didexchange/invitation"
	"github.com/findy-network/findy-agent-vcx/std/issuecredential"
	"github.com/findy-network/findy-agent-vcx/std/presentproof"
	sov "github.com/findy-network/findy-agent-vcx/std/sov/did"
	"github.com/lainio/err2/assert"
	"github.com/lainio/err2/try"
	"github.com/stretchr/testify/require"
)

const (
	sealedBoxFile = "updater-test.bolt"
	testStoreKey  = "15308490f1e4026284594dd08d31291bc8ef2aeac730d0daf6ff87bb92d4336c"
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
	_ = os.RemoveAll(sealedBoxFile)
	_ = os.RemoveAll(sealedBoxFile + ".keyset")
	try.To(enclave.InitSealedBox(sealedBoxFile))
}

func tearDown() {
	enclave.WipeSealedBox()
}

// openStore gives each test its own exchange store.
func openStore(t *testing.T) {
	t.Helper()
	try.To(psm.OpenStore(testStoreKey, "updater-exchanges", t.TempDir()))
	t.Cleanup(func() { try.To(psm.CloseStore()) })
}

// testRelay returns a relay client driven by a mock transport.
func testRelay() (*cloud.Agent, *trans.Mock) {
	m := trans.NewMock()
	return &cloud.Agent{Addr: "http://relay.test", Trans: m}, m
}

// expectAgentCreate queues the relay's answer to the next CreateAgent call.
func expectAgentCreate(m *trans.Mock, did, vk string) {
	m.AddResponse([]byte(`{"@type":"` + pltype.AgencyKeyCreated +
		`","withPairwiseDID":"` + did + `","withPairwiseDIDVerKey":"` + vk + `"}`))
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

// deliverTo feeds outbound messages into the peer's relay queue.
func deliverTo(m *trans.Mock) comm.SendFn {
	return func(msg didcomm.MessageHdr, _ *sov.Doc) error {
		m.AddDecrypted(msg.JSON())
		return nil
	}
}

func parseInvitation(t *testing.T, c *connection.Connection) *invitation.Invitation {
	t.Helper()

	data, err := c.InviteDetails()
	require.NoError(t, err)
	var inv invitation.Invitation
	require.NoError(t, json.Unmarshal([]byte(data), &inv))
	return &inv
}

// requestedInvitee drives a fresh pair until the invitee sits stored in
// Requested; the inviter's response is returned undelivered so the test
// decides when it arrives.
func requestedInvitee(
	t *testing.T,
	bobConf connection.Config,
	bobMock *trans.Mock,
) (
	bob *connection.Connection,
	response didcomm.MessageHdr,
) {
	t.Helper()

	aliceRelay, aliceMock := testRelay()
	expectAgentCreate(aliceMock, "AliceAgent1", "AliceAgentVK1")
	alice, err := connection.NewInviter("alice", connection.Config{
		Autohop: true, Wallet: bobConf.Wallet, Relay: aliceRelay,
	})
	require.NoError(t, err)
	rec := &recorder{}
	require.NoError(t, alice.Connect(rec.send))

	expectAgentCreate(bobMock, "BobAgent1", "BobAgentVK1")
	bob, err = connection.NewInvitee("bob", bobConf, parseInvitation(t, alice))
	require.NoError(t, err)
	require.NoError(t, bob.Connect(deliverTo(aliceMock)))
	require.Equal(t, connection.StateRequested, bob.State())

	expectAgentCreate(aliceMock, "AliceAgent2", "AliceAgentVK2")
	require.NoError(t, alice.UpdateState(rec.send))
	require.Equal(t, connection.StateResponded, alice.State())
	require.Len(t, rec.sent, 1)

	require.NoError(t, bob.Save())
	return bob, rec.sent[0]
}

// storedCompletedConnection saves a completed connection for credential
// and proof machines to ride.
func storedCompletedConnection(
	t *testing.T,
	sourceID, role string,
	relay *cloud.Agent,
) *connection.Connection {
	t.Helper()

	doc := sov.NewDocFromEndpoint("PeerDID",
		[]string{"PeerVK"}, nil, "http://peer.example.com/msg")
	docJSON := try.To1(json.Marshal(doc))

	stored := fmt.Sprintf(`{
	  "version":"1.0",
	  "data":{"pw_did":"PwDID","pw_vk":"PwVK","agent_did":"AgentDID","agent_vk":"AgentVK"},
	  "state":{%q:{"Completed":{"did_doc":%s,"thread_id":"conn-1"}}},
	  "source_id":%q,
	  "thread_id":"conn-1"
	}`, role, docJSON, sourceID)

	conn, err := connection.Deserialize([]byte(stored), connection.Config{Relay: relay})
	require.NoError(t, err)
	require.Equal(t, connection.StateCompleted, conn.State())
	require.NoError(t, conn.Save())
	return conn
}

var testOfferInfo = vc.OfferInfo{
	CredDefID: "V4SG:3:CL:1:tag",
	Values:    map[string]string{"email": "bob@example.com", "name": "Bob"},
}

func holderRequest(thid string) didcomm.MessageHdr {
	return issuecredential.NewRequest(&issuecredential.Request{
		Type:           pltype.IssueCredentialRequest,
		ID:             utils.UUID(),
		RequestsAttach: issuecredential.NewRequestAttach([]byte(`{"nonce":"42"}`)),
		Thread:         &decorator.Thread{ID: thid},
	})
}

const testProofRequestJSON = `{
  "name":"proof-of-email",
  "nonce":"123450985204850",
  "requested_attributes":{"attr1_referent":{"name":"email"}}
}`

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

func TestRoundAdvancesConnection(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()
	openStore(t)

	relay, mock := testRelay()
	conf := connection.Config{Autohop: true, Wallet: ssi.NewDevWallet(), Relay: relay}

	bob, response := requestedInvitee(t, conf, mock)
	mock.AddDecrypted(response.JSON())

	u := updater.New(updater.Config{ConnConf: conf})
	stats, err := u.Round()
	require.NoError(t, err)
	require.Equal(t, updater.RoundStats{Connections: 1}, stats)

	restored, err := connection.LoadConnection(bob.StoreKey(), conf)
	require.NoError(t, err)
	require.Equal(t, connection.StateCompleted, restored.State())

	// a settled store yields an all quiet round
	stats, err = u.Round()
	require.NoError(t, err)
	require.Zero(t, stats.Changed())
}

func TestRoundKeepsBrokenMachineRetriable(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()
	openStore(t)

	relay, mock := testRelay()
	conf := connection.Config{Autohop: true, Wallet: ssi.NewDevWallet(), Relay: relay}

	bob, response := requestedInvitee(t, conf, mock)

	mock.AddError(errors.New("relay offline"))
	u := updater.New(updater.Config{ConnConf: conf})
	stats, err := u.Round()
	require.NoError(t, err, "a failing machine is skipped, not fatal")
	require.Zero(t, stats.Changed())

	restored, err := connection.LoadConnection(bob.StoreKey(), conf)
	require.NoError(t, err)
	require.Equal(t, connection.StateRequested, restored.State())

	// the next round finds the relay back and finishes the exchange
	mock.AddDecrypted(response.JSON())
	stats, err = u.Round()
	require.NoError(t, err)
	require.Equal(t, updater.RoundStats{Connections: 1}, stats)
}

func TestRoundAdvancesIssuance(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()
	openStore(t)

	relay, mock := testRelay()
	conf := connection.Config{Wallet: ssi.NewDevWallet(), Relay: relay}

	conn := storedCompletedConnection(t, "bob", "Inviter", relay)
	issuer := issue.NewIssuer("bob", testOfferInfo, &vc.DevIssuer{})
	rec := &recorder{}
	require.NoError(t, issuer.SendOffer(conn, rec.send))
	require.NoError(t, issuer.Save())

	mock.AddDecrypted(holderRequest(issuer.ThreadID()).JSON())

	u := updater.New(updater.Config{
		ConnConf: conf, Issuer: &vc.DevIssuer{}, Prover: &vc.DevProver{},
	})
	stats, err := u.Round()
	require.NoError(t, err)
	require.Equal(t, updater.RoundStats{Issuances: 1}, stats)

	restored, err := issue.LoadIssuer(issuer.StoreKey(), &vc.DevIssuer{})
	require.NoError(t, err)
	require.Equal(t, issue.StateRequestReceived, restored.State())
}

func TestRoundAdvancesProof(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()
	openStore(t)

	relay, mock := testRelay()
	conf := connection.Config{Wallet: ssi.NewDevWallet(), Relay: relay}

	conn := storedCompletedConnection(t, "acme", "Invitee", relay)
	prover := proof.NewProver("acme",
		proofRequest("req-1", []byte(testProofRequestJSON)), &vc.DevProver{})
	require.NoError(t, prover.PreparePresentation(
		map[string]string{"email": "bob@example.com"}))
	rec := &recorder{}
	require.NoError(t, prover.SendPresentation(conn, rec.send))
	require.NoError(t, prover.Save())

	mock.AddDecrypted(verifierAck(prover.ThreadID()).JSON())

	u := updater.New(updater.Config{ConnConf: conf, Prover: &vc.DevProver{}})
	stats, err := u.Round()
	require.NoError(t, err)
	require.Equal(t, updater.RoundStats{Proofs: 1}, stats)

	restored, err := proof.LoadProver(prover.StoreKey(), &vc.DevProver{})
	require.NoError(t, err)
	require.Equal(t, proof.StateFinished, restored.State())
}

func TestScheduledRounds(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()
	openStore(t)

	relay, mock := testRelay()
	conf := connection.Config{Autohop: true, Wallet: ssi.NewDevWallet(), Relay: relay}

	bob, response := requestedInvitee(t, conf, mock)
	mock.AddDecrypted(response.JSON())

	u := updater.New(updater.Config{ConnConf: conf})
	require.NoError(t, u.Start(25*time.Millisecond))
	defer u.Stop()

	require.Eventually(t, func() bool {
		c, loadErr := connection.LoadConnection(bob.StoreKey(), conf)
		return loadErr == nil && c.State() == connection.StateCompleted
	}, 3*time.Second, 25*time.Millisecond)
}
