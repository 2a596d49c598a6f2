/*
Package server is a development relay. It implements the relay side of
the wire protocol the cloud package speaks: per pairwise agent
provisioning, message queueing, download, acknowledge, and teardown.
Everything lives in process memory, which is enough to back CLI runs
against localhost and integration tests that need a real wire.
*/
package server

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/findy-network/findy-agent-vcx/agent/cloud"
	"github.com/findy-network/findy-agent-vcx/agent/pltype"
	"github.com/findy-network/findy-agent-vcx/agent/utils"
	"github.com/findy-network/findy-common-go/dto"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/mr-tron/base58"
)

// relay wire forms, the counterparts of what the cloud package sends.

type envelope struct {
	SenderVK    string          `json:"sender_verkey,omitempty"`
	RecipientVK string          `json:"recipient_verkey,omitempty"`
	Payload     json.RawMessage `json:"payload"`
}

type createKey struct {
	Type      string `json:"@type"`
	ForDID    string `json:"forDID"`
	ForVerKey string `json:"forDIDVerKey"`
}

type keyCreated struct {
	Type                  string `json:"@type"`
	WithPairwiseDID       string `json:"withPairwiseDID"`
	WithPairwiseDIDVerKey string `json:"withPairwiseDIDVerKey"`
}

type getMessages struct {
	Type        string   `json:"@type"`
	UIDs        []string `json:"uids,omitempty"`
	StatusCodes []string `json:"statusCodes,omitempty"`
}

type queuedMessage struct {
	StatusCode string          `json:"statusCode"`
	UID        string          `json:"uid"`
	Payload    json.RawMessage `json:"payload"`
}

type messageList struct {
	Type string          `json:"@type"`
	Msgs []queuedMessage `json:"msgs"`
}

type uidsByConn struct {
	PairwiseDID string   `json:"pairwiseDID"`
	UIDs        []string `json:"uids"`
}

type updateMessageStatus struct {
	Type        string       `json:"@type"`
	StatusCode  string       `json:"statusCode"`
	UIDsByConns []uidsByConn `json:"uidsByConns"`
}

type typeOnly struct {
	Type string `json:"@type"`
}

// relayAgent is the relay side agent of one pairwise relationship: the
// owner's keys, the minted agent key, and the message queue.
type relayAgent struct {
	pwDID   string
	pwVK    string
	agentVK string
	queue   []queuedMessage
}

// Relay queues messages between agents. Routing runs on verkeys: a
// payload packed for a pairwise or agent verkey lands in that
// relationship's queue.
type Relay struct {
	mu     sync.Mutex
	owners map[string]*relayAgent // by owner pairwise verkey
	routes map[string]*relayAgent // by any recipient verkey
}

func New() *Relay {
	return &Relay{
		owners: make(map[string]*relayAgent),
		routes: make(map[string]*relayAgent),
	}
}

// Handler returns the relay's http handler: the wire endpoint owners
// and counterparties both POST to, and a version probe.
func (rl *Relay) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/agency/msg", rl.protocolTransport)
	mux.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(utils.Settings.VersionInfo()))
	})
	return mux
}

// StartHTTPServer runs a relay on the port. The function blocks while
// the server serves.
func StartHTTPServer(serverPort uint) error {
	glog.V(1).Infof("dev relay on port %v", serverPort)
	server := http.Server{
		Addr:    fmt.Sprintf(":%v", serverPort),
		Handler: New().Handler(),
	}
	return server.ListenAndServe()
}

func errorResponse(w http.ResponseWriter) {
	glog.V(2).Info("returning 500")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte("500 - Error"))
}

func (rl *Relay) protocolTransport(w http.ResponseWriter, r *http.Request) {
	defer err2.Catch(err2.Err(func(err error) {
		glog.Error("transport error: ", err)
		errorResponse(w)
	}))

	data := try.To1(io.ReadAll(r.Body))

	var env envelope
	if json.Unmarshal(data, &env) != nil || env.Payload == nil {
		glog.V(3).Infoln("dropping non wire payload")
		errorResponse(w)
		return
	}

	var head typeOnly
	try.To(json.Unmarshal(env.Payload, &head))

	var reply []byte
	switch head.Type {
	case pltype.AgencyCreateKey:
		reply = try.To1(rl.createAgent(env.Payload))
	case pltype.AgencyGetMsgs:
		reply = try.To1(rl.listMessages(env.SenderVK, env.Payload))
	case pltype.AgencyUpdateMsgStatusByConns:
		reply = try.To1(rl.updateStatus(env.SenderVK, env.Payload))
	case pltype.AgencyUpdateConnStatus:
		reply = rl.removeAgent(env.SenderVK)
	default:
		// anything else is agent to agent traffic for one of the
		// queues
		if !rl.route(env.RecipientVK, data) {
			glog.Warningln("no route for recipient", env.RecipientVK)
			errorResponse(w)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if reply != nil {
		_, _ = w.Write(reply)
	}
}

// createAgent mints the relay side keys for a new pairwise and opens a
// queue for it.
func (rl *Relay) createAgent(payload []byte) (reply []byte, err error) {
	defer err2.Handle(&err, "create agent")

	var req createKey
	try.To(json.Unmarshal(payload, &req))
	if req.ForDID == "" || req.ForVerKey == "" {
		return nil, fmt.Errorf("create key without pairwise identity")
	}

	pub, _ := try.To2(ed25519.GenerateKey(rand.Reader))
	agent := &relayAgent{
		pwDID:   req.ForDID,
		pwVK:    req.ForVerKey,
		agentVK: base58.Encode(pub),
	}

	rl.mu.Lock()
	rl.owners[agent.pwVK] = agent
	rl.routes[agent.pwVK] = agent
	rl.routes[agent.agentVK] = agent
	rl.mu.Unlock()

	glog.V(3).Infoln("relay agent for", req.ForDID)
	return dto.ToJSONBytes(keyCreated{
		Type:                  pltype.AgencyKeyCreated,
		WithPairwiseDID:       base58.Encode(pub[:16]),
		WithPairwiseDIDVerKey: agent.agentVK,
	}), nil
}

func (rl *Relay) listMessages(senderVK string, payload []byte) (reply []byte, err error) {
	defer err2.Handle(&err, "list messages")

	var req getMessages
	try.To(json.Unmarshal(payload, &req))

	rl.mu.Lock()
	defer rl.mu.Unlock()

	list := messageList{Type: pltype.AgencyMsgs, Msgs: []queuedMessage{}}
	agent := rl.owners[senderVK]
	if agent == nil {
		return dto.ToJSONBytes(list), nil
	}
	for _, m := range agent.queue {
		if matches(m, req.StatusCodes, req.UIDs) {
			list.Msgs = append(list.Msgs, m)
		}
	}
	return dto.ToJSONBytes(list), nil
}

func matches(m queuedMessage, statusCodes, uids []string) bool {
	return (len(statusCodes) == 0 || contains(statusCodes, m.StatusCode)) &&
		(len(uids) == 0 || contains(uids, m.UID))
}

func contains(xs []string, x string) bool {
	for _, s := range xs {
		if s == x {
			return true
		}
	}
	return false
}

func (rl *Relay) updateStatus(senderVK string, payload []byte) (reply []byte, err error) {
	defer err2.Handle(&err, "update status")

	var req updateMessageStatus
	try.To(json.Unmarshal(payload, &req))

	rl.mu.Lock()
	defer rl.mu.Unlock()

	agent := rl.owners[senderVK]
	if agent != nil {
		for _, byConn := range req.UIDsByConns {
			for i, m := range agent.queue {
				if contains(byConn.UIDs, m.UID) {
					agent.queue[i].StatusCode = req.StatusCode
				}
			}
		}
	}
	return dto.ToJSONBytes(typeOnly{Type: pltype.AgencyMsgStatusUpdatedByConns}), nil
}

func (rl *Relay) removeAgent(senderVK string) (reply []byte) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if agent := rl.owners[senderVK]; agent != nil {
		delete(rl.routes, agent.pwVK)
		delete(rl.routes, agent.agentVK)
		delete(rl.owners, senderVK)
		glog.V(3).Infoln("relay agent removed for", agent.pwDID)
	}
	return dto.ToJSONBytes(typeOnly{Type: pltype.AgencyConnStatusUpdated})
}

// route queues one a2a wire payload for the relationship the recipient
// key belongs to. The stored payload is the packed form as delivered,
// the owner opens it on download.
func (rl *Relay) route(recipientVK string, packed []byte) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	agent := rl.routes[recipientVK]
	if agent == nil {
		return false
	}
	agent.queue = append(agent.queue, queuedMessage{
		StatusCode: cloud.MsgStatusReceived,
		UID:        fmt.Sprintf("uid-%d", len(agent.queue)+1),
		Payload:    packed,
	})
	return true
}
