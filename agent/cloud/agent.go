/*
Package cloud is the client of the relay agent. Agents behind mobile or
otherwise intermittent endpoints do not receive direct connections: the
counterparty delivers to a relay which queues the messages. This package
provisions a relay agent per pairwise relationship, downloads and opens
queued messages, acknowledges them, and tears the relay agent down when
the relationship is removed.

The relay itself is configuration: Agent carries the address, the relay
verkey for the routing chain, and the transport. Tests hand in a
trans.Mock, production uses trans.HTTP against the configured relay URL.
*/
package cloud

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/findy-network/findy-agent-vcx/agent/aries"
	"github.com/findy-network/findy-agent-vcx/agent/comm"
	"github.com/findy-network/findy-agent-vcx/agent/didcomm"
	"github.com/findy-network/findy-agent-vcx/agent/pairwise"
	"github.com/findy-network/findy-agent-vcx/agent/pltype"
	"github.com/findy-network/findy-agent-vcx/agent/sec"
	"github.com/findy-network/findy-agent-vcx/agent/ssi"
	"github.com/findy-network/findy-agent-vcx/agent/trans"
	"github.com/findy-network/findy-agent-vcx/agent/utils"
	"github.com/findy-network/findy-common-go/dto"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"

	sov "github.com/findy-network/findy-agent-vcx/std/sov/did"
)

// Relay message status codes.
const (
	MsgStatusReceived = "MS-103" // queued, not yet processed by us
	MsgStatusReviewed = "MS-106" // processed and acknowledged

	connStatusDeleted = "CS-103"
)

// ErrDecrypt is returned when a downloaded message does not open to the
// expected sender verkey.
var ErrDecrypt = errors.New("decrypt: sender verkey mismatch")

// AgentInfo is the relay side agent of one pairwise relationship. The
// relay mints it in CreateAgent and it lives as long as the pairwise.
type AgentInfo struct {
	AgentDID    string `json:"agent_did"`
	AgentVerKey string `json:"agent_vk"`
}

// Agent calls the relay on behalf of local pairwise identities.
type Agent struct {
	Addr   string          // relay base URL, defaults to settings
	VerKey string          // relay public key, the last routing hop
	Trans  trans.Transport // defaults to HTTP
}

func New() *Agent {
	return &Agent{Addr: utils.Settings.AgencyURL(), Trans: trans.HTTP{}}
}

func (a *Agent) transport() trans.Transport {
	if a.Trans == nil {
		return trans.HTTP{}
	}
	return a.Trans
}

// ServiceEndpoint is the address counterparties send their messages to.
// The relay queues them for us.
func (a *Agent) ServiceEndpoint() string {
	return a.Addr + "/agency/msg"
}

// RoutingKeys is the forward route of an inbound message: first the
// relationship's relay agent, then the relay itself.
func (a *Agent) RoutingKeys(info AgentInfo) []string {
	keys := []string{info.AgentVerKey}
	if a.VerKey != "" {
		keys = append(keys, a.VerKey)
	}
	return keys
}

// Message is one downloaded relay message after opening.
type Message struct {
	StatusCode string
	UID        string
	Msg        string
}

// relay wire forms, camelCase like the agency speaks

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

type downloadedMessage struct {
	StatusCode string          `json:"statusCode"`
	UID        string          `json:"uid"`
	Payload    json.RawMessage `json:"payload"`
}

type messageList struct {
	Type string              `json:"@type"`
	Msgs []downloadedMessage `json:"msgs"`
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

type updateConnStatus struct {
	Type       string `json:"@type"`
	StatusCode string `json:"statusCode"`
}

// call packs one relay message from the pairwise to the given recipient
// key, posts it, and opens the response. The relay's answer can be
// empty.
func (a *Agent) call(pw pairwise.Info, toVK string, msg interface{}) (data []byte, err error) {
	defer err2.Handle(&err, "relay call")

	pipe := sec.Pipe{In: ssi.NewDid(pw.DID, pw.VerKey)}
	if toVK != "" {
		pipe.Out = ssi.NewOutDid(toVK)
	}
	packed := try.To1(pipe.Pack(dto.ToJSONBytes(msg)))
	wire := try.To1(a.transport().Call(a.ServiceEndpoint(), packed))
	if len(wire) == 0 {
		return nil, nil
	}
	plain, _ := try.To2(pipe.Unpack(wire))
	return plain, nil
}

// CreateAgent provisions a relay agent for a new pairwise relationship.
// Every relationship gets its own: the relay agent's keys become part
// of our DID document for the counterparty.
func (a *Agent) CreateAgent(pw pairwise.Info) (info AgentInfo, err error) {
	defer err2.Handle(&err, "create cloud agent")

	req := createKey{
		Type:      pltype.AgencyCreateKey,
		ForDID:    pw.DID,
		ForVerKey: pw.VerKey,
	}
	data := try.To1(a.call(pw, a.VerKey, req))

	var resp keyCreated
	try.To(json.Unmarshal(data, &resp))
	if resp.WithPairwiseDID == "" || resp.WithPairwiseDIDVerKey == "" {
		return AgentInfo{}, errors.New("relay response has no agent keys")
	}
	glog.V(3).Infoln("cloud agent created:", resp.WithPairwiseDID)
	return AgentInfo{
		AgentDID:    resp.WithPairwiseDID,
		AgentVerKey: resp.WithPairwiseDIDVerKey,
	}, nil
}

// DownloadMessages fetches this relationship's queued messages filtered
// by status codes and uids, opens them, and keys them by relay uid. The
// sender is not authenticated here: the protocol state machines check
// thread ids before applying anything.
func (a *Agent) DownloadMessages(
	info AgentInfo,
	pw pairwise.Info,
	statusCodes, uids []string,
) (
	msgs map[string]didcomm.MessageHdr,
	err error,
) {
	defer err2.Handle(&err, "download messages")

	downloaded := try.To1(a.downloadRaw(info, pw, statusCodes, uids))
	pipe := sec.Pipe{In: ssi.NewDid(pw.DID, pw.VerKey)}

	msgs = make(map[string]didcomm.MessageHdr, len(downloaded))
	for _, dm := range downloaded {
		plain, _ := try.To2(pipe.Unpack(dm.Payload))
		m, parseErr := aries.PayloadFromData(plain)
		if parseErr != nil {
			glog.Warningln("skipping unparseable message:", dm.UID, parseErr)
			continue
		}
		msgs[dm.UID] = m
	}
	return msgs, nil
}

// GetMessages downloads the fresh (received) messages of the
// relationship.
func (a *Agent) GetMessages(
	info AgentInfo,
	pw pairwise.Info,
) (
	map[string]didcomm.MessageHdr,
	error,
) {
	return a.DownloadMessages(info, pw, []string{MsgStatusReceived}, nil)
}

// DownloadMessagesAuth is the authenticated download: every message
// must open to the expected sender verkey or the call fails with
// ErrDecrypt.
func (a *Agent) DownloadMessagesAuth(
	info AgentInfo,
	pw pairwise.Info,
	expectedSenderVK string,
	statusCodes, uids []string,
) (
	msgs []Message,
	err error,
) {
	defer err2.Handle(&err, "download messages auth")

	downloaded := try.To1(a.downloadRaw(info, pw, statusCodes, uids))
	pipe := sec.Pipe{In: ssi.NewDid(pw.DID, pw.VerKey)}

	msgs = make([]Message, 0, len(downloaded))
	for _, dm := range downloaded {
		plain, senderVK := try.To2(pipe.Unpack(dm.Payload))
		if senderVK != "" && senderVK != expectedSenderVK {
			return nil, fmt.Errorf("%w: uid %s", ErrDecrypt, dm.UID)
		}
		msgs = append(msgs, Message{
			StatusCode: dm.StatusCode,
			UID:        dm.UID,
			Msg:        string(plain),
		})
	}
	return msgs, nil
}

// downloadRaw asks the relay for the queued messages. A mock transport
// with queued plaintexts short circuits the wire: the plaintexts become
// the download, with generated uids.
func (a *Agent) downloadRaw(
	info AgentInfo,
	pw pairwise.Info,
	statusCodes, uids []string,
) (
	msgs []downloadedMessage,
	err error,
) {
	defer err2.Handle(&err)

	if m, ok := a.transport().(*trans.Mock); ok && m.HasDecrypted() {
		for i := 0; ; i++ {
			plain := m.NextDecrypted()
			if plain == nil {
				break
			}
			msgs = append(msgs, downloadedMessage{
				StatusCode: MsgStatusReceived,
				UID:        fmt.Sprintf("uid-%d", i+1),
				Payload:    plain,
			})
		}
		return msgs, nil
	}

	req := getMessages{
		Type:        pltype.AgencyGetMsgs,
		UIDs:        uids,
		StatusCodes: statusCodes,
	}
	data := try.To1(a.call(pw, info.AgentVerKey, req))
	if len(data) == 0 {
		return nil, nil
	}

	var resp messageList
	try.To(json.Unmarshal(data, &resp))
	return resp.Msgs, nil
}

// UpdateMessageStatus acknowledges processed messages: the relay marks
// them reviewed and stops offering them. Keyed by the pairwise DID.
func (a *Agent) UpdateMessageStatus(pw pairwise.Info, uids []string) (err error) {
	defer err2.Handle(&err, "update message status")

	if len(uids) == 0 {
		return nil
	}
	req := updateMessageStatus{
		Type:       pltype.AgencyUpdateMsgStatusByConns,
		StatusCode: MsgStatusReviewed,
		UIDsByConns: []uidsByConn{{
			PairwiseDID: pw.DID,
			UIDs:        uids,
		}},
	}
	data := try.To1(a.call(pw, a.VerKey, req))
	// test relays answer nothing, the real one echoes the status type
	if len(data) == 0 {
		return nil
	}
	var resp struct {
		Type string `json:"@type"`
	}
	try.To(json.Unmarshal(data, &resp))
	if resp.Type != pltype.AgencyMsgStatusUpdatedByConns {
		return fmt.Errorf("unexpected relay response: %s", resp.Type)
	}
	return nil
}

// Destroy removes the relationship's relay agent. The relay stops
// accepting messages for it.
func (a *Agent) Destroy(info AgentInfo, pw pairwise.Info) (err error) {
	defer err2.Handle(&err, "destroy cloud agent")

	req := updateConnStatus{
		Type:       pltype.AgencyUpdateConnStatus,
		StatusCode: connStatusDeleted,
	}
	data := try.To1(a.call(pw, info.AgentVerKey, req))
	if len(data) == 0 {
		return nil
	}
	var resp struct {
		Type string `json:"@type"`
	}
	try.To(json.Unmarshal(data, &resp))
	if resp.Type != pltype.AgencyConnStatusUpdated {
		return fmt.Errorf("unexpected relay response: %s", resp.Type)
	}
	return nil
}

// Sender returns the send capability for a pairwise: payloads are
// packed from the pairwise to the doc's first recipient key and posted
// to the doc's service endpoint, the peer's relay.
func (a *Agent) Sender(pw pairwise.Info) comm.SendFn {
	return func(msg didcomm.MessageHdr, doc *sov.Doc) error {
		if doc == nil || len(doc.RecipientKeys()) == 0 || doc.Endpoint() == "" {
			return fmt.Errorf("send %s: peer doc has no address", msg.ID())
		}
		pipe := sec.Pipe{
			In:  ssi.NewDid(pw.DID, pw.VerKey),
			Out: ssi.NewOutDid(doc.RecipientKeys()[0]),
		}
		packed, err := pipe.Pack(msg.JSON())
		if err != nil {
			return err
		}
		_, err = a.transport().Call(doc.Endpoint(), packed)
		return err
	}
}
