package didexchange

import (
	"encoding/gob"
	"strings"

	"github.com/findy-network/findy-agent-vcx/agent/aries"
	"github.com/findy-network/findy-agent-vcx/agent/didcomm"
	"github.com/findy-network/findy-agent-vcx/agent/pltype"
	"github.com/findy-network/findy-agent-vcx/agent/service"
	"github.com/findy-network/findy-agent-vcx/std/decorator"
	sov "github.com/findy-network/findy-agent-vcx/std/sov/did"
	"github.com/findy-network/findy-common-go/dto"
	"github.com/golang/glog"
)

var requestCreator = &requestFactor{}

type requestFactor struct{}

func (f *requestFactor) NewMsg(init didcomm.MsgInit) didcomm.MessageHdr {
	r := &Request{
		Type:   init.Type,
		ID:     init.AID,
		Label:  init.Label,
		Thread: &decorator.Thread{ID: init.Nonce},
	}
	return NewRequest(r)
}

func (f *requestFactor) NewMessage(data []byte) didcomm.MessageHdr {
	return NewRequestMsg(data)
}

func init() {
	gob.Register(&RequestImpl{})
	aries.Creator.Add(pltype.AriesConnectionRequest, requestCreator)
	aries.Creator.Add(pltype.DIDOrgAriesConnectionRequest, requestCreator)
}

func NewRequest(r *Request) *RequestImpl {
	return &RequestImpl{Request: r}
}

func NewRequestMsg(data []byte) *RequestImpl {
	var mImpl RequestImpl
	dto.FromJSON(data, &mImpl)
	mImpl.checkThread()
	return &mImpl
}

func (m *RequestImpl) checkThread() {
	m.Request.Thread = decorator.CheckThread(m.Request.Thread, m.Request.ID)
}

type RequestImpl struct {
	*Request
}

func (m *RequestImpl) Thread() *decorator.Thread {
	return m.Request.Thread
}

func (m *RequestImpl) Nonce() string {
	return m.Thread().ID
}

func (m *RequestImpl) ID() string {
	return m.Request.ID
}

func (m *RequestImpl) SetID(id string) {
	m.Request.ID = id
}

func (m *RequestImpl) Type() string {
	return m.Request.Type
}

func (m *RequestImpl) SetType(t string) {
	m.Request.Type = t
}

func (m *RequestImpl) JSON() []byte {
	return dto.ToJSONBytes(m)
}

func (m *RequestImpl) FieldObj() interface{} {
	return m.Request
}

func (m *RequestImpl) Label() string {
	return m.Request.Label
}

func (m *RequestImpl) Did() string {
	if m.Connection == nil {
		return ""
	}
	rawDID := strings.TrimPrefix(m.Connection.DID, "did:sov:")
	if rawDID != m.Connection.DID {
		glog.V(3).Infoln("+++ normalizing Did()", m.Connection.DID, " ==>", rawDID)
	}
	return rawDID
}

// VerKey returns the verkey messages to the requester are authcrypted to.
func (m *RequestImpl) VerKey() string {
	if m.Connection == nil {
		return ""
	}
	if keys := m.Connection.DIDDoc.RecipientKeys(); len(keys) > 0 {
		return keys[0]
	}
	doc := m.Connection.DIDDoc
	if doc != nil && doc.DataDoc != nil && len(doc.PublicKey) > 0 {
		return doc.PublicKey[0].PublicKeyBase58
	}
	return ""
}

func (m *RequestImpl) Endpoint() service.Addr {
	if m.Connection == nil || m.Connection.DIDDoc == nil {
		return service.Addr{}
	}
	return m.Connection.DIDDoc.AEndp()
}

func (m *RequestImpl) DIDDocument() *sov.Doc {
	if m.Connection == nil {
		return nil
	}
	return m.Connection.DIDDoc
}

func (m *RequestImpl) RoutingKeys() []string {
	if m.Connection == nil {
		return nil
	}
	return m.Connection.DIDDoc.RoutingKeys()
}
