package didexchange

import (
	"encoding/gob"

	"github.com/findy-network/findy-agent-vcx/agent/aries"
	"github.com/findy-network/findy-agent-vcx/agent/didcomm"
	"github.com/findy-network/findy-agent-vcx/agent/pltype"
	"github.com/findy-network/findy-agent-vcx/agent/sec"
	"github.com/findy-network/findy-agent-vcx/agent/service"
	"github.com/findy-network/findy-agent-vcx/std/decorator"
	sov "github.com/findy-network/findy-agent-vcx/std/sov/did"
	"github.com/findy-network/findy-common-go/dto"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

var responseCreator = &responseFactor{}

type responseFactor struct{}

func (f *responseFactor) NewMsg(init didcomm.MsgInit) didcomm.MessageHdr {
	r := &Response{
		Type:   init.Type,
		ID:     init.AID,
		Thread: &decorator.Thread{ID: init.Nonce},
	}
	return &ResponseImpl{Response: r}
}

func (f *responseFactor) NewMessage(data []byte) didcomm.MessageHdr {
	return NewResponseMsg(data)
}

func init() {
	gob.Register(&ResponseImpl{})
	aries.Creator.Add(pltype.AriesConnectionResponse, responseCreator)
	aries.Creator.Add(pltype.DIDOrgAriesConnectionResponse, responseCreator)
}

// NewResponse signs the connection data with the pipe's In key and builds
// the wire ready response message.
func NewResponse(pipe sec.Pipe, r *Response) (impl *ResponseImpl, err error) {
	defer err2.Handle(&err, "new response %s", r.ID)

	r.ConnectionSignature = try.To1(newConnectionSignature(pipe, r.Connection))

	return &ResponseImpl{Response: r}, nil
}

func NewResponseMsg(data []byte) *ResponseImpl {
	var mImpl ResponseImpl
	dto.FromJSON(data, &mImpl)
	mImpl.checkThread()

	if mImpl.ConnectionSignature != nil {
		c, err := connectionFromSignedData(mImpl.ConnectionSignature)
		if err != nil {
			glog.Error("cannot extract connection from response:", err)
			return &mImpl
		}
		mImpl.Connection = c
	}
	return &mImpl
}

func (m *ResponseImpl) checkThread() {
	m.Response.Thread = decorator.CheckThread(m.Response.Thread, m.Response.ID)
}

type ResponseImpl struct {
	*Response
}

func (m *ResponseImpl) Thread() *decorator.Thread {
	return m.Response.Thread
}

func (m *ResponseImpl) Nonce() string {
	return m.Thread().ID
}

func (m *ResponseImpl) ID() string {
	return m.Response.ID
}

func (m *ResponseImpl) SetID(id string) {
	m.Response.ID = id
}

func (m *ResponseImpl) Type() string {
	return m.Response.Type
}

func (m *ResponseImpl) SetType(t string) {
	m.Response.Type = t
}

func (m *ResponseImpl) JSON() []byte {
	return dto.ToJSONBytes(m)
}

func (m *ResponseImpl) FieldObj() interface{} {
	return m.Response
}

func (m *ResponseImpl) Label() string {
	return ""
}

func (m *ResponseImpl) Did() string {
	if m.Connection == nil {
		return ""
	}
	return m.Connection.DID
}

func (m *ResponseImpl) VerKey() string {
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

// ConnectionFromSignature extracts the connection payload carried inside
// a response signature. It does not verify the signature.
func ConnectionFromSignature(cs *ConnectionSignature) (*Connection, error) {
	return connectionFromSignedData(cs)
}

// Verify checks the connection signature against the expected signer key
// carried in pipe.Out.
func (m *ResponseImpl) Verify(pipe sec.Pipe) (err error) {
	defer err2.Handle(&err, "verify response %s", m.Response.ID)

	try.To(verifySignedData(pipe, m.Response.ConnectionSignature))

	// keep the payload the verified bytes produced
	m.Connection = try.To1(connectionFromSignedData(m.Response.ConnectionSignature))
	return nil
}

func (m *ResponseImpl) Endpoint() service.Addr {
	if m.Connection == nil || m.Connection.DIDDoc == nil {
		return service.Addr{}
	}
	return m.Connection.DIDDoc.AEndp()
}

func (m *ResponseImpl) DIDDocument() *sov.Doc {
	if m.Connection == nil {
		return nil
	}
	return m.Connection.DIDDoc
}

func (m *ResponseImpl) RoutingKeys() []string {
	if m.Connection == nil {
		return nil
	}
	return m.Connection.DIDDoc.RoutingKeys()
}
