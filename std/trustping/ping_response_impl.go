package trustping

import (
	"encoding/gob"

	"github.com/findy-network/findy-agent-vcx/agent/aries"
	"github.com/findy-network/findy-agent-vcx/agent/didcomm"
	"github.com/findy-network/findy-agent-vcx/agent/pltype"
	"github.com/findy-network/findy-agent-vcx/std/decorator"
	"github.com/findy-network/findy-common-go/dto"
)

var ResponseCreator = &ResponseFactor{}

type ResponseFactor struct{}

func (f *ResponseFactor) NewMsg(init didcomm.MsgInit) didcomm.MessageHdr {
	m := &PingResponse{
		Type:    init.Type,
		ID:      init.AID,
		Comment: init.Info,
		Thread:  decorator.CheckThread(init.Thread, init.AID),
	}
	return NewPingResponse(m)
}

func (f *ResponseFactor) NewMessage(data []byte) didcomm.MessageHdr {
	return NewPingResponseMsg(data)
}

func init() {
	gob.Register(&PingResponseImpl{})
	aries.Creator.Add(pltype.TrustPingResponse, ResponseCreator)
	aries.Creator.Add(pltype.DIDOrgTrustPingResponse, ResponseCreator)
}

func NewPingResponse(r *PingResponse) *PingResponseImpl {
	return &PingResponseImpl{PingResponse: r}
}

func NewPingResponseMsg(data []byte) *PingResponseImpl {
	var mImpl PingResponseImpl
	dto.FromJSON(data, &mImpl)
	mImpl.checkThread()
	return &mImpl
}

func (p *PingResponseImpl) checkThread() {
	p.PingResponse.Thread = decorator.CheckThread(p.PingResponse.Thread, p.PingResponse.ID)
}

type PingResponseImpl struct {
	*PingResponse
}

func (p *PingResponseImpl) ID() string {
	return p.PingResponse.ID
}

func (p *PingResponseImpl) Type() string {
	return p.PingResponse.Type
}

func (p *PingResponseImpl) SetID(id string) {
	p.PingResponse.ID = id
}

func (p *PingResponseImpl) SetType(t string) {
	p.PingResponse.Type = t
}

func (p *PingResponseImpl) JSON() []byte {
	return dto.ToJSONBytes(p)
}

func (p *PingResponseImpl) Thread() *decorator.Thread {
	return p.PingResponse.Thread
}

func (p *PingResponseImpl) Nonce() string {
	return p.Thread().ID
}

func (p *PingResponseImpl) FieldObj() interface{} {
	return p.PingResponse
}
