package trustping

import (
	"encoding/gob"

	"github.com/findy-network/findy-agent-vcx/agent/aries"
	"github.com/findy-network/findy-agent-vcx/agent/didcomm"
	"github.com/findy-network/findy-agent-vcx/agent/pltype"
	"github.com/findy-network/findy-agent-vcx/std/decorator"
	"github.com/findy-network/findy-common-go/dto"
)

var PingCreator = &PingFactor{}

type PingFactor struct{}

func (f *PingFactor) NewMsg(init didcomm.MsgInit) didcomm.MessageHdr {
	m := &Ping{
		Type: init.Type,
		ID:   init.AID,
		// pings we originate always ask for a response
		ResponseRequested: true,
		Comment:           init.Info,
		Thread:            decorator.CheckThread(init.Thread, init.AID),
	}
	return NewPing(m)
}

func (f *PingFactor) NewMessage(data []byte) didcomm.MessageHdr {
	return NewPingMsg(data)
}

func init() {
	gob.Register(&PingImpl{})
	aries.Creator.Add(pltype.TrustPingPing, PingCreator)
	aries.Creator.Add(pltype.DIDOrgTrustPingPing, PingCreator)
}

func NewPing(p *Ping) *PingImpl {
	return &PingImpl{Ping: p}
}

func NewPingMsg(data []byte) *PingImpl {
	var mImpl PingImpl
	dto.FromJSON(data, &mImpl)
	mImpl.checkThread()
	return &mImpl
}

func (p *PingImpl) checkThread() {
	p.Ping.Thread = decorator.CheckThread(p.Ping.Thread, p.Ping.ID)
}

type PingImpl struct {
	*Ping
}

func (p *PingImpl) ID() string {
	return p.Ping.ID
}

func (p *PingImpl) Type() string {
	return p.Ping.Type
}

func (p *PingImpl) SetID(id string) {
	p.Ping.ID = id
}

func (p *PingImpl) SetType(t string) {
	p.Ping.Type = t
}

func (p *PingImpl) JSON() []byte {
	return dto.ToJSONBytes(p)
}

func (p *PingImpl) Thread() *decorator.Thread {
	return p.Ping.Thread
}

func (p *PingImpl) Nonce() string {
	return p.Thread().ID
}

func (p *PingImpl) FieldObj() interface{} {
	return p.Ping
}
