package discovery

import (
	"encoding/gob"

	"github.com/findy-network/findy-agent-vcx/agent/aries"
	"github.com/findy-network/findy-agent-vcx/agent/didcomm"
	"github.com/findy-network/findy-agent-vcx/agent/pltype"
	"github.com/findy-network/findy-agent-vcx/std/decorator"
	"github.com/findy-network/findy-common-go/dto"
)

var DiscloseCreator = &DiscloseFactor{}

type DiscloseFactor struct{}

func (f *DiscloseFactor) NewMsg(init didcomm.MsgInit) didcomm.MessageHdr {
	m := &Disclose{
		Type:      init.Type,
		ID:        init.AID,
		Protocols: SupportedProtocols(),
		Thread:    decorator.CheckThread(init.Thread, init.AID),
	}
	return NewDisclose(m)
}

func (f *DiscloseFactor) NewMessage(data []byte) didcomm.MessageHdr {
	return NewDiscloseMsg(data)
}

func init() {
	gob.Register(&DiscloseImpl{})
	aries.Creator.Add(pltype.DiscoveryDisclose, DiscloseCreator)
	aries.Creator.Add(pltype.DIDOrgDiscoveryDisclose, DiscloseCreator)
}

func NewDisclose(d *Disclose) *DiscloseImpl {
	return &DiscloseImpl{Disclose: d}
}

func NewDiscloseMsg(data []byte) *DiscloseImpl {
	var mImpl DiscloseImpl
	dto.FromJSON(data, &mImpl)
	mImpl.checkThread()
	return &mImpl
}

func (p *DiscloseImpl) checkThread() {
	p.Disclose.Thread = decorator.CheckThread(p.Disclose.Thread, p.Disclose.ID)
}

type DiscloseImpl struct {
	*Disclose
}

func (p *DiscloseImpl) ID() string {
	return p.Disclose.ID
}

func (p *DiscloseImpl) Type() string {
	return p.Disclose.Type
}

func (p *DiscloseImpl) SetID(id string) {
	p.Disclose.ID = id
}

func (p *DiscloseImpl) SetType(t string) {
	p.Disclose.Type = t
}

func (p *DiscloseImpl) JSON() []byte {
	return dto.ToJSONBytes(p)
}

func (p *DiscloseImpl) Thread() *decorator.Thread {
	return p.Disclose.Thread
}

func (p *DiscloseImpl) Nonce() string {
	return p.Thread().ID
}

func (p *DiscloseImpl) FieldObj() interface{} {
	return p.Disclose
}
