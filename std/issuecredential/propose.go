package issuecredential

import (
	"encoding/gob"
	"sort"

	"github.com/findy-network/findy-agent-vcx/agent/aries"
	"github.com/findy-network/findy-agent-vcx/agent/didcomm"
	"github.com/findy-network/findy-agent-vcx/agent/pltype"
	"github.com/findy-network/findy-agent-vcx/std/decorator"
	"github.com/findy-network/findy-common-go/dto"
)

var ProposeCreator = &ProposeFactor{}

type ProposeFactor struct{}

func (f *ProposeFactor) NewMsg(init didcomm.MsgInit) didcomm.MessageHdr {
	m := &Propose{
		Type:    init.Type,
		ID:      init.AID,
		Comment: init.Info,
		Thread:  decorator.CheckThread(init.Thread, init.AID),
	}
	return NewPropose(m)
}

func (f *ProposeFactor) NewMessage(data []byte) didcomm.MessageHdr {
	return NewProposeMsg(data)
}

func init() {
	gob.Register(&ProposeImpl{})
	aries.Creator.Add(pltype.IssueCredentialPropose, ProposeCreator)
	aries.Creator.Add(pltype.DIDOrgIssueCredentialPropose, ProposeCreator)
}

func NewPropose(r *Propose) *ProposeImpl {
	return &ProposeImpl{Propose: r}
}

func NewProposeMsg(data []byte) *ProposeImpl {
	var mImpl ProposeImpl
	dto.FromJSON(data, &mImpl)
	mImpl.checkThread()
	return &mImpl
}

// NewPreviewCredential builds a credential preview from name value
// pairs, in stable name order.
func NewPreviewCredential(values map[string]string) PreviewCredential {
	names := make([]string, 0, len(values))
	for n := range values {
		names = append(names, n)
	}
	sort.Strings(names)

	attrs := make([]Attribute, 0, len(names))
	for _, n := range names {
		attrs = append(attrs, Attribute{Name: n, Value: values[n]})
	}
	return PreviewCredential{
		Type:       pltype.IssueCredentialPreview,
		Attributes: attrs,
	}
}

func (p *ProposeImpl) checkThread() {
	p.Propose.Thread = decorator.CheckThread(p.Propose.Thread, p.Propose.ID)
}

type ProposeImpl struct {
	*Propose
}

func (p *ProposeImpl) ID() string {
	return p.Propose.ID
}

func (p *ProposeImpl) Type() string {
	return p.Propose.Type
}

func (p *ProposeImpl) SetID(id string) {
	p.Propose.ID = id
}

func (p *ProposeImpl) SetType(t string) {
	p.Propose.Type = t
}

func (p *ProposeImpl) JSON() []byte {
	return dto.ToJSONBytes(p)
}

func (p *ProposeImpl) Thread() *decorator.Thread {
	return p.Propose.Thread
}

func (p *ProposeImpl) Nonce() string {
	return p.Thread().ID
}

func (p *ProposeImpl) FieldObj() interface{} {
	return p.Propose
}
