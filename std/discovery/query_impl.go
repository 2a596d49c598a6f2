package discovery

import (
	"encoding/gob"

	"github.com/findy-network/findy-agent-vcx/agent/aries"
	"github.com/findy-network/findy-agent-vcx/agent/didcomm"
	"github.com/findy-network/findy-agent-vcx/agent/pltype"
	"github.com/findy-network/findy-agent-vcx/std/decorator"
	"github.com/findy-network/findy-common-go/dto"
)

var QueryCreator = &QueryFactor{}

type QueryFactor struct{}

func (f *QueryFactor) NewMsg(init didcomm.MsgInit) didcomm.MessageHdr {
	m := &Query{
		Type:    init.Type,
		ID:      init.AID,
		Comment: init.Info,
	}
	return NewQuery(m)
}

func (f *QueryFactor) NewMessage(data []byte) didcomm.MessageHdr {
	return NewQueryMsg(data)
}

func init() {
	gob.Register(&QueryImpl{})
	aries.Creator.Add(pltype.DiscoveryQuery, QueryCreator)
	aries.Creator.Add(pltype.DIDOrgDiscoveryQuery, QueryCreator)
}

func NewQuery(q *Query) *QueryImpl {
	return &QueryImpl{Query: q}
}

func NewQueryMsg(data []byte) *QueryImpl {
	var mImpl QueryImpl
	dto.FromJSON(data, &mImpl)
	return &mImpl
}

type QueryImpl struct {
	*Query
}

func (p *QueryImpl) ID() string {
	return p.Query.ID
}

func (p *QueryImpl) Type() string {
	return p.Query.Type
}

func (p *QueryImpl) SetID(id string) {
	p.Query.ID = id
}

func (p *QueryImpl) SetType(t string) {
	p.Query.Type = t
}

func (p *QueryImpl) JSON() []byte {
	return dto.ToJSONBytes(p)
}

// Thread returns the query's own ID as the thread: a query starts the
// exchange and the disclose answers on this thread.
func (p *QueryImpl) Thread() *decorator.Thread {
	return &decorator.Thread{ID: p.Query.ID}
}

func (p *QueryImpl) Nonce() string {
	return p.Query.ID
}

func (p *QueryImpl) FieldObj() interface{} {
	return p.Query
}
