// Package aries routes wire data to typed protocol messages. Message
// implementations register a Factor per type URI in their init functions and
// PayloadFromData picks the right one by peeking the @type field.
package aries

import (
	"encoding/json"

	"github.com/findy-network/findy-agent-vcx/agent/didcomm"
	"github.com/findy-network/findy-agent-vcx/std/decorator"
	"github.com/findy-network/findy-common-go/dto"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

var Creator = &FactorRegistry{factors: make(map[string]didcomm.Factor)}

type FactorRegistry struct {
	factors map[string]didcomm.Factor
}

// Add registers a message factor for a type URI. Called from init functions,
// not guarded for concurrent use.
func (r *FactorRegistry) Add(t string, f didcomm.Factor) {
	r.factors[t] = f
}

func (r *FactorRegistry) ByType(t string) (f didcomm.Factor, ok bool) {
	f, ok = r.factors[t]
	return f, ok
}

// NewMsg builds a new typed message for the init data. The type URI must be
// registered.
func (r *FactorRegistry) NewMsg(init didcomm.MsgInit) didcomm.MessageHdr {
	factor, ok := r.factors[init.Type]
	if !ok {
		glog.Warningln("no factor for type:", init.Type)
		return nil
	}
	return factor.NewMsg(init)
}

type typePeek struct {
	Type string `json:"@type,omitempty"`
}

// PayloadFromData parses raw a2a message data to its typed implementation.
// Unregistered message types are tolerated: they parse to a generic message
// which keeps the type and thread readable but is never selected by any
// protocol state.
func PayloadFromData(data []byte) (m didcomm.MessageHdr, err error) {
	defer err2.Handle(&err, "parse payload")

	var peek typePeek
	try.To(json.Unmarshal(data, &peek))

	if factor, ok := Creator.ByType(peek.Type); ok {
		return factor.NewMessage(data), nil
	}

	glog.V(3).Infoln("generic msg for type:", peek.Type)
	g := &generalMsg{raw: data}
	try.To(json.Unmarshal(data, &g.fields))
	return g, nil
}

type generalFields struct {
	Type   string            `json:"@type,omitempty"`
	ID     string            `json:"@id,omitempty"`
	Thread *decorator.Thread `json:"~thread,omitempty"`
}

// generalMsg carries an unregistered message type through the engine.
type generalMsg struct {
	fields generalFields
	raw    []byte
}

func (g *generalMsg) ID() string {
	return g.fields.ID
}

func (g *generalMsg) SetID(id string) {
	g.fields.ID = id
}

func (g *generalMsg) Type() string {
	return g.fields.Type
}

func (g *generalMsg) SetType(t string) {
	g.fields.Type = t
}

func (g *generalMsg) Thread() *decorator.Thread {
	return decorator.CheckThread(g.fields.Thread, g.fields.ID)
}

func (g *generalMsg) Nonce() string {
	return g.Thread().ID
}

func (g *generalMsg) JSON() []byte {
	if g.raw != nil {
		return g.raw
	}
	return dto.ToJSONBytes(g.fields)
}

func (g *generalMsg) FieldObj() interface{} {
	return &g.fields
}
