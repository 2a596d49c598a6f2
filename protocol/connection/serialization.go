package connection

import (
	"encoding/json"
	"fmt"

	"github.com/findy-network/findy-agent-vcx/agent/cloud"
	"github.com/findy-network/findy-agent-vcx/agent/pairwise"
	"github.com/findy-network/findy-agent-vcx/agent/psm"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// wireIdentity is the flattened identity block of a stored connection.
type wireIdentity struct {
	PwDID    string `json:"pw_did"`
	PwVK     string `json:"pw_vk"`
	AgentDID string `json:"agent_did"`
	AgentVK  string `json:"agent_vk"`
}

// wireConnection is the stored layout. The state is tagged twice, the
// outer key names the role and the inner key the state, so a reader
// knows both without consulting other fields.
type wireConnection struct {
	Data     wireIdentity               `json:"data"`
	State    map[string]json.RawMessage `json:"state"`
	SourceID string                     `json:"source_id"`
	ThreadID string                     `json:"thread_id,omitempty"`
}

// Serialize renders the connection into its versioned stored form.
func (c *Connection) Serialize() (data []byte, err error) {
	defer err2.Handle(&err, "serialize connection %s", c.sourceID)

	return psm.Seal(wireConnection{
		Data: wireIdentity{
			PwDID:    c.pw.DID,
			PwVK:     c.pw.VerKey,
			AgentDID: c.agent.AgentDID,
			AgentVK:  c.agent.AgentVerKey,
		},
		State:    try.To1(c.marshalState()),
		SourceID: c.sourceID,
		ThreadID: c.threadID,
	})
}

func (c *Connection) marshalState() (tagged map[string]json.RawMessage, err error) {
	defer err2.Handle(&err, "marshal state")

	var (
		name    string
		payload interface{}
	)
	if c.role == RoleInviter {
		name = c.inviter.state().String()
		payload = c.inviter
	} else {
		name = c.invitee.state().String()
		payload = c.invitee
	}
	inner := try.To1(psm.Tag(name, payload))
	return map[string]json.RawMessage{string(c.role): inner}, nil
}

// Deserialize parses a stored connection back to a live one. The stored
// form carries no collaborators, those come from conf.
func Deserialize(data []byte, conf Config) (c *Connection, err error) {
	defer err2.Handle(&err, "deserialize connection")

	var wire wireConnection
	try.To(psm.Open(data, &wire))

	c = &Connection{
		sourceID: wire.SourceID,
		label:    conf.Label,
		autohop:  conf.Autohop,
		pw:       pairwise.Info{DID: wire.Data.PwDID, VerKey: wire.Data.PwVK},
		agent: cloud.AgentInfo{
			AgentDID:    wire.Data.AgentDID,
			AgentVerKey: wire.Data.AgentVK,
		},
		threadID: wire.ThreadID,
		wallet:   conf.Wallet,
		relay:    conf.Relay,
	}
	if c.label == "" {
		c.label = wire.SourceID
	}

	if raw, ok := wire.State[string(RoleInviter)]; ok {
		c.role = RoleInviter
		c.inviter = try.To1(unmarshalInviterState(raw))
	} else if raw, ok := wire.State[string(RoleInvitee)]; ok {
		c.role = RoleInvitee
		c.invitee = try.To1(unmarshalInviteeState(raw))
	} else {
		return nil, fmt.Errorf("stored connection names no role")
	}
	return c, nil
}

func unmarshalInviterState(raw json.RawMessage) (st inviterState, err error) {
	defer err2.Handle(&err, "inviter state")

	name, payload := try.To2(psm.Untag(raw))
	switch name {
	case StateNull.String():
		st = inviterNull{}
	case StateInvited.String():
		var s inviterInvited
		try.To(json.Unmarshal(payload, &s))
		st = s
	case StateRequested.String():
		var s inviterRequested
		try.To(json.Unmarshal(payload, &s))
		st = s
	case StateResponded.String():
		var s inviterResponded
		try.To(json.Unmarshal(payload, &s))
		st = s
	case StateCompleted.String():
		var s inviterCompleted
		try.To(json.Unmarshal(payload, &s))
		st = s
	default:
		return nil, fmt.Errorf("unknown inviter state %q", name)
	}
	return st, nil
}

func unmarshalInviteeState(raw json.RawMessage) (st inviteeState, err error) {
	defer err2.Handle(&err, "invitee state")

	name, payload := try.To2(psm.Untag(raw))
	switch name {
	case StateNull.String():
		st = inviteeNull{}
	case StateInvited.String():
		var s inviteeInvited
		try.To(json.Unmarshal(payload, &s))
		st = s
	case StateRequested.String():
		var s inviteeRequested
		try.To(json.Unmarshal(payload, &s))
		st = s
	case StateResponded.String():
		var s inviteeResponded
		try.To(json.Unmarshal(payload, &s))
		st = s
	case StateCompleted.String():
		var s inviteeCompleted
		try.To(json.Unmarshal(payload, &s))
		st = s
	default:
		return nil, fmt.Errorf("unknown invitee state %q", name)
	}
	return st, nil
}

// StoreKey is the key the connection is persisted under. The source id
// is the one stable handle of the relationship: the pairwise rotates
// when an inviter folds the request in, and the thread resets when a
// problem report drops the exchange.
func (c *Connection) StoreKey() psm.StateKey {
	return psm.NewStateKey(c.sourceID, "")
}

// Save persists the connection. Call it after every state changing
// operation that should survive a restart.
func (c *Connection) Save() (err error) {
	defer err2.Handle(&err, "save connection %s", c.sourceID)

	data := try.To1(c.Serialize())
	return psm.AddConnectionRep(c.StoreKey(), data)
}

// Remove deletes the stored connection.
func (c *Connection) Remove() error {
	return psm.RmConnectionRep(c.StoreKey())
}

// LoadConnection reads one stored connection back to a live one.
func LoadConnection(key psm.StateKey, conf Config) (c *Connection, err error) {
	defer err2.Handle(&err, "load connection")

	data := try.To1(psm.GetConnectionRep(key))
	return Deserialize(data, conf)
}

// LoadAll reads every stored connection back. Records that do not parse
// are skipped with a warning so one bad record cannot hide the rest.
func LoadAll(conf Config) (cs []*Connection, err error) {
	defer err2.Handle(&err, "load connections")

	reps := try.To1(psm.AllConnectionReps())
	cs = make([]*Connection, 0, len(reps))
	for _, data := range reps {
		c, parseErr := Deserialize(data, conf)
		if parseErr != nil {
			glog.Warningln("skipping stored connection:", parseErr)
			continue
		}
		cs = append(cs, c)
	}
	return cs, nil
}
