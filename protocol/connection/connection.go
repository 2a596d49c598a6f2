// Package connection implements both roles of the pairwise connection
// protocol: the inviter who publishes an invitation and the invitee who
// answers it. One Connection value drives one relationship from invitation
// to completion, polling its relay agent for inbound messages and folding
// them into state transitions.
package connection

import (
	"fmt"
	"sort"
	"time"

	"github.com/findy-network/findy-agent-vcx/agent/cloud"
	"github.com/findy-network/findy-agent-vcx/agent/comm"
	"github.com/findy-network/findy-agent-vcx/agent/didcomm"
	"github.com/findy-network/findy-agent-vcx/agent/pairwise"
	"github.com/findy-network/findy-agent-vcx/agent/pltype"
	"github.com/findy-network/findy-agent-vcx/agent/sec"
	"github.com/findy-network/findy-agent-vcx/agent/service"
	"github.com/findy-network/findy-agent-vcx/agent/ssi"
	"github.com/findy-network/findy-agent-vcx/agent/utils"
	"github.com/findy-network/findy-agent-vcx/protocol"
	"github.com/findy-network/findy-agent-vcx/std/basicmessage"
	"github.com/findy-network/findy-agent-vcx/std/decorator"
	"github.com/findy-network/findy-agent-vcx/std/didexchange"
	"github.com/findy-network/findy-agent-vcx/std/didexchange/invitation"
	"github.com/findy-network/findy-agent-vcx/std/discovery"
	sov "github.com/findy-network/findy-agent-vcx/std/sov/did"
	"github.com/findy-network/findy-agent-vcx/std/trustping"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// Config carries the collaborators a connection needs over its whole
// lifetime. The send capability is not here: it is passed to the calls
// that actually send, so a deserialized connection works with whatever
// transport its caller runs now.
type Config struct {
	// Label is shown to the peer in invitations and requests. Defaults
	// to the source id.
	Label string

	// Autohop lets update calls take the one extra local step a
	// transition reports possible, e.g. an inviter that just accepted a
	// request immediately sends its response.
	Autohop bool

	Wallet ssi.Wallet
	Relay  *cloud.Agent
}

// Connection drives one relationship for one fixed role.
type Connection struct {
	sourceID string
	label    string
	role     Role
	autohop  bool

	pw    pairwise.Info
	agent cloud.AgentInfo

	threadID string

	inviter inviterState // set iff role == RoleInviter
	invitee inviteeState // set iff role == RoleInvitee

	wallet ssi.Wallet
	relay  *cloud.Agent
}

func newConnection(sourceID string, role Role, conf Config) (c *Connection, err error) {
	defer err2.Handle(&err, "new connection")

	if conf.Wallet == nil || conf.Relay == nil {
		return nil, fmt.Errorf("connection %s needs wallet and relay", sourceID)
	}

	pw := try.To1(pairwise.Create(conf.Wallet))
	agent := try.To1(conf.Relay.CreateAgent(pw))

	label := conf.Label
	if label == "" {
		label = sourceID
	}

	c = &Connection{
		sourceID: sourceID,
		label:    label,
		role:     role,
		autohop:  conf.Autohop,
		pw:       pw,
		agent:    agent,
		wallet:   conf.Wallet,
		relay:    conf.Relay,
	}
	switch role {
	case RoleInviter:
		c.inviter = inviterNull{}
	case RoleInvitee:
		c.invitee = inviteeNull{}
	}
	glog.V(3).Infoln("new", role, "connection", sourceID, "pw", pw.DID)
	return c, nil
}

// NewInviter creates the inviter side of a new relationship. The
// connection starts in Null; Connect builds the invitation.
func NewInviter(sourceID string, conf Config) (*Connection, error) {
	return newConnection(sourceID, RoleInviter, conf)
}

// NewInvitee creates the invitee side from a received invitation. The
// connection starts in Invited and the invitation establishes the
// exchange thread.
func NewInvitee(sourceID string, conf Config, inv *invitation.Invitation) (c *Connection, err error) {
	defer err2.Handle(&err, "new invitee")

	if inv == nil {
		return nil, fmt.Errorf("%w: invitee needs an invitation", protocol.ErrInvalidAction)
	}
	c = try.To1(newConnection(sourceID, RoleInvitee, conf))
	c.invitee = inviteeInvited{Invitation: inv}
	c.threadID = inv.ID
	return c, nil
}

// NewInviterFromRequest creates the inviter side directly from an inbound
// connection request, the entry public invitations use. The connection
// lands in Requested with its response prepared; the next update sends it.
func NewInviterFromRequest(
	sourceID string,
	conf Config,
	req *didexchange.Request,
) (
	c *Connection,
	err error,
) {
	defer err2.Handle(&err, "new inviter from request")

	c = try.To1(newConnection(sourceID, RoleInviter, conf))
	try.To(c.handleConnectionRequest(req))
	return c, nil
}

// Connect starts the protocol for the current role: an inviter in Null
// builds its invitation, an invitee in Invited sends the connection
// request. Any other combination is an invalid action.
func (c *Connection) Connect(send comm.SendFn) (err error) {
	defer err2.Handle(&err, "connect %s", c.sourceID)

	switch c.role {
	case RoleInviter:
		if _, ok := c.inviter.(inviterNull); !ok {
			return fmt.Errorf("%w: connect as inviter in %s",
				protocol.ErrInvalidAction, c.State())
		}
		inv := &invitation.Invitation{
			Type:            pltype.AriesConnectionInvitation,
			ID:              utils.UUID(),
			Label:           c.label,
			RecipientKeys:   []string{c.pw.VerKey},
			RoutingKeys:     c.relay.RoutingKeys(c.agent),
			ServiceEndpoint: c.relay.ServiceEndpoint(),
		}
		c.inviter = inviterInvited{Invitation: inv}
		c.threadID = inv.ID

	case RoleInvitee:
		st, ok := c.invitee.(inviteeInvited)
		if !ok {
			return fmt.Errorf("%w: connect as invitee in %s",
				protocol.ErrInvalidAction, c.State())
		}
		bootstrap := bootstrapDoc(st.Invitation)
		req := &didexchange.Request{
			Type:   pltype.AriesConnectionRequest,
			ID:     utils.UUID(),
			Label:  c.label,
			Thread: &decorator.Thread{ID: c.threadID},
			Connection: &didexchange.Connection{
				DID:    c.pw.DID,
				DIDDoc: c.ownDoc(),
			},
		}
		try.To(send(didexchange.NewRequest(req), bootstrap))
		c.invitee = inviteeRequested{Request: req, DIDDoc: bootstrap}
	}
	return nil
}

// State returns the public protocol state.
func (c *Connection) State() State {
	if c.role == RoleInviter {
		return c.inviter.state()
	}
	return c.invitee.state()
}

// IsNull tells if the machine holds no exchange: nothing started yet or
// a problem report dropped it back.
func (c *Connection) IsNull() bool {
	return c.State() == StateNull
}

// NeedsMessage is true when the protocol expects an unsolicited inbound
// message next, i.e. the state is neither initial nor terminal.
func (c *Connection) NeedsMessage() bool {
	s := c.State()
	return s != StateNull && s != StateCompleted
}

func (c *Connection) SourceID() string           { return c.sourceID }
func (c *Connection) Label() string              { return c.label }
func (c *Connection) Role() Role                 { return c.role }
func (c *Connection) ThreadID() string           { return c.threadID }
func (c *Connection) Pairwise() pairwise.Info    { return c.pw }
func (c *Connection) AgentInfo() cloud.AgentInfo { return c.agent }

// Protocols returns the protocol descriptors this agent discloses.
func (c *Connection) Protocols() []discovery.ProtocolDescriptor {
	return discovery.SupportedProtocols()
}

// PeerProtocols returns the descriptors the peer disclosed, nil until a
// disclose message has arrived on the completed connection.
func (c *Connection) PeerProtocols() []discovery.ProtocolDescriptor {
	if c.role == RoleInviter {
		if st, ok := c.inviter.(inviterCompleted); ok {
			return st.Protocols
		}
		return nil
	}
	if st, ok := c.invitee.(inviteeCompleted); ok {
		return st.Protocols
	}
	return nil
}

// RemoteDIDDoc returns the peer's DID document, nil until the protocol
// has carried one over.
func (c *Connection) RemoteDIDDoc() *sov.Doc {
	if c.role == RoleInviter {
		switch st := c.inviter.(type) {
		case inviterRequested:
			return st.DIDDoc
		case inviterResponded:
			return st.DIDDoc
		case inviterCompleted:
			return st.DIDDoc
		}
		return nil
	}
	switch st := c.invitee.(type) {
	case inviteeResponded:
		return responseDoc(st.Response)
	case inviteeCompleted:
		return st.DIDDoc
	}
	return nil
}

// remoteVerKey is the verkey inbound messages must open to: the peer's
// pairwise key from its DID document.
func (c *Connection) remoteVerKey() string {
	if keys := c.RemoteDIDDoc().RecipientKeys(); len(keys) > 0 {
		return keys[0]
	}
	return ""
}

// FindMessageToHandle scans downloaded messages and returns the first
// one whose type the current (role, state) pair accepts. Pure: no
// mutation, no I/O. Scan order is uid order so selection is stable.
func (c *Connection) FindMessageToHandle(
	msgs map[string]didcomm.MessageHdr,
) (
	uid string,
	m didcomm.MessageHdr,
) {
	uids := make([]string, 0, len(msgs))
	for u := range msgs {
		uids = append(uids, u)
	}
	sort.Strings(uids)
	for _, u := range uids {
		if c.accepts(msgs[u].Type()) {
			return u, msgs[u]
		}
	}
	return "", nil
}

func (c *Connection) accepts(typeStr string) bool {
	t := pltype.Canonical(typeStr)
	if c.role == RoleInviter {
		switch c.State() {
		case StateInvited:
			return t == pltype.AriesConnectionRequest || isProblemReport(t)
		case StateResponded:
			return t == pltype.NotificationAck ||
				t == pltype.TrustPingPing || isProblemReport(t)
		case StateCompleted:
			return acceptedWhenCompleted(t)
		}
		return false
	}
	switch c.State() {
	case StateRequested:
		return t == pltype.AriesConnectionResponse || isProblemReport(t)
	case StateCompleted:
		return acceptedWhenCompleted(t)
	}
	return false
}

func isProblemReport(t string) bool {
	return t == pltype.AriesConnectionProblemReport || t == pltype.ProblemReport
}

func acceptedWhenCompleted(t string) bool {
	return t == pltype.TrustPingPing || t == pltype.TrustPingResponse ||
		t == pltype.DiscoveryQuery || t == pltype.DiscoveryDisclose
}

// Messages downloads this relationship's fresh inbound messages from the
// relay. Credential and proof exchanges running over the connection fetch
// through here too.
func (c *Connection) Messages() (map[string]didcomm.MessageHdr, error) {
	return c.relay.GetMessages(c.agent, c.pw)
}

// AckMessage marks a downloaded relay message processed so the relay
// stops offering it.
func (c *Connection) AckMessage(uid string) error {
	return c.relay.UpdateMessageStatus(c.pw, []string{uid})
}

// UpdateState runs one update round: download unread messages from the
// relay, select at most one, fold it into a transition, acknowledge it,
// and optionally take the one extra local step the fold reported
// possible. With nothing to handle the round tries the local step alone,
// which is how a prepared response or ack gets sent.
func (c *Connection) UpdateState(send comm.SendFn) (err error) {
	defer err2.Handle(&err, "update state %s", c.sourceID)

	if c.IsNull() {
		glog.V(3).Infoln("update on null connection is ignored:", c.sourceID)
		return nil
	}

	msgs := try.To1(c.Messages())
	uid, m := c.FindMessageToHandle(msgs)
	if m == nil {
		_ = try.To1(c.step(nil, send))
		return nil
	}

	glog.V(3).Infoln("handling message", uid, m.Type())
	canHop := try.To1(c.step(m, send))
	try.To(c.AckMessage(uid))
	if canHop && c.autohop {
		_ = try.To1(c.step(nil, send))
	}
	return nil
}

// UpdateStateWithMessage folds a directly supplied message, the push
// delivery path. Same null guard and thread check, no relay download and
// no acknowledgment.
func (c *Connection) UpdateStateWithMessage(
	send comm.SendFn,
	m didcomm.MessageHdr,
) (err error) {
	defer err2.Handle(&err, "update state with message %s", c.sourceID)

	if c.IsNull() {
		glog.V(3).Infoln("update on null connection is ignored:", c.sourceID)
		return nil
	}
	canHop := try.To1(c.step(m, send))
	if canHop && c.autohop {
		_ = try.To1(c.step(nil, send))
	}
	return nil
}

// step folds one event into the role's machine. A nil message is the
// local continuation event. The reported canHop tells the caller one
// more local step could follow.
func (c *Connection) step(m didcomm.MessageHdr, send comm.SendFn) (canHop bool, err error) {
	if c.role == RoleInviter {
		return c.stepInviter(m, send)
	}
	return c.stepInvitee(m, send)
}

// checkThreadID validates inbound correlation: once the exchange thread
// is established every message of the exchange must carry it.
func (c *Connection) checkThreadID(m didcomm.MessageHdr) error {
	if c.threadID == "" || m.Nonce() == c.threadID {
		return nil
	}
	return fmt.Errorf("%w: got %s, want %s",
		protocol.ErrThreadMismatch, m.Nonce(), c.threadID)
}

// SendMessage delivers a prebuilt message to the peer.
func (c *Connection) SendMessage(send comm.SendFn, m didcomm.MessageHdr) (err error) {
	defer err2.Handle(&err, "send message")

	doc := c.RemoteDIDDoc()
	if doc == nil {
		return fmt.Errorf(
			"%w: cannot send message: remote connection information is not set",
			protocol.ErrNotReady)
	}
	return send(m, doc)
}

// SendPing sends a trust ping asking for a response.
func (c *Connection) SendPing(send comm.SendFn, comment string) error {
	return c.SendMessage(send, trustping.NewPing(&trustping.Ping{
		Type:              pltype.TrustPingPing,
		ID:                utils.UUID(),
		ResponseRequested: true,
		Comment:           comment,
	}))
}

// SendGenericMessage sends free form content as a basic message.
func (c *Connection) SendGenericMessage(send comm.SendFn, content string) error {
	return c.SendMessage(send, basicmessage.NewBasicmessage(&basicmessage.Basicmessage{
		Type:     pltype.BasicMessageSend,
		ID:       utils.UUID(),
		Content:  content,
		SentTime: basicmessage.AriesTime{Time: time.Now().UTC()},
	}))
}

// SendDiscoveryFeatures asks the peer what protocols it speaks.
func (c *Connection) SendDiscoveryFeatures(send comm.SendFn, query, comment string) error {
	return c.SendMessage(send, discovery.NewQuery(&discovery.Query{
		Type:    pltype.DiscoveryQuery,
		ID:      utils.UUID(),
		Query:   query,
		Comment: comment,
	}))
}

// DownloadMessages is the authenticated download of this relationship's
// relay queue: every message must open to the peer's verkey.
func (c *Connection) DownloadMessages(statusCodes, uids []string) (msgs []cloud.Message, err error) {
	defer err2.Handle(&err, "download messages %s", c.sourceID)

	vk := c.remoteVerKey()
	if vk == "" {
		return nil, fmt.Errorf("%w: remote verkey is not known yet",
			protocol.ErrNotReady)
	}
	return c.relay.DownloadMessagesAuth(c.agent, c.pw, vk, statusCodes, uids)
}

// Delete tears down the relay agent of the relationship and removes the
// stored exchange.
func (c *Connection) Delete() (err error) {
	defer err2.Handle(&err, "delete connection %s", c.sourceID)

	try.To(c.relay.Destroy(c.agent, c.pw))
	if rmErr := c.Remove(); rmErr != nil {
		glog.Warningln("connection record rm:", rmErr)
	}
	return nil
}

// SideConnectionInfo is one party's connectable details.
type SideConnectionInfo struct {
	DID             string                         `json:"did"`
	RecipientKeys   []string                       `json:"recipientKeys"`
	RoutingKeys     []string                       `json:"routingKeys"`
	ServiceEndpoint string                         `json:"serviceEndpoint"`
	Protocols       []discovery.ProtocolDescriptor `json:"protocols,omitempty"`
}

// PairwiseConnectionInfo is the caller visible view of the relationship.
type PairwiseConnectionInfo struct {
	My    SideConnectionInfo  `json:"my"`
	Their *SideConnectionInfo `json:"their,omitempty"`
}

// Info returns own connectable details and, once known, the peer's.
func (c *Connection) Info() PairwiseConnectionInfo {
	info := PairwiseConnectionInfo{
		My: SideConnectionInfo{
			DID:             c.pw.DID,
			RecipientKeys:   []string{c.pw.VerKey},
			RoutingKeys:     c.relay.RoutingKeys(c.agent),
			ServiceEndpoint: c.relay.ServiceEndpoint(),
			Protocols:       c.Protocols(),
		},
	}
	if doc := c.RemoteDIDDoc(); doc != nil {
		info.Their = &SideConnectionInfo{
			DID:             doc.ID,
			RecipientKeys:   doc.RecipientKeys(),
			RoutingKeys:     doc.RoutingKeys(),
			ServiceEndpoint: doc.Endpoint(),
			Protocols:       c.PeerProtocols(),
		}
	}
	return info
}

// InviteDetails returns the invitation JSON for out-of-band delivery.
// Available while the connection is in Invited.
func (c *Connection) InviteDetails() (json string, err error) {
	defer err2.Handle(&err, "invite details")

	var inv *invitation.Invitation
	if c.role == RoleInviter {
		if st, ok := c.inviter.(inviterInvited); ok {
			inv = st.Invitation
		}
	} else if st, ok := c.invitee.(inviteeInvited); ok {
		inv = st.Invitation
	}
	if inv == nil {
		return "", fmt.Errorf("%w: no invitation in %s",
			protocol.ErrNotReady, c.State())
	}
	return string(didexchange.NewInvitation(inv).JSON()), nil
}

// ownDoc builds our DID document: pairwise key, relay endpoint, relay
// routing keys.
func (c *Connection) ownDoc() *sov.Doc {
	return sov.NewDoc(
		ssi.NewDid(c.pw.DID, c.pw.VerKey),
		service.Addr{Endp: c.relay.ServiceEndpoint(), Key: c.pw.VerKey},
		c.relay.RoutingKeys(c.agent))
}

// bootstrapDoc derives the peer doc from invitation data. It is all the
// invitee knows of the inviter until the response arrives.
func bootstrapDoc(inv *invitation.Invitation) *sov.Doc {
	return sov.NewDocFromEndpoint(inv.ID,
		inv.RecipientKeys, inv.RoutingKeys, inv.ServiceEndpoint)
}

// responseDoc digs the peer doc out of a verified connection response. A
// response parsed back from storage carries the doc inside its signature
// only, so extract it from there when needed.
func responseDoc(r *didexchange.Response) *sov.Doc {
	if r == nil {
		return nil
	}
	if r.Connection == nil && r.ConnectionSignature != nil {
		if c, err := didexchange.ConnectionFromSignature(r.ConnectionSignature); err == nil {
			r.Connection = c
		}
	}
	if r.Connection == nil {
		return nil
	}
	return r.Connection.DIDDoc
}

// handleCompleted serves the protocols a completed connection carries:
// trust pings, feature queries and discloses. It returns the peer
// protocol list when a disclose updated it.
func (c *Connection) handleCompleted(
	m didcomm.MessageHdr,
	doc *sov.Doc,
	current []discovery.ProtocolDescriptor,
	send comm.SendFn,
) (
	protocols []discovery.ProtocolDescriptor,
	err error,
) {
	defer err2.Handle(&err, "handle completed")

	switch pltype.Canonical(m.Type()) {
	case pltype.TrustPingPing:
		try.To(replyPing(m, doc, send))
	case pltype.TrustPingResponse:
		glog.V(3).Infoln("ping response from peer:", m.ID())
	case pltype.DiscoveryQuery:
		query, _ := m.FieldObj().(*discovery.Query)
		q := ""
		if query != nil {
			q = query.Query
		}
		try.To(send(discovery.NewDisclose(&discovery.Disclose{
			Type:      pltype.DiscoveryDisclose,
			ID:        utils.UUID(),
			Thread:    &decorator.Thread{ID: m.ID()},
			Protocols: discovery.ProtocolsForQuery(q),
		}), doc))
	case pltype.DiscoveryDisclose:
		if disclose, ok := m.FieldObj().(*discovery.Disclose); ok {
			return disclose.Protocols, nil
		}
	}
	return current, nil
}

// replyPing answers a trust ping when it asked for a response.
func replyPing(m didcomm.MessageHdr, doc *sov.Doc, send comm.SendFn) error {
	ping, ok := m.FieldObj().(*trustping.Ping)
	if !ok || !ping.ResponseRequested {
		return nil
	}
	return send(trustping.NewPingResponse(&trustping.PingResponse{
		Type:   pltype.TrustPingResponse,
		ID:     utils.UUID(),
		Thread: &decorator.Thread{ID: m.ID()},
	}), doc)
}

// pipe returns the crypto pipe of this relationship keyed by our
// pairwise identity.
func (c *Connection) pipe() sec.Pipe {
	return sec.Pipe{In: ssi.NewDid(c.pw.DID, c.pw.VerKey)}
}
