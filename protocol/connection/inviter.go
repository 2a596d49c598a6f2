package connection

import (
	"fmt"

	"github.com/findy-network/findy-agent-vcx/agent/comm"
	"github.com/findy-network/findy-agent-vcx/agent/didcomm"
	"github.com/findy-network/findy-agent-vcx/agent/pairwise"
	"github.com/findy-network/findy-agent-vcx/agent/pltype"
	"github.com/findy-network/findy-agent-vcx/agent/service"
	"github.com/findy-network/findy-agent-vcx/agent/ssi"
	"github.com/findy-network/findy-agent-vcx/agent/utils"
	"github.com/findy-network/findy-agent-vcx/std/common"
	"github.com/findy-network/findy-agent-vcx/std/decorator"
	"github.com/findy-network/findy-agent-vcx/std/didexchange"
	sov "github.com/findy-network/findy-agent-vcx/std/sov/did"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// stepInviter folds one event into the inviter machine. Message types the
// current state does not expect leave the state as it is.
func (c *Connection) stepInviter(m didcomm.MessageHdr, send comm.SendFn) (canHop bool, err error) {
	defer err2.Handle(&err, "inviter")

	switch st := c.inviter.(type) {
	case inviterInvited:
		if m == nil {
			return false, nil
		}
		switch pltype.Canonical(m.Type()) {
		case pltype.AriesConnectionRequest:
			try.To(c.checkThreadID(m))
			req, ok := m.FieldObj().(*didexchange.Request)
			if !ok {
				return false, fmt.Errorf("connection request payload is %T", m.FieldObj())
			}
			try.To(c.handleConnectionRequest(req))
			return true, nil
		case pltype.AriesConnectionProblemReport, pltype.ProblemReport:
			try.To(c.checkThreadID(m))
			c.dropToNull(m)
		}

	case inviterRequested:
		if m != nil {
			return false, nil
		}
		try.To(send(&didexchange.ResponseImpl{Response: st.SignedResponse}, st.DIDDoc))
		c.inviter = inviterResponded{SignedResponse: st.SignedResponse, DIDDoc: st.DIDDoc}

	case inviterResponded:
		if m == nil {
			return false, nil
		}
		switch pltype.Canonical(m.Type()) {
		case pltype.NotificationAck:
			try.To(c.checkThreadID(m))
			c.inviter = inviterCompleted{DIDDoc: st.DIDDoc, ThreadID: c.threadID}
		case pltype.TrustPingPing:
			// the peer's first ping confirms the connection like an ack
			c.inviter = inviterCompleted{DIDDoc: st.DIDDoc, ThreadID: c.threadID}
			try.To(replyPing(m, st.DIDDoc, send))
		case pltype.AriesConnectionProblemReport, pltype.ProblemReport:
			try.To(c.checkThreadID(m))
			c.dropToNull(m)
		}

	case inviterCompleted:
		if m == nil {
			return false, nil
		}
		protocols := try.To1(c.handleCompleted(m, st.DIDDoc, st.Protocols, send))
		c.inviter = inviterCompleted{
			DIDDoc:    st.DIDDoc,
			Protocols: protocols,
			ThreadID:  st.ThreadID,
		}
	}
	return false, nil
}

// handleConnectionRequest accepts an inbound connection request: a fresh
// pairwise and relay agent replace the invitation ones, and the response
// is signed with the invitation key so the invitee can verify it against
// the key it was invited with.
func (c *Connection) handleConnectionRequest(req *didexchange.Request) (err error) {
	defer err2.Handle(&err, "handle connection request")

	if req == nil || req.Connection == nil || req.Connection.DIDDoc == nil {
		return fmt.Errorf("connection request carries no DID document")
	}
	thid := req.ID
	if req.Thread != nil && req.Thread.ID != "" {
		thid = req.Thread.ID
	}

	invitationPipe := c.pipe()
	newPw := try.To1(pairwise.Create(c.wallet))
	newAgent := try.To1(c.relay.CreateAgent(newPw))

	ownDoc := sov.NewDoc(
		ssi.NewDid(newPw.DID, newPw.VerKey),
		service.Addr{Endp: c.relay.ServiceEndpoint(), Key: newPw.VerKey},
		c.relay.RoutingKeys(newAgent))

	resp := &didexchange.Response{
		Type:   pltype.AriesConnectionResponse,
		ID:     utils.UUID(),
		Thread: &decorator.Thread{ID: thid},
		Connection: &didexchange.Connection{
			DID:    newPw.DID,
			DIDDoc: ownDoc,
		},
	}
	signed := try.To1(didexchange.NewResponse(invitationPipe, resp))

	glog.V(3).Infoln("inviter", c.sourceID, "rotates", c.pw.DID, "->", newPw.DID)
	c.pw = newPw
	c.agent = newAgent
	c.threadID = thid
	c.inviter = inviterRequested{
		SignedResponse: signed.Response,
		DIDDoc:         req.Connection.DIDDoc,
		ThreadID:       thid,
	}
	return nil
}

// dropToNull records the peer's problem report and resets the exchange.
func (c *Connection) dropToNull(m didcomm.MessageHdr) {
	explain := ""
	if report, ok := m.FieldObj().(*common.ProblemReport); ok {
		explain = report.Explain
		if explain == "" {
			explain = report.ExplainLongTxt
		}
		if explain == "" {
			explain = report.Description.Code
		}
	}
	glog.Warningf("connection %s: problem report from peer: %s", c.sourceID, explain)
	if c.role == RoleInviter {
		c.inviter = inviterNull{}
	} else {
		c.invitee = inviteeNull{}
	}
}
