package connection

import (
	"fmt"

	"github.com/findy-network/findy-agent-vcx/agent/comm"
	"github.com/findy-network/findy-agent-vcx/agent/didcomm"
	"github.com/findy-network/findy-agent-vcx/agent/pltype"
	"github.com/findy-network/findy-agent-vcx/agent/sec"
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

// stepInvitee folds one event into the invitee machine. Message types the
// current state does not expect leave the state as it is.
func (c *Connection) stepInvitee(m didcomm.MessageHdr, send comm.SendFn) (canHop bool, err error) {
	defer err2.Handle(&err, "invitee")

	switch st := c.invitee.(type) {
	case inviteeRequested:
		if m == nil {
			return false, nil
		}
		switch pltype.Canonical(m.Type()) {
		case pltype.AriesConnectionResponse:
			try.To(c.checkThreadID(m))
			resp, ok := m.FieldObj().(*didexchange.Response)
			if !ok {
				return false, fmt.Errorf("connection response payload is %T", m.FieldObj())
			}
			return c.handleConnectionResponse(st, &didexchange.ResponseImpl{Response: resp}, send)
		case pltype.AriesConnectionProblemReport, pltype.ProblemReport:
			try.To(c.checkThreadID(m))
			c.dropToNull(m)
		}

	case inviteeResponded:
		if m != nil {
			return false, nil
		}
		doc := responseDoc(st.Response)
		try.To(send(common.NewAck(&common.Ack{
			Type:   pltype.NotificationAck,
			ID:     utils.UUID(),
			Status: "OK",
			Thread: &decorator.Thread{ID: c.threadID},
		}), doc))
		c.invitee = inviteeCompleted{
			DIDDoc:          doc,
			BootstrapDIDDoc: st.DIDDoc,
			ThreadID:        c.threadID,
		}

	case inviteeCompleted:
		if m == nil {
			return false, nil
		}
		protocols := try.To1(c.handleCompleted(m, st.DIDDoc, st.Protocols, send))
		c.invitee = inviteeCompleted{
			DIDDoc:          st.DIDDoc,
			BootstrapDIDDoc: st.BootstrapDIDDoc,
			Protocols:       protocols,
			ThreadID:        st.ThreadID,
		}
	}
	return false, nil
}

// handleConnectionResponse verifies the response signature against the
// invitation key we were invited with. A response that does not verify is
// answered with a problem report and drops the exchange to null, it is
// protocol traffic and not an engine error.
func (c *Connection) handleConnectionResponse(
	st inviteeRequested,
	resp *didexchange.ResponseImpl,
	send comm.SendFn,
) (
	canHop bool,
	err error,
) {
	defer err2.Handle(&err, "handle connection response")

	invitationKey := ""
	if keys := st.DIDDoc.RecipientKeys(); len(keys) > 0 {
		invitationKey = keys[0]
	}
	pipe := sec.NewPipeByVerkey(ssi.NewDid(c.pw.DID, c.pw.VerKey), invitationKey)

	if verifyErr := resp.Verify(pipe); verifyErr != nil {
		glog.Warningf("connection %s: response signature does not verify: %v",
			c.sourceID, verifyErr)
		c.sendProblemReport(st.DIDDoc,
			"response_processing_error",
			"cannot verify connection response signature", send)
		c.invitee = inviteeNull{}
		return false, nil
	}
	if resp.Connection == nil || resp.Connection.DIDDoc == nil {
		glog.Warningf("connection %s: response carries no DID document", c.sourceID)
		c.sendProblemReport(st.DIDDoc,
			"response_processing_error",
			"connection response carries no DID document", send)
		c.invitee = inviteeNull{}
		return false, nil
	}

	c.invitee = inviteeResponded{
		Response: resp.Response,
		Request:  st.Request,
		DIDDoc:   st.DIDDoc,
	}
	return true, nil
}

// sendProblemReport tells the peer the exchange failed. Failures of the
// report delivery are only logged, the caller's transition happens anyway.
func (c *Connection) sendProblemReport(doc *sov.Doc, code, explain string, send comm.SendFn) {
	report := common.NewProblemReport(&common.ProblemReport{
		Type:        pltype.AriesConnectionProblemReport,
		ID:          utils.UUID(),
		Description: common.Code{Code: code},
		ProblemCode: code,
		Explain:     explain,
		Thread:      &decorator.Thread{ID: c.threadID},
	})
	if sendErr := send(report, doc); sendErr != nil {
		glog.Warningln("cannot send problem report:", sendErr)
	}
}
