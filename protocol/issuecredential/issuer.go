// Package issuecredential implements the issuer side of the Aries issue
// credential protocol. The Issuer runs one credential exchange over an
// established connection: offer out, request in, credential out, with
// the anoncreds work behind the vc.Issuer collaborator.
package issuecredential

import (
	"errors"
	"fmt"
	"sort"

	"github.com/findy-network/findy-agent-vcx/agent/comm"
	"github.com/findy-network/findy-agent-vcx/agent/didcomm"
	"github.com/findy-network/findy-agent-vcx/agent/pltype"
	"github.com/findy-network/findy-agent-vcx/agent/utils"
	"github.com/findy-network/findy-agent-vcx/agent/vc"
	"github.com/findy-network/findy-agent-vcx/protocol"
	"github.com/findy-network/findy-agent-vcx/protocol/connection"
	"github.com/findy-network/findy-agent-vcx/std/common"
	"github.com/findy-network/findy-agent-vcx/std/decorator"
	"github.com/findy-network/findy-agent-vcx/std/issuecredential"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// ErrNoRevocationInfo is returned by Revoke when the credential was not
// issued against a revocation registry.
var ErrNoRevocationInfo = errors.New("no revocation configuration")

// Issuer drives one credential issuance. Not safe for concurrent use,
// callers run one update at a time per exchange.
type Issuer struct {
	sourceID  string
	threadID  string
	askForAck bool

	st issuerState

	anoncreds vc.Issuer
}

// NewIssuer creates an issuer for one credential described by the offer
// info. The machine starts in Initial, SendOffer opens the exchange.
func NewIssuer(sourceID string, info vc.OfferInfo, anoncreds vc.Issuer) *Issuer {
	return &Issuer{
		sourceID:  sourceID,
		st:        issuerInitial{OfferInfo: info},
		anoncreds: anoncreds,
	}
}

// AskForAck makes the issued credential carry a please-ack decorator.
// The exchange then closes on the holder's ack instead of on our send.
func (i *Issuer) AskForAck(ask bool) {
	i.askForAck = ask
}

func (i *Issuer) SourceID() string { return i.sourceID }
func (i *Issuer) ThreadID() string { return i.threadID }

// State returns the public protocol state.
func (i *Issuer) State() State {
	return i.st.state()
}

// IsTerminal tells if the exchange is closed, successfully or not.
func (i *Issuer) IsTerminal() bool {
	s := i.State()
	return s == StateFinished || s == StateFailed
}

// HasTransitions is true while the exchange still moves.
func (i *Issuer) HasTransitions() bool {
	return !i.IsTerminal()
}

// RevocationInfo returns the registry coordinates of the issued
// credential, nil when the credential is not revocable or not issued yet.
func (i *Issuer) RevocationInfo() *RevocationInfo {
	switch st := i.st.(type) {
	case issuerCredentialSent:
		return st.RevocationInfo
	case issuerFinished:
		return st.RevocationInfo
	}
	return nil
}

// SendOffer builds the credential offer with the anoncreds collaborator
// and sends it over the connection. The offer's id becomes the exchange
// thread. Valid in Initial only.
func (i *Issuer) SendOffer(conn *connection.Connection, send comm.SendFn) (err error) {
	defer err2.Handle(&err, "send offer %s", i.sourceID)

	st, ok := i.st.(issuerInitial)
	if !ok {
		return fmt.Errorf("%w: send offer in %s", protocol.ErrInvalidAction, i.State())
	}

	offerJSON := try.To1(i.anoncreds.CreateCredentialOffer(st.OfferInfo.CredDefID))
	msg := &issuecredential.Offer{
		Type:              pltype.IssueCredentialOffer,
		ID:                utils.UUID(),
		CredentialPreview: issuecredential.NewPreviewCredential(st.OfferInfo.Values),
		OffersAttach:      issuecredential.NewOfferAttach([]byte(offerJSON)),
	}
	msg.Thread = &decorator.Thread{ID: msg.ID}
	try.To(conn.SendMessage(send, issuecredential.NewOffer(msg)))

	i.threadID = msg.ID
	i.st = issuerOfferSent{
		Offer:     offerJSON,
		CredDefID: st.OfferInfo.CredDefID,
		Values:    st.OfferInfo.Values,
		RevRegID:  st.OfferInfo.RevRegID,
		TailsFile: st.OfferInfo.TailsFile,
	}
	return nil
}

// SendCredential issues the credential for the received request and sends
// it. A failing anoncreds build is protocol traffic: the holder gets a
// problem report and the exchange closes as failed. A failing send leaves
// the state as it was so the same step can be retried. Valid in
// RequestReceived only.
func (i *Issuer) SendCredential(conn *connection.Connection, send comm.SendFn) (err error) {
	defer err2.Handle(&err, "send credential %s", i.sourceID)

	st, ok := i.st.(issuerRequestReceived)
	if !ok {
		return fmt.Errorf("%w: send credential in %s", protocol.ErrInvalidAction, i.State())
	}

	requestJSON := try.To1(issuecredential.RequestAttach(st.Request))
	credJSON, credRevID, buildErr := i.anoncreds.CreateCredential(
		st.Offer, string(requestJSON), st.Values, st.RevRegID)
	if buildErr != nil {
		glog.Warningf("issuer %s: cannot build credential: %v", i.sourceID, buildErr)
		try.To(conn.SendMessage(send, common.NewProblemReport(&common.ProblemReport{
			Type:        pltype.IssueCredentialProblemReport,
			ID:          utils.UUID(),
			Description: common.Code{Code: "issuance-abandoned"},
			Explain:     buildErr.Error(),
			Thread:      &decorator.Thread{ID: i.threadID},
		})))
		i.st = issuerFinished{Failed: true}
		return nil
	}

	msg := &issuecredential.Issue{
		Type:              pltype.IssueCredentialIssue,
		ID:                utils.UUID(),
		CredentialsAttach: issuecredential.NewCredentialsAttach([]byte(credJSON)),
		Thread:            &decorator.Thread{ID: i.threadID},
	}
	if i.askForAck {
		msg.PleaseAck = &decorator.PleaseAck{}
	}
	try.To(conn.SendMessage(send, issuecredential.NewIssue(msg)))

	var revInfo *RevocationInfo
	if st.RevRegID != "" {
		revInfo = &RevocationInfo{
			CredRevID: credRevID,
			RevRegID:  st.RevRegID,
			TailsFile: st.TailsFile,
		}
	}
	if i.askForAck {
		i.st = issuerCredentialSent{RevocationInfo: revInfo}
	} else {
		i.st = issuerFinished{RevocationInfo: revInfo}
	}
	return nil
}

// Revoke revokes the issued credential through the anoncreds
// collaborator. The machine state never changes: revocation is a registry
// operation, not a protocol step.
func (i *Issuer) Revoke() (err error) {
	defer err2.Handle(&err, "revoke %s", i.sourceID)

	info := i.RevocationInfo()
	if info == nil || info.RevRegID == "" || info.CredRevID == "" {
		return fmt.Errorf("%w: credential %s has no revocation registry",
			ErrNoRevocationInfo, i.sourceID)
	}
	return i.anoncreds.RevokeCredential(info.RevRegID, info.CredRevID)
}

// FindMessageToHandle scans downloaded messages for the first one this
// exchange can fold now: the type must fit the state and the thread must
// be this exchange's. Pure, scan order is uid order.
func (i *Issuer) FindMessageToHandle(
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
		if i.accepts(msgs[u]) {
			return u, msgs[u]
		}
	}
	return "", nil
}

func (i *Issuer) accepts(m didcomm.MessageHdr) bool {
	t := pltype.Canonical(m.Type())
	switch i.st.(type) {
	case issuerInitial:
		return t == pltype.IssueCredentialPropose
	case issuerOfferSent:
		switch t {
		case pltype.IssueCredentialRequest,
			pltype.IssueCredentialPropose,
			pltype.IssueCredentialProblemReport,
			pltype.ProblemReport:
			return i.fromThread(m)
		}
	case issuerCredentialSent:
		switch t {
		case pltype.IssueCredentialACK, pltype.NotificationAck,
			pltype.IssueCredentialProblemReport, pltype.ProblemReport:
			return i.fromThread(m)
		}
	}
	return false
}

// fromThread tells if the message belongs to this exchange. An exchange
// with no thread yet accepts any.
func (i *Issuer) fromThread(m didcomm.MessageHdr) bool {
	return i.threadID == "" || m.Nonce() == i.threadID
}

// UpdateState runs one update round over the given connection: fetch,
// select, fold, acknowledge. Terminal machines return immediately with
// no network traffic.
func (i *Issuer) UpdateState(conn *connection.Connection) (s State, err error) {
	defer err2.Handle(&err, "update issuer %s", i.sourceID)

	if i.IsTerminal() {
		return i.State(), nil
	}
	msgs := try.To1(conn.Messages())
	uid, m := i.FindMessageToHandle(msgs)
	if m == nil {
		return i.State(), nil
	}
	glog.V(3).Infoln("issuer handling message", uid, m.Type())
	try.To(i.step(m))
	try.To(conn.AckMessage(uid))
	return i.State(), nil
}

// step folds one inbound message into the machine. Types the current
// state does not expect leave the state as it is.
func (i *Issuer) step(m didcomm.MessageHdr) (err error) {
	defer err2.Handle(&err, "issuer step")

	t := pltype.Canonical(m.Type())
	switch st := i.st.(type) {
	case issuerInitial:
		if t == pltype.IssueCredentialPropose {
			i.recordProposal(m, st.OfferInfo)
		}

	case issuerOfferSent:
		switch t {
		case pltype.IssueCredentialRequest:
			req, ok := m.FieldObj().(*issuecredential.Request)
			if !ok {
				return fmt.Errorf("credential request payload is %T", m.FieldObj())
			}
			i.st = issuerRequestReceived{
				Offer:     st.Offer,
				CredDefID: st.CredDefID,
				Values:    st.Values,
				RevRegID:  st.RevRegID,
				TailsFile: st.TailsFile,
				Request:   req,
			}
		case pltype.IssueCredentialPropose:
			// counter proposal reopens the negotiation
			i.recordProposal(m, vc.OfferInfo{
				CredDefID: st.CredDefID,
				Values:    st.Values,
				RevRegID:  st.RevRegID,
				TailsFile: st.TailsFile,
			})
		case pltype.IssueCredentialProblemReport, pltype.ProblemReport:
			i.failWithReport(m)
		}

	case issuerCredentialSent:
		switch t {
		case pltype.IssueCredentialACK, pltype.NotificationAck:
			glog.V(3).Infoln("issuer", i.sourceID, "closed with holder ack")
			i.st = issuerFinished{RevocationInfo: st.RevocationInfo}
		case pltype.IssueCredentialProblemReport, pltype.ProblemReport:
			i.failWithReportKeeping(m, st.RevocationInfo)
		}

	case issuerFinished:
		glog.V(3).Infoln("issuer", i.sourceID, "is finished, message ignored")
	}
	return nil
}

// recordProposal regresses to Initial with the holder's counter proposal
// folded into the offer info, ready for a new SendOffer round.
func (i *Issuer) recordProposal(m didcomm.MessageHdr, base vc.OfferInfo) {
	proposal, ok := m.FieldObj().(*issuecredential.Propose)
	if !ok {
		glog.Warningf("issuer %s: proposal payload is %T", i.sourceID, m.FieldObj())
		return
	}
	info := base
	if proposal.CredDefID != "" {
		info.CredDefID = proposal.CredDefID
	}
	if attrs := proposal.CredentialProposal.Attributes; len(attrs) > 0 {
		info.Values = make(map[string]string, len(attrs))
		for _, a := range attrs {
			info.Values[a.Name] = a.Value
		}
	}
	glog.V(3).Infoln("issuer", i.sourceID, "records counter proposal")
	i.st = issuerInitial{OfferInfo: info}
}

func (i *Issuer) failWithReport(m didcomm.MessageHdr) {
	i.failWithReportKeeping(m, nil)
}

func (i *Issuer) failWithReportKeeping(m didcomm.MessageHdr, revInfo *RevocationInfo) {
	report, _ := m.FieldObj().(*common.ProblemReport)
	if report != nil {
		glog.Warningf("issuer %s: problem report from holder: %s %s",
			i.sourceID, report.Description.Code, report.Explain)
	}
	i.st = issuerFinished{Failed: true, ProblemReport: report, RevocationInfo: revInfo}
}
