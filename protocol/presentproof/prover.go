// Package presentproof implements the prover side of the Aries present
// proof protocol. The Prover runs one presentation exchange over an
// established connection: a received request is answered with a
// presentation built by the vc.Prover collaborator, or declined with a
// problem report.
package presentproof

import (
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
	"github.com/findy-network/findy-agent-vcx/std/presentproof"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// Prover drives one proof presentation. Not safe for concurrent use,
// callers run one update at a time per exchange.
type Prover struct {
	sourceID string
	threadID string

	st proverState

	anoncreds vc.Prover
}

// NewProver creates a prover for one received presentation request. The
// request establishes the exchange thread.
func NewProver(sourceID string, req *presentproof.Request, anoncreds vc.Prover) *Prover {
	threadID := ""
	if req != nil {
		threadID = req.ID
		if req.Thread != nil && req.Thread.ID != "" {
			threadID = req.Thread.ID
		}
	}
	return &Prover{
		sourceID:  sourceID,
		threadID:  threadID,
		st:        proverInitial{Request: req},
		anoncreds: anoncreds,
	}
}

func (p *Prover) SourceID() string { return p.sourceID }
func (p *Prover) ThreadID() string { return p.threadID }

// State returns the public protocol state.
func (p *Prover) State() State {
	return p.st.state()
}

// IsTerminal tells if the exchange is closed, successfully or not.
func (p *Prover) IsTerminal() bool {
	s := p.State()
	return s == StateFinished || s == StateFailed
}

// HasTransitions is true while the exchange still moves.
func (p *Prover) HasTransitions() bool {
	return !p.IsTerminal()
}

// PreparePresentation builds the presentation from the request and the
// given credentials through the anoncreds collaborator. A failing build
// is protocol traffic, not an engine error: the machine moves to
// PresentationPreparationFailed holding the problem report that
// SendPresentation will deliver. Valid in Initial only. No network.
func (p *Prover) PreparePresentation(credentials map[string]string) (err error) {
	defer err2.Handle(&err, "prepare presentation %s", p.sourceID)

	st, ok := p.st.(proverInitial)
	if !ok {
		return fmt.Errorf("%w: prepare presentation in %s",
			protocol.ErrInvalidAction, p.State())
	}
	if st.Request == nil {
		return fmt.Errorf("%w: prover has no presentation request",
			protocol.ErrInvalidState)
	}

	requestJSON, attachErr := presentproof.ProofRequestAttach(st.Request)
	if attachErr == nil {
		var presentationJSON string
		presentationJSON, attachErr = p.anoncreds.CreatePresentation(
			string(requestJSON), credentials)
		if attachErr == nil {
			p.st = proverPrepared{
				Request: st.Request,
				Presentation: &presentproof.Presentation{
					Type:                 pltype.PresentProofPresentation,
					ID:                   utils.UUID(),
					PresentationAttaches: presentproof.NewPresentationAttach([]byte(presentationJSON)),
					PleaseAck:            &decorator.PleaseAck{},
					Thread:               &decorator.Thread{ID: p.threadID},
				},
			}
			return nil
		}
	}

	glog.Warningf("prover %s: cannot build presentation: %v", p.sourceID, attachErr)
	p.st = proverPreparationFailed{
		Request:       st.Request,
		ProblemReport: p.newProblemReport(attachErr.Error()),
	}
	return nil
}

// SendPresentation delivers the prepared outcome: the presentation when
// preparation succeeded, the problem report when it failed. A failing
// send leaves the state as it was so the same step can be retried.
func (p *Prover) SendPresentation(conn *connection.Connection, send comm.SendFn) (err error) {
	defer err2.Handle(&err, "send presentation %s", p.sourceID)

	switch st := p.st.(type) {
	case proverPrepared:
		try.To(conn.SendMessage(send, presentproof.NewPresentation(st.Presentation)))
		p.st = proverSent{Request: st.Request, Presentation: st.Presentation}
	case proverPreparationFailed:
		try.To(conn.SendMessage(send, common.NewProblemReport(st.ProblemReport)))
		p.st = proverFinished{
			Failed:        true,
			Request:       st.Request,
			ProblemReport: st.ProblemReport,
		}
	default:
		return fmt.Errorf("%w: send presentation in %s",
			protocol.ErrInvalidAction, p.State())
	}
	return nil
}

// Reject declines the presentation request with the given reason. Valid
// until the presentation has been sent.
func (p *Prover) Reject(conn *connection.Connection, send comm.SendFn, reason string) (err error) {
	defer err2.Handle(&err, "reject presentation request %s", p.sourceID)

	var req *presentproof.Request
	switch st := p.st.(type) {
	case proverInitial:
		req = st.Request
	case proverPrepared:
		req = st.Request
	case proverPreparationFailed:
		req = st.Request
	default:
		return fmt.Errorf("%w: reject in %s", protocol.ErrInvalidAction, p.State())
	}

	report := p.newProblemReport(reason)
	try.To(conn.SendMessage(send, common.NewProblemReport(report)))
	p.st = proverFinished{Failed: true, Request: req, ProblemReport: report}
	return nil
}

// FindMessageToHandle scans downloaded messages for the first one this
// exchange can fold now: the type must fit the state and the thread must
// be this exchange's. Pure, scan order is uid order.
func (p *Prover) FindMessageToHandle(
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
		if p.accepts(msgs[u]) {
			return u, msgs[u]
		}
	}
	return "", nil
}

func (p *Prover) accepts(m didcomm.MessageHdr) bool {
	if _, ok := p.st.(proverSent); !ok {
		return false
	}
	switch pltype.Canonical(m.Type()) {
	case pltype.PresentProofACK, pltype.NotificationAck,
		pltype.PresentProofProblemReport, pltype.ProblemReport:
		return p.threadID == "" || m.Nonce() == p.threadID
	}
	return false
}

// UpdateState runs one update round over the given connection: fetch,
// select, fold, acknowledge. Terminal machines return immediately with
// no network traffic.
func (p *Prover) UpdateState(conn *connection.Connection) (s State, err error) {
	defer err2.Handle(&err, "update prover %s", p.sourceID)

	if p.IsTerminal() {
		return p.State(), nil
	}
	msgs := try.To1(conn.Messages())
	uid, m := p.FindMessageToHandle(msgs)
	if m == nil {
		return p.State(), nil
	}
	glog.V(3).Infoln("prover handling message", uid, m.Type())
	try.To(p.step(m))
	try.To(conn.AckMessage(uid))
	return p.State(), nil
}

// step folds one inbound message into the machine. Types the current
// state does not expect leave the state as it is.
func (p *Prover) step(m didcomm.MessageHdr) (err error) {
	defer err2.Handle(&err, "prover step")

	st, ok := p.st.(proverSent)
	if !ok {
		glog.V(3).Infoln("prover", p.sourceID, "ignores message in", p.State())
		return nil
	}
	switch pltype.Canonical(m.Type()) {
	case pltype.PresentProofACK, pltype.NotificationAck:
		glog.V(3).Infoln("prover", p.sourceID, "closed with verifier ack")
		p.st = proverFinished{Request: st.Request, Presentation: st.Presentation}
	case pltype.PresentProofProblemReport, pltype.ProblemReport:
		report, _ := m.FieldObj().(*common.ProblemReport)
		if report != nil {
			glog.Warningf("prover %s: problem report from verifier: %s %s",
				p.sourceID, report.Description.Code, report.Explain)
		}
		p.st = proverFinished{
			Failed:        true,
			Request:       st.Request,
			Presentation:  st.Presentation,
			ProblemReport: report,
		}
	}
	return nil
}

func (p *Prover) newProblemReport(explain string) *common.ProblemReport {
	return &common.ProblemReport{
		Type:        pltype.PresentProofProblemReport,
		ID:          utils.UUID(),
		Description: common.Code{Code: "presentation-abandoned"},
		Explain:     explain,
		Thread:      &decorator.Thread{ID: p.threadID},
	}
}
