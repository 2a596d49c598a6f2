package issuecredential

import (
	"encoding/base64"
	"encoding/gob"

	"github.com/findy-network/findy-agent-vcx/agent/aries"
	"github.com/findy-network/findy-agent-vcx/agent/didcomm"
	"github.com/findy-network/findy-agent-vcx/agent/pltype"
	"github.com/findy-network/findy-agent-vcx/std/decorator"
	"github.com/findy-network/findy-common-go/dto"
)

var IssueCreator = &IssueFactor{}

type IssueFactor struct{}

func (f *IssueFactor) NewMsg(init didcomm.MsgInit) didcomm.MessageHdr {
	m := &Issue{
		Type:    init.Type,
		ID:      init.AID,
		Comment: init.Info,
		Thread:  decorator.CheckThread(init.Thread, init.AID),
	}
	return NewIssue(m)
}

func (f *IssueFactor) NewMessage(data []byte) didcomm.MessageHdr {
	return NewIssueMsg(data)
}

func init() {
	gob.Register(&IssueImpl{})
	aries.Creator.Add(pltype.IssueCredentialIssue, IssueCreator)
	aries.Creator.Add(pltype.DIDOrgIssueCredentialIssue, IssueCreator)
}

func NewIssue(r *Issue) *IssueImpl {
	return &IssueImpl{Issue: r}
}

func NewIssueMsg(data []byte) *IssueImpl {
	var mImpl IssueImpl
	dto.FromJSON(data, &mImpl)
	mImpl.checkThread()
	return &mImpl
}

// CredentialAttach returns the decoded libindy credential payload.
func CredentialAttach(p *Issue) (data []byte, err error) {
	return base64.StdEncoding.DecodeString(p.CredentialsAttach[0].Data.Base64)
}

// NewCredentialsAttach wraps a libindy credential to the attachment the
// issue message carries it in.
func NewCredentialsAttach(attach []byte) []decorator.Attachment {
	data := decorator.AttachmentData{
		Base64: base64.StdEncoding.EncodeToString(attach)}
	rp := []decorator.Attachment{{
		ID:       pltype.LibindyCredID,
		MimeType: "application/json",
		Data:     data,
	}}
	return rp
}

func (p *IssueImpl) checkThread() {
	p.Issue.Thread = decorator.CheckThread(p.Issue.Thread, p.Issue.ID)
}

type IssueImpl struct {
	*Issue
}

func (p *IssueImpl) ID() string {
	return p.Issue.ID
}

func (p *IssueImpl) Type() string {
	return p.Issue.Type
}

func (p *IssueImpl) SetID(id string) {
	p.Issue.ID = id
}

func (p *IssueImpl) SetType(t string) {
	p.Issue.Type = t
}

func (p *IssueImpl) JSON() []byte {
	return dto.ToJSONBytes(p)
}

func (p *IssueImpl) Thread() *decorator.Thread {
	return p.Issue.Thread
}

func (p *IssueImpl) Nonce() string {
	return p.Thread().ID
}

func (p *IssueImpl) FieldObj() interface{} {
	return p.Issue
}
