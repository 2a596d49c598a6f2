package didexchange

import (
	"encoding/gob"

	"github.com/findy-network/findy-agent-vcx/agent/aries"
	"github.com/findy-network/findy-agent-vcx/agent/didcomm"
	"github.com/findy-network/findy-agent-vcx/agent/pltype"
	"github.com/findy-network/findy-agent-vcx/agent/service"
	"github.com/findy-network/findy-agent-vcx/std/decorator"
	"github.com/findy-network/findy-agent-vcx/std/didexchange/invitation"
	"github.com/findy-network/findy-common-go/dto"
)

var invitationCreator = &invitationFactor{}

type invitationFactor struct{}

func (f *invitationFactor) NewMsg(init didcomm.MsgInit) didcomm.MessageHdr {
	inv := &invitation.Invitation{
		Type:            init.Type,
		ID:              init.AID,
		Label:           init.Label,
		ServiceEndpoint: init.Endpoint.Endp,
		RecipientKeys:   []string{init.Endpoint.Key},
	}
	return NewInvitation(inv)
}

func (f *invitationFactor) NewMessage(data []byte) didcomm.MessageHdr {
	return NewInvitationMsg(data)
}

func init() {
	gob.Register(&InvitationImpl{})
	aries.Creator.Add(pltype.AriesConnectionInvitation, invitationCreator)
	aries.Creator.Add(pltype.DIDOrgAriesConnectionInvitation, invitationCreator)
}

type InvitationImpl struct {
	*invitation.Invitation
}

func NewInvitation(inv *invitation.Invitation) *InvitationImpl {
	impl := &InvitationImpl{Invitation: inv}
	impl.checkThread()
	return impl
}

func NewInvitationMsg(data []byte) *InvitationImpl {
	var inv invitation.Invitation
	dto.FromJSON(data, &inv)
	return NewInvitation(&inv)
}

func (m *InvitationImpl) checkThread() {
	m.Invitation.Thread = decorator.CheckThread(m.Invitation.Thread, m.Invitation.ID)
}

func (m *InvitationImpl) Thread() *decorator.Thread {
	return m.Invitation.Thread
}

func (m *InvitationImpl) Nonce() string {
	return m.Thread().ID
}

func (m *InvitationImpl) ID() string {
	return m.Invitation.ID
}

func (m *InvitationImpl) SetID(id string) {
	m.Invitation.ID = id
}

func (m *InvitationImpl) Type() string {
	return m.Invitation.Type
}

func (m *InvitationImpl) SetType(t string) {
	m.Invitation.Type = t
}

func (m *InvitationImpl) JSON() []byte {
	return dto.ToJSONBytes(m)
}

func (m *InvitationImpl) FieldObj() interface{} {
	return m.Invitation
}

func (m *InvitationImpl) Label() string {
	return m.Invitation.Label
}

func (m *InvitationImpl) VerKey() string {
	if len(m.Invitation.RecipientKeys) == 0 {
		return ""
	}
	return m.Invitation.RecipientKeys[0]
}

func (m *InvitationImpl) Endpoint() service.Addr {
	return service.Addr{
		Endp: m.Invitation.ServiceEndpoint,
		Key:  m.VerKey(),
	}
}

func (m *InvitationImpl) RoutingKeys() []string {
	return m.Invitation.RoutingKeys
}
