// Package pltype defines the protocol message type URIs for the Aries
// protocols this agent speaks. Both the legacy did:sov prefix and the
// didcomm.org prefix are listed because counterparties use them
// interchangeably.
package pltype

import "strings"

const (
	Terminate = ""
	Nothing   = ""

	Aries       = "did:sov:BzCbsNYhMrjHiqZDTUASHg;spec" // legacy prefix, the wire default
	DIDOrgAries = "https://didcomm.org"                 // newer prefix, accepted on input
)

// Aries connection protocol
const (
	Invitation              = "invitation"
	HandlerRequest          = "request"
	HandlerResponse         = "response"
	HandlerProblemReport    = "problem_report"
	AriesProtocolConnection = "connections"

	AriesConnection              = Aries + "/" + AriesProtocolConnection
	AriesConnectionInvitation    = AriesConnection + "/1.0/" + Invitation
	AriesConnectionRequest       = AriesConnection + "/1.0/" + HandlerRequest
	AriesConnectionResponse      = AriesConnection + "/1.0/" + HandlerResponse
	AriesConnectionProblemReport = AriesConnection + "/1.0/" + HandlerProblemReport

	DIDOrgAriesConnection              = DIDOrgAries + "/" + AriesProtocolConnection
	DIDOrgAriesConnectionInvitation    = DIDOrgAriesConnection + "/1.0/" + Invitation
	DIDOrgAriesConnectionRequest       = DIDOrgAriesConnection + "/1.0/" + HandlerRequest
	DIDOrgAriesConnectionResponse      = DIDOrgAriesConnection + "/1.0/" + HandlerResponse
	DIDOrgAriesConnectionProblemReport = DIDOrgAriesConnection + "/1.0/" + HandlerProblemReport
)

// Aries notification protocol
const (
	ProtocolNotification = "notification"
	HandlerAck           = "ack"

	Notification    = Aries + "/" + ProtocolNotification
	NotificationAck = Notification + "/1.0/" + HandlerAck

	DIDOrgNotification    = DIDOrgAries + "/" + ProtocolNotification
	DIDOrgNotificationAck = DIDOrgNotification + "/1.0/" + HandlerAck

	ProtocolReportProblem = "report-problem"
	ReportProblem         = Aries + "/" + ProtocolReportProblem
	ProblemReport         = ReportProblem + "/1.0/problem-report"
	DIDOrgProblemReport   = DIDOrgAries + "/" + ProtocolReportProblem + "/1.0/problem-report"
)

// Aries trust ping protocol
const (
	ProtocolTrustPing   = "trust_ping"
	HandlerPing         = "ping"
	HandlerPingResponse = "ping_response"

	TrustPing         = Aries + "/" + ProtocolTrustPing
	TrustPingPing     = TrustPing + "/1.0/" + HandlerPing
	TrustPingResponse = TrustPing + "/1.0/" + HandlerPingResponse

	DIDOrgTrustPing         = DIDOrgAries + "/" + ProtocolTrustPing
	DIDOrgTrustPingPing     = DIDOrgTrustPing + "/1.0/" + HandlerPing
	DIDOrgTrustPingResponse = DIDOrgTrustPing + "/1.0/" + HandlerPingResponse
)

// Aries discover features protocol
const (
	ProtocolDiscovery        = "discover-features"
	HandlerDiscoveryQuery    = "query"
	HandlerDiscoveryDisclose = "disclose"

	Discovery         = Aries + "/" + ProtocolDiscovery
	DiscoveryQuery    = Discovery + "/1.0/" + HandlerDiscoveryQuery
	DiscoveryDisclose = Discovery + "/1.0/" + HandlerDiscoveryDisclose

	DIDOrgDiscovery         = DIDOrgAries + "/" + ProtocolDiscovery
	DIDOrgDiscoveryQuery    = DIDOrgDiscovery + "/1.0/" + HandlerDiscoveryQuery
	DIDOrgDiscoveryDisclose = DIDOrgDiscovery + "/1.0/" + HandlerDiscoveryDisclose
)

// Aries issue credential protocol
const (
	ProtocolIssueCredential       = "issue-credential"
	HandlerIssueCredentialPropose = "propose-credential"
	HandlerIssueCredentialOffer   = "offer-credential"
	HandlerIssueCredentialRequest = "request-credential"
	HandlerIssueCredentialIssue   = "issue-credential"
	HandlerIssueCredentialACK     = "ack"

	IssueCredential              = Aries + "/" + ProtocolIssueCredential
	IssueCredentialPropose       = IssueCredential + "/1.0/" + HandlerIssueCredentialPropose
	IssueCredentialOffer         = IssueCredential + "/1.0/" + HandlerIssueCredentialOffer
	IssueCredentialRequest       = IssueCredential + "/1.0/" + HandlerIssueCredentialRequest
	IssueCredentialIssue         = IssueCredential + "/1.0/" + HandlerIssueCredentialIssue
	IssueCredentialACK           = IssueCredential + "/1.0/" + HandlerIssueCredentialACK
	IssueCredentialProblemReport = IssueCredential + "/1.0/problem-report"
	IssueCredentialPreview       = IssueCredential + "/1.0/credential-preview"

	DIDOrgIssueCredential              = DIDOrgAries + "/" + ProtocolIssueCredential
	DIDOrgIssueCredentialPropose       = DIDOrgIssueCredential + "/1.0/" + HandlerIssueCredentialPropose
	DIDOrgIssueCredentialOffer         = DIDOrgIssueCredential + "/1.0/" + HandlerIssueCredentialOffer
	DIDOrgIssueCredentialRequest       = DIDOrgIssueCredential + "/1.0/" + HandlerIssueCredentialRequest
	DIDOrgIssueCredentialIssue         = DIDOrgIssueCredential + "/1.0/" + HandlerIssueCredentialIssue
	DIDOrgIssueCredentialACK           = DIDOrgIssueCredential + "/1.0/" + HandlerIssueCredentialACK
	DIDOrgIssueCredentialProblemReport = DIDOrgIssueCredential + "/1.0/problem-report"
)

// Aries present proof protocol
const (
	ProtocolPresentProof            = "present-proof"
	HandlerPresentProofPropose      = "propose-presentation"
	HandlerPresentProofRequest      = "request-presentation"
	HandlerPresentProofPresentation = "presentation"
	HandlerPresentProofACK          = "ack"

	PresentProof              = Aries + "/" + ProtocolPresentProof
	PresentProofPropose       = PresentProof + "/1.0/" + HandlerPresentProofPropose
	PresentProofRequest       = PresentProof + "/1.0/" + HandlerPresentProofRequest
	PresentProofPresentation  = PresentProof + "/1.0/" + HandlerPresentProofPresentation
	PresentProofACK           = PresentProof + "/1.0/" + HandlerPresentProofACK
	PresentProofProblemReport = PresentProof + "/1.0/problem-report"
	PresentProofPreview       = PresentProof + "/1.0/presentation-preview"

	DIDOrgPresentProof              = DIDOrgAries + "/" + ProtocolPresentProof
	DIDOrgPresentProofPropose       = DIDOrgPresentProof + "/1.0/" + HandlerPresentProofPropose
	DIDOrgPresentProofRequest       = DIDOrgPresentProof + "/1.0/" + HandlerPresentProofRequest
	DIDOrgPresentProofPresentation  = DIDOrgPresentProof + "/1.0/" + HandlerPresentProofPresentation
	DIDOrgPresentProofACK           = DIDOrgPresentProof + "/1.0/" + HandlerPresentProofACK
	DIDOrgPresentProofProblemReport = DIDOrgPresentProof + "/1.0/problem-report"
)

// Relay (cloud agency) protocol. The relay speaks its own message
// family which never appears on the agent-to-agent wire.
const (
	Agency         = "did:sov:123456789abcdefghi1234;spec"
	AgencyPairwise = Agency + "/pairwise/0.6"

	AgencyCreateKey               = AgencyPairwise + "/CREATE_KEY"
	AgencyKeyCreated              = AgencyPairwise + "/KEY_CREATED"
	AgencyGetMsgs                 = AgencyPairwise + "/GET_MSGS"
	AgencyMsgs                    = AgencyPairwise + "/MSGS"
	AgencyUpdateMsgStatusByConns  = AgencyPairwise + "/UPDATE_MSG_STATUS_BY_CONNS"
	AgencyMsgStatusUpdatedByConns = AgencyPairwise + "/MSG_STATUS_UPDATED_BY_CONNS"
	AgencyUpdateConnStatus        = AgencyPairwise + "/UPDATE_CONN_STATUS"
	AgencyConnStatusUpdated       = AgencyPairwise + "/CONN_STATUS_UPDATED"
)

// Aries basic message protocol
const (
	ProtocolBasicMessage = "basicmessage"
	HandlerMessage       = "message"

	BasicMessage     = Aries + "/" + ProtocolBasicMessage
	BasicMessageSend = BasicMessage + "/1.0/" + HandlerMessage

	DIDOrgBasicMessage     = DIDOrgAries + "/" + ProtocolBasicMessage
	DIDOrgBasicMessageSend = DIDOrgBasicMessage + "/1.0/" + HandlerMessage
)

// Attachment IDs used by the libindy compatible payload attachments.
const (
	LibindyCredOfferID           = "libindy-cred-offer-0"
	LibindyCredRequestID         = "libindy-cred-request-0"
	LibindyCredID                = "libindy-cred-0"
	LibindyRequestPresentationID = "libindy-request-presentation-0"
	LibindyPresentationID        = "libindy-proof-0"
)

// Canonical maps a didcomm.org prefixed type URI to its legacy did:sov
// form, the one the state machines match on. Other URIs pass through.
func Canonical(typeStr string) string {
	if strings.HasPrefix(typeStr, DIDOrgAries+"/") {
		return Aries + strings.TrimPrefix(typeStr, DIDOrgAries)
	}
	return typeStr
}

// ProtocolForType returns the protocol family name of a message type URI,
// e.g. "connections" for the connection request type. Unknown URIs return
// an empty string.
func ProtocolForType(typeStr string) string {
	for _, prefix := range []string{Aries + "/", DIDOrgAries + "/"} {
		if strings.HasPrefix(typeStr, prefix) {
			rest := strings.TrimPrefix(typeStr, prefix)
			if i := strings.IndexByte(rest, '/'); i > 0 {
				return rest[:i]
			}
		}
	}
	return ""
}

// ProtocolMsgForType returns the message name, the last URI path segment.
func ProtocolMsgForType(typeStr string) string {
	if i := strings.LastIndexByte(typeStr, '/'); i >= 0 {
		return typeStr[i+1:]
	}
	return typeStr
}
