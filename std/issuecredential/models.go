/*
Package issuecredential implements the Aries issue credential protocol
messages. The structs started from aries-framework-go and are modified
for this agent: thread decorators everywhere, IDs, and the libindy
compatible payload attachments.
*/
package issuecredential

import "github.com/findy-network/findy-agent-vcx/std/decorator"

// Propose is an optional message sent by the potential Holder to the
// Issuer to initiate the protocol, or in response to an offer when the
// Holder wants adjustments to the offered credential data.
type Propose struct {
	ID      string `json:"@id,omitempty"`
	Type    string `json:"@type,omitempty"`
	Comment string `json:"comment,omitempty"`
	// CredentialProposal is the credential data the Holder wants.
	CredentialProposal PreviewCredential `json:"credential_proposal,omitempty"`
	SchemaIssuerDid    string            `json:"schema_issuer_did,omitempty"`
	SchemaID           string            `json:"schema_id,omitempty"`
	SchemaName         string            `json:"schema_name,omitempty"`
	SchemaVersion      string            `json:"schema_version,omitempty"`
	CredDefID          string            `json:"cred_def_id,omitempty"`
	IssuerDid          string            `json:"issuer_did,omitempty"`

	Thread *decorator.Thread `json:"~thread,omitempty"`
}

// Offer is sent by the Issuer to the potential Holder, describing the
// credential they intend to offer.
type Offer struct {
	ID      string `json:"@id,omitempty"`
	Type    string `json:"@type,omitempty"`
	Comment string `json:"comment,omitempty"`
	// CredentialPreview is the credential data the Issuer is willing
	// to issue.
	CredentialPreview PreviewCredential `json:"credential_preview,omitempty"`
	// OffersAttach carries the libindy credential offer.
	OffersAttach []decorator.Attachment `json:"offers~attach,omitempty"`

	Thread *decorator.Thread `json:"~thread,omitempty"`
}

// Request is sent by the potential Holder to the Issuer to request the
// issuance of a credential.
type Request struct {
	ID      string `json:"@id,omitempty"`
	Type    string `json:"@type,omitempty"`
	Comment string `json:"comment,omitempty"`
	// RequestsAttach carries the libindy credential request.
	RequestsAttach []decorator.Attachment `json:"requests~attach,omitempty"`

	Thread *decorator.Thread `json:"~thread,omitempty"`
}

// Issue carries the issued credential as an attached payload and is
// sent in response to a valid Request message.
type Issue struct {
	ID      string `json:"@id,omitempty"`
	Type    string `json:"@type,omitempty"`
	Comment string `json:"comment,omitempty"`
	// CredentialsAttach carries the issued libindy credential.
	CredentialsAttach []decorator.Attachment `json:"credentials~attach,omitempty"`

	PleaseAck *decorator.PleaseAck `json:"~please_ack,omitempty"`
	Thread    *decorator.Thread    `json:"~thread,omitempty"`
}

// PreviewCredential previews the data of the credential to be issued.
type PreviewCredential struct {
	Type       string      `json:"@type,omitempty"`
	Attributes []Attribute `json:"attributes,omitempty"`
}

// Attribute describes one attribute of a PreviewCredential.
type Attribute struct {
	Name     string `json:"name,omitempty"`
	MimeType string `json:"mime-type,omitempty"`
	Value    string `json:"value,omitempty"`
}
