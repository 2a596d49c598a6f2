// Package vc declares the anoncreds collaborator interfaces of the protocol
// engine. The state machines carry credential and presentation artifacts as
// opaque JSON; building and opening those artifacts is delegated here. Real
// deployments plug in an external anoncreds implementation, the Dev types
// serve tests and the CLI.
package vc

// OfferInfo is what an issuer offers: the credential definition to issue
// from, the attribute values, and the optional revocation configuration.
type OfferInfo struct {
	CredDefID string            `json:"cred_def_id"`
	Values    map[string]string `json:"credential_json"`
	RevRegID  string            `json:"rev_reg_id,omitempty"`
	TailsFile string            `json:"tails_file,omitempty"`
}

// Issuer builds the credential artifacts of the issue-credential protocol.
type Issuer interface {
	// CreateCredentialOffer builds the offer artifact for the credential
	// definition.
	CreateCredentialOffer(credDefID string) (offerJSON string, err error)

	// CreateCredential builds the credential from the offer and request
	// artifacts and the attribute values. When revRegID is set the
	// credential is revocable and its registry index is returned.
	CreateCredential(offerJSON, requestJSON string, values map[string]string,
		revRegID string) (credJSON, credRevID string, err error)

	// RevokeCredential revokes a previously issued credential.
	RevokeCredential(revRegID, credRevID string) error
}

// Prover builds presentation artifacts for the present-proof protocol.
type Prover interface {
	// CreatePresentation builds a presentation answering the proof
	// request with the given credential values.
	CreatePresentation(requestJSON string,
		credentials map[string]string) (presentationJSON string, err error)
}
