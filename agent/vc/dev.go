package vc

import (
	"encoding/json"
	"fmt"

	"github.com/findy-network/findy-agent-vcx/agent/utils"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// DevIssuer is the in-process Issuer. It builds structurally valid
// artifacts without ledger anchored key material, enough to drive the
// protocol and its tests end-to-end.
type DevIssuer struct{}

// attrValue carries one attribute in its issued form.
type attrValue struct {
	Raw     string `json:"raw"`
	Encoded string `json:"encoded"`
}

type devOffer struct {
	CredDefID string          `json:"cred_def_id"`
	SchemaID  string          `json:"schema_id,omitempty"`
	Nonce     string          `json:"nonce"`
	KCP       json.RawMessage `json:"key_correctness_proof"`
}

type devCredential struct {
	CredDefID string               `json:"cred_def_id"`
	SchemaID  string               `json:"schema_id,omitempty"`
	RevRegID  string               `json:"rev_reg_id,omitempty"`
	Values    map[string]attrValue `json:"values"`
	Signature json.RawMessage      `json:"signature"`
	SigProof  json.RawMessage      `json:"signature_correctness_proof"`
}

func (i *DevIssuer) CreateCredentialOffer(credDefID string) (offerJSON string, err error) {
	defer err2.Handle(&err, "create credential offer")

	if credDefID == "" {
		return "", fmt.Errorf("credential offer needs a cred def id")
	}
	data := try.To1(json.Marshal(devOffer{
		CredDefID: credDefID,
		Nonce:     utils.NewNonceStr(),
		KCP:       json.RawMessage("{}"),
	}))
	return string(data), nil
}

func (i *DevIssuer) CreateCredential(
	offerJSON, requestJSON string,
	values map[string]string,
	revRegID string,
) (
	credJSON, credRevID string,
	err error,
) {
	defer err2.Handle(&err, "create credential")

	var offer devOffer
	try.To(json.Unmarshal([]byte(offerJSON), &offer))

	var request map[string]json.RawMessage
	try.To(json.Unmarshal([]byte(requestJSON), &request))

	vals := make(map[string]attrValue, len(values))
	for name, raw := range values {
		vals[name] = attrValue{Raw: raw, Encoded: EncodeValue(raw)}
	}

	cred := devCredential{
		CredDefID: offer.CredDefID,
		SchemaID:  offer.SchemaID,
		RevRegID:  revRegID,
		Values:    vals,
		Signature: json.RawMessage("{}"),
		SigProof:  json.RawMessage("{}"),
	}
	data := try.To1(json.Marshal(cred))

	if revRegID != "" {
		credRevID = "1"
	}
	return string(data), credRevID, nil
}

func (i *DevIssuer) RevokeCredential(revRegID, credRevID string) error {
	glog.V(3).Infoln("dev revoke:", revRegID, credRevID)
	return nil
}

// DevProver is the in-process Prover: it answers every requested
// attribute it has a credential value for and self-attests the rest.
type DevProver struct{}

type devProofRequest struct {
	Name                string                     `json:"name,omitempty"`
	Nonce               string                     `json:"nonce,omitempty"`
	RequestedAttributes map[string]json.RawMessage `json:"requested_attributes"`
}

type devRevealedAttr struct {
	SubProofIndex int    `json:"sub_proof_index"`
	Raw           string `json:"raw"`
	Encoded       string `json:"encoded"`
}

type devPresentation struct {
	Proof          json.RawMessage   `json:"proof"`
	RequestedProof devRequestedProof `json:"requested_proof"`
	Identifiers    []json.RawMessage `json:"identifiers"`
}

type devRequestedProof struct {
	RevealedAttrs     map[string]devRevealedAttr `json:"revealed_attrs"`
	SelfAttestedAttrs map[string]string          `json:"self_attested_attrs"`
}

func (p *DevProver) CreatePresentation(
	requestJSON string,
	credentials map[string]string,
) (
	presentationJSON string,
	err error,
) {
	defer err2.Handle(&err, "create presentation")

	var req devProofRequest
	try.To(json.Unmarshal([]byte(requestJSON), &req))

	proof := devRequestedProof{
		RevealedAttrs:     make(map[string]devRevealedAttr),
		SelfAttestedAttrs: make(map[string]string),
	}
	for referent, rawAttr := range req.RequestedAttributes {
		var attr struct {
			Name string `json:"name"`
		}
		try.To(json.Unmarshal(rawAttr, &attr))

		if raw, ok := credentials[attr.Name]; ok {
			proof.RevealedAttrs[referent] = devRevealedAttr{
				Raw:     raw,
				Encoded: EncodeValue(raw),
			}
		} else {
			proof.SelfAttestedAttrs[referent] = ""
		}
	}

	data := try.To1(json.Marshal(devPresentation{
		Proof:          json.RawMessage("{}"),
		RequestedProof: proof,
		Identifiers:    []json.RawMessage{},
	}))
	return string(data), nil
}
