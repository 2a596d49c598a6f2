// Package did has the sov DID document model the connection protocol
// exchanges inside requests and responses.
package did

import (
	"encoding/json"
	"time"

	"github.com/findy-network/findy-agent-vcx/agent/service"
	"github.com/findy-network/findy-agent-vcx/agent/ssi"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

type Doc struct {
	*DataDoc
}

func (d *Doc) MarshalJSON() (_ []byte, err error) {
	defer err2.Handle(&err, "marshal sov doc")

	b := try.To1(json.Marshal(d.DataDoc))
	return b, nil
}

func (d *Doc) UnmarshalJSON(b []byte) (err error) {
	defer err2.Handle(&err, "unmarshal sov doc")

	data := new(DataDoc)
	try.To(json.Unmarshal(b, data))
	d.DataDoc = data
	return nil
}

// DataDoc DID Document definition
type DataDoc struct {
	Context        string               `json:"@context,omitempty"`
	ID             string               `json:"id,omitempty"`
	PublicKey      []PublicKey          `json:"publicKey,omitempty"`
	Service        []Service            `json:"service,omitempty"`
	Authentication []VerificationMethod `json:"authentication,omitempty"`
	Created        *time.Time           `json:"created,omitempty"`
	Updated        *time.Time           `json:"updated,omitempty"`
}

// PublicKey DID doc public key
type PublicKey struct {
	ID              string `json:"id,omitempty"`
	Type            string `json:"type,omitempty"`
	Controller      string `json:"controller,omitempty"`
	PublicKeyBase58 string `json:"publicKeyBase58,omitempty"`
}

// Service DID doc service
type Service struct {
	ID              string                 `json:"id,omitempty"`
	Type            string                 `json:"type,omitempty"`
	Priority        uint                   `json:"priority,omitempty"`
	RecipientKeys   []string               `json:"recipientKeys,omitempty"`
	RoutingKeys     []string               `json:"routingKeys,omitempty"`
	ServiceEndpoint string                 `json:"serviceEndpoint"`
	Properties      map[string]interface{} `json:"properties,omitempty"`
}

// VerificationMethod authentication verification method
type VerificationMethod struct {
	Type      string `json:"type,omitempty"`
	PublicKey string `json:"publicKey,omitempty"`
}

// NewDoc builds a DID doc for our side of a pairwise: one key, one
// IndyAgent service pointing to the cloud agent's endpoint with its
// routing keys.
func NewDoc(did *ssi.DID, ae service.Addr, routingKeys []string) *Doc {
	didURI := did.URI()
	didURIRef := didURI + "#1"
	pubK := PublicKey{
		ID:              didURIRef,
		Type:            "Ed25519VerificationKey2018",
		Controller:      didURI,
		PublicKeyBase58: did.VerKey(),
	}
	service := Service{
		ID:              didURI,
		Type:            "IndyAgent",
		Priority:        0,
		RecipientKeys:   []string{did.VerKey()},
		RoutingKeys:     routingKeys,
		ServiceEndpoint: ae.Endp,
	}
	return &Doc{DataDoc: &DataDoc{
		Context:   "https://w3id.org/did/v1",
		ID:        didURI,
		PublicKey: []PublicKey{pubK},
		Service:   []Service{service},
		Authentication: []VerificationMethod{{
			Type:      "Ed25519SignatureAuthentication2018",
			PublicKey: didURIRef,
		}},
	}}
}

// NewDocFromEndpoint builds a DID doc for the other side of a pairwise
// from invitation data.
func NewDocFromEndpoint(id string, recipientKeys, routingKeys []string, endpoint string) *Doc {
	return &Doc{DataDoc: &DataDoc{
		Context: "https://w3id.org/did/v1",
		ID:      id,
		Service: []Service{{
			ID:              id,
			Type:            "IndyAgent",
			RecipientKeys:   recipientKeys,
			RoutingKeys:     routingKeys,
			ServiceEndpoint: endpoint,
		}},
	}}
}

// RecipientKeys returns the service recipient keys. The first one is
// the pairwise verkey messages are authcrypted to.
func (d *Doc) RecipientKeys() []string {
	if d == nil || d.DataDoc == nil || len(d.DataDoc.Service) == 0 {
		return nil
	}
	return d.DataDoc.Service[0].RecipientKeys
}

// RoutingKeys returns the service routing keys, outermost first.
func (d *Doc) RoutingKeys() []string {
	if d == nil || d.DataDoc == nil || len(d.DataDoc.Service) == 0 {
		return nil
	}
	return d.DataDoc.Service[0].RoutingKeys
}

// Endpoint returns the service endpoint URL, empty when the doc carries
// no service block.
func (d *Doc) Endpoint() string {
	if d == nil || d.DataDoc == nil || len(d.DataDoc.Service) == 0 {
		return ""
	}
	return d.DataDoc.Service[0].ServiceEndpoint
}

// AEndp returns the doc's service as an endpoint address.
func (d *Doc) AEndp() service.Addr {
	keys := d.RecipientKeys()
	key := ""
	if len(keys) > 0 {
		key = keys[0]
	}
	return service.Addr{Endp: d.Endpoint(), Key: key}
}
