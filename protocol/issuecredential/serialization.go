package issuecredential

import (
	"encoding/json"
	"fmt"

	"github.com/findy-network/findy-agent-vcx/agent/psm"
	"github.com/findy-network/findy-agent-vcx/agent/vc"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// wireIssuer is the stored layout: the full state under its state name
// tag plus the exchange identity. A failed exchange still stores under
// the Finished tag, the payload tells the two apart.
type wireIssuer struct {
	State    json.RawMessage `json:"state"`
	SourceID string          `json:"source_id"`
	ThreadID string          `json:"thread_id,omitempty"`
}

func fullStateName(st issuerState) string {
	if _, ok := st.(issuerFinished); ok {
		return StateFinished.String()
	}
	return st.state().String()
}

// Serialize renders the issuer into its versioned stored form.
func (i *Issuer) Serialize() (data []byte, err error) {
	defer err2.Handle(&err, "serialize issuer %s", i.sourceID)

	return psm.Seal(wireIssuer{
		State:    try.To1(psm.Tag(fullStateName(i.st), i.st)),
		SourceID: i.sourceID,
		ThreadID: i.threadID,
	})
}

// DeserializeIssuer parses a stored issuer back to a live one. The
// anoncreds collaborator is not stored, it comes from the caller.
func DeserializeIssuer(data []byte, anoncreds vc.Issuer) (i *Issuer, err error) {
	defer err2.Handle(&err, "deserialize issuer")

	var wire wireIssuer
	try.To(psm.Open(data, &wire))

	name, payload := try.To2(psm.Untag(wire.State))
	var st issuerState
	switch name {
	case StateInitial.String():
		var s issuerInitial
		try.To(json.Unmarshal(payload, &s))
		st = s
	case StateOfferSent.String():
		var s issuerOfferSent
		try.To(json.Unmarshal(payload, &s))
		st = s
	case StateRequestReceived.String():
		var s issuerRequestReceived
		try.To(json.Unmarshal(payload, &s))
		st = s
	case StateCredentialSent.String():
		var s issuerCredentialSent
		try.To(json.Unmarshal(payload, &s))
		st = s
	case StateFinished.String():
		var s issuerFinished
		try.To(json.Unmarshal(payload, &s))
		st = s
	default:
		return nil, fmt.Errorf("unknown issuer state %q", name)
	}

	return &Issuer{
		sourceID:  wire.SourceID,
		threadID:  wire.ThreadID,
		st:        st,
		anoncreds: anoncreds,
	}, nil
}

// StoreKey is the key the issuance is persisted under. The source id
// stands in for the pairwise DID: one issuer serves one relationship.
func (i *Issuer) StoreKey() psm.StateKey {
	return psm.NewStateKey(i.sourceID, i.threadID)
}

// Save persists the issuance.
func (i *Issuer) Save() (err error) {
	defer err2.Handle(&err, "save issuer %s", i.sourceID)

	data := try.To1(i.Serialize())
	return psm.AddIssuerRep(i.StoreKey(), data)
}

// Remove deletes the stored issuance.
func (i *Issuer) Remove() error {
	return psm.RmIssuerRep(i.StoreKey())
}

// LoadIssuer reads one stored issuance back to a live one.
func LoadIssuer(key psm.StateKey, anoncreds vc.Issuer) (i *Issuer, err error) {
	defer err2.Handle(&err, "load issuer")

	data := try.To1(psm.GetIssuerRep(key))
	return DeserializeIssuer(data, anoncreds)
}

// LoadAllIssuers reads every stored issuance back. Records that do not
// parse are skipped with a warning so one bad record cannot hide the
// rest.
func LoadAllIssuers(anoncreds vc.Issuer) (is []*Issuer, err error) {
	defer err2.Handle(&err, "load issuers")

	reps := try.To1(psm.AllIssuerReps())
	is = make([]*Issuer, 0, len(reps))
	for _, data := range reps {
		i, parseErr := DeserializeIssuer(data, anoncreds)
		if parseErr != nil {
			glog.Warningln("skipping stored issuance:", parseErr)
			continue
		}
		is = append(is, i)
	}
	return is, nil
}
