package presentproof

import (
	"encoding/json"
	"fmt"

	"github.com/findy-network/findy-agent-vcx/agent/psm"
	"github.com/findy-network/findy-agent-vcx/agent/vc"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// wireProver is the stored layout: the full state under its state name
// tag plus the exchange identity. A failed exchange still stores under
// the Finished tag, the payload tells the two apart.
type wireProver struct {
	State    json.RawMessage `json:"state"`
	SourceID string          `json:"source_id"`
	ThreadID string          `json:"thread_id,omitempty"`
}

func fullStateName(st proverState) string {
	if _, ok := st.(proverFinished); ok {
		return StateFinished.String()
	}
	return st.state().String()
}

// Serialize renders the prover into its versioned stored form.
func (p *Prover) Serialize() (data []byte, err error) {
	defer err2.Handle(&err, "serialize prover %s", p.sourceID)

	return psm.Seal(wireProver{
		State:    try.To1(psm.Tag(fullStateName(p.st), p.st)),
		SourceID: p.sourceID,
		ThreadID: p.threadID,
	})
}

// DeserializeProver parses a stored prover back to a live one. The
// anoncreds collaborator is not stored, it comes from the caller.
func DeserializeProver(data []byte, anoncreds vc.Prover) (p *Prover, err error) {
	defer err2.Handle(&err, "deserialize prover")

	var wire wireProver
	try.To(psm.Open(data, &wire))

	name, payload := try.To2(psm.Untag(wire.State))
	var st proverState
	switch name {
	case StateInitial.String():
		var s proverInitial
		try.To(json.Unmarshal(payload, &s))
		st = s
	case StatePresentationPrepared.String():
		var s proverPrepared
		try.To(json.Unmarshal(payload, &s))
		st = s
	case StatePresentationPreparationFailed.String():
		var s proverPreparationFailed
		try.To(json.Unmarshal(payload, &s))
		st = s
	case StatePresentationSent.String():
		var s proverSent
		try.To(json.Unmarshal(payload, &s))
		st = s
	case StateFinished.String():
		var s proverFinished
		try.To(json.Unmarshal(payload, &s))
		st = s
	default:
		return nil, fmt.Errorf("unknown prover state %q", name)
	}

	return &Prover{
		sourceID:  wire.SourceID,
		threadID:  wire.ThreadID,
		st:        st,
		anoncreds: anoncreds,
	}, nil
}

// StoreKey is the key the presentation is persisted under. The source id
// stands in for the pairwise DID: one prover serves one relationship.
func (p *Prover) StoreKey() psm.StateKey {
	return psm.NewStateKey(p.sourceID, p.threadID)
}

// Save persists the presentation exchange.
func (p *Prover) Save() (err error) {
	defer err2.Handle(&err, "save prover %s", p.sourceID)

	data := try.To1(p.Serialize())
	return psm.AddProverRep(p.StoreKey(), data)
}

// Remove deletes the stored presentation exchange.
func (p *Prover) Remove() error {
	return psm.RmProverRep(p.StoreKey())
}

// LoadProver reads one stored presentation exchange back to a live one.
func LoadProver(key psm.StateKey, anoncreds vc.Prover) (p *Prover, err error) {
	defer err2.Handle(&err, "load prover")

	data := try.To1(psm.GetProverRep(key))
	return DeserializeProver(data, anoncreds)
}

// LoadAllProvers reads every stored presentation exchange back. Records
// that do not parse are skipped with a warning so one bad record cannot
// hide the rest.
func LoadAllProvers(anoncreds vc.Prover) (ps []*Prover, err error) {
	defer err2.Handle(&err, "load provers")

	reps := try.To1(psm.AllProverReps())
	ps = make([]*Prover, 0, len(reps))
	for _, data := range reps {
		p, parseErr := DeserializeProver(data, anoncreds)
		if parseErr != nil {
			glog.Warningln("skipping stored presentation:", parseErr)
			continue
		}
		ps = append(ps, p)
	}
	return ps, nil
}
