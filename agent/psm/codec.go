package psm

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// Version tags every persisted exchange. Exactly one version is recognized;
// payloads carrying any other tag are refused at load time.
const Version = "1.0"

// ErrUnknownVersion is returned by Open when the payload carries a version
// tag this build does not recognize.
var ErrUnknownVersion = errors.New("unknown serialization version")

// Seal marshals obj and tags it with the current serialization version. The
// tag lands beside obj's own top level fields, so the wire form stays flat.
func Seal(obj interface{}) (data []byte, err error) {
	defer err2.Handle(&err, "seal")

	fields := make(map[string]json.RawMessage)
	try.To(json.Unmarshal(try.To1(json.Marshal(obj)), &fields))
	fields["version"] = try.To1(json.Marshal(Version))
	return json.Marshal(fields)
}

// Open unmarshals a sealed payload into obj after checking the version tag.
// Payloads without a tag predate the tagging scheme and load as they are.
func Open(data []byte, obj interface{}) (err error) {
	defer err2.Handle(&err, "open")

	var tag struct {
		Version *string `json:"version"`
	}
	try.To(json.Unmarshal(data, &tag))
	if tag.Version != nil && *tag.Version != Version {
		return ErrUnknownVersion
	}
	return json.Unmarshal(data, obj)
}

// Tag wraps a state payload under its state name: {"Name": {payload}}.
// Stored exchanges keep their full state in this form.
func Tag(name string, payload interface{}) (raw json.RawMessage, err error) {
	defer err2.Handle(&err, "tag state")

	return json.Marshal(map[string]interface{}{name: payload})
}

// Untag unwraps a state tagged with Tag, returning the single tag name
// and the payload under it.
func Untag(raw json.RawMessage) (name string, payload json.RawMessage, err error) {
	defer err2.Handle(&err, "untag state")

	var tagged map[string]json.RawMessage
	try.To(json.Unmarshal(raw, &tagged))
	if len(tagged) != 1 {
		return "", nil, fmt.Errorf("state has %d tags, want one", len(tagged))
	}
	for name, payload = range tagged {
	}
	return name, payload, nil
}
