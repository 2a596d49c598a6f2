package didexchange

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/findy-network/findy-agent-vcx/agent/sec"
	"github.com/findy-network/findy-agent-vcx/agent/utils"
	"github.com/findy-network/findy-common-go/dto"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

const signatureType = "did:sov:BzCbsNYhMrjHiqZDTUASHg;spec/signature/1.0/ed25519Sha512_single"

// newConnectionSignature signs the connection with our pairwise key. The
// signed data is the connection JSON stamped with the signing epoch time as
// its first 8 bytes in big endian order.
func newConnectionSignature(pipe sec.Pipe, connection *Connection) (cs *ConnectionSignature, err error) {
	defer err2.Handle(&err, "build connection sign")

	connectionJSON := try.To1(json.Marshal(connection))

	signedData, signature, verKey := try.To3(pipe.SignAndStamp(connectionJSON))

	return &ConnectionSignature{
		Type:       signatureType,
		SignedData: base64.URLEncoding.EncodeToString(signedData),
		SignVerKey: verKey,
		Signature:  base64.URLEncoding.EncodeToString(signature),
	}, nil
}

// connectionFromSignedData parses the connection carried inside the
// signature. Note that this only extracts the payload, verification of the
// signature is a separate step.
func connectionFromSignedData(cs *ConnectionSignature) (c *Connection, err error) {
	defer err2.Handle(&err, "connection from signature")

	data := try.To1(utils.DecodeB64(cs.SignedData))
	if len(data) == 0 {
		s := "missing or invalid signature data"
		glog.Error(s)
		return nil, fmt.Errorf(s)
	}
	connectionJSON := data[8:]

	var connection Connection
	dto.FromJSON(connectionJSON, &connection)

	if connection.DIDDoc != nil {
		connection.DID = strings.TrimPrefix(connection.DIDDoc.ID, "did:sov:")
	}
	return &connection, nil
}

// verifySignedData verifies the connection signature against the expected
// signer in pipe.Out. Embedded signer keys are not trusted, the expected key
// always wins.
func verifySignedData(pipe sec.Pipe, cs *ConnectionSignature) (err error) {
	defer err2.Handle(&err, "verify sign")

	if cs.SignVerKey != pipe.Out.VerKey() {
		glog.Warningln("signature signer differs from expected:",
			cs.SignVerKey, "!=", pipe.Out.VerKey())
	}

	data := try.To1(utils.DecodeB64(cs.SignedData))
	if len(data) == 0 {
		s := "missing or invalid signature data"
		glog.Error(s)
		return fmt.Errorf(s)
	}
	signature := try.To1(utils.DecodeB64(cs.Signature))

	try.To2(pipe.Verify(data, signature))

	timestamp, ok := verifyTimestamp(data)
	if !ok {
		// don't treat a bad timestamp as an error for now, some agents do
		// not fill it at all
		glog.Warningln("connection signature timestamp is invalid: ",
			timestamp, time.Unix(timestamp, 0))
	} else {
		glog.V(3).Info("verified connection signature w/ ts:", time.Unix(timestamp, 0))
	}
	return nil
}

func verifyTimestamp(data []byte) (timestamp int64, valid bool) {
	const connectionSigExpTime = 10 * 60 * 60

	now := time.Now().Unix()
	tsIsValid := func(ts int64) bool {
		diff := now - ts
		return diff >= 0 && diff <= connectionSigExpTime
	}

	// preferred is big endian
	timestamp = int64(binary.BigEndian.Uint64(data))
	if tsIsValid(timestamp) {
		return timestamp, true
	}

	glog.Warningf("big endian encoded signature timestamp %s is invalid, try little endian", time.Unix(timestamp, 0))

	// accept also meaningful values found in little endian encoding
	timestamp = int64(binary.LittleEndian.Uint64(data))
	return timestamp, tsIsValid(timestamp)
}
