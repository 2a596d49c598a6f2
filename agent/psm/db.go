package psm

import (
	"errors"

	"github.com/findy-network/findy-agent-vcx/agent/storage/api"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// ErrNotOpen is returned when a rep function is called before OpenStore.
var ErrNotOpen = errors.New("exchange store is not open")

func bucket(name bucketName) (s api.Store, err error) {
	if store == nil {
		return nil, ErrNotOpen
	}
	return store.OpenBucket(name)
}

func addRep(name bucketName, key StateKey, sealed []byte) (err error) {
	defer err2.Handle(&err, "add rep")

	b := try.To1(bucket(name))
	return b.Put(key.String(), sealed)
}

func getRep(name bucketName, key StateKey) (sealed []byte, err error) {
	defer err2.Handle(&err, "get rep "+key.String())

	b := try.To1(bucket(name))
	return b.Get(key.String())
}

func rmRep(name bucketName, key StateKey) (err error) {
	defer err2.Handle(&err, "rm rep")

	b := try.To1(bucket(name))
	return b.Delete(key.String())
}

func allReps(name bucketName) (sealed [][]byte, err error) {
	defer err2.Handle(&err, "all reps")

	b := try.To1(bucket(name))
	res := make([][]byte, 0)
	try.To1(b.GetAll(func(d []byte) []byte {
		c := make([]byte, len(d))
		copy(c, d)
		res = append(res, c)
		return d
	}))
	return res, nil
}

// AddConnectionRep stores the sealed wire form of a connection exchange.
func AddConnectionRep(key StateKey, sealed []byte) error {
	return addRep(bucketConnections, key, sealed)
}

func GetConnectionRep(key StateKey) ([]byte, error) {
	return getRep(bucketConnections, key)
}

func RmConnectionRep(key StateKey) error {
	return rmRep(bucketConnections, key)
}

// AllConnectionReps returns the sealed wire form of every stored connection
// exchange. The update service scans these on its tick.
func AllConnectionReps() ([][]byte, error) {
	return allReps(bucketConnections)
}

// AddIssuerRep stores the sealed wire form of a credential issuance.
func AddIssuerRep(key StateKey, sealed []byte) error {
	return addRep(bucketIssuers, key, sealed)
}

func GetIssuerRep(key StateKey) ([]byte, error) {
	return getRep(bucketIssuers, key)
}

func RmIssuerRep(key StateKey) error {
	return rmRep(bucketIssuers, key)
}

func AllIssuerReps() ([][]byte, error) {
	return allReps(bucketIssuers)
}

// AddProverRep stores the sealed wire form of a proof presentation.
func AddProverRep(key StateKey, sealed []byte) error {
	return addRep(bucketProvers, key, sealed)
}

func GetProverRep(key StateKey) ([]byte, error) {
	return getRep(bucketProvers, key)
}

func RmProverRep(key StateKey) error {
	return rmRep(bucketProvers, key)
}

func AllProverReps() ([][]byte, error) {
	return allReps(bucketProvers)
}
