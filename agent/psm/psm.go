// Package psm persists protocol exchanges between update rounds. Every
// exchange is keyed by its caller-assigned source id and the protocol
// thread it runs on, and stored in its versioned wire form so that a
// process restart, or another process entirely, can pick the exchange up
// where it was left.
package psm

import (
	"github.com/findy-network/findy-agent-vcx/agent/storage/wrapper"
)

// StateKey is the lookup key of a single protocol exchange: an owner part,
// the source id of the relationship in practice, and the thread ID binding
// the exchange's messages together. Connections leave the thread empty,
// one record per relationship.
type StateKey struct {
	DID    string
	Thread string
}

func NewStateKey(did, thread string) StateKey {
	return StateKey{DID: did, Thread: thread}
}

func (key StateKey) String() string {
	return key.DID + "|" + key.Thread
}

// Data returns the key in its storage form.
func (key StateKey) Data() []byte {
	return []byte(key.String())
}

type bucketName = string

const (
	bucketConnections bucketName = "connections"
	bucketIssuers     bucketName = "issuers"
	bucketProvers     bucketName = "provers"
)

var store *wrapper.StorageProvider

// OpenStore initializes the exchange store. It must be called once before
// any of the rep functions, and CloseStore must be called at teardown.
func OpenStore(key, filename, dirPath string) (err error) {
	s := wrapper.New(wrapper.Config{
		Key:      key,
		FileName: filename,
		FilePath: dirPath,
		BucketIDs: []string{
			bucketConnections,
			bucketIssuers,
			bucketProvers,
		},
	})
	if err = s.Init(); err != nil {
		return err
	}
	store = s
	return nil
}

func CloseStore() (err error) {
	if store == nil {
		return nil
	}
	err = store.Close()
	store = nil
	return err
}
