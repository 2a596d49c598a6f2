// Package api declares the storage interfaces of the agent. The concrete
// implementation is in the wrapper package; the exchange registries in the
// psm package are built on these.
package api

import (
	"github.com/findy-network/findy-common-go/crypto/db"
	"github.com/hyperledger/aries-framework-go/spi/storage"
)

type AgentStorageConfig struct {
	AgentKey string
	AgentID  string
	FilePath string
}

// Store extends the framework store with bucket wide scans which the
// exchange registries need for update ticks.
type Store interface {
	storage.Store

	GetAll(transform db.Filter) ([][]byte, error)
}

// AgentStorage is the persistent storage of one agent process. It is a
// framework storage provider whose stores are cipher protected buckets.
type AgentStorage interface {
	storage.Provider

	Init() error
}
