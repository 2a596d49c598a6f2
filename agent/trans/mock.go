package trans

import (
	"sync"

	"github.com/golang/glog"
)

type mockResult struct {
	data []byte
	err  error
}

// Mock is the test transport. It never touches the network and answers
// Call from three sources, checked in order:
//
//  1. explicitly queued responses and errors,
//  2. when decrypted plaintexts are queued, an empty wire response;
//     the plaintexts are consumed by the unpack step instead,
//  3. the canned response queue, empty data when that too is drained.
type Mock struct {
	mu        sync.Mutex
	responses []mockResult
	decrypted [][]byte
	canned    [][]byte
}

func NewMock() *Mock {
	return &Mock{}
}

// AddResponse queues an explicit wire response.
func (m *Mock) AddResponse(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockResult{data: data})
}

// AddError queues an explicit transport failure.
func (m *Mock) AddError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, mockResult{err: err})
}

// AddDecrypted queues an already decrypted a2a plaintext. While any are
// queued, Call returns empty wire data and the unpack step reads these.
func (m *Mock) AddDecrypted(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decrypted = append(m.decrypted, data)
}

// AddCanned queues a default response used when nothing explicit is
// queued.
func (m *Mock) AddCanned(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.canned = append(m.canned, data)
}

// HasDecrypted tells if decrypted plaintexts are still queued.
func (m *Mock) HasDecrypted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.decrypted) > 0
}

// NextDecrypted pops the next queued plaintext, nil when drained.
func (m *Mock) NextDecrypted() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.decrypted) == 0 {
		return nil
	}
	next := m.decrypted[0]
	m.decrypted = m.decrypted[1:]
	return next
}

func (m *Mock) Call(_ string, _ []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.responses) > 0 {
		next := m.responses[0]
		m.responses = m.responses[1:]
		glog.V(3).Infoln("mock transport: explicit response")
		return next.data, next.err
	}
	if len(m.decrypted) > 0 {
		glog.V(3).Infoln("mock transport: empty wire, plaintexts queued")
		return nil, nil
	}
	if len(m.canned) > 0 {
		next := m.canned[0]
		m.canned = m.canned[1:]
		glog.V(3).Infoln("mock transport: canned response")
		return next, nil
	}
	return nil, nil
}
