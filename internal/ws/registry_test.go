package ws

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeConn struct {
	mu       sync.Mutex
	closed   bool
	failSend bool
	sent     [][]byte
}

func (f *fakeConn) Send(payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrConnClosed
	}
	if f.failSend {
		return assert.AnError
	}
	f.sent = append(f.sent, payload)
	return nil
}

func (f *fakeConn) Open() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.closed
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	registry := NewRegistry()
	c1 := &fakeConn{}
	c2 := &fakeConn{}

	registry.Register(42, c1)
	registry.Register(42, c2)

	assert.Len(t, registry.ConnectionsFor(42), 2)
	assert.Empty(t, registry.ConnectionsFor(7))
}

func TestRegistryUnregisterRemovesEmptyEntry(t *testing.T) {
	registry := NewRegistry()
	c1 := &fakeConn{}
	c2 := &fakeConn{}
	registry.Register(42, c1)
	registry.Register(42, c2)

	registry.Unregister(c1)
	assert.Len(t, registry.ConnectionsFor(42), 1)

	registry.Unregister(c2)
	assert.Empty(t, registry.ConnectionsFor(42))
	assert.Empty(t, registry.Identities())
}

func TestRegistryUnregisterUnknownConnIsNoop(t *testing.T) {
	registry := NewRegistry()
	registry.Register(1, &fakeConn{})

	registry.Unregister(&fakeConn{})
	assert.Len(t, registry.ConnectionsFor(1), 1)
}

func TestRegistryIdentities(t *testing.T) {
	registry := NewRegistry()
	registry.Register(1, &fakeConn{})
	registry.Register(2, &fakeConn{})
	registry.Register(2, &fakeConn{})

	assert.ElementsMatch(t, []int{1, 2}, registry.Identities())
}

func TestRegistryConcurrentAccess(t *testing.T) {
	registry := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()
			conn := &fakeConn{}
			registry.Register(userID%5, conn)
			registry.ConnectionsFor(userID % 5)
			registry.Unregister(conn)
		}(i)
	}
	wg.Wait()

	assert.Empty(t, registry.Identities())
}
