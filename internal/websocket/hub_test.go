package websocket

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient is a test double for Client that captures sent messages
type mockClient struct {
	id       string
	userID   uuid.UUID
	messages [][]byte
	mu       sync.Mutex
	closed   bool
}

func newMockClient(id string, userID uuid.UUID) *mockClient {
	return &mockClient{
		id:       id,
		userID:   userID,
		messages: make([][]byte, 0),
	}
}

func (m *mockClient) ID() string {
	return m.id
}

func (m *mockClient) UserID() uuid.UUID {
	return m.userID
}

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClientClosed
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.messages))
	copy(out, m.messages)
	return out
}

func waitForMessages(t *testing.T, client *mockClient, count int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(client.GetMessages()) >= count {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %d messages, got %d", count, len(client.GetMessages()))
}

func TestHub_RegisterAndCount(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	hub.Register(newMockClient("c1", userID))
	hub.Register(newMockClient("c2", userID))
	hub.Register(newMockClient("c3", uuid.New()))

	assert.Equal(t, 2, hub.ClientCount(userID))
	assert.Equal(t, 3, hub.TotalClientCount())
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	client := newMockClient("c1", userID)
	hub.Register(client)
	require.Equal(t, 1, hub.ClientCount(userID))

	hub.Unregister(client)
	assert.Equal(t, 0, hub.ClientCount(userID))
	assert.Equal(t, 0, hub.TotalClientCount())
}

func TestHub_BroadcastToUser(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	mine := newMockClient("mine", userID)
	other := newMockClient("other", uuid.New())
	hub.Register(mine)
	hub.Register(other)

	hub.Broadcast(userID, TransactionCreated(map[string]int{"id": 1}))

	waitForMessages(t, mine, 1)
	assert.Empty(t, other.GetMessages(), "other user's client must not receive the event")
}

func TestHub_BroadcastToAllUserClients(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	c1 := newMockClient("c1", userID)
	c2 := newMockClient("c2", userID)
	hub.Register(c1)
	hub.Register(c2)

	hub.Broadcast(userID, BudgetCreated(map[string]int{"id": 7}))

	waitForMessages(t, c1, 1)
	waitForMessages(t, c2, 1)
}

func TestHub_BroadcastNoClients(t *testing.T) {
	hub := NewHub()

	// Must not panic or block
	hub.Broadcast(uuid.New(), TransactionDeleted(nil))
}

func TestHub_PublishImplementsEventPublisher(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()
	client := newMockClient("c1", userID)
	hub.Register(client)

	var publisher EventPublisher = hub
	publisher.Publish(userID, ProfileUpdated(nil))

	waitForMessages(t, client, 1)
}
