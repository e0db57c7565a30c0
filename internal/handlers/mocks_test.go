package handlers_test

import (
	"context"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/slip"
	"github.com/XavierBriggs/fortuna/services/prop-builder/internal/store"
	"github.com/XavierBriggs/fortuna/services/prop-builder/pkg/models"
)

// MockSlipStore implements store.SlipStore in memory.
// updateDelay widens the window between reading and writing inside Update.
type MockSlipStore struct {
	mu          sync.Mutex
	slips       map[string]slip.Slip
	shouldError bool
	updateDelay time.Duration
}

func NewMockSlipStore() *MockSlipStore {
	return &MockSlipStore{slips: make(map[string]slip.Slip)}
}

func (m *MockSlipStore) Load(ctx context.Context, slipID string) (*slip.Slip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shouldError {
		return nil, context.DeadlineExceeded
	}
	s, ok := m.slips[slipID]
	if !ok {
		return nil, store.ErrNotFound
	}
	s.Picks = append([]models.Selection{}, s.Picks...)
	return &s, nil
}

func (m *MockSlipStore) Save(ctx context.Context, s *slip.Slip) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shouldError {
		return context.DeadlineExceeded
	}
	stored := *s
	stored.Picks = append([]models.Selection{}, s.Picks...)
	m.slips[s.ID] = stored
	return nil
}

func (m *MockSlipStore) Delete(ctx context.Context, slipID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shouldError {
		return context.DeadlineExceeded
	}
	if _, ok := m.slips[slipID]; !ok {
		return store.ErrNotFound
	}
	delete(m.slips, slipID)
	return nil
}

func (m *MockSlipStore) Update(ctx context.Context, slipID string, fn func(s *slip.Slip) error) (*slip.Slip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shouldError {
		return nil, context.DeadlineExceeded
	}
	stored, ok := m.slips[slipID]
	if !ok {
		return nil, store.ErrNotFound
	}
	s := stored
	s.Picks = append([]models.Selection{}, stored.Picks...)

	time.Sleep(m.updateDelay)
	if err := fn(&s); err != nil {
		return nil, err
	}

	saved := s
	saved.Picks = append([]models.Selection{}, s.Picks...)
	m.slips[slipID] = saved
	return &s, nil
}

// MockWatchlist implements store.WatchlistStore in memory
type MockWatchlist struct {
	props       map[string][]models.Prop
	shouldError bool
}

func NewMockWatchlist() *MockWatchlist {
	return &MockWatchlist{props: make(map[string][]models.Prop)}
}

func (m *MockWatchlist) LoadProps(ctx context.Context, userKey string) ([]models.Prop, error) {
	if m.shouldError {
		return nil, context.DeadlineExceeded
	}
	if p, ok := m.props[userKey]; ok {
		return p, nil
	}
	return []models.Prop{}, nil
}

func (m *MockWatchlist) ReplaceProps(ctx context.Context, userKey string, props []models.Prop) error {
	if m.shouldError {
		return context.DeadlineExceeded
	}
	m.props[userKey] = props
	return nil
}

func (m *MockWatchlist) Ping(ctx context.Context) error {
	if m.shouldError {
		return context.DeadlineExceeded
	}
	return nil
}

func (m *MockWatchlist) Close() error {
	return nil
}

// MockBroadcaster records slip updates
type MockBroadcaster struct {
	mu      sync.Mutex
	updates []models.SlipUpdate
}

func (m *MockBroadcaster) Broadcast(update models.SlipUpdate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, update)
}

// MockPublisher records published events
type MockPublisher struct {
	mu          sync.Mutex
	events      []models.SlipEvent
	shouldError bool
}

func (m *MockPublisher) Publish(ctx context.Context, event models.SlipEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shouldError {
		return context.DeadlineExceeded
	}
	m.events = append(m.events, event)
	return nil
}
