package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/guildforge/coinbot/internal/domain"
	"github.com/guildforge/coinbot/internal/economy"
	"github.com/guildforge/coinbot/internal/event"
	"github.com/guildforge/coinbot/internal/logger"
	"github.com/guildforge/coinbot/internal/metrics"
)

// StartConfig describes a session to open.
type StartConfig struct {
	OwnerKey string
	OwnerID  string
	GuildID  string
	Wager    int64
	// ReserveWager debits the wager from the owner at start. Games that
	// stake per input (slots spins, roulette bets placed through Quote)
	// leave this false.
	ReserveWager  bool
	Shared        bool
	FixedDeadline bool
	Game          Game
}

// Manager owns the active session registry. One session per owner key;
// stakes are debited when accepted and settlements credited exactly once,
// on terminal input or on timeout, whichever comes first.
type Manager struct {
	ledger economy.Ledger
	bus    event.Bus

	mu       sync.Mutex
	sessions map[string]*Session

	now func() time.Time
}

// NewManager creates a session lifecycle manager
func NewManager(ledger economy.Ledger, bus event.Bus) *Manager {
	return &Manager{
		ledger:   ledger,
		bus:      bus,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Start opens a session for the owner key. The key is registered before the
// wager is debited so a concurrent second start is rejected without side
// effects; the registration is rolled back if the debit fails.
func (m *Manager) Start(ctx context.Context, cfg StartConfig) (*Session, Update, error) {
	log := logger.FromContext(ctx)

	if cfg.Wager <= 0 {
		return nil, Update{}, fmt.Errorf("%w: wager must be positive", domain.ErrInvalidWager)
	}

	s := &Session{
		ID:             uuid.NewString(),
		OwnerKey:       cfg.OwnerKey,
		OwnerID:        cfg.OwnerID,
		GuildID:        cfg.GuildID,
		Kind:           cfg.Game.Kind(),
		Shared:         cfg.Shared,
		FixedDeadline:  cfg.FixedDeadline,
		CreatedAt:      m.now(),
		LastActivityAt: m.now(),
		game:           cfg.Game,
	}

	m.mu.Lock()
	if _, exists := m.sessions[cfg.OwnerKey]; exists {
		m.mu.Unlock()
		return nil, Update{}, domain.ErrSessionConflict
	}
	m.sessions[cfg.OwnerKey] = s
	m.mu.Unlock()

	if cfg.ReserveWager {
		if _, err := m.ledger.AdjustBalance(ctx, cfg.OwnerID, cfg.GuildID, -cfg.Wager); err != nil {
			m.release(cfg.OwnerKey, s.ID)
			return nil, Update{}, err
		}
		s.wagered = cfg.Wager
		metrics.CoinsWagered.WithLabelValues(string(s.Kind)).Add(float64(cfg.Wager))
	} else {
		// Games that stake per input still may not open a session the
		// owner cannot afford.
		balance, err := m.ledger.GetBalance(ctx, cfg.OwnerID, cfg.GuildID)
		if err != nil {
			m.release(cfg.OwnerKey, s.ID)
			return nil, Update{}, err
		}
		if balance < cfg.Wager {
			m.release(cfg.OwnerKey, s.ID)
			return nil, Update{}, fmt.Errorf("%w: balance %d, wager %d",
				domain.ErrInsufficientFunds, balance, cfg.Wager)
		}
	}

	metrics.GamesStarted.WithLabelValues(string(s.Kind)).Inc()
	metrics.ActiveSessions.Inc()

	s.mu.Lock()
	update := s.game.Begin()
	m.applyDeltas(ctx, s, update.Immediate)

	if update.Terminal {
		m.settleLocked(ctx, s, update, false)
		s.mu.Unlock()
		return s, update, nil
	}

	timeout := Timeout(s.Kind)
	s.Deadline = m.now().Add(timeout)
	id := s.ID
	s.timer = time.AfterFunc(timeout, func() { m.expire(cfg.OwnerKey, id) })
	s.mu.Unlock()

	log.Info(LogMsgSessionStarted,
		"session_id", s.ID, "kind", s.Kind, "owner_key", s.OwnerKey, "wager", cfg.Wager)
	m.publish(ctx, event.New(domain.EventGameStarted, domain.GameSettledPayload{
		SessionID: s.ID,
		OwnerKey:  s.OwnerKey,
		GuildID:   s.GuildID,
		Kind:      string(s.Kind),
	}))
	return s, update, nil
}

// Get returns the active session for an owner key.
func (m *Manager) Get(ownerKey string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[ownerKey]
	return s, ok
}

// HandleInput routes one input event to the owner's session. Accepted input
// re-arms the inactivity timer unless the session runs on a fixed deadline.
func (m *Manager) HandleInput(ctx context.Context, ownerKey string, in Input) (*Session, Update, error) {
	m.mu.Lock()
	s, ok := m.sessions[ownerKey]
	m.mu.Unlock()
	if !ok {
		return nil, Update{}, domain.ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.settled {
		return nil, Update{}, domain.ErrSessionNotFound
	}
	if !s.Shared && in.ActorID != s.OwnerID {
		return nil, Update{}, domain.ErrNotOwner
	}

	reserve, err := s.game.Quote(in)
	if err != nil {
		return nil, Update{}, err
	}
	if reserve > 0 {
		if _, err := m.ledger.AdjustBalance(ctx, in.ActorID, s.GuildID, -reserve); err != nil {
			return nil, Update{}, err
		}
		s.wagered += reserve
		metrics.CoinsWagered.WithLabelValues(string(s.Kind)).Add(float64(reserve))
	}

	update := s.game.Advance(in)
	m.applyDeltas(ctx, s, update.Immediate)

	s.LastActivityAt = m.now()
	if !s.FixedDeadline && s.timer != nil {
		timeout := Timeout(s.Kind)
		s.Deadline = m.now().Add(timeout)
		s.timer.Reset(timeout)
	}

	if update.Terminal {
		m.settleLocked(ctx, s, update, false)
	}
	return s, update, nil
}

// expire fires on the session timer. The session id guards against a timer
// racing a settlement that already released and re-registered the key.
func (m *Manager) expire(ownerKey, sessionID string) {
	m.mu.Lock()
	s, ok := m.sessions[ownerKey]
	m.mu.Unlock()
	if !ok || s.ID != sessionID {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settled {
		return
	}

	ctx := logger.WithRequestID(context.Background(), logger.GenerateRequestID())
	update := s.game.ForceResolve()
	m.applyDeltas(ctx, s, update.Immediate)
	m.settleLocked(ctx, s, update, true)
}

// settleLocked applies the terminal settlement exactly once and releases the
// owner key. Callers hold s.mu.
func (m *Manager) settleLocked(ctx context.Context, s *Session, update Update, timedOut bool) {
	if s.settled {
		return
	}
	s.settled = true
	if s.timer != nil {
		s.timer.Stop()
	}

	m.applyDeltas(ctx, s, update.Settlement)
	m.release(s.OwnerKey, s.ID)

	metrics.ActiveSessions.Dec()
	metrics.GamesSettled.WithLabelValues(string(s.Kind)).Inc()
	if timedOut {
		metrics.GameTimeouts.WithLabelValues(string(s.Kind)).Inc()
		logger.FromContext(ctx).Info(LogMsgSessionTimedOut,
			"session_id", s.ID, "kind", s.Kind, "owner_key", s.OwnerKey)
	} else {
		logger.FromContext(ctx).Info(LogMsgSessionSettled,
			"session_id", s.ID, "kind", s.Kind, "owner_key", s.OwnerKey, "net", s.paid-s.wagered)
	}

	evtType := domain.EventGameSettled
	if timedOut {
		evtType = domain.EventGameTimedOut
	}
	m.publish(ctx, event.New(evtType, domain.GameSettledPayload{
		SessionID: s.ID,
		OwnerKey:  s.OwnerKey,
		GuildID:   s.GuildID,
		Kind:      string(s.Kind),
		TimedOut:  timedOut,
		NetDelta:  s.paid - s.wagered,
	}))
	for _, evt := range update.Events {
		m.publish(ctx, evt)
	}
}

// Shutdown force-resolves every open session so reserved stakes are settled
// before the process exits.
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.Lock()
	open := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		open = append(open, s)
	}
	m.mu.Unlock()

	if len(open) > 0 {
		logger.FromContext(ctx).Info(LogMsgShutdownResolving, "count", len(open))
	}
	for _, s := range open {
		s.mu.Lock()
		if !s.settled {
			update := s.game.ForceResolve()
			m.applyDeltas(ctx, s, update.Immediate)
			m.settleLocked(ctx, s, update, true)
		}
		s.mu.Unlock()
	}
}

// SweepStale settles sessions whose deadline passed without the timer firing.
// The timers handle the normal path; this is the scheduler-driven backstop.
func (m *Manager) SweepStale(ctx context.Context) int {
	m.mu.Lock()
	var stale []*Session
	now := m.now()
	for _, s := range m.sessions {
		if now.After(s.Deadline.Add(Timeout(s.Kind))) {
			stale = append(stale, s)
		}
	}
	m.mu.Unlock()

	swept := 0
	for _, s := range stale {
		s.mu.Lock()
		if !s.settled {
			update := s.game.ForceResolve()
			m.applyDeltas(ctx, s, update.Immediate)
			m.settleLocked(ctx, s, update, true)
			swept++
		}
		s.mu.Unlock()
	}
	return swept
}

func (m *Manager) release(ownerKey, sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.sessions[ownerKey]; ok && cur.ID == sessionID {
		delete(m.sessions, ownerKey)
	}
}

func (m *Manager) applyDeltas(ctx context.Context, s *Session, deltas []Delta) {
	for _, d := range deltas {
		if d.Amount == 0 {
			continue
		}
		if _, err := m.ledger.AdjustBalance(ctx, d.UserID, s.GuildID, d.Amount); err != nil {
			logger.FromContext(ctx).Error(LogMsgFailedApplyDelta,
				"session_id", s.ID, "user_id", d.UserID, "amount", d.Amount, "error", err)
			continue
		}
		if d.Amount > 0 {
			s.paid += d.Amount
			metrics.CoinsPaidOut.WithLabelValues(string(s.Kind)).Add(float64(d.Amount))
		}
	}
}

func (m *Manager) publish(ctx context.Context, evt event.Event) {
	if m.bus == nil {
		return
	}
	if err := m.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Error(LogMsgFailedPublishEvent, "type", evt.Type, "error", err)
	}
}
