package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/molkiya/shooting-range/internal/engine"
	"github.com/molkiya/shooting-range/internal/models"
	"github.com/molkiya/shooting-range/internal/storage"
	"github.com/molkiya/shooting-range/pkg/logger"
)

// Errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrPlayerRequired  = errors.New("player id is required")
	ErrNotOwner        = errors.New("session belongs to another player")
	ErrInvalidLevel    = errors.New("invalid level")
	ErrInvalidWeapon   = errors.New("invalid weapon")
)

// Options configures a GameService.
type Options struct {
	Store      storage.Store
	Rules      engine.Rules
	Scheduler  engine.Scheduler
	SessionTTL time.Duration
	Logger     *logger.Logger

	// EventBuffer is the per-subscriber channel size.
	EventBuffer int
}

// GameService owns the live sessions of this process and binds each one to
// the player that created it.
type GameService struct {
	mu       sync.RWMutex
	sessions map[string]*liveSession

	store  storage.Store
	rules  engine.Rules
	sched  engine.Scheduler
	ttl    time.Duration
	buffer int
	logger *logger.Logger
}

type liveSession struct {
	ctrl     *engine.Controller
	player   models.Player
	hub      *hub
	lastSeen time.Time
}

// NewGameService creates a new game service
func NewGameService(opts Options) *GameService {
	s := &GameService{
		sessions: make(map[string]*liveSession),
		store:    opts.Store,
		rules:    opts.Rules,
		sched:    opts.Scheduler,
		ttl:      opts.SessionTTL,
		buffer:   opts.EventBuffer,
		logger:   opts.Logger,
	}
	if s.store == nil {
		s.store = storage.NewMemoryStorage()
	}
	if s.rules == (engine.Rules{}) {
		s.rules = engine.DefaultRules()
	}
	if s.sched == nil {
		s.sched = engine.WallClock()
	}
	if s.ttl <= 0 {
		s.ttl = 10 * time.Minute
	}
	if s.buffer <= 0 {
		s.buffer = 64
	}
	if s.logger == nil {
		s.logger = logger.Discard()
	}
	return s
}

// CreateSession opens a new session in setup for the player
func (s *GameService) CreateSession(ctx context.Context, player models.Player, req models.CreateSessionRequest) (*engine.Controller, error) {
	if player.ID == "" {
		return nil, ErrPlayerRequired
	}
	if player.DisplayName == "" {
		player.DisplayName = player.ID
	}

	level := engine.LevelEasy
	if req.Level != "" {
		parsed, ok := engine.ParseLevel(req.Level)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidLevel, req.Level)
		}
		level = parsed
	}
	if req.Weapon != nil && (*req.Weapon < 0 || *req.Weapon >= len(engine.Weapons)) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWeapon, *req.Weapon)
	}

	h := newHub(s.buffer)
	ctrl, err := engine.NewController(engine.Options{
		Rules:     s.rules,
		Scheduler: s.sched,
		Player:    engine.StaticPlayer(player),
		Recorder:  s.store,
		Logger:    s.logger,
		OnEvent:   h.publish,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	ctrl.SelectLevel(level)
	if req.Weapon != nil {
		ctrl.SelectWeapon(*req.Weapon)
	}

	s.mu.Lock()
	s.sessions[ctrl.ID()] = &liveSession{
		ctrl:     ctrl,
		player:   player,
		hub:      h,
		lastSeen: s.sched.Now(),
	}
	s.mu.Unlock()

	s.logger.Info("Session created",
		logger.F("session_id", ctrl.ID()),
		logger.F("player_id", player.ID),
		logger.F("level", string(level)))
	return ctrl, nil
}

// Get returns the player's live session and marks it as recently used
func (s *GameService) Get(sessionID, playerID string) (*engine.Controller, error) {
	live, err := s.lookup(sessionID, playerID)
	if err != nil {
		return nil, err
	}
	return live.ctrl, nil
}

func (s *GameService) lookup(sessionID, playerID string) (*liveSession, error) {
	if playerID == "" {
		return nil, ErrPlayerRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	live, exists := s.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	if live.player.ID != playerID {
		return nil, ErrNotOwner
	}
	live.lastSeen = s.sched.Now()
	return live, nil
}

// Save records a finished session and releases it
func (s *GameService) Save(ctx context.Context, sessionID, playerID string) (models.CompletedSession, bool, error) {
	ctrl, err := s.Get(sessionID, playerID)
	if err != nil {
		return models.CompletedSession{}, false, err
	}

	record, saved, err := ctrl.Save(ctx)
	if saved {
		s.remove(sessionID)
	}
	if err != nil {
		return record, saved, fmt.Errorf("failed to save session: %w", err)
	}
	return record, saved, nil
}

// CloseSession abandons a session without recording it
func (s *GameService) CloseSession(sessionID, playerID string) error {
	ctrl, err := s.Get(sessionID, playerID)
	if err != nil {
		return err
	}

	ctrl.Close()
	s.remove(sessionID)
	s.logger.Info("Session closed", logger.F("session_id", sessionID))
	return nil
}

// Subscribe streams the session's events until it closes or cancel is called
func (s *GameService) Subscribe(sessionID, playerID string) (<-chan engine.Event, func(), error) {
	live, err := s.lookup(sessionID, playerID)
	if err != nil {
		return nil, nil, err
	}
	events, cancel := live.hub.subscribe()
	return events, cancel, nil
}

// Touch marks a session as used without returning it
func (s *GameService) Touch(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if live, exists := s.sessions[sessionID]; exists {
		live.lastSeen = s.sched.Now()
	}
}

// ReapIdle closes sessions that were not used within the TTL or have already ended
func (s *GameService) ReapIdle() int {
	now := s.sched.Now()

	s.mu.Lock()
	var stale []*liveSession
	for id, live := range s.sessions {
		if live.ctrl.Closed() || now.Sub(live.lastSeen) > s.ttl {
			stale = append(stale, live)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, live := range stale {
		live.ctrl.Close()
		live.hub.close()
	}
	if len(stale) > 0 {
		s.logger.Info("Reaped idle sessions", logger.F("count", strconv.Itoa(len(stale))))
	}
	return len(stale)
}

// RunReaper calls ReapIdle every interval until ctx is done
func (s *GameService) RunReaper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ReapIdle()
		}
	}
}

// Leaderboard returns the best recorded sessions
func (s *GameService) Leaderboard(ctx context.Context, limit int) ([]models.CompletedSession, error) {
	records, err := s.store.TopScores(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	return records, nil
}

// History returns a player's recorded sessions, newest first
func (s *GameService) History(ctx context.Context, playerID string) ([]models.CompletedSession, error) {
	if playerID == "" {
		return nil, ErrPlayerRequired
	}
	records, err := s.store.PlayerHistory(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	return records, nil
}

// Rules returns the tuning new sessions run with.
func (s *GameService) Rules() engine.Rules {
	return s.rules
}

// Count returns the number of live sessions
func (s *GameService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Shutdown closes every live session
func (s *GameService) Shutdown() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*liveSession)
	s.mu.Unlock()

	for _, live := range sessions {
		live.ctrl.Close()
		live.hub.close()
	}
}

func (s *GameService) remove(sessionID string) {
	s.mu.Lock()
	live, exists := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if exists {
		live.hub.close()
	}
}
