package engine

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/molkiya/shooting-range/internal/models"
	"github.com/molkiya/shooting-range/pkg/logger"
)

// Options configures a Controller. Zero fields fall back to defaults.
type Options struct {
	ID        string
	Seed      string
	Rules     Rules
	Scheduler Scheduler
	Rand      *rand.Rand
	Player    PlayerSource
	Recorder  Recorder
	Logger    *logger.Logger

	// OnEvent is called with the session lock held. It must not block
	// and must not call back into the Controller.
	OnEvent func(Event)
}

// Controller owns one play session: its state machine, targets, score,
// clock and input. All methods are safe for concurrent use; every trigger
// is applied under a single lock, and triggers that are not allowed in the
// current state are ignored.
type Controller struct {
	mu sync.Mutex

	id       string
	seed     string
	rules    Rules
	sched    Scheduler
	rng      *rand.Rand
	player   PlayerSource
	recorder Recorder
	log      *logger.Logger
	onEvent  func(Event)

	state         State
	level         Level
	weapon        int
	score         int
	timeRemaining int
	countdown     int
	elapsed       int
	hits          int
	misses        int
	targets       []Target
	nextTargetID  int64
	shots         []Shot
	pointer       Point

	// armed timers; epoch invalidates callbacks of disarmed ones
	epoch  uint64
	tasks  []*task
	parked []parkedTask

	recorded bool
	closed   bool
}

type task struct {
	name   string
	due    time.Time
	period time.Duration
	run    func()
	timer  Timer
}

type parkedTask struct {
	name      string
	remaining time.Duration
	period    time.Duration
	run       func()
}

// NewController creates a session in Setup with the easy level and first weapon.
func NewController(opts Options) (*Controller, error) {
	rules := opts.Rules
	if rules == (Rules{}) {
		rules = DefaultRules()
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}

	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}
	seed := opts.Seed
	if seed == "" {
		seed = strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	sched := opts.Scheduler
	if sched == nil {
		sched = WallClock()
	}
	rng := opts.Rand
	if rng == nil {
		rng = NewRand(SeedFromString(seed))
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	c := &Controller{
		id:       id,
		seed:     seed,
		rules:    rules,
		sched:    sched,
		rng:      rng,
		player:   opts.Player,
		recorder: opts.Recorder,
		log:      log.With(logger.F("session_id", id)),
		onEvent:  opts.OnEvent,
		state:    StateSetup,
		level:    LevelEasy,
	}
	c.resetRound()
	return c, nil
}

// ID returns the session identifier.
func (c *Controller) ID() string {
	return c.id
}

// Seed returns the seed the spawn generator was derived from.
func (c *Controller) Seed() string {
	return c.seed
}

// Rules returns the tuning this session runs with.
func (c *Controller) Rules() Rules {
	return c.rules
}

// State returns the current phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Closed reports whether the session has ended (saved or abandoned).
func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Snapshot returns a copy of the session for rendering.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	var player models.Player
	if c.player != nil {
		player = c.player.CurrentPlayer()
	}

	recent := c.shots
	if limit := c.rules.ShotHistoryLimit; limit > 0 && len(recent) > limit {
		recent = recent[len(recent)-limit:]
	}

	return Snapshot{
		ID:             c.id,
		Seed:           c.seed,
		Player:         player,
		State:          c.state,
		Level:          c.level,
		Budget:         c.level.Budget(),
		Weapon:         c.weapon,
		WeaponName:     Weapons[c.weapon].Name,
		Score:          c.score,
		TimeRemaining:  c.timeRemaining,
		CountdownValue: c.countdown,
		Elapsed:        c.elapsed,
		Hits:           c.hits,
		Misses:         c.misses,
		Targets:        append([]Target(nil), c.targets...),
		RecentShots:    append([]Shot(nil), recent...),
		Pointer:        c.pointer,
		Recorded:       c.recorded,
		Closed:         c.closed,
	}
}

// ShotLog returns the complete shot log of the current round.
func (c *Controller) ShotLog() []Shot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Shot(nil), c.shots...)
}

// SelectLevel changes the level while in Setup.
func (c *Controller) SelectLevel(level Level) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.state != StateSetup {
		return false
	}
	if _, ok := ParseLevel(string(level)); !ok {
		return false
	}
	c.level = level
	c.timeRemaining = level.Budget()
	return true
}

// SelectWeapon picks a weapon by index while in Setup.
func (c *Controller) SelectWeapon(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.state != StateSetup || index < 0 || index >= len(Weapons) {
		return false
	}
	c.weapon = index
	return true
}

// Start leaves Setup with the chosen level and weapon and begins the countdown.
func (c *Controller) Start(level Level, weapon int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.state != StateSetup {
		return false
	}
	if _, ok := ParseLevel(string(level)); !ok || weapon < 0 || weapon >= len(Weapons) {
		return false
	}
	c.level = level
	c.weapon = weapon
	c.enter(StateCountdown)
	return true
}

// Shoot fires at board coordinates (x, y). Outside Playing it does nothing.
func (c *Controller) Shoot(x, y float64) ShotResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.state != StatePlaying {
		return ShotResult{}
	}

	now := c.sched.Now()
	for i, target := range c.targets {
		if !target.Contains(x, y) {
			continue
		}
		c.targets = append(c.targets[:i:i], c.targets[i+1:]...)
		c.score += c.rules.PointsPerHit
		c.hits++
		shot := Shot{At: now, X: x, Y: y, Hit: true, Points: c.rules.PointsPerHit, TargetID: target.ID}
		c.shots = append(c.shots, shot)
		c.emit(EventHit, &target, &shot)
		return ShotResult{Applied: true, Hit: true, TargetID: target.ID, Points: shot.Points}
	}

	c.timeRemaining -= c.rules.MissPenalty
	if c.timeRemaining < 0 {
		c.timeRemaining = 0
	}
	c.misses++
	shot := Shot{At: now, X: x, Y: y}
	c.shots = append(c.shots, shot)
	c.emit(EventMiss, nil, &shot)
	if c.timeRemaining == 0 {
		c.enter(StateGameOver)
	}
	return ShotResult{Applied: true}
}

// MovePointer tracks the crosshair. It has no gameplay effect.
func (c *Controller) MovePointer(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pointer = Point{
		X: clamp(x, 0, c.rules.BoardWidth),
		Y: clamp(y, 0, c.rules.BoardHeight),
	}
}

// SwitchWeapon cycles to the next weapon while Playing.
func (c *Controller) SwitchWeapon() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.state != StatePlaying {
		return c.weapon, false
	}
	c.weapon = (c.weapon + 1) % len(Weapons)
	c.emit(EventWeapon, nil, nil)
	return c.weapon, true
}

// Pause suspends a running round.
func (c *Controller) Pause() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.state != StatePlaying {
		return false
	}
	c.enter(StatePaused)
	return true
}

// Resume continues a paused round with its timers where they stopped.
func (c *Controller) Resume() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.state != StatePaused {
		return false
	}
	c.enter(StatePlaying)
	return true
}

// TogglePause pauses when playing and resumes when paused.
func (c *Controller) TogglePause() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	switch c.state {
	case StatePlaying:
		c.enter(StatePaused)
	case StatePaused:
		c.enter(StatePlaying)
	default:
		return false
	}
	return true
}

// Restart returns a finished session to Setup.
func (c *Controller) Restart() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.state != StateGameOver {
		return false
	}
	c.enter(StateSetup)
	return true
}

// Save records the finished session exactly once and ends it. The recorder
// runs outside the session lock; its failure is returned but the attempt
// still counts.
func (c *Controller) Save(ctx context.Context) (models.CompletedSession, bool, error) {
	c.mu.Lock()
	if c.closed || c.recorded || c.state != StateGameOver {
		c.mu.Unlock()
		return models.CompletedSession{}, false, nil
	}

	var player models.Player
	if c.player != nil {
		player = c.player.CurrentPlayer()
	}
	record := models.CompletedSession{
		ID:              uuid.NewString(),
		SessionID:       c.id,
		PlayerID:        player.ID,
		PlayerName:      player.DisplayName,
		Score:           c.score,
		Level:           string(c.level),
		DurationSeconds: c.level.Budget() - c.timeRemaining,
		Hits:            c.hits,
		Misses:          c.misses,
		RecordedAt:      c.sched.Now().UTC(),
	}
	c.recorded = true
	c.emit(EventRecorded, nil, nil)
	c.shutdown()
	c.mu.Unlock()

	if c.recorder == nil {
		return record, true, nil
	}
	if err := c.recorder.RecordCompletedSession(ctx, record); err != nil {
		c.log.Error("Failed to record session", logger.F("record_id", record.ID), logger.Err(err))
		return record, true, fmt.Errorf("record session: %w", err)
	}
	c.log.Info("Session recorded",
		logger.F("record_id", record.ID),
		logger.F("player_id", record.PlayerID),
		logger.F("score", strconv.Itoa(record.Score)))
	return record, true, nil
}

// Close abandons the session, cancelling every pending timer.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shutdown()
}

func (c *Controller) shutdown() {
	if c.closed {
		return
	}
	c.disarm()
	c.parked = nil
	c.targets = nil
	c.closed = true
	c.emit(EventClosed, nil, nil)
}

// enter is the only place where state changes and timers are armed or disarmed.
func (c *Controller) enter(next State) {
	prev := c.state
	resuming := prev == StatePaused && next == StatePlaying

	if next == StatePaused {
		c.park()
	} else {
		c.disarm()
		if !resuming {
			c.parked = nil
		}
	}
	c.state = next

	switch next {
	case StateSetup:
		c.resetRound()
		c.countdown = 0
	case StateCountdown:
		c.resetRound()
		c.countdown = c.rules.CountdownFrom
		if c.countdown > 0 {
			c.arm("countdown", c.rules.TickInterval, c.rules.TickInterval, c.countdownTick)
		}
	case StatePlaying:
		if resuming {
			c.unpark()
		} else {
			c.armRound()
		}
	case StateGameOver:
		c.targets = nil
	}

	c.log.Debug("Session state changed", logger.F("from", prev.String()), logger.F("to", next.String()))
	c.emit(EventState, nil, nil)

	if next == StateCountdown && c.countdown == 0 {
		c.enter(StatePlaying)
	}
}

func (c *Controller) resetRound() {
	c.score = 0
	c.timeRemaining = c.level.Budget()
	c.targets = nil
	c.shots = nil
	c.hits = 0
	c.misses = 0
	c.elapsed = 0
}

func (c *Controller) armRound() {
	c.arm("tick", c.rules.TickInterval, c.rules.TickInterval, c.masterTick)
	c.arm("spawn", c.rules.SpawnInterval, c.rules.SpawnInterval, c.spawnTarget)
	for i := 0; i < c.rules.InitialTargets; i++ {
		c.arm("initial-"+strconv.Itoa(i), time.Duration(i)*c.rules.InitialStagger, 0, c.spawnTarget)
	}
}

func (c *Controller) countdownTick() {
	c.countdown--
	if c.countdown < 0 {
		c.countdown = 0
	}
	c.emit(EventCountdown, nil, nil)
	if c.countdown == 0 {
		c.enter(StatePlaying)
	}
}

func (c *Controller) masterTick() {
	c.timeRemaining--
	c.elapsed++
	if c.timeRemaining < 0 {
		c.timeRemaining = 0
	}
	c.emit(EventTick, nil, nil)
	if c.timeRemaining == 0 {
		c.enter(StateGameOver)
	}
}

func (c *Controller) spawnTarget() {
	if c.state != StatePlaying {
		return
	}

	minX, maxX := c.rules.Margin, c.rules.BoardWidth-2*c.rules.Margin
	minY, maxY := c.rules.Margin, c.rules.BoardHeight-2*c.rules.Margin

	c.nextTargetID++
	target := Target{
		ID:        c.nextTargetID,
		X:         minX + c.rng.Float64()*(maxX-minX),
		Y:         minY + c.rng.Float64()*(maxY-minY),
		Radius:    c.rules.TargetSize / 2,
		Color:     TargetPalette[c.rng.Intn(len(TargetPalette))],
		SpawnedAt: c.sched.Now(),
	}
	c.targets = append(c.targets, target)
	c.emit(EventSpawn, &target, nil)
}

func (c *Controller) arm(name string, delay, period time.Duration, run func()) {
	t := &task{name: name, due: c.sched.Now().Add(delay), period: period, run: run}
	epoch := c.epoch
	t.timer = c.sched.AfterFunc(delay, func() { c.fire(epoch, t) })
	c.tasks = append(c.tasks, t)
}

func (c *Controller) fire(epoch uint64, t *task) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if epoch != c.epoch || c.closed || !c.dropTask(t) {
		return
	}
	if t.period > 0 {
		c.arm(t.name, t.period, t.period, t.run)
	}
	t.run()
}

func (c *Controller) dropTask(t *task) bool {
	for i, armed := range c.tasks {
		if armed == t {
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Controller) disarm() {
	c.epoch++
	for _, t := range c.tasks {
		t.timer.Stop()
	}
	c.tasks = nil
}

// park disarms every task, remembering how long each had left.
func (c *Controller) park() {
	now := c.sched.Now()
	parked := make([]parkedTask, 0, len(c.tasks))
	for _, t := range c.tasks {
		remaining := t.due.Sub(now)
		if remaining < 0 {
			remaining = 0
		}
		parked = append(parked, parkedTask{name: t.name, remaining: remaining, period: t.period, run: t.run})
	}
	c.disarm()
	c.parked = parked
}

func (c *Controller) unpark() {
	for _, p := range c.parked {
		c.arm(p.name, p.remaining, p.period, p.run)
	}
	c.parked = nil
}

func (c *Controller) emit(kind EventKind, target *Target, shot *Shot) {
	if c.onEvent == nil {
		return
	}
	c.onEvent(Event{
		Kind:          kind,
		SessionID:     c.id,
		State:         c.state,
		Score:         c.score,
		TimeRemaining: c.timeRemaining,
		Countdown:     c.countdown,
		Weapon:        c.weapon,
		Target:        target,
		Shot:          shot,
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
