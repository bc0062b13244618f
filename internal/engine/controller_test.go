package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/molkiya/shooting-range/internal/engine/mocks"
	"github.com/molkiya/shooting-range/internal/models"
	"go.uber.org/mock/gomock"
)

var testStart = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

// newTestController builds a controller on a manual clock. Initial targets
// spawn together on entering Playing unless the caller restores the stagger.
func newTestController(t *testing.T, mutate func(*Options)) (*Controller, *ManualScheduler) {
	t.Helper()

	sched := NewManualScheduler(testStart)
	rules := DefaultRules()
	rules.InitialStagger = 0
	opts := Options{
		ID:        "sess-test",
		Seed:      "12345",
		Rules:     rules,
		Scheduler: sched,
		Player:    StaticPlayer{ID: "2", DisplayName: "user"},
	}
	if mutate != nil {
		mutate(&opts)
	}

	c, err := NewController(opts)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return c, sched
}

// startPlaying drives a fresh controller through the countdown.
func startPlaying(t *testing.T, c *Controller, sched *ManualScheduler, level Level) {
	t.Helper()

	if !c.Start(level, 0) {
		t.Fatal("Start was not applied")
	}
	sched.Advance(3 * time.Second)
	if got := c.State(); got != StatePlaying {
		t.Fatalf("Expected state playing after countdown, got %s", got)
	}
}

func TestNewController_Defaults(t *testing.T) {
	c, _ := newTestController(t, nil)
	snap := c.Snapshot()

	if snap.State != StateSetup {
		t.Errorf("Expected setup, got %s", snap.State)
	}
	if snap.Level != LevelEasy || snap.TimeRemaining != 30 {
		t.Errorf("Expected easy with 30s, got %s with %ds", snap.Level, snap.TimeRemaining)
	}
	if snap.WeaponName != "Pistol" {
		t.Errorf("Expected Pistol, got %s", snap.WeaponName)
	}
	if snap.Player.ID != "2" {
		t.Errorf("Expected player 2, got %q", snap.Player.ID)
	}
}

func TestNewController_RejectsInvalidRules(t *testing.T) {
	rules := DefaultRules()
	rules.Margin = 10

	if _, err := NewController(Options{Rules: rules}); err == nil {
		t.Error("Expected error for margin smaller than target radius")
	}
}

func TestStart_ResetsRound(t *testing.T) {
	tests := []struct {
		level  Level
		budget int
	}{
		{LevelEasy, 30},
		{LevelMedium, 20},
		{LevelHard, 15},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			c, _ := newTestController(t, nil)

			if !c.Start(tt.level, 1) {
				t.Fatal("Start was not applied")
			}
			snap := c.Snapshot()
			if snap.State != StateCountdown {
				t.Errorf("Expected countdown, got %s", snap.State)
			}
			if snap.Score != 0 || snap.TimeRemaining != tt.budget || len(snap.Targets) != 0 || len(snap.RecentShots) != 0 {
				t.Errorf("Expected reset round, got %+v", snap)
			}
			if snap.CountdownValue != 3 {
				t.Errorf("Expected countdown 3, got %d", snap.CountdownValue)
			}
			if snap.Weapon != 1 {
				t.Errorf("Expected weapon 1, got %d", snap.Weapon)
			}
		})
	}
}

func TestStart_IgnoredOutsideSetupOrInvalid(t *testing.T) {
	c, _ := newTestController(t, nil)

	if c.Start("impossible", 0) {
		t.Error("Expected unknown level to be rejected")
	}
	if c.Start(LevelEasy, len(Weapons)) {
		t.Error("Expected out of range weapon to be rejected")
	}
	if !c.Start(LevelEasy, 0) {
		t.Fatal("Expected valid start")
	}
	if c.Start(LevelHard, 0) {
		t.Error("Expected second start during countdown to be ignored")
	}
	if c.Snapshot().Level != LevelEasy {
		t.Error("Level must be immutable once the countdown starts")
	}
}

func TestCountdown_TicksDownIntoPlaying(t *testing.T) {
	c, sched := newTestController(t, nil)
	c.Start(LevelEasy, 0)

	for _, want := range []int{2, 1} {
		sched.Advance(time.Second)
		snap := c.Snapshot()
		if snap.State != StateCountdown || snap.CountdownValue != want {
			t.Fatalf("Expected countdown %d, got %s/%d", want, snap.State, snap.CountdownValue)
		}
		if len(snap.Targets) != 0 {
			t.Fatalf("Expected no targets during countdown, got %d", len(snap.Targets))
		}
	}

	sched.Advance(time.Second)
	snap := c.Snapshot()
	if snap.State != StatePlaying {
		t.Fatalf("Expected playing, got %s", snap.State)
	}
	if len(snap.Targets) != 3 {
		t.Errorf("Expected initial batch of 3 targets, got %d", len(snap.Targets))
	}
	if snap.TimeRemaining != 30 {
		t.Errorf("Expected full budget on entering play, got %d", snap.TimeRemaining)
	}
}

func TestPlaying_InitialBatchIsStaggered(t *testing.T) {
	c, sched := newTestController(t, func(o *Options) {
		o.Rules.InitialStagger = 500 * time.Millisecond
	})
	startPlaying(t, c, sched, LevelEasy)

	want := []int{1, 2, 3}
	for i, n := range want {
		if i > 0 {
			sched.Advance(500 * time.Millisecond)
		}
		if got := len(c.Snapshot().Targets); got != n {
			t.Errorf("Expected %d targets after %d staggers, got %d", n, i, got)
		}
	}
}

func TestPlaying_SpawnsOnInterval(t *testing.T) {
	c, sched := newTestController(t, nil)
	startPlaying(t, c, sched, LevelEasy)

	sched.Advance(2999 * time.Millisecond)
	if got := len(c.Snapshot().Targets); got != 3 {
		t.Fatalf("Expected 3 targets before first spawn tick, got %d", got)
	}
	sched.Advance(time.Millisecond)
	if got := len(c.Snapshot().Targets); got != 4 {
		t.Errorf("Expected 4 targets after spawn tick, got %d", got)
	}
	sched.Advance(3 * time.Second)
	if got := len(c.Snapshot().Targets); got != 5 {
		t.Errorf("Expected 5 targets after second spawn tick, got %d", got)
	}
}

func TestShoot_HitAtTargetCenter(t *testing.T) {
	c, sched := newTestController(t, nil)
	startPlaying(t, c, sched, LevelEasy)

	before := c.Snapshot()
	target := before.Targets[0]

	res := c.Shoot(target.X, target.Y)
	if !res.Applied || !res.Hit || res.TargetID != target.ID || res.Points != 10 {
		t.Fatalf("Expected hit on %d, got %+v", target.ID, res)
	}

	after := c.Snapshot()
	if after.Score != 10 {
		t.Errorf("Expected score 10, got %d", after.Score)
	}
	if len(after.Targets) != len(before.Targets)-1 {
		t.Errorf("Expected target count %d, got %d", len(before.Targets)-1, len(after.Targets))
	}
	for _, remaining := range after.Targets {
		if remaining.ID == target.ID {
			t.Error("Hit target is still active")
		}
	}
	if after.TimeRemaining != 30 {
		t.Errorf("Hit must not change time, got %d", after.TimeRemaining)
	}
	log := c.ShotLog()
	if len(log) != 1 || !log[0].Hit || log[0].Points != 10 {
		t.Errorf("Unexpected shot log %+v", log)
	}
}

func TestShoot_HitOnRadiusBoundary(t *testing.T) {
	c, sched := newTestController(t, nil)
	startPlaying(t, c, sched, LevelEasy)

	target := c.Snapshot().Targets[0]
	res := c.Shoot(target.X+target.Radius, target.Y)
	if !res.Hit {
		t.Errorf("Expected shot exactly on the radius to hit")
	}
}

func TestShoot_MissCostsPenalty(t *testing.T) {
	c, sched := newTestController(t, nil)
	startPlaying(t, c, sched, LevelEasy)

	before := c.Snapshot()
	res := c.Shoot(0, 0)
	if !res.Applied || res.Hit {
		t.Fatalf("Expected applied miss, got %+v", res)
	}

	after := c.Snapshot()
	if after.TimeRemaining != 25 {
		t.Errorf("Expected 30 -> 25, got %d", after.TimeRemaining)
	}
	if after.Score != before.Score {
		t.Errorf("Miss must not change score, got %d", after.Score)
	}
	if len(after.Targets) != len(before.Targets) {
		t.Errorf("Miss must not remove targets")
	}
	if after.Misses != 1 || len(after.RecentShots) != 1 || after.RecentShots[0].Hit {
		t.Errorf("Expected one logged miss, got %+v", after.RecentShots)
	}
}

func TestShoot_MissToZeroEndsGameImmediately(t *testing.T) {
	c, sched := newTestController(t, nil)
	startPlaying(t, c, sched, LevelHard)

	for i := 0; i < 3; i++ {
		c.Shoot(0, 0)
	}

	snap := c.Snapshot()
	if snap.State != StateGameOver {
		t.Fatalf("Expected gameover after penalties exhaust 15s, got %s", snap.State)
	}
	if snap.TimeRemaining != 0 || len(snap.Targets) != 0 {
		t.Errorf("Expected 0s and no targets, got %ds and %d targets", snap.TimeRemaining, len(snap.Targets))
	}
	if sched.Pending() != 0 {
		t.Errorf("Expected every timer disarmed, %d pending", sched.Pending())
	}
}

func TestShoot_PenaltyClampsAtZero(t *testing.T) {
	c, sched := newTestController(t, nil)
	startPlaying(t, c, sched, LevelHard)

	sched.Advance(13 * time.Second) // 2s left
	c.Shoot(0, 0)

	snap := c.Snapshot()
	if snap.TimeRemaining != 0 || snap.State != StateGameOver {
		t.Errorf("Expected clamp to 0 and gameover, got %ds in %s", snap.TimeRemaining, snap.State)
	}
}

func TestShoot_OverlapCreditsFirstTargetOnly(t *testing.T) {
	c, sched := newTestController(t, func(o *Options) {
		o.Rules.InitialTargets = 0
	})
	startPlaying(t, c, sched, LevelEasy)

	c.mu.Lock()
	c.targets = []Target{
		{ID: 100, X: 200, Y: 200, Radius: 30},
		{ID: 101, X: 210, Y: 200, Radius: 30},
	}
	c.mu.Unlock()

	res := c.Shoot(205, 200)
	if !res.Hit || res.TargetID != 100 {
		t.Fatalf("Expected hit on first target 100, got %+v", res)
	}
	snap := c.Snapshot()
	if snap.Score != 10 || len(snap.Targets) != 1 || snap.Targets[0].ID != 101 {
		t.Errorf("Expected exactly one target credited, got score %d targets %+v", snap.Score, snap.Targets)
	}
}

func TestShoot_IgnoredOutsidePlaying(t *testing.T) {
	c, sched := newTestController(t, nil)

	if res := c.Shoot(0, 0); res.Applied {
		t.Error("Shot in setup must be ignored")
	}

	c.Start(LevelEasy, 0)
	if res := c.Shoot(0, 0); res.Applied {
		t.Error("Shot in countdown must be ignored")
	}

	sched.Advance(3 * time.Second)
	c.Pause()
	if res := c.Shoot(0, 0); res.Applied {
		t.Error("Shot while paused must be ignored")
	}

	snap := c.Snapshot()
	if snap.TimeRemaining != 30 || len(c.ShotLog()) != 0 {
		t.Errorf("Ignored shots must not change the session, got %ds and %d shots", snap.TimeRemaining, len(c.ShotLog()))
	}
}

func TestTick_TimeRunsOutIntoGameOver(t *testing.T) {
	c, sched := newTestController(t, nil)
	startPlaying(t, c, sched, LevelEasy)

	sched.Advance(29 * time.Second)
	snap := c.Snapshot()
	if snap.State != StatePlaying || snap.TimeRemaining != 1 {
		t.Fatalf("Expected 1s left while playing, got %s/%d", snap.State, snap.TimeRemaining)
	}

	sched.Advance(time.Second)
	snap = c.Snapshot()
	if snap.State != StateGameOver {
		t.Fatalf("Expected gameover, got %s", snap.State)
	}
	if snap.TimeRemaining != 0 || len(snap.Targets) != 0 {
		t.Errorf("Expected 0s and no targets, got %d/%d", snap.TimeRemaining, len(snap.Targets))
	}
	if snap.Elapsed != 30 {
		t.Errorf("Expected 30 played seconds, got %d", snap.Elapsed)
	}
	if sched.Pending() != 0 {
		t.Fatalf("Expected no pending timers, got %d", sched.Pending())
	}

	sched.Advance(time.Minute)
	if after := c.Snapshot(); after.TimeRemaining != 0 || len(after.Targets) != 0 || after.State != StateGameOver {
		t.Errorf("Session changed after gameover: %+v", after)
	}
}

func TestSwitchWeapon_Cycles(t *testing.T) {
	c, sched := newTestController(t, nil)
	startPlaying(t, c, sched, LevelEasy)

	var got []int
	for i := 0; i < 3; i++ {
		idx, ok := c.SwitchWeapon()
		if !ok {
			t.Fatal("Expected switch to apply while playing")
		}
		got = append(got, idx)
	}

	want := []int{1, 0, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected sequence %v, got %v", want, got)
		}
	}
}

func TestSwitchWeapon_IgnoredOutsidePlaying(t *testing.T) {
	c, sched := newTestController(t, nil)

	if _, ok := c.SwitchWeapon(); ok {
		t.Error("Switch in setup must be ignored")
	}
	startPlaying(t, c, sched, LevelEasy)
	c.Pause()
	if idx, ok := c.SwitchWeapon(); ok || idx != 0 {
		t.Errorf("Switch while paused must be ignored, got %d/%v", idx, ok)
	}
}

func TestSelectWeapon_OnlyInSetup(t *testing.T) {
	c, sched := newTestController(t, nil)

	if !c.SelectWeapon(1) {
		t.Fatal("Expected weapon selection in setup")
	}
	if c.SelectWeapon(5) {
		t.Error("Expected out of range selection to be rejected")
	}
	if !c.SelectLevel(LevelHard) || c.Snapshot().TimeRemaining != 15 {
		t.Error("Expected level selection to update the budget")
	}

	startPlaying(t, c, sched, LevelHard)
	if c.SelectWeapon(0) || c.SelectLevel(LevelEasy) {
		t.Error("Selections must be ignored once the round started")
	}
}

func TestPauseResume_FreezesTime(t *testing.T) {
	c, sched := newTestController(t, nil)
	startPlaying(t, c, sched, LevelEasy)

	sched.Advance(1500 * time.Millisecond) // one tick, half way to the next
	c.Shoot(c.Snapshot().Targets[0].X, c.Snapshot().Targets[0].Y)
	before := c.Snapshot()

	if !c.Pause() {
		t.Fatal("Expected pause to apply")
	}
	if sched.Pending() != 0 {
		t.Fatalf("Expected every timer disarmed while paused, got %d", sched.Pending())
	}
	sched.Advance(time.Minute)

	paused := c.Snapshot()
	if paused.State != StatePaused || paused.TimeRemaining != before.TimeRemaining || paused.Score != before.Score {
		t.Fatalf("Pause changed the session: before %+v, after %+v", before, paused)
	}
	if len(paused.Targets) != len(before.Targets) {
		t.Errorf("Pause must preserve targets")
	}

	if !c.Resume() {
		t.Fatal("Expected resume to apply")
	}
	resumed := c.Snapshot()
	if resumed.TimeRemaining != before.TimeRemaining || resumed.Score != before.Score {
		t.Errorf("Resume changed time or score")
	}

	sched.Advance(499 * time.Millisecond)
	if got := c.Snapshot().TimeRemaining; got != before.TimeRemaining {
		t.Errorf("Tick fired early after resume: %d", got)
	}
	sched.Advance(time.Millisecond)
	if got := c.Snapshot().TimeRemaining; got != before.TimeRemaining-1 {
		t.Errorf("Expected tick at the preserved phase, got %d", got)
	}
}

func TestTogglePause(t *testing.T) {
	c, sched := newTestController(t, nil)

	if c.TogglePause() {
		t.Error("Toggle in setup must be ignored")
	}
	startPlaying(t, c, sched, LevelEasy)
	if !c.TogglePause() || c.State() != StatePaused {
		t.Error("Expected toggle to pause")
	}
	if !c.TogglePause() || c.State() != StatePlaying {
		t.Error("Expected toggle to resume")
	}
}

// leakyScheduler never cancels timers, like a runtime that has already
// dequeued the callback when Stop is called.
type leakyScheduler struct {
	*ManualScheduler
}

type leakyTimer struct{}

func (leakyTimer) Stop() bool { return false }

func (s leakyScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.ManualScheduler.AfterFunc(d, f)
	return leakyTimer{}
}

func TestStaleTimers_NeverMutateAfterTransition(t *testing.T) {
	sched := leakyScheduler{NewManualScheduler(testStart)}
	rules := DefaultRules()
	rules.InitialStagger = 0
	c, err := NewController(Options{Scheduler: sched, Rules: rules, Seed: "7"})
	if err != nil {
		t.Fatal(err)
	}

	c.Start(LevelEasy, 0)
	sched.Advance(3 * time.Second)
	sched.Advance(500 * time.Millisecond)
	c.Pause()
	before := c.Snapshot()

	sched.Advance(10 * time.Second)
	after := c.Snapshot()
	if after.TimeRemaining != before.TimeRemaining || len(after.Targets) != len(before.Targets) {
		t.Errorf("Stale timer mutated a paused session: %d/%d -> %d/%d",
			before.TimeRemaining, len(before.Targets), after.TimeRemaining, len(after.Targets))
	}

	c.Close()
	sched.Advance(time.Minute)
	if got := c.Snapshot(); got.TimeRemaining != before.TimeRemaining {
		t.Errorf("Stale timer mutated a closed session")
	}
}

func TestRestart_FullReset(t *testing.T) {
	c, sched := newTestController(t, nil)
	startPlaying(t, c, sched, LevelMedium)
	c.Shoot(c.Snapshot().Targets[0].X, c.Snapshot().Targets[0].Y)
	sched.Advance(20 * time.Second)

	if c.State() != StateGameOver {
		t.Fatalf("Expected gameover, got %s", c.State())
	}
	if !c.Restart() {
		t.Fatal("Expected restart to apply")
	}

	snap := c.Snapshot()
	if snap.State != StateSetup || snap.Score != 0 || snap.TimeRemaining != 20 || len(snap.Targets) != 0 || len(snap.RecentShots) != 0 {
		t.Errorf("Expected full reset, got %+v", snap)
	}

	startPlaying(t, c, sched, LevelEasy)
	if got := c.Snapshot().TimeRemaining; got != 30 {
		t.Errorf("Expected new budget 30, got %d", got)
	}
}

func TestSave_RecordsOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	recorder := mocks.NewMockRecorder(ctrl)
	players := mocks.NewMockPlayerSource(ctrl)
	players.EXPECT().CurrentPlayer().Return(models.Player{ID: "2", DisplayName: "user"}).AnyTimes()

	c, sched := newTestController(t, func(o *Options) {
		o.Recorder = recorder
		o.Player = players
	})

	if _, saved, _ := c.Save(context.Background()); saved {
		t.Fatal("Save in setup must be ignored")
	}

	startPlaying(t, c, sched, LevelEasy)
	c.Shoot(c.Snapshot().Targets[0].X, c.Snapshot().Targets[0].Y)
	c.Shoot(0, 0)
	sched.Advance(25 * time.Second)

	recorder.EXPECT().
		RecordCompletedSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec models.CompletedSession) error {
			if rec.PlayerID != "2" || rec.PlayerName != "user" {
				t.Errorf("Unexpected player on record: %+v", rec)
			}
			if rec.Score != 10 || rec.Level != "easy" || rec.Hits != 1 || rec.Misses != 1 {
				t.Errorf("Unexpected record: %+v", rec)
			}
			// the miss penalty counts as used budget
			if rec.DurationSeconds != 30 {
				t.Errorf("Expected the 30s budget used up, got %d", rec.DurationSeconds)
			}
			return nil
		}).
		Times(1)

	if elapsed := c.Snapshot().Elapsed; elapsed != 25 {
		t.Errorf("Expected 25 ticked seconds, got %d", elapsed)
	}

	rec, saved, err := c.Save(context.Background())
	if err != nil || !saved {
		t.Fatalf("Expected saved record, got %v/%v", saved, err)
	}
	if rec.SessionID != "sess-test" || rec.ID == "" {
		t.Errorf("Unexpected record ids: %+v", rec)
	}

	if _, saved, _ := c.Save(context.Background()); saved {
		t.Error("Second save must be ignored")
	}
	if !c.Closed() || c.Restart() {
		t.Error("Saved session must be closed")
	}
}

func TestSave_RecorderFailureIsReturnedWithoutRetry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	recorder := mocks.NewMockRecorder(ctrl)
	recorder.EXPECT().RecordCompletedSession(gomock.Any(), gomock.Any()).Return(errors.New("disk full")).Times(1)

	c, sched := newTestController(t, func(o *Options) { o.Recorder = recorder })
	startPlaying(t, c, sched, LevelHard)
	sched.Advance(15 * time.Second)

	_, saved, err := c.Save(context.Background())
	if !saved || err == nil {
		t.Fatalf("Expected attempted save with error, got %v/%v", saved, err)
	}
	if _, again, _ := c.Save(context.Background()); again {
		t.Error("Failed save must not be retried")
	}
}

func TestClose_ReleasesTimers(t *testing.T) {
	tests := []struct {
		name  string
		drive func(c *Controller, sched *ManualScheduler)
	}{
		{"countdown", func(c *Controller, sched *ManualScheduler) { c.Start(LevelEasy, 0) }},
		{"playing", func(c *Controller, sched *ManualScheduler) {
			c.Start(LevelEasy, 0)
			sched.Advance(3 * time.Second)
		}},
		{"paused", func(c *Controller, sched *ManualScheduler) {
			c.Start(LevelEasy, 0)
			sched.Advance(3 * time.Second)
			c.Pause()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, sched := newTestController(t, nil)
			tt.drive(c, sched)

			c.Close()
			if sched.Pending() != 0 {
				t.Errorf("Expected no pending timers, got %d", sched.Pending())
			}
			if c.Resume() || c.Shoot(0, 0).Applied {
				t.Error("Closed session must ignore input")
			}
			if len(c.Snapshot().Targets) != 0 {
				t.Error("Closed session must drop targets")
			}
		})
	}
}

func TestSpawn_StaysInsideBoardAndIsDeterministic(t *testing.T) {
	run := func() []Target {
		c, sched := newTestController(t, func(o *Options) { o.Seed = "sess_fixed" })
		startPlaying(t, c, sched, LevelEasy)
		sched.Advance(27 * time.Second)
		return c.Snapshot().Targets
	}

	first, second := run(), run()
	if len(first) != 12 {
		t.Fatalf("Expected 3 initial + 9 spawned targets, got %d", len(first))
	}

	rules := DefaultRules()
	seen := map[int64]bool{}
	for i, target := range first {
		if target.X-target.Radius < 0 || target.X+target.Radius > rules.BoardWidth ||
			target.Y-target.Radius < 0 || target.Y+target.Radius > rules.BoardHeight {
			t.Errorf("Target %d outside board: %+v", target.ID, target)
		}
		if seen[target.ID] {
			t.Errorf("Duplicate target id %d", target.ID)
		}
		seen[target.ID] = true
		if target != second[i] {
			t.Errorf("Same seed produced different target %d: %+v vs %+v", i, target, second[i])
		}
	}
}

func TestEvents_ReportTransitions(t *testing.T) {
	var kinds []EventKind
	c, sched := newTestController(t, func(o *Options) {
		o.OnEvent = func(ev Event) {
			if ev.SessionID != "sess-test" {
				t.Errorf("Unexpected session id %q", ev.SessionID)
			}
			kinds = append(kinds, ev.Kind)
		}
	})

	startPlaying(t, c, sched, LevelEasy)
	c.Shoot(0, 0)

	want := []EventKind{
		EventState,     // countdown
		EventCountdown, // 2
		EventCountdown, // 1
		EventCountdown, // 0
		EventState,     // playing
		EventSpawn, EventSpawn, EventSpawn,
		EventMiss,
	}
	if len(kinds) != len(want) {
		t.Fatalf("Expected %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, kinds)
		}
	}
}

func TestMovePointer_ClampsToBoard(t *testing.T) {
	c, _ := newTestController(t, nil)

	c.MovePointer(-20, 900)
	if p := c.Snapshot().Pointer; p.X != 0 || p.Y != 600 {
		t.Errorf("Expected clamped pointer, got %+v", p)
	}
}

func TestSnapshot_CapsRecentShots(t *testing.T) {
	c, sched := newTestController(t, nil)
	startPlaying(t, c, sched, LevelEasy)

	c.mu.Lock()
	for i := 0; i < 25; i++ {
		c.shots = append(c.shots, Shot{Points: i})
	}
	c.mu.Unlock()

	snap := c.Snapshot()
	if len(snap.RecentShots) != 20 || snap.RecentShots[0].Points != 5 {
		t.Errorf("Expected last 20 shots, got %d starting at %d", len(snap.RecentShots), snap.RecentShots[0].Points)
	}
	if len(c.ShotLog()) != 25 {
		t.Errorf("Shot log must not be truncated")
	}
}
