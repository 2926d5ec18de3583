// Package stats tracks reading sessions and aggregates daily and weekly
// reading metrics
package stats

import (
	"log/slog"
	"math"
	"os/exec"
	"time"

	"github.com/kballard/go-shellquote"

	"lectern/config"
	"lectern/internal/models"
	"lectern/internal/timeutil"
	"lectern/notify"
	"lectern/store"
)

// Tracker owns the cumulative reading-time metrics: minutes read today,
// lifetime minutes, the streak of consecutive reading days, per-weekday
// minute buckets, and the daily goal. It is the only place these
// metrics are mutated, and every mutation persists the full snapshot
// immediately.
type Tracker struct {
	db           store.DB
	notifier     notify.Notifier
	opts         *config.Settings
	now          func() time.Time
	stats        models.ReadingStats
	sessionStart time.Time
	active       bool
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the wall clock, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// NewTracker loads the persisted stats snapshot and applies the daily
// rollover: if the last session was recorded on an earlier date, the
// per-day counters reset while the lifetime totals, streak, and weekly
// buckets are left untouched. A missing or malformed snapshot starts
// from zeroed state.
func NewTracker(
	db store.DB,
	notifier notify.Notifier,
	cfg *config.Settings,
	opts ...Option,
) *Tracker {
	t := &Tracker{
		db:       db,
		notifier: notifier,
		opts:     cfg,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(t)
	}

	stats, err := db.LoadStats()
	if err != nil {
		slog.Error("unable to load reading stats", slog.Any("error", err))
	}

	t.stats = stats

	if t.stats.DailyGoal == 0 {
		t.stats.DailyGoal = cfg.DailyGoal
	}

	today := timeutil.DateKey(t.now())

	// A blank date means no session was ever recorded; rolling it forward
	// here would rob the first session of its streak.
	if t.stats.LastSessionDate != "" && t.stats.LastSessionDate != today {
		t.stats.TodayMinutes = 0
		t.stats.SessionsToday = 0
		t.stats.LastSessionDate = today
	}

	if cfg.WeeklyReset {
		week := timeutil.WeekKey(t.now())
		if t.stats.Week != week {
			t.stats.WeeklyData = [7]float64{}
			t.stats.Week = week
		}
	}

	return t
}

// Snapshot returns a copy of the current stats.
func (t *Tracker) Snapshot() models.ReadingStats {
	return t.stats
}

// SessionActive reports whether a session is currently being timed.
func (t *Tracker) SessionActive() bool {
	return t.active
}

// SessionElapsed returns how long the active session has been running,
// or zero when no session is active.
func (t *Tracker) SessionElapsed() time.Duration {
	if !t.active {
		return 0
	}

	return t.now().Sub(t.sessionStart)
}

// StartSession records the current time as the session start. Starting
// while a session is active overwrites the start time; sessions never
// stack.
func (t *Tracker) StartSession() {
	t.sessionStart = t.now()
	t.active = true
}

// EndSession completes the active session, folds its duration into the
// daily, lifetime, and weekly totals, advances the streak, and persists
// the updated snapshot. It returns the session duration in fractional
// minutes, or 0 when no session was active. Exactly one notification is
// surfaced per call: goal-complete when this session pushes progress
// across 100%, session-complete otherwise.
func (t *Tracker) EndSession() float64 {
	if !t.active {
		return 0
	}

	now := t.now()
	duration := now.Sub(t.sessionStart).Minutes()
	today := timeutil.DateKey(now)
	weekday := int(now.Weekday())

	goalMetBefore := t.stats.TodayMinutes >= float64(t.stats.DailyGoal)

	t.stats.TodayMinutes += duration
	t.stats.TotalMinutes += duration
	t.stats.WeeklyData[weekday] += duration
	t.stats.Streak = ComputeStreak(t.stats.Streak, t.stats.LastSessionDate, today)
	t.stats.LastSessionDate = today
	t.stats.SessionsToday++
	t.stats.Week = timeutil.WeekKey(now)

	t.persist()

	t.active = false
	t.sessionStart = time.Time{}

	if t.GoalProgress() >= 100 && !goalMetBefore {
		t.notifier.GoalComplete()
	} else {
		t.notifier.SessionComplete(duration)
	}

	t.runSessionCmd()

	return duration
}

// UpdateDailyGoal sets the daily goal in minutes and persists
// immediately. Range clamping is the caller's concern.
func (t *Tracker) UpdateDailyGoal(minutes int) {
	t.stats.DailyGoal = minutes

	t.persist()
}

// GoalProgress returns today's progress towards the daily goal as a
// percentage clamped to [0, 100].
func (t *Tracker) GoalProgress() float64 {
	if t.stats.DailyGoal <= 0 {
		return 0
	}

	progress := t.stats.TodayMinutes / float64(t.stats.DailyGoal) * 100

	return math.Min(math.Max(progress, 0), 100)
}

// persist writes the full stats snapshot. Storage failures are logged
// and swallowed; the in-memory state stays authoritative for the rest
// of the process lifetime.
func (t *Tracker) persist() {
	if err := t.db.SaveStats(&t.stats); err != nil {
		slog.Error("unable to persist reading stats", slog.Any("error", err))
	}
}

// runSessionCmd executes the configured post-session command, if any.
func (t *Tracker) runSessionCmd() {
	if t.opts.SessionCmd == "" {
		return
	}

	cmdSlice, err := shellquote.Split(t.opts.SessionCmd)
	if err != nil {
		slog.Error("unable to parse session_cmd option", slog.Any("error", err))
		return
	}

	if len(cmdSlice) == 0 {
		return
	}

	cmd := exec.Command(cmdSlice[0], cmdSlice[1:]...)

	if err := cmd.Run(); err != nil {
		slog.Error("session_cmd failed", slog.Any("error", err))
	}
}

// ComputeStreak returns the updated streak given the date of the most
// recent completed session and today's date. A one-day gap extends the
// streak, the same day leaves it unchanged, and anything longer resets
// it to 1. An empty lastDate means this is the first-ever session.
func ComputeStreak(currentStreak int, lastDate, today string) int {
	if lastDate == "" {
		return 1
	}

	switch timeutil.DiffDays(lastDate, today) {
	case 1:
		return currentStreak + 1
	case 0:
		return currentStreak
	default:
		return 1
	}
}
