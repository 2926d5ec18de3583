package stats

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"lectern/config"
	"lectern/internal/models"
	"lectern/internal/testutil"
)

// recorderNotifier records which notifications were surfaced.
type recorderNotifier struct {
	sessions []float64
	goals    int
}

func (r *recorderNotifier) SessionComplete(minutes float64) {
	r.sessions = append(r.sessions, minutes)
}

func (r *recorderNotifier) GoalComplete() {
	r.goals++
}

// fakeClock is an advanceable wall clock.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func testSettings() *config.Settings {
	return &config.Settings{
		DailyGoal: 30,
		Notify:    true,
	}
}

func TestComputeStreak(t *testing.T) {
	cases := []struct {
		name     string
		streak   int
		lastDate string
		today    string
		want     int
	}{
		{
			name:     "first session ever",
			streak:   0,
			lastDate: "",
			today:    "2024-01-02",
			want:     1,
		},
		{
			name:     "consecutive day extends the streak",
			streak:   3,
			lastDate: "2024-01-01",
			today:    "2024-01-02",
			want:     4,
		},
		{
			name:     "same day leaves the streak unchanged",
			streak:   3,
			lastDate: "2024-01-02",
			today:    "2024-01-02",
			want:     3,
		},
		{
			name:     "multi-day gap resets the streak",
			streak:   7,
			lastDate: "2024-01-01",
			today:    "2024-01-04",
			want:     1,
		},
		{
			name:     "consecutive day across a month boundary",
			streak:   9,
			lastDate: "2024-01-31",
			today:    "2024-02-01",
			want:     10,
		},
		{
			name:     "clock moving backwards counts as the same day",
			streak:   5,
			lastDate: "2024-01-10",
			today:    "2024-01-08",
			want:     5,
		},
		{
			name:     "unparseable date resets the streak",
			streak:   5,
			lastDate: "not-a-date",
			today:    "2024-01-02",
			want:     1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeStreak(tc.streak, tc.lastDate, tc.today)
			if got != tc.want {
				t.Errorf(
					"ComputeStreak(%d, %q, %q) = %d, want %d",
					tc.streak,
					tc.lastDate,
					tc.today,
					got,
					tc.want,
				)
			}
		})
	}
}

func TestEndSessionAccumulates(t *testing.T) {
	clock := &fakeClock{
		now: time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC), // a Wednesday
	}
	db := testutil.NewMemoryDB()
	rec := &recorderNotifier{}

	tracker := NewTracker(db, rec, testSettings(), WithClock(clock.Now))

	tracker.StartSession()
	clock.Advance(10 * time.Minute)

	got := tracker.EndSession()
	if got != 10 {
		t.Fatalf("EndSession() = %v, want 10", got)
	}

	want := models.ReadingStats{
		TodayMinutes:    10,
		TotalMinutes:    10,
		Streak:          1,
		LastSessionDate: "2024-03-06",
		SessionsToday:   1,
		DailyGoal:       30,
		Week:            "2024-W10",
	}
	want.WeeklyData[int(time.Wednesday)] = 10

	if diff := cmp.Diff(want, tracker.Snapshot()); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}

	if db.Saves("reading-stats") != 1 {
		t.Errorf("saves = %d, want 1", db.Saves("reading-stats"))
	}

	if diff := cmp.Diff(want, db.Stats); diff != "" {
		t.Errorf("persisted stats mismatch (-want +got):\n%s", diff)
	}
}

func TestEndSessionWithoutStart(t *testing.T) {
	db := testutil.NewMemoryDB()
	rec := &recorderNotifier{}

	tracker := NewTracker(db, rec, testSettings())

	if got := tracker.EndSession(); got != 0 {
		t.Fatalf("EndSession() = %v, want 0", got)
	}

	if db.Saves("reading-stats") != 0 {
		t.Errorf("saves = %d, want 0", db.Saves("reading-stats"))
	}

	if len(rec.sessions) != 0 || rec.goals != 0 {
		t.Error("no notification expected without an active session")
	}
}

func TestSameDaySessionsKeepStreak(t *testing.T) {
	clock := &fakeClock{
		now: time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC),
	}
	db := testutil.NewMemoryDB()

	tracker := NewTracker(
		db,
		&recorderNotifier{},
		testSettings(),
		WithClock(clock.Now),
	)

	for i := 0; i < 3; i++ {
		tracker.StartSession()
		clock.Advance(5 * time.Minute)
		tracker.EndSession()
	}

	s := tracker.Snapshot()

	if s.Streak != 1 {
		t.Errorf("streak = %d, want 1", s.Streak)
	}

	if s.SessionsToday != 3 {
		t.Errorf("sessions today = %d, want 3", s.SessionsToday)
	}

	if s.TodayMinutes != 15 {
		t.Errorf("today minutes = %v, want 15", s.TodayMinutes)
	}
}

func TestGoalNotificationFiresOnce(t *testing.T) {
	clock := &fakeClock{
		now: time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC),
	}
	db := testutil.NewMemoryDB()
	rec := &recorderNotifier{}

	tracker := NewTracker(db, rec, testSettings(), WithClock(clock.Now))

	sessions := []time.Duration{
		20 * time.Minute, // below the goal
		15 * time.Minute, // crosses the goal
		10 * time.Minute, // already met
	}

	for _, d := range sessions {
		tracker.StartSession()
		clock.Advance(d)
		tracker.EndSession()
	}

	if rec.goals != 1 {
		t.Errorf("goal notifications = %d, want 1", rec.goals)
	}

	if len(rec.sessions) != 2 {
		t.Errorf("session notifications = %d, want 2", len(rec.sessions))
	}
}

func TestRolloverOnLoad(t *testing.T) {
	db := testutil.NewMemoryDB()
	db.Stats = models.ReadingStats{
		TodayMinutes:    42,
		TotalMinutes:    100,
		Streak:          5,
		LastSessionDate: "2024-03-05",
		SessionsToday:   3,
		DailyGoal:       30,
		Week:            "2024-W10",
	}
	db.Stats.WeeklyData[int(time.Tuesday)] = 42

	clock := &fakeClock{
		now: time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC),
	}

	tracker := NewTracker(
		db,
		&recorderNotifier{},
		testSettings(),
		WithClock(clock.Now),
	)

	want := models.ReadingStats{
		TotalMinutes:    100,
		Streak:          5,
		LastSessionDate: "2024-03-06",
		DailyGoal:       30,
		Week:            "2024-W10",
	}
	want.WeeklyData[int(time.Tuesday)] = 42

	if diff := cmp.Diff(want, tracker.Snapshot()); diff != "" {
		t.Errorf("stats mismatch after rollover (-want +got):\n%s", diff)
	}
}

func TestWeeklyReset(t *testing.T) {
	clock := &fakeClock{
		now: time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC),
	}

	seed := models.ReadingStats{
		TotalMinutes:    100,
		Streak:          5,
		LastSessionDate: "2024-03-06",
		DailyGoal:       30,
		Week:            "2024-W01",
	}
	seed.WeeklyData[0] = 30

	t.Run("disabled keeps the buckets", func(t *testing.T) {
		db := testutil.NewMemoryDB()
		db.Stats = seed

		tracker := NewTracker(
			db,
			&recorderNotifier{},
			testSettings(),
			WithClock(clock.Now),
		)

		s := tracker.Snapshot()

		if s.WeeklyData != seed.WeeklyData {
			t.Errorf("weekly data = %v, want %v", s.WeeklyData, seed.WeeklyData)
		}

		if s.Week != "2024-W01" {
			t.Errorf("week = %q, want 2024-W01", s.Week)
		}
	})

	t.Run("enabled zeroes the buckets on a new week", func(t *testing.T) {
		db := testutil.NewMemoryDB()
		db.Stats = seed

		cfg := testSettings()
		cfg.WeeklyReset = true

		tracker := NewTracker(
			db,
			&recorderNotifier{},
			cfg,
			WithClock(clock.Now),
		)

		s := tracker.Snapshot()

		if s.WeeklyData != ([7]float64{}) {
			t.Errorf("weekly data = %v, want zeroed", s.WeeklyData)
		}

		if s.Week != "2024-W10" {
			t.Errorf("week = %q, want 2024-W10", s.Week)
		}
	})
}

func TestGoalProgress(t *testing.T) {
	cases := []struct {
		name  string
		today float64
		goal  int
		want  float64
	}{
		{name: "no goal", today: 50, goal: 0, want: 0},
		{name: "partway", today: 15, goal: 30, want: 50},
		{name: "clamped at 100", today: 90, goal: 30, want: 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tracker := &Tracker{
				stats: models.ReadingStats{
					TodayMinutes: tc.today,
					DailyGoal:    tc.goal,
				},
			}

			if got := tracker.GoalProgress(); got != tc.want {
				t.Errorf("GoalProgress() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestUpdateDailyGoalPersists(t *testing.T) {
	db := testutil.NewMemoryDB()

	tracker := NewTracker(db, &recorderNotifier{}, testSettings())

	tracker.UpdateDailyGoal(60)

	if db.Stats.DailyGoal != 60 {
		t.Errorf("persisted goal = %d, want 60", db.Stats.DailyGoal)
	}

	if db.Saves("reading-stats") != 1 {
		t.Errorf("saves = %d, want 1", db.Saves("reading-stats"))
	}
}

func TestPersistFailureKeepsState(t *testing.T) {
	clock := &fakeClock{
		now: time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC),
	}
	db := testutil.NewMemoryDB()
	db.FailSaves = true

	tracker := NewTracker(
		db,
		&recorderNotifier{},
		testSettings(),
		WithClock(clock.Now),
	)

	tracker.StartSession()
	clock.Advance(10 * time.Minute)

	if got := tracker.EndSession(); got != 10 {
		t.Fatalf("EndSession() = %v, want 10", got)
	}

	if tracker.Snapshot().TodayMinutes != 10 {
		t.Error("in-memory stats should survive a failed save")
	}
}
