package rewards

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/lennai/lennai/internal/store"
)

// mockRewardRepo implements store.RewardRepo for rewards tests.
type mockRewardRepo struct {
	events []store.RewardEventData
	err    error
}

func (m *mockRewardRepo) AppendRewardEvent(_ context.Context, data store.RewardEventData) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, data)
	return nil
}

func (m *mockRewardRepo) QueryRewardEvents(_ context.Context, userID string, _ store.QueryOpts) ([]store.RewardEventRecord, error) {
	var out []store.RewardEventRecord
	for i := len(m.events) - 1; i >= 0; i-- {
		if m.events[i].UserID == userID {
			out = append(out, store.RewardEventRecord{RewardEventData: m.events[i]})
		}
	}
	return out, nil
}

func TestRecord_WinAwardsPointsAndStreak(t *testing.T) {
	repo := &mockRewardRepo{}
	svc := NewService(repo, "u1")

	award, err := svc.Record(context.Background(), Outcome{Game: GameSequence, Won: true, Score: 100, Total: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if award.Points != PointsPerWin || award.StreakDelta != 1 {
		t.Errorf("award = %+v", award)
	}
	if len(repo.events) != 1 || repo.events[0].Points != PointsPerWin || repo.events[0].UserID != "u1" {
		t.Errorf("events = %+v", repo.events)
	}
	if len(svc.SessionAwards) != 1 {
		t.Errorf("expected 1 session award, got %d", len(svc.SessionAwards))
	}
}

func TestRecord_LossAwardsNothing(t *testing.T) {
	repo := &mockRewardRepo{}
	svc := NewService(repo, "u1")

	award, err := svc.Record(context.Background(), Outcome{Game: GameLabel, Won: false, Score: 3, Total: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if award.Points != 0 || award.StreakDelta != 0 {
		t.Errorf("award = %+v", award)
	}
	if len(repo.events) != 1 || repo.events[0].Won {
		t.Errorf("events = %+v", repo.events)
	}
	if len(svc.SessionAwards) != 0 {
		t.Errorf("expected no session awards, got %d", len(svc.SessionAwards))
	}
}

func TestRecord_RepoError(t *testing.T) {
	svc := NewService(&mockRewardRepo{err: errors.New("locked")}, "u1")
	if _, err := svc.Record(context.Background(), Outcome{Game: GameLabel, Won: true}); err == nil {
		t.Fatal("expected error")
	}
}

func TestTotals(t *testing.T) {
	repo := &mockRewardRepo{}
	svc := NewService(repo, "u1")
	other := NewService(repo, "u2")
	ctx := context.Background()

	svc.Record(ctx, Outcome{Game: GameSequence, Won: true})
	svc.Record(ctx, Outcome{Game: GameLabel, Won: false})
	svc.Record(ctx, Outcome{Game: GameLabel, Won: true})
	other.Record(ctx, Outcome{Game: GameLabel, Won: true})

	totals, err := svc.Totals(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Totals{Points: 200, Streak: 2, Games: 3, Wins: 2}
	if totals != want {
		t.Errorf("totals = %+v, want %+v", totals, want)
	}
}

func TestTotals_SQLiteStore(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "rewards.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	svc := NewService(st.RewardRepo(), "u1")
	ctx := context.Background()
	if _, err := svc.Record(ctx, Outcome{Game: GameSequence, Won: true, Score: 100, Total: 100}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Record(ctx, Outcome{Game: GameLabel, Won: false, Score: 2, Total: 4}); err != nil {
		t.Fatal(err)
	}

	totals, err := svc.Totals(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if totals.Points != 100 || totals.Streak != 1 || totals.Games != 2 {
		t.Errorf("totals = %+v", totals)
	}
}

func TestTotals_NilRepo(t *testing.T) {
	svc := NewService(nil, "u1")
	if _, err := svc.Record(context.Background(), Outcome{Game: GameLabel, Won: true}); err != nil {
		t.Fatal(err)
	}
	totals, err := svc.Totals(context.Background())
	if err != nil || totals != (Totals{}) {
		t.Fatalf("totals = %+v, err = %v", totals, err)
	}
}
