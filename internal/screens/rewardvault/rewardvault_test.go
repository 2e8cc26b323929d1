package rewardvault

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/lennai/lennai/internal/rewards"
	"github.com/lennai/lennai/internal/store"
)

func newVault(t *testing.T) (*VaultScreen, *rewards.Service) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return New(s.RewardRepo(), "u1"), rewards.NewService(s.RewardRepo(), "u1")
}

func TestShowsTotals(t *testing.T) {
	v, svc := newVault(t)
	ctx := context.Background()
	for _, o := range []rewards.Outcome{
		{Game: rewards.GameSequence, Won: true, Score: 5, Total: 5},
		{Game: rewards.GameLabel, Won: false, Score: 2, Total: 4},
		{Game: rewards.GameLabel, Won: true, Score: 4, Total: 4},
	} {
		if _, err := svc.Record(ctx, o); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	v.Update(v.Init()())
	view := v.View(100, 30)
	for _, want := range []string{"200 points", "2 streak", "2 of 3 games won"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestFilterByGame(t *testing.T) {
	v, svc := newVault(t)
	ctx := context.Background()
	svc.Record(ctx, rewards.Outcome{Game: rewards.GameSequence, Won: true, Score: 3, Total: 3})
	svc.Record(ctx, rewards.Outcome{Game: rewards.GameLabel, Won: false, Score: 1, Total: 4})
	v.Update(v.Init()())

	if len(v.filtered()) != 2 {
		t.Fatalf("all filter: %d events", len(v.filtered()))
	}
	v.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if got := v.filtered(); len(got) != 1 || got[0].Game != string(rewards.GameSequence) {
		t.Errorf("sequence filter: %+v", got)
	}
	v.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if got := v.filtered(); len(got) != 1 || got[0].Game != string(rewards.GameLabel) {
		t.Errorf("label filter: %+v", got)
	}
}

func TestEmptyLog(t *testing.T) {
	v, _ := newVault(t)
	v.Update(v.Init()())
	if !strings.Contains(v.View(100, 30), "No games played yet") {
		t.Error("expected empty-state message")
	}
}
