package rewards

import (
	"context"
	"fmt"
	"time"

	"github.com/lennai/lennai/internal/store"
)

// Service records game outcomes for one user and derives their totals.
type Service struct {
	repo   store.RewardRepo
	userID string

	// SessionAwards accumulates awards earned since the service was created.
	SessionAwards []Award
}

// NewService creates a reward service for userID.
func NewService(repo store.RewardRepo, userID string) *Service {
	return &Service{repo: repo, userID: userID}
}

// Record stores the outcome. A win adds PointsPerWin and extends the
// streak by one; a loss changes neither.
func (s *Service) Record(ctx context.Context, o Outcome) (*Award, error) {
	award := &Award{Game: o.Game, AwardedAt: time.Now()}
	if o.Won {
		award.Points = PointsPerWin
		award.StreakDelta = 1
	}

	if s.repo != nil {
		err := s.repo.AppendRewardEvent(ctx, store.RewardEventData{
			UserID: s.userID,
			Game:   string(o.Game),
			Won:    o.Won,
			Score:  o.Score,
			Total:  o.Total,
			Points: award.Points,
		})
		if err != nil {
			return nil, fmt.Errorf("record %s outcome: %w", o.Game, err)
		}
	}

	if o.Won {
		s.SessionAwards = append(s.SessionAwards, *award)
	}
	return award, nil
}

// Totals sums the user's recorded outcomes.
func (s *Service) Totals(ctx context.Context) (Totals, error) {
	if s.repo == nil {
		return Totals{}, nil
	}
	events, err := s.repo.QueryRewardEvents(ctx, s.userID, store.QueryOpts{})
	if err != nil {
		return Totals{}, fmt.Errorf("query reward events: %w", err)
	}
	return Summarize(events), nil
}

// Summarize folds reward events into totals.
func Summarize(events []store.RewardEventRecord) Totals {
	var t Totals
	for _, e := range events {
		t.Games++
		t.Points += e.Points
		if e.Won {
			t.Wins++
			t.Streak++
		}
	}
	return t
}
