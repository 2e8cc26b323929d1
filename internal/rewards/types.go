package rewards

import "time"

// Game identifies a mini-game.
type Game string

const (
	GameSequence Game = "sequence"
	GameLabel    Game = "label"
)

// PointsPerWin is awarded for every won game.
const PointsPerWin = 100

// Outcome is the result of one finished game.
type Outcome struct {
	Game  Game
	Won   bool
	Score int
	Total int
}

// Award is what an outcome earned. A loss earns nothing.
type Award struct {
	Game        Game
	Points      int
	StreakDelta int
	AwardedAt   time.Time
}

// Totals are a user's accumulated rewards.
type Totals struct {
	Points int
	Streak int
	Games  int
	Wins   int
}
