package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type rewardRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *rewardRepo) AppendRewardEvent(ctx context.Context, data RewardEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := sqlite.Insert(rewardEventsTable.Name).
		Columns("sequence", "timestamp", "user_id", "game", "won", "score", "total", "points").
		Values(seqNum, time.Now().UTC(), data.UserID, data.Game, data.Won, data.Score, data.Total, data.Points).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save reward event: %w", err)
	}
	return nil
}

func (r *rewardRepo) QueryRewardEvents(ctx context.Context, userID string, opts QueryOpts) ([]RewardEventRecord, error) {
	sel := sqlite.Select("id", "sequence", "timestamp", "user_id", "game", "won", "score", "total", "points").
		From(entsql.Table(rewardEventsTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("sequence"))
	applyQueryOpts(sel, opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reward events: %w", err)
	}
	defer rows.Close()

	var out []RewardEventRecord
	for rows.Next() {
		var e RewardEventRecord
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp, &e.UserID, &e.Game, &e.Won, &e.Score, &e.Total, &e.Points); err != nil {
			return nil, fmt.Errorf("scan reward event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
