// internal/results/store.go
//
// Ledger of finished games, backed by the game_results table.
// A row is written once a board reaches game over; in-progress boards are
// never stored here.

package results

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/rubberband/internal/game"
)

// DefaultLimit caps Recent when no positive limit is given.
const DefaultLimit = 20

// Record is one finished game.
type Record struct {
	ID          string      `json:"id"`
	GameID      string      `json:"gameId"`
	Date        string      `json:"date"`
	GridSize    int         `json:"gridSize"`
	Scores      game.Scores `json:"scores"`
	Result      game.Result `json:"result"`
	Connections int         `json:"connections"`
	CreatedAt   string      `json:"createdAt,omitempty"`
}

// FromSnapshot builds a record for a finished game dated at now.
func FromSnapshot(s game.Snapshot, now time.Time) Record {
	return Record{
		GameID:      s.GameID,
		Date:        DateKey(now),
		GridSize:    s.GridSize,
		Scores:      s.Scores,
		Result:      s.Result,
		Connections: s.Moves,
	}
}

// Summary aggregates the results of one day.
type Summary struct {
	Date        string `json:"date"`
	Games       int    `json:"games"`
	Player1Wins int    `json:"player1Wins"`
	Player2Wins int    `json:"player2Wins"`
	Draws       int    `json:"draws"`
	Triangles   int    `json:"triangles"`
}

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Insert records a finished game and returns the record id. A record id is
// generated when r.ID is empty; re-inserting an existing id is ignored.
func (s *Store) Insert(ctx context.Context, r Record) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO game_results(id, game_id, date, grid_size, player1, player2, result, connections)
VALUES(?,?,?,?,?,?,?,?)`,
		r.ID, r.GameID, r.Date, r.GridSize, r.Scores.Player1, r.Scores.Player2, string(r.Result), r.Connections,
	)
	return r.ID, err
}

// Recent returns the latest finished games, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, game_id, date, grid_size, player1, player2, result, connections, created_at
FROM game_results
ORDER BY created_at DESC, rowid DESC
LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Record, 0, limit)
	for rows.Next() {
		var r Record
		var res string
		if err := rows.Scan(&r.ID, &r.GameID, &r.Date, &r.GridSize, &r.Scores.Player1, &r.Scores.Player2,
			&res, &r.Connections, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Result = game.Result(res)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Summary totals the games finished on date.
func (s *Store) Summary(ctx context.Context, date string) (Summary, error) {
	sum := Summary{Date: date}
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1),
       COALESCE(SUM(result = 'player1'), 0),
       COALESCE(SUM(result = 'player2'), 0),
       COALESCE(SUM(result = 'draw'), 0),
       COALESCE(SUM(player1 + player2), 0)
FROM game_results
WHERE date=?`, date,
	).Scan(&sum.Games, &sum.Player1Wins, &sum.Player2Wins, &sum.Draws, &sum.Triangles)
	return sum, err
}
