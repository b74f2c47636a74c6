package results

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/rubberband/assets"
	"github.com/robalobadob/rubberband/internal/game"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	migs, err := assets.Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	for _, m := range migs {
		_, err := db.Exec(m.SQL)
		require.NoError(t, err, m.Name)
	}
	return NewStore(db)
}

func TestDateKey(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	ts := time.Date(2026, 3, 2, 3, 0, 0, 0, loc)
	assert.Equal(t, "2026-03-01", DateKey(ts))
}

func TestInsertAndRecent(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	idA, err := st.Insert(ctx, Record{GameID: "a", Date: "2026-01-01", GridSize: 3,
		Scores: game.Scores{Player1: 2}, Result: game.ResultPlayer1Wins, Connections: 12})
	require.NoError(t, err)
	assert.NotEmpty(t, idA)
	_, err = st.Insert(ctx, Record{GameID: "b", Date: "2026-01-01", GridSize: 5,
		Result: game.ResultDraw, Connections: 40})
	require.NoError(t, err)

	got, err := st.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].GameID)
	assert.Equal(t, "a", got[1].GameID)
	assert.Equal(t, idA, got[1].ID)
	assert.Equal(t, game.Scores{Player1: 2}, got[1].Scores)
	assert.Equal(t, game.ResultPlayer1Wins, got[1].Result)
	assert.Equal(t, 12, got[1].Connections)
	assert.NotEmpty(t, got[1].CreatedAt)

	one, err := st.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)
}

func TestInsert_IgnoresDuplicateRecordID(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	r := Record{ID: "r1", GameID: "a", Date: "2026-01-01", GridSize: 2, Result: game.ResultDraw}

	id, err := st.Insert(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, "r1", id)
	r.Result = game.ResultPlayer2Wins
	_, err = st.Insert(ctx, r)
	require.NoError(t, err)

	got, err := st.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, game.ResultDraw, got[0].Result)
}

func TestInsert_SameGameTwice(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	r := Record{GameID: "a", Date: "2026-01-01", GridSize: 2, Result: game.ResultDraw}

	_, err := st.Insert(ctx, r)
	require.NoError(t, err)
	_, err = st.Insert(ctx, r)
	require.NoError(t, err)

	got, err := st.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestInsert_RejectsPendingResult(t *testing.T) {
	st := newTestStore(t)
	_, err := st.Insert(context.Background(), Record{GameID: "x", Date: "2026-01-01", GridSize: 2, Result: game.ResultPending})
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	rows := []Record{
		{GameID: "1", Date: "2026-01-01", GridSize: 3, Scores: game.Scores{Player1: 3, Player2: 1}, Result: game.ResultPlayer1Wins},
		{GameID: "2", Date: "2026-01-01", GridSize: 3, Scores: game.Scores{Player2: 2}, Result: game.ResultPlayer2Wins},
		{GameID: "3", Date: "2026-01-01", GridSize: 3, Result: game.ResultDraw},
		{GameID: "4", Date: "2026-01-02", GridSize: 3, Scores: game.Scores{Player1: 1}, Result: game.ResultPlayer1Wins},
	}
	for _, r := range rows {
		_, err := st.Insert(ctx, r)
		require.NoError(t, err)
	}

	sum, err := st.Summary(ctx, "2026-01-01")
	require.NoError(t, err)
	assert.Equal(t, Summary{Date: "2026-01-01", Games: 3, Player1Wins: 1, Player2Wins: 1, Draws: 1, Triangles: 6}, sum)

	empty, err := st.Summary(ctx, "1999-01-01")
	require.NoError(t, err)
	assert.Equal(t, Summary{Date: "1999-01-01"}, empty)
}

func TestFromSnapshot(t *testing.T) {
	e, err := game.New(2)
	require.NoError(t, err)
	for _, pair := range [][2]game.PegID{
		{{Row: 0, Col: 0}, {Row: 0, Col: 1}},
		{{Row: 1, Col: 0}, {Row: 1, Col: 1}},
		{{Row: 0, Col: 0}, {Row: 1, Col: 0}},
		{{Row: 0, Col: 1}, {Row: 1, Col: 1}},
	} {
		_, err := e.SelectPeg(pair[0])
		require.NoError(t, err)
		_, err = e.SelectPeg(pair[1])
		require.NoError(t, err)
	}
	require.True(t, e.Over())

	r := FromSnapshot(e.Snapshot(), time.Date(2026, 5, 6, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, e.ID, r.GameID)
	assert.Equal(t, "2026-05-06", r.Date)
	assert.Equal(t, 2, r.GridSize)
	assert.Equal(t, game.ResultDraw, r.Result)
	assert.Equal(t, 4, r.Connections)
}
