package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gridPegs(n int) []PegID {
	var out []PegID
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			out = append(out, peg(r, c))
		}
	}
	return out
}

func edgeSet(edges ...Edge) EdgeSet {
	s := make(EdgeSet)
	for _, e := range edges {
		s[e] = struct{}{}
	}
	return s
}

func TestFindNewTriangles(t *testing.T) {
	pegs := gridPegs(3)
	a, b, c := peg(0, 0), peg(0, 1), peg(1, 1)

	tests := []struct {
		name      string
		edges     EdgeSet
		candidate Edge
		claimed   map[string]struct{}
		want      []string
	}{
		{
			name:      "empty board",
			edges:     edgeSet(),
			candidate: NewEdge(a, b),
			want:      nil,
		},
		{
			name:      "two sides only",
			edges:     edgeSet(NewEdge(a, b)),
			candidate: NewEdge(b, c),
			want:      nil,
		},
		{
			name:      "candidate closes triangle",
			edges:     edgeSet(NewEdge(a, b), NewEdge(b, c)),
			candidate: NewEdge(c, a),
			want:      []string{"0-0|0-1|1-1"},
		},
		{
			name:      "already claimed",
			edges:     edgeSet(NewEdge(a, b), NewEdge(b, c)),
			candidate: NewEdge(c, a),
			claimed:   map[string]struct{}{"0-0|0-1|1-1": {}},
			want:      nil,
		},
		{
			name:      "long edges count",
			edges:     edgeSet(NewEdge(peg(0, 0), peg(2, 2)), NewEdge(peg(2, 2), peg(2, 0))),
			candidate: NewEdge(peg(2, 0), peg(0, 0)),
			want:      []string{"0-0|2-0|2-2"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FindNewTriangles(pegs, tc.edges, tc.candidate, tc.claimed)
			var ids []string
			for _, tri := range got {
				ids = append(ids, tri.ID)
				assert.Zero(t, tri.Owner)
			}
			assert.Equal(t, tc.want, ids)
		})
	}
}

func TestFindNewTriangles_DoesNotMutateInputs(t *testing.T) {
	pegs := []PegID{peg(1, 1), peg(0, 0), peg(0, 1)}
	edges := edgeSet(NewEdge(peg(0, 0), peg(0, 1)), NewEdge(peg(0, 1), peg(1, 1)))

	got := FindNewTriangles(pegs, edges, NewEdge(peg(1, 1), peg(0, 0)), nil)

	require.Len(t, got, 1)
	assert.Equal(t, [3]PegID{peg(0, 0), peg(0, 1), peg(1, 1)}, got[0].Pegs)
	assert.Equal(t, peg(1, 1), pegs[0], "input order preserved")
	assert.Len(t, edges, 2, "candidate not added")
}

func TestTriangleKey_OrderIndependent(t *testing.T) {
	a, b, c := peg(2, 10), peg(10, 2), peg(2, 3)
	want := "2-3|2-10|10-2"
	assert.Equal(t, want, TriangleKey(a, b, c))
	assert.Equal(t, want, TriangleKey(c, a, b))
	assert.Equal(t, want, TriangleKey(b, c, a))
}

// adjacent reports whether a and b differ by exactly one in one axis.
func adjacent(a, b PegID) bool {
	abs := func(n int) int {
		if n < 0 {
			return -n
		}
		return n
	}
	return abs(a.Row-b.Row)+abs(a.Col-b.Col) == 1
}

func TestLegalMoves(t *testing.T) {
	assert.Len(t, LegalMoves(2, edgeSet()), 4)
	assert.Len(t, LegalMoves(5, edgeSet()), 40)

	edges := edgeSet(NewEdge(peg(0, 0), peg(0, 1)), NewEdge(peg(0, 0), peg(1, 1)))
	moves := LegalMoves(2, edges)
	assert.Len(t, moves, 3)
	for _, m := range moves {
		assert.True(t, adjacent(m.A, m.B))
		assert.NotEqual(t, NewEdge(peg(0, 0), peg(0, 1)), m)
	}
}

func TestLegalMoves_OnlyRightAndDownNeighbours(t *testing.T) {
	const n = 4
	moves := LegalMoves(n, edgeSet())
	assert.Len(t, moves, 2*n*(n-1))
	seen := make(map[Edge]struct{})
	for _, m := range moves {
		assert.True(t, adjacent(m.A, m.B), m.Key())
		assert.True(t, m.A.Less(m.B), m.Key())
		seen[m] = struct{}{}
	}
	assert.Len(t, seen, len(moves), "no pair listed twice")
}

func TestParsePegID(t *testing.T) {
	id, err := ParsePegID(" 3-4 ")
	require.NoError(t, err)
	assert.Equal(t, peg(3, 4), id)

	for _, s := range []string{"", "3", "a-1", "1-b", "1_2"} {
		_, err := ParsePegID(s)
		assert.ErrorIs(t, err, ErrBadPegID, "input %q", s)
	}
}

func TestPegID_JSON(t *testing.T) {
	b, err := json.Marshal(NewEdge(peg(1, 0), peg(0, 1)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"0-1","b":"1-0"}`, string(b))

	var e Edge
	require.NoError(t, json.Unmarshal([]byte(`{"a":"2-2","b":"2-3"}`), &e))
	assert.Equal(t, NewEdge(peg(2, 2), peg(2, 3)), e)
}

func TestLayout(t *testing.T) {
	assert.Equal(t, Point{X: 50, Y: 50}, DefaultLayout.Project(peg(0, 0), 5))
	assert.Equal(t, Point{X: 450, Y: 150}, DefaultLayout.Project(peg(1, 4), 5))

	tri := Triangle{Pegs: [3]PegID{peg(0, 0), peg(0, 1), peg(1, 1)}}
	c := DefaultLayout.Centroid(tri, 5)
	assert.InDelta(t, (50.0+150+150)/3, c.X, 1e-9)
	assert.InDelta(t, (50.0+50+150)/3, c.Y, 1e-9)
}

func TestSnapshot_TriangleCentroids(t *testing.T) {
	e := newEngine(t, 3)
	connect(t, e, peg(0, 0), peg(0, 1))
	connect(t, e, peg(0, 1), peg(1, 1))
	connect(t, e, peg(1, 1), peg(0, 0))

	s := e.Snapshot()
	require.Len(t, s.Triangles, 1)
	assert.InDelta(t, 2.0/3, s.Triangles[0].GridCenter.X, 1e-9)
	assert.InDelta(t, 1.0/3, s.Triangles[0].GridCenter.Y, 1e-9)
	assert.Equal(t, e.ID, s.GameID)
	assert.Equal(t, 3, s.Moves)
	assert.Equal(t, Player1, s.CurrentPlayer)

	// Mutating the snapshot leaves the engine untouched.
	s.Connections[0].By = Player2
	assert.Equal(t, Player1, e.Connections()[0].By)
}
