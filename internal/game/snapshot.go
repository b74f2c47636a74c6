// internal/game/snapshot.go
//
// Read-only view of an engine for the presentation layer.
// A Snapshot shares no memory with the engine that produced it.

package game

// Point is a projected position in board pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Layout projects grid coordinates onto a square drawing surface.
type Layout struct {
	Size   float64 // distance between the first and last peg on an axis
	Margin float64 // offset of peg (0,0) from the surface edge
}

// DefaultLayout matches a 500×500 board with 50px margins.
var DefaultLayout = Layout{Size: 400, Margin: 50}

// Project returns the position of peg p on an n×n grid.
func (l Layout) Project(p PegID, n int) Point {
	spacing := 0.0
	if n > 1 {
		spacing = l.Size / float64(n-1)
	}
	return Point{
		X: float64(p.Col)*spacing + l.Margin,
		Y: float64(p.Row)*spacing + l.Margin,
	}
}

// Centroid returns the mean of the three projected pegs of t.
func (l Layout) Centroid(t Triangle, n int) Point {
	var c Point
	for _, p := range t.Pegs {
		pt := l.Project(p, n)
		c.X += pt.X
		c.Y += pt.Y
	}
	c.X /= 3
	c.Y /= 3
	return c
}

// PegView is a peg with its projected position.
type PegView struct {
	Peg
	Point
}

// TriangleView is a claimed triangle with its centroids.
type TriangleView struct {
	Triangle
	Center     Point `json:"center"`     // projected pixels
	GridCenter Point `json:"gridCenter"` // grid units, X=col Y=row
}

// Snapshot is the full outbound state of a game.
type Snapshot struct {
	GameID        string         `json:"gameId"`
	GridSize      int            `json:"gridSize"`
	Pegs          []PegView      `json:"pegs"`
	Connections   []Connection   `json:"connections"`
	Triangles     []TriangleView `json:"triangles"`
	CurrentPlayer Player         `json:"currentPlayer"`
	Scores        Scores         `json:"scores"`
	Selected      *PegID         `json:"selected"`
	GameOver      bool           `json:"gameOver"`
	Result        Result         `json:"result"`
	LegalMoves    int            `json:"legalMoves"`
	Moves         int            `json:"moves"`
}

// Snapshot captures the engine state projected with DefaultLayout.
func (e *Engine) Snapshot() Snapshot { return e.SnapshotWith(DefaultLayout) }

// SnapshotWith captures the engine state projected with l.
func (e *Engine) SnapshotWith(l Layout) Snapshot {
	s := Snapshot{
		GameID:        e.ID,
		GridSize:      e.size,
		Pegs:          make([]PegView, 0, len(e.pegs)),
		Connections:   e.Connections(),
		Triangles:     make([]TriangleView, 0, len(e.triangles)),
		CurrentPlayer: e.current,
		Scores:        e.scores,
		GameOver:      e.over,
		Result:        e.Result(),
		LegalMoves:    len(e.LegalMoves()),
		Moves:         len(e.connections),
	}
	if s.Connections == nil {
		s.Connections = []Connection{}
	}
	for _, p := range e.pegs {
		s.Pegs = append(s.Pegs, PegView{
			Peg:   Peg{ID: p.String(), Row: p.Row, Col: p.Col},
			Point: l.Project(p, e.size),
		})
	}
	for _, t := range e.triangles {
		var g Point
		for _, p := range t.Pegs {
			g.X += float64(p.Col)
			g.Y += float64(p.Row)
		}
		g.X /= 3
		g.Y /= 3
		s.Triangles = append(s.Triangles, TriangleView{
			Triangle:   t,
			Center:     l.Centroid(t, e.size),
			GridCenter: g,
		})
	}
	if sel, ok := e.Selected(); ok {
		s.Selected = &sel
	}
	return s
}
