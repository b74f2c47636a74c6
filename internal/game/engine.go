// internal/game/engine.go
//
// Core game engine for a single rubber band board.
// Responsibilities:
//   - Create boards of N×N pegs (default 5×5).
//   - Handle peg clicks: select, deselect, reject duplicates, connect.
//   - Detect newly formed triangles and credit them to the mover.
//   - Apply the turn rule: a scoring move keeps the turn, otherwise it passes.
//   - Track state transitions: in progress → game over → (reset) → in progress.
//
// Notes:
//   - The engine is single-writer and holds no locks; callers serialize access
//     (see the store package).
//   - Game over is reached when no grid-adjacent, unconnected pair remains,
//     even though a connect action itself accepts any two distinct pegs.
package game

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	DefaultGridSize = 5
	MinGridSize     = 2
	MaxGridSize     = 12
)

// Engine holds the complete state of one game.
type Engine struct {
	ID string // Unique game identifier (uuid).

	size        int
	pegs        []PegID // canonical order
	edges       EdgeSet
	connections []Connection
	claimed     map[string]struct{}
	triangles   []Triangle
	scores      Scores
	current     Player
	selected    *PegID
	over        bool
}

// New constructs and initializes an engine with a fresh id.
func New(gridSize int) (*Engine, error) {
	e := &Engine{ID: uuid.NewString()}
	if err := e.Initialize(gridSize); err != nil {
		return nil, err
	}
	return e, nil
}

// Initialize wipes the board and starts a new game on a gridSize×gridSize grid.
// On error the previous state is left untouched.
func (e *Engine) Initialize(gridSize int) error {
	if gridSize < MinGridSize || gridSize > MaxGridSize {
		return fmt.Errorf("%w: grid size %d outside [%d,%d]", ErrInvalidConfiguration, gridSize, MinGridSize, MaxGridSize)
	}
	pegs := make([]PegID, 0, gridSize*gridSize)
	for row := 0; row < gridSize; row++ {
		for col := 0; col < gridSize; col++ {
			pegs = append(pegs, PegID{Row: row, Col: col})
		}
	}
	e.size = gridSize
	e.pegs = pegs
	e.edges = make(EdgeSet)
	e.connections = nil
	e.claimed = make(map[string]struct{})
	e.triangles = nil
	e.scores = Scores{}
	e.current = Player1
	e.selected = nil
	e.over = false
	return nil
}

// Reset re-initializes the board with the last used grid size.
func (e *Engine) Reset() {
	size := e.size
	if size == 0 {
		size = DefaultGridSize
	}
	// size is either the validated size of the last Initialize or the default,
	// so Initialize cannot fail here.
	_ = e.Initialize(size)
}

// SelectPeg models a click on a peg.
//
// Rules, in order:
//   - Peg outside the grid → ErrUnknownPeg, nothing changes.
//   - Game over → ErrGameOver, nothing changes.
//   - No selection → the peg becomes selected.
//   - Same peg as the selection → selection cleared.
//   - Pair already connected → selection cleared, ErrDuplicateConnection.
//   - Otherwise the pair is connected (see connect).
func (e *Engine) SelectPeg(id PegID) (Outcome, error) {
	if !e.contains(id) {
		return Outcome{Kind: OutcomeRejected, Peg: id}, fmt.Errorf("%w: %s", ErrUnknownPeg, id)
	}
	if e.over {
		return Outcome{Kind: OutcomeRejected, Peg: id}, ErrGameOver
	}
	if e.selected == nil {
		sel := id
		e.selected = &sel
		return Outcome{Kind: OutcomeSelected, Peg: id}, nil
	}
	from := *e.selected
	if from == id {
		e.selected = nil
		return Outcome{Kind: OutcomeDeselected, Peg: id}, nil
	}
	if e.edges.Has(from, id) {
		e.selected = nil
		return Outcome{Kind: OutcomeRejected, Peg: id}, ErrDuplicateConnection
	}
	return e.connect(from, id), nil
}

// connect draws the edge from→to for the current player.
func (e *Engine) connect(from, to PegID) Outcome {
	edge := NewEdge(from, to)
	found := FindNewTriangles(e.pegs, e.edges, edge, e.claimed)

	mover := e.current
	e.edges[edge] = struct{}{}
	e.connections = append(e.connections, Connection{Edge: edge, By: mover, Seq: len(e.connections) + 1})

	for i := range found {
		found[i].Owner = mover
		found[i].Order = len(e.triangles) + 1
		e.claimed[found[i].ID] = struct{}{}
		e.triangles = append(e.triangles, found[i])
	}
	e.scores.add(mover, len(found))

	passed := len(found) == 0
	if passed {
		e.current = mover.Other()
	}
	e.selected = nil

	if len(LegalMoves(e.size, e.edges)) == 0 {
		e.over = true
	}

	return Outcome{
		Kind:         OutcomeConnected,
		Peg:          to,
		Edge:         &edge,
		NewTriangles: found,
		TurnPassed:   passed,
		GameOver:     e.over,
	}
}

func (e *Engine) contains(id PegID) bool {
	return id.Row >= 0 && id.Row < e.size && id.Col >= 0 && id.Col < e.size
}

// Size returns the grid dimension N.
func (e *Engine) Size() int { return e.size }

// CurrentPlayer returns whose turn it is.
func (e *Engine) CurrentPlayer() Player { return e.current }

// Scores returns the per-player scores.
func (e *Engine) Scores() Scores { return e.scores }

// Selected returns the peg awaiting a second click, if any.
func (e *Engine) Selected() (PegID, bool) {
	if e.selected == nil {
		return PegID{}, false
	}
	return *e.selected, true
}

// Over reports whether the game has reached its terminal state.
func (e *Engine) Over() bool { return e.over }

// Connected reports whether a and b share an edge.
func (e *Engine) Connected(a, b PegID) bool { return e.edges.Has(a, b) }

// Connections returns a copy of the drawn connections in draw order.
func (e *Engine) Connections() []Connection {
	return append([]Connection(nil), e.connections...)
}

// Triangles returns a copy of the claimed triangles in discovery order.
func (e *Engine) Triangles() []Triangle {
	return append([]Triangle(nil), e.triangles...)
}

// LegalMoves returns the grid-adjacent pairs still open.
func (e *Engine) LegalMoves() []Edge { return LegalMoves(e.size, e.edges) }

// Result reports the winner once the game is over.
func (e *Engine) Result() Result {
	if !e.over {
		return ResultPending
	}
	switch {
	case e.scores.Player1 > e.scores.Player2:
		return ResultPlayer1Wins
	case e.scores.Player2 > e.scores.Player1:
		return ResultPlayer2Wins
	}
	return ResultDraw
}
