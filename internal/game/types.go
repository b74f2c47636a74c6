// internal/game/types.go
//
// Core type definitions for the rubber band game engine.
// Defines:
//   - PegID / Peg: fixed grid points addressed by row and column.
//   - Edge: a drawn connection between two pegs.
//   - Triangle: three mutually connected pegs claimed by a player.
//   - Player, Scores, Result: turn and scoring state.
//   - Outcome: what a single SelectPeg call did.

package game

import (
	"fmt"
	"strconv"
	"strings"
)

// PegID identifies a peg by its grid coordinates.
// It encodes to JSON as the "row-col" key.
type PegID struct {
	Row int
	Col int
}

// String renders the stable "row-col" key.
func (p PegID) String() string {
	return strconv.Itoa(p.Row) + "-" + strconv.Itoa(p.Col)
}

// Less orders pegs numerically by row, then column.
func (p PegID) Less(o PegID) bool {
	if p.Row != o.Row {
		return p.Row < o.Row
	}
	return p.Col < o.Col
}

// ParsePegID parses a "row-col" key.
func ParsePegID(s string) (PegID, error) {
	r, c, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return PegID{}, fmt.Errorf("%w: %q", ErrBadPegID, s)
	}
	row, err := strconv.Atoi(r)
	if err != nil {
		return PegID{}, fmt.Errorf("%w: %q", ErrBadPegID, s)
	}
	col, err := strconv.Atoi(c)
	if err != nil {
		return PegID{}, fmt.Errorf("%w: %q", ErrBadPegID, s)
	}
	return PegID{Row: row, Col: col}, nil
}

// MarshalText encodes the peg as its "row-col" key.
func (p PegID) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText decodes a "row-col" key.
func (p *PegID) UnmarshalText(b []byte) error {
	id, err := ParsePegID(string(b))
	if err != nil {
		return err
	}
	*p = id
	return nil
}

// Peg is a fixed point on the board.
type Peg struct {
	ID  string `json:"id"` // "row-col"
	Row int    `json:"row"`
	Col int    `json:"col"`
}

// PegID returns the coordinate identity of the peg.
func (p Peg) PegID() PegID { return PegID{Row: p.Row, Col: p.Col} }

// Edge is an unordered pair of distinct pegs, stored with A < B.
type Edge struct {
	A PegID `json:"a"`
	B PegID `json:"b"`
}

// NewEdge normalizes the pair so that A orders before B.
func NewEdge(a, b PegID) Edge {
	if b.Less(a) {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

// Key returns "a|b" using the normalized order.
func (e Edge) Key() string { return e.A.String() + "|" + e.B.String() }

// Player is one of the two seats at the board.
type Player int

const (
	Player1 Player = 1
	Player2 Player = 2
)

// Other returns the opposing player.
func (p Player) Other() Player {
	if p == Player1 {
		return Player2
	}
	return Player1
}

func (p Player) String() string {
	switch p {
	case Player1:
		return "player1"
	case Player2:
		return "player2"
	}
	return "player?"
}

// Connection is an edge together with who drew it.
type Connection struct {
	Edge
	By  Player `json:"by"`
	Seq int    `json:"seq"` // 1-based draw order
}

// Triangle is a set of three pegs whose pairwise connections all exist.
type Triangle struct {
	ID    string   `json:"id"`    // sorted peg keys joined with "|"
	Pegs  [3]PegID `json:"pegs"`  // canonical order
	Owner Player   `json:"owner"` // player who completed it
	Order int      `json:"order"` // 1-based discovery order
}

// Scores holds the per-player triangle count.
type Scores struct {
	Player1 int `json:"player1"`
	Player2 int `json:"player2"`
}

// Of returns the score of p.
func (s Scores) Of(p Player) int {
	if p == Player2 {
		return s.Player2
	}
	return s.Player1
}

func (s *Scores) add(p Player, n int) {
	if p == Player2 {
		s.Player2 += n
		return
	}
	s.Player1 += n
}

// Result is the terminal determination of a game.
type Result string

const (
	ResultPending     Result = "pending"
	ResultPlayer1Wins Result = "player1"
	ResultPlayer2Wins Result = "player2"
	ResultDraw        Result = "draw"
)

// OutcomeKind classifies what a SelectPeg call did.
type OutcomeKind string

const (
	OutcomeSelected   OutcomeKind = "selected"
	OutcomeDeselected OutcomeKind = "deselected"
	OutcomeConnected  OutcomeKind = "connected"
	OutcomeRejected   OutcomeKind = "rejected"
)

// Outcome reports the effect of a single peg click.
type Outcome struct {
	Kind         OutcomeKind `json:"kind"`
	Peg          PegID       `json:"peg"`
	Edge         *Edge       `json:"edge,omitempty"`
	NewTriangles []Triangle  `json:"newTriangles,omitempty"`
	TurnPassed   bool        `json:"turnPassed"`
	GameOver     bool        `json:"gameOver"` // true only on the move that ended the game
}
