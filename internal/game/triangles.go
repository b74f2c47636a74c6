package game

import "sort"

// EdgeSet is a lookup set of normalized edges.
type EdgeSet map[Edge]struct{}

// Has reports whether a and b are connected, in either order.
func (s EdgeSet) Has(a, b PegID) bool {
	_, ok := s[NewEdge(a, b)]
	return ok
}

// TriangleKey returns the identity key of three pegs regardless of order.
func TriangleKey(a, b, c PegID) string {
	ps := sortedTriple(a, b, c)
	return ps[0].String() + "|" + ps[1].String() + "|" + ps[2].String()
}

func sortedTriple(a, b, c PegID) [3]PegID {
	ps := [3]PegID{a, b, c}
	sort.Slice(ps[:], func(i, j int) bool { return ps[i].Less(ps[j]) })
	return ps
}

// FindNewTriangles returns every triangle that exists once candidate is added
// to edges and whose key is not in claimed.
//
// The scan is brute force over all ordered peg triples (p1 < p2 < p3), so each
// 3-peg combination is examined once. Results come back in scan order, which
// is the canonical order of the triangles' first, second and third pegs.
// Owner and Order are left zero; the caller assigns them.
func FindNewTriangles(pegs []PegID, edges EdgeSet, candidate Edge, claimed map[string]struct{}) []Triangle {
	has := func(a, b PegID) bool {
		return edges.Has(a, b) || NewEdge(a, b) == candidate
	}

	ordered := append([]PegID(nil), pegs...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Less(ordered[j]) })

	var found []Triangle
	n := len(ordered)
	for i := 0; i < n; i++ {
		p1 := ordered[i]
		for j := i + 1; j < n; j++ {
			p2 := ordered[j]
			if !has(p1, p2) {
				continue
			}
			for k := j + 1; k < n; k++ {
				p3 := ordered[k]
				if !has(p2, p3) || !has(p3, p1) {
					continue
				}
				key := TriangleKey(p1, p2, p3)
				if _, ok := claimed[key]; ok {
					continue
				}
				found = append(found, Triangle{ID: key, Pegs: [3]PegID{p1, p2, p3}})
			}
		}
	}
	return found
}

// LegalMoves lists every grid-adjacent peg pair that is not yet connected.
// Only adjacency counts here, even though a connect action accepts any pair.
func LegalMoves(size int, edges EdgeSet) []Edge {
	var moves []Edge
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			p := PegID{Row: r, Col: c}
			if c+1 < size {
				if q := (PegID{Row: r, Col: c + 1}); !edges.Has(p, q) {
					moves = append(moves, NewEdge(p, q))
				}
			}
			if r+1 < size {
				if q := (PegID{Row: r + 1, Col: c}); !edges.Has(p, q) {
					moves = append(moves, NewEdge(p, q))
				}
			}
		}
	}
	return moves
}
