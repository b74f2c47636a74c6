// internal/httpserver/routes_game.go
//
// HTTP routes for playing a board:
//   - POST /game/new           → create a board, mint its token (503 at MaxGames)
//   - GET  /game/{id}          → current snapshot
//   - POST /game/{id}/select   → click a peg (token required)
//   - POST /game/{id}/reset    → start over with the same grid size (token required)
//
// Rejected moves (duplicate connection, game over) are answered with 200 and a
// "rejected" code; connections, scores and turn stay as they were.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/rubberband/internal/game"
	"github.com/robalobadob/rubberband/internal/results"
	"github.com/robalobadob/rubberband/internal/store"
)

// mountGame registers the /game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.Get("/game/{id}", s.handleGetGame)
	r.With(s.requireGameToken()).Post("/game/{id}/select", s.handleSelect)
	r.With(s.requireGameToken()).Post("/game/{id}/reset", s.handleReset)
}

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	GridSize int `json:"gridSize"` // optional, server default when 0
}
type newGameRes struct {
	GameID string        `json:"gameId"`
	Token  string        `json:"token"`
	State  game.Snapshot `json:"state"`
}

// handleNewGame creates a board, stores it, and returns its token.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if s.cfg.MaxGames > 0 && s.store.Len() >= s.cfg.MaxGames {
		hlog.FromRequest(r).Warn().Int("live", s.store.Len()).Msg("game limit reached")
		writeError(w, http.StatusServiceUnavailable, "too_many_games")
		return
	}
	size := req.GridSize
	if size == 0 {
		size = s.cfg.GridSize
	}

	g, err := game.New(size)
	if err != nil {
		writeError(w, http.StatusBadRequest, game.Code(err))
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	tok, exp, err := s.signGameToken(g.ID)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("sign game token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setGameCookie(w, g.ID, tok, exp)

	hlog.FromRequest(r).Info().Str("gameId", g.ID).Int("gridSize", size).Msg("game created")
	_ = json.NewEncoder(w).Encode(newGameRes{GameID: g.ID, Token: tok, State: g.Snapshot()})
}

// handleGetGame returns the current snapshot of a board.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	var snap game.Snapshot
	err := s.store.View(r.Context(), chi.URLParam(r, "id"), func(g *game.Engine) error {
		snap = g.Snapshot()
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	_ = json.NewEncoder(w).Encode(snap)
}

// selectReq/Res payloads for POST /game/{id}/select.
type selectReq struct {
	PegID string `json:"pegId"` // "row-col"
}
type selectRes struct {
	Outcome  game.Outcome  `json:"outcome"`
	Rejected string        `json:"rejected,omitempty"` // duplicate_connection | game_over
	State    game.Snapshot `json:"state"`
}

// handleSelect applies one peg click and broadcasts the new state.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	pid, err := game.ParsePegID(req.PegID)
	if err != nil {
		writeError(w, http.StatusBadRequest, game.Code(err))
		return
	}

	id := chi.URLParam(r, "id")
	var res selectRes
	err = s.store.Update(r.Context(), id, func(g *game.Engine) error {
		out, err := g.SelectPeg(pid)
		if err != nil && !game.IsRejected(err) {
			return err
		}
		res = selectRes{Outcome: out, Rejected: game.Code(err), State: g.Snapshot()}
		// A duplicate still clears the selection; only game-over clicks change nothing.
		if !errors.Is(err, game.ErrGameOver) {
			// Published under the store lock so subscribers see states in order.
			s.live.publish(id, res.State)
		}
		return nil
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
		return
	case errors.Is(err, game.ErrUnknownPeg):
		writeError(w, http.StatusBadRequest, game.Code(err))
		return
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Str("gameId", id).Msg("select peg")
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}

	logger := hlog.FromRequest(r)
	if res.Rejected != "" {
		logger.Debug().Str("gameId", id).Str("peg", pid.String()).Str("rejected", res.Rejected).Msg("move rejected")
	}
	if res.Outcome.Kind == game.OutcomeConnected {
		logger.Debug().Str("gameId", id).Str("edge", res.Outcome.Edge.Key()).
			Int("triangles", len(res.Outcome.NewTriangles)).Msg("connected")
	}
	if res.Outcome.GameOver {
		s.recordResult(r, res.State)
	}
	_ = json.NewEncoder(w).Encode(res)
}

// recordResult writes a finished game to the ledger; failures only log.
func (s *Server) recordResult(r *http.Request, snap game.Snapshot) {
	logger := hlog.FromRequest(r)
	logger.Info().Str("gameId", snap.GameID).Str("result", string(snap.Result)).
		Int("player1", snap.Scores.Player1).Int("player2", snap.Scores.Player2).Msg("game over")
	if s.results == nil {
		return
	}
	if _, err := s.results.Insert(r.Context(), results.FromSnapshot(snap, s.now())); err != nil {
		logger.Warn().Err(err).Str("gameId", snap.GameID).Msg("record result")
	}
}

// resetRes is the response payload for POST /game/{id}/reset.
type resetRes struct {
	State game.Snapshot `json:"state"`
}

// handleReset restarts the board with its previous grid size.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var snap game.Snapshot
	err := s.store.Update(r.Context(), id, func(g *game.Engine) error {
		g.Reset()
		snap = g.Snapshot()
		s.live.publish(id, snap)
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	hlog.FromRequest(r).Info().Str("gameId", id).Msg("game reset")
	_ = json.NewEncoder(w).Encode(resetRes{State: snap})
}
