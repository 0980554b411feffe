package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type gameUseCase interface {
	NewGame(ctx context.Context, mode entity.Mode, difficulty entity.Difficulty) (*entity.Session, error)
	GetGame(ctx context.Context, id string) (*entity.Session, error)
	MakeTurn(ctx context.Context, id string, cell int) (*entity.Session, error)
	Restart(ctx context.Context, id string) (*entity.Session, error)
	ChangeSettings(ctx context.Context, id string, mode entity.Mode, difficulty entity.Difficulty) (*entity.Session, error)
	EndGame(ctx context.Context, id string) error

	Scores(ctx context.Context) (*entity.Score, error)
	ResetScores(ctx context.Context) error
}

// Defaults are used when a new game request leaves mode or difficulty out.
type Defaults struct {
	Mode       entity.Mode
	Difficulty entity.Difficulty
}

type settingsRequest struct {
	Mode       string `json:"mode"`
	Difficulty string `json:"difficulty"`
}

type turnRequest struct {
	Cell *int `json:"cell"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	logger   *slog.Logger
	game     gameUseCase
	defaults Defaults
}

func (that *handlers) ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write pong", "error", err)
	}
}

func (that *handlers) lines(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, entity.WinningLines())
}

func (that *handlers) newGame(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
	}

	mode, difficulty, err := that.parseSettings(req)
	if err != nil {
		that.writeError(w, err)
		return
	}

	session, err := that.game.NewGame(r.Context(), mode, difficulty)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, session)
}

func (that *handlers) getGame(w http.ResponseWriter, r *http.Request) {
	session, err := that.game.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, session)
}

func (that *handlers) makeTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Cell == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "cell is required"})
		return
	}

	session, err := that.game.MakeTurn(r.Context(), chi.URLParam(r, "id"), *req.Cell)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, session)
}

func (that *handlers) restart(w http.ResponseWriter, r *http.Request) {
	session, err := that.game.Restart(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, session)
}

func (that *handlers) changeSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	mode, difficulty, err := that.parseSettings(req)
	if err != nil {
		that.writeError(w, err)
		return
	}

	session, err := that.game.ChangeSettings(r.Context(), chi.URLParam(r, "id"), mode, difficulty)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, session)
}

func (that *handlers) endGame(w http.ResponseWriter, r *http.Request) {
	if err := that.game.EndGame(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) scores(w http.ResponseWriter, r *http.Request) {
	score, err := that.game.Scores(r.Context())
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, score)
}

func (that *handlers) resetScores(w http.ResponseWriter, r *http.Request) {
	if err := that.game.ResetScores(r.Context()); err != nil {
		that.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *handlers) parseSettings(req settingsRequest) (entity.Mode, entity.Difficulty, error) {
	mode, difficulty := that.defaults.Mode, that.defaults.Difficulty

	var err error
	if req.Mode != "" {
		if mode, err = entity.ParseMode(req.Mode); err != nil {
			return "", "", err
		}
	}

	if req.Difficulty != "" {
		if difficulty, err = entity.ParseDifficulty(req.Difficulty); err != nil {
			return "", "", err
		}
	}

	return mode, difficulty, nil
}

func (that *handlers) writeError(w http.ResponseWriter, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
		that.writeJSON(w, status, errorResponse{Error: http.StatusText(status)})
		return
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrInvalidMove):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperror.ErrUnknownMode), errors.Is(err, apperror.ErrUnknownDifficulty):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
