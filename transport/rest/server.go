package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const (
	shutdownTimeout = 5 * time.Second
	baseTimeout     = 10 * time.Second
)

// NewRouter wires the REST routes.
func NewRouter(logger *slog.Logger, game gameUseCase, defaults Defaults) http.Handler {
	h := &handlers{
		logger:   logger.With("component", "rest"),
		game:     game,
		defaults: defaults,
	}

	r := chi.NewRouter()
	r.Get("/ping", h.ping)
	r.Get("/lines", h.lines)

	r.Post("/games", h.newGame)
	r.Route("/games/{id}", func(r chi.Router) {
		r.Get("/", h.getGame)
		r.Delete("/", h.endGame)
		r.Post("/turn", h.makeTurn)
		r.Post("/restart", h.restart)
		r.Put("/settings", h.changeSettings)
	})

	r.Get("/scores", h.scores)
	r.Delete("/scores", h.resetScores)

	return r
}

// Start - serves handler on port until ctx is canceled.
// thinkDelay is the computer's pause before answering a turn.
func Start(ctx context.Context, port string, handler http.Handler, thinkDelay time.Duration) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  baseTimeout,
		WriteTimeout: writeTimeout(thinkDelay),
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// writeTimeout - a turn against the computer must still be answered after the think delay.
func writeTimeout(thinkDelay time.Duration) time.Duration {
	return baseTimeout + max(thinkDelay, 0)
}
