package usecase

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type scoreRepo interface {
	Get(ctx context.Context) (*entity.Score, error)
	IncrementPlayerWins(ctx context.Context) error
	IncrementAIWins(ctx context.Context) error
	IncrementDraws(ctx context.Context) error
	Reset(ctx context.Context) error
}

type botService interface {
	ChooseMove(board entity.Board, mark entity.Mark, difficulty entity.Difficulty) (int, error)
}

const sessionLockStripes = 64

type GameManager struct {
	logger      *slog.Logger
	sessionRepo sessionRepo
	scoreRepo   scoreRepo
	bot         botService

	thinkDelay time.Duration

	// read-modify-write of one session is serialised within this process
	sessionLocks [sessionLockStripes]sync.Mutex
}

// NewGameManager - thinkDelay is how long the computer waits before answering a human move.
func NewGameManager(logger *slog.Logger, sessionRepo sessionRepo, scoreRepo scoreRepo, bot botService, thinkDelay time.Duration) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		sessionRepo: sessionRepo,
		scoreRepo:   scoreRepo,
		bot:         bot,

		thinkDelay: thinkDelay,
	}
}

func (that *GameManager) NewGame(ctx context.Context, mode entity.Mode, difficulty entity.Difficulty) (*entity.Session, error) {
	session := entity.NewSession(pkg.GenerateSessionID(), mode, difficulty)

	if err := that.updateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed create game: %w", err)
	}

	that.logger.Info("game created", "session", session.ID, "mode", mode, "difficulty", difficulty)

	return session, nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return session, nil
}

// MakeTurn - plays the human move and, against the computer, the computer's answer.
// Nothing is stored if ctx is canceled while the computer is thinking.
func (that *GameManager) MakeTurn(ctx context.Context, id string, cell int) (*entity.Session, error) {
	log := that.logger.With("method", "MakeTurn", "session", id)

	unlock := that.lockSession(id)
	defer unlock()

	session, err := that.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = tictactoe.MakeHumanTurn(session, cell); err != nil {
		return nil, fmt.Errorf("failed make turn: %w", err)
	}

	log.Debug("human turn", "cell", cell, "outcome", session.Outcome.Result)

	if session.IsBotTurn() {
		if err = that.think(ctx); err != nil {
			return nil, fmt.Errorf("bot interrupted: %w", err)
		}

		botCell, err := tictactoe.MakeBotTurn(session, that.bot)
		if err != nil {
			return nil, fmt.Errorf("failed make bot turn: %w", err)
		}

		log.Debug("bot turn", "cell", botCell, "difficulty", session.Difficulty)
	}

	if err = that.updateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed update game: %w", err)
	}

	if !session.Active {
		that.recordResult(ctx, session)
	}

	return session, nil
}

func (that *GameManager) Restart(ctx context.Context, id string) (*entity.Session, error) {
	unlock := that.lockSession(id)
	defer unlock()

	session, err := that.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	session.Restart()

	if err = that.updateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed restart game: %w", err)
	}

	return session, nil
}

// ChangeSettings - switching mode or difficulty restarts the game.
func (that *GameManager) ChangeSettings(ctx context.Context, id string, mode entity.Mode, difficulty entity.Difficulty) (*entity.Session, error) {
	unlock := that.lockSession(id)
	defer unlock()

	session, err := that.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	session.Mode = mode
	session.Difficulty = difficulty
	session.Restart()

	if err = that.updateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed change settings: %w", err)
	}

	return session, nil
}

// EndGame - drops the session; its finished result, if any, stays in the tallies.
func (that *GameManager) EndGame(ctx context.Context, id string) error {
	if err := that.sessionRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed end game: %w", err)
	}

	that.logger.Info("game ended", "session", id)

	return nil
}

func (that *GameManager) Scores(ctx context.Context) (*entity.Score, error) {
	score, err := that.scoreRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed get scores: %w", err)
	}

	return score, nil
}

func (that *GameManager) ResetScores(ctx context.Context) error {
	if err := that.scoreRepo.Reset(ctx); err != nil {
		return fmt.Errorf("failed reset scores: %w", err)
	}

	return nil
}

func (that *GameManager) lockSession(id string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))

	mu := &that.sessionLocks[h.Sum32()%sessionLockStripes]
	mu.Lock()

	return mu.Unlock
}

func (that *GameManager) think(ctx context.Context) error {
	if that.thinkDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(that.thinkDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// recordResult - a lost tally is logged, not returned: the game itself is already stored.
func (that *GameManager) recordResult(ctx context.Context, session *entity.Session) {
	log := that.logger.With("method", "recordResult", "session", session.ID)

	var err error

	switch outcome := session.Outcome; {
	case outcome.IsDraw():
		err = that.scoreRepo.IncrementDraws(ctx)
	case session.IsWithBot() && outcome.Winner == entity.BotMark:
		err = that.scoreRepo.IncrementAIWins(ctx)
	default:
		err = that.scoreRepo.IncrementPlayerWins(ctx)
	}

	if err != nil {
		log.Error("failed to record result", "error", err)
		return
	}

	log.Info("game finished", "result", session.Outcome.Result, "winner", session.Outcome.Winner)
}

func (that *GameManager) updateSession(ctx context.Context, session *entity.Session) error {
	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	return nil
}
