package usecase

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type mockSessionRepo struct {
	mock.Mock
}

func (that *mockSessionRepo) CreateOrUpdate(ctx context.Context, session *entity.Session) error {
	args := that.Called(ctx, session)
	return args.Error(0)
}

func (that *mockSessionRepo) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	args := that.Called(ctx, id)
	session, _ := args.Get(0).(*entity.Session)
	return session, args.Error(1)
}

func (that *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	return that.Called(ctx, id).Error(0)
}

type mockScoreRepo struct {
	mock.Mock
}

func (that *mockScoreRepo) Get(ctx context.Context) (*entity.Score, error) {
	args := that.Called(ctx)
	score, _ := args.Get(0).(*entity.Score)
	return score, args.Error(1)
}

func (that *mockScoreRepo) IncrementPlayerWins(ctx context.Context) error {
	return that.Called(ctx).Error(0)
}

func (that *mockScoreRepo) IncrementAIWins(ctx context.Context) error {
	return that.Called(ctx).Error(0)
}

func (that *mockScoreRepo) IncrementDraws(ctx context.Context) error {
	return that.Called(ctx).Error(0)
}

func (that *mockScoreRepo) Reset(ctx context.Context) error {
	return that.Called(ctx).Error(0)
}

type mockBot struct {
	mock.Mock
}

func (that *mockBot) ChooseMove(board entity.Board, mark entity.Mark, difficulty entity.Difficulty) (int, error) {
	args := that.Called(board, mark, difficulty)
	return args.Int(0), args.Error(1)
}

// memorySessionRepo stores copies, like a real backend, so concurrent callers never share a session.
type memorySessionRepo struct {
	mu       sync.Mutex
	sessions map[string]entity.Session
}

func newMemorySessionRepo(sessions ...*entity.Session) *memorySessionRepo {
	repo := &memorySessionRepo{sessions: make(map[string]entity.Session)}
	for _, session := range sessions {
		repo.sessions[session.ID] = *session
	}

	return repo
}

func (that *memorySessionRepo) CreateOrUpdate(_ context.Context, session *entity.Session) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sessions[session.ID] = *session
	return nil
}

func (that *memorySessionRepo) GetByID(_ context.Context, id string) (*entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, ok := that.sessions[id]
	if !ok {
		return nil, apperror.ErrNotFound
	}

	return &session, nil
}

func (that *memorySessionRepo) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.sessions, id)
	return nil
}
