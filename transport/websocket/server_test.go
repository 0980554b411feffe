package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

var errRedisDown = errors.New("redis down")

type mockGameUseCase struct {
	mock.Mock
}

func (that *mockGameUseCase) NewGame(ctx context.Context, mode entity.Mode, difficulty entity.Difficulty) (*entity.Session, error) {
	args := that.Called(ctx, mode, difficulty)
	session, _ := args.Get(0).(*entity.Session)
	return session, args.Error(1)
}

func (that *mockGameUseCase) GetGame(ctx context.Context, id string) (*entity.Session, error) {
	args := that.Called(ctx, id)
	session, _ := args.Get(0).(*entity.Session)
	return session, args.Error(1)
}

func (that *mockGameUseCase) MakeTurn(ctx context.Context, id string, cell int) (*entity.Session, error) {
	args := that.Called(ctx, id, cell)
	session, _ := args.Get(0).(*entity.Session)
	return session, args.Error(1)
}

func (that *mockGameUseCase) Restart(ctx context.Context, id string) (*entity.Session, error) {
	args := that.Called(ctx, id)
	session, _ := args.Get(0).(*entity.Session)
	return session, args.Error(1)
}

func (that *mockGameUseCase) ChangeSettings(ctx context.Context, id string, mode entity.Mode, difficulty entity.Difficulty) (*entity.Session, error) {
	args := that.Called(ctx, id, mode, difficulty)
	session, _ := args.Get(0).(*entity.Session)
	return session, args.Error(1)
}

func (that *mockGameUseCase) Scores(ctx context.Context) (*entity.Score, error) {
	args := that.Called(ctx)
	score, _ := args.Get(0).(*entity.Score)
	return score, args.Error(1)
}

func (that *mockGameUseCase) ResetScores(ctx context.Context) error {
	return that.Called(ctx).Error(0)
}

func dial(t *testing.T) (*mockGameUseCase, *websocket.Conn) {
	t.Helper()

	game := &mockGameUseCase{}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	server := New(logger, game, entity.ModePvP, entity.DifficultyEasy)

	ctx, cancel := context.WithCancel(context.Background())
	httpServer := httptest.NewServer(server.Handler(ctx))

	url := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		httpServer.Close()
		game.AssertExpectations(t)
	})

	return game, conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, action string, payload any) (string, ResponsePayload) {
	t.Helper()

	payloadJSON, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Message{Action: action, Payload: payloadJSON}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var response Message
	require.NoError(t, conn.ReadJSON(&response))

	var responsePayload ResponsePayload
	require.NoError(t, json.Unmarshal(response.Payload, &responsePayload))

	return response.Action, responsePayload
}

func TestServer_NewGame(t *testing.T) {
	// Given: a use case creating a computer game
	game, conn := dial(t)
	game.On("NewGame", mock.Anything, entity.ModeAI, entity.DifficultyEasy).
		Return(entity.NewSession("s1", entity.ModeAI, entity.DifficultyEasy), nil).Once()

	// When: the client asks for a new computer game with the default difficulty
	action, payload := roundTrip(t, conn, "game:new", RequestPayload{Mode: "ai"})

	// Then: the session is sent back under the same action
	assert.Equal(t, "game:new", action)
	require.NotNil(t, payload.Game)
	assert.Equal(t, "s1", payload.Game.ID)
	assert.Empty(t, payload.Error)
}

func TestServer_GameTurn(t *testing.T) {
	t.Run("Returns the updated game", func(t *testing.T) {
		// Given: a use case accepting a move
		game, conn := dial(t)
		session := entity.NewSession("s1", entity.ModeAI, entity.DifficultyHard)
		session.Board = entity.Board{entity.PlayerX, "", "", "", entity.PlayerO, "", "", "", ""}
		game.On("MakeTurn", mock.Anything, "s1", 0).Return(session, nil).Once()

		// When: the client plays cell 0
		cell := 0
		_, payload := roundTrip(t, conn, "game:turn", RequestPayload{SessionID: "s1", Cell: &cell})

		// Then: the board with both moves is returned
		require.NotNil(t, payload.Game)
		assert.Equal(t, session.Board, payload.Game.Board)
	})

	t.Run("Reports invalid moves", func(t *testing.T) {
		game, conn := dial(t)
		game.On("MakeTurn", mock.Anything, "s1", 4).Return(nil, apperror.ErrCellOccupied).Once()

		cell := 4
		_, payload := roundTrip(t, conn, "game:turn", RequestPayload{SessionID: "s1", Cell: &cell})

		assert.Nil(t, payload.Game)
		assert.Contains(t, payload.Error, "cell is already occupied")
	})

	t.Run("Requires a cell", func(t *testing.T) {
		_, conn := dial(t)

		_, payload := roundTrip(t, conn, "game:turn", RequestPayload{SessionID: "s1"})

		assert.Equal(t, "cell is required", payload.Error)
	})

	t.Run("Requires a session", func(t *testing.T) {
		_, conn := dial(t)

		cell := 1
		_, payload := roundTrip(t, conn, "game:turn", RequestPayload{Cell: &cell})

		assert.Equal(t, "session_id is required", payload.Error)
	})
}

func TestServer_Scores(t *testing.T) {
	t.Run("Returns the tallies", func(t *testing.T) {
		game, conn := dial(t)
		game.On("Scores", mock.Anything).Return(&entity.Score{PlayerWins: 1, Draws: 4}, nil).Once()

		_, payload := roundTrip(t, conn, "scores:get", nil)

		assert.Equal(t, &entity.Score{PlayerWins: 1, Draws: 4}, payload.Score)
	})

	t.Run("Hides internal errors", func(t *testing.T) {
		game, conn := dial(t)
		game.On("Scores", mock.Anything).Return(nil, errRedisDown).Once()

		_, payload := roundTrip(t, conn, "scores:get", nil)

		assert.Equal(t, "internal error", payload.Error)
	})
}

func TestServer_UnknownAction(t *testing.T) {
	// Given: a connected client
	_, conn := dial(t)

	// When: it sends an action nobody handles
	action, payload := roundTrip(t, conn, "game:surrender", nil)

	// Then: an error is sent back and the connection stays usable
	assert.Equal(t, "game:surrender", action)
	assert.Equal(t, "unknown action", payload.Error)
}
