package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

func (that *Server) handleNewGame(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	payloadReq, err := decodePayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, "invalid payload")
	}

	mode, difficulty, err := that.parseSettings(payloadReq)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err.Error())
	}

	game, err := that.game.NewGame(ctx, mode, difficulty)

	return that.sendGame(conn, msg.Action, game, err)
}

func (that *Server) handleGetGame(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	payloadReq, err := that.decodeWithSession(msg, conn)
	if payloadReq == nil {
		return err
	}

	game, err := that.game.GetGame(ctx, payloadReq.SessionID)

	return that.sendGame(conn, msg.Action, game, err)
}

func (that *Server) handleGameTurn(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	payloadReq, err := that.decodeWithSession(msg, conn)
	if payloadReq == nil {
		return err
	}

	if payloadReq.Cell == nil {
		return that.sendErrorResponse(conn, msg.Action, "cell is required")
	}

	game, err := that.game.MakeTurn(ctx, payloadReq.SessionID, *payloadReq.Cell)

	return that.sendGame(conn, msg.Action, game, err)
}

func (that *Server) handleRestart(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	payloadReq, err := that.decodeWithSession(msg, conn)
	if payloadReq == nil {
		return err
	}

	game, err := that.game.Restart(ctx, payloadReq.SessionID)

	return that.sendGame(conn, msg.Action, game, err)
}

func (that *Server) handleSettings(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	payloadReq, err := that.decodeWithSession(msg, conn)
	if payloadReq == nil {
		return err
	}

	mode, difficulty, err := that.parseSettings(payloadReq)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err.Error())
	}

	game, err := that.game.ChangeSettings(ctx, payloadReq.SessionID, mode, difficulty)

	return that.sendGame(conn, msg.Action, game, err)
}

func (that *Server) handleScores(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	score, err := that.game.Scores(ctx)
	if err != nil {
		return that.sendUseCaseError(conn, msg.Action, err)
	}

	return that.sendMessage(conn, msg.Action, ResponsePayload{Score: score})
}

func (that *Server) handleResetScores(ctx context.Context, msg *Message, conn *websocket.Conn) error {
	if err := that.game.ResetScores(ctx); err != nil {
		return that.sendUseCaseError(conn, msg.Action, err)
	}

	return that.sendMessage(conn, msg.Action, ResponsePayload{Score: &entity.Score{}})
}

// decodeWithSession - a nil payload means the error response has already been sent.
func (that *Server) decodeWithSession(msg *Message, conn *websocket.Conn) (*RequestPayload, error) {
	payloadReq, err := decodePayload(msg)
	if err != nil {
		return nil, that.sendErrorResponse(conn, msg.Action, "invalid payload")
	}

	if payloadReq.SessionID == "" {
		return nil, that.sendErrorResponse(conn, msg.Action, "session_id is required")
	}

	return payloadReq, nil
}

func (that *Server) parseSettings(payloadReq *RequestPayload) (entity.Mode, entity.Difficulty, error) {
	mode, difficulty := that.defaultMode, that.defaultDifficulty

	var err error
	if payloadReq.Mode != "" {
		if mode, err = entity.ParseMode(payloadReq.Mode); err != nil {
			return "", "", err
		}
	}

	if payloadReq.Difficulty != "" {
		if difficulty, err = entity.ParseDifficulty(payloadReq.Difficulty); err != nil {
			return "", "", err
		}
	}

	return mode, difficulty, nil
}

func (that *Server) sendGame(conn *websocket.Conn, action string, game *entity.Session, err error) error {
	if err != nil {
		return that.sendUseCaseError(conn, action, err)
	}

	return that.sendMessage(conn, action, ResponsePayload{Game: game})
}

func (that *Server) sendUseCaseError(conn *websocket.Conn, action string, err error) error {
	switch {
	case errors.Is(err, apperror.ErrInvalidMove), errors.Is(err, apperror.ErrNotFound):
		return that.sendErrorResponse(conn, action, err.Error())
	default:
		that.logger.Error("use case failed", "action", action, "error", err)
		if sendErr := that.sendErrorResponse(conn, action, "internal error"); sendErr != nil {
			return fmt.Errorf("failed to send error response: %w", sendErr)
		}
		return nil
	}
}

func decodePayload(msg *Message) (*RequestPayload, error) {
	var payloadReq RequestPayload
	if len(msg.Payload) == 0 {
		return &payloadReq, nil
	}

	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return &payloadReq, nil
}
