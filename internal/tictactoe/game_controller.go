package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type botService interface {
	ChooseMove(board entity.Board, mark entity.Mark, difficulty entity.Difficulty) (int, error)
}

// MakeTurn - plays cell for the side to move and updates the session status.
func MakeTurn(session *entity.Session, cell int) error {
	if !session.Active {
		return apperror.ErrGameFinished
	}

	if err := session.Board.ApplyMove(cell, session.Turn); err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	updateGameStatus(session)

	return nil
}

// MakeHumanTurn - same as MakeTurn, but refuses to move for the computer.
func MakeHumanTurn(session *entity.Session, cell int) error {
	if session.IsBotTurn() {
		return apperror.ErrNotYourTurn
	}

	return MakeTurn(session, cell)
}

// MakeBotTurn - asks the bot for the computer's move and plays it.
func MakeBotTurn(session *entity.Session, bot botService) (int, error) {
	if !session.IsBotTurn() {
		return 0, apperror.ErrNotYourTurn
	}

	cell, err := bot.ChooseMove(session.Board, entity.BotMark, session.Difficulty)
	if err != nil {
		return 0, fmt.Errorf("bot failed to choose a move: %w", err)
	}

	if err = MakeTurn(session, cell); err != nil {
		return 0, fmt.Errorf("bot failed to make turn: %w", err)
	}

	return cell, nil
}

// updateGameStatus - checks the board after a move.
func updateGameStatus(session *entity.Session) {
	session.Outcome = session.Board.Evaluate()

	if !session.Outcome.IsTerminal() {
		session.Turn = session.Board.Turn()
		return
	}

	session.Active = false
	session.Turn = entity.EmptyCell

	if line, ok := session.Board.WinningLine(); ok {
		session.WinningLine = &line
	}
}
