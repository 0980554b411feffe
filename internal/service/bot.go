package service

import (
	"fmt"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type BotService interface {
	// ChooseMove returns the cell the computer, playing mark, takes on board.
	ChooseMove(board entity.Board, mark entity.Mark, difficulty entity.Difficulty) (int, error)
}

type botService struct {
	rnd *rand.Rand
}

// NewBotService - rnd drives the easy tier and the medium coin flip.
func NewBotService(rnd *rand.Rand) BotService {
	return &botService{
		rnd: rnd,
	}
}

func (that *botService) ChooseMove(board entity.Board, mark entity.Mark, difficulty entity.Difficulty) (int, error) {
	availableCells := board.EmptyCells()
	if len(availableCells) == 0 || board.Evaluate().IsTerminal() {
		return 0, apperror.ErrNoLegalMove
	}

	if !mark.IsPlayer() {
		return 0, fmt.Errorf("%w: %q", apperror.ErrUnknownMark, mark)
	}

	switch difficulty {
	case entity.DifficultyEasy:
		return that.randomMove(availableCells), nil
	case entity.DifficultyMedium:
		// coin flip on every move, not once per game
		if that.rnd.Intn(2) == 0 {
			return that.randomMove(availableCells), nil
		}
		return BestMove(board, mark), nil
	case entity.DifficultyHard:
		return BestMove(board, mark), nil
	default:
		return 0, fmt.Errorf("%w: %q", apperror.ErrUnknownDifficulty, difficulty)
	}
}

func (that *botService) randomMove(availableCells []int) int {
	return availableCells[that.rnd.Intn(len(availableCells))]
}
