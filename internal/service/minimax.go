package service

import (
	"math"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const winScore = 10

// BestMove - exhaustive minimax for mark. Ties go to the lowest cell index.
// Returns -1 when mark is not a player or the board has no empty cell.
func BestMove(board entity.Board, mark entity.Mark) int {
	if !mark.IsPlayer() {
		return -1
	}

	bestScore := math.MinInt
	move := -1

	for _, cell := range board.EmptyCells() {
		score := minimax(board.Place(cell, mark), mark, false, 0)
		if score > bestScore {
			bestScore = score
			move = cell
		}
	}

	return move
}

// minimax scores board from bot's point of view. Depth shifts the score so that
// faster wins and slower losses are preferred.
func minimax(board entity.Board, bot entity.Mark, isMax bool, depth int) int {
	switch outcome := board.Evaluate(); {
	case outcome.IsWin() && outcome.Winner == bot:
		return winScore - depth
	case outcome.IsWin():
		return depth - winScore
	case outcome.IsDraw():
		return 0
	}

	if isMax {
		best := math.MinInt
		for _, cell := range board.EmptyCells() {
			best = max(best, minimax(board.Place(cell, bot), bot, false, depth+1))
		}
		return best
	}

	best := math.MaxInt
	for _, cell := range board.EmptyCells() {
		best = min(best, minimax(board.Place(cell, bot.Opponent()), bot, true, depth+1))
	}
	return best
}
