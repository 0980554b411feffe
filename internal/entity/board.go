package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

// Mark is the content of a single cell.
type Mark string

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
)

const BoardSize = 9

// Line is a triple of cell indices.
type Line [3]int

var winningLines = [8]Line{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// WinningLines returns a copy of the eight winning lines: rows, columns, then diagonals.
func WinningLines() [8]Line {
	return winningLines
}

// IsPlayer reports whether the mark is X or O.
func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

// Opponent returns the other player's mark.
func (that Mark) Opponent() Mark {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return EmptyCell
	}
}

// Board is a 3x3 grid stored row-major. It is a value type, so copies are snapshots.
type Board [BoardSize]Mark

// Turn returns the mark that moves next, derived from the number of marks on the board.
func (that Board) Turn() Mark {
	var x, o int
	for _, cell := range that {
		switch cell {
		case PlayerX:
			x++
		case PlayerO:
			o++
		}
	}

	if x > o {
		return PlayerO
	}
	return PlayerX
}

// ApplyMove - writes player's mark into cell. The board is left unchanged on error.
func (that *Board) ApplyMove(cell int, player Mark) error {
	if cell < 0 || cell >= len(that) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if that.Evaluate().IsTerminal() {
		return apperror.ErrGameFinished
	}

	if that[cell] != EmptyCell {
		return fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	if player != that.Turn() {
		return fmt.Errorf("%w: %q to move", apperror.ErrNotYourTurn, that.Turn())
	}

	that[cell] = player

	return nil
}

// Evaluate - checks the lines in fixed order; the first complete line decides the winner.
func (that Board) Evaluate() Outcome {
	if line, ok := that.WinningLine(); ok {
		return Outcome{Result: ResultWin, Winner: that[line[0]]}
	}

	// the game will continue until all the squares are full
	for _, cell := range that {
		if cell == EmptyCell {
			return Outcome{Result: ResultInProgress}
		}
	}

	return Outcome{Result: ResultDraw}
}

// WinningLine returns the first line fully occupied by a single mark.
func (that Board) WinningLine() (Line, bool) {
	for _, line := range winningLines {
		a, b, c := that[line[0]], that[line[1]], that[line[2]]
		if a != EmptyCell && a == b && b == c {
			return line, true
		}
	}

	return Line{}, false
}

func (that *Board) Reset() {
	*that = Board{}
}

// EmptyCells returns the indices of empty cells in ascending order.
func (that Board) EmptyCells() []int {
	cells := make([]int, 0, len(that))
	for i, cell := range that {
		if cell == EmptyCell {
			cells = append(cells, i)
		}
	}

	return cells
}

// Place returns a copy of the board with mark written into cell. No rules are checked.
func (that Board) Place(cell int, mark Mark) Board {
	that[cell] = mark
	return that
}
