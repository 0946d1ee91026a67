package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solver/internal/entity"
)

// WinLines lists every row, column and diagonal.
var WinLines = [8][3]entity.Move{
	{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}},
	{{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2}},
	{{Row: 2, Col: 0}, {Row: 2, Col: 1}, {Row: 2, Col: 2}},
	{{Row: 0, Col: 0}, {Row: 1, Col: 0}, {Row: 2, Col: 0}},
	{{Row: 0, Col: 1}, {Row: 1, Col: 1}, {Row: 2, Col: 1}},
	{{Row: 0, Col: 2}, {Row: 1, Col: 2}, {Row: 2, Col: 2}},
	{{Row: 0, Col: 0}, {Row: 1, Col: 1}, {Row: 2, Col: 2}},
	{{Row: 0, Col: 2}, {Row: 1, Col: 1}, {Row: 2, Col: 0}},
}

// InitialBoard - returns the empty grid.
func InitialBoard() entity.Board {
	return entity.Board{}
}

// NextPlayer - X moves when both sides have placed the same number of marks.
// The board must be well-formed.
func NextPlayer(board entity.Board) entity.Mark {
	if board.Count(entity.MarkX) == board.Count(entity.MarkO) {
		return entity.MarkX
	}
	return entity.MarkO
}

// LegalMoves - returns every empty cell in row-major order.
func LegalMoves(board entity.Board) []entity.Move {
	moves := make([]entity.Move, 0, entity.Size*entity.Size)
	for row := range entity.Size {
		for col := range entity.Size {
			if board[row][col] == entity.Empty {
				moves = append(moves, entity.Move{Row: row, Col: col})
			}
		}
	}
	return moves
}

// Apply - returns a copy of the board with the side to move placed on the
// target cell. The input board is not modified.
func Apply(board entity.Board, move entity.Move) (entity.Board, error) {
	if !move.InBounds() {
		return board, fmt.Errorf("%w: cell %s is off the board", apperror.ErrInvalidMove, move)
	}

	if board.At(move) != entity.Empty {
		return board, fmt.Errorf("%w: cell %s is already occupied", apperror.ErrInvalidMove, move)
	}

	next := board
	next[move.Row][move.Col] = NextPlayer(board)

	return next, nil
}

// Winner - returns the mark owning a complete line, X checked first, or
// Empty if there is none.
func Winner(board entity.Board) entity.Mark {
	for _, mark := range [...]entity.Mark{entity.MarkX, entity.MarkO} {
		if hasLine(board, mark) {
			return mark
		}
	}
	return entity.Empty
}

func hasLine(board entity.Board, mark entity.Mark) bool {
	for _, line := range WinLines {
		if board.At(line[0]) == mark && board.At(line[1]) == mark && board.At(line[2]) == mark {
			return true
		}
	}
	return false
}

// IsTerminal - the game is over on a win or when no empty cell remains.
func IsTerminal(board entity.Board) bool {
	return Winner(board) != entity.Empty || board.Count(entity.Empty) == 0
}

// Score - +1 if X has won, -1 if O has won, 0 otherwise.
func Score(board entity.Board) int {
	switch Winner(board) {
	case entity.MarkX:
		return 1
	case entity.MarkO:
		return -1
	default:
		return 0
	}
}

// Outcome - derives the game status from the board.
func Outcome(board entity.Board) entity.Outcome {
	switch Winner(board) {
	case entity.MarkX:
		return entity.XWins
	case entity.MarkO:
		return entity.OWins
	}

	// the game will continue until all the squares are full
	if board.Count(entity.Empty) > 0 {
		return entity.InProgress
	}

	return entity.Draw
}
