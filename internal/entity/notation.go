package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-solver/internal/apperror"
)

// ParseBoard - reads a board written row-major as nine cells of X, O or an
// empty glyph ('.', '-', '_' or space). Rows may be separated with '/'.
func ParseBoard(s string) (Board, error) {
	var board Board

	cells := strings.ReplaceAll(s, "/", "")
	if len(cells) != Size*Size {
		return board, fmt.Errorf("%w: want %d cells, got %d", apperror.ErrMalformedBoard, Size*Size, len(cells))
	}

	for i, ch := range []byte(cells) {
		var mark Mark
		switch ch {
		case 'X', 'x':
			mark = MarkX
		case 'O', 'o':
			mark = MarkO
		case '.', '-', '_', ' ':
			mark = Empty
		default:
			return board, fmt.Errorf("%w: unexpected %q at cell %d", apperror.ErrMalformedBoard, ch, i)
		}
		board[i/Size][i%Size] = mark
	}

	if !board.IsWellFormed() {
		return board, fmt.Errorf("%w: X=%d O=%d", apperror.ErrMalformedBoard, board.Count(MarkX), board.Count(MarkO))
	}

	return board, nil
}

// String - nine characters, row-major, '.' for empty cells.
func (that Board) String() string {
	var sb strings.Builder
	sb.Grow(Size * Size)
	for _, row := range that {
		for _, cell := range row {
			sb.WriteString(cell.String())
		}
	}
	return sb.String()
}

func (that Board) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Board) UnmarshalText(text []byte) error {
	board, err := ParseBoard(string(text))
	if err != nil {
		return err
	}
	*that = board
	return nil
}
