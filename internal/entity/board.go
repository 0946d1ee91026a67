package entity

import "fmt"

// Size is the side length of the grid.
const Size = 3

// Mark is the content of a single cell.
type Mark uint8

const (
	Empty Mark = iota
	MarkX
	MarkO
)

func (m Mark) String() string {
	switch m {
	case MarkX:
		return "X"
	case MarkO:
		return "O"
	case Empty:
		return "."
	default:
		return fmt.Sprintf("Mark(%d)", uint8(m))
	}
}

func (m Mark) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mark) UnmarshalText(text []byte) error {
	switch string(text) {
	case "X", "x":
		*m = MarkX
	case "O", "o":
		*m = MarkO
	case ".", "":
		*m = Empty
	default:
		return fmt.Errorf("unknown mark %q", text)
	}
	return nil
}

// Opponent - returns the other player's mark. Empty has no opponent.
func (m Mark) Opponent() Mark {
	switch m {
	case MarkX:
		return MarkO
	case MarkO:
		return MarkX
	default:
		return Empty
	}
}

// Board is a 3x3 grid indexed [row][col]. It is an array, so assignment
// copies it and two boards never share cells.
type Board [Size][Size]Mark

// Count - returns how many cells hold the given mark.
func (that Board) Count(mark Mark) int {
	n := 0
	for _, row := range that {
		for _, cell := range row {
			if cell == mark {
				n++
			}
		}
	}
	return n
}

// IsWellFormed - X moves first, so X leads O by zero or one mark.
func (that Board) IsWellFormed() bool {
	diff := that.Count(MarkX) - that.Count(MarkO)
	return diff == 0 || diff == 1
}

// At - returns the mark in the cell targeted by the move.
func (that Board) At(move Move) Mark {
	return that[move.Row][move.Col]
}

// Move addresses a single cell.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Move) InBounds() bool {
	return that.Row >= 0 && that.Row < Size && that.Col >= 0 && that.Col < Size
}

func (that Move) String() string {
	return fmt.Sprintf("(%d,%d)", that.Row, that.Col)
}

// Outcome is derived from a board and never stored alongside it.
type Outcome int

const (
	InProgress Outcome = iota
	XWins
	OWins
	Draw
)

func (o Outcome) String() string {
	switch o {
	case InProgress:
		return "in_progress"
	case XWins:
		return "x_wins"
	case OWins:
		return "o_wins"
	case Draw:
		return "draw"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	for _, candidate := range [...]Outcome{InProgress, XWins, OWins, Draw} {
		if candidate.String() == string(text) {
			*o = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", text)
}
