package tictactoe

import "fmt"

// Size is the side length of the cube.
const Size = 3

// CellCount is the number of cells on the board.
const CellCount = Size * Size * Size

const (
	PlayerX Mark = "X"
	PlayerO Mark = "O"

	EmptyCell Mark = ""
)

// Mark is the content of a single cell.
type Mark string

func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

// Opponent returns the other player's mark. Non-player marks map to EmptyCell.
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

// Coord addresses a cell. Every component is in [0, Size).
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

func (that Coord) Valid() bool {
	return inRange(that.X) && inRange(that.Y) && inRange(that.Z)
}

func (that Coord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", that.X, that.Y, that.Z)
}

// index - flat board index, x*9 + y*3 + z.
func (that Coord) index() int {
	return that.X*Size*Size + that.Y*Size + that.Z
}

func coordOf(index int) Coord {
	return Coord{
		X: index / (Size * Size),
		Y: index / Size % Size,
		Z: index % Size,
	}
}

func inRange(v int) bool {
	return v >= 0 && v < Size
}

// positionalBonus - static value of a cell independent of the board contents.
func positionalBonus(c Coord) int {
	centered := 0
	for _, v := range [3]int{c.X, c.Y, c.Z} {
		if v == 1 {
			centered++
		}
	}

	switch centered {
	case 3:
		return centerBonus
	case 2:
		return faceCenterBonus
	case 0:
		return cornerBonus
	default:
		return edgeBonus
	}
}
