// Package tictactoe implements the 3x3x3 tic-tac-toe board: move application,
// win and draw detection, and a single-ply move recommender.
//
// A Game is not safe for concurrent use. Callers serialise access per game.
package tictactoe

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCoordinate = errors.New("coordinate out of range")
	ErrInvalidMark       = errors.New("invalid player mark")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrGameFinished      = errors.New("game is already finished")
)

// Result is the terminal state of the board.
type Result string

const (
	ResultInProgress Result = "in_progress"
	ResultXWins      Result = "x_wins"
	ResultOWins      Result = "o_wins"
	ResultDraw       Result = "draw"
)

func (that Result) IsTerminal() bool {
	return that != ResultInProgress
}

// Winner returns the winning mark, or EmptyCell for a draw or a game in progress.
func (that Result) Winner() Mark {
	switch that {
	case ResultXWins:
		return PlayerX
	case ResultOWins:
		return PlayerO
	default:
		return EmptyCell
	}
}

func winResult(m Mark) Result {
	if m == PlayerX {
		return ResultXWins
	}
	return ResultOWins
}

// Game owns a board. The zero value is not usable, use NewGame.
type Game struct {
	cells  [CellCount]Mark
	result Result
	line   *Line
}

func NewGame() *Game {
	return &Game{result: ResultInProgress}
}

// ApplyMove places m at c. A nil error means the move was accepted.
// A rejected move leaves the board untouched and returns the unchanged result.
func (that *Game) ApplyMove(c Coord, m Mark) (Result, error) {
	if that.result.IsTerminal() {
		return that.result, ErrGameFinished
	}

	if !c.Valid() {
		return that.result, fmt.Errorf("%w: %s", ErrInvalidCoordinate, c)
	}

	if !m.IsPlayer() {
		return that.result, fmt.Errorf("%w: %q", ErrInvalidMark, m)
	}

	if that.cells[c.index()] != EmptyCell {
		return that.result, fmt.Errorf("%w: %s", ErrCellOccupied, c)
	}

	that.cells[c.index()] = m
	that.evaluate()

	return that.result, nil
}

// Reset clears every cell along with the result and winning line.
func (that *Game) Reset() {
	that.cells = [CellCount]Mark{}
	that.result = ResultInProgress
	that.line = nil
}

func (that *Game) Result() Result {
	return that.result
}

func (that *Game) IsFinished() bool {
	return that.result.IsTerminal()
}

// WinningLine returns the line that decided the game, if there is a winner.
func (that *Game) WinningLine() (Line, bool) {
	if that.line == nil {
		return Line{}, false
	}
	return *that.line, true
}

// At returns the occupant of c.
func (that *Game) At(c Coord) (Mark, error) {
	if !c.Valid() {
		return EmptyCell, fmt.Errorf("%w: %s", ErrInvalidCoordinate, c)
	}
	return that.cells[c.index()], nil
}

// Cells returns a copy of the board in x*9 + y*3 + z order.
func (that *Game) Cells() [CellCount]Mark {
	return that.cells
}

// EmptyCells lists the free cells in x, y, z scan order.
func (that *Game) EmptyCells() []Coord {
	free := make([]Coord, 0, CellCount)
	for i, cell := range that.cells {
		if cell == EmptyCell {
			free = append(free, coordOf(i))
		}
	}
	return free
}

// evaluate - recomputes the result after a move. Lines are scanned in table order
// and the first completed one wins.
func (that *Game) evaluate() {
	that.line = nil

	for i := range winLines {
		line := winLines[i]
		cells := line.Cells()

		a := that.cells[cells[0].index()]
		if a != EmptyCell && a == that.cells[cells[1].index()] && a == that.cells[cells[2].index()] {
			that.result = winResult(a)
			that.line = &line
			return
		}
	}

	// the game goes on while any cell is free
	for _, cell := range that.cells {
		if cell == EmptyCell {
			that.result = ResultInProgress
			return
		}
	}

	that.result = ResultDraw
}
