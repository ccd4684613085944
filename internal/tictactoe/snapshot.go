package tictactoe

import (
	"encoding/json"
	"fmt"
)

// snapshot is the wire form of a Game. Result and line are derived from the cells
// and are ignored on decode.
type snapshot struct {
	Cells       [CellCount]Mark `json:"cells"`
	Result      Result          `json:"result"`
	WinningLine *Line           `json:"winning_line,omitempty"`
}

// Restore rebuilds a game from its cells in x*9 + y*3 + z order.
func Restore(cells [CellCount]Mark) (*Game, error) {
	for i, cell := range cells {
		if cell != EmptyCell && !cell.IsPlayer() {
			return nil, fmt.Errorf("%w: %q at %s", ErrInvalidMark, cell, coordOf(i))
		}
	}

	game := &Game{cells: cells}
	game.evaluate()

	return game, nil
}

func (that *Game) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(snapshot{
		Cells:       that.cells,
		Result:      that.result,
		WinningLine: that.line,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal board: %w", err)
	}

	return data, nil
}

func (that *Game) UnmarshalJSON(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to unmarshal board: %w", err)
	}

	restored, err := Restore(snap.Cells)
	if err != nil {
		return err
	}

	*that = *restored

	return nil
}
