package tictactoe

// Scores used by the move recommender.
const (
	InvalidScore = -1
	WinScore     = 1000
	BlockScore   = 900

	ownPotentialScore   = 50
	blockPotentialScore = 40
	openLineScore       = 30
	centerBonus         = 100
	faceCenterBonus     = 50
	cornerBonus         = 40
	edgeBonus           = 20
)

type lineCount struct {
	own, opponent, empty int
}

func (that *Game) countLine(line Line, m Mark) lineCount {
	var count lineCount

	for _, c := range line.Cells() {
		switch that.cells[c.index()] {
		case EmptyCell:
			count.empty++
		case m:
			count.own++
		default:
			count.opponent++
		}
	}

	return count
}

// EvaluateCell scores placing m at c without changing the board.
// Occupied or out-of-range cells score InvalidScore.
func (that *Game) EvaluateCell(c Coord, m Mark) int {
	if !c.Valid() || !m.IsPlayer() || that.cells[c.index()] != EmptyCell {
		return InvalidScore
	}

	through := cellLines[c.index()]
	counts := make([]lineCount, len(through))
	for i, li := range through {
		counts[i] = that.countLine(winLines[li], m)
	}

	// completing a line beats blocking one, wherever the lines sit in the table
	for _, count := range counts {
		if count.own == 2 && count.empty == 1 {
			return WinScore
		}
	}

	for _, count := range counts {
		if count.opponent == 2 && count.empty == 1 {
			return BlockScore
		}
	}

	score := positionalBonus(c)
	for _, count := range counts {
		switch {
		case count.own == 1 && count.empty == 2:
			score += ownPotentialScore
		case count.opponent == 1 && count.empty == 2:
			score += blockPotentialScore
		case count.empty == 3:
			score += openLineScore
		}
	}

	return score
}

// RecommendMove returns the free cell with the highest score for m. Ties go to the
// first cell in x, y, z scan order. It looks a single move ahead and cannot see forks.
func (that *Game) RecommendMove(m Mark) (Coord, bool) {
	best := Coord{}
	bestScore := InvalidScore
	found := false

	for i := range that.cells {
		c := coordOf(i)

		score := that.EvaluateCell(c, m)
		if score > bestScore {
			best, bestScore, found = c, score, true
		}
	}

	return best, found
}
