package tictactoe

// LineCount is the number of winning lines in the cube.
const LineCount = 49

// Line is a winning line given by its two extreme cells. The middle cell is implied.
type Line struct {
	Start Coord `json:"start"`
	End   Coord `json:"end"`
}

// Cells returns the three cells of the line from Start to End.
func (that Line) Cells() [3]Coord {
	step := Coord{
		X: (that.End.X - that.Start.X) / 2,
		Y: (that.End.Y - that.Start.Y) / 2,
		Z: (that.End.Z - that.Start.Z) / 2,
	}

	return [3]Coord{
		that.Start,
		{X: that.Start.X + step.X, Y: that.Start.Y + step.Y, Z: that.Start.Z + step.Z},
		that.End,
	}
}

type direction struct {
	dx, dy, dz int
}

// winLines holds every line in scan order, so the first completed line found is reproducible.
var winLines = buildLines()

// cellLines[i] lists the indexes into winLines of the lines passing through cell i.
var cellLines = buildCellLines(winLines)

// Lines returns a copy of the winning line table in scan order.
func Lines() []Line {
	lines := make([]Line, len(winLines))
	copy(lines, winLines[:])
	return lines
}

func buildLines() [LineCount]Line {
	var lines [LineCount]Line
	n := 0

	add := func(start Coord, d direction) {
		lines[n] = Line{
			Start: start,
			End:   Coord{X: start.X + 2*d.dx, Y: start.Y + 2*d.dy, Z: start.Z + 2*d.dz},
		}
		n++
	}

	// rows along x
	for y := range Size {
		for z := range Size {
			add(Coord{X: 0, Y: y, Z: z}, direction{1, 0, 0})
		}
	}

	// columns along y
	for x := range Size {
		for z := range Size {
			add(Coord{X: x, Y: 0, Z: z}, direction{0, 1, 0})
		}
	}

	// depth along z
	for x := range Size {
		for y := range Size {
			add(Coord{X: x, Y: y, Z: 0}, direction{0, 0, 1})
		}
	}

	// face diagonals, two per plane in each of the three orientations
	for z := range Size {
		add(Coord{X: 0, Y: 0, Z: z}, direction{1, 1, 0})
	}
	for z := range Size {
		add(Coord{X: 0, Y: 2, Z: z}, direction{1, -1, 0})
	}
	for y := range Size {
		add(Coord{X: 0, Y: y, Z: 0}, direction{1, 0, 1})
	}
	for y := range Size {
		add(Coord{X: 0, Y: y, Z: 2}, direction{1, 0, -1})
	}
	for x := range Size {
		add(Coord{X: x, Y: 0, Z: 0}, direction{0, 1, 1})
	}
	for x := range Size {
		add(Coord{X: x, Y: 0, Z: 2}, direction{0, 1, -1})
	}

	// space diagonals
	add(Coord{X: 0, Y: 0, Z: 0}, direction{1, 1, 1})
	add(Coord{X: 0, Y: 0, Z: 2}, direction{1, 1, -1})
	add(Coord{X: 0, Y: 2, Z: 0}, direction{1, -1, 1})
	add(Coord{X: 0, Y: 2, Z: 2}, direction{1, -1, -1})

	if n != LineCount {
		panic("tictactoe: line table is incomplete")
	}

	return lines
}

func buildCellLines(lines [LineCount]Line) [CellCount][]int {
	var through [CellCount][]int

	for i, line := range lines {
		for _, c := range line.Cells() {
			through[c.index()] = append(through[c.index()], i)
		}
	}

	return through
}
