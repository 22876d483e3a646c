// internal/layout/layout.go
//
// Presentation math for laying cards out on a plane, so remote displays do not
// each re-derive it.
//
// Conventions:
//   - x grows to the right, y grows upward; rows are laid out downward (negative y).
//   - Cards are one unit apart plus the configured gap.
//   - Positions are card centres.

package layout

// Config holds gap and card extent settings.
type Config struct {
	RowGap     float64 `json:"rowGap" yaml:"row_gap"`
	ColumnGap  float64 `json:"columnGap" yaml:"column_gap"`
	CardWidth  float64 `json:"cardWidth" yaml:"card_width"`
	CardHeight float64 `json:"cardHeight" yaml:"card_height"`
}

// Default is a unit card with a quarter-unit gap.
var Default = Config{RowGap: 0.25, ColumnGap: 0.25, CardWidth: 1, CardHeight: 1}

// Point is a position on the plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Frame describes the background that surrounds the whole board and the
// point a camera should centre on.
type Frame struct {
	Center Point   `json:"center"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Position returns the centre of the card at (row, col).
func (c Config) Position(row, col int) Point {
	r, k := float64(row), float64(col)
	return Point{
		X: k + k*c.ColumnGap + c.CardWidth/2,
		Y: -(r + r*c.RowGap + c.CardHeight/2),
	}
}

// Frame returns the framing for a rows × columns board.
func (c Config) Frame(rows, columns int) Frame {
	if rows <= 0 || columns <= 0 {
		return Frame{}
	}
	xOffset := (float64(columns-1)*(1+c.ColumnGap) + c.CardWidth) / 2
	yOffset := (float64(rows-1)*(1+c.RowGap) + c.CardHeight) / 2
	return Frame{
		Center: Point{X: xOffset, Y: -yOffset},
		Width:  xOffset*2 + c.CardWidth,
		Height: yOffset*2 + c.CardHeight,
	}
}
