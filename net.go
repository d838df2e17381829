package nurbs

import (
	"fmt"
	"slices"
)

// NetSize is the two-dimensional shape of a surface control net. Rows run
// along the v direction, columns along the u direction.
type NetSize struct {
	Rows int
	Cols int
}

// Count returns Rows·Cols.
func (s NetSize) Count() int { return s.Rows * s.Cols }

func (s NetSize) String() string {
	return fmt.Sprintf("%d×%d", s.Rows, s.Cols)
}

// Net is a row-major surface control net. The point in row j (v index) and
// column i (u index) is Points[j*Size.Cols+i].
type Net struct {
	Size   NetSize
	Points []Point4
}

// NewNet returns a zeroed net of the given shape.
func NewNet(rows, cols int) Net {
	return Net{
		Size:   NetSize{Rows: rows, Cols: cols},
		Points: make([]Point4, rows*cols),
	}
}

// At returns the point in row j, column i.
func (n Net) At(j, i int) Point4 {
	return n.Points[j*n.Size.Cols+i]
}

// Set stores pt in row j, column i.
func (n Net) Set(j, i int, pt Point4) {
	n.Points[j*n.Size.Cols+i] = pt
}

// Row returns a copy of row j.
func (n Net) Row(j int) []Point4 {
	return slices.Clone(n.Points[j*n.Size.Cols : (j+1)*n.Size.Cols])
}

// Col returns a copy of column i.
func (n Net) Col(i int) []Point4 {
	out := make([]Point4, n.Size.Rows)
	for j := range out {
		out[j] = n.At(j, i)
	}
	return out
}

// Clone returns a deep copy of the net.
func (n Net) Clone() Net {
	return Net{Size: n.Size, Points: slices.Clone(n.Points)}
}

// Validate checks that the net's shape matches its number of points.
func (n Net) Validate() error {
	if n.Size.Rows < 1 || n.Size.Cols < 1 || n.Size.Count() != len(n.Points) {
		return fmt.Errorf("net of shape %s with %d points: %w", n.Size, len(n.Points), ErrInvalidInput)
	}
	return nil
}

// netFromRows builds a net from equally long rows.
func netFromRows(rows [][]Point4) Net {
	out := NewNet(len(rows), len(rows[0]))
	for j, row := range rows {
		copy(out.Points[j*out.Size.Cols:], row)
	}
	return out
}

// netFromCols builds a net from equally long columns.
func netFromCols(cols [][]Point4) Net {
	out := NewNet(len(cols[0]), len(cols))
	for i, col := range cols {
		for j, pt := range col {
			out.Set(j, i, pt)
		}
	}
	return out
}
