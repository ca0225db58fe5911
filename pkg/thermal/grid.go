package thermal

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/hotspotmap/pkg/errors"
)

// Grid holds rows×cols temperatures in row-major order. Row 0 is the top
// edge of the chip, column 0 the left edge.
type Grid struct {
	Source string    `json:"source,omitempty"`
	Rows   int       `json:"rows"`
	Cols   int       `json:"cols"`
	Values []float64 `json:"values"`
}

// NewGrid validates dimensions and wraps values.
func NewGrid(rows, cols int, values []float64) (*Grid, error) {
	if err := checkDims(rows, cols); err != nil {
		return nil, err
	}
	if len(values) != rows*cols {
		return nil, errors.New(errors.ErrCodeInvalidTemperature, "grid %dx%d needs %d values, got %d", rows, cols, rows*cols, len(values))
	}
	return &Grid{Rows: rows, Cols: cols, Values: values}, nil
}

// At returns the value at row, col.
func (g *Grid) At(row, col int) float64 {
	return g.Values[row*g.Cols+col]
}

func checkDims(rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "grid rows and cols must be positive, got %dx%d", rows, cols)
	}
	return nil
}

// ReadGridFile parses a 2D grid steady file at path.
func ReadGridFile(path string, rows, cols int) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open grid steady file")
	}
	defer f.Close()
	return ReadGrid(f, path, rows, cols)
}

// ReadGrid parses "index value" lines from r into a rows×cols grid.
func ReadGrid(r io.Reader, name string, rows, cols int) (*Grid, error) {
	if err := checkDims(rows, cols); err != nil {
		return nil, err
	}
	b := newGridBuilder(name, rows, cols)
	if err := scanPairs(r, name, b.add, nil); err != nil {
		return nil, err
	}
	return b.finish()
}

// GridStack is a 3D grid steady file: one grid per layer index.
type GridStack struct {
	Source string        `json:"source,omitempty"`
	Layers map[int]*Grid `json:"layers"`
}

// Indexes returns the layer indexes in ascending order.
func (s *GridStack) Indexes() []int {
	idx := make([]int, 0, len(s.Layers))
	for i := range s.Layers {
		idx = append(idx, i)
	}
	slices.Sort(idx)
	return idx
}

// Values returns every temperature of every layer, layers in ascending order.
func (s *GridStack) Values() []float64 {
	var out []float64
	for _, i := range s.Indexes() {
		out = append(out, s.Layers[i].Values...)
	}
	return out
}

// Layer returns the grid for layer n.
func (s *GridStack) Layer(n int) (*Grid, error) {
	g, ok := s.Layers[n]
	if !ok {
		return nil, errors.New(errors.ErrCodeTemperatureMismatch, "%s: no grid section for layer_%d", s.Source, n)
	}
	return g, nil
}

// ReadGridStackFile parses a 3D grid steady file at path.
func ReadGridStackFile(path string, rows, cols int) (*GridStack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open grid steady file")
	}
	defer f.Close()
	return ReadGridStack(f, path, rows, cols)
}

// ReadGridStack parses a grid steady file whose sections are headed by
// "layer_<n>" lines.
func ReadGridStack(r io.Reader, name string, rows, cols int) (*GridStack, error) {
	if err := checkDims(rows, cols); err != nil {
		return nil, err
	}
	stack := &GridStack{Source: name, Layers: make(map[int]*Grid)}
	var (
		cur      *gridBuilder
		curLayer int
	)
	flush := func() error {
		if cur == nil {
			return nil
		}
		g, err := cur.finish()
		if err != nil {
			return err
		}
		stack.Layers[curLayer] = g
		return nil
	}

	header := func(line int, key string) error {
		n, ok := parseLayerHeader(key)
		if !ok {
			return fmt.Errorf("expected layer_<n> header, got %q", key)
		}
		if _, dup := stack.Layers[n]; dup || (cur != nil && curLayer == n) {
			return fmt.Errorf("duplicate section layer_%d", n)
		}
		if err := flush(); err != nil {
			return err
		}
		cur, curLayer = newGridBuilder(name, rows, cols), n
		cur.section = key
		return nil
	}
	pair := func(line int, key string, v float64) error {
		if cur == nil {
			return fmt.Errorf("value before first layer_<n> header")
		}
		return cur.add(line, key, v)
	}

	if err := scanPairs(r, name, pair, header); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(stack.Layers) == 0 {
		return nil, errors.Parsef(errors.ErrCodeInvalidTemperature, name, 0, "no layer_<n> sections found")
	}
	return stack, nil
}

func parseLayerHeader(s string) (int, bool) {
	rest, ok := strings.CutPrefix(s, "layer_")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	return n, err == nil && n >= 0
}

type gridBuilder struct {
	name       string
	section    string
	rows, cols int
	values     []float64
	set        []bool
	count      int
}

func newGridBuilder(name string, rows, cols int) *gridBuilder {
	return &gridBuilder{
		name:   name,
		rows:   rows,
		cols:   cols,
		values: make([]float64, rows*cols),
		set:    make([]bool, rows*cols),
	}
}

func (b *gridBuilder) add(_ int, key string, v float64) error {
	idx, err := strconv.Atoi(key)
	if err != nil {
		return fmt.Errorf("invalid grid index %q", key)
	}
	if idx < 0 || idx >= len(b.values) {
		return fmt.Errorf("grid index %d out of range for %dx%d grid", idx, b.rows, b.cols)
	}
	if b.set[idx] {
		return fmt.Errorf("duplicate grid index %d", idx)
	}
	b.values[idx] = v
	b.set[idx] = true
	b.count++
	return nil
}

func (b *gridBuilder) finish() (*Grid, error) {
	if b.count != len(b.values) {
		where := b.name
		if b.section != "" {
			where += " (" + b.section + ")"
		}
		return nil, errors.Parsef(errors.ErrCodeInvalidTemperature, where, 0,
			"grid %dx%d needs %d values, got %d", b.rows, b.cols, len(b.values), b.count)
	}
	return &Grid{Source: b.name, Rows: b.rows, Cols: b.cols, Values: b.values}, nil
}
