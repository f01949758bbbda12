package system

import (
	"errors"
	"fmt"
	"sort"

	"github.com/edp1096/blocklac/pkg/blockmatrix"
	"github.com/edp1096/blocklac/pkg/deck"
	"github.com/edp1096/blocklac/pkg/vector"
)

var (
	ErrNoMatrix      = errors.New("system: matrix not created")
	ErrUnknownVector = errors.New("system: unknown vector")
	ErrBadEntry      = errors.New("system: entry does not fit the matrix")
)

// System is a block sparse matrix together with the named vectors it is
// applied to.
type System struct {
	name    string
	matrix  *blockmatrix.BlockSparseMatrix
	vectors map[string]*vector.Vector
}

func New(name string) *System {
	return &System{
		name:    name,
		vectors: make(map[string]*vector.Vector),
	}
}

// Load builds matrix and vectors from a parsed deck.
func Load(d *deck.Deck) (*System, error) {
	var opts []blockmatrix.Option
	if d.Options.Sorted {
		opts = append(opts, blockmatrix.WithSortedColumns())
	}
	if d.Options.DropTolerance > 0 {
		opts = append(opts, blockmatrix.WithDropTolerance(d.Options.DropTolerance))
	}

	s := New(d.Title)
	if err := s.CreateMatrix(d.RowBlocks, d.ColBlocks, opts...); err != nil {
		return nil, err
	}
	for _, name := range d.VectorNames {
		s.SetVector(name, d.Vectors[name])
	}
	if err := s.Assemble(d.Entries); err != nil {
		s.Destroy()
		return nil, err
	}
	return s, nil
}

func (s *System) CreateMatrix(rowSizes, colSizes []int, opts ...blockmatrix.Option) error {
	s.Destroy()
	m := blockmatrix.New(opts...)
	if err := m.ReinitSizes(rowSizes, colSizes); err != nil {
		return fmt.Errorf("creating matrix: %w", err)
	}
	s.matrix = m
	return nil
}

// Assemble writes every entry in order and compresses the matrix. Entries are
// validated before the first write, so a failing deck leaves the matrix
// untouched.
func (s *System) Assemble(entries []deck.Entry) error {
	if s.matrix == nil {
		return ErrNoMatrix
	}
	for _, entry := range entries {
		if err := s.validate(entry); err != nil {
			return fmt.Errorf("entry %s: %w", entry.Name, err)
		}
	}

	m := s.matrix
	for _, entry := range entries {
		switch {
		case entry.Batched() && entry.Accumulates():
			m.Add(entry.Rows, entry.Cols, entry.Values)
		case entry.Batched():
			m.Set(entry.Rows, entry.Cols, entry.Values)
		case entry.Accumulates():
			m.AddElement(entry.Rows[0], entry.Cols[0], entry.Values[0])
		default:
			m.SetElement(entry.Rows[0], entry.Cols[0], entry.Values[0])
		}
	}
	m.Compress()
	return nil
}

func (s *System) validate(entry deck.Entry) error {
	m := s.matrix
	if len(entry.Values) != len(entry.Rows)*len(entry.Cols) {
		return fmt.Errorf("%d values for %dx%d patch: %w", len(entry.Values), len(entry.Rows), len(entry.Cols), ErrBadEntry)
	}
	for _, row := range entry.Rows {
		if row < 0 || row >= m.Rows() {
			return fmt.Errorf("row %d of %d: %w", row, m.Rows(), ErrBadEntry)
		}
	}
	for _, col := range entry.Cols {
		if col < 0 || col >= m.Cols() {
			return fmt.Errorf("column %d of %d: %w", col, m.Cols(), ErrBadEntry)
		}
	}
	if !entry.Batched() || m.Options().SortedColumns() {
		return nil
	}

	colIdx := m.ColIndices()
	blocks := make([]int, len(entry.Cols))
	for j, col := range entry.Cols {
		blocks[j], _ = colIdx.GlobalToLocal(col)
	}
	if !sort.IntsAreSorted(blocks) {
		return fmt.Errorf("column blocks %v: %w", blocks, blockmatrix.ErrColumnOrder)
	}
	return nil
}

func (s *System) SetVector(name string, values []float64) {
	s.vectors[name] = vector.NewFrom(values)
}

func (s *System) Vector(name string) (*vector.Vector, error) {
	v, ok := s.vectors[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownVector)
	}
	return v, nil
}

// VectorNames returns the vector names in sorted order.
func (s *System) VectorNames() []string {
	names := make([]string, 0, len(s.vectors))
	for name := range s.vectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RowVector returns the named vector split like the matrix rows.
func (s *System) RowVector(name string) (*vector.BlockVector, error) {
	if s.matrix == nil {
		return nil, ErrNoMatrix
	}
	return s.blocked(name, s.matrix.RowIndices().Sizes())
}

// ColVector returns the named vector split like the matrix columns.
func (s *System) ColVector(name string) (*vector.BlockVector, error) {
	if s.matrix == nil {
		return nil, ErrNoMatrix
	}
	return s.blocked(name, s.matrix.ColIndices().Sizes())
}

func (s *System) blocked(name string, sizes []int) (*vector.BlockVector, error) {
	flat, err := s.Vector(name)
	if err != nil {
		return nil, err
	}
	v := vector.NewBlockVector(sizes...)
	if v.Size() != flat.Size() {
		return nil, fmt.Errorf("vector %s has %d entries, need %d: %w",
			name, flat.Size(), v.Size(), blockmatrix.ErrDimensionMismatch)
	}
	v.CopyFromVector(flat)
	return v, nil
}

func (s *System) Matrix() *blockmatrix.BlockSparseMatrix {
	return s.matrix
}

func (s *System) Name() string {
	return s.name
}

func (s *System) Destroy() {
	if s.matrix != nil {
		s.matrix.Destroy()
		s.matrix = nil
	}
}
