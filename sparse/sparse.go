/*
Package sparse implements a simple type for sparse weight matrices.
It is mainly used for the closure of unary rule chains, where rows and
columns are indexed by non-terminal ids. Every entry in the matrix is a
weight of a semiring; entries equal to the semiring's zero are not stored.

This implementation uses the COO algorithm (a.k.a. triplet-encoding).

   https://medium.com/@jmaxg3/101-ways-to-store-a-sparse-matrix-c7f2bf15a229
   https://www.coin-or.org/Ipopt/documentation/node38.html


License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package sparse

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/wcfg/semiring"
)

// Matrix is a type for a sparse square-or-rectangular matrix of weights.
// Construct with
//
//     M := sparse.New[float64](semiring.Float{}, 10, 10)
//
// Now
//
//     M.Set(2, 3, 0.5)               // set a value
//     v := M.Value(2, 3)             // returns 0.5
//     M.Add(2, 3, 0.25)              // ⊕ a second value
//     cnt := M.ValueCount()          // still returns 1 (one position set)
//     v = M.Value(9, 9)              // returns 0̄
//
// Setting a position to 0̄ removes it.
type Matrix[W any] struct {
	sr     semiring.Semiring[W]
	values []triplet[W]
	rowcnt int
	colcnt int
}

// Triplet values to store, ordered by (row, col).
type triplet[W any] struct {
	row, col int
	value    W
}

// New creates a new matrix for weights of sr, size m x n.
func New[W any](sr semiring.Semiring[W], m, n int) *Matrix[W] {
	return &Matrix[W]{
		sr:     sr,
		values: []triplet[W]{},
		rowcnt: m,
		colcnt: n,
	}
}

// Identity creates an n x n matrix with 1̄ on the diagonal.
func Identity[W any](sr semiring.Semiring[W], n int) *Matrix[W] {
	m := New(sr, n, n)
	for i := 0; i < n; i++ {
		m.values = append(m.values, triplet[W]{row: i, col: i, value: sr.One()})
	}
	return m
}

// M returns the row count.
func (m *Matrix[W]) M() int {
	return m.rowcnt
}

// N returns the column count.
func (m *Matrix[W]) N() int {
	return m.colcnt
}

// ValueCount returns the number of non-zero values in the matrix.
func (m *Matrix[W]) ValueCount() int {
	return len(m.values)
}

// Value returns the value at position (i,j), or 0̄.
func (m *Matrix[W]) Value(i, j int) W {
	if k, found := m.find(i, j); found {
		return m.values[k].value
	}
	return m.sr.Zero()
}

// Set a value in the matrix at position (i,j).
func (m *Matrix[W]) Set(i, j int, value W) *Matrix[W] {
	return m.setOrAdd(i, j, value, false)
}

// Add ⊕-combines a value with the value at position (i,j).
func (m *Matrix[W]) Add(i, j int, value W) *Matrix[W] {
	return m.setOrAdd(i, j, value, true)
}

// Row calls f for every non-zero entry of row i, in column order.
func (m *Matrix[W]) Row(i int, f func(j int, w W)) {
	k, _ := m.find(i, 0)
	for ; k < len(m.values) && m.values[k].row == i; k++ {
		f(m.values[k].col, m.values[k].value)
	}
}

// Each calls f for every non-zero entry, in row-major order.
func (m *Matrix[W]) Each(f func(i, j int, w W)) {
	for _, t := range m.values {
		f(t.row, t.col, t.value)
	}
}

// Clone returns a copy of m.
func (m *Matrix[W]) Clone() *Matrix[W] {
	c := New(m.sr, m.rowcnt, m.colcnt)
	c.values = append(c.values, m.values...)
	return c
}

func (m *Matrix[W]) find(i, j int) (int, bool) {
	k := sort.Search(len(m.values), func(k int) bool {
		return !m.values[k].storedLeftOf(i, j)
	})
	return k, k < len(m.values) && m.values[k].storedAt(i, j)
}

func (m *Matrix[W]) setOrAdd(i, j int, value W, doAdd bool) *Matrix[W] {
	if i < 0 || i >= m.rowcnt || j < 0 || j >= m.colcnt {
		panic(fmt.Sprintf("sparse matrix index (%d,%d) out of range %dx%d", i, j, m.rowcnt, m.colcnt))
	}
	at, found := m.find(i, j)
	if found { // value already present
		if doAdd {
			value = m.sr.Add(m.values[at].value, value)
		}
		if m.sr.IsZero(value) {
			m.values = append(m.values[:at], m.values[at+1:]...)
		} else {
			m.values[at].value = value
		}
		return m
	}
	if m.sr.IsZero(value) {
		return m
	}
	tnew := triplet[W]{row: i, col: j, value: value}
	// the following 3 lines have to work for at being the right edge of values or not
	m.values = append(m.values, tnew)    // make room
	copy(m.values[at+1:], m.values[at:]) // copy remainder values one index to right
	m.values[at] = tnew                  // if not append-case: insert new triplet
	return m
}

func (t *triplet[W]) storedLeftOf(i, j int) bool {
	return t.row < i || t.row == i && t.col < j
}

func (t *triplet[W]) storedAt(i, j int) bool {
	return (t.row == i && t.col == j)
}

func (m *Matrix[W]) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%dx%d{", m.rowcnt, m.colcnt)
	for k, t := range m.values {
		if k > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "(%d,%d)=%s", t.row, t.col, m.sr.Format(t.value))
	}
	b.WriteString("}")
	return b.String()
}

// --- Closure ---------------------------------------------------------------

// Closure computes the reflexive-transitive closure M* = I ⊕ M ⊕ M² ⊕ … of a
// square matrix with Lehmann's algorithm. It needs the Kleene-star of the
// semiring and reports its errors, e.g. for divergent cycles over the reals.
func Closure[W any](a *Matrix[W]) (*Matrix[W], error) {
	if a.rowcnt != a.colcnt {
		panic("closure of non-square matrix")
	}
	sr := a.sr
	m := a.Clone()
	for k := 0; k < m.rowcnt; k++ {
		var col, row []triplet[W]
		for _, t := range m.values {
			if t.col == k {
				col = append(col, t)
			}
			if t.row == k {
				row = append(row, t)
			}
		}
		if len(col) == 0 || len(row) == 0 {
			continue
		}
		s, err := sr.Star(m.Value(k, k))
		if err != nil {
			return nil, err
		}
		for _, ik := range col {
			left := sr.Mul(ik.value, s)
			for _, kj := range row {
				m.Add(ik.row, kj.col, sr.Mul(left, kj.value))
			}
		}
	}
	for i := 0; i < m.rowcnt; i++ {
		m.Add(i, i, sr.One())
	}
	return m, nil
}
