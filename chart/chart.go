/*
Package chart implements sparse weighted charts for chart parsers.

A Chart maps keys (chart items) to weights and never stores the semiring's
zero. A Table is a triangular arrangement of charts addressed by spans
(i…j), extended column by column as input arrives. Charts are owned by a
single parser and are not safe for concurrent use.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package chart

import (
	"fmt"
	"strings"

	"github.com/npillmayer/wcfg"
	"github.com/npillmayer/wcfg/semiring"
)

// Chart is a sparse map from items to weights. Iteration follows insertion
// order, which makes parser traces reproducible.
type Chart[K comparable, W any] struct {
	sr    semiring.Semiring[W]
	cells map[K]W
	keys  []K
}

// New creates an empty chart for weights of sr.
func New[K comparable, W any](sr semiring.Semiring[W]) *Chart[K, W] {
	return &Chart[K, W]{
		sr:    sr,
		cells: make(map[K]W),
	}
}

// Semiring returns the chart's semiring.
func (c *Chart[K, W]) Semiring() semiring.Semiring[W] {
	return c.sr
}

// Get returns the weight of an item, or 0̄.
func (c *Chart[K, W]) Get(k K) W {
	if w, ok := c.cells[k]; ok {
		return w
	}
	return c.sr.Zero()
}

// Has is true if the chart holds a non-zero weight for k.
func (c *Chart[K, W]) Has(k K) bool {
	_, ok := c.cells[k]
	return ok
}

// Add ⊕-combines w with the weight of k and returns the new weight.
// Adding 0̄ is a no-op.
func (c *Chart[K, W]) Add(k K, w W) W {
	if c.sr.IsZero(w) {
		return c.Get(k)
	}
	if v, ok := c.cells[k]; ok {
		w = c.sr.Add(v, w)
		c.cells[k] = w
		return w
	}
	c.cells[k] = w
	c.keys = append(c.keys, k)
	return w
}

// Set overwrites the weight of an item. Setting an existing item to 0̄
// is not allowed, as charts are append-only.
func (c *Chart[K, W]) Set(k K, w W) {
	if c.sr.IsZero(w) {
		if _, ok := c.cells[k]; ok {
			panic(fmt.Sprintf("chart item %v cannot be reset to zero", k))
		}
		return
	}
	if _, ok := c.cells[k]; !ok {
		c.keys = append(c.keys, k)
	}
	c.cells[k] = w
}

// Len returns the number of items with a non-zero weight.
func (c *Chart[K, W]) Len() int {
	return len(c.keys)
}

// Each calls f for every item, in insertion order. f may add new items,
// which will be visited as well.
func (c *Chart[K, W]) Each(f func(k K, w W)) {
	for i := 0; i < len(c.keys); i++ {
		k := c.keys[i]
		f(k, c.cells[k])
	}
}

// Keys returns the items of the chart in insertion order.
func (c *Chart[K, W]) Keys() []K {
	return append([]K(nil), c.keys...)
}

// Sum returns the ⊕-sum of all weights.
func (c *Chart[K, W]) Sum() W {
	acc := c.sr.Zero()
	for _, k := range c.keys {
		acc = c.sr.Add(acc, c.cells[k])
	}
	return acc
}

// Clone returns a copy of the chart.
func (c *Chart[K, W]) Clone() *Chart[K, W] {
	d := New[K, W](c.sr)
	for _, k := range c.keys {
		d.cells[k] = c.cells[k]
	}
	d.keys = append(d.keys, c.keys...)
	return d
}

// ApproxEqual compares two charts item by item.
func (c *Chart[K, W]) ApproxEqual(other *Chart[K, W], tol float64) bool {
	if c.Len() != other.Len() {
		return false
	}
	for k, w := range c.cells {
		v, ok := other.cells[k]
		if !ok || !c.sr.ApproxEqual(w, v, tol) {
			return false
		}
	}
	return true
}

func (c *Chart[K, W]) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, k := range c.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v: %s", k, c.sr.Format(c.cells[k]))
	}
	b.WriteString("}")
	return b.String()
}

// --- Span tables -----------------------------------------------------------

// Row holds the weights of non-terminals for a single span, keyed by
// non-terminal ID.
type Row[W any] = Chart[int, W]

// Table is a triangular chart of rows, addressed by spans (i…j) with
// 0 ≤ i < j ≤ n. Columns are appended for every new input position n.
type Table[W any] struct {
	sr      semiring.Semiring[W]
	columns [][]*Row[W] // columns[j-1][i] holds span (i…j)
}

// NewTable creates an empty table.
func NewTable[W any](sr semiring.Semiring[W]) *Table[W] {
	return &Table[W]{sr: sr}
}

// N is the number of input positions covered.
func (t *Table[W]) N() int {
	return len(t.columns)
}

// AppendColumn adds empty rows for the spans (i…n+1), 0 ≤ i ≤ n, and returns
// the new end position n+1.
func (t *Table[W]) AppendColumn() int {
	j := len(t.columns) + 1
	col := make([]*Row[W], j)
	for i := range col {
		col[i] = New[int, W](t.sr)
	}
	t.columns = append(t.columns, col)
	return j
}

// AddColumn appends a column computed elsewhere. rows[i] holds the span
// (i…n+1) and len(rows) has to be n+1.
func (t *Table[W]) AddColumn(rows []*Row[W]) int {
	if len(rows) != len(t.columns)+1 {
		panic(fmt.Sprintf("column of height %d does not fit table of width %d", len(rows), len(t.columns)))
	}
	t.columns = append(t.columns, rows)
	return len(t.columns)
}

// At returns the row of span (i…j). Empty or out of range spans yield nil.
func (t *Table[W]) At(i, j int) *Row[W] {
	if j < 1 || j > len(t.columns) || i < 0 || i >= j {
		return nil
	}
	return t.columns[j-1][i]
}

// Cell returns the row for a span.
func (t *Table[W]) Cell(span wcfg.Span) *Row[W] {
	return t.At(int(span.From()), int(span.To()))
}

// Get returns the weight of non-terminal id over span (i…j), or 0̄.
func (t *Table[W]) Get(i, j, id int) W {
	if row := t.At(i, j); row != nil {
		return row.Get(id)
	}
	return t.sr.Zero()
}

// ApproxEqual compares two tables cell by cell.
func (t *Table[W]) ApproxEqual(other *Table[W], tol float64) bool {
	if t.N() != other.N() {
		return false
	}
	for j := 1; j <= t.N(); j++ {
		for i := 0; i < j; i++ {
			if !t.At(i, j).ApproxEqual(other.At(i, j), tol) {
				return false
			}
		}
	}
	return true
}

// --- Lookahead -------------------------------------------------------------

// Lookahead is the result of inspecting the possible continuations of a
// prefix. All weights are expressed in the scale of the parser which
// produced them: the true weight of a value v is v ⊗ exp(LogScale).
type Lookahead[W any] struct {
	Terminals map[string]W // prefix weight after appending a terminal
	End       W            // weight of the prefix as a complete string
	Prefix    W            // weight of the prefix itself
	LogScale  float64      // natural logarithm of the scale factor
}
