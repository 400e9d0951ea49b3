package series

import (
	"github.com/cespare/xxhash/v2"

	"github.com/paveg/tabula/internal/dtype"
	"github.com/paveg/tabula/internal/errors"
)

// Grouping partitions positions by key. Groups are numbered in order of the
// first appearance of their key.
type Grouping struct {
	keys   ISeries
	first  []int
	groups [][]int
}

// NewGrouping splits the positions of keys into groups of equal key text.
func NewGrouping(keys ISeries) *Grouping {
	n := keys.Len()
	buckets := make(map[uint64][]int)
	texts := make([]string, 0)
	g := &Grouping{keys: keys}

	for pos := 0; pos < n; pos++ {
		text := keys.StringAt(pos)
		h := xxhash.Sum64String(text)

		id := -1
		for _, candidate := range buckets[h] {
			if texts[candidate] == text {
				id = candidate
				break
			}
		}
		if id < 0 {
			id = len(g.groups)
			buckets[h] = append(buckets[h], id)
			texts = append(texts, text)
			g.first = append(g.first, pos)
			g.groups = append(g.groups, nil)
		}
		g.groups[id] = append(g.groups[id], pos)
	}
	return g
}

// NGroups returns the number of distinct keys
func (g *Grouping) NGroups() int {
	return len(g.groups)
}

// Groups returns the member positions of every group
func (g *Grouping) Groups() [][]int {
	return g.groups
}

// Keys returns one key per group, typed like the key series, in first
// appearance order.
func (g *Grouping) Keys() ISeries {
	keys, err := g.keys.TakeSeries(g.first)
	if err != nil {
		// first holds positions produced by walking keys itself
		panic(err)
	}
	return keys
}

// KeyName returns the name of the key series
func (g *Grouping) KeyName() string {
	return g.keys.Name()
}

// SeriesGroupBy is the split phase of a group-by over one value series.
type SeriesGroupBy[T dtype.Element] struct {
	values   *Series[T]
	grouping *Grouping
}

// GroupBy partitions s by keys. keys must have the same length as s.
func (s *Series[T]) GroupBy(keys ISeries) (*SeriesGroupBy[T], error) {
	if keys == nil {
		return nil, errors.NewValueError("GroupBy", s.name, "keys must not be nil")
	}
	if keys.Len() != s.Len() {
		return nil, errors.NewLengthMismatchError("GroupBy", keys.Name(), s.Len(), keys.Len())
	}
	return &SeriesGroupBy[T]{values: s, grouping: NewGrouping(keys)}, nil
}

// Keys returns the group keys in first appearance order
func (g *SeriesGroupBy[T]) Keys() ISeries {
	return g.grouping.Keys()
}

// NGroups returns the number of groups
func (g *SeriesGroupBy[T]) NGroups() int {
	return g.grouping.NGroups()
}

// Groups returns one sub-series per group
func (g *SeriesGroupBy[T]) Groups() []*Series[T] {
	out := make([]*Series[T], len(g.grouping.groups))
	for i, positions := range g.grouping.groups {
		out[i] = g.values.gather(positions)
	}
	return out
}

// Apply reduces every group with fn into a series of the same element type
func (g *SeriesGroupBy[T]) Apply(fn func(*Series[T]) (T, error)) (*Series[T], error) {
	return Apply(g, fn)
}

// Apply reduces every group of g with fn, one output element per group.
func Apply[R, T dtype.Element](g *SeriesGroupBy[T], fn func(*Series[T]) (R, error)) (*Series[R], error) {
	out := make([]R, len(g.grouping.groups))
	for i, positions := range g.grouping.groups {
		v, err := fn(g.values.gather(positions))
		if err != nil {
			return nil, withColumn(err, g.values.name)
		}
		out[i] = v
	}
	return New(g.values.name, out), nil
}

// Aggregate reduces every group with agg
func (g *SeriesGroupBy[T]) Aggregate(agg Aggregation) (ISeries, error) {
	return g.values.AggregateGroups(g.grouping.groups, agg)
}

// Sum adds the values of every group
func (g *SeriesGroupBy[T]) Sum() (*Series[T], error) {
	return Apply(g, (*Series[T]).Sum)
}

// Min returns the smallest value of every group
func (g *SeriesGroupBy[T]) Min() (*Series[T], error) {
	return Apply(g, (*Series[T]).Min)
}

// Max returns the largest value of every group
func (g *SeriesGroupBy[T]) Max() (*Series[T], error) {
	return Apply(g, (*Series[T]).Max)
}

// Mean averages every group
func (g *SeriesGroupBy[T]) Mean() (*Series[float64], error) {
	return Apply(g, (*Series[T]).Mean)
}

// Var returns the variance of every group
func (g *SeriesGroupBy[T]) Var(ddof int) (*Series[float64], error) {
	return Apply(g, func(s *Series[T]) (float64, error) { return s.Var(ddof) })
}

// Std returns the standard deviation of every group
func (g *SeriesGroupBy[T]) Std(ddof int) (*Series[float64], error) {
	return Apply(g, func(s *Series[T]) (float64, error) { return s.Std(ddof) })
}

// Median returns the median of every group
func (g *SeriesGroupBy[T]) Median() (*Series[float64], error) {
	return Apply(g, (*Series[T]).Median)
}

// Count returns the size of every group
func (g *SeriesGroupBy[T]) Count() *Series[int64] {
	out := make([]int64, len(g.grouping.groups))
	for i, positions := range g.grouping.groups {
		out[i] = int64(len(positions))
	}
	return New(g.values.name, out)
}

// AggregateGroups reduces each set of positions with agg. Positions must be
// valid for s.
func (s *Series[T]) AggregateGroups(groups [][]int, agg Aggregation) (ISeries, error) {
	datums := make([]Datum, len(groups))
	buf := make([]T, 0)
	for i, positions := range groups {
		buf = buf[:0]
		for _, p := range positions {
			buf = append(buf, s.values[p])
		}
		d, err := reduceValues(buf, agg)
		if err != nil {
			return nil, withColumn(err, s.name)
		}
		datums[i] = d
	}
	return FromDatums(s.name, agg.ResultDType(s.dtype), datums), nil
}

func (s *Series[T]) gather(positions []int) *Series[T] {
	out := make([]T, len(positions))
	for i, p := range positions {
		out[i] = s.values[p]
	}
	return New(s.name, out)
}
