package dataframe

import (
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/paveg/tabula/internal/config"
	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/logging"
	"github.com/paveg/tabula/internal/series"
	"github.com/paveg/tabula/internal/validation"
)

const defaultKeyName = "key"

// GroupBy is the split phase of a group-by over every column of a frame.
type GroupBy struct {
	df       *DataFrame
	grouping *series.Grouping
	keyName  string
	exclude  string
}

// GroupBy partitions the rows of df by keys. keys must have the frame length.
func (df *DataFrame) GroupBy(keys ISeries) (*GroupBy, error) {
	if keys == nil {
		return nil, errors.NewValueError("GroupBy", "", "keys must not be nil")
	}
	if err := df.checkLengths("GroupBy"); err != nil {
		return nil, err
	}
	if err := validation.ValidateLength(df.Len(), keys.Len(), "GroupBy", keys.Name()); err != nil {
		return nil, err
	}

	keyName := keys.Name()
	if keyName == "" {
		keyName = defaultKeyName
	}

	var exclude string
	if existing, ok := df.columns[keyName]; ok {
		if existing == keys {
			exclude = keyName
		} else {
			keyName += "_" + defaultKeyName
		}
	}

	return &GroupBy{
		df:       df,
		grouping: series.NewGrouping(keys),
		keyName:  keyName,
		exclude:  exclude,
	}, nil
}

// GroupByColumn partitions the rows of df by one of its columns. The key
// column is left out of the aggregated columns.
func (df *DataFrame) GroupByColumn(name string) (*GroupBy, error) {
	if err := validation.ValidateColumns(df, "GroupBy", name); err != nil {
		return nil, err
	}
	return df.GroupBy(df.columns[name])
}

// NGroups returns the number of groups
func (g *GroupBy) NGroups() int {
	return g.grouping.NGroups()
}

// Keys returns the group keys in first appearance order
func (g *GroupBy) Keys() ISeries {
	keys := g.grouping.Keys()
	keys.SetName(g.keyName)
	return keys
}

// Groups returns one sub-frame per group, in first appearance order. Each
// sub-frame owns copies of its rows and keeps their index values.
func (g *GroupBy) Groups() ([]*DataFrame, error) {
	out := make([]*DataFrame, 0, g.grouping.NGroups())
	for _, positions := range g.grouping.Groups() {
		sub, err := g.df.Take(positions)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, nil
}

// Aggregate reduces every value column per group with agg. The result holds
// the key column first, then one column per value column in frame order.
// Columns are reduced concurrently, bounded by config.MaxParallelism.
func (g *GroupBy) Aggregate(agg series.Aggregation) (*DataFrame, error) {
	return g.reduce(agg.Op.String(), func(s ISeries, groups [][]int) (ISeries, error) {
		return s.AggregateGroups(groups, agg)
	})
}

// Apply reduces every group of every value column with fn. All results for
// one column must share an element type.
func (g *GroupBy) Apply(fn func(group ISeries) (series.Datum, error)) (*DataFrame, error) {
	return g.reduce("apply", func(s ISeries, groups [][]int) (ISeries, error) {
		datums := make([]series.Datum, len(groups))
		for i, positions := range groups {
			sub, err := s.TakeSeries(positions)
			if err != nil {
				return nil, err
			}
			d, err := fn(sub)
			if err != nil {
				return nil, err
			}
			if i > 0 && d.DType != datums[0].DType {
				return nil, errors.NewTypeMismatchError("Apply", s.Name(), datums[0].DType.String(), d.DType.String())
			}
			datums[i] = d
		}
		if len(datums) == 0 {
			return series.Empty(s.Name(), s.DType()), nil
		}
		return series.FromDatums(s.Name(), datums[0].DType, datums), nil
	})
}

// Sum adds every group
func (g *GroupBy) Sum() (*DataFrame, error) {
	return g.Aggregate(series.Aggregation{Op: series.OpSum})
}

// Min takes the smallest value of every group
func (g *GroupBy) Min() (*DataFrame, error) {
	return g.Aggregate(series.Aggregation{Op: series.OpMin})
}

// Max takes the largest value of every group
func (g *GroupBy) Max() (*DataFrame, error) {
	return g.Aggregate(series.Aggregation{Op: series.OpMax})
}

// Mean averages every group
func (g *GroupBy) Mean() (*DataFrame, error) {
	return g.Aggregate(series.Aggregation{Op: series.OpMean})
}

// Var is the variance of every group
func (g *GroupBy) Var(ddof int) (*DataFrame, error) {
	return g.Aggregate(series.Aggregation{Op: series.OpVar, DDoF: ddof})
}

// Std is the standard deviation of every group
func (g *GroupBy) Std(ddof int) (*DataFrame, error) {
	return g.Aggregate(series.Aggregation{Op: series.OpStd, DDoF: ddof})
}

// Median is the median of every group
func (g *GroupBy) Median() (*DataFrame, error) {
	return g.Aggregate(series.Aggregation{Op: series.OpMedian})
}

// Count is the size of every group
func (g *GroupBy) Count() (*DataFrame, error) {
	return g.Aggregate(series.Aggregation{Op: series.OpCount})
}

func (g *GroupBy) reduce(op string, fn func(ISeries, [][]int) (ISeries, error)) (*DataFrame, error) {
	cfg := config.GetGlobalConfig()
	logger := logging.Component("groupby")

	names := make([]string, 0, len(g.df.meta))
	for _, m := range g.df.meta {
		if m.Name != g.exclude {
			names = append(names, m.Name)
		}
	}

	groups := g.grouping.Groups()
	results := make([]ISeries, len(names))

	var eg errgroup.Group
	if cfg.MaxParallelism > 0 {
		eg.SetLimit(cfg.MaxParallelism)
	}
	for i, name := range names {
		eg.Go(func() error {
			out, err := fn(g.df.columns[name], groups)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	logger.Debug("group-by reduced",
		zap.String("op", op),
		zap.String("key", g.keyName),
		zap.Int("groups", len(groups)),
		zap.Int("columns", len(names)))

	out := New()
	if err := out.AddColumn(g.Keys()); err != nil {
		return nil, err
	}
	for _, s := range results {
		if err := out.AddColumn(s); err != nil {
			return nil, err
		}
	}
	return out, nil
}
