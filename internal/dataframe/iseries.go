package dataframe

import (
	"github.com/paveg/tabula/internal/series"
)

// ISeries provides a type-erased interface for Series of any element type
type ISeries = series.ISeries
