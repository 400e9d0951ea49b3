package dataframe

import (
	"strings"

	"github.com/paveg/tabula/internal/errors"
	"github.com/paveg/tabula/internal/series"
)

// SplitNHotEncode splits every text in s on sep and returns one int32 column
// per distinct token, holding 1 where the row contains the token and 0
// elsewhere. Tokens are trimmed and empty tokens ignored. Tokens occurring
// fewer than cutoff times across the whole series are dropped; a cutoff below
// 1 keeps them all. Columns follow the first appearance of their token.
func SplitNHotEncode(s *series.Series[string], sep string, cutoff int) (*DataFrame, error) {
	if sep == "" {
		return nil, errors.NewValueError("SplitNHotEncode", s.Name(), "separator must not be empty")
	}

	var (
		order  []string
		counts = make(map[string]int)
		rows   = make([]map[string]struct{}, s.Len())
	)
	for i, text := range s.Values() {
		present := make(map[string]struct{})
		for _, token := range strings.Split(text, sep) {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			if _, seen := counts[token]; !seen {
				order = append(order, token)
			}
			counts[token]++
			present[token] = struct{}{}
		}
		rows[i] = present
	}

	df := New()
	for _, token := range order {
		if counts[token] < cutoff {
			continue
		}
		hot := make([]int32, len(rows))
		for i, present := range rows {
			if _, ok := present[token]; ok {
				hot[i] = 1
			}
		}
		if err := df.AddColumn(series.New(token, hot)); err != nil {
			return nil, err
		}
	}
	return df, nil
}
