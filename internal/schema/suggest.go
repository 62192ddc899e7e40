package schema

import (
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/paxsat-cli/internal/table"
)

// Role is what a suggested column might be used as.
type Role string

const (
	RoleScore Role = "score"
	RoleKey   Role = "key"
)

// SuggestOptions tunes the candidate-column heuristics.
type SuggestOptions struct {
	// ScoreMin and ScoreMax bound the values a score column may hold.
	ScoreMin, ScoreMax float64
	// Limit caps suggestions per role; 0 means no cap.
	Limit int
}

// DefaultSuggestOptions matches the 1–5 rating scale of the survey.
func DefaultSuggestOptions() SuggestOptions {
	return SuggestOptions{ScoreMin: 1, ScoreMax: 5, Limit: 3}
}

// Suggestion is one candidate column with a confidence in [0,1].
type Suggestion struct {
	Column     string
	Role       Role
	Confidence float64
	Reason     string
}

var (
	scoreHints = []string{"satisfaction", "score", "rating", "grade"}
	keyHints   = []string{"flight", "_id", "id", "key", "code"}
)

// SuggestColumns ranks columns that look like a score or a grouping key.
// It never changes a contract; callers decide whether to act on the result.
func SuggestColumns(t *table.Table, opt SuggestOptions) []Suggestion {
	var scores, keys []Suggestion
	for _, col := range t.Columns() {
		name := strings.ToLower(col.Name)
		kind := table.InferKind(col.Values)
		present, inRange, distinct := profile(col.Values, opt)
		if present == 0 {
			continue
		}
		if kind == table.KindNumeric {
			conf := 0.6 * float64(inRange) / float64(present)
			reason := "numeric"
			if inRange == present {
				reason += ", all values within range"
			}
			if hasHint(name, scoreHints) {
				conf += 0.4
				reason += ", name suggests a score"
			}
			if conf > 0.3 {
				scores = append(scores, Suggestion{Column: col.Name, Role: RoleScore, Confidence: round2(conf), Reason: reason})
			}
		}
		ratio := float64(distinct) / float64(present)
		conf := 0.0
		reason := ""
		if kind == table.KindCategorical && distinct > 1 && ratio < 1 {
			conf += 0.5 * (1 - ratio)
			reason = "categorical with repeated values"
		}
		if hasHint(name, keyHints) {
			conf += 0.5
			if reason != "" {
				reason += ", "
			}
			reason += "name suggests a key"
		}
		if conf > 0.3 {
			keys = append(keys, Suggestion{Column: col.Name, Role: RoleKey, Confidence: round2(conf), Reason: reason})
		}
	}
	rank(scores)
	rank(keys)
	return append(trim(scores, opt.Limit), trim(keys, opt.Limit)...)
}

func profile(values []string, opt SuggestOptions) (present, inRange, distinct int) {
	seen := map[string]bool{}
	for _, v := range values {
		if table.IsMissing(v) {
			continue
		}
		present++
		v = strings.TrimSpace(v)
		if !seen[v] {
			seen[v] = true
			distinct++
		}
		if x, ok := table.ParseNumber(v); ok && x >= opt.ScoreMin && x <= opt.ScoreMax {
			inRange++
		}
	}
	return present, inRange, distinct
}

func hasHint(name string, hints []string) bool {
	for _, h := range hints {
		if strings.Contains(name, h) {
			return true
		}
	}
	return false
}

func rank(s []Suggestion) {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Confidence == s[j].Confidence {
			return s[i].Column < s[j].Column
		}
		return s[i].Confidence > s[j].Confidence
	})
}

func trim(s []Suggestion, limit int) []Suggestion {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}

func round2(x float64) float64 { return math.Round(math.Min(x, 1)*100) / 100 }
