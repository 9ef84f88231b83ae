package helpers

import (
	"sort"
	"strings"

	"github.com/doeshing/notecalc/internal/domain"
)

// InputStatistic represents how often an input line was evaluated
type InputStatistic struct {
	Input string
	Count int
}

// CalculateTopInputs returns the top N most frequently evaluated inputs
// If limit is 0 or negative, returns all inputs
func CalculateTopInputs(inputFrequency map[string]int, limit int) []InputStatistic {
	stats := convertFrequencyMapToStatistics(inputFrequency)
	sortStatisticsByFrequency(stats)

	if shouldLimitResults(limit, len(stats)) {
		return stats[:limit]
	}
	return stats
}

// convertFrequencyMapToStatistics converts a map to a slice of InputStatistic
func convertFrequencyMapToStatistics(frequency map[string]int) []InputStatistic {
	stats := make([]InputStatistic, 0, len(frequency))
	for input, count := range frequency {
		stats = append(stats, InputStatistic{
			Input: input,
			Count: count,
		})
	}
	return stats
}

// sortStatisticsByFrequency sorts statistics by count (descending) then by input (ascending)
func sortStatisticsByFrequency(stats []InputStatistic) {
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count == stats[j].Count {
			return stats[i].Input < stats[j].Input
		}
		return stats[i].Count > stats[j].Count
	})
}

// shouldLimitResults checks if we should limit the results based on the limit and actual length
func shouldLimitResults(limit int, actualLength int) bool {
	return limit > 0 && actualLength > limit
}

// CountByKind tallies records per line kind
func CountByKind(records []domain.HistoryRecord) map[domain.LineKind]int {
	counts := make(map[domain.LineKind]int)
	for _, rec := range records {
		counts[rec.Kind]++
	}
	return counts
}

// CurrencyPairs tallies "FROM->TO" pairs from currency records, using the
// code at the end of the output as the target.
func CurrencyPairs(records []domain.HistoryRecord) map[string]int {
	pairs := make(map[string]int)
	for _, rec := range records {
		if rec.Kind != domain.LineCurrency {
			continue
		}
		fields := strings.Fields(rec.Output)
		if len(fields) == 0 {
			continue
		}
		to := fields[len(fields)-1]
		from := sourceCode(rec.Input, to)
		if from == "" {
			continue
		}
		pairs[from+"->"+to]++
	}
	return pairs
}

// sourceCode returns the first alphabetic token of input that differs from target.
func sourceCode(input, target string) string {
	for _, field := range strings.FieldsFunc(input, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	}) {
		code := strings.ToUpper(field)
		if code == "TO" || code == target {
			continue
		}
		return code
	}
	return ""
}
