package notebook

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
)

var (
	// Optional currency symbol, then a signed number with optional thousands
	// separators: "$25", "1,000.50", "-5", "- 5".
	numberPattern   = regexp.MustCompile(`[$€£¥]?\s*(-\s*\d{1,3}(?:,\d{3})+(?:\.\d+)?|-\s*\d+(?:\.\d+)?|\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)`)
	wordPattern     = regexp.MustCompile(`\p{L}+`)
	sentencePattern = regexp.MustCompile(`[.!?]+`)
)

// TextStats summarizes a block of prose.
type TextStats struct {
	Items              int
	Words              int
	Characters         int
	Sentences          int
	Syllables          int
	FleschReadingEase  float64
	FleschKincaidGrade float64
}

// ExtractNumbers returns every number found in text, in order.
func ExtractNumbers(text string) []float64 {
	var numbers []float64
	for _, m := range numberPattern.FindAllStringSubmatch(text, -1) {
		raw := strings.NewReplacer(",", "", " ", "", "\t", "").Replace(m[1])
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			numbers = append(numbers, v)
		}
	}
	return numbers
}

// Sum adds every number in text.
func Sum(text string) float64 {
	total := 0.0
	for _, n := range ExtractNumbers(text) {
		total += n
	}
	return total
}

// Average is the mean of the numbers in text, 0 when there are none.
func Average(text string) float64 {
	nums := ExtractNumbers(text)
	if len(nums) == 0 {
		return 0
	}
	return Sum(text) / float64(len(nums))
}

// Min is the smallest number in text, 0 when there are none.
func Min(text string) float64 {
	nums := ExtractNumbers(text)
	if len(nums) == 0 {
		return 0
	}
	m := nums[0]
	for _, n := range nums[1:] {
		m = math.Min(m, n)
	}
	return m
}

// Max is the largest number in text, 0 when there are none.
func Max(text string) float64 {
	nums := ExtractNumbers(text)
	if len(nums) == 0 {
		return 0
	}
	m := nums[0]
	for _, n := range nums[1:] {
		m = math.Max(m, n)
	}
	return m
}

// Analyze counts items (non-empty lines), words, non-space characters and
// sentences, and computes the Flesch readability scores.
func Analyze(text string) TextStats {
	var stats TextStats
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			stats.Items++
		}
	}
	for _, word := range wordPattern.FindAllString(text, -1) {
		stats.Words++
		stats.Syllables += countSyllables(word)
	}
	for _, r := range text {
		if !unicode.IsSpace(r) {
			stats.Characters++
		}
	}
	stats.Sentences = len(sentencePattern.FindAllStringIndex(text, -1))
	if stats.Sentences == 0 && stats.Words > 0 {
		stats.Sentences = 1
	}

	if stats.Words > 0 {
		wordsPerSentence := float64(stats.Words) / float64(stats.Sentences)
		syllablesPerWord := float64(stats.Syllables) / float64(stats.Words)
		ease := 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord
		stats.FleschReadingEase = math.Max(0, math.Min(100, ease))
		stats.FleschKincaidGrade = math.Max(0, 0.39*wordsPerSentence+11.8*syllablesPerWord-15.59)
	}
	return stats
}

// countSyllables counts vowel groups, dropping a trailing silent e. Every
// word has at least one syllable.
func countSyllables(word string) int {
	w := strings.ToLower(word)
	count := 0
	prevVowel := false
	for _, r := range w {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}
	if strings.HasSuffix(w, "e") && count > 1 {
		count--
	}
	if count < 1 {
		return 1
	}
	return count
}

// FormatSum renders "Total: <sum>", prefixed with "$" when text carries a
// currency symbol.
func FormatSum(text string) string {
	if len(ExtractNumbers(text)) == 0 {
		return "Total: 0"
	}
	return "Total: " + currencyPrefix(text) + formatTwoDecimals(Sum(text))
}

// FormatAverage renders "Avg: <mean>" in the same style as FormatSum.
func FormatAverage(text string) string {
	if len(ExtractNumbers(text)) == 0 {
		return "Avg: 0"
	}
	return "Avg: " + currencyPrefix(text) + formatTwoDecimals(Average(text))
}

// FormatCount renders the Analyze report, one statistic per line.
func FormatCount(text string) string {
	s := Analyze(text)
	lines := []string{
		"Items: " + humanize.Comma(int64(s.Items)),
		"Words: " + humanize.Comma(int64(s.Words)),
		"Characters: " + humanize.Comma(int64(s.Characters)),
		"Sentences: " + humanize.Comma(int64(s.Sentences)),
		fmt.Sprintf("Flesch Reading Ease Score: %.2f", s.FleschReadingEase),
		fmt.Sprintf("Flesch-Kincaid Grade Level: %.2f", s.FleschKincaidGrade),
	}
	return strings.Join(lines, "\n")
}

func currencyPrefix(text string) string {
	if strings.ContainsAny(text, "$€£¥") {
		return "$"
	}
	return ""
}

func formatTwoDecimals(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}
