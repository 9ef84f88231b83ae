package notebook

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractNumbers(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []float64
	}{
		{name: "plain", text: "apples 3\npears 4.5", want: []float64{3, 4.5}},
		{name: "currency symbols", text: "lunch $25\ntaxi €10", want: []float64{25, 10}},
		{name: "thousands separators", text: "rent 1,200.50 and 2,000", want: []float64{1200.5, 2000}},
		{name: "long plain number", text: "1234", want: []float64{1234}},
		{name: "negative with space", text: "refund - 5", want: []float64{-5}},
		{name: "none", text: "no numbers here", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ExtractNumbers(tt.text)); diff != "" {
				t.Fatalf("ExtractNumbers() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAggregates(t *testing.T) {
	text := "10\n-2\n4.5"
	if got := Sum(text); got != 12.5 {
		t.Errorf("Sum() = %v", got)
	}
	if got := Average(text); got != 12.5/3 {
		t.Errorf("Average() = %v", got)
	}
	if got := Min(text); got != -2 {
		t.Errorf("Min() = %v", got)
	}
	if got := Max(text); got != 10 {
		t.Errorf("Max() = %v", got)
	}
	for name, fn := range map[string]func(string) float64{"Average": Average, "Min": Min, "Max": Max} {
		if got := fn("nothing"); got != 0 {
			t.Errorf("%s(empty) = %v", name, got)
		}
	}
}

func TestFormatSumAndAverage(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) string
		text string
		want string
	}{
		{name: "sum plain", fn: FormatSum, text: "1\n2", want: "Total: 3.00"},
		{name: "sum currency", fn: FormatSum, text: "$1,000\n$234.5", want: "Total: $1,234.50"},
		{name: "sum empty", fn: FormatSum, text: "", want: "Total: 0"},
		{name: "avg plain", fn: FormatAverage, text: "1\n2", want: "Avg: 1.50"},
		{name: "avg empty", fn: FormatAverage, text: "words", want: "Avg: 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.text); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAnalyze(t *testing.T) {
	text := "The cat sat.\n\nThe dog ran away!"
	got := Analyze(text)

	if got.Items != 2 || got.Words != 7 || got.Sentences != 2 {
		t.Fatalf("Analyze() counts = %+v", got)
	}
	if got.Characters != len(strings.Join(strings.Fields(text), "")) {
		t.Fatalf("Characters = %d", got.Characters)
	}
	if got.Syllables != 8 {
		t.Fatalf("Syllables = %d", got.Syllables)
	}
	if got.FleschReadingEase <= 0 || got.FleschReadingEase > 100 {
		t.Fatalf("FleschReadingEase = %v", got.FleschReadingEase)
	}
}

func TestAnalyze_NoPunctuationIsOneSentence(t *testing.T) {
	if got := Analyze("just some words").Sentences; got != 1 {
		t.Fatalf("Sentences = %d", got)
	}
	if got := Analyze("").Sentences; got != 0 {
		t.Fatalf("Sentences for empty text = %d", got)
	}
}

func TestCountSyllables(t *testing.T) {
	tests := map[string]int{
		"cat":    1,
		"away":   2,
		"make":   1,
		"the":    1,
		"rhythm": 1,
		"queue":  1,
	}
	for word, want := range tests {
		if got := countSyllables(word); got != want {
			t.Errorf("countSyllables(%q) = %d, want %d", word, got, want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	got := FormatCount("Hello world.")
	for _, want := range []string{"Items: 1", "Words: 2", "Characters: 11", "Sentences: 1", "Flesch Reading Ease Score:", "Flesch-Kincaid Grade Level:"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatCount() missing %q in:\n%s", want, got)
		}
	}
}
