// Package notebook annotates calc-mode lines and notes. Each line is tried as
// a currency conversion, then a unit conversion, then an arithmetic
// expression, and the first that succeeds supplies the " = result" suffix.
package notebook

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/doeshing/notecalc/internal/application/currency"
	"github.com/doeshing/notecalc/internal/calc"
	"github.com/doeshing/notecalc/internal/domain"
	"github.com/doeshing/notecalc/internal/pkg/logger"
	"github.com/doeshing/notecalc/internal/ports"
	"github.com/doeshing/notecalc/internal/units"
)

var (
	resultSuffixPattern = regexp.MustCompile(`=\s*[\d.,]+\s*$`)
	assignmentPattern   = regexp.MustCompile(`^[a-zA-Z_]\w*\s*[:=]\s*\S`)
	// Single numbers, variables and bare aggregates carry no operator.
	singleTermPattern = regexp.MustCompile(`^(?:\d+(?:\.\d+)?|[a-zA-Z_]\w*(?:\s*\(\s*\))?)\s*=?$`)
)

// Service owns one evaluator session. Currency may be nil when currency
// support is disabled. History, when set, receives every annotated line
// passed to AnnotateLine.
type Service struct {
	Evaluator    *calc.Evaluator
	Units        *units.Resolver
	Currency     *currency.Service
	BaseCurrency string
	History      ports.HistoryRepository
	SessionID    string
	Logger       ports.Logger
	Now          func() time.Time
}

// NewService returns a notebook with a fresh evaluator.
func NewService(rates *currency.Service, resolver *units.Resolver, base string) *Service {
	if resolver == nil {
		resolver = units.NewResolver(nil)
	}
	return &Service{
		Evaluator:    calc.New(),
		Units:        resolver,
		Currency:     rates,
		BaseCurrency: base,
	}
}

// AnnotateLine classifies line, evaluating it against the session state, and
// records annotated results in the history.
func (s *Service) AnnotateLine(line string) domain.Annotation {
	ann := s.annotate(line)
	if ann.Annotated() {
		s.record(ann)
	}
	return ann
}

// AnnotateNote resets the session and returns text with a suffix appended to
// every line that produced a result. Lines are evaluated in order, so
// aggregates see the values of the lines above them. Nothing is recorded in
// the history.
func (s *Service) AnnotateNote(text string) string {
	s.Reset()
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if ann := s.annotate(line); ann.Annotated() {
			lines[i] = strings.TrimRight(line, " \t\r") + ann.Suffix
		}
	}
	return strings.Join(lines, "\n")
}

// Reset clears variables and history of the evaluator.
func (s *Service) Reset() {
	s.evaluator().Clear()
}

// Variables returns the defined variables with their values, sorted by name.
func (s *Service) Variables() []Variable {
	ev := s.evaluator()
	names := ev.Variables()
	out := make([]Variable, 0, len(names))
	for _, name := range names {
		value, _ := ev.Variable(name)
		out = append(out, Variable{Name: name, Value: value})
	}
	return out
}

// Results returns the values recorded by the evaluator this session.
func (s *Service) Results() []float64 {
	return s.evaluator().History()
}

// Variable is a named value defined in the session.
type Variable struct {
	Name  string
	Value float64
}

func (s *Service) annotate(line string) domain.Annotation {
	trimmed := strings.TrimSpace(line)
	ann := domain.Annotation{Input: trimmed}
	if trimmed == "" || trimmed == "---" {
		return ann
	}

	if assignmentPattern.MatchString(trimmed) {
		result, err := s.evaluator().Evaluate(trimmed)
		if err != nil {
			s.log().Debug("assignment failed", map[string]interface{}{"line": trimmed, "error": err.Error()})
			return ann
		}
		ann.Kind = domain.LineAssignment
		ann.Value = result.Value
		return ann
	}

	if resultSuffixPattern.MatchString(trimmed) {
		return ann
	}

	if s.Currency != nil {
		if conv, err := s.Currency.ParseAndConvert(trimmed, s.base()); err == nil {
			ann.Kind = domain.LineCurrency
			ann.Value = conv.Converted
			ann.Suffix = " = " + currency.FormatAmount(conv.Converted, conv.To)
			return ann
		}
	}

	if req, err := s.Units.Parse(trimmed); err == nil {
		value, unit, err := s.Units.ConvertValue(req.Amount, req.From, req.To)
		if err == nil {
			ann.Kind = domain.LineUnit
			ann.Value = value
			ann.Suffix = " = " + units.FormatNumber(value) + " " + unit.Canonical
			return ann
		}
	}

	if !calc.IsMathExpression(trimmed) && !singleTermPattern.MatchString(trimmed) {
		return ann
	}
	result, err := s.evaluator().Evaluate(trimmed)
	if err != nil {
		s.log().Debug("line not evaluated", map[string]interface{}{"line": trimmed, "error": err.Error()})
		return ann
	}
	ann.Kind = domain.LineMath
	ann.Value = result.Value
	if strings.HasSuffix(trimmed, "=") {
		ann.Suffix = " " + FormatResult(result.Value)
	} else {
		ann.Suffix = " = " + FormatResult(result.Value)
	}
	return ann
}

// FormatResult renders a math result: integral values without decimals,
// everything else with four.
func FormatResult(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func (s *Service) record(ann domain.Annotation) {
	if s.History == nil {
		return
	}
	rec := domain.HistoryRecord{
		Timestamp: s.now(),
		SessionID: s.SessionID,
		Kind:      ann.Kind,
		Input:     ann.Input,
		Output:    strings.TrimSpace(strings.TrimPrefix(ann.Suffix, " = ")),
		Value:     ann.Value,
	}
	if err := s.History.Save(rec); err != nil {
		s.log().Warn("failed to save history", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Service) evaluator() *calc.Evaluator {
	if s.Evaluator == nil {
		s.Evaluator = calc.New()
	}
	return s.Evaluator
}

func (s *Service) base() string {
	if s.BaseCurrency == "" {
		return domain.BaseCurrency
	}
	return s.BaseCurrency
}

func (s *Service) log() ports.Logger {
	if s.Logger == nil {
		return logger.NewNop()
	}
	return s.Logger
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
