// Package calc implements the expression evaluator behind calc mode: a
// recursive-descent parser over arithmetic with variables, named functions,
// aggregates over previous results, and percent/modulo disambiguation.
//
// Grammar, lowest precedence first:
//
//	expression := term (('+' | '-') term)*
//	term       := factor (('*' | '/' | '%') factor)*
//	factor     := ['-'] primary [('^' | '**') factor]
//	primary    := number ['%'] | '(' expression ')' | identifier ['(' args ')']
//
// A '%' directly after a number means "divide by 100" unless the next
// non-space character is a digit, in which case it is left for term as modulo.
package calc

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/doeshing/notecalc/internal/domain"
)

var (
	assignmentPattern    = regexp.MustCompile(`^([a-zA-Z_]\w*)\s*[:=]\s*(.+)$`)
	bareAggregatePattern = regexp.MustCompile(`(?i)^(sum|avg|average|min|max|count)(\s*\(\s*\))?$`)
)

// Result is the outcome of a successful evaluation.
type Result struct {
	Value float64
	// Variable is set when the line was an assignment.
	Variable string
}

// IsAssignment reports whether the line assigned a variable. Callers do not
// display a "= result" suffix for assignments.
func (r Result) IsAssignment() bool {
	return r.Variable != ""
}

// Evaluator owns a variable table and the ordered history of top-level
// results. It is not safe for concurrent use; give each session its own.
type Evaluator struct {
	vars    map[string]float64
	history []float64
}

// New returns an empty evaluator.
func New() *Evaluator {
	return &Evaluator{vars: make(map[string]float64)}
}

// Evaluate parses and evaluates one line. A trailing '=' is ignored.
// On success the value is appended to the history unless the line is a bare
// aggregate read such as "sum" or "avg()".
func (e *Evaluator) Evaluate(expr string) (Result, error) {
	line := normalize(expr)
	if line == "" {
		return Result{}, fmt.Errorf("%w: empty expression", domain.ErrParse)
	}

	result, record, err := e.evaluateLine(line)
	if err != nil {
		return Result{}, err
	}
	if record {
		e.history = append(e.history, result.Value)
	}
	return result, nil
}

// evaluateLine handles assignment (possibly chained, "a = b = 3") and plain
// expressions. record is false for bare aggregate reads. A NaN or infinite
// result fails with ErrDomain, so nothing is assigned or recorded.
func (e *Evaluator) evaluateLine(line string) (Result, bool, error) {
	if m := assignmentPattern.FindStringSubmatch(line); m != nil {
		if isReserved(m[1]) {
			return Result{}, false, fmt.Errorf("%w: cannot assign to function name %q", domain.ErrParse, m[1])
		}
		rhs, record, err := e.evaluateLine(strings.TrimSpace(m[2]))
		if err != nil {
			return Result{}, false, err
		}
		// Assignment commits immediately; an outer failure does not undo it.
		e.vars[m[1]] = rhs.Value
		return Result{Value: rhs.Value, Variable: m[1]}, record, nil
	}

	p := parser{cursor: cursor{src: line}, ev: e}
	value, err := p.expression()
	if err != nil {
		return Result{}, false, err
	}
	p.skipSpace()
	if !p.eof() {
		return Result{}, false, fmt.Errorf("%w: unexpected %q at offset %d", domain.ErrParse, p.src[p.pos:], p.pos)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Result{}, false, fmt.Errorf("%w: %s is not a finite number", domain.ErrDomain, line)
	}
	return Result{Value: value}, !bareAggregatePattern.MatchString(line), nil
}

// SetVariable defines or overwrites a variable.
func (e *Evaluator) SetVariable(name string, value float64) {
	e.vars[name] = value
}

// Variable returns the value of name.
func (e *Evaluator) Variable(name string) (float64, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Variables returns the defined variable names in sorted order.
func (e *Evaluator) Variables() []string {
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// History returns a copy of the recorded results in evaluation order.
func (e *Evaluator) History() []float64 {
	out := make([]float64, len(e.history))
	copy(out, e.history)
	return out
}

// Clear wipes variables and history.
func (e *Evaluator) Clear() {
	e.vars = make(map[string]float64)
	e.history = nil
}

func normalize(expr string) string {
	line := strings.TrimSpace(expr)
	return strings.TrimSpace(strings.TrimSuffix(line, "="))
}

type parser struct {
	cursor
	ev *Evaluator
}

func (p *parser) expression() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpace()
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.term()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *parser) term() (float64, error) {
	left, err := p.factor()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpace()
		op := p.peek()
		if op != '*' && op != '/' && op != '%' {
			return left, nil
		}
		p.pos++
		right, err := p.factor()
		if err != nil {
			return 0, err
		}
		switch op {
		case '*':
			left *= right
		case '/':
			if right == 0 {
				return 0, fmt.Errorf("%w: %g / 0", domain.ErrDivisionByZero, left)
			}
			left /= right
		case '%':
			if right == 0 {
				return 0, fmt.Errorf("%w: %g %% 0", domain.ErrDivisionByZero, left)
			}
			left = math.Mod(left, right)
		}
	}
}

// factor applies unary minus after the power, so -2^2 is -4.
func (p *parser) factor() (float64, error) {
	negate := p.consume('-')
	base, err := p.primary()
	if err != nil {
		return 0, err
	}
	if p.consumeString("**") || p.consume('^') {
		exp, err := p.factor()
		if err != nil {
			return 0, err
		}
		if base == 0 && exp < 0 {
			return 0, fmt.Errorf("%w: 0 ^ %g", domain.ErrDivisionByZero, exp)
		}
		base = math.Pow(base, exp)
	}
	if negate {
		base = -base
	}
	return base, nil
}

func (p *parser) primary() (float64, error) {
	p.skipSpace()
	ch := p.peek()
	switch {
	case ch == '(':
		p.pos++
		v, err := p.expression()
		if err != nil {
			return 0, err
		}
		if !p.consume(')') {
			return 0, fmt.Errorf("%w: missing ')'", domain.ErrParse)
		}
		return v, nil
	case isDigit(ch) || ch == '.':
		v, ok := p.number()
		if !ok {
			return 0, fmt.Errorf("%w: malformed number at offset %d", domain.ErrParse, p.pos)
		}
		return p.percent(v), nil
	case isIdentStart(ch):
		name, _ := p.identifier()
		return p.resolve(name)
	case ch == 0:
		return 0, fmt.Errorf("%w: unexpected end of expression", domain.ErrParse)
	default:
		return 0, fmt.Errorf("%w: unexpected %q at offset %d", domain.ErrParse, ch, p.pos)
	}
}

// percent consumes a postfix '%' unless it introduces a modulo operand.
func (p *parser) percent(v float64) float64 {
	save := p.pos
	p.skipSpace()
	if p.peek() == '%' && !isDigit(p.nextNonSpace(1)) {
		p.pos++
		return v / 100
	}
	p.pos = save
	return v
}

// isReserved reports whether name is an aggregate or function, which resolve
// would pick before any variable of the same name.
func isReserved(name string) bool {
	lower := strings.ToLower(name)
	_, agg := aggregates[lower]
	_, fn := unaryFuncs[lower]
	return agg || fn
}

// resolve looks name up as an aggregate, then a math function, then a
// variable.
func (p *parser) resolve(name string) (float64, error) {
	lower := strings.ToLower(name)

	if agg, ok := aggregates[lower]; ok {
		if !p.consume('(') {
			return agg(p.ev.history), nil
		}
		if p.consume(')') {
			return agg(p.ev.history), nil
		}
		args, err := p.arguments()
		if err != nil {
			return 0, err
		}
		return agg(args), nil
	}

	p.skipSpace()
	if p.peek() == '(' {
		fn, ok := unaryFuncs[lower]
		if !ok {
			return 0, fmt.Errorf("%w: unknown function %q", domain.ErrUnknownIdentifier, name)
		}
		p.pos++
		arg, err := p.expression()
		if err != nil {
			return 0, err
		}
		if !p.consume(')') {
			return 0, fmt.Errorf("%w: missing ')' after %s argument", domain.ErrParse, lower)
		}
		v := fn(arg)
		if math.IsNaN(v) {
			return 0, fmt.Errorf("%w: %s(%g)", domain.ErrDomain, lower, arg)
		}
		return v, nil
	}

	if v, ok := p.ev.vars[name]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("%w: unknown variable %q", domain.ErrUnknownIdentifier, name)
}

// arguments parses a comma separated list closed by ')'. The opening '(' is
// already consumed.
func (p *parser) arguments() ([]float64, error) {
	var args []float64
	for {
		v, err := p.expression()
		if err != nil {
			return nil, err
		}
		args = append(args, v)
		if p.consume(',') {
			continue
		}
		if p.consume(')') {
			return args, nil
		}
		return nil, fmt.Errorf("%w: expected ',' or ')' in argument list", domain.ErrParse)
	}
}
