package calc

import (
	"regexp"
	"strings"
)

var (
	urlPattern      = regexp.MustCompile(`(?i)^(https?|ftp|file)://`)
	functionPattern = regexp.MustCompile(`(?i)\b(sqrt|sin|cos|tan|asin|acos|atan|log|log10|ln|exp|ceil|floor|round|abs|sum|avg|average|min|max|count)\s*\(`)
	mathCharset     = regexp.MustCompile(`^[\d\s+\-*/%^().,=a-zA-Z_]+$`)
	operatorPattern = regexp.MustCompile(`[+*/%^=]`)
)

// IsMathExpression is the calc-mode heuristic for "this line is arithmetic".
// Paths and URLs are rejected first. A line is then accepted when it calls a
// known function, or when it uses only the expression character set and holds
// an operator or a minus sign that is not its first character.
func IsMathExpression(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, "/") || strings.HasPrefix(trimmed, "~") ||
		strings.Contains(trimmed, ":/") || strings.Contains(trimmed, `\`) {
		return false
	}
	if urlPattern.MatchString(trimmed) {
		return false
	}
	if functionPattern.MatchString(trimmed) {
		return true
	}
	if !mathCharset.MatchString(trimmed) {
		return false
	}
	return operatorPattern.MatchString(trimmed) || strings.Contains(trimmed[1:], "-")
}
