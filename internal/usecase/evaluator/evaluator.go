package evaluator

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	currencySymbols   = []string{"$", "€", "£", "¥", "₹", "%"}
	thousandSeparator = regexp.MustCompile(`(\d),(\d{3})`)
	listSeparator     = regexp.MustCompile(`\s*[,;]\s*`)
	trailingZeros     = regexp.MustCompile(`^(-?\d+)\.0+$`)
)

// IsCorrect compares a predicted answer with the ground truth: exact match,
// then normalized match, then numeric equality.
func IsCorrect(predicted, groundTruth string) bool {
	if predicted == groundTruth {
		return true
	}

	p := Normalize(predicted)
	g := Normalize(groundTruth)
	if p == "" || g == "" {
		return false
	}
	if p == g {
		return true
	}

	pf, perr := strconv.ParseFloat(p, 64)
	gf, gerr := strconv.ParseFloat(g, 64)
	return perr == nil && gerr == nil && pf == gf
}

// Normalize lowercases, strips units and separators, and collapses whitespace.
func Normalize(answer string) string {
	answer = strings.ToLower(strings.TrimSpace(answer))
	answer = strings.Trim(answer, `"'`)

	for _, symbol := range currencySymbols {
		answer = strings.ReplaceAll(answer, symbol, "")
	}

	for thousandSeparator.MatchString(answer) {
		answer = thousandSeparator.ReplaceAllString(answer, "${1}${2}")
	}

	answer = listSeparator.ReplaceAllString(answer, ", ")
	answer = strings.Join(strings.Fields(answer), " ")
	answer = strings.TrimRight(answer, ".,;:!?")
	answer = trailingZeros.ReplaceAllString(answer, "${1}")

	return strings.TrimSpace(answer)
}
