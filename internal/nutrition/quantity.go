package nutrition

import (
	"strconv"
	"strings"
)

type multiplierRule struct {
	keywords   []string
	multiplier float64
}

// multiplierRules are checked in order; the first rule with a keyword
// present anywhere in the quantity text wins
var multiplierRules = []multiplierRule{
	{[]string{"2", "two", "double"}, 2.0},
	{[]string{"half", "0.5"}, 0.5},
	{[]string{"3", "three"}, 3.0},
	{[]string{"large"}, 1.5},
	{[]string{"small"}, 0.7},
}

// Multiplier derives a serving multiplier from free-text quantity
func Multiplier(quantity string) float64 {
	q := strings.ToLower(quantity)
	for _, rule := range multiplierRules {
		for _, kw := range rule.keywords {
			if strings.Contains(q, kw) {
				return rule.multiplier
			}
		}
	}
	return 1.0
}

var countWords = map[string]float64{
	"one":   1,
	"two":   2,
	"three": 3,
	"four":  4,
	"five":  5,
	"six":   6,
	"half":  0.5,
}

const maxCount = 20

// parseCount reads a serving count token such as "2", "two" or "2x".
// Counts outside (0, 20] are rejected.
func parseCount(token string) (float64, bool) {
	if v, ok := countWords[token]; ok {
		return v, true
	}
	token = strings.TrimSuffix(token, "x")
	v, err := strconv.ParseFloat(token, 64)
	if err != nil || !(v > 0 && v <= maxCount) {
		return 0, false
	}
	return v, true
}
