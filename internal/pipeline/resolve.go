package pipeline

import (
	"strconv"
	"strings"

	"excel-aggregator/internal/model"
)

// SplitTokens splits comma-separated user input into trimmed tokens
func SplitTokens(input string) []string {
	raw := strings.Split(input, ",")
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		tokens = append(tokens, strings.TrimSpace(tok))
	}
	return tokens
}

// ResolveColumns maps selection tokens onto column names. An all-digit token
// is a 1-based index into available, anything else is a literal name. Blank
// tokens are skipped. Every bad token is collected before failing, and the
// result keeps first-occurrence order with duplicates dropped.
func ResolveColumns(tokens []string, available []string) (model.Selection, error) {
	present := make(map[string]bool, len(available))
	for _, name := range available {
		present[name] = true
	}

	var selected []string
	var invalid []string
	badSeen := make(map[string]bool)
	reject := func(tok string) {
		if !badSeen[tok] {
			badSeen[tok] = true
			invalid = append(invalid, tok)
		}
	}

	for _, raw := range tokens {
		tok := strings.TrimSpace(raw)
		if tok == "" {
			continue
		}
		if isIndexToken(tok) {
			idx, err := strconv.Atoi(tok)
			if err != nil || idx < 1 || idx > len(available) {
				reject(tok)
				continue
			}
			selected = append(selected, available[idx-1])
			continue
		}
		if !present[tok] {
			reject(tok)
			continue
		}
		selected = append(selected, tok)
	}

	if len(invalid) > 0 {
		return nil, &SelectionError{Tokens: invalid, Max: len(available)}
	}
	if len(selected) == 0 {
		return nil, &SelectionError{Max: len(available), Empty: true}
	}
	return dedupe(selected), nil
}

// dedupe keeps the first occurrence of each name
func dedupe(names []string) model.Selection {
	seen := make(map[string]bool, len(names))
	out := make(model.Selection, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func isIndexToken(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
