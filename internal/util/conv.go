package util

import (
	"strconv"
	"strings"
)

// QueryInt parses s, falling back to def when it is empty or invalid.
func QueryInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

// NormalizeDifficulty maps the "no filter" spellings the frontend sends to
// the empty string.
func NormalizeDifficulty(d string) string {
	d = strings.ToLower(strings.TrimSpace(d))
	switch d {
	case "", DifficultyMixed, DifficultyAll, DifficultyAny:
		return ""
	}
	return d
}
