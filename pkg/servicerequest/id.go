package servicerequest

import (
	"regexp"
	"strconv"
)

var idPattern = regexp.MustCompile(`^(\d{2})-(\d{8})$`)

func IsValidID(s string) bool {
	return idPattern.MatchString(s)
}

// YearOf returns the calendar year encoded in a valid id's two-digit prefix.
// The result for an invalid id is meaningless; validate first.
func YearOf(id string) int {
	m := idPattern.FindStringSubmatch(id)
	if m == nil {
		return 0
	}
	prefix, _ := strconv.Atoi(m[1])
	return 2000 + prefix
}

// ParseID validates s and returns it unchanged, or an InvalidIdentifier error.
func ParseID(s string) (string, error) {
	if !IsValidID(s) {
		return "", InvalidIdentifier(s)
	}
	return s, nil
}
