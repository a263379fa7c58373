package repositories

import (
	"errors"
	"strconv"
	"strings"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("not found")

// parseInt accepts integers as Sheets renders them, including "12.0"
func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, strconv.ErrSyntax
	}
	return int(f), nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
