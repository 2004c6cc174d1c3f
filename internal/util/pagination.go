package util

import (
	"math"
	"strconv"
)

const (
	DefaultPage     = 0
	DefaultPageSize = 5
	MaxPageSize     = 100
)

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// Normalize clamps a zero-based page request into a usable window.
func Normalize(page, size int) (int, int) {
	if page < 0 {
		page = DefaultPage
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if maxPage := math.MaxInt32 / size; page > maxPage {
		page = maxPage
	}
	return page, size
}

func Calculate(page, size int) (offset int, limit int) {
	page, size = Normalize(page, size)
	return page * size, size
}
