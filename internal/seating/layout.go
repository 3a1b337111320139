// Package seating describes the auditorium layout shared by every showtime
// and renders seat maps from a set of booked seat labels.
package seating

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// Rows lists the row letters front to back.
const Rows = "ABCDEFGHIJKLMN"

// Blocks are the column numbers of the four seat blocks in every row, in
// display order (left, center-left, center-right, right).
var Blocks = [][]int{
	{20, 21, 22, 23},
	{12, 13, 14, 15, 16, 17, 18, 19},
	{2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
	{0, 1, 24, 25, 26, 27},
}

// Label formats a seat label: row letter followed by a two-digit column.
func Label(row byte, col int) string {
	return fmt.Sprintf("%c%02d", row, col)
}

var validLabels = func() map[string]struct{} {
	m := make(map[string]struct{}, Capacity())
	for _, l := range AllSeats() {
		m[l] = struct{}{}
	}
	return m
}()

// AllSeats returns every seat label in row order and, within a row, in
// block order.
func AllSeats() []string {
	out := make([]string, 0, Capacity())
	for i := 0; i < len(Rows); i++ {
		for _, block := range Blocks {
			for _, col := range block {
				out = append(out, Label(Rows[i], col))
			}
		}
	}
	return out
}

// Capacity is the number of seats in the layout.
func Capacity() int {
	n := 0
	for _, b := range Blocks {
		n += len(b)
	}
	return n * len(Rows)
}

// IsValidLabel reports whether label names a seat of the layout.  Labels
// are matched case-insensitively after trimming.
func IsValidLabel(label string) bool {
	_, ok := validLabels[Normalize(label)]
	return ok
}

// Normalize upper-cases a label and pads a single-digit column, so "a1"
// becomes "A01".  Labels that do not look like row+column are returned
// upper-cased and trimmed.
func Normalize(label string) string {
	s := strings.ToUpper(strings.TrimSpace(label))
	if len(s) < 2 {
		return s
	}
	col, err := strconv.Atoi(s[1:])
	if err != nil || col < 0 {
		return s
	}
	return Label(s[0], col)
}

// Sample picks int(fraction*len(seats)) distinct seats uniformly at random.
// The fraction is clamped to [0, 1].
func Sample(seats []string, fraction float64) []string {
	if fraction <= 0 || len(seats) == 0 {
		return nil
	}
	if fraction > 1 {
		fraction = 1
	}
	n := int(fraction * float64(len(seats)))
	if n == 0 {
		return nil
	}
	pool := append([]string(nil), seats...)
	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool[:n]
}
