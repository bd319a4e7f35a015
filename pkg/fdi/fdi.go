// Package fdi validates tooth numbers in the two-digit FDI (ISO 3950)
// notation: the first digit is the quadrant, the second the position.
package fdi

import "fmt"

// Valid reports whether n names a permanent (quadrants 1-4, positions 1-8) or
// primary (quadrants 5-8, positions 1-5) tooth.
func Valid(n int) bool {
	quadrant, position := n/10, n%10
	switch {
	case quadrant >= 1 && quadrant <= 4:
		return position >= 1 && position <= 8
	case quadrant >= 5 && quadrant <= 8:
		return position >= 1 && position <= 5
	}
	return false
}

// Primary reports whether n is a valid primary (deciduous) tooth.
func Primary(n int) bool {
	return Valid(n) && n/10 >= 5
}

// Check returns an error naming field when n is not a valid tooth number.
func Check(field string, n int) error {
	if n == 0 {
		return fmt.Errorf("%s is required", field)
	}
	if !Valid(n) {
		return fmt.Errorf("%s %d is not a valid FDI tooth number", field, n)
	}
	return nil
}
