package utils

import "time"

// SecondsBetween returns the number of seconds from one instant to another
func SecondsBetween(from time.Time, to time.Time) float64 {
	return to.Sub(from).Seconds()
}
