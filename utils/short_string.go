package utils

import "fmt"

// ShortenLog keeps both ends of a long hex id for log lines
func ShortenLog(hash string) string {
	cut := 8
	if len(hash) <= 8 {
		return hash
	} else if len(hash) <= 16 {
		cut = 4
	}
	return fmt.Sprintf("%s...%s", hash[:cut], hash[len(hash)-cut:])
}
