package util

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Timestamped prefixes a file name with the current time.
func Timestamped(name string) string {
	ts := time.Now().Format("20060102_150405")
	return fmt.Sprintf("%s__%s", ts, name)
}

// TruncateRunes cuts a string to at most n runes.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	rs := []rune(s)
	return string(rs[:n])
}
