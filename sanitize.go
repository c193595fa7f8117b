package manorbill

import "strings"

// trailingJunk is the character class stripped from the trailing edge of a
// webhook response: the conversion service is observed to sometimes append
// stray quote and delimiter artifacts to its output.
const trailingJunk = "\"', \n\r\t"

// Sanitize cleans raw response text before structured parsing: leading and
// trailing whitespace is stripped, then any trailing run of quote, comma,
// and whitespace characters is removed. The interior of the text is never
// touched. Sanitize is total and idempotent.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	return strings.TrimRight(s, trailingJunk)
}
