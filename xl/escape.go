package xl

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// literal "_xHHHH_" sequences, which spreadsheet readers would decode
var escapeSequence = regexp.MustCompile(`_(x[0-9A-F]{4})_`)

// escapeControlChars encodes characters XML 1.0 can not carry as "_xHHHH_".
// Literal escape sequences already present in s are protected with
// "_x005F" so they read back unchanged.
func escapeControlChars(s string) string {
	if !needsControlEscape(s) {
		return s
	}
	s = escapeSequence.ReplaceAllString(s, "_x005F_${1}_")

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if isControlChar(r) {
			fmt.Fprintf(&sb, "_x%04X_", r)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func needsControlEscape(s string) bool {
	if strings.Contains(s, "_x") {
		return true
	}
	for _, r := range s {
		if isControlChar(r) {
			return true
		}
	}
	return false
}

func isControlChar(r rune) bool {
	return r < 0x20 && r != '\t' && r != '\n' && r != '\r'
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
