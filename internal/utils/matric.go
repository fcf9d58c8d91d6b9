package utils

import "strings"

// NormalizeMatric canonicalizes a matriculation number for roster lookups
// and storage: surrounding whitespace is stripped and letters are upper
// cased, so "2021/cs/001 " and "2021/CS/001" compare equal.  The slash
// structure itself is left untouched; rosters are imported already in the
// institution's format.
func NormalizeMatric(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// NormalizeEmail lowers and trims an email address.  Both registration and
// login pass input through here so accounts cannot be duplicated by casing.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
