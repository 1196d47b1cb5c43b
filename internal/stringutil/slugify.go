package stringutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a string to a key-friendly slug.
// It strips diacritics ("Påskafton" becomes "paskafton"), lowercases the
// input, replaces runs of non-alphanumeric characters with an underscore and
// trims leading/trailing underscores.
func Slugify(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, name)
	if err != nil {
		s = name
	}
	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	return s
}

// Humanize turns a namespaced key such as "holiday.forsta_maj" into a
// display label ("Forsta maj"). Names without a namespace are returned as is.
func Humanize(name string) string {
	ns, rest, found := strings.Cut(name, ".")
	if !found || ns == "" || rest == "" || strings.ContainsAny(name, " ") {
		return name
	}
	rest = strings.ReplaceAll(rest, "_", " ")
	r := []rune(rest)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
