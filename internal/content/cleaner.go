package content

import (
	"regexp"
	"strings"
)

// RE2's \s is ASCII only; these classes also cover NBSP, NEL and the other
// Unicode separators that PDF extraction tends to produce.
const (
	space           = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`
	spaceExceptLine = `[\t\r\f\v \x{1c}-\x{1f}\x{85}\p{Z}]`
)

var (
	// A whitespace run containing at least one blank line.
	paragraphBreak = regexp.MustCompile(space + `*\n` + spaceExceptLine + `*\n` + space + `*`)
	whitespaceRun  = regexp.MustCompile(space + `+`)
)

// Clean collapses whitespace in text. Runs that contain a blank line become a
// single blank line; every other run becomes one space. The result is trimmed.
//
// Paragraphs are split before the blanket collapse, otherwise their breaks
// would be flattened too. Clean is idempotent.
func Clean(text string) string {
	paragraphs := paragraphBreak.Split(text, -1)

	kept := paragraphs[:0]
	for _, p := range paragraphs {
		p = strings.TrimSpace(whitespaceRun.ReplaceAllString(p, " "))
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}
