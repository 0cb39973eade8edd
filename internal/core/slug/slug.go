// Package slug turns app titles into the lowercase URL identifiers listings
// are addressed by
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFKD normalization then strip combining marks
// 3 Case folding
// 4 Width fold fullwidth to ASCII
// 5 Replace non alphanumeric runs with a single hyphen and trim hyphens
package slug

import (
	"regexp"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// pattern a finished slug must match
var slugRe = regexp.MustCompile(`^[a-z0-9-]+$`)

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline
		return transform.Chain(
			norm.NFKD,
			runes.Remove(runes.In(unicode.Mn)), // strip combining marks
			cases.Fold(),                       // unicode case folding
			width.Fold,                         // map fullwidth forms to ASCII
		)
	},
}

// Make converts free text into a slug. Returns "" when nothing usable remains
func Make(s string) string {
	if s == "" {
		return ""
	}

	// 1 repair UTF-8 drop invalid bytes
	s = strings.ToValidUTF8(s, "")

	// 2-4 transform via pooled chain then reset and return it
	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)

	// 5 hyphenate non alphanumeric runs
	var b strings.Builder
	b.Grow(len(ns))
	hyphen := false
	for _, r := range ns {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			hyphen = false
		default:
			if !hyphen && b.Len() > 0 {
				b.WriteByte('-')
				hyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// Valid reports whether s is a well-formed slug
func Valid(s string) bool {
	return s != "" && slugRe.MatchString(s)
}
