// Package normalize maps topic names to node identities.
//
// Two names that the link source treats as the same page must map to the
// same ID: case, underscores versus spaces, surrounding or repeated
// whitespace, percent-encoding, Unicode composition, and a trailing
// section fragment are all ignored. The ID is a key, not a display name.
package normalize

import (
	"net/url"
	"strings"

	"github.com/mitchellh/go-wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// DefaultLabelWidth is the wrap width used for node labels.
const DefaultLabelWidth = 20

// ID returns the normalized node identity for a topic name.
func ID(name string) string {
	if i := strings.IndexByte(name, '#'); i >= 0 {
		name = name[:i]
	}
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.Join(strings.Fields(name), " ")
	name = norm.NFC.String(name)
	// cases.Caser is stateful; build one per call so ID stays safe for concurrent use.
	name = cases.Fold().String(name)
	return strings.ReplaceAll(name, " ", "_")
}

// Equivalent reports whether two names denote the same node.
func Equivalent(a, b string) bool {
	return ID(a) == ID(b)
}

// Label word-wraps a display name for presentation. A width <= 0 uses
// DefaultLabelWidth. The unwrapped name must be kept separately.
func Label(name string, width int) string {
	if width <= 0 {
		width = DefaultLabelWidth
	}
	return wordwrap.WrapString(strings.TrimSpace(name), uint(width))
}
