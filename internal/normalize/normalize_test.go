package normalize

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Foo", "foo"},
		{"spaces become underscores", "Albert Einstein", "albert_einstein"},
		{"underscores kept", "Albert_Einstein", "albert_einstein"},
		{"whitespace collapsed", "  Albert   Einstein ", "albert_einstein"},
		{"percent decoded", "Caf%C3%A9", "café"},
		{"bad escape kept", "100%_Pure", "100%_pure"},
		{"fragment dropped", "Physics#History", "physics"},
		{"nfc composed", "Cafe\u0301", "café"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ID(tt.in))
		})
	}
}

func TestEquivalent(t *testing.T) {
	assert.True(t, Equivalent("New York City", "new_york_city"))
	assert.True(t, Equivalent("ÉCOLE", "école"))
	assert.False(t, Equivalent("Mercury (planet)", "Mercury (element)"))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Short", Label("Short", 0))
	assert.Equal(t, "List of\nmountains in\nthe Alps", Label("List of mountains in the Alps", 12))
	// Wrapping only touches whitespace, so the original is recoverable.
	wrapped := Label("History of the Byzantine Empire", 10)
	assert.Equal(t, "History of the Byzantine Empire", strings.ReplaceAll(wrapped, "\n", " "))
}

func TestIDProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("case insensitive", prop.ForAll(
		func(s string) bool {
			return ID(strings.ToUpper(s)) == ID(strings.ToLower(s))
		},
		gen.AlphaString(),
	))

	properties.Property("padding insensitive", prop.ForAll(
		func(s string) bool {
			return ID("  "+s+"\t") == ID(s)
		},
		gen.AlphaString(),
	))

	properties.Property("underscore and space equivalent", prop.ForAll(
		func(a, b string) bool {
			return ID(a+" "+b) == ID(a+"_"+b)
		},
		gen.Identifier(),
		gen.Identifier(),
	))

	properties.Property("stable under reapplication", prop.ForAll(
		func(s string) bool {
			return ID(ID(s)) == ID(s)
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
