package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple", in: "Acme", want: "acme"},
		{name: "spaces become hyphens", in: "Acme Corp", want: "acme-corp"},
		{name: "punctuation collapses", in: "Alice & Friends!", want: "alice-friends"},
		{name: "leading and trailing junk trimmed", in: "  --Acme--  ", want: "acme"},
		{name: "digits kept", in: "Team 42", want: "team-42"},
		{name: "nothing usable", in: "!!!", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, slugify(tt.in))
		})
	}
}

func TestPersonalSlug(t *testing.T) {
	t.Run("carries the name and a suffix", func(t *testing.T) {
		slug := personalSlug("Alice")
		require.True(t, strings.HasPrefix(slug, "alice-organization-"), "slug %q", slug)
		require.Greater(t, len(slug), len("alice-organization-"))
	})

	t.Run("empty name falls back", func(t *testing.T) {
		slug := personalSlug("!!!")
		require.True(t, strings.HasPrefix(slug, "personal-organization-"), "slug %q", slug)
	})

	t.Run("suffix varies", func(t *testing.T) {
		require.NotEqual(t, personalSlug("Alice"), personalSlug("Alice"))
	})
}
