package build

import (
	"testing"

	"github.com/guide-inc-org/guidebook"
)

func TestExpandTemplates(t *testing.T) {
	t.Parallel()

	cfg := &guidebook.Config{Variables: map[string]any{
		"premium":  false,
		"beta":     true,
		"tier":     "pro",
		"features": []any{"Search", "Export", "Share"},
		"empty":    []any{},
	}}
	noWarn := func(msg string) {}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "if true keeps body",
			input: "{% if book.beta %}Beta feature{% endif %}",
			want:  "Beta feature",
		},
		{
			name:  "if false drops body",
			input: "{% if book.premium %}Premium content{% endif %}",
			want:  "",
		},
		{
			name:  "else branch",
			input: "{% if book.premium %}Premium{% else %}Free{% endif %}",
			want:  "Free",
		},
		{
			name:  "elif chain",
			input: `{% if book.tier == "basic" %}Basic{% elif book.tier == "pro" %}Professional{% else %}Enterprise{% endif %}`,
			want:  "Professional",
		},
		{
			name:  "negation",
			input: "{% if not book.premium %}Free tier{% endif %}",
			want:  "Free tier",
		},
		{
			name:  "inequality",
			input: `{% if book.tier != "basic" %}Paid{% endif %}`,
			want:  "Paid",
		},
		{
			name:  "undefined variable is false",
			input: "{% if book.missing %}Hidden{% endif %}",
			want:  "",
		},
		{
			name:  "for loop with item",
			input: "{% for feature in book.features %}- {{ feature }}\n{% endfor %}",
			want:  "- Search\n- Export\n- Share\n",
		},
		{
			name:  "for loop with index",
			input: "{% for feature in book.features %}{{ loop.index }}. {{ feature }}\n{% endfor %}",
			want:  "1. Search\n2. Export\n3. Share\n",
		},
		{
			name:  "for over empty list",
			input: "{% for item in book.empty %}{{ item }}{% endfor %}",
			want:  "",
		},
		{
			name:  "book prefix optional",
			input: "{% if beta %}on{% endif %}",
			want:  "on",
		},
		{
			name:  "nested if inside for",
			input: `{% for f in book.features %}{% if f == "Export" %}{{ f }}{% endif %}{% endfor %}`,
			want:  "Export",
		},
		{
			name:  "book reference left for variable expansion",
			input: "{% if book.beta %}v{{ book.version }}{% endif %}",
			want:  "v{{ book.version }}",
		},
		{
			name:  "fenced code untouched",
			input: "{% if book.beta %}on{% endif %}\n```\n{% if book.beta %}literal{% endif %}\n```\n",
			want:  "on\n```\n{% if book.beta %}literal{% endif %}\n```\n",
		},
		{
			name:  "no template syntax passes through",
			input: "Plain paragraph with {{ book.version }}.",
			want:  "Plain paragraph with {{ book.version }}.",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := expandTemplates(tt.input, cfg, noWarn); got != tt.want {
				t.Errorf("expandTemplates(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	t.Run("unclosed block warns and keeps content", func(t *testing.T) {
		t.Parallel()

		input := "{% if book.beta %}never closed"
		var warned bool
		got := expandTemplates(input, cfg, func(string) { warned = true })
		if got != input {
			t.Errorf("expandTemplates(%q) = %q, want input unchanged", input, got)
		}
		if !warned {
			t.Error("expected a warning for the unclosed block")
		}
	})

	t.Run("stray end tag warns and keeps content", func(t *testing.T) {
		t.Parallel()

		input := "text {% endif %} more"
		var warned bool
		got := expandTemplates(input, cfg, func(string) { warned = true })
		if got != input {
			t.Errorf("expandTemplates(%q) = %q, want input unchanged", input, got)
		}
		if !warned {
			t.Error("expected a warning for the stray tag")
		}
	})
}
