package guidebook

import (
	"strings"
	"testing"
)

func TestResolveLinks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		outputPath string
		want       string
	}{
		{
			name:       "root-relative gets one hop per level",
			input:      `<a href="/assets/style.css">x</a>`,
			outputPath: "a/b/c/page.html",
			want:       `<a href="../../../assets/style.css">x</a>`,
		},
		{
			name:       "root-relative at book root",
			input:      `<a href="/index.html">x</a>`,
			outputPath: "page.html",
			want:       `<a href="index.html">x</a>`,
		},
		{
			name:       "anchor pinned to own file",
			input:      `<a href="#section">x</a>`,
			outputPath: "guide/setup.html",
			want:       `<a href="setup.html#section">x</a>`,
		},
		{
			name:       "anchor with no output path untouched",
			input:      `<a href="#section">x</a>`,
			outputPath: "",
			want:       `<a href="#section">x</a>`,
		},
		{
			name:       "relative untouched",
			input:      `<a href="../other.html">x</a>`,
			outputPath: "guide/setup.html",
			want:       `<a href="../other.html">x</a>`,
		},
		{
			name:       "external untouched",
			input:      `<a href="https://example.com/">x</a>`,
			outputPath: "guide/setup.html",
			want:       `<a href="https://example.com/">x</a>`,
		},
		{
			name:       "protocol-relative untouched",
			input:      `<a href="//cdn.example.com/x.js">x</a>`,
			outputPath: "guide/setup.html",
			want:       `<a href="//cdn.example.com/x.js">x</a>`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := resolveLinks(tt.input, tt.outputPath); got != tt.want {
				t.Errorf("resolveLinks(%q, %q) = %q, want %q", tt.input, tt.outputPath, got, tt.want)
			}
		})
	}
}

func TestResolveLinksDepthProperty(t *testing.T) {
	t.Parallel()

	input := `<a href="/x.html">x</a>`
	for depth := 1; depth <= 5; depth++ {
		outputPath := strings.Repeat("d/", depth) + "page.html"
		got := resolveLinks(input, outputPath)
		if n := strings.Count(got, "../"); n != depth {
			t.Errorf("depth %d: got %d ../ segments in %q", depth, n, got)
		}
	}
}

func TestToOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "md extension", input: "guide/setup.md", want: "guide/setup.html"},
		{name: "readme becomes index", input: "README.md", want: "index.html"},
		{name: "nested readme", input: "guide/README.md", want: "guide/index.html"},
		{name: "lowercase readme", input: "readme.md", want: "index.html"},
		{name: "adoc extension", input: "notes.adoc", want: "notes.html"},
		{name: "no extension", input: "plain", want: "plain.html"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ToOutputPath(tt.input); got != tt.want {
				t.Errorf("ToOutputPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
