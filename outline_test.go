package guidebook

import (
	"reflect"
	"strings"
	"testing"
)

// flattenOutline renders the tree as "depth:title:path" lines for structural
// comparison.
func flattenOutline(items []OutlineNode, depth int, out *[]string) {
	for _, item := range items {
		switch item.Kind {
		case OutlineLink:
			*out = append(*out, strings.Repeat(">", depth)+item.Title+":"+item.Path)
		case OutlineSeparator:
			*out = append(*out, strings.Repeat(">", depth)+"---")
		case OutlinePartTitle:
			*out = append(*out, strings.Repeat(">", depth)+"["+item.Title+"]")
		}
		flattenOutline(item.Children, depth+1, out)
	}
}

func outlineShape(o *Outline) []string {
	var out []string
	flattenOutline(o.Items, 0, &out)
	return out
}

func TestParseOutline(t *testing.T) {
	t.Parallel()

	input := `# My Book

- [Introduction](README.md)
- [Setup](guide/setup.md)
  - [Linux](guide/linux.md)
  - [macOS](guide/macos.md)

---

## Reference

- [API](api.md)
`

	o := ParseOutline(input)

	if o.Title != "My Book" {
		t.Errorf("Title = %q, want %q", o.Title, "My Book")
	}

	want := []string{
		"Introduction:README.md",
		"Setup:guide/setup.md",
		">Linux:guide/linux.md",
		">macOS:guide/macos.md",
		"---",
		"[Reference]",
		"API:api.md",
	}
	if got := outlineShape(o); !reflect.DeepEqual(got, want) {
		t.Errorf("outline shape = %v, want %v", got, want)
	}
}

func TestParseOutlineIndentationIsomorphism(t *testing.T) {
	t.Parallel()

	variants := map[string]string{
		"two spaces":  "- [A](a.md)\n  - [B](b.md)\n    - [C](c.md)\n",
		"four spaces": "- [A](a.md)\n    - [B](b.md)\n        - [C](c.md)\n",
		"tabs":        "- [A](a.md)\n\t- [B](b.md)\n\t\t- [C](c.md)\n",
		"mixed":       "- [A](a.md)\n  - [B](b.md)\n\t- [C](c.md)\n",
	}

	want := outlineShape(ParseOutline(variants["two spaces"]))
	if len(want) != 3 {
		t.Fatalf("baseline shape has %d nodes, want 3: %v", len(want), want)
	}

	for name, input := range variants {
		input := input
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := outlineShape(ParseOutline(input)); !reflect.DeepEqual(got, want) {
				t.Errorf("shape = %v, want %v", got, want)
			}
		})
	}
}

func TestParseOutlineEdgeCases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "dot-slash stripped",
			input: "- [A](./a.md)\n- [B](././b.md)\n",
			want:  []string{"A:a.md", "B:b.md"},
		},
		{
			name:  "hash target means no page",
			input: "- [Group](#)\n  - [Child](c.md)\n",
			want:  []string{"Group:", ">Child:c.md"},
		},
		{
			name:  "plain text item is a label",
			input: "- Just a label\n  - [Child](c.md)\n",
			want:  []string{"Just a label:", ">Child:c.md"},
		},
		{
			name:  "heading with link is not a part title",
			input: "## [Linked](x.md)\n\n- [A](a.md)\n",
			want:  []string{"A:a.md"},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := outlineShape(ParseOutline(tt.input)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("shape = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOutlineWalk(t *testing.T) {
	t.Parallel()

	o := ParseOutline("- [A](a.md)\n  - [B](b.md)\n\n---\n\n- [C](c.md)\n")

	var visited []string
	o.Walk(func(n *OutlineNode) { visited = append(visited, n.Title) })

	want := []string{"A", "B", "C"}
	if !reflect.DeepEqual(visited, want) {
		t.Errorf("Walk order = %v, want %v", visited, want)
	}
}
