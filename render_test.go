package guidebook

import (
	"strings"
	"testing"
)

func TestRendererRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		input        string
		wantContains []string
		wantNot      []string
	}{
		{
			name:  "heading gets slug id",
			input: "## Hello World",
			wantContains: []string{
				`<h2 id="hello-world"`,
				"Hello World",
			},
		},
		{
			name:  "custom heading id wins",
			input: "## Hello World {#custom-id}",
			wantContains: []string{
				`id="custom-id"`,
			},
			wantNot: []string{
				`id="hello-world"`,
			},
		},
		{
			name:  "non-ascii heading id",
			input: "## 日本語の見出し",
			wantContains: []string{
				`<h2 id="日本語の見出し"`,
			},
		},
		{
			name:  "table",
			input: "| A | B |\n|---|---|\n| 1 | 2 |",
			wantContains: []string{
				"<table>",
				"<th>A</th>",
				"<td>1</td>",
			},
		},
		{
			name:  "broken table separator repaired",
			input: "| A | B | C |\n|---|---|\n| 1 | 2 | 3 |",
			wantContains: []string{
				"<table>",
				"<th>C</th>",
				"<td>3</td>",
			},
		},
		{
			name:  "strikethrough",
			input: "~~gone~~",
			wantContains: []string{
				"<del>gone</del>",
			},
		},
		{
			name:  "task list",
			input: "- [x] Done\n- [ ] Todo",
			wantContains: []string{
				"<input",
				"checked",
			},
		},
		{
			name:  "code block highlighted with classes",
			input: "```go\nfunc main() {}\n```",
			wantContains: []string{
				"<pre",
				"class=",
				"func",
			},
		},
		{
			name:  "mermaid block becomes diagram div",
			input: "```mermaid\ngraph TD;\nA-->B;\n```",
			wantContains: []string{
				`<div class="mermaid">`,
				"graph TD;",
			},
			wantNot: []string{
				"<pre><code",
			},
		},
		{
			name:  "bare url autolinked",
			input: "Visit https://example.com for more",
			wantContains: []string{
				`<a href="https://example.com"`,
			},
		},
		{
			name:  "trailing punctuation outside autolink",
			input: "See https://example.com/page.",
			wantContains: []string{
				`<a href="https://example.com/page"`,
				"</a>.",
			},
		},
		{
			name:  "url in code span not autolinked",
			input: "Use `https://example.com` here",
			wantContains: []string{
				"<code>https://example.com</code>",
			},
		},
		{
			name:  "external link gets target and rel",
			input: "[docs](https://example.com)",
			wantContains: []string{
				`target="_blank"`,
				`rel="noopener"`,
			},
		},
		{
			name:  "internal md link rewritten to html",
			input: "[setup](guide/setup.md)",
			wantContains: []string{
				`href="guide/setup.html"`,
			},
		},
		{
			name:  "md link with anchor keeps fragment",
			input: "[setup](setup.md#install)",
			wantContains: []string{
				`href="setup.html#install"`,
			},
		},
		{
			name:  "external md link untouched",
			input: "[raw](https://example.com/file.md)",
			wantContains: []string{
				`href="https://example.com/file.md"`,
			},
		},
		{
			name:  "full-width heading space repaired",
			input: "##　見出し",
			wantContains: []string{
				"<h2",
				"見出し",
			},
		},
	}

	r := NewRenderer()

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := r.Render(tt.input)
			if err != nil {
				t.Fatalf("Render() unexpected error: %v", err)
			}

			for _, want := range tt.wantContains {
				if !strings.Contains(result, want) {
					t.Errorf("Render() result should contain %q\nGot:\n%s", want, result)
				}
			}

			for _, notWant := range tt.wantNot {
				if strings.Contains(result, notWant) {
					t.Errorf("Render() result should NOT contain %q\nGot:\n%s", notWant, result)
				}
			}
		})
	}
}

func TestRendererFootnotes(t *testing.T) {
	t.Parallel()

	r := NewRenderer()

	t.Run("basic footnote", func(t *testing.T) {
		t.Parallel()

		result, err := r.Render("Text[^1].\n\n[^1]: Note.")
		if err != nil {
			t.Fatalf("Render() unexpected error: %v", err)
		}

		for _, want := range []string{
			`<a href="#fn_1" id="reffn_1">1</a>`,
			`id="fn_1"`,
			"Note.",
			`href="#reffn_1"`,
			"footnote-backref",
		} {
			if !strings.Contains(result, want) {
				t.Errorf("result should contain %q\nGot:\n%s", want, result)
			}
		}
	})

	t.Run("list continuation keeps structure", func(t *testing.T) {
		t.Parallel()

		input := "Text[^a]\n\n[^a]: First line\n    - one\n    - two\n"
		result, err := r.Render(input)
		if err != nil {
			t.Fatalf("Render() unexpected error: %v", err)
		}

		for _, want := range []string{"<ul>", "<li>one</li>", "<li>two</li>"} {
			if !strings.Contains(result, want) {
				t.Errorf("result should contain %q\nGot:\n%s", want, result)
			}
		}
	})

	t.Run("label containing at sign", func(t *testing.T) {
		t.Parallel()

		result, err := r.Render("Text[^a@b].\n\n[^a@b]: Note.")
		if err != nil {
			t.Fatalf("Render() unexpected error: %v", err)
		}

		if !strings.Contains(result, `<a href="#fn_a@b" id="reffn_a@b">a@b</a>`) {
			t.Errorf("reference not restored:\n%s", result)
		}
		if strings.Contains(result, "GBFNREF") {
			t.Errorf("placeholder leaked into output:\n%s", result)
		}
	})

	t.Run("reference link inside footnote resolved", func(t *testing.T) {
		t.Parallel()

		input := "Text[^1]\n\n[^1]: See [docs][ref]\n\n[ref]: https://example.com\n"
		result, err := r.Render(input)
		if err != nil {
			t.Fatalf("Render() unexpected error: %v", err)
		}

		if !strings.Contains(result, `<a href="https://example.com"`) {
			t.Errorf("reference link not resolved:\n%s", result)
		}
	})

	t.Run("unresolvable reference left literal and warned", func(t *testing.T) {
		t.Parallel()

		var warnings []string
		local := NewRenderer(WithWarnFunc(func(msg string) { warnings = append(warnings, msg) }))

		result, err := local.Render("Text[^1]\n\n[^1]: See [docs][missing]\n")
		if err != nil {
			t.Fatalf("Render() unexpected error: %v", err)
		}
		if !strings.Contains(result, "[docs][missing]") {
			t.Errorf("unresolvable reference should stay literal:\n%s", result)
		}
		if len(warnings) == 0 {
			t.Error("expected a warning for the missing label")
		}
	})
}

func TestRendererHardbreaks(t *testing.T) {
	t.Parallel()

	input := "Line one\nLine two"

	soft, err := NewRenderer().Render(input)
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	if strings.Contains(soft, "<br") {
		t.Errorf("soft breaks should not produce <br>:\n%s", soft)
	}

	hard, err := NewRenderer(WithHardbreaks(true)).Render(input)
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	if !strings.Contains(hard, "<br") {
		t.Errorf("hardbreaks should produce <br>:\n%s", hard)
	}
}

func TestRenderWithPath(t *testing.T) {
	t.Parallel()

	r := NewRenderer()

	t.Run("root-relative link gets depth hops", func(t *testing.T) {
		t.Parallel()

		result, err := r.RenderWithPath("[css](/style.css)", "a/b/page.html")
		if err != nil {
			t.Fatalf("RenderWithPath() unexpected error: %v", err)
		}
		if !strings.Contains(result, `href="../../style.css"`) {
			t.Errorf("expected two ../ hops:\n%s", result)
		}
	})

	t.Run("anchor link pinned to own file", func(t *testing.T) {
		t.Parallel()

		result, err := r.RenderWithPath("[jump](#section)", "guide/setup.html")
		if err != nil {
			t.Fatalf("RenderWithPath() unexpected error: %v", err)
		}
		if !strings.Contains(result, `href="setup.html#section"`) {
			t.Errorf("anchor not pinned:\n%s", result)
		}
	})

	t.Run("relative link untouched", func(t *testing.T) {
		t.Parallel()

		result, err := r.RenderWithPath("[up](../other.md)", "guide/setup.html")
		if err != nil {
			t.Fatalf("RenderWithPath() unexpected error: %v", err)
		}
		if !strings.Contains(result, `href="../other.html"`) {
			t.Errorf("relative link should only get extension rewrite:\n%s", result)
		}
	})
}
