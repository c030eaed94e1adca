package build

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/guide-inc-org/guidebook"
	"github.com/guide-inc-org/guidebook/internal/assets"
)

// navLink is one end of the prev/next navigation pair.
type navLink struct {
	Title string
	Href  string
}

// sidebarItem mirrors an outline node for template consumption. Kind uses
// the outline constants: 0 link, 1 separator, 2 part title.
type sidebarItem struct {
	Kind       int
	Title      string
	OutputPath string
	Children   []sidebarItem
}

// pageData is the template context for one rendered page.
type pageData struct {
	Lang        string
	BookTitle   string
	Title       string
	Description string
	Content     template.HTML
	Sidebar     []sidebarItem
	TOC         []guidebook.TocEntry
	Prev        *navLink
	Next        *navLink
	PathToRoot  string
	CurrentPath string
	CustomStyle string

	SearchEnabled      bool
	MermaidEnabled     bool
	CollapsibleEnabled bool
}

// langsData is the template context for the language chooser page.
type langsData struct {
	BookTitle string
	Languages []guidebook.Language
}

var templateFuncs = template.FuncMap{
	// dict lets the recursive sidebar template pass several values down.
	"dict": func(values ...any) (map[string]any, error) {
		if len(values)%2 != 0 {
			return nil, fmt.Errorf("dict: odd argument count %d", len(values))
		}
		m := make(map[string]any, len(values)/2)
		for i := 0; i < len(values); i += 2 {
			key, ok := values[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict: key %v is not a string", values[i])
			}
			m[key] = values[i+1]
		}
		return m, nil
	},
}

func newPageTemplate() (*template.Template, error) {
	text, err := assets.LoadTemplate("page")
	if err != nil {
		return nil, err
	}
	return template.New("page").Funcs(templateFuncs).Parse(text)
}

func newLangsTemplate() (*template.Template, error) {
	text, err := assets.LoadTemplate("langs")
	if err != nil {
		return nil, err
	}
	return template.New("langs").Parse(text)
}

// renderPage executes the page template.
func renderPage(tmpl *template.Template, data pageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering page template: %w", err)
	}
	return buf.Bytes(), nil
}

// asHTML marks renderer output as safe for template interpolation. The
// renderer already escapes user content.
func asHTML(content string) template.HTML {
	return template.HTML(content) // #nosec G203 -- content comes from the renderer
}

// sidebarFromOutline converts outline nodes into template items, mapping
// each link target to its output path.
func sidebarFromOutline(items []guidebook.OutlineNode) []sidebarItem {
	out := make([]sidebarItem, 0, len(items))
	for _, item := range items {
		si := sidebarItem{
			Kind:  int(item.Kind),
			Title: item.Title,
		}
		if item.Kind == guidebook.OutlineLink && item.Path != "" {
			si.OutputPath = guidebook.ToOutputPath(item.Path)
		}
		si.Children = sidebarFromOutline(item.Children)
		out = append(out, si)
	}
	return out
}

// pathToRoot returns the ../ prefix that leads from outputPath's directory
// back to the book root.
func pathToRoot(outputPath string) string {
	return strings.Repeat("../", strings.Count(outputPath, "/"))
}
