package guidebook

import (
	"path"
	"strings"
)

// resolveLinks rewrites internal hrefs for a document written to outputPath,
// a book-root-relative path like "guide/setup.html".
//
// Root-relative hrefs ("/style.css") become relative by prefixing one "../"
// per directory level of the output path, so a built book works from any
// mount point. Anchor-only hrefs ("#section") get the document's own file
// name prefixed; hrefs resolve against the document's directory, so only
// the base name keeps the target on the same page. Hrefs that are already
// document-relative, and all external URLs, pass through unchanged.
func resolveLinks(content, outputPath string) string {
	depth := strings.Count(outputPath, "/")
	prefix := strings.Repeat("../", depth)
	self := path.Base(outputPath)

	return hrefAttr.ReplaceAllStringFunc(content, func(attr string) string {
		url := hrefAttr.FindStringSubmatch(attr)[1]
		if isExternalURL(url) {
			return attr
		}
		switch {
		case strings.HasPrefix(url, "#"):
			if outputPath == "" {
				return attr
			}
			return `href="` + self + url + `"`
		case strings.HasPrefix(url, "/"):
			return `href="` + prefix + strings.TrimPrefix(url, "/") + `"`
		default:
			return attr
		}
	})
}

// ToOutputPath maps a source document path from the outline to the path of
// the HTML file it is rendered to. README files become index pages so
// directory URLs work without naming a file.
func ToOutputPath(sourcePath string) string {
	dir, file := path.Split(sourcePath)
	base := file
	for _, ext := range []string{".md", ".adoc", ".asciidoc"} {
		if strings.HasSuffix(strings.ToLower(file), ext) {
			base = file[:len(file)-len(ext)]
			break
		}
	}
	if strings.EqualFold(base, "README") {
		base = "index"
	}
	return dir + base + ".html"
}
