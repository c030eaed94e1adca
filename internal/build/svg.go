package build

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// SVGDirName receives externalized inline SVGs in the output root.
const SVGDirName = "assets/svg"

var (
	inlineSVGPattern = regexp.MustCompile(`(?s)<svg([^>]*)>(.*?)</svg>`)
	svgImgPattern    = regexp.MustCompile(`<img([^>]+)src\s*=\s*["']([^"']+\.svg)["']([^>]*)>`)
	svgWidthAttr     = regexp.MustCompile(`width\s*=\s*["']([^"']+)["']`)
	svgHeightAttr    = regexp.MustCompile(`height\s*=\s*["']([^"']+)["']`)
)

// isIconSVG reports whether the SVG takes its color from the surrounding
// text. Icon SVGs stay inline so currentColor keeps resolving dynamically.
func isIconSVG(svg string) bool {
	return strings.Contains(svg, `fill="currentColor"`) ||
		strings.Contains(svg, `fill='currentColor'`)
}

// externalizeSVGs moves inline SVG elements out of the built pages into
// assets/svg/ files and references them with img tags, carrying over width
// and height attributes. Icon SVGs are left inline; write failures warn and
// keep the element in place.
func externalizeSVGs(outDir string, warn func(string)) error {
	index := 0
	return filepath.Walk(outDir, func(pagePath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(pagePath, ".html") {
			return nil
		}

		data, err := os.ReadFile(pagePath) // #nosec G304 -- path is under the build output dir
		if err != nil {
			return err
		}
		content := string(data)
		if !strings.Contains(content, "<svg") {
			return nil
		}

		rel, err := filepath.Rel(outDir, pagePath)
		if err != nil {
			return err
		}
		prefix := pathToRoot(filepath.ToSlash(rel))

		replaced := inlineSVGPattern.ReplaceAllStringFunc(content, func(svg string) string {
			if isIconSVG(svg) {
				return svg
			}

			name := fmt.Sprintf("inline-%d.svg", index)
			svgDir := filepath.Join(outDir, filepath.FromSlash(SVGDirName))
			if err := os.MkdirAll(svgDir, 0o750); err != nil {
				warn(fmt.Sprintf("externalizing svg: %v", err))
				return svg
			}
			if err := os.WriteFile(filepath.Join(svgDir, name), []byte(svg), 0o600); err != nil {
				warn(fmt.Sprintf("externalizing svg: %v", err))
				return svg
			}
			index++

			attrs := inlineSVGPattern.FindStringSubmatch(svg)[1]
			var b strings.Builder
			b.WriteString(`<img src="` + prefix + SVGDirName + "/" + name + `"`)
			if m := svgWidthAttr.FindStringSubmatch(attrs); m != nil {
				b.WriteString(` width="` + m[1] + `"`)
			}
			if m := svgHeightAttr.FindStringSubmatch(attrs); m != nil {
				b.WriteString(` height="` + m[1] + `"`)
			}
			b.WriteString(` alt="SVG image">`)
			return b.String()
		})

		if replaced == content {
			return nil
		}
		return os.WriteFile(pagePath, []byte(replaced), info.Mode())
	})
}

// inlineSVGFiles replaces img tags referencing local .svg files with the file
// content, copying width and height from the img tag onto the svg element
// when it carries neither. Missing files and icon SVGs keep the img tag.
func inlineSVGFiles(outDir string) error {
	return filepath.Walk(outDir, func(pagePath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(pagePath, ".html") {
			return nil
		}

		data, err := os.ReadFile(pagePath) // #nosec G304 -- path is under the build output dir
		if err != nil {
			return err
		}
		content := string(data)
		if !svgImgPattern.MatchString(content) {
			return nil
		}
		pageDir := filepath.Dir(pagePath)

		replaced := svgImgPattern.ReplaceAllStringFunc(content, func(img string) string {
			m := svgImgPattern.FindStringSubmatch(img)
			src := m[2]
			if strings.Contains(src, "://") || strings.HasPrefix(src, "//") {
				return img
			}

			svgData, err := os.ReadFile(filepath.Join(pageDir, filepath.FromSlash(src))) // #nosec G304 -- path is under the build output dir
			if err != nil {
				return img
			}
			svg := strings.TrimRight(string(svgData), "\n")
			if isIconSVG(svg) {
				return img
			}

			attrs := m[1] + m[3]
			if wm := svgWidthAttr.FindStringSubmatch(attrs); wm != nil && !strings.Contains(svg, "width=") {
				svg = strings.Replace(svg, "<svg", `<svg width="`+wm[1]+`"`, 1)
			}
			if hm := svgHeightAttr.FindStringSubmatch(attrs); hm != nil && !strings.Contains(svg, "height=") {
				svg = strings.Replace(svg, "<svg", `<svg height="`+hm[1]+`"`, 1)
			}
			return svg
		})

		if replaced == content {
			return nil
		}
		return os.WriteFile(pagePath, []byte(replaced), info.Mode())
	})
}
