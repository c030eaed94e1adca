package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed templates/*
var templates embed.FS

//go:embed static/*
var static embed.FS

// LoadTemplate returns the text of an embedded page template by name, without
// the .html.tmpl extension.
func LoadTemplate(name string) (string, error) {
	content, err := templates.ReadFile("templates/" + name + ".html.tmpl")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return string(content), nil
}

// ThemeDirName is the directory inside the output tree that receives the
// static theme files. Pages reference them relative to the book root.
const ThemeDirName = "gitbook"

// WriteTheme copies the embedded static files into outDir/gitbook.
func WriteTheme(outDir string) error {
	themeDir := filepath.Join(outDir, ThemeDirName)
	if err := os.MkdirAll(themeDir, 0o750); err != nil {
		return fmt.Errorf("%w: %v", ErrAssetWrite, err)
	}

	return fs.WalkDir(static, "static", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := static.ReadFile(path)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrAssetWrite, err)
		}
		rel, err := filepath.Rel("static", path)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrAssetWrite, err)
		}
		dst := filepath.Join(themeDir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
			return fmt.Errorf("%w: %v", ErrAssetWrite, err)
		}
		if err := os.WriteFile(dst, data, 0o600); err != nil {
			return fmt.Errorf("%w: %v", ErrAssetWrite, err)
		}
		return nil
	})
}
