package build

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/guide-inc-org/guidebook"
)

// assetDirNames are conventional asset directories copied into the output
// tree when present in the book root.
var assetDirNames = []string{"assets", "images", "img"}

// copyAssets copies the book's asset directories and the configured custom
// stylesheet into outDir. Files matching an ignore glob from the config are
// skipped. Glob patterns match book-root-relative slash paths.
func copyAssets(bookDir, outDir string, cfg *guidebook.Config, warn func(string)) error {
	for _, name := range assetDirNames {
		src := filepath.Join(bookDir, name)
		if info, err := os.Stat(src); err != nil || !info.IsDir() {
			continue
		}
		if err := copyTree(bookDir, src, outDir, cfg.Ignores, warn); err != nil {
			return err
		}
	}

	if style := cfg.WebsiteStyle(); style != "" {
		if err := copyFile(filepath.Join(bookDir, style), filepath.Join(outDir, style)); err != nil {
			warn(fmt.Sprintf("copying custom style %s: %v", style, err))
		}
	}
	return nil
}

func copyTree(bookDir, srcDir, outDir string, ignores []string, warn func(string)) error {
	return filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(bookDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		for _, pattern := range ignores {
			if ok, matchErr := doublestar.Match(pattern, rel); matchErr != nil {
				warn(fmt.Sprintf("bad ignore pattern %q: %v", pattern, matchErr))
			} else if ok {
				return nil
			}
		}

		return copyFile(path, filepath.Join(outDir, filepath.FromSlash(rel)))
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 -- paths are under the user's book dir
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}

	out, err := os.Create(dst) // #nosec G304 -- paths are under the build output dir
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
