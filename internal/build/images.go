package build

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// RemoteImageDirName receives downloaded remote images in the output root.
const RemoteImageDirName = "_remote_images"

var remoteImageSrc = regexp.MustCompile(`src="(https?://[^"]+)"`)

var imageClient = &http.Client{Timeout: 30 * time.Second}

// fetchRemoteImages downloads every remote image referenced by the built
// HTML pages into _remote_images and rewrites the pages to reference the
// local copies. File names are content-address style, derived from the URL,
// so repeated builds reuse the same names. Download failures warn and leave
// the original URL in place.
func fetchRemoteImages(outDir string, warn func(string)) error {
	downloaded := make(map[string]string)

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
		if !remoteImageSrc.MatchString(content) {
			return nil
		}

		rel, err := filepath.Rel(outDir, pagePath)
		if err != nil {
			return err
		}
		prefix := pathToRoot(filepath.ToSlash(rel))

		replaced := remoteImageSrc.ReplaceAllStringFunc(content, func(attr string) string {
			src := remoteImageSrc.FindStringSubmatch(attr)[1]
			name, ok := downloaded[src]
			if !ok {
				var fetchErr error
				name, fetchErr = downloadImage(outDir, src)
				if fetchErr != nil {
					warn(fmt.Sprintf("fetching %s: %v", src, fetchErr))
					downloaded[src] = ""
					return attr
				}
				downloaded[src] = name
			}
			if name == "" {
				return attr
			}
			return `src="` + prefix + RemoteImageDirName + "/" + name + `"`
		})

		if replaced == content {
			return nil
		}
		return os.WriteFile(pagePath, []byte(replaced), info.Mode())
	})
}

// downloadImage fetches one image and stores it under a URL-derived name.
func downloadImage(outDir, src string) (string, error) {
	resp, err := imageClient.Get(src)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	sum := sha256.Sum256([]byte(src))
	name := hex.EncodeToString(sum[:8]) + imageExtension(src)

	dir := filepath.Join(outDir, RemoteImageDirName)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(dir, name)) // #nosec G304 -- name is hash-derived
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", err
	}
	return name, nil
}

// imageExtension guesses a file extension from the URL path, defaulting to
// .png when the URL has none.
func imageExtension(src string) string {
	u, err := url.Parse(src)
	if err != nil {
		return ".png"
	}
	if ext := path.Ext(u.Path); ext != "" && len(ext) <= 5 {
		return ext
	}
	return ".png"
}
