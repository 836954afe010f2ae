package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-specview/internal/dom"
)

// ResolveLocalPaths makes a fragment usable outside the document's directory,
// as needed for PDF export. Relative img src and a href values become file://
// URLs, and file reference controls gain a data-path with the resolved URL.
// Targets outside sourceDir are left alone. An empty sourceDir is a no-op.
func ResolveLocalPaths(fragment, sourceDir string) (string, error) {
	if sourceDir == "" {
		return fragment, nil
	}
	absDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	doc, err := dom.Parse(fragment)
	if err != nil {
		return "", err
	}
	doc.Walk(func(n *html.Node) {
		switch n.Data {
		case "img":
			resolveAttr(n, "src", absDir)
		case "a":
			resolveAttr(n, "href", absDir)
		case "span":
			if name, ok := fileRefTarget(n); ok {
				if u, ok := localURL(name, absDir); ok {
					n.Attr = append(n.Attr, html.Attribute{Key: "data-path", Val: u})
				}
			}
		}
	})
	return doc.Render()
}

func resolveAttr(n *html.Node, key, dir string) {
	for i, a := range n.Attr {
		if a.Key != key {
			continue
		}
		if u, ok := localURL(a.Val, dir); ok {
			n.Attr[i].Val = u
		}
	}
}

// fileRefTarget returns data-filename of a file reference control.
func fileRefTarget(n *html.Node) (string, bool) {
	isRef, name := false, ""
	for _, a := range n.Attr {
		switch a.Key {
		case "class":
			isRef = strings.Contains(" "+a.Val+" ", " file-ref ")
		case "data-filename":
			name = a.Val
		}
	}
	return name, isRef && name != ""
}

// localURL resolves a relative reference against dir and returns it as a
// file:// URL, or false if ref is not relative or escapes dir.
func localURL(ref, dir string) (string, bool) {
	if !isRelativeRef(ref) {
		return "", false
	}
	abs := filepath.Join(dir, filepath.FromSlash(strings.ReplaceAll(ref, `\`, "/")))
	if !isUnder(abs, dir) {
		return "", false
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), true
}

func isRelativeRef(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return false
	}
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return false // http:, https:, file:, data:, mailto: ...; one letter is a drive
	}
	return !filepath.IsAbs(ref) && !strings.HasPrefix(ref, "/")
}

func isUnder(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
