package assets

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed styles/* scripts/* templates/*
var embedded embed.FS

// EmbeddedLoader loads assets compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads styles/{name}.css.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	return e.load(styleKind, name)
}

// LoadScript loads scripts/{name}.js.
func (e *EmbeddedLoader) LoadScript(name string) (string, error) {
	return e.load(scriptKind, name)
}

// LoadTemplate loads templates/{name}.html.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	return e.load(templateKind, name)
}

func (e *EmbeddedLoader) load(k kind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := embedded.ReadFile(k.dir + "/" + name + k.ext)
	if err != nil {
		return "", fmt.Errorf("%w: %q", k.notFound, name)
	}
	return string(content), nil
}

// EmbeddedStyles returns the names of the built-in page stylesheets.
func EmbeddedStyles() []string {
	entries, err := embedded.ReadDir(styleKind.dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), styleKind.ext); ok {
			names = append(names, name)
		}
	}
	return names
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
