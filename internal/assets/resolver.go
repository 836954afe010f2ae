package assets

import "errors"

// AssetResolver tries a custom directory first and falls back to the
// embedded assets when an asset is not found there. Validation and I/O errors
// from the custom directory are returned as-is.
type AssetResolver struct {
	custom   AssetLoader // nil without a custom directory
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver. An empty customBasePath uses the
// embedded assets only.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	resolver := &AssetResolver{
		embedded: NewEmbeddedLoader(),
	}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// LoadStyle loads a stylesheet.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return r.loadWithFallback(func(l AssetLoader) (string, error) { return l.LoadStyle(name) })
}

// LoadScript loads a script.
func (r *AssetResolver) LoadScript(name string) (string, error) {
	return r.loadWithFallback(func(l AssetLoader) (string, error) { return l.LoadScript(name) })
}

// LoadTemplate loads a page template.
func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	return r.loadWithFallback(func(l AssetLoader) (string, error) { return l.LoadTemplate(name) })
}

func (r *AssetResolver) loadWithFallback(loadFn func(AssetLoader) (string, error)) (string, error) {
	if r.custom == nil {
		return loadFn(r.embedded)
	}

	content, err := loadFn(r.custom)
	if err == nil {
		return content, nil
	}
	if !isNotFoundError(err) {
		return "", err
	}
	return loadFn(r.embedded)
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrStyleNotFound) ||
		errors.Is(err, ErrScriptNotFound) ||
		errors.Is(err, ErrTemplateNotFound)
}

// Compile-time interface check.
var _ AssetLoader = (*AssetResolver)(nil)
