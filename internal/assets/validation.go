package assets

import (
	"fmt"
	"regexp"
)

// assetNamePattern allows letters, digits, hyphens and underscores, starting
// with a letter or digit.
var assetNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// ValidateAssetName reports ErrInvalidAssetName for names that could not be a
// plain file stem: empty, path-like, dotted or longer than 64 characters.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if !assetNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
