package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-tex2html/internal/fileutil"
)

// DefaultStyle is the embedded stylesheet used when none is configured.
const DefaultStyle = "default"

// Resolver combines a custom directory with the embedded styles. Custom
// styles take precedence; only not-found errors fall back to embedded.
type Resolver struct {
	custom   StyleLoader // nil if no custom path configured
	embedded *EmbeddedLoader
}

// NewResolver creates a Resolver. An empty customBasePath uses only the
// embedded styles.
func NewResolver(customBasePath string) (*Resolver, error) {
	r := &Resolver{embedded: NewEmbeddedLoader()}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}

	return r, nil
}

// LoadStyle loads a CSS style by name, trying the custom loader first.
func (r *Resolver) LoadStyle(name string) (string, error) {
	if r.custom == nil {
		return r.embedded.LoadStyle(name)
	}

	content, err := r.custom.LoadStyle(name)
	if err == nil {
		return content, nil
	}
	if !errors.Is(err, ErrStyleNotFound) {
		return "", err
	}
	return r.embedded.LoadStyle(name)
}

// Resolve returns the stylesheet for a style reference and the name to
// record for it. A reference containing a path separator is read as a CSS
// file; anything else is a style name. An empty reference yields DefaultStyle.
func (r *Resolver) Resolve(ref string) (name, css string, err error) {
	if ref == "" {
		ref = DefaultStyle
	}

	if fileutil.IsFilePath(ref) {
		data, err := os.ReadFile(ref) // #nosec G304 -- path is user-provided
		if err != nil {
			if os.IsNotExist(err) {
				return "", "", fmt.Errorf("%w: %s", ErrStyleNotFound, ref)
			}
			return "", "", fmt.Errorf("%w: %v", ErrAssetRead, err)
		}
		return strings.TrimSuffix(filepath.Base(ref), filepath.Ext(ref)), string(data), nil
	}

	css, err = r.LoadStyle(ref)
	if err != nil {
		return "", "", err
	}
	return ref, css, nil
}

// Available lists the embedded style names.
func (r *Resolver) Available() []string {
	return r.embedded.Names()
}

// HasCustomLoader returns true if a custom style directory is configured.
func (r *Resolver) HasCustomLoader() bool {
	return r.custom != nil
}

var _ StyleLoader = (*Resolver)(nil)
