package latexml

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Artifacts are the auxiliary files latexmlc leaves in the output directory.
var Artifacts = []string{
	"LaTeXML.cache",
	"LaTeXML.css",
	"ltx-article.css",
	"ltx-listings.css",
}

// Cleanup removes Artifacts from dir. Files that do not exist are skipped;
// any other failure is reported as ErrCleanup after every file was tried.
func Cleanup(dir string) error {
	var errs []error
	for _, name := range Artifacts {
		err := os.Remove(filepath.Join(dir, name))
		if err == nil || errors.Is(err, os.ErrNotExist) {
			continue
		}
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrCleanup, errors.Join(errs...))
	}
	return nil
}
