package storage

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// documentClass marks the root file of a multi-file LaTeX project.
var documentClass = []byte(`\documentclass`)

// PickLatexFile chooses the LaTeX file to convert in dir: the only .tex
// file, otherwise the only one declaring \documentclass.
func PickLatexFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", ErrInputResolution, dir, err)
	}

	var candidates []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".tex") {
			continue
		}
		candidates = append(candidates, filepath.Join(dir, e.Name()))
	}
	sort.Strings(candidates)

	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("%w: no .tex file in %s", ErrInputResolution, dir)
	case 1:
		return candidates[0], nil
	}

	var roots []string
	for _, c := range candidates {
		content, err := os.ReadFile(c) // #nosec G304 -- candidate comes from listing the input directory
		if err != nil {
			return "", fmt.Errorf("%w: reading %s: %v", ErrInputResolution, c, err)
		}
		if bytes.Contains(content, documentClass) {
			roots = append(roots, c)
		}
	}

	switch len(roots) {
	case 1:
		return roots[0], nil
	case 0:
		return "", fmt.Errorf("%w: %d .tex files in %s and none declares \\documentclass", ErrInputResolution, len(candidates), dir)
	default:
		names := make([]string, len(roots))
		for i, r := range roots {
			names[i] = filepath.Base(r)
		}
		return "", fmt.Errorf("%w: several root files in %s: %s", ErrInputResolution, dir, strings.Join(names, ", "))
	}
}
