package main

import (
	"io"
	"os"
	"os/exec"

	"github.com/go-rod/rod/lib/launcher"

	tex2html "github.com/alnah/go-tex2html"
	"github.com/alnah/go-tex2html/internal/mathrender"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string

	// Tool replaces latexmlc when set.
	Tool tex2html.ExternalTool
	// Renderer replaces the configured math backend when set.
	Renderer mathrender.Renderer

	// LookPath finds executables (doctor).
	LookPath func(string) (string, error)
	// BrowserPath finds a Chrome/Chromium binary (doctor).
	BrowserPath func() (string, bool)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Getenv:      os.Getenv,
		LookPath:    exec.LookPath,
		BrowserPath: launcher.LookPath,
	}
}
