// Package storage stages conversion input and output.
//
// Input may be a .tex file, a directory holding the LaTeX sources, or an
// s3://bucket/prefix location that is downloaded into a temporary
// directory. Output is a local directory, or an s3:// location backed by a
// temporary directory that is uploaded once the conversion is done.
package storage
