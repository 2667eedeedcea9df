package storage

import (
	"fmt"
	"path"
	"strings"
)

const s3Scheme = "s3://"

// IsRemote reports whether loc is an s3:// location.
func IsRemote(loc string) bool {
	return strings.HasPrefix(loc, s3Scheme)
}

// Location is a parsed s3://bucket/prefix.
type Location struct {
	Bucket string
	Prefix string
}

// ParseLocation parses an s3:// URI. The prefix has no leading slash.
func ParseLocation(uri string) (Location, error) {
	rest, ok := strings.CutPrefix(uri, s3Scheme)
	if !ok {
		return Location{}, fmt.Errorf("%w: %q is not an s3:// location", ErrInvalidLocation, uri)
	}
	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return Location{}, fmt.Errorf("%w: %q has no bucket", ErrInvalidLocation, uri)
	}
	return Location{Bucket: bucket, Prefix: strings.TrimPrefix(prefix, "/")}, nil
}

// Key joins the prefix with a slash-separated relative path.
func (l Location) Key(rel string) string {
	if l.Prefix == "" {
		return rel
	}
	return path.Join(l.Prefix, rel)
}

func (l Location) String() string {
	return s3Scheme + l.Bucket + "/" + l.Prefix
}
