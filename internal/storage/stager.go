package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/alnah/go-tex2html/internal/fileutil"
)

// Stager prepares input and output directories and uploads results.
type Stager struct {
	clients *clientSource
	logger  *zap.Logger
}

// Option configures a Stager.
type Option func(*Stager)

// WithClient sets the S3 client instead of building one from the
// environment.
func WithClient(c S3Client) Option {
	return func(s *Stager) {
		s.clients.client = c
	}
}

// WithRegion sets the AWS region used when building the client.
func WithRegion(region string) Option {
	return func(s *Stager) {
		s.clients.region = region
	}
}

// WithEndpoint sets a custom S3 endpoint (MinIO, localstack). Path-style
// addressing is used with custom endpoints.
func WithEndpoint(endpoint string) Option {
	return func(s *Stager) {
		s.clients.endpoint = endpoint
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Stager) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Stager.
func New(opts ...Option) *Stager {
	s := &Stager{
		clients: &clientSource{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func noop() {}

// ResolveInput returns the LaTeX file to convert for input, which may be a
// .tex file, a directory or an s3:// location. The returned cleanup removes
// any temporary download and must be called once the file is no longer
// needed.
func (s *Stager) ResolveInput(ctx context.Context, input string) (texPath string, cleanup func(), err error) {
	if IsRemote(input) {
		dir, cleanup, err := s.download(ctx, input)
		if err != nil {
			return "", nil, err
		}
		texPath, err := PickLatexFile(dir)
		if err != nil {
			cleanup()
			return "", nil, err
		}
		return texPath, cleanup, nil
	}

	if _, err := os.Stat(input); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInputResolution, err)
	}
	if fileutil.DirExists(input) {
		texPath, err := PickLatexFile(input)
		if err != nil {
			return "", nil, err
		}
		return texPath, noop, nil
	}
	if !strings.EqualFold(filepath.Ext(input), ".tex") {
		return "", nil, fmt.Errorf("%w: %s is not a .tex file", ErrInputResolution, input)
	}
	return input, noop, nil
}

// PrepareOutputDirectory returns the local directory conversion output is
// written to. Local outputs are created; s3:// outputs get a temporary
// directory that cleanup removes.
func (s *Stager) PrepareOutputDirectory(output string) (dir string, cleanup func(), err error) {
	if IsRemote(output) {
		if _, err := ParseLocation(output); err != nil {
			return "", nil, err
		}
		dir, err := os.MkdirTemp("", "tex2html-out-*")
		if err != nil {
			return "", nil, fmt.Errorf("creating temporary output directory: %w", err)
		}
		return dir, func() { _ = os.RemoveAll(dir) }, nil
	}

	if err := os.MkdirAll(output, 0o750); err != nil {
		return "", nil, fmt.Errorf("creating output directory: %w", err)
	}
	return output, noop, nil
}

// download copies every object under the location's prefix into a new
// temporary directory, keeping the relative layout.
func (s *Stager) download(ctx context.Context, uri string) (string, func(), error) {
	loc, err := ParseLocation(uri)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInputResolution, err)
	}
	client, err := s.clients.get(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInputResolution, err)
	}

	dir, err := os.MkdirTemp("", "tex2html-in-*")
	if err != nil {
		return "", nil, fmt.Errorf("%w: creating temporary input directory: %w", ErrInputResolution, err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	listPrefix := loc.Prefix
	if listPrefix != "" && !strings.HasSuffix(listPrefix, "/") {
		listPrefix += "/"
	}

	var count int
	pages := s3.NewListObjectsV2Paginator(client, &s3.ListObjectsV2Input{
		Bucket: aws.String(loc.Bucket),
		Prefix: aws.String(listPrefix),
	})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			cleanup()
			return "", nil, fmt.Errorf("%w: listing %s: %v", ErrInputResolution, uri, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			rel := strings.TrimPrefix(key, listPrefix)
			if rel == "" || strings.HasSuffix(rel, "/") {
				continue
			}
			if err := s.fetch(ctx, client, loc.Bucket, key, dir, rel); err != nil {
				cleanup()
				return "", nil, err
			}
			count++
		}
	}

	if count == 0 {
		cleanup()
		return "", nil, fmt.Errorf("%w: no objects under %s", ErrInputResolution, uri)
	}
	s.logger.Info("input downloaded", zap.String("location", uri), zap.Int("objects", count))
	return dir, cleanup, nil
}

func (s *Stager) fetch(ctx context.Context, client S3Client, bucket, key, dir, rel string) error {
	target, err := safeJoin(dir, rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return fmt.Errorf("%w: creating %s: %w", ErrInputResolution, filepath.Dir(target), err)
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	if err != nil {
		return fmt.Errorf("%w: downloading %s: %v", ErrInputResolution, key, err)
	}
	defer func() { _ = out.Body.Close() }()

	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600) // #nosec G304 -- target is confined to dir by safeJoin
	if err != nil {
		return fmt.Errorf("%w: creating %s: %w", ErrInputResolution, target, err)
	}
	if _, err := io.Copy(f, out.Body); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: downloading %s: %v", ErrInputResolution, key, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrInputResolution, target, err)
	}
	return nil
}

// safeJoin joins a slash-separated object path to dir and rejects paths
// that would escape it.
func safeJoin(dir, rel string) (string, error) {
	clean := path.Clean("/" + rel)
	target := filepath.Join(dir, filepath.FromSlash(clean))
	if !strings.HasPrefix(target, filepath.Clean(dir)+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: object path %q escapes the staging directory", ErrInputResolution, rel)
	}
	return target, nil
}

// Upload copies every file below dir to the s3:// location dest, keeping
// relative paths as key suffixes.
func (s *Stager) Upload(ctx context.Context, dir, dest string) error {
	loc, err := ParseLocation(dest)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpload, err)
	}
	client, err := s.clients.get(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpload, err)
	}
	uploader := manager.NewUploader(client)

	var count int
	err = filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		key := loc.Key(filepath.ToSlash(rel))

		f, err := os.Open(p) // #nosec G304 -- p comes from walking the output directory
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()

		input := &s3.PutObjectInput{
			Bucket: aws.String(loc.Bucket),
			Key:    aws.String(key),
			Body:   f,
		}
		if ct := mime.TypeByExtension(filepath.Ext(p)); ct != "" {
			input.ContentType = aws.String(ct)
		}
		if _, err := uploader.Upload(ctx, input); err != nil {
			return fmt.Errorf("uploading %s: %w", key, err)
		}
		count++
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpload, err)
	}

	s.logger.Info("output uploaded", zap.String("location", dest), zap.Int("objects", count))
	return nil
}

// Compile-time interface check.
var _ S3Client = (*s3.Client)(nil)
