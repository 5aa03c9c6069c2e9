package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ImageProcessor is an optional capability for optimizing uploads
// (resize, re-encode). When no processor is wired in, uploads are stored
// as received.
type ImageProcessor interface {
	Process(ctx context.Context, data []byte, contentType string) ([]byte, string, error)
}

// ImageStore persists an uploaded image and returns its public URL
type ImageStore interface {
	Save(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]`)

// ImageService stores recipe images, optionally running them through an
// image processor first. A processor failure degrades to storing the raw
// upload rather than failing the request.
type ImageService struct {
	store     ImageStore
	processor ImageProcessor
}

// NewImageService creates a new ImageService instance. processor may be nil.
func NewImageService(store ImageStore, processor ImageProcessor) *ImageService {
	return &ImageService{store: store, processor: processor}
}

// SaveRecipeImage stores an uploaded recipe image and returns its URL
func (s *ImageService) SaveRecipeImage(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	if s.processor != nil {
		processed, processedType, err := s.processor.Process(ctx, data, contentType)
		if err != nil {
			log.Printf("image processing failed, storing original upload: %v", err)
		} else {
			data, contentType = processed, processedType
		}
	}

	safe := unsafeFilenameChars.ReplaceAllString(filepath.Base(filename), "_")
	name := fmt.Sprintf("%d-%s", time.Now().UnixNano(), safe)
	return s.store.Save(ctx, name, data, contentType)
}

// S3ImageStore stores images in an S3 bucket with public-read objects
type S3ImageStore struct {
	client *s3.Client
	bucket string
}

// NewS3ImageStore creates an S3-backed image store
func NewS3ImageStore(client *s3.Client, bucket string) *S3ImageStore {
	return &S3ImageStore{client: client, bucket: bucket}
}

func (s *S3ImageStore) Save(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	key := "uploads/" + name
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object %s: %w", key, err)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key), nil
}

// DiskImageStore stores images on the local filesystem, served statically
// under publicPath. Used when no S3 bucket is configured.
type DiskImageStore struct {
	dir        string
	publicPath string
}

// NewDiskImageStore creates a disk-backed image store rooted at dir
func NewDiskImageStore(dir, publicPath string) (*DiskImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory %s: %w", dir, err)
	}
	return &DiskImageStore{dir: dir, publicPath: publicPath}, nil
}

func (s *DiskImageStore) Save(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload %s: %w", name, err)
	}
	return path.Join(s.publicPath, name), nil
}
