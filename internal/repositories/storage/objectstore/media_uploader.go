// Package objectstore stores uploaded media on an S3-compatible host (AWS S3, MinIO).
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SscSPs/user_accounts_app/internal/core/domain"
	portssvc "github.com/SscSPs/user_accounts_app/internal/core/ports/services"
	"github.com/SscSPs/user_accounts_app/internal/platform/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ErrEmptyPath is returned when Upload is called without a file.
var ErrEmptyPath = errors.New("no local file to upload")

// putObjectAPI is the part of *s3.Client the uploader needs.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// MediaUploader implements portssvc.MediaUploaderSvc on top of S3 PutObject.
type MediaUploader struct {
	client        putObjectAPI
	bucket        string
	publicBaseURL string
	now           func() time.Time
}

var _ portssvc.MediaUploaderSvc = (*MediaUploader)(nil)

// NewMediaUploader builds an S3 client from cfg. Path-style addressing keeps
// MinIO endpoints working.
func NewMediaUploader(ctx context.Context, cfg *config.Config) (*MediaUploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return newMediaUploader(client, cfg.S3Bucket, cfg.S3PublicBaseURL), nil
}

func newMediaUploader(client putObjectAPI, bucket, publicBaseURL string) *MediaUploader {
	return &MediaUploader{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		now:           time.Now,
	}
}

// Upload stores the file at localPath and returns its public URL.
func (u *MediaUploader) Upload(ctx context.Context, localPath string) (*domain.UploadedMedia, error) {
	if strings.TrimSpace(localPath) == "" {
		return nil, ErrEmptyPath
	}

	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", localPath, err)
	}

	contentType, err := sniffContentType(f)
	if err != nil {
		return nil, err
	}

	key := u.objectKey(filepath.Ext(localPath))
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(info.Size()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to put object %s: %w", key, err)
	}

	return &domain.UploadedMedia{
		URL:         u.publicBaseURL + "/" + u.bucket + "/" + key,
		Key:         key,
		ContentType: contentType,
		Size:        info.Size(),
	}, nil
}

func (u *MediaUploader) objectKey(ext string) string {
	d := u.now().UTC()
	return fmt.Sprintf("media/%d/%02d/%02d/%s%s", d.Year(), d.Month(), d.Day(), uuid.New(), strings.ToLower(ext))
}

// sniffContentType reads the first 512 bytes and rewinds the file.
func sniffContentType(f *os.File) (string, error) {
	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read file header: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind file: %w", err)
	}
	return http.DetectContentType(buf[:n]), nil
}
