package services

import (
	"context"

	"github.com/SscSPs/user_accounts_app/internal/core/domain"
)

// MediaUploaderSvc stores a local file on the media host.
type MediaUploaderSvc interface {
	Upload(ctx context.Context, localPath string) (*domain.UploadedMedia, error)
}
