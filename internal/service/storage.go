package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zhanma666/evil-cook-project/internal/types"
)

const uploadURLExpiry = 15 * time.Minute

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

var uploadPurposes = map[string]string{
	"cover":  "covers",
	"step":   "steps",
	"avatar": "avatars",
}

// Presigner issues upload URLs for an object store. *config.S3Config
// implements it.
type Presigner interface {
	PresignPut(ctx context.Context, objectKey, contentType string, expiration time.Duration) (string, error)
	PublicURL(objectKey string) string
}

// StorageService hands out presigned upload URLs so clients can put images
// straight into the bucket and then submit the resulting URL.
type StorageService struct {
	presigner Presigner
	now       func() time.Time
}

func NewStorageService(presigner Presigner) *StorageService {
	return &StorageService{presigner: presigner, now: time.Now}
}

// PresignImageUpload reserves a fresh object key under the user's prefix and
// presigns a PUT for it.
func (s *StorageService) PresignImageUpload(ctx context.Context, userID uuid.UUID, purpose, contentType string) (*types.PresignResponse, error) {
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, types.NewValidationError("unsupported content type %q", contentType)
	}
	prefix, ok := uploadPurposes[purpose]
	if !ok {
		return nil, types.NewValidationError("unsupported upload purpose %q", purpose)
	}

	key := fmt.Sprintf("%s/%s/%s%s", prefix, userID, uuid.New(), ext)
	uploadURL, err := s.presigner.PresignPut(ctx, key, contentType, uploadURLExpiry)
	if err != nil {
		return nil, types.NewInternalError("failed to presign upload", err)
	}

	return &types.PresignResponse{
		UploadURL: uploadURL,
		ImageURL:  s.presigner.PublicURL(key),
		Key:       key,
		ExpiresAt: s.now().Add(uploadURLExpiry).UTC(),
	}, nil
}
