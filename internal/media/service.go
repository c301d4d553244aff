package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/kidcycle/kidcycle-backend/pkg/config"
	dbtypes "github.com/kidcycle/kidcycle-backend/pkg/db/types"
	pkgerrors "github.com/kidcycle/kidcycle-backend/pkg/errors"
)

type objectStore interface {
	Upload(ctx context.Context, objectName, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, objectName string) error
}

// UploadInput describes a single incoming listing photo.
type UploadInput struct {
	OwnerID  uuid.UUID
	Filename string
	Size     int64
	Body     io.Reader
}

// Service stores listing photos and hands back their durable URLs.
type Service interface {
	UploadListingImage(ctx context.Context, input UploadInput) (*dbtypes.Image, error)
	DeleteListingImage(ctx context.Context, objectName string) error
}

// ServiceParams bundles the dependencies for the media service.
type ServiceParams struct {
	Store  objectStore
	Config config.MediaConfig
}

type service struct {
	store objectStore
	cfg   config.MediaConfig
}

// NewService constructs a media service backed by the provided object store.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "object store is required")
	}
	return &service{store: params.Store, cfg: params.Config}, nil
}

// UploadListingImage sniffs, validates, and stores a listing photo.
func (s *service) UploadListingImage(ctx context.Context, input UploadInput) (*dbtypes.Image, error) {
	if input.OwnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.Body == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file body is required")
	}

	maxBytes := int64(s.cfg.MaxUploadMB) * 1024 * 1024
	if maxBytes > 0 && input.Size > maxBytes {
		return nil, pkgerrors.New(
			pkgerrors.CodeValidation,
			fmt.Sprintf("file exceeds the %dMB upload limit", s.cfg.MaxUploadMB),
		)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(input.Body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read upload")
	}
	head = head[:n]
	if len(head) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is empty")
	}

	contentType, ext, err := detectImageType(head)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported file type")
	}

	objectName := buildObjectName(input.OwnerID, ext)
	body := io.MultiReader(bytes.NewReader(head), input.Body)
	if maxBytes > 0 {
		body = io.LimitReader(body, maxBytes)
	}

	url, err := s.store.Upload(ctx, objectName, contentType, body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload image")
	}

	return &dbtypes.Image{
		Filename: displayFilename(input.Filename, objectName),
		URL:      url,
	}, nil
}

// DeleteListingImage removes a stored photo. Missing objects are not errors.
func (s *service) DeleteListingImage(ctx context.Context, objectName string) error {
	objectName = strings.TrimSpace(objectName)
	if objectName == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "object name is required")
	}
	if err := s.store.Delete(ctx, objectName); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete image")
	}
	return nil
}

// Object keys group photos by owner so a seller's uploads can be swept together.
func buildObjectName(ownerID uuid.UUID, ext string) string {
	return fmt.Sprintf("listings/%s/%s%s", ownerID, uuid.NewString(), ext)
}

func displayFilename(original, objectName string) string {
	name := strings.TrimSpace(path.Base(original))
	if name == "" || name == "." || name == "/" {
		return path.Base(objectName)
	}
	return name
}
