package services

import (
	"context"
	"database/sql"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/bytonbyte/internal/common"
	"github.com/dmitrijs2005/bytonbyte/internal/logging"
	"github.com/dmitrijs2005/bytonbyte/internal/server/models"
	"github.com/dmitrijs2005/bytonbyte/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bytonbyte/internal/server/storage"
	"github.com/google/uuid"
)

const defaultImageContentType = "image/jpeg"

type CreateAlbumInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// UploadInput is one file received from the dashboard.
type UploadInput struct {
	Filename    string
	ContentType string
	Data        []byte
	AlbumID     string
}

type GalleryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	uploader    storage.Uploader
	log         logging.Logger
	now         func() time.Time
}

func NewGalleryService(db *sql.DB, m repomanager.RepositoryManager, uploader storage.Uploader, log logging.Logger) *GalleryService {
	return &GalleryService{
		db:          db,
		repomanager: m,
		uploader:    uploader,
		log:         log.With("module", "gallery"),
		now:         time.Now,
	}
}

func (s *GalleryService) ListAlbums(ctx context.Context) ([]*models.Album, error) {
	albums, err := s.repomanager.Albums(s.db).List(ctx)
	if err != nil {
		return nil, err
	}
	if albums == nil {
		albums = []*models.Album{}
	}
	return albums, nil
}

func (s *GalleryService) CreateAlbum(ctx context.Context, in CreateAlbumInput) (*models.Album, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrInvalidInput)
	}
	return s.repomanager.Albums(s.db).Create(ctx, &models.Album{Name: name, Description: in.Description})
}

// ListImages returns images newest first, restricted to albumID when set.
func (s *GalleryService) ListImages(ctx context.Context, albumID string) ([]*models.Image, error) {
	albumID = strings.TrimSpace(albumID)
	if albumID != "" && !isUUID(albumID) {
		return nil, fmt.Errorf("%w: invalid album id", common.ErrInvalidInput)
	}
	return s.repomanager.Images(s.db).List(ctx, albumID)
}

// Upload stores the file in blob storage and records it. The object is
// written before the row, so a failed insert can leave an orphaned object.
func (s *GalleryService) Upload(ctx context.Context, in UploadInput) (*models.Image, error) {
	if len(in.Data) == 0 {
		return nil, fmt.Errorf("%w: no file provided", common.ErrInvalidInput)
	}

	albumID := strings.TrimSpace(in.AlbumID)
	if albumID != "" {
		if !isUUID(albumID) {
			return nil, fmt.Errorf("%w: album %s", common.ErrorNotFound, albumID)
		}
		ok, err := s.repomanager.Albums(s.db).Exists(ctx, albumID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: album %s", common.ErrorNotFound, albumID)
		}
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = defaultImageContentType
	}

	key := ObjectKey(albumID, in.Filename, s.now())
	url, err := s.uploader.Upload(ctx, key, contentType, in.Data)
	if err != nil {
		return nil, err
	}

	img := &models.Image{
		URL:      url,
		Path:     key,
		Filename: in.Filename,
		Size:     int64(len(in.Data)),
		MimeType: contentType,
	}
	if albumID != "" {
		img.AlbumID = &albumID
	}

	img, err = s.repomanager.Images(s.db).Create(ctx, img)
	if err != nil {
		s.log.Error(ctx, "image stored but not recorded", "key", key, "error", err)
		return nil, err
	}
	s.log.Info(ctx, "image uploaded", "image_id", img.ID, "key", key)
	return img, nil
}

// ObjectKey builds albums/<album>/<unixms>-<8 hex>.<ext>, or
// images/<unixms>-<8 hex>.<ext> without an album.
func ObjectKey(albumID, filename string, now time.Time) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
	if ext == "" {
		ext = "jpg"
	}
	name := fmt.Sprintf("%d-%s.%s", now.UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:8], ext)
	if albumID != "" {
		return "albums/" + albumID + "/" + name
	}
	return "images/" + name
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
