package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/templui/datanexus/internal/apperr"
	"github.com/templui/datanexus/internal/catalog"
	"github.com/templui/datanexus/internal/model"
	"github.com/templui/datanexus/internal/storage"
	"github.com/templui/datanexus/internal/validation"
)

type ImageService struct {
	catalog      *catalog.Catalog
	mirror       storage.Storage // nil unless S3 is configured
	auditService *AuditService
	now          func() time.Time
}

func NewImageService(catalog *catalog.Catalog, mirror storage.Storage, auditService *AuditService) *ImageService {
	return &ImageService{
		catalog:      catalog,
		mirror:       mirror,
		auditService: auditService,
		now:          time.Now,
	}
}

func (s *ImageService) category(id string) (catalog.ImageCategory, error) {
	category, ok := s.catalog.Category(id)
	if !ok {
		return catalog.ImageCategory{}, apperr.NotFound(`Image category "%s" not found.`, id)
	}
	return category, nil
}

// CheckCategory reports a NotFound error for unknown category ids.
func (s *ImageService) CheckCategory(id string) error {
	_, err := s.category(id)
	return err
}

// files lists the visible files of a category directory. A missing
// directory has no files.
func (s *ImageService) files(category catalog.ImageCategory) ([]model.ImageFile, error) {
	entries, err := os.ReadDir(category.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []model.ImageFile{}, nil
		}
		return nil, fmt.Errorf("failed to read image directory %s: %w", category.Path, err)
	}

	files := make([]model.ImageFile, 0, len(entries))
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") || entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue // removed since ReadDir
			}
			return nil, fmt.Errorf("failed to stat %s: %w", entry.Name(), err)
		}
		files = append(files, imageFile(category, info))
	}
	return files, nil
}

func imageFile(category catalog.ImageCategory, info fs.FileInfo) model.ImageFile {
	return model.ImageFile{
		Filename:  info.Name(),
		Size:      info.Size(),
		UpdatedAt: info.ModTime().UTC().Format(model.TimeFormat),
		URL:       category.PublicPath() + "/" + url.PathEscape(info.Name()),
	}
}

// ListCategories returns every category with its current file count.
func (s *ImageService) ListCategories() ([]model.ImageCategorySummary, error) {
	summaries := make([]model.ImageCategorySummary, 0, len(s.catalog.Categories))
	for _, category := range s.catalog.Categories {
		files, err := s.files(category)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, model.ImageCategorySummary{
			ID:          category.ID,
			Label:       category.Label,
			Description: category.Description,
			Count:       len(files),
			PublicPath:  category.PublicPath(),
		})
	}
	return summaries, nil
}

func (s *ImageService) ListFiles(categoryID string) (*model.ImageListing, error) {
	category, err := s.category(categoryID)
	if err != nil {
		return nil, err
	}

	files, err := s.files(category)
	if err != nil {
		return nil, err
	}

	return &model.ImageListing{
		Category: model.ImageCategoryInfo{
			ID:          category.ID,
			Label:       category.Label,
			Description: category.Description,
			PrimaryPath: category.PublicPath(),
		},
		Files: files,
	}, nil
}

// Store writes an uploaded image under a sanitized, unused name and returns
// the stored file. Existing files are never overwritten.
func (s *ImageService) Store(ctx context.Context, actor, categoryID, filename string, content io.Reader) (*model.ImageFile, error) {
	category, err := s.category(categoryID)
	if err != nil {
		return nil, err
	}

	err = os.MkdirAll(category.Path, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}

	f, err := s.create(category.Path, filename)
	if err != nil {
		return nil, err
	}
	target := f.Name()

	_, err = io.Copy(f, content)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if rmErr := os.Remove(target); rmErr != nil {
			slog.Warn("failed to remove partial upload", "path", target, "error", rmErr)
		}
		return nil, fmt.Errorf("failed to write image: %w", err)
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("failed to stat image: %w", err)
	}

	s.mirrorSave(ctx, category.ID, target)
	s.auditService.Record(actor, model.AuditActionImageUpload, category.ID, info.Name())

	file := imageFile(category, info)
	return &file, nil
}

// create opens a new file in dir named after original. On collision a
// _<unixmillis>_<counter> suffix is appended until the name is free.
func (s *ImageService) create(dir, original string) (*os.File, error) {
	stem, ext := validation.ImageFilename(original)

	name := stem + ext
	for counter := 1; ; counter++ {
		f, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("failed to create image file: %w", err)
		}
		name = fmt.Sprintf("%s_%d_%d%s", stem, s.now().UnixMilli(), counter, ext)
	}
}

// Remove deletes one image. Names that resolve outside the category
// directory are rejected.
func (s *ImageService) Remove(ctx context.Context, actor, categoryID, filename string) error {
	category, err := s.category(categoryID)
	if err != nil {
		return err
	}

	target := filepath.Join(category.Path, filename)
	if !validation.InsideDir(category.Path, target) {
		return apperr.Validation("Invalid filename.")
	}

	info, err := os.Stat(target)
	if err != nil || info.IsDir() {
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to stat image: %w", err)
		}
		return apperr.NotFound(`Image "%s" not found in category "%s".`, filename, categoryID)
	}

	err = os.Remove(target)
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	s.mirrorDelete(ctx, category.ID, info.Name())
	s.auditService.Record(actor, model.AuditActionImageDelete, category.ID, info.Name())
	return nil
}

// mirrorSave copies a stored image to object storage (best effort).
func (s *ImageService) mirrorSave(ctx context.Context, categoryID, path string) {
	if s.mirror == nil {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		slog.Error("failed to open image for mirroring", "error", err, "path", path)
		return
	}
	defer func() { _ = f.Close() }()

	key := storage.ImageKey(categoryID, filepath.Base(path))
	err = s.mirror.Save(ctx, key, f)
	if err != nil {
		slog.Error("failed to mirror image", "error", err, "key", key)
	}
}

// mirrorDelete removes a mirrored image (best effort).
func (s *ImageService) mirrorDelete(ctx context.Context, categoryID, filename string) {
	if s.mirror == nil {
		return
	}

	key := storage.ImageKey(categoryID, filename)
	err := s.mirror.Delete(ctx, key)
	if err != nil {
		slog.Error("failed to delete mirrored image", "error", err, "key", key)
	}
}
