package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/datanexus/internal/apperr"
	"github.com/templui/datanexus/internal/catalog"
)

func newImageService(t *testing.T) (*ImageService, *catalog.Catalog, *memoryStorage, *memoryAuditRepository) {
	t.Helper()
	c := newFixtureCatalog(t)
	mirror := newMemoryStorage()
	audit := &memoryAuditRepository{}
	svc := NewImageService(c, mirror, NewAuditService(audit))
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return svc, c, mirror, audit
}

func TestStoreImage(t *testing.T) {
	svc, c, mirror, audit := newImageService(t)
	ctx := context.Background()

	file, err := svc.Store(ctx, "admin", "hero", "Summer Banner!.jpg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "Summer_Banner_.jpg", file.Filename)
	assert.Equal(t, int64(10), file.Size)
	assert.Equal(t, "/assets/hero/Summer_Banner_.jpg", file.URL)

	hero, _ := c.Category("hero")
	assert.Equal(t, []byte("jpeg-bytes"), readFile(t, filepath.Join(hero.Path, file.Filename)))
	assert.Equal(t, []byte("jpeg-bytes"), mirror.objects["images/hero/Summer_Banner_.jpg"])
	assert.Equal(t, []string{"image_upload:hero:Summer_Banner_.jpg"}, audit.actions())
}

func TestStoreImageCollision(t *testing.T) {
	svc, _, _, _ := newImageService(t)
	ctx := context.Background()

	first, err := svc.Store(ctx, "admin", "uploads", "logo.png", strings.NewReader("one"))
	require.NoError(t, err)
	second, err := svc.Store(ctx, "admin", "uploads", "logo.png", strings.NewReader("two"))
	require.NoError(t, err)
	third, err := svc.Store(ctx, "admin", "uploads", "logo.png", strings.NewReader("three"))
	require.NoError(t, err)

	assert.Equal(t, "logo.png", first.Filename)
	assert.Equal(t, "logo_1700000000000_1.png", second.Filename)
	assert.Equal(t, "logo_1700000000000_2.png", third.Filename)

	listing, err := svc.ListFiles("uploads")
	require.NoError(t, err)
	assert.Len(t, listing.Files, 3)
}

func TestStoreImageUnknownCategory(t *testing.T) {
	svc, _, _, _ := newImageService(t)

	_, err := svc.Store(context.Background(), "admin", "nope", "a.png", strings.NewReader("x"))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, `Image category "nope" not found.`, err.Error())
}

func TestListCategories(t *testing.T) {
	svc, c, _, _ := newImageService(t)

	alumni, _ := c.Category("alumni")
	require.NoError(t, os.WriteFile(filepath.Join(alumni.Path, "grad.png"), []byte("png"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(alumni.Path, ".DS_Store"), []byte("x"), 0644))

	categories, err := svc.ListCategories()
	require.NoError(t, err)
	require.Len(t, categories, 4)
	assert.Equal(t, "alumni", categories[0].ID)
	assert.Equal(t, 1, categories[0].Count)
	assert.Equal(t, "/assets/alumni", categories[0].PublicPath)
	assert.Equal(t, 0, categories[1].Count)

	listing, err := svc.ListFiles("alumni")
	require.NoError(t, err)
	assert.Equal(t, "Alumni & Students", listing.Category.Label)
	assert.Equal(t, "/assets/alumni", listing.Category.PrimaryPath)
	require.Len(t, listing.Files, 1)
	assert.Equal(t, "grad.png", listing.Files[0].Filename)
	assert.Equal(t, "/assets/alumni/grad.png", listing.Files[0].URL)

	_, err = svc.ListFiles("nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRemoveImage(t *testing.T) {
	svc, c, mirror, audit := newImageService(t)
	ctx := context.Background()

	file, err := svc.Store(ctx, "admin", "employers", "acme.png", strings.NewReader("logo"))
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, "admin", "employers", file.Filename))

	employers, _ := c.Category("employers")
	_, err = os.Stat(filepath.Join(employers.Path, file.Filename))
	assert.True(t, os.IsNotExist(err))
	assert.Empty(t, mirror.objects)
	assert.Equal(t, []string{"image_upload:employers:acme.png", "image_delete:employers:acme.png"}, audit.actions())

	err = svc.Remove(ctx, "admin", "employers", file.Filename)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, `Image "acme.png" not found in category "employers".`, err.Error())
}

func TestRemoveImageRejectsTraversal(t *testing.T) {
	svc, c, _, _ := newImageService(t)

	// a file outside the category directory must survive
	outside := filepath.Join(filepath.Dir(filepath.Dir(mustCategoryPath(t, c, "hero"))), "Dim_Students.csv")
	require.FileExists(t, outside)

	for _, name := range []string{"../../Dim_Students.csv", "..", ""} {
		err := svc.Remove(context.Background(), "admin", "hero", name)
		assert.ErrorIs(t, err, apperr.ErrValidation, name)
		assert.Equal(t, "Invalid filename.", err.Error())
	}
	assert.FileExists(t, outside)
}

func mustCategoryPath(t *testing.T, c *catalog.Catalog, id string) string {
	t.Helper()
	category, ok := c.Category(id)
	require.True(t, ok)
	return category.Path
}
