package assetstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAsset struct {
	id      string
	name    string
	kind    string
	ext     string
	mime    string
	content []byte
}

func (f fakeAsset) AssetType() string             { return f.kind }
func (f fakeAsset) FileExtension() string         { return f.ext }
func (f fakeAsset) MimeType() string              { return f.mime }
func (f fakeAsset) SerializeContent() ([]byte, error) { return f.content, nil }
func (f fakeAsset) UniqueID() string              { return f.id }
func (f fakeAsset) DisplayName() string           { return f.name }

func TestSaveDedupByContentHash(t *testing.T) {
	dir := t.TempDir()
	store := New(Config{BaseDir: dir, UseContentHash: true})

	asset := fakeAsset{id: "yt-1", name: "video", kind: "YoutubeAsset", ext: "json", mime: "application/json", content: []byte(`{"id":"yt-1"}`)}

	info1, err := store.Save(asset)
	require.NoError(t, err)
	info2, err := store.Save(asset)
	require.NoError(t, err)

	assert.Equal(t, info1.AbsolutePath, info2.AbsolutePath)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSaveOrganizeByType(t *testing.T) {
	dir := t.TempDir()
	store := New(Config{BaseDir: dir, OrganizeByType: true, UseContentHash: true})

	asset := fakeAsset{id: "a1", name: "n", kind: "YoutubeAsset", ext: "json", mime: "application/json", content: []byte("x")}
	info, err := store.Save(asset)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "YoutubeAsset"), filepath.Dir(info.AbsolutePath))
}

func TestSaveUsesUniqueIDWithoutContentHash(t *testing.T) {
	dir := t.TempDir()
	store := New(Config{BaseDir: dir, UseContentHash: false})

	asset := fakeAsset{id: "my-id", name: "n", kind: "Default", ext: "json", mime: "application/json", content: []byte("x")}
	info, err := store.Save(asset)
	require.NoError(t, err)
	assert.Equal(t, "my-id.json", filepath.Base(info.AbsolutePath))
	assert.Empty(t, info.ContentHash)
}

func TestRereadMatchesContentHash(t *testing.T) {
	dir := t.TempDir()
	store := New(Config{BaseDir: dir, UseContentHash: true})

	asset := fakeAsset{id: "a", name: "n", kind: "Default", ext: "bin", mime: "application/octet-stream", content: []byte("hello world")}
	info, err := store.Save(asset)
	require.NoError(t, err)

	data, err := os.ReadFile(info.AbsolutePath)
	require.NoError(t, err)
	assert.Equal(t, asset.content, data)
	assert.NotEmpty(t, info.ContentHash)
}

func TestSizePolicyRejectsOversizedAsset(t *testing.T) {
	dir := t.TempDir()
	store := New(Config{BaseDir: dir, MaxFileSize: 4})

	asset := fakeAsset{id: "a", name: "n", kind: "Default", ext: "bin", content: []byte("way too large")}
	_, err := store.Save(asset)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSizePolicy)
}

func TestSanitizeIDPreventsTraversal(t *testing.T) {
	dir := t.TempDir()
	store := New(Config{BaseDir: dir, OrganizeByType: true})

	asset := fakeAsset{id: "../../etc/passwd", name: "n", kind: "../../etc", ext: "json", content: []byte("x")}
	info, err := store.Save(asset)
	require.NoError(t, err)

	abs, err := filepath.Abs(info.AbsolutePath)
	require.NoError(t, err)
	baseAbs, err := filepath.Abs(dir)
	require.NoError(t, err)
	assert.Contains(t, abs, baseAbs)
}
