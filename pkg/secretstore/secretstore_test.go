package secretstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eurora-ai/eurora-core/pkg/eurora"
)

func randomKey(t *testing.T) [KeySize]byte {
	t.Helper()
	var k [KeySize]byte
	for i := range k {
		k[i] = byte(i + 1)
	}
	return k
}

func TestSetGetRoundtrip(t *testing.T) {
	dir := t.TempDir()
	key := randomKey(t)

	s, err := Open(key, dir)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set("auth/token", "super-secret"))

	v, ok := s.Get("auth/token")
	require.True(t, ok)
	assert.Equal(t, "super-secret", v)
}

func TestSetEmptyRemovesEntry(t *testing.T) {
	dir := t.TempDir()
	key := randomKey(t)

	s, err := Open(key, dir)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set("k", "v"))
	require.NoError(t, s.Set("k", ""))

	_, ok := s.Get("k")
	assert.False(t, ok)
}

func TestGetMissingHandleIsNotError(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(randomKey(t), dir)
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.Get("does-not-exist")
	assert.False(t, ok)
}

func TestReopenWithSameKeySucceeds(t *testing.T) {
	dir := t.TempDir()
	key := randomKey(t)

	s1, err := Open(key, dir)
	require.NoError(t, err)
	require.NoError(t, s1.Set("handle", "value"))
	s1.Close()

	s2, err := Open(key, dir)
	require.NoError(t, err)
	defer s2.Close()

	v, ok := s2.Get("handle")
	require.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestReopenWithWrongKeyFails(t *testing.T) {
	dir := t.TempDir()
	key := randomKey(t)
	var wrongKey [KeySize]byte
	for i := range wrongKey {
		wrongKey[i] = byte(255 - i)
	}

	s1, err := Open(key, dir)
	require.NoError(t, err)
	require.NoError(t, s1.Set("handle", "value"))
	s1.Close()

	_, err = Open(wrongKey, dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, eurora.ErrDecryptFailed)
	assert.Equal(t, eurora.KindCrypto, eurora.KindOf(err))
}

func TestTruncatedFileRejected(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), []byte("short"), 0o600))

	_, err := Open(randomKey(t), dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, eurora.ErrDecryptFailed)
}

func TestSetWritesStoreFileInNestedDataDir(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "nested", "secrets")

	s, err := Open(randomKey(t), dir)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Set("k", "v"))

	info, err := os.Stat(filepath.Join(dir, fileName))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(minFileLen-1))
}

func TestInitOncePerProcess(t *testing.T) {
	// This test shares the package-level global; run it in isolation by
	// accepting either a clean first call or an already-initialized error
	// from a prior test run in the same process, then verifying idempotence.
	dir := t.TempDir()
	key := randomKey(t)

	err := Init(key, dir)
	if err != nil {
		assert.ErrorIs(t, err, eurora.ErrAlreadyInitialized)
		return
	}
	err = Init(key, dir)
	assert.ErrorIs(t, err, eurora.ErrAlreadyInitialized)
}
