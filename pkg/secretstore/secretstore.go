// Package secretstore is an at-rest-encrypted key/value store for
// credentials and derived keys. Init sets up a single process-wide instance
// from a 256-bit key and a data directory; Open builds an independent one.
// The encrypted blob on disk is written atomically, and Close zeroizes the
// in-memory key.
//
// Grounded on the original Rust implementation's euro-secret/src/file_store.rs
// (global OnceLock<Mutex<SecretStore>>, XChaCha20-Poly1305, atomic
// temp-file-then-rename flush, 0600 perms) and on the teacher's
// api/pkg/crypto/encryption.go for general at-rest-crypto style, adapted to
// the spec's XChaCha20-Poly1305 requirement rather than the teacher's
// AES-256-GCM (see DESIGN.md).
package secretstore

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/eurora-ai/eurora-core/pkg/eurora"
)

const (
	fileName   = "secrets.enc"
	tmpName    = "secrets.enc.tmp"
	minFileLen = chacha20poly1305.NonceSizeX + chacha20poly1305.Overhead // 24 + 16 = 40
)

// KeySize is the required length, in bytes, of the encryption key.
const KeySize = chacha20poly1305.KeySize

// Store is an at-rest-encrypted map of qualified handle -> value. The zero
// value is not usable; construct with Open.
type Store struct {
	mu      sync.Mutex
	secrets map[string]string
	key     [KeySize]byte
	path    string
}

var (
	global   *Store
	globalMu sync.Mutex
)

// Init opens or creates the process-wide secret store at dataDir/secrets.enc
// using key. It fails if a global store has already been initialized in this
// process (once-per-process semantics).
func Init(key [KeySize]byte, dataDir string) error {
	globalMu.Lock()
	defer globalMu.Unlock()
	if global != nil {
		return eurora.ErrAlreadyInitialized
	}
	s, err := Open(key, dataDir)
	if err != nil {
		return err
	}
	global = s
	return nil
}

// Global returns the process-wide store initialized by Init, or nil if Init
// has not been called.
func Global() *Store {
	globalMu.Lock()
	defer globalMu.Unlock()
	return global
}

// Open loads the store at dataDir/secrets.enc, decrypting with key. A
// missing file is treated as an empty store. Returns eurora.ErrDecryptFailed
// (wrapped with eurora.KindCrypto) if the file exists but cannot be
// decrypted with key.
func Open(key [KeySize]byte, dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, eurora.WithKind(eurora.KindConfiguration, fmt.Errorf("create data dir: %w", err))
	}
	path := filepath.Join(dataDir, fileName)
	s := &Store{secrets: make(map[string]string), key: key, path: path}

	blob, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, eurora.WithKind(eurora.KindStorage, fmt.Errorf("read secret store: %w", err))
	}

	secrets, err := decryptStore(blob, key)
	if err != nil {
		return nil, err
	}
	s.secrets = secrets
	return s, nil
}

func decryptStore(blob []byte, key [KeySize]byte) (map[string]string, error) {
	if len(blob) < minFileLen {
		return nil, eurora.WithKind(eurora.KindCrypto, eurora.ErrDecryptFailed)
	}
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, eurora.WithKind(eurora.KindCrypto, fmt.Errorf("init cipher: %w", err))
	}
	nonce := blob[:chacha20poly1305.NonceSizeX]
	ciphertext := blob[chacha20poly1305.NonceSizeX:]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, eurora.WithKind(eurora.KindCrypto, eurora.ErrDecryptFailed)
	}
	var secrets map[string]string
	if err := json.Unmarshal(plaintext, &secrets); err != nil {
		return nil, eurora.WithKind(eurora.KindCrypto, eurora.ErrDecryptFailed)
	}
	return secrets, nil
}

func encryptStore(secrets map[string]string, key [KeySize]byte) ([]byte, error) {
	plaintext, err := json.Marshal(secrets)
	if err != nil {
		return nil, eurora.WithKind(eurora.KindStorage, fmt.Errorf("marshal secrets: %w", err))
	}
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, eurora.WithKind(eurora.KindCrypto, fmt.Errorf("init cipher: %w", err))
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return nil, eurora.WithKind(eurora.KindCrypto, fmt.Errorf("generate nonce: %w", err))
	}
	ciphertext := aead.Seal(nil, nonce, plaintext, nil)
	return append(nonce, ciphertext...), nil
}

// Get returns the value for handle, or ("", false) if it does not exist.
// A missing handle is not an error.
func (s *Store) Get(handle string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.secrets[handle]
	return v, ok
}

// Set stores value under handle and flushes to disk. Setting an empty value
// removes the entry entirely.
func (s *Store) Set(handle, value string) error {
	s.mu.Lock()
	if value == "" {
		delete(s.secrets, handle)
	} else {
		s.secrets[handle] = value
	}
	snapshot := make(map[string]string, len(s.secrets))
	for k, v := range s.secrets {
		snapshot[k] = v
	}
	s.mu.Unlock()
	return s.flush(snapshot)
}

// Remove deletes handle and flushes. It is not an error if handle was absent.
func (s *Store) Remove(handle string) error {
	return s.Set(handle, "")
}

func (s *Store) flush(secrets map[string]string) error {
	blob, err := encryptStore(secrets, s.key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	tmp := filepath.Join(dir, tmpName)
	if err := os.WriteFile(tmp, blob, 0o600); err != nil {
		return eurora.WithKind(eurora.KindStorage, fmt.Errorf("write temp secret store: %w", err))
	}
	if runtime.GOOS != "windows" {
		if err := os.Chmod(tmp, 0o600); err != nil {
			return eurora.WithKind(eurora.KindStorage, fmt.Errorf("chmod temp secret store: %w", err))
		}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return eurora.WithKind(eurora.KindStorage, fmt.Errorf("rename secret store: %w", err))
	}
	return nil
}

// Close zeroizes the in-memory key and removes every secret from the map.
// The secret value strings are dropped, not overwritten: their bytes stay in
// memory until the garbage collector reclaims them. The Store must not be
// used afterward.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.secrets {
		s.secrets[k] = ""
		delete(s.secrets, k)
	}
	for i := range s.key {
		s.key[i] = 0
	}
}
