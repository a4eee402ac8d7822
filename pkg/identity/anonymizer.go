// Package identity derives opaque user ids from raw messaging-platform ids.
// The derivation is a deterministic UUIDv5, so every component downstream of
// the boundary only ever sees the pseudonym. The raw->opaque mapping is also
// kept in an encrypted audit file for lawful-request handling; losing that
// file loses the audit trail but never the pseudonyms themselves.
package identity

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/chacha20poly1305"
)

var namespace = uuid.MustParse("d2a8b4b9-d4a1-4761-8568-2b34923e493a")

// OpaqueID derives the stable pseudonymous id for a raw platform user id.
// Pure function; safe without an Anonymizer for read-only callers.
func OpaqueID(rawID string) string {
	return uuid.NewSHA1(namespace, []byte(rawID)).String()
}

type Anonymizer struct {
	mu      sync.Mutex
	key     []byte
	mapFile string
}

type Config struct {
	// Secret is the base64 key from the environment. When empty, a key is
	// generated once and kept in KeyFile.
	Secret  string
	KeyFile string
	MapFile string
}

func NewAnonymizer(cfg Config) (*Anonymizer, error) {
	key, err := loadOrCreateKey(cfg)
	if err != nil {
		return nil, err
	}
	return &Anonymizer{key: key, mapFile: cfg.MapFile}, nil
}

func loadOrCreateKey(cfg Config) ([]byte, error) {
	if cfg.Secret != "" {
		key, err := base64.StdEncoding.DecodeString(cfg.Secret)
		if err != nil {
			return nil, fmt.Errorf("identity: decode USER_MAP_SECRET: %w", err)
		}
		if len(key) != chacha20poly1305.KeySize {
			return nil, fmt.Errorf("identity: USER_MAP_SECRET must be %d bytes", chacha20poly1305.KeySize)
		}
		return key, nil
	}

	if raw, err := os.ReadFile(cfg.KeyFile); err == nil && len(raw) == chacha20poly1305.KeySize {
		return raw, nil
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("identity: generate key: %w", err)
	}
	if err := os.WriteFile(cfg.KeyFile, key, 0o600); err != nil {
		return nil, fmt.Errorf("identity: persist key: %w", err)
	}
	return key, nil
}

func (a *Anonymizer) OpaqueID(rawID string) string {
	return OpaqueID(rawID)
}

// Register records rawID in the encrypted audit mapping. Idempotent; called
// on /start so the mapping stays complete without touching hot paths.
func (a *Anonymizer) Register(rawID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	mapping, err := a.loadMapping()
	if err != nil {
		return err
	}
	opaque := OpaqueID(rawID)
	if existing, ok := mapping[rawID]; ok && existing == opaque {
		return nil
	}
	mapping[rawID] = opaque
	return a.saveMapping(mapping)
}

func (a *Anonymizer) loadMapping() (map[string]string, error) {
	sealed, err := os.ReadFile(a.mapFile)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("identity: read mapping: %w", err)
	}
	if len(sealed) == 0 {
		return map[string]string{}, nil
	}

	aead, err := chacha20poly1305.NewX(a.key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < aead.NonceSize() {
		return nil, fmt.Errorf("identity: mapping file truncated")
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("identity: decrypt mapping: %w", err)
	}

	var mapping map[string]string
	if err := json.Unmarshal(plain, &mapping); err != nil {
		return nil, fmt.Errorf("identity: decode mapping: %w", err)
	}
	return mapping, nil
}

func (a *Anonymizer) saveMapping(mapping map[string]string) error {
	plain, err := json.Marshal(mapping)
	if err != nil {
		return err
	}
	aead, err := chacha20poly1305.NewX(a.key)
	if err != nil {
		return err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return err
	}
	sealed := aead.Seal(nonce, nonce, plain, nil)
	return os.WriteFile(a.mapFile, sealed, 0o600)
}
