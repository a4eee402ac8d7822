package identity

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpaqueIDIsDeterministic(t *testing.T) {
	a := OpaqueID("123456789")
	b := OpaqueID("123456789")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, OpaqueID("987654321"))

	// Opaque ids are valid UUID strings, usable as persisted keys.
	assert.Len(t, a, 36)
}

func TestRegisterRoundTripsEncryptedMapping(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		KeyFile: filepath.Join(dir, "user_map.key"),
		MapFile: filepath.Join(dir, "user_map.enc"),
	}

	anon, err := NewAnonymizer(cfg)
	require.NoError(t, err)

	require.NoError(t, anon.Register("raw-1"))
	require.NoError(t, anon.Register("raw-2"))
	require.NoError(t, anon.Register("raw-1")) // idempotent

	// A second instance with the same key file reads the same mapping.
	anon2, err := NewAnonymizer(cfg)
	require.NoError(t, err)
	mapping, err := anon2.loadMapping()
	require.NoError(t, err)
	assert.Equal(t, OpaqueID("raw-1"), mapping["raw-1"])
	assert.Equal(t, OpaqueID("raw-2"), mapping["raw-2"])
	assert.Len(t, mapping, 2)
}

func TestNewAnonymizerRejectsBadSecret(t *testing.T) {
	_, err := NewAnonymizer(Config{Secret: "not-base64!!!"})
	assert.Error(t, err)

	_, err = NewAnonymizer(Config{Secret: "c2hvcnQ="}) // decodes to "short"
	assert.Error(t, err)
}
