package storage

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/argon2"
)

const (
	// EncryptionMagicHeader is prepended to encrypted backups for identification.
	EncryptionMagicHeader = "AETHBAK1"

	// Argon2id parameters (RFC 9106 second recommended option)
	defaultArgon2Time    = 3
	defaultArgon2Memory  = 64 * 1024 // KiB
	defaultArgon2Threads = 4
	argon2KeyLen         = 32 // AES-256

	saltLength = 16
)

// ErrWrongPassphrase is returned when an encrypted backup cannot be opened with the given passphrase.
var ErrWrongPassphrase = errors.New("wrong passphrase or corrupted backup")

// EncryptionConfig holds the passphrase and key derivation cost.
type EncryptionConfig struct {
	Passphrase string

	Argon2Time    uint32
	Argon2Memory  uint32 // KiB
	Argon2Threads uint8
}

// DefaultEncryptionConfig returns encryption config with the standard key derivation cost.
func DefaultEncryptionConfig(passphrase string) *EncryptionConfig {
	return &EncryptionConfig{
		Passphrase:    passphrase,
		Argon2Time:    defaultArgon2Time,
		Argon2Memory:  defaultArgon2Memory,
		Argon2Threads: defaultArgon2Threads,
	}
}

func (c *EncryptionConfig) key(salt []byte) []byte {
	return argon2.IDKey([]byte(c.Passphrase), salt, c.Argon2Time, c.Argon2Memory, c.Argon2Threads, argon2KeyLen)
}

func (c *EncryptionConfig) gcm(salt []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key(salt))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext with AES-256-GCM under a key derived from the passphrase.
// The output is header || salt || nonce || ciphertext; the header is authenticated.
func Seal(plaintext []byte, config *EncryptionConfig) ([]byte, error) {
	if config == nil || config.Passphrase == "" {
		return nil, errors.New("encryption passphrase required")
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	aead, err := config.gcm(salt)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := make([]byte, 0, len(EncryptionMagicHeader)+saltLength+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, EncryptionMagicHeader...)
	out = append(out, salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, []byte(EncryptionMagicHeader)), nil
}

// Unseal reverses Seal.
func Unseal(sealed []byte, config *EncryptionConfig) ([]byte, error) {
	if config == nil || config.Passphrase == "" {
		return nil, errors.New("encryption passphrase required")
	}
	if !bytes.HasPrefix(sealed, []byte(EncryptionMagicHeader)) {
		return nil, errors.New("data is not an encrypted backup")
	}
	rest := sealed[len(EncryptionMagicHeader):]
	if len(rest) < saltLength {
		return nil, ErrWrongPassphrase
	}
	salt, rest := rest[:saltLength], rest[saltLength:]

	aead, err := config.gcm(salt)
	if err != nil {
		return nil, err
	}
	if len(rest) < aead.NonceSize()+aead.Overhead() {
		return nil, ErrWrongPassphrase
	}
	nonce, ciphertext := rest[:aead.NonceSize()], rest[aead.NonceSize():]

	plaintext, err := aead.Open(nil, nonce, ciphertext, []byte(EncryptionMagicHeader))
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return plaintext, nil
}

// EncryptFile encrypts sourcePath into destPath.
func EncryptFile(sourcePath, destPath string, config *EncryptionConfig) error {
	plaintext, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to read source file: %w", err)
	}
	sealed, err := Seal(plaintext, config)
	if err != nil {
		return err
	}
	if err := os.WriteFile(destPath, sealed, 0o600); err != nil {
		return fmt.Errorf("failed to write encrypted file: %w", err)
	}
	return nil
}

// DecryptFile decrypts sourcePath into destPath.
func DecryptFile(sourcePath, destPath string, config *EncryptionConfig) error {
	sealed, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to read encrypted file: %w", err)
	}
	plaintext, err := Unseal(sealed, config)
	if err != nil {
		return err
	}
	if err := os.WriteFile(destPath, plaintext, 0o600); err != nil {
		return fmt.Errorf("failed to write decrypted file: %w", err)
	}
	return nil
}

// IsEncrypted reports whether the file starts with the encrypted backup header.
func IsEncrypted(filePath string) (bool, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return false, err
	}
	defer func() { _ = f.Close() }()

	header := make([]byte, len(EncryptionMagicHeader))
	n, _ := f.Read(header)
	return n == len(header) && string(header) == EncryptionMagicHeader, nil
}
