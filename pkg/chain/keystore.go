package chain

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/blocto/solana-go-sdk/types"
)

// keystoreEntry is the on-disk form of one encrypted operator key.
type keystoreEntry struct {
	Address      string `json:"address"`
	EncryptedKey string `json:"encrypted_key"`
	Version      int    `json:"version"`
}

// OperatorKeystore holds the platform operator keypair on disk, encrypted
// with AES-256-GCM. The API process uses it to establish the authority
// identity for auto-initialization.
type OperatorKeystore struct {
	dir string
}

func NewOperatorKeystore(dir string) *OperatorKeystore {
	return &OperatorKeystore{dir: dir}
}

// LoadOrCreate returns the operator address, generating and persisting a new
// keypair on first use.
func (ks *OperatorKeystore) LoadOrCreate(name, password string) (string, error) {
	entry, err := ks.readEntry(name)
	if err == nil {
		// Decrypt to verify the password before trusting the address.
		if _, err := decryptKey(entry.EncryptedKey, password); err != nil {
			return "", fmt.Errorf("failed to unlock operator key: %w", err)
		}
		return entry.Address, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	account := types.NewAccount()
	encrypted, err := encryptKey(account.PrivateKey, password)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt operator key: %w", err)
	}
	entry = &keystoreEntry{
		Address:      account.PublicKey.ToBase58(),
		EncryptedKey: encrypted,
		Version:      1,
	}
	if err := ks.writeEntry(name, entry); err != nil {
		return "", err
	}
	return entry.Address, nil
}

// Unlock decrypts a stored key back into a usable account.
func (ks *OperatorKeystore) Unlock(name, password string) (*types.Account, error) {
	entry, err := ks.readEntry(name)
	if err != nil {
		return nil, err
	}
	privateKey, err := decryptKey(entry.EncryptedKey, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt operator key: %w", err)
	}
	account, err := types.AccountFromBytes(privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to restore account: %w", err)
	}
	if account.PublicKey.ToBase58() != entry.Address {
		return nil, fmt.Errorf("keystore address mismatch for %s", name)
	}
	return &account, nil
}

func (ks *OperatorKeystore) entryPath(name string) string {
	return filepath.Join(ks.dir, name+".json")
}

func (ks *OperatorKeystore) readEntry(name string) (*keystoreEntry, error) {
	data, err := os.ReadFile(ks.entryPath(name))
	if err != nil {
		return nil, err
	}
	var entry keystoreEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to parse keystore entry %s: %w", name, err)
	}
	return &entry, nil
}

func (ks *OperatorKeystore) writeEntry(name string, entry *keystoreEntry) error {
	if err := os.MkdirAll(ks.dir, 0700); err != nil {
		return fmt.Errorf("failed to create keystore directory: %w", err)
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal keystore entry: %w", err)
	}
	if err := os.WriteFile(ks.entryPath(name), data, 0600); err != nil {
		return fmt.Errorf("failed to write keystore entry: %w", err)
	}
	return nil
}

func encryptKey(privateKey []byte, password string) (string, error) {
	block, err := aes.NewCipher(deriveKey(password))
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	ciphertext := gcm.Seal(nonce, nonce, privateKey, nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func decryptKey(encrypted, password string) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(deriveKey(password))
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, ciphertext := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

func deriveKey(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return sum[:]
}
