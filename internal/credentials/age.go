package credentials

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"filippo.io/age"

	"tripsort/internal/trip"
)

// AgeCredentialStore keeps the grants file encrypted at rest using age's
// scrypt-based passphrase encryption. The whole document is re-encrypted
// on every save; a wrong passphrase surfaces as a decryption error, not
// as a missing grant.
type AgeCredentialStore struct {
	path       string
	passphrase string
}

// NewAgeCredentialStore creates a store backed by the encrypted file at
// path.
func NewAgeCredentialStore(path, passphrase string) (*AgeCredentialStore, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("age credential store requires a passphrase")
	}
	return &AgeCredentialStore{path: path, passphrase: passphrase}, nil
}

func (s *AgeCredentialStore) SaveHandle(projectID string, handle trip.Handle) error {
	handles, err := s.load()
	if err != nil {
		return err
	}
	handles[projectID] = handle
	return s.save(handles)
}

func (s *AgeCredentialStore) GetHandle(projectID string) (trip.Handle, error) {
	handles, err := s.load()
	if err != nil {
		return trip.Handle{}, err
	}
	handle, ok := handles[projectID]
	if !ok {
		return trip.Handle{}, trip.ErrHandleNotFound
	}
	return handle, nil
}

func (s *AgeCredentialStore) RemoveHandle(projectID string) error {
	handles, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := handles[projectID]; !ok {
		return nil
	}
	delete(handles, projectID)
	return s.save(handles)
}

func (s *AgeCredentialStore) load() (map[string]trip.Handle, error) {
	ciphertext, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]trip.Handle), nil
		}
		return nil, fmt.Errorf("reading grants file: %w", err)
	}

	identity, err := age.NewScryptIdentity(s.passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}
	decReader, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		return nil, fmt.Errorf("decrypting grants: %w", err)
	}
	data, err := io.ReadAll(decReader)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted grants: %w", err)
	}
	return decodeHandles(data)
}

func (s *AgeCredentialStore) save(handles map[string]trip.Handle) error {
	data, err := encodeHandles(handles)
	if err != nil {
		return err
	}

	recipient, err := age.NewScryptRecipient(s.passphrase)
	if err != nil {
		return fmt.Errorf("creating scrypt recipient: %w", err)
	}

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("encrypting grants: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizing encrypted grants: %w", err)
	}

	return writeFileAtomic(s.path, buf.Bytes(), 0600)
}

var _ trip.CredentialStore = (*AgeCredentialStore)(nil)
