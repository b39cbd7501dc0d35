package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dsmirnov/passvault/internal/client/api"
	"github.com/dsmirnov/passvault/internal/client/keystore"
	"github.com/dsmirnov/passvault/internal/common"
	"github.com/dsmirnov/passvault/internal/cryptox"
)

// Entry is a vault item with its password in the clear, as shown to the
// user. It only ever exists client-side.
type Entry struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title"`
	Password  string    `json:"password"`
	URL       string    `json:"url,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// VaultService encrypts entries before they leave the machine and decrypts
// them after fetching. Every operation needs the stored encryption key;
// without one it fails with common.ErrKeyNotAvailable rather than passing
// plaintext or ciphertext through silently.
type VaultService interface {
	Add(ctx context.Context, entry *Entry) (*Entry, error)
	List(ctx context.Context, search string) ([]*Entry, error)
	Get(ctx context.Context, id string) (*Entry, error)
	Update(ctx context.Context, entry *Entry) (*Entry, error)
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context, w io.Writer) error
	Import(ctx context.Context, r io.Reader) (int, error)
}

type vaultService struct {
	client api.Client
	keys   *keystore.Store
}

func NewVaultService(client api.Client, keys *keystore.Store) VaultService {
	return &vaultService{client: client, keys: keys}
}

func (v *vaultService) encryptionKey(ctx context.Context) ([]byte, error) {
	return v.keys.Get(ctx, keystore.KeyEncryptionKey)
}

func (v *vaultService) encrypt(entry *Entry, key []byte) (*api.Item, error) {
	ciphertext, err := cryptox.EncryptField(entry.Password, key)
	if err != nil {
		return nil, fmt.Errorf("encryption error: %w", err)
	}
	return &api.Item{
		ID:       entry.ID,
		Title:    entry.Title,
		Password: ciphertext,
		URL:      entry.URL,
		Notes:    entry.Notes,
		Tags:     entry.Tags,
	}, nil
}

func (v *vaultService) decrypt(item *api.Item, key []byte) (*Entry, error) {
	plaintext, err := cryptox.DecryptField(item.Password, key)
	if err != nil {
		return nil, fmt.Errorf("decryption error: %w", err)
	}
	return &Entry{
		ID:        item.ID,
		Title:     item.Title,
		Password:  plaintext,
		URL:       item.URL,
		Notes:     item.Notes,
		Tags:      item.Tags,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}, nil
}

func (v *vaultService) Add(ctx context.Context, entry *Entry) (*Entry, error) {
	key, err := v.encryptionKey(ctx)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	item, err := v.encrypt(entry, key)
	if err != nil {
		return nil, err
	}

	created, err := v.client.CreateItem(ctx, item)
	if err != nil {
		return nil, err
	}
	return v.decrypt(created, key)
}

func (v *vaultService) List(ctx context.Context, search string) ([]*Entry, error) {
	key, err := v.encryptionKey(ctx)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	items, err := v.client.ListItems(ctx, search)
	if err != nil {
		return nil, err
	}

	entries := make([]*Entry, 0, len(items))
	for _, item := range items {
		entry, err := v.decrypt(item, key)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (v *vaultService) Get(ctx context.Context, id string) (*Entry, error) {
	key, err := v.encryptionKey(ctx)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	item, err := v.client.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	return v.decrypt(item, key)
}

func (v *vaultService) Update(ctx context.Context, entry *Entry) (*Entry, error) {
	key, err := v.encryptionKey(ctx)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	item, err := v.encrypt(entry, key)
	if err != nil {
		return nil, err
	}

	updated, err := v.client.UpdateItem(ctx, item)
	if err != nil {
		return nil, err
	}
	return v.decrypt(updated, key)
}

func (v *vaultService) Delete(ctx context.Context, id string) error {
	if _, err := v.encryptionKey(ctx); err != nil {
		return err
	}
	return v.client.DeleteItem(ctx, id)
}

// Export writes all entries, passwords decrypted, as indented JSON. The
// output is plaintext: it is the user's responsibility to protect the file.
func (v *vaultService) Export(ctx context.Context, w io.Writer) error {
	entries, err := v.List(ctx, "")
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// Import reads entries in the Export format and creates them one by one,
// encrypting each. Returns the number of entries imported.
func (v *vaultService) Import(ctx context.Context, r io.Reader) (int, error) {
	var entries []*Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return 0, fmt.Errorf("import parsing error: %w", err)
	}

	for i, entry := range entries {
		entry.ID = ""
		if _, err := v.Add(ctx, entry); err != nil {
			return i, err
		}
	}
	return len(entries), nil
}
