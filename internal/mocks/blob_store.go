package mocks

import (
	"context"
	"fmt"
	"path"
	"sync"

	"cscportal/api/internal/models"
	"cscportal/api/internal/storage"
)

// BlobStore keeps stored objects in memory and records deletions.
type BlobStore struct {
	Failures
	mu      sync.Mutex
	seq     int
	Objects map[string]storage.Object
	Deleted []string
}

func NewBlobStore() *BlobStore {
	return &BlobStore{Objects: make(map[string]storage.Object)}
}

func (b *BlobStore) Store(ctx context.Context, obj storage.Object) (models.ImageRef, error) {
	if err := b.check("Store"); err != nil {
		return models.ImageRef{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	key := path.Join("csc", obj.Folder, fmt.Sprintf("blob%d.%s", b.seq, obj.Extension))
	b.Objects[key] = obj
	return models.ImageRef{URL: "https://cdn.test/" + key, PublicID: key}, nil
}

func (b *BlobStore) Delete(ctx context.Context, publicID string) error {
	if err := b.check("Delete"); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.Objects, publicID)
	b.Deleted = append(b.Deleted, publicID)
	return nil
}

func (b *BlobStore) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.Objects)
}
