package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"cscportal/api/internal/media/sniffer"
	"cscportal/api/internal/models"
	"cscportal/api/internal/storage"
)

// File is one part of a multipart request.
type File struct {
	Name     string
	Declared string
	Data     []byte
}

// sniff checks the content of f against allowed and returns an object ready
// for the blob store. Declared MIME types are ignored in favour of the bytes.
func sniff(f File, folder string, allowed []sniffer.MediaType) (storage.Object, sniffer.Result, bool) {
	head := f.Data
	if len(head) > 512 {
		head = head[:512]
	}
	result, err := sniffer.DetectHead(head, f.Name)
	if err != nil || !result.Allowed(allowed) {
		return storage.Object{}, sniffer.Result{}, false
	}
	return storage.Object{
		Folder:      folder,
		FileName:    f.Name,
		ContentType: result.MIME,
		Extension:   result.Extension(),
		Data:        f.Data,
	}, result, true
}

func allowedList(types []sniffer.MediaType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// release deletes a blob that is no longer referenced. Failures are logged
// and never returned.
func release(ctx context.Context, blobs BlobStore, log zerolog.Logger, ref models.ImageRef) {
	if ref.PublicID == "" {
		return
	}
	if err := blobs.Delete(ctx, ref.PublicID); err != nil {
		log.Warn().Err(err).Str("public_id", ref.PublicID).Msg("release blob failed")
	}
}
