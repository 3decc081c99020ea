// Package media stores user uploaded files (avatars, covers, videos,
// thumbnails) in S3-compatible object storage.
package media

import (
	"context"
	"io"
)

// Object describes a stored file. FileID is the storage key needed to delete it later.
type Object struct {
	URL    string
	FileID string
}

type Uploader interface {
	// Upload stores the file and returns its public URL and storage key.
	// An empty URL is never returned: failures surface as errors.
	Upload(ctx context.Context, r io.Reader, filename string, contentType string) (Object, error)

	// Delete removes a previously uploaded file. Deleting an unknown key is not an error.
	Delete(ctx context.Context, fileID string) error
}
