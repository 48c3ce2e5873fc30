package storage

import (
	"context"
	"io"
)

// Object describes a file to store.
type Object struct {
	Name        string
	ContentType string

	// DownloadName, when set, makes the file download under this name
	// instead of rendering inline. Resumes keep their original file name.
	DownloadName string
}

// Uploader stores a file and returns the URL that is persisted on the record.
type Uploader interface {
	Upload(ctx context.Context, obj Object, r io.Reader) (url string, err error)
}
