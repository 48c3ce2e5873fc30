package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
)

// ErrTooLarge is returned when an upload exceeds the configured limit.
var ErrTooLarge = errors.New("file too large")

// DataURI encodes content as an RFC 2397 data URI.
func DataURI(contentType string, content []byte) string {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(content)
}

// InlineUploader keeps files inside the record as data URIs. It is used when
// no bucket is configured.
type InlineUploader struct {
	MaxBytes int64
}

func (u InlineUploader) Upload(_ context.Context, obj Object, r io.Reader) (string, error) {
	limit := u.MaxBytes
	if limit <= 0 {
		limit = 5 << 20
	}
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(b)) > limit {
		return "", ErrTooLarge
	}
	return DataURI(obj.ContentType, b), nil
}
