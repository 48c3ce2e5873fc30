package storage

import (
	"context"
	"io"
	"mime"
	"net/url"
	"path"

	gcs "cloud.google.com/go/storage"
)

type GCSUploader struct {
	client   *gcs.Client
	bucket   string
	maxBytes int64
}

// NewGCSUploader uses application default credentials. maxBytes <= 0 leaves
// uploads unbounded.
func NewGCSUploader(ctx context.Context, bucket string, maxBytes int64) (*GCSUploader, error) {
	c, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCSUploader{client: c, bucket: bucket, maxBytes: maxBytes}, nil
}

func (u *GCSUploader) Close() error { return u.client.Close() }

// Upload writes the object, makes it publicly readable and returns its
// public URL. Logos, photos and resumes are linked directly by the client.
// An upload over the size limit is aborted and nothing is stored.
func (u *GCSUploader) Upload(ctx context.Context, o Object, r io.Reader) (string, error) {
	obj := u.client.Bucket(u.bucket).Object(o.Name)

	// cancelling the writer's context discards a partial upload
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := obj.NewWriter(wctx)
	w.ContentType = o.ContentType
	w.CacheControl = cacheControl(o)
	if d := contentDisposition(o.DownloadName); d != "" {
		w.ContentDisposition = d
		w.Metadata = map[string]string{"original-name": o.DownloadName}
	}

	src := r
	if u.maxBytes > 0 {
		src = io.LimitReader(r, u.maxBytes+1)
	}
	n, err := io.Copy(w, src)
	if err == nil && u.maxBytes > 0 && n > u.maxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		cancel()
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	if err := obj.ACL().Set(ctx, gcs.AllUsers, gcs.RoleReader); err != nil {
		return "", err
	}
	return publicURL(u.bucket, o.Name), nil
}

// contentDisposition returns an attachment header carrying name, or "" for
// inline content. Non-ASCII names are encoded per RFC 2231.
func contentDisposition(name string) string {
	name = path.Base(name)
	if name == "." || name == "/" {
		return ""
	}
	return mime.FormatMediaType("attachment", map[string]string{"filename": name})
}

// Images are immutable under their random names; downloads are revalidated
// since a user replaces their resume rather than renaming it.
func cacheControl(o Object) string {
	if o.DownloadName != "" {
		return "no-cache"
	}
	return "public, max-age=86400"
}

func publicURL(bucket, name string) string {
	u := url.URL{Scheme: "https", Host: "storage.googleapis.com", Path: "/" + bucket + "/" + name}
	return u.String()
}
