package services

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/hirehub/jobportal/internal/storage"
	"github.com/hirehub/jobportal/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FileUpload is a file received from the client, ready to be stored.
type FileUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

func parseID(op, name, v string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(v))
	if err != nil {
		return primitive.NilObjectID, utils.E(utils.CodeInvalidArgument, op, "invalid "+name, err)
	}
	return id, nil
}

// lookupErr turns a repository read failure into a coded error.
func lookupErr(op, notFoundMsg string, err error) error {
	if errors.Is(err, utils.ErrNotFound) {
		return utils.E(utils.CodeNotFound, op, notFoundMsg, err)
	}
	return utils.E(utils.CodeInternal, op, "failed to load record", err)
}

// missingFields returns the names of the empty values, in argument order.
// Arguments alternate name, value.
func missingFields(pairs ...string) []string {
	var out []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			out = append(out, pairs[i])
		}
	}
	return out
}

// splitList splits a comma separated value, trimming items and dropping empties.
func splitList(v string) []string {
	out := []string{}
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// uploadFile stores f under folder with a random name. With download set the
// file is served as an attachment named after the uploaded file.
func uploadFile(ctx context.Context, op string, up storage.Uploader, folder string, f *FileUpload, download bool) (string, error) {
	if up == nil {
		return "", utils.E(utils.CodeInternal, op, "uploader is not configured", nil)
	}
	obj := storage.Object{
		Name:        folder + "/" + uuid.NewString() + strings.ToLower(filepath.Ext(f.FileName)),
		ContentType: f.ContentType,
	}
	if download {
		obj.DownloadName = f.FileName
	}

	url, err := up.Upload(ctx, obj, f.Body)
	if errors.Is(err, storage.ErrTooLarge) {
		return "", utils.E(utils.CodeInvalidArgument, op, "file too large", err)
	}
	if err != nil {
		return "", utils.E(utils.CodeUnavailable, op, "failed to upload file", err)
	}
	return url, nil
}
