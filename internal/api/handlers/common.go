package handlers

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hirehub/jobportal/internal/services"
	"github.com/hirehub/jobportal/internal/utils"
)

// respond writes the success envelope: message, success and the payload keys.
func respond(c *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{"message": message, "success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)

	var ae *utils.AppError
	if errors.As(err, &ae) && status < http.StatusInternalServerError {
		c.JSON(status, gin.H{"code": ae.Code, "message": ae.Message, "success": false})
		return
	}

	// the request logger reports the wrapped chain; callers only see a generic message
	_ = c.Error(err)
	code := utils.CodeInternal
	msg := "Internal server error"
	if ae != nil {
		code = ae.Code
		if status == http.StatusServiceUnavailable && ae.Message != "" {
			msg = ae.Message
		}
	}
	c.JSON(status, gin.H{"code": code, "message": msg, "success": false})
}

func requireUserID(c *gin.Context) (string, bool) {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "User not authenticated", nil))
	return "", false
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// formFile reads an optional multipart file. It returns nil when the field
// is absent. The content type is sniffed from the first 512 bytes.
func formFile(c *gin.Context, op, field string, maxBytes int64) (*services.FileUpload, func(), error) {
	noop := func() {}
	if !isMultipart(c) {
		return nil, noop, nil
	}
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, noop, nil
		}
		return nil, noop, utils.E(utils.CodeInvalidArgument, op, "invalid multipart field '"+field+"'", err)
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return nil, noop, utils.E(utils.CodeInvalidArgument, op, "file too large", nil)
	}
	return openUpload(op, fh)
}

func openUpload(op string, fh *multipart.FileHeader) (*services.FileUpload, func(), error) {
	file, err := fh.Open()
	if err != nil {
		return nil, func() {}, utils.E(utils.CodeInternal, op, "failed to open upload", err)
	}

	head := make([]byte, 512)
	n, _ := io.ReadFull(file, head)
	head = head[:n]

	return &services.FileUpload{
		FileName:    fh.Filename,
		ContentType: http.DetectContentType(head),
		Size:        fh.Size,
		Body:        io.MultiReader(bytes.NewReader(head), file),
	}, func() { _ = file.Close() }, nil
}

func optional(v string) *string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}
