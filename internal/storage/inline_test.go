package storage

import (
	"context"
	"strings"
	"testing"
)

func TestDataURI(t *testing.T) {
	got := DataURI("image/png", []byte("hi"))
	if got != "data:image/png;base64,aGk=" {
		t.Fatalf("DataURI() = %q", got)
	}
	if got := DataURI("", nil); got != "data:application/octet-stream;base64," {
		t.Fatalf("DataURI() default type = %q", got)
	}
}

func TestInlineUploader(t *testing.T) {
	u := InlineUploader{MaxBytes: 4}

	url, err := u.Upload(context.Background(), Object{Name: "logos/x.png", ContentType: "image/png"}, strings.NewReader("abcd"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Fatalf("unexpected url %q", url)
	}

	if _, err := u.Upload(context.Background(), Object{Name: "logos/y.png", ContentType: "image/png"}, strings.NewReader("abcde")); err != ErrTooLarge {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}
