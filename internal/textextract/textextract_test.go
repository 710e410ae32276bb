package textextract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPlainText(t *testing.T) {
	text, err := PlainText{}.ExtractText(context.Background(), []byte("  bill text\n"), "text/plain")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if text != "bill text" {
		t.Errorf("text = %q", text)
	}
}

func TestPlainText_Empty(t *testing.T) {
	if _, err := (PlainText{}).ExtractText(context.Background(), []byte("   \n"), "text/plain"); !errors.Is(err, ErrNoText) {
		t.Errorf("err = %v, want ErrNoText", err)
	}
}

func TestPlainText_WrongType(t *testing.T) {
	if _, err := (PlainText{}).ExtractText(context.Background(), []byte("x"), "application/pdf"); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("err = %v, want ErrUnsupportedType", err)
	}
}

func TestRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/pdf" {
			t.Errorf("Content-Type = %q", ct)
		}
		w.Write([]byte("extracted text\n"))
	}))
	defer srv.Close()

	text, err := NewRemote(srv.URL).ExtractText(context.Background(), []byte{0x25, 0x50}, "application/pdf")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if text != "extracted text" {
		t.Errorf("text = %q", text)
	}
}

func TestRemote_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	if _, err := NewRemote(srv.URL).ExtractText(context.Background(), []byte("x"), "image/png"); !errors.Is(err, ErrNoText) {
		t.Errorf("err = %v, want ErrNoText", err)
	}
}

func TestAuto_NoBackend(t *testing.T) {
	if _, err := (Auto{}).ExtractText(context.Background(), []byte("x"), "image/png"); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("err = %v, want ErrUnsupportedType", err)
	}
}
