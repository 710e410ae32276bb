// Package textextract is the contract with the text-source collaborator
// (OCR or direct text extraction). The backend is a black box that turns
// document bytes into one non-empty text block; empty output is rejected
// here so the assembler's precondition always holds.
package textextract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNoText is returned when a document yields no text at all.
var ErrNoText = errors.New("textextract: no text could be extracted from the document")

// ErrUnsupportedType is returned for content types the source cannot handle.
var ErrUnsupportedType = errors.New("textextract: unsupported content type")

// Source extracts raw text from document bytes.
type Source interface {
	ExtractText(ctx context.Context, content []byte, contentType string) (string, error)
}

// PlainText handles text/plain uploads directly, with no OCR round trip.
type PlainText struct{}

func (PlainText) ExtractText(_ context.Context, content []byte, contentType string) (string, error) {
	if contentType != "text/plain" {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	text := strings.TrimSpace(string(content))
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// Remote sends document bytes to an OCR service and returns its text.
type Remote struct {
	client *http.Client
	url    string
}

// NewRemote builds a Remote source against the given OCR endpoint.
func NewRemote(url string) *Remote {
	return &Remote{
		client: &http.Client{Timeout: 60 * time.Second},
		url:    url,
	}
}

func (r *Remote) ExtractText(ctx context.Context, content []byte, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("build ocr request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read ocr response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("ocr service returned status %d", resp.StatusCode)
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// Auto routes text/plain to the plain source and everything else to the
// remote OCR source when one is configured.
type Auto struct {
	Plain  PlainText
	Remote *Remote
}

func (a Auto) ExtractText(ctx context.Context, content []byte, contentType string) (string, error) {
	if contentType == "text/plain" {
		return a.Plain.ExtractText(ctx, content, contentType)
	}
	if a.Remote == nil {
		return "", fmt.Errorf("%w: %s (no OCR backend configured)", ErrUnsupportedType, contentType)
	}
	return a.Remote.ExtractText(ctx, content, contentType)
}
