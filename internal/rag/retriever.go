// Package rag talks to the external evidence-retrieval backend. The
// backend is a black box: one query string in, a small list of scored
// passages out.
package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gyeh/billaudit/internal/model"
)

// DefaultTopK is how many passages one retrieval returns at most.
const DefaultTopK = 2

// Retriever fetches scored evidence passages for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]model.Evidence, error)
}

// BuildQuery concatenates all flag messages into the single retrieval
// query. Retrieval runs once per batch of flags, not per finding.
func BuildQuery(flags []model.ValidationFlag) string {
	msgs := make([]string, len(flags))
	for i, f := range flags {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, " ")
}

// HTTPRetriever queries a remote retrieval service over JSON.
type HTTPRetriever struct {
	client *http.Client
	url    string
}

// NewHTTPRetriever builds a retriever against the given endpoint.
func NewHTTPRetriever(url string) *HTTPRetriever {
	return &HTTPRetriever{
		client: &http.Client{Timeout: 15 * time.Second},
		url:    url,
	}
}

type retrieveRequest struct {
	Query string `json:"query"`
	K     int    `json:"k"`
}

// Retrieve posts the query and decodes the scored passages. Scores
// outside [0,1] are clamped.
func (r *HTTPRetriever) Retrieve(ctx context.Context, query string, k int) ([]model.Evidence, error) {
	if k <= 0 {
		k = DefaultTopK
	}
	body, err := json.Marshal(retrieveRequest{Query: query, K: k})
	if err != nil {
		return nil, fmt.Errorf("encode retrieval request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build retrieval request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("retrieval request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read retrieval response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("retrieval service returned status %d", resp.StatusCode)
	}

	var evidence []model.Evidence
	if err := json.Unmarshal(raw, &evidence); err != nil {
		return nil, fmt.Errorf("decode retrieval response: %w", err)
	}
	for i := range evidence {
		if evidence[i].Score < 0 {
			evidence[i].Score = 0
		}
		if evidence[i].Score > 1 {
			evidence[i].Score = 1
		}
	}
	if len(evidence) > k {
		evidence = evidence[:k]
	}
	return evidence, nil
}

// Noop is a Retriever that never finds evidence; used when no retrieval
// backend is configured. Findings then keep their rule confidence as the
// dominant signal.
type Noop struct{}

func (Noop) Retrieve(context.Context, string, int) ([]model.Evidence, error) {
	return nil, nil
}
