package rag

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gyeh/billaudit/internal/model"
)

func TestBuildQuery(t *testing.T) {
	flags := []model.ValidationFlag{
		{Message: "first finding"},
		{Message: "second finding"},
	}
	if got := BuildQuery(flags); got != "first finding second finding" {
		t.Errorf("BuildQuery = %q", got)
	}
	if got := BuildQuery(nil); got != "" {
		t.Errorf("BuildQuery(nil) = %q, want empty", got)
	}
}

func TestHTTPRetriever(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req retrieveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Query != "duplicate charge" || req.K != 2 {
			t.Errorf("request = %+v", req)
		}
		json.NewEncoder(w).Encode([]model.Evidence{
			{Content: "passage one", Source: "CMS-001", Score: 0.8},
			{Content: "passage two", Source: "CMS-002", Score: 1.7}, // clamped
		})
	}))
	defer srv.Close()

	r := NewHTTPRetriever(srv.URL)
	evidence, err := r.Retrieve(context.Background(), "duplicate charge", 2)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(evidence) != 2 {
		t.Fatalf("got %d passages, want 2", len(evidence))
	}
	if evidence[0].Source != "CMS-001" || evidence[0].Score != 0.8 {
		t.Errorf("evidence[0] = %+v", evidence[0])
	}
	if evidence[1].Score != 1.0 {
		t.Errorf("score not clamped: %v", evidence[1].Score)
	}
}

func TestHTTPRetriever_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewHTTPRetriever(srv.URL).Retrieve(context.Background(), "q", 2); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestNoop(t *testing.T) {
	evidence, err := Noop{}.Retrieve(context.Background(), "anything", 2)
	if err != nil || evidence != nil {
		t.Errorf("Noop.Retrieve = %v, %v; want nil, nil", evidence, err)
	}
}
