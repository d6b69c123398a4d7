package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNtfySenderPost(t *testing.T) {
	type captured struct {
		path     string
		title    string
		priority string
		body     string
		user     string
		pass     string
	}
	got := make(chan captured, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		user, pass, _ := r.BasicAuth()
		got <- captured{
			path:     r.URL.Path,
			title:    r.Header.Get("Title"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
			user:     user,
			pass:     pass,
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender, err := NewNtfySender(server.URL, "energy", WithNtfyAuth("operator", "secret"))
	if err != nil {
		t.Fatalf("new sender: %v", err)
	}
	if err := sender.Send(context.Background(), "Energy surplus", "120 W available"); err != nil {
		t.Fatalf("send: %v", err)
	}

	req := <-got
	if req.path != "/energy" {
		t.Fatalf("path = %q, want /energy", req.path)
	}
	if req.title != "Energy surplus" {
		t.Fatalf("title = %q", req.title)
	}
	if req.priority != "urgent" {
		t.Fatalf("priority = %q", req.priority)
	}
	if req.body != "120 W available" {
		t.Fatalf("body = %q", req.body)
	}
	if req.user != "operator" || req.pass != "secret" {
		t.Fatalf("auth = %q/%q", req.user, req.pass)
	}
}

func TestNtfySenderNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	sender, err := NewNtfySender(server.URL, "energy")
	if err != nil {
		t.Fatalf("new sender: %v", err)
	}
	if err := sender.Send(context.Background(), "t", "b"); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestNewNtfySenderValidation(t *testing.T) {
	if _, err := NewNtfySender("", "topic"); err == nil {
		t.Fatal("expected error for empty server")
	}
	if _, err := NewNtfySender("https://ntfy.sh", ""); err == nil {
		t.Fatal("expected error for empty topic")
	}
}
