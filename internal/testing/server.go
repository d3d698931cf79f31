package testing

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

// RecordedRequest is one request seen by a TestServer.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// TestServer is a fake batch service that records requests and answers with
// canned responses keyed by method and path. Unknown routes get 404.
type TestServer struct {
	*httptest.Server

	mu        sync.Mutex
	requests  []RecordedRequest
	responses map[string]cannedResponse
}

type cannedResponse struct {
	status int
	body   string
}

// CreateTestServer starts a TestServer.
// Automatically registers cleanup via t.Cleanup().
func CreateTestServer(t *testing.T) *TestServer {
	t.Helper()

	s := &TestServer{responses: make(map[string]cannedResponse)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Respond registers the response for method and path (path without query).
func (s *TestServer) Respond(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[method+" "+path] = cannedResponse{status: status, body: body}
}

// Requests returns a copy of everything received so far.
func (s *TestServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// LastRequest returns the most recent request; it fails the test if none arrived.
func (s *TestServer) LastRequest(t *testing.T) RecordedRequest {
	t.Helper()
	reqs := s.Requests()
	if len(reqs) == 0 {
		t.Fatal("test server received no requests")
	}
	return reqs[len(reqs)-1]
}

func (s *TestServer) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.EscapedPath(),
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})
	resp, ok := s.responses[r.Method+" "+r.URL.EscapedPath()]
	s.mu.Unlock()

	if !ok {
		http.Error(w, "no route", http.StatusNotFound)
		return
	}
	if resp.body != "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(resp.status)
	_, _ = io.WriteString(w, resp.body)
}
