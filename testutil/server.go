package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

// Response is a canned reply for one method and path.
type Response struct {
	Status int

	// Body is written verbatim when it is a string or []byte, and
	// JSON-encoded otherwise. Nil writes no body.
	Body any
}

// Request is a request the server received.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header

	// RawBody is the request body as sent.
	RawBody []byte

	// Body is RawBody decoded as a JSON object, or nil.
	Body map[string]any
}

// Server is a fake Juncture API. Routes are matched on method and path;
// unmatched requests get a 404 with an "error" payload.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]Response
	requests []Request
}

// NewServer starts a fake server that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{routes: make(map[string]Response)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)

	return s
}

// Handle registers a canned response for method and path, replacing any
// earlier one.
func (s *Server) Handle(method, path string, status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method+" "+path] = Response{Status: status, Body: body}
}

// JSON registers a 200 response with body.
func (s *Server) JSON(method, path string, body any) {
	s.Handle(method, path, http.StatusOK, body)
}

// Requests returns a copy of the requests received so far, in order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request. It fails the test when no
// request has been received.
func (s *Server) LastRequest(t testing.TB) Request {
	t.Helper()

	reqs := s.Requests()
	if len(reqs) == 0 {
		t.Fatal("no request received")
	}
	return reqs[len(reqs)-1]
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	rec := Request{
		Method:  r.Method,
		Path:    r.URL.Path,
		Query:   r.URL.Query(),
		Header:  r.Header.Clone(),
		RawBody: raw,
	}
	var body map[string]any
	if json.Unmarshal(raw, &body) == nil {
		rec.Body = body
	}

	s.mu.Lock()
	s.requests = append(s.requests, rec)
	resp, ok := s.routes[r.Method+" "+r.URL.Path]
	s.mu.Unlock()

	if !ok {
		resp = Response{
			Status: http.StatusNotFound,
			Body:   map[string]any{"error": "no route for " + r.Method + " " + r.URL.Path},
		}
	}
	if resp.Status == 0 {
		resp.Status = http.StatusOK
	}

	var payload []byte
	switch b := resp.Body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	case []byte:
		payload = b
	default:
		data, err := json.Marshal(b)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		payload = data
	}

	if len(payload) > 0 {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(resp.Status)
	_, _ = w.Write(payload)
}
