// Package apitest provides an in-memory fake of the entity API for tests.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Document is a document the fake accepted.
type Document struct {
	ClientID string `json:"clientId"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

// Client is a client the fake accepted.
type Client struct {
	ID                 string `json:"id"`
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Email              string `json:"email"`
	CountryOfResidence string `json:"countryOfResidence"`
}

// Server records created clients and documents. Failure hooks let a test make
// the Nth call to an endpoint return an error status.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	clients    []Client
	documents  []Document
	headers    []http.Header
	clientHits int
	docHits    int

	// FailClientAt makes the Nth client call (1-based) respond with FailStatus.
	FailClientAt int
	// FailDocumentAt makes the Nth document call (1-based) respond with FailStatus.
	FailDocumentAt int
	FailStatus     int
	// IDField names the field the client id is returned in ("id" by default).
	IDField string
	// OmitID drops the id from client responses.
	OmitID bool
}

// NewServer starts a fake that is closed when the test ends.
func NewServer(t *testing.T) *Server {
	t.Helper()
	s := &Server{FailStatus: http.StatusInternalServerError, IDField: "id"}
	r := chi.NewRouter()
	r.Post("/clients", s.createClient)
	r.Post("/clients/{clientID}/documents", s.createDocument)
	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

func (s *Server) createClient(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clientHits++
	s.headers = append(s.headers, r.Header.Clone())

	if s.clientHits == s.FailClientAt {
		http.Error(w, `{"error":"boom"}`, s.FailStatus)
		return
	}
	var c Client
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	c.ID = fmt.Sprintf("c-%d", len(s.clients)+1)
	s.clients = append(s.clients, c)

	body := map[string]any{"email": c.Email}
	if !s.OmitID {
		body[s.IDField] = c.ID
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(body)
}

func (s *Server) createDocument(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docHits++
	s.headers = append(s.headers, r.Header.Clone())

	if s.docHits == s.FailDocumentAt {
		http.Error(w, `{"error":"document rejected"}`, s.FailStatus)
		return
	}
	var d Document
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if d.ClientID != chi.URLParam(r, "clientID") {
		http.Error(w, "clientId mismatch", http.StatusBadRequest)
		return
	}
	s.documents = append(s.documents, d)
	w.WriteHeader(http.StatusCreated)
	w.Write([]byte(`{"id":"d"}`))
}

// Clients returns the accepted clients.
func (s *Server) Clients() []Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Client(nil), s.clients...)
}

// Documents returns the accepted documents.
func (s *Server) Documents() []Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Document(nil), s.documents...)
}

// Headers returns the headers of every request received.
func (s *Server) Headers() []http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]http.Header(nil), s.headers...)
}

// Hits returns the total number of requests received.
func (s *Server) Hits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clientHits + s.docHits
}
