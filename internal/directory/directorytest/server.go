// Package directorytest provides a fake Slack users API for tests.
package directorytest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// Entry describes one directory user keyed by email.
type Entry struct {
	ID         string
	StatusText string
	// ProfileError makes users.profile.get answer ok:false with this code.
	ProfileError string
	// NoProfile makes users.profile.get answer ok:true without a profile.
	NoProfile bool
}

// Server is an httptest server answering users.lookupByEmail and
// users.profile.get.
type Server struct {
	*httptest.Server
	Token string

	byEmail  map[string]Entry
	byID     map[string]Entry
	lookups  atomic.Int64
	profiles atomic.Int64
}

// NewServer starts a fake Slack API that accepts token. The server is closed on
// test cleanup.
func NewServer(t testing.TB, token string, entries map[string]Entry) *Server {
	t.Helper()
	s := &Server{
		Token:   token,
		byEmail: make(map[string]Entry, len(entries)),
		byID:    make(map[string]Entry, len(entries)),
	}
	for email, e := range entries {
		s.byEmail[email] = e
		s.byID[e.ID] = e
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/users.lookupByEmail", s.handleLookup)
	mux.HandleFunc("/users.profile.get", s.handleProfile)
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

// Lookups returns how many users.lookupByEmail calls were served.
func (s *Server) Lookups() int { return int(s.lookups.Load()) }

// Profiles returns how many users.profile.get calls were served.
func (s *Server) Profiles() int { return int(s.profiles.Load()) }

func (s *Server) authorized(r *http.Request) bool {
	if r.Header.Get("Authorization") == "Bearer "+s.Token {
		return true
	}
	return r.FormValue("token") == s.Token
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	s.lookups.Add(1)
	if !s.authorized(r) {
		writeJSON(w, map[string]any{"ok": false, "error": "invalid_auth"})
		return
	}
	e, ok := s.byEmail[r.FormValue("email")]
	if !ok {
		writeJSON(w, map[string]any{"ok": false, "error": "users_not_found"})
		return
	}
	writeJSON(w, map[string]any{
		"ok":   true,
		"user": map[string]any{"id": e.ID, "profile": map[string]any{"status_text": e.StatusText}},
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.profiles.Add(1)
	if !s.authorized(r) {
		writeJSON(w, map[string]any{"ok": false, "error": "invalid_auth"})
		return
	}
	e, ok := s.byID[r.FormValue("user")]
	switch {
	case !ok:
		writeJSON(w, map[string]any{"ok": false, "error": "user_not_found"})
	case e.ProfileError != "":
		writeJSON(w, map[string]any{"ok": false, "error": e.ProfileError})
	case e.NoProfile:
		writeJSON(w, map[string]any{"ok": true})
	default:
		writeJSON(w, map[string]any{"ok": true, "profile": map[string]any{"status_text": e.StatusText}})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
