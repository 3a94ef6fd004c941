// Package fakeapi is an in-memory backend serving the auth, feed, like and
// workflow endpoints. Tests drive token expiry and failures through it and
// read the call counters afterwards.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

const (
	DefaultLoginPath   = "/auth/login"
	DefaultRefreshPath = "/token/refresh"
	defaultPageSize    = 10
)

type Post struct {
	ID       int64
	Title    string
	Category string
	Liked    bool
	Likes    int64
}

type Event struct {
	Status string
	At     time.Time
	Note   string
}

type Record struct {
	ID      string
	Status  string
	History []Event
	Fields  map[string]any
}

// Stats is a snapshot of what the server has seen.
type Stats struct {
	Logins       int
	Refreshes    int
	Unauthorized int
	Requests     int
	RequestIDs   []string
}

type Server struct {
	mu sync.Mutex

	router       chi.Router
	users        map[string]string
	access       map[string]bool
	refresh      map[string]bool
	tokenSeq     int
	rotate       bool
	refreshGate  chan struct{}
	refreshDelay time.Duration
	likeFailures []int

	posts   map[string][]*Post
	records map[string]map[string]*Record
	nextRec int

	stats Stats
}

func New() *Server {
	s := &Server{
		users:   make(map[string]string),
		access:  make(map[string]bool),
		refresh: make(map[string]bool),
		posts:   make(map[string][]*Post),
		records: make(map[string]map[string]*Record),
		nextRec: 1000,
	}
	s.router = s.routes(DefaultLoginPath, DefaultRefreshPath)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes(loginPath, refreshPath string) chi.Router {
	r := chi.NewRouter()
	r.Use(s.countRequests)

	r.Post(loginPath, s.handleLogin)
	r.Post(refreshPath, s.handleRefresh)

	r.Group(func(r chi.Router) {
		r.Use(s.bearerAuth)
		r.Get("/{resource}/", s.handleList)
		r.Post("/{resource}/", s.handleCreate)
		r.Get("/{resource}/{id}/", s.handleGet)
		r.Post("/{resource}/{id}/like-toggle/", s.handleLikeToggle)
	})
	return r
}

func (s *Server) AddUser(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = password
}

// SeedPosts adds n posts to resource. Odd ids land in category "even" / "odd"
// by parity so filters have something to match.
func (s *Server) SeedPosts(resource string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	base := int64(len(s.posts[resource]))
	for i := int64(1); i <= int64(n); i++ {
		id := base + i
		category := "odd"
		if id%2 == 0 {
			category = "even"
		}
		s.posts[resource] = append(s.posts[resource], &Post{
			ID:       id,
			Title:    fmt.Sprintf("post %d", id),
			Category: category,
			Likes:    id,
		})
	}
}

func (s *Server) Post(resource string, id int64) (Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, post := range s.posts[resource] {
		if post.ID == id {
			return *post, true
		}
	}
	return Post{}, false
}

func (s *Server) SeedRecord(resource string, record Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records[resource] == nil {
		s.records[resource] = make(map[string]*Record)
	}
	clone := record
	s.records[resource][record.ID] = &clone
}

// ExpireAccessTokens invalidates every issued access token. Refresh tokens stay valid.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = make(map[string]bool)
}

// RevokeRefreshTokens makes every refresh call fail with 401.
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh = make(map[string]bool)
}

func (s *Server) SetRotateRefresh(rotate bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rotate = rotate
}

// HoldRefresh blocks refresh calls until the returned release func runs.
func (s *Server) HoldRefresh() (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.refreshGate = gate
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.refreshGate == gate {
				s.refreshGate = nil
			}
			s.mu.Unlock()
			close(gate)
		})
	}
}

// FailNextLikes makes the next like-toggle calls answer with the given statuses.
func (s *Server) FailNextLikes(statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.likeFailures = append(s.likeFailures, statuses...)
}

func (s *Server) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := s.stats
	stats.RequestIDs = append([]string(nil), s.stats.RequestIDs...)
	return stats
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.stats.Requests++
		if id := r.Header.Get("X-Request-ID"); id != "" {
			s.stats.RequestIDs = append(s.stats.RequestIDs, id)
		}
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) bearerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		valid := ok && s.access[token]
		if !valid {
			s.stats.Unauthorized++
		}
		s.mu.Unlock()

		if !valid {
			writeError(w, http.StatusUnauthorized, "Given token not valid for any token type")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Logins++
	password, ok := s.users[req.Username]
	if !ok || password != req.Password {
		writeError(w, http.StatusUnauthorized, "No active account found with the given credentials")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access":  s.issueAccessLocked(),
		"refresh": s.issueRefreshLocked(),
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	s.stats.Refreshes++
	gate := s.refreshGate
	s.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.refresh[req.Refresh] {
		writeError(w, http.StatusUnauthorized, "Token is invalid or expired")
		return
	}

	resp := map[string]string{"access": s.issueAccessLocked()}
	if s.rotate {
		delete(s.refresh, req.Refresh)
		resp["refresh"] = s.issueRefreshLocked()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	resource := chi.URLParam(r, "resource")
	query := r.URL.Query()

	page, err := positiveInt(query.Get("page"), 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid page")
		return
	}
	pageSize, err := positiveInt(query.Get("page_size"), defaultPageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid page_size")
		return
	}
	category := query.Get("category")
	search := strings.ToLower(query.Get("search"))

	s.mu.Lock()
	matched := make([]Post, 0)
	for _, post := range s.posts[resource] {
		if category != "" && post.Category != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(post.Title), search) {
			continue
		}
		matched = append(matched, *post)
	}
	s.mu.Unlock()

	start := (page - 1) * pageSize
	if start > len(matched) {
		writeError(w, http.StatusNotFound, "Invalid page.")
		return
	}
	end := min(start+pageSize, len(matched))

	results := make([]map[string]any, 0, end-start)
	for _, post := range matched[start:end] {
		results = append(results, map[string]any{
			"id":          post.ID,
			"title":       post.Title,
			"category":    post.Category,
			"is_liked":    post.Liked,
			"likes_count": post.Likes,
		})
	}

	var next *string
	if end < len(matched) {
		link := nextLink(r, page+1)
		next = &link
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(matched),
		"next":    next,
		"results": results,
	})
}

func (s *Server) handleLikeToggle(w http.ResponseWriter, r *http.Request) {
	resource := chi.URLParam(r, "resource")
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.likeFailures) > 0 {
		status := s.likeFailures[0]
		s.likeFailures = s.likeFailures[1:]
		writeError(w, status, http.StatusText(status))
		return
	}

	for _, post := range s.posts[resource] {
		if post.ID != id {
			continue
		}
		post.Liked = !post.Liked
		message := "Unliked"
		if post.Liked {
			post.Likes++
			message = "Liked"
		} else if post.Likes > 0 {
			post.Likes--
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": message})
		return
	}
	writeError(w, http.StatusNotFound, "Not found.")
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	resource := chi.URLParam(r, "resource")
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	record, ok := s.records[resource][id]
	var body map[string]any
	if ok {
		body = recordBody(record)
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "Not found.")
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	resource := chi.URLParam(r, "resource")
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(fields) == 0 {
		writeError(w, http.StatusBadRequest, "request body is empty")
		return
	}

	s.mu.Lock()
	s.nextRec++
	record := &Record{
		ID:      strconv.Itoa(s.nextRec),
		Status:  "Pending",
		History: []Event{{Status: "Pending", At: time.Now().UTC().Truncate(time.Second), Note: "created"}},
		Fields:  fields,
	}
	if s.records[resource] == nil {
		s.records[resource] = make(map[string]*Record)
	}
	s.records[resource][record.ID] = record
	body := recordBody(record)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, body)
}

func (s *Server) issueAccessLocked() string {
	s.tokenSeq++
	token := fmt.Sprintf("access-%d", s.tokenSeq)
	s.access[token] = true
	return token
}

func (s *Server) issueRefreshLocked() string {
	s.tokenSeq++
	token := fmt.Sprintf("refresh-%d", s.tokenSeq)
	s.refresh[token] = true
	return token
}

func recordBody(record *Record) map[string]any {
	body := make(map[string]any, len(record.Fields)+3)
	keys := make([]string, 0, len(record.Fields))
	for key := range record.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		body[key] = record.Fields[key]
	}

	history := make([]map[string]any, 0, len(record.History))
	for _, event := range record.History {
		history = append(history, map[string]any{
			"status": event.Status,
			"at":     event.At.Format(time.RFC3339),
			"note":   event.Note,
		})
	}
	body["id"] = record.ID
	body["status"] = record.Status
	body["history"] = history
	return body
}

func nextLink(r *http.Request, page int) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	query := r.URL.Query()
	query.Set("page", strconv.Itoa(page))
	link := url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path, RawQuery: query.Encode()}
	return link.String()
}

func positiveInt(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("invalid positive integer %q", raw)
	}
	return value, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
