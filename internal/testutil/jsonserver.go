// Package testutil provides test doubles shared across packages.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

// Quote is a quote as stored by the fake server.
type Quote struct {
	ID     int    `json:"id"`
	Quote  string `json:"quote"`
	Author string `json:"author"`
}

// Like is a like as stored by the fake server.
type Like struct {
	ID        int   `json:"id"`
	QuoteID   int   `json:"quoteId"`
	CreatedAt int64 `json:"createdAt"`
}

// Request is one request observed by the fake server.
type Request struct {
	Method string
	Path   string
	Query  string
	Body   string
}

// JSONServer is an in-memory stand-in for json-server v0 with numeric ids.
// It supports the subset of the REST surface quoteboard uses and can be told
// to fail specific routes.
type JSONServer struct {
	*httptest.Server

	mu       sync.Mutex
	quotes   []Quote
	likes    []Like
	nextID   int
	nextLike int
	requests []Request
	failures map[string]int
}

type quoteWithLikes struct {
	Quote
	Likes []Like `json:"likes"`
}

// NewJSONServer starts a fake store seeded with quotes. It is closed when
// the test ends.
func NewJSONServer(t testing.TB, seed ...Quote) *JSONServer {
	t.Helper()

	s := NewUnstartedJSONServer(seed...)
	s.Start()
	t.Cleanup(s.Close)

	return s
}

// NewUnstartedJSONServer builds a fake store without starting it. Callers
// own Start and Close.
func NewUnstartedJSONServer(seed ...Quote) *JSONServer {
	gin.SetMode(gin.TestMode)

	s := &JSONServer{failures: make(map[string]int)}
	for _, q := range seed {
		s.insertQuote(q)
	}

	engine := gin.New()
	engine.Use(s.record, s.inject)
	engine.GET("/quotes", s.listQuotes)
	engine.POST("/quotes", s.createQuote)
	engine.PATCH("/quotes/:id", s.patchQuote)
	engine.DELETE("/quotes/:id", s.deleteQuote)
	engine.GET("/likes", s.listLikes)
	engine.POST("/likes", s.createLike)

	s.Server = httptest.NewUnstartedServer(engine)

	return s
}

// FailWith makes every request for "METHOD /path" answer status until
// cleared with status 0. The path is the route path, e.g. "/quotes/:id".
func (s *JSONServer) FailWith(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if status == 0 {
		delete(s.failures, route)
		return
	}

	s.failures[route] = status
}

// Reset clears data, failures and the request log.
func (s *JSONServer) Reset(seed ...Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.quotes, s.likes, s.requests = nil, nil, nil
	s.nextID, s.nextLike = 0, 0
	s.failures = make(map[string]int)

	for _, q := range seed {
		s.insertQuote(q)
	}
}

// Requests returns a copy of the request log.
func (s *JSONServer) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Request(nil), s.requests...)
}

// CountRequests returns how many requests matched method and path.
func (s *JSONServer) CountRequests(method, path string) int {
	n := 0

	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}

	return n
}

// Quotes returns a copy of the stored quotes.
func (s *JSONServer) Quotes() []Quote {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Quote(nil), s.quotes...)
}

// Likes returns a copy of the stored likes.
func (s *JSONServer) Likes() []Like {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Like(nil), s.likes...)
}

// insertQuote must be called with mu held or before the server starts.
func (s *JSONServer) insertQuote(q Quote) Quote {
	if q.ID == 0 {
		s.nextID++
		q.ID = s.nextID
	} else if q.ID > s.nextID {
		s.nextID = q.ID
	}

	s.quotes = append(s.quotes, q)

	return q
}

func (s *JSONServer) record(c *gin.Context) {
	var body string

	if c.Request.Body != nil {
		raw, _ := c.GetRawData()
		body = string(raw)
		c.Request.Body = readCloser{strings.NewReader(body)}
	}

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.RawQuery,
		Body:   body,
	})
	s.mu.Unlock()

	c.Next()
}

func (s *JSONServer) inject(c *gin.Context) {
	route := c.Request.Method + " " + c.FullPath()

	s.mu.Lock()
	status, ok := s.failures[route]
	s.mu.Unlock()

	if ok {
		c.AbortWithStatusJSON(status, gin.H{})
		return
	}

	c.Next()
}

func (s *JSONServer) listQuotes(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]quoteWithLikes, 0, len(s.quotes))

	for _, q := range s.quotes {
		item := quoteWithLikes{Quote: q}
		if c.Query("_embed") == "likes" {
			item.Likes = []Like{}
			for _, l := range s.likes {
				if l.QuoteID == q.ID {
					item.Likes = append(item.Likes, l)
				}
			}
		}

		out = append(out, item)
	}

	if c.Query("_sort") == "author" {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Author < out[j].Author })
	}

	if limit, err := strconv.Atoi(c.Query("_limit")); err == nil && limit < len(out) {
		out = out[:limit]
	}

	c.JSON(http.StatusOK, out)
}

func (s *JSONServer) createQuote(c *gin.Context) {
	var body Quote
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	created := s.insertQuote(Quote{Quote: body.Quote, Author: body.Author})
	s.mu.Unlock()

	c.JSON(http.StatusCreated, created)
}

func (s *JSONServer) patchQuote(c *gin.Context) {
	id, ok := s.quoteIndex(c)
	if !ok {
		return
	}

	var patch map[string]string
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := patch["quote"]; ok {
		s.quotes[id].Quote = v
	}

	if v, ok := patch["author"]; ok {
		s.quotes[id].Author = v
	}

	c.JSON(http.StatusOK, s.quotes[id])
}

func (s *JSONServer) deleteQuote(c *gin.Context) {
	idx, ok := s.quoteIndex(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.quotes[idx].ID
	s.quotes = append(s.quotes[:idx], s.quotes[idx+1:]...)

	kept := s.likes[:0]
	for _, l := range s.likes {
		if l.QuoteID != removed {
			kept = append(kept, l)
		}
	}
	s.likes = kept

	c.JSON(http.StatusOK, gin.H{})
}

func (s *JSONServer) listLikes(c *gin.Context) {
	c.JSON(http.StatusOK, s.Likes())
}

func (s *JSONServer) createLike(c *gin.Context) {
	var body Like
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exists := false
	for _, q := range s.quotes {
		if q.ID == body.QuoteID {
			exists = true
			break
		}
	}

	if !exists {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "quoteId does not reference a quote"})
		return
	}

	s.nextLike++
	like := Like{ID: s.nextLike, QuoteID: body.QuoteID, CreatedAt: body.CreatedAt}
	s.likes = append(s.likes, like)

	c.JSON(http.StatusCreated, like)
}

// quoteIndex resolves :id, answering 404 itself when absent.
func (s *JSONServer) quoteIndex(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))

	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil {
		for i, q := range s.quotes {
			if q.ID == id {
				return i, true
			}
		}
	}

	c.JSON(http.StatusNotFound, gin.H{})

	return 0, false
}

type readCloser struct{ *strings.Reader }

func (readCloser) Close() error { return nil }
