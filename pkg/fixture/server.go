// Package fixture serves a self-contained replica of the puzzle page for
// hermetic runs. The replica keeps the element contract of the published
// page (ids, test ids, aria labels and generated class prefixes) and its
// observable behavior: a consent card, a Play entry control, a help dialog,
// a 6x5 board, an on-screen keyboard and a toast for rejected guesses.
// Guesses are checked asynchronously against an embedded word list.
package fixture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Board dimensions of the replica page.
const (
	Rows    = 6
	Columns = 5
)

// PagePath mirrors the path of the published page.
const PagePath = "/games/wordle/index.html"

// DefaultTitle matches the title of the published page.
const DefaultTitle = "Wordle — The New York Times"

var keyboardRows = []string{"qwertyuiop", "asdfghjkl", "zxcvbnm"}

var pageTemplate = template.Must(template.ParseFS(static, "static/index.html.tmpl"))

// Options configures the replica page.
type Options struct {
	// Consent shows the consent card that must be dismissed first
	Consent bool

	// Answer is the word that solves the puzzle
	Answer string

	// Title is the document title
	Title string

	// Latency delays every guess check, to exercise the harness waits
	Latency time.Duration
}

// DefaultOptions returns a replica that behaves like the published page in a
// fresh profile.
func DefaultOptions() Options {
	return Options{
		Consent: true,
		Answer:  "crane",
		Title:   DefaultTitle,
		Latency: 50 * time.Millisecond,
	}
}

type pageData struct {
	Title   string
	Consent bool
	Rows    []int
	Columns []int
	Keys    [][]string
}

type guessRequest struct {
	Guess string `json:"guess"`
}

type guessResponse struct {
	Valid  bool   `json:"valid"`
	Marks  []Mark `json:"marks,omitempty"`
	Solved bool   `json:"solved"`
}

// NewHandler builds the router serving the replica page and its guess API.
func NewHandler(opts Options) http.Handler {
	if opts.Answer == "" {
		opts.Answer = DefaultOptions().Answer
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	answer := strings.ToLower(opts.Answer)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RequestLogger(&chimw.DefaultLogFormatter{
		Logger:  log.New(debugLog.Writer(), "", 0),
		NoColor: true,
	}))
	r.Use(chimw.Recoverer)

	page := func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pageTemplate.Execute(w, newPageData(opts)); err != nil {
			debugLog.Errorf("render replica page: %v", err)
		}
	}
	r.Get("/", page)
	r.Get(PagePath, page)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	r.Post("/api/guess", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		var body guessRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
			return
		}

		if opts.Latency > 0 {
			select {
			case <-time.After(opts.Latency):
			case <-req.Context().Done():
				return
			}
		}

		guess := strings.ToLower(strings.TrimSpace(body.Guess))
		res := guessResponse{Valid: IsAllowed(guess) || guess == answer}
		if res.Valid {
			res.Marks = Evaluate(answer, guess)
			res.Solved = Solved(res.Marks)
		}
		debugLog.Debugf("guess %q valid=%t solved=%t", guess, res.Valid, res.Solved)
		_ = json.NewEncoder(w).Encode(res)
	})

	return r
}

func newPageData(opts Options) pageData {
	data := pageData{Title: opts.Title, Consent: opts.Consent}
	for i := 1; i <= Rows; i++ {
		data.Rows = append(data.Rows, i)
	}
	for i := 1; i <= Columns; i++ {
		data.Columns = append(data.Columns, i)
	}
	for _, row := range keyboardRows {
		data.Keys = append(data.Keys, strings.Split(row, ""))
	}
	return data
}

// Server is a running replica listening on a local address.
type Server struct {
	srv *http.Server
	ln  net.Listener
}

// Start listens on addr (use "127.0.0.1:0" for a free port) and serves the
// replica in the background.
func Start(addr string, opts Options) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s := &Server{
		srv: &http.Server{
			Handler:           NewHandler(opts),
			ReadHeaderTimeout: 5 * time.Second,
		},
		ln: ln,
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			debugLog.Errorf("replica server stopped: %v", err)
		}
	}()

	debugLog.Infof("replica page serving at %s", s.URL())
	return s, nil
}

// URL returns the address of the replica page.
func (s *Server) URL() string {
	return "http://" + s.ln.Addr().String() + PagePath
}

// Close shuts the server down, waiting for in-flight requests until ctx ends.
func (s *Server) Close(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
