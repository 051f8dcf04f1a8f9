// Package server serves generated site with reader preferences applied
// before pages leave the server.
package server

import (
	"encoding/json"
	"errors"
	"io/fs"
	"math"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Whale619/novel-site/common"
	"github.com/Whale619/novel-site/config"
	"github.com/Whale619/novel-site/page"
	"github.com/Whale619/novel-site/prefs"
)

const (
	eventsPath = "/_events"
	reloadMsg  = "reload"

	reloadScript = `new EventSource("` + eventsPath + `").onmessage = function (e) { if (e.data === "` + reloadMsg + `") { location.reload(); } };`
)

// viewportHints are client hints carrying layout viewport width, in order of
// preference.
var viewportHints = []string{"Sec-CH-Viewport-Width", "Viewport-Width"}

// Server handles requests for a single site directory.
type Server struct {
	site     fs.FS
	settings *prefs.Settings
	maxAge   time.Duration
	events   *Broadcaster
	log      *zap.Logger
}

// New prepares server for site in dir. When events is not nil pages get live
// reload script and event stream is served.
func New(dir string, cfg *config.Config, events *Broadcaster, log *zap.Logger) (*Server, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, errors.New("site must be a directory: " + dir)
	}
	settings, err := prefs.NewSettings(&cfg.Reader)
	if err != nil {
		return nil, err
	}
	return &Server{
		site:     os.DirFS(dir),
		settings: settings,
		maxAge:   cfg.Server.CookieMaxAge,
		events:   events,
		log:      log.Named("server"),
	}, nil
}

// Handler returns router for everything server does.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Route("/api/prefs", func(r chi.Router) {
		r.Get("/", s.getPrefs)
		r.Post("/font-size", s.setFontSize)
		r.Post("/theme", s.toggleTheme)
	})
	if s.events != nil {
		r.Get(eventsPath, s.events.ServeHTTP)
	}
	r.Get("/*", s.serveSite)
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.log.Debug("Request served",
				zap.String("id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)))
		}()
		next.ServeHTTP(ww, r)
	})
}

// environment describes client from request headers.
func environment(r *http.Request) prefs.Environment {
	env := prefs.Environment{UserAgent: r.UserAgent()}
	for _, h := range viewportHints {
		v := r.Header.Get(h)
		if len(v) == 0 {
			continue
		}
		if w, err := strconv.ParseFloat(v, 64); err == nil && w > 0 {
			env.ViewportWidth = int(math.Round(w))
			break
		}
	}
	return env
}

// controller prepares controller for the page and initializes it from
// request.
func (s *Server) controller(w http.ResponseWriter, r *http.Request, p prefs.Page) (*prefs.Controller, error) {
	c := s.settings.NewController(p, prefs.NewCookieStorage(w, r, s.maxAge), s.log)
	if err := c.Initialize(environment(r)); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Server) serveSite(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if len(name) == 0 || strings.HasSuffix(r.URL.Path, "/") {
		name = path.Join(name, "index.html")
	}
	if !fs.ValidPath(name) {
		http.NotFound(w, r)
		return
	}
	if path.Ext(name) != ".html" {
		http.FileServerFS(s.site).ServeHTTP(w, r)
		return
	}

	data, err := fs.ReadFile(s.site, name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	doc, err := page.ParseBytes(data)
	if err != nil {
		s.log.Warn("Unable to parse page, serving as is", zap.String("page", name), zap.Error(err))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(data)
		return
	}

	w.Header().Set("Accept-CH", strings.Join(viewportHints, ", "))
	w.Header().Add("Vary", "User-Agent, Cookie, "+strings.Join(viewportHints, ", "))
	w.Header().Set("Cache-Control", "no-cache")

	if _, err := s.controller(w, r, doc); err != nil {
		s.log.Error("Unable to apply reader preferences", zap.String("page", name), zap.Error(err))
		http.Error(w, "unable to apply reader preferences", http.StatusInternalServerError)
		return
	}
	if s.events != nil {
		doc.Head().CreateElement("script").SetText(reloadScript)
	}

	out, err := doc.Bytes()
	if err != nil {
		s.log.Error("Unable to render page", zap.String("page", name), zap.Error(err))
		http.Error(w, "unable to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(out)
}

// prefsResponse is what preferences API returns.
type prefsResponse struct {
	FontSize string             `json:"fontSize"`
	Theme    common.Theme       `json:"theme"`
	Device   common.DeviceClass `json:"device"`
	Effects  prefs.Effects      `json:"effects"`
}

// api runs action against detached page and replies with resulting state.
func (s *Server) api(w http.ResponseWriter, r *http.Request, action func(*prefs.Controller) error) {
	c, err := s.controller(w, r, page.New("", ""))
	if err == nil && action != nil {
		err = action(c)
	}
	if err != nil {
		s.log.Error("Unable to update reader preferences", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, prefsResponse{
		FontSize: c.Store().FontSize(),
		Theme:    c.Store().Theme(),
		Device:   c.Device(),
		Effects:  c.Effects(),
	})
}

func (s *Server) getPrefs(w http.ResponseWriter, r *http.Request) {
	s.api(w, r, nil)
}

func (s *Server) setFontSize(w http.ResponseWriter, r *http.Request) {
	size := r.FormValue("size")
	if len(size) == 0 {
		http.Error(w, "size is required", http.StatusBadRequest)
		return
	}
	s.api(w, r, func(c *prefs.Controller) error {
		return c.ApplyFontSize(size)
	})
}

func (s *Server) toggleTheme(w http.ResponseWriter, r *http.Request) {
	s.api(w, r, func(c *prefs.Controller) error {
		_, err := c.ToggleTheme()
		return err
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
