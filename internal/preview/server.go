package preview

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/siteporter/siteporter/internal/logfields"
	"github.com/siteporter/siteporter/internal/metrics"
)

// Server serves the migrated output tree with livereload support and an
// optional Prometheus metrics endpoint.
type Server struct {
	addr      string
	outputDir string
	hub       *LiveReloadHub
	status    *buildStatus
	registry  *prom.Registry

	httpServer *http.Server
	boundAddr  string
}

// NewServer creates a preview server. registry may be nil to disable the
// /metrics endpoint; status may be nil to disable /status.
func NewServer(addr, outputDir string, hub *LiveReloadHub, status *buildStatus, registry *prom.Registry) *Server {
	return &Server{addr: addr, outputDir: outputDir, hub: hub, status: status, registry: registry}
}

// Start begins listening. It returns once the listener is bound; serving
// continues in the background until Stop.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/livereload", s.hub)
	mux.HandleFunc("/livereload.js", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		if _, err := w.Write([]byte(liveReloadScript)); err != nil {
			slog.Debug("livereload script write", logfields.Error(err))
		}
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.status != nil {
		mux.HandleFunc("/status", func(w http.ResponseWriter, _ *http.Request) {
			hasError, berr, good := s.status.get()
			w.Header().Set("Content-Type", "application/json")
			payload := map[string]any{"good_build": good, "clients": s.hub.ClientCount()}
			if hasError {
				payload["error"] = berr.Error()
			}
			if err := json.NewEncoder(w).Encode(payload); err != nil {
				slog.Debug("status write", logfields.Error(err))
			}
		})
	}
	if s.registry != nil {
		mux.Handle("/metrics", metrics.HTTPHandler(s.registry))
	}
	mux.Handle("/", injectLiveReload(http.FileServer(http.Dir(s.outputDir))))

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("preview listen %s: %w", s.addr, err)
	}

	// No write timeout: /livereload holds long-lived SSE connections.
	s.httpServer = &http.Server{
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 300 * time.Second,
	}

	s.boundAddr = ln.Addr().String()

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("preview server failed", logfields.Error(err))
		}
	}()

	slog.Info("preview server listening", logfields.URL("http://"+s.boundAddr))
	return nil
}

// Addr returns the bound address, valid after Start.
func (s *Server) Addr() string { return s.boundAddr }

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.hub.Shutdown()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// injectLiveReload buffers HTML responses and splices the livereload script
// in before the closing body tag. Non-HTML responses pass through untouched.
func injectLiveReload(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path
		isHTML := p == "/" || strings.HasSuffix(p, "/") || strings.HasSuffix(p, ".html")
		if !isHTML {
			next.ServeHTTP(w, r)
			return
		}
		inj := &scriptInjector{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(inj, r)
		inj.finalize()
	})
}

// scriptInjector buffers an HTML response so the script tag can be inserted
// before it is written out. Responses over the buffer cap fall back to
// passthrough without injection.
type scriptInjector struct {
	http.ResponseWriter
	status      int
	buf         []byte
	passthrough bool
	wroteHeader bool
}

const injectorMaxBuffer = 512 * 1024

func (l *scriptInjector) WriteHeader(code int) {
	l.status = code
	if l.passthrough {
		l.ResponseWriter.WriteHeader(code)
		l.wroteHeader = true
	}
}

func (l *scriptInjector) Write(data []byte) (int, error) {
	if !l.passthrough && l.buf == nil {
		ct := l.ResponseWriter.Header().Get("Content-Type")
		if ct != "" && !strings.Contains(ct, "text/html") {
			l.passthrough = true
			l.ResponseWriter.WriteHeader(l.status)
			l.wroteHeader = true
			return l.ResponseWriter.Write(data)
		}
		l.buf = make([]byte, 0, 64*1024)
	}
	if l.passthrough {
		return l.ResponseWriter.Write(data)
	}
	if len(l.buf)+len(data) > injectorMaxBuffer {
		l.passthrough = true
		l.ResponseWriter.Header().Del("Content-Length")
		l.ResponseWriter.WriteHeader(l.status)
		l.wroteHeader = true
		if len(l.buf) > 0 {
			if _, err := l.ResponseWriter.Write(l.buf); err != nil {
				return 0, err
			}
		}
		return l.ResponseWriter.Write(data)
	}
	l.buf = append(l.buf, data...)
	return len(data), nil
}

func (l *scriptInjector) finalize() {
	if l.passthrough || len(l.buf) == 0 {
		if !l.wroteHeader {
			l.ResponseWriter.WriteHeader(l.status)
		}
		return
	}
	body := string(l.buf)
	modified := strings.Replace(body,
		"</body>", `<script async src="/livereload.js"></script></body>`, 1)
	l.ResponseWriter.Header().Del("Content-Length")
	l.ResponseWriter.WriteHeader(l.status)
	_, _ = l.ResponseWriter.Write([]byte(modified))
}
