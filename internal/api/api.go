// Package api provides the HTTP sync server for pushtimer.
//
// It exposes the ledger to phones on the same network (today's total, daily
// history, logging, edits) plus statistics, CSV export, and a small status
// surface over the reminder scheduler.
package api

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"

	"github.com/mdp/qrterminal/v3"

	"github.com/pushtimer/pushtimer/internal/ledger"
	"github.com/pushtimer/pushtimer/internal/scheduler"
)

// DefaultAddr is the default listen address for the sync server.
const DefaultAddr = ":8080"

// Opts holds configuration options for the API server.
type Opts struct {
	Addr     string
	QROutput io.Writer
}

// Option configures server creation.
type Option func(*Opts)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// WithQROutput sets the writer that receives the sync-URL QR code.
func WithQROutput(w io.Writer) Option {
	return func(o *Opts) { o.QROutput = w }
}

// Server routes sync requests to the ledger and scheduler.
type Server struct {
	ledger *ledger.Ledger
	sched  *scheduler.ReminderScheduler
	mux    *http.ServeMux
	addr   string
	qrOut  io.Writer
}

// NewServer creates the sync server and registers its routes.
func NewServer(l *ledger.Ledger, sched *scheduler.ReminderScheduler, opts ...Option) *Server {
	cfg := Opts{Addr: DefaultAddr, QROutput: os.Stdout}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Server{
		ledger: l,
		sched:  sched,
		mux:    http.NewServeMux(),
		addr:   cfg.Addr,
		qrOut:  cfg.QROutput,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/today-total", s.todayTotalHandler)
	s.mux.HandleFunc("/daily-history", s.dailyHistoryHandler)
	s.mux.HandleFunc("/log", s.logHandler)
	s.mux.HandleFunc("/edit", s.editHandler)
	s.mux.HandleFunc("/recent", s.recentHandler)
	s.mux.HandleFunc("/stats", s.statsHandler)
	s.mux.HandleFunc("/streak", s.streakHandler)
	s.mux.HandleFunc("/export/csv", s.exportCSVHandler)
	s.mux.HandleFunc("/health", s.healthHandler)
	s.mux.HandleFunc("/scheduler", s.schedulerStatusHandler)
	s.mux.HandleFunc("/scheduler/pause", s.schedulerPauseHandler)
	s.mux.HandleFunc("/scheduler/resume", s.schedulerResumeHandler)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// SyncURL returns the URL a phone on the same network should open, using the
// machine's LAN address.
func (s *Server) SyncURL() string {
	_, port, err := net.SplitHostPort(s.addr)
	if err != nil || port == "" {
		port = "8080"
	}
	return fmt.Sprintf("http://%s:%s", localIP(), port)
}

// PrintSyncQR writes the sync URL and its QR code to the configured output so
// a phone can connect by scanning the terminal.
func (s *Server) PrintSyncQR() {
	url := s.SyncURL()
	fmt.Fprintf(s.qrOut, "Sync server listening at %s\n", url)
	qrterminal.GenerateHalfBlock(url, qrterminal.L, s.qrOut)
	slog.Info("Sync QR code printed", "url", url)
}

// localIP discovers the machine's outbound LAN address. No packet is sent; the
// UDP dial only selects a source address. Falls back to loopback.
func localIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		slog.Warn("localIP discovery failed, falling back to loopback", "error", err)
		return "127.0.0.1"
	}
	defer conn.Close()
	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "127.0.0.1"
	}
	return addr.IP.String()
}
