package main

import (
	"context"
	_ "embed"
	"errors"
	"html/template"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/spacerocks/internal/app"
	"github.com/tomz197/spacerocks/internal/config"
)

const (
	defaultHost        = "0.0.0.0"
	defaultPort        = "8080"
	defaultDisplayHost = "your-server.com"
	defaultSSHPort     = "2222"
)

//go:embed index.html
var indexHTML string

var indexPage = template.Must(template.New("index").Parse(indexHTML))

// landing holds what the page tells players about the SSH server.
type landing struct {
	Command string
}

// sshCommand is the command players run to connect. The port is omitted
// when it is the SSH default.
func sshCommand(host, port string) string {
	if port == "" || port == "22" {
		return "ssh -t " + host
	}
	return "ssh -t -p " + port + " " + host
}

func newHandler(page landing, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexPage.Execute(w, page); err != nil {
			logger.Error("render page", "err", err)
		}
	})
	return mux
}

func main() {
	logger := app.NewLogger("web")

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", defaultDisplayHost)
	sshPort := config.GetEnv("SSH_PORT", defaultSSHPort)
	page := landing{Command: sshCommand(sshHost, sshPort)}
	logger.Info("Web config", "host", host, "port", port, "ssh", page.Command)

	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           newHandler(page, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Starting web server", "addr", "http://"+srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down web server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}
