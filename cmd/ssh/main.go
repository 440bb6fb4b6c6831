package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/spacerocks/internal/app"
	"github.com/tomz197/spacerocks/internal/config"
	"github.com/tomz197/spacerocks/internal/draw"
	"github.com/tomz197/spacerocks/internal/loop"
	"github.com/tomz197/spacerocks/internal/loop/client"
	loopconfig "github.com/tomz197/spacerocks/internal/loop/config"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
)

// server runs one independent game per SSH session. Assets are loaded once
// and shared; sessions play silently.
type server struct {
	assets   *loop.Assets
	logger   *log.Logger
	shutdown context.Context
	sessions sync.WaitGroup

	warnAfter       time.Duration
	disconnectAfter time.Duration
}

func main() {
	logger := app.NewLogger("ssh")

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	workingDir, workErr := os.Getwd()
	if workErr != nil {
		logger.Warn("failed to get working directory", "err", workErr)
	}
	logger.Info("SSH config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "workingDir", workingDir)

	// Nobody hears a server's speaker.
	out, err := app.NewOutput(false)
	if err != nil {
		logger.Fatal("failed to open audio", "err", err)
	}
	defer out.Close()

	assets, err := app.LoadAssets(out, logger)
	if err != nil {
		logger.Fatal("failed to load assets", "err", err)
	}

	shutdownCtx, beginShutdown := context.WithCancel(context.Background())
	defer beginShutdown()
	h := &server{
		assets:          assets,
		logger:          logger,
		shutdown:        shutdownCtx,
		warnAfter:       config.GetEnvDuration("INACTIVITY_WARN", loopconfig.InactivityWarnUser),
		disconnectAfter: config.GetEnvDuration("INACTIVITY_DISCONNECT", loopconfig.InactivityDisconnectUser),
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			h.gameMiddleware,
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("Shutting down server...")

	// Show every player the shutdown notice and wait for the sessions to end.
	beginShutdown()
	h.wait(loopconfig.ShutdownDisplay + 5*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// wait blocks until all sessions ended or the timeout passed.
func (h *server) wait(timeout time.Duration) {
	ended := make(chan struct{})
	go func() {
		h.sessions.Wait()
		close(ended)
	}()
	select {
	case <-ended:
		h.logger.Info("all sessions ended")
	case <-time.After(timeout):
		h.logger.Warn("sessions still open after shutdown notice", "timeout", timeout)
	}
}

// gameMiddleware handles SSH sessions and runs a game client per session.
func (h *server) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		h.sessions.Add(1)
		defer h.sessions.Done()

		logger := h.logger.With("user", sess.User(), "remote", sess.RemoteAddr())
		logger.Info("New game session", "terminal", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

		// Listen for window size changes in a goroutine
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		// The session ends on disconnect or when the server shuts down.
		ctx, cancel := context.WithCancel(sess.Context())
		defer cancel()
		stop := context.AfterFunc(h.shutdown, cancel)
		defer stop()

		game := loop.NewGame(h.assets, loop.WithLogger(logger))
		fe := client.NewANSIFrontend(bufio.NewReader(sess), sess, sizeTracker.getSize, app.NewKeyTracker())
		c := client.NewClient(game, fe, client.ClientOptions{
			Logger:               logger,
			InactivityWarn:       h.warnAfter,
			InactivityDisconnect: h.disconnectAfter,
			ShutdownNotice:       loopconfig.ShutdownDisplay,
		})
		if err := c.Run(ctx); err != nil {
			logger.Error("Game error", "err", err)
		}

		logger.Info("Session ended")
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
