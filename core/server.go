package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/gliderlabs/ssh"
	"github.com/google/uuid"
	"github.com/juju/ratelimit"
	"go.uber.org/zap"
	gossh "golang.org/x/crypto/ssh"

	"github.com/hostsh/hostsh/core/command"
	"github.com/hostsh/hostsh/core/config"
	"github.com/hostsh/hostsh/core/interp"
	"github.com/hostsh/hostsh/core/lineio"
)

// Server exposes the interpreter over SSH: every accepted session gets
// its own variable table and shell loop over the shared registry.
type Server struct {
	cfg       *config.Config
	registry  *command.Registry
	log       *zap.Logger
	sshServer *ssh.Server
}

// NewServer builds the SSH front-end from a loaded configuration. The
// host key must already exist in the configuration directory; Initialize
// creates one.
func NewServer(cfg *config.Config, registry *command.Registry, log *zap.Logger) (*Server, error) {
	server := &Server{
		cfg:      cfg,
		registry: registry,
		log:      log,
	}

	keyPem, err := cfg.PrivateKeyPem()
	if err != nil {
		return nil, fmt.Errorf("reading host key: %w", err)
	}
	signer, err := gossh.ParsePrivateKey(keyPem)
	if err != nil {
		return nil, fmt.Errorf("parsing host key: %w", err)
	}

	server.sshServer = &ssh.Server{
		Addr: fmt.Sprintf(":%d", cfg.SSH.Port),
		Handler: func(s ssh.Session) {
			server.handleSession(s)
		},
	}
	server.sshServer.AddHostKey(signer)

	if cfg.SSH.Banner != "" {
		server.sshServer.Version = cfg.SSH.Banner
	}

	return server, nil
}

func (s *Server) handleSession(sess ssh.Session) {
	sessionID := uuid.New()
	log := s.log.With(
		zap.String("session_id", sessionID.String()),
		zap.String("user", sess.User()),
		zap.String("remote_addr", fmt.Sprintf("%s", sess.RemoteAddr())))
	log.Info("session started")

	out := io.Writer(sess)
	if rate := s.cfg.SSH.OutputRateBytes; rate > 0 {
		bucket := ratelimit.NewBucketWithRate(float64(rate), rate)
		out = ratelimit.Writer(sess, bucket)
	}

	in := io.Reader(sess)
	errOut := io.Writer(sess.Stderr())
	if s.cfg.SSH.RecordSessions {
		name := fmt.Sprintf("%s-%s.log", time.Now().Format(time.RFC3339), sessionID)
		fd, err := s.cfg.CreateSessionLog(name)
		if err != nil {
			log.Warn("session transcript", zap.Error(err))
		} else {
			defer fd.Close()
			recorder := NewRecorder(fd)
			in = recorder.Stdin(in)
			out = recorder.Stdout(out)
			errOut = recorder.Stderr(errOut)
		}
	}

	session := s.newSession(sess, in, out, errOut, log)
	shell := NewShell(s.cfg, session, nil)

	// Non-interactive exec request: run the command line and leave.
	if raw := sess.RawCommand(); raw != "" {
		code := shell.RunOnce(raw)
		log.Info("session finished", zap.Int("exit_code", code))
		sess.Exit(code)
		return
	}

	ptyInfo, winch, isPTY := sess.Pty()
	width := trackWidth(ptyInfo.Window.Width, winch)

	reader, err := lineio.NewReadlineReader(lineio.ReadlineConfig{
		Stdin:      io.NopCloser(in),
		Stdout:     out,
		Stderr:     errOut,
		IsTerminal: func() bool { return isPTY },
		Width:      width.get,
	})
	if err != nil {
		log.Error("readline setup", zap.Error(err))
		sess.Exit(1)
		return
	}
	defer reader.Close()

	shell.Reader = reader
	code := shell.Run()
	log.Info("session finished", zap.Int("exit_code", code))
	sess.Exit(code)
}

// widthTracker follows terminal resize events so readline can query the
// current width without racing the resize goroutine.
type widthTracker struct {
	width atomic.Int32
}

func trackWidth(initial int, winch <-chan ssh.Window) *widthTracker {
	t := &widthTracker{}
	t.width.Store(int32(initial))
	go func() {
		for window := range winch {
			t.width.Store(int32(window.Width))
		}
	}()
	return t
}

func (t *widthTracker) get() int {
	return int(t.width.Load())
}

// newSession builds a per-connection interpreter session wired to the
// SSH channel's streams and seeded from the configuration.
func (s *Server) newSession(sess ssh.Session, in io.Reader, out, errOut io.Writer, log *zap.Logger) *interp.Session {
	session := interp.NewSession(s.registry)
	session.Stdin = in
	session.Stdout = out
	session.Stderr = errOut
	session.Log = log

	session.Vars = interp.NewVarsFromEnviron(append(s.cfg.Env, sess.Environ()...), os.Getpid())

	if !s.cfg.AllowExternal {
		session.LookPath = func(string) (string, error) { return "", command.ErrNotFound }
	}

	return session
}

// ListenAndServe blocks serving SSH sessions until Shutdown or a fatal
// listener error.
func (s *Server) ListenAndServe() error {
	s.log.Info("starting SSH server", zap.String("addr", s.sshServer.Addr))
	return s.sshServer.ListenAndServe()
}

// Shutdown stops accepting connections and waits for active sessions up
// to the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.sshServer.Shutdown(ctx)
}
