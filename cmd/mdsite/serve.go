package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/alnah/go-mdsite/internal/hints"
	"github.com/alnah/go-mdsite/internal/watcher"
)

// shutdownTimeout bounds how long in-flight requests may finish.
const shutdownTimeout = 5 * time.Second

func newServeCmd(env *Environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Build, serve the output over HTTP and rebuild on changes",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd, env)
			if err != nil {
				return err
			}
			return s.serve(cmd.Context())
		},
	}
	addServeFlags(cmd.Flags())
	return cmd
}

// serve builds once, then serves the output directory until ctx is done.
func (s *session) serve(ctx context.Context) error {
	if _, err := s.build(ctx, false); err != nil {
		return err
	}

	port := s.v.GetInt(flagPort)
	addr := net.JoinHostPort(s.v.GetString(flagHost), strconv.Itoa(port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrListen, addr, err)
		if errors.Is(err, syscall.EADDRINUSE) {
			return &hintedError{err: err, hint: hints.ForAddressInUse(port)}
		}
		return err
	}

	srv := &http.Server{
		Handler:           siteHandler(s.env.Fs, s.cfg.OutputDir),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ln) }()

	if !s.quiet {
		fmt.Fprintf(s.env.Stdout, "Serving %s at http://%s/ (Ctrl+C to stop)\n", s.cfg.OutputDir, ln.Addr())
	}

	watchErr := make(chan error, 1)
	if !s.v.GetBool(flagNoWatch) {
		w, err := s.newWatcher()
		if err != nil {
			_ = srv.Close()
			return err
		}
		defer w.Close()
		go func() { watchErr <- w.Run(ctx, s.rebuildFunc(ctx)) }()
	}

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case err := <-watchErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			_ = srv.Close()
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// newWatcher watches the content, theme and static directories. Writes to
// the output directory are ignored so a rebuild does not trigger another.
func (s *session) newWatcher() (*watcher.Watcher, error) {
	w, err := watcher.New(watcher.DefaultDelay, s.logger,
		watcher.NoHiddenFilter,
		watcher.NoEditorTempFilter,
		watcher.OutsideDirFilter(s.cfg.OutputDir),
	)
	if err != nil {
		return nil, err
	}
	for _, dir := range []string{s.cfg.ContentDir, s.cfg.ThemeDir, s.cfg.StaticDir} {
		if dir == "" {
			continue
		}
		if err := w.AddRecursive(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}
	return w, nil
}

// rebuildFunc rebuilds the site after a batch of changes. Builds are
// serialized; a failed rebuild is reported and the previous output stays.
func (s *session) rebuildFunc(ctx context.Context) watcher.ChangeHandler {
	var mu sync.Mutex
	return func(paths []string) {
		mu.Lock()
		defer mu.Unlock()

		s.logger.Debug("rebuilding", "changed", paths)
		start := s.env.Now()
		result, err := s.build(ctx, false)
		if err != nil {
			fmt.Fprintln(s.env.Stderr, "rebuild failed:", err)
			return
		}
		if !s.quiet {
			fmt.Fprintf(s.env.Stdout, "Rebuilt %d pages in %s\n",
				len(result.Pages)+len(result.Indexes), s.env.Now().Sub(start).Round(time.Millisecond))
		}
	}
}

// siteHandler serves the output directory. Permalinks without an
// extension, such as tips/153, are served as HTML.
func siteHandler(fs afero.Fs, dir string) http.Handler {
	files := http.FileServer(afero.NewHttpFs(afero.NewBasePathFs(fs, dir)).Dir("/"))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p := r.URL.Path; path.Ext(p) == "" && !isDirPath(p) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
		}
		files.ServeHTTP(w, r)
	})
}

func isDirPath(p string) bool {
	return p == "" || p[len(p)-1] == '/'
}
