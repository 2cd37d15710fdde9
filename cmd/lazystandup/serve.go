package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Joseda-hg/lazystandup/internal/tui"
	"github.com/Joseda-hg/lazystandup/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the todo list and standup archive over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the terminal UI",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

var (
	servePort int
	serveWeb  bool
)

func init() {
	rootCmd.AddCommand(serveCmd, tuiCmd)
	serveCmd.Flags().IntVar(&servePort, "port", 0, "web server port (default from config)")
	setFlagAliases(serveCmd.Flags(), map[string]string{"web-port": "port"})
	tuiCmd.Flags().BoolVar(&serveWeb, "web", false, "also run the web server")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := a.newServer(servePort)
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("web server running", "url", "http://localhost"+srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if serveWeb {
		srv := a.newServer(0)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("web server error", "error", err)
			}
		}()
		defer srv.Close()
	}

	return tui.Run(a.todos, a.resolver, a.now)
}

func (a *app) newServer(port int) *http.Server {
	if port == 0 {
		port = a.cfg.WebPort
	}
	server := web.NewServer(a.todos, a.resolver, a.logger)
	server.SetClock(a.now)
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
