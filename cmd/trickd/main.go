// Command trickd runs the card table server: a websocket endpoint backed by
// the lobby registry and per-table game actors.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tricktable/internal/config"
	"tricktable/internal/gateway"
	"tricktable/internal/history"
	"tricktable/internal/lobby"
	"tricktable/internal/table"

	"github.com/decred/slog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "trickd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	backend := slog.NewBackend(os.Stderr)
	level := slog.LevelInfo
	if cfg.Dev() {
		level = slog.LevelDebug
	}
	newLogger := func(tag string) slog.Logger {
		l := backend.Logger(tag)
		l.SetLevel(level)
		return l
	}
	srvLog := newLogger("SRVR")
	tableLog := newLogger("TABL")
	lobbyLog := newLogger("LOBY")
	gateLog := newLogger("GATE")
	histLog := newLogger("HIST")

	hist, err := history.NewService(history.Config{
		Driver:      cfg.HistoryDriver,
		SQLitePath:  cfg.HistorySQLitePath,
		PostgresDSN: cfg.HistoryPostgresDSN,
	}, histLog)
	if err != nil {
		return err
	}
	defer hist.Close()

	registry := lobby.NewRegistry(lobbyLog, tableLog)
	defer registry.Close()
	registry.AddGameEndHook(func(info table.GameEndInfo) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := hist.RecordMatch(ctx, history.Match{
			TableID:      info.TableID,
			GameType:     info.GameType,
			StartedAt:    info.StartedAt,
			EndedAt:      info.EndedAt,
			Winners:      info.Winners,
			FinalScores:  info.FinalScores,
			RoundsPlayed: info.RoundsPlayed,
		})
		if err != nil {
			histLog.Errorf("record match for table %s: %v", info.TableID, err)
		}
	})

	gw := gateway.New(registry, gateway.Settings{
		AllowedOrigins:    cfg.AllowedOrigins,
		HeartsEndingScore: cfg.HeartsEndingScore,
	}, gateLog)

	mux := http.NewServeMux()
	mux.Handle("/ws", gw)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		srvLog.Infof("listening on %s (env %s)", srv.Addr, cfg.Env)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	srvLog.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
