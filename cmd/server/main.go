package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"cachecraft.gg/internal/persistence/sessiondb"
	"cachecraft.gg/internal/sim/tuning"
	"cachecraft.gg/internal/sim/world"
	"cachecraft.gg/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <data>/../configs/tuning.yaml)")
		dbDSN      = flag.String("db", "", "session index DSN: postgres:// URL or sqlite file path (default: <data>/sessions.db)")
		disableDB  = flag.Bool("disable_db", false, "disable the session index")
		seed       = flag.Int64("seed", 0, "world seed override (0 keeps the tuning value)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(filepath.Dir(*dataDir), "configs", "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Printf("tuning not found (%s); using defaults", tp)
			tune = tuning.Defaults()
		} else {
			logger.Fatalf("load tuning: %v", err)
		}
	}
	if *seed != 0 {
		tune.Seed = *seed
	}

	cfg := world.Config{
		Seed:               tune.Seed,
		TileDegrees:        tune.TileDegrees,
		NeighborhoodRadius: tune.NeighborhoodRadius,
		InteractRadius:     tune.InteractRadius,
		SpawnPermille:      tune.SpawnPermille,
		WinThreshold:       world.Content(tune.WinThreshold),
	}

	var store sessiondb.Store
	if !*disableDB {
		dsn := strings.TrimSpace(*dbDSN)
		if dsn == "" {
			dsn = filepath.Join(*dataDir, "sessions.db")
		}
		store, err = sessiondb.Open(dsn)
		if err != nil {
			logger.Fatalf("open session index: %v", err)
		}
		defer store.Close()
	}

	server := ws.NewServer(cfg, *dataDir, store, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/ws", server.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	httpSrv := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		logger.Printf("listening on %s (seed=%d)", *addr, cfg.Seed)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Printf("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)
}
