package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"whackarcade/internal/config"
	"whackarcade/internal/db"
	"whackarcade/internal/events"
	"whackarcade/internal/machines"
	"whackarcade/internal/metrics"
	"whackarcade/internal/players"
)

func Run() error {
	appCfg := config.Load()

	machineCfg := machines.DefaultConfig()
	if appCfg.MachineConfig != "" {
		loaded, err := machines.LoadConfig(appCfg.MachineConfig)
		if err != nil {
			return err
		}
		machineCfg = *loaded
		log.Printf("[Server] Loaded machine config from %s\n", appCfg.MachineConfig)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ctrl := machines.NewController(machines.NewStore(), appCfg.TickRate, nil)
	ctrl.Players = players.NewStore()
	ctrl.Metrics = metrics.New(reg)

	srv := NewServer(ctrl, &machineCfg, reg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	// Optional database connection
	if appCfg.DatabaseURL != "" {
		database, err := db.Connect(appCfg.DatabaseURL)
		if err != nil {
			log.Printf("[DB] Failed to connect: %v (running without database)\n", err)
		} else {
			if err := database.Migrate(); err != nil {
				log.Printf("[DB] Migration failed: %v\n", err)
			}
			// Runs after g.Wait, once the recorder has drained.
			defer database.Close()
			srv.DB = database
			ctrl.Events = events.NewBus()
			g.Go(func() error {
				recordEvents(ctx, database, ctrl.Events)
				return nil
			})
			log.Println("[DB] Database connected and migrations applied")
		}
	} else {
		log.Println("[DB] DATABASE_URL not set, running without database")
	}

	g.Go(func() error {
		ctrl.Run(ctx)
		return nil
	})

	for range appCfg.MachineCount {
		m, err := ctrl.CreateMachine(ctx, &machineCfg)
		if err != nil {
			stop()
			g.Wait()
			return fmt.Errorf("creating machine: %w", err)
		}
		log.Printf("[Server] Machine %s ready\n", m.Code)
	}

	httpSrv := &http.Server{
		Addr:    appCfg.Addr(),
		Handler: srv.Routes(),
	}
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), appCfg.ShutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		fmt.Printf("Server listening on http://localhost:%s\n", appCfg.Port)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{}))

	r.Route("/players", func(r chi.Router) {
		r.Get("/", s.handleListPlayers)
		r.Post("/", s.handleRegisterPlayer)
		r.Delete("/{id}", s.handleRemovePlayer)
	})

	r.Route("/machines", func(r chi.Router) {
		r.Get("/", s.handleListMachines)
		r.Post("/", s.handleCreateMachine)
		r.Route("/{code}", func(r chi.Router) {
			r.Get("/", s.handleGetMachine)
			r.Delete("/", s.handleDeleteMachine)
			r.Post("/actions", s.handleAction)
			r.Post("/power", s.handlePower)
			r.Get("/events", s.handleEvents)
			r.Get("/ws", s.handleWebSocket)
		})
	})

	r.Route("/analytics", func(r chi.Router) {
		r.Get("/leaderboard", s.handleAnalyticsLeaderboard)
		r.Get("/machines/{code}", s.handleAnalyticsMachine)
		r.Get("/players/{id}", s.handleAnalyticsPlayer)
	})

	return r
}
