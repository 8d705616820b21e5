package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JPGarCar/tridu-server/internal/auth"
	"github.com/JPGarCar/tridu-server/internal/config"
	"github.com/JPGarCar/tridu-server/internal/handlers"
	"github.com/JPGarCar/tridu-server/internal/logger"
	"github.com/JPGarCar/tridu-server/internal/repository"
	"github.com/JPGarCar/tridu-server/internal/services"
	"github.com/JPGarCar/tridu-server/internal/storage"
	"github.com/JPGarCar/tridu-server/internal/websocket"
	"github.com/JPGarCar/tridu-server/web"
)

const shutdownTimeout = 10 * time.Second

// App holds all application dependencies
type App struct {
	log       logger.Logger
	handlers  *handlers.Handlers
	repo      *repository.Repository
	hub       *websocket.Hub
	cancelHub context.CancelFunc
	closeOnce sync.Once
}

// New opens the database and document store, then wires services, the
// websocket hub and the HTTP handlers.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	repo, err := repository.New(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	store, err := newDocumentStore(ctx, cfg.Wetbag)
	if err != nil {
		repo.Close()
		return nil, err
	}

	scheduleService := services.NewScheduleService(log.With("component", "schedule"), repo)
	checkInService := services.NewCheckInService(log.With("component", "checkin"), repo)

	// Initialize WebSocket hub with DI
	hubCtx, cancel := context.WithCancel(context.Background())
	hub := websocket.New(log.With("component", "websocket"), cfg.AllowedOrigins)
	hub.Start(hubCtx)
	scheduleService.SetBroadcaster(hub)
	checkInService.SetBroadcaster(hub)

	svc := handlers.Services{
		Users:        services.NewUserService(log, repo),
		Locations:    services.NewLocationService(log, repo),
		Races:        services.NewRaceService(log, repo),
		RaceTypes:    services.NewRaceTypeService(log, repo),
		Heats:        services.NewHeatService(log, repo),
		Schedule:     scheduleService,
		CheckIns:     checkInService,
		Participants: services.NewParticipantService(log, repo),
		RelayTeams:   services.NewRelayTeamService(log, repo),
		Comments:     services.NewCommentService(log, repo),
		Wetbags:      services.NewWetbagService(log.With("component", "wetbag"), repo, store),
	}

	h := handlers.New(
		svc,
		auth.New(cfg.JWTSecretKey, cfg.JWTTTL),
		hub,
		repo,
		web.OpenAPI(),
		cfg.AllowedOrigins,
		log,
	)

	return &App{
		log:       log,
		handlers:  h,
		repo:      repo,
		hub:       hub,
		cancelHub: cancel,
	}, nil
}

func newDocumentStore(ctx context.Context, cfg config.WetbagConfig) (storage.DocumentStore, error) {
	switch cfg.Backend {
	case "", config.WetbagBackendMemory:
		return storage.New(storage.NewMemoryBackend(), cfg.Prefix), nil
	case config.WetbagBackendS3:
		backend, err := storage.NewS3Backend(ctx, storage.S3Config{
			Bucket:          cfg.Bucket,
			Endpoint:        cfg.Endpoint,
			Region:          cfg.Region,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize wetbag store: %w", err)
		}
		return storage.New(backend, cfg.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown wetbag backend %q", cfg.Backend)
	}
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close stops the websocket hub and closes the database. Safe to call more than once.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		if a.cancelHub != nil {
			a.cancelHub()
		}
		if err := a.repo.Close(); err != nil {
			a.log.Warn("Failed to close database", "error", err)
		}
	})
}

// Run serves HTTP on addr until ctx is cancelled, then shuts the server down
// gracefully. It does not call Close.
func (a *App) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      75 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	port := ln.Addr().(*net.TCPAddr).Port
	a.log.Info("Server starting", "url", fmt.Sprintf("http://localhost:%d", port))
	if ip := lanAddress(realNetworkProvider{}); ip != "" {
		a.log.Info("LAN URL", "url", fmt.Sprintf("http://%s:%d", ip, port))
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	a.log.Info("Server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	if err := <-serverErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider lists network interfaces (for testing)
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// lanAddress returns the IPv4 address volunteers' devices on the venue network
// should use. Private addresses win over public ones; it returns "" when the
// host has no usable interface.
func lanAddress(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return ""
	}

	var fallback string
	for _, iface := range ifaces {
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ip := addrIP(addr)
			if ip == nil || ip.To4() == nil || ip.IsLoopback() {
				continue
			}
			if ip.IsPrivate() {
				return ip.String()
			}
			if fallback == "" {
				fallback = ip.String()
			}
		}
	}
	return fallback
}

func addrIP(addr net.Addr) net.IP {
	switch v := addr.(type) {
	case *net.IPNet:
		return v.IP
	case *net.IPAddr:
		return v.IP
	}
	return nil
}
