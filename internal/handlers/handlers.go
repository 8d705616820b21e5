package handlers

import (
	"context"
	"net/http"

	"github.com/JPGarCar/tridu-server/internal/auth"
	"github.com/JPGarCar/tridu-server/internal/services"
)

// Services bundles the service dependencies of the HTTP layer
type Services struct {
	Users        services.UserServicer
	Locations    services.LocationServicer
	Races        services.RaceServicer
	RaceTypes    services.RaceTypeServicer
	Heats        services.HeatServicer
	Schedule     services.ScheduleServicer
	CheckIns     services.CheckInServicer
	Participants services.ParticipantServicer
	RelayTeams   services.RelayTeamServicer
	Comments     services.CommentServicer
	Wetbags      services.WetbagServicer
}

// WebSocketServer accepts websocket upgrades
type WebSocketServer interface {
	ServeWs(w http.ResponseWriter, r *http.Request)
}

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Services
	Auth           *auth.Auth
	Hub            WebSocketServer
	DB             Pinger
	Log            HTTPLogger
	AllowedOrigins []string
	openAPI        []byte
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// New creates a new Handlers instance with all dependencies
func New(
	svc Services,
	authn *auth.Auth,
	hub WebSocketServer,
	db Pinger,
	openAPI []byte,
	allowedOrigins []string,
	log HTTPLogger,
) *Handlers {
	return &Handlers{
		Services:       svc,
		Auth:           authn,
		Hub:            hub,
		DB:             db,
		Log:            log,
		AllowedOrigins: allowedOrigins,
		openAPI:        openAPI,
	}
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }

// TestSecret signs the tokens of handlers built with NewForTesting
const TestSecret = "test-secret"

// NewForTesting creates a Handlers instance without a websocket hub or API
// document. Tokens are signed with TestSecret.
func NewForTesting(svc Services) *Handlers {
	return &Handlers{
		Services: svc,
		Auth:     auth.New(TestSecret, 0),
		Log:      NoopHTTPLogger{},
	}
}
