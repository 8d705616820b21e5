package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/JPGarCar/tridu-server/internal/auth"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

func (h *Handlers) corsOptions() cors.Options {
	origins := h.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(cors.Handler(h.corsOptions()))
	r.Use(middleware.Timeout(60 * time.Second))

	// API docs
	r.Get("/swagger/doc.json", h.handleOpenAPI)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// WebSocket
	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}

	// Public API
	r.Get("/api/health", h.handleHealth)
	r.Post("/api/auth/login", h.handleLogin)

	// Protected API
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAuthAPI)

		r.Get("/api/auth/me", h.handleMe)

		// Users
		r.Get("/api/users/{id}", h.handleGetUser)
		r.Get("/api/users/by_username/{username}", h.handleGetUserByUsername)
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireStaff)
			r.Get("/api/users", h.handleListUsers)
			r.Post("/api/users", h.handleRegister)
		})

		// Locations
		r.Get("/api/locations", h.handleListLocations)
		r.Post("/api/locations", h.handleGetOrCreateLocation)

		// Races
		r.Get("/api/races", h.handleListRaces)
		r.Post("/api/races", h.handleCreateRace)
		r.Route("/api/races/{id}", func(r chi.Router) {
			r.Get("/", h.handleGetRace)
			r.With(auth.RequireStaff).Delete("/", h.handleDeleteRace)
			r.Get("/stats", h.handleRaceStats)
			r.Get("/bib_info", h.handleRaceBibInfo)
			r.Get("/participants", h.handleRaceParticipants)
			r.Get("/participants/disabled", h.handleRaceDisabledParticipants)
			r.Get("/participants/invalid_swim_time", h.handleRaceInvalidSwimTimes)
			r.Get("/participations", h.handleRaceParticipations)
			r.Get("/relayteams", h.handleRaceRelayTeams)
			r.Get("/heats", h.handleRaceHeats)
			r.Get("/heats/auto_schedule/ready", h.handleAutoScheduleReady)
			r.Post("/heats/auto_schedule", h.handleAutoSchedule)
		})

		// Race types
		r.Get("/api/racetypes", h.handleListRaceTypes)
		r.Post("/api/racetypes", h.handleCreateRaceType)
		r.Get("/api/racetypes/{id}", h.handleGetRaceType)
		r.Patch("/api/racetypes/{id}", h.handleUpdateRaceType)
		r.With(auth.RequireStaff).Delete("/api/racetypes/{id}", h.handleDeleteRaceType)
		r.Put("/api/racetypes/{id}/checkins", h.handleSetRaceTypeCheckIns)

		// Heats
		r.Post("/api/heats", h.handleCreateHeat)
		r.Get("/api/heats/{id}", h.handleGetHeat)
		r.Patch("/api/heats/{id}", h.handleUpdateHeat)
		r.With(auth.RequireStaff).Delete("/api/heats/{id}", h.handleDeleteHeat)

		// Check-ins
		r.Get("/api/checkins", h.handleListCheckIns)
		r.Post("/api/checkins", h.handleCreateCheckIn)
		r.Get("/api/checkins/{id}", h.handleGetCheckIn)
		r.Put("/api/checkins/{id}", h.handleUpdateCheckIn)
		r.With(auth.RequireStaff).Delete("/api/checkins/{id}", h.handleDeleteCheckIn)
		r.Get("/api/checkins/{id}/chain", h.handleCheckInChain)

		// Participants
		r.Post("/api/participants", h.handleCreateParticipant)
		r.Post("/api/participants/import", h.handleImportParticipants)
		r.Get("/api/participants/recently_edited", h.handleRecentlyEdited)
		r.Route("/api/participants/{id}", func(r chi.Router) {
			r.Get("/", h.handleGetParticipant)
			r.Patch("/", h.handleUpdateParticipant)
			r.Patch("/deactivate", h.handleDeactivateParticipant)
			r.Patch("/reactivate", h.handleReactivateParticipant)
			r.Patch("/race_type/{raceType}", h.handleParticipantRaceType)
			r.Patch("/heat/{heat}", h.handleParticipantHeat)
			r.Patch("/remove_heat", h.handleParticipantRemoveHeat)
			r.Patch("/checkins/{checkin}", h.handleCheckInParticipant)
			r.Get("/comments", h.handleListComments(participantKind))
			r.Post("/comments", h.handleCreateComment(participantKind))
		})
		r.With(auth.RequireStaff).Delete("/api/participants/comments/{id}", h.handleDeleteComment(participantKind))

		// Relay teams
		r.Post("/api/relayteams", h.handleCreateRelayTeam)
		r.Get("/api/relayteams/name/{name}", h.handleGetRelayTeamByName)
		r.Route("/api/relayteams/{id}", func(r chi.Router) {
			r.Get("/", h.handleGetRelayTeam)
			r.Patch("/", h.handleUpdateRelayTeam)
			r.Patch("/deactivate", h.handleDeactivateRelayTeam)
			r.Patch("/reactivate", h.handleReactivateRelayTeam)
			r.Patch("/race_type/{raceType}", h.handleRelayTeamRaceType)
			r.Patch("/heat/{heat}", h.handleRelayTeamHeat)
			r.Patch("/remove_heat", h.handleRelayTeamRemoveHeat)
			r.Patch("/checkins/{checkin}", h.handleCheckInRelayTeam)
			r.Get("/comments", h.handleListComments(relayTeamKind))
			r.Post("/comments", h.handleCreateComment(relayTeamKind))
			r.Get("/participants", h.handleListRelayMembers)
			r.Post("/participants", h.handleAddRelayMember)
		})
		r.With(auth.RequireStaff).Delete("/api/relayteams/comments/{id}", h.handleDeleteComment(relayTeamKind))
		r.Get("/api/relayparticipants/{id}", h.handleGetRelayMember)
		r.Patch("/api/relayparticipants/{id}", h.handleUpdateRelayMember)

		// Wetbags
		r.Post("/api/wetbags", h.handleCreateWetbag)
		r.Post("/api/wetbags/heats/transfer/{raceID}", h.handleTransferHeats)
		r.Get("/api/wetbags/participant/{id}", h.handleEntrantWetbag(participantKind))
		r.Get("/api/wetbags/participant/{id}/can_have_wetbag", h.handleCanHaveWetbag(participantKind))
		r.Get("/api/wetbags/relay_team/{id}", h.handleEntrantWetbag(relayTeamKind))
		r.Get("/api/wetbags/relay_team/{id}/can_have_wetbag", h.handleCanHaveWetbag(relayTeamKind))
		r.Get("/api/wetbags/{wetbagID}", h.handleGetWetbag)
		r.Patch("/api/wetbags/{wetbagID}", h.handleUpdateWetbag)
		r.Get("/api/wetbags/{wetbagID}/qr", h.handleWetbagQR)
	})

	return r
}
