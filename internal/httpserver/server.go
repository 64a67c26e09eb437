package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/avp818/coach-hub/internal/auth"
	"github.com/avp818/coach-hub/internal/blob"
	"github.com/avp818/coach-hub/internal/clients"
	"github.com/avp818/coach-hub/internal/config"
	"github.com/avp818/coach-hub/internal/dashboard"
	"github.com/avp818/coach-hub/internal/diary"
	"github.com/avp818/coach-hub/internal/goals"
	"github.com/avp818/coach-hub/internal/invites"
	"github.com/avp818/coach-hub/internal/measurements"
	"github.com/avp818/coach-hub/internal/reports"
	"github.com/avp818/coach-hub/internal/storage"
	"github.com/avp818/coach-hub/internal/storage/memory"
	"github.com/avp818/coach-hub/internal/storage/postgres"
	"github.com/avp818/coach-hub/internal/surveys"
)

// Server wires storage, services and routes behind one handler.
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	storage        storage.Store
	authMiddleware *auth.Middleware
}

// New builds the server with all routes registered.
func New(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	s.initStorage()
	s.routes()
	return s
}

// initStorage connects to PostgreSQL or falls back to in-memory storage.
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("Using in-memory storage")
		s.storage = memory.New()
		return
	}

	log.Println("Connecting to PostgreSQL...")
	pgStorage, err := postgres.New(context.Background(), s.config.DatabaseURL)
	if err != nil {
		log.Printf("PostgreSQL connection failed: %v", err)
		log.Println("Falling back to in-memory storage")
		s.storage = memory.New()
		return
	}
	log.Println("PostgreSQL connected")
	s.storage = pgStorage
}

// routes registers every API route.
func (s *Server) routes() {
	// Health check (no auth required)
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	guard := clients.NewGuard(s.storage)

	// Auth API (no auth required)
	authService := auth.NewService(s.config, s.storage)
	s.authMiddleware = auth.NewMiddleware(authService)

	s.mux.HandleFunc("POST /v1/auth/register/trainer", auth.HandleRegisterTrainer(authService))
	s.mux.HandleFunc("POST /v1/auth/register/client", auth.HandleRegisterClient(authService))
	s.mux.HandleFunc("POST /v1/auth/login", auth.HandleLogin(authService))

	// Clients API
	clientsService := clients.NewService(s.storage, guard)
	s.mux.HandleFunc("GET /v1/clients", clients.HandleList(clientsService))
	s.mux.HandleFunc("GET /v1/clients/me", clients.HandleMe(clientsService))
	s.mux.HandleFunc("POST /v1/clients/me/trainer", clients.HandleChangeTrainer(clientsService))
	s.mux.HandleFunc("GET /v1/clients/{id}", clients.HandleGet(clientsService))
	s.mux.HandleFunc("POST /v1/clients/{id}/archive", clients.HandleArchive(clientsService))
	s.mux.HandleFunc("POST /v1/clients/{id}/unarchive", clients.HandleUnarchive(clientsService))

	// Invites API
	invitesService := invites.NewService(s.storage, guard, s.config)
	s.mux.HandleFunc("POST /v1/invites", invites.HandleCreate(invitesService))
	s.mux.HandleFunc("GET /v1/invites", invites.HandleList(invitesService))
	s.mux.HandleFunc("POST /v1/invites/{code}/deactivate", invites.HandleDeactivate(invitesService))

	// Diary API
	diaryService := diary.NewService(s.storage, guard)
	s.mux.HandleFunc("POST /v1/diary/sync", diary.HandleSync(diaryService))
	s.mux.HandleFunc("GET /v1/clients/{id}/diary", diary.HandleListDays(diaryService))
	s.mux.HandleFunc("GET /v1/clients/{id}/diary/{date}", diary.HandleGetDay(diaryService))

	// Measurements API
	blobStore, blobMode, err := blob.NewBlobStore(s.config.Blob, log.Default())
	if err != nil {
		log.Fatalf("FATAL blob: failed to initialize store: %v", err)
	}
	measurementsService := measurements.NewService(s.storage, guard, blobStore, blobMode, s.config)
	s.mux.HandleFunc("POST /v1/measurements/sync", measurements.HandleSync(measurementsService))
	s.mux.HandleFunc("POST /v1/measurements/photos", measurements.HandleUploadPhoto(measurementsService, s.config.UploadMaxMB))
	s.mux.HandleFunc("GET /v1/clients/{id}/measurements", measurements.HandleList(measurementsService))
	s.mux.HandleFunc("GET /v1/clients/{id}/measurements/{date}", measurements.HandleGet(measurementsService))
	s.mux.HandleFunc("GET /v1/clients/{id}/measurements/{date}/photos", measurements.HandleListPhotos(measurementsService))
	s.mux.HandleFunc("GET /v1/clients/{id}/photos/{photoID}", measurements.HandlePhotoBytes(measurementsService))

	// Surveys API
	surveysService := surveys.NewService(s.storage, guard)
	s.mux.HandleFunc("POST /v1/surveys/sync", surveys.HandleSync(surveysService))
	s.mux.HandleFunc("GET /v1/clients/{id}/surveys", surveys.HandleList(surveysService))

	// Goals API
	goalsService := goals.NewService(s.storage, guard)
	s.mux.HandleFunc("PUT /v1/goals", goals.HandlePut(goalsService))
	s.mux.HandleFunc("GET /v1/clients/{id}/goals", goals.HandleList(goalsService))

	// Dashboard API
	dashboardService := dashboard.NewService(s.storage, guard)
	s.mux.HandleFunc("GET /v1/dashboard/clients", dashboard.HandleClientSummaries(dashboardService))
	s.mux.HandleFunc("GET /v1/dashboard/clients/{id}/compliance", dashboard.HandleWeekHistory(dashboardService))

	// Reports API
	reportsService := reports.NewService(reports.NewGenerator(s.storage), guard, s.config)
	s.mux.HandleFunc("GET /v1/reports/weekly", reports.HandleWeekly(reportsService))
}

// handleHealthz reports server liveness.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Handler returns the full middleware chain, outermost first:
// CORS -> Rate Limit -> Auth -> Router.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	handler = s.authMiddleware.RequireAuth(handler)
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

// Start runs the HTTP server until it fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	log.Printf("Server listening on http://localhost%s\n", addr)
	log.Printf("Health check: http://localhost%s/healthz\n", addr)

	return http.ListenAndServe(addr, s.Handler())
}

// Close releases the storage resources.
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
