package rest

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"liveform/internal/service"
	"liveform/internal/transport/rest/handler"
	"liveform/internal/transport/rest/middleware"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService          *service.AuthService
	CourseService        *service.CourseService
	FormService          *service.FormService
	ParticipationService *service.ParticipationService
	LiveService          *service.LiveService
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	courseHandler := handler.NewCourseHandler(c.CourseService)
	formHandler := handler.NewFormHandler(c.FormService, c.ParticipationService)
	liveHandler := handler.NewLiveHandler(c.LiveService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)
	limiter := middleware.NewIPRateLimiter(60, 10, 5*time.Minute)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes (rate limited)
	public := v1.NewRoute().Subrouter()
	public.Use(limiter.Limit)
	public.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	public.HandleFunc("/auth/guest", authHandler.Guest).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Authenticated routes (instructors and participants)
	userRoutes := v1.NewRoute().Subrouter()
	userRoutes.Use(authMW.RequireUser)

	userRoutes.HandleFunc("/live", liveHandler.List).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/connect/{code}", formHandler.Connect).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/courses/{courseId}", courseHandler.Get).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/courses/{courseId}/feedback/forms/{formId}", formHandler.GetFeedbackForm).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/courses/{courseId}/quiz/forms/{formId}", formHandler.GetQuizForm).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/courses/{courseId}/forms/{formId}/participate", formHandler.Join).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/courses/{courseId}/forms/{formId}/answers", formHandler.SubmitAnswer).Methods("POST", "OPTIONS")

	// Instructor routes
	instructorRoutes := v1.NewRoute().Subrouter()
	instructorRoutes.Use(authMW.RequireInstructor)

	instructorRoutes.HandleFunc("/courses", courseHandler.Create).Methods("POST", "OPTIONS")
	instructorRoutes.HandleFunc("/courses", courseHandler.List).Methods("GET", "OPTIONS")
	instructorRoutes.HandleFunc("/courses/import", courseHandler.Import).Methods("POST", "OPTIONS")
	instructorRoutes.HandleFunc("/courses/{courseId}/feedback/forms", formHandler.CreateFeedbackForm).Methods("POST", "OPTIONS")
	instructorRoutes.HandleFunc("/courses/{courseId}/quiz/forms", formHandler.CreateQuizForm).Methods("POST", "OPTIONS")
	instructorRoutes.HandleFunc("/courses/{courseId}/feedback/forms/{formKey}", formHandler.UpdateFeedbackForm).Methods("PUT", "OPTIONS")
	instructorRoutes.HandleFunc("/courses/{courseId}/quiz/forms/{formKey}", formHandler.UpdateQuizForm).Methods("PUT", "OPTIONS")
	instructorRoutes.HandleFunc("/courses/{courseId}/forms/{formId}/start", formHandler.Start).Methods("POST", "OPTIONS")
	instructorRoutes.HandleFunc("/courses/{courseId}/forms/{formId}/finish", formHandler.Finish).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
