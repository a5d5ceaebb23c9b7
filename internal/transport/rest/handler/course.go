package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"liveform/internal/model"
	"liveform/internal/service"
	"liveform/internal/transport/rest/middleware"
)

// CourseHandler handles course endpoints
type CourseHandler struct {
	courseSvc *service.CourseService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courseSvc *service.CourseService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// Create handles POST /v1/courses
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var def model.CourseDefinition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	course, err := h.courseSvc.CreateCourse(r.Context(), userID, def)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, course)
}

// Import handles POST /v1/courses/import with a list of course definitions
func (h *CourseHandler) Import(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var defs []model.CourseDefinition
	if err := json.NewDecoder(r.Body).Decode(&defs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	courses, err := h.courseSvc.ImportCourses(r.Context(), userID, defs)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, courses)
}

// List handles GET /v1/courses
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	courses, err := h.courseSvc.ListCourses(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, courses)
}

// Get handles GET /v1/courses/{courseId}
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	courseID := mux.Vars(r)["courseId"]

	course, err := h.courseSvc.GetCourse(r.Context(), courseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, course)
}
