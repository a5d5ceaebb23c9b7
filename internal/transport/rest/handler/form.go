package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"liveform/internal/model"
	"liveform/internal/service"
	"liveform/internal/transport/rest/middleware"
)

// FormHandler handles form lifecycle and participation endpoints
type FormHandler struct {
	formSvc          *service.FormService
	participationSvc *service.ParticipationService
}

// NewFormHandler creates a new form handler
func NewFormHandler(formSvc *service.FormService, participationSvc *service.ParticipationService) *FormHandler {
	return &FormHandler{
		formSvc:          formSvc,
		participationSvc: participationSvc,
	}
}

// CreateFeedbackForm handles POST /v1/courses/{courseId}/feedback/forms
func (h *FormHandler) CreateFeedbackForm(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	courseID := mux.Vars(r)["courseId"]

	var def model.FormDefinition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form, err := h.formSvc.CreateFeedbackForm(r.Context(), userID, courseID, def)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, form)
}

// CreateQuizForm handles POST /v1/courses/{courseId}/quiz/forms
func (h *FormHandler) CreateQuizForm(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	courseID := mux.Vars(r)["courseId"]

	var def model.FormDefinition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form, err := h.formSvc.CreateQuizForm(r.Context(), userID, courseID, def)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, form)
}

// UpdateFeedbackForm handles PUT /v1/courses/{courseId}/feedback/forms/{formKey}
func (h *FormHandler) UpdateFeedbackForm(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	vars := mux.Vars(r)

	var def model.FormDefinition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form, err := h.formSvc.UpdateFeedbackForm(r.Context(), userID, vars["courseId"], vars["formKey"], def)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, form)
}

// UpdateQuizForm handles PUT /v1/courses/{courseId}/quiz/forms/{formKey}
func (h *FormHandler) UpdateQuizForm(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	vars := mux.Vars(r)

	var def model.FormDefinition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form, err := h.formSvc.UpdateQuizForm(r.Context(), userID, vars["courseId"], vars["formKey"], def)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, form)
}

// Start handles POST /v1/courses/{courseId}/forms/{formId}/start
func (h *FormHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	vars := mux.Vars(r)

	if err := h.formSvc.StartForm(r.Context(), userID, vars["courseId"], vars["formId"]); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": string(model.FormStarted)})
}

// Finish handles POST /v1/courses/{courseId}/forms/{formId}/finish
func (h *FormHandler) Finish(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	vars := mux.Vars(r)

	if err := h.formSvc.FinishForm(r.Context(), userID, vars["courseId"], vars["formId"]); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": string(model.FormFinished)})
}

// GetFeedbackForm handles GET /v1/courses/{courseId}/feedback/forms/{formId}?results=
func (h *FormHandler) GetFeedbackForm(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	vars := mux.Vars(r)
	results := r.URL.Query().Get("results") == "true"

	form, err := h.participationSvc.GetFeedbackForm(r.Context(), userID, vars["courseId"], vars["formId"], results)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, form)
}

// GetQuizForm handles GET /v1/courses/{courseId}/quiz/forms/{formId}?results=
func (h *FormHandler) GetQuizForm(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	vars := mux.Vars(r)
	results := r.URL.Query().Get("results") == "true"

	form, err := h.participationSvc.GetQuizForm(r.Context(), userID, vars["courseId"], vars["formId"], results)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, form)
}

// JoinRequest is the request body for joining a running form
type JoinRequest struct {
	Alias string `json:"alias"`
}

// Join handles POST /v1/courses/{courseId}/forms/{formId}/participate
func (h *FormHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	vars := mux.Vars(r)

	var req JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.participationSvc.Join(r.Context(), userID, vars["courseId"], vars["formId"], req.Alias); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "joined"})
}

// SubmitAnswerRequest is the request body for submitting an answer
type SubmitAnswerRequest struct {
	QuestionID string   `json:"questionId"`
	Values     []string `json:"values"`
}

// SubmitAnswer handles POST /v1/courses/{courseId}/forms/{formId}/answers
func (h *FormHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	vars := mux.Vars(r)

	var req SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.participationSvc.SubmitAnswer(r.Context(), userID, vars["courseId"], vars["formId"], req.QuestionID, req.Values)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

// Connect handles GET /v1/connect/{code}: resolves a connect code to the
// running session it belongs to.
func (h *FormHandler) Connect(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.Atoi(mux.Vars(r)["code"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "connect code must be numeric")
		return
	}

	form, err := h.participationSvc.FindByConnectCode(r.Context(), code)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, form)
}
