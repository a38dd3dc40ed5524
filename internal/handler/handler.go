package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/finance-forecast/internal/export"
	"github.com/Dan9191/finance-forecast/internal/middleware"
	"github.com/Dan9191/finance-forecast/internal/service"
)

// ForecastService is the application surface the handlers expose
type ForecastService interface {
	Forecast(ctx context.Context, profileID int64, month, year int) (*service.ForecastResult, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type Handler struct {
	svc ForecastService
	log *logrus.Logger
	loc *time.Location
	now func() time.Time
}

func NewHandler(svc ForecastService, log *logrus.Logger, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{svc: svc, log: log, loc: loc, now: time.Now}
}

// Register mounts the public routes on r and the forecast routes behind authMW
func (h *Handler) Register(r *mux.Router, authMW mux.MiddlewareFunc) {
	// Public routes
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	// Protected routes
	auth := r.PathPrefix("/").Subrouter()
	auth.Use(authMW)
	auth.HandleFunc("/forecast", h.GetForecast).Methods(http.MethodGet)
	auth.HandleFunc("/forecast/export.xml", h.ExportForecast).Methods(http.MethodGet)
}

type errorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		h.log.Errorf("Login failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

// GetForecast returns the forecast of the caller's profile as JSON
func (h *Handler) GetForecast(w http.ResponseWriter, r *http.Request) {
	result, ok := h.forecast(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ExportForecast returns the forecast of the caller's profile as XML
func (h *Handler) ExportForecast(w http.ResponseWriter, r *http.Request) {
	result, ok := h.forecast(w, r)
	if !ok {
		return
	}

	period := time.Date(result.Year, time.Month(result.Month+1), 1, 0, 0, 0, 0, h.loc)
	doc := export.ForecastXML(period, result.Items, result.Summary)
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := doc.WriteTo(w); err != nil {
		h.log.Errorf("Failed to write XML export: %v", err)
	}
}

func (h *Handler) forecast(w http.ResponseWriter, r *http.Request) (*service.ForecastResult, bool) {
	now := h.now().In(h.loc)
	month, err := intParam(r, "month", int(now.Month())-1)
	if err != nil || month < 0 || month > 11 {
		writeError(w, http.StatusBadRequest, "month must be an integer between 0 and 11")
		return nil, false
	}
	year, err := intParam(r, "year", now.Year())
	if err != nil || year < 1 || year > 9999 {
		writeError(w, http.StatusBadRequest, "year must be a valid integer")
		return nil, false
	}

	profileID := middleware.ProfileIDFromContext(r.Context())
	result, err := h.svc.Forecast(r.Context(), profileID, month, year)
	if err != nil {
		h.log.WithField("request_id", middleware.RequestIDFromContext(r.Context())).
			Errorf("Failed to compose forecast for profile %d: %v", profileID, err)
		writeError(w, http.StatusInternalServerError, "Failed to compose forecast")
		return nil, false
	}
	return result, true
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Status: status, Message: message})
}
