package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bluebrandly-api/internal/domain"
	"github.com/bluebrandly-api/internal/service"
)

// Handler provides HTTP handlers for the API
type Handler struct {
	profiles *service.ProfileService
	waitlist *service.WaitlistService
	checkout *service.CheckoutService
	images   *service.ImageProxyService
	logger   *slog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	profiles *service.ProfileService,
	waitlist *service.WaitlistService,
	checkout *service.CheckoutService,
	images *service.ImageProxyService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		profiles: profiles,
		waitlist: waitlist,
		checkout: checkout,
		images:   images,
		logger:   logger,
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Router creates and configures the HTTP router
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(corsMiddleware)

	// Health check
	r.Get("/health", h.HealthCheck)
	r.Get("/ready", h.ReadyCheck)

	r.Route("/api", func(r chi.Router) {
		r.Get("/score/{handle}", h.GetScore)
		r.Post("/waitlist", h.JoinWaitlist)
		r.Post("/create-checkout-session", h.CreateCheckoutSession)
		r.Post("/verify-session", h.VerifySession)
		r.Get("/proxy-image", h.ProxyImage)
	})

	return r
}

// corsMiddleware adds CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a flat error JSON response
func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ReadyCheck returns service readiness status
func (h *Handler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// GetScore computes the full score payload for a handle
func (h *Handler) GetScore(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")
	if handle == "" {
		h.writeJSON(w, http.StatusBadRequest, APIResponse{
			Success: false,
			Error:   domain.ErrInvalidRequest.Error(),
		})
		return
	}

	result, err := h.profiles.Score(r.Context(), handle)
	if err != nil {
		h.logger.Error("failed to score profile", "handle", handle, "error", err)
		h.writeJSON(w, http.StatusInternalServerError, APIResponse{
			Success: false,
			Error:   domain.ErrProfileFetch.Error(),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    result,
	})
}

// JoinWaitlist upserts a waitlist entry and sends the welcome email
func (h *Handler) JoinWaitlist(w http.ResponseWriter, r *http.Request) {
	var req domain.WaitlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	if req.Email == "" {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	if err := h.waitlist.Register(r.Context(), req.Email, req.Status); err != nil {
		h.logger.Error("waitlist registration failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, domain.ErrWaitlistFailed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully added to waitlist"})
}

// CreateCheckoutSession opens a hosted checkout session for the deposit
func (h *Handler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req domain.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	if req.Email == "" || req.Amount <= 0 {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	sessionID, url, err := h.checkout.CreateSession(r.Context(), req)
	if err != nil {
		h.logger.Error("failed to create checkout session", "error", err)
		h.writeError(w, http.StatusInternalServerError, domain.ErrCheckoutFailed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"sessionId": sessionID,
		"url":       url,
	})
}

// VerifySession polls the checkout session and finalizes it when paid.
// An unpaid session fails with the same flat shape as any other error.
func (h *Handler) VerifySession(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifySessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	if req.SessionID == "" {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	session, err := h.checkout.VerifyAndFinalize(r.Context(), req.SessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrPaymentIncomplete) {
			h.logger.Error("session verification failed", "session_id", req.SessionID, "error", err)
		}
		h.writeError(w, http.StatusInternalServerError, domain.ErrSessionVerify)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"session": session})
}

// ProxyImage relays a remote image with CORS-open headers
func (h *Handler) ProxyImage(w http.ResponseWriter, r *http.Request) {
	imageURL := r.URL.Query().Get("url")
	if imageURL == "" {
		http.Error(w, "Missing URL parameter", http.StatusBadRequest)
		return
	}

	contentType, body, err := h.images.Fetch(r.Context(), imageURL)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			http.Error(w, "Invalid URL parameter", http.StatusBadRequest)
			return
		}
		h.logger.Error("image proxy failed", "url", imageURL, "error", err)
		http.Error(w, "Failed to fetch image", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Write(body)
}
