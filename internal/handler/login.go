package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/osse101/posrelay/internal/auth"
	"github.com/osse101/posrelay/internal/domain"
	"github.com/osse101/posrelay/internal/metrics"
)

// LoginRequest carries an operator password
type LoginRequest struct {
	Password string `json:"password" validate:"required,max=256"`
}

// LoginResponse carries the capability token for the resolved role
type LoginResponse struct {
	Success   bool        `json:"success"`
	Role      domain.Role `json:"role"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// HandleLogin exchanges a password for a master or admin token.
// Wrong passwords are reported to recorder, which may be nil.
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Password"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/login [post]
func HandleLogin(svc Authenticator, recorder auth.FailureRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Login"); err != nil {
			return
		}

		res, err := svc.Login(r.Context(), req.Password)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidCredentials) {
				metrics.LoginAttempts.WithLabelValues(metrics.ResultFailure).Inc()
				if recorder != nil {
					recorder.RecordFailedAuth(r.RemoteAddr)
				}
			}
			respondServiceError(w, r, "Login", err)
			return
		}

		metrics.LoginAttempts.WithLabelValues(metrics.ResultSuccess).Inc()
		respondJSON(w, http.StatusOK, LoginResponse{
			Success:   true,
			Role:      res.Role,
			Token:     res.Token,
			ExpiresAt: res.ExpiresAt,
		})
	}
}
