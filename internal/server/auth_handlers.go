package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const unauthorizedNotice = "Your account is not authorized to access the admin panel."

// LoginPage describes the state of the login screen
type LoginPage struct {
	Step   string `json:"step"`
	Notice string `json:"notice,omitempty"`
}

// SendOTPRequest represents the first login step
type SendOTPRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"`
}

// SendOTPResponse acknowledges a passcode was mailed
type SendOTPResponse struct {
	Step    string `json:"step"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// VerifyOTPRequest represents the second login step
type VerifyOTPRequest struct {
	Email string `json:"email" form:"email" binding:"required,email"`
	OTP   string `json:"otp" form:"otp" binding:"required,otp"`
}

// loginPage renders the email step. The unauthorized reason only changes
// the notice shown; it never affects access.
func (s *Server) loginPage(c *gin.Context) {
	page := LoginPage{Step: "email"}
	if c.Query("error") == "unauthorized" {
		page.Notice = unauthorizedNotice
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) sendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid admin email is required"})
		return
	}

	if err := s.issuer.SendOTP(c.Request.Context(), req.Email); err != nil {
		respondWithError(c, s.logger, http.StatusBadGateway, err, "Failed to send OTP. Please try again.")
		return
	}

	s.logger.Info().Str("email", req.Email).Msg("OTP requested")

	c.JSON(http.StatusOK, SendOTPResponse{
		Step:    "otp",
		Email:   req.Email,
		Message: "Please check your email for the OTP code.",
	})
}

// verifyOTP exchanges the passcode for a session token and stores it in
// the session cookie. Authorization is not checked here; the gate does that
// on the first dashboard request.
func (s *Server) verifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and a 6-digit OTP are required"})
		return
	}

	token, err := s.issuer.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		respondWithError(c, s.logger, http.StatusUnauthorized, err, "Invalid OTP. Please try again.")
		return
	}

	store := newCookieStore(c, s.cookieOptions())
	if err := store.Write(token); err != nil {
		respondWithError(c, s.logger, http.StatusInternalServerError, err, "Failed to start session")
		return
	}

	s.logger.Info().Str("email", req.Email).Msg("Admin logged in")
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (s *Server) logout(c *gin.Context) {
	store := newCookieStore(c, s.cookieOptions())
	if err := store.Clear(); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to clear session cookie")
	}

	if err := s.gate.InvalidateCache(c.Request.Context()); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to invalidate allow-list cache")
	}

	c.Redirect(http.StatusSeeOther, "/")
}
