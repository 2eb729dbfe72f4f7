package user

import (
	"net/http"

	"gymdesk/internal/api"
	"gymdesk/internal/server/validation"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      Register a staff account
// @Description  Sends a six digit verification code to the given email.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body user.RegisterRequest true "Registration payload"
// @Success      201 {object} user.User
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if errs := validation.ValidateStruct(req); len(errs) > 0 {
		validation.RespondWithValidationErrors(c, errs)
		return
	}

	u, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		switch err {
		case ErrEmailExists:
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Email already registered"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to register"})
		}
		return
	}

	c.JSON(http.StatusCreated, u)
}

// @Summary      Verify an email address
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body user.VerifyEmailRequest true "Verification payload"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Router       /auth/verify-email [post]
func (h *Handler) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.service.VerifyEmail(c.Request.Context(), req); err != nil {
		switch err {
		case ErrInvalidCode:
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid or expired code"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to verify email"})
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Email verified"})
}

// @Summary      Resend the verification code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body user.ResendVerificationRequest true "Resend payload"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /auth/resend-verification [post]
func (h *Handler) ResendVerification(c *gin.Context) {
	var req ResendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.service.ResendVerification(c.Request.Context(), req.Email); err != nil {
		switch err {
		case ErrUserNotFound:
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "User not found"})
		case ErrAlreadyVerified:
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Email already verified"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to resend verification code"})
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Verification code sent"})
}

// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body user.LoginRequest true "Credentials"
// @Success      200 {object} user.LoginResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		switch err {
		case ErrInvalidCredentials:
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Invalid credentials"})
		case ErrEmailNotVerified:
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "Email not verified", Code: "EMAIL_NOT_VERIFIED"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to log in"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary      Refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body user.RefreshRequest true "Refresh token"
// @Success      200 {object} user.TokenPair
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	pair, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Invalid token"})
		return
	}

	c.JSON(http.StatusOK, pair)
}

// @Summary      Request a password reset code
// @Description  Responds identically whether or not the email is registered.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body user.ForgotPasswordRequest true "Email"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Router       /auth/forgot-password [post]
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.service.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to process request"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "If the email is registered, a reset code has been sent"})
}

// @Summary      Reset a password with an emailed code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body user.ResetPasswordRequest true "Reset payload"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Router       /auth/reset-password [post]
func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req); err != nil {
		switch err {
		case ErrInvalidCode:
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid or expired code"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to reset password"})
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Password updated"})
}
