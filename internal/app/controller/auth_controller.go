package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ryanwills/accounts-backend/internal/app/model"
	"github.com/ryanwills/accounts-backend/internal/app/service"
	apperrors "github.com/ryanwills/accounts-backend/internal/errors"
	"github.com/ryanwills/accounts-backend/internal/middleware"
	"github.com/ryanwills/accounts-backend/pkg/mailer"
)

type AuthController struct {
	authService          service.AuthService
	passwordResetService service.PasswordResetService
}

func NewAuthController(authService service.AuthService, passwordResetService service.PasswordResetService) *AuthController {
	return &AuthController{
		authService:          authService,
		passwordResetService: passwordResetService,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyResetCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// publicUser is the outward representation of an account. The credential
// hash and reset-code state never appear here.
func publicUser(user *model.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"name":       user.Name,
		"created_at": user.CreatedAt,
		"updated_at": user.UpdatedAt,
	}
}

// Register handles user registration
// POST /register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid registration details")
		return
	}

	user, token, err := ctrl.authService.Register(req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyExists):
			apperrors.BadRequest(c, apperrors.AuthEmailAlreadyExists, "Email is already in use")
		case errors.Is(err, service.ErrPasswordTooShort):
			apperrors.BadRequest(c, apperrors.ValidationTooShort, "Password must be at least 6 characters")
		default:
			log.Error("Registration failed", err, map[string]interface{}{
				"email": req.Email,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "register user")
		}
		return
	}

	log.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    publicUser(user),
		"token":   token,
	})
}

// Login handles user login
// POST /login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid login details")
		return
	}

	user, token, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			apperrors.BadRequest(c, apperrors.AuthInvalidCredentials, "Invalid email or password")
			return
		}
		log.Error("Login failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "login")
		return
	}

	log.Info("Login successful", map[string]interface{}{
		"user_id": user.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    publicUser(user),
		"token":   token,
	})
}

// ForgotPassword issues and emails a one-time reset code
// POST /forgot-password
func (ctrl *AuthController) ForgotPassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A valid email is required")
		return
	}

	if err := ctrl.passwordResetService.RequestReset(req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "No account found for that email")
		case errors.Is(err, mailer.ErrAuthFailed):
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.MailAuthFailed,
				"Email could not be sent: mail service authentication failed")
		case errors.Is(err, mailer.ErrUnreachable):
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.MailUnreachable,
				"Email could not be sent: mail service unreachable")
		default:
			log.Error("Password reset request failed", err, map[string]interface{}{
				"email": req.Email,
			})
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.MailSendFailed,
				"Email could not be sent. Please try again later")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "A reset code has been sent to your email",
	})
}

// VerifyResetCode checks a pending reset code without consuming it
// POST /verify-reset-code
func (ctrl *AuthController) VerifyResetCode(c *gin.Context) {
	var req VerifyResetCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Email and a 6-digit code are required")
		return
	}

	if err := ctrl.passwordResetService.VerifyCode(req.Email, req.Code); err != nil {
		respondResetError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reset code verified",
	})
}

// ResetPassword consumes a reset code and sets a new password
// POST /reset-password
func (ctrl *AuthController) ResetPassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Email, code and a new password are required")
		return
	}

	if err := ctrl.passwordResetService.ConsumeReset(req.Email, req.Code, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrPasswordTooShort) {
			apperrors.BadRequest(c, apperrors.ValidationTooShort, "Password must be at least 6 characters")
			return
		}
		respondResetError(c, err)
		if !errors.Is(err, service.ErrInvalidResetCode) && !errors.Is(err, service.ErrResetCodeExpired) {
			log.Error("Password reset failed", err, map[string]interface{}{
				"email": req.Email,
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password has been reset successfully",
	})
}

func respondResetError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidResetCode):
		apperrors.BadRequest(c, apperrors.AuthCodeInvalid, "Invalid reset code")
	case errors.Is(err, service.ErrResetCodeExpired):
		apperrors.BadRequest(c, apperrors.AuthCodeExpired, "Reset code has expired")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "reset password")
	}
}
