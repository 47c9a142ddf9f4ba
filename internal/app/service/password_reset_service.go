package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/ryanwills/accounts-backend/internal/app/repository"
	"github.com/ryanwills/accounts-backend/pkg/logger"
	"github.com/ryanwills/accounts-backend/pkg/mailer"
	"github.com/ryanwills/accounts-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrInvalidResetCode = errors.New("invalid reset code")
	ErrResetCodeExpired = errors.New("reset code has expired")
)

// ResetCodeExpiry is the duration for which a reset code is valid
const ResetCodeExpiry = 15 * time.Minute

type PasswordResetService interface {
	RequestReset(email string) error
	VerifyCode(email, code string) error
	ConsumeReset(email, code, newPassword string) error
}

type passwordResetService struct {
	userRepo repository.UserRepository
	mailer   mailer.Mailer
}

func NewPasswordResetService(userRepo repository.UserRepository, m mailer.Mailer) PasswordResetService {
	return &passwordResetService{
		userRepo: userRepo,
		mailer:   m,
	}
}

// RequestReset issues a fresh 6-digit code for the account and emails it.
// A code already pending for the account is overwritten; only the most
// recent code is ever valid.
func (s *passwordResetService) RequestReset(email string) error {
	email = NormalizeEmail(email)

	logger.Info("Processing password reset request", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Password reset requested for non-existent email", map[string]interface{}{
				"email": email,
			})
			return ErrUserNotFound
		}
		logger.Error("Failed to find user for password reset", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	code, err := util.GenerateResetCode()
	if err != nil {
		logger.Error("Failed to generate reset code", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	expiresAt := time.Now().Add(ResetCodeExpiry)
	if err := s.userRepo.SetResetCode(user.ID, code, expiresAt); err != nil {
		return err
	}

	if err := s.mailer.Send(email, "Your password reset code", resetCodeBody(code)); err != nil {
		logger.Error("Failed to deliver reset code email", err, map[string]interface{}{
			"email":   email,
			"user_id": user.ID,
		})
		return err
	}

	logger.Info("Password reset code issued", map[string]interface{}{
		"user_id":    user.ID,
		"expires_at": expiresAt,
	})
	return nil
}

// VerifyCode checks a pending code without consuming it.
func (s *passwordResetService) VerifyCode(email, code string) error {
	email = NormalizeEmail(email)

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetCode
		}
		return err
	}

	if !user.HasPendingReset() || *user.ResetCode != code {
		logger.Warn("Reset code verification failed: no matching code", map[string]interface{}{
			"user_id": user.ID,
		})
		return ErrInvalidResetCode
	}

	if time.Now().After(*user.ResetCodeExpiresAt) {
		logger.Warn("Reset code verification failed: code expired", map[string]interface{}{
			"user_id":    user.ID,
			"expires_at": user.ResetCodeExpiresAt,
		})
		return ErrResetCodeExpired
	}

	return nil
}

// ConsumeReset validates the code and swaps in the new password. The
// credential update and the code clear happen in one conditional UPDATE,
// so a code can never be consumed twice. Any failure leaves the pending
// code untouched.
func (s *passwordResetService) ConsumeReset(email, code, newPassword string) error {
	email = NormalizeEmail(email)

	logger.Info("Processing password reset", map[string]interface{}{
		"email": email,
	})

	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	hashedPassword, err := util.HashPassword(newPassword)
	if err != nil {
		logger.Error("Failed to hash new password", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	consumed, err := s.userRepo.ConsumeResetCode(email, code, hashedPassword, time.Now())
	if err != nil {
		return err
	}
	if consumed {
		logger.Info("Password reset successful", map[string]interface{}{
			"email": email,
		})
		return nil
	}

	// The conditional update matched nothing; one re-read decides which
	// failure to report
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetCode
		}
		return err
	}
	if user.HasPendingReset() && *user.ResetCode == code && time.Now().After(*user.ResetCodeExpiresAt) {
		logger.Warn("Password reset failed: code expired", map[string]interface{}{
			"user_id": user.ID,
		})
		return ErrResetCodeExpired
	}

	logger.Warn("Password reset failed: invalid code", map[string]interface{}{
		"user_id": user.ID,
	})
	return ErrInvalidResetCode
}

func resetCodeBody(code string) string {
	return fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; padding: 20px;">
	<div style="max-width: 600px; margin: 0 auto;">
		<h1 style="color: #333;">Password reset</h1>
		<p style="color: #666; line-height: 1.6;">
			A password reset was requested for your account.<br>
			Enter the code below to choose a new password.
		</p>
		<div style="background-color: #f8f9fa; padding: 30px; border-radius: 8px; text-align: center;">
			<h2 style="color: #333; margin: 0; font-size: 36px; letter-spacing: 4px;">%s</h2>
		</div>
		<p style="color: #999; font-size: 14px;">
			* This code is valid for 15 minutes.
		</p>
		<p style="color: #999; font-size: 14px;">
			* If you did not request this, you can safely ignore this email.
		</p>
	</div>
</body>
</html>
`, code)
}
