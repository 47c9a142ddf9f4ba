package repository

import (
	"time"

	"github.com/ryanwills/accounts-backend/internal/app/model"
	"github.com/ryanwills/accounts-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindAll() ([]model.User, error)
	Update(user *model.User) error
	Delete(id uint) error
	SetResetCode(userID uint, code string, expiresAt time.Time) error
	ConsumeResetCode(email, code, passwordHash string, now time.Time) (bool, error)
	ClearExpiredResetCodes(now time.Time) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"email": user.Email,
	})

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": user.Email,
		})
		return err
	}

	logger.Debug("User created in database", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAll() ([]model.User, error) {
	var users []model.User
	if err := r.db.Order("id").Find(&users).Error; err != nil {
		logger.Error("Failed to list users from database", err, nil)
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Update(user *model.User) error {
	logger.Debug("Updating user in database", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	if err := r.db.Save(user).Error; err != nil {
		logger.Error("Failed to update user in database", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}
	return nil
}

func (r *userRepository) Delete(id uint) error {
	logger.Debug("Deleting user from database", map[string]interface{}{
		"user_id": id,
	})

	if err := r.db.Delete(&model.User{}, id).Error; err != nil {
		logger.Error("Failed to delete user from database", err, map[string]interface{}{
			"user_id": id,
		})
		return err
	}
	return nil
}

// SetResetCode stores a reset code and its expiry in one UPDATE statement.
// A code already pending for the user is overwritten; only the most recent
// code is ever valid.
func (r *userRepository) SetResetCode(userID uint, code string, expiresAt time.Time) error {
	logger.Debug("Setting reset code in database", map[string]interface{}{
		"user_id": userID,
	})

	err := r.db.Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"reset_code":            code,
			"reset_code_expires_at": expiresAt,
		}).Error
	if err != nil {
		logger.Error("Failed to set reset code in database", err, map[string]interface{}{
			"user_id": userID,
		})
	}
	return err
}

// ConsumeResetCode atomically swaps the password hash and clears the reset
// code, conditional on the stored code matching and not being expired. The
// matched-row count is what enforces single use; there is no prior read.
func (r *userRepository) ConsumeResetCode(email, code, passwordHash string, now time.Time) (bool, error) {
	result := r.db.Model(&model.User{}).
		Where("email = ? AND reset_code = ? AND reset_code_expires_at > ?", email, code, now).
		Updates(map[string]interface{}{
			"password_hash":         passwordHash,
			"reset_code":            nil,
			"reset_code_expires_at": nil,
		})
	if result.Error != nil {
		logger.Error("Failed to consume reset code in database", result.Error, map[string]interface{}{
			"email": email,
		})
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ClearExpiredResetCodes removes stale codes. Purely hygiene: every check
// re-validates expiry, so correctness never depends on this running.
func (r *userRepository) ClearExpiredResetCodes(now time.Time) (int64, error) {
	result := r.db.Model(&model.User{}).
		Where("reset_code_expires_at IS NOT NULL AND reset_code_expires_at < ?", now).
		Updates(map[string]interface{}{
			"reset_code":            nil,
			"reset_code_expires_at": nil,
		})
	if result.Error != nil {
		logger.Error("Failed to clear expired reset codes from database", result.Error, nil)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
