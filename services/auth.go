// services/auth.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"edu-progression-system/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LoginService runs the credential check behind the login guard and keeps
// the login streak current. Session/token issuance belongs to the gateway;
// this service only answers "did the login succeed and what does the
// learner look like now".
type LoginService struct {
	DB    *gorm.DB
	Guard RateLimitStore
}

func NewLoginService(db *gorm.DB, guard RateLimitStore) *LoginService {
	return &LoginService{DB: db, Guard: guard}
}

// Login consumes one guarded attempt for the email, verifies the password
// and, on success, advances the streak and resets the guard window. A
// failed password still consumes the attempt.
func (s *LoginService) Login(ctx context.Context, email, password string, now time.Time) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	allowed, err := s.Guard.CheckAndConsume(ctx, email, now)
	if err != nil {
		return nil, err
	}
	if !allowed {
		loginDenialsTotal.Inc()
		return nil, fmt.Errorf("%w: too many attempts for %s", ErrRateLimited, email)
	}

	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			// Same error as a bad password so the response does not leak
			// which emails exist.
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user.Streak = NextStreak(now, user.LastLoginDate, user.Streak)
		today := DateOnly(now)
		user.LastLoginDate = &today
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.Guard.Reset(ctx, email); err != nil {
		// The login already succeeded; a stale guard window only costs the
		// user headroom on the next attempts.
		fmt.Printf("⚠️ login guard reset failed for %s: %v\n", email, err)
	}

	return &user, nil
}

// Register creates a learner account. Exists mainly for seeding and tests;
// learner signup flows live in the profile service.
func (s *LoginService) Register(ctx context.Context, email, password, displayName string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Level:        1,
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
