package services

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/pomoflow/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthUserRepository interface {
	ExistsByNormalizedEmail(email string) (bool, error)
	ExistsByUsername(username string) (bool, error)
	FindByNormalizedEmail(email string) (models.User, error)
	FindByUsername(username string) (models.User, error)
	FindByID(userID uint) (models.User, error)
	Create(user *models.User) error
	Save(user *models.User) error
}

type AuthService struct {
	users AuthUserRepository
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account on the trial plan, the way fresh
// signups always start out.
func (service *AuthService) Register(email string, username string, password string, now time.Time) (models.User, error) {
	email = NormalizeEmail(email)
	username = strings.TrimSpace(username)

	emailTaken, err := service.users.ExistsByNormalizedEmail(email)
	if err != nil {
		return models.User{}, err
	}
	if emailTaken {
		return models.User{}, ErrEmailTaken
	}

	usernameTaken, err := service.users.ExistsByUsername(username)
	if err != nil {
		return models.User{}, err
	}
	if usernameTaken {
		return models.User{}, ErrUsernameTaken
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	trialStart := now
	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(passwordHash),
		Plan:         models.PlanTrial,
		TrialStart:   &trialStart,
		Cycles:       0,
		CreatedAt:    now,
	}
	if err := service.users.Create(&user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Authenticate accepts either an email or a username as the login
// identifier, mirroring the login form.
func (service *AuthService) Authenticate(identifier string, password string) (models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return models.User{}, ErrInvalidCredentials
	}

	var user models.User
	var err error
	if strings.Contains(identifier, "@") {
		user, err = service.users.FindByNormalizedEmail(NormalizeEmail(identifier))
	} else {
		user, err = service.users.FindByUsername(identifier)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	return service.users.FindByID(userID)
}
