package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/pomoflow/internal/models"
	"github.com/terraincognita07/pomoflow/internal/services"
)

type registerInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// userSummary is the principal shape the client consumes. The password
// hash never leaves the server.
type userSummary struct {
	ID               uint       `json:"id"`
	Email            string     `json:"email"`
	Username         string     `json:"username"`
	Plan             string     `json:"plan"`
	TrialStart       *time.Time `json:"trialStart"`
	Cycles           int        `json:"cycles"`
	LastPomodoroDate *time.Time `json:"lastPomodoroDate"`
}

func summarizeUser(user *models.User) userSummary {
	return userSummary{
		ID:               user.ID,
		Email:            user.Email,
		Username:         user.Username,
		Plan:             user.Plan,
		TrialStart:       user.TrialStart,
		Cycles:           user.Cycles,
		LastPomodoroDate: user.LastPomodoroDate,
	}
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	input := registerInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	input.Username = strings.TrimSpace(input.Username)
	if strings.TrimSpace(input.Email) == "" || input.Username == "" || input.Password == "" {
		return apiError(c, fiber.StatusBadRequest, "email, username and password are required")
	}
	if len(input.Password) < 8 {
		return apiError(c, fiber.StatusBadRequest, "password must be at least 8 characters")
	}

	user, err := handler.authService.Register(input.Email, input.Username, input.Password, time.Now().In(handler.location))
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) || errors.Is(err, services.ErrUsernameTaken) {
			return apiError(c, fiber.StatusBadRequest, err.Error())
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to register")
	}

	if err := handler.setAuthCookie(c, &user); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.Status(fiber.StatusCreated).JSON(summarizeUser(&user))
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	input := loginInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	identifier := input.Email
	if strings.TrimSpace(identifier) == "" {
		identifier = input.Username
	}
	if strings.TrimSpace(identifier) == "" {
		return apiError(c, fiber.StatusBadRequest, "email or username is required")
	}

	now := time.Now().In(handler.location)
	limiterKey := loginLimiterKey(c, identifier)
	if handler.loginLimiter.blocked(limiterKey, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	user, err := handler.authService.Authenticate(identifier, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			handler.loginLimiter.fail(limiterKey, now)
			return apiError(c, fiber.StatusBadRequest, "invalid credentials")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to log in")
	}
	handler.loginLimiter.reset(limiterKey)

	if err := handler.setAuthCookie(c, &user); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.JSON(summarizeUser(&user))
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(summarizeUser(user))
}
