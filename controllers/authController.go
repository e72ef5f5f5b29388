package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"contactus-backend/database"
	"contactus-backend/middlewares"
)

type AuthController struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
}

func NewAuthController(db *gorm.DB, secret []byte, ttl time.Duration) *AuthController {
	return &AuthController{db: db, secret: secret, ttl: ttl}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /api/admin/login.
func (h *AuthController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := database.FindStaffByEmail(c.UserContext(), h.db, req.Email)
	if errors.Is(err, database.ErrStaffNotFound) {
		return invalidCredentials(c)
	}
	if err != nil {
		return err
	}
	if err := user.ComparePassword(req.Password); err != nil {
		return invalidCredentials(c)
	}

	token, err := middlewares.GenerateJWT(h.secret, user.Id, user.Email, h.ttl)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":    user.Id,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

func invalidCredentials(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "invalid credentials",
	})
}
