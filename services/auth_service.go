package services

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"starzup-platform/middleware"
	"starzup-platform/models"
	"starzup-platform/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService is the identity provider: it owns sign-up, sign-in and the
// session token. Everything downstream only ever sees the opaque user id
// and the admin capability resolved into the token at sign-in.
type AuthService struct {
	DB *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{DB: db}
}

// SignUp registers a new account with a zero balance. Accepts multipart
// form data so the optional avatar image can ride along; without one the
// generated initials avatar is used, same as the original sign-up flow.
func (s *AuthService) SignUp(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.FormValue("name"))
	email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))
	password := c.FormValue("password")

	if name == "" || email == "" || password == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name, email and password are required"})
	}
	if len(password) < 6 {
		return c.Status(400).JSON(fiber.Map{"error": "password must be at least 6 characters"})
	}

	var existing models.User
	if err := s.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		return c.Status(409).JSON(fiber.Map{"error": "email already registered"})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(503).JSON(fiber.Map{"error": "store unavailable, try again"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to hash password"})
	}

	avatarURL := defaultAvatarURL(name)
	if avatarFile, err := c.FormFile("avatar"); err == nil && avatarFile.Size > 0 {
		uploaded, err := utils.UploadAvatar(avatarFile)
		switch {
		case err == nil:
			avatarURL = uploaded
		case errors.Is(err, utils.ErrAvatarTooLarge), errors.Is(err, utils.ErrAvatarNotImage):
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		default:
			log.Printf("⚠️  avatar upload failed, falling back to generated avatar: %v", err)
		}
	}

	user := models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		AvatarURL:    avatarURL,
		Balance:      0,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		log.Printf("ERROR creating user: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to create account"})
	}

	token, err := middleware.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to issue session token"})
	}
	return c.Status(201).JSON(fiber.Map{
		"message": "account created",
		"token":   token,
		"user":    s.profileOf(&user),
	})
}

// SignIn verifies credentials and issues a session token carrying the
// user id and the admin capability.
func (s *AuthService) SignIn(c *fiber.Ctx) error {
	type Req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}

	var user models.User
	err := s.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(401).JSON(fiber.Map{"error": "invalid email or password"})
		}
		return c.Status(503).JSON(fiber.Map{"error": "store unavailable, try again"})
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return c.Status(401).JSON(fiber.Map{"error": "invalid email or password"})
	}

	token, err := middleware.GenerateToken(user.ID, user.IsAdmin)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to issue session token"})
	}
	return c.JSON(fiber.Map{
		"token": token,
		"user":  s.profileOf(&user),
	})
}

// Me returns the dashboard profile for the authenticated user.
func (s *AuthService) Me(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "user not found"})
		}
		return c.Status(503).JSON(fiber.Map{"error": "store unavailable, try again"})
	}
	return c.JSON(s.profileOf(&user))
}

// RecordMatchResult bumps a user's match counters. Admin only.
func (s *AuthService) RecordMatchResult(c *fiber.Ctx) error {
	userID := c.Params("id")
	type Req struct {
		Result string `json:"result"` // "win" or "loss"
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}

	updates := map[string]interface{}{
		"matches_played": gorm.Expr("matches_played + 1"),
	}
	switch req.Result {
	case "win":
		updates["wins"] = gorm.Expr("wins + 1")
	case "loss":
		updates["losses"] = gorm.Expr("losses + 1")
	default:
		return c.Status(400).JSON(fiber.Map{"error": "result must be 'win' or 'loss'"})
	}

	result := s.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB update failed"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "user not found"})
	}

	var user models.User
	s.DB.First(&user, "id = ?", userID)
	return c.JSON(s.profileOf(&user))
}

// GrantAdmin flips the admin capability on a user. Reachable only via
// the service-token internal route; the change takes effect on the
// user's next sign-in, since sessions carry the flag in the token.
func (s *AuthService) GrantAdmin(c *fiber.Ctx) error {
	userID := c.Params("id")
	result := s.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_admin", true)
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB update failed"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "user not found"})
	}
	log.Printf("✅ user %s granted admin", userID)
	return c.JSON(fiber.Map{"message": "admin granted", "user_id": userID})
}

func (s *AuthService) profileOf(user *models.User) models.UserProfile {
	var registered int64
	s.DB.Model(&models.Registration{}).
		Where("user_id = ?", user.ID).
		Count(&registered)
	return models.UserProfile{
		ID:                    user.ID,
		Name:                  user.Name,
		Email:                 user.Email,
		AvatarURL:             user.AvatarURL,
		Balance:               user.Balance,
		TournamentsRegistered: registered,
		MatchesPlayed:         user.MatchesPlayed,
		Wins:                  user.Wins,
		Losses:                user.Losses,
		IsAdmin:               user.IsAdmin,
	}
}

func defaultAvatarURL(name string) string {
	return fmt.Sprintf(
		"https://ui-avatars.com/api/?name=%s&background=8B5CF6&color=fff&size=400&bold=true",
		url.QueryEscape(name),
	)
}
