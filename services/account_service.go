package services

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"playlight-backend/models"
	"playlight-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AccountService handles registration, login, self-service deletion and
// the password-reset flow.
type AccountService struct {
	DB            *gorm.DB
	Mailer        utils.Mailer
	SessionSecret string
	ResetSecret   string
	SiteDomain    string
}

func NewAccountService(db *gorm.DB, mailer utils.Mailer, sessionSecret, resetSecret, siteDomain string) *AccountService {
	return &AccountService{
		DB:            db,
		Mailer:        mailer,
		SessionSecret: sessionSecret,
		ResetSecret:   resetSecret,
		SiteDomain:    siteDomain,
	}
}

// GetUser returns the authenticated caller's account row.
func (s *AccountService) GetUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Id is required."})
	}

	var user models.User
	if err := s.DB.First(&user, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found."})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "An error occurred getting the user."})
	}

	return c.JSON(fiber.Map{"user": user})
}

// Register creates an account for a whitelisted email.
func (s *AccountService) Register(c *fiber.Ctx) error {
	var body struct {
		UserName string `json:"userName"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil || body.UserName == "" || body.Email == "" || body.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Username, email, and password are required."})
	}

	userName := strings.TrimSpace(body.UserName)
	email := strings.ToLower(strings.TrimSpace(body.Email))

	if len(userName) < 4 || len(email) < 5 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Username or email are too short."})
	}
	if len(userName) > 50 || len(email) > 100 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Username or email are too long."})
	}

	// Whitelist membership is a hard precondition, whatever the password.
	var entry models.WhitelistEntry
	if err := s.DB.Where("email = ?", email).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Email not in whitelist. Registration is by invitation only."})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "An error occurred during registration."})
	}

	var existing models.User
	if err := s.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email is already in use."})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "An error occurred during registration."})
	}

	hashed, err := utils.HashPassword(body.Password)
	if err != nil {
		log.Printf("❌ [ACCOUNT] password hashing failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "An error occurred during registration."})
	}

	user := models.User{UserName: userName, Email: email, Password: hashed}
	if err := s.DB.Create(&user).Error; err != nil {
		log.Printf("❌ [ACCOUNT] failed to create user: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "An error occurred during registration."})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Registration successful."})
}

// Login verifies credentials and issues a 12-hour bearer token.
func (s *AccountService) Login(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil || body.Email == "" || body.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email and password are required."})
	}

	var user models.User
	if err := s.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(body.Email))).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid credentials."})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "An error occurred during login."})
	}

	if !utils.CheckPassword(body.Password, user.Password) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid credentials."})
	}

	token, err := utils.CreateSessionToken(user.ID, user.Email, s.SessionSecret)
	if err != nil {
		log.Printf("❌ [ACCOUNT] token generation failed for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "An error occurred during login."})
	}

	return c.JSON(fiber.Map{
		"message":     "Login successful",
		"bearerToken": token,
		"id":          user.ID,
		"userName":    user.UserName,
	})
}

// DeleteAccount removes the account after a password re-check. Nothing
// cascades on its own: owned games and their statistics and likes are
// deleted explicitly in the same transaction.
func (s *AccountService) DeleteAccount(c *fiber.Ctx) error {
	var body struct {
		ID       uint   `json:"id"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil || body.ID == 0 || body.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Id and password are required."})
	}

	var user models.User
	if err := s.DB.First(&user, body.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid credentials. User not found."})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "An error occurred during account deletion."})
	}

	if !utils.CheckPassword(body.Password, user.Password) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid credentials."})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var gameIDs []uint
		if err := tx.Model(&models.Game{}).Where("owner_id = ?", user.ID).Pluck("id", &gameIDs).Error; err != nil {
			return err
		}
		if len(gameIDs) > 0 {
			if err := tx.Where("game_id IN ?", gameIDs).Delete(&models.Statistic{}).Error; err != nil {
				return err
			}
			if err := tx.Where("game_id IN ?", gameIDs).Delete(&models.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", gameIDs).Delete(&models.Game{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		log.Printf("❌ [ACCOUNT] failed to delete user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "An error occurred during account deletion."})
	}

	return c.JSON(fiber.Map{"message": "Account deleted successfully."})
}

// RequestPasswordReset mails a signed, 1-hour reset link.
func (s *AccountService) RequestPasswordReset(c *fiber.Ctx) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&body); err != nil || body.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email is required."})
	}

	var user models.User
	if err := s.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(body.Email))).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No account with that email found."})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "An error occurred during password reset request."})
	}

	token, err := utils.CreateResetToken(user.ID, user.Email, s.ResetSecret)
	if err != nil {
		log.Printf("❌ [ACCOUNT] reset token generation failed for user %d: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "An error occurred during password reset request."})
	}

	resetURL := fmt.Sprintf("%s/login?token=%s", s.SiteDomain, token)
	if err := s.Mailer.Send(user.Email, "Password Reset",
		"Please click this link to reset your password: "+resetURL); err != nil {
		log.Printf("❌ [ACCOUNT] reset mail to %s failed: %v", user.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "An error occurred during password reset request."})
	}

	return c.JSON(fiber.Map{"message": "Password reset email sent."})
}

// ResetPassword verifies a reset token and stores the new password hash.
// A token stays usable until its expiry even after a successful reset.
func (s *AccountService) ResetPassword(c *fiber.Ctx) error {
	var body struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.BodyParser(&body); err != nil || body.Token == "" || body.NewPassword == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Token and new password are required."})
	}

	claims, err := utils.ParseToken(body.Token, s.ResetSecret)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Invalid or expired reset token."})
	}

	hashed, err := utils.HashPassword(body.NewPassword)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "An error occurred during password reset."})
	}

	res := s.DB.Model(&models.User{}).Where("id = ?", claims.UserID).Update("password", hashed)
	if res.Error != nil || res.RowsAffected == 0 {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "An error occurred during password reset."})
	}

	return c.JSON(fiber.Map{"message": "Password reset successfully."})
}
