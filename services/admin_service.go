package services

import (
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"playlight-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminService covers whitelist management and the promotional knobs
// (boost factor, featured cross-references). All routes behind it are
// admin-gated.
type AdminService struct {
	DB *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{DB: db}
}

// AddToWhitelist pre-authorizes an email for registration.
func (s *AdminService) AddToWhitelist(c *fiber.Ctx) error {
	var body struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
	}
	if err := c.BodyParser(&body); err != nil || !strings.Contains(body.Email, "@") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Valid email is required."})
	}

	email := strings.ToLower(strings.TrimSpace(body.Email))

	var existing models.WhitelistEntry
	if err := s.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already in whitelist."})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add email to whitelist."})
	}

	if err := s.DB.Create(&models.WhitelistEntry{Email: email}).Error; err != nil {
		log.Printf("❌ [ADMIN] whitelist insert failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add email to whitelist."})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Email added to whitelist."})
}

// RemoveFromWhitelist revokes a pre-authorization.
func (s *AdminService) RemoveFromWhitelist(c *fiber.Ctx) error {
	email := strings.ToLower(c.Params("email"))

	if err := s.DB.Where("email = ?", email).Delete(&models.WhitelistEntry{}).Error; err != nil {
		log.Printf("❌ [ADMIN] whitelist delete failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to remove email from whitelist."})
	}

	return c.JSON(fiber.Map{"message": "Email removed from whitelist."})
}

// GetWhitelist lists every whitelisted email.
func (s *AdminService) GetWhitelist(c *fiber.Ctx) error {
	var entries []models.WhitelistEntry
	if err := s.DB.Order("created_at").Find(&entries).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch whitelist."})
	}
	return c.JSON(entries)
}

// SetBoostFactor adjusts a game's promotional multiplier.
func (s *AdminService) SetBoostFactor(c *fiber.Ctx) error {
	gameID, err := strconv.ParseUint(c.Params("gameId"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid game id."})
	}

	var body struct {
		ID          uint    `json:"id"`
		BoostFactor float64 `json:"boostFactor"`
	}
	if err := c.BodyParser(&body); err != nil || body.BoostFactor <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Boost factor must be positive."})
	}

	res := s.DB.Model(&models.Game{}).Where("id = ?", uint(gameID)).Update("boost_factor", body.BoostFactor)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update boost factor."})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Game not found."})
	}

	return c.JSON(fiber.Map{"message": "Boost factor updated."})
}

// SetFeaturedGame points a game's promotional slot at another game until
// the given expiry. The hourly sweep clears it once expired.
func (s *AdminService) SetFeaturedGame(c *fiber.Ctx) error {
	gameID, err := strconv.ParseUint(c.Params("gameId"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid game id."})
	}

	var body struct {
		ID             uint   `json:"id"`
		FeaturedGameID uint   `json:"featuredGameId"`
		ExpiresAt      string `json:"expiresAt"`
	}
	if err := c.BodyParser(&body); err != nil || body.FeaturedGameID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Featured game id is required."})
	}

	expiresAt, err := time.Parse(time.RFC3339, body.ExpiresAt)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid expiresAt — use RFC3339 (e.g., 2025-12-31T23:00:00Z)."})
	}

	var featured models.Game
	if err := s.DB.First(&featured, body.FeaturedGameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Featured game not found."})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	res := s.DB.Model(&models.Game{}).Where("id = ?", uint(gameID)).
		Updates(map[string]interface{}{"featured_game_id": featured.ID, "feature_expires_at": expiresAt})
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to set featured game."})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Game not found."})
	}

	return c.JSON(fiber.Map{"message": "Featured game set."})
}

// ClearFeaturedGame removes the promotional cross-reference immediately.
func (s *AdminService) ClearFeaturedGame(c *fiber.Ctx) error {
	gameID, err := strconv.ParseUint(c.Params("gameId"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid game id."})
	}

	res := s.DB.Model(&models.Game{}).Where("id = ?", uint(gameID)).
		Updates(map[string]interface{}{"featured_game_id": nil, "feature_expires_at": nil})
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to clear featured game."})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Game not found."})
	}

	return c.JSON(fiber.Map{"message": "Featured game cleared."})
}
