package services

import (
	"errors"
	"log"
	"strconv"
	"time"

	"playlight-backend/models"
	"playlight-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const gameListPageSize = 50

// GameService is the publisher-facing CRUD surface for game listings.
type GameService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewGameService(db *gorm.DB) *GameService {
	return &GameService{DB: db, Now: time.Now}
}

// loadCaller fetches the authenticated user set by the auth middleware.
func (s *GameService) loadCaller(c *fiber.Ctx) (*models.User, error) {
	userID, _ := c.Locals("user_id").(uint)
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListGames returns the caller's games (all games for admins) with
// pagination, free-text search and a category filter.
// The :id path parameter is the caller's user id.
func (s *GameService) ListGames(c *fiber.Ctx) error {
	user, err := s.loadCaller(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch games"})
	}

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	query := s.DB.Model(&models.Game{})
	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ? OR domain LIKE ?", pattern, pattern, pattern)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if !user.IsAdmin {
		query = query.Where("owner_id = ?", user.ID)
	}

	var games []models.Game
	err = query.Order("created_at DESC").
		Limit(gameListPageSize).
		Offset((page - 1) * gameListPageSize).
		Find(&games).Error
	if err != nil {
		log.Printf("❌ [GAME] list query failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch games"})
	}

	return c.JSON(fiber.Map{"games": games})
}

// CreateGame registers a new listing owned by the caller.
func (s *GameService) CreateGame(c *fiber.Ctx) error {
	var body struct {
		ID            uint   `json:"id"` // caller's user id, checked by auth middleware
		Name          string `json:"name"`
		Category      string `json:"category"`
		Description   string `json:"description"`
		Domain        string `json:"domain"`
		LogoURL       string `json:"logoUrl"`
		CoverImageURL string `json:"coverImageUrl"`
		CoverVideoURL string `json:"coverVideoUrl"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if body.Name == "" || body.Category == "" || body.Description == "" || body.Domain == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required fields"})
	}
	if len(body.Description) > 500 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Description too long"})
	}

	var existing models.Game
	if err := s.DB.Where("domain = ?", body.Domain).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Domain already registered"})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create game"})
	}

	game := models.Game{
		Name:          body.Name,
		Category:      body.Category,
		Description:   body.Description,
		Domain:        body.Domain,
		OwnerID:       body.ID,
		LogoURL:       body.LogoURL,
		CoverImageURL: body.CoverImageURL,
		CoverVideoURL: body.CoverVideoURL,
		BoostFactor:   1.0,
	}
	if err := s.DB.Create(&game).Error; err != nil {
		log.Printf("❌ [GAME] create failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create game"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Game created successfully", "id": game.ID})
}

// loadGameForOwner returns the game when the caller owns it or is an admin.
func (s *GameService) loadGameForOwner(c *fiber.Ctx, gameID uint) (*models.Game, error) {
	user, err := s.loadCaller(c)
	if err != nil {
		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var game models.Game
	if err := s.DB.First(&game, gameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Game not found"})
		}
		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if !user.IsAdmin && game.OwnerID != user.ID {
		return nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Unauthorized"})
	}
	return &game, nil
}

// UpdateGame edits a listing's metadata. Owner or admin only.
// PUT /game/:gameId — the caller id rides in the body for the auth check.
func (s *GameService) UpdateGame(c *fiber.Ctx) error {
	gameID, err := strconv.ParseUint(c.Params("gameId"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid game id"})
	}

	var body struct {
		Name          string `json:"name"`
		Category      string `json:"category"`
		Description   string `json:"description"`
		Domain        string `json:"domain"`
		LogoURL       string `json:"logoUrl"`
		CoverImageURL string `json:"coverImageUrl"`
		CoverVideoURL string `json:"coverVideoUrl"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if len(body.Description) > 500 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Description too long"})
	}

	game, errResp := s.loadGameForOwner(c, uint(gameID))
	if game == nil {
		return errResp
	}

	// Changing the domain must not collide with another listing.
	if body.Domain != "" && body.Domain != game.Domain {
		var other models.Game
		if err := s.DB.Where("domain = ? AND id <> ?", body.Domain, game.ID).First(&other).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Domain already registered"})
		}
		game.Domain = body.Domain
	}

	game.Name = body.Name
	game.Category = body.Category
	game.Description = body.Description
	game.LogoURL = body.LogoURL
	game.CoverImageURL = body.CoverImageURL
	game.CoverVideoURL = body.CoverVideoURL

	if err := s.DB.Save(game).Error; err != nil {
		log.Printf("❌ [GAME] update %d failed: %v", game.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update game"})
	}

	return c.JSON(fiber.Map{"message": "Game updated successfully"})
}

// DeleteGame removes a listing after a password re-check, cascading its
// statistics and like rows in the same transaction so no orphans remain.
func (s *GameService) DeleteGame(c *fiber.Ctx) error {
	gameID, err := strconv.ParseUint(c.Params("gameId"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid game id"})
	}

	var body struct {
		ID       uint   `json:"id"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil || body.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Password is required"})
	}

	user, err := s.loadCaller(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	if !utils.CheckPassword(body.Password, user.Password) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Invalid password"})
	}

	game, errResp := s.loadGameForOwner(c, uint(gameID))
	if game == nil {
		return errResp
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", game.ID).Delete(&models.Statistic{}).Error; err != nil {
			return err
		}
		if err := tx.Where("game_id = ?", game.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(game).Error
	})
	if err != nil {
		log.Printf("❌ [GAME] delete %d failed: %v", game.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete game"})
	}

	return c.JSON(fiber.Map{"message": "Game deleted successfully"})
}

// GetGameStatistics returns per-day counters for the caller's game over the
// requested range (default 7 days), newest day first.
func (s *GameService) GetGameStatistics(c *fiber.Ctx) error {
	gameID, err := strconv.ParseUint(c.Params("gameId"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid game id"})
	}

	var body struct {
		ID   uint `json:"id"`
		Days int  `json:"days"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if body.Days <= 0 {
		body.Days = 7
	}

	game, errResp := s.loadGameForOwner(c, uint(gameID))
	if game == nil {
		return errResp
	}

	startDate := utcMidnight(s.Now().AddDate(0, 0, -body.Days))

	var stats []models.Statistic
	err = s.DB.Where("game_id = ? AND date >= ?", game.ID, startDate).
		Order("date DESC").
		Find(&stats).Error
	if err != nil {
		log.Printf("❌ [GAME] statistics query for %d failed: %v", game.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch statistics"})
	}

	return c.JSON(stats)
}
