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

const (
	categoriesCacheTTL = 10 * time.Second
	totalsCacheTTL     = 5 * time.Minute
)

// MonthlyTotals are the platform-wide counters for the current calendar month.
type MonthlyTotals struct {
	Clicks         int64 `json:"clicks"`
	PlaylightOpens int64 `json:"playlight_opens"`
	Referrals      int64 `json:"referrals"`
}

// PlatformService serves the public discovery surface: ranked suggestions,
// domain lookups, cached aggregates, open/click events and the like ledger.
type PlatformService struct {
	DB  *gorm.DB
	Now func() time.Time

	categoriesCache *utils.TTLCache[[]string]
	totalsCache     *utils.TTLCache[MonthlyTotals]
}

func NewPlatformService(db *gorm.DB) *PlatformService {
	return &PlatformService{
		DB:              db,
		Now:             time.Now,
		categoriesCache: utils.NewTTLCache[[]string](categoriesCacheTTL),
		totalsCache:     utils.NewTTLCache[MonthlyTotals](totalsCacheTTL),
	}
}

// gameByDomainResponse joins in the featured cross-reference when one is set
// and has not expired.
type gameByDomainResponse struct {
	ID           uint        `json:"id"`
	Name         string      `json:"name"`
	Category     string      `json:"category"`
	Description  string      `json:"description"`
	LogoURL      string      `json:"logo_url"`
	FeaturedGame *RankedGame `json:"featured_game,omitempty"`
}

// GetGameByDomain returns the game registered for a domain.
func (s *PlatformService) GetGameByDomain(c *fiber.Ctx) error {
	domain := c.Params("domain")

	var game models.Game
	if err := s.DB.Where("domain = ?", domain).First(&game).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Game not found for this domain."})
		}
		log.Printf("❌ [PLATFORM] game-by-domain %q: %v", domain, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch game details."})
	}

	resp := gameByDomainResponse{
		ID:          game.ID,
		Name:        game.Name,
		Category:    game.Category,
		Description: game.Description,
		LogoURL:     game.LogoURL,
	}

	if game.FeaturedGameID != nil && game.FeatureExpiresAt != nil && game.FeatureExpiresAt.After(s.Now()) {
		var featured models.Game
		if err := s.DB.First(&featured, *game.FeaturedGameID).Error; err == nil {
			resp.FeaturedGame = &RankedGame{
				ID:            featured.ID,
				Name:          featured.Name,
				Category:      featured.Category,
				Description:   featured.Description,
				Domain:        featured.Domain,
				LogoURL:       featured.LogoURL,
				CoverImageURL: featured.CoverImageURL,
				CoverVideoURL: featured.CoverVideoURL,
				CreatedAt:     featured.CreatedAt,
			}
		}
	}

	return c.JSON(resp)
}

// GetCategories returns the distinct categories currently in the catalog,
// behind a 10-second cache.
func (s *PlatformService) GetCategories(c *fiber.Ctx) error {
	categories, err := s.categoriesCache.Get(func() ([]string, error) {
		var result []string
		err := s.DB.Model(&models.Game{}).Distinct("category").Order("category").Pluck("category", &result).Error
		return result, err
	})
	if err != nil {
		log.Printf("❌ [PLATFORM] categories query: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch categories."})
	}
	return c.JSON(categories)
}

// GetTotalStatistics returns platform-wide counters for the current month,
// behind a 5-minute cache.
func (s *PlatformService) GetTotalStatistics(c *fiber.Ctx) error {
	totals, err := s.totalsCache.Get(func() (MonthlyTotals, error) {
		now := s.Now().UTC()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

		var t MonthlyTotals
		err := s.DB.Model(&models.Statistic{}).
			Select("COALESCE(SUM(clicks), 0) AS clicks, COALESCE(SUM(playlight_opens), 0) AS playlight_opens, COALESCE(SUM(referrals), 0) AS referrals").
			Where("date >= ?", monthStart).
			Scan(&t).Error
		return t, err
	})
	if err != nil {
		log.Printf("❌ [PLATFORM] total statistics query: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch total statistics."})
	}
	return c.JSON(totals)
}

// RateGame handles POST /platform/rating/:gameId/:action where action is
// "like" or "unlike". The Like row and the denormalized counter on the game
// move together inside one transaction.
func (s *PlatformService) RateGame(c *fiber.Ctx) error {
	gameID, err := strconv.ParseUint(c.Params("gameId"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid game id."})
	}
	action := c.Params("action")
	clientIP := c.IP()

	var game models.Game
	if err := s.DB.First(&game, uint(gameID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Game not found."})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	switch action {
	case "like":
		return s.likeGame(c, game.ID, clientIP)
	case "unlike":
		return s.unlikeGame(c, game.ID, clientIP)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid action, use 'like' or 'unlike'."})
	}
}

func (s *PlatformService) likeGame(c *fiber.Ctx, gameID uint, clientIP string) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Like
		err := tx.Where("game_id = ? AND client_ip = ?", gameID, clientIP).First(&existing).Error
		if err == nil {
			return errAlreadyLiked
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(&models.Like{GameID: gameID, ClientIP: clientIP}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Game{}).Where("id = ?", gameID).
			UpdateColumn("likes", gorm.Expr("likes + 1")).Error
	})

	if errors.Is(err, errAlreadyLiked) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "You have already liked this game."})
	}
	if err != nil {
		log.Printf("❌ [RATING] like game %d: %v", gameID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record like."})
	}
	return c.JSON(fiber.Map{"success": true})
}

func (s *PlatformService) unlikeGame(c *fiber.Ctx, gameID uint, clientIP string) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("game_id = ? AND client_ip = ?", gameID, clientIP).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errNotLiked
		}
		return tx.Model(&models.Game{}).Where("id = ? AND likes > 0", gameID).
			UpdateColumn("likes", gorm.Expr("likes - 1")).Error
	})

	if errors.Is(err, errNotLiked) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You have not liked this game."})
	}
	if err != nil {
		log.Printf("❌ [RATING] unlike game %d: %v", gameID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to remove like."})
	}
	return c.JSON(fiber.Map{"success": true})
}

var (
	errAlreadyLiked = errors.New("already liked")
	errNotLiked     = errors.New("not liked")
)
