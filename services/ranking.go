// services/ranking.go
package services

import (
	"log"
	"math"
	"sort"
	"strconv"
	"time"

	"playlight-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const SuggestionsPageSize = 15

// RankedGame is a Game projected for the discovery widget, carrying its
// computed ranking score.
type RankedGame struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	Domain        string    `json:"domain"`
	LogoURL       string    `json:"logo_url"`
	CoverImageURL string    `json:"cover_image_url"`
	CoverVideoURL string    `json:"cover_video_url"`
	CreatedAt     time.Time `json:"created_at"`
	RankingScore  int64     `json:"ranking_score"`
}

type statTotals struct {
	GameID    uint
	Clicks    int64
	Opens     int64
	Referrals int64
}

// RankingScore computes the popularity/novelty score for one game.
// Lifetime click, open and referral sums are weighted, likes count ten-fold,
// games younger than 30 days get a decaying novelty bonus, and the whole sum
// is scaled by the per-game boost factor.
func RankingScore(clicks, opens, referrals, likes int64, createdAt time.Time, boost float64, now time.Time) int64 {
	clicksScore := clicks * 2
	referralsScore := referrals
	opensScore := int64(math.Round(float64(opens) * 0.1))
	likesScore := likes * 10

	// Age counts UTC calendar days, not elapsed 24-hour periods: a game
	// created late yesterday is one day old this morning. Future creation
	// times count as age zero.
	days := int64(utcMidnight(now).Sub(utcMidnight(createdAt)).Hours() / 24)
	if days < 0 {
		days = 0
	}
	var ageBonus int64
	if days < 30 {
		ageBonus = (30 - days) * 200
	}

	return int64(math.Round(float64(clicksScore+referralsScore+opensScore+likesScore+ageBonus) * boost))
}

// GetSuggestions returns a ranked, paginated game list.
// Optional filters: a category path parameter and an ?exclude=<domain> query
// parameter so a game never suggests itself. When a category page comes up
// short, games from other categories backfill the remainder.
func (s *PlatformService) GetSuggestions(c *fiber.Ctx) error {
	category := c.Params("category")
	excludeDomain := c.Query("exclude")
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	ranked, total, err := s.rankGames(category, excludeDomain)
	if err != nil {
		log.Printf("❌ [RANKING] failed to rank games: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch game suggestions."})
	}

	offset := (page - 1) * SuggestionsPageSize
	var pageGames []RankedGame
	if offset < len(ranked) {
		end := offset + SuggestionsPageSize
		if end > len(ranked) {
			end = len(ranked)
		}
		pageGames = ranked[offset:end]
	}

	// Backfill a short category page from the rest of the catalog.
	if category != "" && len(pageGames) < SuggestionsPageSize {
		needed := SuggestionsPageSize - len(pageGames)
		others, _, err := s.rankGamesExcludingCategory(category, excludeDomain)
		if err != nil {
			log.Printf("❌ [RANKING] failed to backfill suggestions: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch game suggestions."})
		}
		if needed > len(others) {
			needed = len(others)
		}
		pageGames = append(pageGames, others[:needed]...)
	}

	totalPages := (total + SuggestionsPageSize - 1) / SuggestionsPageSize

	return c.JSON(fiber.Map{
		"games": pageGames,
		"pagination": fiber.Map{
			"currentPage": page,
			"totalPages":  totalPages,
			"totalGames":  total,
		},
	})
}

// rankGames scores and sorts every candidate game for the given filters.
// Aggregation is a single grouped query over the statistics table, so the
// query count stays constant regardless of catalog size. Scoring, sorting
// and pagination happen in memory — acceptable while the catalog is small;
// a database-side ranking becomes necessary once it is not.
func (s *PlatformService) rankGames(category, excludeDomain string) ([]RankedGame, int, error) {
	query := s.DB.Model(&models.Game{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if excludeDomain != "" {
		query = query.Where("domain <> ?", excludeDomain)
	}
	return s.scoreCandidates(query)
}

func (s *PlatformService) rankGamesExcludingCategory(category, excludeDomain string) ([]RankedGame, int, error) {
	query := s.DB.Model(&models.Game{}).Where("category <> ?", category)
	if excludeDomain != "" {
		query = query.Where("domain <> ?", excludeDomain)
	}
	return s.scoreCandidates(query)
}

func (s *PlatformService) scoreCandidates(query *gorm.DB) ([]RankedGame, int, error) {
	var games []models.Game
	if err := query.Find(&games).Error; err != nil {
		return nil, 0, err
	}

	var totals []statTotals
	err := s.DB.Model(&models.Statistic{}).
		Select("game_id, SUM(clicks) AS clicks, SUM(playlight_opens) AS opens, SUM(referrals) AS referrals").
		Group("game_id").
		Scan(&totals).Error
	if err != nil {
		return nil, 0, err
	}

	totalsByGame := make(map[uint]statTotals, len(totals))
	for _, t := range totals {
		totalsByGame[t.GameID] = t
	}

	now := s.Now()
	ranked := make([]RankedGame, 0, len(games))
	for _, g := range games {
		t := totalsByGame[g.ID]
		ranked = append(ranked, RankedGame{
			ID:            g.ID,
			Name:          g.Name,
			Category:      g.Category,
			Description:   g.Description,
			Domain:        g.Domain,
			LogoURL:       g.LogoURL,
			CoverImageURL: g.CoverImageURL,
			CoverVideoURL: g.CoverVideoURL,
			CreatedAt:     g.CreatedAt,
			RankingScore:  RankingScore(t.Clicks, t.Opens, t.Referrals, g.Likes, g.CreatedAt, g.BoostFactor, now),
		})
	}

	// Equal scores break ties on creation time (newest first), then ID,
	// so pagination is stable across requests.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].RankingScore != ranked[j].RankingScore {
			return ranked[i].RankingScore > ranked[j].RankingScore
		}
		if !ranked[i].CreatedAt.Equal(ranked[j].CreatedAt) {
			return ranked[i].CreatedAt.After(ranked[j].CreatedAt)
		}
		return ranked[i].ID < ranked[j].ID
	})

	return ranked, len(ranked), nil
}
