// services/statistics.go
package services

import (
	"errors"
	"log"
	"time"

	"playlight-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	statColumnClicks    = "clicks"
	statColumnOpens     = "playlight_opens"
	statColumnReferrals = "referrals"
)

// utcMidnight truncates a time to its UTC calendar day. All daily counters
// are keyed on this value.
func utcMidnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// incrementDailyCounter upserts the (game, day) row in a single statement:
// insert the row with the counter at 1, or bump the counter in place when
// the row exists. Riding on the unique index keeps concurrent first-events
// for the same day from racing each other.
func incrementDailyCounter(tx *gorm.DB, gameID uint, day time.Time, column string) error {
	stat := models.Statistic{GameID: gameID, Date: day}
	switch column {
	case statColumnClicks:
		stat.Clicks = 1
	case statColumnOpens:
		stat.PlaylightOpens = 1
	case statColumnReferrals:
		stat.Referrals = 1
	}

	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "game_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			column: gorm.Expr(column + " + 1"),
		}),
	}).Create(&stat).Error
}

// RecordOpenEvent attributes a widget-open event to the game registered for
// the submitted domain and bumps today's open counter.
func (s *PlatformService) RecordOpenEvent(c *fiber.Ctx) error {
	var body struct {
		Domain string `json:"domain"`
	}
	if err := c.BodyParser(&body); err != nil || body.Domain == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Domain is required."})
	}

	var game models.Game
	if err := s.DB.Where("domain = ?", body.Domain).First(&game).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Could not find game for this domain."})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record open event."})
	}

	if err := incrementDailyCounter(s.DB, game.ID, utcMidnight(s.Now()), statColumnOpens); err != nil {
		log.Printf("❌ [STATS] open event for game %d: %v", game.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record open event."})
	}

	return c.JSON(fiber.Map{"success": true})
}

// RecordClickEvent records a referral click from a source game's embedded
// surface to a target game: the target's clicks and the source's referrals
// move together in one transaction, so a failure can never leave half the
// record behind.
func (s *PlatformService) RecordClickEvent(c *fiber.Ctx) error {
	var body struct {
		GameID       uint   `json:"gameId"`
		SourceDomain string `json:"sourceDomain"`
	}
	if err := c.BodyParser(&body); err != nil || body.GameID == 0 || body.SourceDomain == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Game ID and source domain are required."})
	}

	var sourceGame models.Game
	if err := s.DB.Where("domain = ?", body.SourceDomain).First(&sourceGame).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Invalid game reference."})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record click event."})
	}

	var targetGame models.Game
	if err := s.DB.First(&targetGame, body.GameID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Invalid game reference."})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record click event."})
	}

	today := utcMidnight(s.Now())
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := incrementDailyCounter(tx, targetGame.ID, today, statColumnClicks); err != nil {
			return err
		}
		return incrementDailyCounter(tx, sourceGame.ID, today, statColumnReferrals)
	})
	if err != nil {
		log.Printf("❌ [STATS] click event %d<-%s: %v", targetGame.ID, body.SourceDomain, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record click event."})
	}

	return c.JSON(fiber.Map{"success": true})
}
