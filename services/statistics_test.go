package services

import (
	"net/http"
	"testing"
	"time"

	"playlight-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStatsFixture(t *testing.T) (*PlatformService, *fiber.App, models.Game, models.Game) {
	t.Helper()
	db := newTestDB(t)
	svc := NewPlatformService(db)
	now := time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	target := models.Game{Name: "Target", Category: "arcade", Domain: "target.example", OwnerID: 1, BoostFactor: 1.0}
	source := models.Game{Name: "Source", Category: "arcade", Domain: "a.com", OwnerID: 1, BoostFactor: 1.0}
	require.NoError(t, db.Create(&target).Error)
	require.NoError(t, db.Create(&source).Error)

	app := fiber.New()
	app.Post("/platform/event/open", svc.RecordOpenEvent)
	app.Post("/platform/event/click", svc.RecordClickEvent)
	return svc, app, target, source
}

func TestOpenEventUpsertsSingleDailyRow(t *testing.T) {
	svc, app, _, source := newStatsFixture(t)

	for i := 0; i < 3; i++ {
		resp, err := app.Test(jsonRequest("POST", "/platform/event/open", fiber.Map{"domain": "a.com"}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	var rows []models.Statistic
	require.NoError(t, svc.DB.Where("game_id = ?", source.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(3), rows[0].PlaylightOpens)
	assert.Equal(t, int64(0), rows[0].Clicks)
	assert.Equal(t, utcMidnight(svc.Now()), rows[0].Date.UTC())
}

func TestOpenEventUnknownDomain(t *testing.T) {
	_, app, _, _ := newStatsFixture(t)

	resp, err := app.Test(jsonRequest("POST", "/platform/event/open", fiber.Map{"domain": "nobody.example"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(jsonRequest("POST", "/platform/event/open", fiber.Map{}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestClickEventBumpsBothCounters(t *testing.T) {
	svc, app, target, source := newStatsFixture(t)

	resp, err := app.Test(jsonRequest("POST", "/platform/event/click", fiber.Map{
		"gameId":       target.ID,
		"sourceDomain": "a.com",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	today := utcMidnight(svc.Now())

	var targetRow models.Statistic
	require.NoError(t, svc.DB.Where("game_id = ? AND date = ?", target.ID, today).First(&targetRow).Error)
	assert.Equal(t, int64(1), targetRow.Clicks)
	assert.Equal(t, int64(0), targetRow.Referrals)

	var sourceRow models.Statistic
	require.NoError(t, svc.DB.Where("game_id = ? AND date = ?", source.ID, today).First(&sourceRow).Error)
	assert.Equal(t, int64(1), sourceRow.Referrals)
	assert.Equal(t, int64(0), sourceRow.Clicks)
}

func TestClickEventRejectsUnknownReferences(t *testing.T) {
	_, app, target, _ := newStatsFixture(t)

	resp, err := app.Test(jsonRequest("POST", "/platform/event/click", fiber.Map{
		"gameId": target.ID, "sourceDomain": "nobody.example",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(jsonRequest("POST", "/platform/event/click", fiber.Map{
		"gameId": 99999, "sourceDomain": "a.com",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPurgeOldStatistics(t *testing.T) {
	db := newTestDB(t)
	svc := NewPlatformService(db)
	now := time.Date(2026, 9, 1, 3, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	game := models.Game{Name: "G", Category: "arcade", Domain: "g.example", OwnerID: 1, BoostFactor: 1.0}
	require.NoError(t, db.Create(&game).Error)

	ancient := utcMidnight(now.AddDate(0, -7, 0))
	recent := utcMidnight(now.AddDate(0, 0, -3))
	require.NoError(t, db.Create(&models.Statistic{GameID: game.ID, Date: ancient, Clicks: 4}).Error)
	require.NoError(t, db.Create(&models.Statistic{GameID: game.ID, Date: recent, Clicks: 7}).Error)

	require.NoError(t, svc.PurgeOldStatistics())
	// Idempotent: a second run is a no-op.
	require.NoError(t, svc.PurgeOldStatistics())

	var rows []models.Statistic
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(7), rows[0].Clicks)
}

func TestClearExpiredFeatures(t *testing.T) {
	db := newTestDB(t)
	svc := NewPlatformService(db)
	now := time.Date(2026, 9, 1, 3, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	featured := models.Game{Name: "F", Category: "arcade", Domain: "f.example", OwnerID: 1, BoostFactor: 1.0}
	require.NoError(t, db.Create(&featured).Error)

	expired := now.Add(-time.Hour)
	live := now.Add(time.Hour)
	gone := models.Game{Name: "Gone", Category: "arcade", Domain: "gone.example", OwnerID: 1, BoostFactor: 1.0, FeaturedGameID: &featured.ID, FeatureExpiresAt: &expired}
	kept := models.Game{Name: "Kept", Category: "arcade", Domain: "kept.example", OwnerID: 1, BoostFactor: 1.0, FeaturedGameID: &featured.ID, FeatureExpiresAt: &live}
	require.NoError(t, db.Create(&gone).Error)
	require.NoError(t, db.Create(&kept).Error)

	require.NoError(t, svc.ClearExpiredFeatures())

	var clearedGame models.Game
	require.NoError(t, db.First(&clearedGame, gone.ID).Error)
	assert.Nil(t, clearedGame.FeaturedGameID)
	assert.Nil(t, clearedGame.FeatureExpiresAt)

	// Fresh struct: reusing the first one would carry its primary key into
	// the query conditions.
	var keptGame models.Game
	require.NoError(t, db.First(&keptGame, kept.ID).Error)
	assert.NotNil(t, keptGame.FeaturedGameID)
}
