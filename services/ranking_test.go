package services

import (
	"testing"
	"time"

	"playlight-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankingScoreWeights(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	createdAt := now.AddDate(0, 0, -60) // old enough for zero age bonus

	// 10 clicks*2 + 4 referrals + round(25 opens*0.1) + 3 likes*10 = 20+4+3+30 = 57
	got := RankingScore(10, 25, 4, 3, createdAt, 1.0, now)
	assert.Equal(t, int64(57), got)

	// Boost factor scales the whole sum.
	got = RankingScore(10, 25, 4, 3, createdAt, 2.0, now)
	assert.Equal(t, int64(114), got)
}

func TestRankingScoreAgeBonusOnly(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	// Fresh game with no activity: score is purely the novelty bonus.
	for _, tc := range []struct {
		days  int
		boost float64
		want  int64
	}{
		{0, 1.0, 6000},
		{10, 1.0, 4000},
		{29, 1.0, 200},
		{30, 1.0, 0},
		{10, 1.5, 6000},
	} {
		createdAt := now.AddDate(0, 0, -tc.days)
		got := RankingScore(0, 0, 0, 0, createdAt, tc.boost, now)
		assert.Equal(t, tc.want, got, "days=%d boost=%v", tc.days, tc.boost)
	}
}

func TestRankingScoreAgeUsesCalendarDays(t *testing.T) {
	// Created at 23:00, scored 90 minutes later: under 24 h elapsed, but a
	// calendar day has turned, so the game is one day old.
	createdAt := time.Date(2026, 8, 31, 23, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 0, 30, 0, 0, time.UTC)

	got := RankingScore(0, 0, 0, 0, createdAt, 1.0, now)
	assert.Equal(t, int64(5800), got)

	// Same calendar day, whatever the hour gap: age zero.
	sameDay := time.Date(2026, 8, 31, 0, 5, 0, 0, time.UTC)
	got = RankingScore(0, 0, 0, 0, sameDay, 1.0, time.Date(2026, 8, 31, 23, 55, 0, 0, time.UTC))
	assert.Equal(t, int64(6000), got)
}

func TestRankingScoreFutureCreationClampsToZeroAge(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	createdAt := now.Add(48 * time.Hour)

	got := RankingScore(0, 0, 0, 0, createdAt, 1.0, now)
	assert.Equal(t, int64(6000), got)
}

func TestRankGamesOrderingAndAggregation(t *testing.T) {
	db := newTestDB(t)
	svc := NewPlatformService(db)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	old := now.AddDate(0, 0, -90)
	quiet := models.Game{Name: "Quiet", Category: "puzzle", Domain: "quiet.example", OwnerID: 1, BoostFactor: 1.0, CreatedAt: old}
	busy := models.Game{Name: "Busy", Category: "puzzle", Domain: "busy.example", OwnerID: 1, BoostFactor: 1.0, CreatedAt: old}
	require.NoError(t, db.Create(&quiet).Error)
	require.NoError(t, db.Create(&busy).Error)

	// Two days of activity for the busy game; summed across rows.
	day1 := utcMidnight(now.AddDate(0, 0, -2))
	day2 := utcMidnight(now.AddDate(0, 0, -1))
	require.NoError(t, db.Create(&models.Statistic{GameID: busy.ID, Date: day1, Clicks: 5, PlaylightOpens: 10}).Error)
	require.NoError(t, db.Create(&models.Statistic{GameID: busy.ID, Date: day2, Clicks: 3, Referrals: 2}).Error)

	ranked, total, err := svc.rankGames("", "")
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	// busy: 8 clicks*2 + 2 referrals + round(10*0.1) = 19; quiet: 0
	require.Len(t, ranked, 2)
	assert.Equal(t, "Busy", ranked[0].Name)
	assert.Equal(t, int64(19), ranked[0].RankingScore)
	assert.Equal(t, "Quiet", ranked[1].Name)
	assert.Equal(t, int64(0), ranked[1].RankingScore)
}

func TestRankGamesTieBreakIsDeterministic(t *testing.T) {
	db := newTestDB(t)
	svc := NewPlatformService(db)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	old := now.AddDate(0, 0, -90)
	newer := now.AddDate(0, 0, -60)
	a := models.Game{Name: "A", Category: "arcade", Domain: "a.example", OwnerID: 1, BoostFactor: 1.0, CreatedAt: old}
	b := models.Game{Name: "B", Category: "arcade", Domain: "b.example", OwnerID: 1, BoostFactor: 1.0, CreatedAt: newer}
	require.NoError(t, db.Create(&a).Error)
	require.NoError(t, db.Create(&b).Error)

	ranked, _, err := svc.rankGames("", "")
	require.NoError(t, err)

	// Equal scores: the newer game wins the tie.
	require.Len(t, ranked, 2)
	assert.Equal(t, "B", ranked[0].Name)
	assert.Equal(t, "A", ranked[1].Name)
}

func TestRankGamesFilters(t *testing.T) {
	db := newTestDB(t)
	svc := NewPlatformService(db)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	old := now.AddDate(0, 0, -90)
	games := []models.Game{
		{Name: "P1", Category: "puzzle", Domain: "p1.example", OwnerID: 1, BoostFactor: 1.0, CreatedAt: old},
		{Name: "P2", Category: "puzzle", Domain: "p2.example", OwnerID: 1, BoostFactor: 1.0, CreatedAt: old},
		{Name: "R1", Category: "racing", Domain: "r1.example", OwnerID: 1, BoostFactor: 1.0, CreatedAt: old},
	}
	for i := range games {
		require.NoError(t, db.Create(&games[i]).Error)
	}

	ranked, total, err := svc.rankGames("puzzle", "")
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, g := range ranked {
		assert.Equal(t, "puzzle", g.Category)
	}

	// The exclude-domain filter drops the requesting game itself.
	ranked, total, err = svc.rankGames("puzzle", "p1.example")
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "P2", ranked[0].Name)

	// No filters returns the full candidate set.
	_, total, err = svc.rankGames("", "")
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestGetSuggestionsBackfillsFromOtherCategories(t *testing.T) {
	db := newTestDB(t)
	svc := NewPlatformService(db)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	old := now.AddDate(0, 0, -90)
	require.NoError(t, db.Create(&models.Game{Name: "OnlyPuzzle", Category: "puzzle", Domain: "op.example", OwnerID: 1, BoostFactor: 1.0, CreatedAt: old}).Error)
	require.NoError(t, db.Create(&models.Game{Name: "Racer", Category: "racing", Domain: "racer.example", OwnerID: 1, BoostFactor: 1.0, CreatedAt: old}).Error)

	app := fiber.New()
	app.Get("/platform/suggestions/:category?", svc.GetSuggestions)

	resp, err := app.Test(jsonRequest("GET", "/platform/suggestions/puzzle", nil))
	require.NoError(t, err)
	body := decodeBody(t, resp)

	games := body["games"].([]interface{})
	// One puzzle game plus the racing game backfilling the short page.
	require.Len(t, games, 2)
	first := games[0].(map[string]interface{})
	second := games[1].(map[string]interface{})
	assert.Equal(t, "OnlyPuzzle", first["name"])
	assert.Equal(t, "Racer", second["name"])

	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pagination["currentPage"])
	assert.Equal(t, float64(1), pagination["totalGames"])
}

func TestGetSuggestionsPaginates(t *testing.T) {
	db := newTestDB(t)
	svc := NewPlatformService(db)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	old := now.AddDate(0, 0, -90)
	for i := 0; i < SuggestionsPageSize+5; i++ {
		g := models.Game{
			Name: "G", Category: "arcade",
			Domain:  "g" + string(rune('a'+i)) + ".example",
			OwnerID: 1, BoostFactor: 1.0, CreatedAt: old.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, db.Create(&g).Error)
	}

	app := fiber.New()
	app.Get("/platform/suggestions/:category?", svc.GetSuggestions)

	resp, err := app.Test(jsonRequest("GET", "/platform/suggestions?page=1", nil))
	require.NoError(t, err)
	body := decodeBody(t, resp)
	assert.Len(t, body["games"].([]interface{}), SuggestionsPageSize)

	resp, err = app.Test(jsonRequest("GET", "/platform/suggestions?page=2", nil))
	require.NoError(t, err)
	body = decodeBody(t, resp)
	assert.Len(t, body["games"].([]interface{}), 5)

	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["totalPages"])
	assert.Equal(t, float64(SuggestionsPageSize+5), pagination["totalGames"])
}
