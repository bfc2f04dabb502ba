package testutil

import (
	"time"

	domaingames "github.com/preston-bernstein/sports-lines-service/internal/domain/games"
	"github.com/preston-bernstein/sports-lines-service/internal/providers"
)

// SampleGame returns a canonical scheduled NFL game with the provided id.
func SampleGame(id string) domaingames.Game {
	return domaingames.Game{
		ID:       id,
		Sport:    domaingames.SportNFL,
		HomeTeam: domaingames.Team{Name: "Home", Abbreviation: "HOM"},
		AwayTeam: domaingames.Team{Name: "Away", Abbreviation: "AWY"},
		Status:   domaingames.StatusScheduled,
		GameTime: time.Date(2024, 9, 8, 17, 0, 0, 0, time.UTC),
	}.WithDefaults()
}

// SampleLines returns NFL default lines for id.
func SampleLines(id string) domaingames.Lines {
	return domaingames.DefaultLines(id, domaingames.SportNFL)
}

// FlatPayload builds a flat upstream record with nested team objects.
func FlatPayload(id, status, gameTime string) providers.Payload {
	return providers.Payload{
		"id":       id,
		"homeTeam": map[string]any{"name": "Home " + id, "abbreviation": "H" + id},
		"awayTeam": map[string]any{"name": "Away " + id, "abbreviation": "A" + id},
		"status":   status,
		"gameTime": gameTime,
	}
}
