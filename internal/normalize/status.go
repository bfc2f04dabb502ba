package normalize

import (
	"strings"

	"github.com/preston-bernstein/sports-lines-service/internal/domain/games"
)

// deriveStatus resolves the game status with a fixed precedence so identical input
// always yields the same answer:
//
//  1. nested status.type.state (in, post, pre)
//  2. nested status.type.completed, only when no state is present
//  3. nested status.type.name (STATUS_IN_PROGRESS, STATUS_FINAL, ...)
//  4. flat flags: isLive before isFinal/completed
//  5. string literals in status, gameStatus, state, st
//  6. scheduled
func deriveStatus(env Envelope) games.GameStatus {
	statusType := asMap(nestedStatus(env)["type"])

	switch strings.ToLower(asString(statusType["state"])) {
	case "in":
		return games.StatusLive
	case "post":
		return games.StatusFinal
	case "pre":
		return games.StatusScheduled
	}

	if completed, ok := asBool(statusType["completed"]); ok && completed {
		return games.StatusFinal
	}

	if s, ok := statusFromName(asString(statusType["name"])); ok {
		return s
	}

	if s, ok := statusFromFlags(env.Raw); ok {
		return s
	}

	for _, key := range []string{"status", "gameStatus", "state", "st"} {
		if s, ok := statusFromText(asString(env.Raw[key])); ok {
			return s
		}
	}
	return games.StatusScheduled
}

func nestedStatus(env Envelope) map[string]any {
	if env.Competition != nil && env.Competition.status != nil {
		return env.Competition.status
	}
	return asMap(env.Raw["status"])
}

func statusFromName(name string) (games.GameStatus, bool) {
	switch strings.ToUpper(name) {
	case "STATUS_IN_PROGRESS", "STATUS_HALFTIME", "STATUS_END_PERIOD", "STATUS_FIRST_HALF",
		"STATUS_SECOND_HALF", "STATUS_OVERTIME", "STATUS_SHOOTOUT", "STATUS_DELAYED":
		return games.StatusLive, true
	case "STATUS_FINAL", "STATUS_FINAL_OT", "STATUS_FULL_TIME", "STATUS_END_OF_GAME":
		return games.StatusFinal, true
	case "STATUS_SCHEDULED", "STATUS_POSTPONED", "STATUS_CANCELED", "STATUS_TBD":
		return games.StatusScheduled, true
	}
	return "", false
}

func statusFromFlags(root map[string]any) (games.GameStatus, bool) {
	for _, key := range []string{"isLive", "is_live"} {
		if live, ok := asBool(root[key]); ok && live {
			return games.StatusLive, true
		}
	}
	for _, key := range []string{"isFinal", "is_final", "completed"} {
		if final, ok := asBool(root[key]); ok && final {
			return games.StatusFinal, true
		}
	}
	return "", false
}

var (
	finalTexts = map[string]struct{}{
		"final": {}, "f": {}, "f/ot": {}, "f/so": {}, "ft": {}, "post": {}, "completed": {},
		"complete": {}, "closed": {}, "ended": {}, "finished": {}, "game over": {},
	}
	liveTexts = map[string]struct{}{
		"live": {}, "in": {}, "in progress": {}, "in_progress": {}, "inprogress": {}, "halftime": {},
		"half": {}, "active": {}, "playing": {}, "ongoing": {}, "ot": {}, "end of period": {},
	}
	scheduledTexts = map[string]struct{}{
		"scheduled": {}, "pre": {}, "pregame": {}, "upcoming": {}, "not started": {}, "ns": {},
		"created": {}, "tbd": {}, "postponed": {}, "canceled": {}, "cancelled": {},
	}
)

// statusFromText classifies free-form status strings. Unknown text (a tip-off time, for
// example) is not a status and leaves the decision to later sources.
func statusFromText(raw string) (games.GameStatus, bool) {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return "", false
	}
	if _, ok := finalTexts[text]; ok {
		return games.StatusFinal, true
	}
	if strings.HasPrefix(text, "final") {
		return games.StatusFinal, true
	}
	if _, ok := liveTexts[text]; ok {
		return games.StatusLive, true
	}
	if _, ok := scheduledTexts[text]; ok {
		return games.StatusScheduled, true
	}
	for _, marker := range []string{"qtr", "quarter", "period", "inning", "half", "overtime"} {
		if strings.Contains(text, marker) {
			return games.StatusLive, true
		}
	}
	return "", false
}
