package api

import (
	"encoding/json"
	"net/http"

	"github.com/permissionhub/server/internal/api/respond"
	"github.com/permissionhub/server/internal/gamification"
)

// GamificationHandler exposes the derived health score, factors, and badges.
type GamificationHandler struct {
	engine *gamification.Engine
}

func NewGamificationHandler(engine *gamification.Engine) *GamificationHandler {
	return &GamificationHandler{engine: engine}
}

// Overview GET /api/gamification
func (h *GamificationHandler) Overview(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"score":              h.engine.HealthScore(),
		"factors":            h.engine.Factors(),
		"badges":             h.engine.Badges(),
		"recentAchievements": h.engine.RecentAchievements(),
	})
}

// ResetAchievements POST /api/gamification/achievements/reset
//
// Clears the recent-achievement notification set after the client has shown
// it, so later recomputations do not re-announce old badges.
func (h *GamificationHandler) ResetAchievements(w http.ResponseWriter, r *http.Request) {
	h.engine.ResetRecentAchievements()
	w.WriteHeader(http.StatusNoContent)
}

// SetProtection POST /api/gamification/protection
//
// The protection factor is not derived from permission counts; it is set
// here and simply participates in the score.
func (h *GamificationHandler) SetProtection(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Value int `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := h.engine.SetProtection(r.Context(), in.Value); err != nil {
		respond.ServiceError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"score":   h.engine.HealthScore(),
		"factors": h.engine.Factors(),
	})
}
