package api

import (
	"encoding/json"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Kerhoff/FamilyBoT/internal/models"
	"github.com/Kerhoff/FamilyBoT/internal/service"
)

type familyResponse struct {
	*models.Marriage
	Kids  int    `json:"kids"`
	Title string `json:"title"`
}

type profileResponse struct {
	UserID       int64                 `json:"user_id"`
	Job          *models.UserJob       `json:"job"`
	Marriage     *models.Marriage      `json:"marriage,omitempty"`
	PartnerID    int64                 `json:"partner_id,omitempty"`
	DaysMarried  int                   `json:"days_married"`
	Kids         int                   `json:"kids"`
	Budget       int64                 `json:"budget"`
	Level        int                   `json:"level,omitempty"`
	Title        string                `json:"title,omitempty"`
	Achievements []service.Achievement `json:"achievements"`
}

type questResponse struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Progress    int    `json:"progress"`
	Target      int    `json:"target"`
	Completed   bool   `json:"completed"`
	Reward      int64  `json:"reward"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Ping(r.Context()); err != nil {
		s.logger.WithError(err).Warn("Health check failed")
		s.respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok", "time": s.svc.Now().Format(time.RFC3339)})
}

func (s *Server) handleGetShop(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Catalog(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if items == nil {
		items = []*models.ShopItem{}
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetFamilies(w http.ResponseWriter, r *http.Request) {
	chatID, err := pathInt(r, "chatID")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	families, err := s.svc.Families(r.Context(), chatID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	resp := make([]familyResponse, 0, len(families))
	for _, f := range families {
		resp = append(resp, familyResponse{Marriage: f.Marriage, Kids: f.Kids, Title: f.Title})
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	chatID, userID, ok := s.chatUser(w, r)
	if !ok {
		return
	}

	p, err := s.svc.ProfileView(r.Context(), userID, chatID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	resp := profileResponse{
		UserID:       p.UserID,
		Job:          p.Job,
		Marriage:     p.Marriage,
		PartnerID:    p.PartnerID,
		DaysMarried:  p.DaysMarried,
		Kids:         p.Kids,
		Budget:       p.Budget,
		Achievements: p.Achievements,
	}
	if p.Level != nil {
		resp.Level = p.Level.Level
		resp.Title = p.Level.Title
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetQuests(w http.ResponseWriter, r *http.Request) {
	chatID, userID, ok := s.chatUser(w, r)
	if !ok {
		return
	}

	views, err := s.svc.QuestViews(r.Context(), userID, chatID)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	resp := make([]questResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, questResponse{
			Type:        v.Quest.QuestType,
			Description: v.Description,
			Progress:    v.Quest.Progress,
			Target:      v.Quest.Target,
			Completed:   v.Quest.Completed,
			Reward:      v.Reward,
		})
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// handleWebhook accepts an update and processes it in the background;
// Telegram only needs a quick 200.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid update")
		return
	}
	s.updates.HandleWebhook(update)
	w.WriteHeader(http.StatusOK)
}
