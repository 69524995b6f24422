package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sunudico/sunudico-backend/internal/pkg/apierr"
	"github.com/sunudico/sunudico-backend/internal/pkg/logger"
	"github.com/sunudico/sunudico-backend/internal/requestdata"
	"github.com/sunudico/sunudico-backend/internal/services"
)

type RecommendationHandler struct {
	log    *logger.Logger
	recSvc services.RecommendationService
}

func NewRecommendationHandler(log *logger.Logger, recSvc services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		log:    log.With("handler", "RecommendationHandler"),
		recSvc: recSvc,
	}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func intQuery(c *gin.Context, key string, def int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func csvQuery(c *gin.Context, key string) []string {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GET /api/recommendations
func (h *RecommendationHandler) GetPersonal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "not_authenticated", fmt.Errorf("missing user identity"))
		return
	}

	opts := services.PersonalOptions{
		Limit:      intQuery(c, "limit", 0),
		Type:       strings.TrimSpace(c.Query("type")),
		Languages:  csvQuery(c, "languages"),
		Categories: csvQuery(c, "categories"),
		Refresh:    strings.EqualFold(c.Query("refresh"), "true"),
	}

	resp, err := h.recSvc.GetPersonalRecommendations(c.Request.Context(), userID, opts)
	if err != nil {
		RespondError(c, apierr.StatusOf(err), apierr.CodeOf(err), err)
		return
	}
	RespondOK(c, resp)
}

// GET /api/recommendations/trending
func (h *RecommendationHandler) GetTrending(c *gin.Context) {
	region := strings.TrimSpace(c.Query("region"))
	period := strings.TrimSpace(c.Query("period"))
	limit := intQuery(c, "limit", 0)

	resp, err := h.recSvc.GetTrendingRecommendations(c.Request.Context(), region, period, limit)
	if err != nil {
		RespondError(c, apierr.StatusOf(err), apierr.CodeOf(err), err)
		return
	}
	RespondOK(c, resp)
}

// GET /api/recommendations/linguistic
func (h *RecommendationHandler) GetLinguistic(c *gin.Context) {
	language := strings.TrimSpace(c.Query("language"))
	level := intQuery(c, "level", 0)
	limit := intQuery(c, "limit", 0)

	resp, err := h.recSvc.GetLinguisticRecommendations(c.Request.Context(), language, level, limit)
	if err != nil {
		RespondError(c, apierr.StatusOf(err), apierr.CodeOf(err), err)
		return
	}
	RespondOK(c, resp)
}

// POST /api/recommendations/feedback
func (h *RecommendationHandler) PostFeedback(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "not_authenticated", fmt.Errorf("missing user identity"))
		return
	}

	var req struct {
		EntryID      string `json:"entry_id"`
		FeedbackType string `json:"feedback_type"`
		Reason       string `json:"reason,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("invalid request body"))
		return
	}
	entryID, err := uuid.Parse(strings.TrimSpace(req.EntryID))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_entry_id", fmt.Errorf("entry_id must be a uuid"))
		return
	}

	ack, err := h.recSvc.RecordFeedback(c.Request.Context(), userID, services.FeedbackInput{
		EntryID: entryID,
		Type:    strings.TrimSpace(req.FeedbackType),
		Reason:  strings.TrimSpace(req.Reason),
	})
	if err != nil {
		RespondError(c, apierr.StatusOf(err), apierr.CodeOf(err), err)
		return
	}
	RespondOK(c, ack)
}

// GET /api/recommendations/explain/:entryId
func (h *RecommendationHandler) GetExplanation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "not_authenticated", fmt.Errorf("missing user identity"))
		return
	}
	entryID, err := uuid.Parse(strings.TrimSpace(c.Param("entryId")))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_entry_id", fmt.Errorf("entry id must be a uuid"))
		return
	}

	explanation, err := h.recSvc.ExplainRecommendation(c.Request.Context(), userID, entryID)
	if err != nil {
		RespondError(c, apierr.StatusOf(err), apierr.CodeOf(err), err)
		return
	}
	RespondOK(c, explanation)
}
