package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"seoulholic-bot/internal/bootstrap"
	"seoulholic-bot/internal/repository"
	"seoulholic-bot/internal/transport/http/response"
)

// AdminHandler exposes the operational surface: knowledge reloads, cache
// inspection, and transcript review. All routes sit behind JWT auth.
type AdminHandler struct {
	app            *bootstrap.App
	transcriptRepo *repository.TranscriptRepository
}

func NewAdminHandler(app *bootstrap.App, transcriptRepo *repository.TranscriptRepository) *AdminHandler {
	return &AdminHandler{
		app:            app,
		transcriptRepo: transcriptRepo,
	}
}

// ReloadKnowledge re-reads the knowledge directory and re-embeds every
// document, then clears the response cache so stale answers die with the
// old documents.
func (h *AdminHandler) ReloadKnowledge(c *gin.Context) {
	if err := h.app.Knowledge.Load(c.Request.Context()); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "knowledge reload failed")
		return
	}

	if err := h.app.Cache.Clear(c.Request.Context()); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "cache clear after reload failed")
		return
	}

	response.OK(c, gin.H{"documents": h.app.Knowledge.Count()})
}

func (h *AdminHandler) CacheStats(c *gin.Context) {
	response.OK(c, h.app.Cache.Stats())
}

func (h *AdminHandler) ClearCache(c *gin.Context) {
	if err := h.app.Cache.Clear(c.Request.Context()); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "cache clear failed")
		return
	}
	response.OK(c, gin.H{"cleared": true})
}

func (h *AdminHandler) Sessions(c *gin.Context) {
	response.OK(c, gin.H{"active_sessions": h.app.Sessions.Count()})
}

// Transcripts lists recent audit-log entries, optionally scoped to one
// LINE user.
func (h *AdminHandler) Transcripts(c *gin.Context) {
	if h.transcriptRepo == nil {
		response.Error(c, http.StatusServiceUnavailable, response.CodeInternalServer, "transcript storage is not enabled")
		return
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	if userID := c.Query("user_id"); userID != "" {
		messages, err := h.transcriptRepo.ListByUserID(userID, limit)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list transcripts failed")
			return
		}
		response.OK(c, messages)
		return
	}

	messages, err := h.transcriptRepo.ListRecent(limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list transcripts failed")
		return
	}
	response.OK(c, messages)
}
