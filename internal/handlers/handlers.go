package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/anirudhv/boardsync/internal/models"
	"github.com/anirudhv/boardsync/internal/repositories"
	"github.com/anirudhv/boardsync/internal/services"
)

// Handler carries the dependencies shared by the REST endpoints. The SSE
// stream lives in StreamHandler; everything else hangs off here.
type Handler struct {
	Auth          *services.AuthService
	Notifications *services.NotificationService
	Publisher     *services.SyncPublisher

	Categories    repositories.CategoryRepository
	Labels        repositories.LabelRepository
	FilterPresets repositories.FilterPresetRepository
	Tasks         repositories.TaskRepository
	NotifRepo     repositories.NotificationRepository
	Settings      repositories.SettingsRepository
	Sessions      repositories.SessionRepository
	Presence      repositories.PresenceRepository

	AIEnabled bool
}

func urlUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

// publish emits a sync event attributed to the calling session.
func (h *Handler) publish(r *http.Request, entityType string, entityID uuid.UUID, action string) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok || h.Publisher == nil {
		return
	}
	h.Publisher.Publish(claims.UserID, claims.SessionID, entityType, entityID.String(), action)
}

// writeRepoError maps repository and validation errors onto HTTP statuses.
func writeRepoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		writeNotFound(w)
	case errors.Is(err, repositories.ErrDuplicateName):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, repositories.ErrVersionConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, models.ErrValidation):
		writeBadRequest(w, err.Error())
	default:
		writeInternalError(w, err)
	}
}
