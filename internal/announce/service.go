// Package announce serves the banner announcements shown to customers while
// their time window is active.
package announce

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/resto-labs/backend-resto/internal/common"
	"github.com/resto-labs/backend-resto/internal/store"
)

type queryProvider interface {
	ListActiveAnnouncements(ctx context.Context, now time.Time) ([]store.Announcement, error)
}

// Service lists active announcements.
type Service struct {
	Q   queryProvider
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Active returns announcements whose window covers the current time.
func (s *Service) Active(ctx context.Context) ([]store.Announcement, error) {
	if s == nil || s.Q == nil {
		return nil, errors.New("announce service not configured")
	}
	rows, err := s.Q.ListActiveAnnouncements(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	if rows == nil {
		rows = []store.Announcement{}
	}
	return rows, nil
}

// Handler exposes the public announcements endpoint.
type Handler struct {
	Svc *Service
}

// Active handles GET /api/v1/announcements.
func (h *Handler) Active(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "announce service not configured", nil)
		return
	}
	rows, err := h.Svc.Active(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load announcements", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": rows})
}
