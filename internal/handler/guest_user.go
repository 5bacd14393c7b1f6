package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ucu-wifi/guest-portal-go/internal/audit"
	apperrors "github.com/ucu-wifi/guest-portal-go/internal/errors"
	"github.com/ucu-wifi/guest-portal-go/internal/httputil"
	"github.com/ucu-wifi/guest-portal-go/internal/middleware"
	"github.com/ucu-wifi/guest-portal-go/internal/model"
	"github.com/ucu-wifi/guest-portal-go/internal/service"
)

type GuestUserService interface {
	Create(ctx context.Context, admin model.AdminSummary, in service.CreateGuestUserInput) (*service.CreateGuestUserResult, error)
	List(ctx context.Context, adminID string, status model.GuestStatus) ([]model.GuestUser, error)
	Update(ctx context.Context, adminID, id string, in service.UpdateGuestUserInput) (*model.GuestUser, error)
	Delete(ctx context.Context, adminID, id string) error
	ToggleStatus(ctx context.Context, adminID, id string) (bool, error)
}

// GuestUserHandler serves the guest account CRUD API. Every route expects
// AuthMiddleware to have run.
type GuestUserHandler struct {
	guestService GuestUserService
	debug        bool
}

func NewGuestUserHandler(guestService GuestUserService, debug bool) *GuestUserHandler {
	return &GuestUserHandler{guestService: guestService, debug: debug}
}

func (h *GuestUserHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Patch("/{id}/toggle-status", h.ToggleStatus)

	return r
}

func (h *GuestUserHandler) writeError(w http.ResponseWriter, err error) {
	httputil.WriteError(w, err, h.debug)
}

func (h *GuestUserHandler) currentAdmin(w http.ResponseWriter, r *http.Request) *model.AdminSummary {
	admin := middleware.GetAdmin(r.Context())
	if admin == nil {
		h.writeError(w, apperrors.Unauthorized("Access token required"))
	}
	return admin
}

func (h *GuestUserHandler) Create(w http.ResponseWriter, r *http.Request) {
	admin := h.currentAdmin(w, r)
	if admin == nil {
		return
	}

	var in service.CreateGuestUserInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.guestService.Create(r.Context(), *admin, in)
	if err != nil {
		h.writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventGuestCreate,
		AdminID: admin.ID,
		GuestID: result.User.ID,
		Details: map[string]interface{}{
			"username":   result.User.Username,
			"email_sent": result.EmailSent,
		},
	})
	writeSuccess(w, http.StatusCreated, "Guest user created successfully", result)
}

func (h *GuestUserHandler) List(w http.ResponseWriter, r *http.Request) {
	admin := h.currentAdmin(w, r)
	if admin == nil {
		return
	}

	status := model.GuestStatus(r.URL.Query().Get("status"))
	users, err := h.guestService.List(r.Context(), admin.ID, status)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", map[string]any{"users": users})
}

func (h *GuestUserHandler) Update(w http.ResponseWriter, r *http.Request) {
	admin := h.currentAdmin(w, r)
	if admin == nil {
		return
	}

	var in service.UpdateGuestUserInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	user, err := h.guestService.Update(r.Context(), admin.ID, id, in)
	if err != nil {
		h.writeError(w, err)
		return
	}

	details := map[string]interface{}{}
	if in.IsActive != nil {
		details["is_active"] = *in.IsActive
	}
	if in.ExpiresAt != nil {
		details["expires_at"] = *in.ExpiresAt
	}
	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventGuestUpdate,
		AdminID: admin.ID,
		GuestID: id,
		Details: details,
	})
	writeSuccess(w, http.StatusOK, "Guest user updated successfully", map[string]any{"user": user})
}

func (h *GuestUserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	admin := h.currentAdmin(w, r)
	if admin == nil {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.guestService.Delete(r.Context(), admin.ID, id); err != nil {
		h.writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventGuestDelete,
		AdminID: admin.ID,
		GuestID: id,
	})
	writeSuccess(w, http.StatusOK, "Guest user deleted successfully", nil)
}

func (h *GuestUserHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	admin := h.currentAdmin(w, r)
	if admin == nil {
		return
	}

	id := chi.URLParam(r, "id")
	isActive, err := h.guestService.ToggleStatus(r.Context(), admin.ID, id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:    audit.EventGuestToggle,
		AdminID: admin.ID,
		GuestID: id,
		Details: map[string]interface{}{"is_active": isActive},
	})

	message := "User deactivated successfully"
	if isActive {
		message = "User activated successfully"
	}
	writeSuccess(w, http.StatusOK, message, map[string]any{"isActive": isActive})
}
