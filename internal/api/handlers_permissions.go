// Package api contains the HTTP transport: thin handlers over the services,
// with validation at the boundary and JSON in and out.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/permissionhub/server/internal/api/respond"
	"github.com/permissionhub/server/internal/api/validate"
	"github.com/permissionhub/server/internal/model"
	"github.com/permissionhub/server/internal/services"
	"github.com/permissionhub/server/internal/usage"
)

// PermissionHandler serves the /api/permissions routes.
type PermissionHandler struct {
	svc        *services.PermissionService
	demoUserID int
}

func NewPermissionHandler(svc *services.PermissionService, demoUserID int) *PermissionHandler {
	return &PermissionHandler{svc: svc, demoUserID: demoUserID}
}

// userID reads the userId query parameter, falling back to the demo user.
// There is no multi-user authorization model; the parameter exists so the
// shell can address other populations in tests.
func (h *PermissionHandler) userID(r *http.Request) int {
	if v := r.URL.Query().Get("userId"); v != "" {
		if id, ok := atoiPositive(v); ok {
			return id
		}
	}
	return h.demoUserID
}

func atoiPositive(v string) (int, bool) {
	id, err := strconv.Atoi(v)
	return id, err == nil && id > 0
}

func pathID(r *http.Request) (int, bool) {
	return atoiPositive(mux.Vars(r)["id"])
}

// List GET /api/permissions?userId=
func (h *PermissionHandler) List(w http.ResponseWriter, r *http.Request) {
	perms, err := h.svc.List(r.Context(), h.userID(r))
	if err != nil {
		respond.ServiceError(w, err)
		return
	}
	if perms == nil {
		perms = []*model.Permission{}
	}
	respond.JSON(w, http.StatusOK, perms)
}

// Get GET /api/permissions/{id}
func (h *PermissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid permission id")
		return
	}
	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.ServiceError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, p)
}

// Create POST /api/permissions
func (h *PermissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.Permission
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := validate.Permission(&in); err != nil {
		respond.ServiceError(w, err)
		return
	}
	out, err := h.svc.Create(r.Context(), &in)
	if err != nil {
		respond.ServiceError(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, out)
}

// Update PATCH /api/permissions/{id}
func (h *PermissionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid permission id")
		return
	}
	var patch model.PermissionPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := validate.Patch(&patch); err != nil {
		respond.ServiceError(w, err)
		return
	}
	out, err := h.svc.Update(r.Context(), id, patch)
	if err != nil {
		respond.ServiceError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, out)
}

// Delete DELETE /api/permissions/{id}
func (h *PermissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid permission id")
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		respond.ServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// usageView flattens the derived snapshot for JSON clients: durations in
// whole seconds rather than nanoseconds.
type usageView struct {
	Status               usage.Status `json:"status"`
	TimeRemainingSeconds *int64       `json:"timeRemainingSeconds,omitempty"`
	ProgressPercent      *int         `json:"progressPercent,omitempty"`
}

// Usage GET /api/permissions/{id}/usage
func (h *PermissionHandler) Usage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid permission id")
		return
	}
	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respond.ServiceError(w, err)
		return
	}
	snap := usage.Derive(p, time.Now().UTC())
	view := usageView{Status: snap.Status, ProgressPercent: snap.ProgressPercent}
	if snap.TimeRemaining != nil {
		secs := int64(snap.TimeRemaining.Seconds())
		view.TimeRemainingSeconds = &secs
	}
	respond.JSON(w, http.StatusOK, view)
}

// RecordUsage POST /api/permissions/{id}/usage
func (h *PermissionHandler) RecordUsage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid permission id")
		return
	}
	in := struct {
		Calls int `json:"calls"`
	}{Calls: 1}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid JSON")
			return
		}
	}
	out, err := h.svc.RecordUsage(r.Context(), id, in.Calls)
	if err != nil {
		respond.ServiceError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, out)
}
