package api

import (
	"encoding/json"
	"net/http"

	"github.com/permissionhub/server/internal/api/respond"
	"github.com/permissionhub/server/internal/api/validate"
	"github.com/permissionhub/server/internal/model"
	"github.com/permissionhub/server/internal/services"
)

// RequestHandler serves the /api/permission-requests routes.
type RequestHandler struct {
	svc        *services.RequestService
	demoUserID int
}

func NewRequestHandler(svc *services.RequestService, demoUserID int) *RequestHandler {
	return &RequestHandler{svc: svc, demoUserID: demoUserID}
}

// List GET /api/permission-requests?userId=
func (h *RequestHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := h.demoUserID
	if v := r.URL.Query().Get("userId"); v != "" {
		if id, ok := atoiPositive(v); ok {
			userID = id
		}
	}
	reqs, err := h.svc.List(r.Context(), userID)
	if err != nil {
		respond.ServiceError(w, err)
		return
	}
	if reqs == nil {
		reqs = []*model.PermissionRequest{}
	}
	respond.JSON(w, http.StatusOK, reqs)
}

// Create POST /api/permission-requests
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.PermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := validate.Request(&in); err != nil {
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

// Approve POST /api/permission-requests/{id}/approve
func (h *RequestHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid request id")
		return
	}
	perm, err := h.svc.Approve(r.Context(), id)
	if err != nil {
		respond.ServiceError(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, perm)
}

// Deny DELETE /api/permission-requests/{id}
func (h *RequestHandler) Deny(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "invalid request id")
		return
	}
	if err := h.svc.Deny(r.Context(), id); err != nil {
		respond.ServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
