package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/tripbook/internal/domain"
	"github.com/pkordes/tripbook/internal/middleware"
)

// createItemRequest is the body of POST /items.
type createItemRequest struct {
	Date        string `json:"date"`
	Block       string `json:"block"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// CreateItem handles POST /items for the active trip. The item appends to
// the end of its (date, block) sequence; the owning day is created lazily.
func (s *Server) CreateItem(w http.ResponseWriter, r *http.Request) {
	trip, userID, ok := s.resolveActiveTrip(w, r)
	if !ok {
		return
	}

	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRequestError(w, "request body is required")
		return
	}

	item, err := s.items.Create(r.Context(), userID, trip.ID, req.Date, req.Block, req.Type, req.Title, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// updateItemRequest is the body of PATCH /items/{id}.
// Absent fields are left unchanged; order index cannot be patched.
type updateItemRequest struct {
	Block       *string `json:"block,omitempty"`
	Type        *string `json:"type,omitempty"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// UpdateItem handles PATCH /items/{id}.
func (s *Server) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, domain.ErrForbidden)
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeRequestError(w, "invalid item id")
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRequestError(w, "request body is required")
		return
	}

	patch := domain.ItemPatch{Title: req.Title, Description: req.Description}
	if req.Block != nil {
		b := domain.Block(*req.Block)
		patch.Block = &b
	}
	if req.Type != nil {
		t := domain.ItemType(*req.Type)
		patch.Type = &t
	}

	item, err := s.items.Update(r.Context(), userID, itemID, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// DeleteItem handles DELETE /items/{id}. The deleted row is returned so
// clients can confirm what went away or offer undo.
func (s *Server) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, domain.ErrForbidden)
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeRequestError(w, "invalid item id")
		return
	}

	item, err := s.items.Delete(r.Context(), userID, itemID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
