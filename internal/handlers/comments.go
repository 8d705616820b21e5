package handlers

import (
	"net/http"

	"github.com/JPGarCar/tridu-server/internal/auth"
	"github.com/JPGarCar/tridu-server/internal/models"
)

// CommentRequest is the body of a new comment
type CommentRequest struct {
	Comment string `json:"comment"`
}

func (h *Handlers) handleListComments(kind models.EntrantKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIntParam(r, "id")
		if err != nil {
			respondError(w, err)
			return
		}
		comments, err := h.Comments.ListComments(r.Context(), kind, id)
		if err != nil {
			respondError(w, err)
			return
		}
		respondOK(w, comments)
	}
}

// handleCreateComment records a comment written by the authenticated user
func (h *Handlers) handleCreateComment(kind models.EntrantKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIntParam(r, "id")
		if err != nil {
			respondError(w, err)
			return
		}
		var req CommentRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, err)
			return
		}
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			respondError(w, ErrUnauthorized)
			return
		}
		comment, err := h.Comments.CreateComment(r.Context(), kind, id, &userID, req.Comment)
		if err != nil {
			respondError(w, err)
			return
		}
		respondCreated(w, comment)
	}
}

func (h *Handlers) handleDeleteComment(kind models.EntrantKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIntParam(r, "id")
		if err != nil {
			respondError(w, err)
			return
		}
		if err := h.Comments.DeleteComment(r.Context(), kind, id); err != nil {
			respondError(w, err)
			return
		}
		respondDeleted(w)
	}
}
