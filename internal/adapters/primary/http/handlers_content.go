package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jupiterclapton/social-service/internal/core/domain"
	"github.com/jupiterclapton/social-service/internal/core/ports"
)

// --- AUTH ---

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.identity.Register(r.Context(), ports.RegisterCmd{
		Name:     req.Name,
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAuthResponse(res))
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.identity.Login(r.Context(), ports.LoginCmd{Email: req.Email, Password: req.Password})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAuthResponse(res))
}

// --- USERS ---

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validIDs(w, id) {
		return
	}

	user, err := h.content.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) handleGetUserByUsername(w http.ResponseWriter, r *http.Request) {
	user, err := h.content.GetUserByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) handleListUserPosts(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if !validIDs(w, userID) {
		return
	}
	page, ok := parsePage(w, r)
	if !ok {
		return
	}

	posts, err := h.content.ListUserPosts(r.Context(), userID, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostResponses(posts))
}

// --- POSTS ---

func (h *Handler) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if !h.decode(w, r, &req) {
		return
	}

	// L'auteur est le porteur du token ; un user_id explicite doit concorder
	author := ClaimsFromContext(r.Context()).UserID
	if req.UserID != "" && !requireActor(w, r, req.UserID) {
		return
	}

	post, err := h.content.CreatePost(r.Context(), ports.CreatePostCmd{
		UserID:  author,
		Content: req.Content,
		Images:  req.Images,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPostResponse(post))
}

func (h *Handler) handleListPosts(w http.ResponseWriter, r *http.Request) {
	page, ok := parsePage(w, r)
	if !ok {
		return
	}

	posts, err := h.content.ListPosts(r.Context(), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostResponses(posts))
}

func (h *Handler) handleGetPost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "post_id")
	if !validIDs(w, postID) {
		return
	}

	post, err := h.content.GetPost(r.Context(), postID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostResponse(post))
}

// --- COMMENTS ---

func (h *Handler) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest
	if !h.decode(w, r, &req) {
		return
	}

	author := ClaimsFromContext(r.Context()).UserID
	if req.UserID != "" && !requireActor(w, r, req.UserID) {
		return
	}

	comment, err := h.content.CreateComment(r.Context(), ports.CreateCommentCmd{
		PostID:  req.PostID,
		UserID:  author,
		Content: req.Content,
		Images:  req.Images,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCommentResponse(comment))
}

func (h *Handler) handleListComments(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "post_id")
	if !validIDs(w, postID) {
		return
	}

	comments, err := h.content.ListPostComments(r.Context(), postID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

// --- HELPERS ---

const maxBodyBytes = 1 << 20

// decode lit le JSON puis valide ; écrit la réponse 400 en cas d'échec.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeValidationError(w, err)
		return false
	}
	return true
}

func validIDs(w http.ResponseWriter, ids ...string) bool {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid id: "+id)
			return false
		}
	}
	return true
}

func parsePage(w http.ResponseWriter, r *http.Request) (domain.Page, bool) {
	var page domain.Page
	q := r.URL.Query()

	for name, dst := range map[string]*int{"limit": &page.Limit, "offset": &page.Offset} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid "+name)
			return page, false
		}
		*dst = n
	}
	return page, true
}
