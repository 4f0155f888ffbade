package handlers

import (
	"campusalert/pkg/posts"
	"campusalert/pkg/session"
	"campusalert/pkg/user"
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type UserLookup interface {
	User(id string) (*user.User, bool)
}

type StatsHandler struct {
	PostsRepo PostsRepo
	Users     UserLookup
	Clock     posts.Clock
	Logger    *zap.SugaredLogger
}

type ProfileResponse struct {
	User  *user.User         `json:"user"`
	Stats posts.ProfileStats `json:"stats"`
	Posts []*PostResponse    `json:"posts"`
}

// Dashboard serves the global counts.
func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	all, err := h.PostsRepo.GetAll(ctx)
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(w, h.Logger, posts.Summarize(all, h.Clock()), http.StatusOK)
}

// Profile serves the acting user's profile.
func (h *StatsHandler) Profile(w http.ResponseWriter, r *http.Request) {
	sess, err := session.SessionFromContext(r.Context())
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.writeProfile(w, r, sess.User, sess.User.ID)
}

func (h *StatsHandler) UserProfile(w http.ResponseWriter, r *http.Request) {
	sess, err := session.SessionFromContext(r.Context())
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	u, ok := h.Users.User(mux.Vars(r)["id"])
	if !ok {
		WriteResponse(w, "user not found", http.StatusNotFound)
		return
	}

	h.writeProfile(w, r, u, sess.User.ID)
}

func (h *StatsHandler) writeProfile(w http.ResponseWriter, r *http.Request, u *user.User, viewerID string) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	own, err := h.PostsRepo.GetByAuthorID(ctx, u.ID)
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	now := h.Clock()
	writeJSON(w, h.Logger, &ProfileResponse{
		User:  u,
		Stats: posts.SummarizeUser(own, u.ID, now),
		Posts: mapToPostsResponse(own, viewerID, now),
	}, http.StatusOK)
}
