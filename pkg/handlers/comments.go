package handlers

import (
	"campusalert/pkg/comments"
	"campusalert/pkg/posts"
	"campusalert/pkg/session"
	"context"
	"encoding/json"
	"errors"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type CommentHandler struct {
	PostsRepo PostsRepo
	Clock     posts.Clock
	NewID     func() string
	Logger    *zap.SugaredLogger
}

type AddCommentRequest struct {
	Comment string `json:"comment"`
}

// Add appends a comment by the acting user and returns the updated post.
func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		h.Logger.Error(err.Error())
		WriteResponse(w, "bad request", http.StatusBadRequest)
		return
	}

	var req AddCommentRequest
	err = json.Unmarshal(body, &req)
	if err != nil {
		h.Logger.Error(err.Error())
		WriteResponse(w, "bad request", http.StatusBadRequest)
		return
	}

	sess, err := session.SessionFromContext(r.Context())
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	now := h.Clock()
	comment, err := comments.New(h.NewID(), sess.User, req.Comment, now)
	if errors.Is(err, comments.ErrEmptyComment) {
		writeErrorsResponse(w, []*CustomError{
			{Location: "body", Param: "comment", Value: req.Comment, Msg: "cannot be blank"},
		}, http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	post, err := h.PostsRepo.AddComment(ctx, postID, comment)
	if errors.Is(err, posts.ErrNotFound) {
		WriteResponse(w, "post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(w, h.Logger, MapToPostResponse(post, sess.User.ID, now), http.StatusCreated)
}

// Like toggles the acting user's like on a comment.
func (h *CommentHandler) Like(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	sess, err := session.SessionFromContext(r.Context())
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	post, err := h.PostsRepo.ToggleCommentLike(ctx, vars["id"], vars["comment_id"], sess.User.ID)
	switch {
	case errors.Is(err, posts.ErrNotFound):
		WriteResponse(w, "post not found", http.StatusNotFound)
		return
	case errors.Is(err, posts.ErrCommentNotFound):
		WriteResponse(w, "comment not found", http.StatusNotFound)
		return
	case err != nil:
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(w, h.Logger, MapToPostResponse(post, sess.User.ID, h.Clock()), http.StatusOK)
}
