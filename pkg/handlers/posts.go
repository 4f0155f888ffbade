package handlers

import (
	"campusalert/pkg/comments"
	"campusalert/pkg/location"
	"campusalert/pkg/media"
	"campusalert/pkg/posts"
	"campusalert/pkg/session"
	"campusalert/pkg/user"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"mime"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	maxContentLength = 2000
	maxAddressLength = 200
)

//go:generate mockgen -source=posts.go -destination=mock_repos.go -package=handlers

type PostsRepo interface {
	GetAll(ctx context.Context) ([]*posts.Post, error)
	GetByID(ctx context.Context, id string) (*posts.Post, error)
	GetByAuthorID(ctx context.Context, authorID string) ([]*posts.Post, error)
	AddComment(ctx context.Context, postID string, c *comments.Comment) (*posts.Post, error)
	ToggleLike(ctx context.Context, postID, userID string) (*posts.Post, error)
	ToggleCommentLike(ctx context.Context, postID, commentID, userID string) (*posts.Post, error)
}

type Submitter interface {
	Submit(ctx context.Context, author *user.User, d *posts.Draft) (*posts.Post, error)
}

type PostHandler struct {
	PostsRepo PostsRepo
	Submitter Submitter
	Clock     posts.Clock
	// MaxUploadBytes caps the whole request body of a report.
	MaxUploadBytes int64
	Logger         *zap.SugaredLogger
}

type CreatePostReq struct {
	Content    *string  `json:"content"`
	CategoryID *string  `json:"category"`
	Address    *string  `json:"address"`
	Hashtags   string   `json:"hashtags"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
}

func (p *CreatePostReq) validate() []*CustomError {
	content := &Validator{value: p.Content, location: "body", field: "content"}
	contentErr := content.check((*Validator).Empty, func(v *Validator) *CustomError {
		return v.MaxLength(maxContentLength)
	})

	category := &Validator{value: p.CategoryID, location: "body", field: "category"}
	categoryErr := category.check((*Validator).Empty)

	address := &Validator{value: p.Address, location: "body", field: "address"}
	addressErr := address.check((*Validator).Empty, func(v *Validator) *CustomError {
		return v.MaxLength(maxAddressLength)
	})

	var locationErr *CustomError
	if (p.Lat == nil) != (p.Lng == nil) {
		locationErr = &CustomError{Location: "body", Param: "location", Msg: "lat and lng must be given together"}
	} else if p.Lat != nil && !(location.Point{Lat: *p.Lat, Lng: *p.Lng}).Valid() {
		locationErr = &CustomError{Location: "body", Param: "location",
			Value: fmt.Sprintf("%v,%v", *p.Lat, *p.Lng), Msg: "is out of range"}
	}

	return mergeErrors(contentErr, categoryErr, addressErr, locationErr)
}

func (p *CreatePostReq) draft() *posts.Draft {
	d := &posts.Draft{
		Content:    *p.Content,
		CategoryID: *p.CategoryID,
		Address:    *p.Address,
		Hashtags:   p.Hashtags,
	}
	if p.Lat != nil && p.Lng != nil {
		d.Point = &location.Point{Lat: *p.Lat, Lng: *p.Lng}
	}

	return d
}

// List serves the feed filtered by the q, category and status parameters.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, errs := parseFilter(r)
	if errs != nil {
		writeErrorsResponse(w, errs, http.StatusUnprocessableEntity)
		return
	}

	sess, err := session.SessionFromContext(r.Context())
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	all, err := h.PostsRepo.GetAll(ctx)
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	now := h.Clock()
	writeJSON(w, h.Logger, mapToPostsResponse(posts.Apply(all, filter, now), sess.User.ID, now), http.StatusOK)
}

func (h *PostHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	sess, err := session.SessionFromContext(r.Context())
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	post, err := h.PostsRepo.GetByID(ctx, mux.Vars(r)["id"])
	if errors.Is(err, posts.ErrNotFound) {
		WriteResponse(w, "post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(w, h.Logger, MapToPostResponse(post, sess.User.ID, h.Clock()), http.StatusOK)
}

// Create accepts a report either as JSON or as a multipart form whose
// "media" parts are attached photos and videos.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var (
		req         CreatePostReq
		attachments []*media.Attachment
		errs        []*CustomError
		err         error
	)

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		req, attachments, errs, err = h.readMultipart(r)
	} else {
		req, err = readJSONRequest(r)
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || (err != nil && r.ContentLength > h.MaxUploadBytes) {
		WriteResponse(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}
	if err != nil {
		h.Logger.Error(err.Error())
		WriteResponse(w, "bad request", http.StatusBadRequest)
		return
	}

	errs = append(errs, req.validate()...)
	if len(errs) > 0 {
		writeErrorsResponse(w, errs, http.StatusUnprocessableEntity)
		return
	}

	sess, err := session.SessionFromContext(r.Context())
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	d := req.draft()
	d.Media = attachments

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	post, err := h.Submitter.Submit(ctx, sess.User, d)

	var verr *posts.ValidationError
	if errors.As(err, &verr) {
		writeErrorsResponse(w, validationErrors(verr, d), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.Logger.Infow("report submitted", "post_id", post.ID, "user_id", sess.User.ID,
		"category", post.Category.ID, "images", len(post.Images), "videos", len(post.Videos))
	writeJSON(w, h.Logger, MapToPostResponse(post, sess.User.ID, h.Clock()), http.StatusCreated)
}

// Like toggles the acting user's like on a post.
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	sess, err := session.SessionFromContext(r.Context())
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	post, err := h.PostsRepo.ToggleLike(ctx, mux.Vars(r)["id"], sess.User.ID)
	if errors.Is(err, posts.ErrNotFound) {
		WriteResponse(w, "post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(w, h.Logger, MapToPostResponse(post, sess.User.ID, h.Clock()), http.StatusOK)
}

func readJSONRequest(r *http.Request) (CreatePostReq, error) {
	var req CreatePostReq

	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		return req, err
	}

	err = json.Unmarshal(body, &req)
	return req, err
}

func (h *PostHandler) readMultipart(r *http.Request) (CreatePostReq, []*media.Attachment, []*CustomError, error) {
	var req CreatePostReq

	err := r.ParseMultipartForm(h.MaxUploadBytes)
	if err != nil {
		return req, nil, nil, err
	}

	form := r.MultipartForm
	field := func(name string) *string {
		if v, ok := form.Value[name]; ok && len(v) > 0 {
			return &v[0]
		}
		return nil
	}

	req.Content = field("content")
	req.CategoryID = field("category")
	req.Address = field("address")
	if tags := field("hashtags"); tags != nil {
		req.Hashtags = *tags
	}

	var errs []*CustomError
	lat, lng := r.FormValue("lat"), r.FormValue("lng")
	point, err := location.ParsePoint(lat, lng)
	switch {
	case errors.Is(err, location.ErrUnavailable):
	case err != nil:
		errs = append(errs, &CustomError{Location: "body", Param: "location", Value: lat + "," + lng, Msg: "is invalid"})
	default:
		req.Lat, req.Lng = &point.Lat, &point.Lng
	}

	attachments := make([]*media.Attachment, 0, len(form.File["media"]))
	for _, fh := range form.File["media"] {
		a, err := readAttachment(fh)
		if err != nil {
			return req, nil, nil, err
		}
		attachments = append(attachments, a)
	}

	return req, attachments, errs, nil
}

func readAttachment(fh *multipart.FileHeader) (*media.Attachment, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
	}

	return &media.Attachment{
		ContentType: fh.Header.Get("Content-Type"),
		Name:        fh.Filename,
		Size:        fh.Size,
		Data:        data,
	}, nil
}

func validationErrors(verr *posts.ValidationError, d *posts.Draft) []*CustomError {
	values := map[string]string{
		"content":  d.Content,
		"category": d.CategoryID,
		"address":  d.Address,
	}

	res := make([]*CustomError, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		res = append(res, &CustomError{Location: "body", Param: f.Field, Value: values[f.Field], Msg: f.Msg})
	}

	return res
}
