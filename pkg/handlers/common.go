package handlers

import (
	"campusalert/pkg/catalog"
	"campusalert/pkg/comments"
	"campusalert/pkg/posts"
	"campusalert/pkg/user"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type Response struct {
	Message string `json:"message"`
}

type CustomError struct {
	Location string `json:"location"`
	Param    string `json:"param"`
	Value    string `json:"value"`
	Msg      string `json:"msg"`
}

type ErrorsResponse struct {
	Errors []*CustomError `json:"errors"`
}

func WriteResponse(w http.ResponseWriter, msg string, status int) {
	resp := &Response{Message: msg}
	res, err := json.Marshal(resp)
	if err != nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(res)
}

func writeErrorsResponse(w http.ResponseWriter, errors []*CustomError, status int) {
	errorsJSON, err := json.Marshal(&ErrorsResponse{Errors: errors})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(errorsJSON)
}

func writeJSON(w http.ResponseWriter, logger *zap.SugaredLogger, v interface{}, status int) {
	res, err := json.Marshal(v)
	if err != nil {
		logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(res)
}

type PostResponse struct {
	ID       string             `json:"id"`
	Author   *user.User         `json:"author"`
	Content  string             `json:"content"`
	Images   []string           `json:"images"`
	Videos   []string           `json:"videos"`
	Location posts.Location     `json:"location"`
	Category *catalog.Category  `json:"category"`
	Hashtags []string           `json:"hashtags"`
	Created  time.Time          `json:"created"`
	TimeAgo  string             `json:"timeAgo"`
	Likes    int                `json:"likes"`
	Liked    bool               `json:"liked"`
	Comments []*CommentResponse `json:"comments"`
	Status   posts.Status       `json:"status"`
}

type CommentResponse struct {
	ID      string     `json:"id"`
	Author  *user.User `json:"author"`
	Content string     `json:"content"`
	Created time.Time  `json:"created"`
	TimeAgo string     `json:"timeAgo"`
	Likes   int        `json:"likes"`
	Liked   bool       `json:"liked"`
}

// MapToPostResponse renders p as seen by userID at now; status is recomputed.
func MapToPostResponse(p *posts.Post, userID string, now time.Time) *PostResponse {
	return &PostResponse{
		ID:       p.ID,
		Author:   p.Author,
		Content:  p.Content,
		Images:   nonNil(p.Images),
		Videos:   nonNil(p.Videos),
		Location: p.Location,
		Category: p.Category,
		Hashtags: nonNil(p.Hashtags),
		Created:  p.Created,
		TimeAgo:  posts.TimeAgo(p.Created, now),
		Likes:    p.Likes,
		Liked:    p.LikedByUser(userID),
		Comments: mapToCommentsResponse(p.Comments, userID, now),
		Status:   posts.Classify(p.Created, now),
	}
}

func mapToCommentsResponse(cs []*comments.Comment, userID string, now time.Time) []*CommentResponse {
	result := make([]*CommentResponse, 0, len(cs))
	for _, c := range cs {
		result = append(result, &CommentResponse{
			ID:      c.ID,
			Author:  c.Author,
			Content: c.Content,
			Created: c.Created,
			TimeAgo: posts.TimeAgo(c.Created, now),
			Likes:   c.Likes,
			Liked:   c.LikedByUser(userID),
		})
	}

	return result
}

func mapToPostsResponse(ps []*posts.Post, userID string, now time.Time) []*PostResponse {
	result := make([]*PostResponse, 0, len(ps))
	for _, p := range ps {
		result = append(result, MapToPostResponse(p, userID, now))
	}

	return result
}

// parseFilter reads the q, category and status query parameters.
func parseFilter(r *http.Request) (posts.Filter, []*CustomError) {
	q := r.URL.Query()

	category := q.Get("category")
	if category == "" {
		category = posts.All
	}

	status := q.Get("status")
	selector, err := posts.ParseStatusSelector(status)
	if err != nil {
		return posts.Filter{}, []*CustomError{{Location: "query", Param: "status", Value: status, Msg: "must be one of all, new, old"}}
	}

	return posts.Filter{Query: q.Get("q"), CategoryID: category, Status: selector}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
