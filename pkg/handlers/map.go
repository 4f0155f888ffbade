package handlers

import (
	"campusalert/pkg/location"
	"campusalert/pkg/posts"
	"campusalert/pkg/session"
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const recentLimit = 5

var markerColors = map[posts.Status]string{
	posts.StatusNew: "#EF4444",
	posts.StatusOld: "#6B7280",
}

type MapHandler struct {
	PostsRepo PostsRepo
	Clock     posts.Clock
	Logger    *zap.SugaredLogger
}

type Marker struct {
	ID       string       `json:"id"`
	Lat      float64      `json:"lat"`
	Lng      float64      `json:"lng"`
	Color    string       `json:"color"`
	Status   posts.Status `json:"status"`
	Category string       `json:"category"`
	Address  string       `json:"address"`
	Content  string       `json:"content"`
}

type MapResponse struct {
	Center  location.Point  `json:"center"`
	Markers []*Marker       `json:"markers"`
	Recent  []*PostResponse `json:"recent"`
}

// Map serves the markers for the filtered posts, centred on the client's
// position (lat/lng parameters) or on the campus when it has none.
func (h *MapHandler) Map(w http.ResponseWriter, r *http.Request) {
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

	q := r.URL.Query()
	point, err := location.ParsePoint(q.Get("lat"), q.Get("lng"))
	if err != nil {
		h.Logger.Debugw("using reference location", "reason", err.Error())
	}
	center := location.Resolve(ctx, location.Static{Point: point})

	now := h.Clock()
	visible := posts.Apply(all, filter, now)

	markers := make([]*Marker, 0, len(visible))
	for _, p := range visible {
		status := posts.Classify(p.Created, now)
		m := &Marker{
			ID:      p.ID,
			Lat:     p.Location.Lat,
			Lng:     p.Location.Lng,
			Color:   markerColors[status],
			Status:  status,
			Address: p.Location.Address,
			Content: p.Content,
		}
		if p.Category != nil {
			m.Category = p.Category.Name
		}
		markers = append(markers, m)
	}

	recent := visible
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	writeJSON(w, h.Logger, &MapResponse{
		Center:  center,
		Markers: markers,
		Recent:  mapToPostsResponse(recent, sess.User.ID, now),
	}, http.StatusOK)
}
