package main

import (
	"bytes"
	"campusalert/pkg/config"
	"campusalert/pkg/handlers"
	"campusalert/pkg/posts"
	"campusalert/pkg/session"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

var now = time.Date(2025, time.January, 2, 20, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) http.Handler {
	cfg := &config.Config{
		Server:  config.ServerConfig{MaxUploadMB: 1},
		App:     config.AppConfig{ActingUser: "1", JitterSeed: 42},
		Catalog: config.CatalogConfig{},
		Seed:    config.SeedConfig{Enabled: true},
	}

	app, err := NewApplication(cfg, zap.NewNop().Sugar(), func() time.Time { return now })
	if err != nil {
		t.Fatalf("can't build application: %v", err)
	}

	return app.Handler
}

type Case struct {
	Name    string
	Method  string
	Path    string
	Body    string
	Headers map[string]string
	Status  int
	Check   func(*testing.T, []byte)
}

func do(h http.Handler, c Case) *httptest.ResponseRecorder {
	var r *http.Request
	if c.Body != "" {
		r = httptest.NewRequest(c.Method, c.Path, strings.NewReader(c.Body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(c.Method, c.Path, nil)
	}
	for k, v := range c.Headers {
		r.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decodePost(t *testing.T, body []byte) *handlers.PostResponse {
	var p handlers.PostResponse
	err := json.Unmarshal(body, &p)
	if err != nil {
		t.Fatalf("can't decode post %q: %v", body, err)
	}
	return &p
}

func decodeFeed(t *testing.T, body []byte) []*handlers.PostResponse {
	var ps []*handlers.PostResponse
	err := json.Unmarshal(body, &ps)
	if err != nil {
		t.Fatalf("can't decode feed %q: %v", body, err)
	}
	return ps
}

func TestRoutes(t *testing.T) {
	h := newTestApp(t)

	var createdID string
	cases := []Case{
		{
			Name: "Feed", Method: http.MethodGet, Path: "/api/posts", Status: http.StatusOK,
			Check: func(t *testing.T, b []byte) {
				feed := decodeFeed(t, b)
				if len(feed) != 3 || feed[0].ID != "1" || feed[0].Status != posts.StatusNew || feed[2].Status != posts.StatusOld {
					t.Errorf("unexpected feed %s", b)
				}
			},
		},
		{
			Name: "FeedFiltered", Method: http.MethodGet, Path: "/api/posts?q=blok&category=1&status=old", Status: http.StatusOK,
			Check: func(t *testing.T, b []byte) {
				feed := decodeFeed(t, b)
				if len(feed) != 1 || feed[0].ID != "3" {
					t.Errorf("unexpected feed %s", b)
				}
			},
		},
		{
			Name: "Create", Method: http.MethodPost, Path: "/api/posts", Status: http.StatusCreated,
			Body: `{"content":"Lubang di Blok B","category":"1","address":"Blok B","hashtags":"#Penting random #BlokB"}`,
			Check: func(t *testing.T, b []byte) {
				p := decodePost(t, b)
				createdID = p.ID
				if p.Status != posts.StatusNew || p.Likes != 0 || len(p.Comments) != 0 || p.Author.ID != "1" {
					t.Errorf("unexpected post %s", b)
				}
				if len(p.Hashtags) != 2 || p.Hashtags[0] != "#Penting" || p.Hashtags[1] != "#BlokB" {
					t.Errorf("unexpected hashtags %v", p.Hashtags)
				}
			},
		},
		{
			Name: "CreateInvalid", Method: http.MethodPost, Path: "/api/posts", Status: http.StatusUnprocessableEntity,
			Body: `{"content":"x","category":"99","address":"Blok B"}`,
		},
		{
			Name: "FeedAfterCreate", Method: http.MethodGet, Path: "/api/posts", Status: http.StatusOK,
			Check: func(t *testing.T, b []byte) {
				feed := decodeFeed(t, b)
				if len(feed) != 4 || feed[0].ID != createdID {
					t.Errorf("expected created post first, got %s", b)
				}
			},
		},
		{
			Name: "Stats", Method: http.MethodGet, Path: "/api/stats", Status: http.StatusOK,
			Check: func(t *testing.T, b []byte) {
				var s posts.Stats
				json.Unmarshal(b, &s)
				if s != (posts.Stats{Total: 4, New: 2, Old: 2, Today: 1}) {
					t.Errorf("unexpected stats %+v", s)
				}
			},
		},
		{
			Name: "Comment", Method: http.MethodPost, Path: "/api/posts/1/comments", Status: http.StatusCreated,
			Body: `{"comment":"Setuju"}`,
			Check: func(t *testing.T, b []byte) {
				p := decodePost(t, b)
				if len(p.Comments) != 2 || p.Comments[1].Content != "Setuju" || p.Comments[0].ID != "1" {
					t.Errorf("unexpected comments %s", b)
				}
			},
		},
		{
			Name: "BlankComment", Method: http.MethodPost, Path: "/api/posts/1/comments", Status: http.StatusUnprocessableEntity,
			Body: `{"comment":" "}`,
		},
		{
			Name: "Like", Method: http.MethodPost, Path: "/api/posts/2/like", Status: http.StatusOK,
			Check: func(t *testing.T, b []byte) {
				if p := decodePost(t, b); p.Likes != 19 || !p.Liked {
					t.Errorf("unexpected like state %s", b)
				}
			},
		},
		{
			Name: "LikeAsOtherUser", Method: http.MethodPost, Path: "/api/posts/2/like", Status: http.StatusOK,
			Headers: map[string]string{session.UserHeader: "3"},
			Check: func(t *testing.T, b []byte) {
				if p := decodePost(t, b); p.Likes != 20 || !p.Liked {
					t.Errorf("unexpected like state %s", b)
				}
			},
		},
		{
			Name: "Unlike", Method: http.MethodPost, Path: "/api/posts/2/like", Status: http.StatusOK,
			Check: func(t *testing.T, b []byte) {
				if p := decodePost(t, b); p.Likes != 19 || p.Liked {
					t.Errorf("unexpected like state %s", b)
				}
			},
		},
		{
			Name: "CommentLike", Method: http.MethodPost, Path: "/api/posts/3/comments/2/like", Status: http.StatusOK,
			Check: func(t *testing.T, b []byte) {
				if p := decodePost(t, b); p.Comments[0].Likes != 9 || !p.Comments[0].Liked {
					t.Errorf("unexpected comment like state %s", b)
				}
			},
		},
		{Name: "UnknownPost", Method: http.MethodGet, Path: "/api/posts/404", Status: http.StatusNotFound},
		{Name: "UnknownComment", Method: http.MethodPost, Path: "/api/posts/1/comments/404/like", Status: http.StatusNotFound},
		{Name: "UnknownUser", Method: http.MethodGet, Path: "/api/me", Headers: map[string]string{session.UserHeader: "9"}, Status: http.StatusUnauthorized},
		{Name: "UnknownRoute", Method: http.MethodGet, Path: "/api/nothing", Status: http.StatusNotFound},
		{
			Name: "Profile", Method: http.MethodGet, Path: "/api/profile", Status: http.StatusOK,
			Check: func(t *testing.T, b []byte) {
				var p handlers.ProfileResponse
				json.Unmarshal(b, &p)
				if p.User.ID != "1" || p.Stats.Total != 2 || p.Stats.Likes != 24 || p.Stats.Locations != 2 {
					t.Errorf("unexpected profile %s", b)
				}
			},
		},
		{
			Name: "UserProfile", Method: http.MethodGet, Path: "/api/users/3/profile", Status: http.StatusOK,
			Check: func(t *testing.T, b []byte) {
				var p handlers.ProfileResponse
				json.Unmarshal(b, &p)
				if p.User.Name != "Mohd Fariz" || p.Stats.Total != 1 || p.Stats.Old != 1 {
					t.Errorf("unexpected profile %s", b)
				}
			},
		},
		{
			Name: "Map", Method: http.MethodGet, Path: "/api/map?status=new", Status: http.StatusOK,
			Check: func(t *testing.T, b []byte) {
				var m handlers.MapResponse
				json.Unmarshal(b, &m)
				if len(m.Markers) != 2 || len(m.Recent) != 2 || m.Markers[0].Color != "#EF4444" {
					t.Errorf("unexpected map %s", b)
				}
			},
		},
		{
			Name: "Categories", Method: http.MethodGet, Path: "/api/categories", Status: http.StatusOK,
			Check: func(t *testing.T, b []byte) {
				if !strings.Contains(string(b), "Lain-lain") {
					t.Errorf("unexpected categories %s", b)
				}
			},
		},
	}

	for i, c := range cases {
		w := do(h, c)
		if w.Code != c.Status {
			t.Fatalf("test #%d %s fail, expected status: %d, but was: %d (%s)", i, c.Name, c.Status, w.Code, w.Body.String())
		}
		if c.Check != nil {
			c.Check(t, w.Body.Bytes())
		}
	}
}

type upload struct {
	name, contentType, data string
}

func newUploadRequest(uploads ...upload) *http.Request {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	mw.WriteField("content", "Longkang tersumbat")
	mw.WriteField("category", "3")
	mw.WriteField("address", "Blok D")
	for _, u := range uploads {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="media"; filename="`+u.name+`"`)
		header.Set("Content-Type", u.contentType)
		part, _ := mw.CreatePart(header)
		part.Write([]byte(u.data))
	}
	mw.Close()

	r := httptest.NewRequest(http.MethodPost, "/api/posts", body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestMediaUpload(t *testing.T) {
	h := newTestApp(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, newUploadRequest(
		upload{"a.png", "image/png", "data-a.png"},
		upload{"b.mp4", "video/mp4", "data-b.mp4"},
	))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 but was %d (%s)", w.Code, w.Body.String())
	}
	p := decodePost(t, w.Body.Bytes())
	if len(p.Images) != 1 || len(p.Videos) != 1 {
		t.Fatalf("unexpected media %v %v", p.Images, p.Videos)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p.Images[0], nil))
	if w.Code != http.StatusOK || w.Body.String() != "data-a.png" || w.Header().Get("Content-Type") != "image/png" {
		t.Errorf("unexpected media response %d %q", w.Code, w.Body.String())
	}
}

func TestEmptyMediaUpload(t *testing.T) {
	h := newTestApp(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, newUploadRequest(upload{"a.png", "image/png", ""}))

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 but was %d (%s)", w.Code, w.Body.String())
	}
	var res handlers.ErrorsResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	if len(res.Errors) != 1 || res.Errors[0].Param != "media" {
		t.Errorf("unexpected errors %s", w.Body.String())
	}

	w = do(h, Case{Method: http.MethodGet, Path: "/api/posts"})
	if feed := decodeFeed(t, w.Body.Bytes()); len(feed) != 3 {
		t.Errorf("expected store unchanged, but feed has %d posts", len(feed))
	}
}
