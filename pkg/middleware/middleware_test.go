package middleware

import (
	"campusalert/pkg/catalog"
	"campusalert/pkg/session"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSession(t *testing.T) {
	sm, err := session.NewStaticManager(catalog.Default(), "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := session.SessionFromContext(r.Context())
		if err == nil {
			seen = sess.User.ID
		}
	})
	h := Session(zap.NewNop().Sugar(), sm, next)

	cases := []struct {
		name   string
		path   string
		header string
		status int
		userID string
	}{
		{"ApiDefaultUser", "/api/me", "", http.StatusOK, "1"},
		{"ApiOtherUser", "/api/me", "2", http.StatusOK, "2"},
		{"ApiUnknownUser", "/api/me", "99", http.StatusUnauthorized, ""},
		{"MediaUntouched", "/media/x", "99", http.StatusOK, ""},
	}

	for i, c := range cases {
		seen = ""
		r := httptest.NewRequest("GET", c.path, nil)
		if c.header != "" {
			r.Header.Set(session.UserHeader, c.header)
		}
		w := httptest.NewRecorder()

		h.ServeHTTP(w, r)

		if w.Code != c.status || seen != c.userID {
			t.Errorf("test #%d %s fail, expected: %d %q, but was: %d %q", i, c.name, c.status, c.userID, w.Code, seen)
		}
	}
}

func TestRecover(t *testing.T) {
	h := Recover(zap.NewNop().Sugar(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/posts", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, but was %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "internal server error") {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := Log(zap.New(core).Sugar(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/api/posts", nil))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, but was %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["method"] != "POST" || fields["url"] != "/api/posts" || fields["status"] != int64(http.StatusTeapot) {
		t.Errorf("unexpected log fields: %v", fields)
	}
}
