package handlers

import (
	"campusalert/pkg/media"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type BlobStore interface {
	Get(id string) (*media.Blob, bool)
}

type MediaHandler struct {
	Store  BlobStore
	Logger *zap.SugaredLogger
}

func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	blob, ok := h.Store.Get(mux.Vars(r)["id"])
	if !ok {
		WriteResponse(w, "media not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", blob.ContentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if !inline(blob.ContentType) {
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": blob.Name}))
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(blob.Data)))
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(blob.Data)
	if err != nil {
		h.Logger.Error(err.Error())
	}
}

// inline reports whether a blob may be rendered by the browser. Scriptable
// image types such as SVG are served as downloads.
func inline(contentType string) bool {
	ct, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	switch {
	case ct == "image/svg+xml":
		return false
	case strings.HasPrefix(ct, "image/"), strings.HasPrefix(ct, "video/"):
		return true
	}

	return false
}
