package handlers

import (
	"campusalert/pkg/catalog"
	"campusalert/pkg/session"
	"campusalert/pkg/user"
	"net/http"

	"go.uber.org/zap"
)

type Catalog interface {
	Categories() []*catalog.Category
	Users() []*user.User
}

type CatalogHandler struct {
	Catalog Catalog
	Logger  *zap.SugaredLogger
}

func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Logger, h.Catalog.Categories(), http.StatusOK)
}

func (h *CatalogHandler) Users(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Logger, h.Catalog.Users(), http.StatusOK)
}

// Me returns the acting user.
func (h *CatalogHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess, err := session.SessionFromContext(r.Context())
	if err != nil {
		h.Logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(w, h.Logger, sess.User, http.StatusOK)
}
