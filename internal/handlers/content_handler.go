package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"jmlastro/internal/models"
)

type BlogServicer interface {
	ListPosts(ctx context.Context) ([]models.BlogPost, error)
	GetPost(ctx context.Context, slug string) (models.BlogPost, error)
}

type HoroscopeServicer interface {
	GetHoroscope(ctx context.Context, sign, kind, date string) (models.Horoscope, error)
	LatestHoroscopes(ctx context.Context, kind string) ([]models.Horoscope, error)
}

type ContentHandler struct {
	Blog       BlogServicer
	Horoscopes HoroscopeServicer
	Log        *zap.SugaredLogger
}

func (h *ContentHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Blog.ListPosts(r.Context())
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if posts == nil {
		posts = []models.BlogPost{}
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *ContentHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.Blog.GetPost(r.Context(), getParam(r, "slug"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// GetHoroscope serves /api/horoscope/:sign/:type with an optional ?date=YYYY-MM-DD.
func (h *ContentHandler) GetHoroscope(w http.ResponseWriter, r *http.Request) {
	hs, err := h.Horoscopes.GetHoroscope(r.Context(), getParam(r, "sign"), getParam(r, "type"), r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, hs)
}

func (h *ContentHandler) LatestHoroscopes(w http.ResponseWriter, r *http.Request) {
	list, err := h.Horoscopes.LatestHoroscopes(r.Context(), getParam(r, "type"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if list == nil {
		list = []models.Horoscope{}
	}
	writeJSON(w, http.StatusOK, list)
}
