package handlers

import (
	"context"
	"io"
	"net/http"

	"go.uber.org/zap"

	"jmlastro/internal/models"
)

const maxImageBytes = 5 << 20

type AstrologerServicer interface {
	ListAstrologers(ctx context.Context, f models.AstrologerFilter) ([]models.Astrologer, error)
	GetAstrologer(ctx context.Context, id string) (models.Astrologer, error)
	CreateAstrologer(ctx context.Context, req models.CreateAstrologerRequest) (models.Astrologer, error)
	UpdateAstrologer(ctx context.Context, id string, req models.UpdateAstrologerRequest) (models.Astrologer, error)
	UploadImage(ctx context.Context, id string, file []byte, fileName string) (models.Astrologer, error)
}

type AstrologerHandler struct {
	Service AstrologerServicer
	Log     *zap.SugaredLogger
}

func (h *AstrologerHandler) ListAstrologers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.Service.ListAstrologers(r.Context(), models.AstrologerFilter{
		Search:         q.Get("search"),
		Specialization: q.Get("specialization"),
		Language:       q.Get("language"),
	})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	if list == nil {
		list = []models.Astrologer{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *AstrologerHandler) GetAstrologer(w http.ResponseWriter, r *http.Request) {
	a, err := h.Service.GetAstrologer(r.Context(), getParam(r, "id"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AstrologerHandler) CreateAstrologer(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAstrologerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	a, err := h.Service.CreateAstrologer(r.Context(), req)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *AstrologerHandler) UpdateAstrologer(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateAstrologerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	a, err := h.Service.UpdateAstrologer(r.Context(), getParam(r, "id"), req)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// UploadImage accepts a multipart form with an "image" file part.
func (h *AstrologerHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+1024)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeValidation(w, models.NewValidationError("must be a multipart form under 5MB", "image"))
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeValidation(w, models.NewValidationError("Required", "image"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		serverError(w, h.Log, err)
		return
	}
	a, err := h.Service.UploadImage(r.Context(), getParam(r, "id"), data, header.Filename)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}
