package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/domain"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/store"
)

// listResponse は一覧エンドポイントのレスポンスボディです。
type listResponse struct {
	Jobs   []domain.ProcessingJob `json:"jobs"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

// HandleStatus は1件のジョブレコードを返します。
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	job, err := h.store.Get(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		slog.ErrorContext(r.Context(), "ジョブレコードの取得に失敗しました", "job_id", jobID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load the job record")
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// HandleList は新しい順のジョブ一覧ページを返します。
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", store.DefaultListLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "limit must be an integer")
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "offset must be an integer")
		return
	}
	limit, offset = store.ClampListRange(limit, offset)

	jobs, err := h.store.List(r.Context(), limit, offset)
	if err != nil {
		slog.ErrorContext(r.Context(), "ジョブ一覧の取得に失敗しました", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list job records")
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Jobs: jobs, Limit: limit, Offset: offset})
}

// Health は死活監視に応答します。
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "ok")
}
