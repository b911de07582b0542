package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/costmanagement/backend/internal/cost"
	"github.com/costmanagement/backend/internal/model"
	"github.com/costmanagement/backend/internal/service"
	"github.com/go-chi/chi/v5"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// maxBodyBytes はリクエストボディの上限 (1MB)
const maxBodyBytes = 1 << 20

// envelope は全レスポンス共通の形式 {status, message, data}
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Status: statusSuccess, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Status: statusError, Message: message})
}

// writeServiceError maps service sentinels to HTTP status codes. Anything
// unrecognised is logged and reported as a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", RequestIDFromContext(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON は上限付きでボディを dst にデコードする
func decodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: failed to read body", service.ErrInvalidInput)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: invalid json", service.ErrInvalidInput)
	}
	return nil
}

// parseDate は "YYYY-MM-DD" または RFC3339 の文字列をパースする。
// 空文字はゼロ値を返し、必須チェックはサービス層に任せる。
func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return cost.DateOf(t), nil
	}
	return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", service.ErrInvalidInput, field)
}

// pathID は chi の URL パラメータを正の int64 として読む
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", service.ErrInvalidInput, name)
	}
	return id, nil
}

// queryProjectFilter は idKey（数値）と nameKey（部分一致）から ProjectFilter を組み立てる
func queryProjectFilter(r *http.Request, idKey, nameKey string) (model.ProjectFilter, error) {
	var filter model.ProjectFilter
	q := r.URL.Query()
	if raw := q.Get(idKey); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return filter, fmt.Errorf("%w: invalid %s", service.ErrInvalidInput, idKey)
		}
		filter.ID = &id
	}
	filter.Name = q.Get(nameKey)
	return filter, nil
}

func queryPrecision(r *http.Request) (cost.Precision, error) {
	p, err := cost.ParsePrecision(r.URL.Query().Get("precision"))
	if err != nil {
		return p, fmt.Errorf("%w: %v", service.ErrInvalidInput, err)
	}
	return p, nil
}
