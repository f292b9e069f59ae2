package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

// errorResponse は 4xx/5xx 応答の共通ボディです。
// Details には受付時に検出した問題を全件列挙します。
type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// writeJSON は JSON レスポンスを書き込みます。
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("レスポンスの書き込みに失敗しました", "error", err)
	}
}

// writeError はエラーレスポンスを書き込みます。
func writeError(w http.ResponseWriter, status int, message string, details ...string) {
	writeJSON(w, status, errorResponse{Error: message, Details: details})
}

// queryInt はクエリ引数を整数として読み取ります。未指定は fallback を返します。
func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
