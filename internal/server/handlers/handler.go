package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/config"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/dispatch"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/store"
)

// Handler はコンテンツ投入 API のエンドポイント群を提供します。
// ジョブレコードの作成と照会のみを担い、処理本体はディスパッチャ経由で
// パイプラインに委ねます。
type Handler struct {
	cfg        *config.Config
	store      store.JobStore
	dispatcher dispatch.TaskDispatcher
	now        func() time.Time
	newID      func() string
}

// NewHandler は API ハンドラーを初期化します。
func NewHandler(cfg *config.Config, jobStore store.JobStore, dispatcher dispatch.TaskDispatcher) *Handler {
	return &Handler{
		cfg:        cfg,
		store:      jobStore,
		dispatcher: dispatcher,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}
