package builder

import (
	"github.com/shouni/gcp-kit/worker"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/app"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/domain"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/server/handlers"
)

// AppHandlers は生成されたすべての HTTP ハンドラーを保持する構造体です。
// server パッケージはこの構造体を受け取ってルーティングを行います。
type AppHandlers struct {
	API    *handlers.Handler
	Worker *worker.Handler[domain.ProcessTaskPayload]
}

// BuildHandlers は各ハンドラーの依存関係を組み立て、AppHandlers 構造体を返します。
// Worker ハンドラーは cloudtasks モードのワーカーエンドポイントでのみルートに載りますが、
// 構成差分を減らすため常に構築します。
func BuildHandlers(c *app.Container) *AppHandlers {
	return &AppHandlers{
		API:    handlers.NewHandler(c.Config, c.Store, c.Dispatcher),
		Worker: worker.NewHandler[domain.ProcessTaskPayload](c.Pipeline),
	}
}
