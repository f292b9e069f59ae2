package app

import (
	"io"
	"log/slog"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/adapters"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/config"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/dispatch"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/events"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/pipeline"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/store"
)

// Container はアプリケーションの依存関係（DIコンテナ）を保持します。
type Container struct {
	Config *config.Config

	// I/O and Storage
	RemoteIO    *RemoteIO
	Store       store.JobStore
	StoreCloser io.Closer

	// Job Execution
	Pipeline   *pipeline.ContentPipeline
	Dispatcher dispatch.TaskDispatcher

	// External Adapters
	HTTPClient     httpkit.ClientInterface
	Slack          adapters.SlackNotifier
	Webhook        adapters.WebhookNotifier
	Publisher      events.Publisher
	BrandingCloser io.Closer
}

// RemoteIO は GCS 系 I/O コンポーネントの束です。
// アップロード先かプロファイル表が GCS を指す構成でのみ構築されます。
type RemoteIO struct {
	Factory remoteio.IOFactory
	Reader  remoteio.InputReader
	Writer  remoteio.OutputWriter
	Signer  remoteio.URLSigner
}

// Close は、Container が保持するすべての外部接続リソースを安全に解放します。
// 実行中のジョブが依存を失わないよう、ディスパッチャを最初に閉じます。
func (c *Container) Close() {
	if c.Dispatcher != nil {
		if err := c.Dispatcher.Close(); err != nil {
			slog.Error("failed to close task dispatcher", "error", err)
		}
	}
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			slog.Error("failed to close event publisher", "error", err)
		}
	}
	if c.BrandingCloser != nil {
		if err := c.BrandingCloser.Close(); err != nil {
			slog.Error("failed to close branding source", "error", err)
		}
	}
	if c.StoreCloser != nil {
		if err := c.StoreCloser.Close(); err != nil {
			slog.Error("failed to close job store", "error", err)
		}
	}
	if c.RemoteIO != nil && c.RemoteIO.Factory != nil {
		if err := c.RemoteIO.Factory.Close(); err != nil {
			slog.Error("failed to close IOFactory", "error", err)
		}
	}
}
