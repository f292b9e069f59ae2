package builder

import (
	"context"
	"fmt"

	"github.com/shouni/go-remote-io/pkg/gcsfactory"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/app"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/config"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/deploy"
)

// buildRemoteIO は、GCS ベースの I/O コンポーネントを初期化します。
// GCS を参照しない構成では接続を作らず nil を返します。
func buildRemoteIO(ctx context.Context, cfg *config.Config) (*app.RemoteIO, error) {
	if cfg.UploadDriver != config.UploadGCS && cfg.BrandingProfilePath == "" {
		return nil, nil
	}

	factory, err := gcsfactory.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS factory: %w", err)
	}
	r, err := factory.InputReader()
	if err != nil {
		return nil, fmt.Errorf("failed to create input reader: %w", err)
	}
	w, err := factory.OutputWriter()
	if err != nil {
		return nil, fmt.Errorf("failed to create output writer: %w", err)
	}
	s, err := factory.URLSigner()
	if err != nil {
		return nil, fmt.Errorf("failed to create URL signer: %w", err)
	}
	return &app.RemoteIO{
		Factory: factory,
		Reader:  r,
		Writer:  w,
		Signer:  s,
	}, nil
}

// buildUploader は成果物記述の書き出し先を構成します。
func buildUploader(ctx context.Context, cfg *config.Config, rio *app.RemoteIO) (deploy.Uploader, error) {
	switch cfg.UploadDriver {
	case config.UploadNone:
		return deploy.NoopUploader{}, nil
	case config.UploadGCS:
		if rio == nil {
			return nil, fmt.Errorf("GCS uploader requires remote IO")
		}
		return deploy.NewGCSUploader(rio.Writer, cfg.GetObjectURL), nil
	case config.UploadMinIO:
		return deploy.NewMinIOUploader(ctx,
			cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL, cfg.MinioBucket)
	default:
		return nil, fmt.Errorf("unknown upload driver %q", cfg.UploadDriver)
	}
}
