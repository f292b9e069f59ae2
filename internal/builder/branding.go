package builder

import (
	"context"
	"fmt"
	"io"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/app"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/branding"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/config"
)

// buildBrandingResolver は自治体プロファイルの参照系を組み立てます。
// 参照順は Redis 登録簿、プロファイル表、組み込み表の順です。
func buildBrandingResolver(ctx context.Context, cfg *config.Config, rio *app.RemoteIO) (*branding.Resolver, io.Closer, error) {
	var sources []branding.Source
	var closer io.Closer

	if cfg.BrandingRedisAddr != "" {
		redisSource := branding.NewRedisSource(branding.RedisOpts{
			Addr:      cfg.BrandingRedisAddr,
			Password:  cfg.BrandingRedisPassword,
			DB:        cfg.BrandingRedisDB,
			Namespace: cfg.BrandingRedisNamespace,
		})
		sources = append(sources, redisSource)
		closer = redisSource
	}

	if cfg.BrandingProfilePath != "" {
		if rio == nil {
			return nil, nil, fmt.Errorf("branding profile path requires remote IO")
		}
		table, err := branding.LoadProfiles(ctx, rio.Reader, cfg.BrandingProfilePath)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, branding.NewStaticSource(table))
	}

	sources = append(sources, branding.NewStaticSource(branding.DefaultTable()))

	return branding.NewResolver(sources...), closer, nil
}
