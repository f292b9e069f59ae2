package transform

import (
	"fmt"
	"time"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/domain"
)

// Transformer は、検証済みマニフェストへ自治体ブランディングを適用し、
// 配備用マニフェストを組み立てます。シーン本文には一切手を入れません。
type Transformer struct {
	now func() time.Time
}

// New は Transformer を作成します。
func New() *Transformer {
	return &Transformer{now: time.Now}
}

// Apply は brandingLevel の範囲でプロファイルをテーマとして付与します。
// minimal はカラートークンのみ、standard はロゴとタイポグラフィまで、
// full は文化的適応メタデータまで注入します。
func (t *Transformer) Apply(
	manifest domain.GameManifest,
	profile domain.MunicipalBrandingProfile,
	level domain.BrandingLevel,
) (domain.BrandedManifest, error) {
	theme := domain.Theme{
		PrimaryColor:   profile.PrimaryColor,
		SecondaryColor: profile.SecondaryColor,
	}

	switch level {
	case domain.BrandingMinimal:
		// カラートークンのみ
	case domain.BrandingStandard, domain.BrandingFull:
		theme.LogoURL = profile.LogoURL
		theme.FontFamily = profile.BrandingConfig.FontFamily
		theme.BorderRadius = profile.BrandingConfig.BorderRadius
		theme.Spacing = profile.BrandingConfig.Spacing
		if level == domain.BrandingFull {
			theme.CulturalContext = profile.CulturalContext
			theme.CulturalHints = culturalHints(profile.CulturalContext)
		}
	default:
		return domain.BrandedManifest{}, fmt.Errorf("unknown branding level %q", level)
	}

	now := t.now().UTC()
	scenes := make([]domain.Scene, len(manifest.Scenes))
	for i, scene := range manifest.Scenes {
		// 検証を通った後に内容が壊れているのは変換段階の失敗として扱います。
		if _, err := scene.DecodeContent(); err != nil {
			return domain.BrandedManifest{}, fmt.Errorf("scene content is not transformable: %w", err)
		}
		scene.Processed = true
		processedAt := now
		scene.ProcessedAt = &processedAt
		scenes[i] = scene
	}

	branded := domain.BrandedManifest{
		GameManifest:  manifest,
		Municipality:  profile.Municipality,
		BrandingLevel: level,
		Theme:         theme,
		BrandedAt:     now,
	}
	branded.Scenes = scenes

	return branded, nil
}

// culturalHints は full レベルでローカライズ下流に渡す適応ヒントです。
func culturalHints(context domain.CulturalContext) map[string]string {
	switch context {
	case domain.ContextSwedish:
		return map[string]string{"formality": "du-form", "dateFormat": "YYYY-MM-DD", "currency": "SEK"}
	case domain.ContextGerman:
		return map[string]string{"formality": "sie-form", "dateFormat": "DD.MM.YYYY", "currency": "EUR"}
	case domain.ContextFrench:
		return map[string]string{"formality": "vous-form", "dateFormat": "DD/MM/YYYY", "currency": "EUR"}
	case domain.ContextDutch:
		return map[string]string{"formality": "u-form", "dateFormat": "DD-MM-YYYY", "currency": "EUR"}
	default:
		return map[string]string{"formality": "neutral", "dateFormat": "YYYY-MM-DD", "currency": "EUR"}
	}
}
