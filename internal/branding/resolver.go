package branding

import (
	"context"
	"log/slog"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/domain"
)

// Resolver は自治体識別子から表示プロファイルを解決します。
// 参照元を順に引き、どこにも無い場合は代替プロファイルを合成するため、
// 解決は決して失敗しません。未知の自治体は劣化した正常系です。
type Resolver struct {
	sources []Source
}

// NewResolver は参照順に並べた sources を持つ Resolver を作成します。
func NewResolver(sources ...Source) *Resolver {
	return &Resolver{sources: sources}
}

// Resolve は municipalityID に対応するプロファイルを返します。
func (r *Resolver) Resolve(ctx context.Context, municipalityID string) domain.MunicipalBrandingProfile {
	id := Normalize(municipalityID)

	for _, src := range r.sources {
		p, ok, err := src.Lookup(ctx, id)
		if err != nil {
			// 参照元の障害は解決を止めません。次の参照元へ進みます。
			slog.WarnContext(ctx, "branding source lookup failed",
				"municipality", id, "error", err)
			continue
		}
		if ok {
			return fillDefaults(p, municipalityID)
		}
	}

	slog.InfoContext(ctx, "municipality not found in profile sources, using fallback",
		"municipality", id)
	return FallbackProfile(municipalityID)
}

// fillDefaults は参照元から来たプロファイルの欠落項目を代替値で補います。
func fillDefaults(p domain.MunicipalBrandingProfile, municipalityID string) domain.MunicipalBrandingProfile {
	fallback := FallbackProfile(municipalityID)

	if p.Municipality == "" {
		p.Municipality = fallback.Municipality
	}
	if p.DisplayName == "" {
		p.DisplayName = fallback.DisplayName
	}
	if p.PrimaryColor == "" {
		p.PrimaryColor = fallback.PrimaryColor
	}
	if p.SecondaryColor == "" {
		p.SecondaryColor = fallback.SecondaryColor
	}
	if p.LogoURL == "" {
		p.LogoURL = fallback.LogoURL
	}
	if p.CulturalContext == "" {
		p.CulturalContext = fallback.CulturalContext
	}
	if p.BrandingConfig.FontFamily == "" {
		p.BrandingConfig.FontFamily = TypographyFor(p.CulturalContext).FontFamily
	}
	if p.BrandingConfig.BorderRadius == "" {
		p.BrandingConfig.BorderRadius = TypographyFor(p.CulturalContext).BorderRadius
	}
	if p.BrandingConfig.Spacing == "" {
		p.BrandingConfig.Spacing = TypographyFor(p.CulturalContext).Spacing
	}
	return p
}
