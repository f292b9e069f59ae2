package branding

import (
	"strings"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/domain"
)

// 代替プロファイルの既定値です。
const (
	DefaultPrimaryColor   = "#004a99"
	DefaultSecondaryColor = "#6c757d"
	DefaultLogoURL        = "https://assets.diginative.eu/logos/diginative.svg"
)

// Normalize は自治体識別子を照合用のキーへ正規化します。
// 大文字小文字を畳み、空白と区切り文字を取り除きます。
func Normalize(municipalityID string) string {
	s := strings.ToLower(strings.TrimSpace(municipalityID))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-', '_', '.':
			return -1
		}
		return r
	}, s)
}

// DefaultTable は組み込みの自治体プロファイル表を返します。
// 運用上の正式な表は設定ファイルまたは Redis 登録簿から供給され、
// この表は未設定環境とテストの既定値として働きます。
func DefaultTable() map[string]domain.MunicipalBrandingProfile {
	profiles := []domain.MunicipalBrandingProfile{
		{
			Municipality:    "malmo",
			DisplayName:     "Malmö Stad",
			PrimaryColor:    "#005a9f",
			SecondaryColor:  "#e2007a",
			LogoURL:         "https://assets.diginative.eu/logos/malmo.svg",
			CulturalContext: domain.ContextSwedish,
		},
		{
			Municipality:    "goteborg",
			DisplayName:     "Göteborgs Stad",
			PrimaryColor:    "#0076bc",
			SecondaryColor:  "#ffcc00",
			LogoURL:         "https://assets.diginative.eu/logos/goteborg.svg",
			CulturalContext: domain.ContextSwedish,
		},
		{
			Municipality:    "stockholm",
			DisplayName:     "Stockholms Stad",
			PrimaryColor:    "#003e6e",
			SecondaryColor:  "#d4aa00",
			LogoURL:         "https://assets.diginative.eu/logos/stockholm.svg",
			CulturalContext: domain.ContextSwedish,
		},
		{
			Municipality:    "berlin",
			DisplayName:     "Stadt Berlin",
			PrimaryColor:    "#e40422",
			SecondaryColor:  "#000000",
			LogoURL:         "https://assets.diginative.eu/logos/berlin.svg",
			CulturalContext: domain.ContextGerman,
		},
		{
			Municipality:    "munich",
			DisplayName:     "Landeshauptstadt München",
			PrimaryColor:    "#0065bd",
			SecondaryColor:  "#ffd000",
			LogoURL:         "https://assets.diginative.eu/logos/munich.svg",
			CulturalContext: domain.ContextGerman,
		},
		{
			Municipality:    "paris",
			DisplayName:     "Ville de Paris",
			PrimaryColor:    "#1e3a8a",
			SecondaryColor:  "#b91c1c",
			LogoURL:         "https://assets.diginative.eu/logos/paris.svg",
			CulturalContext: domain.ContextFrench,
		},
		{
			Municipality:    "lyon",
			DisplayName:     "Ville de Lyon",
			PrimaryColor:    "#be123c",
			SecondaryColor:  "#1f2937",
			LogoURL:         "https://assets.diginative.eu/logos/lyon.svg",
			CulturalContext: domain.ContextFrench,
		},
		{
			Municipality:    "amsterdam",
			DisplayName:     "Gemeente Amsterdam",
			PrimaryColor:    "#ec0000",
			SecondaryColor:  "#000000",
			LogoURL:         "https://assets.diginative.eu/logos/amsterdam.svg",
			CulturalContext: domain.ContextDutch,
		},
		{
			Municipality:    "rotterdam",
			DisplayName:     "Gemeente Rotterdam",
			PrimaryColor:    "#00811f",
			SecondaryColor:  "#000000",
			LogoURL:         "https://assets.diginative.eu/logos/rotterdam.svg",
			CulturalContext: domain.ContextDutch,
		},
	}

	table := make(map[string]domain.MunicipalBrandingProfile, len(profiles))
	for _, p := range profiles {
		p.BrandingConfig = TypographyFor(p.CulturalContext)
		table[p.Municipality] = p
	}
	return table
}

// TypographyFor は文化的適応先ごとのタイポグラフィ既定値を返します。
func TypographyFor(context domain.CulturalContext) domain.BrandingConfig {
	switch context {
	case domain.ContextSwedish:
		return domain.BrandingConfig{FontFamily: "'Inter', sans-serif", BorderRadius: "8px", Spacing: "1rem"}
	case domain.ContextGerman:
		return domain.BrandingConfig{FontFamily: "'Fira Sans', sans-serif", BorderRadius: "4px", Spacing: "0.875rem"}
	case domain.ContextFrench:
		return domain.BrandingConfig{FontFamily: "'Marianne', sans-serif", BorderRadius: "6px", Spacing: "1rem"}
	case domain.ContextDutch:
		return domain.BrandingConfig{FontFamily: "'RO Sans', sans-serif", BorderRadius: "2px", Spacing: "0.75rem"}
	default:
		return domain.BrandingConfig{FontFamily: "'Open Sans', sans-serif", BorderRadius: "4px", Spacing: "1rem"}
	}
}

// InferContext は識別子の言語的な手掛かりから文化的適応先を推定します。
// 手掛かりが無い場合は european を返します。
func InferContext(municipalityID string) domain.CulturalContext {
	s := strings.ToLower(strings.TrimSpace(municipalityID))

	for prefix, context := range map[string]domain.CulturalContext{
		"se-": domain.ContextSwedish,
		"de-": domain.ContextGerman,
		"fr-": domain.ContextFrench,
		"nl-": domain.ContextDutch,
	} {
		if strings.HasPrefix(s, prefix) {
			return context
		}
	}

	switch {
	case strings.Contains(s, "stadt"):
		return domain.ContextGerman
	case strings.Contains(s, "gemeente"):
		return domain.ContextDutch
	case strings.Contains(s, "ville"):
		return domain.ContextFrench
	case strings.Contains(s, "stad") || strings.Contains(s, "kommun"):
		return domain.ContextSwedish
	default:
		return domain.ContextEuropean
	}
}

// FallbackProfile は未知の自治体に対する代替プロファイルを合成します。
// 全項目が埋まった利用可能なプロファイルを常に返します。
func FallbackProfile(municipalityID string) domain.MunicipalBrandingProfile {
	context := InferContext(municipalityID)
	display := strings.TrimSpace(municipalityID)
	if display == "" {
		display = domain.MunicipalityNotAvailable
	}

	return domain.MunicipalBrandingProfile{
		Municipality:    Normalize(municipalityID),
		DisplayName:     display,
		PrimaryColor:    DefaultPrimaryColor,
		SecondaryColor:  DefaultSecondaryColor,
		LogoURL:         DefaultLogoURL,
		CulturalContext: context,
		BrandingConfig:  TypographyFor(context),
	}
}
