package domain

import "time"

// Theme は、変換段階でマニフェストに付与される表示テーマです。
// シーンの本文には手を入れず、描画側が参照する装飾情報のみを持ちます。
type Theme struct {
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor,omitempty"`
	LogoURL        string `json:"logoUrl,omitempty"`
	FontFamily     string `json:"fontFamily,omitempty"`
	BorderRadius   string `json:"borderRadius,omitempty"`
	Spacing        string `json:"spacing,omitempty"`
	// CulturalContext は full レベルでのみ設定される文化的適応先です。
	CulturalContext CulturalContext `json:"culturalContext,omitempty"`
	// CulturalHints は full レベルでのみ注入されるローカライズ向けヒントです。
	CulturalHints map[string]string `json:"culturalHints,omitempty"`
}

// BrandedManifest は、ブランディング適用済みの配備用マニフェストです。
type BrandedManifest struct {
	GameManifest
	// Municipality は適用したプロファイルの自治体識別子です。
	Municipality string `json:"municipality"`
	// BrandingLevel は適用した範囲です。
	BrandingLevel BrandingLevel `json:"brandingLevel"`
	// Theme は適用された表示テーマです。
	Theme Theme `json:"theme"`
	// BrandedAt は変換段階を通過した時刻です。
	BrandedAt time.Time `json:"brandedAt"`
}
