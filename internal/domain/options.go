package domain

// DeploymentFormat は配信形式を表します。
type DeploymentFormat string

const (
	// FormatWeb は静的サイトとして配信する形式です。
	FormatWeb DeploymentFormat = "web"
	// FormatSCORM は LMS 取り込み用の SCORM 2004 形式です。
	FormatSCORM DeploymentFormat = "scorm"
	// FormatPWA はインストール可能な PWA 形式です。
	FormatPWA DeploymentFormat = "pwa"
)

// KnownFormat は、f が対応済みの配信形式かどうかを判定します。
func KnownFormat(f DeploymentFormat) bool {
	switch f {
	case FormatWeb, FormatSCORM, FormatPWA:
		return true
	default:
		return false
	}
}

// BrandingLevel は自治体ブランディングの適用範囲を表します。
type BrandingLevel string

const (
	// BrandingMinimal はカラートークンのみを適用します。
	BrandingMinimal BrandingLevel = "minimal"
	// BrandingStandard はロゴとタイポグラフィまで適用します。(既定値)
	BrandingStandard BrandingLevel = "standard"
	// BrandingFull は文化的適応メタデータまで注入します。
	BrandingFull BrandingLevel = "full"
)

// KnownBrandingLevel は、l が定義済みの適用範囲かどうかを判定します。
func KnownBrandingLevel(l BrandingLevel) bool {
	switch l {
	case BrandingMinimal, BrandingStandard, BrandingFull:
		return true
	default:
		return false
	}
}

// DeploymentOptions は、投入側が指定する配信設定です。
type DeploymentOptions struct {
	// Formats は要求された配信形式です。1件以上が必須です。
	Formats []DeploymentFormat `json:"formats"`
	// Markets は対象市場の国コードです。(例: "SE", "DE")
	Markets []string `json:"markets,omitempty"`
	// MunicipalityID は対象自治体の識別子です。(例: "malmo")
	MunicipalityID string `json:"municipalityId"`
	// BrandingLevel はブランディングの適用範囲です。省略時は standard 扱いです。
	BrandingLevel BrandingLevel `json:"brandingLevel,omitempty"`
}

// EffectiveBrandingLevel は、省略時の既定値を補った適用範囲を返します。
func (o DeploymentOptions) EffectiveBrandingLevel() BrandingLevel {
	if o.BrandingLevel == "" {
		return BrandingStandard
	}
	return o.BrandingLevel
}

// ProcessingOptions は、投入時の任意オプションです。
type ProcessingOptions struct {
	// WebhookURL は、ジョブ終了時に最終レコードを POST する通知先です。
	WebhookURL string `json:"webhookUrl,omitempty"`
}
