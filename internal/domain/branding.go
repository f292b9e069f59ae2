package domain

// CulturalContext は、コンテンツ表現の文化的適応先を表します。
type CulturalContext string

const (
	ContextSwedish  CulturalContext = "swedish"
	ContextGerman   CulturalContext = "german"
	ContextFrench   CulturalContext = "french"
	ContextDutch    CulturalContext = "dutch"
	// ContextEuropean は適応先が特定できない場合の基準値です。
	ContextEuropean CulturalContext = "european"
)

// BrandingConfig は、自治体プロファイルのタイポグラフィ設定です。
type BrandingConfig struct {
	FontFamily   string `json:"fontFamily"`
	BorderRadius string `json:"borderRadius"`
	Spacing      string `json:"spacing"`
}

// MunicipalBrandingProfile は、自治体ごとの表示プロファイルです。
// 参照データであり、どのジョブにも所有されません。
type MunicipalBrandingProfile struct {
	// Municipality は正規化済みの自治体識別子です。(例: "malmo")
	Municipality string `json:"municipality"`
	// DisplayName は表示用の自治体名です。(例: "Malmö Stad")
	DisplayName string `json:"displayName,omitempty"`
	// PrimaryColor は基調色です。(例: "#005a9f")
	PrimaryColor string `json:"primaryColor"`
	// SecondaryColor は補助色です。
	SecondaryColor string `json:"secondaryColor"`
	// LogoURL は自治体ロゴの配信 URL です。
	LogoURL string `json:"logoUrl"`
	// CulturalContext はローカライズ下流が参照する文化的適応先です。
	CulturalContext CulturalContext `json:"culturalContext"`
	// BrandingConfig はフォント等の表示設定です。
	BrandingConfig BrandingConfig `json:"brandingConfig"`
}
