package domain

// ValidationPerformance は、検証時に計測したサイズと読み込み見積もりです。
type ValidationPerformance struct {
	// ContentSizeBytes はマニフェストの直列化後のバイト数です。
	ContentSizeBytes int `json:"contentSize"`
	// EstimatedLoadTimeMS はサイズから見積もった読み込み時間です。(ミリ秒)
	EstimatedLoadTimeMS int `json:"estimatedLoadTime"`
}

// ValidationReport は Manifest Validator の判定結果です。
// エラーは途中で打ち切らずに蓄積します。投入側が1往復で全問題を把握するためです。
type ValidationReport struct {
	IsValid     bool                  `json:"isValid"`
	Errors      []string              `json:"errors"`
	Warnings    []string              `json:"warnings"`
	Performance ValidationPerformance `json:"performance"`
}
