package domain

import "time"

// PackageDescriptor は、配信形式ごとのビルド成果物記述です。
// 実体のバンドル生成は下流の配信基盤が担うため、ここでは記述のみを扱います。
type PackageDescriptor interface {
	Kind() DeploymentFormat
}

// WebBundleDescriptor は静的サイト形式の成果物記述です。
type WebBundleDescriptor struct {
	Format DeploymentFormat `json:"format"`
	GameID string           `json:"gameId"`
	// EntryPoint は配信時の入口ファイルです。
	EntryPoint string   `json:"entryPoint"`
	Assets     []string `json:"assets"`
	Minify     bool     `json:"minify"`
	// LighthouseTarget は性能予算の目標スコアです。
	LighthouseTarget int       `json:"lighthouseTarget"`
	BuiltAt          time.Time `json:"builtAt"`
}

func (d WebBundleDescriptor) Kind() DeploymentFormat { return FormatWeb }

// SCORMDescriptor は SCORM 2004 形式の成果物記述です。
// 修了判定やスコア追跡など、評価の意味付けはこの形式だけが持ちます。
type SCORMDescriptor struct {
	Format DeploymentFormat `json:"format"`
	GameID string           `json:"gameId"`
	// Identifier は LMS 上でパッケージを識別する逆ドメイン形式の ID です。
	Identifier string `json:"identifier"`
	// MasteryScore は合格閾値です。(百分率)
	MasteryScore int `json:"masteryScore"`
	// TimeLimitSeconds は受講の制限時間です。(秒、0 は無制限)
	TimeLimitSeconds int  `json:"timeLimitSeconds,omitempty"`
	TrackingEnabled  bool `json:"trackingEnabled"`
	// PackageFile は配備 URL の末尾につく zip ファイル名です。
	PackageFile string    `json:"packageFile"`
	BuiltAt     time.Time `json:"builtAt"`
}

func (d SCORMDescriptor) Kind() DeploymentFormat { return FormatSCORM }

// PWADescriptor はインストール可能な PWA 形式の成果物記述です。
type PWADescriptor struct {
	Format          DeploymentFormat `json:"format"`
	GameID          string           `json:"gameId"`
	Name            string           `json:"name"`
	ShortName       string           `json:"shortName"`
	StartURL        string           `json:"startUrl"`
	ThemeColor      string           `json:"themeColor,omitempty"`
	BackgroundColor string           `json:"backgroundColor,omitempty"`
	Icons           []PWAIcon        `json:"icons"`
	// CacheStrategy はオフライン時の戦略です。(例: "offline-first")
	CacheStrategy string `json:"cacheStrategy"`
	// InstallPromptDelaySeconds はインストール誘導を出すまでの遅延です。
	InstallPromptDelaySeconds int       `json:"installPromptDelaySeconds,omitempty"`
	BuiltAt                   time.Time `json:"builtAt"`
}

func (d PWADescriptor) Kind() DeploymentFormat { return FormatPWA }

// PWAIcon は web app manifest のアイコン項目です。
type PWAIcon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
	Type  string `json:"type,omitempty"`
}
