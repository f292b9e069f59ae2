package packaging

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/config"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/domain"
)

// pwaShortNameLimit は web app manifest の short_name 推奨長です。
const pwaShortNameLimit = 12

// Builder は、配備用マニフェストから形式別の成果物記述を構築します。
// 実体のバンドル生成は下流の配信基盤の仕事で、ここでは記述のみを組み立てます。
type Builder struct {
	defaultMasteryScore int
	lighthouseTarget    int
	cacheStrategy       string
	installPromptDelay  int
	now                 func() time.Time
}

// New は設定済みの Builder を作成します。
func New(cfg *config.Config) *Builder {
	return &Builder{
		defaultMasteryScore: config.DefaultSCORMMasteryScore,
		lighthouseTarget:    config.DefaultLighthouseTarget,
		cacheStrategy:       config.DefaultCacheStrategy,
		installPromptDelay:  config.DefaultInstallPromptDelaySeconds,
		now:                 time.Now,
	}
}

// Result は形式別ビルドの結果です。
type Result struct {
	Descriptors map[domain.DeploymentFormat]domain.PackageDescriptor
	Failures    map[domain.DeploymentFormat]error
}

// FailedFormats は失敗した形式名を昇順で返します。
func (r Result) FailedFormats() []string {
	out := make([]string, 0, len(r.Failures))
	for f := range r.Failures {
		out = append(out, string(f))
	}
	sort.Strings(out)
	return out
}

// Build は要求された各形式の記述を互いに独立に構築します。
// 1形式の失敗は他形式のビルドを中断せず、失敗一覧として報告します。
// 部分成功を受け入れるかどうかはオーケストレータの方針です。
func (b *Builder) Build(branded domain.BrandedManifest, formats []domain.DeploymentFormat) Result {
	res := Result{
		Descriptors: make(map[domain.DeploymentFormat]domain.PackageDescriptor, len(formats)),
		Failures:    make(map[domain.DeploymentFormat]error),
	}

	for _, format := range formats {
		if _, done := res.Descriptors[format]; done {
			continue
		}
		if _, failed := res.Failures[format]; failed {
			continue
		}

		var (
			descriptor domain.PackageDescriptor
			err        error
		)
		switch format {
		case domain.FormatWeb:
			descriptor, err = b.buildWeb(branded)
		case domain.FormatSCORM:
			descriptor, err = b.buildSCORM(branded)
		case domain.FormatPWA:
			descriptor, err = b.buildPWA(branded)
		default:
			err = fmt.Errorf("unsupported deployment format %q", format)
		}

		if err != nil {
			res.Failures[format] = err
			continue
		}
		res.Descriptors[format] = descriptor
	}

	return res
}

// buildWeb は静的サイト形式の記述を構築します。
func (b *Builder) buildWeb(branded domain.BrandedManifest) (domain.WebBundleDescriptor, error) {
	if len(branded.Scenes) == 0 {
		return domain.WebBundleDescriptor{}, fmt.Errorf("web bundle requires at least one scene")
	}

	return domain.WebBundleDescriptor{
		Format:     domain.FormatWeb,
		GameID:     branded.GameID,
		EntryPoint: "index.html",
		Assets: []string{
			"index.html",
			"assets/runtime.js",
			"assets/styles.css",
			"content/game-manifest.json",
		},
		Minify:           true,
		LighthouseTarget: b.lighthouseTarget,
		BuiltAt:          b.now().UTC(),
	}, nil
}

// buildSCORM は SCORM 2004 形式の記述を構築します。
// 合格閾値は評価シーンから採り、無ければ既定値を使います。
func (b *Builder) buildSCORM(branded domain.BrandedManifest) (domain.SCORMDescriptor, error) {
	mastery := b.defaultMasteryScore
	tracking := false

	for _, scene := range branded.Scenes {
		switch scene.Type {
		case domain.SceneTypeQuiz:
			tracking = true
		case domain.SceneTypeAssessment:
			tracking = true
			content, err := scene.DecodeContent()
			if err != nil {
				return domain.SCORMDescriptor{}, fmt.Errorf("scorm package: %w", err)
			}
			if a, ok := content.(domain.AssessmentContent); ok && a.PassingScore > 0 {
				mastery = a.PassingScore
			}
		}
	}

	return domain.SCORMDescriptor{
		Format:           domain.FormatSCORM,
		GameID:           branded.GameID,
		Identifier:       fmt.Sprintf("eu.diginative.%s.%s", branded.Municipality, branded.GameID),
		MasteryScore:     mastery,
		TimeLimitSeconds: branded.Metadata.Duration,
		TrackingEnabled:  tracking,
		PackageFile:      "scorm-package.zip",
		BuiltAt:          b.now().UTC(),
	}, nil
}

// buildPWA はインストール可能な PWA 形式の記述を構築します。
func (b *Builder) buildPWA(branded domain.BrandedManifest) (domain.PWADescriptor, error) {
	title := strings.TrimSpace(branded.Metadata.Title)
	if title == "" {
		return domain.PWADescriptor{}, fmt.Errorf("pwa manifest requires a title")
	}

	return domain.PWADescriptor{
		Format:          domain.FormatPWA,
		GameID:          branded.GameID,
		Name:            title,
		ShortName:       shortName(title),
		StartURL:        "./index.html",
		ThemeColor:      branded.Theme.PrimaryColor,
		BackgroundColor: "#ffffff",
		Icons: []domain.PWAIcon{
			{Src: "icons/icon-192.png", Sizes: "192x192", Type: "image/png"},
			{Src: "icons/icon-512.png", Sizes: "512x512", Type: "image/png"},
		},
		CacheStrategy:             b.cacheStrategy,
		InstallPromptDelaySeconds: b.installPromptDelay,
		BuiltAt:                   b.now().UTC(),
	}, nil
}

// shortName はインストール画面向けの短縮名を返します。
func shortName(title string) string {
	runes := []rune(title)
	if len(runes) <= pwaShortNameLimit {
		return title
	}
	return strings.TrimSpace(string(runes[:pwaShortNameLimit]))
}
