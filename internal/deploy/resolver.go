package deploy

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/branding"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/config"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/domain"
)

// marketRegions は市場国コードから配信リージョンへの静的対応表です。
var marketRegions = map[string]string{
	"SE": "eu-north",
	"NO": "eu-north",
	"DK": "eu-north",
	"FI": "eu-north",
	"DE": "eu-central",
	"AT": "eu-central",
	"CH": "eu-central",
	"PL": "eu-central",
	"FR": "eu-west",
	"BE": "eu-west",
	"NL": "eu-west",
	"LU": "eu-west",
}

// Resolver は形式と自治体から配備先 URL を決定的に構築します。
// この段階はデータモデル上は副作用を持たず、実体の転送は Uploader が担います。
type Resolver struct {
	baseURL       string
	defaultRegion string
}

// NewResolver は設定済みの Resolver を作成します。
func NewResolver(cfg *config.Config) *Resolver {
	return &Resolver{
		baseURL:       strings.TrimRight(cfg.CDNBaseURL, "/"),
		defaultRegion: cfg.DefaultRegion,
	}
}

// ResolveRegion は最初の市場を対応表で引きます。未対応の市場と
// 市場未指定はエラーにせず、既定リージョンへ落とします。
func (r *Resolver) ResolveRegion(markets []string) string {
	if len(markets) == 0 {
		return r.defaultRegion
	}
	if region, ok := marketRegions[strings.ToUpper(strings.TrimSpace(markets[0]))]; ok {
		return region
	}
	return r.defaultRegion
}

// ResolveURL は成果物記述に対応する配備 URL を構築します。
// URL は基点ホスト、リージョン、自治体、ゲームID、形式固有のパスから成ります。
func (r *Resolver) ResolveURL(descriptor domain.PackageDescriptor, opts domain.DeploymentOptions) (string, error) {
	var gameID, suffix string
	switch d := descriptor.(type) {
	case domain.WebBundleDescriptor:
		gameID = d.GameID
		suffix = "web/" + d.EntryPoint
	case domain.SCORMDescriptor:
		gameID = d.GameID
		suffix = "scorm/" + d.PackageFile
	case domain.PWADescriptor:
		gameID = d.GameID
		suffix = "pwa/manifest.webmanifest"
	default:
		return "", fmt.Errorf("no deployment path defined for format %q", descriptor.Kind())
	}

	municipality := branding.Normalize(opts.MunicipalityID)
	if municipality == "" {
		return "", fmt.Errorf("deployment URL requires a municipality")
	}
	if gameID == "" {
		return "", fmt.Errorf("deployment URL requires a game id")
	}

	deployURL, err := url.JoinPath(r.baseURL, r.ResolveRegion(opts.Markets), municipality, gameID, suffix)
	if err != nil {
		return "", fmt.Errorf("failed to build deployment URL: %w", err)
	}
	return deployURL, nil
}
