package deploy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/config"
	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/domain"
)

func newResolver(t *testing.T) *Resolver {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.CDNBaseURL = "https://content.diginative.eu"
	cfg.DefaultRegion = "eu-central"
	return NewResolver(cfg)
}

func TestResolver_ResolveRegion(t *testing.T) {
	r := newResolver(t)

	assert.Equal(t, "eu-north", r.ResolveRegion([]string{"SE"}))
	assert.Equal(t, "eu-north", r.ResolveRegion([]string{"se", "DE"}), "first market wins")
	assert.Equal(t, "eu-central", r.ResolveRegion([]string{"DE"}))
	assert.Equal(t, "eu-west", r.ResolveRegion([]string{"FR"}))
	assert.Equal(t, "eu-central", r.ResolveRegion([]string{"JP"}), "unmapped market uses the default")
	assert.Equal(t, "eu-central", r.ResolveRegion(nil))
}

func TestResolver_ResolveURL(t *testing.T) {
	r := newResolver(t)
	opts := domain.DeploymentOptions{
		MunicipalityID: "malmo",
		Markets:        []string{"SE"},
	}

	t.Run("web", func(t *testing.T) {
		u, err := r.ResolveURL(domain.WebBundleDescriptor{GameID: "demo-1", EntryPoint: "index.html"}, opts)
		require.NoError(t, err)
		assert.Equal(t, "https://content.diginative.eu/eu-north/malmo/demo-1/web/index.html", u)
	})

	t.Run("scorm ends with the package file", func(t *testing.T) {
		u, err := r.ResolveURL(domain.SCORMDescriptor{GameID: "demo-1", PackageFile: "scorm-package.zip"}, opts)
		require.NoError(t, err)
		assert.Equal(t, "https://content.diginative.eu/eu-north/malmo/demo-1/scorm/scorm-package.zip", u)
	})

	t.Run("pwa serves its web app manifest", func(t *testing.T) {
		u, err := r.ResolveURL(domain.PWADescriptor{GameID: "demo-1"}, opts)
		require.NoError(t, err)
		assert.Equal(t, "https://content.diginative.eu/eu-north/malmo/demo-1/pwa/manifest.webmanifest", u)
	})

	t.Run("municipality identifier is normalized", func(t *testing.T) {
		u, err := r.ResolveURL(domain.WebBundleDescriptor{GameID: "demo-1", EntryPoint: "index.html"},
			domain.DeploymentOptions{MunicipalityID: " Malmo_Stad ", Markets: []string{"SE"}})
		require.NoError(t, err)
		assert.Contains(t, u, "/malmostad/")
	})

	t.Run("missing municipality is an error", func(t *testing.T) {
		_, err := r.ResolveURL(domain.WebBundleDescriptor{GameID: "demo-1"}, domain.DeploymentOptions{})
		assert.Error(t, err)
	})

	t.Run("missing game id is an error", func(t *testing.T) {
		_, err := r.ResolveURL(domain.WebBundleDescriptor{EntryPoint: "index.html"}, opts)
		assert.Error(t, err)
	})
}
