package branding

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhonnyo88/diginative-runtime-engine-sub013/internal/domain"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "malmo", Normalize("  Malmo "))
	assert.Equal(t, "malmostad", Normalize("Malmo_Stad"))
	assert.Equal(t, "goteborg", Normalize("gote-borg"))
	assert.Equal(t, "stockholm", Normalize("stock.holm"))
	assert.Equal(t, "", Normalize("   "))
}

func TestInferContext(t *testing.T) {
	cases := map[string]domain.CulturalContext{
		"se-lund":          domain.ContextSwedish,
		"vasteras-stad":    domain.ContextSwedish,
		"uppsala-kommun":   domain.ContextSwedish,
		"de-kassel":        domain.ContextGerman,
		"stadt-kassel":     domain.ContextGerman,
		"fr-nantes":        domain.ContextFrench,
		"ville-de-nantes":  domain.ContextFrench,
		"nl-utrecht":       domain.ContextDutch,
		"gemeente-utrecht": domain.ContextDutch,
		"nowhere":          domain.ContextEuropean,
		"":                 domain.ContextEuropean,
	}
	for id, expected := range cases {
		assert.Equal(t, expected, InferContext(id), "id %q", id)
	}
}

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()
	resolver := NewResolver(NewStaticSource(DefaultTable()))

	t.Run("known municipality", func(t *testing.T) {
		p := resolver.Resolve(ctx, "malmo")
		assert.Equal(t, "malmo", p.Municipality)
		assert.Equal(t, "Malmö Stad", p.DisplayName)
		assert.Equal(t, domain.ContextSwedish, p.CulturalContext)
		assert.NotEmpty(t, p.BrandingConfig.FontFamily)
	})

	t.Run("lookup is case and separator insensitive", func(t *testing.T) {
		assert.Equal(t, "malmo", resolver.Resolve(ctx, " MALMO ").Municipality)
		assert.Equal(t, "goteborg", resolver.Resolve(ctx, "Gote_Borg").Municipality)
	})

	t.Run("unknown municipality falls back with every field populated", func(t *testing.T) {
		p := resolver.Resolve(ctx, "nowhere")

		assert.Equal(t, "nowhere", p.Municipality)
		assert.Equal(t, domain.ContextEuropean, p.CulturalContext)
		assert.NotEmpty(t, p.DisplayName)
		assert.NotEmpty(t, p.PrimaryColor)
		assert.NotEmpty(t, p.SecondaryColor)
		assert.NotEmpty(t, p.LogoURL)
		assert.NotEmpty(t, p.BrandingConfig.FontFamily)
		assert.NotEmpty(t, p.BrandingConfig.BorderRadius)
		assert.NotEmpty(t, p.BrandingConfig.Spacing)
	})

	t.Run("empty identifier still resolves", func(t *testing.T) {
		p := resolver.Resolve(ctx, "")
		assert.Equal(t, domain.MunicipalityNotAvailable, p.DisplayName)
		assert.NotEmpty(t, p.PrimaryColor)
	})
}

type failingSource struct{}

func (failingSource) Lookup(context.Context, string) (domain.MunicipalBrandingProfile, bool, error) {
	return domain.MunicipalBrandingProfile{}, false, errors.New("registry unavailable")
}

func TestResolver_SourceChain(t *testing.T) {
	ctx := context.Background()

	t.Run("a failing source does not stop resolution", func(t *testing.T) {
		resolver := NewResolver(failingSource{}, NewStaticSource(DefaultTable()))
		p := resolver.Resolve(ctx, "berlin")
		assert.Equal(t, domain.ContextGerman, p.CulturalContext)
	})

	t.Run("earlier sources win", func(t *testing.T) {
		override := NewStaticSource(map[string]domain.MunicipalBrandingProfile{
			"malmo": {Municipality: "malmo", PrimaryColor: "#111111"},
		})
		resolver := NewResolver(override, NewStaticSource(DefaultTable()))

		p := resolver.Resolve(ctx, "malmo")
		assert.Equal(t, "#111111", p.PrimaryColor)
	})

	t.Run("partial profiles are completed with defaults", func(t *testing.T) {
		partial := NewStaticSource(map[string]domain.MunicipalBrandingProfile{
			"lund": {Municipality: "lund", PrimaryColor: "#9f3a5e"},
		})
		resolver := NewResolver(partial)

		p := resolver.Resolve(ctx, "lund")
		assert.Equal(t, "#9f3a5e", p.PrimaryColor)
		assert.NotEmpty(t, p.SecondaryColor)
		assert.NotEmpty(t, p.LogoURL)
		assert.NotEmpty(t, p.BrandingConfig.FontFamily)
	})
}

type fakeReader struct {
	files map[string][]byte
}

func (f fakeReader) Open(_ context.Context, path string) (io.ReadCloser, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f fakeReader) List(context.Context, string, func(string) error) error { return nil }

func TestLoadProfiles(t *testing.T) {
	ctx := context.Background()

	t.Run("loads and normalizes entries", func(t *testing.T) {
		reader := fakeReader{files: map[string][]byte{
			"profiles.json": []byte(`[
				{"municipality":"Lund","primaryColor":"#123456","culturalContext":"swedish"},
				{"municipality":"nl-eindhoven","primaryColor":"#654321","culturalContext":"dutch"}
			]`),
		}}

		table, err := LoadProfiles(ctx, reader, "profiles.json")
		require.NoError(t, err)
		require.Len(t, table, 2)
		assert.Equal(t, "#123456", table["lund"].PrimaryColor)
		assert.Equal(t, "#654321", table["nleindhoven"].PrimaryColor)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := LoadProfiles(ctx, fakeReader{}, "absent.json")
		assert.Error(t, err)
	})

	t.Run("entry without municipality is rejected", func(t *testing.T) {
		reader := fakeReader{files: map[string][]byte{
			"profiles.json": []byte(`[{"primaryColor":"#123456"}]`),
		}}
		_, err := LoadProfiles(ctx, reader, "profiles.json")
		assert.Error(t, err)
	})
}
