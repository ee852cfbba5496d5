package interpolation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upstreamSection struct {
	URL        string            `env_interpolation:"yes"`
	AuthHeader string            `env_interpolation:"yes"`
	Headers    map[string]string `env_interpolation:"yes"`
	Notes      string            `env_interpolation:"no"`
}

type serverSection struct {
	Listen string   `env_interpolation:"yes"`
	Tags   []string `env_interpolation:"yes"`
}

type rootConfig struct {
	Version  string `env_interpolation:"no"`
	Upstream upstreamSection
	Server   *serverSection
	hidden   string `env_interpolation:"yes"` //nolint:unused // exercises the unexported-field skip
}

func TestInterpolateStruct(t *testing.T) {
	t.Setenv("GW_URL", "https://gateway.example.com/v2/iw/fetch-appid")
	t.Setenv("GW_TOKEN", "secret-token")
	t.Setenv("GW_PORT", "8000")

	cfg := &rootConfig{
		Version: "${GW_URL}",
		Upstream: upstreamSection{
			URL:        "${GW_URL}",
			AuthHeader: "Bearer ${GW_TOKEN}",
			Headers: map[string]string{
				"X-Gateway-Token": "${GW_TOKEN}",
				"X-Static":        "plain",
			},
			Notes: "${GW_TOKEN}",
		},
		Server: &serverSection{
			Listen: "localhost:${GW_PORT}",
			Tags:   []string{"${GW_PORT}", "static"},
		},
	}

	require.NoError(t, InterpolateStruct(cfg))

	// Untagged fields stay literal
	assert.Equal(t, "${GW_URL}", cfg.Version)
	assert.Equal(t, "${GW_TOKEN}", cfg.Upstream.Notes)

	// Tagged leaves are expanded, including through nested and pointer structs
	assert.Equal(t, "https://gateway.example.com/v2/iw/fetch-appid", cfg.Upstream.URL)
	assert.Equal(t, "Bearer secret-token", cfg.Upstream.AuthHeader)
	assert.Equal(t, "localhost:8000", cfg.Server.Listen)
	assert.Equal(t, []string{"8000", "static"}, cfg.Server.Tags)
	assert.Equal(t, map[string]string{
		"X-Gateway-Token": "secret-token",
		"X-Static":        "plain",
	}, cfg.Upstream.Headers)
}

func TestInterpolateStruct_MissingVariable(t *testing.T) {
	cfg := &rootConfig{
		Upstream: upstreamSection{URL: "${DOES_NOT_EXIST_ANYWHERE}"},
	}

	err := InterpolateStruct(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DOES_NOT_EXIST_ANYWHERE")
	assert.Contains(t, err.Error(), "URL")

	// The failed field keeps its original text
	assert.Equal(t, "${DOES_NOT_EXIST_ANYWHERE}", cfg.Upstream.URL)
}

func TestInterpolateStruct_NilHandling(t *testing.T) {
	assert.NoError(t, InterpolateStruct(nil))

	var cfg *rootConfig
	assert.NoError(t, InterpolateStruct(cfg))

	// nil pointer field inside a struct is skipped
	populated := &rootConfig{}
	assert.NoError(t, InterpolateStruct(populated))
	assert.Nil(t, populated.Server)
}

func TestInterpolateStruct_NonStruct(t *testing.T) {
	err := InterpolateStruct("not a struct")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected struct")
}

func TestInterpolateStruct_EmptyStringsSkipped(t *testing.T) {
	cfg := &upstreamSection{URL: ""}
	require.NoError(t, InterpolateStruct(cfg))
	assert.Empty(t, cfg.URL)
}
