package trainer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gimmyalex/logicrl/core"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.GroupSize)
	assert.Equal(t, "static", cfg.Curriculum)
	assert.Equal(t, 0.2, cfg.ClipFraction)
	assert.Len(t, cfg.DomainList(), 4)
}

func TestLoadConfig_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
group_size: 4
curriculum: adaptive
domains: [syllogism, movement]
plateau_patience: 6
plateau_threshold: 0.02
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.GroupSize)
	assert.Equal(t, "adaptive", cfg.Curriculum)
	assert.Equal(t, []core.Domain{core.DomainSyllogism, core.DomainMovement}, cfg.DomainList())
	assert.Equal(t, 6, cfg.PlateauPatience)
	// Untouched keys keep their defaults.
	assert.Equal(t, 0.2, cfg.ClipFraction)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("TRAINER_GROUP_SIZE", "16")
	t.Setenv("TRAINER_DOMAINS", "agreement")
	t.Setenv("TRAINER_ORACLE_WASM_PATH", "/opt/oracles/grammar.wasm")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.GroupSize)
	assert.Equal(t, []core.Domain{core.DomainAgreement}, cfg.DomainList())
	assert.Equal(t, "/opt/oracles/grammar.wasm", cfg.OracleWASMPath)
}

func TestConfig_Validate(t *testing.T) {
	base := DefaultConfig()
	require.NoError(t, base.Validate())

	small := base
	small.GroupSize = 1
	assert.ErrorIs(t, small.Validate(), core.ErrGroupTooSmall)

	badDomain := base
	badDomain.Domains = []string{"arithmetic"}
	assert.Error(t, badDomain.Validate())

	noDomains := base
	noDomains.Domains = nil
	assert.Error(t, noDomains.Validate())

	badCurriculum := base
	badCurriculum.Curriculum = "random"
	assert.Error(t, badCurriculum.Validate())

	badClip := base
	badClip.ClipFraction = 1.5
	assert.Error(t, badClip.Validate())

	badPatience := base
	badPatience.PlateauPatience = 1
	assert.Error(t, badPatience.Validate())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.yaml")
	assert.Error(t, err)
}
