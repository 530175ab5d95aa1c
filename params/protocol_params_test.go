package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefundConstants(t *testing.T) {
	// 5000 - 2100 + 1900
	assert.Equal(t, uint64(4800), SstoreClearsScheduleRefundEIP3529)
	assert.Equal(t, 0x6000, MaxCodeSize)
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		raw   string
		major int
		minor int
		patch int
		meta  string
		err   bool
	}{
		{raw: "v1.2.3\n", major: 1, minor: 2, patch: 3, meta: "stable"},
		{raw: "v0.1.0-pre.0", major: 0, minor: 1, patch: 0, meta: "pre.0"},
		{raw: "1.2.3", err: true},
		{raw: "v1.2", err: true},
		{raw: "vX.2.3", err: true},
		{raw: "", err: true},
	}
	for _, tt := range tests {
		v, err := parseVersion([]byte(tt.raw))
		if tt.err {
			assert.Error(t, err, tt.raw)
			continue
		}
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.major, v.major)
		assert.Equal(t, tt.minor, v.minor)
		assert.Equal(t, tt.patch, v.patch)
		assert.Equal(t, tt.meta, v.meta)
	}
}

func TestEmbeddedVersion(t *testing.T) {
	assert.Equal(t, "v0.1.0-pre.0", Version.Full())
	assert.Equal(t, "0.1.0", Version.Short())
	assert.Equal(t, "v0.1.0-pre.0-abcdef12-20240101", VersionWithCommit("abcdef1234567890", "20240101"))
}

func TestChainConfigByName(t *testing.T) {
	cfg, err := ChainConfigByName("Garden")
	require.NoError(t, err)
	assert.Equal(t, int64(12000), cfg.ChainID.Int64())

	cfg, err = ChainConfigByName("")
	require.NoError(t, err)
	assert.Equal(t, LocalChainConfig, cfg)

	_, err = ChainConfigByName("mainnet")
	assert.Error(t, err)
}

func TestCheckCompatible(t *testing.T) {
	assert.Nil(t, LocalChainConfig.CheckCompatible(&ChainConfig{ChainID: LocalChainConfig.ChainID}))

	err := LocalChainConfig.CheckCompatible(GardenChainConfig)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "mismatching chain id")
}
