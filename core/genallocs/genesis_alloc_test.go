package genallocs

import (
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dominant-strategies/quai-evm/common"
)

const (
	allocsJSON = `{
	"accounts": [
		{
			"address": "0x0000000000000000000000000000000000000001",
			"balance": "1029384756000000000000000000"
		},
		{
			"address": "0x0000000000000000000000000000000000000002",
			"balance": "0x10",
			"nonce": 3,
			"code": "0x6001600055",
			"storage": {
				"0x02": "0x2a",
				"0x01": "0x01"
			}
		}
	]
}`

	allocsTOML = `
[[accounts]]
address = "0x0000000000000000000000000000000000000001"
balance = "1029384756000000000000000000"

[[accounts]]
address = "0x0000000000000000000000000000000000000002"
balance = "0x10"
nonce = 3
code = "0x6001600055"

[accounts.storage]
"0x02" = "0x2a"
"0x01" = "0x01"
`

	allocsYAML = `
accounts:
  - address: "0x0000000000000000000000000000000000000001"
    balance: "1029384756000000000000000000"
  - address: "0x0000000000000000000000000000000000000002"
    balance: "0x10"
    nonce: 3
    code: "0x6001600055"
    storage:
      "0x02": "0x2a"
      "0x01": "0x01"
`
)

func checkAllocs(t *testing.T, accounts []GenesisAccount) {
	t.Helper()
	require.Len(t, accounts, 2)

	want, _ := new(big.Int).SetString("1029384756000000000000000000", 10)
	require.Equal(t, common.HexToAddress("0x01"), accounts[0].Address)
	require.Equal(t, 0, want.Cmp(accounts[0].Balance))
	require.Zero(t, accounts[0].Storage.Len())

	second := accounts[1]
	require.Equal(t, int64(16), second.Balance.Int64())
	require.Equal(t, uint64(3), second.Nonce)
	require.Equal(t, []byte{0x60, 0x01, 0x60, 0x00, 0x55}, second.Code)

	// slots come out in ascending key order
	var keys []common.Hash
	for pair := second.Storage.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	require.Equal(t, []common.Hash{common.HexToHash("0x01"), common.HexToHash("0x02")}, keys)
	value, ok := second.Storage.Get(common.HexToHash("0x02"))
	require.True(t, ok)
	require.Equal(t, common.HexToHash("0x2a"), value)
}

func TestDecodeGenesisAllocs(t *testing.T) {
	for ext, input := range map[string]string{
		".json": allocsJSON,
		".toml": allocsTOML,
		".yaml": allocsYAML,
		".yml":  allocsYAML,
	} {
		t.Run(ext, func(t *testing.T) {
			accounts, err := DecodeGenesisAllocs(strings.NewReader(input), ext)
			require.NoError(t, err)
			checkAllocs(t, accounts)
		})
	}
}

func TestDecodeGenesisAllocsErrors(t *testing.T) {
	_, err := DecodeGenesisAllocs(strings.NewReader(allocsJSON), ".ini")
	require.Error(t, err)

	_, err = DecodeGenesisAllocs(strings.NewReader(`{"accounts":[{"balance":"lots"}]}`), ".json")
	require.ErrorContains(t, err, "invalid balance")

	_, err = DecodeGenesisAllocs(strings.NewReader(`{"accounts":[{"code":"0xabc"}]}`), ".json")
	require.ErrorContains(t, err, "invalid code")
}

func TestVerifyGenesisAllocs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allocs.toml")
	require.NoError(t, os.WriteFile(path, []byte(allocsTOML), 0600))

	hash, err := FileHash(path)
	require.NoError(t, err)

	accounts, err := VerifyGenesisAllocs(path, hash)
	require.NoError(t, err)
	checkAllocs(t, accounts)

	_, err = VerifyGenesisAllocs(path, common.Hash{})
	require.ErrorIs(t, err, ErrInvalidAllocs)

	accounts, err = ReadGenesisAllocs(path)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
}
