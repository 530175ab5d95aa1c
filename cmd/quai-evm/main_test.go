package main

import (
	"bytes"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dominant-strategies/quai-evm/cmd/utils"
	"github.com/dominant-strategies/quai-evm/common"
	"github.com/dominant-strategies/quai-evm/core/types"
	"github.com/dominant-strategies/quai-evm/crypto"
	"github.com/dominant-strategies/quai-evm/log"
	"github.com/dominant-strategies/quai-evm/params"
)

func TestMain(m *testing.M) {
	log.Global = log.NewNullLogger()
	os.Exit(m.Run())
}

// newTestCommand returns a command with the given flag groups bound to a
// fresh viper instance, its output captured in the returned buffer.
func newTestCommand(t *testing.T, engine string, groups ...[]utils.Flag) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := &cobra.Command{}
	bindFlags(cmd, append(groups, utils.DatabaseFlags)...)
	require.NoError(t, cmd.PersistentFlags().Set(utils.DBEngineFlag.Name, engine))
	viper.Set(utils.DataDirFlag.Name, t.TempDir())

	out := new(bytes.Buffer)
	cmd.SetOut(out)
	return cmd, out
}

func TestRunCode(t *testing.T) {
	cmd, out := newTestCommand(t, "memory", utils.BlockFlags, utils.VMFlags, utils.RunFlags)

	// 2 + 3 stored to memory and returned.
	require.NoError(t, runCode(cmd, []string{"600260030160005260206000f3"}))
	assert.Contains(t, out.String(), "status: success")
	assert.Contains(t, out.String(), "gas used: 24")
	assert.Contains(t, out.String(), "output: "+common.BigToHash(big.NewInt(5)).Hex())
}

func TestRunCodeTrace(t *testing.T) {
	cmd, out := newTestCommand(t, "memory", utils.BlockFlags, utils.VMFlags, utils.RunFlags)
	require.NoError(t, cmd.PersistentFlags().Set(utils.TraceFlag.Name, "true"))
	require.NoError(t, cmd.PersistentFlags().Set(utils.GasFlag.Name, "5"))

	require.NoError(t, runCode(cmd, []string{"0x6001600201"}))
	assert.Contains(t, out.String(), "PUSH1")
	assert.Contains(t, out.String(), "status: out of gas")
	assert.Contains(t, out.String(), "gas used: 5")
}

func TestRunCodeFromFile(t *testing.T) {
	cmd, out := newTestCommand(t, "memory", utils.BlockFlags, utils.VMFlags, utils.RunFlags)
	path := filepath.Join(t.TempDir(), "code.hex")
	require.NoError(t, os.WriteFile(path, []byte("0x00\n"), 0644))
	require.NoError(t, cmd.PersistentFlags().Set(utils.CodeFileFlag.Name, path))

	require.NoError(t, runCode(cmd, nil))
	assert.Contains(t, out.String(), "gas used: 0")
}

func TestRunCodeRequiresCode(t *testing.T) {
	cmd, _ := newTestCommand(t, "memory", utils.BlockFlags, utils.VMFlags, utils.RunFlags)
	assert.ErrorIs(t, runCode(cmd, nil), errNoCode)

	require.NoError(t, cmd.PersistentFlags().Set(utils.CodeFlag.Name, "0xzz"))
	assert.Error(t, runCode(cmd, nil))
}

func TestDecode(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	to := common.HexToAddress("0xbeef")
	tx := types.MustSignNewTx(key, types.NewSigner(params.LocalChainConfig.ChainID), &types.DynamicFeeTx{
		ChainID:   params.LocalChainConfig.ChainID,
		Nonce:     3,
		GasTipCap: big.NewInt(2),
		GasFeeCap: big.NewInt(10),
		Gas:       21000,
		To:        &to,
		Value:     big.NewInt(1),
	})
	raw, err := tx.MarshalBinary()
	require.NoError(t, err)

	cmd, out := newTestCommand(t, "memory")
	require.NoError(t, runDecode(cmd, []string{common.Bytes2Hex(raw)}))
	assert.Contains(t, out.String(), tx.Hash().Hex())
	assert.Contains(t, out.String(), crypto.PubkeyToAddress(key.PublicKey).Hex())
	assert.Contains(t, out.String(), "call "+to.Hex())

	assert.Error(t, runDecode(cmd, []string{"0x02c0"}))
}

func TestInitApplyAndAccount(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	sender := crypto.PubkeyToAddress(key.PublicKey)
	recipient := common.HexToAddress("0xbeef")

	cmd, out := newTestCommand(t, "pebble", utils.InitFlags, utils.BlockFlags, utils.VMFlags)
	prestate := filepath.Join(t.TempDir(), "alloc.json")
	require.NoError(t, os.WriteFile(prestate, []byte(`{"accounts":[{"address":"`+sender.Hex()+`","balance":"1000000000000000000"}]}`), 0644))
	require.NoError(t, cmd.PersistentFlags().Set(utils.PrestateFlag.Name, prestate))

	require.NoError(t, runInit(cmd, nil))
	assert.Contains(t, out.String(), "network: "+params.LocalName)

	tx := types.MustSignNewTx(key, types.NewSigner(params.LocalChainConfig.ChainID), &types.LegacyTx{
		Nonce:    0,
		GasPrice: big.NewInt(1),
		Gas:      21000,
		To:       &recipient,
		Value:    big.NewInt(1000),
	})
	raw, err := tx.MarshalBinary()
	require.NoError(t, err)
	out.Reset()
	require.NoError(t, runApply(cmd, []string{hexEncode(raw)}))
	assert.Contains(t, out.String(), tx.Hash().Hex())
	assert.Contains(t, out.String(), "success")

	out.Reset()
	require.NoError(t, runAccount(cmd, []string{recipient.Hex()}))
	assert.Contains(t, out.String(), "1000")
	assert.Contains(t, out.String(), recipient.Hex())
	assert.Contains(t, out.String(), types.EmptyCodeHash.Hex())

	out.Reset()
	require.NoError(t, runInspect(cmd, nil))
	assert.Contains(t, out.String(), "Receipts")

	assert.Error(t, runAccount(cmd, []string{"not-an-address"}))
}

func TestAccountRequiresLedger(t *testing.T) {
	cmd, _ := newTestCommand(t, "memory")
	assert.ErrorIs(t, runAccount(cmd, []string{"0x000000000000000000000000000000000000beef"}), errNoLedger)
}

func hexEncode(b []byte) string {
	return "0x" + common.Bytes2Hex(b)
}

func TestVersion(t *testing.T) {
	out := new(bytes.Buffer)
	versionCmd.SetOut(out)
	versionCmd.Run(versionCmd, nil)
	assert.Contains(t, out.String(), params.Version.Full())
}
