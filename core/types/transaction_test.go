package types

import (
	"math/big"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dominant-strategies/quai-evm/common"
	"github.com/dominant-strategies/quai-evm/crypto"
)

var (
	// https://etherscan.io/tx/0x3741aea434dc6e9e740be0113af4bac372fcdd2fa2188409c93c9405cbdcaaf0
	legacyMainnetTx = common.FromHex(`
		f9016b0885113abe69b38302895c947a250d5630b4cf539739df2c5dacb4c659f2488d80b9
		01044a25d94a00000000000000000000000000000000000000000000000022b1c8c1227a0000
		000000000000000000000000000000000000000000000003f0a59430f92a924400000000000
		000000000000000000000000000000000000000000000000000a00000000000000000000000
		0012021043bbaab3b71b2217655787a13d24cf618b000000000000000000000000000000000
		00000000000000000000000603c6a1e00000000000000000000000000000000000000000000
		00000000000000000002000000000000000000000000fe9a29ab92522d14fc65880d8172142
		61d8479ae000000000000000000000000c02aaa39b223fe8d0a0e5c4f27ead9083c756cc225
		a01df6c364ee7d2b684bbb6e3892fee69a1bc4fc487222b003ea57ec1596884916a01e1643f
		de193fde5e6be4ae0b2d4c4669560132a6dc87b6404d5c0cdc743fee6`)

	// https://etherscan.io/tx/0x734678f719001015c5b5f5cbac6a9210ede7ee6ce63e746ff2e9eecda3ab68c7
	dynamicFeeMainnetTx = common.FromHex(`
		02f8720104843b9aca008504eb6480bc82520894f76c5b19e86c256
		482f4aad1dae620a0c3ac0cd68717699d954d540080c080a05a5206a8e0486b8e101bcf
		4ed5b290df24a4d54f1ca752c859fa19c291244b98a0177166d96fd69db70628d99855b
		400c8a149b2254c211a0a00645830f5338218`)

	// access list transaction as carried inside a block body
	wrappedAccessListTx = common.FromHex(`
		b8f501f8f205078506fc23ac008357b58494811a752c8cd697e3cb27279c330ed1ada745
		a8d7881bc16d674ec80000906ebaf477f83e051589c1188bcc6ddccdf872f85994de0b295
		669a9fd93d5f28d9ec85e40f4cb697baef842a00000000000000000000000000000000000
		000000000000000000000000000003a000000000000000000000000000000000000000000
		00000000000000000000007d694bb9bc244d798123fde783fcc1c72d3bb8c189413c080a0
		36b241b061a36a32ab7fe86c7aa9eb592dd59018cd0443adc0903590c16b02b0a05edcc54
		1b4741c5cc6dd347c5ed9577ef293a62787b4510465fadbfe39ee4094`)

	// EIP-155 example signed with key 0x4646...46
	eip155ExampleTx = common.FromHex(`
		f86c098504a817c800825208943535353535353535353535353535353535353535880de0b6
		b3a76400008025a028ef61340bd939bc2195fe537567866003e1a15d3c71ff63e1590620aa
		636276a067cbe9d8997f761aecb703304b3800ccf555c9f3dc64214b297fb1966a3b6d83`)
)

func TestDecodeLegacyTransaction(t *testing.T) {
	tx, err := DecodeTransaction(legacyMainnetTx)
	require.NoError(t, err)

	assert.Equal(t, uint8(LegacyTxType), tx.Type())
	assert.Equal(t, uint64(8), tx.Nonce())
	assert.Equal(t, uint64(0x02895c), tx.Gas())
	assert.Equal(t, new(big.Int).SetUint64(0x113abe69b3), tx.GasPrice())
	assert.Equal(t, common.HexToAddress("0x7a250d5630b4cf539739df2c5dacb4c659f2488d"), *tx.To())
	assert.False(t, tx.Action().IsCreate())
	assert.Equal(t, 0, tx.Value().Sign())
	assert.Len(t, tx.Data(), 260)

	v, _, _ := tx.RawSignatureValues()
	assert.Equal(t, uint64(37), v.Uint64())
	assert.Equal(t, big.NewInt(1), tx.ChainId())
	assert.True(t, tx.Protected())

	assert.Equal(t, common.HexToHash("0x3741aea434dc6e9e740be0113af4bac372fcdd2fa2188409c93c9405cbdcaaf0"), tx.Hash())

	from, err := tx.SenderAddress()
	require.NoError(t, err)
	signerFrom, err := Sender(NewSigner(big.NewInt(1)), tx)
	require.NoError(t, err)
	assert.Equal(t, from, signerFrom)

	enc, err := tx.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, legacyMainnetTx, enc)
}

func TestRecoveryID(t *testing.T) {
	tests := []struct {
		v       RecoveryID
		parity  byte
		chainID uint64
		hasID   bool
		invalid bool
	}{
		{v: 27, parity: 0},
		{v: 28, parity: 1},
		{v: 37, parity: 0, chainID: 1, hasID: true},
		{v: 38, parity: 1, chainID: 1, hasID: true},
		{v: 45, parity: 0, chainID: 5, hasID: true},
		{v: 0, invalid: true},
		{v: 1, invalid: true},
		{v: 29, invalid: true},
		{v: 35, invalid: true},
		{v: 36, invalid: true},
	}
	for _, tt := range tests {
		parity, err := tt.v.Standard()
		if tt.invalid {
			assert.ErrorIs(t, err, ErrInvalidSig, "v=%d", tt.v)
			continue
		}
		require.NoError(t, err, "v=%d", tt.v)
		assert.Equal(t, tt.parity, parity, "v=%d", tt.v)
		id, ok := tt.v.ChainID()
		assert.Equal(t, tt.hasID, ok, "v=%d", tt.v)
		assert.Equal(t, tt.chainID, id, "v=%d", tt.v)
	}
}

func TestDecodeEIP155Example(t *testing.T) {
	tx, err := DecodeTransaction(eip155ExampleTx)
	require.NoError(t, err)

	assert.Equal(t, uint64(9), tx.Nonce())
	assert.Equal(t, big.NewInt(20_000_000_000), tx.GasPrice())
	assert.Equal(t, uint64(21000), tx.Gas())
	assert.Equal(t, big.NewInt(1), tx.ChainId())
	assert.Equal(t, common.HexToHash("0xdaf5a779ae972f972197303d7b574746c7ef83eadac0f2791ad23db92e4c8e53"), tx.SigningHash())

	from, err := tx.SenderAddress()
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x9d8A62f656a8d1615C1294fd71e9CFb3E4855A4F"), from)

	pub, err := tx.SenderPublicKey()
	require.NoError(t, err)
	key, err := crypto.HexToECDSA("4646464646464646464646464646464646464646464646464646464646464646")
	require.NoError(t, err)
	assert.Equal(t, crypto.FromECDSAPub(&key.PublicKey), pub)
}

func TestDecodeDynamicFeeTransaction(t *testing.T) {
	tx, err := DecodeTransaction(dynamicFeeMainnetTx)
	require.NoError(t, err)

	assert.Equal(t, uint8(DynamicFeeTxType), tx.Type())
	assert.Equal(t, big.NewInt(1), tx.ChainId())
	assert.Equal(t, uint64(4), tx.Nonce())
	assert.Equal(t, big.NewInt(1_000_000_000), tx.GasTipCap())
	assert.Equal(t, new(big.Int).SetUint64(0x04eb6480bc), tx.GasFeeCap())
	assert.Equal(t, uint64(21000), tx.Gas())
	assert.Equal(t, common.HexToAddress("0xf76c5b19e86c256482f4aad1dae620a0c3ac0cd6"), *tx.To())
	assert.Equal(t, new(big.Int).SetUint64(0x17699d954d5400), tx.Value())
	assert.Empty(t, tx.Data())
	assert.Empty(t, tx.AccessList())

	v, _, _ := tx.RawSignatureValues()
	assert.Equal(t, 0, v.Sign())
	assert.Equal(t, common.HexToHash("0x734678f719001015c5b5f5cbac6a9210ede7ee6ce63e746ff2e9eecda3ab68c7"), tx.Hash())

	_, err = tx.SenderAddress()
	require.NoError(t, err)

	// base fee above the cap leaves the cap as price, below it adds the tip
	assert.Equal(t, tx.GasFeeCap(), tx.EffectiveGasPrice(new(big.Int).SetUint64(0x04eb6480bc)))
	assert.Equal(t, big.NewInt(11_000_000_000), tx.EffectiveGasPrice(big.NewInt(10_000_000_000)))

	_, err = Sender(NewSigner(big.NewInt(5)), tx)
	assert.ErrorIs(t, err, ErrInvalidChainId)
}

func TestDecodeWrappedAccessListTransaction(t *testing.T) {
	tx, err := DecodeTransaction(wrappedAccessListTx)
	require.NoError(t, err)

	assert.Equal(t, uint8(AccessListTxType), tx.Type())
	assert.Equal(t, big.NewInt(5), tx.ChainId())
	assert.Equal(t, uint64(7), tx.Nonce())
	assert.Equal(t, new(big.Int).SetUint64(0x06fc23ac00), tx.GasPrice())
	assert.Equal(t, uint64(0x57b584), tx.Gas())
	assert.Equal(t, common.HexToAddress("0x811a752c8cd697e3cb27279c330ed1ada745a8d7"), *tx.To())
	assert.Equal(t, new(big.Int).SetUint64(2_000_000_000_000_000_000), tx.Value())
	assert.Len(t, tx.Data(), 16)

	al := tx.AccessList()
	require.Len(t, al, 2)
	assert.Equal(t, common.HexToAddress("0xde0b295669a9fd93d5f28d9ec85e40f4cb697bae"), al[0].Address)
	assert.Equal(t, []common.Hash{common.HexToHash("0x03"), common.HexToHash("0x07")}, al[0].StorageKeys)
	assert.Equal(t, common.HexToAddress("0xbb9bc244d798123fde783fcc1c72d3bb8c189413"), al[1].Address)
	assert.Empty(t, al[1].StorageKeys)
	assert.Equal(t, 2, al.StorageKeys())

	// the canonical encoding is the envelope payload
	enc, err := tx.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, wrappedAccessListTx[2:], enc)

	direct, err := DecodeTransaction(enc)
	require.NoError(t, err)
	assert.Equal(t, tx.Hash(), direct.Hash())
}

func TestDecodeErrors(t *testing.T) {
	_, err := DecodeTransaction(nil)
	assert.ErrorIs(t, err, ErrEmptyRlp)
	_, err = DecodeTransaction([]byte{})
	assert.ErrorIs(t, err, ErrEmptyRlp)

	// truncated list
	_, err = DecodeTransaction(common.FromHex("c98080808080808080"))
	assert.Error(t, err)

	// eight fields
	eight := common.FromHex("c8" + "8080808080808080")
	_, err = DecodeTransaction(eight)
	assert.ErrorIs(t, err, ErrInvalidFieldCount)

	// typed payload with the wrong number of fields
	_, err = DecodeTransaction(common.FromHex("02c3808080"))
	assert.ErrorIs(t, err, ErrInvalidFieldCount)

	// envelope around something that is not a typed transaction
	_, err = DecodeTransaction(common.FromHex("83c18080"))
	assert.ErrorIs(t, err, ErrTxTypeNotSupported)

	// trailing garbage
	_, err = DecodeTransaction(append(common.CopyBytes(eip155ExampleTx), 0x00))
	assert.Error(t, err)

	// not a list at all
	_, err = DecodeTransaction([]byte{0x05})
	assert.Error(t, err)
}

func TestUnprotectedRecoveryIDRejected(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	to := common.HexToAddress("0x01")
	tx, err := SignNewTx(key, NewSigner(big.NewInt(1)), &LegacyTx{
		Nonce: 1, GasPrice: big.NewInt(1), Gas: 21000, To: &to, Value: big.NewInt(1),
	})
	require.NoError(t, err)

	v, r, s := tx.RawSignatureValues()
	bad := NewTx(&LegacyTx{
		Nonce: 1, GasPrice: big.NewInt(1), Gas: 21000, To: &to, Value: big.NewInt(1),
		V: big.NewInt(30), R: r, S: s,
	})
	_, err = bad.SenderAddress()
	assert.ErrorIs(t, err, ErrInvalidSig)
	assert.True(t, v.Uint64() == 37 || v.Uint64() == 38)
}

func TestFuzzDecodeDoesNotPanic(t *testing.T) {
	f := fuzz.New().NilChance(0).NumElements(0, 512)
	prefixes := [][]byte{nil, {0x01}, {0x02}, {0xb8}, {0xf8}}
	for i := 0; i < 2000; i++ {
		var body []byte
		f.Fuzz(&body)
		input := append(common.CopyBytes(prefixes[i%len(prefixes)]), body...)
		require.NotPanics(t, func() {
			tx, err := DecodeTransaction(input)
			if err == nil {
				tx.SenderAddress()
				tx.Hash()
			}
		})
	}
}
