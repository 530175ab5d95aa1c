package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dominant-strategies/quai-evm/common"
)

func TestKeccak256(t *testing.T) {
	// keccak256("") is the empty code hash
	assert.Equal(t,
		common.HexToHash("0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"),
		Keccak256Hash(nil))
	assert.Equal(t, Keccak256([]byte("ab"), []byte("c")), Keccak256([]byte("abc")))
}

func TestPubkeyToAddress(t *testing.T) {
	key, err := HexToECDSA("4646464646464646464646464646464646464646464646464646464646464646")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x9d8A62f656a8d1615C1294fd71e9CFb3E4855A4F"), PubkeyToAddress(key.PublicKey))
}

func TestInvalidPrivateKey(t *testing.T) {
	_, err := HexToECDSA("00")
	assert.Error(t, err)
	_, err = HexToECDSA("0000000000000000000000000000000000000000000000000000000000000000")
	assert.Error(t, err)
	_, err = HexToECDSA("zz46464646464646464646464646464646464646464646464646464646464646")
	assert.Error(t, err)
}

func TestSignAndRecover(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)
	hash := Keccak256([]byte("quai-evm"))

	sig, err := Sign(hash, key)
	require.NoError(t, err)
	require.Len(t, sig, SignatureLength)
	assert.LessOrEqual(t, sig[RecoveryIDOffset], byte(1))

	pub, err := Ecrecover(hash, sig)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(FromECDSAPub(&key.PublicKey), pub))
	assert.Equal(t, PubkeyToAddress(key.PublicKey), PubkeyBytesToAddress(pub))

	assert.True(t, VerifySignature(pub, hash, sig[:64]))
	assert.True(t, VerifySignature(CompressPubkey(&key.PublicKey), hash, sig[:64]))

	other := Keccak256([]byte("other"))
	assert.False(t, VerifySignature(pub, other, sig[:64]))
}

func TestRecoverRejectsMalformedSignatures(t *testing.T) {
	hash := Keccak256([]byte("x"))
	_, err := Ecrecover(hash, make([]byte, 64))
	assert.ErrorIs(t, err, ErrInvalidSignatureLen)

	sig := make([]byte, SignatureLength)
	sig[RecoveryIDOffset] = 2
	_, err = Ecrecover(hash, sig)
	assert.ErrorIs(t, err, ErrInvalidRecoveryID)
}

func TestCompressRoundTrip(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)
	pub, err := DecompressPubkey(CompressPubkey(&key.PublicKey))
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey.X, pub.X)
	assert.Equal(t, key.PublicKey.Y, pub.Y)
}

func TestCreateAddress(t *testing.T) {
	// First contract deployed by 0x6ac7ea33f8831ea9dcc53393aaa88b25a785dbf0.
	sender := common.HexToAddress("0x6ac7ea33f8831ea9dcc53393aaa88b25a785dbf0")
	assert.Equal(t, common.HexToAddress("0xcd234a471b72ba2f1ccf0a70fcaba648a5eecd8d"), CreateAddress(sender, 0))
	assert.Equal(t, common.HexToAddress("0x343c43a37d37dff08ae8c4a11544c718abb4fcf8"), CreateAddress(sender, 1))
}

func TestCreateAddress2(t *testing.T) {
	// EIP-1014 example 0
	addr := CreateAddress2(common.Address{}, [32]byte{}, Keccak256([]byte{0x00}))
	assert.Equal(t, common.HexToAddress("0x4D1A2e2bB4F88F0250f26Ffff098B0b30B26BF38"), addr)
}
