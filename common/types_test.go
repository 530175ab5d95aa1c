package common

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesToAddressCropsFromTheLeft(t *testing.T) {
	long := FromHex("0xff0000000000000000000000000000000000000001")
	addr := BytesToAddress(long)
	assert.Equal(t, HexToAddress("0x0000000000000000000000000000000000000001"), addr)

	short := BytesToAddress([]byte{0x01, 0x02})
	assert.Equal(t, byte(0x01), short[18])
	assert.Equal(t, byte(0x02), short[19])
}

func TestHashTextRoundTrip(t *testing.T) {
	h := HexToHash("0xdaf5a779ae972f972197303d7b574746c7ef83eadac0f2791ad23db92e4c8e53")
	text, err := h.MarshalText()
	require.NoError(t, err)

	var decoded Hash
	require.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, h, decoded)
	assert.Equal(t, "daf5a7..4c8e53", fmt.Sprintf("%x..%x", h[:3], h[29:]))
}

func TestAddressFormatting(t *testing.T) {
	addr := HexToAddress("0x9d8A62f656a8d1615C1294fd71e9CFb3E4855A4F")
	assert.Equal(t, "0x9d8a62f656a8d1615c1294fd71e9cfb3e4855a4f", addr.Hex())
	assert.Equal(t, "9d8a62f656a8d1615c1294fd71e9cfb3e4855a4f", fmt.Sprintf("%x", addr))
	assert.Equal(t, addr.Hex(), fmt.Sprintf("%v", addr))
	assert.True(t, IsHexAddress("0x9d8A62f656a8d1615C1294fd71e9CFb3E4855A4F"))
	assert.False(t, IsHexAddress("0x9d8A62f6"))
}

func TestAddressWordConversion(t *testing.T) {
	addr := HexToAddress("0x00000000000000000000000000000000000000ff")
	assert.Equal(t, uint64(0xff), addr.Word().Uint64())
	assert.Equal(t, addr, BytesToAddress(addr.Hash().Bytes()))
}

func TestFromHexIgnoresWhitespace(t *testing.T) {
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, FromHex("0xdead\n  beef"))
	assert.Equal(t, []byte{0x01}, FromHex("0x1"))
}

func TestPadding(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 1}, LeftPadBytes([]byte{1}, 3))
	assert.Equal(t, []byte{1, 0, 0}, RightPadBytes([]byte{1}, 3))
	assert.Equal(t, []byte{1, 2}, TrimLeftZeroes([]byte{0, 0, 1, 2}))
}
