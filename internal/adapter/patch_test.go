package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyMetadataPatchFillsEmptyFields(t *testing.T) {
	meta := applyMetadataPatch("0x46777c76dbbe40fabb2aab99e33ce20058e76c59", tokenMetadata{})

	assert.Equal(t, "L3", meta.Symbol)
	assert.Equal(t, "Layer3", meta.Name)
	if assert.NotNil(t, meta.Decimals) {
		assert.Equal(t, uint8(18), *meta.Decimals)
	}
}

func TestApplyMetadataPatchKeepsUpstreamValues(t *testing.T) {
	upstream := tokenMetadata{
		Symbol:   "L3X",
		Name:     "Something Else",
		Decimals: uint8Ptr(6),
	}

	meta := applyMetadataPatch("0x46777c76dbbe40fabb2aab99e33ce20058e76c59", upstream)

	assert.Equal(t, "L3X", meta.Symbol)
	assert.Equal(t, "Something Else", meta.Name)
	assert.Equal(t, uint8(6), *meta.Decimals)
}

func TestApplyMetadataPatchUnknownContract(t *testing.T) {
	upstream := tokenMetadata{Symbol: "FOO"}
	assert.Equal(t, upstream, applyMetadataPatch("0xdeadbeef", upstream))
}

func TestParseDecimals(t *testing.T) {
	assert.Equal(t, uint8(6), parseDecimals("6"))
	assert.Equal(t, uint8(18), parseDecimals(""))
	assert.Equal(t, uint8(18), parseDecimals("abc"))
	assert.Equal(t, uint8(18), parseDecimals("300"))
}
