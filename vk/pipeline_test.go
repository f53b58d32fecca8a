package vk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpirvWordsPacksLittleEndian(t *testing.T) {
	words, err := spirvWords([]byte{0x03, 0x02, 0x23, 0x07, 0x00, 0x00, 0x01, 0x00})
	require.NoError(t, err)

	// The first word of any valid module is the SPIR-V magic number.
	require.Equal(t, []uint32{0x07230203, 0x00010000}, words)
}

func TestSpirvWordsRejectsEmpty(t *testing.T) {
	_, err := spirvWords(nil)
	require.Error(t, err)

	_, err = spirvWords([]byte{})
	require.Error(t, err)
}

func TestSpirvWordsRejectsMisaligned(t *testing.T) {
	_, err := spirvWords([]byte{0x03, 0x02, 0x23})
	require.ErrorContains(t, err, "not a multiple of 4")
}
