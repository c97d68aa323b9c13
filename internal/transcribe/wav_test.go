package transcribe

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// pcmWAV builds a 16-bit PCM WAV file of the given length filled with silence.
func pcmWAV(rate uint32, channels uint16, length time.Duration) []byte {
	const bits = 16
	dataBytes := int(int64(rate) * int64(channels) * bits / 8 * int64(length) / int64(time.Second))

	b := make([]byte, 0, 44+dataBytes)
	b = append(b, "RIFF"...)
	b = binary.LittleEndian.AppendUint32(b, uint32(36+dataBytes))
	b = append(b, "WAVE"...)

	b = append(b, "fmt "...)
	b = binary.LittleEndian.AppendUint32(b, 16)
	b = binary.LittleEndian.AppendUint16(b, 1)
	b = binary.LittleEndian.AppendUint16(b, channels)
	b = binary.LittleEndian.AppendUint32(b, rate)
	b = binary.LittleEndian.AppendUint32(b, rate*uint32(channels)*bits/8)
	b = binary.LittleEndian.AppendUint16(b, channels*bits/8)
	b = binary.LittleEndian.AppendUint16(b, bits)

	b = append(b, "data"...)
	b = binary.LittleEndian.AppendUint32(b, uint32(dataBytes))
	return append(b, make([]byte, dataBytes)...)
}

func TestParseWAV(t *testing.T) {
	f, err := parseWAV(pcmWAV(44100, 2, 3*time.Second))
	require.NoError(t, err)
	require.Equal(t, uint16(1), f.AudioFormat)
	require.Equal(t, uint16(2), f.Channels)
	require.Equal(t, uint32(44100), f.SampleRate)
	require.Equal(t, uint16(16), f.BitsPerSample)
	require.Equal(t, 3*time.Second, f.Duration())
}

func TestParseWAV_SkipsOtherChunks(t *testing.T) {
	wav := pcmWAV(8000, 1, time.Second)
	// Insert an odd-sized LIST chunk (padded to even) between fmt and data.
	list := []byte("LIST\x03\x00\x00\x00abc\x00")
	withList := append(append(append([]byte{}, wav[:36]...), list...), wav[36:]...)

	f, err := parseWAV(withList)
	require.NoError(t, err)
	require.Equal(t, uint32(8000), f.SampleRate)
	require.Equal(t, time.Second, f.Duration())
}

func TestParseWAV_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"mp3", []byte("ID3\x04\x00\x00\x00\x00\x00\x00\x00\x00")},
		{"header only", []byte("RIFF....WAVE")},
		{"truncated fmt", []byte("RIFF\x00\x00\x00\x00WAVEfmt \x10\x00\x00\x00\x01\x00")},
		{"data before fmt", []byte("RIFF\x00\x00\x00\x00WAVEdata\x00\x00\x00\x00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseWAV(tt.data)
			require.Error(t, err)
		})
	}
}

func TestWAVFormat_DurationUnknown(t *testing.T) {
	require.Zero(t, wavFormat{DataBytes: 100}.Duration())
}
