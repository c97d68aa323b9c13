package transcribe

import (
	"encoding/binary"
	"errors"
	"time"
)

var errNotWAV = errors.New("not a RIFF/WAVE file")

// wavFormat describes the audio stream of a RIFF/WAVE file.
type wavFormat struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16
	DataBytes     int
}

// Duration is the playing time of the data chunk.
func (f wavFormat) Duration() time.Duration {
	bytesPerSecond := int64(f.SampleRate) * int64(f.Channels) * int64(f.BitsPerSample) / 8
	if bytesPerSecond == 0 {
		return 0
	}
	return time.Duration(int64(f.DataBytes) * int64(time.Second) / bytesPerSecond)
}

// parseWAV walks the RIFF chunks of data and returns the format of the first
// data chunk.
func parseWAV(data []byte) (wavFormat, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return wavFormat{}, errNotWAV
	}

	var (
		f       wavFormat
		haveFmt bool
	)
	for off := 12; off+8 <= len(data); {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8

		switch id {
		case "fmt ":
			if size < 16 || body+16 > len(data) {
				return wavFormat{}, errors.New("truncated fmt chunk")
			}
			f.AudioFormat = binary.LittleEndian.Uint16(data[body:])
			f.Channels = binary.LittleEndian.Uint16(data[body+2:])
			f.SampleRate = binary.LittleEndian.Uint32(data[body+4:])
			f.BitsPerSample = binary.LittleEndian.Uint16(data[body+14:])
			haveFmt = true
		case "data":
			if !haveFmt {
				return wavFormat{}, errors.New("data chunk before fmt chunk")
			}
			f.DataBytes = min(size, len(data)-body)
			return f, nil
		}

		// Chunks are padded to an even length.
		off = body + size + size%2
	}
	return wavFormat{}, errors.New("missing data chunk")
}
