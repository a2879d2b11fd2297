package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"
)

// WAVInfo holds properties derived from decoded WAV data.
type WAVInfo struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	DataBytes     int
	Duration      time.Duration
}

// ReadWAVInfo walks the RIFF chunk list and derives waveform properties from
// the actual data chunk length. Chunk sizes claimed by the fmt header are
// validated against the bytes present, since headers can lie.
func ReadWAVInfo(data []byte) (*WAVInfo, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("%w: WAV data too short (%d bytes)", ErrCorruptAudio, len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: missing RIFF/WAVE header", ErrCorruptAudio)
	}

	info := &WAVInfo{}
	sawFmt := false
	sawData := false

	// Chunk walk: [4-byte id][4-byte size][payload], padded to even length.
	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		payload := off + 8
		if size < 0 || payload > len(data) {
			return nil, fmt.Errorf("%w: malformed chunk %q", ErrCorruptAudio, id)
		}

		switch id {
		case "fmt ":
			if size < 16 || payload+16 > len(data) {
				return nil, fmt.Errorf("%w: fmt chunk too short", ErrCorruptAudio)
			}
			audioFormat := binary.LittleEndian.Uint16(data[payload : payload+2])
			if audioFormat != 1 {
				return nil, fmt.Errorf("%w: non-PCM encoding %d in canonical waveform", ErrCorruptAudio, audioFormat)
			}
			info.Channels = int(binary.LittleEndian.Uint16(data[payload+2 : payload+4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(data[payload+4 : payload+8]))
			info.BitsPerSample = int(binary.LittleEndian.Uint16(data[payload+14 : payload+16]))
			sawFmt = true
		case "data":
			avail := len(data) - payload
			if size > avail {
				// Header claims more than the file holds; trust the file.
				size = avail
			}
			info.DataBytes = size
			sawData = true
		}

		off = payload + size
		if size%2 == 1 {
			off++
		}
	}

	if !sawFmt || !sawData {
		return nil, fmt.Errorf("%w: missing fmt or data chunk", ErrCorruptAudio)
	}
	if info.SampleRate <= 0 || info.Channels <= 0 || info.BitsPerSample <= 0 {
		return nil, fmt.Errorf("%w: invalid format parameters", ErrCorruptAudio)
	}
	if info.BitsPerSample < 8 || info.BitsPerSample%8 != 0 {
		return nil, fmt.Errorf("%w: invalid sample width %d bits", ErrCorruptAudio, info.BitsPerSample)
	}
	if info.DataBytes == 0 {
		return nil, fmt.Errorf("%w: no audio data", ErrCorruptAudio)
	}

	bytesPerSample := info.BitsPerSample / 8
	samples := info.DataBytes / (bytesPerSample * info.Channels)
	info.Duration = time.Duration(float64(samples) / float64(info.SampleRate) * float64(time.Second))

	return info, nil
}

// EncodeWAV encodes PCM-16 mono samples into WAV format.
func EncodeWAV(samples []int16, sampleRate int) ([]byte, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("cannot encode empty audio samples")
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}

	dataSize := uint32(len(samples) * 2)
	buf := bytes.NewBuffer(make([]byte, 0, 44+len(samples)*2))

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(buf, binary.LittleEndian, uint16(2))
	binary.Write(buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, dataSize)

	if err := binary.Write(buf, binary.LittleEndian, samples); err != nil {
		return nil, fmt.Errorf("write audio data: %w", err)
	}

	return buf.Bytes(), nil
}
