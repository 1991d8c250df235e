package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// LoadWAV reads a PCM WAV file and converts it to the engine's native
// format: mono, 8 kHz, 8-bit unsigned samples. Stereo input is downmixed,
// higher sample rates are decimated (multiples of 8 kHz only) and wider
// samples are reduced to one byte with clipping.
func LoadWAV(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open clip: %w", err)
	}
	defer f.Close()
	return DecodeWAV(f)
}

// DecodeWAV decodes WAV data from r into native-format samples.
func DecodeWAV(r io.Reader) ([]byte, error) {
	var riff struct {
		ChunkID [4]byte
		Size    uint32
		Format  [4]byte
	}
	if err := binary.Read(r, binary.LittleEndian, &riff); err != nil {
		return nil, fmt.Errorf("read RIFF header: %w", err)
	}
	if string(riff.ChunkID[:]) != "RIFF" || string(riff.Format[:]) != "WAVE" {
		return nil, fmt.Errorf("not a RIFF/WAVE file")
	}

	var (
		channels   int
		rate       int
		bitsPer    int
		data       []byte
		haveFormat bool
	)
	for {
		var hdr struct {
			ID   [4]byte
			Size uint32
		}
		if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, fmt.Errorf("read chunk header: %w", err)
		}
		switch string(hdr.ID[:]) {
		case "fmt ":
			var ft struct {
				AudioFormat   uint16
				NumChannels   uint16
				SampleRate    uint32
				ByteRate      uint32
				BlockAlign    uint16
				BitsPerSample uint16
			}
			if err := binary.Read(r, binary.LittleEndian, &ft); err != nil {
				return nil, fmt.Errorf("read fmt chunk: %w", err)
			}
			if ft.AudioFormat != 1 {
				return nil, fmt.Errorf("unsupported WAV encoding %d (PCM only)", ft.AudioFormat)
			}
			channels = int(ft.NumChannels)
			rate = int(ft.SampleRate)
			bitsPer = int(ft.BitsPerSample)
			haveFormat = true
			if skip := int64(hdr.Size) - 16; skip > 0 {
				if _, err := io.CopyN(io.Discard, r, skip); err != nil {
					return nil, fmt.Errorf("skip fmt extension: %w", err)
				}
			}
		case "data":
			data = make([]byte, hdr.Size)
			if _, err := io.ReadFull(r, data); err != nil {
				return nil, fmt.Errorf("read data chunk: %w", err)
			}
		default:
			if _, err := io.CopyN(io.Discard, r, int64(hdr.Size)); err != nil {
				if err == io.EOF {
					break
				}
				return nil, fmt.Errorf("skip chunk %q: %w", hdr.ID, err)
			}
		}
		if haveFormat && data != nil {
			break
		}
	}
	if !haveFormat || data == nil {
		return nil, fmt.Errorf("missing fmt or data chunk")
	}
	return convertPCM(data, channels, rate, bitsPer)
}

func convertPCM(data []byte, channels, rate, bitsPer int) ([]byte, error) {
	if bitsPer != 8 && bitsPer != 16 {
		return nil, fmt.Errorf("unsupported sample width %d bits", bitsPer)
	}
	if rate%SampleRate != 0 {
		return nil, fmt.Errorf("sample rate %d is not a multiple of %d", rate, SampleRate)
	}
	width := bitsPer / 8

	// Downmix to mono first.
	if channels > 1 {
		mono := make([]byte, 0, len(data)/channels)
		stride := width * channels
		for i := 0; i+stride <= len(data); i += stride {
			var sum int
			for c := 0; c < channels; c++ {
				sum += readSample(data[i+c*width:], width)
			}
			mono = appendSample(mono, sum/channels, width)
		}
		data = mono
	}

	// Decimate and reduce bit width in one pass.
	decim := rate / SampleRate
	out := make([]byte, 0, len(data)/(decim*width))
	for i, n := 0, 0; i+width <= len(data); i, n = i+width, n+1 {
		if n%decim != 0 {
			continue
		}
		v := readSample(data[i:], width)
		if width == 2 {
			// Bias 16-bit signed down to 8-bit unsigned.
			v = v/256 + 128
		}
		if v > 255 {
			v = 255
		} else if v < 0 {
			v = 0
		}
		out = append(out, byte(v))
	}
	return out, nil
}

func readSample(b []byte, width int) int {
	if width == 1 {
		return int(b[0])
	}
	return int(int16(binary.LittleEndian.Uint16(b)))
}

func appendSample(dst []byte, v, width int) []byte {
	if width == 1 {
		return append(dst, byte(v))
	}
	return binary.LittleEndian.AppendUint16(dst, uint16(int16(v)))
}
