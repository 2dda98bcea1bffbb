// Package wav reads and writes 16-bit PCM WAVE files.
//
// The writer streams frames and patches the RIFF and data sizes on Close, so
// the length of the audio need not be known up front. See
// http://soundfile.sapp.org/doc/WaveFormat/ for the layout.
package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// PCM is the WAVE format tag for integer PCM.
const PCM = 1

const (
	headerSize     = 44
	riffSizeOffset = 4
	dataSizeOffset = 40
)

var (
	// ErrFormat is returned for WAVE files other than 16-bit PCM.
	ErrFormat = errors.New("wav: unsupported format")
	// ErrMalformed is returned when the RIFF structure cannot be parsed.
	ErrMalformed = errors.New("wav: malformed file")
)

// Format is the body of the "fmt " chunk.
type Format struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

func pcm16(sampleRate, channels int) Format {
	return Format{
		AudioFormat:   PCM,
		Channels:      uint16(channels),
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * channels * 2),
		BlockAlign:    uint16(channels * 2),
		BitsPerSample: 16,
	}
}

// Writer streams interleaved 16-bit samples into a WAVE file.
type Writer struct {
	ws       io.WriteSeeker
	format   Format
	samples  int64
	finished bool
}

// NewWriter writes a header with placeholder sizes to ws.
func NewWriter(ws io.WriteSeeker, sampleRate, channels int) (*Writer, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("wav: sample rate must be > 0: %d", sampleRate)
	}
	if channels < 1 || channels > 8 {
		return nil, fmt.Errorf("wav: channel count must be in [1, 8]: %d", channels)
	}

	w := &Writer{ws: ws, format: pcm16(sampleRate, channels)}

	var hdr bytes.Buffer
	hdr.WriteString("RIFF")
	_ = binary.Write(&hdr, binary.LittleEndian, uint32(0))
	hdr.WriteString("WAVEfmt ")
	_ = binary.Write(&hdr, binary.LittleEndian, uint32(16))
	_ = binary.Write(&hdr, binary.LittleEndian, w.format)
	hdr.WriteString("data")
	_ = binary.Write(&hdr, binary.LittleEndian, uint32(0))

	if _, err := ws.Write(hdr.Bytes()); err != nil {
		return nil, err
	}

	return w, nil
}

// Format returns the format written to the header.
func (w *Writer) Format() Format { return w.format }

// Frames returns the number of complete frames written so far.
func (w *Writer) Frames() int64 { return w.samples / int64(w.format.Channels) }

// Write appends interleaved samples.
func (w *Writer) Write(samples []int16) error {
	if w.finished {
		return errors.New("wav: write after close")
	}
	if err := binary.Write(w.ws, binary.LittleEndian, samples); err != nil {
		return err
	}
	w.samples += int64(len(samples))
	return nil
}

// Close patches the chunk sizes. It does not close the underlying writer.
func (w *Writer) Close() error {
	if w.finished {
		return nil
	}
	w.finished = true

	dataSize := uint32(w.samples * 2)
	if err := w.patch(riffSizeOffset, headerSize-8+dataSize); err != nil {
		return err
	}
	if err := w.patch(dataSizeOffset, dataSize); err != nil {
		return err
	}

	_, err := w.ws.Seek(0, io.SeekEnd)
	return err
}

func (w *Writer) patch(offset int64, v uint32) error {
	if _, err := w.ws.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	return binary.Write(w.ws, binary.LittleEndian, v)
}

// File is a decoded WAVE file.
type File struct {
	Format  Format
	Samples []int16 // interleaved
}

// Frames returns the number of frames in f.
func (f *File) Frames() int { return len(f.Samples) / int(f.Format.Channels) }

// Channel returns channel c of f scaled to [-1, 1).
func (f *File) Channel(c int) []float64 {
	n := int(f.Format.Channels)
	if c < 0 || c >= n {
		return nil
	}

	out := make([]float64, f.Frames())
	for i := range out {
		out[i] = float64(f.Samples[i*n+c]) / 32768
	}
	return out
}

// Read decodes a 16-bit PCM WAVE stream. Chunks other than "fmt " and
// "data" are skipped.
func Read(r io.Reader) (*File, error) {
	var riff struct {
		ID   [4]byte
		Size uint32
		Wave [4]byte
	}
	if err := binary.Read(r, binary.LittleEndian, &riff); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if string(riff.ID[:]) != "RIFF" || string(riff.Wave[:]) != "WAVE" {
		return nil, fmt.Errorf("%w: not a RIFF/WAVE stream", ErrMalformed)
	}

	var (
		f       File
		haveFmt bool
	)
	for {
		var chunk struct {
			ID   [4]byte
			Size uint32
		}
		if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
			return nil, fmt.Errorf("%w: missing data chunk", ErrMalformed)
		}

		body := io.LimitReader(r, int64(chunk.Size))
		switch string(chunk.ID[:]) {
		case "fmt ":
			if chunk.Size < 16 {
				return nil, fmt.Errorf("%w: fmt chunk of %d bytes", ErrMalformed, chunk.Size)
			}
			if err := binary.Read(body, binary.LittleEndian, &f.Format); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			if f.Format.AudioFormat != PCM || f.Format.BitsPerSample != 16 || f.Format.Channels == 0 {
				return nil, fmt.Errorf("%w: format %d, %d bits, %d channels",
					ErrFormat, f.Format.AudioFormat, f.Format.BitsPerSample, f.Format.Channels)
			}
			haveFmt = true

		case "data":
			if !haveFmt {
				return nil, fmt.Errorf("%w: data before fmt", ErrMalformed)
			}
			f.Samples = make([]int16, chunk.Size/2)
			if err := binary.Read(body, binary.LittleEndian, f.Samples); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			return &f, nil
		}

		// Chunks are padded to an even size.
		if _, err := io.Copy(io.Discard, body); err != nil {
			return nil, err
		}
		if chunk.Size%2 == 1 {
			if _, err := io.CopyN(io.Discard, r, 1); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
		}
	}
}
