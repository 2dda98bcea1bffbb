package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, sampleRate, channels int, chunks ...[]int16) []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	w, err := NewWriter(f, sampleRate, channels)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range chunks {
		if err := w.Write(c); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestWriterHeader(t *testing.T) {
	data := writeTemp(t, 48000, 2, []int16{1, -1, 2, -2}, []int16{3, -3})

	if len(data) != headerSize+12 {
		t.Fatalf("file size = %d, want %d", len(data), headerSize+12)
	}
	if string(data[0:4]) != "RIFF" || string(data[8:16]) != "WAVEfmt " || string(data[36:40]) != "data" {
		t.Fatalf("bad chunk ids: %q", data[:40])
	}
	if got := binary.LittleEndian.Uint32(data[4:]); got != uint32(len(data)-8) {
		t.Fatalf("riff size = %d, want %d", got, len(data)-8)
	}
	if got := binary.LittleEndian.Uint32(data[40:]); got != 12 {
		t.Fatalf("data size = %d, want 12", got)
	}
	if got := binary.LittleEndian.Uint32(data[28:]); got != 48000*4 {
		t.Fatalf("byte rate = %d", got)
	}
}

func TestRoundTrip(t *testing.T) {
	in := []int16{0, 32767, -32768, 1, -1, 1234, -4321, 7}
	data := writeTemp(t, 44100, 2, in)

	f, err := Read(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if f.Format.SampleRate != 44100 || f.Format.Channels != 2 || f.Frames() != 4 {
		t.Fatalf("format = %+v, frames %d", f.Format, f.Frames())
	}
	for i := range in {
		if f.Samples[i] != in[i] {
			t.Fatalf("sample %d: got %d, want %d", i, f.Samples[i], in[i])
		}
	}

	left := f.Channel(0)
	if len(left) != 4 || left[1] != -1 || left[3] != -4321.0/32768 {
		t.Fatalf("left = %v", left)
	}
	if f.Channel(2) != nil {
		t.Fatal("out-of-range channel should be nil")
	}
}

func TestReadSkipsUnknownChunks(t *testing.T) {
	data := writeTemp(t, 8000, 1, []int16{5, 6, 7})

	// Insert an odd-sized LIST chunk between fmt and data.
	var buf bytes.Buffer
	buf.Write(data[:36])
	buf.WriteString("LIST")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(3))
	buf.Write([]byte{'a', 'b', 'c', 0})
	buf.Write(data[36:])

	f, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Samples) != 3 || f.Samples[2] != 7 {
		t.Fatalf("samples = %v", f.Samples)
	}
}

func TestReadRejects(t *testing.T) {
	good := writeTemp(t, 8000, 1, []int16{1})

	float := append([]byte(nil), good...)
	binary.LittleEndian.PutUint16(float[20:], 3)
	if _, err := Read(bytes.NewReader(float)); !errors.Is(err, ErrFormat) {
		t.Fatalf("float format: err = %v", err)
	}

	eight := append([]byte(nil), good...)
	binary.LittleEndian.PutUint16(eight[34:], 8)
	if _, err := Read(bytes.NewReader(eight)); !errors.Is(err, ErrFormat) {
		t.Fatalf("8-bit: err = %v", err)
	}

	if _, err := Read(bytes.NewReader([]byte("RIFX"))); !errors.Is(err, ErrMalformed) {
		t.Fatalf("truncated: err = %v", err)
	}
	if _, err := Read(bytes.NewReader(good[:40])); !errors.Is(err, ErrMalformed) {
		t.Fatalf("no data chunk: err = %v", err)
	}
}

func TestWriterValidation(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "x.wav"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, err := NewWriter(f, 0, 2); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if _, err := NewWriter(f, 48000, 0); err == nil {
		t.Fatal("expected error for zero channels")
	}

	w, err := NewWriter(f, 48000, 2)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Write([]int16{1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}
	if w.Frames() != 2 {
		t.Fatalf("frames = %d, want 2", w.Frames())
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Write([]int16{1}); err == nil {
		t.Fatal("expected error writing after close")
	}
}
