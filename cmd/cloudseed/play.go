//go:build !headless

package main

import (
	"context"
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-cloudseed/dsp/effects/reverb"
)

func runPlay(args []string) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	var s settings
	s.register(fs)
	loop := fs.Bool("loop", false, "repeat the input until interrupted")
	tail := fs.Float64("tail", 2, "seconds of silence played after the input")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: cloudseed play [flags] input.wav\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("play: expected one input file")
	}

	in, err := readInput(fs.Arg(0))
	if err != nil {
		return err
	}
	rate := int(in.Format.SampleRate)

	r, _, err := s.newReverb(float64(rate))
	if err != nil {
		return err
	}
	defer r.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return fmt.Errorf("play: audio output: %w", err)
	}
	<-ready

	st := newStream(r, stereo(in), *loop, int(*tail*float64(rate)))
	player := otoCtx.NewPlayer(st)
	defer player.Close()
	player.Play()

	if interactive() {
		fmt.Fprintf(os.Stderr, "playing %s at %d Hz, Ctrl-C to stop\n", fs.Arg(0), rate)
	}

	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
		}
	}
	return nil
}

// stream renders the reverb on demand as 16-bit little-endian frames for
// the audio device.
type stream struct {
	mu sync.Mutex

	r     *reverb.Reverb
	src   []int16 // interleaved stereo
	loop  bool
	tail  int // frames of silence after src
	pos   int // frame position within src plus tail
	chunk []int16
}

func newStream(r *reverb.Reverb, src []int16, loop bool, tailFrames int) *stream {
	return &stream{
		r:     r,
		src:   src,
		loop:  loop,
		tail:  tailFrames,
		chunk: make([]int16, 2*r.BlockSize()),
	}
}

// Read fills p with whole frames. It returns io.EOF once the input and the
// tail have been played, unless looping.
func (s *stream) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	srcFrames := len(s.src) / 2
	total := srcFrames + s.tail
	if s.loop {
		total = srcFrames
	}

	n := 0
	for len(p)-n >= 4 {
		if s.pos >= total {
			if !s.loop || total == 0 {
				break
			}
			s.pos = 0
		}

		frames := min(len(s.chunk)/2, (len(p)-n)/4, total-s.pos)
		buf := s.chunk[:2*frames]
		clear(buf)
		if s.pos < srcFrames {
			copy(buf, s.src[2*s.pos:])
		}
		s.r.ProcessInt16(buf)

		for _, v := range buf {
			binary.LittleEndian.PutUint16(p[n:], uint16(v))
			n += 2
		}
		s.pos += frames
	}

	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}
