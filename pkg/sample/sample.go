// Package sample provides in-memory audio material for buffer-playing
// nodes: planar float32 buffers decoded from WAV, MP3 or Ogg Vorbis files,
// and WAV export for captured audio.
package sample

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// A Buffer is immutable planar sample data at a known sample rate. Buffers
// are decoded or built on control threads and only read on the render
// thread.
type Buffer struct {
	sampleRate float64
	channels   [][]float32
}

// New allocates a zeroed buffer.
func New(sampleRate float64, channels, frames int) *Buffer {
	if channels < 1 {
		channels = 1
	}
	b := &Buffer{sampleRate: sampleRate}
	b.channels = make([][]float32, channels)
	for i := range b.channels {
		b.channels[i] = make([]float32, frames)
	}
	return b
}

// FromInterleaved builds a buffer from interleaved sample data.
func FromInterleaved(sampleRate float64, channels int, data []float32) *Buffer {
	if channels < 1 {
		channels = 1
	}
	frames := len(data) / channels
	b := New(sampleRate, channels, frames)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			b.channels[ch][i] = data[i*channels+ch]
		}
	}
	return b
}

// SampleRate returns the buffer's native sample rate in Hz.
func (b *Buffer) SampleRate() float64 { return b.sampleRate }

// NumChannels returns the channel count.
func (b *Buffer) NumChannels() int { return len(b.channels) }

// Frames returns the per-channel frame count.
func (b *Buffer) Frames() int {
	if len(b.channels) == 0 {
		return 0
	}
	return len(b.channels[0])
}

// Duration returns the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	if b.sampleRate <= 0 {
		return 0
	}
	return float64(b.Frames()) / b.sampleRate
}

// Channel returns one channel's samples. Treat as read-only once the buffer
// is handed to a node.
func (b *Buffer) Channel(i int) []float32 { return b.channels[i] }

// Load decodes an audio file by extension: .wav, .mp3, .ogg.
func Load(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sample: %w", err)
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return DecodeWAV(f)
	case ".mp3":
		return DecodeMP3(f)
	case ".ogg":
		return DecodeOgg(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// readAllSamples drains an interleaved float32 reader function.
func readAllSamples(read func([]float32) (int, error)) ([]float32, error) {
	var all []float32
	buf := make([]float32, 8192)
	for {
		n, err := read(buf)
		all = append(all, buf[:n]...)
		if err == io.EOF {
			return all, nil
		}
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return all, nil
		}
	}
}
