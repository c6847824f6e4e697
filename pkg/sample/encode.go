package sample

import (
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteWAV encodes a buffer as 16-bit PCM WAV. Samples outside [-1, 1] are
// clipped.
func WriteWAV(w io.WriteSeeker, b *Buffer) error {
	if b.Frames() == 0 {
		return ErrEmptyBuffer
	}
	channels := b.NumChannels()
	frames := b.Frames()
	enc := wav.NewEncoder(w, int(b.sampleRate), 16, channels, 1)
	data := make([]int, frames*channels)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			data[i*channels+ch] = int(clip16(b.channels[ch][i]))
		}
	}
	ib := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: int(b.sampleRate)},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(ib); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}
	return nil
}

// SaveWAV writes a buffer to a 16-bit PCM WAV file.
func SaveWAV(path string, b *Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}
	if err := WriteWAV(f, b); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func clip16(v float32) int16 {
	if v <= -1.0 {
		return -32767
	}
	if v >= 1.0 {
		return 32767
	}
	return int16(v * 32767)
}
