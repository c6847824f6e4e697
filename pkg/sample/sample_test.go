package sample

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestFromInterleaved(t *testing.T) {
	b := FromInterleaved(44100, 2, []float32{0, 10, 1, 11, 2, 12})
	if got := b.NumChannels(); got != 2 {
		t.Fatalf("NumChannels() = %d, want 2", got)
	}
	if got := b.Frames(); got != 3 {
		t.Fatalf("Frames() = %d, want 3", got)
	}
	for i := 0; i < 3; i++ {
		if got := b.Channel(0)[i]; got != float32(i) {
			t.Errorf("left frame %d = %g, want %d", i, got, i)
		}
		if got := b.Channel(1)[i]; got != float32(10+i) {
			t.Errorf("right frame %d = %g, want %d", i, got, 10+i)
		}
	}
}

func TestBufferDuration(t *testing.T) {
	b := New(48000, 1, 24000)
	if got := b.Duration(); got != 0.5 {
		t.Errorf("Duration() = %g, want 0.5", got)
	}
}

func TestWAVRoundTrip(t *testing.T) {
	const frames = 1000
	src := New(44100, 2, frames)
	for i := 0; i < frames; i++ {
		ph := 2 * math.Pi * float64(i) / 100
		src.Channel(0)[i] = float32(0.8 * math.Sin(ph))
		src.Channel(1)[i] = float32(0.3 * math.Cos(ph))
	}

	path := filepath.Join(t.TempDir(), "roundtrip.wav")
	if err := SaveWAV(path, src); err != nil {
		t.Fatalf("SaveWAV() error: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.NumChannels() != 2 || got.Frames() != frames {
		t.Fatalf("decoded %dch x %d frames, want 2ch x %d", got.NumChannels(), got.Frames(), frames)
	}
	if got.SampleRate() != 44100 {
		t.Errorf("decoded sample rate = %g, want 44100", got.SampleRate())
	}
	for ch := 0; ch < 2; ch++ {
		for i := 0; i < frames; i++ {
			want := float64(src.Channel(ch)[i])
			if diff := math.Abs(float64(got.Channel(ch)[i]) - want); diff > 1e-3 {
				t.Fatalf("channel %d frame %d off by %g, want 16-bit accuracy", ch, i, diff)
			}
		}
	}
}

func TestWriteWAVClipsOutOfRange(t *testing.T) {
	src := New(44100, 1, 4)
	copy(src.Channel(0), []float32{2, -2, 0.5, 0})

	path := filepath.Join(t.TempDir(), "clip.wav")
	if err := SaveWAV(path, src); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	checks := []float64{1, -1, 0.5, 0}
	for i, want := range checks {
		if diff := math.Abs(float64(got.Channel(0)[i]) - want); diff > 1e-3 {
			t.Errorf("frame %d = %g, want %g", i, got.Channel(0)[i], want)
		}
	}
}

func TestWriteWAVEmptyBuffer(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "empty*.wav")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := WriteWAV(f, New(44100, 1, 0)); !errors.Is(err, ErrEmptyBuffer) {
		t.Errorf("WriteWAV(empty) error = %v, want ErrEmptyBuffer", err)
	}
}

func TestLoadUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sound.flac")
	if err := os.WriteFile(path, []byte("not audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Load() error = %v, want ErrUnknownFormat", err)
	}
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.wav")
	if err := os.WriteFile(path, []byte("RIFFnope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() of garbage wav succeeded, want error")
	}
}
