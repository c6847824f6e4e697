package sample

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

// DecodeWAV decodes a PCM WAV stream.
func DecodeWAV(r io.ReadSeeker) (*Buffer, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, ErrInvalidWAV
	}
	pcm, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	bitDepth := int(d.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := float32(int64(1) << (bitDepth - 1))
	channels := pcm.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	frames := len(pcm.Data) / channels
	b := New(float64(pcm.Format.SampleRate), channels, frames)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			b.channels[ch][i] = float32(pcm.Data[i*channels+ch]) / scale
		}
	}
	return b, nil
}

// DecodeMP3 decodes an MP3 stream. go-mp3 always yields 16-bit stereo.
func DecodeMP3(r io.Reader) (*Buffer, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("decode mp3: %w", err)
	}
	const channels = 2
	var data []float32
	buf := make([]byte, 8192)
	for {
		n, err := dec.Read(buf)
		for i := 0; i+1 < n; i += 2 {
			v := int16(binary.LittleEndian.Uint16(buf[i : i+2]))
			data = append(data, float32(v)/32768.0)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode mp3: %w", err)
		}
	}
	return FromInterleaved(float64(dec.SampleRate()), channels, data), nil
}

// DecodeOgg decodes an Ogg Vorbis stream.
func DecodeOgg(r io.Reader) (*Buffer, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("decode ogg: %w", err)
	}
	data, err := readAllSamples(dec.Read)
	if err != nil {
		return nil, fmt.Errorf("decode ogg: %w", err)
	}
	return FromInterleaved(float64(dec.SampleRate()), dec.Channels(), data), nil
}
