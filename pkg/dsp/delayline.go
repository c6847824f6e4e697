package dsp

// Line is a circular delay line with linear interpolation between frames,
// supporting a delay that changes per sample without clicks. A delay of
// zero reproduces the most recently written sample.
type Line struct {
	buffer   []float32
	size     int
	writePos int // next slot to write
}

// NewLine allocates a delay line holding up to maxDelaySeconds of audio.
func NewLine(maxDelaySeconds, sampleRate float64) *Line {
	size := int(maxDelaySeconds*sampleRate) + 2
	return &Line{buffer: make([]float32, size), size: size}
}

// MaxDelaySamples returns the largest representable delay in samples.
func (d *Line) MaxDelaySamples() float64 { return float64(d.size - 2) }

// Reset zeroes the delay memory without deallocating.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
}

// Write pushes one sample into the line.
func (d *Line) Write(sample float32) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= d.size {
		d.writePos = 0
	}
}

// Read returns the sample delaySamples behind the most recently written
// one, linearly interpolated. The delay is clamped to the line's capacity.
func (d *Line) Read(delaySamples float64) float32 {
	if delaySamples < 0 {
		delaySamples = 0
	}
	if max := d.MaxDelaySamples(); delaySamples > max {
		delaySamples = max
	}
	readPos := float64(d.writePos-1) - delaySamples
	if readPos < 0 {
		readPos += float64(d.size)
	}
	i := int(readPos)
	frac := float32(readPos - float64(i))
	s1 := d.buffer[i%d.size]
	s2 := d.buffer[(i+1)%d.size]
	return s1*(1.0-frac) + s2*frac
}

// Process writes the input and returns the delayed sample in one step.
func (d *Line) Process(input float32, delaySamples float64) float32 {
	d.Write(input)
	return d.Read(delaySamples)
}
