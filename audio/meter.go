// Package audio plays a WAV file and exposes its momentary loudness as the
// raw level feeding the avatar's speaking phase. The demo uses it so the
// shell visibly pulses with real speech instead of a synthetic sine.
package audio

import (
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

// rmsGain maps typical speech RMS, which sits well below full scale, into a
// usable [0, 1] band before clamping.
const rmsGain = 3.0

// Meter decodes a WAV file and, while playing, tracks a smoothed RMS level.
type Meter struct {
	mu      sync.Mutex
	level   float64
	playing bool

	streamer beep.StreamSeekCloser
	format   beep.Format
}

// Open decodes the WAV file at path. Play starts actual output.
func Open(path string) (*Meter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening wav: %w", err)
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decoding wav: %w", err)
	}
	return &Meter{streamer: streamer, format: format}, nil
}

// Play initializes the speaker at the file's native rate and starts
// playback. The level begins updating as samples stream.
func (m *Meter) Play() error {
	m.mu.Lock()
	if m.playing {
		m.mu.Unlock()
		return nil
	}
	m.playing = true
	m.mu.Unlock()

	if err := speaker.Init(m.format.SampleRate, m.format.SampleRate.N(time.Millisecond*100)); err != nil {
		return fmt.Errorf("initializing speaker: %w", err)
	}

	speaker.Play(beep.Seq(&levelTap{src: m.streamer, meter: m}, beep.Callback(func() {
		m.mu.Lock()
		m.playing = false
		m.level = 0
		m.mu.Unlock()
	})))
	return nil
}

// Level returns the current smoothed level in [0, 1]. Zero when stopped.
func (m *Meter) Level() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return float32(m.level)
}

// Playing reports whether the file is still streaming.
func (m *Meter) Playing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

// Close releases the decoder. beep provides no speaker.Close; the stream
// simply runs dry once the source is gone.
func (m *Meter) Close() error {
	m.mu.Lock()
	m.playing = false
	m.level = 0
	m.mu.Unlock()
	return m.streamer.Close()
}

// observe folds one chunk's RMS into the smoothed level.
func (m *Meter) observe(rms float64) {
	target := rms * rmsGain
	if target > 1 {
		target = 1
	}
	m.mu.Lock()
	m.level += (target - m.level) * 0.3
	m.mu.Unlock()
}

// levelTap passes samples through unchanged while measuring their RMS.
// Stream runs on the speaker goroutine.
type levelTap struct {
	src   beep.Streamer
	meter *Meter
}

func (t *levelTap) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = t.src.Stream(samples)
	if n > 0 {
		var sum float64
		for i := 0; i < n; i++ {
			s := (samples[i][0] + samples[i][1]) * 0.5
			sum += s * s
		}
		t.meter.observe(math.Sqrt(sum / float64(n)))
	}
	if !ok {
		t.meter.observe(0)
	}
	return n, ok
}

func (t *levelTap) Err() error {
	return t.src.Err()
}
