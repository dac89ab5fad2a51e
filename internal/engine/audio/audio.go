// Package audio plays short synthesized cues for studio events such as a
// finished or cancelled generation.
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"go.uber.org/zap"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

// Cue identifies a studio sound.
type Cue int

// Studio cues.
const (
	CueStarted Cue = iota
	CueCompleted
	CueCancelled
	CueExported
	CueRejected
)

func (c Cue) String() string {
	switch c {
	case CueStarted:
		return "started"
	case CueCompleted:
		return "completed"
	case CueCancelled:
		return "cancelled"
	case CueExported:
		return "exported"
	case CueRejected:
		return "rejected"
	}
	return "unknown"
}

// Note is one tone of a cue. A zero frequency is a rest.
type Note struct {
	Freq     float64
	Duration time.Duration
}

// Notes returns the melody of c.
func Notes(c Cue) []Note {
	switch c {
	case CueStarted:
		return []Note{{660, 80 * time.Millisecond}}
	case CueCompleted:
		return []Note{{523.25, 90 * time.Millisecond}, {659.25, 90 * time.Millisecond}, {783.99, 140 * time.Millisecond}}
	case CueCancelled:
		return []Note{{440, 120 * time.Millisecond}, {329.63, 160 * time.Millisecond}}
	case CueExported:
		return []Note{{880, 60 * time.Millisecond}, {0, 40 * time.Millisecond}, {880, 60 * time.Millisecond}}
	case CueRejected:
		return []Note{{220, 100 * time.Millisecond}}
	}
	return nil
}

// Manager plays cues through the speaker.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	enabled     bool
	sampleRate  beep.SampleRate
	volume      float64 // 0.0 to 1.0
	mixer       *beep.Mixer
	log         *zap.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// New creates a new audio manager.
func New(opts ...Option) *Manager {
	m := &Manager{
		enabled:    true,
		sampleRate: DefaultSampleRate,
		volume:     1.0,
		mixer:      &beep.Mixer{},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init initializes the speaker.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.mixer)

	m.initialized = true
	m.log.Info("audio initialized", zap.Int("sample_rate", int(m.sampleRate)))
	return nil
}

// Close shuts down the audio system.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	m.initialized = false
}

// IsInitialized returns whether the audio system is initialized.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetEnabled mutes or unmutes all cues.
func (m *Manager) SetEnabled(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = on
}

// Enabled reports whether cues are played.
func (m *Manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// SetVolume sets the cue volume (0.0 to 1.0).
func (m *Manager) SetVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = clamp(vol, 0, 1)
}

// Volume returns the cue volume.
func (m *Manager) Volume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.volume
}

// Play mixes cue c into the output. It is a no-op while disabled.
func (m *Manager) Play(c Cue) error {
	m.mu.RLock()
	initialized, enabled, vol := m.initialized, m.enabled, m.volume
	m.mu.RUnlock()

	if !enabled {
		return nil
	}
	if !initialized {
		return fmt.Errorf("audio not initialized")
	}

	s := &effects.Volume{
		Streamer: Render(c, m.sampleRate),
		Base:     2,
		Volume:   volumeToDb(vol) / 6, // Base 2: one step is ~6dB
		Silent:   vol <= 0,
	}

	speaker.Lock()
	m.mixer.Add(s)
	speaker.Unlock()

	m.log.Debug("audio cue", zap.Stringer("cue", c))
	return nil
}

// Render returns the streamer of cue c at sample rate sr.
func Render(c Cue, sr beep.SampleRate) beep.Streamer {
	var parts []beep.Streamer
	for _, n := range Notes(c) {
		if n.Freq <= 0 {
			parts = append(parts, beep.Silence(sr.N(n.Duration)))
			continue
		}
		parts = append(parts, tone(sr, n.Freq, n.Duration, 0.3))
	}
	return beep.Seq(parts...)
}

// tone is a sine at freq with short linear fades against clicks.
func tone(sr beep.SampleRate, freq float64, d time.Duration, gain float64) beep.Streamer {
	total := sr.N(d)
	fade := min(sr.N(5*time.Millisecond), total/2)
	step := 2 * math.Pi * freq / float64(sr)
	pos := 0

	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := min(len(samples), total-pos)
		for i := 0; i < n; i++ {
			env := 1.0
			if fade > 0 {
				env = math.Min(1, math.Min(float64(pos)/float64(fade), float64(total-pos)/float64(fade)))
			}
			v := math.Sin(step*float64(pos)) * env * gain
			samples[i][0], samples[i][1] = v, v
			pos++
		}
		return n, true
	})
}

// volumeToDb converts a 0-1 volume to decibels: 1 is 0dB, 0.5 is ~-6dB.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return 20 * math.Log10(vol)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
