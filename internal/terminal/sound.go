package terminal

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Sound plays feedback for shots.
type Sound interface {
	Hit()
	Miss()
	GameOver()
	Close()
}

// Silent is a Sound that plays nothing.
type Silent struct{}

func (Silent) Hit()      {}
func (Silent) Miss()     {}
func (Silent) GameOver() {}
func (Silent) Close()    {}

// Speaker plays short sine tones through the system audio device.
type Speaker struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	closed bool
}

// NewSpeaker opens the audio device. Callers fall back to Silent on error.
func NewSpeaker() (*Speaker, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return nil, err
	}
	s := &Speaker{mixer: &beep.Mixer{}}
	speaker.Play(s.mixer)
	return s, nil
}

func (s *Speaker) Hit()  { s.play(tone(880, 60*time.Millisecond)) }
func (s *Speaker) Miss() { s.play(tone(160, 150*time.Millisecond)) }

func (s *Speaker) GameOver() {
	s.play(tone(440, 120*time.Millisecond), tone(330, 240*time.Millisecond))
}

func (s *Speaker) play(parts ...beep.Streamer) {
	seq := make([]beep.Streamer, 0, len(parts))
	for _, p := range parts {
		if p != nil {
			seq = append(seq, p)
		}
	}
	if len(seq) == 0 {
		return
	}

	// the mixer is read by the speaker goroutine
	speaker.Lock()
	defer speaker.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.mixer.Add(beep.Seq(seq...))
}

func tone(freq float64, d time.Duration) beep.Streamer {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return nil
	}
	return &effects.Volume{Streamer: beep.Take(sampleRate.N(d), sine), Base: 2, Volume: -2}
}

// Close stops playback and releases the device.
func (s *Speaker) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	speaker.Clear()
	speaker.Close()
}
