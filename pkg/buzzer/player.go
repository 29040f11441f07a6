package buzzer

import (
	"log"
	"os"
	"os/exec"
	"sync"
	"time"
)

var knownPlayers = []string{"paplay", "aplay", "afplay"}

// Player plays a tone by writing it to a temporary WAV file and running a player command.
type Player struct {
	Tone    Tone
	Command string

	lookPath func(string) (string, error)
	run      func(name string, args ...string) error
	warnOnce sync.Once
	wg       sync.WaitGroup
}

// NewPlayer returns a player for the alarm tone. An empty command picks the first
// known player found on PATH.
func NewPlayer(command string) *Player {
	return &Player{
		Tone:     Alarm,
		Command:  command,
		lookPath: exec.LookPath,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

func (p *Player) resolve() (string, bool) {
	if p.Command != "" {
		path, err := p.lookPath(p.Command)
		return path, err == nil
	}
	for _, name := range knownPlayers {
		if path, err := p.lookPath(name); err == nil {
			return path, true
		}
	}
	return "", false
}

// Buzz starts playback in the background and returns immediately.
func (p *Player) Buzz() {
	cmd, ok := p.resolve()
	if !ok {
		p.warnOnce.Do(func() {
			log.Printf("Warning: no audio player available, buzzer disabled")
		})
		return
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.play(cmd); err != nil {
			p.warnOnce.Do(func() {
				log.Printf("Warning: buzzer playback failed: %v", err)
			})
		}
	}()
}

func (p *Player) play(cmd string) error {
	f, err := os.CreateTemp("", "studyplan-buzzer-*.wav")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(p.Tone.WAV()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return p.run(cmd, f.Name())
}

// Wait blocks until in-flight playbacks finish or timeout elapses.
func (p *Player) Wait(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}

// Silent is an alerter that does nothing, used when the buzzer is disabled.
type Silent struct{}

func (Silent) Buzz() {}
