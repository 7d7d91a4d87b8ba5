package main

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/voidmarch/simcore/system"
)

const (
	sampleRate   = beep.SampleRate(44100)
	cueDuration  = 80 * time.Millisecond
	damageFreq   = 220.0
	spawnedFreq  = 440.0
)

// beepPlayer is the concrete system.Player wired into system.Deps.Audio when
// voidmarchd runs as a spectator. It owns the one resource AudioSystem must
// never touch directly: the sound device — a single bounded queue drained
// by one goroutine, overflow silently dropped rather than backing up into
// the simulation thread that calls Play.
type beepPlayer struct {
	queue chan system.Cue
	done  chan struct{}
}

func newBeepPlayer() (*beepPlayer, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	p := &beepPlayer{queue: make(chan system.Cue, 8), done: make(chan struct{})}
	go p.run()
	return p, nil
}

func (p *beepPlayer) Play(c system.Cue) {
	select {
	case p.queue <- c:
	default:
		// queue full: drop rather than let audio backlog tick processing.
	}
}

func (p *beepPlayer) run() {
	for {
		select {
		case <-p.done:
			return
		case c := <-p.queue:
			speaker.Play(toneFor(c))
		}
	}
}

func (p *beepPlayer) Close() { close(p.done) }

func toneFor(c system.Cue) beep.Streamer {
	switch c {
	case system.CueUnitSpawned:
		return newTone(spawnedFreq, cueDuration, sampleRate)
	default:
		return newTone(damageFreq, cueDuration, sampleRate)
	}
}
