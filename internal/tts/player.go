package tts

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"github.com/deusflow/newspulse/internal/metrics"
)

// Sink plays decoded PCM samples. Play blocks until the buffer finished or
// Stop was called; Stop must be immediate and safe from another goroutine.
type Sink interface {
	Play(ctx context.Context, samples []float32) error
	Stop()
}

// Narrator is the local on-device narration path, used for chunks the
// resolver could not get remote audio for. Narrate blocks until done.
type Narrator interface {
	Narrate(ctx context.Context, text string) error
	Stop()
}

// session is one playback run. Its stop flag is the single cooperative
// cancellation point, checked at chunk boundaries.
type session struct {
	stop atomic.Bool
}

// Scheduler drives chunk-by-chunk narration with one chunk of lookahead:
// while chunk i plays, chunk i+1's audio resolution is already in flight.
// At most one session is active; starting a new one stops the old one.
type Scheduler struct {
	resolver *Resolver
	sink     Sink
	narrator Narrator

	mu      sync.Mutex
	current *session
}

func NewScheduler(resolver *Resolver, sink Sink, narrator Narrator) *Scheduler {
	return &Scheduler{resolver: resolver, sink: sink, narrator: narrator}
}

// Speak narrates text with the voice mapped from langTag, blocking until the
// last chunk finished or Stop was called. onEnd runs only on natural
// completion, never after a cancelled run. Any prior session is stopped
// first.
func (s *Scheduler) Speak(ctx context.Context, text, langTag string, onEnd func()) {
	s.Stop()

	sess := &session{}
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	chunks := Split(text)
	if len(chunks) == 0 {
		if onEnd != nil {
			onEnd()
		}
		return
	}
	voice := VoiceFor(langTag)

	// Fetch ahead: resolution of the next chunk overlaps playback of the
	// current one. Exactly one chunk of lookahead bounds memory and cost.
	next := s.resolveAsync(ctx, chunks[0], voice)

	for i, chunk := range chunks {
		if sess.stop.Load() {
			break
		}

		res := <-next

		if i+1 < len(chunks) && !sess.stop.Load() {
			next = s.resolveAsync(ctx, chunks[i+1], voice)
		}

		if sess.stop.Load() {
			break
		}
		s.playChunk(ctx, chunk, res)
	}

	if !sess.stop.Load() && onEnd != nil {
		onEnd()
	}
}

// Stop requests cancellation of the active session. The current audio unit
// halts immediately; remaining chunks never start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	sess := s.current
	s.mu.Unlock()

	if sess != nil {
		sess.stop.Store(true)
	}
	if s.sink != nil {
		s.sink.Stop()
	}
	if s.narrator != nil {
		s.narrator.Stop()
	}
}

func (s *Scheduler) resolveAsync(ctx context.Context, chunk, voice string) <-chan Resolution {
	out := make(chan Resolution, 1)
	go func() {
		out <- s.resolver.Resolve(ctx, chunk, voice)
	}()
	return out
}

// playChunk plays one resolved chunk to completion. Playback errors are
// logged and the loop moves on; a failed chunk never aborts the session.
func (s *Scheduler) playChunk(ctx context.Context, chunk string, res Resolution) {
	switch res.Source {
	case SourceCache, SourceRemote:
		if s.sink == nil {
			return
		}
		if err := s.sink.Play(ctx, DecodePCM16(res.Data)); err != nil {
			log.Printf("⚠️ audio playback error: %v", err)
			return
		}
	case SourceDeviceFallback:
		if s.narrator == nil {
			return
		}
		if err := s.narrator.Narrate(ctx, chunk); err != nil {
			log.Printf("⚠️ device narration error: %v", err)
			return
		}
	}
	metrics.Global.IncrementChunksPlayed()
}
