package tts

import (
	"context"
	"encoding/base64"
	"log"
	"time"

	"github.com/deusflow/newspulse/internal/cache"
	"github.com/deusflow/newspulse/internal/identity"
	"github.com/deusflow/newspulse/internal/metrics"
	"github.com/deusflow/newspulse/internal/ratelimit"
	"github.com/deusflow/newspulse/internal/retry"
)

// Source says where a chunk's audio came from.
type Source int

const (
	SourceCache Source = iota
	SourceRemote
	SourceDeviceFallback
)

func (s Source) String() string {
	switch s {
	case SourceCache:
		return "cache"
	case SourceRemote:
		return "remote"
	default:
		return "deviceFallback"
	}
}

// Resolution is the outcome for one chunk. Data holds raw PCM bytes for
// cache and remote sources; for the device fallback it is empty and the
// caller narrates the chunk text locally instead.
type Resolution struct {
	Source Source
	Data   []byte
}

// AudioCache is the shared audio store, keyed by (text hash, voice). Values
// stay base64-encoded as at the transport boundary.
type AudioCache interface {
	Audio(ctx context.Context, textHash, voice string) (string, bool)
	SaveAudio(ctx context.Context, textHash, voice, audioData string)
}

// Synthesizer is the remote speech capability. It returns base64 PCM.
type Synthesizer interface {
	GenerateSpeech(ctx context.Context, text, voice string) (string, error)
}

// Resolver runs the three-tier audio waterfall: shared cache, remote
// synthesis with retry, local-device fallback signal.
type Resolver struct {
	cache   AudioCache
	synth   Synthesizer // nil when no API key is configured
	limiter *ratelimit.AIRateLimiter
	mem     *cache.Cache // process-local L1 over decoded bytes
}

func NewResolver(shared AudioCache, synth Synthesizer, limiter *ratelimit.AIRateLimiter) *Resolver {
	return &Resolver{
		cache:   shared,
		synth:   synth,
		limiter: limiter,
		mem:     cache.New(),
	}
}

// Resolve finds playable audio for one chunk. It never returns an error:
// every failure tier falls through to the next, ending at the device
// fallback signal.
func (r *Resolver) Resolve(ctx context.Context, chunkText, voice string) Resolution {
	key := identity.TextHash(chunkText)
	memKey := key + "|" + voice

	if v, ok := r.mem.Get(memKey); ok {
		metrics.Global.IncrementCacheHits()
		return Resolution{Source: SourceCache, Data: v.([]byte)}
	}

	// 1. Shared cache.
	if encoded, ok := r.cache.Audio(ctx, key, voice); ok {
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err == nil {
			metrics.Global.IncrementCacheHits()
			r.limiter.RecordCacheHit()
			r.mem.Set(memKey, data, time.Hour)
			return Resolution{Source: SourceCache, Data: data}
		}
		log.Printf("⚠️ corrupt audio cache row for %s/%s: %v", key, voice, err)
	}
	metrics.Global.IncrementCacheMisses()
	r.limiter.RecordCacheMiss()

	// 2. Remote synthesis with retry.
	if r.synth != nil && r.limiter.CanUseSpeech() {
		var encoded string
		err := retry.WithRetry(ctx, retry.Synthesis, func() error {
			e, err := r.synth.GenerateSpeech(ctx, chunkText, voice)
			if err == nil {
				encoded = e
			}
			return err
		})
		r.limiter.RecordSpeech()
		metrics.Global.IncrementSynthesisCalls()

		if err == nil {
			data, decErr := base64.StdEncoding.DecodeString(encoded)
			if decErr == nil {
				// Persist in the background; playback never waits on
				// the cache write.
				go r.cache.SaveAudio(context.Background(), key, voice, encoded)
				r.mem.Set(memKey, data, time.Hour)
				return Resolution{Source: SourceRemote, Data: data}
			}
			log.Printf("⚠️ synthesis returned undecodable audio: %v", decErr)
		} else {
			metrics.Global.IncrementSynthesisFailures()
			log.Printf("⚠️ remote synthesis failed for voice %s: %v", voice, err)
		}
	}

	// 3. Signal the caller to narrate on-device.
	metrics.Global.IncrementDeviceFallbacks()
	return Resolution{Source: SourceDeviceFallback}
}
