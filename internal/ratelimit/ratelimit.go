package ratelimit

import (
	"log"
	"sync"
	"time"
)

// AIRateLimiter caps how many remote AI requests one process issues per day.
// The shared cache absorbs most demand; the limiter is the budget on what
// falls through.
type AIRateLimiter struct {
	mu          sync.Mutex
	textCount   int
	speechCount int
	openaiCount int
	totalCount  int
	maxText     int
	maxSpeech   int
	maxOpenAI   int
	maxTotal    int
	resetTime   time.Time
	cacheHits   int
	cacheMisses int
}

// New creates a limiter with per-provider limits. Zero means unlimited.
func New(maxText, maxSpeech, maxOpenAI, maxTotal int) *AIRateLimiter {
	return &AIRateLimiter{
		maxText:   maxText,
		maxSpeech: maxSpeech,
		maxOpenAI: maxOpenAI,
		maxTotal:  maxTotal,
		resetTime: time.Now().Add(24 * time.Hour), // Reset daily
	}
}

// CanUseText checks if a Gemini text request fits the budget.
func (rl *AIRateLimiter) CanUseText() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.checkReset()

	if rl.maxText > 0 && rl.textCount >= rl.maxText {
		log.Printf("⚠️ Gemini text rate limit reached (%d/%d)", rl.textCount, rl.maxText)
		return false
	}
	return rl.totalOK()
}

// CanUseSpeech checks if a synthesis request fits the budget.
func (rl *AIRateLimiter) CanUseSpeech() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.checkReset()

	if rl.maxSpeech > 0 && rl.speechCount >= rl.maxSpeech {
		log.Printf("⚠️ speech synthesis rate limit reached (%d/%d)", rl.speechCount, rl.maxSpeech)
		return false
	}
	return rl.totalOK()
}

// CanUseOpenAI checks if an OpenAI fallback request fits the budget.
func (rl *AIRateLimiter) CanUseOpenAI() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.checkReset()

	if rl.maxOpenAI > 0 && rl.openaiCount >= rl.maxOpenAI {
		log.Printf("⚠️ OpenAI rate limit reached (%d/%d)", rl.openaiCount, rl.maxOpenAI)
		return false
	}
	return rl.totalOK()
}

func (rl *AIRateLimiter) totalOK() bool {
	if rl.maxTotal > 0 && rl.totalCount >= rl.maxTotal {
		log.Printf("⚠️ total AI rate limit reached (%d/%d)", rl.totalCount, rl.maxTotal)
		return false
	}
	return true
}

func (rl *AIRateLimiter) RecordText() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.textCount++
	rl.totalCount++
}

func (rl *AIRateLimiter) RecordSpeech() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.speechCount++
	rl.totalCount++
}

func (rl *AIRateLimiter) RecordOpenAI() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.openaiCount++
	rl.totalCount++
}

// RecordCacheHit tracks a request the shared cache answered for us.
func (rl *AIRateLimiter) RecordCacheHit() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.cacheHits++
}

func (rl *AIRateLimiter) RecordCacheMiss() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.cacheMisses++
}

func (rl *AIRateLimiter) checkReset() {
	if time.Now().After(rl.resetTime) {
		rl.textCount = 0
		rl.speechCount = 0
		rl.openaiCount = 0
		rl.totalCount = 0
		rl.cacheHits = 0
		rl.cacheMisses = 0
		rl.resetTime = time.Now().Add(24 * time.Hour)
		log.Println("AI rate limit counters reset")
	}
}

// Stats returns the current counters.
func (rl *AIRateLimiter) Stats() map[string]int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return map[string]int{
		"text_requests":   rl.textCount,
		"speech_requests": rl.speechCount,
		"openai_requests": rl.openaiCount,
		"total_requests":  rl.totalCount,
		"cache_hits":      rl.cacheHits,
		"cache_misses":    rl.cacheMisses,
	}
}
