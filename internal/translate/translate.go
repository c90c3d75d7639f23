// Package translate turns article text into the reader's language through a
// waterfall of providers, fronted by the shared translation cache so each
// (article, language) pair is paid for once across all users.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/deusflow/newspulse/internal/cache"
	"github.com/deusflow/newspulse/internal/metrics"
	"github.com/deusflow/newspulse/internal/ratelimit"
	"github.com/deusflow/newspulse/internal/retry"
)

// TitleTransliterationCode is the reserved pseudo-language for headline-only
// transliteration. It shares the translations table with real language codes
// but can never collide with a full-body translation.
const TitleTransliterationCode = "ur-ro-title"

// Cache is the shared translation store. A nil-safe always-miss
// implementation is fine.
type Cache interface {
	Translation(ctx context.Context, articleID, lang string) (string, bool)
	SaveTranslation(ctx context.Context, articleID, lang, text string)
}

// TextGenerator is the primary AI provider (Gemini).
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

var prompts = map[string]string{
	"hi":    "Translate to Hindi: %q",
	"ur":    "Translate to Urdu: %q",
	"te":    "Translate to Telugu: %q",
	"ur-ro": "Transliterate to Roman Urdu: %q",
}

// googleLangs are the codes the free endpoint can serve. Transliteration is
// prompt-only and never goes through it.
var googleLangs = map[string]string{
	"hi": "hi",
	"ur": "ur",
	"te": "te",
}

type Translator struct {
	cache   Cache
	ai      TextGenerator // nil when no API key is configured
	openai  *openai.Client
	limiter *ratelimit.AIRateLimiter
	mem     *cache.Cache
	http    *http.Client
}

func New(shared Cache, ai TextGenerator, openaiKey string, limiter *ratelimit.AIRateLimiter) *Translator {
	t := &Translator{
		cache:   shared,
		ai:      ai,
		limiter: limiter,
		mem:     cache.New(),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	if openaiKey != "" {
		t.openai = openai.NewClient(openaiKey)
	}
	return t
}

// Translate returns text in the target language. On a total provider miss it
// returns the input unchanged; translation failure is never an error the
// caller sees.
func (t *Translator) Translate(ctx context.Context, text, lang, articleID string) string {
	if text == "" || lang == "" || lang == "en" {
		return text
	}
	promptFmt, ok := prompts[lang]
	if !ok && lang != TitleTransliterationCode {
		return text
	}
	if lang == TitleTransliterationCode {
		promptFmt = "Translate headline to Roman Urdu (no quotes, keep it short): %q"
	}

	cacheKey := articleID + "|" + lang
	if v, ok := t.mem.Get(cacheKey); ok {
		metrics.Global.IncrementTranslationsServed()
		return v.(string)
	}
	if articleID != "" {
		if cached, ok := t.cache.Translation(ctx, articleID, lang); ok {
			t.limiter.RecordCacheHit()
			t.mem.Set(cacheKey, cached, time.Hour)
			metrics.Global.IncrementTranslationsServed()
			return cached
		}
		t.limiter.RecordCacheMiss()
	}

	result := t.generate(ctx, text, lang, fmt.Sprintf(promptFmt, text))
	if result == "" || result == text {
		return text
	}

	result = SanitizeAIText(result)
	if articleID != "" {
		t.cache.SaveTranslation(ctx, articleID, lang, result)
	}
	t.mem.Set(cacheKey, result, time.Hour)
	metrics.Global.IncrementTranslationsServed()
	return result
}

// TransliterateTitle produces a Roman Urdu headline under the reserved
// pseudo-code, so once one user generates it everyone gets it from cache.
func (t *Translator) TransliterateTitle(ctx context.Context, title, articleID string) string {
	return t.Translate(ctx, title, TitleTransliterationCode, articleID)
}

// generate walks the provider waterfall: Gemini, the free Google endpoint,
// then OpenAI. Empty string means everything failed.
func (t *Translator) generate(ctx context.Context, text, lang, prompt string) string {
	if t.ai != nil && t.limiter.CanUseText() {
		var out string
		err := retry.WithRetry(ctx, retry.Synthesis, func() error {
			r, err := t.ai.GenerateText(ctx, prompt)
			if err == nil {
				out = strings.TrimSpace(r)
			}
			return err
		})
		t.limiter.RecordText()
		if err == nil && out != "" {
			return out
		}
		log.Printf("⚠️ Gemini translate failed for %s: %v", lang, err)
	}

	if gl, ok := googleLangs[lang]; ok {
		if out, err := t.translateWithGoogle(ctx, text, gl); err == nil && out != "" {
			log.Printf("✅ Google Translate fallback ok for %s", lang)
			return out
		}
	}

	if t.openai != nil && t.limiter.CanUseOpenAI() {
		out, err := t.translateWithOpenAI(ctx, prompt)
		t.limiter.RecordOpenAI()
		if err == nil && out != "" {
			log.Printf("✅ OpenAI fallback ok for %s", lang)
			return out
		}
		log.Printf("⚠️ OpenAI translate failed for %s: %v", lang, err)
	}

	log.Printf("⚠️ all translation providers failed for %s, using original text", lang)
	return ""
}

// translateWithGoogle calls the free web endpoint. No key needed, but the
// response shape is unofficial, so parse defensively.
func (t *Translator) translateWithGoogle(ctx context.Context, text, target string) (string, error) {
	endpoint := "https://translate.googleapis.com/translate_a/single?client=gtx&sl=auto&tl=" +
		url.QueryEscape(target) + "&dt=t&q=" + url.QueryEscape(text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	resp, err := t.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	// Response is a nested array: [[[translated, original, ...], ...], ...]
	var raw []interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("empty response")
	}
	segments, ok := raw[0].([]interface{})
	if !ok {
		return "", fmt.Errorf("unexpected response shape")
	}

	var b strings.Builder
	for _, seg := range segments {
		pair, ok := seg.([]interface{})
		if !ok || len(pair) == 0 {
			continue
		}
		if s, ok := pair[0].(string); ok {
			b.WriteString(s)
		}
	}
	return strings.TrimSpace(b.String()), nil
}

func (t *Translator) translateWithOpenAI(ctx context.Context, prompt string) (string, error) {
	resp, err := t.openai.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

var (
	inlineNoteRe   = regexp.MustCompile(`(?is)\((?:note|disclaimer)\b[^)]*\)`)
	bracketNoteRe  = regexp.MustCompile(`(?is)\[(?:note|disclaimer)\b[^\]]*\]`)
	fullLineNoteRe = regexp.MustCompile(`(?im)^\s*(?:note|disclaimer)\s*:.*$`)
	multiSpaceRe   = regexp.MustCompile(`[ \t]{2,}`)
	multiNewlineRe = regexp.MustCompile(`\n{3,}`)
)

// SanitizeAIText strips the translation disclaimers models like to attach
// ("Note: this is a machine translation...") while keeping the payload.
func SanitizeAIText(s string) string {
	s = inlineNoteRe.ReplaceAllString(s, "")
	s = bracketNoteRe.ReplaceAllString(s, "")
	s = fullLineNoteRe.ReplaceAllString(s, "")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	s = multiNewlineRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
