package translate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/deusflow/newspulse/internal/metrics"
	"github.com/deusflow/newspulse/internal/ratelimit"
)

type fakeCache struct {
	items map[string]string
	saves int
}

func (f *fakeCache) key(id, lang string) string { return id + "|" + lang }

func (f *fakeCache) Translation(_ context.Context, id, lang string) (string, bool) {
	v, ok := f.items[f.key(id, lang)]
	return v, ok
}

func (f *fakeCache) SaveTranslation(_ context.Context, id, lang, text string) {
	if f.items == nil {
		f.items = make(map[string]string)
	}
	f.items[f.key(id, lang)] = text
	f.saves++
}

type fakeAI struct {
	out   string
	err   error
	calls int
}

func (f *fakeAI) GenerateText(context.Context, string) (string, error) {
	f.calls++
	return f.out, f.err
}

func newTestTranslator(c Cache, ai TextGenerator) *Translator {
	return New(c, ai, "", ratelimit.New(0, 0, 0, 0))
}

func TestTranslateCountsServedTranslations(t *testing.T) {
	c := &fakeCache{items: map[string]string{"art-7|hi": "गिनती"}}
	tr := newTestTranslator(c, &fakeAI{})

	before := metrics.Global.GetStats()["translations_served"].(int64)
	tr.Translate(context.Background(), "counted", "hi", "art-7")
	after := metrics.Global.GetStats()["translations_served"].(int64)

	if after != before+1 {
		t.Errorf("translations_served went %d -> %d, want +1", before, after)
	}

	// Passthrough on an unsupported language serves nothing.
	before = after
	tr.Translate(context.Background(), "counted", "xx", "art-7")
	after = metrics.Global.GetStats()["translations_served"].(int64)
	if after != before {
		t.Errorf("passthrough must not count as served, went %d -> %d", before, after)
	}
}

func TestTranslateServesFromSharedCache(t *testing.T) {
	ai := &fakeAI{out: "should not be used"}
	c := &fakeCache{items: map[string]string{"art-1|hi": "कैश से"}}
	tr := newTestTranslator(c, ai)

	got := tr.Translate(context.Background(), "from cache", "hi", "art-1")
	if got != "कैश से" {
		t.Errorf("expected cached translation, got %q", got)
	}
	if ai.calls != 0 {
		t.Errorf("AI must not be invoked on a cache hit, got %d calls", ai.calls)
	}
}

func TestTranslateWritesThroughOnMiss(t *testing.T) {
	ai := &fakeAI{out: "अनुवाद"}
	c := &fakeCache{}
	tr := newTestTranslator(c, ai)

	got := tr.Translate(context.Background(), "hello", "hi", "art-2")
	if got != "अनुवाद" {
		t.Errorf("got %q", got)
	}
	if c.saves != 1 {
		t.Errorf("expected one cache write, got %d", c.saves)
	}
}

func TestTranslatePassthroughWhenAllProvidersFail(t *testing.T) {
	ai := &fakeAI{err: errors.New("quota exhausted")}
	tr := New(&fakeCache{}, ai, "", ratelimit.New(0, 0, 0, 0))
	// Telugu is also served by the free endpoint, but there is no network in
	// tests; transliteration has no free-endpoint tier at all.
	got := tr.Translate(context.Background(), "headline text", TitleTransliterationCode, "art-3")
	if got != "headline text" {
		t.Errorf("expected untranslated passthrough, got %q", got)
	}
}

func TestTranslateWithoutAIKeyIsPassthrough(t *testing.T) {
	tr := newTestTranslator(&fakeCache{}, nil)
	if got := tr.Translate(context.Background(), "plain", TitleTransliterationCode, "art-4"); got != "plain" {
		t.Errorf("expected passthrough without AI, got %q", got)
	}
}

func TestTranslateUnknownLanguageIsPassthrough(t *testing.T) {
	ai := &fakeAI{out: "nope"}
	tr := newTestTranslator(&fakeCache{}, ai)
	if got := tr.Translate(context.Background(), "text", "fr", "art-5"); got != "text" {
		t.Errorf("unsupported language must pass through, got %q", got)
	}
	if ai.calls != 0 {
		t.Error("AI must not run for unsupported languages")
	}
}

func TestTransliterateTitleUsesReservedCode(t *testing.T) {
	ai := &fakeAI{out: "sheher mein barish"}
	c := &fakeCache{}
	tr := newTestTranslator(c, ai)

	got := tr.TransliterateTitle(context.Background(), "شہر میں بارش", "art-6")
	if got != "sheher mein barish" {
		t.Errorf("got %q", got)
	}
	if _, ok := c.items["art-6|"+TitleTransliterationCode]; !ok {
		t.Errorf("title transliteration must be cached under %q, cache: %v", TitleTransliterationCode, c.items)
	}
	if _, ok := c.items["art-6|ur-ro"]; ok {
		t.Error("title transliteration must not collide with full-body ur-ro")
	}
}

func TestSanitizeAIText(t *testing.T) {
	in := "Pehli baat.\n(Note: This translation is a machine translation and may contain errors.) Doosri baat."
	out := SanitizeAIText(in)
	if strings.Contains(strings.ToLower(out), "note:") {
		t.Errorf("disclaimer survived: %q", out)
	}
	if !strings.Contains(out, "Doosri baat.") {
		t.Errorf("payload after disclaimer lost: %q", out)
	}

	out = SanitizeAIText("Note: machine translation.\nAsal matn yahan hai.")
	if strings.Contains(strings.ToLower(out), "note") {
		t.Errorf("full-line disclaimer survived: %q", out)
	}

	out = SanitizeAIText("[Note: machine output] Matn.")
	if !strings.HasPrefix(out, "Matn") {
		t.Errorf("bracketed disclaimer not removed: %q", out)
	}
}
