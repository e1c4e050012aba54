package translate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"
)

type fakeTranslator struct {
	name   string
	result string
	err    error
	delay  time.Duration
	calls  int
}

func (f *fakeTranslator) Name() string { return f.name }

func (f *fakeTranslator) Translate(ctx context.Context, text, target string) (string, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.result, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestChainUsesFirstSuccess(t *testing.T) {
	primary := &fakeTranslator{name: "primary", result: "primary result"}
	secondary := &fakeTranslator{name: "secondary", result: "secondary result"}

	chain := NewChain(testLogger(), time.Second, primary, secondary, Identity{})

	if got := chain.Translate(context.Background(), "hello", "th"); got != "primary result" {
		t.Errorf("Expected primary result, got '%s'", got)
	}
	if secondary.calls != 0 {
		t.Errorf("Expected secondary not to be called, got %d calls", secondary.calls)
	}
}

func TestChainFallsThrough(t *testing.T) {
	failing := &fakeTranslator{name: "failing", err: errors.New("boom")}
	empty := &fakeTranslator{name: "empty", result: "   "}
	working := &fakeTranslator{name: "working", result: "translated"}

	chain := NewChain(testLogger(), time.Second, failing, empty, working, Identity{})

	if got := chain.Translate(context.Background(), "hello", "th"); got != "translated" {
		t.Errorf("Expected third provider result, got '%s'", got)
	}
	if failing.calls != 1 || empty.calls != 1 || working.calls != 1 {
		t.Errorf("Expected each provider to be tried once, got %d, %d, %d", failing.calls, empty.calls, working.calls)
	}
}

func TestChainReturnsOriginalWhenAllFail(t *testing.T) {
	first := &fakeTranslator{name: "first", err: errors.New("down")}
	second := &fakeTranslator{name: "second", err: ErrNoTranslation}

	withIdentity := NewChain(testLogger(), time.Second, first, second, Identity{})
	if got := withIdentity.Translate(context.Background(), "original", "th"); got != "original" {
		t.Errorf("Expected original text, got '%s'", got)
	}

	withoutIdentity := NewChain(testLogger(), time.Second, first, second)
	if got := withoutIdentity.Translate(context.Background(), "original", "th"); got != "original" {
		t.Errorf("Expected original text without identity provider, got '%s'", got)
	}
}

func TestChainTimeoutPerProvider(t *testing.T) {
	slow := &fakeTranslator{name: "slow", result: "too late", delay: time.Second}
	fast := &fakeTranslator{name: "fast", result: "fast result"}

	chain := NewChain(testLogger(), 20*time.Millisecond, slow, fast)

	if got := chain.Translate(context.Background(), "hello", "th"); got != "fast result" {
		t.Errorf("Expected fast provider after timeout, got '%s'", got)
	}
}

func TestChainSkipsEmptyInput(t *testing.T) {
	provider := &fakeTranslator{name: "p", result: "x"}
	chain := NewChain(testLogger(), time.Second, provider)

	if got := chain.Translate(context.Background(), "  ", "th"); got != "  " {
		t.Errorf("Expected blank text unchanged, got '%s'", got)
	}
	if got := chain.Translate(context.Background(), "hello", ""); got != "hello" {
		t.Errorf("Expected text unchanged without target, got '%s'", got)
	}
	if provider.calls != 0 {
		t.Errorf("Expected no provider calls, got %d", provider.calls)
	}
}

func TestChainMemoizes(t *testing.T) {
	provider := &fakeTranslator{name: "p", result: "x"}
	chain := NewChain(testLogger(), time.Second, provider)

	chain.Translate(context.Background(), "hello", "th")
	chain.Translate(context.Background(), "hello", "th")
	chain.Translate(context.Background(), "hello", "en")

	if provider.calls != 2 {
		t.Errorf("Expected 2 calls (one per target), got %d", provider.calls)
	}
}

func TestChainDoesNotMemoizeFallback(t *testing.T) {
	provider := &fakeTranslator{name: "p", err: errors.New("unavailable")}
	chain := NewChain(testLogger(), time.Second, provider, Identity{})

	if got := chain.Translate(context.Background(), "hello", "th"); got != "hello" {
		t.Errorf("Expected original text while provider is down, got '%s'", got)
	}

	provider.err = nil
	provider.result = "สวัสดี"

	if got := chain.Translate(context.Background(), "hello", "th"); got != "สวัสดี" {
		t.Errorf("Expected translation after provider recovered, got '%s'", got)
	}
	if provider.calls != 2 {
		t.Errorf("Expected provider to be retried, got %d calls", provider.calls)
	}
}

func TestChainNames(t *testing.T) {
	chain := NewChain(testLogger(), time.Second, &fakeTranslator{name: "a"}, Identity{})
	if got := chain.Names(); !reflect.DeepEqual(got, []string{"a", "identity"}) {
		t.Errorf("Expected [a identity], got %v", got)
	}
}

func TestBaseLanguage(t *testing.T) {
	tests := map[string]string{
		"th-TH": "th",
		"en":    "en",
		"zh-CN": "zh",
		"??":    "??",
	}
	for input, expected := range tests {
		if got := baseLanguage(input); got != expected {
			t.Errorf("baseLanguage(%q) = %q, expected %q", input, got, expected)
		}
	}
}
