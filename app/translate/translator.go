// Package translate turns item text into the channel language through an
// ordered chain of translation services, falling back to the original text.
package translate

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	cache "github.com/go-pkgz/expirable-cache/v2"
	"golang.org/x/text/language"
)

// ErrNoTranslation is returned by a provider that answered without any text.
var ErrNoTranslation = errors.New("empty translation")

// Translator is a single translation service.
type Translator interface {
	Name() string
	Translate(ctx context.Context, text, target string) (string, error)
}

// Chain tries translators in order until one returns a non-empty result.
type Chain struct {
	translators []Translator
	timeout     time.Duration
	cache       cache.Cache[string, string]
	logger      *slog.Logger
}

func NewChain(logger *slog.Logger, timeout time.Duration, translators ...Translator) *Chain {
	return &Chain{
		translators: translators,
		timeout:     timeout,
		cache:       cache.NewCache[string, string]().WithTTL(time.Hour).WithMaxKeys(500),
		logger:      logger,
	}
}

// Names lists the providers in the order they are tried.
func (c *Chain) Names() []string {
	names := make([]string, 0, len(c.translators))
	for _, t := range c.translators {
		names = append(names, t.Name())
	}
	return names
}

// Translate never fails: when every provider fails the original text is returned.
func (c *Chain) Translate(ctx context.Context, text, target string) string {
	if strings.TrimSpace(text) == "" || target == "" {
		return text
	}

	key := target + "\x00" + text
	if cached, ok := c.cache.Get(key); ok {
		return cached
	}

	for _, t := range c.translators {
		result, err := c.try(ctx, t, text, target)
		if err != nil {
			c.logger.Warn("Translation failed", "provider", t.Name(), "target", target, "error", err)
			continue
		}
		if _, fallback := t.(Identity); !fallback {
			c.cache.Set(key, result, 0)
		}
		return result
	}

	return text
}

func (c *Chain) try(ctx context.Context, t Translator, text, target string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := t.Translate(callCtx, text, target)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(result) == "" {
		return "", ErrNoTranslation
	}
	return result, nil
}

// Identity returns the text unchanged. It terminates every chain.
type Identity struct{}

func (Identity) Name() string { return "identity" }

func (Identity) Translate(_ context.Context, text, _ string) (string, error) {
	return text, nil
}

// baseLanguage reduces a BCP 47 tag such as "th-TH" to the code most
// services expect ("th"). Unparseable input is returned unchanged.
func baseLanguage(target string) string {
	tag, err := language.Parse(target)
	if err != nil {
		return target
	}
	base, _ := tag.Base()
	return base.String()
}
