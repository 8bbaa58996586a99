package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var supported = []language.Tag{language.English, language.Indonesian}

// Translator renders message IDs in the locale carried by a context.
type Translator struct {
	bundle        *i18n.Bundle
	matcher       language.Matcher
	defaultLocale string
}

type ctxKey struct{}

// New loads the embedded locale files.
func New(defaultLocale string) (*Translator, error) {
	if defaultLocale == "" {
		defaultLocale = "en"
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, e.Name()); err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
	}
	slog.Debug("i18n locales loaded", "count", len(entries), "default", defaultLocale)

	return &Translator{
		bundle:        bundle,
		matcher:       language.NewMatcher(supported),
		defaultLocale: defaultLocale,
	}, nil
}

// Negotiate picks the best supported locale for an Accept-Language header.
func (t *Translator) Negotiate(acceptLanguage string) string {
	if acceptLanguage == "" {
		return t.defaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return t.defaultLocale
	}
	tag, _, confidence := t.matcher.Match(tags...)
	if confidence == language.No {
		return t.defaultLocale
	}
	base, _ := tag.Base()
	return base.String()
}

// WithLocale returns a context carrying locale.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, ctxKey{}, locale)
}

func (t *Translator) localeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
		return v
	}
	return t.defaultLocale
}

// T translates messageID. Unknown IDs are returned as-is.
func (t *Translator) T(ctx context.Context, messageID string, templateData map[string]any) string {
	l := i18n.NewLocalizer(t.bundle, t.localeFrom(ctx), t.defaultLocale)

	msg, err := l.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: templateData,
	})
	if err != nil {
		return messageID
	}
	return msg
}
