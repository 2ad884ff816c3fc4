// Package i18n translates UI strings and picks the request language.
package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

type localizerKey struct{}
type langKey struct{}

var (
	bundle  *i18n.Bundle
	matcher language.Matcher
	tags    []language.Tag
)

// Init loads every embedded locale. lang is the fallback language.
func Init(lang string) error {
	def, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("parse language %q: %w", lang, err)
	}

	b := i18n.NewBundle(def)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return fmt.Errorf("read locales dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile(path.Join("locales", e.Name()))
		if err != nil {
			return fmt.Errorf("read locale file %s: %w", e.Name(), err)
		}
		if _, err := b.ParseMessageFileBytes(data, e.Name()); err != nil {
			return fmt.Errorf("parse locale file %s: %w", e.Name(), err)
		}
		slog.Debug("loaded locale file", "file", e.Name())
	}

	// The default goes first so the matcher falls back to it.
	supported := []language.Tag{def}
	for _, t := range b.LanguageTags() {
		if t != def {
			supported = append(supported, t)
		}
	}
	bundle, tags, matcher = b, supported, language.NewMatcher(supported)
	return nil
}

// Languages returns the supported language tags, default first.
func Languages() []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.String())
	}
	return out
}

// Match picks the best supported language for the given preferences, such
// as a cookie value followed by an Accept-Language header.
func Match(prefs ...string) string {
	if matcher == nil {
		return "en"
	}
	_, idx := language.MatchStrings(matcher, prefs...)
	return tags[idx].String()
}

// NewLocalizer creates a localizer for the given language.
func NewLocalizer(lang string) *i18n.Localizer {
	return i18n.NewLocalizer(bundle, lang)
}

// WithLanguage stores the request language and its localizer in ctx.
func WithLanguage(ctx context.Context, lang string) context.Context {
	ctx = context.WithValue(ctx, langKey{}, lang)
	return context.WithValue(ctx, localizerKey{}, NewLocalizer(lang))
}

// Lang returns the request language, or the default.
func Lang(ctx context.Context) string {
	if l, ok := ctx.Value(langKey{}).(string); ok {
		return l
	}
	if len(tags) > 0 {
		return tags[0].String()
	}
	return "en"
}

func localizer(ctx context.Context) *i18n.Localizer {
	if loc, ok := ctx.Value(localizerKey{}).(*i18n.Localizer); ok {
		return loc
	}
	return i18n.NewLocalizer(bundle, Lang(ctx))
}

func localize(ctx context.Context, cfg *i18n.LocalizeConfig) string {
	s, err := localizer(ctx).Localize(cfg)
	if err != nil {
		slog.Warn("missing translation", "id", cfg.MessageID, "error", err)
		return cfg.MessageID
	}
	return s
}

// T translates a message by ID.
func T(ctx context.Context, msgID string) string {
	return localize(ctx, &i18n.LocalizeConfig{MessageID: msgID})
}

// Td translates a message by ID with template data.
func Td(ctx context.Context, msgID string, data map[string]any) string {
	return localize(ctx, &i18n.LocalizeConfig{MessageID: msgID, TemplateData: data})
}

// Tp translates a pluralized message; the count is available as .Count.
func Tp(ctx context.Context, msgID string, count int) string {
	return localize(ctx, &i18n.LocalizeConfig{
		MessageID:    msgID,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
}
