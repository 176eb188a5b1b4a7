// Package i18n loads the embedded message catalogs and translates message
// IDs for a requested language.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

type Translator struct {
	bundle   *i18n.Bundle
	matcher  language.Matcher
	tags     []language.Tag
	fallback string
}

// New parses every embedded locale file. fallback is used when a request
// names no supported language.
func New(fallback string) (*Translator, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + f.Name())
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", f.Name(), err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, f.Name()); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", f.Name(), err)
		}
	}

	tags := bundle.LanguageTags()
	if fallback == "" {
		fallback = "en"
	}

	return &Translator{
		bundle:   bundle,
		matcher:  language.NewMatcher(tags),
		tags:     tags,
		fallback: fallback,
	}, nil
}

// Match picks the best supported language for the given preferences,
// e.g. a ?lang= value followed by an Accept-Language header.
func (t *Translator) Match(prefs ...string) string {
	var desired []language.Tag
	for _, p := range prefs {
		if p == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		desired = append(desired, tags...)
	}
	if len(desired) == 0 {
		return t.fallback
	}

	_, idx, conf := t.matcher.Match(desired...)
	if conf == language.No || idx < 0 || idx >= len(t.tags) {
		return t.fallback
	}
	base, _ := t.tags[idx].Base()
	return base.String()
}

func (t *Translator) Fallback() string { return t.fallback }

// T translates messageID. Unknown IDs come back unchanged.
func (t *Translator) T(lang, messageID string) string {
	return t.Tf(lang, messageID, nil)
}

func (t *Translator) Tf(lang, messageID string, data map[string]any) string {
	localizer := i18n.NewLocalizer(t.bundle, lang, t.fallback)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID
	}
	return msg
}
