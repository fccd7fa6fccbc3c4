// Package i18n resolves user-facing strings, including phase labels, for a locale.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sync"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"zenbox/internal/core/breath"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// DefaultLocale is used when a locale is empty or unsupported.
const DefaultLocale = "en"

var (
	bundleOnce sync.Once
	bundle     *goi18n.Bundle
	bundleErr  error
	matcher    language.Matcher
)

func loadBundle() (*goi18n.Bundle, error) {
	bundleOnce.Do(func() {
		bundle = goi18n.NewBundle(language.English)
		bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

		entries, err := fs.ReadDir(localeFS, "locales")
		if err != nil {
			bundleErr = fmt.Errorf("read locales: %w", err)
			return
		}
		for _, entry := range entries {
			if _, err := bundle.LoadMessageFileFS(localeFS, path.Join("locales", entry.Name())); err != nil {
				bundleErr = fmt.Errorf("load locale %s: %w", entry.Name(), err)
				return
			}
		}
		matcher = language.NewMatcher(bundle.LanguageTags())
	})
	return bundle, bundleErr
}

// Supported returns the locale tags that have message catalogs.
func Supported() []string {
	b, err := loadBundle()
	if err != nil {
		return []string{DefaultLocale}
	}
	tags := b.LanguageTags()
	locales := make([]string, 0, len(tags))
	for _, tag := range tags {
		locales = append(locales, tag.String())
	}
	return locales
}

// Translator looks up messages for one locale.
type Translator struct {
	localizer *goi18n.Localizer
	tag       language.Tag
}

// New returns a Translator for the closest supported match of locale.
func New(locale string) (*Translator, error) {
	b, err := loadBundle()
	if err != nil {
		return nil, err
	}
	if locale == "" {
		locale = DefaultLocale
	}
	requested, err := language.Parse(locale)
	if err != nil {
		requested = language.English
	}
	_, index, confidence := matcher.Match(requested)
	tag := language.English
	if confidence != language.No {
		tag = b.LanguageTags()[index]
	}
	return &Translator{
		localizer: goi18n.NewLocalizer(b, tag.String()),
		tag:       tag,
	}, nil
}

// MustNew is like New but panics if the embedded catalogs are broken.
func MustNew(locale string) *Translator {
	translator, err := New(locale)
	if err != nil {
		panic(err)
	}
	return translator
}

// Locale returns the resolved locale tag.
func (translator *Translator) Locale() string {
	return translator.tag.String()
}

// T returns the message for id. Unknown ids are returned unchanged.
func (translator *Translator) T(id string, data ...map[string]any) string {
	config := &goi18n.LocalizeConfig{MessageID: id}
	if len(data) > 0 {
		config.TemplateData = data[0]
	}
	message, err := translator.localizer.Localize(config)
	if err != nil {
		return id
	}
	return message
}

// Labels returns the phase labels for the timer.
func (translator *Translator) Labels() breath.Labels {
	return breath.Labels{
		Inhale: translator.T("phase_inhale"),
		Hold:   translator.T("phase_hold"),
		Exhale: translator.T("phase_exhale"),
		Ready:  translator.T("ready"),
	}
}

// CycleCounter formats "Cycle n of total".
func (translator *Translator) CycleCounter(cycle, total int) string {
	return translator.T("cycle_counter", map[string]any{"Cycle": cycle, "Total": total})
}

// Completed formats the end-of-session message.
func (translator *Translator) Completed(cycles int) string {
	return translator.T("completed", map[string]any{"Cycles": cycles})
}
