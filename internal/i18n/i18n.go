// Package i18n translates the dialog strings.
package i18n

import (
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. The English text doubles as the key.
const (
	Title        = "Power Off"
	PowerOffHint = "Power off - press \"%s\""
	CancelHint   = "Cancel - press \"%s\""
	PoweringOff  = "Powering off..."
	HelpShutdown = "power off"
	HelpClose    = "cancel"
	HelpQuit     = "quit daemon"
)

var supported = []language.Tag{
	language.English,
	language.German,
	language.French,
	language.Russian,
}

var translations = map[language.Tag]map[string]string{
	language.German: {
		Title:        "Ausschalten",
		PowerOffHint: "Ausschalten - \"%s\" drücken",
		CancelHint:   "Abbrechen - \"%s\" drücken",
		PoweringOff:  "Wird ausgeschaltet...",
		HelpShutdown: "ausschalten",
		HelpClose:    "abbrechen",
		HelpQuit:     "Dienst beenden",
	},
	language.French: {
		Title:        "Éteindre",
		PowerOffHint: "Éteindre - appuyez sur \"%s\"",
		CancelHint:   "Annuler - appuyez sur \"%s\"",
		PoweringOff:  "Extinction...",
		HelpShutdown: "éteindre",
		HelpClose:    "annuler",
		HelpQuit:     "quitter le service",
	},
	language.Russian: {
		Title:        "Выключение",
		PowerOffHint: "Выключить - нажмите \"%s\"",
		CancelHint:   "Отмена - нажмите \"%s\"",
		PoweringOff:  "Выключение...",
		HelpShutdown: "выключить",
		HelpClose:    "отмена",
		HelpQuit:     "завершить службу",
	},
}

var (
	cat     = buildCatalog()
	matcher = language.NewMatcher(supported)
)

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			// keys are constants, SetString only fails on malformed messages
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Printer formats dialog strings for one language
type Printer struct {
	tag language.Tag
	p   *message.Printer
}

// New returns a printer for the closest supported match of lang.
// An empty or unknown lang falls back to English.
func New(lang string) *Printer {
	tag := Match(lang)
	return &Printer{tag: tag, p: message.NewPrinter(tag, message.Catalog(cat))}
}

// FromEnv picks the language from LC_ALL, LC_MESSAGES or LANG, in that order
func FromEnv() *Printer {
	return New(EnvLocale())
}

// EnvLocale returns the first non-empty locale variable
func EnvLocale() string {
	for _, v := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if s := os.Getenv(v); s != "" {
			return s
		}
	}
	return ""
}

// Match maps a POSIX locale such as de_DE.UTF-8 to a supported tag
func Match(locale string) language.Tag {
	locale = normalize(locale)
	if locale == "" {
		return language.English
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.English
	}
	return supported[idx]
}

func normalize(locale string) string {
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	if locale == "C" || locale == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(locale, "_", "-")
}

// Tag returns the language the printer translates to
func (p *Printer) Tag() language.Tag {
	return p.tag
}

// Sprintf translates key and formats it with args
func (p *Printer) Sprintf(key string, args ...any) string {
	return p.p.Sprintf(key, args...)
}
