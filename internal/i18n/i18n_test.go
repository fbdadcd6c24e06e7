package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		locale string
		want   language.Tag
	}{
		{"", language.English},
		{"C", language.English},
		{"POSIX", language.English},
		{"en_US.UTF-8", language.English},
		{"de_DE.UTF-8", language.German},
		{"de_AT", language.German},
		{"fr_CA.UTF-8@euro", language.French},
		{"ru_RU.KOI8-R", language.Russian},
		{"ja_JP.UTF-8", language.English},
		{"not a locale", language.English},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			if got := Match(tt.locale); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.locale, got, tt.want)
			}
		})
	}
}

func TestPrinter_Sprintf(t *testing.T) {
	tests := []struct {
		locale string
		key    string
		args   []any
		want   string
	}{
		{"en_US", Title, nil, "Power Off"},
		{"en_US", PowerOffHint, []any{"enter"}, `Power off - press "enter"`},
		{"de_DE", Title, nil, "Ausschalten"},
		{"de_DE", CancelHint, []any{"c"}, `Abbrechen - "c" drücken`},
		{"fr_FR", Title, nil, "Éteindre"},
		{"ru_RU", PowerOffHint, []any{"enter"}, `Выключить - нажмите "enter"`},
		{"ja_JP", CancelHint, []any{"esc"}, `Cancel - press "esc"`},
	}

	for _, tt := range tests {
		t.Run(tt.locale+"/"+tt.key, func(t *testing.T) {
			if got := New(tt.locale).Sprintf(tt.key, tt.args...); got != tt.want {
				t.Errorf("Sprintf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEnvLocale(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "fr_FR.UTF-8")
	t.Setenv("LANG", "de_DE.UTF-8")

	if got := EnvLocale(); got != "fr_FR.UTF-8" {
		t.Errorf("EnvLocale() = %q, want LC_MESSAGES", got)
	}

	t.Setenv("LC_ALL", "ru_RU.UTF-8")
	if got := FromEnv().Tag(); got != language.Russian {
		t.Errorf("FromEnv().Tag() = %v, want ru", got)
	}
}

func TestTranslationsComplete(t *testing.T) {
	keys := []string{Title, PowerOffHint, CancelHint, PoweringOff, HelpShutdown, HelpClose, HelpQuit}
	for tag, msgs := range translations {
		for _, k := range keys {
			if _, ok := msgs[k]; !ok {
				t.Errorf("%v is missing %q", tag, k)
			}
		}
	}
}
