package i18n

import (
	"golang.org/x/text/language"
)

// DefaultLanguage is used when no language is detected or matched.
const DefaultLanguage = "en"

// Translator resolves message keys (panel API response codes, UI labels) into
// localized strings. Translations are loaded once at construction and are
// immutable afterwards, so lookups are safe for concurrent use.
type Translator struct {
	translations map[string]map[string]string // lang -> key -> message
	defaultLang  string
	matcher      language.Matcher
	tags         []language.Tag
	langs        []string
}

// Option configures a Translator instance.
type Option func(*Translator)

// WithDefaultLanguage overrides the fallback language. The language must be
// present in the loaded translations, otherwise NewTranslator returns
// ErrDefaultLanguageMissing.
func WithDefaultLanguage(lang string) Option {
	return func(t *Translator) {
		if lang != "" {
			t.defaultLang = lang
		}
	}
}

// NewTranslator creates a Translator from the given source.
func NewTranslator(src Source, opts ...Option) (*Translator, error) {
	if src == nil {
		return nil, ErrNilSource
	}

	translations, err := src.Load()
	if err != nil {
		return nil, err
	}
	if len(translations) == 0 {
		return nil, ErrNoTranslations
	}

	t := &Translator{
		translations: translations,
		defaultLang:  DefaultLanguage,
	}
	for _, opt := range opts {
		opt(t)
	}

	if _, ok := t.translations[t.defaultLang]; !ok {
		return nil, ErrDefaultLanguageMissing
	}

	// The default language goes first so matcher ties resolve to it.
	t.langs = append(t.langs, t.defaultLang)
	for lang := range t.translations {
		if lang == t.defaultLang {
			continue
		}
		t.langs = append(t.langs, lang)
	}
	for _, lang := range t.langs {
		tag, err := language.Parse(lang)
		if err != nil {
			return nil, ErrInvalidLanguageCode
		}
		t.tags = append(t.tags, tag)
	}
	t.matcher = language.NewMatcher(t.tags)

	return t, nil
}

// T returns the message for key in the given language. The language falls back
// to the default language; a key missing in both returns ("", false) so callers
// can apply their own fallback (e.g. a server-supplied message).
func (t *Translator) T(lang, key string) (string, bool) {
	if msgs, ok := t.translations[lang]; ok {
		if msg, ok := msgs[key]; ok {
			return msg, true
		}
	}
	if lang != t.defaultLang {
		if msg, ok := t.translations[t.defaultLang][key]; ok {
			return msg, true
		}
	}
	return "", false
}

// MatchLanguage resolves an Accept-Language style preference list to the best
// supported language code. Unknown or empty input resolves to the default.
func (t *Translator) MatchLanguage(accept string) string {
	if accept == "" {
		return t.defaultLang
	}
	prefs, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(prefs) == 0 {
		return t.defaultLang
	}
	_, idx, conf := t.matcher.Match(prefs...)
	if conf == language.No {
		return t.defaultLang
	}
	return t.langs[idx]
}

// Languages returns the supported language codes, default language first.
func (t *Translator) Languages() []string {
	out := make([]string, len(t.langs))
	copy(out, t.langs)
	return out
}
