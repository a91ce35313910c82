// Package i18n resolves panel API response codes and UI labels into localized
// messages.
//
// The transport layer uses a Translator to build user-facing notifications: a
// response code is first looked up in the active language, then in the default
// language; if both miss, the caller falls back to the server-supplied message
// and finally to a generic one.
//
// Translations are loaded once from a Source (static map, JSON, or YAML) and are
// immutable afterwards. Language negotiation uses golang.org/x/text matching
// against the loaded language set.
//
// Usage:
//
//	tr, err := i18n.NewTranslator(i18n.JSONSource(raw))
//	if err != nil {
//		// handle error
//	}
//
//	lang := tr.MatchLanguage("de-AT,de;q=0.9,en;q=0.5")
//	msg, ok := tr.T(lang, "40001")
package i18n
