package i18n

import "errors"

var (
	ErrNilSource              = errors.New("i18n source is nil")
	ErrNoTranslations         = errors.New("no translations loaded")
	ErrDefaultLanguageMissing = errors.New("default language missing from translations")
	ErrInvalidLanguageCode    = errors.New("invalid language code in translations")
	ErrParseTranslations      = errors.New("failed to parse translations")
)
