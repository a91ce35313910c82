package i18n

import (
	"encoding/json"
	"errors"

	"gopkg.in/yaml.v3"
)

// Source loads translations as lang -> key -> message.
type Source interface {
	Load() (map[string]map[string]string, error)
}

// MapSource serves a static translations map, useful for tests and embedded
// defaults.
type MapSource map[string]map[string]string

func (s MapSource) Load() (map[string]map[string]string, error) {
	return s, nil
}

// JSONSource parses translations from JSON bytes shaped as
// {"en": {"40001": "Invalid coupon"}, "de": {...}}.
type JSONSource []byte

func (s JSONSource) Load() (map[string]map[string]string, error) {
	var out map[string]map[string]string
	if err := json.Unmarshal(s, &out); err != nil {
		return nil, errors.Join(ErrParseTranslations, err)
	}
	return out, nil
}

// YAMLSource parses translations from YAML bytes with the same shape as
// JSONSource.
type YAMLSource []byte

func (s YAMLSource) Load() (map[string]map[string]string, error) {
	var out map[string]map[string]string
	if err := yaml.Unmarshal(s, &out); err != nil {
		return nil, errors.Join(ErrParseTranslations, err)
	}
	return out, nil
}
