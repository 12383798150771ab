// internal/i18n/i18n.go
package i18n

import (
	"fmt"
	"sync"
)

type I18n struct {
	mu           sync.RWMutex
	translations map[string]map[string]string
	defaultLang  string
}

var instance *I18n
var once sync.Once

func Initialize() error {
	once.Do(func() {
		instance = &I18n{
			translations: map[string]map[string]string{
				"en": en,
				"sw": sw,
			},
			defaultLang: "en",
		}
	})
	return nil
}

func (i *I18n) T(lang, key string, args ...interface{}) string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	// Try to get translation for requested language
	if translations, exists := i.translations[lang]; exists {
		if text, exists := translations[key]; exists {
			if len(args) > 0 {
				return fmt.Sprintf(text, args...)
			}
			return text
		}
	}

	// Fallback to default language
	if lang != i.defaultLang {
		if translations, exists := i.translations[i.defaultLang]; exists {
			if text, exists := translations[key]; exists {
				if len(args) > 0 {
					return fmt.Sprintf(text, args...)
				}
				return text
			}
		}
	}

	// Last resort: return the key itself
	return key
}

func T(lang, key string, args ...interface{}) string {
	if instance == nil {
		Initialize()
	}
	return instance.T(lang, key, args...)
}
