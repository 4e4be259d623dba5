package i18n

import "sync"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "scope" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "empty_key":
			if data["scope"] == "nested" {
				return "ネストされたフィールド名は必須です"
			}
			return "フィールド名は必須です"
		case "empty_nested":
			return "ネストされたフィールドには子フィールドが1つ以上必要です"
		case "duplicate_key":
			return "キーが重複しています"
		case "depth_exceeded":
			if data["limit"] != "" {
				return "ネストが深すぎます(上限 " + data["limit"] + ")"
			}
			return "ネストが深すぎます"
		}
	default: // "en"
		switch code {
		case "empty_key":
			if data["scope"] == "nested" {
				return "nested field name is required"
			}
			return "root field name is required"
		case "empty_nested":
			return "nested field must have at least one child field"
		case "duplicate_key":
			return "duplicate key"
		case "depth_exceeded":
			if data["limit"] != "" {
				return "nesting too deep (limit " + data["limit"] + ")"
			}
			return "nesting too deep"
		}
	}
	return code
}

var (
	mu                           = sync.RWMutex{}
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
