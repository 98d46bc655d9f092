package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional parameters to embed in the message (for example,
// "min", "max" or "expected"); templates reference them as {name}.
type Translator interface {
	Message(code string, data map[string]string) string
}

var dictionaries = map[string]map[string]string{
	"en": {
		"invalid_type":           "expected {expected}",
		"required":               "Required",
		"unknown_key":            "unrecognized key {key}",
		"too_small":              "must be greater than or equal to {min}",
		"too_small_excl":         "must be greater than {min}",
		"too_big":                "must be less than or equal to {max}",
		"too_big_excl":           "must be less than {max}",
		"too_short":              "must contain at least {min} character(s)",
		"too_long":               "must contain at most {max} character(s)",
		"too_few":                "must contain at least {min} item(s)",
		"too_many":               "must contain at most {max} item(s)",
		"date_too_early":         "must be on or after {min}",
		"date_too_late":          "must be on or before {max}",
		"not_integer":            "expected integer, received float",
		"not_finite":             "must be finite",
		"not_multiple_of":        "must be a multiple of {step}",
		"pattern":                "invalid format",
		"invalid_format":         "invalid {format}",
		"invalid_enum":           "invalid enum value, expected {options}",
		"custom":                 "invalid input",
		"forbidden":              "must not be set",
		"mismatch":               "must match {other}",
		"invalid_order":          "must be before {other}",
		"duplicate":              "duplicate value {key}",
		"dependency_unavailable": "required service is unavailable",
		"internal_error":         "internal error",
	},
	"ja": {
		"invalid_type":           "型が不正です（{expected} が必要です）",
		"required":               "必須項目です",
		"unknown_key":            "未知のキーです: {key}",
		"too_small":              "{min} 以上である必要があります",
		"too_small_excl":         "{min} より大きい必要があります",
		"too_big":                "{max} 以下である必要があります",
		"too_big_excl":           "{max} 未満である必要があります",
		"too_short":              "{min} 文字以上である必要があります",
		"too_long":               "{max} 文字以下である必要があります",
		"too_few":                "{min} 件以上必要です",
		"too_many":               "{max} 件以下である必要があります",
		"date_too_early":         "{min} 以降の日付である必要があります",
		"date_too_late":          "{max} 以前の日付である必要があります",
		"not_integer":            "整数である必要があります",
		"not_finite":             "有限の数値である必要があります",
		"not_multiple_of":        "{step} の倍数である必要があります",
		"pattern":                "形式が不正です",
		"invalid_format":         "{format} の形式が不正です",
		"invalid_enum":           "不正な値です（{options} のいずれか）",
		"custom":                 "入力が不正です",
		"forbidden":              "入力できません",
		"mismatch":               "{other} と一致する必要があります",
		"invalid_order":          "{other} より前である必要があります",
		"duplicate":              "値が重複しています: {key}",
		"dependency_unavailable": "必要なサービスが利用できません",
		"internal_error":         "内部エラー",
	},
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	tpl, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	return Interpolate(tpl, data)
}

// Interpolate replaces {name} placeholders with values from data. Unknown
// placeholders are left as-is.
func Interpolate(tpl string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(tpl, "{") {
		return tpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

var (
	mu                sync.RWMutex
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
