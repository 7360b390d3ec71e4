package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Keys for display strings that are not issue codes.
const (
	KeyUnresolved  = "unresolved"
	KeyNotAnswered = "not_answered"
)

// Translator retrieves localized messages for Issue codes and display keys.
// data provides optional metadata to embed in the message (for example,
// "field" or "max"); the built-in dictionaries name it as {field} or {max}.
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		KeyUnresolved:          "—",
		KeyNotAnswered:         "not answered",
		"required":             "required attribute missing",
		"duplicate_id":         "id is already used",
		"unknown_type":         "unknown field type",
		"unknown_operation":    "unknown operation",
		"unknown_operator":     "unknown operator",
		"unknown_layout":       "unknown layout",
		"invalid_slot":         "slot not allowed by the layout",
		"missing_slot":         "required slot is empty",
		"invalid_reference":    "invalid reference",
		"unresolved_reference": "reference does not resolve",
		"invalid_range":        "invalid range",
		"invalid_anchor":       "anchor outside the scale",
		"invalid_predicate":    "invalid condition",
		"invalid_version":      "invalid version",
		"cycle":                "dependency cycle",
		"invalid_type":         "invalid type",
		"unknown_field":        "unknown field",
		"unknown_key":          "unknown key",
		"read_only":            "field is read-only",
		"invalid_enum":         "not one of the options",
		"invalid_format":       "invalid format",
		"out_of_range":         "out of range",
		"too_few":              "too few items",
		"too_many":             "too many items",
		"index_out_of_range":   "no such item",
		"unanswered":           "{field}: this question needs an answer",
		"duplicate_key":        "duplicate key",
		"parse_error":          "parse error",
	},
	"ja": {
		KeyUnresolved:          "—",
		KeyNotAnswered:         "未回答",
		"required":             "必須属性が不足しています",
		"duplicate_id":         "IDが重複しています",
		"unknown_type":         "未知のフィールド型です",
		"unknown_operation":    "未知の演算です",
		"unknown_operator":     "未知の演算子です",
		"unknown_layout":       "未知のレイアウトです",
		"invalid_slot":         "レイアウトで許可されていないスロットです",
		"missing_slot":         "必須スロットが空です",
		"invalid_reference":    "参照が不正です",
		"unresolved_reference": "参照先が存在しません",
		"invalid_range":        "範囲が不正です",
		"invalid_anchor":       "アンカーが尺度の範囲外です",
		"invalid_predicate":    "表示条件が不正です",
		"invalid_version":      "バージョンが不正です",
		"cycle":                "依存関係が循環しています",
		"invalid_type":         "型が不正です",
		"unknown_field":        "未知のフィールドです",
		"unknown_key":          "未知のキーです",
		"read_only":            "読み取り専用のフィールドです",
		"invalid_enum":         "選択肢にありません",
		"invalid_format":       "形式が不正です",
		"out_of_range":         "範囲外です",
		"too_few":              "項目が少なすぎます",
		"too_many":             "項目が多すぎます",
		"index_out_of_range":   "指定された項目はありません",
		"unanswered":           "{field}: 回答が必要です",
		"duplicate_key":        "キーが重複しています",
		"parse_error":          "解析エラー",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 {
		return msg
	}
	pairs := make([]string, 0, 2*len(data))
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var currentTranslator Translator = dictTranslator{lang: "en"}

var (
	supported = []language.Tag{language.English, language.Japanese}
	matcher   = language.NewMatcher(supported)
)

// SetLanguage switches the built-in Translator language. lang is a BCP 47 tag or an
// Accept-Language list ("ja-JP", "ja;q=0.9, en"); it is matched against the built-in
// dictionaries and falls back to English.
func SetLanguage(lang string) {
	_, idx := language.MatchStrings(matcher, lang)
	base, _ := supported[idx].Base()
	currentTranslator = dictTranslator{lang: base.String()}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
