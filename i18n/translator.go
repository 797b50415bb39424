package i18n

// Translator retrieves localized messages for validation keywords.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(keyword string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator. The dictionary
// is keyed by JSON Schema keyword name, matching Issue.Keyword.
type dictTranslator struct{ lang string }

var enMessages = map[string]string{
	"type":                 "value does not match the expected type",
	"required":             "required property missing",
	"additionalProperties": "unexpected additional property",
	"propertyNames":        "property name does not match propertyNames schema",
	"pattern":              "value does not match pattern",
	"minLength":            "string is too short",
	"maxLength":            "string is too long",
	"minimum":              "value is below minimum",
	"maximum":              "value is above maximum",
	"exclusiveMinimum":     "value is not greater than exclusiveMinimum",
	"exclusiveMaximum":     "value is not less than exclusiveMaximum",
	"multipleOf":           "value is not a multiple of multipleOf",
	"minItems":             "array has too few items",
	"maxItems":             "array has too many items",
	"uniqueItems":          "array items are not unique",
	"minProperties":        "object has too few properties",
	"maxProperties":        "object has too many properties",
	"enum":                 "value is not one of the allowed values",
	"const":                "value does not match the required constant",
	"format":               "value does not match format",
	"contains":             "array does not contain a matching item",
	"not":                  "value matches a schema it must not match",
	"allOf":                "value does not match all required schemas",
	"anyOf":                "value does not match any allowed schema",
	"oneOf":                "value does not match exactly one schema",
	"dependentRequired":    "dependent required property missing",
	"dependentSchemas":     "value does not match its dependent schema",
	"contentEncoding":      "value is not valid for the declared content encoding",
	"contentMediaType":     "value is not valid for the declared content media type",
	"contentSchema":        "decoded content does not match contentSchema",
	"$ref":                 "value does not match referenced schema",
	"false":                "schema always fails",
}

var jaMessages = map[string]string{
	"type":                 "型が不正です",
	"required":             "必須プロパティが不足しています",
	"additionalProperties": "未知の追加プロパティです",
	"propertyNames":        "プロパティ名がpropertyNamesスキーマに一致しません",
	"pattern":              "パターンに一致しません",
	"minLength":            "短すぎます",
	"maxLength":            "長すぎます",
	"minimum":              "最小値を下回っています",
	"maximum":              "最大値を超えています",
	"exclusiveMinimum":     "exclusiveMinimumより大きくありません",
	"exclusiveMaximum":     "exclusiveMaximumより小さくありません",
	"multipleOf":           "multipleOfの倍数ではありません",
	"minItems":             "配列の要素数が少なすぎます",
	"maxItems":             "配列の要素数が多すぎます",
	"uniqueItems":          "配列の要素が重複しています",
	"minProperties":        "プロパティ数が少なすぎます",
	"maxProperties":        "プロパティ数が多すぎます",
	"enum":                 "許可された値のいずれにも一致しません",
	"const":                "指定された定数値と一致しません",
	"format":                "formatに一致しません",
	"contains":             "containsに一致する要素がありません",
	"not":                  "notスキーマに一致してしまっています",
	"allOf":                "allOfの全てのスキーマに一致しません",
	"anyOf":                "anyOfのいずれのスキーマにも一致しません",
	"oneOf":                "oneOfでちょうど一つのスキーマに一致しません",
	"dependentRequired":    "依存先の必須プロパティが不足しています",
	"dependentSchemas":     "依存スキーマに一致しません",
	"contentEncoding":      "contentEncodingとして不正な値です",
	"contentMediaType":     "contentMediaTypeとして不正な値です",
	"contentSchema":        "デコードした内容がcontentSchemaに一致しません",
	"$ref":                 "参照先スキーマに一致しません",
	"false":                "常に失敗するスキーマです",
}

func (t dictTranslator) Message(keyword string, data map[string]string) string {
	dict := enMessages
	if t.lang == "ja" {
		dict = jaMessages
	}
	if msg, ok := dict[keyword]; ok {
		return msg
	}
	return keyword
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
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

// T fetches a message for the given keyword using the current Translator.
func T(keyword string, data map[string]string) string { return currentTranslator.Message(keyword, data) }
