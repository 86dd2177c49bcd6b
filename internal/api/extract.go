package api

import (
	"strconv"

	"github.com/tidwall/gjson"
)

// Extractor looks for Markdown in a parsed JSON payload and reports whether it
// found any. Extractors are tried in order; the first match wins.
type Extractor func(payload gjson.Result) (string, bool)

// TopLevelField matches {"markdown": "..."} with a non-empty string.
func TopLevelField(payload gjson.Result) (string, bool) {
	if !payload.IsObject() {
		return "", false
	}
	return nonEmptyString(lastField(payload, "markdown"))
}

// NestedBodyField matches {"body": {"markdown": "..."}}, the shape produced by
// automation tools that wrap the original request body.
func NestedBodyField(payload gjson.Result) (string, bool) {
	if !payload.IsObject() {
		return "", false
	}
	body := lastField(payload, "body")
	if !body.IsObject() {
		return "", false
	}
	return nonEmptyString(lastField(body, "markdown"))
}

// BareString matches a payload that is itself a JSON string, including "".
func BareString(payload gjson.Result) (string, bool) {
	if payload.Type != gjson.String {
		return "", false
	}
	return payload.String(), true
}

// LenientExtractors returns the extractor chain used in lenient mode.
func LenientExtractors() []Extractor {
	return []Extractor{TopLevelField, NestedBodyField, BareString}
}

// StrictExtractors returns the extractor chain used in strict mode.
func StrictExtractors() []Extractor {
	return []Extractor{TopLevelField}
}

// ExtractMarkdown runs extractors in order and returns the first match.
func ExtractMarkdown(payload gjson.Result, extractors []Extractor) (string, bool) {
	for _, extract := range extractors {
		if markdown, ok := extract(payload); ok {
			return markdown, true
		}
	}
	return "", false
}

// ReceivedKeys lists the top-level keys of payload in the order first
// received, each once. Arrays yield their indices; scalars yield nothing.
func ReceivedKeys(payload gjson.Result) []string {
	keys := []string{}

	switch {
	case payload.IsObject():
		seen := make(map[string]struct{})
		payload.ForEach(func(key, _ gjson.Result) bool {
			name := key.String()
			if _, dup := seen[name]; !dup {
				seen[name] = struct{}{}
				keys = append(keys, name)
			}
			return true
		})
	case payload.IsArray():
		for i := range payload.Array() {
			keys = append(keys, strconv.Itoa(i))
		}
	}

	return keys
}

// lastField returns the value of the last occurrence of key in object, so a
// repeated key resolves to its final value.
func lastField(object gjson.Result, key string) gjson.Result {
	var value gjson.Result
	object.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			value = v
		}
		return true
	})
	return value
}

func nonEmptyString(value gjson.Result) (string, bool) {
	if value.Type != gjson.String || value.Str == "" {
		return "", false
	}
	return value.Str, true
}
