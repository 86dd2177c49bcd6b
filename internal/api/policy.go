package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/phrazzld/richtext-api/internal/config"
)

// RawBodyPreviewLength bounds how much of an unparseable body lenient mode echoes.
const RawBodyPreviewLength = 200

// Fixed user-facing messages. Lenient mode appends diagnostics to the first
// three; strict mode sends them as is.
const (
	msgInvalidJSON      = "Invalid JSON in request body"
	msgMissingMarkdown  = "Missing markdown field in request body"
	msgConversionFailed = "Internal conversion error"
	msgBodyTooLarge     = "Request body too large"
	msgReadBody         = "Failed to read request body"
)

// disclosurePolicy decides how much detail error responses reveal and which
// payload shapes are accepted.
type disclosurePolicy struct {
	mode       string
	extractors []Extractor
}

func newDisclosurePolicy(mode string) (disclosurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", config.ModeLenient:
		return disclosurePolicy{mode: config.ModeLenient, extractors: LenientExtractors()}, nil
	case config.ModeStrict:
		return disclosurePolicy{mode: config.ModeStrict, extractors: StrictExtractors()}, nil
	default:
		return disclosurePolicy{}, fmt.Errorf("unknown handler mode %q", mode)
	}
}

func (p disclosurePolicy) lenient() bool {
	return p.mode == config.ModeLenient
}

func (p disclosurePolicy) invalidJSONMessage(raw []byte) string {
	if !p.lenient() {
		return msgInvalidJSON
	}
	return msgInvalidJSON + ". Received: " + truncateRunes(string(raw), RawBodyPreviewLength)
}

func (p disclosurePolicy) missingMarkdownMessage(keys []string) string {
	if !p.lenient() {
		return msgMissingMarkdown
	}
	return msgMissingMarkdown + ". Received structure: " + encodeKeys(keys)
}

func (p disclosurePolicy) conversionMessage(cause error) string {
	if !p.lenient() || cause == nil {
		return msgConversionFailed
	}
	return msgConversionFailed + ": " + cause.Error()
}

// truncateRunes returns at most n characters of s without splitting a
// multi-byte character.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// encodeKeys renders keys as a compact JSON array, e.g. ["foo","bar"].
func encodeKeys(keys []string) string {
	if keys == nil {
		keys = []string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(keys); err != nil {
		return "[]"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
