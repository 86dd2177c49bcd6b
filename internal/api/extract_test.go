package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestExtractors(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		extractor Extractor
		want      string
		wantOK    bool
	}{
		{name: "top-level match", payload: `{"markdown":"# a"}`, extractor: TopLevelField, want: "# a", wantOK: true},
		{name: "top-level escaped", payload: `{"markdown":"line\nnext é"}`, extractor: TopLevelField, want: "line\nnext é", wantOK: true},
		{name: "top-level empty", payload: `{"markdown":""}`, extractor: TopLevelField},
		{name: "top-level number", payload: `{"markdown":1}`, extractor: TopLevelField},
		{name: "top-level on string payload", payload: `"markdown"`, extractor: TopLevelField},
		{name: "top-level repeated key uses last", payload: `{"markdown":"a","markdown":"b"}`, extractor: TopLevelField, want: "b", wantOK: true},
		{name: "top-level repeated key last empty", payload: `{"markdown":"a","markdown":""}`, extractor: TopLevelField},
		{name: "top-level escaped key", payload: `{"mark\u0064own":"x"}`, extractor: TopLevelField, want: "x", wantOK: true},
		{name: "nested repeated markdown uses last", payload: `{"body":{"markdown":"a","markdown":"b"}}`, extractor: NestedBodyField, want: "b", wantOK: true},
		{name: "nested repeated body uses last", payload: `{"body":{"markdown":"a"},"body":{"markdown":"c"}}`, extractor: NestedBodyField, want: "c", wantOK: true},
		{name: "nested last body not object", payload: `{"body":{"markdown":"a"},"body":1}`, extractor: NestedBodyField},
		{name: "nested match", payload: `{"body":{"markdown":"# b"}}`, extractor: NestedBodyField, want: "# b", wantOK: true},
		{name: "nested body is string", payload: `{"body":"{\"markdown\":\"x\"}"}`, extractor: NestedBodyField},
		{name: "nested empty", payload: `{"body":{"markdown":""}}`, extractor: NestedBodyField},
		{name: "nested missing", payload: `{"body":{}}`, extractor: NestedBodyField},
		{name: "bare string", payload: `"# c"`, extractor: BareString, want: "# c", wantOK: true},
		{name: "bare empty string", payload: `""`, extractor: BareString, want: "", wantOK: true},
		{name: "bare number", payload: `42`, extractor: BareString},
		{name: "bare object", payload: `{"markdown":"x"}`, extractor: BareString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.extractor(gjson.Parse(tt.payload))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractMarkdownOrder(t *testing.T) {
	payload := gjson.Parse(`{"markdown":"top","body":{"markdown":"nested"}}`)

	got, ok := ExtractMarkdown(payload, LenientExtractors())
	assert.True(t, ok)
	assert.Equal(t, "top", got)

	got, ok = ExtractMarkdown(payload, []Extractor{NestedBodyField, TopLevelField})
	assert.True(t, ok)
	assert.Equal(t, "nested", got, "the first extractor in the list wins")

	_, ok = ExtractMarkdown(gjson.Parse(`{"body":{"markdown":"x"}}`), StrictExtractors())
	assert.False(t, ok, "strict mode only reads the top-level field")

	_, ok = ExtractMarkdown(payload, nil)
	assert.False(t, ok)
}

func TestReceivedKeys(t *testing.T) {
	tests := []struct {
		payload string
		want    []string
	}{
		{payload: `{"b":1,"a":2,"c":{"d":3}}`, want: []string{"b", "a", "c"}},
		{payload: `{"a":1,"b":2,"a":3}`, want: []string{"a", "b"}},
		{payload: `{}`, want: []string{}},
		{payload: `[true,false,null]`, want: []string{"0", "1", "2"}},
		{payload: `12`, want: []string{}},
		{payload: `null`, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			assert.Equal(t, tt.want, ReceivedKeys(gjson.Parse(tt.payload)))
		})
	}
}
