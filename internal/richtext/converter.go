package richtext

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Converter turns Markdown text into a rich text document.
// Implementations must be safe for concurrent use.
type Converter interface {
	Convert(ctx context.Context, markdown string) (*Document, error)
}

// ConverterFunc adapts an ordinary function to the Converter interface.
type ConverterFunc func(ctx context.Context, markdown string) (*Document, error)

// Convert calls f(ctx, markdown).
func (f ConverterFunc) Convert(ctx context.Context, markdown string) (*Document, error) {
	return f(ctx, markdown)
}

// ErrUnknownExtension is returned when an extension name is not registered.
var ErrUnknownExtension = errors.New("unknown markdown extension")

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"tasklist":      extension.TaskList,
}

// Extensions lists the registered extension names in sorted order.
func Extensions() []string {
	names := make([]string, 0, len(extensionRegistry))
	for name := range extensionRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Options configures a GoldmarkConverter.
type Options struct {
	// Extensions names goldmark extensions to enable. Empty enables "gfm".
	Extensions []string
	// Validator, when set, checks every produced document.
	Validator *SchemaValidator
}

// GoldmarkConverter implements Converter with the goldmark parser.
type GoldmarkConverter struct {
	md        goldmark.Markdown
	validator *SchemaValidator
}

// NewGoldmarkConverter builds a converter with the given options.
func NewGoldmarkConverter(opts Options) (*GoldmarkConverter, error) {
	exts, err := collectExtensions(opts.Extensions)
	if err != nil {
		return nil, err
	}

	return &GoldmarkConverter{
		md:        goldmark.New(goldmark.WithExtensions(exts...)),
		validator: opts.Validator,
	}, nil
}

// Convert parses markdown and maps it to a rich text document.
func (c *GoldmarkConverter) Convert(ctx context.Context, markdown string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("conversion canceled: %w", err)
	}

	source := []byte(markdown)
	root := c.md.Parser().Parse(text.NewReader(source))
	doc := newBuilder(source).document(root)

	if c.validator != nil {
		if err := c.validator.Validate(doc); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

func collectExtensions(names []string) ([]goldmark.Extender, error) {
	if len(names) == 0 {
		return []goldmark.Extender{extension.GFM}, nil
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}

		ext, ok := extensionRegistry[key]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownExtension, name)
		}

		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}

	return extenders, nil
}
