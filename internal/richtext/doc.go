// Package richtext converts Markdown into a structured rich text document: a
// tree of block nodes (paragraphs, headings, lists, quotes, tables) whose
// leaves are text nodes carrying formatting marks. The tree serializes to the
// nodeType/data/content JSON layout used by headless CMS rich text fields.
//
// Parsing is delegated to goldmark; this package maps goldmark's AST onto the
// node schema and, optionally, validates the result against an embedded JSON
// schema before handing it back.
package richtext
