// Package api handles incoming HTTP requests: the health check and the
// Markdown conversion endpoint. It reads and inspects request bodies, runs the
// ordered markdown extractors, delegates to a richtext.Converter and maps
// results and errors to JSON responses of the form
// {"success": true, "richText": ...} or {"success": false, "error": ...}.
package api
