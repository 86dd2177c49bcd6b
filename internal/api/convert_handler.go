package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/richtext-api/internal/api/shared"
	"github.com/phrazzld/richtext-api/internal/platform/logger"
	"github.com/phrazzld/richtext-api/internal/redact"
	"github.com/phrazzld/richtext-api/internal/richtext"
	"github.com/tidwall/gjson"
)

// ConvertHandlerOptions configures a ConvertHandler.
type ConvertHandlerOptions struct {
	// Mode is config.ModeLenient or config.ModeStrict. Empty means lenient.
	Mode string
	// MaxBodyBytes bounds the request body. Non-positive disables the bound.
	MaxBodyBytes int64
}

// ConvertHandler handles Markdown conversion requests.
type ConvertHandler struct {
	converter    richtext.Converter
	policy       disclosurePolicy
	maxBodyBytes int64
	logger       *slog.Logger
}

// NewConvertHandler creates a ConvertHandler delegating to converter.
func NewConvertHandler(
	converter richtext.Converter,
	opts ConvertHandlerOptions,
	logger *slog.Logger,
) (*ConvertHandler, error) {
	if converter == nil {
		return nil, errors.New("converter cannot be nil")
	}

	policy, err := newDisclosurePolicy(opts.Mode)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &ConvertHandler{
		converter:    converter,
		policy:       policy,
		maxBodyBytes: opts.MaxBodyBytes,
		logger:       logger.With(slog.String("component", "convert_handler")),
	}, nil
}

// Convert handles POST /convert requests.
func (h *ConvertHandler) Convert(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	body, err := shared.ReadBody(w, r, h.maxBodyBytes)
	if err != nil {
		if errors.Is(err, shared.ErrBodyTooLarge) {
			h.fail(w, r, err, msgBodyTooLarge)
			return
		}
		h.fail(w, r, fmt.Errorf("%w: %v", ErrReadBody, err), msgReadBody)
		return
	}

	if !gjson.ValidBytes(body) {
		if h.policy.lenient() {
			log.Debug("raw request body",
				slog.String("body", redact.String(truncateRunes(string(body), RawBodyPreviewLength))))
		}
		h.fail(w, r, ErrInvalidJSON, h.policy.invalidJSONMessage(body))
		return
	}

	payload := gjson.ParseBytes(body)
	markdown, ok := ExtractMarkdown(payload, h.policy.extractors)
	if !ok {
		keys := ReceivedKeys(payload)
		log.Debug("received body structure", slog.Any("keys", keys))
		h.fail(w, r, ErrMissingMarkdown, h.policy.missingMarkdownMessage(keys))
		return
	}

	doc, err := h.converter.Convert(r.Context(), markdown)
	if err == nil && doc == nil {
		err = errors.New("converter returned no document")
	}
	if err != nil {
		h.fail(w, r, fmt.Errorf("%w: %w", ErrConversion, err), h.policy.conversionMessage(err))
		return
	}

	log.Debug("markdown converted",
		slog.Int("markdown_bytes", len(markdown)),
		slog.Int("blocks", len(doc.Content)))

	shared.RespondWithJSON(w, r, http.StatusOK, ConvertResponse{
		Success:  true,
		RichText: doc,
	})
}

func (h *ConvertHandler) fail(w http.ResponseWriter, r *http.Request, err error, message string) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), message, err)
}
