package ingestion

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Ingestor retrieves job postings and reduces them to clean text.
type Ingestor struct {
	opts   *Options
	logger *zap.Logger
}

// NewIngestor creates an Ingestor. A nil opts uses DefaultOptions.
func NewIngestor(opts *Options, logger *zap.Logger) *Ingestor {
	if opts == nil {
		opts = DefaultOptions()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingestor{opts: opts, logger: logger}
}

// FromURL fetches a posting page and extracts its text. Pages that come
// back nearly empty from a plain fetch are retried through a headless
// browser before giving up.
func (i *Ingestor) FromURL(ctx context.Context, url string) (string, error) {
	html, err := fetchHTML(ctx, url, i.opts)
	if err != nil {
		return "", err
	}

	text, err := ExtractPostingText(html)
	if err != nil {
		return "", err
	}

	if len(strings.TrimSpace(text)) < minPostingLength {
		if i.opts.UseBrowser {
			i.logger.Info("posting text too short, retrying with headless browser",
				zap.String("url", url),
				zap.Int("extracted_bytes", len(text)),
			)

			rendered, browserErr := renderWithBrowser(ctx, url, i.opts.Timeout)
			if browserErr != nil {
				i.logger.Warn("browser rendering failed, keeping plain fetch result",
					zap.String("url", url),
					zap.Error(browserErr),
				)
			} else if renderedText, extractErr := ExtractPostingText(rendered); extractErr == nil &&
				len(renderedText) > len(text) {
				text = renderedText
			}
		} else {
			i.logger.Debug("posting text below threshold, browser fallback disabled",
				zap.String("url", url),
				zap.Int("extracted_bytes", len(text)),
			)
		}
	}

	if strings.TrimSpace(text) == "" {
		return "", &FetchError{URL: url, Message: "no readable posting text on page"}
	}
	return text, nil
}

// FromFile reads a posting from a local text file.
func (i *Ingestor) FromFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read posting file: %w", err)
	}

	text := cleanWhitespace(strings.ReplaceAll(string(content), "\r\n", "\n"))
	if text == "" {
		return "", fmt.Errorf("posting file %s is empty", path)
	}
	return text, nil
}
