package data

import (
	"context"
	"fmt"

	"HireAll/internal/biz"
	"HireAll/internal/conf"
	"HireAll/pkg/gemini"

	"github.com/go-kratos/kratos/v2/log"
)

// NewContentGenerator returns the Gemini generator, or nil when no API key is
// configured so the rest of the service can still start.
func NewContentGenerator(c *conf.Gemini, logger log.Logger) (biz.ContentGenerator, error) {
	helper := log.NewHelper(logger)

	if c == nil || c.APIKey == "" {
		helper.Warn("Gemini API key is not configured, AI endpoints are disabled")
		return nil, nil
	}

	g, err := gemini.NewGenerator(context.Background(), c.APIKey, c.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini generator: %w", err)
	}

	helper.Infof("Gemini generator ready (model=%s)", g.Model())
	return g, nil
}
