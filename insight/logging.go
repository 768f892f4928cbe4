package insight

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type loggingGenerator struct {
	next Generator
	log  *zap.Logger
}

var _ Generator = (*loggingGenerator)(nil)

// WithLogging wraps gen so every request and its outcome are logged.
func WithLogging(gen Generator, log *zap.Logger) Generator {
	if log == nil {
		return gen
	}
	return &loggingGenerator{next: gen, log: log}
}

func (g *loggingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	g.log.Debug("requesting insights", zap.Int("prompt_bytes", len(prompt)))

	text, err := g.next.Generate(ctx, prompt)
	if err != nil {
		g.log.Error("insight generation failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return "", err
	}

	g.log.Info("insights received",
		zap.Int("response_bytes", len(text)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return text, nil
}
