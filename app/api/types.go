package api

import (
	"context"

	"github.com/lysyi3m/rss-relay/app/cfg"
	"github.com/lysyi3m/rss-relay/app/pipeline"
)

type RunnerInterface interface {
	Run(ctx context.Context) (*pipeline.Result, error)
}

var _ RunnerInterface = (*pipeline.Pipeline)(nil)

type Handler struct {
	runner RunnerInterface
	cfg    *cfg.Cfg
}
