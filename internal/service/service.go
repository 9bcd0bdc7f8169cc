package service

import (
	"github.com/hance08/ledgerd/internal/config"
	"github.com/pterm/pterm"
)

type Service struct {
	Config    *config.Config
	Metrics   *Metrics
	Processor *Processor
	Logger    *pterm.Logger
}

func NewService(cfg *config.Config, logger *pterm.Logger) *Service {
	metrics := NewMetrics()

	return &Service{
		Config:    cfg,
		Metrics:   metrics,
		Processor: NewProcessor(cfg.Processing.Workers, logger, metrics),
		Logger:    logger,
	}
}
