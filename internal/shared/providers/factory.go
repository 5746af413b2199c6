package providers

import (
	"time"

	"github.com/covergen/covergen-api/internal/shared/config"
	"github.com/covergen/covergen-api/internal/shared/logutil"
	"github.com/covergen/covergen-api/internal/shared/providers/implementations"
	"github.com/covergen/covergen-api/internal/shared/providers/provider"
)

type Factory interface {
	Build() (provider.Provider, error)
}

type BasicFactory struct {
	cfg config.Config
	log logutil.Log
}

func NewBasicFactory(cfg config.Config, log logutil.Log) *BasicFactory {
	return &BasicFactory{
		cfg: cfg,
		log: log,
	}
}

func (f BasicFactory) Build() (provider.Provider, error) {
	p := implementations.NewGithub(f.cfg.GetString("GITHUB_TOKEN"), f.log)
	return implementations.NewStableProvider(p, time.Second*30, 3), nil
}
