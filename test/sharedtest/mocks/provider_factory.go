package mocks

import (
	"github.com/covergen/covergen-api/internal/shared/providers"
	"github.com/covergen/covergen-api/internal/shared/providers/provider"
)

type ProviderTransformer func(p provider.Provider) provider.Provider

type ProviderFactory struct {
	orig        providers.Factory
	transformer ProviderTransformer
}

var _ providers.Factory = &ProviderFactory{}

func NewProviderFactory(transformer ProviderTransformer, orig providers.Factory) *ProviderFactory {
	return &ProviderFactory{
		orig:        orig,
		transformer: transformer,
	}
}

func (f ProviderFactory) Build() (provider.Provider, error) {
	p, err := f.orig.Build()
	if p != nil {
		p = f.transformer(p)
	}
	return p, err
}
