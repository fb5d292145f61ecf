package service

import (
	"fmt"
	"strings"

	"aura_gateway/internal/app/port"
	"aura_gateway/internal/domain/entity"
)

type tokenResolverImpl struct {
	networks port.NetworkDefinitionProvider
	tokens   port.TokenProvider
}

// NewTokenResolver creates a resolver over the known token tables.
func NewTokenResolver(networks port.NetworkDefinitionProvider, tokens port.TokenProvider) port.TokenResolver {
	return &tokenResolverImpl{networks: networks, tokens: tokens}
}

// ResolveTokenAddress returns addresses unchanged and looks symbols up case-insensitively.
func (r *tokenResolverImpl) ResolveTokenAddress(input string, network string) (string, error) {
	input = strings.TrimSpace(input)
	if IsAddress(input) {
		return input, nil
	}
	def, err := lookupNetwork(r.networks, network)
	if err != nil {
		return "", err
	}
	entry, ok := r.tokens.LookupSymbol(def.Identifier, strings.ToUpper(input))
	if !ok {
		return "", fmt.Errorf("%w: token symbol %q not found on %s network", entity.ErrUnknownToken, input, def.Identifier)
	}
	return entry.Address, nil
}
