package provider

import (
	"strings"

	"aura_gateway/internal/app/port"
	"aura_gateway/internal/domain/entity"

	"go.uber.org/zap"
)

type networkTokens struct {
	ordered   []entity.TokenEntry
	bySymbol  map[string]entity.TokenEntry
	byAddress map[string]entity.TokenEntry
}

type tokenProviderImpl struct {
	networks map[string]*networkTokens
}

// NewTokenProvider merges the static token tables with tokens loaded from files.
// Static entries win when both define the same symbol or address.
func NewTokenProvider(static map[string][]entity.TokenEntry, loaded map[string][]entity.TokenEntry, logger *zap.Logger) port.TokenProvider {
	p := &tokenProviderImpl{networks: make(map[string]*networkTokens)}
	for network, entries := range static {
		p.add(network, entries)
	}
	for network, entries := range loaded {
		p.add(network, entries)
	}
	if logger != nil {
		logger.Named("TokenProvider").Info("Token tables ready", zap.Int("networks", len(p.networks)))
	}
	return p
}

func (p *tokenProviderImpl) add(network string, entries []entity.TokenEntry) {
	nt, ok := p.networks[network]
	if !ok {
		nt = &networkTokens{
			bySymbol:  make(map[string]entity.TokenEntry),
			byAddress: make(map[string]entity.TokenEntry),
		}
		p.networks[network] = nt
	}
	for _, e := range entries {
		symbol := strings.ToUpper(e.Symbol)
		if _, exists := nt.bySymbol[symbol]; exists {
			continue
		}
		nt.bySymbol[symbol] = e
		nt.ordered = append(nt.ordered, e)
		addr := strings.ToLower(e.Address)
		if _, exists := nt.byAddress[addr]; !exists {
			nt.byAddress[addr] = e
		}
	}
}

// LookupSymbol finds a token by symbol.
func (p *tokenProviderImpl) LookupSymbol(networkIdentifier, symbol string) (entity.TokenEntry, bool) {
	nt, ok := p.networks[networkIdentifier]
	if !ok {
		return entity.TokenEntry{}, false
	}
	e, ok := nt.bySymbol[strings.ToUpper(symbol)]
	return e, ok
}

// LookupAddress finds a token by address.
func (p *tokenProviderImpl) LookupAddress(networkIdentifier, address string) (entity.TokenEntry, bool) {
	nt, ok := p.networks[networkIdentifier]
	if !ok {
		return entity.TokenEntry{}, false
	}
	e, ok := nt.byAddress[strings.ToLower(address)]
	return e, ok
}

// TokensByNetwork returns the tokens of a network in table order.
func (p *tokenProviderImpl) TokensByNetwork(networkIdentifier string) []entity.TokenEntry {
	nt, ok := p.networks[networkIdentifier]
	if !ok {
		return nil
	}
	return append([]entity.TokenEntry(nil), nt.ordered...)
}
