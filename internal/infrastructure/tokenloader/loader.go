package tokenloader

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"aura_gateway/internal/domain/entity"
	"aura_gateway/internal/pkg/utils"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// TokenFileLoader reads <network>.json token list files from a directory.
type TokenFileLoader struct {
	tokenDirPath string
	loggerInfo   func(msg string, args ...any)
	loggerWarn   func(msg string, args ...any)
}

// NewTokenLoader creates a new TokenFileLoader.
func NewTokenLoader(dir string, loggerInfo func(msg string, args ...any), loggerWarn func(msg string, args ...any)) *TokenFileLoader {
	return &TokenFileLoader{
		tokenDirPath: dir,
		loggerInfo:   loggerInfo,
		loggerWarn:   loggerWarn,
	}
}

// GetTokensByNetwork scans the token directory and returns the valid entries of each
// known network keyed by network identifier. Unreadable files and malformed entries are
// skipped with a warning. An empty directory path loads nothing.
func (l *TokenFileLoader) GetTokensByNetwork(networkDefs []entity.NetworkDefinition) (map[string][]entity.TokenEntry, error) {
	tokensByNetwork := make(map[string][]entity.TokenEntry)
	if l.tokenDirPath == "" {
		return tokensByNetwork, nil
	}

	files, err := os.ReadDir(l.tokenDirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read token directory %s: %w", l.tokenDirPath, err)
	}

	known := make(map[string]struct{}, len(networkDefs))
	for _, def := range networkDefs {
		known[def.Identifier] = struct{}{}
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(strings.ToLower(file.Name()), ".json") {
			continue
		}

		identifier := strings.ToLower(strings.TrimSuffix(file.Name(), filepath.Ext(file.Name())))
		if _, ok := known[identifier]; !ok {
			l.info("Token file found for an unknown network, skipping.", "file", file.Name())
			continue
		}

		filePath := filepath.Join(l.tokenDirPath, file.Name())
		entries, err := utils.LoadTokensFromJSON(filePath)
		if err != nil {
			l.warn("Failed to load token file, skipping file.", "path", filePath, "error", err)
			continue
		}

		valid := make([]entity.TokenEntry, 0, len(entries))
		for _, token := range entries {
			if !addressPattern.MatchString(token.Address) || token.Symbol == "" {
				l.warn("Malformed token entry, skipping token.", "file", filePath, "symbol", token.Symbol, "address", token.Address)
				continue
			}
			if token.Decimals == 0 {
				token.Decimals = 18
			}
			token.Symbol = strings.ToUpper(token.Symbol)
			valid = append(valid, token)
		}

		if len(valid) > 0 {
			tokensByNetwork[identifier] = append(tokensByNetwork[identifier], valid...)
			l.info("Loaded tokens for network from file", "network", identifier, "file", file.Name(), "count", len(valid))
		}
	}

	return tokensByNetwork, nil
}

func (l *TokenFileLoader) info(msg string, args ...any) {
	if l.loggerInfo != nil {
		l.loggerInfo(msg, args...)
	}
}

func (l *TokenFileLoader) warn(msg string, args ...any) {
	if l.loggerWarn != nil {
		l.loggerWarn(msg, args...)
	}
}
