package service

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"aura_gateway/internal/app/port"
	"aura_gateway/internal/domain/entity"
	"aura_gateway/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common/hexutil"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsAddress reports whether s is a 0x-prefixed 20-byte hex address.
func IsAddress(s string) bool {
	return addressPattern.MatchString(s)
}

func lookupNetwork(networks port.NetworkDefinitionProvider, name string) (entity.NetworkDefinition, error) {
	def, ok := networks.GetNetworkDefinitionByName(name)
	if !ok {
		return entity.NetworkDefinition{}, fmt.Errorf("%w: %s", entity.ErrUnsupportedNetwork, name)
	}
	return def, nil
}

func recordFallback(r port.FallbackRecorder, component string) {
	if r != nil {
		r.RecordFallback(component)
	}
}

// parseAmount converts a human-readable amount into base units and rejects zero.
func parseAmount(field, amount string, decimals uint8) (*big.Int, error) {
	wei, err := utils.ParseUnits(amount, decimals)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidAmount) {
			return nil, entity.NewValidationError(field, err.Error())
		}
		return nil, err
	}
	if wei.Sign() == 0 {
		return nil, entity.NewValidationError(field, "amount must be greater than zero")
	}
	return wei, nil
}

// isWrappedOrNative reports whether addr is the native sentinel or the network's wrapped native token.
func isWrappedOrNative(def entity.NetworkDefinition, addr string) bool {
	return entity.IsNativeAddress(addr) || strings.EqualFold(addr, def.WrappedNativeTokenAddress)
}

func nativeTokenInfo(def entity.NetworkDefinition) entity.TokenInfo {
	return entity.TokenInfo{
		ChainID:  def.ChainID,
		Address:  entity.ZeroAddress,
		Name:     def.NativeName,
		Symbol:   def.NativeSymbol,
		Decimals: 18,
	}
}

func hexData(data []byte) string {
	if len(data) == 0 {
		return "0x"
	}
	return hexutil.Encode(data)
}

func decodeHexData(data string) ([]byte, error) {
	if data == "" || data == "0x" {
		return nil, nil
	}
	return hexutil.Decode(data)
}

func parseWei(value string) *big.Int {
	v, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return big.NewInt(0)
	}
	return v
}
