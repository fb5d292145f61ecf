package contracts

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const aavePoolABI = `[{"inputs":[{"internalType":"address","name":"asset","type":"address"},{"internalType":"uint256","name":"amount","type":"uint256"},{"internalType":"address","name":"onBehalfOf","type":"address"},{"internalType":"uint16","name":"referralCode","type":"uint16"}],"name":"supply","outputs":[],"stateMutability":"nonpayable","type":"function"}]`

var (
	parsedAavePoolABI  abi.ABI
	parsedAavePoolOnce sync.Once
)

func aavePool() abi.ABI {
	parsedAavePoolOnce.Do(func() {
		parsedAavePoolABI = mustParse("AavePool", aavePoolABI)
	})
	return parsedAavePoolABI
}

// EncodeAaveSupply encodes Pool.supply(asset, amount, onBehalfOf, 0).
func EncodeAaveSupply(asset string, amount *big.Int, onBehalfOf string) ([]byte, error) {
	data, err := aavePool().Pack("supply", common.HexToAddress(asset), amount, common.HexToAddress(onBehalfOf), uint16(0))
	if err != nil {
		return nil, fmt.Errorf("failed to encode Aave supply: %w", err)
	}
	return data, nil
}
