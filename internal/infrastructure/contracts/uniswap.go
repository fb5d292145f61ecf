package contracts

import (
	"fmt"
	"math/big"
	"sync"

	"aura_gateway/internal/domain/entity"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Uniswap V3 QuoterV2, quoteExactInputSingle only
const quoterV2ABI = `[{"inputs":[{"components":[{"internalType":"address","name":"tokenIn","type":"address"},{"internalType":"address","name":"tokenOut","type":"address"},{"internalType":"uint256","name":"amountIn","type":"uint256"},{"internalType":"uint24","name":"fee","type":"uint24"},{"internalType":"uint160","name":"sqrtPriceLimitX96","type":"uint160"}],"internalType":"struct IQuoterV2.QuoteExactInputSingleParams","name":"params","type":"tuple"}],"name":"quoteExactInputSingle","outputs":[{"internalType":"uint256","name":"amountOut","type":"uint256"},{"internalType":"uint160","name":"sqrtPriceX96After","type":"uint160"},{"internalType":"uint32","name":"initializedTicksCrossed","type":"uint32"},{"internalType":"uint256","name":"gasEstimate","type":"uint256"}],"stateMutability":"nonpayable","type":"function"}]`

// SwapRouter (v1): exactInputSingle carries a deadline
const swapRouterABI = `[
{"inputs":[{"components":[{"internalType":"address","name":"tokenIn","type":"address"},{"internalType":"address","name":"tokenOut","type":"address"},{"internalType":"uint24","name":"fee","type":"uint24"},{"internalType":"address","name":"recipient","type":"address"},{"internalType":"uint256","name":"deadline","type":"uint256"},{"internalType":"uint256","name":"amountIn","type":"uint256"},{"internalType":"uint256","name":"amountOutMinimum","type":"uint256"},{"internalType":"uint160","name":"sqrtPriceLimitX96","type":"uint160"}],"internalType":"struct ISwapRouter.ExactInputSingleParams","name":"params","type":"tuple"}],"name":"exactInputSingle","outputs":[{"internalType":"uint256","name":"amountOut","type":"uint256"}],"stateMutability":"payable","type":"function"},
{"inputs":[{"internalType":"bytes[]","name":"data","type":"bytes[]"}],"name":"multicall","outputs":[{"internalType":"bytes[]","name":"results","type":"bytes[]"}],"stateMutability":"payable","type":"function"},
{"inputs":[{"internalType":"uint256","name":"amountMinimum","type":"uint256"},{"internalType":"address","name":"recipient","type":"address"}],"name":"unwrapWETH9","outputs":[],"stateMutability":"payable","type":"function"}
]`

// SwapRouter02: exactInputSingle without deadline; the deadline goes on multicall
const swapRouter02ABI = `[
{"inputs":[{"components":[{"internalType":"address","name":"tokenIn","type":"address"},{"internalType":"address","name":"tokenOut","type":"address"},{"internalType":"uint24","name":"fee","type":"uint24"},{"internalType":"address","name":"recipient","type":"address"},{"internalType":"uint256","name":"amountIn","type":"uint256"},{"internalType":"uint256","name":"amountOutMinimum","type":"uint256"},{"internalType":"uint160","name":"sqrtPriceLimitX96","type":"uint160"}],"internalType":"struct IV3SwapRouter.ExactInputSingleParams","name":"params","type":"tuple"}],"name":"exactInputSingle","outputs":[{"internalType":"uint256","name":"amountOut","type":"uint256"}],"stateMutability":"payable","type":"function"},
{"inputs":[{"internalType":"uint256","name":"deadline","type":"uint256"},{"internalType":"bytes[]","name":"data","type":"bytes[]"}],"name":"multicall","outputs":[{"internalType":"bytes[]","name":"results","type":"bytes[]"}],"stateMutability":"payable","type":"function"},
{"inputs":[{"internalType":"uint256","name":"amountMinimum","type":"uint256"},{"internalType":"address","name":"recipient","type":"address"}],"name":"unwrapWETH9","outputs":[],"stateMutability":"payable","type":"function"}
]`

// ExactInputSingleSelector is the 4-byte selector of SwapRouter.exactInputSingle.
const ExactInputSingleSelector = "0x414bf389"

// MulticallDeadlineSelector is the 4-byte selector of SwapRouter02.multicall(uint256,bytes[]).
const MulticallDeadlineSelector = "0x5ae401dc"

// Router02AddressThis makes SwapRouter02 keep the output for a follow-up unwrap.
const Router02AddressThis = "0x0000000000000000000000000000000000000002"

var (
	parsedQuoterABI, parsedRouterABI, parsedRouter02ABI abi.ABI
	parsedUniswapOnce                                  sync.Once
)

func initUniswapABIs() {
	parsedUniswapOnce.Do(func() {
		parsedQuoterABI = mustParse("QuoterV2", quoterV2ABI)
		parsedRouterABI = mustParse("SwapRouter", swapRouterABI)
		parsedRouter02ABI = mustParse("SwapRouter02", swapRouter02ABI)
	})
}

type quoteExactInputSingleParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	AmountIn          *big.Int
	Fee               *big.Int
	SqrtPriceLimitX96 *big.Int
}

type exactInputSingleParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	Fee               *big.Int
	Recipient         common.Address
	Deadline          *big.Int
	AmountIn          *big.Int
	AmountOutMinimum  *big.Int
	SqrtPriceLimitX96 *big.Int
}

type exactInputSingleParams02 struct {
	TokenIn           common.Address
	TokenOut          common.Address
	Fee               *big.Int
	Recipient         common.Address
	AmountIn          *big.Int
	AmountOutMinimum  *big.Int
	SqrtPriceLimitX96 *big.Int
}

// Quote is a decoded QuoterV2 answer.
type Quote struct {
	AmountOut   *big.Int
	GasEstimate *big.Int
}

// EncodeQuoteExactInputSingle encodes a QuoterV2 quote request.
func EncodeQuoteExactInputSingle(tokenIn, tokenOut string, amountIn *big.Int, fee uint32) ([]byte, error) {
	initUniswapABIs()
	data, err := parsedQuoterABI.Pack("quoteExactInputSingle", quoteExactInputSingleParams{
		TokenIn:           common.HexToAddress(tokenIn),
		TokenOut:          common.HexToAddress(tokenOut),
		AmountIn:          amountIn,
		Fee:               new(big.Int).SetUint64(uint64(fee)),
		SqrtPriceLimitX96: big.NewInt(0),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode quoteExactInputSingle: %w", err)
	}
	return data, nil
}

// DecodeQuoteExactInputSingle decodes a QuoterV2 quote response.
func DecodeQuoteExactInputSingle(raw []byte) (Quote, error) {
	initUniswapABIs()
	out, err := parsedQuoterABI.Unpack("quoteExactInputSingle", raw)
	if err != nil {
		return Quote{}, fmt.Errorf("failed to decode quoteExactInputSingle: %w", err)
	}
	if len(out) != 4 {
		return Quote{}, fmt.Errorf("unexpected quote output length %d", len(out))
	}
	amountOut, ok := out[0].(*big.Int)
	if !ok {
		return Quote{}, fmt.Errorf("unexpected amountOut type %T", out[0])
	}
	gas, _ := out[3].(*big.Int)
	return Quote{AmountOut: amountOut, GasEstimate: gas}, nil
}

// ExactInputSingle describes a single-pool exact-input swap.
type ExactInputSingle struct {
	TokenIn          string
	TokenOut         string
	Fee              uint32
	Recipient        string
	Deadline         int64
	AmountIn         *big.Int
	AmountOutMinimum *big.Int
}

// EncodeExactInputSingle encodes exactInputSingle for the given router kind.
// SwapRouter02 has no deadline argument; wrap its call with EncodeMulticallWithDeadline.
func EncodeExactInputSingle(kind entity.SwapRouterKind, p ExactInputSingle) ([]byte, error) {
	initUniswapABIs()
	var (
		data []byte
		err  error
	)
	switch kind {
	case entity.SwapRouterV3_02:
		data, err = parsedRouter02ABI.Pack("exactInputSingle", exactInputSingleParams02{
			TokenIn:           common.HexToAddress(p.TokenIn),
			TokenOut:          common.HexToAddress(p.TokenOut),
			Fee:               new(big.Int).SetUint64(uint64(p.Fee)),
			Recipient:         common.HexToAddress(p.Recipient),
			AmountIn:          p.AmountIn,
			AmountOutMinimum:  p.AmountOutMinimum,
			SqrtPriceLimitX96: big.NewInt(0),
		})
	default:
		data, err = parsedRouterABI.Pack("exactInputSingle", exactInputSingleParams{
			TokenIn:           common.HexToAddress(p.TokenIn),
			TokenOut:          common.HexToAddress(p.TokenOut),
			Fee:               new(big.Int).SetUint64(uint64(p.Fee)),
			Recipient:         common.HexToAddress(p.Recipient),
			Deadline:          big.NewInt(p.Deadline),
			AmountIn:          p.AmountIn,
			AmountOutMinimum:  p.AmountOutMinimum,
			SqrtPriceLimitX96: big.NewInt(0),
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode exactInputSingle: %w", err)
	}
	return data, nil
}

// EncodeUnwrapWETH9 encodes unwrapWETH9(amountMinimum, recipient).
func EncodeUnwrapWETH9(amountMinimum *big.Int, recipient string) ([]byte, error) {
	initUniswapABIs()
	data, err := parsedRouterABI.Pack("unwrapWETH9", amountMinimum, common.HexToAddress(recipient))
	if err != nil {
		return nil, fmt.Errorf("failed to encode unwrapWETH9: %w", err)
	}
	return data, nil
}

// EncodeMulticall encodes multicall(bytes[]).
func EncodeMulticall(calls [][]byte) ([]byte, error) {
	initUniswapABIs()
	data, err := parsedRouterABI.Pack("multicall", calls)
	if err != nil {
		return nil, fmt.Errorf("failed to encode multicall: %w", err)
	}
	return data, nil
}

// EncodeMulticallWithDeadline encodes SwapRouter02's multicall(deadline, bytes[]), which
// reverts once the block timestamp passes deadline.
func EncodeMulticallWithDeadline(deadline int64, calls [][]byte) ([]byte, error) {
	initUniswapABIs()
	data, err := parsedRouter02ABI.Pack("multicall", big.NewInt(deadline), calls)
	if err != nil {
		return nil, fmt.Errorf("failed to encode multicall with deadline: %w", err)
	}
	return data, nil
}
