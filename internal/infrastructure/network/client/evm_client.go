package client

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"aura_gateway/internal/app/port"
	"aura_gateway/internal/domain/entity"
	"aura_gateway/internal/infrastructure/contracts"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// EVMClient implements the port.BlockchainClient interface for EVM-compatible chains.
type EVMClient struct {
	ethClient      *ethclient.Client
	rpcCallTimeout time.Duration
}

// NewEVMClient dials the primary RPC endpoint of the network, then the fallbacks in order.
func NewEVMClient(ctx context.Context, netDef entity.NetworkDefinition, connectionTimeout time.Duration, rpcCallTimeout time.Duration) (*EVMClient, error) {
	rpcURLs := append([]string{netDef.PrimaryRPCURL}, netDef.FallbackRPCURLs...)
	var lastErr error

	for _, rpcURL := range rpcURLs {
		if rpcURL == "" {
			continue
		}
		dialCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
		client, err := ethclient.DialContext(dialCtx, rpcURL)
		cancel()

		if err == nil {
			return &EVMClient{ethClient: client, rpcCallTimeout: rpcCallTimeout}, nil
		}
		lastErr = fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
	}
	if lastErr == nil {
		lastErr = errors.New("no RPC endpoints configured")
	}

	return nil, fmt.Errorf("all RPC connection attempts failed for network %s: %w", netDef.Name, lastErr)
}

func (c *EVMClient) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.rpcCallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.rpcCallTimeout)
}

func callArgs(to common.Address, data []byte) map[string]interface{} {
	return map[string]interface{}{
		"to":   to,
		"data": hexutil.Bytes(data),
	}
}

// ReadTokenMetadata reads decimals, symbol and name with a single JSON-RPC batch.
func (c *EVMClient) ReadTokenMetadata(ctx context.Context, tokenAddress string) (port.TokenMetadataResult, error) {
	token := common.HexToAddress(tokenAddress)
	methods := []string{"decimals", "symbol", "name"}
	batchElems := make([]rpc.BatchElem, len(methods))
	for i, method := range methods {
		data, err := contracts.ERC20().Pack(method)
		if err != nil {
			return port.TokenMetadataResult{}, fmt.Errorf("failed to pack %s call: %w", method, err)
		}
		batchElems[i] = rpc.BatchElem{
			Method: "eth_call",
			Args:   []interface{}{callArgs(token, data), "latest"},
			Result: new(hexutil.Bytes),
		}
	}

	rpcCallCtx, cancel := c.callContext(ctx)
	defer cancel()
	if err := c.ethClient.Client().BatchCallContext(rpcCallCtx, batchElems); err != nil {
		return port.TokenMetadataResult{}, fmt.Errorf("RPC batch call failed: %w", err)
	}

	var res port.TokenMetadataResult
	if raw, err := elemBytes(batchElems[0]); err != nil {
		res.DecimalsErr = err
	} else if out, err := contracts.ERC20().Unpack("decimals", raw); err != nil || len(out) == 0 {
		res.DecimalsErr = fmt.Errorf("failed to unpack decimals: %v", err)
	} else if v, ok := out[0].(uint8); ok {
		res.Decimals = v
	} else {
		res.DecimalsErr = fmt.Errorf("unexpected decimals type %T", out[0])
	}

	res.Symbol, res.SymbolErr = unpackString(batchElems[1], "symbol")
	res.Name, res.NameErr = unpackString(batchElems[2], "name")
	return res, nil
}

func elemBytes(elem rpc.BatchElem) ([]byte, error) {
	if elem.Error != nil {
		return nil, elem.Error
	}
	raw, ok := elem.Result.(*hexutil.Bytes)
	if !ok || raw == nil || len(*raw) == 0 {
		return nil, errors.New("empty call result")
	}
	return *raw, nil
}

func unpackString(elem rpc.BatchElem, method string) (string, error) {
	raw, err := elemBytes(elem)
	if err != nil {
		return "", err
	}
	out, err := contracts.ERC20().Unpack(method, raw)
	if err != nil || len(out) == 0 {
		return "", fmt.Errorf("failed to unpack %s: %v", method, err)
	}
	s, ok := out[0].(string)
	if !ok {
		return "", fmt.Errorf("unexpected %s type %T", method, out[0])
	}
	return s, nil
}

// GetBalances fetches multiple balances using JSON-RPC batch requests.
func (c *EVMClient) GetBalances(ctx context.Context, requests []entity.BalanceRequestItem) ([]entity.BalanceResultItem, error) {
	if len(requests) == 0 {
		return []entity.BalanceResultItem{}, nil
	}

	batchElems := make([]rpc.BatchElem, len(requests))
	results := make([]entity.BalanceResultItem, len(requests))

	for i, reqItem := range requests {
		results[i] = entity.BalanceResultItem{
			RequestID:    reqItem.ID,
			TokenAddress: reqItem.TokenAddress,
			TokenSymbol:  reqItem.TokenSymbol,
			Decimals:     reqItem.TokenDecimals,
			IsNative:     reqItem.Type == entity.NativeBalanceRequest,
		}

		switch reqItem.Type {
		case entity.NativeBalanceRequest:
			batchElems[i] = rpc.BatchElem{
				Method: "eth_getBalance",
				Args:   []interface{}{common.HexToAddress(reqItem.WalletAddress), "latest"},
				Result: new(*hexutil.Big),
			}
		case entity.TokenBalanceRequest:
			callData, err := contracts.ERC20().Pack("balanceOf", common.HexToAddress(reqItem.WalletAddress))
			if err != nil {
				return nil, fmt.Errorf("failed to pack balanceOf call: %w", err)
			}
			batchElems[i] = rpc.BatchElem{
				Method: "eth_call",
				Args:   []interface{}{callArgs(common.HexToAddress(reqItem.TokenAddress), callData), "latest"},
				Result: new(hexutil.Bytes),
			}
		default:
			return nil, fmt.Errorf("unknown balance request type: %v for %s", reqItem.Type, reqItem.TokenSymbol)
		}
	}

	rpcCallCtx, cancel := c.callContext(ctx)
	defer cancel()

	if err := c.ethClient.Client().BatchCallContext(rpcCallCtx, batchElems); err != nil {
		return results, fmt.Errorf("RPC batch call failed: %w", err)
	}

	for i, elem := range batchElems {
		if elem.Error != nil {
			results[i].Error = fmt.Errorf("failed to fetch %s balance for %s: %w",
				requests[i].TokenSymbol, requests[i].WalletAddress, elem.Error)
			continue
		}

		switch requests[i].Type {
		case entity.NativeBalanceRequest:
			if result, ok := elem.Result.(**hexutil.Big); ok && result != nil && *result != nil {
				results[i].Balance = (*big.Int)(*result)
			} else {
				results[i].Error = fmt.Errorf("failed to decode native balance for %s: unexpected type or nil result", requests[i].TokenSymbol)
			}
		case entity.TokenBalanceRequest:
			result, ok := elem.Result.(*hexutil.Bytes)
			if !ok || result == nil {
				results[i].Error = fmt.Errorf("failed to decode token balance for %s: unexpected type or nil result", requests[i].TokenSymbol)
				continue
			}
			if len(*result) == 0 {
				results[i].Balance = big.NewInt(0)
				continue
			}
			unpacked, err := contracts.ERC20().Unpack("balanceOf", *result)
			if err != nil || len(unpacked) == 0 {
				results[i].Error = fmt.Errorf("failed to unpack balanceOf result for %s: %v. Raw: %s", requests[i].TokenSymbol, err, hexutil.Encode(*result))
				continue
			}
			balanceVal, ok := unpacked[0].(*big.Int)
			if !ok {
				results[i].Error = fmt.Errorf("failed to assert unpacked balanceOf result to *big.Int for %s. Got: %T", requests[i].TokenSymbol, unpacked[0])
				continue
			}
			results[i].Balance = balanceVal
		}
	}
	return results, nil
}

func toCallMsg(msg port.CallMsg) ethereum.CallMsg {
	call := ethereum.CallMsg{Data: msg.Data, Value: msg.Value}
	if msg.From != "" {
		call.From = common.HexToAddress(msg.From)
	}
	if msg.To != "" {
		to := common.HexToAddress(msg.To)
		call.To = &to
	}
	return call
}

// EstimateGas asks the node for the gas a call would use.
func (c *EVMClient) EstimateGas(ctx context.Context, msg port.CallMsg) (uint64, error) {
	rpcCallCtx, cancel := c.callContext(ctx)
	defer cancel()
	gas, err := c.ethClient.EstimateGas(rpcCallCtx, toCallMsg(msg))
	if err != nil {
		return 0, fmt.Errorf("eth_estimateGas failed: %w", err)
	}
	return gas, nil
}

// SuggestGasPrice returns the legacy gas price.
func (c *EVMClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	rpcCallCtx, cancel := c.callContext(ctx)
	defer cancel()
	price, err := c.ethClient.SuggestGasPrice(rpcCallCtx)
	if err != nil {
		return nil, fmt.Errorf("eth_gasPrice failed: %w", err)
	}
	return price, nil
}

// SuggestGasTipCap returns the suggested EIP-1559 priority fee.
func (c *EVMClient) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	rpcCallCtx, cancel := c.callContext(ctx)
	defer cancel()
	tip, err := c.ethClient.SuggestGasTipCap(rpcCallCtx)
	if err != nil {
		return nil, fmt.Errorf("eth_maxPriorityFeePerGas failed: %w", err)
	}
	return tip, nil
}

// LatestBaseFee returns the base fee of the latest block, nil before London.
func (c *EVMClient) LatestBaseFee(ctx context.Context) (*big.Int, error) {
	rpcCallCtx, cancel := c.callContext(ctx)
	defer cancel()
	header, err := c.ethClient.HeaderByNumber(rpcCallCtx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest header: %w", err)
	}
	return header.BaseFee, nil
}

// CallContract executes a read-only call against the latest block.
func (c *EVMClient) CallContract(ctx context.Context, msg port.CallMsg) ([]byte, error) {
	rpcCallCtx, cancel := c.callContext(ctx)
	defer cancel()
	out, err := c.ethClient.CallContract(rpcCallCtx, toCallMsg(msg), nil)
	if err != nil {
		return nil, fmt.Errorf("eth_call failed: %w", err)
	}
	return out, nil
}

// TransactionReceipt fetches the receipt of a mined transaction.
func (c *EVMClient) TransactionReceipt(ctx context.Context, txHash string) (entity.Receipt, error) {
	rpcCallCtx, cancel := c.callContext(ctx)
	defer cancel()
	receipt, err := c.ethClient.TransactionReceipt(rpcCallCtx, common.HexToHash(txHash))
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return entity.Receipt{}, fmt.Errorf("receipt for %s: %w", txHash, entity.ErrNotFound)
		}
		return entity.Receipt{}, fmt.Errorf("eth_getTransactionReceipt failed: %w", err)
	}

	out := entity.Receipt{
		TxHash:  receipt.TxHash.Hex(),
		Status:  receipt.Status,
		GasUsed: receipt.GasUsed,
	}
	if receipt.BlockNumber != nil {
		out.BlockNumber = receipt.BlockNumber.Uint64()
	}
	if receipt.EffectiveGasPrice != nil {
		out.EffectiveGasPrice = receipt.EffectiveGasPrice.String()
	}
	return out, nil
}

// BlockNumber returns the latest block number.
func (c *EVMClient) BlockNumber(ctx context.Context) (uint64, error) {
	rpcCallCtx, cancel := c.callContext(ctx)
	defer cancel()
	n, err := c.ethClient.BlockNumber(rpcCallCtx)
	if err != nil {
		return 0, fmt.Errorf("eth_blockNumber failed: %w", err)
	}
	return n, nil
}
