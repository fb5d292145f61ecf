package restapi

import (
	"fmt"
	"io"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"aura_gateway/internal/app/port"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	// a decimal optionally followed by a unit, as in "1.5 ETH" or ".5"
	amountPattern = regexp.MustCompile(`^(\d*\.?\d+)\s*[A-Za-z]*$`)
	// exponent form, which is how JSON numbers such as 1e-3 arrive
	exponentPattern = regexp.MustCompile(`^(\d*\.?\d+)[eE]([-+]?\d{1,2})$`)
)

// NetworkRegistry is the part of the network registry the handlers need.
type NetworkRegistry interface {
	port.NetworkDefinitionProvider
	NormalizeNetwork(name string) string
}

// inputAdapter maps the loose field names that chat clients and wallets send onto the
// request shapes the handlers validate.
type inputAdapter struct {
	networks      NetworkRegistry
	defaultWallet string
}

type rawInput map[string]any

// decodeRawInput reads a JSON object, keeping numbers as written.
func decodeRawInput(body io.Reader) (rawInput, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()
	var raw rawInput
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("request body must be a JSON object")
	}
	return raw, nil
}

// first returns the first non-empty value among keys, stringified.
func (r rawInput) first(keys ...string) string {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		if s := strings.TrimSpace(stringify(v)); s != "" {
			return s
		}
	}
	return ""
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case fmt.Stringer:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func (a inputAdapter) network(r rawInput) string {
	n := r.first("network", "chain", "chainName")
	if n == "" {
		return ""
	}
	return a.networks.NormalizeNetwork(n)
}

func (a inputAdapter) wallet(r rawInput) string {
	if w := r.first("fromAddress", "walletAddress", "from", "address"); w != "" {
		return w
	}
	return a.defaultWallet
}

// amount normalizes an amount to a plain decimal. A trailing unit is dropped and the
// exponent form is expanded. Anything else, such as "-1" or "1,000", is returned as
// sent and fails the "decimal" validation.
func amount(s string) string {
	s = strings.TrimSpace(s)
	if m := exponentPattern.FindStringSubmatch(s); m != nil {
		return expandExponent(m[1], m[2])
	}
	m := amountPattern.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	if strings.HasPrefix(m[1], ".") {
		return "0" + m[1]
	}
	return m[1]
}

// expandExponent writes mantissa*10^exp without an exponent.
func expandExponent(mantissa, exp string) string {
	r, ok := new(big.Rat).SetString(mantissa + "e" + exp)
	if !ok {
		return mantissa + "e" + exp
	}
	e, _ := strconv.Atoi(exp)
	scale := 0
	if i := strings.Index(mantissa, "."); i >= 0 {
		scale = len(mantissa) - i - 1
	}
	scale -= e
	if scale <= 0 {
		return r.FloatString(0)
	}
	out := strings.TrimRight(r.FloatString(scale), "0")
	return strings.TrimSuffix(out, ".")
}

func slippage(s string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
}

type actionInput struct {
	Operation   string `json:"operation" validate:"required,oneof=swap stake bridge"`
	Platform    string `json:"platform"`
	Network     string `json:"network" validate:"required,network"`
	TokenIn     string `json:"tokenIn" validate:"required"`
	TokenOut    string `json:"tokenOut" validate:"required_unless=Operation stake"`
	AmountIn    string `json:"amountIn" validate:"required,decimal"`
	FromAddress string `json:"fromAddress" validate:"required,evmaddress"`
	Slippage    string `json:"slippage" validate:"omitempty,decimal"`
	Deadline    int64  `json:"deadline" validate:"omitempty,gt=0"`
}

func (a inputAdapter) action(r rawInput) (actionInput, error) {
	in := actionInput{
		Operation:   strings.ToLower(r.first("operation", "action", "type")),
		Platform:    r.first("platform", "protocol"),
		Network:     a.network(r),
		TokenIn:     r.first("tokenIn", "fromToken", "token"),
		TokenOut:    r.first("tokenOut", "toToken", "destinationNetwork", "toNetwork"),
		AmountIn:    amount(r.first("amountIn", "amount")),
		FromAddress: a.wallet(r),
		Slippage:    slippage(r.first("slippage")),
	}
	if d := r.first("deadline"); d != "" {
		v, err := strconv.ParseInt(d, 10, 64)
		if err != nil {
			return in, fmt.Errorf("deadline must be unix seconds: %w", err)
		}
		in.Deadline = v
	}
	if in.Operation == "bridge" && in.TokenOut != "" {
		in.TokenOut = a.networks.NormalizeNetwork(in.TokenOut)
	}
	return in, nil
}

type transferInput struct {
	FromAddress string `json:"fromAddress" validate:"required,evmaddress"`
	ToAddress   string `json:"toAddress" validate:"required,evmaddress"`
	Token       string `json:"token" validate:"required"`
	Amount      string `json:"amount" validate:"required,decimal"`
	Network     string `json:"network" validate:"required,network"`
	Memo        string `json:"memo" validate:"max=256"`
}

func (a inputAdapter) transfer(r rawInput) transferInput {
	return transferInput{
		FromAddress: a.wallet(r),
		ToAddress:   r.first("toAddress", "to", "recipient", "targetAddress"),
		Token:       r.first("token", "tokenSymbol", "tokenAddress", "tokenIn"),
		Amount:      amount(r.first("amount", "amountIn", "value")),
		Network:     a.network(r),
		Memo:        r.first("memo", "note"),
	}
}

type signRequestInput struct {
	ActionID        string         `json:"actionId"`
	Operation       string         `json:"operation" validate:"omitempty,oneof=swap stake bridge transfer"`
	FromAddress     string         `json:"fromAddress" validate:"omitempty,evmaddress"`
	Network         string         `json:"network" validate:"omitempty,network"`
	Platform        string         `json:"platform"`
	TokenIn         string         `json:"tokenIn"`
	TokenOut        string         `json:"tokenOut"`
	AmountIn        string         `json:"amountIn" validate:"omitempty,decimal"`
	TargetAddress   string         `json:"targetAddress" validate:"omitempty,evmaddress"`
	Slippage        string         `json:"slippage" validate:"omitempty,decimal"`
	UserCallbackURL string         `json:"userCallbackUrl" validate:"omitempty,url"`
	Metadata        map[string]any `json:"metadata"`
}

func (a inputAdapter) signRequest(r rawInput) signRequestInput {
	in := signRequestInput{
		ActionID:        r.first("actionId"),
		Operation:       strings.ToLower(r.first("operation", "action", "type")),
		FromAddress:     a.wallet(r),
		Network:         a.network(r),
		Platform:        r.first("platform", "protocol"),
		TokenIn:         r.first("tokenIn", "fromToken", "token", "tokenSymbol"),
		TokenOut:        r.first("tokenOut", "toToken", "destinationNetwork"),
		AmountIn:        amount(r.first("amountIn", "amount")),
		TargetAddress:   r.first("targetAddress", "toAddress", "recipient", "to"),
		Slippage:        slippage(r.first("slippage")),
		UserCallbackURL: r.first("userCallbackUrl", "callbackUrl"),
	}
	if md, ok := r["metadata"].(map[string]any); ok {
		in.Metadata = md
	}
	if in.Operation == "bridge" && in.TokenOut != "" {
		in.TokenOut = a.networks.NormalizeNetwork(in.TokenOut)
	}
	return in
}

// missingSignFields lists the fields a sign request needs when it does not name an action.
func (in signRequestInput) missingSignFields() []string {
	if in.ActionID != "" {
		return nil
	}
	var missing []string
	if in.Operation == "" {
		missing = append(missing, "operation")
	}
	if in.FromAddress == "" {
		missing = append(missing, "fromAddress")
	}
	if in.Network == "" {
		missing = append(missing, "network")
	}
	return missing
}
