package transaction

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/mezonai/vewallet/errors"
)

// vip180ABI is the subset of the VIP-180 (ERC-20 compatible) token interface used here.
const vip180ABI = `[
	{"constant":false,"inputs":[{"name":"_to","type":"address"},{"name":"_amount","type":"uint256"}],"name":"transfer","outputs":[{"name":"success","type":"bool"}],"payable":false,"stateMutability":"nonpayable","type":"function"},
	{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}
]`

var tokenABI = mustParseABI(vip180ABI)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}

// NewTransferClause builds a clause calling transfer(to, amount) on the token
// contract. The clause carries no VET value.
func NewTransferClause(contract, to common.Address, amount *uint256.Int) (*Clause, error) {
	if amount == nil {
		return nil, errors.Wrap(errors.ErrInvalidAmount, "amount is required")
	}
	data, err := tokenABI.Pack("transfer", to, amount.ToBig())
	if err != nil {
		return nil, errors.Wrap(err, "pack transfer call")
	}
	c := contract
	return &Clause{
		To:    &c,
		Value: new(big.Int),
		Data:  data,
	}, nil
}

// DecodeTransferCall unpacks the recipient and amount from transfer call data.
func DecodeTransferCall(data []byte) (common.Address, *big.Int, error) {
	method, err := tokenABI.MethodById(data)
	if err != nil {
		return common.Address{}, nil, errors.Wrap(err, "unknown method")
	}
	if method.Name != "transfer" {
		return common.Address{}, nil, errors.Errorf("unexpected method %s", method.Name)
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil {
		return common.Address{}, nil, errors.Wrap(err, "unpack transfer call")
	}
	to, ok := args[0].(common.Address)
	if !ok {
		return common.Address{}, nil, errors.New("unexpected recipient type")
	}
	amount, ok := args[1].(*big.Int)
	if !ok {
		return common.Address{}, nil, errors.New("unexpected amount type")
	}
	return to, amount, nil
}

// ParseAddress validates and parses a 0x-prefixed 20 byte hex address.
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) || !strings.HasPrefix(strings.ToLower(s), "0x") {
		return common.Address{}, errors.Wrapf(errors.ErrInvalidAddress, "%q", s)
	}
	return common.HexToAddress(s), nil
}
