package transaction

import (
	"encoding/hex"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mezonai/vewallet/errors"
)

func TestNewTransferClause(t *testing.T) {
	contract := common.HexToAddress("0x0000000000000000000000000000456E65726779")
	to := common.HexToAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")

	clause, err := NewTransferClause(contract, to, uint256.NewInt(1000))
	require.NoError(t, err)

	require.NotNil(t, clause.To)
	assert.Equal(t, contract, *clause.To)
	assert.Equal(t, int64(0), clause.Value.Int64())
	assert.Equal(t,
		"a9059cbb"+
			"0000000000000000000000007567d83b7b8d80addcb281a71d54fc7b3364ffed"+
			"00000000000000000000000000000000000000000000000000000000000003e8",
		hex.EncodeToString(clause.Data))

	gotTo, gotAmount, err := DecodeTransferCall(clause.Data)
	require.NoError(t, err)
	assert.Equal(t, to, gotTo)
	assert.Equal(t, int64(1000), gotAmount.Int64())
}

func TestNewTransferClause_NilAmount(t *testing.T) {
	_, err := NewTransferClause(common.Address{}, common.Address{}, nil)
	assert.True(t, errors.Is(err, errors.ErrInvalidAmount))
}

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress(" 0x7567d83b7b8d80addcb281a71d54fc7b3364ffed ")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed"), addr)

	for _, bad := range []string{"", "0x1234", "7567d83b7b8d80addcb281a71d54fc7b3364ffed", "0xzz67d83b7b8d80addcb281a71d54fc7b3364ffed"} {
		_, err := ParseAddress(bad)
		assert.True(t, errors.Is(err, errors.ErrInvalidAddress), bad)
	}
}
