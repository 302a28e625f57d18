package transaction

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mezonai/vewallet/errors"
	"github.com/mezonai/vewallet/pkg/wallet"
)

// Reference body shared with the thor-devkit test suite.
func referenceTx() *Transaction {
	to := common.HexToAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	data, _ := hex.DecodeString("000000606060")
	return &Transaction{
		ChainTag:   1,
		BlockRef:   0x00000000aabbccdd,
		Expiration: 32,
		Clauses: []*Clause{
			{To: &to, Value: big.NewInt(10000), Data: data},
			{To: &to, Value: big.NewInt(20000), Data: data},
		},
		GasPriceCoef: 128,
		Gas:          21000,
		Nonce:        12345678,
	}
}

func TestEncodeUnsigned_ReferenceVector(t *testing.T) {
	tx := referenceTx()

	raw, err := tx.EncodeUnsigned()
	require.NoError(t, err)
	assert.Equal(t,
		"f8540184aabbccdd20f840df947567d83b7b8d80addcb281a71d54fc7b3364ffed82271086000000606060df947567d83b7b8d80addcb281a71d54fc7b3364ffed824e208600000060606081808252088083bc614ec0",
		hex.EncodeToString(raw))

	hash, err := tx.SigningHash()
	require.NoError(t, err)
	assert.Equal(t, "0x2a1c25ce0d66f45276a5f308b99bf410e2fc7d5b6ea37a49f2ab9f1da9446478", hash.Hex())
}

func TestEncodeUnsigned_DelegatedReferenceVector(t *testing.T) {
	tx := referenceTx()
	tx.Features.SetDelegated(true)

	raw, err := tx.EncodeUnsigned()
	require.NoError(t, err)
	assert.Equal(t,
		"f8550184aabbccdd20f840df947567d83b7b8d80addcb281a71d54fc7b3364ffed82271086000000606060df947567d83b7b8d80addcb281a71d54fc7b3364ffed824e208600000060606081808252088083bc614ec101",
		hex.EncodeToString(raw))

	hash, err := tx.SigningHash()
	require.NoError(t, err)
	assert.Equal(t, "0x005fb0b47dfd16b7f2f61bb17df791242bc37ed1fffe9b05fa55fb0fe069f9a3", hash.Hex())
}

func TestFeatures(t *testing.T) {
	var f Features
	assert.False(t, f.IsDelegated())
	f.SetDelegated(true)
	assert.True(t, f.IsDelegated())
	assert.Equal(t, DelegationFeature, f)
	f.SetDelegated(false)
	assert.Equal(t, Features(0), f)
}

func TestChainTagAndBlockRef(t *testing.T) {
	genesis := common.HexToHash("0x000000000b2bce3c70bc649a02749e8687721b09ed2e15997f466536b20bb127")
	assert.Equal(t, byte(0x27), ChainTagFromGenesis(genesis))

	head := common.HexToHash("0x00a1b2c3d4e5f6071122334455667788990011223344556677889900aabbccdd")
	assert.Equal(t, uint64(0x00a1b2c3d4e5f607), BlockRefFromID(head))
}

func delegatedTransfer(t *testing.T) *Transaction {
	t.Helper()
	contract := common.HexToAddress("0x0000000000000000000000000000456E65726779")
	to := common.HexToAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")
	clause, err := NewTransferClause(contract, to, uint256.NewInt(1000))
	require.NoError(t, err)

	tx, err := NewBuilder().
		ChainTag(0x27).
		BlockRef(42).
		Expiration(32).
		Clause(clause).
		Gas(100000).
		Nonce(1700000000000).
		Delegated(true).
		Build()
	require.NoError(t, err)
	return tx
}

func TestBuilder_SingleClauseWithDelegation(t *testing.T) {
	tx := delegatedTransfer(t)
	assert.Len(t, tx.Clauses, 1)
	assert.True(t, tx.IsDelegated())
	assert.Nil(t, tx.DependsOn)
	assert.Empty(t, tx.Signature)
}

func TestBuilder_RejectsClauseCount(t *testing.T) {
	_, err := NewBuilder().Gas(21000).Build()
	assert.True(t, errors.Is(err, ErrClauseCount))

	c := &Clause{Value: big.NewInt(1)}
	_, err = NewBuilder().Gas(21000).Clause(c).Clause(c).Build()
	assert.True(t, errors.Is(err, ErrClauseCount))
}

func TestBuilder_RejectsZeroGas(t *testing.T) {
	_, err := NewBuilder().Clause(&Clause{Value: big.NewInt(1)}).Build()
	assert.Error(t, err)
}

func TestDelegatedSignature_RecoversOriginAndDelegator(t *testing.T) {
	origin, err := wallet.NewWallet()
	require.NoError(t, err)
	sponsor, err := wallet.NewWallet()
	require.NoError(t, err)

	tx := delegatedTransfer(t)
	signingHash, err := tx.SigningHash()
	require.NoError(t, err)
	originSig, err := origin.Sign(signingHash[:])
	require.NoError(t, err)

	delegatorHash, err := tx.DelegatorSigningHash(origin.Address())
	require.NoError(t, err)
	sponsorSig, err := sponsor.Sign(delegatorHash[:])
	require.NoError(t, err)

	tx.Signature = append(append([]byte{}, originSig...), sponsorSig...)

	gotOrigin, err := tx.Origin()
	require.NoError(t, err)
	assert.Equal(t, origin.Address(), gotOrigin)

	gotDelegator, err := tx.Delegator()
	require.NoError(t, err)
	require.NotNil(t, gotDelegator)
	assert.Equal(t, sponsor.Address(), *gotDelegator)

	id, err := tx.ID()
	require.NoError(t, err)
	assert.Equal(t, delegatorHash, id)

	raw, err := tx.Encode()
	require.NoError(t, err)
	decoded, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, tx.Signature, decoded.Signature)
	assert.True(t, decoded.IsDelegated())
	decodedID, err := decoded.ID()
	require.NoError(t, err)
	assert.Equal(t, id, decodedID)
}

func TestDelegator_RequiresBothSignatures(t *testing.T) {
	tx := delegatedTransfer(t)
	tx.Signature = make([]byte, wallet.SignatureLength)
	_, err := tx.Delegator()
	assert.True(t, errors.Is(err, errors.ErrInvalidSignature))

	tx.Features = 0
	d, err := tx.Delegator()
	assert.NoError(t, err)
	assert.Nil(t, d)
}

func TestOrigin_Unsigned(t *testing.T) {
	_, err := delegatedTransfer(t).Origin()
	assert.True(t, errors.Is(err, errors.ErrInvalidSignature))
}

func TestDecodeHex_UnsignedRoundTrip(t *testing.T) {
	tx := delegatedTransfer(t)
	raw, err := tx.EncodeHex()
	require.NoError(t, err)

	decoded, err := DecodeHex(raw)
	require.NoError(t, err)
	assert.Empty(t, decoded.Signature)
	require.Len(t, decoded.Clauses, 1)
	assert.Equal(t, *tx.Clauses[0].To, *decoded.Clauses[0].To)

	want, _ := tx.SigningHash()
	got, _ := decoded.SigningHash()
	assert.Equal(t, want, got)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode([]byte{0xc0})
	assert.Error(t, err)

	_, err = DecodeHex("not-hex")
	assert.Error(t, err)
}
