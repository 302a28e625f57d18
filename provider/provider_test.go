package provider

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mezonai/vewallet/client"
	"github.com/mezonai/vewallet/errors"
	"github.com/mezonai/vewallet/pkg/wallet"
)

const keyOne = "0000000000000000000000000000000000000000000000000000000000000001"

type recordingBackend struct {
	methods []string
	answer  interface{}
}

func (b *recordingBackend) Request(_ context.Context, args RequestArguments, result interface{}) error {
	b.methods = append(b.methods, args.Method)
	return assign(b.answer, result)
}

func newKeyProvider(t *testing.T, backend Provider) *KeyProvider {
	t.Helper()
	w, err := wallet.FromHex(keyOne)
	require.NoError(t, err)
	return NewKeyProvider(w, "0x27", backend)
}

func TestKeyProvider_LocalMethods(t *testing.T) {
	backend := &recordingBackend{}
	p := newKeyProvider(t, backend)
	ctx := context.Background()

	var accounts []string
	require.NoError(t, p.Request(ctx, RequestArguments{Method: MethodAccounts}, &accounts))
	assert.Equal(t, []string{"0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf"}, accounts)

	accounts = nil
	require.NoError(t, p.Request(ctx, RequestArguments{Method: MethodRequestAccounts}, &accounts))
	assert.Len(t, accounts, 1)

	var chainID string
	require.NoError(t, p.Request(ctx, RequestArguments{Method: MethodChainID}, &chainID))
	assert.Equal(t, "0x27", chainID)

	var key string
	require.NoError(t, p.Request(ctx, RequestArguments{Method: MethodPrivateKey}, &key))
	assert.Equal(t, keyOne, key)

	assert.Empty(t, backend.methods)
}

func TestKeyProvider_ForwardsToBackend(t *testing.T) {
	backend := &recordingBackend{answer: "0xde0b6b3a7640000"}
	p := newKeyProvider(t, backend)

	var balance string
	err := p.Request(context.Background(), RequestArguments{
		Method: MethodGetBalance,
		Params: []interface{}{"0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf", "latest"},
	}, &balance)
	require.NoError(t, err)
	assert.Equal(t, "0xde0b6b3a7640000", balance)
	assert.Equal(t, []string{MethodGetBalance}, backend.methods)
}

func TestKeyProvider_NoBackend(t *testing.T) {
	p := newKeyProvider(t, nil)
	err := p.Request(context.Background(), RequestArguments{Method: MethodGetBalance}, nil)
	assert.Error(t, err)
}

type fakeChain struct {
	account *client.Account
	best    *client.Block
	genesis *client.Block
	asked   []common.Address
}

func (f *fakeChain) Genesis(context.Context) (*client.Block, error)   { return f.genesis, nil }
func (f *fakeChain) BestBlock(context.Context) (*client.Block, error) { return f.best, nil }
func (f *fakeChain) Account(_ context.Context, addr common.Address) (*client.Account, error) {
	f.asked = append(f.asked, addr)
	return f.account, nil
}
func (f *fakeChain) Receipt(context.Context, common.Hash) (*client.Receipt, error) { return nil, nil }
func (f *fakeChain) SendRawTransaction(context.Context, string) (common.Hash, error) {
	return common.Hash{}, nil
}

func TestThorBackend(t *testing.T) {
	chain := &fakeChain{
		account: &client.Account{Balance: (*hexutil.Big)(hexutil.MustDecodeBig("0xde0b6b3a7640000"))},
		best:    &client.Block{Number: 300},
		genesis: &client.Block{ID: common.HexToHash("0x000000000b2bce3c70bc649a02749e8687721b09ed2e15997f466536b20bb127")},
	}
	b := NewThorBackend(chain)
	ctx := context.Background()

	var balance string
	require.NoError(t, b.Request(ctx, RequestArguments{
		Method: MethodGetBalance,
		Params: []interface{}{"0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf", "latest"},
	}, &balance))
	assert.Equal(t, "0xde0b6b3a7640000", balance)
	assert.Equal(t, []common.Address{common.HexToAddress("0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf")}, chain.asked)

	var number string
	require.NoError(t, b.Request(ctx, RequestArguments{Method: MethodBlockNumber}, &number))
	assert.Equal(t, "0x12c", number)

	var chainID string
	require.NoError(t, b.Request(ctx, RequestArguments{Method: MethodChainID}, &chainID))
	assert.Equal(t, "0x27", chainID)

	err := b.Request(ctx, RequestArguments{Method: MethodGetBalance, Params: []interface{}{"nope"}}, &balance)
	assert.True(t, errors.Is(err, errors.ErrInvalidAddress))

	err = b.Request(ctx, RequestArguments{Method: "eth_sendTransaction"}, nil)
	assert.Error(t, err)
}
