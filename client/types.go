package client

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Block is the subset of the Thor block summary used by the wallet.
type Block struct {
	Number      uint32         `json:"number"`
	ID          common.Hash    `json:"id"`
	Size        uint32         `json:"size"`
	ParentID    common.Hash    `json:"parentID"`
	Timestamp   uint64         `json:"timestamp"`
	GasLimit    uint64         `json:"gasLimit"`
	Beneficiary common.Address `json:"beneficiary"`
	GasUsed     uint64         `json:"gasUsed"`
	TotalScore  uint64         `json:"totalScore"`
	Signer      common.Address `json:"signer"`
	IsTrunk     bool           `json:"isTrunk"`
}

// Account holds VET balance and VTHO energy in wei.
type Account struct {
	Balance *hexutil.Big `json:"balance"`
	Energy  *hexutil.Big `json:"energy"`
	HasCode bool         `json:"hasCode"`
}

type ReceiptMeta struct {
	BlockID        common.Hash    `json:"blockID"`
	BlockNumber    uint32         `json:"blockNumber"`
	BlockTimestamp uint64         `json:"blockTimestamp"`
	TxID           common.Hash    `json:"txID"`
	TxOrigin       common.Address `json:"txOrigin"`
}

type Event struct {
	Address common.Address `json:"address"`
	Topics  []common.Hash  `json:"topics"`
	Data    hexutil.Bytes  `json:"data"`
}

type Transfer struct {
	Sender    common.Address `json:"sender"`
	Recipient common.Address `json:"recipient"`
	Amount    *hexutil.Big   `json:"amount"`
}

type Output struct {
	ContractAddress *common.Address `json:"contractAddress"`
	Events          []Event         `json:"events"`
	Transfers       []Transfer      `json:"transfers"`
}

// Receipt is returned once a transaction has been included in a block.
type Receipt struct {
	GasUsed  uint64         `json:"gasUsed"`
	GasPayer common.Address `json:"gasPayer"`
	Paid     *hexutil.Big   `json:"paid"`
	Reward   *hexutil.Big   `json:"reward"`
	Reverted bool           `json:"reverted"`
	Meta     ReceiptMeta    `json:"meta"`
	Outputs  []Output       `json:"outputs"`
}

type rawTxRequest struct {
	Raw string `json:"raw"`
}

type txIDResponse struct {
	ID common.Hash `json:"id"`
}
