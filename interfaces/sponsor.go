package interfaces

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// Sponsor co-signs a delegated transaction for origin. raw is the 0x-prefixed
// unsigned encoding; the result is the 65 byte sponsor signature.
type Sponsor interface {
	Sponsor(ctx context.Context, origin common.Address, raw string) ([]byte, error)
}
