package errors

import (
	"strconv"

	pkgerrors "github.com/pkg/errors"

	"github.com/mezonai/vewallet/jsonx"
)

// WalletErrorCode represents standardized error codes surfaced to users and RPC callers
type WalletErrorCode string

const (
	// General errors
	ErrCodeInternal WalletErrorCode = "internal_error"

	// Session errors
	ErrCodeProviderNotInitialized WalletErrorCode = "provider_not_initialized"
	ErrCodeNotConnected           WalletErrorCode = "not_connected"
	ErrCodeModalNotInitialized    WalletErrorCode = "modal_not_initialized"
	ErrCodeUserCancelled          WalletErrorCode = "user_cancelled"
	ErrCodeLoginFailed            WalletErrorCode = "login_failed"
	ErrCodeKeyUnavailable         WalletErrorCode = "key_unavailable"

	// Validation errors
	ErrCodeInvalidRequest   WalletErrorCode = "invalid_request"
	ErrCodeInvalidAddress   WalletErrorCode = "invalid_address"
	ErrCodeInvalidAmount    WalletErrorCode = "invalid_amount"
	ErrCodeInvalidSignature WalletErrorCode = "invalid_signature"

	// Chain errors
	ErrCodeSponsorRejected WalletErrorCode = "sponsor_rejected"
	ErrCodeSubmitFailed    WalletErrorCode = "submit_failed"
	ErrCodeReceiptTimeout  WalletErrorCode = "receipt_timeout"
	ErrCodeNetworkMismatch WalletErrorCode = "network_mismatch"
)

// Error message constants - user-facing and concise
const (
	ErrMsgProviderNotInitialized = "provider not initialized yet"
	ErrMsgNotConnected           = "wallet is not connected"
	ErrMsgModalNotInitialized    = "login modal is not initialized"
	ErrMsgUserCancelled          = "login cancelled by user"
	ErrMsgLoginFailed            = "login failed, please try again"
	ErrMsgKeyUnavailable         = "signing key is not available for this session"
	ErrMsgInvalidRequest         = "Request format is invalid"
	ErrMsgInvalidAddress         = "Wallet address is invalid"
	ErrMsgInvalidAmount          = "Amount is invalid"
	ErrMsgInvalidSignature       = "Signature is invalid"
	ErrMsgSubmitFailed           = "Node rejected the transaction"
	ErrMsgReceiptTimeout         = "Timed out waiting for the transaction receipt"
	ErrMsgNetworkMismatch        = "Node genesis does not match the configured network"
	ErrMsgInternal               = "Server error, please try again"
)

var (
	ErrProviderNotInitialized = NewError(ErrCodeProviderNotInitialized, ErrMsgProviderNotInitialized)
	ErrNotConnected           = NewError(ErrCodeNotConnected, ErrMsgNotConnected)
	ErrModalNotInitialized    = NewError(ErrCodeModalNotInitialized, ErrMsgModalNotInitialized)
	ErrUserCancelled          = NewError(ErrCodeUserCancelled, ErrMsgUserCancelled)
	ErrKeyUnavailable         = NewError(ErrCodeKeyUnavailable, ErrMsgKeyUnavailable)
	ErrInvalidAddress         = NewError(ErrCodeInvalidAddress, ErrMsgInvalidAddress)
	ErrInvalidAmount          = NewError(ErrCodeInvalidAmount, ErrMsgInvalidAmount)
	ErrInvalidSignature       = NewError(ErrCodeInvalidSignature, ErrMsgInvalidSignature)
	ErrReceiptTimeout         = NewError(ErrCodeReceiptTimeout, ErrMsgReceiptTimeout)
	ErrNetworkMismatch        = NewError(ErrCodeNetworkMismatch, ErrMsgNetworkMismatch)
)

// WalletError represents a standardized wallet error
type WalletError struct {
	Code    WalletErrorCode `json:"code"`
	Message string          `json:"message"`
}

// Error implements the error interface
func (e *WalletError) Error() string {
	b, _ := jsonx.Marshal(WalletError{
		Code:    e.Code,
		Message: e.Message,
	})
	return string(b)
}

// Is matches any WalletError carrying the same code, so wrapped or
// re-created errors still satisfy errors.Is against the sentinels.
func (e *WalletError) Is(target error) bool {
	t, ok := target.(*WalletError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewError creates a new WalletError and returns it as error interface
func NewError(code WalletErrorCode, message string) error {
	return &WalletError{
		Code:    code,
		Message: message,
	}
}

// SponsorError is returned when the fee delegation endpoint refuses to co-sign.
type SponsorError struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
}

func (e *SponsorError) Error() string {
	if e.StatusCode != 0 {
		return "sponsor: " + e.Message + " (status " + strconv.Itoa(e.StatusCode) + ")"
	}
	return "sponsor: " + e.Message
}

// CodeOf extracts the WalletErrorCode carried by err, if any.
func CodeOf(err error) WalletErrorCode {
	if err == nil {
		return ""
	}
	var we *WalletError
	if As(err, &we) {
		return we.Code
	}
	var se *SponsorError
	if As(err, &se) {
		return ErrCodeSponsorRejected
	}
	return ErrCodeInternal
}

func New(message string) error {
	return pkgerrors.New(message)
}

func Errorf(format string, args ...interface{}) error {
	return pkgerrors.Errorf(format, args...)
}

func Wrap(err error, message string) error {
	return pkgerrors.Wrap(err, message)
}

func Wrapf(err error, format string, args ...interface{}) error {
	return pkgerrors.Wrapf(err, format, args...)
}

func Is(err, target error) bool {
	return pkgerrors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return pkgerrors.As(err, target)
}
