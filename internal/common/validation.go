package common

import (
	"strings"
	"sync"

	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// EthAddressTag validates a 0x-prefixed 20 byte hex address.
const EthAddressTag = "eth_addr"

var registerOnce sync.Once

// RegisterValidators installs the custom binding tags on gin's validator engine.
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation(EthAddressTag, func(fl validator.FieldLevel) bool {
				return IsWalletAddress(fl.Field().String())
			})
			_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
				return strings.TrimSpace(fl.Field().String()) != ""
			})
		}
	})
}

// IsWalletAddress reports whether s is a 0x-prefixed hex address.
func IsWalletAddress(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(strings.ToLower(s), "0x") && gethcommon.IsHexAddress(s)
}

// NormalizeWalletAddress lowercases and trims an address for storage and lookups.
func NormalizeWalletAddress(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
