package address

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

var (
	ErrInvalidAddress = errors.New("invalid address")

	// "0x" 前缀加 40 位十六进制
	addressRegex = regexp.MustCompile("^0x[0-9a-fA-F]{40}$")
)

// Validate 校验 EVM 地址格式；大小写混合时必须符合 EIP-55 校验和
func Validate(address string) error {
	if !addressRegex.MatchString(address) {
		return errors.Wrapf(ErrInvalidAddress, "%q is not a valid ethereum address", address)
	}

	body := address[2:]
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return nil
	}

	if common.HexToAddress(address).Hex() != address {
		return errors.Wrapf(ErrInvalidAddress, "%q has an invalid checksum", address)
	}

	return nil
}

// Parse validates address and returns it as common.Address.
func Parse(address string) (common.Address, error) {
	if err := Validate(address); err != nil {
		return common.Address{}, err
	}

	return common.HexToAddress(address), nil
}
