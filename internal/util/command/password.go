package command

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/portal-hq/portalex/internal/config"
	"golang.org/x/term"
)

var ErrKeystorePasswordRequired = errors.New("EXCHANGE_WALLET_KEYSTORE_PASSWORD is required when stdin is not a terminal")

// ResolveKeystorePassword 使用 keystore 文件且未配置密码时，从终端读取（不回显）
func ResolveKeystorePassword(cfg *config.Server) error {
	return resolveKeystorePassword(cfg, int(os.Stdin.Fd()))
}

func resolveKeystorePassword(cfg *config.Server, fd int) error {
	hw := cfg.HotWallet
	if len(hw.KeystoreFile) == 0 || len(hw.KeystorePassword) > 0 ||
		len(hw.PrivateKey) > 0 || len(hw.Mnemonic) > 0 {
		return nil
	}

	if !term.IsTerminal(fd) {
		return ErrKeystorePasswordRequired
	}

	//nolint:forbidigo // Password input requires direct terminal I/O
	fmt.Fprintf(os.Stderr, "Password for hot wallet keystore %s: ", hw.KeystoreFile)

	password, err := term.ReadPassword(fd)
	//nolint:forbidigo // New line after password input
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return errors.Wrap(err, "failed to read password from terminal")
	}

	cfg.HotWallet.KeystorePassword = string(password)

	return nil
}
