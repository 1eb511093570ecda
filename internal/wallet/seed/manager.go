package seed

import (
	"crypto/sha512"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 2048 // BIP39 standard iterations
	pbkdf2KeyLength  = 64   // BIP39 standard key length (512 bits)
	minMnemonicWords = 12
)

var ErrInvalidMnemonic = errors.New("invalid mnemonic")

// FromMnemonic converts a mnemonic and optional passphrase into a BIP39 seed.
// seed = PBKDF2(mnemonic, "mnemonic" + passphrase, 2048, 64, SHA512)
// Caller must Clear the returned seed after use.
func FromMnemonic(mnemonic string, passphrase string) ([]byte, error) {
	words := strings.Fields(mnemonic)
	if len(words) < minMnemonicWords || len(words)%3 != 0 {
		return nil, errors.Wrapf(ErrInvalidMnemonic, "expected a multiple of 3 words (at least %d), got %d", minMnemonicWords, len(words))
	}

	normalized := strings.Join(words, " ")

	return pbkdf2.Key(
		[]byte(normalized),
		[]byte("mnemonic"+passphrase),
		pbkdf2Iterations,
		pbkdf2KeyLength,
		sha512.New,
	), nil
}

// Clear zeroes b in place.
func Clear(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
