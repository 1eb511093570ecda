package keystore

import (
	"crypto/subtle"
	"encoding/hex"

	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"
)

var (
	ErrInvalidPassword   = errors.New("invalid keystore password")
	ErrUnsupportedCipher = errors.New("unsupported keystore cipher")
)

// Decrypt opens a keystore v3 document and returns the raw private key.
// Callers should clear the returned bytes once the key has been parsed.
func Decrypt(ks *KeystoreJSON, password string) ([]byte, error) {
	if ks.Crypto.Cipher != "aes-128-ctr" || ks.Crypto.KDF != "scrypt" {
		return nil, errors.Wrapf(ErrUnsupportedCipher, "%s/%s", ks.Crypto.Cipher, ks.Crypto.KDF)
	}
	if ks.Crypto.KDFParams.DKLen < minDKLen {
		return nil, errors.Errorf("derived key length must be at least %d", minDKLen)
	}

	salt, err := hex.DecodeString(ks.Crypto.KDFParams.Salt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode salt")
	}

	//nolint:varnamelen // iv is a common abbreviation for initialization vector
	iv, err := hex.DecodeString(ks.Crypto.CipherParams.IV)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode IV")
	}

	ciphertext, err := hex.DecodeString(ks.Crypto.Ciphertext)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode ciphertext")
	}

	expectedMAC, err := hex.DecodeString(ks.Crypto.MAC)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode MAC")
	}

	derivedKey, err := scrypt.Key(
		[]byte(password),
		salt,
		ks.Crypto.KDFParams.N,
		ks.Crypto.KDFParams.R,
		ks.Crypto.KDFParams.P,
		ks.Crypto.KDFParams.DKLen,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive key")
	}

	mac := calculateMAC(derivedKey[16:32], ciphertext)
	if subtle.ConstantTimeCompare(mac, expectedMAC) != 1 {
		return nil, ErrInvalidPassword
	}

	return aes128CTR(derivedKey[:16], iv, ciphertext)
}
