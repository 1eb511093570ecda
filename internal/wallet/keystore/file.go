package keystore

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const (
	fileMode = 0o600
	dirMode  = 0o700
)

// ReadFile 读取 keystore 文件；文件不存在时返回 os.ErrNotExist
func ReadFile(path string) (*KeystoreJSON, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read keystore %s", path)
	}

	var ks KeystoreJSON
	if err := json.Unmarshal(data, &ks); err != nil {
		return nil, errors.Wrapf(err, "failed to parse keystore %s", path)
	}

	return &ks, nil
}

// WriteFile writes ks to path. An existing file is never overwritten.
func WriteFile(path string, ks *KeystoreJSON) error {
	data, err := json.MarshalIndent(ks, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal keystore")
	}

	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return errors.Wrap(err, "failed to create keystore directory")
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, fileMode)
	if err != nil {
		return errors.Wrapf(err, "failed to create keystore %s", path)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "failed to write keystore %s", path)
	}

	return errors.Wrapf(f.Close(), "failed to close keystore %s", path)
}
