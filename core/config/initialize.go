package config

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Initialize populates a configuration directory with the default
// config.yaml and a freshly generated SSH host key. Existing files are
// left alone so re-running is safe.
func Initialize(fs afero.Fs, path string, logger *log.Logger) error {
	if err := fs.MkdirAll(path, 0700); err != nil {
		return err
	}
	if err := fs.MkdirAll(filepath.Join(path, SessionLogsName), 0700); err != nil {
		return err
	}

	configPath := filepath.Join(path, ConfigurationName)
	if err := writeIfMissing(fs, configPath, defaultConfigData, logger); err != nil {
		return err
	}

	keyPath := filepath.Join(path, PrivateKeyName)
	if _, err := fs.Stat(keyPath); os.IsNotExist(err) {
		keyPem, err := generateHostKey()
		if err != nil {
			return err
		}
		if err := writeIfMissing(fs, keyPath, keyPem, logger); err != nil {
			return err
		}
	}

	return nil
}

func writeIfMissing(fs afero.Fs, path string, contents []byte, logger *log.Logger) error {
	if _, err := fs.Stat(path); err == nil {
		logger.Printf("exists %s, skipping", path)
		return nil
	}

	logger.Printf("create %s", path)
	return afero.WriteFile(fs, path, contents, 0600)
}

// generateHostKey produces an ed25519 private key as PKCS8 PEM.
func generateHostKey() ([]byte, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}

	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, err
	}

	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}
