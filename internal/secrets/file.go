package secrets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileProvider reads credentials from YAML or JSON secret files, e.g. a
// mounted Kubernetes secret. The reference is a file name relative to Dir
// (or an absolute path).
type FileProvider struct {
	Dir string
}

// NewFileProvider creates a provider reading secret files from dir.
func NewFileProvider(dir string) *FileProvider {
	return &FileProvider{Dir: dir}
}

// secretDocument accepts both "database" and "dbname" spellings.
type secretDocument struct {
	Credentials `yaml:",inline"`
	DBName      string `yaml:"dbname"`
	UserAlias   string `yaml:"user"`
}

func (p *FileProvider) path(reference string) string {
	if filepath.IsAbs(reference) || p.Dir == "" {
		return reference
	}
	return filepath.Join(p.Dir, reference)
}

// Credentials implements Provider.
func (p *FileProvider) Credentials(_ context.Context, reference string) (Credentials, error) {
	if reference == "" {
		return Credentials{}, fmt.Errorf("%w: empty reference", ErrNotFound)
	}

	data, err := os.ReadFile(p.path(reference))
	if errors.Is(err, fs.ErrNotExist) {
		return Credentials{}, fmt.Errorf("%w: %s", ErrNotFound, reference)
	}
	if err != nil {
		return Credentials{}, fmt.Errorf("read secret %s: %w", reference, err)
	}

	var doc secretDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Credentials{}, fmt.Errorf("parse secret %s: %w", reference, err)
	}

	creds := doc.Credentials
	if creds.Database == "" {
		creds.Database = doc.DBName
	}
	if creds.User == "" {
		creds.User = doc.UserAlias
	}
	if creds.Port == 0 {
		creds.Port = DefaultPort
	}

	if err := creds.Validate(); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}
