package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalDisk stores files under Root and serves them at BaseURL.
type LocalDisk struct {
	root    string
	baseURL string
}

// NewLocalDisk makes root absolute relative to the working directory.
func NewLocalDisk(root, baseURL string) *LocalDisk {
	if !filepath.IsAbs(root) {
		cwd, _ := os.Getwd()
		root = filepath.Join(cwd, root)
	}
	return &LocalDisk{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Root is the absolute directory backing the disk.
func (d *LocalDisk) Root() string { return d.root }

func (d *LocalDisk) abs(p string) (string, error) {
	clean, err := Clean(p)
	if err != nil {
		return "", err
	}
	return filepath.Join(d.root, filepath.FromSlash(clean)), nil
}

func (d *LocalDisk) Put(_ context.Context, p string, content []byte, _ string) error {
	full, err := d.abs(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage/local: mkdir: %w", err)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return fmt.Errorf("storage/local: write %s: %w", p, err)
	}
	return nil
}

func (d *LocalDisk) Get(_ context.Context, p string) ([]byte, error) {
	full, err := d.abs(p)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if os.IsNotExist(err) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("storage/local: get %s: %w", p, err)
	}
	return data, nil
}

func (d *LocalDisk) Exists(_ context.Context, p string) bool {
	full, err := d.abs(p)
	if err != nil {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && !info.IsDir()
}

func (d *LocalDisk) Delete(_ context.Context, p string) error {
	full, err := d.abs(p)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage/local: delete %s: %w", p, err)
	}
	return nil
}

func (d *LocalDisk) URL(p string) string {
	return d.baseURL + "/" + strings.TrimLeft(filepath.ToSlash(p), "/")
}
