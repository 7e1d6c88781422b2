package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/farmermarket/backend/config"
	"github.com/farmermarket/backend/pkg/logger"
)

// Manager holds the configured disks and the default one.
type Manager struct {
	mu          sync.RWMutex
	disks       map[string]Disk
	defaultDisk string
}

func NewManager(defaultDisk string) *Manager {
	return &Manager{disks: map[string]Disk{}, defaultDisk: defaultDisk}
}

// Connect boots the local disk always and the s3 disk when S3_BUCKET is set.
// An unusable STORAGE_DISK falls back to local.
func Connect(ctx context.Context) (*Manager, error) {
	m := NewManager(config.StorageDefault())
	m.Register("local", NewLocalDisk(config.StorageLocalRoot(), config.StorageURL()))

	if config.StorageS3Bucket() != "" {
		d, err := NewS3Disk(ctx, S3Options{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			BaseURL:  config.StorageS3URL(),
		})
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			m.Register("s3", d)
		}
	}

	if _, err := m.Disk(m.defaultDisk); err != nil {
		logger.Warn("storage: falling back to local disk", "requested", m.defaultDisk)
		m.defaultDisk = "local"
	}
	return m, nil
}

func (m *Manager) Register(name string, d Disk) {
	m.mu.Lock()
	m.disks[name] = d
	m.mu.Unlock()
}

// Disk returns the named disk.
func (m *Manager) Disk(name string) (Disk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.disks[name]
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Default returns the STORAGE_DISK disk.
func (m *Manager) Default() Disk {
	d, err := m.Disk(m.defaultDisk)
	if err != nil {
		panic(err)
	}
	return d
}

// DefaultName is the name of the default disk.
func (m *Manager) DefaultName() string { return m.defaultDisk }

// Local returns the local disk, used to serve STORAGE_URL.
func (m *Manager) Local() *LocalDisk {
	d, err := m.Disk("local")
	if err != nil {
		return nil
	}
	ld, _ := d.(*LocalDisk)
	return ld
}
