// FILE: lixenwraith/recorder/retention.go
package recorder

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// archiveCandidate is one parsed archive with its filesystem metadata
type archiveCandidate struct {
	name    string
	archive ArchiveFileName
	modTime time.Time
	size    int64
}

// retentionManager deletes this recorder's archives by age and count
type retentionManager struct {
	mu          sync.Mutex // Held per removal
	dir         string
	baseName    string
	maxSaveDays int64
	minFileNums int64
	maxFileNums int64

	report func(error)
	remove func(string) error
}

// newRetentionManager creates a manager for archives of baseName in dir
func newRetentionManager(dir, baseName string, cfg *Config, report func(error)) *retentionManager {
	return &retentionManager{
		dir:         dir,
		baseName:    baseName,
		maxSaveDays: cfg.MaxSaveDays,
		minFileNums: cfg.MinFileNums,
		maxFileNums: cfg.MaxFileNums(),
		report:      report,
		remove:      os.Remove,
	}
}

// scan lists well-formed archives of this base name, oldest last-write first.
// Equal modification times keep directory order.
func (m *retentionManager) scan() ([]archiveCandidate, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read log directory '%s' for retention", m.dir)
	}

	var candidates []archiveCandidate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		archive, ok := parseArchiveName(m.baseName, entry.Name())
		if !ok {
			continue
		}
		info, errInfo := entry.Info()
		if errInfo != nil {
			continue
		}
		candidates = append(candidates, archiveCandidate{
			name:    entry.Name(),
			archive: archive,
			modTime: info.ModTime(),
			size:    info.Size(),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].modTime.Before(candidates[j].modTime)
	})
	return candidates, nil
}

// prune deletes expired archives, then the oldest archives beyond the count cap.
// Neither pass takes the surviving count below minFileNums.
func (m *retentionManager) prune(now time.Time) (int, error) {
	candidates, err := m.scan()
	if err != nil {
		return 0, err
	}

	remaining := int64(len(candidates))
	if remaining <= m.minFileNums {
		return 0, nil
	}

	deleted := 0
	survivors := make([]archiveCandidate, 0, len(candidates))

	// Age pass
	if m.maxSaveDays > 0 {
		cutoff := now.AddDate(0, 0, -int(m.maxSaveDays))
		for _, c := range candidates {
			if remaining > m.minFileNums && c.modTime.Before(cutoff) && m.removeArchive(c) {
				remaining--
				deleted++
				continue
			}
			survivors = append(survivors, c)
		}
	} else {
		survivors = append(survivors, candidates...)
	}

	// Count pass, oldest first
	for _, c := range survivors {
		if remaining <= m.maxFileNums || remaining <= m.minFileNums {
			break
		}
		if m.removeArchive(c) {
			remaining--
			deleted++
		}
	}

	return deleted, nil
}

// removeArchive deletes one archive, reporting failure without aborting the caller
func (m *retentionManager) removeArchive(c archiveCandidate) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := filepath.Join(m.dir, c.name)
	if err := m.remove(path); err != nil {
		m.report(errors.Wrapf(err, "remove archive '%s'", path))
		return false
	}
	return true
}
