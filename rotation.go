// FILE: lixenwraith/recorder/rotation.go
package recorder

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ArchiveFileName identifies one rotated file: <BaseName>_<Date>_<Time>_<Sequence>.log
type ArchiveFileName struct {
	BaseName string
	Date     string // yyyyMMdd
	Time     string // HHmm
	Sequence int
}

// newArchiveFileName derives the archive identity from the active file's last-write time
func newArchiveFileName(baseName string, lastWrite time.Time, sequence int) ArchiveFileName {
	return ArchiveFileName{
		BaseName: baseName,
		Date:     lastWrite.Format(archiveDateLayout),
		Time:     lastWrite.Format(archiveTimeLayout),
		Sequence: sequence,
	}
}

// String renders the file name
func (a ArchiveFileName) String() string {
	return fmt.Sprintf("%s_%s_%s_%d%s", a.BaseName, a.Date, a.Time, a.Sequence, logExtension)
}

// parseArchiveName is the exact inverse of ArchiveFileName.String for the given base name
func parseArchiveName(baseName, fileName string) (ArchiveFileName, bool) {
	rest, ok := strings.CutPrefix(fileName, baseName+"_")
	if !ok {
		return ArchiveFileName{}, false
	}
	rest, ok = strings.CutSuffix(rest, logExtension)
	if !ok {
		return ArchiveFileName{}, false
	}

	parts := strings.Split(rest, "_")
	if len(parts) != 3 {
		return ArchiveFileName{}, false
	}
	date, clock, seq := parts[0], parts[1], parts[2]

	if len(date) != len(archiveDateLayout) || !allDigits(date) {
		return ArchiveFileName{}, false
	}
	if len(clock) != len(archiveTimeLayout) || !allDigits(clock) {
		return ArchiveFileName{}, false
	}
	if seq == "" || !allDigits(seq) {
		return ArchiveFileName{}, false
	}
	if _, err := time.Parse(archiveDateLayout, date); err != nil {
		return ArchiveFileName{}, false
	}
	if _, err := time.Parse(archiveTimeLayout, clock); err != nil {
		return ArchiveFileName{}, false
	}
	sequence, err := strconv.Atoi(seq)
	if err != nil {
		return ArchiveFileName{}, false
	}

	return ArchiveFileName{BaseName: baseName, Date: date, Time: clock, Sequence: sequence}, true
}

// allDigits reports whether s consists only of ASCII digits
func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// nextArchivePath probes sequence numbers from 0 until an unused path is found
func nextArchivePath(dir, baseName string, lastWrite time.Time) (string, ArchiveFileName, error) {
	for seq := 0; ; seq++ {
		name := newArchiveFileName(baseName, lastWrite, seq)
		path := filepath.Join(dir, name.String())
		_, err := os.Lstat(path)
		if os.IsNotExist(err) {
			return path, name, nil
		}
		if err != nil {
			return "", ArchiveFileName{}, errors.Wrapf(err, "probe archive path '%s'", path)
		}
	}
}

// rotateIfNeededLocked runs the size and day triggers against the pre-write state
func (r *Recorder) rotateIfNeededLocked(now time.Time) error {
	if r.size > r.cfg.MaxLogSize && !now.Before(r.archiveRetryAt) {
		return r.archiveLocked(now)
	}

	if !r.lastWrite.IsZero() && !sameDay(r.lastWrite, now) {
		return r.writeLineLocked(r.marker(fmt.Sprintf(dateMarker, now.Format(markerDateLayout))), now)
	}

	return nil
}

// archiveLocked closes the active file, renames it to a fresh archive name,
// prunes old archives, and reopens an empty active file
func (r *Recorder) archiveLocked(now time.Time) error {
	if r.file == nil {
		return nil
	}

	if err := r.writeLineLocked(r.marker(archivedMarker), now); err != nil {
		return err
	}
	if err := r.writeLineLocked(r.marker(fmt.Sprintf(dateMarker, now.Format(markerDateLayout))), now); err != nil {
		return err
	}
	if err := r.closeFileLocked(); err != nil {
		r.recordException(err)
	}

	activePath := r.activePath()
	lastWrite := now
	if fi, err := os.Stat(activePath); err == nil {
		lastWrite = fi.ModTime()
	}

	archivePath, archiveName, err := nextArchivePath(r.cfg.Directory, r.baseName, lastWrite)
	if err == nil {
		if renameErr := r.rename(activePath, archivePath); renameErr != nil {
			err = errors.Wrapf(renameErr, "rename '%s' to '%s'", activePath, archivePath)
		}
	}
	if err != nil {
		// Keep appending to the unrotated file, retry the size trigger later
		r.archiveRetryAt = now.Add(archiveRetryInterval)
		r.recordException(err)
		if err := r.openLocked(); err != nil {
			return err
		}
		r.lastWrite = now
		return nil
	}

	r.archiveRetryAt = time.Time{}
	r.state.TotalRotations.Add(1)

	if deleted, pruneErr := r.retention.prune(now); pruneErr != nil {
		r.recordException(pruneErr)
	} else {
		r.state.TotalDeletions.Add(uint64(deleted))
	}

	if err := r.openLocked(); err != nil {
		return err
	}
	return r.writeLineLocked(r.marker(fmt.Sprintf(continuationMarker, archiveName.String())), now)
}
