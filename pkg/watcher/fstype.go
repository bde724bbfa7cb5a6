package watcher

import (
	"os"
	"path/filepath"
)

// FilesystemType is a coarse classification of the filesystem holding the
// watched file. Network and FUSE mounts often drop inotify events.
type FilesystemType int

const (
	FSTypeUnknown FilesystemType = iota
	FSTypeLocal
	FSTypeNFS
	FSTypeSMB
	FSTypeSSHFS
	FSTypeFUSE
)

var fsTypeNames = map[FilesystemType]string{
	FSTypeUnknown: "unknown",
	FSTypeLocal:   "local",
	FSTypeNFS:     "nfs",
	FSTypeSMB:     "smb",
	FSTypeSSHFS:   "sshfs",
	FSTypeFUSE:    "fuse",
}

func (t FilesystemType) String() string {
	if name, ok := fsTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Swapped out in tests.
var detectFilesystemTypeFunc = detectFilesystemType

// DetectFilesystemType classifies the filesystem for path, walking up to the
// nearest existing ancestor when path does not exist yet.
func DetectFilesystemType(path string) FilesystemType {
	if path == "" {
		return FSTypeUnknown
	}
	return detectFilesystemTypeFunc(nearestExisting(path))
}

func nearestExisting(path string) string {
	p := path
	for {
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(p)
		if parent == p {
			return p
		}
		p = parent
	}
}

func isRemoteFilesystem(t FilesystemType) bool {
	switch t {
	case FSTypeNFS, FSTypeSMB, FSTypeSSHFS, FSTypeFUSE:
		return true
	default:
		return false
	}
}
