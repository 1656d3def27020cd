//go:build linux

package watcher

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// Magic numbers from statfs(2).
const (
	magicNFS   = 0x6969
	magicSMB   = 0x517B
	magicCIFS  = 0xFF534D42
	magicSMB2  = 0xFE534D42
	magicFUSE  = 0x65735546
	magicV9FS  = 0x01021997
	magicCODA  = 0x73757245
	magicAFS   = 0x5346414F
	magicCEPH  = 0x00C36400
	magicOCFS2 = 0x7461636F
)

// DetectFilesystemType classifies the filesystem holding path. A missing
// file is classified by its nearest existing parent directory.
func DetectFilesystemType(path string) FilesystemType {
	if path == "" {
		return FSTypeUnknown
	}
	dir := path
	for {
		if _, err := os.Stat(dir); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return FSTypeUnknown
		}
		dir = parent
	}

	var st unix.Statfs_t
	if err := unix.Statfs(dir, &st); err != nil {
		return FSTypeUnknown
	}
	switch uint32(st.Type) {
	case magicNFS:
		return FSTypeNFS
	case magicSMB, magicCIFS, magicSMB2:
		return FSTypeSMB
	case magicFUSE:
		if isSSHFSMount(dir) {
			return FSTypeSSHFS
		}
		return FSTypeFUSE
	case magicV9FS, magicCODA, magicAFS, magicCEPH, magicOCFS2:
		return FSTypeNFS
	default:
		return FSTypeLocal
	}
}

// isSSHFSMount checks /proc/mounts for a fuse.sshfs entry covering dir.
func isSSHFSMount(dir string) bool {
	data, err := os.ReadFile("/proc/mounts")
	if err != nil {
		return false
	}
	best, sshfs := "", false
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		mount, fstype := fields[1], fields[2]
		if (dir == mount || strings.HasPrefix(dir, strings.TrimSuffix(mount, "/")+"/")) && len(mount) > len(best) {
			best, sshfs = mount, fstype == "fuse.sshfs"
		}
	}
	return sshfs
}
