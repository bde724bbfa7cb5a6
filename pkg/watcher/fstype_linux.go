//go:build linux

package watcher

import "golang.org/x/sys/unix"

// Magic numbers from statfs(2).
const (
	nfsSuperMagic   = 0x6969
	smbSuperMagic   = 0x517b
	cifsMagicNumber = 0xff534d42
	smb2MagicNumber = 0xfe534d42
	fuseSuperMagic  = 0x65735546
)

func detectFilesystemType(path string) FilesystemType {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return FSTypeUnknown
	}
	switch uint32(st.Type) {
	case nfsSuperMagic:
		return FSTypeNFS
	case smbSuperMagic, cifsMagicNumber, smb2MagicNumber:
		return FSTypeSMB
	case fuseSuperMagic:
		// sshfs is the FUSE mount people actually keep dotfiles on, but
		// statfs cannot tell them apart.
		return FSTypeFUSE
	default:
		return FSTypeLocal
	}
}
