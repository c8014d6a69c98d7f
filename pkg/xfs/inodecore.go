package xfs

import (
	"bytes"
	"encoding/binary"
)

const inodeCoreSize = 176 // sizeof(xfs_inode) v3 header, see InodeCore

// validateInodeCore checks the recoverable-deleted-inode invariants of
// §3: magic == "IN", mode == 0, version == 3, format == EXTENTS,
// nlink == 0. Any deviation disqualifies the candidate. Grounded in
// xfs_inode.cpp's Validate(), which checks di_nlink (the 32-bit field),
// not the legacy 16-bit di_onlink.
func validateInodeCore(core *InodeCore) *NotRecoverableError {
	if core.Magic != InodeMagicNumber {
		return &NotRecoverableError{Reason: "bad magic"}
	}
	if core.Mode != 0 {
		return &NotRecoverableError{Reason: "non-zero mode"}
	}
	if core.Version != 3 {
		return &NotRecoverableError{Reason: "version is not 3"}
	}
	if core.Format != InodeFormatExtents {
		return &NotRecoverableError{Reason: "format is not EXTENTS"}
	}
	if core.Nlink != 0 {
		return &NotRecoverableError{Reason: "non-zero nlink"}
	}
	return nil
}

func decodeInodeCore(raw []byte) (*InodeCore, error) {
	core := new(InodeCore)
	if err := binary.Read(bytes.NewReader(raw), binary.BigEndian, core); err != nil {
		return nil, err
	}
	return core, nil
}

// Timestamp conversion helpers.
func (t Timestamp) asMACTime() uint32 {
	return t.Sec
}
