package xfs

// RecoveredInode is a deleted-but-still-readable inode: its decoded core
// metadata plus the sequence of intersected extents that survived the
// free-space cross-check (§4.6 step 4-5). It retains no device
// reference; ReadAt takes the device explicitly so a RecoveredInode can
// safely outlive a single callback invocation.
type RecoveredInode struct {
	ino       uint64
	atime     Timestamp
	mtime     Timestamp
	ctime     Timestamp
	crtime    Timestamp
	blockSize uint32
	extents   []Extent
	cursor    int
}

// InodeNumber returns the inode's on-disk number (di_ino), read directly
// from the inode's v3 extension rather than derived from AG position.
func (r *RecoveredInode) InodeNumber() uint64 { return r.ino }

// CrTime returns the inode's creation time (di_crtime), written only at
// inode creation and otherwise left untouched.
func (r *RecoveredInode) CrTime() Timestamp { return r.crtime }

// Size reports the sum of block_count*block_size across all recovered
// extents: recoverable bytes, not the deleted file's original length
// (which is zeroed in the inode core). See DESIGN.md Open Question #3.
func (r *RecoveredInode) Size() uint64 {
	var total uint64
	for _, e := range r.extents {
		total += uint64(e.BlockCount) * uint64(r.blockSize)
	}
	return total
}

// MACTimes returns the inode's modified/accessed/changed timestamps.
func (r *RecoveredInode) MACTimes() (mtime, atime, ctime Timestamp) {
	return r.mtime, r.atime, r.ctime
}

// NextExtent advances the forward-only cursor and returns the next
// extent's logical (offset, length) pair in filesystem-block units
// converted to bytes. ok is false once the extent list is exhausted.
func (r *RecoveredInode) NextExtent() (offset uint64, length uint64, ok bool) {
	if r.cursor >= len(r.extents) {
		return 0, 0, false
	}
	e := r.extents[r.cursor]
	r.cursor++
	return e.FileOffset * uint64(r.blockSize), uint64(e.BlockCount) * uint64(r.blockSize), true
}

// ReadAt translates a logical (fileOffset, len(buf)) read into one or
// more device reads against the recovered extent list, per §4.8.
// Extent coverage is tested inclusive at both ends, but an offset exactly
// at an extent's end serves no bytes from it, so that extent is passed
// over like any extent not covering the offset. A partial result (any bytes served) is
// reported as success; zero bytes served is reported as failure, mirroring
// xfs_inode_entry.cpp's GetFileContent policy (see DESIGN.md Open
// Question #4).
func (r *RecoveredInode) ReadAt(dev Device, buf []byte, fileOffset uint64) (int, error) {
	var read int
	remaining := buf

	for _, e := range r.extents {
		if len(remaining) == 0 {
			break
		}
		coverageStart := e.FileOffset * uint64(r.blockSize)
		coverageEnd := coverageStart + uint64(e.BlockCount)*uint64(r.blockSize)

		if fileOffset < coverageStart || fileOffset > coverageEnd {
			continue
		}
		if fileOffset == coverageEnd {
			continue
		}

		diskOffset := e.StartBlock*uint64(r.blockSize) + (fileOffset - coverageStart)
		length := coverageEnd - fileOffset
		if uint64(len(remaining)) < length {
			length = uint64(len(remaining))
		}

		data, err := dev.ReadAt(diskOffset, length)
		if err != nil {
			if read > 0 {
				return read, nil
			}
			return 0, err
		}

		n := copy(remaining, data)
		read += n
		remaining = remaining[n:]
		fileOffset += uint64(n)
	}

	if read == 0 {
		return 0, &NotRecoverableError{Reason: "no extent covers requested offset"}
	}
	return read, nil
}
