package xfs

import "testing"

// buildSyntheticImage constructs a minimal single-AG XFS image with
// exactly one recoverable inode: a non-sparse inode btree with one
// free-inode record (inode 2400), a one-extent EXTENTS-format inode core
// at that inode number, and a free-space-by-block btree whose single
// record fully covers that extent. Backs the end-to-end happy-path and
// callback-stop tests below with a synthetic Device rather than a real
// XFS image.
func buildSyntheticImage() *memDevice {
	const (
		blockSize  = 4096
		sectorSize = 512
		inodeSize  = 256
		agBlocks   = 300
		inodeBTreeRoot   = 1
		freeSpaceRoot    = 2
		aginode          = 2400
		realIno          = 999888 // di_ino: deliberately distinct from aginode
		extentStartBlock = 50
		extentBlocks     = 5
		freeStartBlock   = 50
		freeBlockCount   = 10
	)

	dev := newMemDevice(agBlocks * blockSize)

	// Superblock (sector 0).
	dev.putUint32(0, SBMagicNumber)
	dev.putUint32(4, blockSize)
	dev.putUint64(8, agBlocks) // data blocks: single AG, so == ag blocks
	dev.putUint32(84, agBlocks)
	dev.putUint32(88, 1)
	dev.putUint16(100, 5) // version 5
	dev.putUint16(102, sectorSize)
	dev.putUint16(104, inodeSize)

	// AGF (sector 1).
	agfSeek := uint64(sectorSize)
	dev.putUint32(agfSeek+0, AGFMagicNumber)
	dev.putUint32(agfSeek+12, agBlocks) // Length
	dev.putUint32(agfSeek+16, freeSpaceRoot)

	// AGI (sector 2).
	agiSeek := uint64(2 * sectorSize)
	dev.putUint32(agiSeek+0, AGIMagicNumber)
	dev.putUint32(agiSeek+20, inodeBTreeRoot) // Root

	// Inode btree leaf, block 1.
	ibtSeek := uint64(inodeBTreeRoot * blockSize)
	dev.putUint32(ibtSeek+0, IABT3MagicNumber)
	dev.putUint16(ibtSeek+4, 0) // level: leaf
	dev.putUint16(ibtSeek+6, 1) // numRecs
	recSeek := ibtSeek + btreeShortHeaderCRCSize
	dev.putUint32(recSeek+0, aginode) // StartIno
	dev.putUint64(recSeek+8, 1)       // Free: bit 0 (aginode itself) set

	// Free-space-by-block btree leaf, block 2.
	fbtSeek := uint64(freeSpaceRoot * blockSize)
	dev.putUint32(fbtSeek+0, AB3BMagicNumber)
	dev.putUint16(fbtSeek+4, 0) // level: leaf
	dev.putUint16(fbtSeek+6, 1) // numRecs
	frecSeek := fbtSeek + btreeShortHeaderCRCSize
	dev.putUint32(frecSeek+0, freeStartBlock)
	dev.putUint32(frecSeek+4, freeBlockCount)

	// Inode core + extent, at aginode's byte offset. The v3 header runs
	// through byte 176 (di_crc..di_uuid); the packed extent array starts
	// immediately after it, not after the legacy 100-byte header.
	inoSeek := uint64(aginode) * inodeSize
	dev.putUint16(inoSeek+0, InodeMagicNumber)
	dev.buf[inoSeek+4] = 3                  // version
	dev.buf[inoSeek+5] = InodeFormatExtents // format
	dev.putUint32(inoSeek+40, 222)          // MTime.Sec
	dev.putUint64(inoSeek+152, realIno)     // di_ino

	p := packExtent(0, 0, extentStartBlock, extentBlocks)
	dev.putUint64(inoSeek+176, p.L0)
	dev.putUint64(inoSeek+184, p.L1)

	return dev
}

func TestDumpInodesHappyPath(t *testing.T) {
	dev := buildSyntheticImage()

	parser, err := NewParser(dev)
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}

	var got []*RecoveredInode
	err = parser.DumpInodes(func(ri *RecoveredInode) (bool, error) {
		got = append(got, ri)
		return true, nil
	})
	if err != nil {
		t.Fatalf("DumpInodes: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("expected exactly 1 recovered inode, got %d", len(got))
	}

	ri := got[0]
	if ri.InodeNumber() != 999888 {
		t.Fatalf("InodeNumber: got %d want 999888", ri.InodeNumber())
	}
	if want := uint64(5 * 4096); ri.Size() != want {
		t.Fatalf("Size: got %d want %d", ri.Size(), want)
	}

	mtime, _, _ := ri.MACTimes()
	if mtime.Sec != 222 {
		t.Fatalf("MTime.Sec: got %d want 222", mtime.Sec)
	}

	off, length, ok := ri.NextExtent()
	if !ok || off != 0 || length != 5*4096 {
		t.Fatalf("NextExtent: got (%d, %d, %v)", off, length, ok)
	}
}

func TestDumpInodesStopsOnCallbackFalse(t *testing.T) {
	dev := buildSyntheticImage()

	parser, err := NewParser(dev)
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}

	calls := 0
	err = parser.DumpInodes(func(ri *RecoveredInode) (bool, error) {
		calls++
		return false, nil
	})
	if err != nil {
		t.Fatalf("DumpInodes: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly 1 callback invocation before stopping, got %d", calls)
	}
}

func TestNewParserRejectsBadSuperblock(t *testing.T) {
	dev := newMemDevice(superBlockSize)
	_, err := NewParser(dev)
	if err == nil {
		t.Fatalf("expected NewParser to fail on an invalid superblock")
	}
}
