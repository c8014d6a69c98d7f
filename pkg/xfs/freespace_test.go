package xfs

import "testing"

func writeFreeSpaceLeaf(d *memDevice, seek uint64, numRecs uint16, records [][2]uint32) {
	d.putUint16(seek+4, 0) // level 0: leaf
	d.putUint16(seek+6, numRecs)
	for i, r := range records {
		off := seek + btreeShortHeaderCRCSize + uint64(i)*freeSpaceRecordSize
		d.putUint32(off, r[0])
		d.putUint32(off+4, r[1])
	}
}

func TestIntersectFreeSpaceFullyCovered(t *testing.T) {
	sb := &SuperBlock{BlockSize: 4096, AGBlocks: 1000, AGCount: 1}
	dev := newMemDevice(4096 * 1000)

	agfRoot := uint32(1)
	seek := agByteOffset(sb, 0) + uint64(agfRoot)*uint64(sb.BlockSize)
	writeFreeSpaceLeaf(dev, seek, 1, [][2]uint32{{100, 50}}) // free [100,150)

	e := Extent{FileOffset: 10, StartBlock: 120, BlockCount: 10}
	result, err := intersectFreeSpace(dev, sb, 0, agfRoot, 1000, e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected 1 surviving sub-extent, got %d", len(result))
	}
	if result[0].FileOffset != 10 || result[0].StartBlock != 120 || result[0].BlockCount != 10 {
		t.Fatalf("unexpected sub-extent: %+v", result[0])
	}
}

func TestIntersectFreeSpacePartiallyCovered(t *testing.T) {
	sb := &SuperBlock{BlockSize: 4096, AGBlocks: 1000, AGCount: 1}
	dev := newMemDevice(4096 * 1000)

	agfRoot := uint32(1)
	seek := agByteOffset(sb, 0) + uint64(agfRoot)*uint64(sb.BlockSize)
	writeFreeSpaceLeaf(dev, seek, 1, [][2]uint32{{100, 20}}) // free [100,120)

	// requested [110,140): only [110,120) is free.
	e := Extent{FileOffset: 0, StartBlock: 110, BlockCount: 30}
	result, err := intersectFreeSpace(dev, sb, 0, agfRoot, 1000, e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected 1 surviving sub-extent, got %d", len(result))
	}
	if result[0].StartBlock != 110 || result[0].BlockCount != 10 {
		t.Fatalf("unexpected sub-extent: %+v", result[0])
	}
}

func TestIntersectFreeSpaceMultiRecordSplit(t *testing.T) {
	sb := &SuperBlock{BlockSize: 4096, AGBlocks: 1000, AGCount: 1}
	dev := newMemDevice(4096 * 1000)

	agfRoot := uint32(1)
	seek := agByteOffset(sb, 0) + uint64(agfRoot)*uint64(sb.BlockSize)
	// free [100,103) and [105,109), with a gap at [103,105).
	writeFreeSpaceLeaf(dev, seek, 2, [][2]uint32{{100, 3}, {105, 4}})

	// requested [100,110): first 3 blocks land in the first free run, the
	// rest of the overlap lands in the second.
	e := Extent{FileOffset: 0, StartBlock: 100, BlockCount: 10}
	result, err := intersectFreeSpace(dev, sb, 0, agfRoot, 1000, e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 surviving sub-extents, got %d: %+v", len(result), result)
	}
	if result[0].FileOffset != 0 || result[0].StartBlock != 100 || result[0].BlockCount != 3 {
		t.Fatalf("unexpected first sub-extent: %+v", result[0])
	}
	// sub.begin (105) - e.rb_start (100) = 5 blocks into the file, not
	// sub.begin - the already-advanced cursor (103).
	if result[1].FileOffset != 5 || result[1].StartBlock != 105 || result[1].BlockCount != 4 {
		t.Fatalf("unexpected second sub-extent: %+v", result[1])
	}
}

func TestIntersectFreeSpaceNoOverlap(t *testing.T) {
	sb := &SuperBlock{BlockSize: 4096, AGBlocks: 1000, AGCount: 1}
	dev := newMemDevice(4096 * 1000)

	agfRoot := uint32(1)
	seek := agByteOffset(sb, 0) + uint64(agfRoot)*uint64(sb.BlockSize)
	writeFreeSpaceLeaf(dev, seek, 1, [][2]uint32{{100, 20}}) // free [100,120)

	e := Extent{FileOffset: 0, StartBlock: 500, BlockCount: 10}
	result, err := intersectFreeSpace(dev, sb, 0, agfRoot, 1000, e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 0 {
		t.Fatalf("expected no surviving sub-extents, got %+v", result)
	}
}
