package xfs

import "testing"

func writeTestSuperBlock(d *memDevice, version uint16) {
	d.putUint32(0, SBMagicNumber)
	d.putUint32(4, 4096)    // block size
	d.putUint64(8, 4000)    // data blocks
	d.putUint32(84, 1000)   // ag blocks
	d.putUint32(88, 4)      // ag count
	d.putUint16(100, version)
	d.putUint16(102, 512) // sector size
	d.putUint16(104, 256) // inode size
}

func TestReadSuperBlockRejectsBadMagic(t *testing.T) {
	d := newMemDevice(superBlockSize)
	_, err := ReadSuperBlock(d)
	if err == nil {
		t.Fatalf("expected error for bad magic")
	}
}

func TestReadSuperBlockRejectsUnknownVersion(t *testing.T) {
	d := newMemDevice(superBlockSize)
	writeTestSuperBlock(d, 9) // version nibble 9, out of {1..5}
	_, err := ReadSuperBlock(d)
	if err == nil {
		t.Fatalf("expected error for unknown version")
	}
}

func TestReadSuperBlockAcceptsValid(t *testing.T) {
	d := newMemDevice(superBlockSize)
	writeTestSuperBlock(d, 5)

	sb, err := ReadSuperBlock(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sb.BlockSize != 4096 {
		t.Fatalf("BlockSize: got %d want 4096", sb.BlockSize)
	}
	if sb.AGCount != 4 {
		t.Fatalf("AGCount: got %d want 4", sb.AGCount)
	}
}

func TestSuperBlockFeatureBits(t *testing.T) {
	sb := &SuperBlock{ROFeatureFlags: ROCompatFINOBTBit, RWIncompatFlags: IncompatSpinodesBit}

	if !sb.UsesFinobt() {
		t.Fatalf("expected UsesFinobt to be true")
	}
	if !sb.UsesSparseInodes() {
		t.Fatalf("expected UsesSparseInodes to be true")
	}

	names := sb.FeatureNames()
	found := map[string]bool{}
	for _, n := range names {
		found[n] = true
	}
	if !found["finobt"] || !found["spinodes"] {
		t.Fatalf("FeatureNames missing expected entries: %v", names)
	}
}
