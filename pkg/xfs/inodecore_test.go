package xfs

import "testing"

func writeTestInodeCore(buf []byte, magic uint16, mode uint16, version uint8, format uint8, nlink uint32) {
	buf[0] = byte(magic >> 8)
	buf[1] = byte(magic)
	buf[2] = byte(mode >> 8)
	buf[3] = byte(mode)
	buf[4] = version
	buf[5] = format
	buf[16] = byte(nlink >> 24)
	buf[17] = byte(nlink >> 16)
	buf[18] = byte(nlink >> 8)
	buf[19] = byte(nlink)
}

func TestValidateInodeCoreAccepts(t *testing.T) {
	buf := make([]byte, inodeCoreSize)
	writeTestInodeCore(buf, InodeMagicNumber, 0, 3, InodeFormatExtents, 0)

	core, err := decodeInodeCore(buf)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if verr := validateInodeCore(core); verr != nil {
		t.Fatalf("expected valid core, got %v", verr)
	}
}

func TestValidateInodeCoreRejectsBadMagic(t *testing.T) {
	buf := make([]byte, inodeCoreSize)
	writeTestInodeCore(buf, 0x1234, 0, 3, InodeFormatExtents, 0)

	core, _ := decodeInodeCore(buf)
	if verr := validateInodeCore(core); verr == nil {
		t.Fatalf("expected rejection for bad magic")
	}
}

func TestValidateInodeCoreRejectsNonZeroNlink(t *testing.T) {
	buf := make([]byte, inodeCoreSize)
	writeTestInodeCore(buf, InodeMagicNumber, 0, 3, InodeFormatExtents, 1)

	core, _ := decodeInodeCore(buf)
	if verr := validateInodeCore(core); verr == nil {
		t.Fatalf("expected rejection for non-zero nlink")
	}
}

func TestValidateInodeCoreRejectsNonZeroMode(t *testing.T) {
	buf := make([]byte, inodeCoreSize)
	writeTestInodeCore(buf, InodeMagicNumber, 0100644, 3, InodeFormatExtents, 0)

	core, _ := decodeInodeCore(buf)
	if verr := validateInodeCore(core); verr == nil {
		t.Fatalf("expected rejection for non-zero mode")
	}
}

func TestValidateInodeCoreRejectsWrongFormat(t *testing.T) {
	buf := make([]byte, inodeCoreSize)
	writeTestInodeCore(buf, InodeMagicNumber, 0, 3, InodeFormatBTree, 0)

	core, _ := decodeInodeCore(buf)
	if verr := validateInodeCore(core); verr == nil {
		t.Fatalf("expected rejection for non-EXTENTS format")
	}
}
