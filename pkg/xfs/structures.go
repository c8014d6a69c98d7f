package xfs

const (
	SBMagicNumber = 0x58465342 // "XFSB"

	VersionAttrBit     = 0x0010 // XFS_SB_VERSION_ATTRBIT
	VersionNlinkBit    = 0x0020 // XFS_SB_VERSION_NLINKBIT
	VersionQuotaBit    = 0x0040 // XFS_SB_VERSION_QUOTABIT
	VersionAlignBit    = 0x0080 // XFS_SB_VERSION_ALIGNBIT
	VersionDalignBit   = 0x0100 // XFS_SB_VERSION_DALIGNBIT
	VersionSharedBit   = 0x0200 // XFS_SB_VERSION_SHAREDBIT
	VersionLogV2Bit    = 0x0400 // XFS_SB_VERSION_LOGV2BIT
	VersionSectorBit   = 0x0800 // XFS_SB_VERSION_SECTORBIT
	VersionExtFlgBit   = 0x1000 // XFS_SB_VERSION_EXTFLGBIT
	VersionDirV2Bit    = 0x2000 // XFS_SB_VERSION_DIRV2BIT
	VersionBorgBit     = 0x4000 // XFS_SB_VERSION_BORGBIT
	VersionMoreBitsBit = 0x8000 // XFS_SB_VERSION_MOREBITSBIT

	Version2Reserved1Bit   = 0x00000001 // XFS_SB_VERSION2_RESERVED1BIT
	Version2LazySBCountBit = 0x00000002 // XFS_SB_VERSION2_LAZYSBCOUNTBIT
	Version2Reserved4Bit   = 0x00000004 // XFS_SB_VERSION2_RESERVED4BIT
	Version2Attr2Bit       = 0x00000008 // XFS_SB_VERSION2_ATTR2BIT
	Version2ParentBit      = 0x00000010 // XFS_SB_VERSION2_PARENTBIT
	Version2ProjID32Bit    = 0x00000080 // XFS_SB_VERSION2_PROJID32BIT
	Version2CRCBit         = 0x00000100 // XFS_SB_VERSION2_CRCBIT
	Version2Ftype          = 0x00000200 // XFS_SB_VERSION2_FTYPE

	// RO-compat and incompat feature bits, v5 superblocks only. Sourced
	// from xfs_superblock.h; the pre-v5 teacher struct never needed them.
	ROCompatFINOBTBit  = 0x00000001 // XFS_SB_FEAT_RO_COMPAT_FINOBT
	ROCompatRMAPBTBit  = 0x00000002 // XFS_SB_FEAT_RO_COMPAT_RMAPBT
	ROCompatReflinkBit = 0x00000004 // XFS_SB_FEAT_RO_COMPAT_REFLINK

	IncompatFTypeBit    = 0x00000001 // XFS_SB_FEAT_INCOMPAT_FTYPE
	IncompatSpinodesBit = 0x00000002 // XFS_SB_FEAT_INCOMPAT_SPINODES
	IncompatMetaUUIDBit = 0x00000004 // XFS_SB_FEAT_INCOMPAT_META_UUID

	AGFMagicNumber = 0x58414746 // "XAGF"
	AGIMagicNumber = 0x58414749 // "XAGI"

	// CRC-enabled short-format B+tree magics (v5): the only tree shapes
	// this recovery core walks.
	IABT3MagicNumber = 0x49414233 // "IAB3" inode btree
	FIBT3MagicNumber = 0x46494233 // "FIB3" free-inode btree
	AB3BMagicNumber  = 0x41423342 // "AB3B" free-space-by-block btree

	// btreeShortHeaderCRCSize is the on-disk size of the CRC-enabled
	// short B+tree block header: 8 bytes of magic/level/numrecs fields
	// plus the 48-byte shdr (leftsib, rightsib, blkno, lsn, uuid, owner,
	// crc). See xfs_trees.h.
	btreeShortHeaderCRCSize = 56

	InodeMagicNumber = 0x494e // "IN" (in ascii)

	InodeFormatExtents = 2
	InodeFormatBTree   = 3
)

type SuperBlock struct {
	MagicNumber                     uint32   // 0
	BlockSize                       uint32   // 4
	DataBlocks                      uint64   // 8
	RealtimeBlocks                  uint64   // 16
	RealtimeExtents                 uint64   // 24
	UUID                            [16]byte // 32
	LogStart                        uint64   // 48
	RootInode                       uint64   // 56
	RealtimeBitmapInode             uint64   // 64
	RealtimeSummaryInode            uint64   // 72
	RealtimeExtentBlocks            uint32   // 80
	AGBlocks                        uint32   // 84
	AGCount                         uint32   // 88
	RealtimeBitmapBlocks            uint32   // 92
	LogBlocks                       uint32   // 96
	VersionNum                      uint16   // 100
	SectorSize                      uint16   // 102
	InodeSize                       uint16   // 104
	InodesPerBlock                  uint16   // 106
	FSName                          [12]byte // 108
	BlockSizeLogarithmic            uint8    // 120
	SectorSizeLogarithmic           uint8    // 121
	InodeSizeLogarithmic            uint8    // 122
	InodesPerBlockLogarithmic       uint8    // 123
	AGBlocksLogarithmic             uint8    // 124
	RealtimeExtentBlocksLogarithmic uint8    // 125
	InProgress                      uint8    // 126
	InodesMaxPercentage             uint8    // 127
	InodesAllocated                 uint64   // 128
	InodesFree                      uint64   // 136
	DataFree                        uint64   // 144
	RealtimeExtentsFree             uint64   // 152
	UserQuotasInode                 uint64   // 160
	GroupQuotasInode                uint64   // 168
	QuotaFlags                      uint16   // 176
	MiscFlags                       uint8    // 178
	SharedVN                        uint8    // 179
	InodeChunkAlignment             uint32   // 180 // TODO: WHAT?
	StripeUnitBlocks                uint32   // 184
	StripeWidthBlocks               uint32   // 188
	DirectoryBlocksLogarithmic      uint8    // 192
	LogSectorSizeLogarithmic        uint8    // 193
	LogSectorSize                   uint16   // 194
	LogStripeUnit                   uint32   // 196
	MoreFeatures                    uint32   // 200
	BadFeatures                     uint32   // 204

	// Version 5 only. Absent (zero) on pre-v5 filesystems; readers must
	// check VersionNum before trusting these.
	RWFeatureFlags       uint32   // 208 sb_features_compat
	ROFeatureFlags       uint32   // 212 sb_features_ro_compat
	RWIncompatFlags      uint32   // 216 sb_features_incompat
	RWIncompatLogFlags   uint32   // 220 sb_features_log_incompat
	Checksum             uint32   // 224 sb_crc
	SparseInodeAlignment uint32   // 228 sb_spino_align
	ProjectQuotaInode    uint64   // 232 sb_pquotino
	LastLogSeqNo         uint64   // 240 sb_lsn
	UUID2                [16]byte // 248 sb_meta_uuid
	RMBTInode            uint64   // 264 sb_rmapino (reserved, unread by this core)
}

type AGF struct {
	Magic       uint32    // 0
	Version     uint32    // 4
	SeqNo       uint32    // 8
	Length      uint32    // 12
	Roots       [2]uint32 // 16
	Spare0      uint32    // 24
	Levels      [2]uint32 // 28
	Spare1      uint32    // 36
	FLFirst     uint32    // 40
	FLLast      uint32    // 44
	FLCount     uint32    // 48
	FreeBlocks  uint32    // 52
	Longest     uint32    // 56
	BTreeBlocks uint32    // 60
}

type AGI struct {
	Magic     uint32     // 0
	Version   uint32     // 4
	SeqNo     uint32     // 8
	Length    uint32     // 12
	Count     uint32     // 16
	Root      uint32     // 20
	Level     uint32     // 24
	FreeCount uint32     // 28
	NewIno    uint32     // 32
	DirIno    uint32     // 36
	Unlinked  [64]uint32 // 40

	// v5 fields, following agi_unlinked on disk (xfs_agi.h). UUID/CRC/LSN
	// are read but unused by this core; FreeRoot/FreeLevel are the
	// FINOBT root and level, distinct from Root/Level above.
	UUID      [16]byte
	CRC       uint32
	Pad32     uint32
	LSN       uint64
	FreeRoot  uint32
	FreeLevel uint32
}

// btreeShortHeader is the CRC-enabled short-format B+tree block header
// (56 bytes: xfs_btree_sblock + CRC shdr extension). See xfs_trees.h.
type btreeShortHeader struct {
	Magic    uint32   // 0
	Level    uint16   // 4
	NumRecs  uint16   // 6
	LeftSIB  uint32   // 8
	RightSIB uint32   // 12
	BlockNo  uint64   // 16
	LSN      uint64   // 24
	UUID     [16]byte // 32
	Owner    uint32   // 48
	CRC      uint32   // 52
} // 56

// InodeBTreeRecord is the general inode btree / free-inode btree record,
// decoded according to whichever union member applies (xfs_inobt_rec_t
// in xfs_types.h). HoleMask/Count are only meaningful when the
// superblock's incompat.SPINODES bit is set; otherwise those four bytes
// hold the full form's 32-bit free count (see FullFreeCount).
type InodeBTreeRecord struct {
	StartIno  uint32 // 0
	HoleMask  uint16 // 4, sparse form only
	Count     uint8  // 6, sparse form only
	FreeCount uint8  // 7, sparse form only (overlays the full form's 4-byte FreeCount)
	Free      uint64 // 8
}

// FullFreeCount returns FreeCount as the 32-bit value the non-sparse
// record shape carries in the same four bytes.
func (r InodeBTreeRecord) FullFreeCount() uint32 {
	return uint32(r.HoleMask)<<16 | uint32(r.Count)<<8 | uint32(r.FreeCount)
}

// PackedExtent holds the two raw big-endian 64-bit words of an on-disk
// extent record (xfs_bmbt_rec_t), prior to bitfield unpacking.
type PackedExtent struct {
	L0 uint64
	L1 uint64
}

type Timestamp struct {
	Sec  uint32 // 0
	NSec uint32 // 4
}

// InodeCore is the full v3 on-disk dinode core (xfs_dinode_t through
// di_uuid, xfs_inode.h): the original 96-byte pre-v3 header plus
// di_next_unlinked, followed by the v3 extension fields that make this
// the 176-byte header every Version==3 inode actually carries on disk.
// The packed extent array starts immediately after byte 176, not after
// the legacy 100-byte header.
type InodeCore struct {
	Magic        uint16    // 0
	Mode         uint16    // 2
	Version      uint8     // 4
	Format       uint8     // 5
	Onlink       uint16    // 6
	UID          uint32    // 8
	GID          uint32    // 12
	Nlink        uint32    // 16
	ProjID       uint16    // 20
	Pad          [8]byte   // 22
	FlushIter    uint16    // 30
	ATime        Timestamp // 32
	MTime        Timestamp // 40
	CTime        Timestamp // 48
	Size         int64     // 56
	NBlocks      uint64    // 64
	ExtSize      uint32    // 72
	NExtents     int32     // 76
	ANExtents    int16     // 80
	ForkOff      uint8     // 82
	AFormat      int8      // 83
	DMevMask     uint32    // 84
	DMState      uint16    // 88
	Flags        uint16    // 90
	Gen          uint32    // 92
	NextUnlinked uint32    // 96

	// v3 extension (xfs_dinode3), following di_next_unlinked on disk.
	// Crc is di_crc, stored little-endian on disk; this core never reads
	// it, so the byte-order mismatch from decoding it alongside the rest
	// in big-endian is harmless.
	Crc         uint32    // 100
	ChangeCount uint64    // 104
	LSN         uint64    // 112
	Flags2      uint64    // 120
	CowExtSize  uint32    // 128
	Pad2        [12]byte  // 132
	CrTime      Timestamp // 144
	Ino         uint64    // 152
	UUID        [16]byte  // 160
} // 176
