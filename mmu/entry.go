package mmu

// TableDescriptor is the decoded form of a next level table pointer at
// level 1 or level 2.
type TableDescriptor struct {
	// Addr is the physical address of the next level table, 4KB aligned.
	Addr uint64
	NS   bool
	PXN  bool
	XN   bool
	AP   uint8
}

// Encode packs the descriptor into its 64-bit table entry representation.
func (d TableDescriptor) Encode() uint64 {
	raw := TABLE.Type.Val(ENTRY_TABLE) | TABLE.Addr.Val(d.Addr>>PAGE_SHIFT)
	if d.NS {
		raw |= TABLE.NS.Val(1)
	}
	if d.PXN {
		raw |= TABLE.PXN.Val(1)
	}
	if d.XN {
		raw |= TABLE.XN.Val(1)
	}
	raw |= TABLE.AP.Val(uint64(d.AP))
	return raw
}

// DecodeTable unpacks a table entry. The caller has to know from the
// entry's level and type bits that raw actually is a table pointer.
func DecodeTable(raw uint64) TableDescriptor {
	return TableDescriptor{
		Addr: TABLE.Addr.Read(raw) << PAGE_SHIFT,
		NS:   TABLE.NS.IsSet(raw),
		PXN:  TABLE.PXN.IsSet(raw),
		XN:   TABLE.XN.IsSet(raw),
		AP:   uint8(TABLE.AP.Read(raw)),
	}
}

// BlockPageDescriptor is the decoded form of a 2MB block entry (level 2)
// or a 4KB page entry (level 3). The two shapes share all attribute
// fields and differ only in the type bits and the alignment of Addr.
type BlockPageDescriptor struct {
	// Addr is the output physical address: 2MB aligned for a block,
	// 4KB aligned for a page.
	Addr       uint64
	MemAttr    uint8 // MAIR index selecting the memory attribute profile
	NS         bool
	AP         uint8
	SH         uint8
	AF         bool
	NG         bool
	Contiguous bool
	PXN        bool
	XN         bool
	SW         bool // software bit set on entries written by the allocator
}

func (d BlockPageDescriptor) encode(entryType uint64) uint64 {
	raw := BLOCKPAGE.Type.Val(entryType) |
		BLOCKPAGE.MemAttr.Val(uint64(d.MemAttr)) |
		BLOCKPAGE.AP.Val(uint64(d.AP)) |
		BLOCKPAGE.SH.Val(uint64(d.SH)) |
		BLOCKPAGE.Addr.Val(d.Addr>>PAGE_SHIFT)
	if d.NS {
		raw |= BLOCKPAGE.NS.Val(1)
	}
	if d.AF {
		raw |= BLOCKPAGE.AF.Val(1)
	}
	if d.NG {
		raw |= BLOCKPAGE.NG.Val(1)
	}
	if d.Contiguous {
		raw |= BLOCKPAGE.C.Val(1)
	}
	if d.PXN {
		raw |= BLOCKPAGE.PXN.Val(1)
	}
	if d.XN {
		raw |= BLOCKPAGE.XN.Val(1)
	}
	if d.SW {
		raw |= BLOCKPAGE.SW.Val(1)
	}
	return raw
}

// EncodeBlock packs the descriptor as a level 2 block entry.
func (d BlockPageDescriptor) EncodeBlock() uint64 { return d.encode(ENTRY_BLOCK) }

// EncodePage packs the descriptor as a level 3 page entry.
func (d BlockPageDescriptor) EncodePage() uint64 { return d.encode(ENTRY_PAGE) }

// DecodeBlockPage unpacks a block or page entry.
func DecodeBlockPage(raw uint64) BlockPageDescriptor {
	return BlockPageDescriptor{
		Addr:       BLOCKPAGE.Addr.Read(raw) << PAGE_SHIFT,
		MemAttr:    uint8(BLOCKPAGE.MemAttr.Read(raw)),
		NS:         BLOCKPAGE.NS.IsSet(raw),
		AP:         uint8(BLOCKPAGE.AP.Read(raw)),
		SH:         uint8(BLOCKPAGE.SH.Read(raw)),
		AF:         BLOCKPAGE.AF.IsSet(raw),
		NG:         BLOCKPAGE.NG.IsSet(raw),
		Contiguous: BLOCKPAGE.C.IsSet(raw),
		PXN:        BLOCKPAGE.PXN.IsSet(raw),
		XN:         BLOCKPAGE.XN.IsSet(raw),
		SW:         BLOCKPAGE.SW.IsSet(raw),
	}
}

// EntryKind classifies a raw entry. leaf selects the level 3
// interpretation where 0b11 means page instead of table.
type EntryKind uint8

const (
	EntryInvalid EntryKind = iota
	EntryBlock
	EntryTable
	EntryPage
)

func (k EntryKind) String() string {
	switch k {
	case EntryBlock:
		return "block"
	case EntryTable:
		return "table"
	case EntryPage:
		return "page"
	default:
		return "invalid"
	}
}

// KindOf returns the shape of a raw table entry at a non-leaf level
// (leaf=false, levels 1 and 2) or the leaf level (leaf=true, level 3).
func KindOf(raw uint64, leaf bool) EntryKind {
	switch raw & 0b11 {
	case ENTRY_TABLE:
		if leaf {
			return EntryPage
		}
		return EntryTable
	case ENTRY_BLOCK:
		if leaf {
			return EntryInvalid
		}
		return EntryBlock
	default:
		return EntryInvalid
	}
}
