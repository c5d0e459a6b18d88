package modeengine

import (
	"encoding/binary"

	"github.com/sdparm-go/sdparm/internal/catalog"
)

// maxEncodedDescLen caps a single variable-length descriptor's encoded
// length (spec §4.5.2: "cap encoded length at 1024 bytes (abort with
// warning on overflow)").
const maxEncodedDescLen = 1024

// descriptorOffsets returns the start byte of each descriptor instance
// present in buf for layout, per spec §4.5.2's three enumeration
// formulas. The bool result is false when a variable-length walk hit
// the 1024-byte cap and had to abort early.
func descriptorOffsets(layout catalog.ModeDescriptorLayout, buf []byte) ([]int, bool) {
	switch l := layout.(type) {
	case catalog.FixedLenDescriptors:
		return fixedOffsets(l.FirstDescOff, l.DescLen, beField(buf, l.NumDescsOff, l.NumDescsBytes)+l.NumDescsInc, buf), true
	case catalog.CountedDescriptors:
		stored := beField(buf, l.NumDescsOff, l.NumDescsBytes)
		count := (stored - (l.FirstDescOff - l.NumDescsOff - l.NumDescsBytes)) / maxInt(l.DescLen, 1)
		return fixedOffsets(l.FirstDescOff, l.DescLen, count, buf), true
	case catalog.VarLenDescriptors:
		return varLenOffsets(l, buf)
	default:
		return nil, true
	}
}

func fixedOffsets(firstOff, descLen, count int, buf []byte) []int {
	if count < 0 {
		count = 0
	}
	out := make([]int, 0, count)
	for i := 0; i < count; i++ {
		off := firstOff + i*descLen
		if off >= len(buf) {
			break
		}
		out = append(out, off)
	}
	return out
}

func varLenOffsets(l catalog.VarLenDescriptors, buf []byte) ([]int, bool) {
	var out []int
	off := l.FirstDescOff
	for off < len(buf) {
		encLen := beField(buf, off+l.DescLenOff, l.DescLenBytes)
		if encLen > maxEncodedDescLen {
			return out, false
		}
		out = append(out, off)
		total := l.DescLenOff + l.DescLenBytes + encLen
		if total <= 0 {
			break
		}
		off += total
	}
	return out, true
}

func beField(buf []byte, off, n int) int {
	if n <= 0 || off < 0 || off+n > len(buf) {
		return 0
	}
	switch n {
	case 1:
		return int(buf[off])
	case 2:
		return int(binary.BigEndian.Uint16(buf[off : off+2]))
	case 4:
		return int(binary.BigEndian.Uint32(buf[off : off+4]))
	default:
		var v uint64
		for i := 0; i < n; i++ {
			v = v<<8 | uint64(buf[off+i])
		}
		return int(v)
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// layoutHasDescID reports whether layout's descriptors carry a runtime
// discriminant nibble (spec §3 ModeDescriptorLayout's DescID mechanism),
// used to disambiguate ClashOK field pairs sharing a byte range.
func layoutHasDescID(layout catalog.ModeDescriptorLayout) bool {
	switch l := layout.(type) {
	case catalog.FixedLenDescriptors:
		return l.HaveDescID
	case catalog.CountedDescriptors:
		return l.HaveDescID
	case catalog.VarLenDescriptors:
		return l.HaveDescID
	default:
		return false
	}
}

// descDiscriminant reads the 4-bit descriptor-type discriminant stored,
// by convention, in bits 3:0 of a descriptor's second byte (mirroring
// SAS-3's ATTACHED REASON placement in the Phy Control and Discover
// descriptor), used to pick which of a ClashOK field pair applies to
// the descriptor instance starting at descBase.
func descDiscriminant(buf []byte, descBase int) (int, bool) {
	off := descBase + 1
	if off < 0 || off >= len(buf) {
		return 0, false
	}
	return int(buf[off] & 0x0f), true
}
