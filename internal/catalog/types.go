// Package catalog is the static, table-driven description of every named
// field inside every known mode page and VPD page, across generic,
// transport-specific, and vendor-specific namespaces (spec §4.2).
//
// The catalog is process-wide immutable data: every exported lookup
// function reads constant slices built once at package init via the
// builder in build.go, per the Design Notes' "constant slices indexed
// through a builder pattern at compile time" guidance.
package catalog

import "github.com/sdparm-go/sdparm/internal/scsicmd"

// Flags is a bit-set of per-field rendering/behavior hints, replacing the
// legacy tool's ad-hoc numeric constants (spec §9).
type Flags uint16

const (
	// Common marks a field as shown in summary (non -a) output.
	Common Flags = 1 << iota
	// Hex renders the field's value in hexadecimal.
	Hex
	// TwosComp renders the field as a signed two's-complement integer.
	TwosComp
	// AllOnes renders the sentinel -1 when all bits of the field are set.
	AllOnes
	// UseDesc is a naming hint: JSON/text names should fold in the
	// descriptor index even for the first descriptor instance.
	UseDesc
	// NParamDesc is a naming hint for fields counting descriptors.
	NParamDesc
	// ClashOK marks a field whose byte range overlaps another field；
	// disambiguated at runtime by the descriptor's DescID.
	ClashOK
	// StopIfSet: if non-zero in the current page's value, stop emitting
	// descriptor siblings beyond the current one.
	StopIfSet
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// ValueRender is the tagged-variant rendering mode derived from Flags,
// per Design Notes §9 (Unsigned/Hex/Signed/Sentinel).
type ValueRender int

const (
	RenderUnsigned ValueRender = iota
	RenderHex
	RenderSigned
	RenderSentinel
)

// Render derives the ValueRender for a field's flags, preferring the
// sentinel rendering (checked first by callers) layered over hex/signed.
func (f Flags) Render() ValueRender {
	switch {
	case f.Has(TwosComp):
		return RenderSigned
	case f.Has(Hex):
		return RenderHex
	default:
		return RenderUnsigned
	}
}

// FieldDescriptor is one named bit-field inside one (page, subpage) pair.
type FieldDescriptor struct {
	Acronym     string
	PageCode    uint8
	SubpageCode uint8
	// PDTs this field applies to; nil/empty means "all".
	PDTs []scsicmd.PDT
	Transport   scsicmd.Transport // TransportAny for generic/vendor fields
	Vendor      scsicmd.Vendor    // VendorAny for generic/transport fields

	StartByte int
	StartBit  int // MSB of the field within its byte, 0..7 (7 = bit 7)
	NumBits   int // 1..64

	Flags Flags
	// DescID, when ClashOK is set, selects which runtime descriptor type
	// id (4 bits) this field applies to.
	DescID int

	Description string
	Extra       string
}

// AppliesToPDT reports whether the field is defined for the (possibly
// decayed) peripheral device type pdt.
func (f *FieldDescriptor) AppliesToPDT(pdt scsicmd.PDT) bool {
	if len(f.PDTs) == 0 {
		return true
	}
	decayed := scsicmd.DecayPDT(pdt)
	for _, p := range f.PDTs {
		if p == pdt || p == decayed {
			return true
		}
	}
	return false
}

// ModeDescriptorLayout describes a mode page's repeating sub-structure
// (spec §3 ModeDescriptorLayout), modeled as a Go interface with three
// concrete shapes per Design Notes §9 instead of one struct with a
// discriminant field.
type ModeDescriptorLayout interface {
	layoutMarker()
}

// FixedLenDescriptors is used when every descriptor has the same fixed
// byte length and the count is read directly from a header field.
type FixedLenDescriptors struct {
	FirstDescOff int
	DescLen      int
	NumDescsOff  int
	NumDescsBytes int
	// NumDescsInc is added to the raw stored count to give the number
	// of descriptors.
	NumDescsInc int
	HaveDescID  bool
	Name        string
}

func (FixedLenDescriptors) layoutMarker() {}

// CountedDescriptors is used when NumDescsInc == -1 and DescLen > 0: the
// descriptor count is derived as
// (stored - (FirstDescOff - NumDescsOff - NumDescsBytes)) / DescLen.
type CountedDescriptors struct {
	FirstDescOff  int
	DescLen       int
	NumDescsOff   int
	NumDescsBytes int
	HaveDescID    bool
	Name          string
}

func (CountedDescriptors) layoutMarker() {}

// VarLenDescriptors is used when each descriptor carries its own length
// field (DescLenOff, width DescLenBytes) and total descriptor length is
// DescLenOff+DescLenBytes+encoded length.
type VarLenDescriptors struct {
	FirstDescOff int
	DescLenOff   int
	DescLenBytes int
	HaveDescID   bool
	Name         string
}

func (VarLenDescriptors) layoutMarker() {}

// ModePageName maps (page, subpage, pdt, transport, vendor) to a display
// name and, for pages with repeating records, a descriptor layout.
type ModePageName struct {
	PageCode    uint8
	SubpageCode uint8
	PDTs        []scsicmd.PDT
	Transport   scsicmd.Transport
	Vendor      scsicmd.Vendor
	Name        string
	Acronym     string
	Layout      ModeDescriptorLayout
}

func (n *ModePageName) AppliesToPDT(pdt scsicmd.PDT) bool {
	if len(n.PDTs) == 0 {
		return true
	}
	decayed := scsicmd.DecayPDT(pdt)
	for _, p := range n.PDTs {
		if p == pdt || p == decayed {
			return true
		}
	}
	return false
}

// VpdPageName maps (code, subvalue, pdt) to a display name and acronym.
type VpdPageName struct {
	Code     uint8
	Subvalue uint8
	PDTs     []scsicmd.PDT
	Name     string
	Acronym  string
}

func (n *VpdPageName) AppliesToPDT(pdt scsicmd.PDT) bool {
	if len(n.PDTs) == 0 {
		return true
	}
	decayed := scsicmd.DecayPDT(pdt)
	for _, p := range n.PDTs {
		if p == pdt || p == decayed {
			return true
		}
	}
	return false
}
