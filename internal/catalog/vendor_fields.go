package catalog

import "github.com/sdparm-go/sdparm/internal/scsicmd"

// vendorFields is an illustrative vendor-specific overlay (spec §4.2 "one
// per vendor id"), enough to exercise the --vendor= selector path end to
// end. Not an exhaustive vendor catalog — see DESIGN.md.
var vendorFields = []FieldDescriptor{
	// Seagate-specific bits reserved in the generic Caching page (0x08).
	{Acronym: "ATC", PageCode: 0x08, Vendor: scsicmd.VendorSeagate,
		StartByte: 16, StartBit: 3, NumBits: 1,
		Description: "Adaptive Thermal Compensation enable (Seagate)"},
	{Acronym: "SSMD", PageCode: 0x08, Vendor: scsicmd.VendorSeagate,
		StartByte: 16, StartBit: 2, NumBits: 1,
		Description: "Seek Speed Mode Disable (Seagate)"},
}
