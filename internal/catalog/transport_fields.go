package catalog

import "github.com/sdparm-go/sdparm/internal/scsicmd"

// sasPhyControlLayout describes the repeating phy descriptor array inside
// the SAS Phy Control and Discover mode page (0x19/0x01), used by spec
// scenario 3 (Enumerate Phy Control descriptors).
var sasPhyControlLayout = FixedLenDescriptors{
	FirstDescOff:  8,
	DescLen:       16,
	NumDescsOff:   7,
	NumDescsBytes: 1,
	NumDescsInc:   0,
	HaveDescID:    true,
	Name:          "sas_phy",
}

// transportFields covers fields defined only under a specific SCSI
// transport protocol namespace (spec §4.2 "one per transport protocol").
var transportFields = []FieldDescriptor{
	// SAS Phy Control and Discover (0x19, subpage 0x01) — SAS-3.
	{Acronym: "NUM_PHYS", PageCode: 0x19, SubpageCode: 0x01, Transport: scsicmd.TransportSAS,
		StartByte: 7, StartBit: 7, NumBits: 8, Flags: Hex | Common,
		Description: "Number of Phys"},
	// First phy descriptor instance (instance 0); ModeEngine clones this
	// with StartByte offset by desc_instance*DescLen for instances 1..N-1.
	{Acronym: "REASON", PageCode: 0x19, SubpageCode: 0x01, Transport: scsicmd.TransportSAS,
		StartByte: 8, StartBit: 3, NumBits: 4, Flags: Hex,
		Description: "Reason this phy last changed state"},
	// ATTACHED_REASON doubles as the descriptor's DescID discriminant
	// (descDiscriminant in modeengine/descriptors.go reads this same
	// nibble) for the VS_DIAG_A/VS_DIAG_B clash below.
	{Acronym: "ATTACHED_REASON", PageCode: 0x19, SubpageCode: 0x01, Transport: scsicmd.TransportSAS,
		StartByte: 9, StartBit: 3, NumBits: 4, Flags: Hex,
		Description: "Reason the attached phy last changed state"},
	{Acronym: "PHY_ID", PageCode: 0x19, SubpageCode: 0x01, Transport: scsicmd.TransportSAS,
		StartByte: 12, StartBit: 7, NumBits: 8, Flags: Hex | Common,
		Description: "Phy Identifier"},
	{Acronym: "ATTACHED_DEVTYPE", PageCode: 0x19, SubpageCode: 0x01, Transport: scsicmd.TransportSAS,
		StartByte: 13, StartBit: 6, NumBits: 3, Flags: Hex,
		Description: "Attached Device Type"},
	{Acronym: "NEG_LOGICAL_LINK_RATE", PageCode: 0x19, SubpageCode: 0x01, Transport: scsicmd.TransportSAS,
		StartByte: 13, StartBit: 3, NumBits: 4, Flags: Hex,
		Description: "Negotiated Logical Link Rate"},
	{Acronym: "PROG_MIN_PHYS_LINK_RATE", PageCode: 0x19, SubpageCode: 0x01, Transport: scsicmd.TransportSAS,
		StartByte: 14, StartBit: 7, NumBits: 4, Flags: Hex,
		Description: "Programmed Minimum Physical Link Rate"},
	{Acronym: "HW_MIN_PHYS_LINK_RATE", PageCode: 0x19, SubpageCode: 0x01, Transport: scsicmd.TransportSAS,
		StartByte: 14, StartBit: 3, NumBits: 4, Flags: Hex,
		Description: "Hardware Minimum Physical Link Rate"},
	// Vendor-specific byte (rel. offset 14 of the descriptor) whose
	// meaning a vendor keys off ATTACHED_REASON: two incompatible
	// readings of the same byte range, picked by DescID matching the
	// descriptor's ATTACHED_REASON nibble.
	{Acronym: "VS_DIAG_A", PageCode: 0x19, SubpageCode: 0x01, Transport: scsicmd.TransportSAS,
		StartByte: 22, StartBit: 7, NumBits: 8, Flags: Hex | ClashOK, DescID: 0,
		Description: "Vendor-specific diagnostic byte (attached reason: unknown)"},
	{Acronym: "VS_DIAG_B", PageCode: 0x19, SubpageCode: 0x01, Transport: scsicmd.TransportSAS,
		StartByte: 22, StartBit: 7, NumBits: 8, Flags: Hex | ClashOK, DescID: 2,
		Description: "Vendor-specific diagnostic byte (attached reason: hard reset)"},
}

var transportModePageNames = []ModePageName{
	{PageCode: 0x19, SubpageCode: 0x01, Transport: scsicmd.TransportSAS,
		Name: "SAS Phy Control and Discover", Acronym: "sp",
		Layout: sasPhyControlLayout},
}
