package catalog

import "github.com/sdparm-go/sdparm/internal/scsicmd"

// vpdPageNames enumerates the ~40 standardized VPD pages from spec §4.6.
// Pages 0xB0..0xBA are PDT-dependent at the same code; entries restrict
// PDTs accordingly so FindVpdName can disambiguate.
var vpdPageNames = []VpdPageName{
	{Code: 0x00, Name: "Supported VPD Pages", Acronym: "sv"},
	{Code: 0x80, Name: "Unit Serial Number", Acronym: "sn"},
	{Code: 0x83, Name: "Device Identification", Acronym: "di"},
	{Code: 0x84, Name: "Software Interface Identification", Acronym: "si"},
	{Code: 0x85, Name: "Management Network Addresses", Acronym: "mna"},
	{Code: 0x86, Name: "Extended INQUIRY Data", Acronym: "ei"},
	{Code: 0x87, Name: "Mode Page Policy", Acronym: "mpp"},
	{Code: 0x88, Name: "SCSI Ports", Acronym: "ports"},
	{Code: 0x89, Name: "ATA Information", Acronym: "ai"},
	{Code: 0x8a, Name: "Power Condition", Acronym: "pc"},
	{Code: 0x8b, Name: "Device Constituents", Acronym: "dc"},
	{Code: 0x8c, Name: "CFA Profile Information", Acronym: "cfa"},
	{Code: 0x8d, Name: "Power Consumption", Acronym: "psm"},
	{Code: 0x8f, Name: "Third Party Copy", Acronym: "tpc"},
	{Code: 0x90, Name: "Protocol-Specific Logical Unit Information", Acronym: "psl"},
	{Code: 0x91, Name: "Protocol-Specific Port Information", Acronym: "ppi"},
	{Code: 0x92, Name: "SCSI Feature Sets", Acronym: "sfs"},

	// 0xB0..0xBA: PDT-dependent.
	{Code: 0xb0, Name: "Block Limits", Acronym: "bl", PDTs: []scsicmd.PDT{scsicmd.PDTDisk, scsicmd.PDTZBC}},
	{Code: 0xb0, Name: "Sequential Access Device Capabilities", Acronym: "sad", PDTs: []scsicmd.PDT{scsicmd.PDTTape}},
	{Code: 0xb0, Name: "OSD Information", Acronym: "osdi", PDTs: []scsicmd.PDT{0x11}},
	{Code: 0xb1, Name: "Block Device Characteristics", Acronym: "bdc", PDTs: []scsicmd.PDT{scsicmd.PDTDisk, scsicmd.PDTZBC}},
	{Code: 0xb1, Name: "Manufacturer-Assigned Serial Number", Acronym: "masn", PDTs: []scsicmd.PDT{scsicmd.PDTTape}},
	{Code: 0xb1, Name: "Security Token", Acronym: "stkn", PDTs: []scsicmd.PDT{0x11}},
	{Code: 0xb2, Name: "Logical Block Provisioning", Acronym: "lbpv", PDTs: []scsicmd.PDT{scsicmd.PDTDisk, scsicmd.PDTZBC}},
	{Code: 0xb2, Name: "TapeAlert Supported Flags", Acronym: "tas", PDTs: []scsicmd.PDT{scsicmd.PDTTape}},
	{Code: 0xb3, Name: "Referrals", Acronym: "ref", PDTs: []scsicmd.PDT{scsicmd.PDTDisk}},
	{Code: 0xb3, Name: "Automation Device Serial Number", Acronym: "adsn", PDTs: []scsicmd.PDT{scsicmd.PDTTape}},
	{Code: 0xb4, Name: "Supported Block Lengths and Protection Types", Acronym: "sbl", PDTs: []scsicmd.PDT{scsicmd.PDTDisk}},
	{Code: 0xb4, Name: "Data Transfer Device Element Address", Acronym: "dtde", PDTs: []scsicmd.PDT{scsicmd.PDTMediumChgr}},
	{Code: 0xb5, Name: "Block Device Characteristics Extension", Acronym: "bdce", PDTs: []scsicmd.PDT{scsicmd.PDTDisk}},
	{Code: 0xb5, Name: "Logical Block Protection", Acronym: "lbpr", PDTs: []scsicmd.PDT{scsicmd.PDTTape}},
	{Code: 0xb6, Name: "Zoned Block Device Characteristics", Acronym: "zbdc", PDTs: []scsicmd.PDT{scsicmd.PDTZBC}},
	{Code: 0xb7, Name: "Block Limits Extension", Acronym: "ble", PDTs: []scsicmd.PDT{scsicmd.PDTDisk, scsicmd.PDTZBC}},
	{Code: 0xb8, Name: "Format Presets", Acronym: "fp", PDTs: []scsicmd.PDT{scsicmd.PDTDisk}},
	{Code: 0xb9, Name: "Concurrent Positioning Ranges", Acronym: "cpr", PDTs: []scsicmd.PDT{scsicmd.PDTDisk}},
	{Code: 0xba, Name: "Capacity/Product Identification Mapping", Acronym: "cpim", PDTs: []scsicmd.PDT{scsicmd.PDTDisk}},
}
