package catalog

import "github.com/sdparm-go/sdparm/internal/scsicmd"

// genericFields covers SPC/SBC mode pages applicable regardless of
// transport or vendor. Byte offsets are counted from the start of the
// page (byte 0/1 are always the page header, per spec §3 invariants).
var genericFields = []FieldDescriptor{
	// Read-Write Error Recovery (0x01) — SBC-3.
	{Acronym: "AWRE", PageCode: 0x01, StartByte: 2, StartBit: 7, NumBits: 1, Flags: Common,
		Description: "Automatic Write Reallocation Enabled"},
	{Acronym: "ARRE", PageCode: 0x01, StartByte: 2, StartBit: 6, NumBits: 1, Flags: Common,
		Description: "Automatic Read Reallocation Enabled"},
	{Acronym: "TB", PageCode: 0x01, StartByte: 2, StartBit: 5, NumBits: 1,
		Description: "Transfer Block"},
	{Acronym: "RC", PageCode: 0x01, StartByte: 2, StartBit: 4, NumBits: 1,
		Description: "Read Continuous"},
	{Acronym: "EER", PageCode: 0x01, StartByte: 2, StartBit: 3, NumBits: 1,
		Description: "Enable Early Recovery"},
	{Acronym: "PER", PageCode: 0x01, StartByte: 2, StartBit: 2, NumBits: 1, Flags: Common,
		Description: "Post Error"},
	{Acronym: "DTE", PageCode: 0x01, StartByte: 2, StartBit: 1, NumBits: 1,
		Description: "Disable Transfer on Error"},
	{Acronym: "DCR", PageCode: 0x01, StartByte: 2, StartBit: 0, NumBits: 1,
		Description: "Disable Correction"},
	{Acronym: "RRC", PageCode: 0x01, StartByte: 3, StartBit: 7, NumBits: 8, Flags: Hex,
		Description: "Read Retry Count"},
	{Acronym: "RTL", PageCode: 0x01, StartByte: 8, StartBit: 7, NumBits: 16, Flags: Hex,
		Description: "Recovery Time Limit (ms)"},

	// Disconnect-Reconnect (0x02) — SPC-4.
	{Acronym: "BFR", PageCode: 0x02, StartByte: 2, StartBit: 7, NumBits: 8, Flags: Hex,
		Description: "Buffer Full Ratio"},
	{Acronym: "BER", PageCode: 0x02, StartByte: 3, StartBit: 7, NumBits: 8, Flags: Hex,
		Description: "Buffer Empty Ratio"},
	{Acronym: "BIL", PageCode: 0x02, StartByte: 4, StartBit: 7, NumBits: 16, Flags: Hex,
		Description: "Bus Inactivity Limit"},
	{Acronym: "DTL", PageCode: 0x02, StartByte: 6, StartBit: 7, NumBits: 16, Flags: Hex,
		Description: "Disconnect Time Limit"},
	{Acronym: "CTL", PageCode: 0x02, StartByte: 8, StartBit: 7, NumBits: 16, Flags: Hex,
		Description: "Connect Time Limit"},

	// Format Device (0x03) — SBC-2, obsoleted by SBC-3 but still reported
	// by legacy disks.
	{Acronym: "TPZ", PageCode: 0x03, StartByte: 2, StartBit: 7, NumBits: 16, Flags: Hex,
		PDTs: []scsicmd.PDT{scsicmd.PDTDisk}, Description: "Tracks Per Zone"},
	{Acronym: "ASEC", PageCode: 0x03, StartByte: 4, StartBit: 7, NumBits: 16, Flags: Hex,
		PDTs: []scsicmd.PDT{scsicmd.PDTDisk}, Description: "Alternate Sectors Per Zone"},
	{Acronym: "ATRK", PageCode: 0x03, StartByte: 6, StartBit: 7, NumBits: 16, Flags: Hex,
		PDTs: []scsicmd.PDT{scsicmd.PDTDisk}, Description: "Alternate Tracks Per Zone"},
	{Acronym: "ATRKV", PageCode: 0x03, StartByte: 8, StartBit: 7, NumBits: 16, Flags: Hex,
		PDTs: []scsicmd.PDT{scsicmd.PDTDisk}, Description: "Alternate Tracks Per Volume"},
	{Acronym: "SPT", PageCode: 0x03, StartByte: 10, StartBit: 7, NumBits: 16, Flags: Hex | Common,
		PDTs: []scsicmd.PDT{scsicmd.PDTDisk}, Description: "Sectors Per Track"},
	{Acronym: "DBPPS", PageCode: 0x03, StartByte: 12, StartBit: 7, NumBits: 16, Flags: Hex,
		PDTs: []scsicmd.PDT{scsicmd.PDTDisk}, Description: "Data Bytes Per Physical Sector"},
	{Acronym: "ILV", PageCode: 0x03, StartByte: 14, StartBit: 7, NumBits: 16, Flags: Hex,
		PDTs: []scsicmd.PDT{scsicmd.PDTDisk}, Description: "Interleave"},
	{Acronym: "TSF", PageCode: 0x03, StartByte: 16, StartBit: 7, NumBits: 16, Flags: Hex,
		PDTs: []scsicmd.PDT{scsicmd.PDTDisk}, Description: "Track Skew Factor"},
	{Acronym: "CSF", PageCode: 0x03, StartByte: 18, StartBit: 7, NumBits: 16, Flags: Hex,
		PDTs: []scsicmd.PDT{scsicmd.PDTDisk}, Description: "Cylinder Skew Factor"},
	{Acronym: "SSEC", PageCode: 0x03, StartByte: 20, StartBit: 7, NumBits: 1, Flags: Common,
		PDTs: []scsicmd.PDT{scsicmd.PDTDisk}, Description: "Soft Sector"},
	{Acronym: "HSEC", PageCode: 0x03, StartByte: 20, StartBit: 6, NumBits: 1, Flags: Common,
		PDTs: []scsicmd.PDT{scsicmd.PDTDisk}, Description: "Hard Sector"},
	{Acronym: "SURF", PageCode: 0x03, StartByte: 20, StartBit: 4, NumBits: 1,
		PDTs: []scsicmd.PDT{scsicmd.PDTDisk}, Description: "Surface"},

	// Caching (0x08) — SBC-3.
	{Acronym: "IC", PageCode: 0x08, StartByte: 2, StartBit: 7, NumBits: 1,
		Description: "Initiator Control"},
	{Acronym: "ABPF", PageCode: 0x08, StartByte: 2, StartBit: 6, NumBits: 1,
		Description: "Abort Pre-Fetch"},
	{Acronym: "CAP", PageCode: 0x08, StartByte: 2, StartBit: 5, NumBits: 1,
		Description: "Caching Analysis Permitted"},
	{Acronym: "DISC", PageCode: 0x08, StartByte: 2, StartBit: 4, NumBits: 1, Flags: Common,
		Description: "Discontinuity"},
	{Acronym: "SIZE", PageCode: 0x08, StartByte: 2, StartBit: 3, NumBits: 1,
		Description: "Size Enable"},
	{Acronym: "WCE", PageCode: 0x08, StartByte: 2, StartBit: 2, NumBits: 1, Flags: Common,
		Description: "Write Cache Enable"},
	{Acronym: "MF", PageCode: 0x08, StartByte: 2, StartBit: 1, NumBits: 1,
		Description: "Multiplication Factor"},
	{Acronym: "RCD", PageCode: 0x08, StartByte: 2, StartBit: 0, NumBits: 1, Flags: Common,
		Description: "Read Cache Disable"},
	{Acronym: "DRRP", PageCode: 0x08, StartByte: 3, StartBit: 7, NumBits: 4, Flags: Hex,
		Description: "Demand Read Retention Priority"},
	{Acronym: "WRP", PageCode: 0x08, StartByte: 3, StartBit: 3, NumBits: 4, Flags: Hex,
		Description: "Write Retention Priority"},
	{Acronym: "DPTL", PageCode: 0x08, StartByte: 4, StartBit: 7, NumBits: 16, Flags: Hex,
		Description: "Disable Pre-Fetch Transfer Length"},
	{Acronym: "MIPRE", PageCode: 0x08, StartByte: 6, StartBit: 7, NumBits: 16, Flags: Hex,
		Description: "Minimum Pre-Fetch"},
	{Acronym: "MAPRE", PageCode: 0x08, StartByte: 8, StartBit: 7, NumBits: 16, Flags: Hex,
		Description: "Maximum Pre-Fetch"},
	{Acronym: "MAPRE_CEIL", PageCode: 0x08, StartByte: 10, StartBit: 7, NumBits: 16, Flags: Hex,
		Description: "Maximum Pre-Fetch Ceiling"},
	{Acronym: "FSW", PageCode: 0x08, StartByte: 12, StartBit: 7, NumBits: 1,
		Description: "Force Sequential Write"},
	{Acronym: "LBCSS", PageCode: 0x08, StartByte: 12, StartBit: 6, NumBits: 1,
		Description: "Logical Block Cache Segment Size"},
	{Acronym: "DRA", PageCode: 0x08, StartByte: 12, StartBit: 5, NumBits: 1, Flags: Common,
		Description: "Disable Read-Ahead"},
	{Acronym: "NV_DIS", PageCode: 0x08, StartByte: 12, StartBit: 0, NumBits: 1,
		Description: "Non-Volatile Cache Disable"},
	{Acronym: "NCS", PageCode: 0x08, StartByte: 13, StartBit: 7, NumBits: 8, Flags: Hex,
		Description: "Number of Cache Segments"},
	{Acronym: "CSS", PageCode: 0x08, StartByte: 14, StartBit: 7, NumBits: 16, Flags: Hex,
		Description: "Cache Segment Size"},
	{Acronym: "NCSS", PageCode: 0x08, StartByte: 17, StartBit: 7, NumBits: 24, Flags: Hex,
		Description: "Non-Cache Segment Size"},

	// Control (0x0A) — SPC-4.
	{Acronym: "TST", PageCode: 0x0a, StartByte: 2, StartBit: 7, NumBits: 3, Flags: Hex,
		Description: "Task Set Type"},
	{Acronym: "TMF_ONLY", PageCode: 0x0a, StartByte: 2, StartBit: 4, NumBits: 1,
		Description: "Task Management Functions Only"},
	{Acronym: "D_SENSE", PageCode: 0x0a, StartByte: 2, StartBit: 2, NumBits: 1, Flags: Common,
		Description: "Descriptor Format Sense Data"},
	{Acronym: "GLTSD", PageCode: 0x0a, StartByte: 2, StartBit: 1, NumBits: 1,
		Description: "Global Logging Target Save Disable"},
	{Acronym: "RLEC", PageCode: 0x0a, StartByte: 2, StartBit: 0, NumBits: 1,
		Description: "Report Log Exception Condition"},
	{Acronym: "QAM", PageCode: 0x0a, StartByte: 3, StartBit: 7, NumBits: 4, Flags: Hex,
		Description: "Queue Algorithm Modifier"},
	{Acronym: "QERR", PageCode: 0x0a, StartByte: 3, StartBit: 2, NumBits: 2, Flags: Hex,
		Description: "Queue Error Management"},
	{Acronym: "RAC", PageCode: 0x0a, StartByte: 4, StartBit: 6, NumBits: 1,
		Description: "Report a Check"},
	{Acronym: "UA_INTLCK", PageCode: 0x0a, StartByte: 4, StartBit: 5, NumBits: 2, Flags: Hex,
		Description: "Unit Attention Interlocks Control"},
	{Acronym: "SWP", PageCode: 0x0a, StartByte: 4, StartBit: 3, NumBits: 1, Flags: Common,
		Description: "Software Write Protect"},
	{Acronym: "ATO", PageCode: 0x0a, StartByte: 5, StartBit: 7, NumBits: 1,
		Description: "Application Tag Owner"},
	{Acronym: "TAS", PageCode: 0x0a, StartByte: 5, StartBit: 6, NumBits: 1,
		Description: "Task Aborted Status"},
	{Acronym: "AUTOLOAD", PageCode: 0x0a, StartByte: 5, StartBit: 2, NumBits: 3, Flags: Hex,
		Description: "Autoload Mode"},
	{Acronym: "BTP", PageCode: 0x0a, StartByte: 6, StartBit: 7, NumBits: 16, Flags: TwosComp,
		Description: "Busy Timeout Period"},
	{Acronym: "ESTCT", PageCode: 0x0a, StartByte: 8, StartBit: 7, NumBits: 16, Flags: Hex | AllOnes,
		Description: "Extended Self-Test Completion Time"},

	// Control Extension (0x0A, subpage 0x01) — SPC-4.
	{Acronym: "TCMOS", PageCode: 0x0a, SubpageCode: 0x01, StartByte: 4, StartBit: 2, NumBits: 1,
		Description: "Timestamp Changeable by Methods Outside Standard"},
	{Acronym: "SCSIP", PageCode: 0x0a, SubpageCode: 0x01, StartByte: 4, StartBit: 1, NumBits: 1,
		Description: "SCSI Precedence"},
	{Acronym: "IALUAE", PageCode: 0x0a, SubpageCode: 0x01, StartByte: 4, StartBit: 0, NumBits: 1,
		Description: "Implicit Asymmetric Logical Unit Access Enabled"},
	{Acronym: "MAXIT_NPT", PageCode: 0x0a, SubpageCode: 0x01, StartByte: 6, StartBit: 7, NumBits: 16, Flags: Hex,
		Description: "Maximum Inactivity Time Multiplier"},
	{Acronym: "DLC", PageCode: 0x0a, SubpageCode: 0x01, StartByte: 8, StartBit: 0, NumBits: 1,
		Description: "Device Life Control"},

	// Protocol-Specific LU (0x18) — SPC-4.
	{Acronym: "PROTO_ID_LU", PageCode: 0x18, StartByte: 2, StartBit: 3, NumBits: 4, Flags: Hex,
		Description: "Protocol Identifier"},

	// Protocol-Specific Port (0x19) — SPC-4.
	{Acronym: "PROTO_ID_PORT", PageCode: 0x19, StartByte: 2, StartBit: 3, NumBits: 4, Flags: Hex,
		Description: "Protocol Identifier"},

	// Power Condition (0x1A) — SPC-4 / SBC-3.
	{Acronym: "PM_BG", PageCode: 0x1a, StartByte: 2, StartBit: 1, NumBits: 1,
		Description: "Power Management Background"},
	{Acronym: "STANDBY_Y", PageCode: 0x1a, StartByte: 2, StartBit: 0, NumBits: 1,
		Description: "Standby_y Timer Enable"},
	{Acronym: "IDLE_C", PageCode: 0x1a, StartByte: 3, StartBit: 3, NumBits: 1,
		Description: "Idle_c Timer Enable"},
	{Acronym: "IDLE_B", PageCode: 0x1a, StartByte: 3, StartBit: 2, NumBits: 1,
		Description: "Idle_b Timer Enable"},
	{Acronym: "IDLE_A", PageCode: 0x1a, StartByte: 3, StartBit: 1, NumBits: 1, Flags: Common,
		Description: "Idle_a Timer Enable"},
	{Acronym: "STANDBY_Z", PageCode: 0x1a, StartByte: 3, StartBit: 0, NumBits: 1, Flags: Common,
		Description: "Standby_z Timer Enable"},
	{Acronym: "IDLE_A_COND_TMR", PageCode: 0x1a, StartByte: 4, StartBit: 7, NumBits: 32, Flags: Hex,
		Description: "Idle_a Condition Timer (100ms units)"},
	{Acronym: "STANDBY_Z_COND_TMR", PageCode: 0x1a, StartByte: 8, StartBit: 7, NumBits: 32, Flags: Hex,
		Description: "Standby_z Condition Timer (100ms units)"},

	// Power Consumption (0x1A, subpage 0x01) — SPC-4.
	{Acronym: "ACT_LEVEL", PageCode: 0x1a, SubpageCode: 0x01, StartByte: 6, StartBit: 2, NumBits: 3, Flags: Hex,
		Description: "Active Power Consumption Level"},
	{Acronym: "PM_VALUE", PageCode: 0x1a, SubpageCode: 0x01, StartByte: 7, StartBit: 7, NumBits: 16, Flags: Hex,
		Description: "Power Consumption Identifier Value"},

	// Informational Exceptions Control (0x1C) — SPC-4.
	{Acronym: "PERF", PageCode: 0x1c, StartByte: 2, StartBit: 7, NumBits: 1,
		Description: "Performance"},
	{Acronym: "EBF", PageCode: 0x1c, StartByte: 2, StartBit: 5, NumBits: 1,
		Description: "Enable Background Function"},
	{Acronym: "EWASC", PageCode: 0x1c, StartByte: 2, StartBit: 4, NumBits: 1, Flags: Common,
		Description: "Enable Warning"},
	{Acronym: "DEXCPT", PageCode: 0x1c, StartByte: 2, StartBit: 3, NumBits: 1, Flags: Common,
		Description: "Disable Exception Control"},
	{Acronym: "TEST", PageCode: 0x1c, StartByte: 2, StartBit: 2, NumBits: 1,
		Description: "Test Device Failure"},
	{Acronym: "EBACKERR", PageCode: 0x1c, StartByte: 2, StartBit: 1, NumBits: 1,
		Description: "Enable Background Error"},
	{Acronym: "LOGERR", PageCode: 0x1c, StartByte: 2, StartBit: 0, NumBits: 1,
		Description: "Log Errors"},
	{Acronym: "MRIE", PageCode: 0x1c, StartByte: 3, StartBit: 3, NumBits: 4, Flags: Hex, DescID: 0,
		Description: "Method of Reporting Informational Exceptions"},
	{Acronym: "IP_INTVL", PageCode: 0x1c, StartByte: 4, StartBit: 7, NumBits: 32, Flags: Hex,
		Description: "Interval Timer"},
	{Acronym: "REPORT_COUNT", PageCode: 0x1c, StartByte: 8, StartBit: 7, NumBits: 32, Flags: Hex,
		Description: "Report Count"},

	// Background Control (0x1C, subpage 0x01) — SBC-3.
	{Acronym: "S_L_FULL_RATIO", PageCode: 0x1c, SubpageCode: 0x01, StartByte: 4, StartBit: 7, NumBits: 8, Flags: Hex,
		Description: "Suspend on Log Full Ratio"},
	{Acronym: "S_L_EMPTY_RATIO", PageCode: 0x1c, SubpageCode: 0x01, StartByte: 5, StartBit: 7, NumBits: 8, Flags: Hex,
		Description: "Suspend on Log Empty Ratio"},
	{Acronym: "BMS_ON_TIME", PageCode: 0x1c, SubpageCode: 0x01, StartByte: 6, StartBit: 7, NumBits: 16, Flags: Hex,
		Description: "Background Medium Scan On Time"},
}

var genericModePageNames = []ModePageName{
	{PageCode: 0x01, Name: "Read-Write Error Recovery", Acronym: "rw"},
	{PageCode: 0x02, Name: "Disconnect-Reconnect", Acronym: "dr"},
	{PageCode: 0x03, Name: "Format Device", Acronym: "fo", PDTs: []scsicmd.PDT{scsicmd.PDTDisk}},
	{PageCode: 0x08, Name: "Caching", Acronym: "ca"},
	{PageCode: 0x0a, Name: "Control", Acronym: "co"},
	{PageCode: 0x0a, SubpageCode: 0x01, Name: "Control Extension", Acronym: "coe"},
	{PageCode: 0x18, Name: "Protocol-Specific LU", Acronym: "pl"},
	{PageCode: 0x19, Name: "Protocol-Specific Port", Acronym: "pp"},
	{PageCode: 0x1a, Name: "Power Condition", Acronym: "po"},
	{PageCode: 0x1a, SubpageCode: 0x01, Name: "Power Consumption", Acronym: "pc"},
	{PageCode: 0x1c, Name: "Informational Exceptions Control", Acronym: "ie"},
	{PageCode: 0x1c, SubpageCode: 0x01, Name: "Background Control", Acronym: "bc", PDTs: []scsicmd.PDT{scsicmd.PDTDisk}},
}
