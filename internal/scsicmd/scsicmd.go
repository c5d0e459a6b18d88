// Package scsicmd holds the flat SCSI opcode, page-control, and sense-key
// constants shared by sgio (PageIO) and modeengine. Naming follows the pack's
// convention of flat exported constant blocks for wire-format values (see
// the SCSI opcode table in other_examples' coreos-go-tcmu scsi_defs.go).
package scsicmd

// CDB opcodes.
const (
	OpInquiry      = 0x12
	OpModeSelect6  = 0x15
	OpModeSense6   = 0x1a
	OpModeSelect10 = 0x55
	OpModeSense10  = 0x5a
)

// PageControl selects one of the four views of a mode page.
type PageControl uint8

const (
	PCCurrent PageControl = 0
	PCChangeable PageControl = 1
	PCDefault  PageControl = 2
	PCSaved    PageControl = 3
)

func (pc PageControl) String() string {
	switch pc {
	case PCCurrent:
		return "current"
	case PCChangeable:
		return "changeable"
	case PCDefault:
		return "default"
	case PCSaved:
		return "saved"
	default:
		return "unknown"
	}
}

// PDT is the 5-bit SCSI peripheral device type.
type PDT uint8

const (
	PDTDisk       PDT = 0x00
	PDTTape       PDT = 0x01
	PDTPrinter    PDT = 0x02
	PDTProcessor  PDT = 0x03
	PDTWORM       PDT = 0x04
	PDTOptical    PDT = 0x07
	PDTMediumChgr PDT = 0x08
	PDTEnclosure  PDT = 0x0d
	PDTZBC        PDT = 0x14
	PDTWellKnown  PDT = 0x1e
	PDTUnknown    PDT = 0x1f
	PDTAny        PDT = 0xff // "no PDT known" lookup key, not a wire value; matches only catalog entries without a PDT restriction
)

// DecayPDT maps device types whose mode pages are defined in terms of Disk
// semantics onto PDTDisk, per spec §4.2.
func DecayPDT(pdt PDT) PDT {
	switch pdt {
	case PDTWORM, PDTOptical:
		return PDTDisk
	default:
		return pdt
	}
}

// Sense keys (SPC).
const (
	SenseNoSense        = 0x0
	SenseRecoveredError = 0x1
	SenseNotReady       = 0x2
	SenseMediumError    = 0x3
	SenseHardwareError  = 0x4
	SenseIllegalRequest = 0x5
	SenseUnitAttention  = 0x6
	SenseDataProtect    = 0x7
	SenseAbortedCommand = 0xb
)

// Transport is the catalog's transport-namespace key. TransportAny is
// deliberately the zero value: an unqualified FieldDescriptor/ModePageName
// (one that never sets Transport) is generic across transports, and a
// zero Go struct field should mean "unscoped", not "scoped to FC".
//
// These are NOT the raw 4-bit wire Protocol Identifier values from SPC —
// use TransportFromWire to map a decoded wire nibble onto this enum.
type Transport uint8

const (
	TransportAny Transport = iota
	TransportFC
	TransportSPI
	TransportSSA
	TransportSBP
	TransportSRP
	TransportISCSI
	TransportSAS
	TransportADT
	TransportATA
	TransportUAS
	TransportSOP
	TransportPCIe
	TransportNone
)

// wireTransports maps the raw 4-bit SPC Protocol Identifier value to the
// catalog's Transport enum (index == wire value).
var wireTransports = [...]Transport{
	TransportFC, TransportSPI, TransportSSA, TransportSBP, TransportSRP,
	TransportISCSI, TransportSAS, TransportADT, TransportATA, TransportUAS,
	TransportSOP, TransportPCIe, TransportAny, TransportAny, TransportAny, TransportNone,
}

// TransportFromWire maps a decoded 4-bit Protocol Identifier to a
// Transport; out-of-range values map to TransportAny.
func TransportFromWire(id uint8) Transport {
	if int(id) >= len(wireTransports) {
		return TransportAny
	}
	return wireTransports[id]
}

// Vendor is the catalog's vendor-namespace key. VendorAny is the zero
// value for the same reason as TransportAny above.
type Vendor uint8

const (
	VendorAny Vendor = iota
	VendorSeagate
)

// transportNames maps the --transport= CLI token (sg3_utils-style
// abbreviation) to the Transport enum.
var transportNames = map[string]Transport{
	"fc": TransportFC, "spi": TransportSPI, "ssa": TransportSSA,
	"sbp": TransportSBP, "srp": TransportSRP, "iscsi": TransportISCSI,
	"sas": TransportSAS, "adt": TransportADT, "ata": TransportATA,
	"uas": TransportUAS, "sop": TransportSOP, "pcie": TransportPCIe,
	"none": TransportNone,
}

// TransportFromName parses a --transport= CLI token; ok is false for an
// unrecognized name.
func TransportFromName(name string) (Transport, bool) {
	t, ok := transportNames[name]
	return t, ok
}

var vendorNames = map[string]Vendor{
	"sea": VendorSeagate,
}

// VendorFromName parses a --vendor= CLI token; ok is false for an
// unrecognized name.
func VendorFromName(name string) (Vendor, bool) {
	v, ok := vendorNames[name]
	return v, ok
}
