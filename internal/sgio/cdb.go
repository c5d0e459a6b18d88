package sgio

import (
	"encoding/binary"

	"github.com/sdparm-go/sdparm/internal/scsicmd"
)

// ModeSense6 builds the 6-byte MODE SENSE CDB (spec §6 wire protocol).
func ModeSense6(dbd bool, pc scsicmd.PageControl, page, subpage uint8, allocLen uint8) []byte {
	cdb := make([]byte, 6)
	cdb[0] = scsicmd.OpModeSense6
	if dbd {
		cdb[1] = 0x08
	}
	cdb[2] = (uint8(pc) << 6) | (page & 0x3f)
	cdb[3] = subpage
	cdb[4] = allocLen
	return cdb
}

// ModeSense10 builds the 10-byte MODE SENSE CDB, with LLBAA support.
func ModeSense10(dbd, llbaa bool, pc scsicmd.PageControl, page, subpage uint8, allocLen uint16) []byte {
	cdb := make([]byte, 10)
	cdb[0] = scsicmd.OpModeSense10
	if llbaa {
		cdb[1] |= 0x10
	}
	if dbd {
		cdb[1] |= 0x08
	}
	cdb[2] = (uint8(pc) << 6) | (page & 0x3f)
	cdb[3] = subpage
	binary.BigEndian.PutUint16(cdb[7:9], allocLen)
	return cdb
}

// ModeSelect6 builds the 6-byte MODE SELECT CDB.
func ModeSelect6(save bool, paramListLen uint8) []byte {
	cdb := make([]byte, 6)
	cdb[0] = scsicmd.OpModeSelect6
	cdb[1] = 0x10 // PF=1
	if save {
		cdb[1] |= 0x01 // SP
	}
	cdb[4] = paramListLen
	return cdb
}

// ModeSelect10 builds the 10-byte MODE SELECT CDB.
func ModeSelect10(save bool, paramListLen uint16) []byte {
	cdb := make([]byte, 10)
	cdb[0] = scsicmd.OpModeSelect10
	cdb[1] = 0x10 // PF=1
	if save {
		cdb[1] |= 0x01 // SP
	}
	binary.BigEndian.PutUint16(cdb[7:9], paramListLen)
	return cdb
}

// ModeSelect10RTD builds the 10-byte MODE SELECT CDB used for the
// global "revert to defaults" request (spec §4.5.4): zero-length
// parameter list, RTD bit set. RTD has no standard CDB bit position in
// SPC; this follows the legacy tool's convention of overloading
// reserved bit 1 of byte 1.
func ModeSelect10RTD() []byte {
	cdb := make([]byte, 10)
	cdb[0] = scsicmd.OpModeSelect10
	cdb[1] = 0x10 | 0x02 // PF=1, RTD=1
	return cdb
}

// InquiryStandard builds the standard (EVPD=0) INQUIRY CDB.
func InquiryStandard(allocLen uint8) []byte {
	cdb := make([]byte, 6)
	cdb[0] = scsicmd.OpInquiry
	cdb[4] = allocLen
	return cdb
}

// InquiryVPD builds an EVPD=1 INQUIRY CDB for the given VPD page code.
func InquiryVPD(page uint8, allocLen uint16) []byte {
	cdb := make([]byte, 6)
	cdb[0] = scsicmd.OpInquiry
	cdb[1] = 0x01 // EVPD
	cdb[2] = page
	binary.BigEndian.PutUint16(cdb[3:5], allocLen)
	return cdb
}
