package modeengine

import "encoding/binary"

// headerLen is the fixed MODE SENSE response header size: 4 bytes for
// the 6-byte CDB family, 8 for the 10-byte family (spec §6 wire
// protocol).
func headerLen(use10 bool) int {
	if use10 {
		return 8
	}
	return 4
}

// modeDataLength reads the header's Mode Data Length field: 1 byte at
// offset 0 for the 6-byte family, 2 bytes at offset 0 for the 10-byte
// family. The value excludes the length field itself.
func modeDataLength(buf []byte, use10 bool) int {
	if use10 {
		if len(buf) < 2 {
			return 0
		}
		return int(binary.BigEndian.Uint16(buf[0:2]))
	}
	if len(buf) < 1 {
		return 0
	}
	return int(buf[0])
}

// blockDescLength reads the header's block descriptor length field.
// With DBD=1 on the outgoing CDB (Transport.DBD) this is expected to
// be 0, but a device is free to ignore DBD.
func blockDescLength(buf []byte, use10 bool) int {
	if use10 {
		if len(buf) < 8 {
			return 0
		}
		return int(binary.BigEndian.Uint16(buf[6:8]))
	}
	if len(buf) < 4 {
		return 0
	}
	return int(buf[3])
}

// devSpecificOffset is the header byte holding DPOFUA for direct-access
// devices (spec §4.5.3 step 4: "zero the DPOFUA byte").
func devSpecificOffset(use10 bool) int {
	if use10 {
		return 3
	}
	return 2
}

// pagePayload strips the MODE SENSE header and any block descriptor,
// returning the buffer positioned at the page header (byte 0 = PS|SPF|
// page_code), matching the catalog's "start_byte counts from the page
// header" convention.
func pagePayload(buf []byte, use10 bool) []byte {
	hl := headerLen(use10)
	if len(buf) < hl {
		return nil
	}
	start := hl + blockDescLength(buf, use10)
	if start > len(buf) {
		return nil
	}
	return buf[start:]
}

// zeroModeDataLength clears the header's length field in place, the
// first of the change-mode-page steps (spec §4.5.3 step 4).
func zeroModeDataLength(buf []byte, use10 bool) {
	if use10 {
		if len(buf) >= 2 {
			buf[0], buf[1] = 0, 0
		}
		return
	}
	if len(buf) >= 1 {
		buf[0] = 0
	}
}

// clearPSBit clears the Parameters Saveable bit (page header bit 7 of
// byte 0) in a page-relative buffer.
func clearPSBit(page []byte) {
	if len(page) > 0 {
		page[0] &^= 0x80
	}
}
