package device

import (
	"testing"

	"github.com/sdparm-go/sdparm/internal/scsicmd"
)

func TestParseStandardInquiry(t *testing.T) {
	data := make([]byte, 36)
	data[0] = 0x00 // qualifier=0, PDT=disk
	copy(data[8:16], []byte("SEAGATE "))
	copy(data[16:32], []byte("ST1000NM0045    "))
	copy(data[32:36], []byte("E003"))

	id := parseStandardInquiry(data)
	if id.PDT != scsicmd.PDTDisk {
		t.Fatalf("PDT = %v, want PDTDisk", id.PDT)
	}
	if id.Vendor != scsicmd.VendorSeagate {
		t.Fatalf("Vendor = %v, want VendorSeagate", id.Vendor)
	}
	if id.VendorID != "SEAGATE" {
		t.Fatalf("VendorID = %q", id.VendorID)
	}
	if id.ProductID != "ST1000NM0045" {
		t.Fatalf("ProductID = %q", id.ProductID)
	}
	if id.Revision != "E003" {
		t.Fatalf("Revision = %q", id.Revision)
	}
}

func TestParseStandardInquiryNonSeagateVendorAny(t *testing.T) {
	data := make([]byte, 36)
	copy(data[8:16], []byte("HITACHI "))
	id := parseStandardInquiry(data)
	if id.Vendor != scsicmd.VendorAny {
		t.Fatalf("Vendor = %v, want VendorAny for non-Seagate", id.Vendor)
	}
}

func TestParseStandardInquiryPDTMask(t *testing.T) {
	data := make([]byte, 36)
	data[0] = 0xe0 | byte(scsicmd.PDTMediumChgr) // qualifier bits set, should be masked off
	id := parseStandardInquiry(data)
	if id.PDT != scsicmd.PDTMediumChgr {
		t.Fatalf("PDT = %v, want PDTMediumChgr with qualifier bits masked", id.PDT)
	}
}
