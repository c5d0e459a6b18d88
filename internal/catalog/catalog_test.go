package catalog

import (
	"testing"

	"github.com/sdparm-go/sdparm/internal/scsicmd"
)

func TestFieldInvariants(t *testing.T) {
	for _, f := range allFields() {
		if f.StartBit < 0 || f.StartBit > 7 {
			t.Errorf("%s: start_bit %d out of 0..7", f.Acronym, f.StartBit)
		}
		if f.NumBits < 1 || f.NumBits > 64 {
			t.Errorf("%s: num_bits %d out of 1..64", f.Acronym, f.NumBits)
		}
		if f.StartByte < 2 {
			t.Errorf("%s: start_byte %d < 2 (overlaps page header)", f.Acronym, f.StartByte)
		}
		if f.PageCode > 0x3e {
			t.Errorf("%s: page_code %#x > 0x3e", f.Acronym, f.PageCode)
		}
		if f.SubpageCode > 0xfe {
			t.Errorf("%s: subpage_code %#x > 0xfe", f.Acronym, f.SubpageCode)
		}
	}
}

func TestFindModePageName(t *testing.T) {
	n := All.FindModePageName(0x08, 0x00, scsicmd.PDTDisk, scsicmd.TransportAny, scsicmd.VendorAny)
	if n == nil || n.Name != "Caching" {
		t.Fatalf("expected Caching page, got %+v", n)
	}
}

func TestFindModePageNameTransportSpecific(t *testing.T) {
	generic := All.FindModePageName(0x19, 0x01, scsicmd.PDTDisk, scsicmd.TransportAny, scsicmd.VendorAny)
	if generic != nil {
		t.Fatalf("expected no generic match for SAS-only page without transport, got %+v", generic)
	}
	sas := All.FindModePageName(0x19, 0x01, scsicmd.PDTDisk, scsicmd.TransportSAS, scsicmd.VendorAny)
	if sas == nil || sas.Name != "SAS Phy Control and Discover" {
		t.Fatalf("expected SAS Phy Control page, got %+v", sas)
	}
	if sas.Layout == nil {
		t.Fatal("expected a descriptor layout on the SAS Phy Control page")
	}
}

func TestFindFieldsByAcronymFiltersByPage(t *testing.T) {
	fields := All.FindFieldsByAcronym("WCE", scsicmd.TransportAny, scsicmd.VendorAny)
	if len(fields) != 1 || fields[0].PageCode != 0x08 {
		t.Fatalf("expected exactly one WCE field on page 0x08, got %+v", fields)
	}
}

func TestVendorOverlayRequiresVendorQualifier(t *testing.T) {
	none := All.FindFieldsByAcronym("ATC", scsicmd.TransportAny, scsicmd.VendorAny)
	if len(none) != 0 {
		t.Fatalf("expected vendor field hidden without --vendor, got %+v", none)
	}
	withVendor := All.FindFieldsByAcronym("ATC", scsicmd.TransportAny, scsicmd.VendorSeagate)
	if len(withVendor) != 1 {
		t.Fatalf("expected vendor field visible with --vendor=sea, got %+v", withVendor)
	}
}

func TestIterFieldsForOrderedByDeclaration(t *testing.T) {
	fields := All.IterFieldsFor(0x08, 0x00, scsicmd.PDTDisk, scsicmd.TransportAny, scsicmd.VendorAny)
	if len(fields) == 0 {
		t.Fatal("expected caching page fields")
	}
	if fields[0].Acronym != "IC" {
		t.Errorf("expected first Caching field to be IC, got %s", fields[0].Acronym)
	}
}

func TestFindVpdNamePDTDependent(t *testing.T) {
	disk := All.FindVpdName(0xb0, 0x00, scsicmd.PDTDisk)
	if disk == nil || disk.Name != "Block Limits" {
		t.Fatalf("expected Block Limits for disk, got %+v", disk)
	}
	tape := All.FindVpdName(0xb0, 0x00, scsicmd.PDTTape)
	if tape == nil || tape.Name != "Sequential Access Device Capabilities" {
		t.Fatalf("expected Sequential Access Device Capabilities for tape, got %+v", tape)
	}
}

func TestDecayPDT(t *testing.T) {
	if DecayPDT(scsicmd.PDTWORM) != scsicmd.PDTDisk {
		t.Error("expected WORM to decay to Disk")
	}
	if DecayPDT(scsicmd.PDTOptical) != scsicmd.PDTDisk {
		t.Error("expected Optical to decay to Disk")
	}
	if DecayPDT(scsicmd.PDTTape) != scsicmd.PDTTape {
		t.Error("expected Tape to remain unchanged")
	}
}
