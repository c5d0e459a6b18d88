package selector

import (
	"errors"
	"testing"

	"github.com/sdparm-go/sdparm/internal/catalog"
	"github.com/sdparm-go/sdparm/internal/scsicmd"
)

func TestParseExprAcronymForms(t *testing.T) {
	items, err := ParseExpr("WCE,RCD=1,PHY_ID.1=0x05")
	if err != nil {
		t.Fatalf("ParseExpr: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len(items) = %d, want 3", len(items))
	}
	if items[0].Acronym != "WCE" || items[0].HasValue {
		t.Fatalf("item0 = %+v", items[0])
	}
	if items[1].Acronym != "RCD" || !items[1].HasValue || items[1].Value != 1 {
		t.Fatalf("item1 = %+v", items[1])
	}
	if items[2].Acronym != "PHY_ID" || items[2].DescIndex != 1 || items[2].Value != 5 {
		t.Fatalf("item2 = %+v", items[2])
	}
}

func TestParseExprNumericTriple(t *testing.T) {
	items, err := ParseExpr("0x10:7:8=0xff")
	if err != nil {
		t.Fatalf("ParseExpr: %v", err)
	}
	if !items[0].Numeric || items[0].ByteOffset != 16 || items[0].StartBit != 7 || items[0].NumBits != 8 {
		t.Fatalf("item = %+v", items[0])
	}
	if items[0].Value != 0xff {
		t.Fatalf("value = %d", items[0].Value)
	}
}

func TestParseExprNegativeOneValue(t *testing.T) {
	items, err := ParseExpr("WCE=-1")
	if err != nil {
		t.Fatalf("ParseExpr: %v", err)
	}
	if items[0].Value != -1 {
		t.Fatalf("value = %d, want -1", items[0].Value)
	}
}

func TestParseExprBadStartBit(t *testing.T) {
	_, err := ParseExpr("0:8:4")
	if !errors.Is(err, ErrBadStartBit) {
		t.Fatalf("err = %v, want ErrBadStartBit", err)
	}
}

func TestParseExprBadNumBits(t *testing.T) {
	_, err := ParseExpr("0:0:65")
	if !errors.Is(err, ErrBadNumBits) {
		t.Fatalf("err = %v, want ErrBadNumBits", err)
	}
}

func TestResolveNumericRequiresPage(t *testing.T) {
	items, _ := ParseExpr("0:7:8=1")
	_, err := Resolve(items, catalog.All, 0, 0, false, scsicmd.PDTDisk, scsicmd.TransportAny, scsicmd.VendorAny)
	if !errors.Is(err, ErrNoPage) {
		t.Fatalf("err = %v, want ErrNoPage", err)
	}
}

func TestResolveUnknownAcronym(t *testing.T) {
	items, _ := ParseExpr("NOSUCHFIELD")
	_, err := Resolve(items, catalog.All, 0x08, 0x00, true, scsicmd.PDTDisk, scsicmd.TransportAny, scsicmd.VendorAny)
	if !errors.Is(err, ErrUnknownAcronym) {
		t.Fatalf("err = %v, want ErrUnknownAcronym", err)
	}
}

func TestResolveWrongPageForAcronym(t *testing.T) {
	items, _ := ParseExpr("WCE") // Caching page 0x08
	_, err := Resolve(items, catalog.All, 0x0a, 0x00, true, scsicmd.PDTDisk, scsicmd.TransportAny, scsicmd.VendorAny)
	if !errors.Is(err, ErrWrongPage) {
		t.Fatalf("err = %v, want ErrWrongPage", err)
	}
}

func TestResolveAcronymWithoutPageUsesSolePage(t *testing.T) {
	items, _ := ParseExpr("WCE=1")
	reqs, err := Resolve(items, catalog.All, 0, 0, false, scsicmd.PDTDisk, scsicmd.TransportAny, scsicmd.VendorAny)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if reqs[0].Field == nil || reqs[0].Field.Acronym != "WCE" {
		t.Fatalf("resolved field = %+v", reqs[0].Field)
	}
	if reqs[0].Field.PageCode != 0x08 {
		t.Fatalf("PageCode = %#x, want 0x08", reqs[0].Field.PageCode)
	}
}

func TestResolveTransportScopedAcronym(t *testing.T) {
	items, _ := ParseExpr("PHY_ID")
	reqs, err := Resolve(items, catalog.All, 0x19, 0x01, true, scsicmd.PDTDisk, scsicmd.TransportSAS, scsicmd.VendorAny)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if reqs[0].Field.StartByte != 12 {
		t.Fatalf("StartByte = %d, want 12", reqs[0].Field.StartByte)
	}
}

func TestResolveDescIndexDefaultsToZero(t *testing.T) {
	items, _ := ParseExpr("PHY_ID")
	reqs, _ := Resolve(items, catalog.All, 0x19, 0x01, true, scsicmd.PDTDisk, scsicmd.TransportSAS, scsicmd.VendorAny)
	if reqs[0].DescIndex != 0 {
		t.Fatalf("DescIndex = %d, want 0", reqs[0].DescIndex)
	}
}
