package modeengine

import (
	"testing"

	"github.com/sdparm-go/sdparm/internal/catalog"
	"github.com/sdparm-go/sdparm/internal/scsicmd"
	"github.com/sdparm-go/sdparm/internal/sgio"
)

func TestParsePageListMixedFormats(t *testing.T) {
	var buf []byte
	// non-subpage page 0x02, page_length 4 -> total 6 bytes
	buf = append(buf, 0x02, 0x04, 0, 0, 0, 0)
	// subpage-format page 0x19 subpage 0x01, page_length 6 -> total 10 bytes
	buf = append(buf, 0x40|0x19, 0x01, 0x00, 0x06, 0, 0, 0, 0, 0, 0)
	// non-subpage page 0x08, page_length 0x12 -> total 20 bytes
	page08 := make([]byte, 20)
	page08[0] = 0x08
	page08[1] = 0x12
	buf = append(buf, page08...)

	pages, err := parsePageList(buf)
	if err != nil {
		t.Fatalf("parsePageList: %v", err)
	}
	want := []PageID{{Page: 0x02}, {Page: 0x19, Subpage: 0x01}, {Page: 0x08}}
	if len(pages) != len(want) {
		t.Fatalf("got %d pages, want %d: %+v", len(pages), len(want), pages)
	}
	for i, w := range want {
		if pages[i] != w {
			t.Fatalf("page %d = %+v, want %+v", i, pages[i], w)
		}
	}
}

func TestParsePageListTruncatedHeaderErrors(t *testing.T) {
	buf := []byte{0x40 | 0x19, 0x01, 0x00} // subpage-format header cut short
	if _, err := parsePageList(buf); err == nil {
		t.Fatalf("expected error for truncated subpage-format header")
	}
}

func TestDiscoverPagesUsesAllPagesFallback(t *testing.T) {
	page08 := make([]byte, 20)
	page08[0] = 0x08
	page08[1] = 0x12
	header := []byte{byte(len(page08) - 1), 0x00, 0x00, 0x00}
	fixture := append(header, page08...)

	resid := int32(255 - len(fixture))
	fr := &fakeRunner{
		results: []sgio.Result{
			{Outcome: sgio.OutcomeIllegalRequest},
			{Outcome: sgio.OutcomeOK, Resid: resid},
		},
		fill: [][]byte{nil, fixture},
	}
	pio := sgio.NewTransport(fr)
	e := New(pio, catalog.All, scsicmd.PDTDisk, scsicmd.TransportAny, scsicmd.VendorAny)

	pages, err := e.DiscoverPages()
	if err != nil {
		t.Fatalf("DiscoverPages: %v", err)
	}
	if len(fr.calls) != 2 {
		t.Fatalf("expected 2 CDBs (all-subpages + subpage-0 retry), got %d", len(fr.calls))
	}
	if len(pages) != 1 || pages[0].Page != 0x08 {
		t.Fatalf("pages = %+v, want one entry for page 0x08", pages)
	}
}
