package modeengine

import (
	"encoding/binary"
	"fmt"

	"github.com/sdparm-go/sdparm/internal/sdperr"
	"github.com/sdparm-go/sdparm/internal/sgio"
)

// PageID names one (page, subpage) pair discovered by DiscoverPages.
type PageID struct {
	Page    uint8
	Subpage uint8
}

// DiscoverPages implements the Idle -> FetchHeader transition of the
// "print all mode pages" state machine (spec §4.5.1): one combined
// MODE SENSE for page=0x3f (all pages), falling back from subpage=0xff
// (all subpages) to subpage=0x00 on illegal_request (spec §4.4), then
// walks the returned page headers to recover the list of (page,
// subpage) pairs the device actually supports.
func (e *Engine) DiscoverPages() ([]PageID, error) {
	res := e.PageIO.ModeSenseAllPages(MaxModeDataLen)
	if res.Outcome != sgio.OutcomeOK {
		return nil, classifyModeSenseFailure("MODE SENSE", res.Outcome, res.Sense)
	}
	buf := pagePayload(res.Data, e.PageIO.Use10)
	return parsePageList(buf)
}

// parsePageList walks a combined "all mode pages" MODE SENSE payload,
// distinguishing the non-subpage page-header form (byte0 = PS|SPF(0)|
// page_code, byte1 = page_length, total size 2+page_length) from the
// subpage-format form (byte0 = PS|SPF(1)|page_code, byte1 = subpage_code,
// bytes2-3 = page_length BE16, total size 4+page_length).
func parsePageList(buf []byte) ([]PageID, error) {
	var pages []PageID
	off := 0
	for off < len(buf) {
		if off+2 > len(buf) {
			break
		}
		spf := buf[off]&0x40 != 0
		page := buf[off] & 0x3f

		var subpage uint8
		var size int
		if spf {
			if off+4 > len(buf) {
				return pages, sdperr.New(sdperr.KindMalformed, "mode sense",
					fmt.Errorf("truncated subpage-format page header at offset %d", off))
			}
			subpage = buf[off+1]
			pageLen := int(binary.BigEndian.Uint16(buf[off+2 : off+4]))
			size = 4 + pageLen
		} else {
			subpage = 0
			pageLen := int(buf[off+1])
			size = 2 + pageLen
		}

		if size <= 0 || off+size > len(buf) {
			return pages, sdperr.New(sdperr.KindMalformed, "mode sense",
				fmt.Errorf("page at offset %d declares size %d, exceeds remaining %d bytes", off, size, len(buf)-off))
		}
		pages = append(pages, PageID{Page: page, Subpage: subpage})
		off += size
	}
	return pages, nil
}
