// Package vpd implements VpdDecoder (spec §4.6): dispatches a raw
// EVPD INQUIRY response to the handler for its page code, falling back
// to a generic header+hex dump for anything the table doesn't name
// explicitly.
package vpd

import (
	"fmt"

	"github.com/sdparm-go/sdparm/internal/catalog"
	"github.com/sdparm-go/sdparm/internal/render"
	"github.com/sdparm-go/sdparm/internal/scsicmd"
	"github.com/sdparm-go/sdparm/internal/sdperr"
	"github.com/sdparm-go/sdparm/internal/sgio"
)

// Decoder is VpdDecoder: it owns the PageIO handle used to fetch pages
// and the catalog used to name them, and dispatches decode(page_code,
// subpage, pdt, protect, buf) to the right handler.
type Decoder struct {
	PageIO *sgio.Transport
	Cat    *catalog.Catalog
	PDT    scsicmd.PDT
}

// New builds a Decoder bound to one device's PageIO transport.
func New(pio *sgio.Transport, cat *catalog.Catalog, pdt scsicmd.PDT) *Decoder {
	return &Decoder{PageIO: pio, Cat: cat, PDT: pdt}
}

// MaxVPDLen is Fetch's initial probe allocation length: large enough
// for almost any standardized page in one round trip. A page whose own
// declared length (spec §4.6) exceeds it is grown and re-fetched by
// Transport.InquiryVPD itself, not truncated here.
const MaxVPDLen = 4096

// handler decodes one VPD page's payload (header included, byte 0 =
// peripheral qualifier|PDT) and writes its fields to sink.
type handler func(d *Decoder, sink render.Sink, buf []byte)

var dispatch = map[uint8]handler{
	0x00: decodeSupportedVPDs,
	0x80: decodeUnitSerialNumber,
	0x83: decodeDeviceIdentification,
	0x86: decodeExtendedInquiryData,
	0x87: decodeModePagePolicy,
	0x88: decodeSCSIPorts,
	0x89: decodeATAInformation,
	0xb0: decodeBlockLimits,
	0xb1: decodeBlockDeviceCharacteristics,
	0xb4: decodeSupportedBlockLengths,
}

// Device Constituents is registered here rather than in the literal
// above: its handler calls Decode, which reads dispatch.
func init() {
	dispatch[0x8b] = decodeDeviceConstituents
}

// Fetch issues the EVPD INQUIRY for page and returns its raw payload.
func (d *Decoder) Fetch(page uint8) ([]byte, error) {
	buf, outcome := d.PageIO.InquiryVPD(page, MaxVPDLen)
	if outcome != sgio.OutcomeOK {
		return nil, sdperr.New(sdperr.KindTransportIllegalRequest, "INQUIRY VPD",
			fmt.Errorf("page 0x%02x: outcome %v", page, outcome))
	}
	return buf, nil
}

// Decode dispatches one already-fetched VPD payload to its handler (or
// the generic fallback), per spec §4.6's "table-driven dispatch".
func (d *Decoder) Decode(sink render.Sink, page uint8, buf []byte) error {
	if len(buf) < 4 {
		return sdperr.New(sdperr.KindMalformed, "decode_vpd", fmt.Errorf("page 0x%02x: response too short (%d bytes)", page, len(buf)))
	}
	// Transport.InquiryVPD already grows and re-fetches when the
	// declared length exceeds what the initial allocation returned; this
	// clamp only guards the edge case where the device's own declared
	// length is simply wrong (bigger than buf even after growth maxed
	// out at the CDB's 65535-byte allocation-length ceiling).
	declared := int(buf[2])<<8 | int(buf[3])
	total := declared + 4
	if total > len(buf) {
		total = len(buf)
	}
	buf = buf[:total]

	name := d.Cat.FindVpdName(page, 0, d.PDT)
	title := vpdTitle(name, page)
	sink.BeginObj(title)
	defer sink.EndObj()

	if h, ok := dispatch[page]; ok {
		h(d, sink, buf)
		return nil
	}
	decodeGeneric(d, sink, buf)
	return nil
}

// FetchAndDecode is the common case: fetch page over PageIO, then
// decode it.
func (d *Decoder) FetchAndDecode(sink render.Sink, page uint8) error {
	buf, err := d.Fetch(page)
	if err != nil {
		return err
	}
	return d.Decode(sink, page, buf)
}

func vpdTitle(name *catalog.VpdPageName, page uint8) string {
	if name != nil {
		return name.Name
	}
	return fmt.Sprintf("VPD page 0x%02x", page)
}

// decodeGeneric emits the raw page bytes under "data" for any VPD code
// the dispatch table doesn't have a specific handler for (spec §4.6:
// "any VPD code accepted by Supported VPDs but without a specific
// decoder falls back to a header+hex dump").
func decodeGeneric(d *Decoder, sink render.Sink, buf []byte) {
	sink.KVInt("peripheral_qualifier", int64(buf[0]>>5), false, "")
	sink.KVInt("peripheral_device_type", int64(buf[0]&0x1f), false, "")
	if len(buf) > 4 {
		sink.KVHexBytes("data", buf[4:])
	}
}

func decodeUnitSerialNumber(d *Decoder, sink render.Sink, buf []byte) {
	if len(buf) <= 4 {
		return
	}
	sink.KVStr("unit_serial_number", string(buf[4:]))
}

// decodeSupportedVPDs lists the VPD page codes the "Supported VPDs"
// page (0x00) reports: the body is simply an array of one-byte page
// codes starting at offset 4.
func decodeSupportedVPDs(d *Decoder, sink render.Sink, buf []byte) {
	sink.BeginArr("supported_pages")
	defer sink.EndArr()
	for _, code := range buf[4:] {
		name := d.Cat.FindVpdName(code, 0, d.PDT)
		label := fmt.Sprintf("0x%02x %s", code, vpdTitle(name, code))
		sink.KVStr("page", label)
	}
}

// SupportedPages extracts the page-code list from an already-fetched
// Supported VPDs (0x00) payload, for the "--all --all" re-entry walk
// (spec §4.6 "All pages").
func SupportedPages(buf []byte) []uint8 {
	if len(buf) <= 4 {
		return nil
	}
	return append([]uint8(nil), buf[4:]...)
}

// DecodeAll implements spec §4.6's "All pages" walk: print Supported
// VPDs (0x00), then fetch and decode every page code it lists, taking
// care to suppress re-entry into 0x00 itself (otherwise an infinite
// loop). A page that fails to fetch (e.g. a code the device listed but
// doesn't actually honor) is reported and skipped rather than aborting
// the whole walk.
func (d *Decoder) DecodeAll(sink render.Sink) error {
	sv, err := d.Fetch(0x00)
	if err != nil {
		return err
	}
	if err := d.Decode(sink, 0x00, sv); err != nil {
		return err
	}
	for _, page := range SupportedPages(sv) {
		if page == 0x00 {
			continue
		}
		if err := d.FetchAndDecode(sink, page); err != nil {
			sink.HRLine(fmt.Sprintf("warning: VPD page 0x%02x: %v", page, err))
			continue
		}
	}
	return nil
}

// decodeDeviceConstituents recurses into constituent-specific VPD
// pages embedded in a Device Constituents (0x8b) payload, but never
// recurses into a nested Device Constituents page itself — the
// standard forbids it (spec §4.6).
func decodeDeviceConstituents(d *Decoder, sink render.Sink, buf []byte) {
	sink.BeginArr("constituents")
	defer sink.EndArr()

	off := 4
	for off+4 <= len(buf) {
		ctype := uint16(buf[off])<<8 | uint16(buf[off+1])
		clen := int(buf[off+2])<<8 | int(buf[off+3])
		start := off + 4
		end := start + clen
		if end > len(buf) {
			end = len(buf)
		}
		sink.BeginObj("")
		sink.KVInt("constituent_type", int64(ctype), true, "")
		if ctype == 1 && end > start+4 {
			inner := buf[start:end]
			innerPage := inner[1]
			if innerPage != 0x8b {
				if err := d.Decode(sink, innerPage, inner); err != nil {
					sink.HRLine(fmt.Sprintf("warning: constituent page 0x%02x: %v", innerPage, err))
				}
			} else {
				sink.HRLine("warning: nested Device Constituents page suppressed")
			}
		} else if end > start {
			sink.KVHexBytes("data", buf[start:end])
		}
		sink.EndObj()
		off = end
	}
}
