package sgio

import (
	"github.com/sdparm-go/sdparm/internal/scsicmd"
)

// VariantCounters tallies outcomes for one CDB variant, the per-variant
// good/illegal_req/pc_not_sup/other counters spec §4.4 requires PageIO to
// expose to the Driver's --openmetrics diagnostic surface.
type VariantCounters struct {
	Good           int
	IllegalRequest int
	PCNotSupported int
	Other          int
}

func (c *VariantCounters) record(o Outcome) {
	switch o {
	case OutcomeOK:
		c.Good++
	case OutcomeIllegalRequest:
		c.IllegalRequest++
	case OutcomePageControlNotSupported:
		c.PCNotSupported++
	default:
		c.Other++
	}
}

// Counters breaks VariantCounters down by CDB variant, so a caller can
// tell "the 10-byte MODE SENSE fell back" from "MODE SELECT failed".
type Counters struct {
	ModeSense6   VariantCounters
	ModeSense10  VariantCounters
	ModeSelect6  VariantCounters
	ModeSelect10 VariantCounters
	Inquiry      VariantCounters
}

// Transport is PageIO: it turns the catalog/selector's abstract
// mode-sense/mode-select/inquiry requests into CDBs, dispatches them
// through a CDBRunner, and applies the fallback policies of spec §4.4.
type Transport struct {
	Runner   CDBRunner
	Use10    bool
	LLBAA    bool
	DBD      bool // spec §6 -D/--dbd: ask the device to suppress block descriptors
	Counters Counters
}

// NewTransport builds a Transport over runner, defaulting to the 6-byte
// CDB family (the cheapest one a device is guaranteed to support).
func NewTransport(runner CDBRunner) *Transport {
	return &Transport{Runner: runner}
}

// ModeSenseResult is the outcome of one mode_sense call: the trimmed
// response (allocLen minus residual) plus the classification PageIO saw.
type ModeSenseResult struct {
	Data    []byte
	Outcome Outcome
	Sense   Sense
}

// ModeSense implements PageIO's mode_sense(pc, page, subpage, resp_buf) ->
// (bytes_returned, outcome) contract (spec §4.4). t.DBD asks the
// device to suppress the block descriptor. allocLen sizes the response
// buffer; the 6-byte CDB family is used unless t.Use10 is set (there is
// no fallback to the other family), and LLBAA is only meaningful in the
// 10-byte family.
func (t *Transport) ModeSense(pc scsicmd.PageControl, page, subpage uint8, allocLen int) ModeSenseResult {
	if t.Use10 {
		return t.modeSense10(pc, page, subpage, allocLen)
	}
	return t.modeSense6(pc, page, subpage, allocLen)
}

func (t *Transport) modeSense6(pc scsicmd.PageControl, page, subpage uint8, allocLen int) ModeSenseResult {
	if allocLen > 255 {
		allocLen = 255
	}
	buf := make([]byte, allocLen)
	cdb := ModeSense6(t.DBD, pc, page, subpage, uint8(allocLen))
	res := t.Runner.RunCDB(cdb, CDBFromDevice, &buf)
	t.Counters.ModeSense6.record(res.Outcome)
	return finishModeSense(buf, res)
}

func (t *Transport) modeSense10(pc scsicmd.PageControl, page, subpage uint8, allocLen int) ModeSenseResult {
	if allocLen > 65535 {
		allocLen = 65535
	}
	buf := make([]byte, allocLen)
	cdb := ModeSense10(t.DBD, t.LLBAA, pc, page, subpage, uint16(allocLen))
	res := t.Runner.RunCDB(cdb, CDBFromDevice, &buf)
	t.Counters.ModeSense10.record(res.Outcome)

	// Fallback (spec §4.4): a device that rejects LLBAA=1 with
	// illegal_request is retried once with LLBAA cleared rather than
	// surfaced as a hard failure.
	if res.Outcome == OutcomeIllegalRequest && t.LLBAA {
		buf = make([]byte, allocLen)
		cdb = ModeSense10(t.DBD, false, pc, page, subpage, uint16(allocLen))
		res = t.Runner.RunCDB(cdb, CDBFromDevice, &buf)
		t.Counters.ModeSense10.record(res.Outcome)
	}
	return finishModeSense(buf, res)
}

func finishModeSense(buf []byte, res Result) ModeSenseResult {
	n := len(buf)
	if res.Resid > 0 && int(res.Resid) <= n {
		n -= int(res.Resid)
	}
	out := ModeSenseResult{Outcome: res.Outcome, Sense: res.Sense}
	if res.Outcome == OutcomeOK {
		out.Data = buf[:n]
	}
	return out
}

// allPagesPage, allPagesAllSubpages select the MODE SENSE "fetch every
// mode page the device supports" addressing (spec §4.4): page code 0x3f
// means "all pages", subpage 0xff means "all subpages".
const (
	allPagesPage        = 0x3f
	allPagesAllSubpages = 0xff
	allPagesNoSubpages  = 0x00
)

// ModeSenseAllPages implements PageIO's "all pages" fallback (spec
// §4.4): try page=0x3f/subpage=0xff first; a device that rejects the
// all-subpages request with illegal_request is retried once with
// subpage cleared to 0 (top-level pages only, no subpages) rather than
// surfaced as a hard failure.
func (t *Transport) ModeSenseAllPages(allocLen int) ModeSenseResult {
	res := t.ModeSense(scsicmd.PCCurrent, allPagesPage, allPagesAllSubpages, allocLen)
	if res.Outcome == OutcomeIllegalRequest {
		res = t.ModeSense(scsicmd.PCCurrent, allPagesPage, allPagesNoSubpages, allocLen)
	}
	return res
}

// AllPCResult holds the four parallel page views mode_sense_all_pc
// gathers, plus a bit for each PageControl that the device actually
// returned data for (spec §4.2's "four parallel views").
type AllPCResult struct {
	Available [4]bool
	Pages     [4]ModeSenseResult
}

// ModeSenseAllPC implements PageIO's mode_sense_all_pc(page, subpage,
// resp_buf) -> (availability_mask, per_pc_buffers): one MODE SENSE per
// PageControl value, tolerating a device that refuses PCChangeable
// (common on pages with no changeable fields) without failing the
// other three.
func (t *Transport) ModeSenseAllPC(page, subpage uint8, allocLen int) AllPCResult {
	var out AllPCResult
	for _, pc := range []scsicmd.PageControl{
		scsicmd.PCCurrent, scsicmd.PCChangeable, scsicmd.PCDefault, scsicmd.PCSaved,
	} {
		r := t.ModeSense(pc, page, subpage, allocLen)
		out.Pages[pc] = r
		out.Available[pc] = r.Outcome == OutcomeOK
	}
	return out
}

// ModeSelect implements PageIO's mode_select(page_buf, save_bit) ->
// outcome contract, issuing the 6- or 10-byte CDB family matching
// t.Use10 with PF=1 (use the supplied page format, not vendor-specific).
func (t *Transport) ModeSelect(pageBuf []byte, save bool) (Outcome, Sense) {
	if t.Use10 {
		cdb := ModeSelect10(save, uint16(len(pageBuf)))
		buf := append([]byte(nil), pageBuf...)
		res := t.Runner.RunCDB(cdb, CDBToDevice, &buf)
		t.Counters.ModeSelect10.record(res.Outcome)
		return res.Outcome, res.Sense
	}
	cdb := ModeSelect6(save, uint8(len(pageBuf)))
	buf := append([]byte(nil), pageBuf...)
	res := t.Runner.RunCDB(cdb, CDBToDevice, &buf)
	t.Counters.ModeSelect6.record(res.Outcome)
	return res.Outcome, res.Sense
}

// ModeSelectRTD issues the global Revert-To-Defaults MODE SELECT(10)
// (spec §4.5.4), zero-length payload, 10-byte CDB family only.
func (t *Transport) ModeSelectRTD() (Outcome, Sense) {
	cdb := ModeSelect10RTD()
	var buf []byte
	res := t.Runner.RunCDB(cdb, CDBToDevice, &buf)
	t.Counters.ModeSelect10.record(res.Outcome)
	return res.Outcome, res.Sense
}

// InquiryStandard implements the standard-INQUIRY half of PageIO,
// returning the peripheral qualifier/PDT byte plus whatever else fits
// in allocLen.
func (t *Transport) InquiryStandard(allocLen int) ([]byte, Outcome) {
	buf := make([]byte, allocLen)
	cdb := InquiryStandard(uint8(allocLen))
	res := t.Runner.RunCDB(cdb, CDBFromDevice, &buf)
	t.Counters.Inquiry.record(res.Outcome)
	if res.Outcome != OutcomeOK {
		return nil, res.Outcome
	}
	n := len(buf)
	if res.Resid > 0 && int(res.Resid) <= n {
		n -= int(res.Resid)
	}
	return buf[:n], res.Outcome
}

// maxVPDAllocLen is the largest allocation length an INQUIRY CDB's
// 2-byte allocation-length field can express.
const maxVPDAllocLen = 65535

// InquiryVPD implements PageIO's inquiry_vpd(page, resp_buf) -> bytes
// contract (spec §4.6): one EVPD INQUIRY, grown and re-issued once when
// the page's own declared length (bytes 2-3 of the response) says there
// is more data than allocLen actually fetched, instead of handing the
// caller a silently truncated payload.
func (t *Transport) InquiryVPD(page uint8, allocLen int) ([]byte, Outcome) {
	buf, outcome := t.inquiryVPDOnce(page, allocLen)
	if outcome != OutcomeOK || len(buf) < 4 {
		return buf, outcome
	}
	declared := int(buf[2])<<8 | int(buf[3])
	need := declared + 4
	if need <= len(buf) || allocLen >= need {
		return buf, outcome
	}
	if need > maxVPDAllocLen {
		need = maxVPDAllocLen
	}
	grown, growOutcome := t.inquiryVPDOnce(page, need)
	if growOutcome != OutcomeOK {
		return buf, outcome
	}
	return grown, growOutcome
}

func (t *Transport) inquiryVPDOnce(page uint8, allocLen int) ([]byte, Outcome) {
	buf := make([]byte, allocLen)
	cdb := InquiryVPD(page, uint16(allocLen))
	res := t.Runner.RunCDB(cdb, CDBFromDevice, &buf)
	t.Counters.Inquiry.record(res.Outcome)
	if res.Outcome != OutcomeOK {
		return nil, res.Outcome
	}
	n := len(buf)
	if res.Resid > 0 && int(res.Resid) <= n {
		n -= int(res.Resid)
	}
	return buf[:n], res.Outcome
}
