package sgio

import (
	"bytes"
	"testing"

	"github.com/sdparm-go/sdparm/internal/scsicmd"
)

// fakeRunner replays canned outcomes per call index, the same seam
// described in spec §8 scenario 6 for PageIO fallback behavior.
type fakeRunner struct {
	calls   [][]byte
	results []Result
	fill    [][]byte // optional: bytes to copy into *buf on this call
	i       int
}

func (f *fakeRunner) RunCDB(cdb []byte, dir CDBDirection, buf *[]byte) Result {
	f.calls = append(f.calls, append([]byte(nil), cdb...))
	idx := f.i
	f.i++
	if idx < len(f.fill) && f.fill[idx] != nil && buf != nil {
		copy(*buf, f.fill[idx])
	}
	if idx < len(f.results) {
		return f.results[idx]
	}
	return Result{Outcome: OutcomeOther}
}

func TestModeSense6RecordsCounters(t *testing.T) {
	fr := &fakeRunner{results: []Result{{Outcome: OutcomeOK}}}
	tr := NewTransport(fr)
	res := tr.ModeSense(scsicmd.PCCurrent, 0x08, 0x00, 64)
	if res.Outcome != OutcomeOK {
		t.Fatalf("outcome = %v, want ok", res.Outcome)
	}
	if tr.Counters.ModeSense6.Good != 1 {
		t.Fatalf("ModeSense6.Good = %d, want 1", tr.Counters.ModeSense6.Good)
	}
	if len(fr.calls) != 1 || fr.calls[0][0] != scsicmd.OpModeSense6 {
		t.Fatalf("unexpected CDB issued: %v", fr.calls)
	}
}

func TestModeSense10LLBAAFallback(t *testing.T) {
	fr := &fakeRunner{
		results: []Result{
			{Outcome: OutcomeIllegalRequest, Sense: Sense{Valid: true, Key: 0x5}},
			{Outcome: OutcomeOK},
		},
	}
	tr := NewTransport(fr)
	tr.Use10 = true
	tr.LLBAA = true
	res := tr.ModeSense(scsicmd.PCCurrent, 0x08, 0x00, 64)
	if res.Outcome != OutcomeOK {
		t.Fatalf("outcome after fallback = %v, want ok", res.Outcome)
	}
	if len(fr.calls) != 2 {
		t.Fatalf("expected 2 CDBs (initial + LLBAA-clear retry), got %d", len(fr.calls))
	}
	if fr.calls[0][1]&0x10 == 0 {
		t.Fatalf("first CDB should have set LLBAA")
	}
	if fr.calls[1][1]&0x10 != 0 {
		t.Fatalf("retry CDB should have cleared LLBAA")
	}
	if tr.Counters.ModeSense10.IllegalRequest != 1 || tr.Counters.ModeSense10.Good != 1 {
		t.Fatalf("unexpected counters: %+v", tr.Counters.ModeSense10)
	}
}

func TestModeSenseAllPagesSubpageFallback(t *testing.T) {
	fr := &fakeRunner{
		results: []Result{
			{Outcome: OutcomeIllegalRequest, Sense: Sense{Valid: true, Key: 0x5}},
			{Outcome: OutcomeOK},
		},
	}
	tr := NewTransport(fr)
	res := tr.ModeSenseAllPages(64)
	if res.Outcome != OutcomeOK {
		t.Fatalf("outcome after subpage fallback = %v, want ok", res.Outcome)
	}
	if len(fr.calls) != 2 {
		t.Fatalf("expected 2 CDBs (all-subpages + subpage-0 retry), got %d", len(fr.calls))
	}
	if fr.calls[0][2]&0x3f != 0x3f || fr.calls[0][3] != 0xff {
		t.Fatalf("first CDB should request page=0x3f/subpage=0xff: % x", fr.calls[0])
	}
	if fr.calls[1][2]&0x3f != 0x3f || fr.calls[1][3] != 0x00 {
		t.Fatalf("retry CDB should request page=0x3f/subpage=0x00: % x", fr.calls[1])
	}
	if tr.Counters.ModeSense6.IllegalRequest != 1 || tr.Counters.ModeSense6.Good != 1 {
		t.Fatalf("unexpected counters: %+v", tr.Counters.ModeSense6)
	}
}

func TestModeSenseAllPagesNoFallbackWhenAccepted(t *testing.T) {
	fr := &fakeRunner{results: []Result{{Outcome: OutcomeOK}}}
	tr := NewTransport(fr)
	res := tr.ModeSenseAllPages(64)
	if res.Outcome != OutcomeOK {
		t.Fatalf("outcome = %v, want ok", res.Outcome)
	}
	if len(fr.calls) != 1 {
		t.Fatalf("expected 1 CDB when all-subpages is accepted, got %d", len(fr.calls))
	}
}

func TestModeSenseAllPCTakesPartialAvailability(t *testing.T) {
	fr := &fakeRunner{
		results: []Result{
			{Outcome: OutcomeOK},                      // current
			{Outcome: OutcomePageControlNotSupported}, // changeable
			{Outcome: OutcomeOK},                      // default
			{Outcome: OutcomeOK},                      // saved
		},
	}
	tr := NewTransport(fr)
	all := tr.ModeSenseAllPC(0x08, 0x00, 64)
	if !all.Available[scsicmd.PCCurrent] || all.Available[scsicmd.PCChangeable] {
		t.Fatalf("availability mask wrong: %+v", all.Available)
	}
	if !all.Available[scsicmd.PCDefault] || !all.Available[scsicmd.PCSaved] {
		t.Fatalf("availability mask wrong: %+v", all.Available)
	}
}

func TestModeSenseResidualTrimsData(t *testing.T) {
	fr := &fakeRunner{
		results: []Result{{Outcome: OutcomeOK, Resid: 40}},
		fill:    [][]byte{bytes.Repeat([]byte{0xaa}, 24)},
	}
	tr := NewTransport(fr)
	res := tr.ModeSense(scsicmd.PCCurrent, 0x08, 0x00, 64)
	if len(res.Data) != 24 {
		t.Fatalf("len(Data) = %d, want 24 (64 - 40 residual)", len(res.Data))
	}
}

func TestModeSelectUsesPFBit(t *testing.T) {
	fr := &fakeRunner{results: []Result{{Outcome: OutcomeOK}}}
	tr := NewTransport(fr)
	outcome, _ := tr.ModeSelect([]byte{0x08, 0x0a, 0x04, 0x00}, true)
	if outcome != OutcomeOK {
		t.Fatalf("outcome = %v, want ok", outcome)
	}
	cdb := fr.calls[0]
	if cdb[1]&0x10 == 0 {
		t.Fatalf("PF bit not set in MODE SELECT CDB")
	}
	if cdb[1]&0x01 == 0 {
		t.Fatalf("SP bit not set despite save=true")
	}
}

// A VPD page whose own declared length (bytes 2-3) says there is more
// data than the initial allocation length fetched triggers exactly one
// grown re-fetch sized to the declared length, rather than a silently
// truncated result.
func TestInquiryVPDGrowsAndRetriesOnDeclaredLength(t *testing.T) {
	short := []byte{0x00, 0x83, 0x00, 100, 0, 0, 0, 0}
	grown := make([]byte, 104)
	grown[1] = 0x83
	grown[2], grown[3] = 0, 100
	copy(grown[4:], bytes.Repeat([]byte{0xaa}, 100))

	fr := &fakeRunner{
		results: []Result{{Outcome: OutcomeOK}, {Outcome: OutcomeOK}},
		fill:    [][]byte{short, grown},
	}
	tr := NewTransport(fr)
	buf, outcome := tr.InquiryVPD(0x83, 8)
	if outcome != OutcomeOK {
		t.Fatalf("outcome = %v, want ok", outcome)
	}
	if len(fr.calls) != 2 {
		t.Fatalf("expected exactly 2 CDBs (probe + grown retry), got %d", len(fr.calls))
	}
	secondAllocLen := int(fr.calls[1][3])<<8 | int(fr.calls[1][4])
	if secondAllocLen != 104 {
		t.Fatalf("retry allocLen = %d, want 104 (declared 100 + 4-byte header)", secondAllocLen)
	}
	if len(buf) != 104 {
		t.Fatalf("len(buf) = %d, want 104 (grown result, not truncated to the 8-byte probe)", len(buf))
	}
	if buf[3] != 100 {
		t.Fatalf("declared length byte lost across retry: buf[3] = %d, want 100", buf[3])
	}
}

func TestInquiryVPDDispatchesEVPD(t *testing.T) {
	fr := &fakeRunner{results: []Result{{Outcome: OutcomeOK}}}
	tr := NewTransport(fr)
	_, outcome := tr.InquiryVPD(0x83, 252)
	if outcome != OutcomeOK {
		t.Fatalf("outcome = %v, want ok", outcome)
	}
	cdb := fr.calls[0]
	if cdb[1]&0x01 == 0 || cdb[2] != 0x83 {
		t.Fatalf("unexpected INQUIRY CDB: % x", cdb)
	}
}
