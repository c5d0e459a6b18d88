package modeengine

import (
	"encoding/json"
	"testing"

	"github.com/sdparm-go/sdparm/internal/catalog"
	"github.com/sdparm-go/sdparm/internal/render"
	"github.com/sdparm-go/sdparm/internal/scsicmd"
	"github.com/sdparm-go/sdparm/internal/selector"
	"github.com/sdparm-go/sdparm/internal/sgio"
)

// fakeRunner replays one canned sgio.Result per call, the same
// CDBRunner seam sgio's own tests use to drive Transport without a
// real device.
type fakeRunner struct {
	results []sgio.Result
	fill    [][]byte
	calls   [][]byte
	i       int
}

func (f *fakeRunner) RunCDB(cdb []byte, dir sgio.CDBDirection, buf *[]byte) sgio.Result {
	f.calls = append(f.calls, append([]byte(nil), cdb...))
	idx := f.i
	f.i++
	if idx < len(f.fill) && f.fill[idx] != nil && buf != nil {
		copy(*buf, f.fill[idx])
	}
	if idx < len(f.results) {
		return f.results[idx]
	}
	return sgio.Result{Outcome: sgio.OutcomeOther}
}

// cachingPageFixture builds one MODE SENSE(6) response for the Caching
// mode page (0x08) with the given byte2 value (IC/ABPF/.../WCE/.../RCD),
// a 4-byte header followed by a 20-byte page.
func cachingPageFixture(byte2 byte) []byte {
	page := make([]byte, 20)
	page[0] = 0x08 // PS=0, SPF=0, page_code=0x08
	page[1] = 0x12 // page length
	page[2] = byte2
	total := 4 + len(page)
	header := []byte{byte(total - 1), 0x00, 0x00, 0x00}
	return append(header, page...)
}

func wceField(t *testing.T) *catalog.FieldDescriptor {
	t.Helper()
	cands := catalog.All.FindFieldsByAcronym("WCE", scsicmd.TransportAny, scsicmd.VendorAny)
	if len(cands) != 1 {
		t.Fatalf("expected exactly one WCE field, got %d", len(cands))
	}
	return cands[0]
}

// scenario 1: Get WCE on a disk with Caching page byte2 = 0x14 (WCE set).
func TestGetWCEOnCachingPage(t *testing.T) {
	fixture := cachingPageFixture(0x14)
	resid := int32(255 - len(fixture))
	okRes := sgio.Result{Outcome: sgio.OutcomeOK, Resid: resid}
	fr := &fakeRunner{
		results: []sgio.Result{okRes, okRes, okRes, okRes},
		fill:    [][]byte{fixture, fixture, fixture, fixture},
	}
	pio := sgio.NewTransport(fr)
	e := New(pio, catalog.All, scsicmd.PDTDisk, scsicmd.TransportAny, scsicmd.VendorAny)

	field := wceField(t)
	reqs := []selector.FieldRequest{{Field: field, ByteOffset: field.StartByte, StartBit: field.StartBit, NumBits: field.NumBits}}

	sink := render.NewJSONSink()
	if err := e.Get(sink, 0x08, 0x00, reqs, GetModeCurrent); err != nil {
		t.Fatalf("Get: %v", err)
	}
	out, err := sink.MarshalIndent()
	if err != nil {
		t.Fatalf("MarshalIndent: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	// spec.md:300's literal scenario: caching.wce.current = 1, nested
	// page -> field -> page-control, not a flat root-level "wce".
	caching, ok := m["caching"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing caching object in %s", out)
	}
	wce, ok := caching["wce"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing caching.wce object in %s", out)
	}
	v, ok := wce["current"]
	if !ok {
		t.Fatalf("missing caching.wce.current key in %s", out)
	}
	if v.(float64) != 1 {
		t.Fatalf("caching.wce.current = %v, want 1", v)
	}
	if len(fr.calls) != 4 {
		t.Fatalf("expected 4 MODE SENSE calls (one per page control), got %d", len(fr.calls))
	}
}

// scenario 2: Set WCE=0 on the Caching page; verify the MODE SELECT
// payload has byte2 = 0x10, PS cleared, and the mode data length
// header zeroed.
func TestChangePageClearsWCE(t *testing.T) {
	fixture := cachingPageFixture(0x14)
	probe := append([]byte(nil), fixture[:4]...)
	fr := &fakeRunner{
		results: []sgio.Result{
			{Outcome: sgio.OutcomeOK}, // length probe
			{Outcome: sgio.OutcomeOK}, // full read
			{Outcome: sgio.OutcomeOK}, // MODE SELECT
		},
		fill: [][]byte{probe, fixture, nil},
	}
	pio := sgio.NewTransport(fr)
	e := New(pio, catalog.All, scsicmd.PDTDisk, scsicmd.TransportAny, scsicmd.VendorAny)

	field := wceField(t)
	reqs := []selector.FieldRequest{{Field: field, ByteOffset: field.StartByte, StartBit: field.StartBit, NumBits: field.NumBits, HasValue: true, Value: 0}}

	res, err := e.ChangePage(0x08, 0x00, reqs, false, false)
	if err != nil {
		t.Fatalf("ChangePage: %v", err)
	}
	if len(fr.calls) != 3 {
		t.Fatalf("expected 3 CDBs (probe, full read, MODE SELECT), got %d", len(fr.calls))
	}
	if fr.calls[2][0] != scsicmd.OpModeSelect6 {
		t.Fatalf("third CDB opcode = %#02x, want MODE SELECT(6)", fr.calls[2][0])
	}

	pageBuf := pagePayload(res.Buffer, pio.Use10)
	if pageBuf[2] != 0x10 {
		t.Fatalf("page byte2 = %#02x, want 0x10 (WCE cleared, DISC still set)", pageBuf[2])
	}
	if pageBuf[0]&0x80 != 0 {
		t.Fatalf("PS bit not cleared: byte0 = %#02x", pageBuf[0])
	}
	if res.Buffer[0] != 0 {
		t.Fatalf("mode data length header not zeroed: byte0 = %#02x", res.Buffer[0])
	}
}

// sasPhyFixture builds one MODE SENSE(6) response for the SAS Phy
// Control and Discover subpage (0x19/0x01) with two phy descriptors.
func sasPhyFixture() []byte {
	page := make([]byte, 40)
	page[0] = 0x59 // PS=0, SPF=1, page_code=0x19
	page[1] = 0x01 // subpage code
	page[7] = 0x02 // NUM_PHYS = 2
	page[12] = 0x01 // desc0 PHY_ID
	page[12+16] = 0x02 // desc1 PHY_ID
	total := 4 + len(page)
	header := []byte{byte(total - 1), 0x00, 0x00, 0x00}
	return append(header, page...)
}

// scenario 3: enumerate Phy Control descriptors, PHY_ID at instance 0
// and PHY_ID.1 at instance 1 (byte offsets 0x0c and 0x0c+desc_len).
func TestPrintPageEnumeratesPhyDescriptors(t *testing.T) {
	fixture := sasPhyFixture()
	resid := int32(255 - len(fixture))
	okRes := sgio.Result{Outcome: sgio.OutcomeOK, Resid: resid}
	fr := &fakeRunner{
		results: []sgio.Result{okRes, okRes, okRes, okRes},
		fill:    [][]byte{fixture, fixture, fixture, fixture},
	}
	pio := sgio.NewTransport(fr)
	e := New(pio, catalog.All, scsicmd.PDTDisk, scsicmd.TransportSAS, scsicmd.VendorAny)

	sink := render.NewJSONSink()
	if err := e.PrintPage(sink, 0x19, 0x01, PrintOptions{}); err != nil {
		t.Fatalf("PrintPage: %v", err)
	}
	out, err := sink.MarshalIndent()
	if err != nil {
		t.Fatalf("MarshalIndent: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	obj, ok := m["sas_phy_control_and_discover"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing page object in %s", out)
	}
	if obj["phy_id"].(float64) != 1 {
		t.Fatalf("phy_id = %v, want 1", obj["phy_id"])
	}
	if obj["phy_id_1"].(float64) != 2 {
		t.Fatalf("phy_id_1 = %v, want 2", obj["phy_id_1"])
	}
	if obj["num_phys"].(float64) != 2 {
		t.Fatalf("num_phys = %v, want 2", obj["num_phys"])
	}
}

// Two fields flagged ClashOK and occupying the same byte range within
// the SAS Phy descriptor (VS_DIAG_A at desc_id=0, VS_DIAG_B at
// desc_id=2) disambiguate on the ATTACHED_REASON nibble: only the
// field whose DescID matches the descriptor's own discriminant emits.
func TestPrintPageClashOKDisambiguatesByDescID(t *testing.T) {
	fixture := sasPhyFixture()
	pageOff := 4 // skip the mode data length header
	fixture[pageOff+9] = 0x00  // desc0 ATTACHED_REASON = 0 (unknown)  -> VS_DIAG_A
	fixture[pageOff+22] = 0xab // desc0 byte 14 (VS_DIAG_A value)
	fixture[pageOff+9+16] = 0x02  // desc1 ATTACHED_REASON = 2 (hard reset) -> VS_DIAG_B
	fixture[pageOff+22+16] = 0xcd // desc1 byte 14 (VS_DIAG_B value)

	resid := int32(255 - len(fixture))
	okRes := sgio.Result{Outcome: sgio.OutcomeOK, Resid: resid}
	fr := &fakeRunner{
		results: []sgio.Result{okRes, okRes, okRes, okRes},
		fill:    [][]byte{fixture, fixture, fixture, fixture},
	}
	pio := sgio.NewTransport(fr)
	e := New(pio, catalog.All, scsicmd.PDTDisk, scsicmd.TransportSAS, scsicmd.VendorAny)

	sink := render.NewJSONSink()
	if err := e.PrintPage(sink, 0x19, 0x01, PrintOptions{All: true}); err != nil {
		t.Fatalf("PrintPage: %v", err)
	}
	out, err := sink.MarshalIndent()
	if err != nil {
		t.Fatalf("MarshalIndent: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	obj, ok := m["sas_phy_control_and_discover"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing page object in %s", out)
	}
	if v, ok := obj["vs_diag_a"]; !ok || v.(float64) != float64(0xab) {
		t.Fatalf("vs_diag_a = %v (present=%v), want 0xab", v, ok)
	}
	if _, ok := obj["vs_diag_b"]; ok {
		t.Fatalf("vs_diag_b should not emit for instance 0 (desc_id mismatch): %s", out)
	}
	if v, ok := obj["vs_diag_b_1"]; !ok || v.(float64) != float64(0xcd) {
		t.Fatalf("vs_diag_b_1 = %v (present=%v), want 0xcd", v, ok)
	}
	if _, ok := obj["vs_diag_a_1"]; ok {
		t.Fatalf("vs_diag_a_1 should not emit for instance 1 (desc_id mismatch): %s", out)
	}
}

// scenario 5: restore-to-defaults issues exactly one MODE SENSE(default),
// then one MODE SELECT with PS cleared.
func TestRestorePageDefault(t *testing.T) {
	fixture := cachingPageFixture(0x14)
	fr := &fakeRunner{
		results: []sgio.Result{
			{Outcome: sgio.OutcomeOK, Resid: int32(255 - len(fixture))},
			{Outcome: sgio.OutcomeOK},
		},
		fill: [][]byte{fixture, nil},
	}
	pio := sgio.NewTransport(fr)
	e := New(pio, catalog.All, scsicmd.PDTDisk, scsicmd.TransportAny, scsicmd.VendorAny)

	res, err := e.RestorePageDefault(0x08, 0x00, false)
	if err != nil {
		t.Fatalf("RestorePageDefault: %v", err)
	}
	selectCalls := 0
	for _, c := range fr.calls {
		if c[0] == scsicmd.OpModeSelect6 {
			selectCalls++
		}
	}
	if selectCalls != 1 {
		t.Fatalf("expected exactly 1 MODE SELECT, got %d", selectCalls)
	}
	if len(fr.calls) != 2 {
		t.Fatalf("expected 2 CDBs (one MODE SENSE, one MODE SELECT), got %d", len(fr.calls))
	}
	pageBuf := pagePayload(res.Buffer, pio.Use10)
	if pageBuf[0]&0x80 != 0 {
		t.Fatalf("PS bit not cleared after restore: byte0 = %#02x", pageBuf[0])
	}
	if res.Buffer[0] != 0 {
		t.Fatalf("mode data length header not zeroed: byte0 = %#02x", res.Buffer[0])
	}
}

// scenario 5 (global): RestoreToDefaultsGlobal issues a single
// MODE SELECT(10) with the RTD bit set and no payload.
func TestRestoreToDefaultsGlobal(t *testing.T) {
	fr := &fakeRunner{results: []sgio.Result{{Outcome: sgio.OutcomeOK}}}
	pio := sgio.NewTransport(fr)
	pio.Use10 = true
	e := New(pio, catalog.All, scsicmd.PDTDisk, scsicmd.TransportAny, scsicmd.VendorAny)

	if err := e.RestoreToDefaultsGlobal(); err != nil {
		t.Fatalf("RestoreToDefaultsGlobal: %v", err)
	}
	if len(fr.calls) != 1 {
		t.Fatalf("expected exactly 1 CDB, got %d", len(fr.calls))
	}
	cdb := fr.calls[0]
	if cdb[0] != scsicmd.OpModeSelect10 {
		t.Fatalf("opcode = %#02x, want MODE SELECT(10)", cdb[0])
	}
	if cdb[1]&0x02 == 0 {
		t.Fatalf("RTD bit not set in CDB byte1 = %#02x", cdb[1])
	}
}

// The inhex replay path decodes the same way the live MODE SENSE path
// does: ReplayModeSense + PrintReplayedPage should agree with PrintPage
// fed the equivalent live response.
func TestReplayModeSenseMatchesLivePrint(t *testing.T) {
	fixture := cachingPageFixture(0x14)

	replay, err := ReplayModeSense(fixture)
	if err != nil {
		t.Fatalf("ReplayModeSense: %v", err)
	}
	if !replay.Available[scsicmd.PCCurrent] {
		t.Fatalf("replay: current page control not recovered")
	}

	e := New(nil, catalog.All, scsicmd.PDTDisk, scsicmd.TransportAny, scsicmd.VendorAny)
	sink := render.NewJSONSink()
	if err := e.PrintReplayedPage(sink, 0x08, 0x00, replay, PrintOptions{}); err != nil {
		t.Fatalf("PrintReplayedPage: %v", err)
	}
	out, err := sink.MarshalIndent()
	if err != nil {
		t.Fatalf("MarshalIndent: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	obj, ok := m["caching"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing page object in %s", out)
	}
	if obj["wce"].(float64) != 1 {
		t.Fatalf("wce = %v, want 1", obj["wce"])
	}

	liveRes := sgio.Result{Outcome: sgio.OutcomeOK, Resid: int32(255 - len(fixture))}
	fr := &fakeRunner{
		results: []sgio.Result{liveRes, liveRes, liveRes, liveRes},
		fill:    [][]byte{fixture, fixture, fixture, fixture},
	}
	live := New(sgio.NewTransport(fr), catalog.All, scsicmd.PDTDisk, scsicmd.TransportAny, scsicmd.VendorAny)
	liveSink := render.NewJSONSink()
	if err := live.PrintPage(liveSink, 0x08, 0x00, PrintOptions{}); err != nil {
		t.Fatalf("PrintPage: %v", err)
	}
	liveOut, err := liveSink.MarshalIndent()
	if err != nil {
		t.Fatalf("MarshalIndent (live): %v", err)
	}
	if string(liveOut) != string(out) {
		t.Fatalf("replay output differs from live output:\nreplay: %s\nlive: %s", out, liveOut)
	}
}

func TestMaxInstances(t *testing.T) {
	if maxInstances(0) != 1 {
		t.Fatalf("maxInstances(0) = %d, want 1", maxInstances(0))
	}
	if maxInstances(3) != 3 {
		t.Fatalf("maxInstances(3) = %d, want 3", maxInstances(3))
	}
}

func TestDescriptorAdjustedByte(t *testing.T) {
	offsets := []int{8, 24, 40}
	if got := descriptorAdjustedByte(12, 0, offsets); got != 12 {
		t.Fatalf("descriptorAdjustedByte(12,0,...) = %d, want 12", got)
	}
	if got := descriptorAdjustedByte(12, 2, offsets); got != 44 {
		t.Fatalf("descriptorAdjustedByte(12,2,...) = %d, want 44", got)
	}
	// A field whose start_byte precedes the descriptor region (a header
	// field) is never shifted, regardless of descIndex.
	if got := descriptorAdjustedByte(5, 2, offsets); got != 5 {
		t.Fatalf("descriptorAdjustedByte(5,2,...) = %d, want 5", got)
	}
}
