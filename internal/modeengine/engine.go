// Package modeengine implements ModeEngine (spec §4.5): the state
// machine driving "print all mode pages", field get/set/clear, restore
// defaults, and the inhex replay path, layered on PageIO (internal/sgio)
// and the Catalog (internal/catalog).
package modeengine

import (
	"fmt"

	"github.com/sdparm-go/sdparm/internal/bitcodec"
	"github.com/sdparm-go/sdparm/internal/catalog"
	"github.com/sdparm-go/sdparm/internal/render"
	"github.com/sdparm-go/sdparm/internal/scsicmd"
	"github.com/sdparm-go/sdparm/internal/sdperr"
	"github.com/sdparm-go/sdparm/internal/selector"
	"github.com/sdparm-go/sdparm/internal/sgio"
)

// MaxModeDataLen bounds a MODE SENSE response ModeEngine will act on
// (spec §4.5.3 step 3).
const MaxModeDataLen = 2048

// Engine is ModeEngine: the page-control-aware read/decode/modify/write
// orchestrator sitting above PageIO.
type Engine struct {
	PageIO    *sgio.Transport
	Cat       *catalog.Catalog
	PDT       scsicmd.PDT
	Transport scsicmd.Transport
	Vendor    scsicmd.Vendor
	Flexible  bool
	Dummy     bool
}

// New builds an Engine bound to one device's PageIO transport and
// identity.
func New(pio *sgio.Transport, cat *catalog.Catalog, pdt scsicmd.PDT, transport scsicmd.Transport, vendor scsicmd.Vendor) *Engine {
	return &Engine{PageIO: pio, Cat: cat, PDT: pdt, Transport: transport, Vendor: vendor}
}

// GetMode selects which page controls Get renders and how values are
// formatted, per spec §4.3's `--get=` value semantics.
type GetMode int

const (
	GetModeAllUnsigned GetMode = 0
	GetModeCurrent      GetMode = 1
	GetModeCurrentSigned GetMode = 2
	GetModeAllSigned    GetMode = 3
)

// pageView holds the four parallel MODE SENSE results for one page,
// the Go realization of Design Notes §9's "record of Option<Buffer> per
// control with an availability flag".
type pageView struct {
	available [4]bool
	data      [4][]byte
}

func (e *Engine) fetchAllPC(page, subpage uint8) (pageView, error) {
	res := e.PageIO.ModeSenseAllPC(page, subpage, MaxModeDataLen)
	var v pageView
	for pc := 0; pc < 4; pc++ {
		v.available[pc] = res.Available[pc]
		if res.Available[pc] {
			v.data[pc] = pagePayload(res.Pages[pc].Data, e.PageIO.Use10)
		}
	}
	if !v.available[scsicmd.PCCurrent] {
		r := res.Pages[scsicmd.PCCurrent]
		return v, classifyModeSenseFailure("MODE SENSE", r.Outcome, r.Sense)
	}
	return v, nil
}

func classifyModeSenseFailure(op string, outcome sgio.Outcome, sense sgio.Sense) error {
	switch outcome {
	case sgio.OutcomeInvalidOp:
		return sdperr.New(sdperr.KindTransportInvalidOp, op, fmt.Errorf("CDB variant not supported, retry with the other length"))
	case sgio.OutcomeNotReady:
		return sdperr.New(sdperr.KindTransportNotReady, op, fmt.Errorf("%s", sense.String()))
	case sgio.OutcomeUnitAttention:
		return sdperr.New(sdperr.KindTransportUnitAttention, op, fmt.Errorf("%s", sense.String()))
	case sgio.OutcomeAbortedCommand:
		return sdperr.New(sdperr.KindTransportAbortedCommand, op, fmt.Errorf("%s", sense.String()))
	case sgio.OutcomeIllegalRequest:
		return sdperr.New(sdperr.KindTransportIllegalRequest, op, fmt.Errorf("%s", sense.String()))
	default:
		return sdperr.New(sdperr.KindMalformed, op, fmt.Errorf("unexpected outcome %v", outcome))
	}
}

// PrintOptions configures PrintPage's output shape.
type PrintOptions struct {
	All       bool // include non-Common fields
	InnerHex  bool // emit raw per-control bytes alongside decoded fields
	LongForm  bool // include Description text
	NumDesc   bool // print descriptor counts only
}

// PrintPage implements the "print all mode pages" state machine (spec
// §4.5.1) for one (page, subpage): FetchAllPC, then StreamFields,
// walking descriptor instances per §4.5.2, honoring StopIfSet.
func (e *Engine) PrintPage(sink render.Sink, page, subpage uint8, opts PrintOptions) error {
	view, err := e.fetchAllPC(page, subpage)
	if err != nil {
		return err
	}
	return e.printPageView(sink, page, subpage, view, opts)
}

// printPageView is the StreamFields half of the state machine (spec
// §4.5.1), decoupled from how the four page-control buffers were
// obtained so the inhex replay path (ReplayModeSense) can drive it too.
func (e *Engine) printPageView(sink render.Sink, page, subpage uint8, view pageView, opts PrintOptions) error {
	name := e.Cat.FindModePageName(page, subpage, e.PDT, e.Transport, e.Vendor)
	title := pageTitle(name, page, subpage)
	sink.BeginObj(title)
	defer sink.EndObj()

	if opts.InnerHex {
		emitInnerHex(sink, view)
	}

	cur := view.data[scsicmd.PCCurrent]
	fields := e.Cat.IterFieldsFor(page, subpage, e.PDT, e.Transport, e.Vendor)

	var layout catalog.ModeDescriptorLayout
	if name != nil {
		layout = name.Layout
	}

	var offsets []int
	if layout != nil {
		var complete bool
		offsets, complete = descriptorOffsets(layout, cur)
		if !complete {
			sink.HRLine(fmt.Sprintf("warning: %s descriptor walk aborted, encoded length exceeded %d bytes", pageTitle(name, page, subpage), maxEncodedDescLen))
		}
		if opts.NumDesc {
			sink.KVInt("num_descriptors", int64(len(offsets)), false, "")
			return nil
		}
	}

	base := 0
	if len(offsets) > 0 {
		base = offsets[0]
	}
	hasDescID := layout != nil && layoutHasDescID(layout)

	stopped := false
	for instance := 0; instance < maxInstances(len(offsets)); instance++ {
		if stopped && !e.Flexible {
			break
		}
		delta := 0
		descBase := base
		if instance < len(offsets) {
			delta = offsets[instance] - base
			descBase = offsets[instance]
		}
		for _, f := range fields {
			inDescRegion := layout != nil && f.StartByte >= base
			if !inDescRegion && instance > 0 {
				// Header field, not part of the descriptor region: only
				// emit once, on the first instance.
				continue
			}

			if !opts.All && !f.Flags.Has(catalog.Common) {
				continue
			}

			if f.Flags.Has(catalog.ClashOK) {
				if !hasDescID {
					continue
				}
				d, ok := descDiscriminant(cur, descBase)
				if !ok || d != f.DescID {
					continue
				}
			}

			effByte := f.StartByte
			if inDescRegion {
				effByte += delta
			}

			val, allOnes, ok := decodeField(cur, effByte, f)
			if !ok {
				if !e.Flexible {
					sink.HRLine(fmt.Sprintf("warning: field %s start_byte %d >= page length %d, skipping", f.Acronym, effByte, len(cur)))
				}
				continue
			}

			emitField(sink, f, instance, val, allOnes, opts.LongForm)

			if f.Flags.Has(catalog.StopIfSet) && val != 0 {
				stopped = true
			}
		}
		if len(offsets) == 0 {
			break
		}
	}
	return nil
}

func maxInstances(n int) int {
	if n == 0 {
		return 1
	}
	return n
}

func pageTitle(name *catalog.ModePageName, page, subpage uint8) string {
	if name != nil {
		return name.Name
	}
	if subpage == 0 {
		return fmt.Sprintf("mode page 0x%02x", page)
	}
	return fmt.Sprintf("mode page 0x%02x/0x%02x", page, subpage)
}

func decodeField(buf []byte, startByte int, f *catalog.FieldDescriptor) (uint64, bool, bool) {
	v, err := bitcodec.GetErr(buf, startByte, f.StartBit, f.NumBits)
	if err != nil {
		return 0, false, false
	}
	return v, bitcodec.AllOnesFlag(v, f.NumBits), true
}

func emitField(sink render.Sink, f *catalog.FieldDescriptor, instance int, val uint64, allOnes bool, long bool) {
	key := f.Acronym
	if instance > 0 || f.Flags.Has(catalog.UseDesc) {
		key = fmt.Sprintf("%s.%d", f.Acronym, instance)
	}

	desc := ""
	if long {
		desc = f.Description
	}

	switch {
	case f.Flags.Has(catalog.AllOnes) && allOnes:
		sink.KVInt(key, -1, false, desc)
	case f.Flags.Render() == catalog.RenderSigned:
		sink.KVInt(key, bitcodec.SignedValue(val, f.NumBits), false, desc)
	case f.Flags.Render() == catalog.RenderHex:
		sink.KVInt(key, int64(val), true, desc)
	default:
		sink.KVInt(key, int64(val), false, desc)
	}
}

func emitInnerHex(sink render.Sink, view pageView) {
	names := [4]string{"current", "changeable", "default", "saved"}
	for pc := 0; pc < 4; pc++ {
		if view.available[pc] {
			sink.KVHexBytes(names[pc], view.data[pc])
		}
	}
}

// Get implements `--get=` (spec §4.3/§4.5): resolves reqs against the
// catalog (already done by the Selector) and renders each field per
// mode's view selection, nested page -> field -> page-control the same
// three levels deep PrintPage's own page -> field path implies, with the
// page-control level always present (spec.md:300's `caching.wce.current`
// scenario) rather than only surfacing when more than one control view
// was fetched.
func (e *Engine) Get(sink render.Sink, page, subpage uint8, reqs []selector.FieldRequest, mode GetMode) error {
	view, err := e.fetchAllPC(page, subpage)
	if err != nil {
		return err
	}

	name := e.Cat.FindModePageName(page, subpage, e.PDT, e.Transport, e.Vendor)
	var layout catalog.ModeDescriptorLayout
	if name != nil {
		layout = name.Layout
	}
	var offsets []int
	if layout != nil {
		offsets, _ = descriptorOffsets(layout, view.data[scsicmd.PCCurrent])
	}

	controls := []scsicmd.PageControl{scsicmd.PCCurrent}
	if mode == GetModeAllUnsigned || mode == GetModeAllSigned {
		controls = []scsicmd.PageControl{scsicmd.PCCurrent, scsicmd.PCChangeable, scsicmd.PCDefault, scsicmd.PCSaved}
	}
	signed := mode == GetModeCurrentSigned || mode == GetModeAllSigned

	sink.BeginObj(pageTitle(name, page, subpage))
	defer sink.EndObj()

	for _, req := range reqs {
		startByte, startBit, numBits, key := requestAddressing(req)
		effByte := descriptorAdjustedByte(startByte, req.DescIndex, offsets)

		sink.BeginObj(key)
		for _, pc := range controls {
			if !view.available[pc] {
				continue
			}
			v, err := bitcodec.GetErr(view.data[pc], effByte, startBit, numBits)
			if err != nil {
				sink.HRLine(fmt.Sprintf("warning: %s not present in %s page control", key, pc))
				continue
			}
			if signed {
				sink.KVInt(pc.String(), bitcodec.SignedValue(v, numBits), false, "")
			} else {
				sink.KVInt(pc.String(), int64(v), req.Field != nil && req.Field.Flags.Render() == catalog.RenderHex, "")
			}
		}
		sink.EndObj()
	}
	return nil
}

// descriptorAdjustedByte shifts startByte by the offset delta of
// descriptor instance descIndex relative to the first instance, when
// the page has a descriptor layout and the field lies inside the
// descriptor region (spec §4.5.3 step 5's "recompute start_byte").
func descriptorAdjustedByte(startByte, descIndex int, offsets []int) int {
	if descIndex <= 0 || len(offsets) == 0 || descIndex >= len(offsets) {
		return startByte
	}
	if startByte < offsets[0] {
		return startByte
	}
	return startByte + (offsets[descIndex] - offsets[0])
}

func requestAddressing(req selector.FieldRequest) (startByte, startBit, numBits int, key string) {
	if req.Field != nil {
		return req.Field.StartByte, req.Field.StartBit, req.Field.NumBits, req.Field.Acronym
	}
	return req.ByteOffset, req.StartBit, req.NumBits, fmt.Sprintf("%d:%d:%d", req.ByteOffset, req.StartBit, req.NumBits)
}

