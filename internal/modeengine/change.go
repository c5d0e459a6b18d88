package modeengine

import (
	"fmt"

	"github.com/sdparm-go/sdparm/internal/bitcodec"
	"github.com/sdparm-go/sdparm/internal/catalog"
	"github.com/sdparm-go/sdparm/internal/scsicmd"
	"github.com/sdparm-go/sdparm/internal/sdperr"
	"github.com/sdparm-go/sdparm/internal/selector"
	"github.com/sdparm-go/sdparm/internal/sgio"
)

// ChangeResult reports what ChangePage did, so the Driver can print the
// --dummy hex dump or a success line.
type ChangeResult struct {
	Buffer    []byte // full MODE SELECT payload (header + page), after edits
	DummyOnly bool
	Warnings  []string
}

// ChangePage implements the read-modify-write sequence of spec §4.5.3
// for a `--set=`/`--clear=` batch against one (page, subpage): MODE
// SENSE twice (length probe, then full read), header zeroing, per-field
// BitCodec::set, the PS/save consistency check, then MODE SELECT (or a
// --dummy hex dump in its place).
func (e *Engine) ChangePage(page, subpage uint8, reqs []selector.FieldRequest, clear, save bool) (ChangeResult, error) {
	hl := headerLen(e.PageIO.Use10)

	probe := e.PageIO.ModeSense(scsicmd.PCCurrent, page, subpage, hl)
	if probe.Outcome != sgio.OutcomeOK {
		return ChangeResult{}, classifyModeSenseFailure("MODE SENSE (length probe)", probe.Outcome, probe.Sense)
	}
	mdl := modeDataLength(probe.Data, e.PageIO.Use10)
	total := mdl + 1
	if e.PageIO.Use10 {
		total = mdl + 2
	}
	if total > MaxModeDataLen {
		return ChangeResult{}, sdperr.New(sdperr.KindMalformed, "MODE SENSE",
			fmt.Errorf("mode data length %d exceeds maximum %d", total, MaxModeDataLen))
	}
	if total < hl {
		total = hl
	}

	full := e.PageIO.ModeSense(scsicmd.PCCurrent, page, subpage, total)
	if full.Outcome != sgio.OutcomeOK {
		return ChangeResult{}, classifyModeSenseFailure("MODE SENSE", full.Outcome, full.Sense)
	}
	buf := append([]byte(nil), full.Data...)
	if len(buf) < hl+2 {
		return ChangeResult{}, sdperr.New(sdperr.KindMalformed, "MODE SENSE", fmt.Errorf("response too short (%d bytes)", len(buf)))
	}

	pageBuf := pagePayload(buf, e.PageIO.Use10)
	if len(pageBuf) < 2 {
		return ChangeResult{}, sdperr.New(sdperr.KindMalformed, "MODE SENSE", fmt.Errorf("page payload too short"))
	}
	originalPSSet := pageBuf[0]&0x80 != 0

	zeroModeDataLength(buf, e.PageIO.Use10)
	if scsicmd.DecayPDT(e.PDT) == scsicmd.PDTDisk {
		if off := devSpecificOffset(e.PageIO.Use10); off < len(buf) {
			buf[off] = 0
		}
	}
	clearPSBit(pageBuf)

	var layout catalog.ModeDescriptorLayout
	if name := e.Cat.FindModePageName(page, subpage, e.PDT, e.Transport, e.Vendor); name != nil {
		layout = name.Layout
	}
	var offsets []int
	if layout != nil {
		offsets, _ = descriptorOffsets(layout, pageBuf)
	}

	var warnings []string
	anyChanged := false
	for _, req := range reqs {
		startByte, startBit, numBits, key := requestAddressing(req)
		effByte := descriptorAdjustedByte(startByte, req.DescIndex, offsets)
		if effByte >= len(pageBuf) {
			if !e.Flexible {
				return ChangeResult{}, sdperr.New(sdperr.KindMalformed, "MODE SELECT",
					fmt.Errorf("field %s start_byte %d >= page length %d", key, effByte, len(pageBuf)))
			}
			warnings = append(warnings, fmt.Sprintf("field %s out of range, skipped (--flexible)", key))
			continue
		}

		value := targetValue(req, clear, numBits)
		if req.HasValue && req.Value != -1 && bitcodec.Truncated(uint64(req.Value), numBits) {
			warnings = append(warnings, fmt.Sprintf("value for %s truncated to %d bits", key, numBits))
		}

		before, _ := bitcodec.GetErr(pageBuf, effByte, startBit, numBits)
		if err := bitcodec.SetErr(pageBuf, effByte, startBit, numBits, value); err != nil {
			return ChangeResult{}, sdperr.New(sdperr.KindMalformed, "MODE SELECT", err)
		}
		if before != value&onesMaskLocal(numBits) {
			anyChanged = true
		}
	}

	if anyChanged && save && !originalPSSet {
		return ChangeResult{}, sdperr.New(sdperr.KindMalformed, "MODE SELECT",
			fmt.Errorf("page reports PS=0 (not saveable) but --save was requested"))
	}

	if e.Dummy {
		return ChangeResult{Buffer: buf, DummyOnly: true, Warnings: warnings}, nil
	}

	outcome, sense := e.PageIO.ModeSelect(buf, save)
	if outcome != sgio.OutcomeOK {
		return ChangeResult{Buffer: buf, Warnings: warnings}, classifyModeSenseFailure("MODE SELECT", outcome, sense)
	}
	return ChangeResult{Buffer: buf, Warnings: warnings}, nil
}

// targetValue resolves a FieldRequest's write value: an explicit value
// (truncated to width), the all-ones sentinel for -1 or an absent set
// value, or zero for an absent clear value (spec §4.3's "-1 ... or 0
// for get/clear" default rule).
func targetValue(req selector.FieldRequest, clear bool, numBits int) uint64 {
	if req.HasValue {
		if req.Value == -1 {
			return onesMaskLocal(numBits)
		}
		return uint64(req.Value) & onesMaskLocal(numBits)
	}
	if clear {
		return 0
	}
	return onesMaskLocal(numBits)
}

func onesMaskLocal(numBits int) uint64 {
	if numBits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(numBits)) - 1
}

