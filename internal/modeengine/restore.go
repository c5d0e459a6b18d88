package modeengine

import (
	"github.com/sdparm-go/sdparm/internal/scsicmd"
	"github.com/sdparm-go/sdparm/internal/sgio"
)

// RestorePageDefault implements the per-page restore-to-defaults path
// (spec §4.5.4): one MODE SENSE for the default page control, then one
// MODE SELECT with that page as payload, PS cleared, save bit as given.
func (e *Engine) RestorePageDefault(page, subpage uint8, save bool) (ChangeResult, error) {
	full := e.PageIO.ModeSense(scsicmd.PCDefault, page, subpage, MaxModeDataLen)
	if full.Outcome != sgio.OutcomeOK {
		return ChangeResult{}, classifyModeSenseFailure("MODE SENSE (default)", full.Outcome, full.Sense)
	}
	mdl := modeDataLength(full.Data, e.PageIO.Use10)
	total := mdl + 1
	if e.PageIO.Use10 {
		total = mdl + 2
	}
	if total > len(full.Data) {
		total = len(full.Data)
	}
	buf := append([]byte(nil), full.Data[:total]...)

	zeroModeDataLength(buf, e.PageIO.Use10)
	if pageBuf := pagePayload(buf, e.PageIO.Use10); pageBuf != nil {
		clearPSBit(pageBuf)
	}

	if e.Dummy {
		return ChangeResult{Buffer: buf, DummyOnly: true}, nil
	}

	outcome, sense := e.PageIO.ModeSelect(buf, save)
	if outcome != sgio.OutcomeOK {
		return ChangeResult{Buffer: buf}, classifyModeSenseFailure("MODE SELECT", outcome, sense)
	}
	return ChangeResult{Buffer: buf}, nil
}

// RestoreToDefaultsGlobal implements the global RTD path (spec §4.5.4):
// a zero-length-payload MODE SELECT(10) with the RTD bit set. Only
// meaningful with the 10-byte CDB family.
func (e *Engine) RestoreToDefaultsGlobal() error {
	if e.Dummy {
		return nil
	}
	outcome, sense := e.PageIO.ModeSelectRTD()
	if outcome != sgio.OutcomeOK {
		return classifyModeSenseFailure("MODE SELECT (RTD)", outcome, sense)
	}
	return nil
}
