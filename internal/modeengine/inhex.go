package modeengine

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/sdparm-go/sdparm/internal/render"
	"github.com/sdparm-go/sdparm/internal/scsicmd"
	"github.com/sdparm-go/sdparm/internal/sdperr"
)

// ParseInhex reads a whitespace-separated hex dump (spec §6 "File
// format — inhex": "#" starts a line comment) into a single byte
// buffer.
func ParseInhex(r io.Reader) ([]byte, error) {
	var out []byte
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		for _, tok := range strings.Fields(line) {
			b, err := hex.DecodeString(tok)
			if err != nil {
				return nil, sdperr.New(sdperr.KindIO, "inhex", fmt.Errorf("malformed hex token %q: %w", tok, err))
			}
			out = append(out, b...)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, sdperr.New(sdperr.KindIO, "inhex", err)
	}
	return out, nil
}

// ReplayModeSenseResult is one decoded page-control buffer recovered
// from an inhex MODE SENSE replay.
type ReplayModeSenseResult struct {
	Use10     bool
	Available [4]bool
	Data      [4][]byte
}

// ReplayModeSense auto-detects the MODE SENSE header width (8-byte vs
// 4-byte, spec §4.5.5) from buf and splits it into 1..4 page-control
// buffers when multiple same-length buffers are concatenated.
func ReplayModeSense(buf []byte) (ReplayModeSenseResult, error) {
	use10, _, err := detectHeaderWidth(buf)
	if err != nil {
		return ReplayModeSenseResult{}, err
	}

	mdl := modeDataLength(buf, use10)
	chunkLen := mdl + 1
	if use10 {
		chunkLen = mdl + 2
	}
	if chunkLen <= 0 || chunkLen > len(buf) {
		return ReplayModeSenseResult{}, sdperr.New(sdperr.KindMalformed, "inhex",
			fmt.Errorf("declared length %d inconsistent with file size %d", chunkLen, len(buf)))
	}

	var res ReplayModeSenseResult
	res.Use10 = use10
	n := len(buf) / chunkLen
	if n > 4 {
		n = 4
	}
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		start := i * chunkLen
		end := start + chunkLen
		if end > len(buf) {
			break
		}
		res.Available[i] = true
		res.Data[i] = pagePayload(buf[start:end], use10)
	}
	return res, nil
}

// detectHeaderWidth guesses the MODE SENSE header width by checking
// whether interpreting buf as a 10-byte header yields a self-consistent
// mode data length; falls back to 6-byte otherwise.
func detectHeaderWidth(buf []byte) (use10 bool, hl int, err error) {
	if len(buf) >= 8 {
		mdl10 := modeDataLength(buf, true)
		if mdl10+2 == len(buf) || (mdl10+2 < len(buf) && len(buf)%(mdl10+2) == 0) {
			return true, 8, nil
		}
	}
	if len(buf) >= 4 {
		mdl6 := modeDataLength(buf, false)
		if mdl6+1 == len(buf) || (mdl6+1 < len(buf) && len(buf)%(mdl6+1) == 0) {
			return false, 4, nil
		}
	}
	return false, 0, sdperr.New(sdperr.KindMalformed, "inhex", fmt.Errorf("cannot determine MODE SENSE header width from %d bytes", len(buf)))
}

// PrintReplayedPage decodes a ReplayModeSense result the same way
// PrintPage decodes a live MODE SENSE response, so the inhex path and
// the live path share one decoding routine end to end.
func (e *Engine) PrintReplayedPage(sink render.Sink, page, subpage uint8, replay ReplayModeSenseResult, opts PrintOptions) error {
	if !replay.Available[scsicmd.PCCurrent] {
		return sdperr.New(sdperr.KindMalformed, "inhex", fmt.Errorf("no current-page-control buffer recovered"))
	}
	view := pageView{available: replay.Available, data: replay.Data}
	return e.printPageView(sink, page, subpage, view, opts)
}
