package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sdparm-go/sdparm/internal/catalog"
	"github.com/sdparm-go/sdparm/internal/device"
	"github.com/sdparm-go/sdparm/internal/diag"
	"github.com/sdparm-go/sdparm/internal/modeengine"
	"github.com/sdparm-go/sdparm/internal/render"
	"github.com/sdparm-go/sdparm/internal/scsicmd"
	"github.com/sdparm-go/sdparm/internal/sdperr"
	"github.com/sdparm-go/sdparm/internal/selector"
	"github.com/sdparm-go/sdparm/internal/sgio"
	"github.com/sdparm-go/sdparm/internal/vpd"
)

// Run is the Driver (spec §6/§7): validates the flag combination, then
// walks the device list sequentially, the way cmd/tcgdiskstat/main.go's
// `for _, fi := range sysblk { ...; defer d.Close() }` loop processes one
// block device at a time rather than fanning out across goroutines.
func Run(cli *CLI, stdout, stderr io.Writer) int {
	if err := validate(cli); err != nil {
		fmt.Fprintln(stderr, err)
		return sdperr.KindOf(err).ExitCode()
	}

	if cli.Enumerate {
		if err := runEnumerate(cli, stdout); err != nil {
			fmt.Fprintln(stderr, err)
			return sdperr.KindOf(err).ExitCode()
		}
		return 0
	}

	devices := cli.Devices
	if cli.Inhex != "" && len(devices) == 0 {
		devices = []string{cli.Inhex}
	}
	if len(devices) == 0 {
		err := sdperr.New(sdperr.KindSyntax, "", fmt.Errorf("no device specified"))
		fmt.Fprintln(stderr, err)
		return err.Kind.ExitCode()
	}

	descWidth := 0
	if cli.Long && !cli.Quiet {
		descWidth = render.TerminalWidth(int(os.Stdout.Fd()))
	}

	agg := diag.NewAggregate()
	dumper := diag.NewDumper(stderr, cli.Verbose)

	// spec §7's propagation policy: batch errors never abort the loop;
	// the first non-zero exit code wins.
	exitCode := 0
	for _, devPath := range devices {
		if err := runOneDevice(cli, devPath, stdout, descWidth, agg, dumper); err != nil {
			fmt.Fprintln(stderr, err)
			if code := sdperr.KindOf(err).ExitCode(); exitCode == 0 {
				exitCode = code
			}
		}
	}

	if cli.OpenMetrics {
		for _, d := range agg.Devices() {
			if err := render.WriteCounters(stdout, d, agg.Counters(d)); err != nil {
				fmt.Fprintln(stderr, err)
			}
		}
	}

	return exitCode
}

// validate runs every mutually-exclusive-flag check before any device is
// opened, per spec §7's "parsing errors return immediately with Syntax
// before any I/O".
func validate(cli *CLI) error {
	ops := 0
	if cli.Get != "" {
		ops++
	}
	if cli.Set != "" {
		ops++
	}
	if cli.Clear != "" {
		ops++
	}
	if cli.Defaults {
		ops++
	}
	if ops > 1 {
		return sdperr.New(sdperr.KindContradict, "", fmt.Errorf("--get, --set, --clear, and --defaults are mutually exclusive"))
	}
	if cli.Command != "" {
		return sdperr.New(sdperr.KindSyntax, "", fmt.Errorf("--command is not implemented in this build"))
	}
	if cli.Examine && ops > 0 {
		return sdperr.New(sdperr.KindContradict, "", fmt.Errorf("--examine cannot be combined with --get/--set/--clear/--defaults"))
	}
	if cli.Inquiry && ops > 0 {
		return sdperr.New(sdperr.KindContradict, "", fmt.Errorf("--inquiry addresses VPD pages, which have no settable fields"))
	}
	if cli.Inquiry && cli.Examine {
		return sdperr.New(sdperr.KindContradict, "", fmt.Errorf("--examine applies to mode pages, not VPD pages"))
	}
	if cli.Enumerate && (ops > 0 || cli.Examine) {
		return sdperr.New(sdperr.KindContradict, "", fmt.Errorf("--enumerate does no device I/O and cannot be combined with --get/--set/--clear/--defaults/--examine"))
	}
	if cli.Transport != "" {
		if _, ok := scsicmd.TransportFromName(strings.ToLower(cli.Transport)); !ok {
			return sdperr.New(sdperr.KindSyntax, "", fmt.Errorf("unknown --transport=%q", cli.Transport))
		}
	}
	if cli.Vendor != "" {
		if _, ok := scsicmd.VendorFromName(strings.ToLower(cli.Vendor)); !ok {
			return sdperr.New(sdperr.KindSyntax, "", fmt.Errorf("unknown --vendor=%q", cli.Vendor))
		}
	}
	return nil
}

func runOneDevice(cli *CLI, devPath string, stdout io.Writer, descWidth int, agg *diag.Aggregate, dumper *diag.Dumper) error {
	if cli.Inhex != "" {
		return runInhexDevice(cli, devPath, stdout, descWidth, dumper)
	}

	var h *device.Handle
	var err error
	if cli.Readonly {
		h, err = device.OpenReadOnly(devPath)
	} else {
		h, err = device.Open(devPath)
	}
	if err != nil {
		return sdperr.New(sdperr.KindIO, "open", fmt.Errorf("%s: %w", devPath, err))
	}
	defer h.Close()

	pio := h.PageIO
	pio.Use10 = !cli.SixByte
	pio.DBD = cli.Dbd

	vendor := h.Identity.Vendor
	if cli.Vendor != "" {
		vendor, _ = scsicmd.VendorFromName(strings.ToLower(cli.Vendor))
	}
	transport := scsicmd.TransportAny
	if cli.Transport != "" {
		transport, _ = scsicmd.TransportFromName(strings.ToLower(cli.Transport))
	}
	pdt := h.Identity.PDT

	dumper.Dump("identity", h.Identity)

	sink, flush := newSink(cli, stdout, descWidth)

	var opErr error
	if cli.Examine {
		if !cli.Quiet {
			sink.HRLine(fmt.Sprintf("%s: %s", devPath, h.Identity.String()))
		}
		opErr = runExamine(sink, pio, pdt, transport, vendor)
	} else if cli.Inquiry {
		if !cli.Quiet {
			sink.HRLine(fmt.Sprintf("%s: %s", devPath, h.Identity.String()))
		}
		opErr = runVPD(cli, sink, pio, pdt)
	} else {
		if !cli.Quiet {
			sink.HRLine(fmt.Sprintf("%s: %s", devPath, h.Identity.String()))
		}
		opErr = runModePage(cli, sink, pio, pdt, transport, vendor, dumper)
	}

	flush()
	agg.Record(devPath, pio.Counters)
	return opErr
}

// newSink picks the text or JSON sink per -j/--json, and returns the
// matching flush step (tabwriter Flush, or marshal-and-write), the way
// cmd/tcgdiskstat/main.go's outputTable/outputJSON share one Devices
// value but commit it to stdout two different ways.
func newSink(cli *CLI, stdout io.Writer, descWidth int) (render.Sink, func()) {
	if cli.JSON {
		js := render.NewJSONSink()
		return js, func() {
			b, err := js.MarshalIndent()
			if err != nil {
				return
			}
			stdout.Write(b)
			io.WriteString(stdout, "\n")
		}
	}
	ts := render.NewTextSink(stdout, cli.Quiet, descWidth)
	return ts, func() { ts.Flush() }
}

// runExamine implements -E/--examine: one short MODE SENSE per catalog-known
// page, reporting presence/absence rather than decoding values.
func runExamine(sink render.Sink, pio *sgio.Transport, pdt scsicmd.PDT, transport scsicmd.Transport, vendor scsicmd.Vendor) error {
	sink.BeginObj("examine")
	defer sink.EndObj()
	for _, id := range catalog.All.AllModePageIDs(transport, vendor) {
		res := pio.ModeSense(scsicmd.PCCurrent, id.Page, id.Subpage, 8)
		name := catalog.All.FindModePageName(id.Page, id.Subpage, pdt, transport, vendor)
		label := pageLabel(name, id.Page, id.Subpage)
		if res.Outcome == sgio.OutcomeOK {
			sink.KVStr(label, "present")
		} else {
			sink.KVStr(label, "absent")
		}
	}
	return nil
}

func runVPD(cli *CLI, sink render.Sink, pio *sgio.Transport, pdt scsicmd.PDT) error {
	dec := vpd.New(pio, catalog.All, pdt)
	if cli.Page != "" {
		page, _, err := resolvePageArg(cli.Page, true, pdt, scsicmd.TransportAny, scsicmd.VendorAny)
		if err != nil {
			return err
		}
		return dec.FetchAndDecode(sink, page)
	}
	return dec.DecodeAll(sink)
}

func runModePage(cli *CLI, sink render.Sink, pio *sgio.Transport, pdt scsicmd.PDT, transport scsicmd.Transport, vendor scsicmd.Vendor, dumper *diag.Dumper) error {
	eng := modeengine.New(pio, catalog.All, pdt, transport, vendor)
	eng.Flexible = cli.Flexible
	eng.Dummy = cli.Dummy

	pageGiven := cli.Page != ""
	var page, subpage uint8
	if pageGiven {
		var err error
		page, subpage, err = resolvePageArg(cli.Page, false, pdt, transport, vendor)
		if err != nil {
			return err
		}
	}

	opts := modeengine.PrintOptions{All: cli.All, InnerHex: cli.Hex > 0, LongForm: cli.Long, NumDesc: cli.NumDesc}

	switch {
	case cli.Defaults:
		if pageGiven {
			res, err := eng.RestorePageDefault(page, subpage, cli.Save)
			if err != nil {
				return err
			}
			if res.DummyOnly {
				sink.KVHexBytes("dummy_mode_select_buffer", res.Buffer)
			}
			return nil
		}
		if cli.SixByte {
			return sdperr.New(sdperr.KindContradict, "", fmt.Errorf("global restore-to-defaults requires 10-byte CDBs, drop -6"))
		}
		return eng.RestoreToDefaultsGlobal()

	case cli.Get != "":
		items, err := selector.ParseExpr(cli.Get)
		if err != nil {
			return sdperr.New(sdperr.KindSyntax, "", err)
		}
		reqs, err := selector.Resolve(items, catalog.All, page, subpage, pageGiven, pdt, transport, vendor)
		if err != nil {
			return sdperr.New(sdperr.KindSyntax, "", err)
		}
		if !pageGiven {
			page, subpage = pageFromRequests(reqs)
		}
		dumper.Dump("field_requests", reqs)
		mode := modeengine.GetModeCurrent
		if cli.All {
			mode = modeengine.GetModeAllUnsigned
		}
		return eng.Get(sink, page, subpage, reqs, mode)

	case cli.Set != "" || cli.Clear != "":
		raw := cli.Set
		clearFlag := false
		if cli.Clear != "" {
			raw = cli.Clear
			clearFlag = true
		}
		items, err := selector.ParseExpr(raw)
		if err != nil {
			return sdperr.New(sdperr.KindSyntax, "", err)
		}
		reqs, err := selector.Resolve(items, catalog.All, page, subpage, pageGiven, pdt, transport, vendor)
		if err != nil {
			return sdperr.New(sdperr.KindSyntax, "", err)
		}
		if !pageGiven {
			page, subpage = pageFromRequests(reqs)
		}
		dumper.Dump("field_requests", reqs)
		res, err := eng.ChangePage(page, subpage, reqs, clearFlag, cli.Save)
		for _, w := range res.Warnings {
			sink.HRLine("warning: " + w)
		}
		dumper.Dump("mode_select_buffer", res.Buffer)
		if err != nil {
			return err
		}
		if res.DummyOnly {
			sink.KVHexBytes("dummy_mode_select_buffer", res.Buffer)
		}
		return nil

	default:
		if pageGiven {
			return eng.PrintPage(sink, page, subpage, opts)
		}
		ids, err := eng.DiscoverPages()
		if err != nil {
			return err
		}
		var firstErr error
		for _, id := range ids {
			if err := eng.PrintPage(sink, id.Page, id.Subpage, opts); err != nil {
				sink.HRLine(fmt.Sprintf("warning: mode page 0x%02x/0x%02x: %v", id.Page, id.Subpage, err))
				if firstErr == nil {
					firstErr = err
				}
			}
		}
		return firstErr
	}
}

func pageFromRequests(reqs []selector.FieldRequest) (uint8, uint8) {
	for _, r := range reqs {
		if r.Field != nil {
			return r.Field.PageCode, r.Field.SubpageCode
		}
	}
	return 0, 0
}

// runInhexDevice replays a hex-dump file instead of issuing device I/O
// (spec §4.5.5/§6's inhex file format); devPath is only used as the
// output's device label when the user gave none explicitly.
func runInhexDevice(cli *CLI, devPath string, stdout io.Writer, descWidth int, dumper *diag.Dumper) error {
	f, err := os.Open(cli.Inhex)
	if err != nil {
		return sdperr.New(sdperr.KindIO, "inhex", err)
	}
	defer f.Close()

	buf, err := modeengine.ParseInhex(f)
	if err != nil {
		return err
	}
	dumper.Dump("inhex_buffer", buf)

	sink, flush := newSink(cli, stdout, descWidth)
	defer flush()
	if !cli.Quiet {
		sink.HRLine(fmt.Sprintf("%s: replayed from %s", devPath, cli.Inhex))
	}

	if cli.Inquiry {
		if len(buf) < 4 {
			return sdperr.New(sdperr.KindMalformed, "inhex", fmt.Errorf("VPD replay buffer too short (%d bytes)", len(buf)))
		}
		dec := vpd.New(nil, catalog.All, scsicmd.PDT(buf[0]&0x1f))
		return dec.Decode(sink, buf[1], buf)
	}

	replay, err := modeengine.ReplayModeSense(buf)
	if err != nil {
		return err
	}
	page, subpage := derivePageFromReplay(replay)
	if cli.Page != "" {
		p, sp, perr := resolvePageArg(cli.Page, false, scsicmd.PDTAny, scsicmd.TransportAny, scsicmd.VendorAny)
		if perr != nil {
			return perr
		}
		page, subpage = p, sp
	}

	eng := modeengine.New(nil, catalog.All, scsicmd.PDTAny, scsicmd.TransportAny, scsicmd.VendorAny)
	eng.Flexible = cli.Flexible
	opts := modeengine.PrintOptions{All: cli.All, InnerHex: cli.Hex > 0, LongForm: cli.Long, NumDesc: cli.NumDesc}
	return eng.PrintReplayedPage(sink, page, subpage, replay, opts)
}

// derivePageFromReplay recovers the (page, subpage) the replayed buffer
// itself declares, so --inhex + mode pages works without also requiring
// --page= (the live MODE SENSE path always knows its own page/subpage
// from the CLI; a replayed dump carries it in its own page header).
func derivePageFromReplay(r modeengine.ReplayModeSenseResult) (page, subpage uint8) {
	data := r.Data[scsicmd.PCCurrent]
	if len(data) == 0 {
		return 0, 0
	}
	spf := data[0]&0x40 != 0
	page = data[0] & 0x3f
	if spf && len(data) > 1 {
		subpage = data[1]
	}
	return page, subpage
}

// runEnumerate implements -e/--enumerate: a catalog-only dump, no device
// I/O at all.
func runEnumerate(cli *CLI, stdout io.Writer) error {
	descWidth := 0
	if cli.Long {
		descWidth = render.TerminalWidth(int(os.Stdout.Fd()))
	}
	sink, flush := newSink(cli, stdout, descWidth)
	defer flush()

	transport := scsicmd.TransportAny
	if cli.Transport != "" {
		transport, _ = scsicmd.TransportFromName(strings.ToLower(cli.Transport))
	}
	vendor := scsicmd.VendorAny
	if cli.Vendor != "" {
		vendor, _ = scsicmd.VendorFromName(strings.ToLower(cli.Vendor))
	}

	if cli.Inquiry {
		sink.BeginArr("vpd_pages")
		for _, code := range catalog.All.AllVpdCodes() {
			name := catalog.All.FindVpdName(code, 0, scsicmd.PDTAny)
			sink.KVStr("page", fmt.Sprintf("0x%02x %s", code, vpdLabel(name, code)))
		}
		sink.EndArr()
		return nil
	}

	sink.BeginArr("mode_pages")
	for _, id := range catalog.All.AllModePageIDs(transport, vendor) {
		name := catalog.All.FindModePageName(id.Page, id.Subpage, scsicmd.PDTAny, transport, vendor)
		sink.BeginObj(pageLabel(name, id.Page, id.Subpage))
		for _, f := range catalog.All.IterFieldsFor(id.Page, id.Subpage, scsicmd.PDTAny, transport, vendor) {
			if !cli.All && !f.Flags.Has(catalog.Common) {
				continue
			}
			desc := ""
			if cli.Long {
				desc = f.Description
			}
			sink.KVStr(f.Acronym, desc)
		}
		sink.EndObj()
	}
	sink.EndArr()
	return nil
}

func pageLabel(name *catalog.ModePageName, page, subpage uint8) string {
	if name != nil {
		return name.Name
	}
	if subpage == 0 {
		return fmt.Sprintf("mode page 0x%02x", page)
	}
	return fmt.Sprintf("mode page 0x%02x/0x%02x", page, subpage)
}

func vpdLabel(name *catalog.VpdPageName, code uint8) string {
	if name != nil {
		return name.Name
	}
	return fmt.Sprintf("VPD page 0x%02x", code)
}

// resolvePageArg parses --page=PG[,SUBPG]: PG is a decimal or 0x-prefixed
// hex page number, or a catalog acronym; SUBPG, when present, is always
// numeric.
func resolvePageArg(raw string, vpdMode bool, pdt scsicmd.PDT, transport scsicmd.Transport, vendor scsicmd.Vendor) (page, subpage uint8, err error) {
	pgPart := raw
	subStr := ""
	hasSub := false
	if idx := strings.IndexByte(raw, ','); idx >= 0 {
		pgPart = raw[:idx]
		subStr = raw[idx+1:]
		hasSub = true
	}

	if n, nerr := strconv.ParseUint(pgPart, 0, 8); nerr == nil {
		page = uint8(n)
		if hasSub {
			sn, serr := strconv.ParseUint(subStr, 0, 8)
			if serr != nil {
				return 0, 0, sdperr.New(sdperr.KindSyntax, "", fmt.Errorf("bad subpage %q", subStr))
			}
			subpage = uint8(sn)
		}
		return page, subpage, nil
	}

	if vpdMode {
		code, ok := catalog.All.FindVpdByAcronym(pgPart, pdt)
		if !ok {
			return 0, 0, sdperr.New(sdperr.KindNotFound, "", fmt.Errorf("unknown VPD page acronym %q", pgPart))
		}
		return code, 0, nil
	}

	mp, msp, ok := catalog.All.FindModePageByAcronym(pgPart, transport, vendor)
	if !ok {
		return 0, 0, sdperr.New(sdperr.KindNotFound, "", fmt.Errorf("unknown mode page acronym %q", pgPart))
	}
	if hasSub {
		sn, serr := strconv.ParseUint(subStr, 0, 8)
		if serr != nil {
			return 0, 0, sdperr.New(sdperr.KindSyntax, "", fmt.Errorf("bad subpage %q", subStr))
		}
		msp = uint8(sn)
	}
	return mp, msp, nil
}
