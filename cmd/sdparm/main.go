// Command sdparm inspects and modifies SCSI mode pages and decodes VPD
// pages over a raw device node, the way cmd/tcgdiskstat/main.go and
// cmd/gosedctl/main.go wire a flat alecthomas/kong flag struct straight
// into one run function rather than a tree of kong subcommands.
package main

import (
	"log"
	"os"

	"github.com/alecthomas/kong"

	"github.com/sdparm-go/sdparm/pkg/cmdutil"
)

const (
	programName = "sdparm"
	programDesc = "inspect and modify SCSI mode pages, decode VPD pages"
)

// CLI is sdparm's flat flag surface: one struct, no subcommands, mirroring
// spec §6's option table.
type CLI struct {
	SixByte   bool   `short:"6" optional:"" help:"use 6-byte CDBs (default is 10-byte)"`
	All       bool   `short:"a" optional:"" help:"list all fields, not only the common ones"`
	Clear     string `short:"c" optional:"" help:"clear listed fields to 0"`
	Command   string `short:"C" optional:"" help:"issue a named command (not implemented in this build)"`
	Defaults  bool   `short:"d" optional:"" help:"restore default values, per page or for the whole device"`
	Dbd       bool   `short:"D" optional:"" help:"ask the device to suppress block descriptors"`
	Enumerate bool   `short:"e" optional:"" help:"enumerate catalog entries, no device I/O"`
	Examine   bool   `short:"E" optional:"" help:"probe every known mode page for presence"`
	Flexible  bool   `short:"f" optional:"" help:"demote malformed/oversized page conditions to warnings"`
	Get       string `short:"g" optional:"" help:"read listed fields"`
	Hex       int    `short:"H" type:"counter" help:"print each page control's raw bytes in hex alongside the decoded fields (repeatable)"`
	Inquiry   bool   `short:"i" optional:"" help:"operate on VPD pages instead of mode pages"`
	Inhex     string `short:"I" optional:"" type:"accessiblefile" help:"replay a hex-dump file instead of issuing device I/O"`
	JSON      bool   `short:"j" optional:"" help:"render structured JSON instead of text"`
	Long      bool   `short:"l" optional:"" help:"include field descriptions in the output"`
	NumDesc   bool   `short:"n" optional:"" help:"print the descriptor count instead of descriptor fields"`
	Page      string `short:"p" optional:"" help:"address a page by acronym or PG[,SUBPG]"`
	Quiet     bool   `short:"q" optional:"" help:"compact output, omit headings and descriptions"`
	Readonly  bool   `short:"r" optional:"" help:"open the device read-only, forbidding MODE SELECT"`
	Set       string `short:"s" optional:"" help:"set listed fields"`
	Save      bool   `short:"S" optional:"" help:"persist the change via MODE SELECT's save bit"`
	Transport string `short:"t" optional:"" help:"transport-specific namespace selector (fc, sas, ata, ...)"`
	Vendor    string `short:"V" optional:"" help:"vendor-specific namespace selector (sea, ...)"`
	Verbose   bool   `short:"v" optional:"" help:"raise the diagnostic level: dump device identity, field requests and MODE SELECT/inhex buffers (CDBs and sense data are not dumped)"`

	Dummy       bool `optional:"" help:"stop short of MODE SELECT, hex-dump the buffer that would have been written"`
	OpenMetrics bool `optional:"" help:"render PageIO's per-CDB-variant outcome counters as openmetrics text"`

	Devices []string `arg:"" optional:"" help:"device nodes to operate on, e.g. /dev/sg0"`
}

var cli CLI

func main() {
	kong.Parse(&cli,
		kong.Name(programName),
		kong.Description(programDesc),
		kong.UsageOnError(),
		kong.NamedMapper("accessiblefile", cmdutil.AccessibleFileMapper()))

	log.SetFlags(0)
	code := Run(&cli, os.Stdout, os.Stderr)
	os.Exit(code)
}
