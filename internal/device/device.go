// Package device opens a SCSI device node and probes its peripheral
// device type and vendor/product identity, the way pkg/drive/drive.go
// and drive_nix.go open and classify a /dev/sg* or /dev/sd* node before
// handing it to the TCG session layer — here the hand-off is to
// internal/sgio.Transport instead of the TCG security-protocol layer.
package device

import (
	"fmt"
	"os"
	"strings"

	"github.com/sdparm-go/sdparm/internal/scsicmd"
	"github.com/sdparm-go/sdparm/internal/sgio"
)

// ErrNotSCSI is returned by Open when the device node answers standard
// INQUIRY with something that doesn't look like a SCSI peripheral.
var ErrNotSCSI = fmt.Errorf("device: not a SCSI device")

// Identity is the subset of standard INQUIRY data the catalog/render
// layers need: PDT for field/page filtering, vendor for the vendor
// overlay, and the display strings for --verbose/text output.
type Identity struct {
	PDT       scsicmd.PDT
	Vendor    scsicmd.Vendor
	VendorID  string
	ProductID string
	Revision  string
}

// Handle is an open device node plus its probed Identity and PageIO
// transport. Analogous to pkg/drive.scsiDrive, but holds the sgio
// Transport directly rather than going through a DriveIntf facade,
// since sdparm only ever needs MODE SENSE/SELECT and INQUIRY.
type Handle struct {
	Path     string
	Identity Identity
	PageIO   *sgio.Transport

	f *os.File
}

// Open opens path read-write, issues a standard INQUIRY, and classifies
// the result. It returns ErrNotSCSI if the INQUIRY does not complete
// successfully or returns fewer than 36 bytes; the peripheral qualifier
// is not examined.
func Open(path string) (*Handle, error) {
	return open(path, os.O_RDWR)
}

// OpenReadOnly is Open, but opens path O_RDONLY (spec §6's
// `-r/--readonly`: forbid write ops by construction rather than by a
// runtime check before every MODE SELECT).
func OpenReadOnly(path string) (*Handle, error) {
	return open(path, os.O_RDONLY)
}

func open(path string, flag int) (*Handle, error) {
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("device: open %s: %w", path, err)
	}

	pio := sgio.NewTransport(sgio.FdRunner{Fd: f.Fd()})
	data, outcome := pio.InquiryStandard(96)
	if outcome != sgio.OutcomeOK || len(data) < 36 {
		f.Close()
		return nil, ErrNotSCSI
	}

	id := parseStandardInquiry(data)
	return &Handle{Path: path, Identity: id, PageIO: pio, f: f}, nil
}

// Close releases the underlying file descriptor.
func (h *Handle) Close() error {
	return h.f.Close()
}

func parseStandardInquiry(data []byte) Identity {
	pdt := scsicmd.PDT(data[0] & 0x1f)
	vendorID := strings.TrimSpace(string(data[8:16]))
	productID := strings.TrimSpace(string(data[16:32]))
	rev := strings.TrimSpace(string(data[32:36]))

	vendor := scsicmd.VendorAny
	if strings.EqualFold(vendorID, "SEAGATE") {
		vendor = scsicmd.VendorSeagate
	}

	return Identity{
		PDT:       pdt,
		Vendor:    vendor,
		VendorID:  vendorID,
		ProductID: productID,
		Revision:  rev,
	}
}

// String renders "VENDOR PRODUCT REV (pdt=0xNN)", the one-line identity
// summary the Driver prints ahead of each device's output in a
// multi-device batch.
func (id Identity) String() string {
	return fmt.Sprintf("%s %s %s (pdt=0x%02x)", id.VendorID, id.ProductID, id.Revision, id.PDT)
}
