// Package sgio issues SCSI CDBs via the Linux SG_IO pass-through ioctl and
// classifies the result (spec §4.4 PageIO). The ioctl plumbing
// (sgIoHdr layout, execGenericIO) is adapted from
// github.com/open-source-firmware/go-tcg-storage's pkg/drive/sgio, which
// already solves the CDB/sense-buffer/SG_IO wiring for this same
// ioctl.Ioctl helper; this package generalizes it to also cover MODE
// SENSE/SELECT and INQUIRY rather than just security-protocol/ATA
// passthrough.
package sgio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unsafe"

	"github.com/dswarbrick/smart/ioctl"
)

// CDBDirection is the data transfer direction for a CDB, matching the
// sg.h dxfer_direction values.
type CDBDirection int32

const (
	CDBToDevice     CDBDirection = -2
	CDBFromDevice   CDBDirection = -3
	CDBToFromDevice CDBDirection = -4
)

const (
	sgInfoOKMask = 0x1
	sgInfoOK     = 0x0
	sgIO         = 0x2285

	defaultTimeoutMS = 60000

	driverSense = 0x8
)

var nativeEndian binary.ByteOrder

func init() {
	i := uint32(1)
	b := (*[4]byte)(unsafe.Pointer(&i))
	if b[0] == 1 {
		nativeEndian = binary.LittleEndian
	} else {
		nativeEndian = binary.BigEndian
	}
}

// sgIoHdr mirrors sg_io_hdr_t from <scsi/sg.h>.
type sgIoHdr struct {
	interfaceID    int32
	dxferDirection CDBDirection
	cmdLen         uint8
	mxSbLen        uint8
	iovecCount     uint16
	dxferLen       uint32
	dxferp         uintptr
	cmdp           uintptr
	sbp            uintptr
	timeout        uint32
	flags          uint32
	packID         int32
	usrPtr         uintptr
	status         uint8
	maskedStatus   uint8
	msgStatus      uint8
	sbLenWr        uint8
	hostStatus     uint16
	driverStatus   uint16
	resid          int32
	duration       uint32
	info           uint32
}

// Result carries the outcome classification plus the decoded sense data,
// for callers that need the ASC/ASCQ string (spec §4.5.6).
type Result struct {
	Outcome Outcome
	Sense   Sense
	Err     error
	// Resid is dxfer_len - actual_transferred, per spec §4.4 residual
	// semantics.
	Resid int32
}

// CDBRunner is the seam between sgio.Transport and the actual SG_IO
// ioctl, so ModeEngine/PageIO tests can replay canned CDB responses
// without a real device (spec §8 scenario 6) — the same role
// drive.DriveIntf plays for the teacher's TCG code.
type CDBRunner interface {
	RunCDB(cdb []byte, dir CDBDirection, buf *[]byte) Result
}

// FdRunner implements CDBRunner over a real SG_IO-capable file descriptor.
type FdRunner struct {
	Fd uintptr
}

func (r FdRunner) RunCDB(cdb []byte, dir CDBDirection, buf *[]byte) Result {
	if len(cdb) == 0 {
		return Result{Outcome: OutcomeOther, Err: errEmptyCDB}
	}
	senseBuf := make([]byte, 32)
	var dxferp uintptr
	var dxferLen uint32
	if buf != nil && len(*buf) > 0 {
		dxferp = uintptr(unsafe.Pointer(&(*buf)[0]))
		dxferLen = uint32(len(*buf))
	}

	hdr := sgIoHdr{
		interfaceID:    'S',
		dxferDirection: dir,
		timeout:        defaultTimeoutMS,
		cmdLen:         uint8(len(cdb)),
		mxSbLen:        uint8(len(senseBuf)),
		dxferLen:       dxferLen,
		dxferp:         dxferp,
		cmdp:           uintptr(unsafe.Pointer(&cdb[0])),
		sbp:            uintptr(unsafe.Pointer(&senseBuf[0])),
	}

	if err := ioctl.Ioctl(r.Fd, sgIO, uintptr(unsafe.Pointer(&hdr))); err != nil {
		return Result{Outcome: OutcomeOther, Err: err}
	}

	if hdr.info&sgInfoOKMask == sgInfoOK {
		return Result{Outcome: OutcomeOK, Resid: hdr.resid}
	}

	if hdr.driverStatus == driverSense {
		s := ParseSense(senseBuf)
		return Result{Outcome: classify(s), Sense: s, Resid: hdr.resid}
	}

	return Result{
		Outcome: OutcomeOther,
		Err: fmt.Errorf("SCSI status: %#02x, host status: %#02x, driver status: %#02x",
			hdr.status, hdr.hostStatus, hdr.driverStatus),
	}
}

var errEmptyCDB = errors.New("sgio: empty CDB")
