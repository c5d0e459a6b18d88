package vpd

import (
	"encoding/binary"

	"github.com/sdparm-go/sdparm/internal/render"
	"github.com/sdparm-go/sdparm/internal/scsicmd"
)

// isBlockPDT reports whether pdt is a disk-like peripheral device type
// (spec §4.2's decay_pdt target), the only PDT class for which 0xB0,
// 0xB1, and 0xB4 mean Block Limits / Block Device Characteristics /
// Supported Block Lengths — the same code names unrelated tape/medium-
// changer/OSD pages at other PDTs (internal/catalog/vpd_names.go).
func isBlockPDT(pdt scsicmd.PDT) bool {
	decayed := scsicmd.DecayPDT(pdt)
	return decayed == scsicmd.PDTDisk || pdt == scsicmd.PDTZBC
}

// be32 reads a big-endian uint32 at off, returning 0 if buf is too short.
func be32(buf []byte, off int) uint32 {
	if off < 0 || off+4 > len(buf) {
		return 0
	}
	return binary.BigEndian.Uint32(buf[off : off+4])
}

func be16(buf []byte, off int) uint16 {
	if off < 0 || off+2 > len(buf) {
		return 0
	}
	return binary.BigEndian.Uint16(buf[off : off+2])
}

// decodeBlockLimits decodes the Block Limits VPD page (0xB0, SBC-4
// table 211): fixed-offset 32/64-bit counters describing the device's
// preferred and maximum transfer/unmap/write-same/atomic-write sizes.
func decodeBlockLimits(d *Decoder, sink render.Sink, buf []byte) {
	if !isBlockPDT(d.PDT) {
		decodeGeneric(d, sink, buf)
		return
	}
	if len(buf) <= 4 {
		return
	}
	get32 := func(off int) int64 { return int64(be32(buf, off)) }
	sink.KVInt("wsnz", int64(buf[4]&0x01), false, "")
	if len(buf) > 5 {
		sink.KVInt("max_compare_and_write_length", int64(buf[5]), false, "")
	}
	sink.KVInt("optimal_transfer_length_granularity", int64(be16(buf, 6)), false, "")
	sink.KVInt("maximum_transfer_length", get32(8), false, "")
	sink.KVInt("optimal_transfer_length", get32(12), false, "")
	sink.KVInt("maximum_prefetch_length", get32(16), false, "")
	sink.KVInt("maximum_unmap_lba_count", get32(20), false, "")
	sink.KVInt("maximum_unmap_block_descriptor_count", get32(24), false, "")
	sink.KVInt("optimal_unmap_granularity", get32(28), false, "")
	alignRaw := be32(buf, 32)
	sink.KVInt("unmap_granularity_alignment", int64(alignRaw&0x7fffffff), false, "")
	sink.KVInt("ugavalid", int64(alignRaw>>31), false, "")
	if len(buf) >= 44 {
		sink.KVInt("maximum_write_same_length", int64(binary.BigEndian.Uint64(buf[36:44])), true, "")
	}
	sink.KVInt("maximum_atomic_transfer_length", get32(44), false, "")
	sink.KVInt("atomic_alignment", get32(48), false, "")
	sink.KVInt("atomic_transfer_length_granularity", get32(52), false, "")
	sink.KVInt("maximum_atomic_transfer_length_with_atomic_boundary", get32(56), false, "")
	sink.KVInt("maximum_atomic_boundary_size", get32(60), false, "")
}

// decodeBlockDeviceCharacteristics decodes the Block Device
// Characteristics VPD page (0xB1, SBC-4 table 214): rotation rate,
// product type, and form-factor/write-cache hints.
func decodeBlockDeviceCharacteristics(d *Decoder, sink render.Sink, buf []byte) {
	if !isBlockPDT(d.PDT) {
		decodeGeneric(d, sink, buf)
		return
	}
	if len(buf) < 8 {
		return
	}
	rate := be16(buf, 4)
	switch rate {
	case 0x0000:
		sink.KVStr("medium_rotation_rate", "not reported")
	case 0x0001:
		sink.KVStr("medium_rotation_rate", "non-rotating (solid state)")
	default:
		sink.KVInt("medium_rotation_rate_rpm", int64(rate), false, "")
	}
	sink.KVInt("product_type", int64(buf[6]), true, "")
	sink.KVInt("wabereq", int64(buf[7]>>6&0x03), false, "")
	sink.KVInt("wacereq", int64(buf[7]>>4&0x03), false, "")
	sink.KVInt("nominal_form_factor", int64(buf[7]&0x0f), false, "")
	if len(buf) > 8 {
		sink.KVInt("fuab", int64(buf[8]>>1&0x01), false, "")
		sink.KVInt("vbuls", int64(buf[8]&0x01), false, "")
	}
}

// decodeSupportedBlockLengths decodes the Supported Block Lengths and
// Protection Types VPD page (0xB4, SBC-4 table 222): a repeating array
// of 8-byte descriptors, one per logical block length the device can be
// formatted to, each naming which protection types it supports there.
func decodeSupportedBlockLengths(d *Decoder, sink render.Sink, buf []byte) {
	if !isBlockPDT(d.PDT) {
		decodeGeneric(d, sink, buf)
		return
	}
	sink.BeginArr("supported_block_lengths")
	defer sink.EndArr()
	for off := 4; off+8 <= len(buf); off += 8 {
		sink.BeginObj("")
		sink.KVInt("logical_block_length", int64(be32(buf, off)), false, "")
		p := buf[off+4]
		sink.KVInt("p_i_i_sup", int64(p>>6&0x01), false, "")
		sink.KVInt("no_pi_chk", int64(p>>3&0x01), false, "")
		sink.KVInt("grd_chk", int64(p>>2&0x01), false, "")
		sink.KVInt("app_chk", int64(p>>1&0x01), false, "")
		sink.KVInt("ref_chk", int64(p&0x01), false, "")
		t := buf[off+5]
		sink.KVInt("t3ps", int64(t>>3&0x01), false, "")
		sink.KVInt("t2ps", int64(t>>2&0x01), false, "")
		sink.KVInt("t1ps", int64(t>>1&0x01), false, "")
		sink.KVInt("t0ps", int64(t&0x01), false, "")
		sink.EndObj()
	}
}

// decodeATAInformation decodes the ATA Information VPD page (0x89,
// SAT-5 table 133): the SATL's own vendor/product/revision identity
// strings, followed by the raw 20-byte device signature, the command
// code, and the IDENTIFY (PACKET) DEVICE data block, which this decoder
// leaves as a hex dump rather than parsing ATA word-by-word.
func decodeATAInformation(d *Decoder, sink render.Sink, buf []byte) {
	if len(buf) < 56 {
		return
	}
	sink.KVStr("sat_vendor_identification", trimASCII(buf[8:16]))
	sink.KVStr("sat_product_identification", trimASCII(buf[16:32]))
	sink.KVStr("sat_product_revision_level", trimASCII(buf[32:36]))
	if len(buf) >= 56 {
		sink.KVHexBytes("device_signature", buf[36:56])
	}
	if len(buf) >= 57 {
		sink.KVInt("command_code", int64(buf[56]), true, "")
	}
	if len(buf) > 60 {
		sink.KVHexBytes("ata_identify_device_data", buf[60:])
	}
}

func trimASCII(b []byte) string {
	i := len(b)
	for i > 0 && (b[i-1] == ' ' || b[i-1] == 0) {
		i--
	}
	return string(b[:i])
}
