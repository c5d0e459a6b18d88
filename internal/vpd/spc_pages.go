package vpd

import "github.com/sdparm-go/sdparm/internal/render"

// decodeExtendedInquiryData decodes the Extended INQUIRY Data VPD page
// (0x86, SPC-5 table 600): protection-type support bits and a handful
// of command-priority/cache-sync capability flags.
func decodeExtendedInquiryData(d *Decoder, sink render.Sink, buf []byte) {
	if len(buf) < 8 {
		return
	}
	sink.KVInt("activate_microcode", int64(buf[4]>>6&0x03), false, "")
	sink.KVInt("spt", int64(buf[4]>>3&0x07), false, "")
	sink.KVInt("grd_chk", int64(buf[4]>>2&0x01), false, "")
	sink.KVInt("app_chk", int64(buf[4]>>1&0x01), false, "")
	sink.KVInt("ref_chk", int64(buf[4]&0x01), false, "")
	sink.KVInt("group_sup", int64(buf[5]>>4&0x01), false, "")
	sink.KVInt("prior_sup", int64(buf[5]>>3&0x01), false, "")
	sink.KVInt("headsup", int64(buf[5]>>2&0x01), false, "")
	sink.KVInt("ordsup", int64(buf[5]>>1&0x01), false, "")
	sink.KVInt("simpsup", int64(buf[5]&0x01), false, "")
	sink.KVInt("v_sup", int64(buf[6]&0x01), false, "")
	sink.KVInt("luiclr", int64(buf[7]&0x01), false, "")
	if len(buf) > 13 {
		sink.KVInt("maximum_supported_sense_data_length", int64(buf[13]), false, "")
	}
}

// decodeModePagePolicy decodes the Mode Page Policy VPD page (0x87,
// SPC-5 table 602): a repeating array of 4-byte descriptors naming
// which mode pages share a save/change policy across logical units.
func decodeModePagePolicy(d *Decoder, sink render.Sink, buf []byte) {
	sink.BeginArr("policies")
	defer sink.EndArr()
	for off := 4; off+4 <= len(buf); off += 4 {
		sink.BeginObj("")
		sink.KVInt("policy_page_code", int64(buf[off]&0x3f), true, "")
		sink.KVInt("policy_subpage_code", int64(buf[off+1]), true, "")
		sink.KVInt("mlus", int64(buf[off+2]>>7&0x01), false, "")
		sink.KVInt("mode_page_policy", int64(buf[off+2]&0x03), false, "")
		sink.EndObj()
	}
}

// decodeSCSIPorts decodes the SCSI Ports VPD page (0x88, SPC-5 table
// 608): a repeating array of per-port descriptors naming the relative
// target port identifier, plus that port's own initiator/target
// transport-id and designator lists, which this decoder leaves as hex
// dumps instead of re-parsing the nested Device Identification
// designator format.
func decodeSCSIPorts(d *Decoder, sink render.Sink, buf []byte) {
	sink.BeginArr("ports")
	defer sink.EndArr()
	off := 4
	for off+12 <= len(buf) {
		relPort := be16(buf, off+2)
		itLen := int(be16(buf, off+6))
		itStart := off + 8
		itEnd := itStart + itLen
		if itEnd > len(buf) {
			itEnd = len(buf)
		}
		tpdOff := itEnd + 2
		tpdLen := int(be16(buf, tpdOff))
		tpdStart := tpdOff + 2
		tpdEnd := tpdStart + tpdLen
		if tpdEnd > len(buf) || tpdEnd < tpdStart {
			tpdEnd = len(buf)
		}

		sink.BeginObj("")
		sink.KVInt("relative_target_port_identifier", int64(relPort), false, "")
		if itEnd > itStart {
			sink.KVHexBytes("initiator_port_transport_id", buf[itStart:itEnd])
		}
		if tpdEnd > tpdStart {
			sink.KVHexBytes("target_port_descriptors", buf[tpdStart:tpdEnd])
		}
		sink.EndObj()

		if tpdEnd <= off {
			break
		}
		off = tpdEnd
	}
}
