package vpd

import (
	"encoding/binary"
	"fmt"

	"github.com/sdparm-go/sdparm/internal/render"
)

// designatorAssociation names the ASSOCIATION field (byte1 bits 4-5) of
// a Device Identification descriptor.
func designatorAssociation(v uint8) string {
	switch v {
	case 0:
		return "logical unit"
	case 1:
		return "target port"
	case 2:
		return "target device"
	default:
		return "reserved"
	}
}

// designatorCodeSet names the CODE_SET field (byte0 bits 0-3).
func designatorCodeSet(v uint8) string {
	switch v {
	case 1:
		return "binary"
	case 2:
		return "ascii"
	case 3:
		return "utf-8"
	default:
		return "reserved"
	}
}

// designatorTypeName names the DESIGNATOR_TYPE field (byte1 bits 0-3).
func designatorTypeName(v uint8) string {
	switch v {
	case 0:
		return "vendor specific"
	case 1:
		return "t10 vendor id"
	case 2:
		return "eui-64"
	case 3:
		return "naa"
	case 4:
		return "relative target port"
	case 5:
		return "target port group"
	case 6:
		return "logical unit group"
	case 7:
		return "md5 logical unit id"
	case 8:
		return "scsi name string"
	case 9:
		return "protocol-specific port id"
	case 10:
		return "uuid"
	default:
		return "reserved"
	}
}

// decodeDeviceIdentification walks the Device Identification (0x83)
// descriptor list (spec §4.6): for each descriptor it emits
// association, designator_type, code_set, protocol_identifier (when
// PIV=1), and the decoded designator value.
func decodeDeviceIdentification(d *Decoder, sink render.Sink, buf []byte) {
	sink.BeginArr("designators")
	defer sink.EndArr()

	off := 4
	for off+4 <= len(buf) {
		codeSet := buf[off] & 0x0f
		piv := buf[off+1]&0x80 != 0
		assoc := (buf[off+1] >> 4) & 0x03
		dtype := buf[off+1] & 0x0f
		protoID := buf[off] >> 4
		dlen := int(buf[off+3])
		start := off + 4
		end := start + dlen
		if end > len(buf) {
			end = len(buf)
		}
		value := buf[start:end]

		sink.BeginObj("")
		sink.KVStr("association", designatorAssociation(assoc))
		sink.KVStr("designator_type", designatorTypeName(dtype))
		sink.KVStr("code_set", designatorCodeSet(codeSet))
		if piv {
			sink.KVInt("protocol_identifier", int64(protoID), true, "")
		}
		decodeDesignatorValue(sink, dtype, codeSet, value)
		sink.EndObj()

		off = end
	}
}

// decodeDesignatorValue renders one designator's payload according to
// its type (spec §4.6): T10 vendor id and SCSI name string as text,
// EUI-64/NAA/relative-target-port/target-port-group/logical-unit-group
// as structured fields, MD5 LUN id and protocol-specific port id as
// raw hex, UUID with RFC 4122 dash placement.
func decodeDesignatorValue(sink render.Sink, dtype, codeSet uint8, value []byte) {
	switch dtype {
	case 1: // t10 vendor id
		sink.KVStr("vendor_id", string(value))
	case 2: // eui-64
		decodeEUI64(sink, value)
	case 3: // naa
		decodeNAA(sink, value)
	case 4: // relative target port
		if len(value) >= 4 {
			sink.KVInt("relative_target_port_id", int64(binary.BigEndian.Uint16(value[2:4])), false, "")
		}
	case 5: // target port group
		if len(value) >= 4 {
			sink.KVInt("target_port_group", int64(binary.BigEndian.Uint16(value[2:4])), false, "")
		}
	case 6: // logical unit group
		if len(value) >= 4 {
			sink.KVInt("logical_unit_group", int64(binary.BigEndian.Uint16(value[2:4])), false, "")
		}
	case 7: // md5 logical unit id
		sink.KVHexBytes("md5_logical_unit_id", value)
	case 8: // scsi name string
		sink.KVStr("scsi_name_string", string(value))
	case 9: // protocol-specific port id
		sink.KVHexBytes("protocol_specific_port_id", value)
	case 10: // uuid
		sink.KVStr("uuid", formatUUID(value))
	default:
		if codeSet == 2 || codeSet == 3 {
			sink.KVStr("value", string(value))
		} else {
			sink.KVHexBytes("value", value)
		}
	}
}

// decodeEUI64 splits an 8/12/16-byte EUI-64 designator into its IEEE
// company id and the extension/vendor-specific remainder (spec §4.6's
// "EUI-64 (8/12/16 bytes)").
func decodeEUI64(sink render.Sink, value []byte) {
	if len(value) < 8 {
		sink.KVHexBytes("eui_64", value)
		return
	}
	sink.KVHexBytes("ieee_company_id", value[0:3])
	sink.KVHexBytes("vendor_specific_extension", value[3:8])
	if len(value) > 8 {
		sink.KVHexBytes("extension", value[8:])
	}
}

// decodeNAA decodes a Network Address Authority designator: the
// top nibble of the first byte selects flavour 2/3/5/6, each splitting
// company id / vendor-specific-identifier(-extension) differently
// (spec §4.6).
func decodeNAA(sink render.Sink, value []byte) {
	if len(value) < 1 {
		return
	}
	naaType := value[0] >> 4
	sink.KVInt("naa", int64(naaType), false, "")
	switch naaType {
	case 2: // IEEE Extended
		if len(value) >= 8 {
			sink.KVHexBytes("ieee_company_id", value[1:4])
			sink.KVHexBytes("vendor_specific_identifier", value[4:8])
		}
	case 3: // Locally Assigned
		sink.KVHexBytes("locally_assigned", value)
	case 5: // IEEE Registered
		if len(value) >= 8 {
			companyID := (uint32(value[0]&0x0f) << 20) | (uint32(value[1]) << 12) | (uint32(value[2]) << 4) | uint32(value[3]>>4)
			sink.KVInt("ieee_company_id", int64(companyID), true, "")
			vsi := uint64(value[3]&0x0f)<<32 | uint64(binary.BigEndian.Uint32(value[4:8]))
			sink.KVInt("vendor_specific_identifier", int64(vsi), true, "")
		}
	case 6: // IEEE Registered Extended
		if len(value) >= 16 {
			companyID := (uint32(value[0]&0x0f) << 20) | (uint32(value[1]) << 12) | (uint32(value[2]) << 4) | uint32(value[3]>>4)
			sink.KVInt("ieee_company_id", int64(companyID), true, "")
			vsi := uint64(value[3]&0x0f)<<32 | uint64(binary.BigEndian.Uint32(value[4:8]))
			sink.KVInt("vendor_specific_identifier", int64(vsi), true, "")
			sink.KVHexBytes("vendor_specific_identifier_extension", value[8:16])
		}
	default:
		sink.KVHexBytes("naa_value", value)
	}
}

// formatUUID renders a 16-byte binary UUID designator in RFC 4122
// dashed form (spec §4.6: "dashes inserted at bytes 4,6,8,10").
func formatUUID(value []byte) string {
	if len(value) < 16 {
		return fmt.Sprintf("% x", value)
	}
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		value[0:4], value[4:6], value[6:8], value[8:10], value[10:16])
}
