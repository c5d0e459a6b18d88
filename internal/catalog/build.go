package catalog

import "github.com/sdparm-go/sdparm/internal/scsicmd"

// Catalog is an immutable, indexed view over the field and page-name
// tables. The zero value is not usable; construct with build().
type Catalog struct {
	fields    []FieldDescriptor
	pageNames []ModePageName
	vpdNames  []VpdPageName

	// byAcronym precomputes acronym -> candidate fields, per Design
	// Notes §9 ("precompute a map acronym -> [FieldDescriptor]").
	byAcronym map[string][]*FieldDescriptor
}

func build(fields []FieldDescriptor, pageNames []ModePageName, vpdNames []VpdPageName) *Catalog {
	c := &Catalog{
		fields:    fields,
		pageNames: pageNames,
		vpdNames:  vpdNames,
		byAcronym: make(map[string][]*FieldDescriptor),
	}
	for i := range c.fields {
		f := &c.fields[i]
		c.byAcronym[f.Acronym] = append(c.byAcronym[f.Acronym], f)
	}
	return c
}

// All is the process-wide catalog instance, assembled from the generic,
// transport, and vendor field tables plus the mode/VPD name tables.
var All = build(allFields(), allModePageNames(), allVpdPageNames())

func allFields() []FieldDescriptor {
	var out []FieldDescriptor
	out = append(out, genericFields...)
	out = append(out, transportFields...)
	out = append(out, vendorFields...)
	return out
}

func allModePageNames() []ModePageName {
	var out []ModePageName
	out = append(out, genericModePageNames...)
	out = append(out, transportModePageNames...)
	return out
}

func allVpdPageNames() []VpdPageName {
	return vpdPageNames
}

// FindModePageName resolves a (page, subpage) to its display name and
// descriptor layout, scoped to the requesting pdt/transport/vendor. PDT
// match is "equals, or the entry declares no PDT restriction (any)".
func (c *Catalog) FindModePageName(page, subpage uint8, pdt scsicmd.PDT, transport scsicmd.Transport, vendor scsicmd.Vendor) *ModePageName {
	// Prefer the most specific match: vendor, then transport, then generic.
	var generic, byTransport, byVendor *ModePageName
	for i := range c.pageNames {
		n := &c.pageNames[i]
		if n.PageCode != page || n.SubpageCode != subpage || !n.AppliesToPDT(pdt) {
			continue
		}
		switch {
		case n.Vendor != scsicmd.VendorAny:
			if n.Vendor == vendor {
				byVendor = n
			}
		case n.Transport != scsicmd.TransportAny:
			if n.Transport == transport {
				byTransport = n
			}
		default:
			generic = n
		}
	}
	if byVendor != nil {
		return byVendor
	}
	if byTransport != nil {
		return byTransport
	}
	return generic
}

// FindVpdName resolves a VPD page code/subvalue to its display name,
// scoped to pdt.
func (c *Catalog) FindVpdName(code, subvalue uint8, pdt scsicmd.PDT) *VpdPageName {
	var generic, specific *VpdPageName
	for i := range c.vpdNames {
		n := &c.vpdNames[i]
		if n.Code != code || n.Subvalue != subvalue {
			continue
		}
		if !n.AppliesToPDT(pdt) {
			continue
		}
		if len(n.PDTs) == 0 {
			generic = n
		} else {
			specific = n
		}
	}
	if specific != nil {
		return specific
	}
	return generic
}

// FindFieldsByAcronym returns every catalog entry registered under acron,
// across all pages — callers filter by (page, subpage) as needed (spec
// §4.2 "caller filters by required (page, subpage)").
func (c *Catalog) FindFieldsByAcronym(acron string, transport scsicmd.Transport, vendor scsicmd.Vendor) []*FieldDescriptor {
	candidates := c.byAcronym[acron]
	var out []*FieldDescriptor
	for _, f := range candidates {
		if f.Transport != scsicmd.TransportAny && f.Transport != transport {
			continue
		}
		if f.Vendor != scsicmd.VendorAny && f.Vendor != vendor {
			continue
		}
		out = append(out, f)
	}
	return out
}

// IterFieldsFor returns every field defined for (page, subpage), scoped to
// pdt/transport/vendor, in catalog declaration order.
func (c *Catalog) IterFieldsFor(page, subpage uint8, pdt scsicmd.PDT, transport scsicmd.Transport, vendor scsicmd.Vendor) []*FieldDescriptor {
	var out []*FieldDescriptor
	for i := range c.fields {
		f := &c.fields[i]
		if f.PageCode != page || f.SubpageCode != subpage {
			continue
		}
		if !f.AppliesToPDT(pdt) {
			continue
		}
		if f.Transport != scsicmd.TransportAny && f.Transport != transport {
			continue
		}
		if f.Vendor != scsicmd.VendorAny && f.Vendor != vendor {
			continue
		}
		out = append(out, f)
	}
	return out
}

// DecayPDT re-exports scsicmd.DecayPDT for callers that only import catalog.
func DecayPDT(pdt scsicmd.PDT) scsicmd.PDT { return scsicmd.DecayPDT(pdt) }

// PageID names one (page, subpage) pair drawn from the name tables,
// mirroring modeengine.PageID's shape for callers (the Driver's
// --enumerate/--examine paths) that need the catalog's static list
// rather than a live MODE SENSE discovery walk.
type PageID struct {
	Page    uint8
	Subpage uint8
}

// AllModePageIDs returns every distinct (page, subpage) the mode-page
// name table registers, scoped to transport/vendor, in declaration
// order with duplicates (the same pair named generically and again for
// a transport/vendor overlay) collapsed.
func (c *Catalog) AllModePageIDs(transport scsicmd.Transport, vendor scsicmd.Vendor) []PageID {
	var out []PageID
	seen := make(map[PageID]bool)
	for i := range c.pageNames {
		n := &c.pageNames[i]
		if n.Transport != scsicmd.TransportAny && n.Transport != transport {
			continue
		}
		if n.Vendor != scsicmd.VendorAny && n.Vendor != vendor {
			continue
		}
		id := PageID{Page: n.PageCode, Subpage: n.SubpageCode}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// AllVpdCodes returns every distinct VPD page code the name table
// registers, in declaration order with duplicates collapsed.
func (c *Catalog) AllVpdCodes() []uint8 {
	var out []uint8
	seen := make(map[uint8]bool)
	for i := range c.vpdNames {
		code := c.vpdNames[i].Code
		if seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return out
}

// FindVpdByAcronym resolves a `--page=` acronym to a VPD page code,
// scoped to pdt the same way FindVpdName disambiguates PDT-dependent
// codes (0xB0-0xBA share an acronym namespace split only by PDT).
func (c *Catalog) FindVpdByAcronym(acron string, pdt scsicmd.PDT) (code uint8, ok bool) {
	for i := range c.vpdNames {
		n := &c.vpdNames[i]
		if n.Acronym != acron || !n.AppliesToPDT(pdt) {
			continue
		}
		return n.Code, true
	}
	return 0, false
}

// FindModePageByAcronym resolves --page=PG's acronym form to a
// (page, subpage) pair, scoped to transport/vendor the same way
// FindFieldsByAcronym is. Returns ok=false when no page name registers
// that acronym.
func (c *Catalog) FindModePageByAcronym(acron string, transport scsicmd.Transport, vendor scsicmd.Vendor) (page, subpage uint8, ok bool) {
	for i := range c.pageNames {
		n := &c.pageNames[i]
		if n.Acronym != acron {
			continue
		}
		if n.Transport != scsicmd.TransportAny && n.Transport != transport {
			continue
		}
		if n.Vendor != scsicmd.VendorAny && n.Vendor != vendor {
			continue
		}
		return n.PageCode, n.SubpageCode, true
	}
	return 0, 0, false
}
