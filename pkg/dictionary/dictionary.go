// Package dictionary implements the hierarchical, vendor-aware RADIUS
// attribute schema: a Dictionary loaded from one or more dictionary files,
// built from nested Attribute/Vendor namespaces, resolving names to codes
// and back in O(1).
package dictionary

import (
	"github.com/nicholasamorim/radiusgo/pkg/bidict"
	"github.com/nicholasamorim/radiusgo/pkg/raddatatype"
)

// VendorSpecificName is the conventional name of the synthetic root
// attribute (code 26) under which all vendors' namespaces live.
const VendorSpecificName = "Vendor-Specific"

// VendorSpecificCode is the RADIUS wire code for Vendor-Specific (RFC 2865
// §5.26).
const VendorSpecificCode = 26

// Dictionary owns the root attribute namespace and the vendor bidict. All
// lookups are O(1). It is built once at startup and is safe to share,
// read-only, across goroutines once loading is complete.
type Dictionary struct {
	vendors     *bidict.BiDict[string, uint32]
	vendorsByID map[uint32]*Vendor
	top         *attrNamespace
}

// New returns an empty Dictionary with only the synthetic Vendor-Specific
// attribute and the null vendor ("" -> 0) registered.
func New() *Dictionary {
	d := &Dictionary{
		vendors:     bidict.New[string, uint32](),
		vendorsByID: make(map[uint32]*Vendor),
		top:         newAttrNamespace(),
	}
	d.vendors.Add("", 0)
	vsaType, _ := raddatatype.Lookup("vsa")
	vsa := newAttribute(VendorSpecificName, VendorSpecificCode, "vsa", vsaType)
	d.top.add(vsa)
	return d
}

// AttributeByName looks up a top-level attribute by name.
func (d *Dictionary) AttributeByName(name string) (*Attribute, bool) {
	a, ok := d.top.byName[name]
	return a, ok
}

// AttributeByCode looks up a top-level attribute by its wire code.
func (d *Dictionary) AttributeByCode(code int) (*Attribute, bool) {
	return d.top.byCode(code)
}

// VendorByName looks up a vendor by its dictionary name.
func (d *Dictionary) VendorByName(name string) (*Vendor, bool) {
	id, ok := d.vendors.Forward(name)
	if !ok {
		return nil, false
	}
	v, ok := d.vendorsByID[id]
	return v, ok
}

// VendorByID looks up a vendor by its SMI enterprise number.
func (d *Dictionary) VendorByID(id uint32) (*Vendor, bool) {
	v, ok := d.vendorsByID[id]
	return v, ok
}

// VendorAttribute resolves a (vendor ID, sub-code) compound key to the
// Attribute it names.
func (d *Dictionary) VendorAttribute(vendorID uint32, code int) (*Attribute, bool) {
	v, ok := d.VendorByID(vendorID)
	if !ok {
		return nil, false
	}
	return v.Attribute(code)
}
