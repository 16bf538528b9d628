package radius

// AVPKey is the sum-type key used by AttributeList: either a standard
// attribute's wire code (VendorID == 0) or a vendor sub-attribute's code
// within its vendor's namespace (VendorID != 0).
type AVPKey struct {
	Code     int
	VendorID uint32
}

// AttrValue is one stored value under an AVPKey. Exactly one of Raw or
// Children is populated: leaf attributes carry Raw (the decoded-to-wire
// bytes, tag byte included when the attribute has_tag); TLV/VSA containers
// carry Children, an ordered map from sub-code to the list of raw values
// received for that sub-code (fragments of a split container are merged
// back into this single map on decode).
type AttrValue struct {
	Raw      []byte
	Children map[int][][]byte
	// instances preserves the true insertion order of every child value
	// across all sub-codes, since Go maps have no iteration order and
	// Children groups values by sub-code. Splitting an oversized
	// container must walk this slice, not Children, or instances of
	// different sub-codes get reordered relative to each other.
	instances []childInstance
}

// childInstance is one (sub-code, value) pair in the order it was added.
type childInstance struct {
	Code int
	Raw  []byte
}

// AddChild appends a raw value under sub-code code, creating the child
// entry on first use and recording its position in the insertion order.
func (v *AttrValue) AddChild(code int, raw []byte) {
	if v.Children == nil {
		v.Children = make(map[int][][]byte)
	}
	v.Children[code] = append(v.Children[code], raw)
	v.instances = append(v.instances, childInstance{Code: code, Raw: raw})
}

// Instances returns every child (sub-code, value) pair in true insertion
// order, interleaving across sub-codes exactly as they were added.
func (v *AttrValue) Instances() []childInstance {
	return v.instances
}

// AttributeList is an insertion-ordered multimap from AVPKey to AttrValue.
// It underlies Packet's attribute storage and preserves the order tests
// assert on: repeated keys append to the existing value slice without
// moving the key's position.
type AttributeList struct {
	order  []AVPKey
	values map[AVPKey][]AttrValue
}

// NewAttributeList returns an empty AttributeList.
func NewAttributeList() *AttributeList {
	return &AttributeList{values: make(map[AVPKey][]AttrValue)}
}

// Order returns the distinct keys in first-seen insertion order.
func (l *AttributeList) Order() []AVPKey {
	return l.order
}

// Get returns all values stored under key, in insertion order.
func (l *AttributeList) Get(key AVPKey) ([]AttrValue, bool) {
	v, ok := l.values[key]
	return v, ok
}

// AddLeaf appends a leaf value instance under key.
func (l *AttributeList) AddLeaf(key AVPKey, raw []byte) {
	l.ensure(key)
	l.values[key] = append(l.values[key], AttrValue{Raw: raw})
}

// SetLeaf stores raw as the single value under key, overwriting any value(s)
// already present there in place. Unlike AddLeaf it does not append: it is
// used by attributes with upsert-once-per-packet semantics (e.g. a retry
// updating Acct-Delay-Time) where repeated calls must not accumulate
// duplicate AVPs on the wire.
func (l *AttributeList) SetLeaf(key AVPKey, raw []byte) {
	l.ensure(key)
	l.values[key] = []AttrValue{{Raw: raw}}
}

// Delete removes every value stored under key, including it from Order.
func (l *AttributeList) Delete(key AVPKey) {
	if _, ok := l.values[key]; !ok {
		return
	}
	delete(l.values, key)
	for i, k := range l.order {
		if k == key {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// ContainerFor returns the single merged container AttrValue for key,
// creating it if this is the first fragment seen for that key.
func (l *AttributeList) ContainerFor(key AVPKey) *AttrValue {
	l.ensure(key)
	vals := l.values[key]
	if len(vals) == 0 {
		vals = append(vals, AttrValue{})
		l.values[key] = vals
	}
	return &l.values[key][0]
}

func (l *AttributeList) ensure(key AVPKey) {
	if _, ok := l.values[key]; !ok {
		l.order = append(l.order, key)
		l.values[key] = nil
	}
}

// Len reports the number of distinct keys stored.
func (l *AttributeList) Len() int {
	return len(l.order)
}
