package dictionary

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nicholasamorim/radiusgo/pkg/raddatatype"
)

// parseState carries per-file parsing context across load calls.
type parseState struct {
	file   string
	line   int
	vendor string
	// stack holds the namespace chain: index 0 is always the dictionary's
	// top-level namespace and BEGIN-VENDOR pushes a vendor namespace. A
	// dotted ATTRIBUTE code does not push: the child is added directly to
	// the parent TLV found in the current namespace.
	stack []*attrNamespace
}

func (d *Dictionary) newParseState(file string) *parseState {
	return &parseState{
		file:   file,
		vendor: "",
		stack:  []*attrNamespace{d.top},
	}
}

func (s *parseState) top() *attrNamespace { return s.stack[len(s.stack)-1] }

func (s *parseState) push(ns *attrNamespace) {
	s.stack = append(s.stack, ns)
}

func (s *parseState) pop() {
	s.stack = s.stack[:len(s.stack)-1]
}

// LoadFile reads a dictionary file from disk, following $INCLUDE directives
// relative to the including file's directory.
func (d *Dictionary) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return d.load(f, path)
}

// LoadReader reads a dictionary from an already-open reader. filename is
// used only for error messages and for resolving relative $INCLUDE paths
// (which are resolved relative to the current working directory when the
// source is not a real file).
func (d *Dictionary) LoadReader(r io.Reader, filename string) error {
	return d.load(r, filename)
}

type pendingValue struct {
	file  string
	line  int
	attr  string
	key   string
	value string
}

func (d *Dictionary) load(r io.Reader, filename string) error {
	st := d.newParseState(filename)
	var deferred []pendingValue

	if err := d.readLines(r, filename, st, &deferred); err != nil {
		return err
	}

	for _, pv := range deferred {
		if err := d.parseValue(st, pv.file, pv.line, []string{"VALUE", pv.attr, pv.key, pv.value}, false); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dictionary) readLines(r io.Reader, filename string, st *parseState, deferred *[]pendingValue) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		if idx := strings.IndexByte(raw, '#'); idx >= 0 {
			raw = raw[:idx]
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		tokens := strings.Fields(raw)
		key := strings.ToUpper(tokens[0])

		if key == "$INCLUDE" {
			if len(tokens) != 2 {
				return newParseError(filename, lineNo, "incorrect number of tokens for $INCLUDE")
			}
			incPath := tokens[1]
			if !filepath.IsAbs(incPath) {
				incPath = filepath.Join(filepath.Dir(filename), incPath)
			}
			if err := d.LoadFile(incPath); err != nil {
				return err
			}
			continue
		}

		var err error
		switch key {
		case "ATTRIBUTE":
			err = d.parseAttribute(st, filename, lineNo, tokens)
		case "VALUE":
			err = d.parseValue(st, filename, lineNo, tokens, true)
			if dv, ok := err.(*deferSignal); ok {
				*deferred = append(*deferred, pendingValue{file: filename, line: lineNo, attr: dv.attr, key: dv.key, value: dv.value})
				err = nil
			}
		case "VENDOR":
			err = d.parseVendor(st, filename, lineNo, tokens)
		case "BEGIN-VENDOR":
			err = d.parseBeginVendor(st, filename, lineNo, tokens)
		case "END-VENDOR":
			err = d.parseEndVendor(st, filename, lineNo, tokens)
		}
		if err != nil {
			return err
		}
	}
	return scanner.Err()
}

// deferSignal is used internally to bubble a "retry this VALUE line after
// the whole file is read" signal out of parseValue without adding a second
// return value to every call site.
type deferSignal struct {
	attr, key, value string
}

func (d *deferSignal) Error() string { return "deferred value parse" }

func parseCode(s string) (int64, error) {
	switch {
	case strings.HasPrefix(s, "0x"):
		return strconv.ParseInt(s[2:], 16, 64)
	case strings.HasPrefix(s, "0o"):
		return strconv.ParseInt(s[2:], 8, 64)
	default:
		return strconv.ParseInt(s, 10, 64)
	}
}

func (d *Dictionary) parseAttribute(st *parseState, file string, line int, tokens []string) error {
	if len(tokens) != 4 && len(tokens) != 5 {
		return newParseError(file, line, "incorrect number of tokens for attribute definition")
	}

	vendor := st.vendor
	inlineVendor := false
	hasTag := false
	encrypt := 0

	if len(tokens) == 5 {
		for _, opt := range strings.Split(tokens[4], ",") {
			kv := strings.SplitN(opt, "=", 2)
			k := kv[0]
			var v string
			if len(kv) == 2 {
				v = kv[1]
			}
			switch k {
			case "has_tag":
				hasTag = true
			case "encrypt":
				switch v {
				case "1", "2", "3":
					n, _ := strconv.Atoi(v)
					encrypt = n
				default:
					return newParseError(file, line, "illegal attribute encryption: %s", v)
				}
			}
		}
		if !hasTag && encrypt == 0 && tokens[4] != "concat" {
			vendor = tokens[4]
			inlineVendor = true
			if _, ok := d.vendors.Forward(vendor); !ok {
				return newParseError(file, line, "unknown vendor %s", vendor)
			}
		}
	}

	name, codeStr, typeTok := tokens[1], tokens[2], tokens[3]
	codeParts := strings.Split(codeStr, ".")
	if len(codeParts) > 2 {
		return newParseError(file, line, "nested tlvs are not supported")
	}

	var code int
	var parent *Attribute
	if len(codeParts) == 2 {
		parentCode, err := parseCode(codeParts[0])
		if err != nil {
			return newParseError(file, line, "invalid parent code %s", codeParts[0])
		}
		childCode, err := parseCode(codeParts[1])
		if err != nil {
			return newParseError(file, line, "invalid code %s", codeParts[1])
		}
		code = int(childCode)
		parent, _ = st.top().byCode(int(parentCode))
		if parent == nil {
			return newParseError(file, line, "unknown parent attribute code %d", parentCode)
		}
	} else {
		n, err := parseCode(codeParts[0])
		if err != nil {
			return newParseError(file, line, "invalid code %s", codeParts[0])
		}
		code = int(n)
	}

	typeName := strings.SplitN(typeTok, "[", 2)[0]
	dt, ok := raddatatype.Lookup(typeName)
	if !ok {
		return newParseError(file, line, "illegal type: %s", typeName)
	}

	attr := newAttribute(name, code, typeName, dt)
	attr.Encrypt = encrypt
	attr.HasTag = hasTag

	switch {
	case inlineVendor:
		v, ok := d.VendorByName(vendor)
		if !ok {
			return newParseError(file, line, "unknown vendor %s", vendor)
		}
		v.addAttribute(attr)
	case parent != nil:
		parent.addChild(attr)
	default:
		if st.vendor != "" {
			if v, ok := d.VendorByName(st.vendor); ok {
				attr.VendorID = v.ID
			}
		}
		st.top().add(attr)
	}
	return nil
}

func (d *Dictionary) parseValue(st *parseState, file string, line int, tokens []string, defer_ bool) error {
	if len(tokens) != 4 {
		return newParseError(file, line, "incorrect number of tokens for value definition")
	}
	attrName, key, value := tokens[1], tokens[2], tokens[3]

	attr, ok := st.top().byName[attrName]
	if !ok {
		if defer_ {
			return &deferSignal{attr: attrName, key: key, value: value}
		}
		return newParseError(file, line, "value defined for unknown attribute %s", attrName)
	}

	var decoded interface{} = value
	switch attr.TypeName {
	case "integer", "signed", "short", "byte", "integer64":
		n, err := parseCode(value)
		if err != nil {
			return newParseError(file, line, "invalid integer value %s", value)
		}
		decoded = n
	}

	encoded, err := attr.DataType.Encode(decoded)
	if err != nil {
		return newParseError(file, line, "cannot encode value %s for %s: %v", value, attrName, err)
	}
	attr.Values.Add(key, string(encoded))
	return nil
}

func (d *Dictionary) parseVendor(st *parseState, file string, line int, tokens []string) error {
	if len(tokens) != 3 && len(tokens) != 4 {
		return newParseError(file, line, "incorrect number of tokens for vendor definition")
	}
	if len(tokens) == 4 {
		fmtParts := strings.SplitN(tokens[3], "=", 2)
		if fmtParts[0] != "format" || len(fmtParts) != 2 {
			return newParseError(file, line, "unknown option '%s' for vendor definition", tokens[3])
		}
		nums := strings.Split(fmtParts[1], ",")
		if len(nums) != 2 {
			return newParseError(file, line, "syntax error in vendor specification")
		}
		typ, err1 := strconv.Atoi(nums[0])
		length, err2 := strconv.Atoi(nums[1])
		if err1 != nil || err2 != nil {
			return newParseError(file, line, "syntax error in vendor specification")
		}
		if (typ != 1 && typ != 2 && typ != 4) || (length != 0 && length != 1 && length != 2) {
			return newParseError(file, line, "unknown vendor format specification %s", fmtParts[1])
		}
	}

	name := tokens[1]
	id, err := parseCode(tokens[2])
	if err != nil {
		return newParseError(file, line, "invalid vendor id %s", tokens[2])
	}
	d.vendors.Add(name, uint32(id))
	v := newVendor(name, uint32(id))
	d.vendorsByID[uint32(id)] = v
	return nil
}

func (d *Dictionary) parseBeginVendor(st *parseState, file string, line int, tokens []string) error {
	if len(tokens) != 2 {
		return newParseError(file, line, "incorrect number of tokens for begin-vendor statement")
	}
	name := tokens[1]
	v, ok := d.VendorByName(name)
	if !ok {
		return newParseError(file, line, "unknown vendor %s in begin-vendor statement", name)
	}
	st.vendor = name
	st.push(v.attrs)
	return nil
}

func (d *Dictionary) parseEndVendor(st *parseState, file string, line int, tokens []string) error {
	if len(tokens) != 2 {
		return newParseError(file, line, "incorrect number of tokens for end-vendor statement")
	}
	name := tokens[1]
	if st.vendor != name {
		return newParseError(file, line, "ending non-open vendor %s", name)
	}
	st.vendor = ""
	st.pop()
	return nil
}
