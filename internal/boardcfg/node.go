package boardcfg

import (
	"path/filepath"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/token"
	cuejson "cuelang.org/go/encoding/json"
	"golang.org/x/text/unicode/norm"
)

// Parse reads a board document. Files ending in .cue are compiled as CUE;
// anything else is read as JSON. The returned value is fully evaluated.
func Parse(filename string, data []byte) (cue.Value, error) {
	ctx := cuecontext.New()

	var v cue.Value
	if strings.EqualFold(filepath.Ext(filename), ".cue") {
		v = ctx.CompileBytes(data, cue.Filename(filename))
	} else {
		expr, err := cuejson.Extract(filename, data)
		if err != nil {
			return cue.Value{}, fromCUE(err)
		}
		v = ctx.BuildExpr(expr, cue.Filename(filename))
	}

	if err := v.Err(); err != nil {
		return cue.Value{}, fromCUE(err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return cue.Value{}, fromCUE(err)
	}
	return v, nil
}

// node is a cursor into the document that remembers its dotted path, so every
// error can name the offending key.
type node struct {
	v         cue.Value
	path      string
	parentPos token.Pos
}

func root(v cue.Value) node {
	return node{v: v}
}

func (n node) child(key string) node {
	return node{
		v:         n.v.LookupPath(cue.MakePath(cue.Str(key))),
		path:      joinPath(n.path, key),
		parentPos: n.v.Pos(),
	}
}

// exists reports whether the key is present. An explicit null counts as absent.
func (n node) exists() bool {
	return n.v.Exists() && n.v.Kind() != cue.NullKind
}

func (n node) isStruct() bool {
	return n.v.Kind() == cue.StructKind
}

// str returns the string NFC normalized. Names are compared and serialized
// in that form.
func (n node) str() (string, error) {
	s, err := n.v.String()
	if err != nil {
		return "", invalid(n, ErrWrongType, "must be a string")
	}
	return norm.NFC.String(s), nil
}

func (n node) int64() (int64, error) {
	i, err := n.v.Int64()
	if err != nil {
		return 0, invalid(n, ErrWrongType, "must be an integer")
	}
	return i, nil
}

func (n node) boolean() (bool, error) {
	b, err := n.v.Bool()
	if err != nil {
		return false, invalid(n, ErrWrongType, "must be a boolean")
	}
	return b, nil
}

func requiredString(n node, key string) (string, error) {
	c := n.child(key)
	if !c.exists() {
		return "", missing(c)
	}
	s, err := c.str()
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", invalid(c, ErrMissingField, "must not be empty")
	}
	return s, nil
}

func optionalString(n node, key string) (string, error) {
	c := n.child(key)
	if !c.exists() {
		return "", nil
	}
	return c.str()
}

func optionalBool(n node, key string) (bool, error) {
	c := n.child(key)
	if !c.exists() {
		return false, nil
	}
	return c.boolean()
}

func requiredInt64(n node, key string) (int64, error) {
	c := n.child(key)
	if !c.exists() {
		return 0, missing(c)
	}
	return c.int64()
}

// list returns the elements of a list node, each with an indexed path.
func (n node) list() ([]node, error) {
	if n.v.Kind() != cue.ListKind {
		return nil, invalid(n, ErrWrongType, "must be a list")
	}
	iter, err := n.v.List()
	if err != nil {
		return nil, fromCUE(err)
	}
	var elems []node
	for i := 0; iter.Next(); i++ {
		elems = append(elems, node{
			v:         iter.Value(),
			path:      n.path + "[" + strconv.Itoa(i) + "]",
			parentPos: n.v.Pos(),
		})
	}
	return elems, nil
}

// stringList reads a list whose elements must all be non-empty strings.
func (n node) stringList() ([]string, error) {
	elems, err := n.list()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		s, err := e.str()
		if err != nil {
			return nil, err
		}
		if s == "" {
			return nil, invalid(e, ErrWrongType, "must not be empty")
		}
		out = append(out, s)
	}
	return out, nil
}

// field is one entry of a struct node, in declaration order.
type field struct {
	label string
	node  node
}

// fields returns the struct's entries with NFC normalized labels. Labels
// that only differ in normalization are rejected as duplicates.
func (n node) fields() ([]field, error) {
	if !n.isStruct() {
		return nil, invalid(n, ErrWrongType, "must be an object")
	}
	iter, err := n.v.Fields()
	if err != nil {
		return nil, fromCUE(err)
	}
	var out []field
	seen := make(map[string]bool)
	for iter.Next() {
		label := norm.NFC.String(iter.Selector().Unquoted())
		if seen[label] {
			return nil, invalid(node{v: iter.Value(), path: joinPath(n.path, label), parentPos: n.v.Pos()},
				ErrInvalidDocument, "key %q is declared more than once", label)
		}
		seen[label] = true
		out = append(out, field{
			label: label,
			node: node{
				v:         iter.Value(),
				path:      joinPath(n.path, label),
				parentPos: n.v.Pos(),
			},
		})
	}
	return out, nil
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}
