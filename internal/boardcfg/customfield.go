package boardcfg

import (
	"fmt"
	"slices"

	"github.com/roach88/jirban/internal/ir"
)

// FieldKind is the declared type of a custom field.
type FieldKind string

const (
	KindUser                 FieldKind = "user"
	KindVersion              FieldKind = "version"
	KindPredefinedList       FieldKind = "predefined-list"
	KindParallelTaskProgress FieldKind = "parallel-task-progress"
)

// genericKinds are the kinds allowed in the "custom" block.
var genericKinds = map[FieldKind]bool{
	KindUser:           true,
	KindVersion:        true,
	KindPredefinedList: true,
}

// CustomFieldConfig is a declared custom field resolved against the host.
type CustomFieldConfig struct {
	name   string
	kind   FieldKind
	field  FieldHandle
	values []string // predefined-list only
}

func (c *CustomFieldConfig) Name() string     { return c.name }
func (c *CustomFieldConfig) Kind() FieldKind  { return c.kind }
func (c *CustomFieldConfig) FieldID() int64   { return c.field.ID }
func (c *CustomFieldConfig) HostName() string { return c.field.Name }

// Values returns the ordered value list of a predefined-list field.
func (c *CustomFieldConfig) Values() []string {
	return slices.Clone(c.values)
}

func (c *CustomFieldConfig) forConfig() ir.Object {
	obj := ir.Object{
		"name":     ir.String(c.name),
		"type":     ir.String(string(c.kind)),
		"field-id": ir.Int(c.field.ID),
	}
	if c.kind == KindPredefinedList {
		obj["config"] = ir.Strings(c.values)
	}
	return obj
}

func (c *CustomFieldConfig) forBoard() ir.Object {
	obj := ir.Object{
		"name": ir.String(c.name),
		"type": ir.String(string(c.kind)),
	}
	if c.kind == KindPredefinedList {
		obj["values"] = ir.Strings(c.values)
	}
	return obj
}

// CustomFields is the registry of generic custom fields of a board.
type CustomFields = Registry[*CustomFieldConfig]

// loadCustomFields resolves the optional "custom" block.
func loadCustomFields(host Host, n node) (*CustomFields, error) {
	if !n.exists() {
		return NewRegistry[*CustomFieldConfig](nil), nil
	}
	elems, err := n.list()
	if err != nil {
		return nil, err
	}

	fields := make([]*CustomFieldConfig, 0, len(elems))
	names := make(map[string]bool, len(elems))
	ids := make(map[int64]string, len(elems))
	for _, e := range elems {
		cf, err := loadCustomField(host, e)
		if err != nil {
			return nil, err
		}
		if names[cf.name] {
			return nil, invalid(e, ErrDuplicateFieldName, "duplicate custom field name %q", cf.name)
		}
		if other, dup := ids[cf.field.ID]; dup {
			return nil, invalid(e, ErrDuplicateFieldID,
				"custom field %q uses field-id %d, already used by %q", cf.name, cf.field.ID, other)
		}
		names[cf.name] = true
		ids[cf.field.ID] = cf.name
		fields = append(fields, cf)
	}
	return NewRegistry(fields), nil
}

func loadCustomField(host Host, e node) (*CustomFieldConfig, error) {
	if !e.isStruct() {
		return nil, invalid(e, ErrWrongType, "custom field must be an object")
	}
	name, err := requiredString(e, "name")
	if err != nil {
		return nil, err
	}
	typ, err := requiredString(e, "type")
	if err != nil {
		return nil, err
	}
	kind := FieldKind(typ)
	if !genericKinds[kind] {
		return nil, invalid(e.child("type"), ErrCustomFieldType,
			"custom field %q has unsupported type %q (expected user, version or predefined-list)", name, typ)
	}

	handle, err := resolveField(host, e, name)
	if err != nil {
		return nil, err
	}

	cf := &CustomFieldConfig{name: name, kind: kind, field: handle}
	cfg := e.child("config")
	switch {
	case kind == KindPredefinedList:
		if !cfg.exists() {
			return nil, missing(cfg)
		}
		if cf.values, err = cfg.stringList(); err != nil {
			return nil, err
		}
		if len(cf.values) == 0 {
			return nil, invalid(cfg, ErrCustomFieldValueList, "predefined-list field %q needs at least one value", name)
		}
		if dup := firstDuplicate(cf.values); dup != "" {
			return nil, invalid(cfg, ErrCustomFieldValueList, "predefined-list field %q repeats value %q", name, dup)
		}
	case cfg.exists():
		return nil, invalid(cfg, ErrCustomFieldValueList, "%s field %q does not take a config list", kind, name)
	}
	return cf, nil
}

// resolveField reads "field-id" and resolves it against the host.
func resolveField(host Host, e node, name string) (FieldHandle, error) {
	id, err := requiredInt64(e, "field-id")
	if err != nil {
		return FieldHandle{}, err
	}
	handle, err := host.ResolveCustomField(id)
	if err != nil {
		verr := invalid(e.child("field-id"), ErrUnknownCustomField,
			"field %q: no custom field with id %d", name, id)
		verr.Err = err
		return FieldHandle{}, verr
	}
	if handle.ID == 0 {
		handle.ID = id
	}
	if handle.Name == "" {
		handle.Name = fmt.Sprintf("customfield_%d", id)
	}
	return handle, nil
}

func firstDuplicate(values []string) string {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if seen[v] {
			return v
		}
		seen[v] = true
	}
	return ""
}
