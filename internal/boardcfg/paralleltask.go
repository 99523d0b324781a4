package boardcfg

import (
	"slices"
	"unicode/utf8"

	"github.com/roach88/jirban/internal/ir"
)

// displayCodeLen is the number of characters in a parallel task display code.
const displayCodeLen = 2

// ParallelTaskField is a progress-typed custom field shown as a short code on
// each card.
type ParallelTaskField struct {
	name  string
	code  string
	field FieldHandle
}

func (f *ParallelTaskField) Name() string     { return f.name }
func (f *ParallelTaskField) Code() string     { return f.code }
func (f *ParallelTaskField) FieldID() int64   { return f.field.ID }
func (f *ParallelTaskField) HostName() string { return f.field.Name }

// Options returns the progress values the host offers for this field.
func (f *ParallelTaskField) Options() []string {
	return slices.Clone(f.field.Options)
}

// ParallelTaskConfig is the set of parallel task fields of a board. A board
// without parallel tasks has a nil config.
type ParallelTaskConfig struct {
	fields *Registry[*ParallelTaskField]
	byCode map[string]*ParallelTaskField
}

// loadParallelTasks resolves the optional "parallel-tasks" block. Field ids
// already claimed by a generic custom field are rejected. A present block
// must carry a fields list; an empty list yields nil.
func loadParallelTasks(host Host, n node, custom *CustomFields) (*ParallelTaskConfig, error) {
	if !n.exists() {
		return nil, nil
	}
	if !n.isStruct() {
		return nil, invalid(n, ErrWrongType, "parallel-tasks must be an object with a fields list")
	}
	fn := n.child("fields")
	if !fn.exists() {
		return nil, missing(fn)
	}
	elems, err := fn.list()
	if err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		return nil, nil
	}

	fields := make([]*ParallelTaskField, 0, len(elems))
	byCode := make(map[string]*ParallelTaskField, len(elems))
	names := make(map[string]bool, len(elems))
	ids := make(map[int64]string, len(elems))
	for _, e := range elems {
		f, err := loadParallelTaskField(host, e)
		if err != nil {
			return nil, err
		}
		if cf, clash := custom.ByID(f.field.ID); clash {
			return nil, invalid(e.child("field-id"), ErrFieldIDInCustom,
				"parallel task %q uses field-id %d, already used by custom field %q", f.name, f.field.ID, cf.Name())
		}
		if other, dup := byCode[f.code]; dup {
			return nil, invalid(e.child("display"), ErrDuplicateDisplayCode,
				"display code %q of parallel task %q is already used by %q", f.code, f.name, other.name)
		}
		if names[f.name] {
			return nil, invalid(e.child("name"), ErrDuplicateParallelName, "duplicate parallel task name %q", f.name)
		}
		if other, dup := ids[f.field.ID]; dup {
			return nil, invalid(e.child("field-id"), ErrDuplicateParallelID,
				"parallel task %q uses field-id %d, already used by %q", f.name, f.field.ID, other)
		}
		byCode[f.code] = f
		names[f.name] = true
		ids[f.field.ID] = f.name
		fields = append(fields, f)
	}
	return &ParallelTaskConfig{fields: NewRegistry(fields), byCode: byCode}, nil
}

func loadParallelTaskField(host Host, e node) (*ParallelTaskField, error) {
	if !e.isStruct() {
		return nil, invalid(e, ErrWrongType, "parallel task must be an object")
	}
	name, err := requiredString(e, "name")
	if err != nil {
		return nil, err
	}
	typ, err := requiredString(e, "type")
	if err != nil {
		return nil, err
	}
	if FieldKind(typ) != KindParallelTaskProgress {
		return nil, invalid(e.child("type"), ErrParallelTaskType,
			"parallel task %q must have type %q, got %q", name, KindParallelTaskProgress, typ)
	}
	code, err := requiredString(e, "display")
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(code) != displayCodeLen {
		return nil, invalid(e.child("display"), ErrDisplayCode,
			"display code %q of parallel task %q must be %d characters", code, name, displayCodeLen)
	}
	handle, err := resolveField(host, e, name)
	if err != nil {
		return nil, err
	}
	return &ParallelTaskField{name: name, code: code, field: handle}, nil
}

// Fields returns the parallel task registry.
func (pt *ParallelTaskConfig) Fields() *Registry[*ParallelTaskField] {
	if pt == nil {
		return nil
	}
	return pt.fields
}

// Len returns the number of parallel task fields. A nil config is empty.
func (pt *ParallelTaskConfig) Len() int {
	if pt == nil {
		return 0
	}
	return pt.fields.Len()
}

// ByCode looks a field up by its display code.
func (pt *ParallelTaskConfig) ByCode(code string) (*ParallelTaskField, bool) {
	if pt == nil {
		return nil, false
	}
	f, ok := pt.byCode[code]
	return f, ok
}

func (pt *ParallelTaskConfig) forConfig() ir.Object {
	all := pt.fields.All()
	arr := make(ir.Array, len(all))
	for i, f := range all {
		arr[i] = ir.Object{
			"name":     ir.String(f.name),
			"type":     ir.String(string(KindParallelTaskProgress)),
			"field-id": ir.Int(f.field.ID),
			"display":  ir.String(f.code),
		}
	}
	return ir.Object{"fields": arr}
}

func (pt *ParallelTaskConfig) forBoard() ir.Array {
	all := pt.fields.All()
	arr := make(ir.Array, len(all))
	for i, f := range all {
		arr[i] = ir.Object{
			"name":    ir.String(f.name),
			"display": ir.String(f.code),
			"options": ir.Strings(f.field.Options),
		}
	}
	return arr
}
