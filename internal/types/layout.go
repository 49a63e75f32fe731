package types

// FieldLayout is one member of a struct layout: its name and the
// VarType it would have if declared on its own (Owner/ConstRef/MutRef/
// Copy, never carrying a PointsTo set since layouts are declared once
// and instantiated per-variable).
type FieldLayout struct {
	Name string
	Type VarType
}

// StructLayout maps a struct (or typedef-of-struct) name to its field
// layout, captured at struct-definition time. It is consulted whenever
// a dotted name's trailing segment has never been declared: the
// parent's Owner(struct_name, _) supplies the layout.
type StructLayout struct {
	byStruct map[string]map[string]VarType
}

// NewStructLayout returns an empty layout table.
func NewStructLayout() *StructLayout {
	return &StructLayout{byStruct: make(map[string]map[string]VarType)}
}

// Define records the field layout for a struct name (or a typedef
// alias pointing at the same fields).
func (l *StructLayout) Define(structName string, fields []FieldLayout) {
	m := make(map[string]VarType, len(fields))
	for _, f := range fields {
		m[f.Name] = f.Type
	}
	l.byStruct[structName] = m
}

// Alias registers typedefName as another name for structName's layout.
func (l *StructLayout) Alias(typedefName, structName string) {
	if fields, ok := l.byStruct[structName]; ok {
		l.byStruct[typedefName] = fields
	}
}

// Field looks up the declared type of a struct's field. ok is false
// when the struct or the field is unknown.
func (l *StructLayout) Field(structName, field string) (VarType, bool) {
	fields, ok := l.byStruct[structName]
	if !ok {
		return VarType{}, false
	}
	t, ok := fields[field]
	return t, ok
}

// Has reports whether structName has a recorded layout.
func (l *StructLayout) Has(structName string) bool {
	_, ok := l.byStruct[structName]
	return ok
}

// FieldNames returns the field names of a struct in no particular
// order, or nil when the struct has no recorded layout.
func (l *StructLayout) FieldNames(structName string) []string {
	fields, ok := l.byStruct[structName]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(fields))
	for name := range fields {
		out = append(out, name)
	}
	return out
}
