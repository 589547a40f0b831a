package marker

// Field is one named override in a marker record.
type Field struct {
	Name  string
	Value Value
}

// Params is an ordered marker record. Fields are applied in the order they were first set;
// setting an existing name replaces its value in place.
type Params struct {
	fields []Field
}

// NewParams creates a record from the given fields.
//
// Parameters:
//   - fields: initial fields, later duplicates replace earlier ones
//
// Returns:
//   - *Params: the record
func NewParams(fields ...Field) *Params {
	p := &Params{}
	for _, f := range fields {
		p.Set(f.Name, f.Value)
	}
	return p
}

// Set assigns a field and returns the record for chaining.
//
// Parameters:
//   - name: the field name
//   - v: the value
//
// Returns:
//   - *Params: the same record
func (p *Params) Set(name string, v Value) *Params {
	for i := range p.fields {
		if p.fields[i].Name == name {
			p.fields[i].Value = v
			return p
		}
	}
	p.fields = append(p.fields, Field{Name: name, Value: v})
	return p
}

// Get looks up a field by name.
//
// Parameters:
//   - name: the field name
//
// Returns:
//   - Value: the value if present
//   - bool: true if the field was set
func (p Params) Get(name string) (Value, bool) {
	for _, f := range p.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Fields returns a copy of the fields in order.
func (p Params) Fields() []Field {
	return append([]Field(nil), p.fields...)
}

// Len returns the number of fields.
func (p Params) Len() int {
	return len(p.fields)
}

func (p Params) clone() Params {
	return Params{fields: p.Fields()}
}
