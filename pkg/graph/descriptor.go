package graph

// ParamDescriptor declares one automatable parameter of a node type.
type ParamDescriptor struct {
	Name      string
	ShortName string
	Default   float64
	Min       float64
	Max       float64
}

// SettingDescriptor declares one configuration value of a node type.
type SettingDescriptor struct {
	Name         string
	Kind         SettingKind
	DefaultInt   int64
	DefaultFloat float64
	EnumValues   []string
}

// A Descriptor is the static declaration table of a node type: its name and
// the parameters and settings every instance exposes. Node packages define
// one package-level Descriptor per type; the node hierarchy stays flat, the
// differences live in data.
type Descriptor struct {
	Name     string
	Params   []ParamDescriptor
	Settings []SettingDescriptor
}
