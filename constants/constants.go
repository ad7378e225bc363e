package constants

const Namespace = "creator"

// ErrorFieldNamespace for all exported error field keys.
const ErrorFieldNamespace = Namespace

// AttrTypecode is the static attribute the array replacement reads its element typecode from.
const AttrTypecode = "typecode"

// TagAttr is the struct tag declaring record attributes.
const TagAttr = "attr"

// Directives of the attr tag.
const (
	DirectiveStatic  = "static"
	DirectiveFactory = "factory"
	DirectiveType    = "type"
	DirectiveRecord  = "record"
	DirectiveSkip    = "-"
)
