package errors

import (
	"github.com/ygrebnov/errorc"

	"github.com/gaoruize321/creator/constants"
)

var namespace = errorc.Namespace(constants.Namespace)

// Sentinel errors. Use errors.Is to match.
var (
	ErrTypeNotFound        = namespace.NewError("type not found")
	ErrAttrNotFound        = namespace.NewError("attribute not found")
	ErrAttrType            = namespace.NewError("attribute has unexpected type")
	ErrValueType           = namespace.NewError("value has unexpected type")
	ErrFactorySignature    = namespace.NewError("factory must take no arguments and return a value")
	ErrBaseArgs            = namespace.NewError("invalid base constructor arguments")
	ErrTypecodeMissing     = namespace.NewError("typecode attribute missing")
	ErrTypecodeUnsupported = namespace.NewError("unsupported typecode")
	ErrValueOutOfRange     = namespace.NewError("value out of range for typecode")
	ErrIndexOutOfRange     = namespace.NewError("index out of range")
	ErrViewUnsupported     = namespace.NewError("base does not support views")
	ErrReduceUnsupported   = namespace.NewError("base does not support reduction")
	ErrInvalidSnapshot     = namespace.NewError("invalid snapshot")
	ErrNotStruct           = namespace.NewError("record type must be a struct")
	ErrNilObject           = namespace.NewError("nil object")
	ErrRecordTag           = namespace.NewError("invalid attr tag")
	ErrProducerNotFound    = namespace.NewError("producer not registered")
)

var newKey = errorc.KeyFactory(constants.ErrorFieldNamespace)

// Internal hierarchical segments used to build dotted keys.
const (
	keySegmentType   = "type"
	keySegmentAttr   = "attr"
	keySegmentBase   = "base"
	keySegmentRecord = "record"
	keySegmentField  = "field"
)

// Exported structured error field keys
var (
	ErrorFieldTypeName = newKey("name", keySegmentType) // creator.type.name
	ErrorFieldAttrName = newKey("name", keySegmentAttr) // creator.attr.name
	ErrorFieldBaseName = newKey("name", keySegmentBase) // creator.base.name
	ErrorFieldTypecode = newKey("typecode", keySegmentBase)
	ErrorFieldIndex    = newKey("index", keySegmentBase)
)

var (
	ErrorFieldRecordType = newKey("type", keySegmentRecord) // creator.record.type
	ErrorFieldProducer   = newKey("producer", keySegmentRecord)
)

var (
	ErrorFieldFieldName = newKey("name", keySegmentField) // creator.field.name
)

var (
	ErrorFieldWantType = newKey("want_type")
	ErrorFieldGotType  = newKey("got_type")
	ErrorFieldValue    = newKey("value")
	ErrorFieldCause    = newKey("cause")
)
