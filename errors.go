package rbmarshal

import "github.com/scigolib/rbmarshal/internal/utils"

// The sentinel errors below classify the decoding and encoding failures
// this package reports. Test and application code should match them with
// errors.Is, since concrete errors are *CodecError values carrying
// additional context. Some failures carry no kind and match none of
// them: errors from the sink during Write, LoadCompressed's framing and
// archive codec errors, and the array, hash and attribute-block count
// limit checks in the reader.
var (
	ErrTruncatedInput   = utils.ErrTruncatedInput
	ErrBadHeader        = utils.ErrBadHeader
	ErrUnknownTag       = utils.ErrUnknownTag
	ErrIndexOutOfRange  = utils.ErrIndexOutOfRange
	ErrSymbolExpected   = utils.ErrSymbolExpected
	ErrRegistryMismatch = utils.ErrRegistryMismatch
	ErrEncodingFailure  = utils.ErrEncodingFailure
	ErrUnrepresentable  = utils.ErrUnrepresentable
)
