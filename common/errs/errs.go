package errs

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

const (
	// NotFound is returned when a requested item is not found.
	NotFound        = ErrorKind("Not Found")
	InvalidArgument = ErrorKind("Invalid Argument")
	Unsupported     = ErrorKind("Unsupported")
	InternalError   = ErrorKind("Internal Error")

	// Authorization failures: the caller lacks the required principal relationship.
	Unauthorized       = ErrorKind("Unauthorized")
	NotOwner           = ErrorKind("Not Owner")
	NotApprovedOrOwner = ErrorKind("Not Approved Or Owner")

	// Resource failures: reference to a nonexistent entity.
	NoSuchToken     = ErrorKind("No Such Token")
	NoSuchDeal      = ErrorKind("No Such Deal")
	IndexOutOfRange = ErrorKind("Index Out Of Range")

	// Capacity failures: invariant-preserving rejections.
	SupplyExceeded  = ErrorKind("Supply Exceeded")
	DuplicateClass  = ErrorKind("Duplicate Class")
	DealAlreadyOpen = ErrorKind("Deal Already Open")

	// Settlement failures: payment-path rejections. Attached funds are
	// always returned to the caller.
	NotApproved         = ErrorKind("Not Approved")
	DealNotOpen         = ErrorKind("Deal Not Open")
	InvalidAmount       = ErrorKind("Invalid Amount")
	InsufficientPayment = ErrorKind("Insufficient Payment")
	SettlementFailed    = ErrorKind("Settlement Failed")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}
