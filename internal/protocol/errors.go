package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Interaction rejections (normal outcomes, not faults).
	ErrTooFar        = "E_TOO_FAR"
	ErrValueMismatch = "E_VALUE_MISMATCH"

	// Persistence.
	ErrBadSnapshot = "E_BAD_SNAPSHOT"

	ErrInternal = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrTooFar:          {},
	ErrValueMismatch:   {},
	ErrBadSnapshot:     {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
