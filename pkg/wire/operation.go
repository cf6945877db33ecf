package wire

// Operation identifies what a request asks the servient to do.
type Operation string

const (
	// OpRead reads a property value.
	OpRead Operation = "read"

	// OpWrite writes a property value.
	OpWrite Operation = "write"

	// OpInvoke invokes an action with optional input.
	OpInvoke Operation = "invoke"

	// OpSubscribeEvent subscribes to emissions of a named event.
	OpSubscribeEvent Operation = "subscribeevent"

	// OpSubscribeProperty subscribes to change notifications of an
	// observable property.
	OpSubscribeProperty Operation = "subscribeproperty"

	// OpSubscribeTD subscribes to description changes of a thing.
	OpSubscribeTD Operation = "subscribetd"

	// OpUnsubscribe cancels a subscription by its server-assigned ID.
	OpUnsubscribe Operation = "unsubscribe"

	// OpPing checks connection liveness at the message level.
	OpPing Operation = "ping"
)

// IsValid returns true if the operation is one this protocol defines.
func (o Operation) IsValid() bool {
	switch o {
	case OpRead, OpWrite, OpInvoke,
		OpSubscribeEvent, OpSubscribeProperty, OpSubscribeTD,
		OpUnsubscribe, OpPing:
		return true
	default:
		return false
	}
}

// IsSubscribe returns true for the operations that open a subscription.
func (o Operation) IsSubscribe() bool {
	switch o {
	case OpSubscribeEvent, OpSubscribeProperty, OpSubscribeTD:
		return true
	default:
		return false
	}
}
