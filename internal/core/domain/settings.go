package domain

// SequenceSettings is the administrator-configured starting number for a
// record type. It is read exactly once, inside the allocation transaction
// that creates a counter bucket; changing it after a bucket has issued
// numbers has no retroactive effect. That first-write-wins behaviour is
// deliberate product policy and must not be "fixed" here.
type SequenceSettings struct {
	// TypeCode is the record type the override applies to.
	TypeCode string

	// StartingNumber is the first number a fresh bucket issues.
	// Types without an override start at 1.
	StartingNumber int
}

// DefaultStartingNumber is issued by a fresh bucket when no override is
// configured for its type.
const DefaultStartingNumber = 1
