package graph

// ResourceAccess classifies how a pass touches a resource.
//
// The values form a small lattice: AccessNone is the identity of Combine,
// AccessReadWrite is absorbing, and AccessRead combined with AccessWrite
// yields AccessReadWrite.
type ResourceAccess uint8

// Resource access values.
const (
	// AccessNone indicates the resource is not accessed.
	AccessNone ResourceAccess = 0

	// AccessRead indicates a read-only access.
	AccessRead ResourceAccess = 1 << 0

	// AccessWrite indicates a write-only access.
	AccessWrite ResourceAccess = 1 << 1

	// AccessReadWrite indicates both read and write access.
	AccessReadWrite ResourceAccess = AccessRead | AccessWrite
)

// Combine merges two accesses. Commutative and associative.
func (a ResourceAccess) Combine(b ResourceAccess) ResourceAccess {
	return a | b
}

// Reads reports whether the access includes a read.
func (a ResourceAccess) Reads() bool { return a&AccessRead != 0 }

// Writes reports whether the access includes a write.
func (a ResourceAccess) Writes() bool { return a&AccessWrite != 0 }

// String returns a human-readable name for debugging and logs.
func (a ResourceAccess) String() string {
	switch a {
	case AccessNone:
		return "None"
	case AccessRead:
		return "Read"
	case AccessWrite:
		return "Write"
	case AccessReadWrite:
		return "ReadWrite"
	}
	return "Unknown"
}
