package types

// LocationSource identifies which strategy produced a resolved location.
type LocationSource string

const (
	SourceExplicitAddress   LocationSource = "EXPLICIT_ADDRESS"
	SourceDeviceGeolocation LocationSource = "DEVICE_GEOLOCATION"
	SourceStoredProfile     LocationSource = "STORED_PROFILE"
	SourcePostalCodeOnly    LocationSource = "POSTAL_CODE_ONLY"
)

func (s LocationSource) String() string {
	return string(s)
}

// Degraded reports whether distance computation against this source is
// unreliable (coordinates may be a placeholder sentinel).
func (s LocationSource) Degraded() bool {
	return s == SourcePostalCodeOnly
}

// ValidLocationSource reports whether s is a known resolution strategy.
func ValidLocationSource(s LocationSource) bool {
	switch s {
	case SourceExplicitAddress, SourceDeviceGeolocation, SourceStoredProfile, SourcePostalCodeOnly:
		return true
	default:
		return false
	}
}

// DispatchStatus is the per-recipient outcome of a dispatch attempt.
type DispatchStatus string

const (
	DispatchSent   DispatchStatus = "SENT"
	DispatchFailed DispatchStatus = "FAILED"
)

func (s DispatchStatus) String() string {
	return string(s)
}

// GeocodeKind distinguishes provider call directions for caching and metrics.
type GeocodeKind string

const (
	GeocodeForward GeocodeKind = "forward"
	GeocodeReverse GeocodeKind = "reverse"
)

func (k GeocodeKind) String() string {
	return string(k)
}
