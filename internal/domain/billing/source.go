package billing

// Source tells how a realization came into existence
type Source string

const (
	SourceAuto   Source = "AUTO"   // generated for a month from a specification
	SourceManual Source = "MANUAL" // entered by a manager
	SourceOnce   Source = "ONCE"   // one-off service
)

// IsValid checks if the source is valid
func (s Source) IsValid() bool {
	switch s {
	case SourceAuto, SourceManual, SourceOnce:
		return true
	}
	return false
}

// String returns the string representation of Source
func (s Source) String() string {
	return string(s)
}
