package css

// OptString is a string which may be absent. Absent and empty are different
// states: an attribute condition without a value prints as [name] while the
// one with an empty value prints as [name=""].
// The zero value is absent.
type OptString struct {
	value string
	set   bool
}

// Some returns present optional string holding s (which may be empty).
func Some(s string) OptString {
	return OptString{value: s, set: true}
}

// None returns absent optional string.
func None() OptString {
	return OptString{}
}

// Get returns stored string and true if it is present.
func (o OptString) Get() (string, bool) {
	return o.value, o.set
}

// IsSet returns true if the value is present, even if it is empty.
func (o OptString) IsSet() bool {
	return o.set
}

// Or returns stored string or def when absent.
func (o OptString) Or(def string) string {
	if !o.set {
		return def
	}
	return o.value
}

// String returns stored string, absent value is rendered as empty string.
func (o OptString) String() string {
	return o.value
}
