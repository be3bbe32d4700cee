package version

const Version = "0.1.0"

// MARK: AsString
func AsString() string {
	return Version
}
