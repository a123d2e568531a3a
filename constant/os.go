package constant

// Values of runtime.GOOS that need special handling when opening files.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
	Android = "android"
)
