package nativehost

// Extension IDs install --auto registers. They stay empty until builds are
// signed and listed; until then IDs must be passed explicitly.
const (
	OfficialFirefoxExtensionID = ""
	OfficialChromeExtensionID  = ""
)

// HasOfficialExtensions reports whether install --auto has anything to do.
func HasOfficialExtensions() bool {
	return OfficialChromeExtensionID != "" || OfficialFirefoxExtensionID != ""
}
