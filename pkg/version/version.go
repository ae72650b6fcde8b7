package version

// Version is the ontoeval release version.
const Version = "0.3.1"

// ProtocolVersion is the newest protocol revision the server speaks.
const ProtocolVersion = "2024-11-05"

// SupportedProtocolVersions lists revisions accepted during initialize.
var SupportedProtocolVersions = []string{
	"2024-11-05",
	"2024-10-07",
}
