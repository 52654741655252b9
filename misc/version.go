// Package misc keeps program identification, values are set at build time
// with -ldflags "-X tocgen/misc.version=... -X tocgen/misc.githash=...".
package misc

const appName = "tocgen"

var (
	version = "dev"
	githash = "unknown"
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return githash
}
