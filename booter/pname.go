package booter

import (
	"os"
	"path/filepath"
	"strings"
)

var fallbackPname = "farmsquare"
var versionString = "v0.0.0"

// Pname is the program name without extension.
func Pname() string {
	if len(os.Args) > 0 && os.Args[0] != "" {
		name := filepath.Base(os.Args[0])
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return fallbackPname
}

func SetFallbackPname(pname string) {
	fallbackPname = pname
}

func VersionString() string {
	return versionString
}

func SetVersionString(str string) {
	versionString = str
}
