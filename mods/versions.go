package mods

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// set by -ldflags at build time
var (
	versionString   = ""
	versionGitSHA   = ""
	buildTimestamp  = ""
	goVersionString = ""
)

type Version struct {
	Major  int    `json:"major"`
	Minor  int    `json:"minor"`
	Patch  int    `json:"patch"`
	GitSHA string `json:"git"`
}

var _version *Version

func GetVersion() *Version {
	if _version == nil {
		v, err := semver.NewVersion(versionString)
		if err != nil {
			_version = &Version{}
		} else {
			_version = &Version{
				Major:  int(v.Major()),
				Minor:  int(v.Minor()),
				Patch:  int(v.Patch()),
				GitSHA: versionGitSHA,
			}
		}
	}
	return _version
}

func DisplayVersion() string {
	if versionString == "" {
		return "DEVEL"
	}
	return strings.ToUpper(versionString)
}

func VersionString() string {
	return fmt.Sprintf("%s (%v %v)", DisplayVersion(), versionGitSHA, buildTimestamp)
}

func BuildCompiler() string {
	return goVersionString
}

func BuildTimestamp() string {
	return buildTimestamp
}

// CheckConfigVersion reports whether this build satisfies the version
// constraint of a boot configuration, e.g. ">= 1.2, < 2".
// Development builds satisfy any constraint.
func CheckConfigVersion(constraint string) error {
	if constraint == "" || versionString == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("version constraint %q, %w", constraint, err)
	}
	v, err := semver.NewVersion(versionString)
	if err != nil {
		return fmt.Errorf("version %q, %w", versionString, err)
	}
	if ok, errs := c.Validate(v); !ok {
		if len(errs) > 0 {
			return errs[0]
		}
		return fmt.Errorf("version %s does not satisfy %q", v, constraint)
	}
	return nil
}
