package artifact

import (
	"fmt"
	"strings"
)

const DefaultType = "jar"

// Coordinate names a dependency or artifact.
type Coordinate struct {
	GroupID    string `json:"group_id" yaml:"groupId"`
	ArtifactID string `json:"artifact_id" yaml:"artifactId"`
	Version    string `json:"version" yaml:"version"`
	Type       string `json:"type,omitempty" yaml:"type,omitempty"`
	Classifier string `json:"classifier,omitempty" yaml:"classifier,omitempty"`
}

// RefKey is groupId:artifactId, the key of an in-workspace module.
func (c Coordinate) RefKey() string {
	return c.GroupID + ":" + c.ArtifactID
}

// Key is groupId:artifactId[:classifier]. It is the identity used for
// dependency lookups and deliberately ignores the version.
func (c Coordinate) Key() string {
	if c.Classifier == "" {
		return c.RefKey()
	}
	return c.RefKey() + ":" + c.Classifier
}

// VersionKey is groupId:artifactId:version, the form used by exclusions.
func (c Coordinate) VersionKey() string {
	return c.RefKey() + ":" + c.Version
}

func (c Coordinate) TypeOrDefault() string {
	if c.Type == "" {
		return DefaultType
	}
	return c.Type
}

// String renders groupId:artifactId:type[:classifier]:version.
func (c Coordinate) String() string {
	parts := []string{c.GroupID, c.ArtifactID, c.TypeOrDefault()}
	if c.Classifier != "" {
		parts = append(parts, c.Classifier)
	}
	parts = append(parts, c.Version)
	return strings.Join(parts, ":")
}

// FileName is artifactId-version[-classifier].type.
func (c Coordinate) FileName() string {
	name := c.ArtifactID + "-" + c.Version
	if c.Classifier != "" {
		name += "-" + c.Classifier
	}
	return name + "." + c.TypeOrDefault()
}

type CoordinateError struct {
	Raw    string
	Reason string
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("invalid artifact coordinates %q: %s", e.Raw, e.Reason)
}

// ParseCoordinate parses groupId:artifactId[:type[:classifier]]:version.
// The version is required.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return Coordinate{}, &CoordinateError{Raw: s, Reason: "empty segment"}
		}
	}

	var c Coordinate
	switch len(parts) {
	case 3:
		c = Coordinate{GroupID: parts[0], ArtifactID: parts[1], Version: parts[2]}
	case 4:
		c = Coordinate{GroupID: parts[0], ArtifactID: parts[1], Type: parts[2], Version: parts[3]}
	case 5:
		c = Coordinate{GroupID: parts[0], ArtifactID: parts[1], Type: parts[2], Classifier: parts[3], Version: parts[4]}
	default:
		return Coordinate{}, &CoordinateError{Raw: s, Reason: "expected <groupId>:<artifactId>[:<type>[:<classifier>]]:<version>"}
	}
	if c.Type == "" {
		c.Type = DefaultType
	}
	return c, nil
}

// ValidateReference checks a versionless groupId:artifactId[:classifier]
// reference as used for input artifacts.
func ValidateReference(ref string) error {
	parts := strings.Split(ref, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return &CoordinateError{Raw: ref, Reason: "expected <groupId>:<artifactId>[:<classifier>]"}
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return &CoordinateError{Raw: ref, Reason: "empty segment"}
		}
	}
	return nil
}

// ValidateVersionKey checks a groupId:artifactId:version exclusion entry.
func ValidateVersionKey(key string) error {
	parts := strings.Split(key, ":")
	if len(parts) != 3 {
		return &CoordinateError{Raw: key, Reason: "expected <groupId>:<artifactId>:<version>"}
	}
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return &CoordinateError{Raw: key, Reason: "empty segment"}
		}
	}
	return nil
}
