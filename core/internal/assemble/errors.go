package assemble

import "fmt"

type MissingInputError struct {
	Path string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("cannot find primary input %s", e.Path)
}

// InvalidExclusionError reports an excluded library coordinate that is not a
// resolved dependency, which is almost always a typo in the configuration.
type InvalidExclusionError struct {
	Coordinate string
}

func (e *InvalidExclusionError) Error() string {
	return fmt.Sprintf("excluded library %s is not a resolved project dependency", e.Coordinate)
}
