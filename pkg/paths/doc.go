// Package paths implements path safety for the stage.
//
// Stage paths are written in configuration as absolute paths, treating the
// stage as the root ("/usr/bin" means "usr/bin" inside the stage). They are
// normalized into stage-relative paths with a pure string algorithm that
// never touches the filesystem:
//
//	rel, err := paths.NormalizeStagePath("/usr/share/../lib")  // "usr/lib"
//	_, err = paths.NormalizeStagePath("/../etc")               // INVALID_CONFIGURATION
//
// Every stage-relative path uses forward slashes regardless of platform;
// conversion to OS paths happens at the staging target.
package paths
