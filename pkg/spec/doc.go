// Package spec turns declarative staging rules into concrete specifications
// and stages them.
//
// Resolution happens in two phases. A Builder describes one rule (copy a
// file, harvest a tree by pattern, create a symlink) and resolves against a
// target directory into a Specification, validating every name on the way.
// A Specification then stages itself into a stage.Staging.
//
// Both phases aggregate independent failures instead of stopping at the first
// one: a StageMap with two broken rules reports both, and staging keeps going
// past a failed copy to attempt the remaining specifications. Every non-nil
// error returned by this package carries an *errors.Errors batch.
//
//	m := spec.NewStageMap().
//		Add("usr/bin", spec.SourceFileBuilder{Path: "/build/tool", Symlinks: []string{"t"}}).
//		Add("opt", spec.SymlinkBuilder{Target: "/opt/app"})
//	specs, err := m.Resolve("")
//	...
//	err = spec.StageAll(specs, stage.NewFilesystem("/tmp/stage"))
package spec
