// Package config reads the two kinds of configuration stager works with.
//
// A stage file describes what goes into the stage. It maps target
// directories, written as absolute paths inside the stage, to the sources
// that populate them:
//
//	[["/usr/bin"]]
//	type = "SourceFile"
//	path = "{{.build}}/tool"
//	symlink = ["t"]
//
//	[["/usr/lib"]]
//	type = "SourceFiles"
//	path = "{{.build}}/lib"
//	pattern = ["*.so", "!*.debug.so"]
//
//	[["/opt"]]
//	type = "Symlink"
//	target = "/opt/app-{{.version}}"
//	rename = "app"
//
// TOML, YAML and JSON are accepted. The map may also sit under a top-level
// "stage" key so it can live inside a larger packaging file. Every string in
// the map is a template rendered by MapStage.Render before it is resolved.
//
// The application configuration (Config) controls the CLI and is layered
// from embedded defaults, an optional stager.toml or stager.yaml, STAGER_
// environment variables and command line overrides.
package config
