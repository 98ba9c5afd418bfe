package constants

// Log file names.
const (
	// CLILogFileName is the name of the global CLI log file.
	// This file is located in ~/.forge/logs/forge.log
	CLILogFileName = "forge.log"
)

// Configuration file names.
const (
	// GlobalConfigName is the name of the global forge configuration file.
	GlobalConfigName = "config.yaml"
)

// Output file names.
const (
	// ArtifactManifestName is written next to an exported project and records
	// the entry file and setup notes.
	ArtifactManifestName = "forge-artifact.json"
)
