// Package config assembles the installer configuration for a single
// capture-install run.
//
// # Sources
//
// Configuration is layered, lowest precedence first:
//
//  1. DefaultInstallConfig
//  2. package.json in the package root (version, repository)
//  3. capture.lua in the package root, if present
//  4. command-line flags, applied by the caller
//
// # capture.lua
//
// capture.lua runs in a sandboxed gopher-lua VM: os, io, debug and the
// module loaders are removed. A read-only platform table describing the
// host is injected before the file runs, so overrides may depend on it:
//
//	capture = {
//	  version   = "0.3.1",
//	  verify    = "sha256",
//	  extractor = platform.is_macos and "tar" or "native",
//	}
//
// Unknown keys are ignored. Type mismatches are reported as a ParseError.
package config
