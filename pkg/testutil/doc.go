// Package testutil provides shared helpers for autovenv tests: filesystem
// fixtures and a recording fake for the installer's subprocess runner.
package testutil
