// Package shell performs the desktop side effects of an export: revealing
// saved files, opening help pages and writing to the clipboard.
//
// Every side effect sits behind an interface with a no-op implementation,
// so exports stay usable in headless environments and tests.
package shell
