// Package tools wraps the macOS command-line utilities the release pipeline
// depends on (sips, iconutil, hdiutil, SetFile) behind small capability
// interfaces, so pipeline logic can run against fakes in tests. It also
// hosts the one-shot environment guard executed at pipeline entry.
package tools
