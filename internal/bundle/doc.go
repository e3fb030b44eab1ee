// Package bundle assembles the .app directory layout: the executable under
// Contents/MacOS, resources (including the optional icon container) under
// Contents/Resources, and the Info.plist descriptor. Descriptor rendering
// is deterministic so repeated builds of the same inputs are byte-identical.
package bundle
