/*
Package config holds the options shared by newick.ParseString and the
nexus parsing entry points: which tree representation to build, eager
vs lazy iteration, and the burn-in/sampling filters applied to a Nexus
TREES block.

It imports nothing from tree, newick or nexus, so those packages can
depend on it without risk of an import cycle.
*/
package config
