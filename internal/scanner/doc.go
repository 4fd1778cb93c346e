// Package scanner enumerates the files of a directory tree and filters them
// through regular-expression include and exclude sets.
//
// The scanner performs a single complete pass over the tree and returns the
// absolute paths of every regular file that survives the filter. The root
// directory is verified before any enumeration happens so a missing source
// fails fast.
package scanner
