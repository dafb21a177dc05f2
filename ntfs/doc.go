// Package ntfs reads and writes the parts of an NTFS dataset directory that
// carry lines, routes, their object codes and geometries.
//
// Only lines.txt, routes.txt and geometries.txt are rewritten by Write; every
// other file of the input directory is copied unchanged. Columns this package
// does not know about are preserved.
package ntfs
