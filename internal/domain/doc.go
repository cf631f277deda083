// Package domain contains the entities of the example notes application
// that exercises read/write pool routing. It is independent of any specific
// infrastructure or delivery mechanism.
package domain
