// Package formats holds the helpers shared by the corpus format adapters:
// parameter decoding, source opening with charset support, IOB label decoding
// and the record shape used by the structured interchange formats.
//
// Each adapter lives in its own sub-package and implements ports.StreamFactory.
package formats
