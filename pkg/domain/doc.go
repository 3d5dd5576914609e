/*
Package domain contains the core data model of the corpus toolkit.

It defines the canonical training sample produced by every format adapter, the
error taxonomy shared by the conversion, persistence and parameter layers, and the
lifecycle events emitted while a conversion runs. The package is kept free of I/O,
following Hexagonal Architecture principles.

# Key Entities

  - NameSample: one tokenized sentence with labeled name spans.
  - Span: a half-open token range carrying an entity type.
  - ConversionEvent: a snapshot handed to ConversionHooks during a conversion.
*/
package domain
