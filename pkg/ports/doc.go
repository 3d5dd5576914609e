/*
Package ports defines the driven ports (interfaces) of the corpus toolkit.

These interfaces decouple the conversion and persistence core from concrete
corpus adapters, artifact backends and trainer policies.

# Key Interfaces

  - SampleStream: a lazy, forward-only sequence of training samples.
  - StreamFactory: builds a SampleStream for one input format and a native-format SampleWriter.
  - Model: an opaque trained artifact that serializes itself.
  - ArtifactStore: persists serialized models by name (memory, file, diskv, Redis).
  - TrainerPolicy: decides which training parameter sets may reach a trainer.
*/
package ports
