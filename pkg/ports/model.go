package ports

import "io"

// Model is an already trained artifact. The toolkit never interprets its bytes;
// it only manages the stream the model serializes itself into.
type Model interface {
	Serialize(w io.Writer) error
}

// TrainerPolicy decides whether a set of training settings may reach a trainer.
type TrainerPolicy interface {
	// Check returns nil when the settings are valid. Otherwise it returns the
	// name of the rejected setting and the reason.
	Check(settings map[string]string) (string, error)

	// IsSequenceTraining reports whether the settings select a sequence trainer.
	IsSequenceTraining(settings map[string]string) bool
}
