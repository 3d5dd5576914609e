package domain

// Field constants shared by mapstructure, JSON and YAML codecs.
const (
	KeyTokens            = "tokens"
	KeySpans             = "spans"
	KeyClearAdaptiveData = "clear_adaptive_data"
)
