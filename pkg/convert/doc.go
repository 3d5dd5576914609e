/*
Package convert drives a conversion from a registered corpus format into the
native name-finder format.

A Converter resolves the format identifier, asks the factory for a sample stream
built from the caller's parameters, then copies every sample in source order into
a native writer over the destination. Both ends are released on every exit path.

	c := convert.New(corpus.DefaultRegistry(), convert.WithLogger(logger))
	res, err := c.Convert("jsonl", ports.Params{"data": "train.jsonl"}, os.Stdout)

Failures are reported with the domain error taxonomy: domain.ErrUnsupportedFormat
for unknown identifiers, *domain.InputError when the source cannot be opened and
*domain.ConversionError, carrying the sample index, once transcoding started.
*/
package convert
