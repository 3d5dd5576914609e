/*
Package corpus converts annotated corpora into training samples for a name finder
and guards what reaches the trainer: model artifacts and training parameters.

# Concept

Every supported input format is registered under an identifier and provides a
stream factory. A conversion resolves the identifier, opens a lazy sample stream
and copies each sample, in order, into the native name finder format:

	<START:person> Pierre Vinken <END> , 61 years old , will join the board .

An empty line before a sample marks a document boundary, where a trainer clears
its adaptive data.

Independently, training parameter files are loaded verbatim (or replaced by the
defaults) and checked against the registered trainer algorithms, and trained
models are written atomically to disk or to an artifact store.

# Usage

	kit, err := corpus.New(corpus.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
	}

	res, err := kit.ConvertFile("jsonl", ports.Params{"data": "train.jsonl"}, "train.native")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Samples, "samples")

	p, err := kit.LoadParams("ner.params", false)

# Formats

  - native: the canonical format itself, useful for validation and charset conversion.
  - jsonl: one JSON record per line with tokens, spans and clear_adaptive_data.
  - yaml: a stream of YAML documents with the same fields.
  - text: raw sentences, tokenized and labelled by a statistical entity recognizer.

Additional formats are plugged in by building a registry with registry.New and
passing it with WithRegistry.
*/
package corpus
