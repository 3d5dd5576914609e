package convert_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/corpus/pkg/convert"
	"github.com/aretw0/corpus/pkg/domain"
	"github.com/aretw0/corpus/pkg/formats/native"
	"github.com/aretw0/corpus/pkg/observability"
	"github.com/aretw0/corpus/pkg/ports"
	"github.com/aretw0/corpus/pkg/registry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFactory serves a fixed list of samples, standing in for a corpus reader.
type stubFactory struct {
	samples   []domain.NameSample
	openErr   error
	failRead  int // index of the sample whose Read fails, -1 for none
	failWrite int
	closed    *bool
}

func (f stubFactory) CreateInputStream(ports.Params) (ports.SampleStream, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return &stubStream{f: f}, nil
}

func (f stubFactory) CreateOutputWriter(dst io.Writer) ports.SampleWriter {
	w := native.NewWriter(dst)
	if f.failWrite < 0 {
		return w
	}
	return &failingWriter{SampleWriter: w, failAt: f.failWrite}
}

type stubStream struct {
	f   stubFactory
	pos int
}

func (s *stubStream) Read() (domain.NameSample, error) {
	if s.pos == s.f.failRead {
		return domain.NameSample{}, &domain.ParseError{Line: s.pos + 1, Msg: "malformed sentence"}
	}
	if s.pos >= len(s.f.samples) {
		return domain.NameSample{}, io.EOF
	}
	s.pos++
	return s.f.samples[s.pos-1], nil
}

func (s *stubStream) Close() error {
	if s.f.closed != nil {
		*s.f.closed = true
	}
	return nil
}

type failingWriter struct {
	ports.SampleWriter
	failAt int
	n      int
}

func (w *failingWriter) Write(s domain.NameSample) error {
	if w.n == w.failAt {
		return errors.New("disk full")
	}
	w.n++
	return w.SampleWriter.Write(s)
}

func sample(t *testing.T, clear bool, tokens ...string) domain.NameSample {
	t.Helper()
	s, err := domain.NewNameSample(tokens, []domain.Span{{Start: 0, End: 1, Type: "person"}}, clear)
	require.NoError(t, err)
	return s
}

func threeSamples(t *testing.T) []domain.NameSample {
	return []domain.NameSample{
		sample(t, false, "Maria", "runs"),
		sample(t, false, "João", "sleeps"),
		sample(t, true, "Ana", "reads"),
	}
}

func newConverter(f stubFactory, opts ...convert.Option) *convert.Converter {
	reg := registry.New(map[string]ports.StreamFactory{"conll02": f})
	return convert.New(reg, opts...)
}

func TestConvert_WritesSamplesInOrder(t *testing.T) {
	closed := false
	c := newConverter(stubFactory{samples: threeSamples(t), failRead: -1, failWrite: -1, closed: &closed})

	var out bytes.Buffer
	res, err := c.Convert("conll02", ports.Params{"data": "esp.train"}, &out)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Samples)
	assert.Equal(t, "conll02", res.Format)
	assert.NotEmpty(t, res.RunID)
	assert.True(t, closed, "input stream must be closed")
	assert.Equal(t,
		"<START:person> Maria <END> runs\n"+
			"<START:person> João <END> sleeps\n"+
			"\n<START:person> Ana <END> reads\n",
		out.String())
}

func TestConvert_EmptyInput(t *testing.T) {
	c := newConverter(stubFactory{failRead: -1, failWrite: -1})

	var out bytes.Buffer
	res, err := c.Convert("conll02", nil, &out)
	require.NoError(t, err)
	assert.Zero(t, res.Samples)
	assert.Empty(t, out.String())
}

func TestConvert_UnknownFormat(t *testing.T) {
	c := newConverter(stubFactory{failRead: -1, failWrite: -1})

	var out bytes.Buffer
	_, err := c.Convert("CONLL02", nil, &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "CONLL02")
	assert.Zero(t, out.Len())
}

func TestConvert_MissingSourceWritesNothing(t *testing.T) {
	c := convert.New(registry.New(map[string]ports.StreamFactory{native.FormatID: native.Factory{}}))

	var out bytes.Buffer
	_, err := c.Convert(native.FormatID, ports.Params{"data": filepath.Join(t.TempDir(), "missing.train")}, &out)

	var inErr *domain.InputError
	require.ErrorAs(t, err, &inErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Zero(t, out.Len())
}

func TestConvert_WrapsPlainFactoryErrors(t *testing.T) {
	c := newConverter(stubFactory{openErr: errors.New("no data parameter"), failRead: -1, failWrite: -1})

	_, err := c.Convert("conll02", nil, io.Discard)
	var inErr *domain.InputError
	require.ErrorAs(t, err, &inErr)
	assert.Equal(t, "conll02", inErr.Format)
}

func TestConvert_ReadFailureKeepsPriorSamples(t *testing.T) {
	closed := false
	c := newConverter(stubFactory{samples: threeSamples(t), failRead: 2, failWrite: -1, closed: &closed})

	var out bytes.Buffer
	res, err := c.Convert("conll02", nil, &out)

	var convErr *domain.ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, 2, convErr.Index)
	assert.Equal(t, domain.OpRead, convErr.Op)
	var parseErr *domain.ParseError
	assert.ErrorAs(t, err, &parseErr)

	assert.Equal(t, 2, res.Samples)
	assert.True(t, closed, "input stream must be closed after a read failure")
	assert.Equal(t, "<START:person> Maria <END> runs\n<START:person> João <END> sleeps\n", out.String())
}

func TestConvert_WriteFailure(t *testing.T) {
	closed := false
	c := newConverter(stubFactory{samples: threeSamples(t), failRead: -1, failWrite: 1, closed: &closed})

	var out bytes.Buffer
	_, err := c.Convert("conll02", nil, &out)

	var convErr *domain.ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, 1, convErr.Index)
	assert.Equal(t, domain.OpWrite, convErr.Op)
	assert.True(t, closed, "input stream must be closed after a write failure")
	assert.Equal(t, "<START:person> Maria <END> runs\n", out.String())
}

func TestConvert_HooksAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	var events []domain.EventType
	var lastIndex int
	hooks := domain.ConversionHooks{
		OnStart:  func(e *domain.ConversionEvent) { events = append(events, e.Type) },
		OnSample: func(e *domain.ConversionEvent) { events = append(events, e.Type); lastIndex = e.Index },
		OnFinish: func(e *domain.ConversionEvent) { events = append(events, e.Type) },
	}
	c := newConverter(stubFactory{samples: threeSamples(t), failRead: -1, failWrite: -1},
		convert.WithHooks(hooks), convert.WithMetrics(metrics))

	_, err := c.Convert("conll02", nil, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, []domain.EventType{
		domain.EventConversionStart,
		domain.EventSampleWritten, domain.EventSampleWritten, domain.EventSampleWritten,
		domain.EventConversionFinish,
	}, events)
	assert.Equal(t, 3, lastIndex)
	expected := `
# HELP corpus_samples_converted_total Total number of samples written in the native format
# TYPE corpus_samples_converted_total counter
corpus_samples_converted_total{format="conll02"} 3
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "corpus_samples_converted_total"))
}

func TestConvert_PanickingHookReleasesResources(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.train")
	require.NoError(t, os.WriteFile(dest, []byte("previous\n"), 0644))

	var finished *domain.ConversionEvent
	hooks := domain.ConversionHooks{
		OnSample: func(e *domain.ConversionEvent) {
			if e.Index == 2 {
				panic("hook exploded")
			}
		},
		OnFinish: func(e *domain.ConversionEvent) { finished = e },
	}
	closed := false
	c := newConverter(stubFactory{samples: threeSamples(t), failRead: -1, failWrite: -1, closed: &closed},
		convert.WithHooks(hooks))

	assert.PanicsWithValue(t, "hook exploded", func() {
		_, _ = c.ConvertFile("conll02", nil, dest)
	})

	assert.True(t, closed, "input stream must be closed when a hook panics")
	require.NotNil(t, finished)
	assert.Error(t, finished.Err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "previous\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary file may be left behind")
}

func TestConvertFile_Atomic(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.train")
	require.NoError(t, os.WriteFile(dest, []byte("previous\n"), 0644))

	failing := newConverter(stubFactory{samples: threeSamples(t), failRead: 1, failWrite: -1})
	_, err := failing.ConvertFile("conll02", nil, dest)
	require.Error(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "previous\n", string(data), "a failed conversion must not replace the destination")

	ok := newConverter(stubFactory{samples: threeSamples(t), failRead: -1, failWrite: -1})
	res, err := ok.ConvertFile("conll02", nil, dest)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Samples)

	data, err = os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<START:person> Ana <END> reads\n")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestConvertFile_MissingSourceCreatesNothing(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.train")
	c := convert.New(registry.New(map[string]ports.StreamFactory{native.FormatID: native.Factory{}}))

	_, err := c.ConvertFile(native.FormatID, ports.Params{"data": filepath.Join(dir, "nope")}, dest)
	var inErr *domain.InputError
	require.ErrorAs(t, err, &inErr)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}
