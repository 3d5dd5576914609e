package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/corpus/pkg/adapters/diskv"
	"github.com/aretw0/corpus/pkg/adapters/file"
	"github.com/aretw0/corpus/pkg/adapters/memory"
	"github.com/aretw0/corpus/pkg/adapters/redis"
	"github.com/aretw0/corpus/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonlInput = `{"tokens":["Ana","mora","em","Lisboa"],"spans":[{"start":0,"end":1,"type":"person"},{"start":3,"end":4,"type":"location"}]}
`

func testStreams() (Streams, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return Streams{In: strings.NewReader(""), Out: &out, Err: &errOut}, &out, &errOut
}

func TestParseParams(t *testing.T) {
	p, err := ParseParams([]string{"types=per,loc", "lang = pt", "empty="})
	require.NoError(t, err)
	assert.Equal(t, "per,loc", p["types"])
	assert.Equal(t, " pt", p["lang"])
	assert.Equal(t, "", p["empty"])

	for _, bad := range []string{"novalue", "=x", "reader=stdin"} {
		_, err := ParseParams([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestConfig_OpenStore(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name  string
		cfg   Config
		check func(t *testing.T, store any)
	}{
		{"default is file", Config{StoreDir: dir}, func(t *testing.T, s any) { assert.IsType(t, &file.Store{}, s) }},
		{"diskv", Config{Store: StoreDiskv, StoreDir: dir}, func(t *testing.T, s any) { assert.IsType(t, &diskv.Store{}, s) }},
		{"memory", Config{Store: StoreMemory}, func(t *testing.T, s any) { assert.IsType(t, &memory.Store{}, s) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, closeStore, err := tt.cfg.OpenStore()
			require.NoError(t, err)
			defer closeStore()
			tt.check(t, store)
		})
	}

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		store, closeStore, err := Config{Store: StoreRedis, RedisAddr: mr.Addr()}.OpenStore()
		require.NoError(t, err)
		assert.IsType(t, &redis.Store{}, store)
		assert.NoError(t, closeStore())
	})

	t.Run("unknown", func(t *testing.T) {
		_, _, err := Config{Store: "s3"}.OpenStore()
		assert.ErrorContains(t, err, "unknown store")
	})
}

func TestConfig_EncryptedStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	key := strings.Repeat("ab", 32)
	src := filepath.Join(dir, "model.bin")
	require.NoError(t, os.WriteFile(src, []byte("weights"), 0644))

	sealed := Config{StoreDir: filepath.Join(dir, "store"), EncryptionKey: key}
	require.NoError(t, PutArtifact(ctx, sealed, "ner", src))

	raw, err := os.ReadFile(filepath.Join(dir, "store", "ner.bin"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "weights")

	std, out, _ := testStreams()
	require.NoError(t, GetArtifact(ctx, sealed, "ner", "", std))
	assert.Equal(t, "weights", out.String())

	_, _, err = Config{Store: StoreMemory, EncryptionKey: "zz"}.OpenStore()
	assert.ErrorContains(t, err, "invalid encryption key")
	_, _, err = Config{Store: StoreMemory, EncryptionKey: "abcd"}.OpenStore()
	assert.ErrorContains(t, err, "invalid encryption key")
}

func TestRunConvert_ToFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.jsonl")
	out := filepath.Join(dir, "out.train")
	require.NoError(t, os.WriteFile(in, []byte(jsonlInput), 0644))

	std, _, errOut := testStreams()
	res, err := RunConvert(Config{Store: StoreMemory}, ConvertOptions{Format: "jsonl", Data: in, Out: out, Progress: true}, std)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Samples)
	assert.Contains(t, errOut.String(), "converted 1 jsonl samples to "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "<START:person> Ana <END> mora em <START:location> Lisboa <END>\n", string(data))
}

func TestRunConvert_StdinToStdout(t *testing.T) {
	std, out, errOut := testStreams()
	std.In = strings.NewReader("<START:org> ACME <END> hired\n")

	_, err := RunConvert(Config{Store: StoreMemory}, ConvertOptions{Format: "native", Data: "-", Quiet: true}, std)
	require.NoError(t, err)
	assert.Equal(t, "<START:org> ACME <END> hired\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestRunConvert_Errors(t *testing.T) {
	std, _, _ := testStreams()

	_, err := RunConvert(Config{Store: StoreMemory}, ConvertOptions{Format: "conll09", Data: "x"}, std)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)

	_, err = RunConvert(Config{Store: StoreMemory}, ConvertOptions{Format: "native", Data: filepath.Join(t.TempDir(), "nope")}, std)
	var inErr *domain.InputError
	assert.ErrorAs(t, err, &inErr)

	_, err = RunConvert(Config{Store: StoreMemory}, ConvertOptions{Format: "native", Data: "x", Params: []string{"bad"}}, std)
	assert.Error(t, err)
}

func TestParamsCommands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "train.params")
	require.NoError(t, os.WriteFile(path, []byte("Algorithm=PERCEPTRON_SEQUENCE\nIterations=50\n"), 0644))
	cfg := Config{Store: StoreMemory}

	std, out, _ := testStreams()
	require.NoError(t, ValidateParams(cfg, ParamsOptions{Path: path, Sequence: true}, std))
	assert.Contains(t, out.String(), "valid")

	err := ValidateParams(cfg, ParamsOptions{Path: path}, std)
	assert.ErrorIs(t, err, domain.ErrSequenceTrainingNotSupported)

	std, out, _ = testStreams()
	require.NoError(t, ShowParams(cfg, ParamsOptions{}, std))
	assert.Contains(t, out.String(), "Algorithm=MAXENT\n")
}

func TestArtifactCommands(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := Config{StoreDir: filepath.Join(dir, "store")}

	src := filepath.Join(dir, "model.bin")
	require.NoError(t, os.WriteFile(src, []byte{0xca, 0xfe}, 0644))

	require.NoError(t, PutArtifact(ctx, cfg, "ner-pt", src))

	std, out, _ := testStreams()
	require.NoError(t, ListArtifacts(ctx, cfg, std))
	assert.Equal(t, "ner-pt\n", out.String())

	dst := filepath.Join(dir, "copy.bin")
	require.NoError(t, GetArtifact(ctx, cfg, "ner-pt", dst, std))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xca, 0xfe}, data)

	require.NoError(t, DeleteArtifact(ctx, cfg, "ner-pt"))
	err = GetArtifact(ctx, cfg, "ner-pt", "-", std)
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)

	assert.Error(t, PutArtifact(ctx, cfg, "../escape", src))
}

func TestNewServeHandler(t *testing.T) {
	handler, closeStore, err := NewServeHandler(Config{Store: StoreMemory}, ServeOptions{})
	require.NoError(t, err)
	defer closeStore()

	req := httptest.NewRequest(http.MethodPost, "/convert/native", strings.NewReader("a <START:x> b <END>\n"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `corpus_samples_converted_total{format="native"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestRunMCP_UnknownTransport(t *testing.T) {
	err := RunMCP(context.Background(), Config{Store: StoreMemory}, MCPOptions{Transport: "carrier-pigeon"})
	assert.ErrorContains(t, err, "unknown transport")
}

func TestIsTerminal_Buffer(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}

func TestSignalContext_RecordsSignal(t *testing.T) {
	sc := NewSignalContext(context.Background())
	sc.Cancel()
	<-sc.Done()
	assert.Nil(t, sc.Signal())
	assert.Nil(t, signalOf(sc))
	assert.Nil(t, signalOf(context.Background()))

	sc = NewSignalContext(context.Background())
	defer sc.Cancel()
	sc.sigCh <- syscall.SIGTERM
	<-sc.Done()
	assert.Equal(t, syscall.SIGTERM, sc.Signal())
	assert.Equal(t, os.Signal(syscall.SIGTERM), signalOf(sc))
}

func TestRunServe_ReportsStoppingSignal(t *testing.T) {
	sc := NewSignalContext(context.Background())
	defer sc.Cancel()
	sc.sigCh <- os.Interrupt
	<-sc.Done()

	stderr := &lockedBuffer{}
	err := RunServe(sc, Config{Store: StoreMemory, Stderr: stderr}, ServeOptions{Addr: "127.0.0.1:0"})
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), "Server stopped gracefully (interrupt)")
}

// lockedBuffer is written by the listener goroutine and the caller.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
