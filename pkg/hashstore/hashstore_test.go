package hashstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autovenv/autovenv/pkg/errors"
)

func TestLoadMissingFile(t *testing.T) {
	record, err := Load(filepath.Join(t.TempDir(), "hash.req.txt"))
	require.NoError(t, err)
	assert.Empty(t, record)
}

func TestLoadParsesLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hash.req.txt")
	require.NoError(t, os.WriteFile(path, []byte("foo:bar\nhello:world\n"), 0644))

	record, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Record{"foo": "bar", "hello": "world"}, record)
}

func TestLoadSplitsOnFirstColon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hash.req.txt")
	require.NoError(t, os.WriteFile(path, []byte("req.txt:abc:def\n"), 0644))

	record, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "abc:def", record["req.txt"])
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hash.req.txt")
	content := "good:abc123\nno-colon-here\n:empty-name\nother:def456\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	record, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Record{"good": "abc123", "other": "def456"}, record)
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root, permission bits are not enforced")
	}
	path := filepath.Join(t.TempDir(), "hash.req.txt")
	require.NoError(t, os.WriteFile(path, []byte("foo:bar\n"), 0000))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrHashLoad))
}

func TestSaveWritesSortedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hash.req.txt")
	record := Record{"zeta.txt": "111", "alpha.txt": "222"}
	require.NoError(t, Save(path, record))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "alpha.txt:222\nzeta.txt:111\n", string(data))
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hash.req.txt")
	record := Record{
		"requirements.txt": "f7e270c8a03ff7dc90ff31aec88380e708deddc4ac91d5dbe7e64363ecdbeed7",
		"tool.req.txt":     "7268a6b8e8450e70926eab67446285299a91b3672b5cc58847cd0ac0b9b415ef",
	}

	require.NoError(t, Save(path, record))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, record, loaded)
}

func TestSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hash.req.txt")
	require.NoError(t, Save(path, Record{"old.txt": "aaa", "gone.txt": "bbb"}))
	require.NoError(t, Save(path, Record{"old.txt": "ccc"}))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Record{"old.txt": "ccc"}, loaded)
}
