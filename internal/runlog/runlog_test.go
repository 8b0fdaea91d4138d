package runlog

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2024, 6, 30, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp: testTime,
		RunID:     "6f1c9a2e-1111-4c3b-9d55-0a1b2c3d4e5f",
		Account:   "HDFC Savings",
		Source:    "import/june.txt",
		Bank:      "hdfc",
		Created:   10,
		Skipped:   1,
		Errors:    2,
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "hdfc", entries[0].Bank)
	assert.Equal(t, 10, entries[0].Created)
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.Bank = "sbi"
	e2.DryRun = true
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "hdfc", entries[0].Bank)
	assert.Equal(t, "sbi", entries[1].Bank)
	assert.True(t, entries[1].DryRun)
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "logs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logs", "import-log.csv"), []byte(Header+"\n"), 0o644))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestUnmarshalEntry_Errors(t *testing.T) {
	_, err := UnmarshalEntry([]string{"one", "two"})
	assert.ErrorContains(t, err, "expected 9 fields")

	row := MarshalEntry(testEntry())
	row[colCreated] = "ten"
	_, err = UnmarshalEntry(row)
	assert.ErrorContains(t, err, "parsing count")
}

func TestMarshalEntry_Format(t *testing.T) {
	row := MarshalEntry(testEntry())
	assert.Equal(t, "2024-06-30T10:30:00Z", row[colTimestamp])
	assert.Equal(t, "false", row[colDryRun])
}

func TestAppend_Serialized(t *testing.T) {
	dir := t.TempDir()
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mu.Lock()
			defer mu.Unlock()
			assert.NoError(t, Append(dir, []Entry{testEntry()}))
		}()
	}
	wg.Wait()

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}
