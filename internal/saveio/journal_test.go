package saveio

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/talgya/iso-citysim/internal/procgen"
)

func TestJournalRecordAndQuery(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.sqlite")
	j, err := OpenJournal(dbPath)
	require.NoError(t, err)
	defer j.Close()

	w := procgen.Generate(16, 16, 99, procgen.Default())
	rec, err := j.RecordRun(w, "save", "/tmp/city.isosave", time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, rec.RunID)

	bySeed, err := j.RunsBySeed(99)
	require.NoError(t, err)
	require.Len(t, bySeed, 1)
	require.Equal(t, rec.RunID, bySeed[0].RunID)

	byHash, err := j.RunsByHash(rec.WorldHash)
	require.NoError(t, err)
	require.Len(t, byHash, 1)
}
