package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitchain/internal/adherence"
	"github.com/julianstephens/habitchain/internal/models"
)

func summaries(t *testing.T) []adherence.Summary {
	t.Helper()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h, err := models.NewHabit("Read 20 pages", models.Daily(), base)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		if i != 3 {
			h.AddCompletion(base.AddDate(0, 0, i))
		}
	}
	w, err := models.NewHabit("Gym", models.Weekly(models.Monday, models.Thursday), base)
	require.NoError(t, err)

	e := adherence.New()
	asOf := base.AddDate(0, 0, 4)
	return []adherence.Summary{e.Summarize(h, asOf), e.Summarize(w, asOf)}
}

func TestStrip(t *testing.T) {
	days := []adherence.Day{
		{Due: true, Completed: true},
		{Due: true},
		{},
		{Completed: true},
	}
	assert.Equal(t, "xo-x", Strip(days))
	assert.Empty(t, Strip(nil))
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, summaries(t), time.Date(2026, 3, 5, 20, 0, 0, 0, time.UTC)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 500)
}

func TestWrite_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil, time.Now()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.pdf")
	require.NoError(t, Save(path, summaries(t), time.Now()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}
