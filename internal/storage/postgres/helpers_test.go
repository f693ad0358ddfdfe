package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitchain/internal/models"
)

func newHabit(t *testing.T, title string) *models.Habit {
	t.Helper()
	h, err := models.NewHabit(title, models.Daily(), time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return h
}
