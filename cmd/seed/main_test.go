package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"jmlastro/internal/models"
)

type memHoroscopes struct {
	rows []models.Horoscope
}

func (m *memHoroscopes) GetForDay(_ context.Context, sign, kind string, dayStart time.Time) (models.Horoscope, error) {
	for _, h := range m.rows {
		if h.ZodiacSign == sign && h.Type == kind && !h.Date.Before(dayStart) && h.Date.Before(dayStart.Add(24*time.Hour)) {
			return h, nil
		}
	}
	return models.Horoscope{}, models.ErrHoroscopeNotFound
}

func (m *memHoroscopes) CreateHoroscope(_ context.Context, h models.Horoscope) (models.Horoscope, error) {
	m.rows = append(m.rows, h)
	return h, nil
}

func TestEmbeddedReadingsCoverEverySign(t *testing.T) {
	var r readings
	require.NoError(t, yaml.Unmarshal(horoscopesYAML, &r))
	for _, sign := range models.ZodiacSigns {
		assert.NotEmpty(t, r.Daily[sign], sign)
	}
}

func TestSeedDailyIsIdempotent(t *testing.T) {
	var r readings
	require.NoError(t, yaml.Unmarshal(horoscopesYAML, &r))

	store := &memHoroscopes{}
	now := time.Date(2024, 3, 10, 15, 4, 0, 0, time.UTC)

	n, err := seedDaily(context.Background(), store, r, now)
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), store.rows[0].Date)

	n, err = seedDaily(context.Background(), store, r, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, store.rows, 12)
}
