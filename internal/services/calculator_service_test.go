package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jmlastro/internal/models"
)

func TestLoveMatchRanges(t *testing.T) {
	svc := NewCalculatorService(42)
	for i := 0; i < 200; i++ {
		res, err := svc.LoveMatch(models.LoveMatchRequest{
			Person1: models.Person{Name: "Asha"},
			Person2: models.Person{Name: "Ravi"},
		})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.Compatibility, 60)
		assert.LessOrEqual(t, res.Compatibility, 99)
		assert.GreaterOrEqual(t, res.Details.Emotional, 80)
		assert.GreaterOrEqual(t, res.Details.Intellectual, 70)
		assert.GreaterOrEqual(t, res.Details.Physical, 75)
		assert.LessOrEqual(t, res.Details.Physical, 99)
		assert.Contains(t, res.Message, "Asha and Ravi")
	}
}

func TestLoveMatchRequiresNames(t *testing.T) {
	svc := NewCalculatorService(1)
	_, err := svc.LoveMatch(models.LoveMatchRequest{Person1: models.Person{Name: "Asha"}})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "person2", verr.Fields[0].Path[0])
}

func TestNumerology(t *testing.T) {
	svc := NewCalculatorService(7)
	for i := 0; i < 100; i++ {
		res, err := svc.Numerology(models.NumerologyRequest{Name: "Asha", BirthDate: "1990-04-12"})
		require.NoError(t, err)
		n := res.LifePathNumber
		require.True(t, n >= 1 && n <= 9)
		assert.Equal(t, []int{n, n + 2, n + 5}, res.LuckyNumbers)
		assert.Len(t, res.CompatibleNumbers, 3)
		assert.NotContains(t, res.CompatibleNumbers, n)
		assert.NotEmpty(t, res.Meaning)
	}
}

func TestNumerologyCompatibleNumbers(t *testing.T) {
	tests := map[int][]int{1: {3, 5, 7}, 2: {1, 3, 5}, 5: {1, 3, 7}, 9: {1, 3, 5}}
	svc := NewCalculatorService(3)
	seen := map[int]bool{}
	for i := 0; i < 500 && len(seen) < len(tests); i++ {
		res, err := svc.Numerology(models.NumerologyRequest{Name: "A", BirthDate: "2000-01-01"})
		require.NoError(t, err)
		if want, ok := tests[res.LifePathNumber]; ok {
			assert.Equal(t, want, res.CompatibleNumbers)
			seen[res.LifePathNumber] = true
		}
	}
}

func TestNumerologyRejectsBadDate(t *testing.T) {
	svc := NewCalculatorService(1)
	_, err := svc.Numerology(models.NumerologyRequest{Name: "Asha", BirthDate: "12/04/1990"})
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestBirthChartSigns(t *testing.T) {
	svc := NewCalculatorService(9)
	res, err := svc.BirthChart(models.BirthChartRequest{BirthDate: "1990-04-12", BirthTime: "06:30", BirthPlace: "Pune"})
	require.NoError(t, err)
	for _, sign := range []string{res.SunSign, res.MoonSign, res.Ascendant, res.Planets.Mercury, res.Planets.Venus, res.Planets.Mars} {
		assert.Contains(t, models.ZodiacSigns, sign)
	}
}
