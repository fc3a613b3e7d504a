package services

import (
	"sync"
	"time"

	"golang.org/x/exp/rand"

	"jmlastro/internal/models"
)

var numerologyMeanings = map[int]string{
	1: "Leadership, independence, and new beginnings",
	2: "Cooperation, balance, and diplomacy",
	3: "Creativity, self-expression, and joy",
	4: "Stability, hard work, and discipline",
	5: "Freedom, adventure, and change",
	6: "Love, responsibility, and nurturing",
	7: "Spirituality, introspection, and wisdom",
	8: "Material success, ambition, and authority",
	9: "Compassion, completion, and universal love",
}

var oddNumbers = []int{1, 3, 5, 7, 9}

// CalculatorService produces entertainment readings. Values are random and
// carry no astrological meaning.
type CalculatorService struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewCalculatorService(seed uint64) *CalculatorService {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &CalculatorService{rng: rand.New(rand.NewSource(seed))}
}

// between returns a value in [lo, hi].
func (s *CalculatorService) between(lo, hi int) int {
	return lo + s.rng.Intn(hi-lo+1)
}

func (s *CalculatorService) LoveMatch(req models.LoveMatchRequest) (models.LoveMatchResult, error) {
	if err := models.Validate(req); err != nil {
		return models.LoveMatchResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var res models.LoveMatchResult
	res.Compatibility = s.between(60, 99)
	res.Details.Emotional = s.between(80, 99)
	res.Details.Intellectual = s.between(70, 99)
	res.Details.Physical = s.between(75, 99)
	res.Message = loveMatchMessage(req.Person1.Name, req.Person2.Name, res.Compatibility)
	return res, nil
}

func loveMatchMessage(a, b string, score int) string {
	switch {
	case score >= 90:
		return a + " and " + b + " share an exceptional cosmic bond."
	case score >= 75:
		return a + " and " + b + " have strong compatibility with great potential."
	default:
		return a + " and " + b + " can grow together with patience and understanding."
	}
}

func (s *CalculatorService) Numerology(req models.NumerologyRequest) (models.NumerologyResult, error) {
	if err := models.Validate(req); err != nil {
		return models.NumerologyResult{}, err
	}
	s.mu.Lock()
	n := s.between(1, 9)
	s.mu.Unlock()

	compatible := make([]int, 0, 3)
	for _, v := range oddNumbers {
		if v != n {
			compatible = append(compatible, v)
		}
		if len(compatible) == 3 {
			break
		}
	}
	return models.NumerologyResult{
		LifePathNumber:    n,
		LuckyNumbers:      []int{n, n + 2, n + 5},
		CompatibleNumbers: compatible,
		Meaning:           numerologyMeanings[n],
	}, nil
}

func (s *CalculatorService) BirthChart(req models.BirthChartRequest) (models.BirthChartResult, error) {
	if err := models.Validate(req); err != nil {
		return models.BirthChartResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sign := func() string { return models.ZodiacSigns[s.rng.Intn(len(models.ZodiacSigns))] }
	var res models.BirthChartResult
	res.SunSign = sign()
	res.MoonSign = sign()
	res.Ascendant = sign()
	res.Planets.Mercury = sign()
	res.Planets.Venus = sign()
	res.Planets.Mars = sign()
	return res, nil
}
