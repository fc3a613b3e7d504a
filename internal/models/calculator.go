package models

type Person struct {
	Name      string `json:"name" validate:"required,max=100"`
	BirthDate string `json:"birthDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type LoveMatchRequest struct {
	Person1 Person `json:"person1" validate:"required"`
	Person2 Person `json:"person2" validate:"required"`
}

type LoveMatchResult struct {
	Compatibility int    `json:"compatibility"`
	Message       string `json:"message"`
	Details       struct {
		Emotional    int `json:"emotional"`
		Intellectual int `json:"intellectual"`
		Physical     int `json:"physical"`
	} `json:"details"`
}

type NumerologyRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	BirthDate string `json:"birthDate" validate:"required,datetime=2006-01-02"`
}

type NumerologyResult struct {
	LifePathNumber    int    `json:"lifePathNumber"`
	LuckyNumbers      []int  `json:"luckyNumbers"`
	CompatibleNumbers []int  `json:"compatibleNumbers"`
	Meaning           string `json:"meaning"`
}

type BirthChartRequest struct {
	BirthDate  string `json:"birthDate" validate:"required,datetime=2006-01-02"`
	BirthTime  string `json:"birthTime" validate:"omitempty,datetime=15:04"`
	BirthPlace string `json:"birthPlace" validate:"max=200"`
}

type BirthChartResult struct {
	SunSign   string `json:"sunSign"`
	MoonSign  string `json:"moonSign"`
	Ascendant string `json:"ascendant"`
	Planets   struct {
		Mercury string `json:"mercury"`
		Venus   string `json:"venus"`
		Mars    string `json:"mars"`
	} `json:"planets"`
}
