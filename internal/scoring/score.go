// Package scoring turns a single answer into a score delta and the next combo.
package scoring

const (
	// BasePoints is awarded for every correct answer.
	BasePoints = 100
	// TimeBonusPerSecond is multiplied by the seconds left on the clock.
	TimeBonusPerSecond = 2
	// ComboStep is awarded for every two combo levels from the second consecutive correct answer.
	ComboStep = 50
)

// Outcome is the scored result of one answer event.
type Outcome struct {
	IsCorrect  bool `json:"isCorrect"`
	NewCombo   int  `json:"combo"`
	BaseScore  int  `json:"baseScore"`
	TimeBonus  int  `json:"timeBonus"`
	ComboBonus int  `json:"comboBonus"`
	Delta      int  `json:"scoreDelta"`
}

// Score applies the scoring law. An empty submission is a timeout and never
// matches the correct answer. Callers guarantee comboBefore >= 0 and
// timeRemaining >= 0.
func Score(submitted, correct string, comboBefore, timeRemaining int) Outcome {
	isCorrect := submitted != "" && submitted == correct
	if !isCorrect {
		return Outcome{}
	}

	out := Outcome{
		IsCorrect: true,
		NewCombo:  comboBefore + 1,
		BaseScore: BasePoints,
		TimeBonus: timeRemaining * TimeBonusPerSecond,
	}
	if out.NewCombo > 1 {
		out.ComboBonus = (out.NewCombo / 2) * ComboStep
	}
	out.Delta = out.BaseScore + out.TimeBonus + out.ComboBonus
	return out
}
