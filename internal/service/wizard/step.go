package wizard

import "fmt"

// Step is a position in the claim wizard. Steps only move forward one at a time, or back
// to the immediately preceding step.
type Step int

const (
	StepSelectType Step = iota
	StepFlightDetails
	StepPersonalDetails
	StepReview
	StepSuccess
)

func (s Step) String() string {
	switch s {
	case StepSelectType:
		return "select_type"
	case StepFlightDetails:
		return "flight_details"
	case StepPersonalDetails:
		return "personal_details"
	case StepReview:
		return "review"
	case StepSuccess:
		return "success"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

func ParseStep(v string) (Step, error) {
	for s := StepSelectType; s <= StepSuccess; s++ {
		if s.String() == v {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown wizard step %q", v)
}

func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Step) UnmarshalText(b []byte) error {
	parsed, err := ParseStep(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Previous is the target of a back action. The first and the terminal step have none.
func (s Step) Previous() (Step, bool) {
	switch s {
	case StepSelectType:
		return 0, false
	case StepFlightDetails:
		return StepSelectType, true
	case StepPersonalDetails:
		return StepFlightDetails, true
	case StepReview:
		return StepPersonalDetails, true
	case StepSuccess:
		return 0, false
	default:
		return 0, false
	}
}

func (s Step) Terminal() bool {
	return s == StepSuccess
}
