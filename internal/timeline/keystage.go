package timeline

import "tft-analyzer/internal/stage"

// keyStageLabels are the canonical decision-point rounds: the three augment
// selection rounds plus the late-game checkpoints.
var keyStageLabels = []string{"2-1", "3-2", "4-2", "5-1", "6-1"}

// KeyStages scans the stage sequence in order and selects the index of the
// first occurrence of each canonical round label; repeats of a label are
// ignored. The final stage index is always part of the selection, appended
// when it is not already the last selected index. The result is strictly
// ascending and deduplicated.
func KeyStages(stages []stage.Snapshot) []int {
	if len(stages) == 0 {
		return []int{}
	}

	canonical := make(map[string]bool, len(keyStageLabels))
	for _, label := range keyStageLabels {
		canonical[label] = true
	}

	selected := []int{}
	for i, s := range stages {
		if canonical[s.RoundLabel] {
			selected = append(selected, i)
			delete(canonical, s.RoundLabel)
		}
	}

	last := len(stages) - 1
	if len(selected) == 0 || selected[len(selected)-1] != last {
		selected = append(selected, last)
	}

	return selected
}
