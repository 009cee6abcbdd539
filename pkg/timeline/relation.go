package timeline

import "github.com/matzehuels/eventline/pkg/task"

// IsRelated reports whether candidateID should stay highlighted while
// selectedID is selected: nothing is selected, the two are the same task, or
// one directly depends on the other.
func IsRelated(candidateID, selectedID string, tasks []task.Task) bool {
	if selectedID == "" || candidateID == selectedID {
		return true
	}
	for _, t := range tasks {
		switch t.ID {
		case selectedID:
			if t.DependsOn(candidateID) {
				return true
			}
		case candidateID:
			if t.DependsOn(selectedID) {
				return true
			}
		}
	}
	return false
}

// RelatedSet returns the IDs of all tasks related to selectedID.
func RelatedSet(selectedID string, tasks []task.Task) map[string]bool {
	set := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if IsRelated(t.ID, selectedID, tasks) {
			set[t.ID] = true
		}
	}
	return set
}
