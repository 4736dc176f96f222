package board

import (
	"fmt"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// Gesture is a raw drop: the dragged task and what it was released over.
// OverTaskID wins over OverLane when both are set. OverIndex < 0 means the
// drop position inside OverLane was not given (empty area).
type Gesture struct {
	TaskID     types.TaskID
	OverLane   models.LaneKey
	OverTaskID types.TaskID
	OverIndex  int
}

// DropOnLane builds a gesture for a drop on a lane's empty area
func DropOnLane(taskID types.TaskID, lane models.LaneKey) Gesture {
	return Gesture{TaskID: taskID, OverLane: lane, OverIndex: -1}
}

// DropOnTask builds a gesture for a drop over another card
func DropOnTask(taskID, overTaskID types.TaskID) Gesture {
	return Gesture{TaskID: taskID, OverTaskID: overTaskID, OverIndex: -1}
}

// Resolve turns a gesture into a move intent. The boolean is false when the
// drop lands on the task's current position, in which case nothing should be
// applied or persisted.
//
// Dropping on an empty lane area appends. Dropping over a task (or a given
// index) inserts before it, one slot earlier when the dragged task came from
// an earlier index of the same lane.
func Resolve(l Lanes, g Gesture) (models.MoveIntent, bool, error) {
	fromKey, fromIdx, ok := l.Locate(g.TaskID)
	if !ok {
		return models.MoveIntent{}, false, fmt.Errorf("resolve %s: %w", g.TaskID, models.ErrTaskNotFound)
	}
	task, _ := l.Task(g.TaskID)

	var (
		toKey   models.LaneKey
		overIdx = -1
	)
	switch {
	case g.OverTaskID != "":
		if g.OverTaskID == g.TaskID {
			return models.MoveIntent{}, false, nil
		}
		key, idx, found := l.Locate(g.OverTaskID)
		if !found {
			return models.MoveIntent{}, false, fmt.Errorf("resolve over %s: %w", g.OverTaskID, models.ErrTaskNotFound)
		}
		toKey, overIdx = key, idx
	default:
		if _, found := l.Lane(g.OverLane); !found {
			return models.MoveIntent{}, false, fmt.Errorf("resolve %s: %w", g.OverLane, models.ErrLaneNotFound)
		}
		toKey = g.OverLane
		overIdx = g.OverIndex
	}

	dest, _ := l.Lane(toKey)
	sameLane := toKey == fromKey

	var toIdx int
	if overIdx < 0 || overIdx >= dest.Len() {
		toIdx = dest.Len()
		if sameLane {
			toIdx--
		}
	} else {
		toIdx = overIdx
		if sameLane && fromIdx < overIdx {
			toIdx--
		}
	}

	if sameLane && toIdx == fromIdx {
		return models.MoveIntent{}, false, nil
	}

	status, section := laneFields(task, toKey, l.sections)
	return models.MoveIntent{
		TaskID:         g.TaskID,
		FromLane:       fromKey,
		ToLane:         toKey,
		FromIndex:      fromIdx,
		ToIndex:        toIdx,
		Status:         status,
		SectionID:      section,
		StatusChanged:  status != task.Status,
		SectionChanged: section != task.SectionID,
	}, true, nil
}

// Apply runs a resolved intent against the lanes
func Apply(l Lanes, m models.MoveIntent) (Lanes, error) {
	return ApplyLocalMove(l, m.TaskID, m.ToLane, m.ToIndex)
}
