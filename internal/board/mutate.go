package board

import (
	"fmt"
	"slices"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// ApplyLocalMove relocates a task to targetIndex inside target. The index is
// clamped to the destination length. The task's lane fields are re-targeted
// and both source and destination lanes are renumbered 0..k-1.
func ApplyLocalMove(l Lanes, taskID types.TaskID, target models.LaneKey, targetIndex int) (Lanes, error) {
	fromKey, fromIdx, ok := l.Locate(taskID)
	if !ok {
		return l, fmt.Errorf("move %s: %w", taskID, models.ErrTaskNotFound)
	}
	toLaneIdx := l.laneIndex(target)
	if toLaneIdx < 0 {
		return l, fmt.Errorf("move %s to %s: %w", taskID, target, models.ErrLaneNotFound)
	}
	fromLaneIdx := l.laneIndex(fromKey)

	out := l.shallowCopy()
	src := cloneTasks(out.lanes[fromLaneIdx].Tasks)
	moved := src[fromIdx]
	src = slices.Delete(src, fromIdx, fromIdx+1)

	dst := src
	if toLaneIdx != fromLaneIdx {
		dst = cloneTasks(out.lanes[toLaneIdx].Tasks)
	}
	targetIndex = clamp(targetIndex, 0, len(dst))

	moved = retarget(moved, target, l.sections)
	dst = slices.Insert(dst, targetIndex, moved)

	if toLaneIdx != fromLaneIdx {
		out.lanes[fromLaneIdx].Tasks = renumber(src)
	}
	out.lanes[toLaneIdx].Tasks = renumber(dst)
	return out, nil
}

// ApplyLocalDelete removes a task from every lane. Remaining orders keep their gaps.
func ApplyLocalDelete(l Lanes, taskID types.TaskID) (Lanes, error) {
	if _, _, ok := l.Locate(taskID); !ok {
		return l, fmt.Errorf("delete %s: %w", taskID, models.ErrTaskNotFound)
	}
	out := l.shallowCopy()
	for i, lane := range out.lanes {
		if lane.IndexOf(taskID) < 0 {
			continue
		}
		out.lanes[i].Tasks = slices.DeleteFunc(cloneTasks(lane.Tasks), func(t models.Task) bool {
			return t.ID == taskID
		})
	}
	return out, nil
}

// ApplyLocalUpsert replaces an existing task or inserts a new one.
// An existing task that stays in its lane keeps its position. One whose lane
// fields changed is appended to its new lane with the next rank. A new task is
// inserted at its sorted (Order, ID) position.
func ApplyLocalUpsert(l Lanes, task models.Task) Lanes {
	task = task.Clone()
	task.Status = models.NormalizeStatus(string(task.Status))

	out := l.shallowCopy()
	key := out.LaneFor(task)
	toLaneIdx := out.ensureLane(key)

	fromKey, fromIdx, exists := l.Locate(task.ID)
	if exists && fromKey == key {
		tasks := cloneTasks(out.lanes[toLaneIdx].Tasks)
		tasks[fromIdx] = task
		out.lanes[toLaneIdx].Tasks = tasks
		return out
	}

	if exists {
		fromLaneIdx := out.laneIndex(fromKey)
		out.lanes[fromLaneIdx].Tasks = slices.Delete(cloneTasks(out.lanes[fromLaneIdx].Tasks), fromIdx, fromIdx+1)

		dst := cloneTasks(out.lanes[toLaneIdx].Tasks)
		task.Order = nextRank(dst)
		out.lanes[toLaneIdx].Tasks = append(dst, task)
		return out
	}

	dst := cloneTasks(out.lanes[toLaneIdx].Tasks)
	pos, _ := slices.BinarySearchFunc(dst, task, compareTasks)
	out.lanes[toLaneIdx].Tasks = slices.Insert(dst, pos, task)
	return out
}

// ApplyLocalRekey swaps a draft id for the id the server assigned.
// Persisted ids are immutable.
func ApplyLocalRekey(l Lanes, draftID, serverID types.TaskID) (Lanes, error) {
	if !draftID.IsDraft() || serverID.IsDraft() {
		return l, fmt.Errorf("rekey %s to %s: %w", draftID, serverID, models.ErrImmutableID)
	}
	key, idx, ok := l.Locate(draftID)
	if !ok {
		return l, fmt.Errorf("rekey %s: %w", draftID, models.ErrTaskNotFound)
	}
	out := l.shallowCopy()
	li := out.laneIndex(key)
	tasks := cloneTasks(out.lanes[li].Tasks)
	tasks[idx].ID = serverID
	out.lanes[li].Tasks = tasks
	return out, nil
}

// NextRank returns the order a task appended to the lane would get
func (l Lanes) NextRank(key models.LaneKey) int {
	lane, ok := l.Lane(key)
	if !ok {
		return 0
	}
	return nextRank(lane.Tasks)
}

// OrderChange is one entry of a batched order save
type OrderChange struct {
	TaskID types.TaskID
	Order  int
	Lane   models.LaneKey
}

// OrderChanges lists the tasks in the given lanes of after whose order or
// lane differs from before. Tasks absent from before are included.
func OrderChanges(before, after Lanes, keys ...models.LaneKey) []OrderChange {
	var out []OrderChange
	for _, key := range dedupeKeys(keys) {
		lane, ok := after.Lane(key)
		if !ok {
			continue
		}
		for _, t := range lane.Tasks {
			prevKey, prevIdx, found := before.Locate(t.ID)
			if found {
				prevLane, _ := before.Lane(prevKey)
				if prevKey == key && prevLane.Tasks[prevIdx].Order == t.Order {
					continue
				}
			}
			out = append(out, OrderChange{TaskID: t.ID, Order: t.Order, Lane: key})
		}
	}
	return out
}

// ============================================================================
// helpers
// ============================================================================

// shallowCopy copies the lane headers so lane task slices can be swapped
// without touching the original.
func (l Lanes) shallowCopy() Lanes {
	return Lanes{lanes: slices.Clone(l.lanes), sections: l.sections}
}

// ensureLane returns the index of key, creating the lane if it is a status
// lane that does not exist yet. Custom status lanes are kept sorted by name
// after the canonical ones and before the section lanes.
func (l *Lanes) ensureLane(key models.LaneKey) int {
	if i := l.laneIndex(key); i >= 0 {
		return i
	}
	lane := Lane{Key: key, Title: key.Value, Tasks: []models.Task{}}
	if key.IsSection() {
		if s, ok := l.sections[key.SectionID()]; ok {
			lane.Title = s.Name
		}
		l.lanes = append(l.lanes, lane)
		return len(l.lanes) - 1
	}

	pos := len(l.lanes)
	for i, ln := range l.lanes {
		if ln.Key.IsSection() {
			pos = i
			break
		}
		if ln.Key.Status().IsCustom() && ln.Key.Value > key.Value {
			pos = i
			break
		}
	}
	l.lanes = slices.Insert(l.lanes, pos, lane)
	return pos
}

// retarget rewrites the lane fields of a task for its destination lane
func retarget(t models.Task, target models.LaneKey, sections map[types.SectionID]models.Section) models.Task {
	status, section := laneFields(t, target, sections)
	t.Status = status
	t.SectionID = section
	return t
}

// laneFields returns the status and section a task would carry in target.
// Status lanes set the status and clear the section. Section lanes set the
// section and apply the section's default status when it has one.
func laneFields(t models.Task, target models.LaneKey, sections map[types.SectionID]models.Section) (models.Status, types.SectionID) {
	if !target.IsSection() {
		return target.Status(), ""
	}
	status := t.Status
	if s, ok := sections[target.SectionID()]; ok && s.HasDefaultStatus() {
		status = models.NormalizeStatus(string(s.DefaultStatus))
	}
	return status, target.SectionID()
}

func cloneTasks(in []models.Task) []models.Task {
	out := make([]models.Task, len(in))
	for i, t := range in {
		out[i] = t.Clone()
	}
	return out
}

func renumber(tasks []models.Task) []models.Task {
	for i := range tasks {
		tasks[i].Order = i
	}
	return tasks
}

func nextRank(tasks []models.Task) int {
	next := 0
	for _, t := range tasks {
		if t.Order >= next {
			next = t.Order + 1
		}
	}
	return next
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func dedupeKeys(keys []models.LaneKey) []models.LaneKey {
	out := make([]models.LaneKey, 0, len(keys))
	for _, k := range keys {
		if !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	return out
}
