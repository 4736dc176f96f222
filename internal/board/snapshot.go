package board

import (
	"slices"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// Snapshot is a full copy of some lanes' task arrays taken before a mutation
type Snapshot struct {
	lanes []Lane
}

// Keys returns the lanes captured by the snapshot
func (s Snapshot) Keys() []models.LaneKey {
	keys := make([]models.LaneKey, len(s.lanes))
	for i, ln := range s.lanes {
		keys[i] = ln.Key
	}
	return keys
}

// IsZero reports whether the snapshot captured nothing
func (s Snapshot) IsZero() bool {
	return len(s.lanes) == 0
}

// TakeSnapshot copies the named lanes. Keys that name no lane are recorded
// as empty lanes so a restore removes whatever was added to them later.
func TakeSnapshot(l Lanes, keys ...models.LaneKey) Snapshot {
	var snap Snapshot
	for _, key := range dedupeKeys(keys) {
		lane, ok := l.Lane(key)
		if !ok {
			lane = Lane{Key: key, Title: key.Value, Tasks: []models.Task{}}
		}
		lane.Tasks = cloneTasks(lane.Tasks)
		snap.lanes = append(snap.lanes, lane)
	}
	return snap
}

// Restore puts the snapshot's lanes back verbatim. Restored tasks are
// removed from every other lane, and a task that would otherwise vanish
// (present in a restored lane now but not in the snapshot) is re-homed to the
// lane its fields point at.
func Restore(l Lanes, snap Snapshot) Lanes {
	return RestoreExcept(l, snap, nil)
}

// RestoreExcept restores like Restore but leaves the tasks in keep where
// they are now: they are not restored, not re-homed and keep their index in
// a restored lane. A kept task missing from l stays missing.
func RestoreExcept(l Lanes, snap Snapshot, keep map[types.TaskID]struct{}) Lanes {
	if snap.IsZero() {
		return l
	}
	out := l.shallowCopy()
	kept := func(id types.TaskID) bool {
		_, ok := keep[id]
		return ok
	}

	restored := make(map[types.TaskID]struct{})
	restoredKeys := make(map[models.LaneKey]struct{}, len(snap.lanes))
	var displaced []models.Task

	for _, sl := range snap.lanes {
		restoredKeys[sl.Key] = struct{}{}
		for _, t := range sl.Tasks {
			if !kept(t.ID) {
				restored[t.ID] = struct{}{}
			}
		}
	}

	for _, sl := range snap.lanes {
		tasks := slices.DeleteFunc(cloneTasks(sl.Tasks), func(t models.Task) bool { return kept(t.ID) })
		if cur, ok := out.Lane(sl.Key); ok {
			for i, t := range cur.Tasks {
				if _, ok := restored[t.ID]; ok {
					continue
				}
				if kept(t.ID) {
					tasks = slices.Insert(tasks, min(i, len(tasks)), t)
					continue
				}
				displaced = append(displaced, t)
			}
		}
		i := out.laneIndex(sl.Key)
		if i < 0 {
			if sl.Key.IsSection() {
				if _, known := out.sections[sl.Key.SectionID()]; !known {
					continue
				}
			}
			i = out.ensureLane(sl.Key)
		}
		out.lanes[i].Tasks = tasks
	}

	for i, lane := range out.lanes {
		if _, ok := restoredKeys[lane.Key]; ok {
			continue
		}
		if !slices.ContainsFunc(lane.Tasks, func(t models.Task) bool { _, hit := restored[t.ID]; return hit }) {
			continue
		}
		out.lanes[i].Tasks = slices.DeleteFunc(cloneTasks(lane.Tasks), func(t models.Task) bool {
			_, hit := restored[t.ID]
			return hit
		})
	}

	for _, t := range displaced {
		out = rehome(out, t)
	}
	return out
}

// rehome appends a task to the lane its fields point at
func rehome(l Lanes, t models.Task) Lanes {
	out := l.shallowCopy()
	i := out.ensureLane(out.LaneFor(t))
	dst := cloneTasks(out.lanes[i].Tasks)
	t.Order = nextRank(dst)
	out.lanes[i].Tasks = append(dst, t)
	return out
}
