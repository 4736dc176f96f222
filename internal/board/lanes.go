// Package board holds the client-side board state: tasks grouped into ordered
// lanes. Every function here is pure. Inputs are never mutated; callers get a
// new Lanes value that shares untouched lanes with the old one.
package board

import (
	"cmp"
	"slices"

	"github.com/thenoetrevino/tablero/internal/models"
	"github.com/thenoetrevino/tablero/internal/types"
)

// Lane is one board column and the tasks it shows, in display order
type Lane struct {
	Key   models.LaneKey
	Title string
	Tasks []models.Task
}

// Len returns the number of tasks in the lane
func (l Lane) Len() int {
	return len(l.Tasks)
}

// IndexOf returns the position of a task in the lane, or -1
func (l Lane) IndexOf(id types.TaskID) int {
	return slices.IndexFunc(l.Tasks, func(t models.Task) bool { return t.ID == id })
}

// Lanes is the projected board: lanes in display order plus the sections
// that were known when it was projected.
type Lanes struct {
	lanes    []Lane
	sections map[types.SectionID]models.Section
}

// Project groups tasks into lanes. Canonical status lanes come first, then
// custom status lanes sorted by name, then section lanes by (Order, ID).
// Within a lane tasks sort by Order then ID. A task whose section is unknown
// falls back to its status lane.
func Project(tasks []models.Task, sections []models.Section) Lanes {
	known := make(map[types.SectionID]models.Section, len(sections))
	for _, s := range sections {
		known[s.ID] = s
	}

	byLane := make(map[models.LaneKey][]models.Task)
	custom := make(map[models.Status]struct{})
	for _, t := range tasks {
		c := t.Clone()
		c.Status = models.NormalizeStatus(string(c.Status))
		key := c.Lane(known)
		if !key.IsSection() && c.Status.IsCustom() {
			custom[c.Status] = struct{}{}
		}
		byLane[key] = append(byLane[key], c)
	}

	out := Lanes{sections: known}
	for _, s := range models.CanonicalStatuses {
		out.lanes = append(out.lanes, newLane(models.StatusLane(s), string(s), byLane))
	}

	customNames := make([]models.Status, 0, len(custom))
	for s := range custom {
		customNames = append(customNames, s)
	}
	slices.Sort(customNames)
	for _, s := range customNames {
		out.lanes = append(out.lanes, newLane(models.StatusLane(s), string(s), byLane))
	}

	for _, s := range sortedSections(known) {
		out.lanes = append(out.lanes, newLane(models.SectionLane(s.ID), s.Name, byLane))
	}
	return out
}

func newLane(key models.LaneKey, title string, byLane map[models.LaneKey][]models.Task) Lane {
	tasks := byLane[key]
	if tasks == nil {
		tasks = []models.Task{}
	}
	sortTasks(tasks)
	return Lane{Key: key, Title: title, Tasks: tasks}
}

func sortTasks(tasks []models.Task) {
	slices.SortStableFunc(tasks, compareTasks)
}

func compareTasks(a, b models.Task) int {
	if c := cmp.Compare(a.Order, b.Order); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func sortedSections(known map[types.SectionID]models.Section) []models.Section {
	out := make([]models.Section, 0, len(known))
	for _, s := range known {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b models.Section) int {
		if c := cmp.Compare(a.Order, b.Order); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// ============================================================================
// Accessors
// ============================================================================

// All returns the lanes in display order. The slice must not be modified.
func (l Lanes) All() []Lane {
	return l.lanes
}

// Len returns the number of lanes
func (l Lanes) Len() int {
	return len(l.lanes)
}

// Lane returns the lane with the given key
func (l Lanes) Lane(key models.LaneKey) (Lane, bool) {
	i := l.laneIndex(key)
	if i < 0 {
		return Lane{}, false
	}
	return l.lanes[i], true
}

// Sections returns the known sections ordered by (Order, ID)
func (l Lanes) Sections() []models.Section {
	return sortedSections(l.sections)
}

// Section returns a known section by id
func (l Lanes) Section(id types.SectionID) (models.Section, bool) {
	s, ok := l.sections[id]
	return s, ok
}

// Locate returns the lane key and index of a task
func (l Lanes) Locate(id types.TaskID) (models.LaneKey, int, bool) {
	for _, lane := range l.lanes {
		if i := lane.IndexOf(id); i >= 0 {
			return lane.Key, i, true
		}
	}
	return models.LaneKey{}, -1, false
}

// Task returns a copy of the task with the given id
func (l Lanes) Task(id types.TaskID) (models.Task, bool) {
	key, i, ok := l.Locate(id)
	if !ok {
		return models.Task{}, false
	}
	lane, _ := l.Lane(key)
	return lane.Tasks[i].Clone(), true
}

// Tasks returns every task on the board in lane order
func (l Lanes) Tasks() []models.Task {
	var out []models.Task
	for _, lane := range l.lanes {
		out = append(out, lane.Tasks...)
	}
	return out
}

// TaskCount returns the number of tasks on the board
func (l Lanes) TaskCount() int {
	n := 0
	for _, lane := range l.lanes {
		n += len(lane.Tasks)
	}
	return n
}

// IsEmpty reports whether the board has no lanes at all (never loaded or cleared)
func (l Lanes) IsEmpty() bool {
	return len(l.lanes) == 0
}

// LaneFor returns the lane a task with these fields belongs to
func (l Lanes) LaneFor(t models.Task) models.LaneKey {
	return t.Lane(l.sections)
}

func (l Lanes) laneIndex(key models.LaneKey) int {
	return slices.IndexFunc(l.lanes, func(ln Lane) bool { return ln.Key == key })
}
