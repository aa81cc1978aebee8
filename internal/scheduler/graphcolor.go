package scheduler

import (
	"context"
	"fmt"
	"sort"
)

// session is one (course, student group) pairing expanded frequency
// times — the unit the graph-coloring generator treats as a node.
type session struct {
	index          int
	courseID       string
	studentGroupID string
}

// GraphColorResult is the output of the graph-coloring generator.
type GraphColorResult struct {
	Schedule    []Entry
	Unscheduled []UnscheduledSession
	Metadata    GraphColorMetadata
}

// GraphColorMetadata reports the shape of the conflict graph a run
// colored and how many distinct colors it actually used.
type GraphColorMetadata struct {
	TotalNodes int
	TotalEdges int
	ColorsUsed int
}

// ColoringAlgorithm selects the vertex-ordering heuristic used to color
// the conflict graph.
type ColoringAlgorithm string

const (
	DSATUR      ColoringAlgorithm = "dsatur"
	WelshPowell ColoringAlgorithm = "welsh-powell"
)

// colorSlot is a (day, start-time) pair a color maps to. A node's end
// time is derived from its own course duration, not stored here.
type colorSlot struct {
	day   Weekday
	start string
}

// GenerateGraphColoring builds a conflict graph over one node per
// (course, student group, session index) triple, edges joining any two
// sessions that share a teacher, a student group, or the same course,
// then colors the graph with the requested algorithm. A color is only
// assignable to a node when it is unused by any already-colored
// neighbor and at least one classroom with sufficient capacity is
// available, per the availability filter, for that node's own duration
// at the color's (day, start) pair — infeasible colors are skipped
// during coloring itself rather than discovered after the fact.
// Classrooms are assigned to colored sessions greedily within each
// color, narrowest-fit first, deferring to the conflict kernel for the
// final word on every placement. An unrecognized algorithm falls back
// to DSATUR.
func GenerateGraphColoring(ctx context.Context, repo Repository, input GreedyInput, cfg SlotConfig, algorithm ColoringAlgorithm) (*GraphColorResult, error) {
	cfg = cfg.withDefaults()

	sessions, courseByIndex, groupByIndex := expandSessions(input)
	if len(sessions) == 0 {
		return &GraphColorResult{}, nil
	}

	adjacency := buildConflictGraph(sessions, courseByIndex)

	combos, err := candidateColorSlots(cfg)
	if err != nil {
		return nil, err
	}

	feasible := func(n, color int) bool {
		slot := combos[color]
		course := courseByIndex[n]
		group := groupByIndex[n]
		end := EndOf(slot.start, course.Duration)
		if overflowsWindow(slot.start, end, cfg) {
			return false
		}
		for _, classroom := range input.Classrooms {
			if classroom.Capacity < group.Size {
				continue
			}
			if WithinAvailability(&classroom, slot.day, slot.start, end) {
				return true
			}
		}
		return false
	}

	var coloring map[int]int
	var uncolorable []int
	if algorithm == WelshPowell {
		coloring, uncolorable = colorGraphWelshPowell(sessions, adjacency, len(combos), feasible)
	} else {
		coloring, uncolorable = colorGraphDSATUR(sessions, adjacency, len(combos), feasible)
	}

	var pending []Entry
	var unscheduled []UnscheduledSession

	for _, idx := range uncolorable {
		course := courseByIndex[idx]
		group := groupByIndex[idx]
		unscheduled = append(unscheduled, UnscheduledSession{
			CourseID:       course.ID,
			StudentGroupID: group.ID,
			SessionIndex:   sessions[idx].index,
			LastConflicts:  []Conflict{{Kind: NotAvailable, Message: "no color offers an available, capacity-fitting classroom for this session"}},
		})
	}

	order := make([]int, 0, len(coloring))
	for idx := range coloring {
		order = append(order, idx)
	}
	sort.Slice(order, func(a, b int) bool { return order[a] < order[b] })

	for _, idx := range order {
		s := sessions[idx]
		course := courseByIndex[idx]
		group := groupByIndex[idx]
		slot := combos[coloring[idx]]
		day, start := slot.day, slot.start
		end := EndOf(start, course.Duration)

		placed := false
		var lastConflicts []Conflict

		teacher, hasTeacher := input.Teachers[course.TeacherID]
		classrooms := sortedByCapacity(input.Classrooms)
		for _, classroom := range classrooms {
			if classroom.Capacity < group.Size {
				continue
			}
			candidate := Candidate{
				CourseID:       course.ID,
				StudentGroupID: group.ID,
				TeacherID:      course.TeacherID,
				ClassroomID:    classroom.ID,
				Day:            day,
				StartTime:      start,
				EndTime:        end,
			}
			entities := Entities{Group: &group, Classroom: &classroom, Names: input.Names}
			if hasTeacher {
				entities.Teacher = &teacher
			}

			conflicts, err := CheckConflicts(ctx, repo, candidate, "", pending, entities, cfg.Caps)
			if err != nil {
				return nil, fmt.Errorf("check conflicts for session %d: %w", s.index, err)
			}
			if len(conflicts) == 0 {
				pending = append(pending, Entry{
					CourseID:       course.ID,
					StudentGroupID: group.ID,
					TeacherID:      course.TeacherID,
					ClassroomID:    classroom.ID,
					Day:            day,
					StartTime:      start,
					EndTime:        end,
					Duration:       course.Duration,
					Semester:       course.Semester,
					AcademicYear:   course.AcademicYear,
				})
				placed = true
				break
			}
			lastConflicts = conflicts
		}

		if !placed {
			unscheduled = append(unscheduled, UnscheduledSession{
				CourseID:       course.ID,
				StudentGroupID: group.ID,
				SessionIndex:   s.index,
				LastConflicts:  lastConflicts,
			})
		}
	}

	return &GraphColorResult{
		Schedule:    pending,
		Unscheduled: unscheduled,
		Metadata:    graphMetadata(sessions, adjacency, coloring),
	}, nil
}

// graphMetadata reports the shape of the conflict graph a run colored:
// node count, edge count, and the number of distinct colors actually
// assigned. Edge count halves the adjacency degree sum since every edge
// is stored symmetrically in both directions.
func graphMetadata(sessions []session, adjacency map[int]map[int]bool, coloring map[int]int) GraphColorMetadata {
	degreeSum := 0
	for _, neighbors := range adjacency {
		degreeSum += len(neighbors)
	}

	colorsUsed := map[int]bool{}
	for _, color := range coloring {
		colorsUsed[color] = true
	}

	return GraphColorMetadata{
		TotalNodes: len(sessions),
		TotalEdges: degreeSum / 2,
		ColorsUsed: len(colorsUsed),
	}
}

func expandSessions(input GreedyInput) ([]session, map[int]Course, map[int]StudentGroup) {
	var sessions []session
	courseByIndex := map[int]Course{}
	groupByIndex := map[int]StudentGroup{}

	idx := 0
	for _, course := range input.Courses {
		for _, groupID := range course.StudentGroupIDs {
			group, ok := input.StudentGroups[groupID]
			if !ok {
				continue
			}
			for i := 0; i < course.Frequency; i++ {
				sessions = append(sessions, session{index: idx, courseID: course.ID, studentGroupID: groupID})
				courseByIndex[idx] = course
				groupByIndex[idx] = group
				idx++
			}
		}
	}
	return sessions, courseByIndex, groupByIndex
}

// buildConflictGraph joins two sessions whenever placing them at the
// same time would be impossible regardless of slot: same teacher, same
// student group, or same course (different sessions of one course must
// land in different slots even when they serve different groups).
func buildConflictGraph(sessions []session, courseByIndex map[int]Course) map[int]map[int]bool {
	adjacency := make(map[int]map[int]bool, len(sessions))
	for _, s := range sessions {
		adjacency[s.index] = map[int]bool{}
	}
	for i := 0; i < len(sessions); i++ {
		for j := i + 1; j < len(sessions); j++ {
			a, b := sessions[i], sessions[j]
			conflicting := a.studentGroupID == b.studentGroupID
			if a.courseID == b.courseID {
				conflicting = true
			}
			if courseByIndex[a.index].TeacherID != "" && courseByIndex[a.index].TeacherID == courseByIndex[b.index].TeacherID {
				conflicting = true
			}
			if conflicting {
				adjacency[a.index][b.index] = true
				adjacency[b.index][a.index] = true
			}
		}
	}
	return adjacency
}

// colorGraphDSATUR colors the graph with the degree-of-saturation
// heuristic: at each step, pick the uncolored node touching the most
// distinct colors already placed, breaking ties by higher degree, and
// assign it the lowest color that is
// both unused by any neighbor and feasible per the supplied predicate.
// A node for which no color among maxColors satisfies both is left
// uncolored and reported back in the second return value.
func colorGraphDSATUR(sessions []session, adjacency map[int]map[int]bool, maxColors int, feasible func(node, color int) bool) (map[int]int, []int) {
	colors := make(map[int]int, len(sessions))
	uncolored := make(map[int]bool, len(sessions))
	for _, s := range sessions {
		uncolored[s.index] = true
	}

	degree := func(n int) int { return len(adjacency[n]) }

	var uncolorable []int
	for len(uncolored) > 0 {
		best := -1
		bestSaturation := -1
		bestDegree := -1
		for n := range uncolored {
			saturation := distinctNeighborColors(n, adjacency, colors)
			d := degree(n)
			if best == -1 || saturation > bestSaturation || (saturation == bestSaturation && d > bestDegree) {
				best, bestSaturation, bestDegree = n, saturation, d
			}
		}

		if color, ok := lowestFeasibleColor(best, adjacency, colors, maxColors, feasible); ok {
			colors[best] = color
		} else {
			uncolorable = append(uncolorable, best)
		}
		delete(uncolored, best)
	}

	return colors, uncolorable
}

// colorGraphWelshPowell colors the graph in a single static pass: nodes
// are sorted once by descending degree (ties broken by index, for
// determinism) and colored in that fixed order, each taking the lowest
// color that is both unused by any already-colored neighbor and
// feasible per the supplied predicate.
func colorGraphWelshPowell(sessions []session, adjacency map[int]map[int]bool, maxColors int, feasible func(node, color int) bool) (map[int]int, []int) {
	order := make([]int, len(sessions))
	for i, s := range sessions {
		order[i] = s.index
	}
	sort.Slice(order, func(a, b int) bool {
		da, db := len(adjacency[order[a]]), len(adjacency[order[b]])
		if da != db {
			return da > db
		}
		return order[a] < order[b]
	})

	colors := make(map[int]int, len(sessions))
	var uncolorable []int
	for _, n := range order {
		if color, ok := lowestFeasibleColor(n, adjacency, colors, maxColors, feasible); ok {
			colors[n] = color
		} else {
			uncolorable = append(uncolorable, n)
		}
	}
	return colors, uncolorable
}

// lowestFeasibleColor returns the smallest color index in [0,maxColors)
// that no already-colored neighbor of node holds and that satisfies
// feasible(node, color).
func lowestFeasibleColor(node int, adjacency map[int]map[int]bool, colors map[int]int, maxColors int, feasible func(node, color int) bool) (int, bool) {
	used := map[int]bool{}
	for neighbor := range adjacency[node] {
		if c, ok := colors[neighbor]; ok {
			used[c] = true
		}
	}
	for color := 0; color < maxColors; color++ {
		if used[color] {
			continue
		}
		if feasible(node, color) {
			return color, true
		}
	}
	return 0, false
}

func distinctNeighborColors(n int, adjacency map[int]map[int]bool, colors map[int]int) int {
	seen := map[int]bool{}
	for neighbor := range adjacency[n] {
		if c, ok := colors[neighbor]; ok {
			seen[c] = true
		}
	}
	return len(seen)
}

// candidateColorSlots enumerates every (day, start-time) combination in
// the configured working window, in Weekdays then generated-slot order.
// Colors index into this list; a node may skip a low, neighbor-free
// color that lands on an infeasible combination and take a higher one.
func candidateColorSlots(cfg SlotConfig) ([]colorSlot, error) {
	slots, err := GenerateSlots(cfg.Start, cfg.End, cfg.Step, cfg.Step)
	if err != nil {
		return nil, err
	}

	combos := make([]colorSlot, 0, len(Weekdays)*len(slots))
	for _, day := range Weekdays {
		for _, start := range slots {
			combos = append(combos, colorSlot{day: day, start: start})
		}
	}
	return combos, nil
}

// overflowsWindow reports whether [start,end) runs past the
// configured working window. Candidate colors are generated at
// step-duration start times; a session's true duration can push its
// end past SLOT_END, so the feasibility check prunes that color for
// this node rather than assuming step-sized sessions throughout.
func overflowsWindow(start, end string, cfg SlotConfig) bool {
	endMin, err := minutesSinceMidnight(end)
	if err != nil {
		return true
	}
	windowEnd, err := minutesSinceMidnight(cfg.End)
	if err != nil {
		return true
	}
	return endMin > windowEnd
}

func sortedByCapacity(classrooms []Classroom) []Classroom {
	sorted := make([]Classroom, len(classrooms))
	copy(sorted, classrooms)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Capacity < sorted[j].Capacity })
	return sorted
}
