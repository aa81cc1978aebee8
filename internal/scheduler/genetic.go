package scheduler

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"
)

// Gene is one (course, group, session-index) placement within a
// chromosome.
type Gene struct {
	CourseID       string
	StudentGroupID string
	TeacherID      string
	ClassroomID    string
	Day            Weekday
	StartTime      string
	EndTime        string
	Duration       int
}

// Chromosome is an ordered sequence of genes, one per required session,
// in the same fixed position across the population.
type Chromosome []Gene

// GeneticConfig controls the generational loop. Zero values fall back
// to defaults tuned for the default slot window.
type GeneticConfig struct {
	PopulationSize int
	MaxGenerations int
	CrossoverRate  float64
	MutationRate   float64
	ElitismRate    float64
	Rand           *rand.Rand
	Slots          SlotConfig
}

func (c GeneticConfig) withDefaults() GeneticConfig {
	if c.PopulationSize <= 0 {
		c.PopulationSize = 50
	}
	if c.MaxGenerations <= 0 {
		c.MaxGenerations = 200
	}
	if c.CrossoverRate <= 0 {
		c.CrossoverRate = 0.8
	}
	if c.MutationRate <= 0 {
		c.MutationRate = 0.1
	}
	if c.ElitismRate <= 0 {
		c.ElitismRate = 0.1
	}
	c.Slots = c.Slots.withDefaults()
	return c
}

// FitnessBreakdown is the scored state of one chromosome.
type FitnessBreakdown struct {
	Fitness   float64
	Conflicts []string
	Hard      int
	Soft      int
}

// GeneticResult is the output of the genetic optimizer.
type GeneticResult struct {
	Schedule       []Entry
	Fitness        FitnessBreakdown
	Generations    int
	PopulationSize int
	Unschedulable  []UnscheduledSession
}

const stagnationLimit = 20

// GenerateGenetic evolves a population of random chromosomes toward a
// low-conflict schedule. It never consults persisted state: every gene
// is evaluated against the rest of its own chromosome only.
func GenerateGenetic(ctx context.Context, input GreedyInput, cfg GeneticConfig) (*GeneticResult, error) {
	cfg = cfg.withDefaults()

	allSessions, allCourseByIndex, allGroupByIndex := expandSessions(input)
	if len(allSessions) == 0 {
		return &GeneticResult{PopulationSize: cfg.PopulationSize}, nil
	}

	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	slotsByCourse := map[string][]string{}
	for _, course := range input.Courses {
		slots, err := GenerateSlots(cfg.Slots.Start, cfg.Slots.End, cfg.Slots.Step, course.Duration)
		if err != nil {
			return nil, fmt.Errorf("generate slots for course %s: %w", course.ID, err)
		}
		slotsByCourse[course.ID] = slots
	}

	classroomsByID := map[string]Classroom{}
	for _, cl := range input.Classrooms {
		classroomsByID[cl.ID] = cl
	}

	classroomsForGroup := func(group StudentGroup) []Classroom {
		var fit []Classroom
		for _, cl := range input.Classrooms {
			if cl.Capacity >= group.Size {
				fit = append(fit, cl)
			}
		}
		return fit
	}

	// Sessions with no slot fitting their duration, or no classroom
	// meeting their group's capacity, are unschedulable: they are
	// excluded from every chromosome rather than given an invalid gene.
	var sessions []session
	courseByIndex := map[int]Course{}
	groupByIndex := map[int]StudentGroup{}
	var unschedulable []UnscheduledSession
	for _, s := range allSessions {
		course := allCourseByIndex[s.index]
		group := allGroupByIndex[s.index]
		switch {
		case len(slotsByCourse[course.ID]) == 0:
			unschedulable = append(unschedulable, UnscheduledSession{
				CourseID: course.ID, StudentGroupID: group.ID, SessionIndex: s.index,
				LastConflicts: []Conflict{{Kind: NotAvailable, Message: "no slot in the working window fits this course's duration"}},
			})
		case len(classroomsForGroup(group)) == 0:
			unschedulable = append(unschedulable, UnscheduledSession{
				CourseID: course.ID, StudentGroupID: group.ID, SessionIndex: s.index,
				LastConflicts: []Conflict{{Kind: CapExceeded, Message: "no classroom meets this group's capacity"}},
			})
		default:
			idx := len(sessions)
			sessions = append(sessions, s)
			courseByIndex[idx] = course
			groupByIndex[idx] = group
		}
	}
	if len(sessions) == 0 {
		return &GeneticResult{PopulationSize: cfg.PopulationSize, Unschedulable: unschedulable}, nil
	}

	randomGene := func(idx int) Gene {
		course := courseByIndex[idx]
		group := groupByIndex[idx]
		slots := slotsByCourse[course.ID]
		day := Weekdays[rng.Intn(len(Weekdays))]
		start := slots[rng.Intn(len(slots))]
		fit := classroomsForGroup(group)
		classroom := fit[rng.Intn(len(fit))]
		return Gene{
			CourseID:       course.ID,
			StudentGroupID: group.ID,
			TeacherID:      course.TeacherID,
			ClassroomID:    classroom.ID,
			Day:            day,
			StartTime:      start,
			EndTime:        EndOf(start, course.Duration),
			Duration:       course.Duration,
		}
	}

	evaluate := func(chrom Chromosome) FitnessBreakdown {
		entries := make([]Entry, len(chrom))
		for i, g := range chrom {
			entries[i] = Entry{
				CourseID: g.CourseID, StudentGroupID: g.StudentGroupID,
				TeacherID: g.TeacherID, ClassroomID: g.ClassroomID,
				Day: g.Day, StartTime: g.StartTime, EndTime: g.EndTime,
			}
		}

		var allConflicts []Conflict
		for i, g := range chrom {
			pending := make([]Entry, 0, len(entries)-1)
			for j, e := range entries {
				if j != i {
					pending = append(pending, e)
				}
			}

			candidate := Candidate{
				CourseID: g.CourseID, StudentGroupID: g.StudentGroupID,
				TeacherID: g.TeacherID, ClassroomID: g.ClassroomID,
				Day: g.Day, StartTime: g.StartTime, EndTime: g.EndTime,
			}
			entities := Entities{Names: input.Names}
			if teacher, ok := input.Teachers[g.TeacherID]; ok {
				entities.Teacher = &teacher
			}
			if classroom, ok := classroomsByID[g.ClassroomID]; ok {
				entities.Classroom = &classroom
			}
			if group, ok := input.StudentGroups[g.StudentGroupID]; ok {
				entities.Group = &group
			}

			conflicts := CheckConflictsInMemory(candidate, nil, pending, entities, cfg.Slots.Caps)
			allConflicts = append(allConflicts, conflicts...)
		}

		hard, soft := 0, 0
		for _, c := range allConflicts {
			if c.Kind.IsHard() {
				hard++
			} else {
				soft++
			}
		}

		fitness := 1000*float64(hard) + 100*float64(soft) + 10*dayVariance(chrom) + 5*teacherWorkloadVariance(chrom)
		return FitnessBreakdown{Fitness: fitness, Conflicts: Messages(allConflicts), Hard: hard, Soft: soft}
	}

	population := make([]Chromosome, cfg.PopulationSize)
	for i := range population {
		chrom := make(Chromosome, len(sessions))
		for g := range sessions {
			chrom[g] = randomGene(g)
		}
		population[i] = chrom
	}

	eliteCount := int(math.Floor(float64(cfg.PopulationSize) * cfg.ElitismRate))

	var best Chromosome
	bestFitness := FitnessBreakdown{Fitness: math.Inf(1)}
	stagnant := 0
	generations := 0

	for gen := 0; gen < cfg.MaxGenerations; gen++ {
		generations = gen + 1
		if err := ctx.Err(); err != nil {
			break
		}

		type scoredChromosome struct {
			chrom Chromosome
			fit   FitnessBreakdown
		}
		scored := make([]scoredChromosome, len(population))
		for i, chrom := range population {
			scored[i] = scoredChromosome{chrom: chrom, fit: evaluate(chrom)}
		}
		sort.Slice(scored, func(a, b int) bool { return scored[a].fit.Fitness < scored[b].fit.Fitness })

		if scored[0].fit.Fitness < bestFitness.Fitness {
			best = scored[0].chrom
			bestFitness = scored[0].fit
			stagnant = 0
		} else {
			stagnant++
		}

		if stagnant >= stagnationLimit && bestFitness.Fitness < 100 {
			break
		}

		pool := make([]Chromosome, len(scored))
		poolFit := make([]float64, len(scored))
		for i, s := range scored {
			pool[i] = s.chrom
			poolFit[i] = s.fit.Fitness
		}

		next := make([]Chromosome, 0, cfg.PopulationSize)
		for i := 0; i < eliteCount && i < len(pool); i++ {
			next = append(next, pool[i])
		}

		for len(next) < cfg.PopulationSize {
			p1 := tournamentSelect(pool, poolFit, rng)
			p2 := tournamentSelect(pool, poolFit, rng)
			c1, c2 := crossoverChromosomes(p1, p2, rng, cfg.CrossoverRate)
			c1 = mutateChromosome(c1, courseByIndex, groupByIndex, slotsByCourse, classroomsForGroup, rng, cfg.MutationRate)
			c2 = mutateChromosome(c2, courseByIndex, groupByIndex, slotsByCourse, classroomsForGroup, rng, cfg.MutationRate)
			next = append(next, c1)
			if len(next) < cfg.PopulationSize {
				next = append(next, c2)
			}
		}
		population = next
	}

	return &GeneticResult{
		Schedule:       chromosomeToEntries(best, courseByIndex),
		Fitness:        bestFitness,
		Generations:    generations,
		PopulationSize: cfg.PopulationSize,
		Unschedulable:  unschedulable,
	}, nil
}

func tournamentSelect(pool []Chromosome, poolFit []float64, rng *rand.Rand) Chromosome {
	best := rng.Intn(len(pool))
	for i := 1; i < 3; i++ {
		candidate := rng.Intn(len(pool))
		if poolFit[candidate] < poolFit[best] {
			best = candidate
		}
	}
	return pool[best]
}

func crossoverChromosomes(p1, p2 Chromosome, rng *rand.Rand, rate float64) (Chromosome, Chromosome) {
	c1 := make(Chromosome, len(p1))
	c2 := make(Chromosome, len(p2))
	copy(c1, p1)
	copy(c2, p2)

	minLen := len(p1)
	if len(p2) < minLen {
		minLen = len(p2)
	}
	if minLen == 0 || rng.Float64() >= rate {
		return c1, c2
	}

	cut := rng.Intn(minLen)
	child1 := append(append(Chromosome{}, p1[:cut]...), p2[cut:]...)
	child2 := append(append(Chromosome{}, p2[:cut]...), p1[cut:]...)
	return child1, child2
}

func mutateChromosome(
	chrom Chromosome,
	courseByIndex map[int]Course,
	groupByIndex map[int]StudentGroup,
	slotsByCourse map[string][]string,
	classroomsForGroup func(StudentGroup) []Classroom,
	rng *rand.Rand,
	rate float64,
) Chromosome {
	mutated := make(Chromosome, len(chrom))
	copy(mutated, chrom)

	for i := range mutated {
		if rng.Float64() >= rate {
			continue
		}
		course := courseByIndex[i]
		group := groupByIndex[i]
		switch rng.Intn(3) {
		case 0:
			slots := slotsByCourse[course.ID]
			start := slots[rng.Intn(len(slots))]
			mutated[i].StartTime = start
			mutated[i].EndTime = EndOf(start, course.Duration)
		case 1:
			mutated[i].Day = Weekdays[rng.Intn(len(Weekdays))]
		case 2:
			fit := classroomsForGroup(group)
			mutated[i].ClassroomID = fit[rng.Intn(len(fit))].ID
		}
	}
	return mutated
}

func chromosomeToEntries(chrom Chromosome, courseByIndex map[int]Course) []Entry {
	entries := make([]Entry, len(chrom))
	for i, g := range chrom {
		course := courseByIndex[i]
		entries[i] = Entry{
			CourseID:       g.CourseID,
			StudentGroupID: g.StudentGroupID,
			TeacherID:      g.TeacherID,
			ClassroomID:    g.ClassroomID,
			Day:            g.Day,
			StartTime:      g.StartTime,
			EndTime:        g.EndTime,
			Duration:       g.Duration,
			Semester:       course.Semester,
			AcademicYear:   course.AcademicYear,
		}
	}
	return entries
}

func stddev(counts []int) float64 {
	if len(counts) == 0 {
		return 0
	}
	var sum float64
	for _, c := range counts {
		sum += float64(c)
	}
	mean := sum / float64(len(counts))

	var squares float64
	for _, c := range counts {
		d := float64(c) - mean
		squares += d * d
	}
	return math.Sqrt(squares / float64(len(counts)))
}

func dayVariance(chrom Chromosome) float64 {
	counts := make(map[Weekday]int, len(Weekdays))
	for _, d := range Weekdays {
		counts[d] = 0
	}
	for _, g := range chrom {
		counts[g.Day]++
	}
	values := make([]int, 0, len(Weekdays))
	for _, d := range Weekdays {
		values = append(values, counts[d])
	}
	return stddev(values)
}

func teacherWorkloadVariance(chrom Chromosome) float64 {
	counts := map[string]int{}
	for _, g := range chrom {
		if g.TeacherID != "" {
			counts[g.TeacherID]++
		}
	}
	values := make([]int, 0, len(counts))
	for _, c := range counts {
		values = append(values, c)
	}
	return stddev(values)
}
