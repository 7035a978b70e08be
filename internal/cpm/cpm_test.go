package cpm

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/joshharrison/netdiagram/internal/graph"
)

type taskDef struct {
	id    string
	dur   int
	preds []string
}

// buildTestGraph adds every task first and then every finish-to-start
// dependency, inside one batch.
func buildTestGraph(t *testing.T, defs ...taskDef) *graph.TaskGraph {
	t.Helper()
	g := graph.New()
	err := g.Batch(func() error {
		for _, d := range defs {
			if err := g.AddTask(graph.TaskID(d.id), d.dur); err != nil {
				return err
			}
		}
		for _, d := range defs {
			for _, p := range d.preds {
				if err := g.AddDependency(graph.TaskID(d.id), graph.TaskID(p), graph.FS, 0); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}
	return g
}

func assertSchedule(t *testing.T, ts *TaskSchedule, es, ef, ls, lf, slack int, critical bool) {
	t.Helper()
	if ts == nil {
		t.Fatal("task schedule is nil")
	}
	if ts.ES != es || ts.EF != ef || ts.LS != ls || ts.LF != lf || ts.Slack != slack {
		t.Errorf("task %s: expected ES=%d EF=%d LS=%d LF=%d slack=%d, got ES=%d EF=%d LS=%d LF=%d slack=%d",
			ts.TaskID, es, ef, ls, lf, slack, ts.ES, ts.EF, ts.LS, ts.LF, ts.Slack)
	}
	if ts.IsCritical != critical {
		t.Errorf("task %s: expected critical=%v, got %v", ts.TaskID, critical, ts.IsCritical)
	}
}

func TestAnalyze_LinearChain(t *testing.T) {
	g := buildTestGraph(t,
		taskDef{id: "A", dur: 5},
		taskDef{id: "B", dur: 3, preds: []string{"A"}},
	)

	result, err := Analyze(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ProjectEnd != 8 {
		t.Errorf("expected project end 8, got %d", result.ProjectEnd)
	}

	assertSchedule(t, result.Tasks["A"], 0, 5, 0, 5, 0, true)
	assertSchedule(t, result.Tasks["B"], 5, 8, 5, 8, 0, true)

	want := [][]string{{"A", "B"}}
	if got := result.PathIDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected paths %v, got %v", want, got)
	}
}

func TestAnalyze_ParallelBranch(t *testing.T) {
	g := buildTestGraph(t,
		taskDef{id: "A", dur: 2},
		taskDef{id: "B", dur: 3, preds: []string{"A"}},
		taskDef{id: "C", dur: 2, preds: []string{"A"}},
	)

	result, err := Analyze(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertSchedule(t, result.Tasks["B"], 2, 5, 2, 5, 0, true)
	assertSchedule(t, result.Tasks["C"], 2, 4, 3, 5, 1, false)

	want := [][]string{{"A", "B"}}
	if got := result.PathIDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected paths %v, got %v", want, got)
	}

	if len(result.Waves) != 2 {
		t.Fatalf("expected 2 waves, got %d", len(result.Waves))
	}
	if !reflect.DeepEqual(result.Waves[1].TaskIDs, []string{"B", "C"}) {
		t.Errorf("expected wave 1 to be [B C], got %v", result.Waves[1].TaskIDs)
	}
}

func TestAnalyze_PredecessorsRendered(t *testing.T) {
	g := graph.New()
	for _, id := range []graph.TaskID{"A", "B", "C"} {
		if err := g.AddTask(id, 1); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.AddDependency("C", "A", graph.SS, 2); err != nil {
		t.Fatal(err)
	}
	if err := g.AddDependency("C", "B", graph.FS, 0); err != nil {
		t.Fatal(err)
	}

	result, err := Analyze(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"A-SS2", "B"}
	if got := result.Tasks["C"].Predecessors; !reflect.DeepEqual(got, want) {
		t.Errorf("expected predecessors %v, got %v", want, got)
	}
}

func TestCriticalPaths_FanOutFanIn(t *testing.T) {
	g := buildTestGraph(t,
		taskDef{id: "A"},
		taskDef{id: "B"},
		taskDef{id: "C", preds: []string{"A", "B"}},
		taskDef{id: "D", preds: []string{"A", "B"}},
		taskDef{id: "E", preds: []string{"A", "B", "C", "D"}},
		taskDef{id: "F", preds: []string{"A", "B", "C", "D"}},
	)

	paths := CriticalPaths(g)
	if len(paths) != 8 {
		t.Fatalf("expected 8 critical paths, got %d: %v", len(paths), paths)
	}

	seen := make(map[string]bool)
	for _, p := range paths {
		ids := p.IDs()
		if len(ids) != 3 {
			t.Errorf("expected path of length 3, got %v", ids)
			continue
		}
		if !strings.Contains("AB", ids[0]) || !strings.Contains("CD", ids[1]) || !strings.Contains("EF", ids[2]) {
			t.Errorf("unexpected path shape %v", ids)
		}
		seen[p.String()] = true
	}
	if len(seen) != 8 {
		t.Errorf("expected 8 distinct paths, got %d", len(seen))
	}
}

func TestCriticalPaths_Fork(t *testing.T) {
	g := buildTestGraph(t,
		taskDef{id: "A"},
		taskDef{id: "B", preds: []string{"A"}},
		taskDef{id: "C", preds: []string{"A"}},
	)

	want := [][]string{{"A", "B"}, {"A", "C"}}
	result, err := Analyze(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.PathIDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected paths %v, got %v", want, got)
	}
}

func TestCriticalPaths_Diamond(t *testing.T) {
	g := buildTestGraph(t,
		taskDef{id: "A"},
		taskDef{id: "B", preds: []string{"A"}},
		taskDef{id: "C", preds: []string{"A", "B"}},
		taskDef{id: "D", preds: []string{"A"}},
		taskDef{id: "E", preds: []string{"A", "D"}},
	)

	want := [][]string{
		{"A", "B", "C"},
		{"A", "D", "E"},
		{"A", "C"},
		{"A", "B", "E"},
		{"A", "E"},
	}
	var got [][]string
	for _, p := range CriticalPaths(g) {
		got = append(got, p.IDs())
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected paths %v, got %v", want, got)
	}
}

func TestCriticalPaths_Transitive(t *testing.T) {
	g := buildTestGraph(t,
		taskDef{id: "A", dur: 1},
		taskDef{id: "B", dur: 1, preds: []string{"A"}},
		taskDef{id: "C", dur: 1, preds: []string{"A", "B"}},
	)

	paths := CriticalPaths(g)
	if len(paths) != 1 || paths[0].String() != "A -> B -> C" {
		t.Errorf("expected single path A -> B -> C, got %v", paths)
	}
}

func TestCriticalPaths_SingleTask(t *testing.T) {
	g := buildTestGraph(t, taskDef{id: "A", dur: 4})

	paths := CriticalPaths(g)
	if len(paths) != 1 || !reflect.DeepEqual(paths[0].IDs(), []string{"A"}) {
		t.Errorf("expected [[A]], got %v", paths)
	}
}

func TestCriticalPaths_EmptyGraph(t *testing.T) {
	if paths := CriticalPaths(graph.New()); len(paths) != 0 {
		t.Errorf("expected no paths, got %v", paths)
	}
}

func TestWaves_CriticalFirst(t *testing.T) {
	g := buildTestGraph(t,
		taskDef{id: "A", dur: 1},
		taskDef{id: "B", dur: 1},
		taskDef{id: "C", dur: 3},
		taskDef{id: "D", dur: 1, preds: []string{"A", "B", "C"}},
	)

	result, err := Analyze(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Waves) != 2 {
		t.Fatalf("expected 2 waves, got %d", len(result.Waves))
	}

	first := result.Waves[0]
	if !reflect.DeepEqual(first.TaskIDs, []string{"C", "A", "B"}) {
		t.Errorf("expected wave 0 to be [C A B], got %v", first.TaskIDs)
	}
	if !first.IsCritical {
		t.Error("expected wave 0 to be critical")
	}
	if result.Waves[1].Start != 3 {
		t.Errorf("expected wave 1 to start at 3, got %d", result.Waves[1].Start)
	}
	if result.Tasks["D"].Wave != 1 {
		t.Errorf("expected D in wave 1, got %d", result.Tasks["D"].Wave)
	}
}

func TestPath_Immutable(t *testing.T) {
	g := buildTestGraph(t,
		taskDef{id: "A", dur: 1},
		taskDef{id: "B", dur: 1, preds: []string{"A"}},
	)
	a, _ := g.Task("A")
	b, _ := g.Task("B")

	p := NewPath(a)
	q := p.Append(b)
	if p.Len() != 1 || q.Len() != 2 {
		t.Errorf("expected lengths 1 and 2, got %d and %d", p.Len(), q.Len())
	}
	if r := q.DropLast(); r.Len() != 1 || q.Len() != 2 {
		t.Errorf("DropLast modified its receiver")
	}
	if !q.Contains("B") || p.Contains("B") {
		t.Error("unexpected Contains result")
	}
	if q.Last().ID() != "B" {
		t.Errorf("expected last task B, got %s", q.Last().ID())
	}
}

func TestResult_MarshalJSON(t *testing.T) {
	g := buildTestGraph(t,
		taskDef{id: "A", dur: 2},
		taskDef{id: "B", dur: 3, preds: []string{"A"}},
	)
	result, err := Analyze(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded struct {
		ProjectEnd    int            `json:"project_end"`
		Tasks         []TaskSchedule `json:"tasks"`
		CriticalPaths [][]string     `json:"critical_paths"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.ProjectEnd != 5 {
		t.Errorf("expected project_end 5, got %d", decoded.ProjectEnd)
	}
	if len(decoded.Tasks) != 2 || decoded.Tasks[0].TaskID != "A" {
		t.Errorf("expected tasks in insertion order, got %+v", decoded.Tasks)
	}
	if !reflect.DeepEqual(decoded.CriticalPaths, [][]string{{"A", "B"}}) {
		t.Errorf("unexpected critical paths %v", decoded.CriticalPaths)
	}
}
