package sysreg

import "testing"

type recordingSystem struct {
	name string
	log  *[]string
}

func (s recordingSystem) Update(tick uint64) {
	*s.log = append(*s.log, s.name)
}

func TestBuild_RespectsDependencyOrder(t *testing.T) {
	var log []string
	r := NewRegistry()
	r.Declare(Declaration{Name: "b", DependsOn: []string{"a"}, Factory: func(any) System {
		return recordingSystem{name: "b", log: &log}
	}})
	r.Declare(Declaration{Name: "a", Factory: func(any) System {
		return recordingSystem{name: "a", log: &log}
	}})
	r.Declare(Declaration{Name: "c", DependsOn: []string{"b"}, Factory: func(any) System {
		return recordingSystem{name: "c", log: &log}
	}})

	pipeline, err := Build(r, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pipeline.RunOnce(1)

	want := []string{"a", "b", "c"}
	if len(log) != len(want) {
		t.Fatalf("got %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("got %v, want %v", log, want)
		}
	}
}

func TestBuild_DetectsCycle(t *testing.T) {
	r := NewRegistry()
	r.Declare(Declaration{Name: "x", DependsOn: []string{"y"}, Factory: func(any) System { return barrierSystem{} }})
	r.Declare(Declaration{Name: "y", DependsOn: []string{"x"}, Factory: func(any) System { return barrierSystem{} }})

	_, err := Build(r, nil)
	if err == nil {
		t.Fatal("expected cycle error")
	}
	if _, ok := err.(*CycleError); !ok {
		t.Fatalf("expected *CycleError, got %T: %v", err, err)
	}
}

func TestBuild_RejectsUndeclaredDependency(t *testing.T) {
	r := NewRegistry()
	r.Declare(Declaration{Name: "a", DependsOn: []string{"ghost"}, Factory: func(any) System { return barrierSystem{} }})

	_, err := Build(r, nil)
	if err == nil {
		t.Fatal("expected undeclared-dependency error")
	}
	if _, ok := err.(*UndeclaredDependencyError); !ok {
		t.Fatalf("expected *UndeclaredDependencyError, got %T: %v", err, err)
	}
}

func TestBuild_DropsDisabledSystem(t *testing.T) {
	var log []string
	r := NewRegistry()
	r.Declare(Declaration{
		Name:    "ai",
		Factory: func(any) System { return recordingSystem{name: "ai", log: &log} },
		Enabled: func() bool { return false },
	})

	pipeline, err := Build(r, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pipeline.RunOnce(1)
	if len(log) != 0 {
		t.Fatalf("disabled system ran: %v", log)
	}
	if len(pipeline.Names()) != 0 {
		t.Fatalf("disabled system present in pipeline: %v", pipeline.Names())
	}
}

func TestDeclareBarriers_ProducesCanonicalLayering(t *testing.T) {
	r := NewRegistry()
	DeclareBarriers(r)

	pipeline, err := Build(r, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := pipeline.Names()
	if len(names) != len(phaseOrder) {
		t.Fatalf("got %d phases, want %d", len(names), len(phaseOrder))
	}
	for i, want := range phaseOrder {
		if names[i] != want {
			t.Fatalf("phase %d: got %q, want %q", i, names[i], want)
		}
	}
}
