package astparser

import "testing"

func TestMergeSpansLabelScopeAcrossFiles(t *testing.T) {
	a, err := parseSource(t, ".org 0x2000\nmain:\n    nop\n")
	if err != nil {
		t.Fatalf("unexpected error parsing file a: %v", err)
	}
	b, err := parseSource(t, ".org 0x3000\nhelper:\n    reti\n")
	if err != nil {
		t.Fatalf("unexpected error parsing file b: %v", err)
	}

	merged, err := Merge(a, b)
	if err != nil {
		t.Fatalf("unexpected merge error: %v", err)
	}
	if len(merged.Statements) != len(a.Statements)+len(b.Statements) {
		t.Fatalf("expected statements concatenated in file order")
	}
	if idx, ok := merged.Labels["main"]; !ok || idx != 1 {
		t.Fatalf("expected main's label index unchanged (file a is first), got %d ok=%v", idx, ok)
	}
	if idx, ok := merged.Labels["helper"]; !ok || idx != len(a.Statements)+1 {
		t.Fatalf("expected helper's label index offset into the merged statement list, got %d ok=%v", idx, ok)
	}
}

func TestMergeRejectsDuplicateLabelAcrossFiles(t *testing.T) {
	a, _ := parseSource(t, "start:\n    nop\n")
	b, _ := parseSource(t, "start:\n    halt\n")
	if _, err := Merge(a, b); err == nil {
		t.Fatalf("expected a duplicate-label error across files")
	}
}

func TestMergeRejectsGlobalExternConflictAcrossFiles(t *testing.T) {
	a, _ := parseSource(t, ".global shared\nshared:\n    nop\n")
	b, _ := parseSource(t, ".extern shared\n")
	if _, err := Merge(a, b); err == nil {
		t.Fatalf("expected a global/extern conflict error across files")
	}
}
