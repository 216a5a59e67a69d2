package badge

import "testing"

func TestProgressPercent(t *testing.T) {
	played10 := Definition{ID: "regular", ConditionType: ConditionSessionsPlayed, ConditionValue: 10}
	founder := Definition{ID: "founder-100", ConditionType: ConditionSignupSequenceNumber, ConditionValue: 100}

	tests := []struct {
		name    string
		def     Definition
		current int64
		want    int
	}{
		{name: "zero", def: played10, current: 0, want: 0},
		{name: "rounds half up", def: played10, current: 3, want: 30},
		{name: "caps at 100", def: played10, current: 25, want: 100},
		{name: "rounding", def: Definition{ConditionType: ConditionSessionsPlayed, ConditionValue: 3}, current: 2, want: 67},
		{name: "inverted qualified", def: founder, current: 42, want: 100},
		{name: "inverted not qualified", def: founder, current: 4200, want: 0},
		{name: "non positive target", def: Definition{ConditionType: ConditionReferralCount}, current: 0, want: 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ProgressPercent(tc.def, tc.current); got != tc.want {
				t.Fatalf("got %d want %d", got, tc.want)
			}
		})
	}
}

func TestEvaluate_FounderQualifiesImmediately(t *testing.T) {
	defs := []Definition{{ID: "founder-100", ConditionType: ConditionSignupSequenceNumber, ConditionValue: 100}}

	results := Evaluate(Counters{ConditionSignupSequenceNumber: 42}, defs, nil)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].State != StateNewlyEarned || results[0].Progress != 100 {
		t.Fatalf("expected newly earned at 100%%, got %+v", results[0])
	}
}

func TestEvaluate_IsIdempotentGivenHeldSet(t *testing.T) {
	defs := DefaultCatalog()
	counters := Counters{
		ConditionSessionsPlayed:       12,
		ConditionSessionsOrganized:    0,
		ConditionReferralCount:        1,
		ConditionCurrentStreak:        0,
		ConditionSignupSequenceNumber: 5000,
	}

	first := NewlyEarned(Evaluate(counters, defs, nil))
	gotIDs := make(map[string]struct{}, len(first))
	for _, def := range first {
		gotIDs[def.ID] = struct{}{}
	}
	if len(gotIDs) != 2 {
		t.Fatalf("expected first-whistle and regular, got %v", gotIDs)
	}
	for _, id := range []string{"first-whistle", "regular"} {
		if _, ok := gotIDs[id]; !ok {
			t.Fatalf("expected %s to be newly earned", id)
		}
	}

	second := Evaluate(counters, defs, gotIDs)
	if again := NewlyEarned(second); len(again) != 0 {
		t.Fatalf("expected nothing new on re-evaluation, got %v", again)
	}
	for _, r := range second {
		if _, held := gotIDs[r.Definition.ID]; held && r.State != StateAlreadyHeld {
			t.Fatalf("expected %s reported as already held, got %s", r.Definition.ID, r.State)
		}
	}
}

func TestEvaluate_UnknownCounterNeverQualifies(t *testing.T) {
	defs := []Definition{{ID: "mystery", ConditionType: "karma", ConditionValue: 0}}
	results := Evaluate(Counters{}, defs, nil)
	if results[0].State != StateNotQualified {
		t.Fatalf("expected unknown counter to stay unqualified, got %s", results[0].State)
	}
}

func TestQualifies_InvertedRejectsUnassignedSequence(t *testing.T) {
	founder := Definition{ConditionType: ConditionSignupSequenceNumber, ConditionValue: 100}
	if Qualifies(founder, 0) {
		t.Fatalf("sequence 0 means unassigned and must not qualify")
	}
	if !Qualifies(founder, 100) {
		t.Fatalf("threshold itself must qualify")
	}
}
