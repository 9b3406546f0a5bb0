package admission

import (
	"testing"
	"time"
)

func newTestPipeline(t *testing.T, clock Clock) *Pipeline {
	t.Helper()
	origin, err := NewOriginValidator("https://app.example")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pipeline, err := NewPipeline(origin, NewFixedWindowStore(clock), NewSlidingWindowStore(clock), DefaultRules())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return pipeline
}

func TestPipeline_OriginGate(t *testing.T) {
	t.Parallel()

	pipeline := newTestPipeline(t, SystemClock{})

	if _, err := pipeline.CheckOrigin("POST", "https://evil.example", "", "app.example"); CodeOf(err) != CodeOriginRejected {
		t.Fatalf("expected origin rejection, got %v", err)
	}
	if _, err := pipeline.CheckOrigin("POST", "https://app.example", "", "app.example"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPipeline_IPGateRejectsWithRuleMessage(t *testing.T) {
	t.Parallel()

	clock := &FakeClock{Current: time.UnixMilli(0)}
	pipeline := newTestPipeline(t, clock)

	for i := 0; i < 5; i++ {
		if _, err := pipeline.AllowIP("203.0.113.9", ClassMutation); err != nil {
			t.Fatalf("request %d should pass: %v", i+1, err)
		}
	}
	decision, err := pipeline.AllowIP("203.0.113.9", ClassMutation)
	if CodeOf(err) != CodeRateLimited {
		t.Fatalf("expected rate limit rejection, got %v", err)
	}
	if decision.Remaining != 0 {
		t.Fatalf("rejected decision should report zero remaining: %#v", decision)
	}

	// A different IP does not share the window.
	if _, err := pipeline.AllowIP("203.0.113.10", ClassMutation); err != nil {
		t.Fatalf("unrelated key should not be limited: %v", err)
	}
}

func TestPipeline_SubjectGateChargesOnlyOnRecord(t *testing.T) {
	t.Parallel()

	clock := &FakeClock{Current: time.UnixMilli(0)}
	pipeline := newTestPipeline(t, clock)
	caller := Identity{Kind: KindAuthenticated, Subject: "user-1"}

	for i := 0; i < 30; i++ {
		if _, err := pipeline.CheckSubject(caller, ClassPlaces); err != nil {
			t.Fatalf("check must not consume quota: %v", err)
		}
	}
	for i := 0; i < 10; i++ {
		pipeline.RecordSubject(caller, ClassPlaces)
	}
	if _, err := pipeline.CheckSubject(caller, ClassPlaces); CodeOf(err) != CodeRateLimited {
		t.Fatalf("expected quota exhaustion, got %v", err)
	}
}

func TestPipeline_OwnershipGate(t *testing.T) {
	t.Parallel()

	pipeline := newTestPipeline(t, SystemClock{})
	owner := Identity{Kind: KindAnonymous, Subject: "token-a"}

	if err := pipeline.CheckOwnership(owner, Identity{Kind: KindAnonymous, Subject: "token-a"}); err != nil {
		t.Fatalf("matching identity should pass: %v", err)
	}
	if err := pipeline.CheckOwnership(owner, Identity{Kind: KindAnonymous, Subject: "token-b"}); CodeOf(err) != CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	// Same subject string in the other namespace is still a mismatch.
	if err := pipeline.CheckOwnership(owner, Identity{Kind: KindAuthenticated, Subject: "token-a"}); CodeOf(err) != CodeForbidden {
		t.Fatalf("identity namespaces must never merge, got %v", err)
	}
}

func TestNewPipeline_ValidatesRules(t *testing.T) {
	t.Parallel()

	origin, err := NewOriginValidator("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ip := NewFixedWindowStore(SystemClock{})
	subjects := NewSlidingWindowStore(SystemClock{})

	bad := map[EndpointClass]Rule{
		ClassMutation: {Class: ClassMutation, MaxRequests: 0, Window: time.Minute},
	}
	if _, err := NewPipeline(origin, ip, subjects, bad); err == nil {
		t.Fatalf("expected error for non-positive max requests")
	}

	bad = map[EndpointClass]Rule{
		ClassMutation: {Class: ClassMutation, MaxRequests: 5, Window: 0},
	}
	if _, err := NewPipeline(origin, ip, subjects, bad); err == nil {
		t.Fatalf("expected error for non-positive window")
	}

	bad = map[EndpointClass]Rule{
		ClassMutation: {Class: ClassGiphy, MaxRequests: 5, Window: time.Minute},
	}
	if _, err := NewPipeline(origin, ip, subjects, bad); err == nil {
		t.Fatalf("expected error for mismatched rule key")
	}

	if _, err := NewPipeline(origin, ip, subjects, nil); err == nil {
		t.Fatalf("expected error for empty rule set")
	}
}

func TestDefaultRules_Valid(t *testing.T) {
	t.Parallel()

	if err := ValidateRules(DefaultRules()); err != nil {
		t.Fatalf("default rules should validate: %v", err)
	}
}
