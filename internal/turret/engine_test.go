package turret

import (
	"math/rand"
	"testing"

	"swarmsim/internal/telemetry"
	"swarmsim/internal/world"
)

func testWorld(t *testing.T, obstacles ...world.Obstacle) *world.World {
	t.Helper()
	w, err := world.New(world.Bounds{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}, obstacles)
	if err != nil {
		t.Fatalf("world.New returned error: %v", err)
	}
	return w
}

func drone(id int, x, y float64) *telemetry.Drone {
	return &telemetry.Drone{
		ID:       id,
		Position: world.Vec2{X: x, Y: y},
		Alive:    true,
		Status:   telemetry.StatusMoving,
		Fuel:     100,
		TargetID: telemetry.NoTarget,
	}
}

func TestGuaranteedKill(t *testing.T) {
	tur := &Turret{ID: 0, Position: world.Vec2{X: 50, Y: 50}, DetectionRadius: 20, BaseHitProb: 1.0, Falloff: FalloffNone, CooldownTicks: 8}
	eng := NewEngine([]*Turret{tur})
	d := drone(0, 55, 50)
	w := testWorld(t)

	events := eng.Step(rand.New(rand.NewSource(1)), w, []*telemetry.Drone{d}, 1)
	if len(events) != 1 {
		t.Fatalf("Expected 1 engagement, got %d", len(events))
	}
	if !events[0].Killed {
		t.Errorf("Expected a kill with hit probability 1.0")
	}
	if d.Alive || d.Status != telemetry.StatusDestroyed {
		t.Errorf("Expected drone destroyed, got alive=%v status=%s", d.Alive, d.Status)
	}
	if tur.Cooldown() != 8 {
		t.Errorf("Expected cooldown 8 after a kill, got %d", tur.Cooldown())
	}
}

func TestCooldownGating(t *testing.T) {
	tur := &Turret{ID: 0, Position: world.Vec2{X: 50, Y: 50}, DetectionRadius: 20, BaseHitProb: 1.0, Falloff: FalloffNone, CooldownTicks: 3}
	eng := NewEngine([]*Turret{tur})
	w := testWorld(t)
	drones := []*telemetry.Drone{drone(0, 52, 50), drone(1, 55, 50)}
	rng := rand.New(rand.NewSource(1))

	events := eng.Step(rng, w, drones, 1)
	if len(events) != 1 || !events[0].Killed || events[0].DroneID != 0 {
		t.Fatalf("Expected kill of drone 0 at tick 1, got %+v", events)
	}

	// Cooling ticks: no engagements, and no randomness consumed.
	before := rng.Float64()
	rng = rand.New(rand.NewSource(1))
	rng.Float64() // replay the tick-1 draw
	for tick := int64(2); tick <= 4; tick++ {
		if ev := eng.Step(rng, w, drones, tick); len(ev) != 0 {
			t.Fatalf("Expected no engagements while cooling at tick %d, got %+v", tick, ev)
		}
	}
	if got := rng.Float64(); got != before {
		t.Errorf("Cooling turret consumed randomness: expected draw %v, got %v", before, got)
	}

	rng = rand.New(rand.NewSource(1))
	events = eng.Step(rng, w, drones, 5)
	if len(events) != 1 || events[0].DroneID != 1 {
		t.Fatalf("Expected engagement of drone 1 at tick 5, got %+v", events)
	}
}

func TestSelectNearestDrone(t *testing.T) {
	tur := &Turret{ID: 0, Position: world.Vec2{X: 50, Y: 50}, DetectionRadius: 20, BaseHitProb: 0, Falloff: FalloffNone}
	eng := NewEngine([]*Turret{tur})
	w := testWorld(t)
	drones := []*telemetry.Drone{drone(0, 60, 50), drone(1, 53, 50), drone(2, 80, 50)}

	events := eng.Step(rand.New(rand.NewSource(1)), w, drones, 1)
	if len(events) != 1 {
		t.Fatalf("Expected 1 engagement, got %d", len(events))
	}
	if events[0].DroneID != 1 {
		t.Errorf("Expected nearest drone 1, got %d", events[0].DroneID)
	}
	if events[0].Killed {
		t.Errorf("Expected a miss with zero hit probability")
	}
}

func TestTiebreakLowestID(t *testing.T) {
	tur := &Turret{ID: 0, Position: world.Vec2{X: 50, Y: 50}, DetectionRadius: 20, BaseHitProb: 0, Falloff: FalloffNone}
	eng := NewEngine([]*Turret{tur})
	w := testWorld(t)
	// Equidistant drones, listed out of ID order.
	drones := []*telemetry.Drone{drone(2, 55, 50), drone(1, 45, 50)}

	events := eng.Step(rand.New(rand.NewSource(1)), w, drones, 1)
	if len(events) != 1 || events[0].DroneID != 1 {
		t.Fatalf("Expected lowest-ID drone 1 on distance tie, got %+v", events)
	}
}

func TestLineOfSightBlocksSelection(t *testing.T) {
	blocker := world.Obstacle{ID: 0, Center: world.Vec2{X: 55, Y: 50}, Radius: 2, BlocksLOS: true}
	w := testWorld(t, blocker)
	tur := &Turret{ID: 0, Position: world.Vec2{X: 50, Y: 50}, DetectionRadius: 20, BaseHitProb: 0, Falloff: FalloffNone}
	eng := NewEngine([]*Turret{tur})
	// Drone 0 is nearest but hidden behind the obstacle; drone 1 is visible.
	drones := []*telemetry.Drone{drone(0, 60, 50), drone(1, 50, 60)}

	events := eng.Step(rand.New(rand.NewSource(1)), w, drones, 1)
	if len(events) != 1 || events[0].DroneID != 1 {
		t.Fatalf("Expected visible drone 1, got %+v", events)
	}
}

func TestInactiveDronesIgnored(t *testing.T) {
	tur := &Turret{ID: 0, Position: world.Vec2{X: 50, Y: 50}, DetectionRadius: 20, BaseHitProb: 1.0, Falloff: FalloffNone}
	eng := NewEngine([]*Turret{tur})
	w := testWorld(t)
	dead := drone(0, 52, 50)
	dead.Alive = false
	dry := drone(1, 53, 50)
	dry.Status = telemetry.StatusNoFuel

	if events := eng.Step(rand.New(rand.NewSource(1)), w, []*telemetry.Drone{dead, dry}, 1); len(events) != 0 {
		t.Errorf("Expected no engagements against inactive drones, got %+v", events)
	}
}

func TestOutOfRangeIgnored(t *testing.T) {
	tur := &Turret{ID: 0, Position: world.Vec2{X: 50, Y: 50}, DetectionRadius: 10, BaseHitProb: 1.0, Falloff: FalloffNone}
	eng := NewEngine([]*Turret{tur})
	w := testWorld(t)

	if events := eng.Step(rand.New(rand.NewSource(1)), w, []*telemetry.Drone{drone(0, 80, 50)}, 1); len(events) != 0 {
		t.Errorf("Expected no engagements beyond detection radius, got %+v", events)
	}
}

func TestHitProbabilityFalloff(t *testing.T) {
	linear := &Turret{DetectionRadius: 20, BaseHitProb: 0.8, Falloff: FalloffLinear}
	if got := linear.HitProbability(0); got != 0.8 {
		t.Errorf("Expected base probability at zero distance, got %v", got)
	}
	if got := linear.HitProbability(10); got != 0.4 {
		t.Errorf("Expected half probability at half radius, got %v", got)
	}
	if got := linear.HitProbability(25); got != 0 {
		t.Errorf("Expected zero probability beyond radius, got %v", got)
	}

	flat := &Turret{DetectionRadius: 20, BaseHitProb: 0.8, Falloff: FalloffNone}
	if got := flat.HitProbability(19); got != 0.8 {
		t.Errorf("Expected flat probability inside radius, got %v", got)
	}
}

func TestEngineOrdersTurretsByID(t *testing.T) {
	eng := NewEngine([]*Turret{
		{ID: 2, Position: world.Vec2{X: 10, Y: 10}, DetectionRadius: 5, BaseHitProb: 0, Falloff: FalloffNone},
		{ID: 0, Position: world.Vec2{X: 20, Y: 20}, DetectionRadius: 5, BaseHitProb: 0, Falloff: FalloffNone},
		{ID: 1, Position: world.Vec2{X: 30, Y: 30}, DetectionRadius: 5, BaseHitProb: 0, Falloff: FalloffNone},
	})
	for i, tur := range eng.Turrets {
		if tur.ID != i {
			t.Fatalf("Expected turret %d at index %d, got %d", i, i, tur.ID)
		}
	}
}

func TestReset(t *testing.T) {
	tur := &Turret{ID: 0, Position: world.Vec2{X: 50, Y: 50}, DetectionRadius: 20, BaseHitProb: 1.0, Falloff: FalloffNone, CooldownTicks: 8}
	eng := NewEngine([]*Turret{tur})
	w := testWorld(t)
	eng.Step(rand.New(rand.NewSource(1)), w, []*telemetry.Drone{drone(0, 52, 50)}, 1)
	if tur.Cooldown() == 0 {
		t.Fatalf("Expected cooldown after a kill")
	}
	eng.Reset()
	if !tur.Ready() {
		t.Errorf("Expected turret ready after reset")
	}
}
